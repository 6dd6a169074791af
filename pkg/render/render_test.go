package render

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/hpcops/slurmbridge/pkg/slurm"
	"github.com/hpcops/slurmbridge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func partitionMap(parts ...*types.Partition) *types.PartitionMap {
	m := types.NewPartitionMap()
	for _, p := range parts {
		m.Add(p)
	}
	return m
}

func hpcPartition() *types.Partition {
	return &types.Partition{
		Name:            "hpc",
		Nodearray:       "hpc",
		MachineType:     "Standard_F4",
		IsDefault:       true,
		MaxScalesetSize: 5,
		VCPUCount:       4,
		Memory:          7.5,
		MaxVMCount:      12,
		NodeList:        "hpc-1,hpc-2,hpc-3,hpc-10,hpc-11",
	}
}

func TestWriteSlurmConfWorkedExample(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSlurmConf(context.Background(), &buf, partitionMap(hpcPartition()), slurm.FakeCodec{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4) // 1 partition line + 3 placement groups for 12/5

	assert.Equal(t, "PartitionName=hpc Nodes=hpc-1,hpc-2,hpc-3,hpc-10,hpc-11 Default=YES MaxTime=INFINITE State=UP", lines[0])
	// Nodes are sorted by trailing index before slicing, and the live
	// nodes only reach into the first placement group.
	assert.Equal(t, "Nodename=hpc-1,hpc-2,hpc-3,hpc-10,hpc-11 Feature=cloud STATE=CLOUD CPUs=4 RealMemory=7680", lines[1])
	assert.Equal(t, "Nodename= Feature=cloud STATE=CLOUD CPUs=4 RealMemory=7680", lines[2])
	assert.Equal(t, "Nodename= Feature=cloud STATE=CLOUD CPUs=4 RealMemory=7680", lines[3])
}

func TestWriteSlurmConfNonDefaultPartitionAndMemoryFloor(t *testing.T) {
	p := hpcPartition()
	p.IsDefault = false
	p.Memory = 3.9
	p.NodeList = ""
	p.MaxVMCount = 2

	var buf bytes.Buffer
	err := WriteSlurmConf(context.Background(), &buf, partitionMap(p), slurm.FakeCodec{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "PartitionName=hpc Nodes= Default=NO MaxTime=INFINITE State=UP", lines[0])
	assert.Contains(t, lines[1], "RealMemory=3993") // floor(3.9*1024)
}

func TestSortByNodeIndex(t *testing.T) {
	names := []string{"hpc-10", "hpc-2", "hpc-1", "login", "hpc-9"}
	sortByNodeIndex(names)
	assert.Equal(t, []string{"hpc-1", "hpc-2", "hpc-9", "hpc-10", "login"}, names)
}

func TestWriteTopologyWorkedExample(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTopology(&buf, partitionMap(hpcPartition()))
	require.NoError(t, err)

	expected := strings.Join([]string{
		"SwitchName=hpc-hpc Switches=hpc-hpc-Standard_F4-pg[0-2]",
		"SwitchName=hpc-hpc-Standard_F4-pg0 Nodes=hpc-[1-5]",
		"SwitchName=hpc-hpc-Standard_F4-pg1 Nodes=hpc-[6-10]",
		"SwitchName=hpc-hpc-Standard_F4-pg2 Nodes=hpc-[11-12]",
	}, "\n") + "\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteTopologyMultiplePartitions(t *testing.T) {
	second := &types.Partition{
		Name:            "htc",
		Nodearray:       "htc",
		MachineType:     "Standard_D2",
		MaxScalesetSize: 40,
		MaxVMCount:      3,
	}
	var buf bytes.Buffer
	err := WriteTopology(&buf, partitionMap(hpcPartition(), second))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "SwitchName=htc-htc Switches=htc-htc-Standard_D2-pg[0-0]", lines[4])
	assert.Equal(t, "SwitchName=htc-htc-Standard_D2-pg0 Nodes=htc-[1-3]", lines[5])
}

// Both artifacts must slice capacity identically: placement group i of the
// slurm.conf artifact covers the same node ordinals as placement group i of
// the topology artifact.
func TestCrossArtifactPlacementConsistency(t *testing.T) {
	p := hpcPartition()
	// Give the partition a full complement of live nodes.
	names := make([]string, 0, p.MaxVMCount)
	for i := 1; i <= p.MaxVMCount; i++ {
		names = append(names, fmt.Sprintf("hpc-%d", i))
	}
	p.NodeList = strings.Join(names, ",")

	var confBuf, topoBuf bytes.Buffer
	require.NoError(t, WriteSlurmConf(context.Background(), &confBuf, partitionMap(p), slurm.FakeCodec{}))
	require.NoError(t, WriteTopology(&topoBuf, partitionMap(p)))

	confLines := strings.Split(strings.TrimRight(confBuf.String(), "\n"), "\n")[1:]
	topoLines := strings.Split(strings.TrimRight(topoBuf.String(), "\n"), "\n")[1:]
	require.Equal(t, len(confLines), len(topoLines))

	for i, confLine := range confLines {
		nodeField := strings.TrimPrefix(strings.Fields(confLine)[0], "Nodename=")
		groupSize := len(strings.Split(nodeField, ","))

		topoRange := strings.TrimPrefix(strings.Fields(topoLines[i])[1], "Nodes=hpc-")
		bounds := strings.Split(strings.Trim(topoRange, "[]"), "-")
		require.Len(t, bounds, 2)
		lo, err := strconv.Atoi(bounds[0])
		require.NoError(t, err)
		hi, err := strconv.Atoi(bounds[1])
		require.NoError(t, err)

		assert.Equal(t, hi-lo+1, groupSize, "placement group %d", i)
	}
}
