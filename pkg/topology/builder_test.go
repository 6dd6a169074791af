package topology

import (
	"context"
	"testing"

	"github.com/hpcops/slurmbridge/pkg/cyclecloud"
	"github.com/hpcops/slurmbridge/pkg/log"
	"github.com/hpcops/slurmbridge/pkg/slurm"
	"github.com/hpcops/slurmbridge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func nodearray(name string, maxCount *int, cfg map[string]interface{}) cyclecloud.NodearrayStatus {
	record := cyclecloud.Record{
		"MachineType":   "Standard_F4",
		"Configuration": map[string]interface{}{"slurm": cfg},
	}
	return cyclecloud.NodearrayStatus{
		Name:      name,
		Nodearray: record,
		Buckets: []cyclecloud.Bucket{
			{
				Definition:     cyclecloud.BucketDefinition{MachineType: "Standard_F4"},
				VirtualMachine: &cyclecloud.VirtualMachine{VCPUCount: 4, Memory: 8.0},
				MaxCount:       maxCount,
			},
		},
	}
}

func autoscaleCfg() map[string]interface{} {
	return map[string]interface{}{"autoscale": true}
}

func newTestBuilder(status *cyclecloud.ClusterStatus) (*Builder, *cyclecloud.MockAPI) {
	api := &cyclecloud.MockAPI{}
	api.On("Status", mock.Anything, true).Return(status, nil)
	return NewBuilder(api, slurm.FakeCodec{}, log.NewTestLogger()), api
}

func TestPartitionsBuildsOrderedMap(t *testing.T) {
	status := &cyclecloud.ClusterStatus{
		Nodearrays: []cyclecloud.NodearrayStatus{
			nodearray("hpc", intPtr(12), autoscaleCfg()),
			nodearray("htc", intPtr(20), autoscaleCfg()),
		},
		Nodes: []cyclecloud.NodeRecord{
			{Name: "hpc-1", Template: "hpc"},
			{Name: "htc-1", Template: "htc"},
			{Name: "hpc-2", Template: "hpc"},
		},
	}
	builder, _ := newTestBuilder(status)

	parts, err := builder.Partitions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"hpc", "htc"}, parts.Names())

	hpc := parts.Get("hpc")
	require.NotNil(t, hpc)
	assert.Equal(t, "hpc", hpc.Nodearray)
	assert.Equal(t, "Standard_F4", hpc.MachineType)
	assert.Equal(t, 12, hpc.MaxVMCount)
	assert.Equal(t, DefaultMaxScalesetSize, hpc.MaxScalesetSize)
	assert.Equal(t, 4, hpc.VCPUCount)
	assert.Equal(t, 8.0, hpc.Memory)
	// Only this node-group's nodes, in reported order.
	assert.Equal(t, "hpc-1,hpc-2", hpc.NodeList)
	assert.Equal(t, "htc-1", parts.Get("htc").NodeList)
}

func TestPartitionsFirstClaimWins(t *testing.T) {
	first := nodearray("alpha", intPtr(5), map[string]interface{}{
		"autoscale": true, "partition": "shared",
	})
	second := nodearray("beta", intPtr(9), map[string]interface{}{
		"autoscale": true, "partition": "shared",
	})
	builder, _ := newTestBuilder(&cyclecloud.ClusterStatus{
		Nodearrays: []cyclecloud.NodearrayStatus{first, second},
	})

	parts, err := builder.Partitions(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"shared"}, parts.Names())
	assert.Equal(t, "alpha", parts.Get("shared").Nodearray)
	assert.Equal(t, 5, parts.Get("shared").MaxVMCount)
}

func TestPartitionsSkipsNonAutoscale(t *testing.T) {
	builder, _ := newTestBuilder(&cyclecloud.ClusterStatus{
		Nodearrays: []cyclecloud.NodearrayStatus{
			nodearray("static", intPtr(4), map[string]interface{}{"autoscale": false}),
			nodearray("elastic", intPtr(4), autoscaleCfg()),
		},
	})

	parts, err := builder.Partitions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"elastic"}, parts.Names())
}

func TestPartitionsExcludesZeroOrMissingCapacity(t *testing.T) {
	builder, _ := newTestBuilder(&cyclecloud.ClusterStatus{
		Nodearrays: []cyclecloud.NodearrayStatus{
			nodearray("empty", intPtr(0), autoscaleCfg()),
			nodearray("unbounded", nil, autoscaleCfg()),
			nodearray("real", intPtr(3), autoscaleCfg()),
		},
	})

	parts, err := builder.Partitions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"real"}, parts.Names())
}

func TestPartitionsMissingBucketIsFatal(t *testing.T) {
	na := nodearray("hpc", intPtr(10), autoscaleCfg())
	na.Buckets[0].Definition.MachineType = "some_other_type"
	builder, _ := newTestBuilder(&cyclecloud.ClusterStatus{
		Nodearrays: []cyclecloud.NodearrayStatus{na},
	})

	_, err := builder.Partitions(context.Background())
	require.Error(t, err)
	assert.True(t, types.IsMalformedStatus(err))
}

func TestPartitionsMissingShapeIsFatal(t *testing.T) {
	na := nodearray("hpc", intPtr(10), autoscaleCfg())
	na.Buckets[0].VirtualMachine = nil
	builder, _ := newTestBuilder(&cyclecloud.ClusterStatus{
		Nodearrays: []cyclecloud.NodearrayStatus{na},
	})

	_, err := builder.Partitions(context.Background())
	require.Error(t, err)
	assert.True(t, types.IsMalformedStatus(err))
}

func TestPartitionsFirstMachineTypeWins(t *testing.T) {
	na := nodearray("hpc", intPtr(10), autoscaleCfg())
	na.Nodearray["MachineType"] = "Standard_F4,Standard_F8"
	builder, _ := newTestBuilder(&cyclecloud.ClusterStatus{
		Nodearrays: []cyclecloud.NodearrayStatus{na},
	})

	parts, err := builder.Partitions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Standard_F4", parts.Get("hpc").MachineType)
}

func TestPartitionsSingleDefaultPromotion(t *testing.T) {
	builder, _ := newTestBuilder(&cyclecloud.ClusterStatus{
		Nodearrays: []cyclecloud.NodearrayStatus{
			nodearray("only", intPtr(6), autoscaleCfg()),
		},
	})

	parts, err := builder.Partitions(context.Background())
	require.NoError(t, err)
	assert.True(t, parts.Get("only").IsDefault)
}

func TestPartitionsNoPromotionWithMultiplePartitions(t *testing.T) {
	builder, _ := newTestBuilder(&cyclecloud.ClusterStatus{
		Nodearrays: []cyclecloud.NodearrayStatus{
			nodearray("a", intPtr(6), autoscaleCfg()),
			nodearray("b", intPtr(6), autoscaleCfg()),
		},
	})

	parts, err := builder.Partitions(context.Background())
	require.NoError(t, err)
	assert.False(t, parts.Get("a").IsDefault)
	assert.False(t, parts.Get("b").IsDefault)
}

func TestPartitionsMultipleDefaultsLeftAlone(t *testing.T) {
	cfg := map[string]interface{}{"autoscale": true, "default_partition": true}
	builder, _ := newTestBuilder(&cyclecloud.ClusterStatus{
		Nodearrays: []cyclecloud.NodearrayStatus{
			nodearray("a", intPtr(6), cfg),
			nodearray("b", intPtr(6), cfg),
		},
	})

	parts, err := builder.Partitions(context.Background())
	require.NoError(t, err)
	assert.True(t, parts.Get("a").IsDefault)
	assert.True(t, parts.Get("b").IsDefault)
}

func TestPartitionsCustomScalesetSize(t *testing.T) {
	na := nodearray("hpc", intPtr(100), autoscaleCfg())
	na.Nodearray["Azure"] = map[string]interface{}{"MaxScalesetSize": float64(25)}
	builder, _ := newTestBuilder(&cyclecloud.ClusterStatus{
		Nodearrays: []cyclecloud.NodearrayStatus{na},
	})

	parts, err := builder.Partitions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, parts.Get("hpc").MaxScalesetSize)
}
