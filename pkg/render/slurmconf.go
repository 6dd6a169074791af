// Package render emits the scheduler configuration artifacts derived from a
// partition map. Placement-group membership always comes from the placement
// package so the partition/node artifact and the topology artifact can never
// drift apart.
package render

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hpcops/slurmbridge/pkg/placement"
	"github.com/hpcops/slurmbridge/pkg/slurm"
	"github.com/hpcops/slurmbridge/pkg/types"
)

// WriteSlurmConf renders the partition and node definition lines for every
// partition, in map order.
func WriteSlurmConf(ctx context.Context, w io.Writer, parts *types.PartitionMap, codec slurm.HostlistCodec) error {
	for _, p := range parts.Partitions() {
		defaultYN := "NO"
		if p.IsDefault {
			defaultYN = "YES"
		}
		if _, err := fmt.Fprintf(w, "PartitionName=%s Nodes=%s Default=%s MaxTime=INFINITE State=UP\n",
			p.Name, p.NodeList, defaultYN); err != nil {
			return err
		}

		allNodes, err := codec.Expand(ctx, p.NodeList)
		if err != nil {
			return fmt.Errorf("expand node list for partition %s: %w", p.Name, err)
		}
		sortByNodeIndex(allNodes)

		realMemory := int(math.Floor(p.Memory * 1024))
		for _, r := range placement.Ranges(p.MaxVMCount, p.MaxScalesetSize) {
			subset := sliceNodes(allNodes, r)
			nodeList, err := codec.Compress(ctx, subset)
			if err != nil {
				return fmt.Errorf("compress placement group for partition %s: %w", p.Name, err)
			}
			if _, err := fmt.Fprintf(w, "Nodename=%s Feature=cloud STATE=CLOUD CPUs=%d RealMemory=%d\n",
				nodeList, p.VCPUCount, realMemory); err != nil {
				return err
			}
		}
	}
	return nil
}

// sortByNodeIndex orders node names by their trailing numeric suffix, so
// "hpc-10" follows "hpc-9". Names without a numeric suffix sort after the
// numeric ones, by full string.
func sortByNodeIndex(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		ni, iOK := nodeIndex(names[i])
		nj, jOK := nodeIndex(names[j])
		switch {
		case iOK && jOK:
			return ni < nj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return names[i] < names[j]
		}
	})
}

func nodeIndex(name string) (int, bool) {
	idx := strings.LastIndex(name, "-")
	if idx < 0 || idx == len(name)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(name[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

func sliceNodes(names []string, r placement.Range) []string {
	if r.Start >= len(names) {
		return nil
	}
	end := r.End
	if end > len(names) {
		end = len(names)
	}
	return names[r.Start:end]
}
