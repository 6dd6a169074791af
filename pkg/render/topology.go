package render

import (
	"fmt"
	"io"

	"github.com/hpcops/slurmbridge/pkg/placement"
	"github.com/hpcops/slurmbridge/pkg/types"
)

// switchEntry is one parent switch with its placement-group children in
// insertion order.
type switchEntry struct {
	pgList   string
	children []switchChild
}

type switchChild struct {
	id        string
	nodeRange string
}

// WriteTopology renders the switch hierarchy: one parent switch per
// partition whose children are its placement groups, each covering a
// 1-indexed ordinal range of the node-group's nodes.
func WriteTopology(w io.Writer, parts *types.PartitionMap) error {
	order, switches := generateSwitches(parts)
	for _, parent := range order {
		entry := switches[parent]
		if _, err := fmt.Fprintf(w, "SwitchName=%s Switches=%s\n", parent, entry.pgList); err != nil {
			return err
		}
		for _, child := range entry.children {
			if _, err := fmt.Fprintf(w, "SwitchName=%s Nodes=%s\n", child.id, child.nodeRange); err != nil {
				return err
			}
		}
	}
	return nil
}

func generateSwitches(parts *types.PartitionMap) ([]string, map[string]*switchEntry) {
	var order []string
	switches := make(map[string]*switchEntry)

	for _, p := range parts.Partitions() {
		ranges := placement.Ranges(p.MaxVMCount, p.MaxScalesetSize)
		pgBase := fmt.Sprintf("%s-%s-%s-pg", p.Name, p.Nodearray, p.MachineType)
		parent := fmt.Sprintf("%s-%s", p.Name, p.Nodearray)

		entry, seen := switches[parent]
		if !seen {
			entry = &switchEntry{}
			switches[parent] = entry
			order = append(order, parent)
		}
		// A re-declared parent switch keeps its position but takes the
		// later partition's placement groups: deterministic last-write-wins.
		entry.pgList = fmt.Sprintf("%s[0-%d]", pgBase, len(ranges)-1)

		for i, r := range ranges {
			entry.children = append(entry.children, switchChild{
				id: pgBase + fmt.Sprint(i),
				// Node ordinals are 1-indexed in the topology artifact.
				nodeRange: fmt.Sprintf("%s-[%d-%d]", p.Nodearray, r.Start+1, r.End),
			})
		}
	}
	return order, switches
}
