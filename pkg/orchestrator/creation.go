package orchestrator

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hpcops/slurmbridge/pkg/cyclecloud"
	"github.com/hpcops/slurmbridge/pkg/log"
	"github.com/hpcops/slurmbridge/pkg/placement"
	"github.com/hpcops/slurmbridge/pkg/types"
)

type creationGroup struct {
	partition      string
	placementGroup string
}

// BuildCreationRequest batches every partition's full capacity into one
// creation request, one set per (partition, placement group), sorted by group
// key. Nodes are provisioned powered off with a terminated target state so
// capacity exists but nothing boots until an explicit resume.
func BuildCreationRequest(parts *types.PartitionMap) *cyclecloud.NodeCreationRequest {
	counts := make(map[creationGroup]int)
	for _, p := range parts.Partitions() {
		for i, r := range placement.Ranges(p.MaxVMCount, p.MaxScalesetSize) {
			group := creationGroup{
				partition:      p.Name,
				placementGroup: fmt.Sprintf("%s-%s-pg%d", p.Name, p.MachineType, i),
			}
			counts[group] += r.Len()
		}
	}

	groups := make([]creationGroup, 0, len(counts))
	for group := range counts {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].partition != groups[j].partition {
			return groups[i].partition < groups[j].partition
		}
		return groups[i].placementGroup < groups[j].placementGroup
	})

	request := &cyclecloud.NodeCreationRequest{RequestID: uuid.NewString()}
	for _, group := range groups {
		p := parts.Get(group.partition)
		request.Sets = append(request.Sets, cyclecloud.NodeCreationRequestSet{
			Nodearray:        p.Nodearray,
			PlacementGroupID: group.placementGroup,
			Count:            counts[group],
			Definition:       cyclecloud.NodeDefinition{MachineType: p.MachineType},
			NodeAttributes: cyclecloud.Record{
				"StartAutomatically": false,
				"State":              "Off",
				"TargetState":        "Terminated",
			},
		})
	}
	return request
}

// CreateNodes submits the batch creation request for the partition map.
func (o *Orchestrator) CreateNodes(ctx context.Context, parts *types.PartitionMap) error {
	request := BuildCreationRequest(parts)
	o.logger.Info("creating nodes",
		log.Str("request_id", request.RequestID), log.Int("sets", len(request.Sets)))
	return o.api.CreateNodes(ctx, request)
}
