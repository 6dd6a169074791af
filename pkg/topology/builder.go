// Package topology builds the scheduler's partition view from the control
// plane's cluster status.
package topology

import (
	"context"
	"fmt"

	"github.com/hpcops/slurmbridge/pkg/cyclecloud"
	"github.com/hpcops/slurmbridge/pkg/log"
	"github.com/hpcops/slurmbridge/pkg/slurm"
	"github.com/hpcops/slurmbridge/pkg/types"
)

// DefaultMaxScalesetSize bounds a placement group when the node-group does
// not declare its own platform scale-unit limit.
const DefaultMaxScalesetSize = 40

// Builder maps elastic node-groups onto an ordered partition map. Node-groups
// with configuration problems are skipped with a log line; a status response
// missing required capacity data aborts the whole build.
type Builder struct {
	api    cyclecloud.API
	codec  slurm.HostlistCodec
	logger log.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(api cyclecloud.API, codec slurm.HostlistCodec, logger log.Logger) *Builder {
	return &Builder{
		api:    api,
		codec:  codec,
		logger: logger.WithComponent("topology"),
	}
}

// Partitions queries cluster state and produces the partition map. There must
// be a one-to-one mapping of partition name to node-group; when two
// node-groups claim the same name, the first wins.
func (b *Builder) Partitions(ctx context.Context) (*types.PartitionMap, error) {
	status, err := b.api.Status(ctx, true)
	if err != nil {
		return nil, err
	}
	return b.build(ctx, status)
}

func (b *Builder) build(ctx context.Context, status *cyclecloud.ClusterStatus) (*types.PartitionMap, error) {
	partitions := types.NewPartitionMap()

	for _, na := range status.Nodearrays {
		if na.Name == "" {
			b.logger.Error("name is not defined for nodearray, skipping")
			continue
		}
		if na.Nodearray == nil {
			b.logger.Errorf("nodearray record is not defined for nodearray %s, skipping", na.Name)
			continue
		}

		slurmCfg := na.Nodearray.Section("Configuration", "slurm")
		if !slurmCfg.Bool("autoscale", false) {
			b.logger.Warnf("nodearray %s does not enable slurm.autoscale, skipping", na.Name)
			continue
		}
		partitionName := slurmCfg.Str("partition", na.Name)

		machineTypes := na.Nodearray.StringList("MachineType")
		if len(machineTypes) > 1 {
			b.logger.Warnf("ignoring multiple machine types for nodearray %s", na.Name)
		}
		if len(machineTypes) == 0 || machineTypes[0] == "" {
			b.logger.Warnf("MachineType not defined for nodearray %s, skipping", na.Name)
			continue
		}
		machineType := machineTypes[0]

		if partitions.Has(partitionName) {
			b.logger.Warnf("same partition defined for two different nodearrays, ignoring nodearray %s", na.Name)
			continue
		}

		bucket := findBucket(na.Buckets, machineType)
		if bucket == nil {
			return nil, types.MalformedStatusError("missing bucket with machineType=%q for nodearray %s", machineType, na.Name)
		}
		if bucket.VirtualMachine == nil {
			return nil, types.MalformedStatusError("missing virtualMachine definition with machineType=%q for nodearray %s", machineType, na.Name)
		}

		if bucket.MaxCount == nil {
			b.logger.Errorf("no maxCount defined for machineType=%q, skipping", machineType)
			continue
		}
		if *bucket.MaxCount <= 0 {
			b.logger.Infof("bucket has maxCount <= 0 for machineType=%q, skipping", machineType)
			continue
		}

		partition := &types.Partition{
			Name:            partitionName,
			Nodearray:       na.Name,
			MachineType:     machineType,
			IsDefault:       slurmCfg.Bool("default_partition", false),
			MaxScalesetSize: na.Nodearray.Section("Azure").Int("MaxScalesetSize", DefaultMaxScalesetSize),
			VCPUCount:       bucket.VirtualMachine.VCPUCount,
			Memory:          bucket.VirtualMachine.Memory,
			MaxVMCount:      *bucket.MaxCount,
		}

		nodeList, err := b.existingNodeList(ctx, status.Nodes, na.Name)
		if err != nil {
			return nil, fmt.Errorf("compress node list for nodearray %s: %w", na.Name, err)
		}
		partition.NodeList = nodeList

		partitions.Add(partition)
	}

	b.promoteSingleDefault(partitions)
	return partitions, nil
}

// existingNodeList compresses the names of cluster-reported nodes belonging
// to the node-group. Only this node-group's nodes are included, in reported
// order.
func (b *Builder) existingNodeList(ctx context.Context, nodes []cyclecloud.NodeRecord, nodearray string) (string, error) {
	var names []string
	for _, node := range nodes {
		if node.Template == nodearray {
			names = append(names, node.Name)
		}
	}
	if len(names) == 0 {
		return "", nil
	}
	return b.codec.Compress(ctx, names)
}

// promoteSingleDefault marks the lone partition as default when nothing else
// is. With several partitions and no default, or several defaults, the
// inconsistency is logged and left alone.
func (b *Builder) promoteSingleDefault(partitions *types.PartitionMap) {
	var defaults []*types.Partition
	partitions.Each(func(p *types.Partition) {
		if p.IsDefault {
			defaults = append(defaults, p)
		}
	})

	switch {
	case len(defaults) == 0 && partitions.Len() > 0:
		b.logger.Warn("slurm.default_partition was not set on any nodearray")
		if partitions.Len() == 1 {
			b.logger.Info("only one nodearray was defined, setting as default")
			partitions.Partitions()[0].IsDefault = true
		}
	case len(defaults) > 1:
		b.logger.Warn("slurm.default_partition was set on more than one nodearray")
	}
}

func findBucket(buckets []cyclecloud.Bucket, machineType string) *cyclecloud.Bucket {
	for i := range buckets {
		if buckets[i].Definition.MachineType == machineType {
			return &buckets[i]
		}
	}
	return nil
}
