// Package slurm wraps the scheduler's own command-line tooling: the hostlist
// codec and the node update/introspection channel. The hostlist range syntax
// is never parsed here; scontrol is the single authority for it.
package slurm

import (
	"context"
	"strings"

	"github.com/hpcops/slurmbridge/pkg/log"
	"github.com/hpcops/slurmbridge/pkg/shell"
)

// HostlistCodec expands and compresses Slurm hostlist expressions.
type HostlistCodec interface {
	// Expand turns a compressed expression like "hpc-[1-5]" into an
	// ordered list of node names.
	Expand(ctx context.Context, expr string) ([]string, error)

	// Compress turns a list of node names into a compressed expression.
	Compress(ctx context.Context, names []string) (string, error)
}

// NodeUpdater pushes node address updates into the scheduler.
type NodeUpdater interface {
	// UpdateNodeAddr sets a node's address and hostname to addr.
	UpdateNodeAddr(ctx context.Context, name, addr string) error
}

// Introspector reads the scheduler's live node table.
type Introspector interface {
	// KnownNodes returns the names of all nodes the scheduler knows.
	KnownNodes(ctx context.Context) (map[string]struct{}, error)
}

// Client implements the codec and update channel over an Invoker.
type Client struct {
	invoker shell.Invoker
	logger  log.Logger
}

var (
	_ HostlistCodec = (*Client)(nil)
	_ NodeUpdater   = (*Client)(nil)
	_ Introspector  = (*Client)(nil)
)

// NewClient creates a slurm Client.
func NewClient(invoker shell.Invoker, logger log.Logger) *Client {
	return &Client{
		invoker: invoker,
		logger:  logger.WithComponent("slurm"),
	}
}

// Expand expands a compressed hostlist expression via scontrol.
func (c *Client) Expand(ctx context.Context, expr string) ([]string, error) {
	if expr == "" {
		return nil, nil
	}
	out, err := c.invoker.Output(ctx, "scontrol", "show", "hostnames", expr)
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(out)), nil
}

// Compress compresses a list of node names via scontrol.
func (c *Client) Compress(ctx context.Context, names []string) (string, error) {
	if len(names) == 0 {
		return "", nil
	}
	out, err := c.invoker.Output(ctx, "scontrol", "show", "hostlist", strings.Join(names, ","))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// UpdateNodeAddr points the scheduler's record for a node at addr.
func (c *Client) UpdateNodeAddr(ctx context.Context, name, addr string) error {
	c.logger.Info("updating node address", log.Str("node", name), log.Str("addr", addr))
	return c.invoker.Run(ctx, "scontrol", "update",
		"NodeName="+name, "NodeAddr="+addr, "NodeHostname="+addr)
}

// KnownNodes returns the scheduler's currently known node names.
func (c *Client) KnownNodes(ctx context.Context) (map[string]struct{}, error) {
	out, err := c.invoker.Output(ctx, "sinfo", "-N", "-O", "NODELIST", "--noheader")
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{})
	for _, line := range strings.Split(string(out), "\n") {
		name := strings.TrimSpace(line)
		if name != "" {
			known[name] = struct{}{}
		}
	}
	return known, nil
}
