package slurm

import (
	"context"
	"strings"
	"sync"
)

// FakeCodec is a HostlistCodec for tests. It "compresses" to a plain
// comma-joined list and expands by splitting, so scripted values stay
// readable in assertions.
type FakeCodec struct{}

var _ HostlistCodec = (*FakeCodec)(nil)

// Expand splits a comma-joined list.
func (FakeCodec) Expand(ctx context.Context, expr string) ([]string, error) {
	if expr == "" {
		return nil, nil
	}
	return strings.Split(expr, ","), nil
}

// Compress joins names with commas.
func (FakeCodec) Compress(ctx context.Context, names []string) (string, error) {
	return strings.Join(names, ","), nil
}

// FakeUpdater records node address updates for tests.
type FakeUpdater struct {
	mu      sync.Mutex
	Updates map[string]string // node name -> last address
	Calls   []string          // node names in call order
	Err     error
}

var _ NodeUpdater = (*FakeUpdater)(nil)

// NewFakeUpdater creates an empty FakeUpdater.
func NewFakeUpdater() *FakeUpdater {
	return &FakeUpdater{Updates: make(map[string]string)}
}

// UpdateNodeAddr records the update.
func (f *FakeUpdater) UpdateNodeAddr(ctx context.Context, name, addr string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Updates[name] = addr
	f.Calls = append(f.Calls, name)
	return nil
}

// FakeIntrospector serves a fixed known-node set for tests.
type FakeIntrospector struct {
	Known []string
	Err   error
}

var _ Introspector = (*FakeIntrospector)(nil)

// KnownNodes returns the configured node set.
func (f *FakeIntrospector) KnownNodes(ctx context.Context) (map[string]struct{}, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	known := make(map[string]struct{}, len(f.Known))
	for _, name := range f.Known {
		known[name] = struct{}{}
	}
	return known, nil
}
