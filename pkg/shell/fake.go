package shell

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FakeInvoker is a scripted Invoker for tests. Responses are keyed by the
// full command line; unmatched commands return an error so tests fail loudly.
type FakeInvoker struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []string
}

type fakeResponse struct {
	output []byte
	err    error
}

var _ Invoker = (*FakeInvoker)(nil)

// NewFakeInvoker creates an empty FakeInvoker.
func NewFakeInvoker() *FakeInvoker {
	return &FakeInvoker{responses: make(map[string]fakeResponse)}
}

// Respond scripts the output for a command line.
func (f *FakeInvoker) Respond(cmdline string, output string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = fakeResponse{output: []byte(output)}
}

// Fail scripts a failure for a command line.
func (f *FakeInvoker) Fail(cmdline string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = fakeResponse{err: err}
}

// Calls returns every command line seen, in order.
func (f *FakeInvoker) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times the exact command line was invoked.
func (f *FakeInvoker) CallCount(cmdline string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == cmdline {
			n++
		}
	}
	return n
}

func (f *FakeInvoker) lookup(name string, args []string) ([]byte, error) {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmdline)
	resp, ok := f.responses[cmdline]
	if !ok {
		return nil, fmt.Errorf("fake invoker: unscripted command %q", cmdline)
	}
	return resp.output, resp.err
}

// Run executes a scripted command.
func (f *FakeInvoker) Run(ctx context.Context, name string, args ...string) error {
	_, err := f.lookup(name, args)
	return err
}

// Output executes a scripted command and returns its output.
func (f *FakeInvoker) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f.lookup(name, args)
}
