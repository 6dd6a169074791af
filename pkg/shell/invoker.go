// Package shell provides the command-invocation seam used for every call
// into the scheduler's own tooling.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os/exec"
	"strings"
	"sync"

	"github.com/hpcops/slurmbridge/pkg/log"
)

// Invoker runs external commands. Components depend on this interface so a
// fault-injecting or scripted implementation can be substituted by
// configuration rather than by patching.
type Invoker interface {
	// Run executes the command and waits for it to exit.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes the command and returns its standard output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecInvoker runs commands with os/exec.
type ExecInvoker struct {
	logger log.Logger
}

var _ Invoker = (*ExecInvoker)(nil)

// ExecOption configures an ExecInvoker.
type ExecOption func(*ExecInvoker)

// WithLogger sets the logger for the invoker.
func WithLogger(logger log.Logger) ExecOption {
	return func(i *ExecInvoker) {
		i.logger = logger.WithComponent("shell")
	}
}

// NewExecInvoker creates an ExecInvoker.
func NewExecInvoker(options ...ExecOption) *ExecInvoker {
	i := &ExecInvoker{logger: log.NewLogger().WithComponent("shell")}
	for _, option := range options {
		option(i)
	}
	return i
}

// Run executes the command and waits for it to exit.
func (i *ExecInvoker) Run(ctx context.Context, name string, args ...string) error {
	i.logger.Debug("running command", log.Str("cmd", name+" "+strings.Join(args, " ")))
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return commandError(name, args, stderr.Bytes(), err)
	}
	return nil
}

// Output executes the command and returns its standard output.
func (i *ExecInvoker) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	i.logger.Debug("running command", log.Str("cmd", name+" "+strings.Join(args, " ")))
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, commandError(name, args, stderr.Bytes(), err)
	}
	return stdout.Bytes(), nil
}

func commandError(name string, args []string, stderr []byte, err error) error {
	msg := strings.TrimSpace(string(stderr))
	if msg != "" {
		return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
	}
	return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
}

// ChaosInvoker decorates another Invoker, failing a configurable fraction of
// calls before they reach the real command. It exists for resilience testing
// and is only wired in when chaos mode is enabled in configuration.
type ChaosInvoker struct {
	next        Invoker
	probability float64
	logger      log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

var _ Invoker = (*ChaosInvoker)(nil)

// NewChaosInvoker wraps next, failing each call with the given probability
// in [0, 1].
func NewChaosInvoker(next Invoker, probability float64, logger log.Logger, seed int64) *ChaosInvoker {
	return &ChaosInvoker{
		next:        next,
		probability: probability,
		logger:      logger.WithComponent("chaos"),
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (c *ChaosInvoker) misbehave() error {
	c.mu.Lock()
	roll := c.rng.Float64()
	c.mu.Unlock()
	if roll < c.probability {
		c.logger.Warn("chaos mode injected command failure")
		return fmt.Errorf("chaos mode: injected random failure")
	}
	return nil
}

// Run fails randomly or delegates to the wrapped invoker.
func (c *ChaosInvoker) Run(ctx context.Context, name string, args ...string) error {
	if err := c.misbehave(); err != nil {
		return err
	}
	return c.next.Run(ctx, name, args...)
}

// Output fails randomly or delegates to the wrapped invoker.
func (c *ChaosInvoker) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if err := c.misbehave(); err != nil {
		return nil, err
	}
	return c.next.Output(ctx, name, args...)
}
