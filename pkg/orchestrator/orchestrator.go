// Package orchestrator drives node lifecycle transitions against the
// cluster-management control plane and keeps the scheduler's node table
// addressable while nodes come online.
package orchestrator

import (
	"time"

	"github.com/hpcops/slurmbridge/pkg/cyclecloud"
	"github.com/hpcops/slurmbridge/pkg/log"
	"github.com/hpcops/slurmbridge/pkg/slurm"
)

const (
	// DefaultResumeTimeout bounds the resume convergence poll.
	DefaultResumeTimeout = time.Hour

	// DefaultPollInterval is the pause between convergence polls.
	DefaultPollInterval = 5 * time.Second

	// DefaultShutdownAttempts is the total number of shutdown tries.
	DefaultShutdownAttempts = 30

	// DefaultShutdownInterval is the pause between shutdown retries.
	DefaultShutdownInterval = 60 * time.Second
)

// Orchestrator owns the resume, shutdown and sync state machines. One
// instance serves one invocation; it carries no state across operations
// beyond its collaborators.
type Orchestrator struct {
	api       cyclecloud.API
	updater   slurm.NodeUpdater
	scheduler slurm.Introspector
	logger    log.Logger

	resumeTimeout    time.Duration
	pollInterval     time.Duration
	shutdownAttempts int
	shutdownInterval time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithResumeTimeout overrides the convergence deadline.
func WithResumeTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.resumeTimeout = d
	}
}

// WithPollInterval overrides the convergence poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.pollInterval = d
	}
}

// WithShutdownPolicy overrides the shutdown retry count and spacing.
func WithShutdownPolicy(attempts int, interval time.Duration) Option {
	return func(o *Orchestrator) {
		o.shutdownAttempts = attempts
		o.shutdownInterval = interval
	}
}

// New creates an Orchestrator.
func New(api cyclecloud.API, updater slurm.NodeUpdater, scheduler slurm.Introspector, logger log.Logger, options ...Option) *Orchestrator {
	o := &Orchestrator{
		api:              api,
		updater:          updater,
		scheduler:        scheduler,
		logger:           logger.WithComponent("orchestrator"),
		resumeTimeout:    DefaultResumeTimeout,
		pollInterval:     DefaultPollInterval,
		shutdownAttempts: DefaultShutdownAttempts,
		shutdownInterval: DefaultShutdownInterval,
	}
	for _, option := range options {
		option(o)
	}
	return o
}
