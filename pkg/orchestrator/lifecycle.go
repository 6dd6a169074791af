package orchestrator

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hpcops/slurmbridge/pkg/log"
	"github.com/hpcops/slurmbridge/pkg/types"
)

// Node states reported by the control plane that the convergence loop treats
// specially.
const (
	stateStarted           = "Started"
	stateFailed            = "Failed"
	stateWaitingOnIP       = "WaitingOnIPAddress"
	targetStateStarted     = "Started"
	unknownStatePrefix     = "UNKNOWN("
	unknownStateSuffix     = ")"
	maxNodesInLogReference = 5
)

// Resume powers on the named nodes and polls until every node under the
// start operation is terminal or the deadline passes. Nodes are pushed into
// the scheduler's address table as soon as they obtain a private address.
//
// A deadline exit is indistinguishable from full convergence: both return
// nil. The scheduler's own resume timeout owns straggler policy.
func (o *Orchestrator) Resume(ctx context.Context, names []string) error {
	resp, err := o.api.StartNodes(ctx, names)
	if err != nil {
		return fmt.Errorf("start nodes: %w", err)
	}
	return o.waitForResume(ctx, resp.OperationID, names)
}

func (o *Orchestrator) waitForResume(ctx context.Context, operationID string, names []string) error {
	logger := o.logger.With(
		log.Str("operation_id", operationID),
		log.Str("node_list", abbreviateNodeList(names)),
	)

	updated := make(map[string]struct{})
	previous := map[string]int{}
	deadline := time.Now().Add(o.resumeTimeout)

	for time.Now().Before(deadline) {
		nodes, err := o.api.Nodes(ctx, operationID)
		if err != nil {
			return fmt.Errorf("poll nodes for operation %s: %w", operationID, err)
		}

		states := map[string]int{}
		for _, node := range nodes {
			// A node whose target state was reverted externally is no
			// longer this operation's to converge; bucket it by raw state.
			if node.TargetState != targetStateStarted {
				states[unknownStatePrefix+node.State+unknownStateSuffix]++
				continue
			}

			state := node.State
			if state == stateStarted && node.PrivateIP == "" {
				state = stateWaitingOnIP
			}
			states[state]++

			if node.PrivateIP != "" {
				if _, done := updated[node.Name]; !done {
					if err := o.updater.UpdateNodeAddr(ctx, node.Name, node.PrivateIP); err != nil {
						return fmt.Errorf("update address for node %s: %w", node.Name, err)
					}
					updated[node.Name] = struct{}{}
				}
			}
		}

		if !maps.Equal(states, previous) {
			logger.Info("nodes per state: " + formatStateCounts(states))
		}

		if terminalCount(states) == len(nodes) {
			break
		}
		previous = states

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(o.pollInterval):
		}
	}

	logger.Info("resume poll finished, all reachable nodes updated with their address")
	return nil
}

// terminalCount counts nodes that the loop no longer waits on: started,
// failed, or out of the operation's scope entirely.
func terminalCount(states map[string]int) int {
	n := states[stateStarted] + states[stateFailed]
	for state, count := range states {
		if strings.HasPrefix(state, unknownStatePrefix) {
			n += count
		}
	}
	return n
}

func formatStateCounts(states map[string]int) string {
	keys := make([]string, 0, len(states))
	for k := range states {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, states[k]))
	}
	return strings.Join(parts, ", ")
}

func abbreviateNodeList(names []string) string {
	if len(names) <= maxNodesInLogReference {
		return strings.Join(names, ",")
	}
	return strings.Join(names[:maxNodesInLogReference], ",") + ",..."
}

// Shutdown powers off the named nodes, retrying transient failures on a
// fixed interval. Exhausting the retry budget is reported to the caller as a
// failure outcome, never a panic.
func (o *Orchestrator) Shutdown(ctx context.Context, names []string) error {
	var lastErr error
	attempt := 0
	operation := func() error {
		attempt++
		lastErr = o.api.ShutdownNodes(ctx, names)
		if lastErr != nil {
			o.logger.Warn("shutdown failed, retrying",
				log.Int("attempt", attempt), log.Err(lastErr))
		}
		return lastErr
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(o.shutdownInterval),
			uint64(o.shutdownAttempts-1),
		),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return &types.RetriesExhaustedError{Op: "shutdown nodes", Attempts: attempt, Last: err}
	}
	return nil
}

// Sync resumes every node the control plane believes exists in a mapped
// node-group but the scheduler does not yet know about.
func (o *Orchestrator) Sync(ctx context.Context, parts *types.PartitionMap) error {
	nodes, err := o.api.Nodes(ctx, "")
	if err != nil {
		return fmt.Errorf("list nodes: %w", err)
	}
	known, err := o.scheduler.KnownNodes(ctx)
	if err != nil {
		return fmt.Errorf("list scheduler nodes: %w", err)
	}

	mapped := make(map[string]struct{}, parts.Len())
	parts.Each(func(p *types.Partition) {
		mapped[p.Nodearray] = struct{}{}
	})

	var missing []string
	for _, node := range nodes {
		if _, ok := mapped[node.Template]; !ok {
			continue
		}
		if _, ok := known[node.Name]; !ok {
			missing = append(missing, node.Name)
		}
	}

	if len(missing) == 0 {
		o.logger.Info("scheduler already knows every managed node")
		return nil
	}
	sort.Strings(missing)

	o.logger.Info("resuming nodes unknown to the scheduler", log.Int("count", len(missing)))
	return o.Resume(ctx, missing)
}
