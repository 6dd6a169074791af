package slurm

import (
	"context"
	"errors"
	"testing"

	"github.com/hpcops/slurmbridge/pkg/log"
	"github.com/hpcops/slurmbridge/pkg/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *shell.FakeInvoker) {
	t.Helper()
	invoker := shell.NewFakeInvoker()
	return NewClient(invoker, log.NewTestLogger()), invoker
}

func TestExpand(t *testing.T) {
	client, invoker := newTestClient(t)
	invoker.Respond("scontrol show hostnames hpc-[1-3]", "hpc-1\nhpc-2\nhpc-3\n")

	names, err := client.Expand(context.Background(), "hpc-[1-3]")
	require.NoError(t, err)
	assert.Equal(t, []string{"hpc-1", "hpc-2", "hpc-3"}, names)
}

func TestExpandEmptyExpression(t *testing.T) {
	client, invoker := newTestClient(t)

	names, err := client.Expand(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Empty(t, invoker.Calls(), "empty expression should not shell out")
}

func TestExpandError(t *testing.T) {
	client, invoker := newTestClient(t)
	invoker.Fail("scontrol show hostnames bogus", errors.New("invalid hostlist"))

	_, err := client.Expand(context.Background(), "bogus")
	assert.Error(t, err)
}

func TestCompress(t *testing.T) {
	client, invoker := newTestClient(t)
	invoker.Respond("scontrol show hostlist hpc-1,hpc-2,hpc-3", "hpc-[1-3]\n")

	expr, err := client.Compress(context.Background(), []string{"hpc-1", "hpc-2", "hpc-3"})
	require.NoError(t, err)
	assert.Equal(t, "hpc-[1-3]", expr)
}

func TestCompressEmptyList(t *testing.T) {
	client, invoker := newTestClient(t)

	expr, err := client.Compress(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", expr)
	assert.Empty(t, invoker.Calls())
}

func TestUpdateNodeAddr(t *testing.T) {
	client, invoker := newTestClient(t)
	invoker.Respond("scontrol update NodeName=hpc-1 NodeAddr=10.0.0.4 NodeHostname=10.0.0.4", "")

	err := client.UpdateNodeAddr(context.Background(), "hpc-1", "10.0.0.4")
	require.NoError(t, err)
	assert.Equal(t, 1, invoker.CallCount("scontrol update NodeName=hpc-1 NodeAddr=10.0.0.4 NodeHostname=10.0.0.4"))
}

func TestKnownNodes(t *testing.T) {
	client, invoker := newTestClient(t)
	invoker.Respond("sinfo -N -O NODELIST --noheader", "hpc-1 \nhpc-2\n\nhtc-1\n")

	known, err := client.KnownNodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{
		"hpc-1": {},
		"hpc-2": {},
		"htc-1": {},
	}, known)
}

func TestKnownNodesError(t *testing.T) {
	client, invoker := newTestClient(t)
	invoker.Fail("sinfo -N -O NODELIST --noheader", errors.New("slurmctld down"))

	_, err := client.KnownNodes(context.Background())
	assert.Error(t, err)
}
