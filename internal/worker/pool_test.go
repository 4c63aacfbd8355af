package worker

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolSubmitBackpressure(t *testing.T) {
	// Pool is not started, so the queue fills up and overflow is dropped
	pool := NewPool(1, 2, nil, zerolog.Nop())

	require.NoError(t, pool.Submit(MirrorTask{Username: "a", Points: 10}))
	require.NoError(t, pool.Submit(MirrorTask{Username: "b", Points: 20}))

	err := pool.Submit(MirrorTask{Username: "c", Points: 30})
	assert.Error(t, err)

	metrics := pool.GetMetrics()
	assert.Equal(t, int64(1), metrics["backpressure_events"])
	assert.Equal(t, "2/2", metrics["queue_utilization"])
}

func TestPoolMetricsSnapshot(t *testing.T) {
	pool := NewPool(4, 10, nil, zerolog.Nop())

	metrics := pool.GetMetrics()
	assert.Equal(t, int64(0), metrics["processed"])
	assert.Equal(t, int64(0), metrics["failed"])
	assert.Equal(t, "0/10", metrics["queue_utilization"])
}
