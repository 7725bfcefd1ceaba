package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStatusTerminal(t *testing.T) {
	assert.False(t, RunStatusPending.Terminal())
	assert.False(t, RunStatusProcessing.Terminal())
	assert.True(t, RunStatusCompleted.Terminal())
	assert.True(t, RunStatusFailed.Terminal())
	assert.True(t, RunStatusCancelled.Terminal())
	assert.False(t, RunStatus("bogus").Terminal())
}

func TestRunDuration(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)

	r := &ImportRun{}
	assert.Nil(t, r.Duration())

	r.StartedAt = &start
	assert.Nil(t, r.Duration())

	r.CompletedAt = &end
	got := r.Duration()
	require.NotNil(t, got)
	assert.Equal(t, 90*time.Second, *got)
}

func TestRunSuccessRate(t *testing.T) {
	assert.Equal(t, 0.0, (&ImportRun{}).SuccessRate())

	r := &ImportRun{RowsTotal: 200, RowsProcessed: 150}
	assert.InDelta(t, 75.0, r.SuccessRate(), 0.001)
}
