//go:build !integration

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/shopwindow/internal/model"
)

func testRun(status model.RunStatus, rows int, quality *int, dur time.Duration) model.ImportRun {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(dur)
	return model.ImportRun{
		ID:             "0d9f7a2e-1c3b-4a5d-8e6f-7a8b9c0d1e2f",
		SourceFile:     "sample.csv",
		Status:         status,
		RowsTotal:      rows,
		RowsProcessed:  rows,
		CentersCreated: 2,
		TenantsCreated: 5,
		QualityScore:   quality,
		CreatedAt:      start,
		StartedAt:      &start,
		CompletedAt:    &end,
	}
}

func TestComputeRunStats(t *testing.T) {
	q1, q2 := 100, 80
	runs := []model.ImportRun{
		testRun(model.RunStatusCompleted, 10, &q1, 30*time.Second),
		testRun(model.RunStatusCompleted, 20, &q2, 90*time.Second),
		testRun(model.RunStatusFailed, 0, nil, 10*time.Second),
		testRun(model.RunStatusCancelled, 5, nil, 5*time.Second),
		{ID: "pending-run", Status: model.RunStatusPending},
	}

	s := computeRunStats(runs)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Cancelled)
	assert.Equal(t, 1, s.Other)
	assert.Equal(t, 35, s.RowsProcessed)
	assert.Equal(t, 8, s.CentersCreated)
	assert.Equal(t, 20, s.TenantsCreated)
	assert.InDelta(t, 33.75, s.AvgDurSecs, 0.01)
	assert.InDelta(t, 90.0, s.AvgQuality, 0.01)
}

func TestComputeRunStatsEmpty(t *testing.T) {
	s := computeRunStats(nil)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.AvgDurSecs)
	assert.Equal(t, 0.0, s.AvgQuality)
}

func TestFormatRunsList(t *testing.T) {
	q := 97
	var buf bytes.Buffer
	formatRunsList(&buf, []model.ImportRun{testRun(model.RunStatusCompleted, 10, &q, time.Minute)})

	out := buf.String()
	assert.Contains(t, out, "0d9f7a2e")
	assert.NotContains(t, out, "0d9f7a2e-1c3b")
	assert.Contains(t, out, "sample.csv")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "10/10")
	assert.Contains(t, out, "97")
	assert.Contains(t, out, "1m0s")
}

func TestFormatRunStats(t *testing.T) {
	var buf bytes.Buffer
	formatRunStats(&buf, runStats{
		Total:      3,
		Completed:  2,
		Failed:     1,
		AvgDurSecs: 12.5,
		AvgQuality: 88.0,
	})

	out := buf.String()
	assert.Contains(t, out, "Total runs:")
	assert.Contains(t, out, "12.5s")
	assert.Contains(t, out, "88.0")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "0d9f7a2e", truncateID("0d9f7a2e-1c3b-4a5d-8e6f-7a8b9c0d1e2f"))
	assert.Equal(t, "short", truncateID("short"))
}
