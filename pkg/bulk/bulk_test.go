package bulk

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/codemeta/pkg/errors"
	"github.com/matzehuels/codemeta/pkg/observability"
)

func numberedItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		id := fmt.Sprintf("item-%d", i+1)
		items[i] = Item{ID: id, Source: "https://github.com/org/" + id}
	}
	return items
}

func TestRunIsolatesFailures(t *testing.T) {
	job := JobFunc(func(ctx context.Context, item Item) (Outcome, error) {
		if item.ID == "item-3" {
			return Outcome{}, errors.SourceUnavailable(fmt.Errorf("connection reset"), "fetch %s", item.Source)
		}
		return Outcome{Output: item.ID + ".json"}, nil
	})

	rep := (&Driver{Workers: 2}).Run(context.Background(), numberedItems(5), job)

	require.Len(t, rep.Results, 5)
	require.Len(t, rep.Items, 5)
	for _, id := range []string{"item-1", "item-2", "item-4", "item-5"} {
		assert.Equal(t, StatusSucceeded, rep.Results[id].Status, id)
	}
	failed := rep.Results["item-3"]
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, errors.ErrCodeSourceUnavailable, failed.Code)
	assert.Contains(t, failed.Error, "connection reset")
	assert.Equal(t, Summary{Total: 5, Succeeded: 4, Failed: 1}, rep.Summary)
	assert.True(t, rep.HasFailures())
	assert.NotEmpty(t, rep.RunID)
	assert.False(t, rep.FinishedAt.Before(rep.StartedAt))
}

func TestRunKeepsInputOrder(t *testing.T) {
	job := JobFunc(func(ctx context.Context, item Item) (Outcome, error) {
		if item.ID == "item-1" {
			time.Sleep(20 * time.Millisecond)
		}
		return Outcome{}, nil
	})
	rep := (&Driver{Workers: 4}).Run(context.Background(), numberedItems(4), job)
	for i, res := range rep.Items {
		assert.Equal(t, fmt.Sprintf("item-%d", i+1), res.ID)
	}
}

func TestRunStatuses(t *testing.T) {
	job := JobFunc(func(ctx context.Context, item Item) (Outcome, error) {
		switch item.ID {
		case "item-1":
			return Outcome{Messages: []string{"missing required field: author"}}, nil
		case "item-2":
			return Outcome{Skipped: true, Messages: []string{"no publication mapping found"}}, nil
		case "item-3":
			panic("boom")
		}
		return Outcome{}, nil
	})
	rep := (&Driver{}).Run(context.Background(), numberedItems(4), job)

	assert.Equal(t, StatusWarned, rep.Results["item-1"].Status)
	assert.Equal(t, []string{"missing required field: author"}, rep.Results["item-1"].Messages)
	assert.Equal(t, StatusSkipped, rep.Results["item-2"].Status)
	assert.Equal(t, StatusFailed, rep.Results["item-3"].Status)
	assert.Equal(t, errors.ErrCodeInternal, rep.Results["item-3"].Code)
	assert.Equal(t, StatusSucceeded, rep.Results["item-4"].Status)
	assert.Equal(t, Summary{Total: 4, Succeeded: 1, Warned: 1, Failed: 1, Skipped: 1}, rep.Summary)
}

func TestRunRespectsWorkerLimit(t *testing.T) {
	var running, peak atomic.Int32
	job := JobFunc(func(ctx context.Context, item Item) (Outcome, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return Outcome{}, nil
	})
	rep := (&Driver{Workers: 3}).Run(context.Background(), numberedItems(12), job)
	assert.Equal(t, 12, rep.Summary.Succeeded)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	job := JobFunc(func(ctx context.Context, item Item) (Outcome, error) {
		if item.ID == "item-1" {
			cancel()
		}
		return Outcome{}, nil
	})
	rep := (&Driver{Workers: 1}).Run(ctx, numberedItems(5), job)

	require.Len(t, rep.Results, 5)
	assert.Equal(t, StatusSucceeded, rep.Results["item-1"].Status)
	for _, id := range []string{"item-3", "item-4", "item-5"} {
		assert.Equal(t, StatusSkipped, rep.Results[id].Status, id)
		assert.Equal(t, []string{MsgCancelled}, rep.Results[id].Messages, id)
	}
	assert.Equal(t, 5, rep.Summary.Total)
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	job := JobFunc(func(ctx context.Context, item Item) (Outcome, error) {
		calls.Add(1)
		return Outcome{}, nil
	})
	rep := (&Driver{}).Run(ctx, numberedItems(3), job)
	assert.Zero(t, calls.Load())
	assert.Equal(t, 3, rep.Summary.Skipped)
}

type recordingHooks struct {
	observability.NoopBulkHooks
	mu        sync.Mutex
	total     int
	completed map[string]string
	finished  bool
}

func (h *recordingHooks) OnRunStart(_ context.Context, _ string, total int) { h.total = total }

func (h *recordingHooks) OnItemComplete(_ context.Context, _, itemID, status string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed[itemID] = status
}

func (h *recordingHooks) OnRunComplete(context.Context, string, time.Duration) { h.finished = true }

func TestRunFiresHooks(t *testing.T) {
	hooks := &recordingHooks{completed: make(map[string]string)}
	job := JobFunc(func(ctx context.Context, item Item) (Outcome, error) {
		if item.ID == "item-2" {
			return Outcome{}, fmt.Errorf("bad")
		}
		return Outcome{}, nil
	})
	(&Driver{Hooks: hooks}).Run(context.Background(), numberedItems(2), job)

	assert.Equal(t, 2, hooks.total)
	assert.Equal(t, map[string]string{"item-1": "succeeded", "item-2": "failed"}, hooks.completed)
	assert.True(t, hooks.finished)
}

func TestReportWrite(t *testing.T) {
	rep := (&Driver{}).Run(context.Background(), numberedItems(2), JobFunc(func(ctx context.Context, item Item) (Outcome, error) {
		return Outcome{Messages: []string{"note"}}, nil
	}))
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, rep.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded struct {
		RunID   string   `json:"run_id"`
		Summary Summary  `json:"summary"`
		Items   []Result `json:"items"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rep.RunID, decoded.RunID)
	assert.Equal(t, 2, decoded.Summary.Warned)
	assert.Len(t, decoded.Items, 2)
}
