package bulk

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/codemeta/pkg/errors"
	"github.com/matzehuels/codemeta/pkg/observability"
	"github.com/matzehuels/codemeta/pkg/store"
)

// DefaultWorkers is the pool size used when Driver.Workers is not positive.
const DefaultWorkers = 4

// Status is the final state of one item.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusWarned    Status = "warned"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// MsgCancelled is the message of items that never started because the run
// was cancelled.
const MsgCancelled = "cancelled"

// Item is one unit of work. ID must be unique within a run; Source is the
// repository URL or file path the job reads.
type Item struct {
	ID     string
	Source string
}

// Outcome is what a job reports for a processed item.
type Outcome struct {
	Output   string   // Written file or store key, if any
	Messages []string // Validation warnings and notes
	Skipped  bool     // Nothing to do for this item
}

// Job processes a single item.
type Job interface {
	Process(ctx context.Context, item Item) (Outcome, error)
}

// JobFunc adapts a function to Job.
type JobFunc func(ctx context.Context, item Item) (Outcome, error)

// Process calls f.
func (f JobFunc) Process(ctx context.Context, item Item) (Outcome, error) { return f(ctx, item) }

// Result is the recorded result of one item.
type Result struct {
	ID         string      `json:"id"`
	Source     string      `json:"source,omitempty"`
	Status     Status      `json:"status"`
	Output     string      `json:"output,omitempty"`
	Messages   []string    `json:"messages,omitempty"`
	Error      string      `json:"error,omitempty"`
	Code       errors.Code `json:"code,omitempty"`
	DurationMS int64       `json:"duration_ms"`
}

// Summary counts results by status.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Warned    int `json:"warned"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Report is the result of a run.
type Report struct {
	RunID      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	DurationMS int64             `json:"duration_ms"`
	Summary    Summary           `json:"summary"`
	Items      []Result          `json:"items"` // In input order
	Results    map[string]Result `json:"-"`     // By item id
}

// HasFailures reports whether any item failed.
func (r *Report) HasFailures() bool { return r.Summary.Failed > 0 }

// HasWarnings reports whether any item finished with messages.
func (r *Report) HasWarnings() bool { return r.Summary.Warned > 0 }

// Write stores the report as indented JSON at path, atomically.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return store.WriteFileAtomic(path, append(data, '\n'), 0o644)
}

// Driver runs jobs over items.
type Driver struct {
	Workers int                     // Pool size (DefaultWorkers if <= 0)
	Hooks   observability.BulkHooks // Event sink (the registered bulk hooks if nil)
}

func (d *Driver) workers() int {
	if d.Workers > 0 {
		return d.Workers
	}
	return DefaultWorkers
}

func (d *Driver) hooks() observability.BulkHooks {
	if d.Hooks != nil {
		return d.Hooks
	}
	return observability.Bulk()
}

// Run processes items with job and returns the report. It always returns
// one result per item; it never returns early because an item failed.
func (d *Driver) Run(ctx context.Context, items []Item, job Job) *Report {
	hooks := d.hooks()
	rep := &Report{RunID: uuid.NewString(), StartedAt: time.Now()}
	hooks.OnRunStart(ctx, rep.RunID, len(items))

	results := make([]Result, len(items))
	scheduled := make([]bool, len(items))

	var g errgroup.Group
	g.SetLimit(d.workers())
	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		scheduled[i] = true
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = cancelled(item)
				return nil
			}
			results[i] = d.process(ctx, hooks, rep.RunID, item, job)
			return nil
		})
	}
	_ = g.Wait()

	for i, item := range items {
		if !scheduled[i] {
			results[i] = cancelled(item)
		}
	}

	rep.FinishedAt = time.Now()
	rep.DurationMS = rep.FinishedAt.Sub(rep.StartedAt).Milliseconds()
	rep.Items = results
	rep.Results = make(map[string]Result, len(results))
	for _, res := range results {
		rep.Results[res.ID] = res
		rep.Summary.add(res.Status)
	}
	hooks.OnRunComplete(ctx, rep.RunID, rep.FinishedAt.Sub(rep.StartedAt))
	return rep
}

func (d *Driver) process(ctx context.Context, hooks observability.BulkHooks, runID string, item Item, job Job) Result {
	hooks.OnItemStart(ctx, runID, item.ID)
	start := time.Now()
	out, err := safeProcess(ctx, job, item)
	dur := time.Since(start)

	res := Result{
		ID:         item.ID,
		Source:     item.Source,
		Output:     out.Output,
		Messages:   out.Messages,
		DurationMS: dur.Milliseconds(),
	}
	switch {
	case err != nil:
		res.Status = StatusFailed
		res.Error = errors.UserMessage(err)
		res.Code = errors.GetCode(err)
	case out.Skipped:
		res.Status = StatusSkipped
	case len(out.Messages) > 0:
		res.Status = StatusWarned
	default:
		res.Status = StatusSucceeded
	}
	hooks.OnItemComplete(ctx, runID, item.ID, string(res.Status), dur, err)
	return res
}

func safeProcess(ctx context.Context, job Job, item Item) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeInternal, "panic processing %s: %v\n%s", item.ID, r, debug.Stack())
		}
	}()
	return job.Process(ctx, item)
}

func cancelled(item Item) Result {
	return Result{ID: item.ID, Source: item.Source, Status: StatusSkipped, Messages: []string{MsgCancelled}}
}

func (s *Summary) add(st Status) {
	s.Total++
	switch st {
	case StatusSucceeded:
		s.Succeeded++
	case StatusWarned:
		s.Warned++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
}
