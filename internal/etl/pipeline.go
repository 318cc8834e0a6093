package etl

import (
	"context"
	"log/slog"
	"time"
)

// ── Pipeline ───────────────────────────────────────────────
// Orchestrates: fetch → normalize → clean → load.
// One dataset per run, run to completion, no retries, no feedback loops.
// The first failing stage aborts the run and its typed error is the result.

// Job holds the configuration for preparing a single dataset.
type Job struct {
	Name   string
	Table  string
	Source Source
	Rules  []RuleConfig
}

// Loader writes a dataset into a warehouse table, replacing any prior
// contents, and returns the number of rows written.
type Loader interface {
	Load(ctx context.Context, table string, ds *Dataset) (int, error)
}

// RunLog is a historical record of a pipeline run.
type RunLog struct {
	ID          string
	Dataset     string
	Table       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Status      string // "success" | "error"
	RowsRead    int
	RowsWritten int
	Error       string
}

// RunRecorder persists run logs. Optional on a Pipeline.
type RunRecorder interface {
	RecordRun(log *RunLog) error
}

// Result is the outcome of running a job.
type Result struct {
	Dataset     string
	Table       string
	Status      string // "success" | "error"
	RowsRead    int
	RowsWritten int
	Duration    time.Duration
	Err         error
}

// Pipeline runs jobs against a fetcher and a warehouse loader.
type Pipeline struct {
	Fetcher *Fetcher
	Loader  Loader
	Runs    RunRecorder // may be nil
	Log     *slog.Logger
}

// Run executes a job end-to-end.
func (p *Pipeline) Run(ctx context.Context, job Job) (*Result, error) {
	start := time.Now()
	log := p.logger().With(
		slog.String("dataset", job.Name),
		slog.String("table", job.Table))

	result, err := p.run(ctx, job, log)
	result.Duration = time.Since(start)

	if p.Runs != nil {
		rl := &RunLog{
			Dataset:     job.Name,
			Table:       job.Table,
			StartedAt:   start,
			FinishedAt:  start.Add(result.Duration),
			Status:      result.Status,
			RowsRead:    result.RowsRead,
			RowsWritten: result.RowsWritten,
		}
		if result.Err != nil {
			rl.Error = result.Err.Error()
		}
		if rerr := p.Runs.RecordRun(rl); rerr != nil {
			log.Warn("run log not recorded", slog.Any("error", rerr))
		}
	}

	if err != nil {
		log.Error("run failed", slog.Any("error", err))
		return result, err
	}
	log.Info("run complete",
		slog.Int("rows_read", result.RowsRead),
		slog.Int("rows_written", result.RowsWritten),
		slog.Duration("duration", result.Duration))
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, job Job, log *slog.Logger) (*Result, error) {
	result := &Result{Dataset: job.Name, Table: job.Table, Status: "error"}

	fail := func(err error) (*Result, error) {
		result.Err = err
		return result, err
	}

	// 1. Resolve format from registry.
	format, err := GetFormat(job.Source.Format)
	if err != nil {
		return fail(err)
	}

	// 2. Stage remote bytes if this format reads a file.
	in := Input{Source: job.Source}
	if format.Staged() {
		path, err := p.Fetcher.Fetch(ctx, job.Name, job.Source.URL)
		if err != nil {
			return fail(err)
		}
		in.Path = path
		log.Debug("staged", slog.String("path", path))
	}

	// 3. Normalize into a Dataset.
	ds, err := format.Normalize(ctx, job.Name, in)
	if err != nil {
		return fail(err)
	}
	result.RowsRead = ds.NumRows()

	// 4. Clean.
	rules, err := BuildRules(job.Rules)
	if err != nil {
		return fail(&ParseError{Input: job.Name, Err: err})
	}
	if err := ApplyRules(ds, rules); err != nil {
		return fail(&ParseError{Input: job.Name, Err: err})
	}

	// 5. Load, replacing the target table.
	written, err := p.Loader.Load(ctx, job.Table, ds)
	if err != nil {
		return fail(err)
	}

	result.Status = "success"
	result.RowsWritten = written
	return result, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Log != nil {
		return p.Log
	}
	return slog.Default()
}
