// Package runner processes the configured Java files one at a time and hands
// the resulting records to the output sinks.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"

	"github.com/mvp-joe/javameta/internal/outline"
	"github.com/mvp-joe/javameta/internal/output"
	"github.com/mvp-joe/javameta/internal/parsers"
)

// Parser turns a source file into its declaration model.
type Parser interface {
	ParseFile(ctx context.Context, path string) (*parsers.CompilationUnit, error)
}

// Options configures a Runner.
type Options struct {
	// Console receives the "Processing file" headers and descriptor lines.
	Console io.Writer

	// Progress receives run callbacks. Defaults to NoOpProgressReporter.
	Progress ProgressReporter

	// Exclude holds glob patterns; matching paths are skipped.
	Exclude []string

	// ContinueOnError drops failing files instead of aborting the run.
	ContinueOnError bool
}

// FileFailure is a file dropped from a run because it could not be processed.
type FileFailure struct {
	Path string
	Err  error
}

// Result summarises a run.
type Result struct {
	RunID    string
	Records  []outline.FileRecord
	Skipped  []string
	Failures []FileFailure
	Duration time.Duration
}

// DescriptorCount returns the number of descriptors across all records.
func (r *Result) DescriptorCount() int {
	n := 0
	for _, rec := range r.Records {
		n += len(rec.Details)
	}
	return n
}

// Runner processes file lists sequentially.
type Runner struct {
	parser  Parser
	opts    Options
	exclude []glob.Glob
	sinks   []output.Sink
}

// New creates a Runner writing results to the given sinks, in order.
func New(parser Parser, opts Options, sinks ...output.Sink) (*Runner, error) {
	if parser == nil {
		return nil, errors.New("runner requires a parser")
	}
	if opts.Console == nil {
		opts.Console = io.Discard
	}
	if opts.Progress == nil {
		opts.Progress = &NoOpProgressReporter{}
	}

	exclude := make([]glob.Glob, 0, len(opts.Exclude))
	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
		}
		exclude = append(exclude, g)
	}

	return &Runner{parser: parser, opts: opts, exclude: exclude, sinks: sinks}, nil
}

// Run processes paths in order and writes the records to every sink.
//
// By default the first file that cannot be read or parsed aborts the run and
// nothing is written. With ContinueOnError the failing files are left out,
// the sinks receive the remaining records, and the failures are returned
// joined together alongside the Result.
func (r *Runner) Run(ctx context.Context, paths []string) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:   uuid.NewString(),
		Records: make([]outline.FileRecord, 0, len(paths)),
	}

	r.opts.Progress.OnRunStart(len(paths))
	defer func() {
		result.Duration = time.Since(start)
		r.opts.Progress.OnComplete(result)
	}()

	var failures []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if r.excluded(path) {
			log.Printf("Skipping excluded file: %s", path)
			result.Skipped = append(result.Skipped, path)
			r.opts.Progress.OnFileProcessed(path, 0)
			continue
		}

		fmt.Fprintf(r.opts.Console, "Processing file: %s\n", path)

		record, err := r.processFile(ctx, path)
		if err != nil {
			if !r.opts.ContinueOnError || errors.Is(err, context.Canceled) {
				return result, err
			}
			fmt.Fprintf(r.opts.Console, "Failed to process file: %s: %v\n", path, err)
			result.Failures = append(result.Failures, FileFailure{Path: path, Err: err})
			failures = append(failures, err)
			r.opts.Progress.OnFileProcessed(path, 0)
			continue
		}

		result.Records = append(result.Records, record)
		r.opts.Progress.OnFileProcessed(path, len(record.Details))
	}

	batch := &output.Batch{
		RunID:     result.RunID,
		CreatedAt: start,
		Records:   result.Records,
	}
	for _, sink := range r.sinks {
		if err := sink.Write(ctx, batch); err != nil {
			return result, fmt.Errorf("failed to write %s output: %w", sink.Name(), err)
		}
	}

	return result, errors.Join(failures...)
}

func (r *Runner) processFile(ctx context.Context, path string) (outline.FileRecord, error) {
	unit, err := r.parser.ParseFile(ctx, path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return outline.FileRecord{}, fmt.Errorf("%w: %w", ErrFileAccess, err)
		}
		return outline.FileRecord{}, err
	}

	descriptors := outline.Extract(unit)
	for _, line := range outline.Lines(descriptors) {
		fmt.Fprintln(r.opts.Console, line)
	}
	return outline.NewFileRecord(path, descriptors), nil
}

func (r *Runner) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, g := range r.exclude {
		if g.Match(slashed) {
			return true
		}
	}
	return false
}
