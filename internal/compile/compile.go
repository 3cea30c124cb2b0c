// Package compile provides the high-level orchestration for the dataset build:
// browse all NEO summary records, look up orbital parameters per identifier,
// join the two, and persist the result as a single JSON file.
package compile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/yaman1337/neo-data/internal/neows"
	"github.com/yaman1337/neo-data/internal/sbdb"
)

// Browser lists all NEO summary records.
type Browser interface {
	BrowseAll(ctx context.Context, maxPages int) ([]neows.Summary, error)
}

// Lookup resolves one identifier to its orbital-parameter record.
type Lookup interface {
	Lookup(ctx context.Context, identifier string) (sbdb.OrbitalRecord, error)
}

// Entry pairs one summary record with the orbital record fetched for its
// identifier. Both payloads are service responses verbatim.
type Entry struct {
	NeoInfo     json.RawMessage `json:"neoInfo"`
	OrbitalData json.RawMessage `json:"orbitalData"`
}

// Options configures a compile run.
type Options struct {
	OutputPath string
	MaxPages   int
	// Concurrency bounds the per-identifier lookup pool. Values <= 1 run
	// lookups sequentially, matching the original design. Join order follows
	// browse order either way.
	Concurrency int
	// OnSkip is called for each identifier whose lookup failed under the skip
	// policy. Optional.
	OnSkip func(identifier string, err error)
}

// Result summarizes a completed run.
type Result struct {
	Entries int
	Skipped []string
	// Dataset is the compiled dataset as written, for callers that persist it
	// elsewhere (e.g. the run ledger).
	Dataset []Entry
}

// WriteError represents a failure persisting the output file.
type WriteError struct {
	Path    string
	Message string
	Cause   error
}

func (e *WriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("write error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("write error for %s: %s", e.Path, e.Message)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// LookupFailure records one identifier skipped during the join.
type LookupFailure struct {
	Identifier string
	Err        error
}

// Run executes the full fetch-join pipeline and writes the compiled dataset.
//
// Browse errors abort the run before anything is written; a partial summary
// list is not useful for the join. Per-identifier lookup failures follow the
// skip policy: the entry is omitted and the identifier reported in
// Result.Skipped, so skips are observable but never fatal. The output file is
// written once, atomically, at the end of the run.
func Run(ctx context.Context, browser Browser, lookup Lookup, opts Options) (*Result, error) {
	summaries, err := browser.BrowseAll(ctx, opts.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("browse failed: %w", err)
	}

	records, failures, err := lookupAll(ctx, lookup, summaries, opts.Concurrency)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(summaries))
	var skipped []string
	for i, summary := range summaries {
		if failures[i] != nil {
			skipped = append(skipped, summary.ID)
			if opts.OnSkip != nil {
				opts.OnSkip(summary.ID, failures[i].Err)
			}
			continue
		}
		entries = append(entries, Entry{
			NeoInfo:     summary.Raw,
			OrbitalData: records[i],
		})
	}

	if err := WriteDataset(opts.OutputPath, entries); err != nil {
		return nil, err
	}

	return &Result{Entries: len(entries), Skipped: skipped, Dataset: entries}, nil
}

// lookupAll resolves orbital records for every summary, position-indexed so
// the join preserves browse order regardless of concurrency. Failures are
// recorded per position for the caller's skip policy.
func lookupAll(ctx context.Context, lookup Lookup, summaries []neows.Summary, concurrency int) ([]sbdb.OrbitalRecord, []*LookupFailure, error) {
	records := make([]sbdb.OrbitalRecord, len(summaries))
	failures := make([]*LookupFailure, len(summaries))

	if concurrency <= 1 {
		for i, summary := range summaries {
			record, err := lookup.Lookup(ctx, summary.ID)
			if err != nil {
				failures[i] = &LookupFailure{Identifier: summary.ID, Err: err}
				continue
			}
			records[i] = record
		}
		return records, failures, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, summary := range summaries {
		i, summary := i, summary
		g.Go(func() error {
			record, err := lookup.Lookup(gCtx, summary.ID)
			if err != nil {
				failures[i] = &LookupFailure{Identifier: summary.ID, Err: err}
				return nil
			}
			records[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return records, failures, nil
}

// WriteDataset marshals the entries as a JSON array and writes them to path
// via a temp file and rename, so a failed run never clobbers a prior output.
func WriteDataset(path string, entries []Entry) error {
	// Marshal before touching the filesystem; an empty dataset is still a
	// valid empty array.
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return &WriteError{Path: path, Message: "failed to marshal dataset", Cause: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &WriteError{Path: path, Message: "failed to create temp file", Cause: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &WriteError{Path: path, Message: "failed to write dataset", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &WriteError{Path: path, Message: "failed to flush dataset", Cause: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return &WriteError{Path: path, Message: "failed to move dataset into place", Cause: err}
	}
	return nil
}
