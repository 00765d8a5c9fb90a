// Package runner drives organize over many files: walk, filter,
// organize, validate, write. Every file is an independent pure call;
// a failure is recorded and the walk continues, per the caller's
// decision to skip, log, or abort afterwards.
package runner

import (
	"os"
	"path/filepath"

	"github.com/agentic-research/tsorg/api"
	"github.com/agentic-research/tsorg/internal/cache"
	"github.com/agentic-research/tsorg/internal/fileset"
	"github.com/agentic-research/tsorg/internal/hostfs"
	"github.com/agentic-research/tsorg/internal/organize"
	"github.com/agentic-research/tsorg/internal/writeback"
)

type Status int

const (
	StatusOrganized Status = iota // file rewritten (or would be, in check mode)
	StatusUnchanged               // already canonical
	StatusSkipped                 // clean per cache, not parsed at all
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOrganized:
		return "organized"
	case StatusUnchanged:
		return "unchanged"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// FileResult is one file's outcome.
type FileResult struct {
	Path   string
	Status Status
	Err    error
}

// Options tune one run.
type Options struct {
	// Check reports files not in canonical form without writing.
	Check bool
	// Cache, when set, skips files recorded as clean and is updated as
	// the run proceeds. The caller flushes and closes it.
	Cache *cache.Cache
}

// WriteFunc persists organized content. The CLI passes an atomic
// replace; tests capture writes in memory.
type WriteFunc func(path string, data []byte) error

// Runner holds the per-run immutable pieces.
type Runner struct {
	src    *hostfs.Source
	cfg    *api.Config
	filter *fileset.Filter
	write  WriteFunc
}

func New(src *hostfs.Source, cfg *api.Config, write WriteFunc) (*Runner, error) {
	filter, err := fileset.New(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	return &Runner{src: src, cfg: cfg, filter: filter, write: write}, nil
}

// Run walks root and organizes every file the filter accepts. The
// returned results are in walk order; the error covers the walk itself,
// never an individual file.
func (r *Runner) Run(root string, opts Options) ([]FileResult, error) {
	var results []FileResult
	err := r.src.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			rel = path
		}
		if !r.filter.Match(rel) {
			return nil
		}
		results = append(results, r.File(path, opts))
		return nil
	})
	return results, err
}

// File organizes a single file.
func (r *Runner) File(path string, opts Options) FileResult {
	text, err := r.src.ReadText(path)
	if err != nil {
		return FileResult{Path: path, Status: StatusFailed, Err: err}
	}
	hash := cache.HashContent([]byte(text))
	if opts.Cache != nil && opts.Cache.IsClean(path, hash) {
		return FileResult{Path: path, Status: StatusSkipped}
	}

	res, err := organize.Organize(path, text, r.cfg)
	if err != nil {
		return FileResult{Path: path, Status: StatusFailed, Err: err}
	}
	if !res.Changed {
		if opts.Cache != nil {
			opts.Cache.MarkClean(path, hash)
		}
		return FileResult{Path: path, Status: StatusUnchanged}
	}
	if opts.Check {
		return FileResult{Path: path, Status: StatusOrganized}
	}

	out := []byte(res.Output)
	if err := writeback.Validate(out, path); err != nil {
		return FileResult{Path: path, Status: StatusFailed, Err: err}
	}
	if err := r.write(path, out); err != nil {
		if opts.Cache != nil {
			opts.Cache.Invalidate(path)
		}
		return FileResult{Path: path, Status: StatusFailed, Err: err}
	}
	if opts.Cache != nil {
		opts.Cache.MarkClean(path, cache.HashContent(out))
	}
	return FileResult{Path: path, Status: StatusOrganized}
}
