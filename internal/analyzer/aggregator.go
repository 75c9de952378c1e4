package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/maypok86/otter"
	"golang.org/x/sync/errgroup"

	"codescope/internal/model"
)

const generatorName = "codescope"

// recordCacheCapacity bounds the checksum cache. Re-runs over an unchanged
// tree reuse cached records instead of reparsing.
const recordCacheCapacity = 16384

// Options configures a single analysis run.
type Options struct {
	// RootDir is the directory to walk. Output paths are relative to it.
	RootDir string

	// Files restricts the run to an explicit list of paths relative to
	// RootDir, skipping discovery.
	Files []string

	// LanguageHint forces every file to one handler, bypassing extension
	// dispatch. Empty means per-file extension dispatch.
	LanguageHint string

	// Languages restricts discovery to the named languages. Empty means all.
	Languages []string

	// Include and Ignore are glob patterns over slash-normalized relative
	// paths.
	Include []string
	Ignore  []string

	// Workers bounds per-file parallelism. Zero means GOMAXPROCS.
	Workers int

	Progress ProgressReporter
	Logger   *slog.Logger
}

// Diagnostic records a per-file failure that degraded the run without
// aborting it.
type Diagnostic struct {
	FilePath string `json:"file_path" yaml:"file_path"`
	Stage    string `json:"stage" yaml:"stage"`
	Message  string `json:"message" yaml:"message"`
}

// Stats summarizes an analysis run.
type Stats struct {
	FilesDiscovered int
	FilesAnalyzed   int
	FilesSkipped    int
	FilesFailed     int
	CacheHits       int
	Duration        time.Duration
}

// Result is the outcome of one run: the canonical document plus everything
// that went wrong along the way.
type Result struct {
	Document    *model.Document
	Diagnostics []Diagnostic
	Stats       Stats
}

// Aggregator fans file analysis out over a bounded worker pool and assembles
// the canonical document. It keeps a content-checksum cache across runs so
// watch mode only reparses files that actually changed.
type Aggregator struct {
	registry *Registry
	version  string
	cache    otter.Cache[string, *model.FileRecord]
	logger   *slog.Logger
}

// NewAggregator builds an aggregator with a fresh registry and record cache.
func NewAggregator(version string, logger *slog.Logger) (*Aggregator, error) {
	cache, err := otter.MustBuilder[string, *model.FileRecord](recordCacheCapacity).Build()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		registry: NewRegistry(),
		version:  version,
		cache:    cache,
		logger:   logger,
	}, nil
}

// Close releases the record cache.
func (a *Aggregator) Close() {
	a.cache.Close()
}

// Registry exposes the language registry for callers that need the supported
// language and extension sets.
func (a *Aggregator) Registry() *Registry {
	return a.registry
}

// Run analyzes every selected file under opts.RootDir and returns the
// assembled document. Per-file failures degrade to diagnostics; only
// discovery errors and context cancellation abort the run.
func (a *Aggregator) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	progress := opts.Progress
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}

	files := opts.Files
	if len(files) == 0 {
		progress.OnDiscoveryStart()
		discovery, err := NewDiscovery(opts.RootDir, opts.Include, opts.Ignore, a.registry.Extensions(opts.Languages))
		if err != nil {
			return nil, err
		}
		files, err = discovery.Discover()
		if err != nil {
			return nil, err
		}
		progress.OnDiscoveryComplete(len(files))
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu          sync.Mutex
		diagnostics []Diagnostic
		stats       = Stats{FilesDiscovered: len(files)}
	)
	records := make([]*model.FileRecord, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, relPath := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			record, diag, cached := a.analyzeFile(opts, relPath)

			mu.Lock()
			records[i] = record
			if diag != nil {
				diagnostics = append(diagnostics, *diag)
				if record == nil {
					stats.FilesSkipped++
				} else {
					stats.FilesFailed++
				}
			} else {
				stats.FilesAnalyzed++
			}
			if cached {
				stats.CacheHits++
			}
			mu.Unlock()

			progress.OnFileAnalyzed(relPath)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc := &model.Document{
		Generator: generatorName,
		Version:   a.version,
		Files:     make([]model.FileRecord, 0, len(records)),
	}
	for _, record := range records {
		if record != nil {
			doc.Files = append(doc.Files, *record)
		}
	}
	sort.Slice(doc.Files, func(i, j int) bool {
		return doc.Files[i].FilePath < doc.Files[j].FilePath
	})

	sort.Slice(diagnostics, func(i, j int) bool {
		return diagnostics[i].FilePath < diagnostics[j].FilePath
	})

	stats.Duration = time.Since(start)
	progress.OnComplete(&stats)

	return &Result{Document: doc, Diagnostics: diagnostics, Stats: stats}, nil
}

// analyzeFile runs the single-file pipeline for one relative path. A nil
// record with a diagnostic means the file was skipped entirely; a non-nil
// record with a diagnostic means analysis degraded to an empty record.
func (a *Aggregator) analyzeFile(opts Options, relPath string) (*model.FileRecord, *Diagnostic, bool) {
	handler, err := a.registry.Resolve(relPath, opts.LanguageHint)
	if err != nil {
		a.logger.Debug("skipping file", "path", relPath, "reason", err)
		return nil, &Diagnostic{FilePath: relPath, Stage: "resolve", Message: err.Error()}, false
	}

	absPath := filepath.Join(opts.RootDir, filepath.FromSlash(relPath))
	source, err := os.ReadFile(absPath)
	if err != nil {
		a.logger.Warn("unreadable file", "path", relPath, "error", err)
		return model.NewFileRecord(relPath), &Diagnostic{FilePath: relPath, Stage: "read", Message: err.Error()}, false
	}

	key := cacheKey(handler, relPath, source)
	if record, ok := a.cache.Get(key); ok {
		return record, nil, true
	}

	record, err := AnalyzeSource(handler, relPath, source)
	if err != nil {
		a.logger.Warn("parse failed", "path", relPath, "error", err)
		return model.NewFileRecord(relPath), &Diagnostic{FilePath: relPath, Stage: "parse", Message: err.Error()}, false
	}

	a.cache.Set(key, record)
	return record, nil, false
}

// cacheKey identifies a file by path, handler, and content checksum, so an
// edit or a language-hint change both invalidate the cached record.
func cacheKey(h *Handler, relPath string, source []byte) string {
	sum := sha256.Sum256(source)
	return h.Name + ":" + h.Dialect + ":" + relPath + ":" + hex.EncodeToString(sum[:])
}
