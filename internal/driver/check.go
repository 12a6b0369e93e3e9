// Package driver runs uclint over a project: it collects C# sources, parses
// and binds them, evaluates the rules and, for `uclint fix`, rewrites files.
package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"uclint/internal/baseline"
	"uclint/internal/binder"
	"uclint/internal/catalog"
	"uclint/internal/config"
	"uclint/internal/diag"
	"uclint/internal/fix"
	"uclint/internal/observ"
	"uclint/internal/rules"
	"uclint/internal/source"
	"uclint/internal/syntax"
	"uclint/internal/trace"
)

// Options configures Check and Fix.
type Options struct {
	// Manifest overrides discovery of uclint.toml from the target path.
	Manifest *config.Manifest
	// Jobs bounds parallel parsing and analysis; 0 uses the manifest value,
	// then GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the reported findings; 0 uses the manifest value.
	MaxDiagnostics int
	IgnoreWarnings bool
	NoBaseline     bool
	Progress       ProgressSink
	Timer          *observ.Timer
}

// FileResult is the per-file outcome of a check.
type FileResult struct {
	Path   string // relative to the project root, slash separated
	FileID source.FileID
	Tree   *syntax.Tree
	Bag    *diag.Bag
}

// Result is the outcome of Check.
type Result struct {
	FileSet  *source.FileSet
	Manifest *config.Manifest
	Files    []FileResult
	Binding  *binder.Binding
	Rules    *rules.Engine
	Fixes    *fix.Engine
	// Bag holds the reported findings: merged, deduplicated, sorted and capped.
	Bag *diag.Bag
	// All holds every finding that survived pragma and baseline filtering,
	// before the cap.
	All        []diag.Diagnostic
	Suppressed int // silenced by #pragma warning disable
	Baselined  int // accepted in the baseline file
	Baseline   *baseline.Baseline
}

// Trees maps every parsed file to its tree.
func (r *Result) Trees() map[source.FileID]*syntax.Tree {
	out := make(map[source.FileID]*syntax.Tree, len(r.Files))
	for _, f := range r.Files {
		out[f.FileID] = f.Tree
	}
	return out
}

// Check analyzes the file or directory at path.
func Check(ctx context.Context, path string, opts Options) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	defer span.End("")

	m := opts.Manifest
	if m == nil {
		var err error
		if m, err = config.Discover(path); err != nil {
			return nil, err
		}
	}
	cfg := m.Config
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = cfg.Analysis.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = cfg.Analysis.MaxDiagnostics
	}

	targets, err := cfg.RuleTargets()
	if err != nil {
		return nil, err
	}
	overrides, err := cfg.Overrides()
	if err != nil {
		return nil, err
	}
	catalogs, err := loadCatalogs(m)
	if err != nil {
		return nil, err
	}

	res := &Result{
		FileSet:  source.NewFileSetWithBase(m.Root),
		Manifest: m,
		Fixes:    fix.DefaultEngine(targets),
	}
	if !opts.NoBaseline {
		if p := m.BaselinePath(); p != "" {
			if res.Baseline, err = baseline.Load(p); err != nil {
				return nil, err
			}
		}
	}

	if err := res.collect(ctx, path, opts); err != nil {
		return nil, err
	}
	if err := res.parse(ctx, jobs, opts); err != nil {
		return nil, err
	}

	opts.Timer.Measure("bind", func() string {
		_, bspan := trace.Start(ctx, trace.ScopePass, "bind")
		defer bspan.End("")
		trees := make([]*syntax.Tree, len(res.Files))
		for i, f := range res.Files {
			trees[i] = f.Tree
		}
		res.Binding = binder.Bind(trees, binder.Options{Module: cfg.Project.Module, Catalogs: catalogs})
		env := rules.NewEnv(res.Binding.Universe, targets)
		res.Rules = rules.NewEngine(env, nil, overrides)
		return fmt.Sprintf("decls=%d", len(res.Binding.Decls()))
	})

	if err := res.analyze(ctx, jobs, opts); err != nil {
		return nil, err
	}
	res.finish(maxDiags, opts)
	span.WithExtra("findings", strconv.Itoa(res.Bag.Len()))
	emit(opts.Progress, Event{Stage: StageAnalyze, Status: StatusDone, Findings: res.Bag.Len()})
	return res, nil
}

func loadCatalogs(m *config.Manifest) ([]*catalog.Catalog, error) {
	var out []*catalog.Catalog
	if m.Config.UseBuiltinCatalogs() {
		builtin, err := catalog.Builtin()
		if err != nil {
			return nil, err
		}
		out = append(out, builtin...)
	}
	for _, p := range m.CatalogPaths() {
		c, err := catalog.Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *Result) collect(ctx context.Context, path string, opts Options) error {
	idx := opts.Timer.Begin("collect")
	_, span := trace.Start(ctx, trace.ScopePass, "collect")
	files, err := listSources(path, r.Manifest)
	span.End("")
	if err != nil {
		opts.Timer.End(idx, "")
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, p := range files {
		id, err := r.FileSet.Load(p)
		if err != nil {
			opts.Timer.End(idx, "")
			return fmt.Errorf("%s: %w", p, err)
		}
		rel := filepath.ToSlash(r.FileSet.Get(id).FormatPath("relative", r.Manifest.Root))
		r.Files = append(r.Files, FileResult{Path: rel, FileID: id})
		emit(opts.Progress, Event{File: rel, Stage: StageParse, Status: StatusQueued})
	}
	opts.Timer.End(idx, fmt.Sprintf("files=%d", len(files)))
	return nil
}

func (r *Result) parse(ctx context.Context, jobs int, opts Options) error {
	idx := opts.Timer.Begin("parse")
	ctx, span := trace.Start(ctx, trace.ScopePass, "parse")
	defer span.End("")

	var syntaxErrors atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(r.Files))))
	for i := range r.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f := &r.Files[i]
			start := time.Now()
			emit(opts.Progress, Event{File: f.Path, Stage: StageParse, Status: StatusWorking})
			_, fspan := trace.Start(gctx, trace.ScopeFile, "parse:"+f.Path)
			tree, err := syntax.Parse(gctx, r.FileSet.Get(f.FileID))
			fspan.End("")
			if err != nil {
				emit(opts.Progress, Event{File: f.Path, Stage: StageParse, Status: StatusError, Err: err})
				return fmt.Errorf("%s: %w", f.Path, err)
			}
			if tree.Errors > 0 {
				syntaxErrors.Add(int64(tree.Errors))
				trace.Point(gctx, trace.ScopeFile, "syntax-errors", fmt.Sprintf("%s: %d", f.Path, tree.Errors))
			}
			// индекс уникален, мьютекс не нужен
			f.Tree = tree
			emit(opts.Progress, Event{File: f.Path, Stage: StageParse, Status: StatusWorking, Elapsed: time.Since(start)})
			return nil
		})
	}
	err := g.Wait()
	opts.Timer.End(idx, fmt.Sprintf("syntax_errors=%d", syntaxErrors.Load()))
	return err
}

func (r *Result) analyze(ctx context.Context, jobs int, opts Options) error {
	idx := opts.Timer.Begin("analyze")
	ctx, span := trace.Start(ctx, trace.ScopePass, "analyze")
	defer span.End("")

	var suppressed, baselined atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(r.Files))))
	for i := range r.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f := &r.Files[i]
			emit(opts.Progress, Event{File: f.Path, Stage: StageAnalyze, Status: StatusWorking})
			bag := diag.NewBag(0)
			keep := func(d diag.Diagnostic) bool {
				if f.Tree.Suppressed(d.Code.ID(), d.Primary.Start) {
					suppressed.Add(1)
					return false
				}
				if key, ok := r.baselineKey(f, d); ok && r.Baseline.Contains(key) {
					baselined.Add(1)
					return false
				}
				if opts.IgnoreWarnings && d.Severity <= diag.SevWarning {
					return false
				}
				return true
			}
			r.Rules.Run(r.Binding.Files[i].Decls, diag.FilterReporter{Next: diag.BagReporter{Bag: bag}, Keep: keep})
			f.Bag = bag
			emit(opts.Progress, Event{File: f.Path, Stage: StageAnalyze, Status: StatusDone, Findings: bag.Len()})
			return nil
		})
	}
	err := g.Wait()
	r.Suppressed = int(suppressed.Load())
	r.Baselined = int(baselined.Load())
	opts.Timer.End(idx, fmt.Sprintf("suppressed=%d baselined=%d", r.Suppressed, r.Baselined))
	return err
}

// finish merges per-file bags in file order and attaches fix suggestions.
func (r *Result) finish(maxDiags int, opts Options) {
	all := diag.NewBag(0)
	for _, f := range r.Files {
		all.Merge(f.Bag)
	}
	all.Dedup()
	all.Sort()
	r.All = append([]diag.Diagnostic(nil), all.Items()...)

	bag := diag.NewBag(maxDiags)
	for _, d := range all.Items() {
		for _, s := range r.Fixes.Suggestions(d) {
			d = d.WithFixSuggestion(s)
		}
		if !bag.Add(d) {
			break
		}
	}
	r.Bag = bag
}
