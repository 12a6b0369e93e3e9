package fix

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"uclint/internal/diag"
	"uclint/internal/rules"
	"uclint/internal/source"
	"uclint/internal/syntax"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// Engine maps rule codes to fix providers.
type Engine struct {
	providers map[diag.Code][]Provider
}

// NewEngine registers providers in order; the first provider of a code is
// the one Fix and FixAll use.
func NewEngine(providers ...Provider) *Engine {
	e := &Engine{providers: make(map[diag.Code][]Provider)}
	for _, p := range providers {
		e.providers[p.Code()] = append(e.providers[p.Code()], p)
	}
	return e
}

// DefaultEngine returns the built-in providers for targets.
func DefaultEngine(targets rules.Targets) *Engine {
	return NewEngine(
		AddTooltip{Description: targets.Description},
		MakePrivate{Expose: targets.Expose},
	)
}

// FixesFor returns the providers registered for code.
func (e *Engine) FixesFor(code diag.Code) []Provider {
	return e.providers[code]
}

// Suggestions lists the fixes a host may offer for d.
func (e *Engine) Suggestions(d diag.Diagnostic) []diag.FixSuggestion {
	ps := e.FixesFor(d.Code)
	out := make([]diag.FixSuggestion, 0, len(ps))
	for _, p := range ps {
		out = append(out, diag.FixSuggestion{Title: p.Title(), EquivalenceKey: p.EquivalenceKey()})
	}
	return out
}

// Fix applies the first provider registered for d's code.
func (e *Engine) Fix(tree *syntax.Tree, d diag.Diagnostic) (Result, error) {
	ps := e.FixesFor(d.Code)
	if len(ps) == 0 {
		return Result{}, fmt.Errorf("%w: no fix registered for %s", ErrNotApplicable, d.Code)
	}
	return ps[0].Apply(tree, d)
}

// BatchApplied is one diagnostic fixed by FixAll.
type BatchApplied struct {
	Diagnostic diag.Diagnostic
	Title      string
	Ref        syntax.FieldRef
}

// BatchSkipped is one diagnostic FixAll did not fix.
type BatchSkipped struct {
	Diagnostic diag.Diagnostic
	Title      string
	Reason     string
}

// Batch is the outcome of FixAll.
type Batch struct {
	Tree    *syntax.Tree
	Applied []BatchApplied
	Skipped []BatchSkipped
}

// FixAll fixes every diagnostic against tree. Each fix is resolved against
// the original tree with its own diagnostic; the rewritten fields are then
// grafted in position order. When several diagnostics target the same
// declaration the first one wins and the rest are skipped.
func (e *Engine) FixAll(tree *syntax.Tree, diags []diag.Diagnostic) Batch {
	batch := Batch{Tree: tree}
	replaced := make(map[syntax.FieldRef]*syntax.FieldDecl)
	for _, d := range diags {
		ps := e.FixesFor(d.Code)
		if len(ps) == 0 {
			batch.Skipped = append(batch.Skipped, BatchSkipped{Diagnostic: d, Reason: "no fix available"})
			continue
		}
		p := ps[0]
		res, err := p.Apply(tree, d)
		if err != nil {
			batch.Skipped = append(batch.Skipped, BatchSkipped{Diagnostic: d, Title: p.Title(), Reason: err.Error()})
			continue
		}
		if _, taken := replaced[res.Ref]; taken {
			batch.Skipped = append(batch.Skipped, BatchSkipped{
				Diagnostic: d,
				Title:      p.Title(),
				Reason:     "declaration already rewritten by another fix",
			})
			continue
		}
		replaced[res.Ref] = res.Field
		batch.Applied = append(batch.Applied, BatchApplied{Diagnostic: d, Title: p.Title(), Ref: res.Ref})
	}

	refs := make([]syntax.FieldRef, 0, len(replaced))
	for ref := range replaced {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	for _, ref := range refs {
		batch.Tree = batch.Tree.ReplaceField(ref, replaced[ref])
	}
	return batch
}

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected and written.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// Rule limits candidates to one code when set.
	Rule   diag.Code
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file. Content is the
// rendered source as it was (or, in a dry run, would be) written.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   Provider
	id    string
	order int
}

// CandidateID is the stable id shown next to a fixable diagnostic and
// accepted by ApplyModeID: "<code>@<path>:<line>:<col>".
func CandidateID(fs *source.FileSet, d diag.Diagnostic) string {
	path := formatFilePath(fs, d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	return fmt.Sprintf("%s@%s:%d:%d", d.Code.ID(), path, start.Line, start.Col)
}

// Apply collects fixes for diagnostics, selects a subset according to opts,
// and writes the rewritten files. trees must hold the tree each diagnostic
// was produced from.
func (e *Engine) Apply(fs *source.FileSet, trees map[source.FileID]*syntax.Tree, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
	}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates := e.gatherCandidates(fs, diagnostics, opts.Rule)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)

	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, skippedDuringApply, changes, err := e.applyCandidates(fs, trees, selected, opts.DryRun)
	result.Applied = append(result.Applied, applied...)
	result.Skipped = append(result.Skipped, skippedDuringApply...)
	result.FileChanges = append(result.FileChanges, changes...)

	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

func (e *Engine) gatherCandidates(fs *source.FileSet, diagnostics []diag.Diagnostic, rule diag.Code) []candidate {
	cands := make([]candidate, 0)
	for i, d := range diagnostics {
		if rule != diag.UnknownCode && d.Code != rule {
			continue
		}
		ps := e.FixesFor(d.Code)
		if len(ps) == 0 {
			continue
		}
		cands = append(cands, candidate{
			diag:  d,
			fix:   ps[0],
			id:    CandidateID(fs, d),
			order: i,
		})
	}
	return cands
}

// sortCandidates orders candidates by file, span and insertion order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		return di.Code < dj.Code
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.id == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{
			ID:     opts.TargetID,
			Reason: "fix id not found",
		}}
	case ApplyModeAll:
		return candidates, nil
	case ApplyModeOnce:
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

func (e *Engine) applyCandidates(fs *source.FileSet, trees map[source.FileID]*syntax.Tree, selected []candidate, dryRun bool) ([]AppliedFix, []SkippedFix, []FileChange, error) {
	byFile := make(map[source.FileID][]candidate)
	var files []source.FileID
	for _, cand := range selected {
		id := cand.diag.Primary.File
		if _, seen := byFile[id]; !seen {
			files = append(files, id)
		}
		byFile[id] = append(byFile[id], cand)
	}

	applied := make([]AppliedFix, 0, len(selected))
	skipped := make([]SkippedFix, 0)
	changes := make([]FileChange, 0, len(files))
	baseDir := fs.BaseDir()

	for _, fileID := range files {
		cands := byFile[fileID]
		file := fs.Get(fileID)
		tree := trees[fileID]
		if file == nil || tree == nil {
			for _, cand := range cands {
				skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title(), Reason: "source tree not available"})
			}
			continue
		}
		if !dryRun && file.Flags&source.FileVirtual != 0 {
			for _, cand := range cands {
				skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title(), Reason: "target file is virtual"})
			}
			continue
		}

		diags := make([]diag.Diagnostic, len(cands))
		for i, cand := range cands {
			diags[i] = cand.diag
		}
		batch := e.FixAll(tree, diags)

		ids := make(map[source.Span]candidate, len(cands))
		for _, cand := range cands {
			ids[cand.diag.Primary] = cand
		}
		for _, s := range batch.Skipped {
			cand := ids[s.Diagnostic.Primary]
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: s.Title, Reason: s.Reason})
		}
		if len(batch.Applied) == 0 {
			continue
		}
		for _, a := range batch.Applied {
			cand := ids[a.Diagnostic.Primary]
			applied = append(applied, AppliedFix{
				ID:          cand.id,
				Title:       a.Title,
				Code:        a.Diagnostic.Code,
				Message:     a.Diagnostic.Message,
				PrimaryPath: formatFilePath(fs, fileID),
			})
		}

		content := restoreEncoding(batch.Tree.Render(), file.Flags)
		if !dryRun {
			if err := writeFile(file.Path, content); err != nil {
				return applied, skipped, changes, err
			}
		}
		changes = append(changes, FileChange{
			Path:      file.FormatPath("relative", baseDir),
			EditCount: len(batch.Tree.Edits()),
			Content:   content,
		})
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
	return applied, skipped, changes, nil
}

// restoreEncoding undoes the normalisation done when the file was loaded.
func restoreEncoding(content []byte, flags source.FileFlags) []byte {
	if flags&source.FileNormalizedCRLF != 0 {
		content = []byte(strings.ReplaceAll(string(content), "\n", "\r\n"))
	}
	if flags&source.FileHadBOM != 0 {
		content = append([]byte{0xEF, 0xBB, 0xBF}, content...)
	}
	return content
}

// writeFile replaces path through a temporary file in the same directory,
// keeping the original permissions.
func writeFile(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".uclint-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	if fs == nil {
		return ""
	}
	file := fs.Get(fileID)
	if file == nil {
		return ""
	}
	return filepath.ToSlash(file.FormatPath("relative", fs.BaseDir()))
}
