package driver

import (
	"context"
	"errors"
	"fmt"

	"uclint/internal/fix"
	"uclint/internal/trace"
)

// FixResult is the outcome of Fix.
type FixResult struct {
	Check *Result
	Apply *fix.ApplyResult
}

// Fix checks path and applies fixes for the findings selected by fopts.
// fix.ErrNoFixes is returned when nothing could be fixed.
func Fix(ctx context.Context, path string, opts Options, fopts fix.ApplyOptions) (*FixResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "fix")
	defer span.End("")

	checked, err := Check(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	out := &FixResult{Check: checked}

	idx := opts.Timer.Begin("fix")
	_, pspan := trace.Start(ctx, trace.ScopePass, "apply")
	emit(opts.Progress, Event{Stage: StageFix, Status: StatusWorking})
	out.Apply, err = checked.Fixes.Apply(checked.FileSet, checked.Trees(), checked.All, fopts)
	pspan.End("")
	note := ""
	if out.Apply != nil {
		note = fmt.Sprintf("applied=%d skipped=%d", len(out.Apply.Applied), len(out.Apply.Skipped))
		for _, ch := range out.Apply.FileChanges {
			emit(opts.Progress, Event{File: ch.Path, Stage: StageFix, Status: StatusDone})
		}
	}
	opts.Timer.End(idx, note)

	if err != nil && !errors.Is(err, fix.ErrNoFixes) {
		emit(opts.Progress, Event{Stage: StageFix, Status: StatusError, Err: err})
	} else {
		emit(opts.Progress, Event{Stage: StageFix, Status: StatusDone})
	}
	return out, err
}
