package diag

import "uclint/internal/source"

// Reporter is the minimal sink for diagnostics.
// Implementations: BagReporter, NopReporter, DedupReporter, FilterReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter writes into *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// FilterReporter forwards diagnostics for which Keep returns true.
type FilterReporter struct {
	Next Reporter
	Keep func(Diagnostic) bool
}

func (r FilterReporter) Report(d Diagnostic) {
	if r.Next == nil {
		return
	}
	if r.Keep != nil && !r.Keep(d) {
		return
	}
	r.Next.Report(d)
}

type dedupKey struct {
	code  Code
	file  source.FileID
	start uint32
	end   uint32
	msg   string
}

// DedupReporter wraps another Reporter and suppresses duplicate diagnostics
// with the same code, primary span and message. It is not safe for
// concurrent use.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := dedupKey{
		code:  d.Code,
		file:  d.Primary.File,
		start: d.Primary.Start,
		end:   d.Primary.End,
		msg:   d.Message,
	}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
