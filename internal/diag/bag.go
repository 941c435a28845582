package diag

import (
	"cmp"
	"slices"
)

// Bag collects the diagnostics of one unit up to a limit.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag returns a bag holding at most max diagnostics (100 if max <= 0).
func NewBag(max int) *Bag {
	if max <= 0 {
		max = 100
	}
	return &Bag{items: make([]Diagnostic, 0, min(max, 16)), max: max}
}

// Add reports false when the bag is full and d was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int { return b.max }

func (b *Bag) Len() int { return len(b.items) }

// Items returns the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// worst is the highest severity present, false for an empty bag.
func (b *Bag) worst() (Severity, bool) {
	if len(b.items) == 0 {
		return SevInfo, false
	}
	return slices.MaxFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Compare(x.Severity, y.Severity)
	}).Severity, true
}

func (b *Bag) HasErrors() bool {
	sev, ok := b.worst()
	return ok && sev >= SevError
}

// HasWarnings is true for warnings and errors alike.
func (b *Bag) HasWarnings() bool {
	sev, ok := b.worst()
	return ok && sev >= SevWarning
}

// Merge appends other, growing the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	b.max = max(b.max, len(b.items))
}

// Sort orders by module, then subject, then severity (worst first), then
// code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Module, y.Module),
			cmp.Compare(x.Subject, y.Subject),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

type dedupKey struct {
	code    Code
	module  string
	subject string
	message string
}

// Dedup keeps the first diagnostic of each code, module, subject and
// message.
func (b *Bag) Dedup() {
	seen := make(map[dedupKey]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := dedupKey{d.Code, d.Module, d.Subject, d.Message}
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}

// Filter drops diagnostics below sev.
func (b *Bag) Filter(sev Severity) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return d.Severity < sev })
}
