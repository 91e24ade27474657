package diag

// Bag accumulates diagnostics up to a limit. A limit of 0 means unbounded.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 64)),
		max:   max,
	}
}

// Add appends d unless the limit is reached, in which case d is counted
// as dropped and Add returns false.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// BagOf wraps already collected diagnostics, for example faults decoded
// from a report. dropped restores the overflow count.
func BagOf(items []Diagnostic, dropped int) *Bag {
	return &Bag{items: items, dropped: dropped}
}

// Dropped returns how many diagnostics were rejected by the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors reports whether any diagnostic is an error.
func (b *Bag) HasErrors() bool {
	return b.HasFatal(SevError)
}

// HasFatal reports whether any diagnostic meets the fatal threshold.
func (b *Bag) HasFatal(threshold Severity) bool {
	for i := range b.items {
		if b.items[i].Severity.IsFatal(threshold) {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with the given code.
func (b *Bag) Count(code Code) int {
	n := 0
	for i := range b.items {
		if b.items[i].Code == code {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the kept diagnostics in emission order. The slice aliases
// the bag's storage.
func (b *Bag) Items() []Diagnostic {
	return b.items
}
