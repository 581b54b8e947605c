package bandit

import "mapinfer/trace"

// Table maps a choice-site identifier to the Bandit observed at that site.
// It persists across the learning runs of one pass and is discarded at the
// start of each new pass.
type Table struct {
	bandits map[trace.SiteID]*Bandit
}

// NewTable returns an empty bandit table.
func NewTable() *Table {
	return &Table{bandits: make(map[trace.SiteID]*Bandit)}
}

// Get returns the bandit at site, if one has been created.
func (t *Table) Get(site trace.SiteID) (*Bandit, bool) {
	b, ok := t.bandits[site]
	return b, ok
}

// GetOrCreate returns the bandit at site, creating and storing a fresh one if
// absent.
func (t *Table) GetOrCreate(site trace.SiteID) *Bandit {
	b, ok := t.bandits[site]
	if !ok {
		b = New()
		t.bandits[site] = b
	}
	return b
}

// Len returns the number of distinct choice sites with a bandit.
func (t *Table) Len() int {
	return len(t.bandits)
}
