package limits

import (
	"slices"
	"strings"
)

// Pair holds the old and new versions of an entry present in both tables.
type Pair struct {
	Old Entry `json:"old"`
	New Entry `json:"new"`
}

// Name returns the shared entry name.
func (p Pair) Name() string {
	return p.New.Name
}

// Comparison is the classified diff of two record sets.
type Comparison struct {
	Added     []Entry `json:"added"`
	Removed   []Entry `json:"removed"`
	Changed   []Pair  `json:"changed"`
	Unchanged []Pair  `json:"unchanged"`

	OldSource    string `json:"oldSource"`
	NewSource    string `json:"newSource"`
	OldTotalKeys int    `json:"oldTotalKeys"`
	NewTotalKeys int    `json:"newTotalKeys"`
}

// Compare classifies every name of oldSet and newSet into exactly one of
// Added, Removed, Changed or Unchanged in a single pass over each side.
//
// Added, Changed and Unchanged follow the order of newSet; Removed follows
// the order of oldSet. A name repeated in oldSet resolves to its last entry;
// a name repeated in newSet is matched once and later repeats are Added.
func Compare(oldSet, newSet *RecordSet) *Comparison {
	res := &Comparison{
		Added:        []Entry{},
		Removed:      []Entry{},
		Changed:      []Pair{},
		Unchanged:    []Pair{},
		OldSource:    oldSet.Source,
		NewSource:    newSet.Source,
		OldTotalKeys: oldSet.TotalKeys,
		NewTotalKeys: newSet.TotalKeys,
	}

	pending := make(map[string]Entry, len(oldSet.Entries))
	for _, e := range oldSet.Entries {
		pending[e.Name] = e
	}

	for _, n := range newSet.Entries {
		o, ok := pending[n.Name]
		if !ok {
			res.Added = append(res.Added, n)
			continue
		}
		delete(pending, n.Name)

		if o.Limit.IsDifferent(n.Limit) {
			res.Changed = append(res.Changed, Pair{Old: o, New: n})
		} else {
			res.Unchanged = append(res.Unchanged, Pair{Old: o, New: n})
		}
	}

	for _, e := range oldSet.Entries {
		if o, ok := pending[e.Name]; ok {
			res.Removed = append(res.Removed, o)
			delete(pending, e.Name)
		}
	}

	return res
}

// Summary counts the entries in each bucket.
type Summary struct {
	Added        int `json:"added"`
	Removed      int `json:"removed"`
	Changed      int `json:"changed"`
	Unchanged    int `json:"unchanged"`
	TotalChanges int `json:"totalChanges"`
}

// Summary returns per-bucket counts. TotalChanges excludes Unchanged.
func (c *Comparison) Summary() Summary {
	s := Summary{
		Added:     len(c.Added),
		Removed:   len(c.Removed),
		Changed:   len(c.Changed),
		Unchanged: len(c.Unchanged),
	}
	s.TotalChanges = s.Added + s.Removed + s.Changed
	return s
}

// HasChanges reports whether any key was added, removed or changed.
func (c *Comparison) HasChanges() bool {
	return c.Summary().TotalChanges > 0
}

// SortByName orders every bucket by entry name.
func (c *Comparison) SortByName() {
	byEntry := func(a, b Entry) int { return strings.Compare(a.Name, b.Name) }
	byPair := func(a, b Pair) int { return strings.Compare(a.Name(), b.Name()) }

	slices.SortStableFunc(c.Added, byEntry)
	slices.SortStableFunc(c.Removed, byEntry)
	slices.SortStableFunc(c.Changed, byPair)
	slices.SortStableFunc(c.Unchanged, byPair)
}
