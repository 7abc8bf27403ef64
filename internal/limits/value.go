package limits

import (
	"maps"
	"slices"
)

// Limit maps a metric label to its numeric bound.
type Limit map[string]float64

// IsDifferent reports whether l and other have different label sets or any
// shared label with a different value. Values are compared exactly.
func (l Limit) IsDifferent(other Limit) bool {
	if len(l) != len(other) {
		return true
	}
	for k, v := range l {
		if ov, ok := other[k]; !ok || ov != v {
			return true
		}
	}
	return false
}

// Equal is the negation of IsDifferent.
func (l Limit) Equal(other Limit) bool {
	return !l.IsDifferent(other)
}

// Keys returns the metric labels in sorted order.
func (l Limit) Keys() []string {
	return slices.Sorted(maps.Keys(l))
}

// Upper returns the "max" bound, falling back to "upper".
func (l Limit) Upper() (float64, bool) {
	return l.first("max", "upper")
}

// Lower returns the "min" bound, falling back to "lower".
func (l Limit) Lower() (float64, bool) {
	return l.first("min", "lower")
}

func (l Limit) first(labels ...string) (float64, bool) {
	for _, label := range labels {
		if v, ok := l[label]; ok {
			return v, true
		}
	}
	return 0, false
}

// Clone returns a copy of l that shares no storage with it.
func (l Limit) Clone() Limit {
	c := make(Limit, len(l))
	maps.Copy(c, l)
	return c
}

// Entry is one parametric test item. Entries are identified by Name.
type Entry struct {
	Name  string `json:"name"`
	Limit Limit  `json:"limit"`
}

// RecordSet is the parsed form of one limit table.
type RecordSet struct {
	// Source identifies the table (file name or version label). Parse leaves
	// it empty; callers set it.
	Source string `json:"source,omitempty"`

	// ParametricColumn is the 0-based column holding the marker, or -1.
	ParametricColumn int `json:"parametricColumn"`

	// TotalKeys counts the key-row cells consumed as parametric names.
	TotalKeys int `json:"totalKeys"`

	// Entries are ordered by ascending column index.
	Entries []Entry `json:"entries"`
}

// Names returns the entry names in record set order.
func (rs *RecordSet) Names() []string {
	names := make([]string, len(rs.Entries))
	for i, e := range rs.Entries {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the entry with the given name. When names repeat, the last
// one wins, matching how Compare resolves them.
func (rs *RecordSet) Lookup(name string) (Entry, bool) {
	for i := len(rs.Entries) - 1; i >= 0; i-- {
		if rs.Entries[i].Name == name {
			return rs.Entries[i], true
		}
	}
	return Entry{}, false
}
