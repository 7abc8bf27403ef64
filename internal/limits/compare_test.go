package limits

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompare_Scenario(t *testing.T) {
	oldSet := &RecordSet{
		Source:    "old.csv",
		TotalKeys: 2,
		Entries: []Entry{
			{Name: "A", Limit: Limit{"max": 20}},
			{Name: "B", Limit: Limit{}},
		},
	}
	newSet := &RecordSet{
		Source:    "new.csv",
		TotalKeys: 2,
		Entries: []Entry{
			{Name: "A", Limit: Limit{"max": 25}},
			{Name: "C", Limit: Limit{}},
		},
	}

	got := Compare(oldSet, newSet)

	want := &Comparison{
		Added:   []Entry{{Name: "C", Limit: Limit{}}},
		Removed: []Entry{{Name: "B", Limit: Limit{}}},
		Changed: []Pair{{
			Old: Entry{Name: "A", Limit: Limit{"max": 20}},
			New: Entry{Name: "A", Limit: Limit{"max": 25}},
		}},
		Unchanged:    []Pair{},
		OldSource:    "old.csv",
		NewSource:    "new.csv",
		OldTotalKeys: 2,
		NewTotalKeys: 2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compare() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompare_Self(t *testing.T) {
	rs, err := Parse(sampleRows(), sampleOptions())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := Compare(rs, rs)

	if len(got.Added) != 0 || len(got.Removed) != 0 || len(got.Changed) != 0 {
		t.Fatalf("self diff has changes: %+v", got.Summary())
	}
	if len(got.Unchanged) != len(rs.Entries) {
		t.Fatalf("len(Unchanged) = %d, want %d", len(got.Unchanged), len(rs.Entries))
	}
	for i, p := range got.Unchanged {
		if diff := cmp.Diff(rs.Entries[i], p.Old); diff != "" {
			t.Errorf("Unchanged[%d].Old mismatch (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(rs.Entries[i], p.New); diff != "" {
			t.Errorf("Unchanged[%d].New mismatch (-want +got):\n%s", i, diff)
		}
	}
	if got.HasChanges() {
		t.Error("HasChanges() = true, want false")
	}
}

func TestCompare_Partition(t *testing.T) {
	oldSet := &RecordSet{Entries: []Entry{
		{Name: "a", Limit: Limit{"min": 1}},
		{Name: "b", Limit: Limit{"min": 2}},
		{Name: "c", Limit: Limit{"min": 3}},
		{Name: "d", Limit: Limit{}},
	}}
	newSet := &RecordSet{Entries: []Entry{
		{Name: "e", Limit: Limit{}},
		{Name: "c", Limit: Limit{"min": 3, "max": 4}},
		{Name: "a", Limit: Limit{"min": 1}},
		{Name: "f", Limit: Limit{"max": 1}},
	}}

	got := Compare(oldSet, newSet)

	seen := make(map[string]string)
	mark := func(bucket, name string) {
		if prev, ok := seen[name]; ok {
			t.Errorf("%q in both %s and %s", name, prev, bucket)
		}
		seen[name] = bucket
	}
	for _, e := range got.Added {
		mark("added", e.Name)
	}
	for _, e := range got.Removed {
		mark("removed", e.Name)
	}
	for _, p := range got.Changed {
		mark("changed", p.Name())
	}
	for _, p := range got.Unchanged {
		mark("unchanged", p.Name())
	}

	want := map[string]string{
		"a": "unchanged",
		"b": "removed",
		"c": "changed",
		"d": "removed",
		"e": "added",
		"f": "added",
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("classification mismatch (-want +got):\n%s", diff)
	}

	// added follows new order, removed follows old order
	if diff := cmp.Diff([]string{"e", "f"}, names(got.Added)); diff != "" {
		t.Errorf("Added order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "d"}, names(got.Removed)); diff != "" {
		t.Errorf("Removed order (-want +got):\n%s", diff)
	}

	s := got.Summary()
	if s != (Summary{Added: 2, Removed: 2, Changed: 1, Unchanged: 1, TotalChanges: 5}) {
		t.Errorf("Summary() = %+v", s)
	}
}

func TestCompare_Empty(t *testing.T) {
	got := Compare(&RecordSet{ParametricColumn: -1}, &RecordSet{ParametricColumn: -1})
	if got.HasChanges() || len(got.Unchanged) != 0 {
		t.Errorf("Compare(empty, empty) = %+v", got)
	}
	if got.Added == nil || got.Removed == nil || got.Changed == nil || got.Unchanged == nil {
		t.Error("buckets should be empty, not nil")
	}
}

func TestCompare_DuplicateNames(t *testing.T) {
	oldSet := &RecordSet{Entries: []Entry{
		{Name: "X", Limit: Limit{"max": 1}},
		{Name: "X", Limit: Limit{"max": 2}},
	}}
	newSet := &RecordSet{Entries: []Entry{
		{Name: "X", Limit: Limit{"max": 2}},
		{Name: "X", Limit: Limit{"max": 3}},
	}}

	got := Compare(oldSet, newSet)

	want := Summary{Added: 1, Unchanged: 1, TotalChanges: 1}
	if diff := cmp.Diff(want, got.Summary()); diff != "" {
		t.Fatalf("Summary mismatch (-want +got):\n%s", diff)
	}
	if got.Unchanged[0].Old.Limit["max"] != 2 {
		t.Errorf("Unchanged[0].Old = %+v, want the last old X", got.Unchanged[0].Old)
	}
	if got.Added[0].Limit["max"] != 3 {
		t.Errorf("Added[0] = %+v, want the repeated new X", got.Added[0])
	}
}

func TestComparison_SortByName(t *testing.T) {
	c := &Comparison{
		Added:   []Entry{{Name: "z"}, {Name: "b"}, {Name: "m"}},
		Removed: []Entry{{Name: "y"}, {Name: "a"}},
		Changed: []Pair{{New: Entry{Name: "q"}}, {New: Entry{Name: "c"}}},
	}
	c.SortByName()

	if diff := cmp.Diff([]string{"b", "m", "z"}, names(c.Added)); diff != "" {
		t.Errorf("Added (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "y"}, names(c.Removed)); diff != "" {
		t.Errorf("Removed (-want +got):\n%s", diff)
	}
	if c.Changed[0].Name() != "c" {
		t.Errorf("Changed[0] = %q, want %q", c.Changed[0].Name(), "c")
	}
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
