// Package limits parses test-limit tables and diffs two versions of them.
//
// A limit table is a grid of text cells. Somewhere in it a header cell
// contains the parametric marker (by default "parametric"); the columns from
// that point on hold one parametric test item each. A key row (first cell
// contains the key-row marker) names the items, and metric rows (first cell
// contains a metric label such as "min" or "max") carry numeric limits:
//
//	Test,,,Parametric,,,
//	key,,,,VDD_IDLE,VDD_RUN,IO_LEAK
//	min,,,,N/A,0.9,-5
//	max,,,,N/A,1.1,5
//
// [Parse] turns such a grid into a [RecordSet] and [Compare] classifies the
// keys of two record sets into added, removed, changed and unchanged.
//
// # Label pool
//
// Each metric label matches at most one row per file. Once "min" has been
// seen, a second row starting with "min" is ignored. [Parse] works on its own
// copy of the label pool, so the same [Options] value can be reused for any
// number of files.
//
// Both operations are pure in-memory computations. They are safe to call
// concurrently from multiple goroutines as long as each call has its own
// input rows.
package limits
