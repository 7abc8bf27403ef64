// Package core orchestrates limit table comparisons for the CLI and the
// HTTP API.
//
// It sits between the row sources and the limits engine and has no
// transport dependencies:
//
//   - [Service.Compare] parses the old and new tables concurrently and
//     classifies their entries into a [Result].
//   - [Service.ParseSource] parses a single table for inspection.
//   - [CompareLimiter] bounds how many comparisons run at once.
//   - [MapError] turns technical errors into coded user messages.
//
// # Error Handling
//
// Errors from the engine and the sources are returned wrapped with the side
// they came from ("old table: ...") and keep their sentinel identity, so
// callers use errors.Is / errors.As or [MapError]:
//
//   - PARSE001-PARSE003: empty tables, bad numeric cells, bad options
//   - SRC001-SRC003: unreadable files, formats, sheets
//   - FILE001, FILE004: upload size and missing files
//   - CMP001: limiter saturation
//   - FMT001: unknown report format
package core
