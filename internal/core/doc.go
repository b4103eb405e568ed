// Package core holds the shared vocabulary of the shift board.
//
// Nothing in this package performs I/O. It defines the record shape that
// flows from the backend to the table view, the request shape used for both
// reads and writes, and the mapping from technical errors to user messages.
//
// # Rows
//
// A [Row] is one backend record: an ordered mapping from column keys to
// primitive JSON values. Rows are decoded with [DecodeRows], which accepts
// either a JSON array of objects or a single object:
//
//	rows, err := core.DecodeRows(body)
//	day := rows[0].String("day") // "Monday"
//
// Rows are immutable. A refetch replaces the whole slice.
//
// # Requests and cache keys
//
// A [Request] names an HTTP method, a URL and query parameters. A [CacheKey]
// names a remote resource; the same key is used to read it through the cache
// and to invalidate it after a write.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages using [MapError].
// Each category has a code for support reference:
//
//   - NET001-NET003: backend unreachable, slow, or request cancelled
//   - API401-API500: backend rejected the request
//   - DATA001: backend returned a body that is not a row list
//   - GRID001, PAGE001: the board was asked for a control or page it lacks
package core
