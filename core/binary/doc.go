// Package binary implements the compact wire format for diff results.
//
// The format is little-endian and length-prefixed throughout: a 20-byte
// header with the total and per-category row counts, followed by the rows
// of each category in order (added, removed, modified, unchanged). Strings
// are u32-length-prefixed UTF-8; rows are field-count-prefixed column/value
// pairs in sorted column order; modified rows additionally carry their
// column differences as old/new value pairs.
//
// Word-level diff spans are deliberately not part of the format. They are
// derived data and usually several times larger than the values they
// decorate, so consumers recompute them after decoding when needed.
//
// Decoding is bounds checked on every read and fails with a
// BufferOverflowError rather than truncating. Encoding borrows scratch
// buffers from a codec-owned pool and returns a fresh slice.
package binary
