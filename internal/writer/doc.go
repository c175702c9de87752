// Package writer persists one file's phrase list as a CSV record file:
// a header row (text, rank, count) followed by one row per phrase in
// list order.
//
// The write policy is idempotent-but-warned: an empty phrase list skips
// the write and surfaces a warning, and a pre-existing destination
// surfaces a warning but is overwritten anyway. "Already exists" is
// advisory, never a hard skip, so re-running a job yields identical
// output plus one overwrite warning per file.
package writer
