// Package dispatch resolves what to process and drives the batch pipeline
// over it.
//
// A run target is decided once per invocation: a file input maps to
// exactly the given output path, while a directory input maps its matched
// direct children to <output>/<stem>.csv. Recursive runs re-make that
// decision per subdirectory with the output path rebased one level at a
// time, so the output tree mirrors the input tree. Each directory level
// gets a fresh pipeline; nothing is flattened into a single pass.
//
// The dispatcher pairs input files with pipeline results positionally and
// asserts exact parity instead of trusting the zip. Warnings from the
// writer are forwarded to the caller and never stop the run; every other
// failure aborts it, including any recursion still queued.
package dispatch
