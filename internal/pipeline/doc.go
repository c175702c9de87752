// Package pipeline implements the batch pipeline at the core of phraserank:
// an ordered file set is split into contiguous batches, each batch is read
// from disk and scored by the extractor in one call, and the per-file
// phrase lists are yielded as a single pull-driven sequence aligned 1:1
// with the input order.
//
// Two invariants hold regardless of batch size:
//
//   - output order is exactly input order; batching never reorders or
//     interleaves results across batches
//   - output content is identical for any valid batch size; the size only
//     trades extractor throughput against memory
//
// Evaluation is strictly lazy at batch granularity: no file is opened
// until the consumer asks for a result, and asking for the first result
// of a batch forces the whole batch through read and extraction. There is
// no finer-grained laziness and no cancellation mid-batch.
package pipeline
