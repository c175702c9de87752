// Package extractor provides the phrase-extraction capability behind the
// batch pipeline.
//
// An Extractor scores a batch of documents in one call and returns one
// PhraseList per document, in input order, each pre-sorted by descending
// rank. Batching amortizes per-call overhead, which matters most for the
// remote provider where every call is a network round trip.
//
// # Basic Usage
//
//	ext, err := extractor.New(extractor.Config{Provider: "local", CacheSize: 10000})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ext.Close()
//
//	lists, err := ext.Extract(ctx, []string{doc1, doc2})
//	for i, phrases := range lists {
//	    // phrases belong to document i, best phrase first
//	}
//
// # Provider Selection
//
// Two providers are available:
//
//   - local: deterministic relative-frequency ranking, no external
//     dependencies. Works offline; quality is deliberately modest.
//   - remote: delegates to an HTTP extraction service with bearer auth,
//     request timeout, and exponential-backoff retry.
//
// NewFromEnv selects a provider from the environment:
//
//  1. If PHRASERANK_PROVIDER is set, use the named provider
//  2. Else if PHRASERANK_REMOTE_URL is set, use the remote provider
//  3. Else fall back to local
//
// # Caching
//
// Providers share an optional LRU cache keyed by SHA-256 content hash, so
// re-running over unchanged documents skips rescoring. Cached lists are
// the full untruncated lists; any per-file limit is applied downstream by
// the pipeline.
//
// # Error Handling
//
// Extraction failures are fatal to the caller's run: the remote provider
// retries transient transport errors internally, and anything still
// failing afterwards is reported wrapped in ErrProviderFailed. A response
// whose length differs from the input length is rejected with
// ErrResultCountMismatch rather than silently mispairing documents.
package extractor
