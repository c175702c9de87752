package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/mhodges/phraserank/internal/extractor"
)

// Config contains tuning knobs for a pipeline run. Zero values mean
// "unspecified": an unspecified BatchSize scores the whole file set in a
// single extractor call (favors extractor throughput over memory; pass an
// explicit size for bounded memory), and an unspecified PhraseLimit keeps
// every phrase the extractor returns.
type Config struct {
	BatchSize   int
	PhraseLimit int
}

// Cursor streams one PhraseList per input file, in input order. It is
// pull-driven: nothing is read or scored until Next is called, and
// requesting the first result of a batch reads and scores that entire
// batch. Usage follows the bufio.Scanner pattern:
//
//	cur, err := pipeline.New(ext, files, cfg)
//	for cur.Next(ctx) {
//	    phrases := cur.Phrases()
//	    ...
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor struct {
	ext     extractor.Extractor
	limit   int
	batches *Batches[string]

	pending []extractor.PhraseList
	pos     int
	current extractor.PhraseList
	yielded int
	err     error
	done    bool
}

// New builds a cursor over files. A negative batch size fails with
// ErrInvalidBatchSize before any I/O; zero resolves to len(files).
func New(ext extractor.Extractor, files []string, cfg Config) (*Cursor, error) {
	if cfg.BatchSize < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, cfg.BatchSize)
	}

	c := &Cursor{
		ext:   ext,
		limit: cfg.PhraseLimit,
	}

	// An empty file set yields nothing; resolving the default batch size
	// against it would produce a zero size, so skip the batcher entirely.
	if len(files) == 0 {
		c.done = true
		return c, nil
	}

	size := cfg.BatchSize
	if size == 0 {
		size = len(files)
	}

	batches, err := NewBatches(files, size)
	if err != nil {
		return nil, err
	}
	c.batches = batches

	return c, nil
}

// Next advances to the next file's phrase list. It returns false when the
// input is exhausted or a fatal error occurred; distinguish the two with
// Err.
func (c *Cursor) Next(ctx context.Context) bool {
	if c.err != nil || c.done {
		return false
	}

	if c.pos >= len(c.pending) {
		if !c.loadBatch(ctx) {
			return false
		}
	}

	c.current = c.pending[c.pos]
	c.pos++
	c.yielded++
	return true
}

// loadBatch reads and scores the next batch. Any failure is fatal to the
// whole run: it is recorded in c.err and the cursor stops.
func (c *Cursor) loadBatch(ctx context.Context) bool {
	// Exhaustion is checked before the context so a cancellation arriving
	// after the last batch reads as clean completion, not an error.
	batch, ok := c.batches.Next()
	if !ok {
		c.done = true
		return false
	}

	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}

	// One open/read/close per file, strictly sequential
	texts := make([]string, len(batch))
	for i, path := range batch {
		content, err := os.ReadFile(path)
		if err != nil {
			c.err = fmt.Errorf("read %s: %w", path, err)
			return false
		}
		texts[i] = string(content)
	}

	lists, err := c.ext.Extract(ctx, texts)
	if err != nil {
		c.err = fmt.Errorf("extract batch: %w", err)
		return false
	}

	// Positional pairing downstream depends on exact parity; enforce it
	// here instead of trusting the provider.
	if len(lists) != len(batch) {
		c.err = fmt.Errorf("%w: %d files, %d results",
			extractor.ErrResultCountMismatch, len(batch), len(lists))
		return false
	}

	if c.limit > 0 {
		for i, phrases := range lists {
			if len(phrases) > c.limit {
				lists[i] = phrases[:c.limit]
			}
		}
	}

	c.pending = lists
	c.pos = 0
	return true
}

// Phrases returns the phrase list for the file most recently advanced to
// by Next. The list is valid until the next call to Next.
func (c *Cursor) Phrases() extractor.PhraseList {
	return c.current
}

// Err returns the first fatal error encountered, or nil on clean
// exhaustion.
func (c *Cursor) Err() error {
	return c.err
}

// Yielded reports how many phrase lists have been produced so far. The
// dispatcher uses it to assert file-count parity after the run.
func (c *Cursor) Yielded() int {
	return c.yielded
}
