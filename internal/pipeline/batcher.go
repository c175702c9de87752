package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvalidBatchSize reports a non-positive batch size. It is raised
// before any file I/O happens.
var ErrInvalidBatchSize = errors.New("batch size must be positive")

// Batches is a lazy cursor over contiguous fixed-size groups of items.
// Groups are views into the original slice: they cover the input exactly
// once, in original order, and every group except possibly the last has
// exactly the configured size.
type Batches[T any] struct {
	items []T
	size  int
	pos   int
}

// NewBatches creates a batch cursor over items. size must be positive.
func NewBatches[T any](items []T, size int) (*Batches[T], error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, size)
	}
	return &Batches[T]{items: items, size: size}, nil
}

// Next returns the next contiguous group, or false when the input is
// exhausted. The returned slice aliases the input; callers must not
// mutate it.
func (b *Batches[T]) Next() ([]T, bool) {
	if b.pos >= len(b.items) {
		return nil, false
	}
	end := b.pos + b.size
	if end > len(b.items) {
		end = len(b.items)
	}
	batch := b.items[b.pos:end]
	b.pos = end
	return batch, true
}
