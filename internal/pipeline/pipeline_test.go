package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhodges/phraserank/internal/extractor"
)

// mockExtractor implements extractor.Extractor for testing. Each document
// yields phrases named "<content>-0", "<content>-1", ... with descending
// ranks, which makes output order and truncation observable.
type mockExtractor struct {
	phrasesPerDoc int
	callCount     int
	extractErr    error
	dropResults   int // return this many fewer lists than documents
}

func (m *mockExtractor) Extract(ctx context.Context, texts []string) ([]extractor.PhraseList, error) {
	m.callCount++
	if m.extractErr != nil {
		return nil, m.extractErr
	}

	n := m.phrasesPerDoc
	if n <= 0 {
		n = 3
	}

	results := make([]extractor.PhraseList, 0, len(texts))
	for _, text := range texts {
		phrases := make(extractor.PhraseList, n)
		for i := 0; i < n; i++ {
			phrases[i] = extractor.Phrase{
				Text:  fmt.Sprintf("%s-%d", text, i),
				Rank:  1.0 - float64(i)*0.1,
				Count: 1,
			}
		}
		results = append(results, phrases)
	}

	return results[:len(results)-m.dropResults], nil
}

func (m *mockExtractor) Provider() string { return "mock" }
func (m *mockExtractor) Close() error     { return nil }

func writeFiles(t *testing.T, contents ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(contents))
	for i, content := range contents {
		paths[i] = filepath.Join(dir, fmt.Sprintf("doc%02d.txt", i))
		require.NoError(t, os.WriteFile(paths[i], []byte(content), 0o644))
	}
	return paths
}

func drain(t *testing.T, cur *Cursor) []extractor.PhraseList {
	t.Helper()
	var out []extractor.PhraseList
	for cur.Next(context.Background()) {
		out = append(out, cur.Phrases())
	}
	return out
}

func TestCursorPreservesInputOrder(t *testing.T) {
	files := writeFiles(t, "one", "two", "three", "four", "five")
	ext := &mockExtractor{}

	cur, err := New(ext, files, Config{BatchSize: 2})
	require.NoError(t, err)

	lists := drain(t, cur)
	require.NoError(t, cur.Err())
	require.Len(t, lists, len(files))

	for i, want := range []string{"one", "two", "three", "four", "five"} {
		assert.Equal(t, want+"-0", lists[i][0].Text)
	}
	assert.Equal(t, len(files), cur.Yielded())
}

func TestCursorOutputIndependentOfBatchSize(t *testing.T) {
	files := writeFiles(t, "alpha", "beta", "gamma", "delta", "epsilon")

	baseline, err := New(&mockExtractor{}, files, Config{BatchSize: 0})
	require.NoError(t, err)
	want := drain(t, baseline)
	require.NoError(t, baseline.Err())

	for size := 1; size <= len(files)+1; size++ {
		cur, err := New(&mockExtractor{}, files, Config{BatchSize: size})
		require.NoError(t, err)

		got := drain(t, cur)
		require.NoError(t, cur.Err())
		assert.Equal(t, want, got, "batch size %d changed the output", size)
	}
}

func TestCursorDefaultBatchSizeIsSingleCall(t *testing.T) {
	files := writeFiles(t, "a", "b", "c", "d")
	ext := &mockExtractor{}

	cur, err := New(ext, files, Config{})
	require.NoError(t, err)

	lists := drain(t, cur)
	require.NoError(t, cur.Err())
	assert.Len(t, lists, 4)
	assert.Equal(t, 1, ext.callCount)
}

func TestCursorTruncationIsPrefix(t *testing.T) {
	files := writeFiles(t, "doc")

	full, err := New(&mockExtractor{phrasesPerDoc: 5}, files, Config{})
	require.NoError(t, err)
	fullLists := drain(t, full)
	require.NoError(t, full.Err())
	require.Len(t, fullLists[0], 5)

	for _, limit := range []int{1, 3, 5, 10} {
		cur, err := New(&mockExtractor{phrasesPerDoc: 5}, files, Config{PhraseLimit: limit})
		require.NoError(t, err)

		lists := drain(t, cur)
		require.NoError(t, cur.Err())

		wantLen := limit
		if wantLen > 5 {
			wantLen = 5
		}
		require.Len(t, lists[0], wantLen)
		assert.Equal(t, fullLists[0][:wantLen], lists[0], "limit %d is not a prefix", limit)
	}
}

func TestCursorLazyPerBatch(t *testing.T) {
	files := writeFiles(t, "a", "b", "c", "d", "e", "f")
	ext := &mockExtractor{}

	cur, err := New(ext, files, Config{BatchSize: 2})
	require.NoError(t, err)

	// Nothing is extracted before the first pull
	assert.Equal(t, 0, ext.callCount)

	// Pulling the first result forces exactly one batch
	require.True(t, cur.Next(context.Background()))
	assert.Equal(t, 1, ext.callCount)

	// The second result comes from the same batch
	require.True(t, cur.Next(context.Background()))
	assert.Equal(t, 1, ext.callCount)

	// The third crosses into the next batch
	require.True(t, cur.Next(context.Background()))
	assert.Equal(t, 2, ext.callCount)
}

func TestCursorNegativeBatchSize(t *testing.T) {
	_, err := New(&mockExtractor{}, []string{"whatever"}, Config{BatchSize: -1})
	assert.ErrorIs(t, err, ErrInvalidBatchSize)
}

func TestCursorEmptyFileSet(t *testing.T) {
	ext := &mockExtractor{}
	cur, err := New(ext, nil, Config{})
	require.NoError(t, err)

	assert.False(t, cur.Next(context.Background()))
	assert.NoError(t, cur.Err())
	assert.Equal(t, 0, ext.callCount)
}

func TestCursorReadFailureIsFatal(t *testing.T) {
	files := writeFiles(t, "ok")
	files = append(files, filepath.Join(t.TempDir(), "missing.txt"))

	cur, err := New(&mockExtractor{}, files, Config{BatchSize: 2})
	require.NoError(t, err)

	assert.False(t, cur.Next(context.Background()))
	require.Error(t, cur.Err())
	assert.True(t, errors.Is(cur.Err(), os.ErrNotExist))
}

func TestCursorExtractorFailureIsFatal(t *testing.T) {
	files := writeFiles(t, "a", "b")
	boom := errors.New("model exploded")

	cur, err := New(&mockExtractor{extractErr: boom}, files, Config{})
	require.NoError(t, err)

	assert.False(t, cur.Next(context.Background()))
	assert.ErrorIs(t, cur.Err(), boom)
}

func TestCursorResultCountMismatchIsFatal(t *testing.T) {
	files := writeFiles(t, "a", "b", "c")

	cur, err := New(&mockExtractor{dropResults: 1}, files, Config{})
	require.NoError(t, err)

	assert.False(t, cur.Next(context.Background()))
	assert.ErrorIs(t, cur.Err(), extractor.ErrResultCountMismatch)
}

func TestCursorContextCancellation(t *testing.T) {
	files := writeFiles(t, "a", "b", "c", "d")

	cur, err := New(&mockExtractor{}, files, Config{BatchSize: 2})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, cur.Next(ctx))
	require.True(t, cur.Next(ctx))

	// Cancellation is observed at the next batch boundary
	cancel()
	assert.False(t, cur.Next(ctx))
	assert.ErrorIs(t, cur.Err(), context.Canceled)
}

func TestCursorCancelAfterExhaustionIsClean(t *testing.T) {
	files := writeFiles(t, "a", "b")

	cur, err := New(&mockExtractor{}, files, Config{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, cur.Next(ctx))
	require.True(t, cur.Next(ctx))

	// All results are out; a cancellation arriving now must read as
	// ordinary exhaustion, not an error
	cancel()
	assert.False(t, cur.Next(ctx))
	assert.NoError(t, cur.Err())
	assert.Equal(t, len(files), cur.Yielded())
}
