package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBatch(t *testing.T) {
	tests := []struct {
		name    string
		texts   []string
		wantErr bool
	}{
		{
			name:    "empty batch",
			texts:   nil,
			wantErr: true,
		},
		{
			name:    "single document",
			texts:   []string{"hello world"},
			wantErr: false,
		},
		{
			name:    "empty document is allowed",
			texts:   []string{""},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBatch(tt.texts)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCache(t *testing.T) {
	cache := NewCache(10)

	phrases := PhraseList{
		{Text: "alpha", Rank: 0.9, Count: 3},
		{Text: "beta", Rank: 0.4, Count: 1},
	}

	hash := ComputeHash("some document")
	cache.Set(hash, phrases)

	got, ok := cache.Get(hash)
	require.True(t, ok)
	assert.Equal(t, phrases, got)

	// Cache returns copies: mutating the result must not affect the cache
	got[0].Text = "mutated"
	again, ok := cache.Get(hash)
	require.True(t, ok)
	assert.Equal(t, "alpha", again[0].Text)

	_, ok = cache.Get(ComputeHash("other document"))
	assert.False(t, ok)

	assert.Equal(t, 1, cache.Size())
	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}

func TestComputeHash(t *testing.T) {
	h1 := ComputeHash("alpha")
	h2 := ComputeHash("alpha")
	h3 := ComputeHash("beta")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // hex-encoded SHA-256
}

func TestLocalProviderRanking(t *testing.T) {
	ext, err := NewLocalProvider(nil)
	require.NoError(t, err)
	defer func() { _ = ext.Close() }()

	lists, err := ext.Extract(context.Background(), []string{
		"alpha alpha beta",
		"gamma",
	})
	require.NoError(t, err)
	require.Len(t, lists, 2)

	first := lists[0]
	require.Len(t, first, 2)
	assert.Equal(t, "alpha", first[0].Text)
	assert.Equal(t, 2, first[0].Count)
	assert.Equal(t, "beta", first[1].Text)
	assert.Equal(t, 1, first[1].Count)
	assert.Greater(t, first[0].Rank, first[1].Rank)

	second := lists[1]
	require.Len(t, second, 1)
	assert.Equal(t, "gamma", second[0].Text)
	assert.Equal(t, 1, second[0].Count)
}

func TestLocalProviderStopwordsAndTies(t *testing.T) {
	ext, err := NewLocalProvider(nil)
	require.NoError(t, err)

	lists, err := ext.Extract(context.Background(), []string{"the cat sat on the mat"})
	require.NoError(t, err)
	require.Len(t, lists, 1)

	phrases := lists[0]
	require.Len(t, phrases, 3)

	// Equal ranks fall back to first-occurrence order
	assert.Equal(t, "cat", phrases[0].Text)
	assert.Equal(t, "sat", phrases[1].Text)
	assert.Equal(t, "mat", phrases[2].Text)
	for _, p := range phrases {
		assert.Equal(t, 1, p.Count)
		assert.InDelta(t, 1.0/3.0, p.Rank, 1e-9)
	}
}

func TestLocalProviderEmptyDocument(t *testing.T) {
	ext, err := NewLocalProvider(nil)
	require.NoError(t, err)

	lists, err := ext.Extract(context.Background(), []string{"", "   \n\t  ", "the of and"})
	require.NoError(t, err)
	require.Len(t, lists, 3)

	for _, phrases := range lists {
		assert.Empty(t, phrases)
	}
}

func TestLocalProviderDeterministic(t *testing.T) {
	ext, err := NewLocalProvider(nil)
	require.NoError(t, err)

	text := "ranking pipelines rank documents and pipelines batch documents"
	a, err := ext.Extract(context.Background(), []string{text})
	require.NoError(t, err)
	b, err := ext.Extract(context.Background(), []string{text})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestLocalProviderUsesCache(t *testing.T) {
	cache := NewCache(10)
	ext, err := NewLocalProvider(cache)
	require.NoError(t, err)

	_, err = ext.Extract(context.Background(), []string{"alpha beta"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Size())

	// Second extraction of the same document is served from cache
	lists, err := ext.Extract(context.Background(), []string{"alpha beta"})
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Len(t, lists[0], 2)
	assert.Equal(t, 1, cache.Size())
}

func TestLocalProviderBatchValidation(t *testing.T) {
	ext, err := NewLocalProvider(nil)
	require.NoError(t, err)

	_, err = ext.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
