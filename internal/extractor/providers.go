package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Provider configuration
const (
	ProviderLocal  = "local"
	ProviderRemote = "remote"

	// Environment variables consulted by NewFromEnv
	EnvProvider  = "PHRASERANK_PROVIDER"
	EnvRemoteURL = "PHRASERANK_REMOTE_URL"
	EnvAPIKey    = "PHRASERANK_API_KEY"
)

// LocalProvider scores documents with a deterministic relative-frequency
// rank: each distinct non-stopword token is a phrase, count is its number
// of occurrences, rank is count divided by the document's kept-token total.
// It exists so the tool works offline; ranking quality is delegated to the
// remote provider when one is configured.
type LocalProvider struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
	cache        *Cache
}

// NewLocalProvider creates the built-in frequency-rank extractor
func NewLocalProvider(cache *Cache) (*LocalProvider, error) {
	return &LocalProvider{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
		cache:        cache,
	}, nil
}

func (l *LocalProvider) Extract(ctx context.Context, texts []string) ([]PhraseList, error) {
	if err := ValidateBatch(texts); err != nil {
		return nil, err
	}

	results := make([]PhraseList, len(texts))
	for i, text := range texts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		hash := ComputeHash(text)
		if l.cache != nil {
			if phrases, ok := l.cache.Get(hash); ok {
				results[i] = phrases
				continue
			}
		}

		phrases := l.score(text)
		if l.cache != nil {
			l.cache.Set(hash, phrases)
		}
		results[i] = phrases
	}

	return results, nil
}

// score ranks the distinct non-stopword tokens of one document by
// relative frequency, ties broken by first occurrence.
func (l *LocalProvider) score(text string) PhraseList {
	tokens := l.tokenize(text)
	if len(tokens) == 0 {
		return PhraseList{}
	}

	counts := make(map[string]int, len(tokens))
	firstSeen := make(map[string]int, len(tokens))
	for pos, tok := range tokens {
		if _, ok := counts[tok]; !ok {
			firstSeen[tok] = pos
		}
		counts[tok]++
	}

	total := float64(len(tokens))
	phrases := make(PhraseList, 0, len(counts))
	for tok, count := range counts {
		phrases = append(phrases, Phrase{
			Text:  tok,
			Rank:  float64(count) / total,
			Count: count,
		})
	}

	sort.Slice(phrases, func(a, b int) bool {
		if phrases[a].Rank != phrases[b].Rank {
			return phrases[a].Rank > phrases[b].Rank
		}
		return firstSeen[phrases[a].Text] < firstSeen[phrases[b].Text]
	})

	return phrases
}

func (l *LocalProvider) tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := l.tokenPattern.FindAllString(lower, -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := l.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Close() error {
	return nil
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that", "these",
		"those", "from", "up", "down", "over", "under", "again", "further",
		"than", "so", "such", "into", "about", "between", "through",
		"during", "before", "after", "above", "below", "out", "off", "own",
		"same", "too", "very", "can", "will", "just", "not", "no", "nor",
		"only", "now", "here", "there", "when", "where", "why", "how",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// RemoteProvider implements Extractor against an HTTP extraction service
type RemoteProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *Cache
}

// NewRemoteProvider creates an extractor backed by a remote HTTP service.
// The API key is optional; when set it is sent as a bearer token.
func NewRemoteProvider(baseURL, apiKey string, cache *Cache) (*RemoteProvider, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrNoProviderEnabled, EnvRemoteURL)
	}

	return &RemoteProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: cache,
	}, nil
}

func (r *RemoteProvider) Extract(ctx context.Context, texts []string) ([]PhraseList, error) {
	if err := ValidateBatch(texts); err != nil {
		return nil, err
	}

	// Serve fully-cached batches without a network call
	if results, ok := r.fromCache(texts); ok {
		return results, nil
	}

	results, err := r.extractWithRetry(ctx, texts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	if len(results) != len(texts) {
		return nil, fmt.Errorf("%w: sent %d documents, got %d results",
			ErrResultCountMismatch, len(texts), len(results))
	}

	if r.cache != nil {
		for i, phrases := range results {
			r.cache.Set(ComputeHash(texts[i]), phrases)
		}
	}

	return results, nil
}

// fromCache returns the batch results if every document is cached.
// A partial hit still requires one call for the whole batch, so the
// cache is only consulted for complete batches.
func (r *RemoteProvider) fromCache(texts []string) ([]PhraseList, bool) {
	if r.cache == nil {
		return nil, false
	}
	results := make([]PhraseList, len(texts))
	for i, text := range texts {
		phrases, ok := r.cache.Get(ComputeHash(text))
		if !ok {
			return nil, false
		}
		results[i] = phrases
	}
	return results, true
}

func (r *RemoteProvider) callAPI(ctx context.Context, texts []string) ([]PhraseList, error) {
	reqBody := map[string]interface{}{
		"documents": texts,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/v1/extract", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &apiError{status: resp.StatusCode, body: string(bodyBytes)}
	}

	var apiResp struct {
		Results [][]struct {
			Text  string  `json:"text"`
			Rank  float64 `json:"rank"`
			Count int     `json:"count"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]PhraseList, len(apiResp.Results))
	for i, doc := range apiResp.Results {
		phrases := make(PhraseList, len(doc))
		for j, p := range doc {
			phrases[j] = Phrase{Text: p.Text, Rank: p.Rank, Count: p.Count}
		}
		results[i] = phrases
	}

	return results, nil
}

func (r *RemoteProvider) Provider() string {
	return ProviderRemote
}

func (r *RemoteProvider) Close() error {
	r.httpClient.CloseIdleConnections()
	return nil
}
