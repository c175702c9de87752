package extractor

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Retry policy for the remote provider. Only transient failures are worth
// repeating: transport errors that never reached the service, and 5xx
// responses. A 4xx response means the request itself was rejected, so
// retrying the same batch cannot succeed.
const (
	maxAttempts    = 3
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// apiError is a non-2xx response from the extraction service.
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.status, e.body)
}

// transient reports whether repeating the call can plausibly succeed.
func transient(err error) bool {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.status >= 500
	}
	// Failures without a service response: timeouts, resets, DNS
	return true
}

// extractWithRetry drives callAPI under the retry policy, doubling the
// backoff between attempts and honoring cancellation while waiting. A
// terminal rejection returns immediately with its attempt number so the
// caller's error names how far the batch got.
func (r *RemoteProvider) extractWithRetry(ctx context.Context, texts []string) ([]PhraseList, error) {
	backoff := initialBackoff

	for attempt := 1; ; attempt++ {
		results, err := r.callAPI(ctx, texts)
		if err == nil {
			return results, nil
		}

		if !transient(err) {
			return nil, fmt.Errorf("attempt %d: %w", attempt, err)
		}
		if attempt == maxAttempts {
			return nil, fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
