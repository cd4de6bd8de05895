package fragment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/navgest/internal/content"
	"github.com/dgallion1/navgest/internal/parser"
)

// maxFragmentBytes caps the size of a fetched fragment.
const maxFragmentBytes = 4 << 20

// HTTPSource fetches fragments from a content delivery origin using the
// plain-HTML convention: GET {base}{path}.plain.html.
type HTTPSource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	backoff    func(attempt int) time.Duration
	log        *slog.Logger
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithAPIKey sends a bearer token with every request.
func WithAPIKey(key string) HTTPOption {
	return func(s *HTTPSource) { s.apiKey = key }
}

// WithBackoff replaces the retry delay function.
func WithBackoff(f func(attempt int) time.Duration) HTTPOption {
	return func(s *HTTPSource) { s.backoff = f }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) { s.httpClient = c }
}

func NewHTTPSource(baseURL string, timeout time.Duration, log *slog.Logger, opts ...HTTPOption) *HTTPSource {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &HTTPSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		backoff: Backoff,
		log:     log,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Fetch retrieves and parses the fragment at path, retrying transient
// origin failures.
func (s *HTTPSource) Fetch(ctx context.Context, path string) (*content.Tree, error) {
	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.backoff(attempt - 1)
			s.log.Warn("retrying fragment fetch", "path", path, "attempt", attempt, "delay", delay, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("fetch fragment %s: %w: %w", path, ErrUnavailable, ctx.Err())
			case <-time.After(delay):
			}
		}

		body, err := s.get(ctx, path)
		if err == nil {
			return s.parse(path, body)
		}
		lastErr = err
		if !IsRetryable(err) {
			break
		}
	}
	return nil, fmt.Errorf("fetch fragment %s: %w: %w", path, ErrUnavailable, lastErr)
}

func (s *HTTPSource) get(ctx context.Context, path string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+".plain.html", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("get fragment: %w", err)
		}
		return nil, &RetryableError{Err: fmt.Errorf("get fragment: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &RetryableError{StatusCode: resp.StatusCode, Err: fmt.Errorf("get fragment %s: %s", path, string(respBody))}
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get fragment %s: status %d: %s", path, resp.StatusCode, string(respBody))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFragmentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read fragment: %w", err)
	}
	if len(body) > maxFragmentBytes {
		return nil, fmt.Errorf("get fragment %s: body exceeds %d bytes", path, maxFragmentBytes)
	}
	return body, nil
}

func (s *HTTPSource) parse(path string, body []byte) (*content.Tree, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("fetch fragment %s: empty body: %w", path, ErrUnavailable)
	}
	tree, err := (&parser.HTMLParser{}).Parse(bytes.NewReader(body), path+".plain.html")
	if err != nil {
		return nil, fmt.Errorf("parse fragment %s: %w: %w", path, ErrUnavailable, err)
	}
	if !usable(tree) {
		return nil, fmt.Errorf("fetch fragment %s: no content: %w", path, ErrUnavailable)
	}
	return tree, nil
}

// Close releases idle connections.
func (s *HTTPSource) Close() {
	s.httpClient.CloseIdleConnections()
}
