package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultMaxImageBytes caps the size of a downloaded image
const DefaultMaxImageBytes = 32 << 20

type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
}

// HTTPImageFetcher downloads raw image bytes with bounded retries
type HTTPImageFetcher struct {
	client   *http.Client
	maxBytes int64
	backoff  func(attempt int) time.Duration
}

// NewHTTPImageFetcher creates an HTTP image fetcher with the given overall
// request timeout (30s when zero)
func NewHTTPImageFetcher(timeout time.Duration) *HTTPImageFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		// Connection pooling sized for single image downloads
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:    10 * time.Second,
		ResponseHeaderTimeout:  10 * time.Second,
		ExpectContinueTimeout:  1 * time.Second,
		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,

			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxBytes: DefaultMaxImageBytes,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt+1) * time.Second
		},
	}
}

// WithMaxBytes limits the accepted response body size
func (h *HTTPImageFetcher) WithMaxBytes(n int64) *HTTPImageFetcher {
	h.maxBytes = n
	return h
}

func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/tiff, image/bmp, */*")
	req.Header.Set("User-Agent", "Spectral-Inspector/1.0")

	// Retry logic (3 attempts) - only retry on transient errors
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		data, retry, err := h.do(req)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retry || attempt == 2 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("fetch cancelled: %w", ctx.Err())
		case <-time.After(h.backoff(attempt)):
		}
	}

	return nil, fmt.Errorf("failed to fetch image after 3 attempts: %w", lastErr)
}

// do performs one attempt and reports whether a failure may be retried.
// 4xx responses are final; transport errors and 5xx are retried.
func (h *HTTPImageFetcher) do(req *http.Request) ([]byte, bool, error) {
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, req.Context().Err() == nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read image body: %w", err)
	}
	if int64(len(data)) > h.maxBytes {
		return nil, false, fmt.Errorf("image exceeds %d bytes", h.maxBytes)
	}
	return data, false, nil
}
