package contract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single request to the service.
const DefaultTimeout = 30 * time.Second

// HTTPTransport implements the Transport interface over net/http.
type HTTPTransport struct {
	client    *http.Client
	userAgent string
}

var _ Transport = &HTTPTransport{} // Compile-time check

// NewHTTPTransport creates a transport whose requests time out after timeout.
// A non-positive timeout selects DefaultTimeout.
func NewHTTPTransport(timeout time.Duration, userAgent string) *HTTPTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = "cheetah"
	}
	return &HTTPTransport{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Get implements the Transport interface. Non-2xx statuses are returned as a
// Response, not as an error.
func (t *HTTPTransport) Get(ctx context.Context, identifier string, query url.Values) (Response, error) {
	target := identifier
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Response{}, fmt.Errorf("build request for %s: %w", identifier, err)
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("request %s: %w", identifier, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response from %s: %w", identifier, err)
	}
	return Response{StatusCode: resp.StatusCode, Text: string(body)}, nil
}
