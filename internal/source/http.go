package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is quoted.
	maxErrorBody = 200
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// HTTPLoader fetches scripts relative to a base URL.
type HTTPLoader struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPLoader creates a loader for baseURL.
func NewHTTPLoader(baseURL string) *HTTPLoader {
	return &HTTPLoader{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// SetHTTPClient replaces the HTTP client.
func (l *HTTPLoader) SetHTTPClient(c *http.Client) {
	l.httpClient = c
}

// Load fetches baseURL/path.
func (l *HTTPLoader) Load(ctx context.Context, p string) (string, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return "", err
	}
	body, err := l.get(ctx, "/"+clean)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (l *HTTPLoader) get(ctx context.Context, path string) ([]byte, error) {
	url := l.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain, application/xml, */*")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 300 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        url,
			Body:       strings.TrimSpace(truncate(string(body), maxErrorBody)),
		}
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
