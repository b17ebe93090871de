package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// maxBody bounds the size of one fetched document.
const maxBody = 64 << 20

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// Fetcher reads documents from local paths or http(s) URLs. Failed fetches are
// not retried.
type Fetcher struct {
	session *http.Client
}

func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{session: client}
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Fetch returns the full contents of src.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("fetch: empty source")
	}

	if !isURL(src) {
		b, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("fetch %q: %w", src, err)
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: create request: %w", src, err)
	}
	req.Header.Set("Accept", "application/json, application/geo+json, application/yaml, */*")

	resp, err := f.do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", src, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("fetch %q: read body: %w", src, err)
	}
	return b, nil
}

func (f *Fetcher) do(req *http.Request) (*http.Response, error) {
	resp, err := f.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// Resolve makes a relative file path relative to base's directory. URLs and
// absolute paths are returned unchanged.
func Resolve(base, src string) string {
	if isURL(src) || strings.HasPrefix(src, "/") || base == "" {
		return src
	}
	i := strings.LastIndex(base, "/")
	if i < 0 {
		return src
	}
	return base[:i+1] + src
}
