package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Options struct {
	MaxSize int
	Timeout time.Duration
}

// A thing capable of fetching a document over HTTP. The pipeline's
// caches (auth token, static dataset) live above this layer; Fetcher
// itself is stateless.
type Fetcher interface {
	Get(ctx context.Context, url string, headers map[string]string, options Options) ([]byte, error)
}

// Func adapts a plain function to the Fetcher interface. Handy for
// test doubles.
type Func func(ctx context.Context, url string, headers map[string]string, options Options) ([]byte, error)

func (f Func) Get(ctx context.Context, url string, headers map[string]string, options Options) ([]byte, error) {
	return f(ctx, url, headers, options)
}

// HTTP returns the default Fetcher, backed by HTTPGet.
func HTTP() Fetcher {
	return Func(HTTPGet)
}

// Gets a document. Provided as convenience for implementing custom
// Fetchers.
func HTTPGet(ctx context.Context, url string, headers map[string]string, options Options) ([]byte, error) {
	client := &http.Client{
		Timeout: options.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, v := range headers {
		req.Header.Add(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if options.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, int64(options.MaxSize))
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return body, nil
}

// BrowserHeaders returns a realistic browser-like header set. The
// stop-detail page serves a stripped response to obvious bots.
func BrowserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language": "tr-TR,tr;q=0.8,en-US;q=0.5,en;q=0.3",
	}
}
