package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPDoer is the part of *http.Client the ledger client needs.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// BaseClient posts JSON documents under the ledger API root and hands back
// the status code and body untouched.
type BaseClient struct {
	root string
	doer HTTPDoer
}

// NewBaseClient returns a client rooted at root. A nil doer gets a client without timeout.
func NewBaseClient(root string, doer HTTPDoer) *BaseClient {
	if doer == nil {
		doer = NewDefaultHTTPClient(0)
	}
	return &BaseClient{root: strings.TrimRight(root, "/"), doer: doer}
}

// BaseURL returns the API root without a trailing slash.
func (c *BaseClient) BaseURL() string {
	return c.root
}

// endpoint joins path onto the root; absolute URLs are used as given.
func (c *BaseClient) endpoint(path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	return c.root + "/" + strings.TrimLeft(path, "/")
}

// PostJSON sends payload to path. A zero status with an error means no response arrived.
func (c *BaseClient) PostJSON(ctx context.Context, path string, payload []byte, header http.Header) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	maps.Copy(req.Header, header)
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// NewDefaultHTTPClient returns an *http.Client; a zero timeout waits forever.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
