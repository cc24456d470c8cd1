// Package httpclient provides the shared HTTP client used for registry
// metadata and archive downloads.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/TiceCosmos/theia-update-plugins/internal/core/domain"
)

const userAgent = "theia-update-plugins/1.0"

// Client wraps an http.Client tuned for plugin downloads. Redirects are
// followed; registries commonly bounce asset requests to a CDN.
type Client struct {
	httpClient *http.Client
}

// New creates a download client. Archives can be large, so the timeout is
// generous.
func New() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Get issues a GET for url and returns the body bytes and the declared
// content type. Transport failures and non-2xx statuses are NetworkErrors.
func (c *Client) Get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", domain.NetworkError(url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", domain.NetworkError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", domain.NetworkError(url, fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", domain.NetworkError(url, err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// Download fetches the raw bytes at url, ignoring the content type; archive
// endpoints declare anything from application/zip to octet-stream.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	body, _, err := c.Get(ctx, url)
	return body, err
}
