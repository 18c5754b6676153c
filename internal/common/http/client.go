// internal/common/http/client.go
package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"trainhub-session/internal/common/metrics"
)

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}

// DoInstrumented executes the request and records its duration under the
// given operation label. Transport failures are recorded with status "error".
func (c *Client) DoInstrumented(ctx context.Context, req *http.Request, operation string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.DoWithContext(ctx, req)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	metrics.BackendRequestDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())

	return resp, err
}
