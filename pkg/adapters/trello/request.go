package trello

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// get sends a GET request and decodes the JSON answer into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.sendRequest(ctx, http.MethodGet, path, query, nil, out)
}

// post sends a form-encoded POST request and decodes the JSON answer into out.
func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	return c.sendRequest(ctx, http.MethodPost, path, nil, form, out)
}

// put sends a form-encoded PUT request. A nil out discards the answer.
func (c *Client) put(ctx context.Context, path string, form url.Values, out any) error {
	return c.sendRequest(ctx, http.MethodPut, path, nil, form, out)
}

func (c *Client) sendRequest(ctx context.Context, method, path string, query, form url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := c.buildRequest(ctx, method, path, query, form)
	if err != nil {
		return err
	}

	resp, err := c.doRequest(req, path)
	if err != nil {
		c.record(0)
		return err
	}
	defer ensureReaderClosed(resp)

	c.record(resp.StatusCode)
	c.logger.Debug("trello request", "method", method, "path", path, "status", resp.StatusCode)

	if err := checkResponseErr(resp, method, path); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) buildRequest(ctx context.Context, method, path string, query, form url.Values) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path

	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("key", c.key)
	q.Set("token", c.token)
	u.RawQuery = q.Encode()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, nil
}

// doRequest wraps http.Client.Do. Transport errors are stripped of the request
// URL, which carries the credentials.
func (c *Client) doRequest(req *http.Request, path string) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err == nil {
		return resp, nil
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	// Don't decorate context sentinel errors; callers compare to them directly.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s %s: %w", ErrConnectionFailed, req.Method, path, err)
}

func ensureReaderClosed(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		// Drain a little so the transport can reuse the connection.
		_, _ = io.CopyN(io.Discard, resp.Body, 512)
		_ = resp.Body.Close()
	}
}

func (c *Client) record(status int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests++
	c.lastStatus = status
	if status == 0 || status >= http.StatusBadRequest {
		c.failures++
	}
}
