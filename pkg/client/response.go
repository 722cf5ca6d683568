package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Response is the outcome of one call: Data for 2xx, Error otherwise.
// The body has been read and closed.
type Response struct {
	StatusCode int
	Header     http.Header
	Data       json.RawMessage
	Error      *APIError
	HTTP       *http.Response
}

func readResponse(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header, HTTP: resp}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		out.Error = decodeAPIError(resp.StatusCode, statusText(resp.StatusCode), data)
		return out, nil
	}
	if len(data) > 0 {
		out.Data = json.RawMessage(data)
	}
	return out, nil
}

// OK reports whether the status was 2xx.
func (r *Response) OK() bool { return r != nil && r.Error == nil }

// Err returns Error as an error value, or nil for 2xx responses.
func (r *Response) Err() error {
	if r == nil || r.Error == nil {
		return nil
	}
	return r.Error
}

// Decode unmarshals Data into v. It returns the API error for non-2xx
// responses and does nothing for empty bodies.
func (r *Response) Decode(v any) error {
	if err := r.Err(); err != nil {
		return err
	}
	if len(r.Data) == 0 || v == nil {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("savvycal: decode response: %w", err)
	}
	return nil
}

// Call performs one request and decodes the 2xx body into T.
func Call[T any](ctx context.Context, c *Client, method, path string, opts *RequestOptions) (T, error) {
	var out T
	resp, err := c.Do(ctx, method, path, opts)
	if err != nil {
		return out, err
	}
	if err := resp.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
