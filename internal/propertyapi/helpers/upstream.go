package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/090809/apartments-web/internal/propertyapi/constants"
	"github.com/090809/apartments-web/pkg/responder"
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError reports a non-2xx upstream answer.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream responded with status %d", e.StatusCode)
}

// DecodeError reports a 2xx answer whose body is not the expected JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

type UpstreamRequest struct {
	url     string
	client  Doer
	headers http.Header
	body    any
}

type RequestOption func(*UpstreamRequest)

func NewUpstreamRequest(url string, opts ...RequestOption) *UpstreamRequest {
	r := &UpstreamRequest{
		url:     url,
		client:  http.DefaultClient,
		headers: http.Header{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithClient(client Doer) RequestOption {
	return func(r *UpstreamRequest) {
		if client != nil {
			r.client = client
		}
	}
}

func WithHeader(key, value string) RequestOption {
	return func(r *UpstreamRequest) {
		r.headers.Set(key, value)
	}
}

// WithJSONBody marshals body into the request and sets the JSON content type.
func WithJSONBody(body any) RequestOption {
	return func(r *UpstreamRequest) {
		r.body = body
		r.headers.Set("Content-Type", constants.ContentTypeJSON)
	}
}

// Send performs exactly one request and decodes a 2xx body into out.
// Transport failures are returned wrapped, non-2xx as *StatusError, bad bodies as *DecodeError.
func (r *UpstreamRequest) Send(ctx context.Context, method string, out any) error {
	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header = r.headers.Clone()
	req.Header.Set("Accept", constants.ContentTypeJSON)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("send %s %s: %w", method, r.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := responder.Read(resp)
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := responder.ReadJSON(resp, out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}
