package authorizedhttp

import (
	"fmt"
	"log/slog"
	"net/http"
)

type TokenProvider interface {
	GetToken() (string, error)
}

// Client attaches the stored bearer token to every outgoing request.
type Client struct {
	Logger        *slog.Logger
	DefaultClient *http.Client

	tokenProvider TokenProvider
}

func NewClient(tokenProvider TokenProvider) *Client {
	return &Client{
		Logger:        slog.Default(),
		DefaultClient: http.DefaultClient,
		tokenProvider: tokenProvider,
	}
}

// Do sends req with an Authorization header. When no token is available the request is
// never sent and the provider's error is returned unchanged, so callers can match auth.ErrNoToken.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	token, err := c.tokenProvider.GetToken()
	if err != nil {
		return nil, err
	}

	authorized := req.Clone(req.Context())
	authorized.Header.Set("Authorization", "Bearer "+token)

	c.Logger.With("method", req.Method).With("url", req.URL.String()).Debug("sending authorized request")

	resp, err := c.DefaultClient.Do(authorized)
	if err != nil {
		return nil, fmt.Errorf("do %s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	return resp, nil
}
