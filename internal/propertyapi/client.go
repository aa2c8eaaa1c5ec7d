package propertyapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/090809/apartments-web/internal/propertyapi/constants"
	"github.com/090809/apartments-web/internal/propertyapi/helpers"
	"github.com/090809/apartments-web/internal/propertyapi/models"
)

// Client talks to the remote property API. Login goes out on the plain client,
// the listing on the authorized one.
type Client struct {
	Logger     *slog.Logger
	LoginURL   string
	ListingURL string

	plainClient      helpers.Doer
	authorizedClient helpers.Doer
}

func NewClient(plainClient, authorizedClient helpers.Doer) *Client {
	return &Client{
		Logger:           slog.Default(),
		LoginURL:         fmt.Sprintf(constants.API_LOGIN, constants.BaseUrl),
		ListingURL:       fmt.Sprintf(constants.API_PROPERTY_LIST, constants.BaseUrl),
		plainClient:      plainClient,
		authorizedClient: authorizedClient,
	}
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var response models.LoginResponse
	err := helpers.NewUpstreamRequest(c.LoginURL,
		helpers.WithClient(c.plainClient),
		helpers.WithJSONBody(models.LoginRequest{Email: email, Password: password}),
	).Send(ctx, http.MethodPost, &response)
	if err != nil {
		c.Logger.With("err", err.Error()).Debug("login request failed")
		return "", classify("login", err)
	}

	if response.Data == nil || response.Data.AccessToken == "" {
		return "", &Error{Op: "login", Kind: KindMalformed, Err: ErrTokenNotFound}
	}

	return response.Data.AccessToken, nil
}

// ListApartments fetches the listing in server order. The authorized client supplies the token.
func (c *Client) ListApartments(ctx context.Context) ([]models.Apartment, error) {
	var response models.ApartmentsResponse
	err := helpers.NewUpstreamRequest(c.ListingURL,
		helpers.WithClient(c.authorizedClient),
	).Send(ctx, http.MethodGet, &response)
	if err != nil {
		c.Logger.With("err", err.Error()).Debug("listing request failed")
		return nil, classify("list apartments", err)
	}

	apartments, err := decodeListing(response)
	if err != nil {
		return nil, &Error{Op: "list apartments", Kind: KindMalformed, Err: err}
	}

	return apartments, nil
}

func decodeListing(response models.ApartmentsResponse) ([]models.Apartment, error) {
	var status bool
	if err := json.Unmarshal(response.Status, &status); err != nil || !status {
		return nil, fmt.Errorf("%w: status is not true", errMalformed)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(response.Data, &items); err != nil || items == nil {
		return nil, fmt.Errorf("%w: data is not an array", errMalformed)
	}

	apartments := make([]models.Apartment, 0, len(items))
	for i, item := range items {
		var apartment models.Apartment
		if err := json.Unmarshal(item, &apartment); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", errMalformed, i, err)
		}
		apartments = append(apartments, apartment)
	}
	return apartments, nil
}
