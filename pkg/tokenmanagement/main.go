package tokenmanagement

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/090809/apartments-web/pkg/auth"
)

// StoredTokenProvider hands out the token kept in the token store. It never refreshes:
// a rejected token is dropped and the user has to log in again.
type StoredTokenProvider struct {
	Logger     *slog.Logger
	tokenStore auth.TokenStore
}

func NewStoredTokenProvider(tokenStore auth.TokenStore) *StoredTokenProvider {
	return &StoredTokenProvider{
		tokenStore: tokenStore,
		Logger:     slog.Default(),
	}
}

func (p *StoredTokenProvider) GetToken() (string, error) {
	token, err := p.tokenStore.LoadToken()
	if errors.Is(err, auth.ErrNoToken) {
		return "", err
	}
	if err != nil {
		p.Logger.With("err", err.Error()).Warn("load token")
		return "", fmt.Errorf("load token: %w", err)
	}

	return token, nil
}

func (p *StoredTokenProvider) InvalidateToken() error {
	p.Logger.Debug("dropping rejected token")
	if err := p.tokenStore.ClearToken(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
