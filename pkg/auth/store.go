package auth

import "errors"

// TokenKey is the fixed key the bearer token is stored under.
const TokenKey = "authToken"

var ErrNoToken = errors.New("no token stored")

// TokenStore holds at most one session token. Its presence is the only "logged in" signal.
type TokenStore interface {
	LoadToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}
