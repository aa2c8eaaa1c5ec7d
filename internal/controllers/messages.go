package controllers

import (
	"errors"

	"github.com/090809/apartments-web/internal/propertyapi"
)

const (
	msgLoginFailed          = "Failed to login"
	msgTokenNotFound        = "Token not found in response data"
	msgCredentialsRequired  = "Email and password are required"
	msgTokenNotStored       = "Unable to store the session token"
	msgNoToken              = "No token found. Please login first."
	msgUnauthorized         = "Unauthorized. Please login again."
	msgFetchFailed          = "Failed to fetch apartments"
	msgInvalidData          = "Received data is not valid"
	msgServerUnreachable    = "Unable to reach the server"
	msgUnexpectedErrorFound = "An unexpected error occurred"
)

func loginErrorMessage(err error) string {
	switch propertyapi.KindOf(err) {
	case propertyapi.KindStatus, propertyapi.KindUnauthorized:
		return msgLoginFailed
	case propertyapi.KindMalformed:
		if errors.Is(err, propertyapi.ErrTokenNotFound) {
			return msgTokenNotFound
		}
		return msgInvalidData
	case propertyapi.KindTransport:
		return msgServerUnreachable
	default:
		return msgUnexpectedErrorFound
	}
}

func listingErrorMessage(err error) string {
	switch propertyapi.KindOf(err) {
	case propertyapi.KindNoToken:
		return msgNoToken
	case propertyapi.KindUnauthorized:
		return msgUnauthorized
	case propertyapi.KindStatus:
		return msgFetchFailed
	case propertyapi.KindMalformed:
		return msgInvalidData
	case propertyapi.KindTransport:
		return msgServerUnreachable
	default:
		return msgUnexpectedErrorFound
	}
}
