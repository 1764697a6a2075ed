// Package auth stores the dashboard bearer token in the OS keychain.
// Token acquisition and refresh belong to the external identity
// provider; this layer only holds whatever token the user supplied at
// login and hands it to the gateway on request.
package auth

import (
	"errors"

	"opsdash/internal/util"
)

const ServiceName = "opsdash"

var ErrTokenNotFound = errors.New("auth token not found")

// Store holds one bearer token per backend server.
type Store interface {
	SetToken(server string, token string) error
	GetToken(server string) (string, error)
	DeleteToken(server string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeServer normalizes a server URL or host for consistent
// keychain lookup, so "https://dash.example.com/" and
// "dash.example.com" resolve to the same entry.
func NormalizeServer(server string) string {
	return util.NormalizeKey(util.StripURLScheme(server))
}
