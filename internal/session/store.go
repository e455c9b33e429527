// Package session holds the operator's authentication state: the bearer token and
// the cached profile returned by the service. The transport reads the token from a
// Store before every request; only login and profile fetches write it.
package session

import (
	jsonitor "github.com/json-iterator/go"
	"github.com/thepivo/pivoadmin/internal/models"
)

var json = jsonitor.ConfigCompatibleWithStandardLibrary

// Store is the session owned by one admin client. Clear removes the token and the
// profile together; no caller can observe one without the other afterwards.
type Store interface {
	GetToken() string
	SetToken(token string) error
	ClearToken() error

	GetUser() *models.User
	SetUser(user *models.User) error
	ClearUser() error

	Clear() error
}

var _ Store = (*FileStore)(nil)
var _ Store = (*MemoryStore)(nil)
