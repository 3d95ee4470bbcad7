package client

import (
	"net/http"
	"shopkeeper/internal/store"
)

type AuthEngine interface {
	GetApiKey() string
	SetApiKey(request *http.Request)
}

// BasicAuth signs requests with the private app credentials of a store.
type BasicAuth struct {
	store *store.Store
}

func NewBasicAuth(s *store.Store) *BasicAuth {
	if s == nil {
		return nil
	}
	return &BasicAuth{store: s}
}

func (b *BasicAuth) GetApiKey() string {
	return b.store.APIKey()
}

// SetApiKey always replaces any Authorization header already on the request.
func (b *BasicAuth) SetApiKey(request *http.Request) {
	request.Header.Set("Authorization", "Basic "+b.store.BasicAuth())
}

// maskKey keeps the first four characters of a key for log lines.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
