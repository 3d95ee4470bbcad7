package store

import (
	"encoding/base64"
	"shopkeeper/internal/cache"
	"shopkeeper/internal/entity"
)

// Store is one configured remote shop together with the entities fetched from it.
type Store struct {
	Name       string
	URL        string
	Production bool
	apiKey     string
	password   string
	cache      *cache.StoreCache
}

func New(name, url, apiKey, password string, production bool) *Store {
	return &Store{
		Name:       name,
		URL:        url,
		Production: production,
		apiKey:     apiKey,
		password:   password,
		cache:      cache.NewStoreCache(),
	}
}

func (s *Store) Cache() *cache.StoreCache {
	return s.cache
}

// Register hands e to the store cache and returns the canonical instance.
func (s *Store) Register(e *entity.Entity) (*entity.Entity, error) {
	return s.cache.Register(e)
}

func (s *Store) APIKey() string {
	return s.apiKey
}

// BasicAuth returns the base64 of "key:password" used in the Authorization header.
func (s *Store) BasicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(s.apiKey + ":" + s.password))
}
