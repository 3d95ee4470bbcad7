package store

import (
	"shopkeeper/internal/entity"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_BasicAuth(t *testing.T) {
	s := New("dev", "localhost", "something-with", "182948-decent-entropy", false)
	assert.Equal(t, "c29tZXRoaW5nLXdpdGg6MTgyOTQ4LWRlY2VudC1lbnRyb3B5", s.BasicAuth())
	assert.Equal(t, "something-with", s.APIKey())

	empty := New("empty", "localhost", "", "", false)
	assert.Equal(t, "Og==", empty.BasicAuth())
}

func TestStore_RegisterProxiesToCache(t *testing.T) {
	s := New("dev", "localhost", "k", "p", false)
	opt := &entity.Entity{
		Type: entity.Option,
		ID:   1,
		Data: &entity.OptionData{ProductID: 2, Position: 1, Name: "test", Values: []string{"test"}},
	}

	got, err := s.Register(opt)
	require.NoError(t, err)
	assert.Same(t, opt, got)
	assert.Equal(t, 1, s.Cache().Len())

	cached, ok := s.Cache().FindByID(entity.Option, 1)
	require.True(t, ok)
	assert.Same(t, opt, cached)
}
