package config

import (
	"errors"
	"fmt"
	"shopkeeper/internal/entity"
	"shopkeeper/internal/store"
	"strconv"
	"strings"
)

var (
	ErrEnvironmentRequired = errors.New("a valid environment name MUST be provided")
	ErrUnknownEnvironment  = errors.New("no environment found")
	ErrMultipleEnvironment = errors.New("multiple environments are not supported for this command")
	ErrEntityPathRequired  = errors.New("this command requires an entity path (example: 'pages/about-us')")
	ErrInvalidEntityPath   = errors.New("invalid entity path provided")
	ErrGenericEntityPath   = errors.New("this command does not support generic entities")
)

type EnvOptions struct {
	Required bool
	Multiple bool
}

// Environments resolves a comma separated list of store names into fresh stores.
func (c *AppConfig) Environments(names string, opts EnvOptions) ([]*store.Store, error) {
	var requested []string
	for _, name := range strings.Split(names, ",") {
		if name = strings.TrimSpace(name); name != "" {
			requested = append(requested, name)
		}
	}
	if opts.Required && len(requested) == 0 {
		return nil, ErrEnvironmentRequired
	}

	out := make([]*store.Store, 0, len(requested))
	for _, name := range requested {
		s, ok := c.Store(name)
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", ErrUnknownEnvironment, name)
		}
		out = append(out, s)
	}

	if !opts.Multiple && len(out) > 1 {
		return nil, fmt.Errorf("%w (%d were given)", ErrMultipleEnvironment, len(out))
	}
	return out, nil
}

type EntityPathOptions struct {
	Required        bool
	AllowEntireType bool
}

// EntityPath is the result of resolving "type/identifier". Entity is nil when
// the path names a whole type or the record is not cached.
type EntityPath struct {
	Type   entity.Type
	Entity *entity.Entity
}

// ResolveEntityPath looks up "type/handle" or "type/id" in the store cache.
func ResolveEntityPath(s *store.Store, path string, opts EntityPathOptions) (EntityPath, error) {
	if path == "" {
		if opts.Required {
			return EntityPath{}, ErrEntityPathRequired
		}
		return EntityPath{}, nil
	}

	parts := strings.Split(strings.ReplaceAll(path, `\`, "/"), "/")
	if len(parts) > 2 || parts[0] == "" {
		if opts.Required {
			return EntityPath{}, fmt.Errorf("%w: '%s' (example: 'pages/about-us')", ErrInvalidEntityPath, path)
		}
		return EntityPath{}, nil
	}

	t, err := entity.ParseType(parts[0])
	if err != nil {
		return EntityPath{}, err
	}
	if len(parts) == 1 || parts[1] == "" {
		if !opts.AllowEntireType {
			return EntityPath{}, fmt.Errorf("%w: '%s' is missing an item handle/ID", ErrGenericEntityPath, path)
		}
		return EntityPath{Type: t}, nil
	}

	identifier := parts[1]
	var found *entity.Entity
	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		found, _ = s.Cache().FindByID(t, id)
	} else {
		found, _ = s.Cache().FindByHandle(t, identifier)
	}
	return EntityPath{Type: t, Entity: found}, nil
}
