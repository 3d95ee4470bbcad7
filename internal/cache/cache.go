package cache

import (
	"errors"
	"fmt"
	"shopkeeper/internal/entity"
	"sync"
)

var (
	// ErrNegativeID means a local placeholder reached the cache before its remote id was known.
	ErrNegativeID = errors.New("refusing to cache item with negative id")
	// ErrMissingID means the id was never filled in.
	ErrMissingID = errors.New("expected item id to be resolved already")
	// ErrUnknownType means the item type is outside the known set.
	ErrUnknownType = errors.New("refusing to cache unknown item type")
)

type index struct {
	ids     map[int64]int
	handles map[string]int
}

// StoreCache keeps exactly one entity per (type, id) and (type, handle) for a store.
// Entities are appended and never removed.
type StoreCache struct {
	mu      sync.Mutex
	indexes map[entity.Type]*index
	items   []*entity.Entity
}

func NewStoreCache() *StoreCache {
	indexes := make(map[entity.Type]*index)
	for _, t := range entity.Types() {
		indexes[t] = &index{
			ids:     make(map[int64]int),
			handles: make(map[string]int),
		}
	}
	return &StoreCache{indexes: indexes}
}

// Register stores e unless an entity with the same id or handle is already
// cached, in which case the cached instance is returned and e is dropped.
func (c *StoreCache) Register(e *entity.Entity) (*entity.Entity, error) {
	if e == nil {
		return nil, fmt.Errorf("refusing to cache nil item")
	}
	if e.ID < 0 {
		return nil, fmt.Errorf("%w: %s has id %d", ErrNegativeID, e.Type, e.ID)
	}
	if e.ID == 0 {
		return nil, fmt.Errorf("%w: %s id is not set", ErrMissingID, e.Type)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.indexes[e.Type]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownType, e.Type)
	}

	if pos, ok := idx.ids[e.ID]; ok {
		return c.items[pos], nil
	}
	if e.Handle != "" {
		if pos, ok := idx.handles[e.Handle]; ok {
			return c.items[pos], nil
		}
	}

	pos := len(c.items)
	c.items = append(c.items, e)
	idx.ids[e.ID] = pos
	if e.Handle != "" {
		idx.handles[e.Handle] = pos
	}
	return e, nil
}

func (c *StoreCache) FindByID(t entity.Type, id int64) (*entity.Entity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.indexes[t]
	if !ok {
		return nil, false
	}
	pos, ok := idx.ids[id]
	if !ok {
		return nil, false
	}
	return c.items[pos], true
}

func (c *StoreCache) FindByHandle(t entity.Type, handle string) (*entity.Entity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.indexes[t]
	if !ok {
		return nil, false
	}
	pos, ok := idx.handles[handle]
	if !ok {
		return nil, false
	}
	return c.items[pos], true
}

// Len is the number of cached entities across all types.
func (c *StoreCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// All returns the cached entities of one type in registration order.
func (c *StoreCache) All(t entity.Type) []*entity.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []*entity.Entity
	for _, e := range c.items {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
