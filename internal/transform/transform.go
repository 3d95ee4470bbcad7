package transform

import (
	"encoding/json"
	"fmt"
	"shopkeeper/internal/entity"
)

// Converter moves one record kind between its wire object and its domain form.
type Converter struct {
	FromWire func(raw json.RawMessage) (*entity.Entity, error)
	ToWire   func(e *entity.Entity) (entity.Wire, error)
}

var converters = map[entity.Type]Converter{
	entity.Shop:      {ShopFromWire, ShopToWire},
	entity.Page:      {PageFromWire, PageToWire},
	entity.Product:   {ProductFromWire, ProductToWire},
	entity.Variant:   {VariantFromWire, VariantToWire},
	entity.Option:    {OptionFromWire, OptionToWire},
	entity.Country:   {CountryFromWire, CountryToWire},
	entity.Province:  {ProvinceFromWire, ProvinceToWire},
	entity.Redirect:  {RedirectFromWire, RedirectToWire},
	entity.Metafield: {MetafieldFromWire, MetafieldToWire},
}

func Lookup(t entity.Type) (Converter, bool) {
	c, ok := converters[t]
	return c, ok
}

// FromWire converts without registering anything.
func FromWire(t entity.Type, raw json.RawMessage) (*entity.Entity, error) {
	c, ok := converters[t]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrNoConverter, t)
	}
	return c.FromWire(raw)
}

func ToWire(e *entity.Entity) (entity.Wire, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil entity", ErrUnexpectedType)
	}
	c, ok := converters[e.Type]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrNoConverter, e.Type)
	}
	return c.ToWire(e)
}

// Registry receives built entities and hands back the canonical instance.
// Both *cache.StoreCache and *store.Store satisfy it.
type Registry interface {
	Register(e *entity.Entity) (*entity.Entity, error)
}

// Mapper builds entities from wire objects and registers whole trees with a
// store. Children are registered before their parent, and the parent's
// references are swapped for the canonical instances.
type Mapper struct {
	registry Registry
}

func NewMapper(r Registry) *Mapper {
	return &Mapper{registry: r}
}

func (m *Mapper) Build(t entity.Type, raw json.RawMessage) (*entity.Entity, error) {
	e, err := FromWire(t, raw)
	if err != nil {
		return nil, err
	}
	return m.Register(e)
}

func (m *Mapper) BuildAll(t entity.Type, raws []json.RawMessage) ([]*entity.Entity, error) {
	out := make([]*entity.Entity, 0, len(raws))
	for i, raw := range raws {
		e, err := m.Build(t, raw)
		if err != nil {
			return nil, fmt.Errorf("%s item %d: %w", t, i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Register stores e and everything it owns. Nothing is registered unless the
// whole tree carries resolved ids.
func (m *Mapper) Register(e *entity.Entity) (*entity.Entity, error) {
	if err := checkTree(e); err != nil {
		return nil, err
	}
	return m.register(e)
}

func (m *Mapper) register(e *entity.Entity) (*entity.Entity, error) {
	switch d := e.Data.(type) {
	case *entity.ProductData:
		if err := m.registerChildren(d.Options); err != nil {
			return nil, err
		}
		if err := m.registerChildren(d.Variants); err != nil {
			return nil, err
		}
	case *entity.CountryData:
		if err := m.registerChildren(d.Provinces); err != nil {
			return nil, err
		}
	}
	canonical, err := m.registry.Register(e)
	if err != nil {
		return nil, err
	}
	if canonical != e {
		adopt(canonical, e)
	}
	return canonical, nil
}

// adopt moves the children of a re-fetched duplicate onto the cached
// instance, so that every cached child points at a cached owner. Children the
// cached tree already holds stay; nothing is removed.
func adopt(canonical, dup *entity.Entity) {
	switch d := dup.Data.(type) {
	case *entity.ProductData:
		cd, ok := canonical.Product()
		if !ok || cd == d {
			return
		}
		cd.Options = appendMissing(cd.Options, d.Options)
		cd.Variants = appendMissing(cd.Variants, d.Variants)
		for _, v := range cd.Variants {
			if vd, ok := v.Variant(); ok {
				vd.Product = canonical
			}
		}
	case *entity.CountryData:
		cd, ok := canonical.Country()
		if !ok || cd == d {
			return
		}
		cd.Provinces = appendMissing(cd.Provinces, d.Provinces)
	}
}

func appendMissing(dst, src []*entity.Entity) []*entity.Entity {
	for _, e := range src {
		found := false
		for _, have := range dst {
			if have == e {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, e)
		}
	}
	return dst
}

func (m *Mapper) registerChildren(children []*entity.Entity) error {
	for i, child := range children {
		canonical, err := m.register(child)
		if err != nil {
			return err
		}
		children[i] = canonical
	}
	return nil
}

func children(e *entity.Entity) []*entity.Entity {
	switch d := e.Data.(type) {
	case *entity.ProductData:
		out := make([]*entity.Entity, 0, len(d.Options)+len(d.Variants))
		out = append(out, d.Options...)
		return append(out, d.Variants...)
	case *entity.CountryData:
		return d.Provinces
	}
	return nil
}

func checkTree(e *entity.Entity) error {
	if e == nil {
		return fmt.Errorf("%w: nil entity", ErrUnexpectedType)
	}
	if !e.Resolved() {
		return fmt.Errorf("cannot register %s: id %d is not resolved", e, e.ID)
	}
	if e.Data == nil || e.Data.ItemType() != e.Type {
		return fmt.Errorf("%w: %s carries mismatched data", ErrUnexpectedType, e)
	}
	for _, child := range children(e) {
		if err := checkTree(child); err != nil {
			return err
		}
	}
	return nil
}
