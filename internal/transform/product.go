package transform

import (
	"encoding/json"
	"fmt"
	"shopkeeper/internal/entity"
)

type productWire struct {
	ID             int64             `json:"id"`
	Title          string            `json:"title"`
	Handle         string            `json:"handle"`
	BodyHTML       *string           `json:"body_html"`
	Vendor         *string           `json:"vendor"`
	ProductType    *string           `json:"product_type"`
	TemplateSuffix *string           `json:"template_suffix"`
	PublishedScope *string           `json:"published_scope"`
	Tags           *string           `json:"tags"`
	Price          money             `json:"price"`
	ComparePrice   money             `json:"compare_at_price"`
	CreatedAt      *string           `json:"created_at"`
	UpdatedAt      *string           `json:"updated_at"`
	PublishedAt    *string           `json:"published_at"`
	Options        []json.RawMessage `json:"options"`
	Variants       []json.RawMessage `json:"variants"`
}

const defaultPublishedScope = "global"

// ProductFromWire converts a product together with its nested options and
// variants. Every variant points back at the returned product.
func ProductFromWire(raw json.RawMessage) (*entity.Entity, error) {
	var w productWire
	snapshot, err := decodeInto(raw, &w)
	if err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}

	data := &entity.ProductData{
		Title:          w.Title,
		HTML:           deref(w.BodyHTML),
		Vendor:         w.Vendor,
		ProductType:    w.ProductType,
		TemplateSuffix: w.TemplateSuffix,
		PublishedScope: deref(w.PublishedScope),
		Tags:           splitTags(w.Tags),
		Price:          w.Price.NullDecimal,
		ComparePrice:   w.ComparePrice.NullDecimal,
		CreatedAt:      parseDate(w.CreatedAt),
		UpdatedAt:      parseDate(w.UpdatedAt),
		PublishedAt:    parseDate(w.PublishedAt),
	}
	if data.PublishedScope == "" {
		data.PublishedScope = defaultPublishedScope
	}

	product := &entity.Entity{
		Type:   entity.Product,
		ID:     w.ID,
		Handle: w.Handle,
		Data:   data,
		Raw:    snapshot,
		Remote: true,
	}

	for i, r := range w.Options {
		opt, err := OptionFromWire(r)
		if err != nil {
			return nil, fmt.Errorf("option %d of product %d: %w", i, w.ID, err)
		}
		data.Options = append(data.Options, opt)
	}
	for i, r := range w.Variants {
		v, err := VariantFromWire(r)
		if err != nil {
			return nil, fmt.Errorf("variant %d of product %d: %w", i, w.ID, err)
		}
		v.Data.(*entity.VariantData).Product = product
		data.Variants = append(data.Variants, v)
	}
	return product, nil
}

// ProductToWire writes the product fields. Options and variants are sent as
// empty arrays, they are synced through their own routes.
func ProductToWire(e *entity.Entity) (entity.Wire, error) {
	d, ok := e.Product()
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a product", ErrUnexpectedType, e)
	}
	createdAt, err := requireDate(d.CreatedAt, "created_at")
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", e, err)
	}
	updatedAt, err := requireDate(d.UpdatedAt, "updated_at")
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", e, err)
	}

	scope := d.PublishedScope
	if scope == "" {
		scope = defaultPublishedScope
	}
	tags := joinTags(d.Tags)
	html := d.HTML

	out, err := overlay(e.Raw, productWire{
		ID:             e.ID,
		Title:          d.Title,
		Handle:         e.Handle,
		BodyHTML:       &html,
		Vendor:         d.Vendor,
		ProductType:    d.ProductType,
		TemplateSuffix: d.TemplateSuffix,
		PublishedScope: &scope,
		Tags:           &tags,
		Price:          money{d.Price},
		ComparePrice:   money{d.ComparePrice},
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
		PublishedAt:    formatDate(d.PublishedAt),
		Options:        []json.RawMessage{},
		Variants:       []json.RawMessage{},
	})
	if err != nil {
		return nil, err
	}
	return keepNull(out, e.Raw, map[string]any{
		"body_html":       "",
		"tags":            "",
		"published_scope": defaultPublishedScope,
	}), nil
}
