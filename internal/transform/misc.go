package transform

import (
	"encoding/json"
	"fmt"
	"shopkeeper/internal/entity"
)

type redirectWire struct {
	ID     int64  `json:"id"`
	Path   string `json:"path"`
	Target string `json:"target"`
}

func RedirectFromWire(raw json.RawMessage) (*entity.Entity, error) {
	var w redirectWire
	snapshot, err := decodeInto(raw, &w)
	if err != nil {
		return nil, fmt.Errorf("decode redirect: %w", err)
	}
	return &entity.Entity{
		Type:   entity.Redirect,
		ID:     w.ID,
		Data:   &entity.RedirectData{Path: w.Path, Target: w.Target},
		Raw:    snapshot,
		Remote: true,
	}, nil
}

func RedirectToWire(e *entity.Entity) (entity.Wire, error) {
	d, ok := e.Redirect()
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a redirect", ErrUnexpectedType, e)
	}
	return overlay(e.Raw, redirectWire{ID: e.ID, Path: d.Path, Target: d.Target})
}

type metafieldWire struct {
	ID            int64           `json:"id"`
	Namespace     string          `json:"namespace"`
	Key           string          `json:"key"`
	Value         json.RawMessage `json:"value"`
	ValueType     string          `json:"value_type"`
	Description   *string         `json:"description"`
	OwnerID       *int64          `json:"owner_id"`
	OwnerResource *string         `json:"owner_resource"`
	CreatedAt     *string         `json:"created_at"`
	UpdatedAt     *string         `json:"updated_at"`
}

func MetafieldFromWire(raw json.RawMessage) (*entity.Entity, error) {
	var w metafieldWire
	snapshot, err := decodeInto(raw, &w)
	if err != nil {
		return nil, fmt.Errorf("decode metafield: %w", err)
	}
	return &entity.Entity{
		Type: entity.Metafield,
		ID:   w.ID,
		Data: &entity.MetafieldData{
			Namespace:     w.Namespace,
			Key:           w.Key,
			Value:         snapshot["value"],
			ValueType:     w.ValueType,
			Description:   w.Description,
			OwnerID:       w.OwnerID,
			OwnerResource: w.OwnerResource,
			CreatedAt:     parseDate(w.CreatedAt),
			UpdatedAt:     parseDate(w.UpdatedAt),
		},
		Raw:    snapshot,
		Remote: true,
	}, nil
}

func MetafieldToWire(e *entity.Entity) (entity.Wire, error) {
	d, ok := e.Metafield()
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a metafield", ErrUnexpectedType, e)
	}
	value, err := json.Marshal(d.Value)
	if err != nil {
		return nil, fmt.Errorf("metafield %s value: %w", e, err)
	}
	return overlay(e.Raw, metafieldWire{
		ID:            e.ID,
		Namespace:     d.Namespace,
		Key:           d.Key,
		Value:         value,
		ValueType:     d.ValueType,
		Description:   d.Description,
		OwnerID:       d.OwnerID,
		OwnerResource: d.OwnerResource,
		CreatedAt:     formatDate(d.CreatedAt),
		UpdatedAt:     formatDate(d.UpdatedAt),
	})
}
