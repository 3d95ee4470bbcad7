package transform

import (
	"encoding/json"
	"fmt"
	"shopkeeper/internal/entity"
)

type optionWire struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"product_id"`
	Name      string   `json:"name"`
	Position  int      `json:"position"`
	Values    []string `json:"values"`
}

func OptionFromWire(raw json.RawMessage) (*entity.Entity, error) {
	var w optionWire
	snapshot, err := decodeInto(raw, &w)
	if err != nil {
		return nil, fmt.Errorf("decode option: %w", err)
	}
	return &entity.Entity{
		Type: entity.Option,
		ID:   w.ID,
		Data: &entity.OptionData{
			ProductID: w.ProductID,
			Name:      w.Name,
			Position:  w.Position,
			Values:    w.Values,
		},
		Raw:    snapshot,
		Remote: true,
	}, nil
}

func OptionToWire(e *entity.Entity) (entity.Wire, error) {
	d, ok := e.Option()
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a product option", ErrUnexpectedType, e)
	}
	values := d.Values
	if values == nil {
		values = []string{}
	}
	return overlay(e.Raw, optionWire{
		ID:        e.ID,
		ProductID: d.ProductID,
		Name:      d.Name,
		Position:  d.Position,
		Values:    values,
	})
}
