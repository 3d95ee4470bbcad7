package transform

import (
	"encoding/json"
	"fmt"
	"shopkeeper/internal/entity"
)

type countryWire struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Code      string            `json:"code"`
	Tax       number            `json:"tax"`
	TaxName   *string           `json:"tax_name"`
	Provinces []json.RawMessage `json:"provinces"`
}

type provinceWire struct {
	ID             int64   `json:"id"`
	CountryID      int64   `json:"country_id"`
	Name           string  `json:"name"`
	Code           string  `json:"code"`
	Tax            number  `json:"tax"`
	TaxName        *string `json:"tax_name"`
	TaxType        *string `json:"tax_type"`
	TaxPercentage  number  `json:"tax_percentage"`
	ShippingZoneID *int64  `json:"shipping_zone_id"`
}

func CountryFromWire(raw json.RawMessage) (*entity.Entity, error) {
	var w countryWire
	snapshot, err := decodeInto(raw, &w)
	if err != nil {
		return nil, fmt.Errorf("decode country: %w", err)
	}

	data := &entity.CountryData{
		Name:    w.Name,
		Code:    w.Code,
		Tax:     w.Tax.Decimal,
		TaxName: w.TaxName,
	}
	for i, r := range w.Provinces {
		p, err := ProvinceFromWire(r)
		if err != nil {
			return nil, fmt.Errorf("province %d of country %d: %w", i, w.ID, err)
		}
		data.Provinces = append(data.Provinces, p)
	}

	return &entity.Entity{
		Type:   entity.Country,
		ID:     w.ID,
		Data:   data,
		Raw:    snapshot,
		Remote: true,
	}, nil
}

// CountryToWire sends provinces as an empty array; they have their own routes.
func CountryToWire(e *entity.Entity) (entity.Wire, error) {
	d, ok := e.Country()
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a country", ErrUnexpectedType, e)
	}
	return overlay(e.Raw, countryWire{
		ID:        e.ID,
		Name:      d.Name,
		Code:      d.Code,
		Tax:       number{d.Tax},
		TaxName:   d.TaxName,
		Provinces: []json.RawMessage{},
	})
}

func ProvinceFromWire(raw json.RawMessage) (*entity.Entity, error) {
	var w provinceWire
	snapshot, err := decodeInto(raw, &w)
	if err != nil {
		return nil, fmt.Errorf("decode province: %w", err)
	}
	return &entity.Entity{
		Type: entity.Province,
		ID:   w.ID,
		Data: &entity.ProvinceData{
			CountryID:      w.CountryID,
			Name:           w.Name,
			Code:           w.Code,
			Tax:            w.Tax.Decimal,
			TaxName:        w.TaxName,
			TaxType:        w.TaxType,
			TaxPercentage:  w.TaxPercentage.Decimal,
			ShippingZoneID: w.ShippingZoneID,
		},
		Raw:    snapshot,
		Remote: true,
	}, nil
}

func ProvinceToWire(e *entity.Entity) (entity.Wire, error) {
	d, ok := e.Province()
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a province", ErrUnexpectedType, e)
	}
	return overlay(e.Raw, provinceWire{
		ID:             e.ID,
		CountryID:      d.CountryID,
		Name:           d.Name,
		Code:           d.Code,
		Tax:            number{d.Tax},
		TaxName:        d.TaxName,
		TaxType:        d.TaxType,
		TaxPercentage:  number{d.TaxPercentage},
		ShippingZoneID: d.ShippingZoneID,
	})
}
