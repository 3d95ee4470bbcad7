package transform

import (
	"encoding/json"
	"fmt"
	"shopkeeper/internal/entity"
)

type shopWire struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	CustomerEmail     *string `json:"customer_email"`
	Domain            string  `json:"domain"`
	MyshopifyDomain   string  `json:"myshopify_domain"`
	ShopOwner         string  `json:"shop_owner"`
	Phone             *string `json:"phone"`
	Address1          *string `json:"address1"`
	Address2          *string `json:"address2"`
	City              *string `json:"city"`
	Zip               *string `json:"zip"`
	Province          *string `json:"province"`
	ProvinceCode      *string `json:"province_code"`
	Country           string  `json:"country"`
	CountryCode       string  `json:"country_code"`
	CountryName       string  `json:"country_name"`
	Currency          string  `json:"currency"`
	MoneyFormat       string  `json:"money_format"`
	Timezone          string  `json:"timezone"`
	IanaTimezone      string  `json:"iana_timezone"`
	PrimaryLocale     string  `json:"primary_locale"`
	WeightUnit        string  `json:"weight_unit"`
	PlanName          string  `json:"plan_name"`
	PlanDisplayName   string  `json:"plan_display_name"`
	TaxesIncluded     *bool   `json:"taxes_included"`
	TaxShipping       *bool   `json:"tax_shipping"`
	PasswordEnabled   bool    `json:"password_enabled"`
	HasStorefront     bool    `json:"has_storefront"`
	PrimaryLocationID *int64  `json:"primary_location_id"`
	CreatedAt         *string `json:"created_at"`
	UpdatedAt         *string `json:"updated_at"`
}

func ShopFromWire(raw json.RawMessage) (*entity.Entity, error) {
	var w shopWire
	snapshot, err := decodeInto(raw, &w)
	if err != nil {
		return nil, fmt.Errorf("decode shop: %w", err)
	}
	return &entity.Entity{
		Type: entity.Shop,
		ID:   w.ID,
		Data: &entity.ShopData{
			Name:              w.Name,
			Email:             w.Email,
			CustomerEmail:     w.CustomerEmail,
			Domain:            w.Domain,
			MyshopifyDomain:   w.MyshopifyDomain,
			ShopOwner:         w.ShopOwner,
			Phone:             w.Phone,
			Address1:          w.Address1,
			Address2:          w.Address2,
			City:              w.City,
			Zip:               w.Zip,
			Province:          w.Province,
			ProvinceCode:      w.ProvinceCode,
			Country:           w.Country,
			CountryCode:       w.CountryCode,
			CountryName:       w.CountryName,
			Currency:          w.Currency,
			MoneyFormat:       w.MoneyFormat,
			Timezone:          w.Timezone,
			IanaTimezone:      w.IanaTimezone,
			PrimaryLocale:     w.PrimaryLocale,
			WeightUnit:        w.WeightUnit,
			PlanName:          w.PlanName,
			PlanDisplayName:   w.PlanDisplayName,
			TaxesIncluded:     w.TaxesIncluded,
			TaxShipping:       w.TaxShipping,
			PasswordEnabled:   w.PasswordEnabled,
			HasStorefront:     w.HasStorefront,
			PrimaryLocationID: w.PrimaryLocationID,
			CreatedAt:         parseDate(w.CreatedAt),
			UpdatedAt:         parseDate(w.UpdatedAt),
		},
		Raw:    snapshot,
		Remote: true,
	}, nil
}

func ShopToWire(e *entity.Entity) (entity.Wire, error) {
	d, ok := e.Shop()
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a shop", ErrUnexpectedType, e)
	}
	return overlay(e.Raw, shopWire{
		ID:                e.ID,
		Name:              d.Name,
		Email:             d.Email,
		CustomerEmail:     d.CustomerEmail,
		Domain:            d.Domain,
		MyshopifyDomain:   d.MyshopifyDomain,
		ShopOwner:         d.ShopOwner,
		Phone:             d.Phone,
		Address1:          d.Address1,
		Address2:          d.Address2,
		City:              d.City,
		Zip:               d.Zip,
		Province:          d.Province,
		ProvinceCode:      d.ProvinceCode,
		Country:           d.Country,
		CountryCode:       d.CountryCode,
		CountryName:       d.CountryName,
		Currency:          d.Currency,
		MoneyFormat:       d.MoneyFormat,
		Timezone:          d.Timezone,
		IanaTimezone:      d.IanaTimezone,
		PrimaryLocale:     d.PrimaryLocale,
		WeightUnit:        d.WeightUnit,
		PlanName:          d.PlanName,
		PlanDisplayName:   d.PlanDisplayName,
		TaxesIncluded:     d.TaxesIncluded,
		TaxShipping:       d.TaxShipping,
		PasswordEnabled:   d.PasswordEnabled,
		HasStorefront:     d.HasStorefront,
		PrimaryLocationID: d.PrimaryLocationID,
		CreatedAt:         formatDate(d.CreatedAt),
		UpdatedAt:         formatDate(d.UpdatedAt),
	})
}
