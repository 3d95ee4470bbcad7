package transform

import (
	"encoding/json"
	"fmt"
	"shopkeeper/internal/entity"
)

type variantWire struct {
	ID                  int64   `json:"id"`
	ProductID           int64   `json:"product_id"`
	Title               string  `json:"title"`
	Option1             *string `json:"option1"`
	Option2             *string `json:"option2"`
	Option3             *string `json:"option3"`
	Position            int     `json:"position"`
	Price               money   `json:"price"`
	ComparePrice        money   `json:"compare_at_price"`
	SKU                 *string `json:"sku"`
	Barcode             *string `json:"barcode"`
	Taxable             bool    `json:"taxable"`
	Grams               int64   `json:"grams"`
	Weight              number  `json:"weight"`
	WeightUnit          string  `json:"weight_unit"`
	RequiresShipping    bool    `json:"requires_shipping"`
	FulfillmentService  string  `json:"fulfillment_service"`
	InventoryManagement *string `json:"inventory_management"`
	InventoryPolicy     string  `json:"inventory_policy"`
	InventoryQuantity   int64   `json:"inventory_quantity"`
	CreatedAt           *string `json:"created_at"`
	UpdatedAt           *string `json:"updated_at"`
}

const (
	defaultWeightUnit  = "lb"
	defaultFulfillment = "manual"
	defaultPolicy      = "deny"
)

// VariantFromWire converts a single variant. The owning product is not known
// here; ProductFromWire attaches it.
func VariantFromWire(raw json.RawMessage) (*entity.Entity, error) {
	var w variantWire
	snapshot, err := decodeInto(raw, &w)
	if err != nil {
		return nil, fmt.Errorf("decode variant: %w", err)
	}

	return &entity.Entity{
		Type: entity.Variant,
		ID:   w.ID,
		Data: &entity.VariantData{
			Title:            w.Title,
			Options:          optionValues(w.Option1, w.Option2, w.Option3),
			Position:         w.Position,
			Price:            w.Price.NullDecimal,
			ComparePrice:     w.ComparePrice.NullDecimal,
			SKU:              w.SKU,
			Barcode:          w.Barcode,
			Taxable:          w.Taxable,
			Grams:            w.Grams,
			Weight:           w.Weight.Decimal,
			WeightUnit:       w.WeightUnit,
			RequiresShipping: w.RequiresShipping,
			Inventory: entity.Inventory{
				Fulfillment: w.FulfillmentService,
				Manager:     w.InventoryManagement,
				Policy:      w.InventoryPolicy,
				Quantity:    w.InventoryQuantity,
			},
			CreatedAt: parseDate(w.CreatedAt),
			UpdatedAt: parseDate(w.UpdatedAt),
		},
		Raw:    snapshot,
		Remote: true,
	}, nil
}

// VariantToWire needs the owning product to carry a remote id already.
func VariantToWire(e *entity.Entity) (entity.Wire, error) {
	d, ok := e.Variant()
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a variant", ErrUnexpectedType, e)
	}
	if !d.Product.Resolved() {
		return nil, fmt.Errorf("%w: %s", ErrOrphanedVariant, e)
	}
	createdAt, err := requireDate(d.CreatedAt, "created_at")
	if err != nil {
		return nil, fmt.Errorf("variant %s: %w", e, err)
	}
	updatedAt, err := requireDate(d.UpdatedAt, "updated_at")
	if err != nil {
		return nil, fmt.Errorf("variant %s: %w", e, err)
	}

	w := variantWire{
		ID:                  e.ID,
		ProductID:           d.Product.ID,
		Title:               d.Title,
		Option1:             optionSlot(d.Options, 0),
		Option2:             optionSlot(d.Options, 1),
		Option3:             optionSlot(d.Options, 2),
		Position:            d.Position,
		Price:               money{d.Price},
		ComparePrice:        money{d.ComparePrice},
		SKU:                 d.SKU,
		Barcode:             d.Barcode,
		Taxable:             d.Taxable,
		Grams:               d.Grams,
		Weight:              number{d.Weight},
		WeightUnit:          d.WeightUnit,
		RequiresShipping:    d.RequiresShipping,
		FulfillmentService:  d.Inventory.Fulfillment,
		InventoryManagement: d.Inventory.Manager,
		InventoryPolicy:     d.Inventory.Policy,
		InventoryQuantity:   d.Inventory.Quantity,
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
	}
	if w.WeightUnit == "" {
		w.WeightUnit = defaultWeightUnit
	}
	if w.FulfillmentService == "" {
		w.FulfillmentService = defaultFulfillment
	}
	if w.InventoryPolicy == "" {
		w.InventoryPolicy = defaultPolicy
	}
	out, err := overlay(e.Raw, w)
	if err != nil {
		return nil, err
	}
	return keepNull(out, e.Raw, map[string]any{
		"weight":              json.Number("0"),
		"weight_unit":         defaultWeightUnit,
		"fulfillment_service": defaultFulfillment,
		"inventory_policy":    defaultPolicy,
	}), nil
}
