package local

import (
	"errors"
	"fmt"
	"os"
	"shopkeeper/internal/entity"
	"shopkeeper/internal/routes"
	"shopkeeper/pkg/text"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var ErrInvalidWorkspace = errors.New("invalid workspace")

// defaultOption is what the platform creates for products declared without options.
var defaultOption = OptionSpec{Name: "Title", Values: []string{"Default Title"}}

type Shipping struct {
	RequiresShipping bool   `yaml:"requires_shipping"`
	Grams            int64  `yaml:"grams" validate:"gte=0"`
	Weight           string `yaml:"weight" validate:"omitempty,numeric"`
	WeightUnit       string `yaml:"weight_unit" validate:"omitempty,oneof=g kg oz lb"`
}

type Inventory struct {
	Fulfillment string `yaml:"fulfillment_service"`
	Manager     string `yaml:"management"`
	Policy      string `yaml:"policy" validate:"omitempty,oneof=deny continue"`
	Quantity    int64  `yaml:"quantity"`
}

// Defaults apply to every declared variant unless the product overrides them.
type Defaults struct {
	Shipping  Shipping  `yaml:"shipping"`
	Inventory Inventory `yaml:"inventory"`
}

func DefaultDefaults() Defaults {
	return Defaults{
		Shipping: Shipping{
			RequiresShipping: true,
			WeightUnit:       "lb",
		},
		Inventory: Inventory{
			Fulfillment: "manual",
			Policy:      "deny",
		},
	}
}

// VariantTemplate is shared by all variants of a product. SKU may refer to
// option values by name, e.g. "BED-{Size}-{Firmness}".
type VariantTemplate struct {
	Price        string `yaml:"price" validate:"omitempty,numeric"`
	ComparePrice string `yaml:"compare_price" validate:"omitempty,numeric"`
	SKU          string `yaml:"sku"`
	Barcode      string `yaml:"barcode"`
	Taxable      *bool  `yaml:"taxable"`
	Grams        *int64 `yaml:"grams" validate:"omitempty,gte=0"`
	Weight       string `yaml:"weight" validate:"omitempty,numeric"`
	WeightUnit   string `yaml:"weight_unit" validate:"omitempty,oneof=g kg oz lb"`
}

type ProductSpec struct {
	Title       string          `yaml:"title" validate:"required"`
	Handle      string          `yaml:"handle"`
	BodyHTML    string          `yaml:"body_html"`
	Vendor      string          `yaml:"vendor"`
	ProductType string          `yaml:"product_type"`
	Tags        []string        `yaml:"tags"`
	Options     []OptionSpec    `yaml:"options" validate:"max=3,dive"`
	Variant     VariantTemplate `yaml:"variant"`
}

// Workspace is the set of records declared on disk that a store should carry.
type Workspace struct {
	Defaults *Defaults     `yaml:"defaults"`
	Products []ProductSpec `yaml:"products" validate:"dive"`
}

func Load(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workspace %s: %w", path, err)
	}
	w, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

func Parse(data []byte) (*Workspace, error) {
	var w Workspace
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkspace, err)
	}
	if err := validator.New().Struct(&w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkspace, err)
	}

	seen := make(map[string]bool, len(w.Products))
	for _, p := range w.Products {
		h := p.handle()
		if seen[h] {
			return nil, fmt.Errorf("%w: duplicate product handle '%s'", ErrInvalidWorkspace, h)
		}
		seen[h] = true
	}
	return &w, nil
}

func (p ProductSpec) handle() string {
	if p.Handle != "" {
		return p.Handle
	}
	return text.Slugify(p.Title)
}

// Entities builds the unresolved product trees of the workspace. Defaults
// declared in the workspace file win over d.
func (w *Workspace) Entities(d Defaults) ([]*entity.Entity, error) {
	if w.Defaults != nil {
		d = *w.Defaults
	}
	out := make([]*entity.Entity, 0, len(w.Products))
	for _, p := range w.Products {
		e, err := p.Entity(d)
		if err != nil {
			return nil, fmt.Errorf("product '%s': %w", p.Title, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Entity builds one product with its options and the full set of variants.
func (p ProductSpec) Entity(d Defaults) (*entity.Entity, error) {
	tpl, err := p.Variant.compile(d)
	if err != nil {
		return nil, err
	}

	data := &entity.ProductData{
		Title:          p.Title,
		HTML:           p.BodyHTML,
		Vendor:         optional(p.Vendor),
		ProductType:    optional(p.ProductType),
		PublishedScope: "global",
		Tags:           append([]string(nil), p.Tags...),
	}
	product := &entity.Entity{
		Type:   entity.Product,
		ID:     entity.UnresolvedID,
		Handle: p.handle(),
		Data:   data,
	}

	specs := p.Options
	if len(specs) == 0 {
		specs = []OptionSpec{defaultOption}
	}
	options, variants, err := MakeVariants(specs, func(values []string) *entity.VariantData {
		return tpl.variant(specs, values)
	})
	if err != nil {
		return nil, err
	}
	for _, v := range variants {
		v.Data.(*entity.VariantData).Product = product
	}
	data.Options = options
	data.Variants = variants
	if len(variants) > 0 {
		first := variants[0].Data.(*entity.VariantData)
		data.Price = first.Price
		data.ComparePrice = first.ComparePrice
	}
	return product, nil
}

// template is a VariantTemplate with its numbers parsed and the defaults applied.
type template struct {
	price        decimal.NullDecimal
	comparePrice decimal.NullDecimal
	weight       decimal.Decimal
	src          VariantTemplate
	defaults     Defaults
}

func (t VariantTemplate) compile(d Defaults) (*template, error) {
	out := &template{src: t, defaults: d}
	var err error
	if out.price, err = nullDecimal(t.Price); err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	if out.comparePrice, err = nullDecimal(t.ComparePrice); err != nil {
		return nil, fmt.Errorf("compare_price: %w", err)
	}

	weight := t.Weight
	if weight == "" {
		weight = d.Shipping.Weight
	}
	if weight != "" {
		if out.weight, err = decimal.NewFromString(weight); err != nil {
			return nil, fmt.Errorf("weight: %w", err)
		}
	}
	return out, nil
}

func (t *template) variant(specs []OptionSpec, values []string) *entity.VariantData {
	vars := make(map[string]string, len(specs))
	for i, spec := range specs {
		vars[spec.Name] = values[i]
	}

	grams := t.defaults.Shipping.Grams
	if t.src.Grams != nil {
		grams = *t.src.Grams
	}
	unit := t.src.WeightUnit
	if unit == "" {
		unit = t.defaults.Shipping.WeightUnit
	}
	taxable := true
	if t.src.Taxable != nil {
		taxable = *t.src.Taxable
	}

	return &entity.VariantData{
		Price:            t.price,
		ComparePrice:     t.comparePrice,
		SKU:              optional(routes.Format(t.src.SKU, vars)),
		Barcode:          optional(t.src.Barcode),
		Taxable:          taxable,
		Grams:            grams,
		Weight:           t.weight,
		WeightUnit:       unit,
		RequiresShipping: t.defaults.Shipping.RequiresShipping,
		Inventory: entity.Inventory{
			Fulfillment: t.defaults.Inventory.Fulfillment,
			Manager:     optional(t.defaults.Inventory.Manager),
			Policy:      t.defaults.Inventory.Policy,
			Quantity:    t.defaults.Inventory.Quantity,
		},
	}
}

func nullDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
