package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Data is the domain view of a record. The set of implementations is closed.
type Data interface {
	ItemType() Type
}

type ShopData struct {
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	CustomerEmail     *string    `json:"customerEmail"`
	Domain            string     `json:"domain"`
	MyshopifyDomain   string     `json:"myshopifyDomain"`
	ShopOwner         string     `json:"shopOwner"`
	Phone             *string    `json:"phone"`
	Address1          *string    `json:"address1"`
	Address2          *string    `json:"address2"`
	City              *string    `json:"city"`
	Zip               *string    `json:"zip"`
	Province          *string    `json:"province"`
	ProvinceCode      *string    `json:"provinceCode"`
	Country           string     `json:"country"`
	CountryCode       string     `json:"countryCode"`
	CountryName       string     `json:"countryName"`
	Currency          string     `json:"currency"`
	MoneyFormat       string     `json:"moneyFormat"`
	Timezone          string     `json:"timezone"`
	IanaTimezone      string     `json:"ianaTimezone"`
	PrimaryLocale     string     `json:"primaryLocale"`
	WeightUnit        string     `json:"weightUnit"`
	PlanName          string     `json:"planName"`
	PlanDisplayName   string     `json:"planDisplayName"`
	TaxesIncluded     *bool      `json:"taxesIncluded"`
	TaxShipping       *bool      `json:"taxShipping"`
	PasswordEnabled   bool       `json:"passwordEnabled"`
	HasStorefront     bool       `json:"hasStorefront"`
	PrimaryLocationID *int64     `json:"primaryLocationId"`
	CreatedAt         *time.Time `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt"`
}

type PageData struct {
	Title          string     `json:"title"`
	HTML           string     `json:"html"`
	Author         *string    `json:"author"`
	TemplateSuffix *string    `json:"templateSuffix"`
	CreatedAt      *time.Time `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt"`
	PublishedAt    *time.Time `json:"publishedAt"`
}

type ProductData struct {
	Title          string              `json:"title"`
	HTML           string              `json:"html"`
	Vendor         *string             `json:"vendor"`
	ProductType    *string             `json:"productType"`
	TemplateSuffix *string             `json:"templateSuffix"`
	PublishedScope string              `json:"publishedScope"`
	Tags           []string            `json:"tags"`
	Price          decimal.NullDecimal `json:"price"`
	ComparePrice   decimal.NullDecimal `json:"comparePrice"`
	CreatedAt      *time.Time          `json:"createdAt"`
	UpdatedAt      *time.Time          `json:"updatedAt"`
	PublishedAt    *time.Time          `json:"publishedAt"`
	Options        []*Entity           `json:"options"`
	Variants       []*Entity           `json:"variants"`
}

// Inventory groups the stock handling settings of a variant.
type Inventory struct {
	Fulfillment string  `json:"fulfillment"`
	Manager     *string `json:"manager"`
	Policy      string  `json:"policy"`
	Quantity    int64   `json:"quantity"`
}

type VariantData struct {
	Title            string              `json:"title"`
	Options          []string            `json:"options"`
	Position         int                 `json:"position"`
	Price            decimal.NullDecimal `json:"price"`
	ComparePrice     decimal.NullDecimal `json:"comparePrice"`
	SKU              *string             `json:"sku"`
	Barcode          *string             `json:"barcode"`
	Taxable          bool                `json:"taxable"`
	Grams            int64               `json:"grams"`
	Weight           decimal.Decimal     `json:"weight"`
	WeightUnit       string              `json:"weightUnit"`
	RequiresShipping bool                `json:"requiresShipping"`
	Inventory        Inventory           `json:"inventory"`
	CreatedAt        *time.Time          `json:"createdAt"`
	UpdatedAt        *time.Time          `json:"updatedAt"`

	// Product is the owning product. The product owns the variant, not the other way round.
	Product *Entity `json:"-"`
}

type OptionData struct {
	ProductID int64    `json:"productId"`
	Name      string   `json:"name"`
	Position  int      `json:"position"`
	Values    []string `json:"values"`
}

type CountryData struct {
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Tax       decimal.Decimal `json:"tax"`
	TaxName   *string         `json:"taxName"`
	Provinces []*Entity       `json:"provinces"`
}

type ProvinceData struct {
	CountryID      int64           `json:"countryId"`
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	Tax            decimal.Decimal `json:"tax"`
	TaxName        *string         `json:"taxName"`
	TaxType        *string         `json:"taxType"`
	TaxPercentage  decimal.Decimal `json:"taxPercentage"`
	ShippingZoneID *int64          `json:"shippingZoneId"`
}

type RedirectData struct {
	Path   string `json:"path"`
	Target string `json:"target"`
}

type MetafieldData struct {
	Namespace     string     `json:"namespace"`
	Key           string     `json:"key"`
	Value         any        `json:"value"`
	ValueType     string     `json:"valueType"`
	Description   *string    `json:"description"`
	OwnerID       *int64     `json:"ownerId"`
	OwnerResource *string    `json:"ownerResource"`
	CreatedAt     *time.Time `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt"`
}

func (*ShopData) ItemType() Type      { return Shop }
func (*PageData) ItemType() Type      { return Page }
func (*ProductData) ItemType() Type   { return Product }
func (*VariantData) ItemType() Type   { return Variant }
func (*OptionData) ItemType() Type    { return Option }
func (*CountryData) ItemType() Type   { return Country }
func (*ProvinceData) ItemType() Type  { return Province }
func (*RedirectData) ItemType() Type  { return Redirect }
func (*MetafieldData) ItemType() Type { return Metafield }
