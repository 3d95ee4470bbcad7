package entity

import (
	"fmt"
)

// Type is the tag of a remote record kind. The values double as the keys used
// in responses and in the route table, so they must match the platform's names.
type Type string

const (
	Shop         Type = "shop"
	Page         Type = "pages"
	Product      Type = "products"
	Variant      Type = "variants"
	Option       Type = "product_option"
	ProductImage Type = "product_image"
	Country      Type = "countries"
	Province     Type = "province"
	Redirect     Type = "redirect"
	Metafield    Type = "metafield"
)

var allTypes = []Type{
	Shop,
	Page,
	Product,
	Variant,
	Option,
	ProductImage,
	Country,
	Province,
	Redirect,
	Metafield,
}

// Types returns every known tag.
func Types() []Type {
	out := make([]Type, len(allTypes))
	copy(out, allTypes)
	return out
}

func (t Type) Valid() bool {
	for _, known := range allTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Handleable reports whether records of this kind carry a handle.
func (t Type) Handleable() bool {
	return t == Product || t == Page
}

func (t Type) String() string {
	return string(t)
}

func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown item type '%s'", s)
	}
	return t, nil
}
