package routes

import (
	"fmt"
	"net/http"
	"regexp"
	"shopkeeper/internal/entity"
)

type Method string

const (
	List   Method = "list"
	Count  Method = "count"
	Fetch  Method = "fetch"
	Create Method = "create"
	Update Method = "update"
	Delete Method = "delete"
)

// Methods maps an operation to its URL template. An empty template means the
// platform does not support the operation for that type.
type Methods map[Method]string

// ItemRoutes describes how one record kind is addressed on the admin API.
type ItemRoutes struct {
	// Prefix is the resource name used in paths and as the collection key of responses.
	Prefix string
	// Singular is the key of single-object responses and of request bodies.
	Singular string
	// PublicPath is the storefront URL template, empty when there is none.
	PublicPath string
	Methods    Methods
	// Paginated records whether listing everything requires paging.
	Paginated bool
}

var standardMethods = Methods{
	List:   "{prefix}.json",
	Create: "{prefix}.json",
	Count:  "{prefix}/count.json",
	Fetch:  "{prefix}/{id}.json",
	Update: "{prefix}/{id}.json",
	Delete: "{prefix}/{id}.json",
}

func withMethods(overrides Methods) Methods {
	out := make(Methods, len(standardMethods))
	for m, tpl := range standardMethods {
		out[m] = tpl
	}
	for m, tpl := range overrides {
		out[m] = tpl
	}
	return out
}

var registry = map[entity.Type]ItemRoutes{
	entity.Country: {
		Prefix:   "countries",
		Singular: "country",
		Methods:  withMethods(nil),
	},
	entity.Province: {
		Prefix:   "provinces",
		Singular: "province",
		Methods: Methods{
			List:   "countries/{country_id}/provinces.json",
			Count:  "countries/{country_id}/provinces/count.json",
			Fetch:  "countries/{country_id}/provinces/{id}.json",
			Update: "countries/{country_id}/provinces/{id}.json",
		},
	},
	entity.Product: {
		Prefix:     "products",
		Singular:   "product",
		PublicPath: "{prefix}/{handle}",
		Methods:    withMethods(nil),
		Paginated:  true,
	},
	entity.Variant: {
		Prefix:     "variants",
		Singular:   "variant",
		PublicPath: "products/{handle}?variant={id}",
		Methods: withMethods(Methods{
			List:   "products/{pid}/{prefix}.json",
			Count:  "products/{pid}/{prefix}/count.json",
			Delete: "products/{pid}/{prefix}/{id}.json",
		}),
	},
	entity.Redirect: {
		Prefix:     "redirects",
		Singular:   "redirect",
		PublicPath: "{origin}",
		Methods:    withMethods(nil),
		Paginated:  true,
	},
	entity.Shop: {
		Prefix:   "shop",
		Singular: "shop",
		Methods: Methods{
			Fetch: "{prefix}.json",
		},
	},
	entity.Page: {
		Prefix:     "pages",
		Singular:   "page",
		PublicPath: "{prefix}/{handle}",
		Methods:    withMethods(nil),
	},
	entity.Metafield: {
		Prefix:   "metafields",
		Singular: "metafield",
		Methods:  withMethods(nil),
	},
}

// Lookup returns the route descriptor of a type.
func Lookup(t entity.Type) (ItemRoutes, bool) {
	r, ok := registry[t]
	return r, ok
}

// Resolve returns the URL template for an operation, or false when the
// operation is not available for the type.
func Resolve(t entity.Type, m Method) (string, bool) {
	r, ok := registry[t]
	if !ok {
		return "", false
	}
	tpl := r.Methods[m]
	if tpl == "" {
		return "", false
	}
	return tpl, true
}

// Verb maps a logical operation to its HTTP method.
func Verb(m Method) (string, error) {
	switch m {
	case List, Fetch, Count:
		return http.MethodGet, nil
	case Create:
		return http.MethodPost, nil
	case Update:
		return http.MethodPut, nil
	case Delete:
		return http.MethodDelete, nil
	default:
		return "", fmt.Errorf("unknown method '%s'", m)
	}
}

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// Format substitutes {name} placeholders from vars. Names without a value are
// left in place; supplying every key the template needs is up to the caller.
func Format(template string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		if v, ok := vars[match[1:len(match)-1]]; ok {
			return v
		}
		return match
	})
}

// PublicPath fills the storefront URL template of a type. The prefix is
// always available to the template.
func PublicPath(t entity.Type, vars map[string]string) (string, bool) {
	r, ok := registry[t]
	if !ok || r.PublicPath == "" {
		return "", false
	}
	merged := map[string]string{"prefix": r.Prefix}
	for k, v := range vars {
		merged[k] = v
	}
	return Format(r.PublicPath, merged), true
}
