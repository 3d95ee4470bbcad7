package client

import (
	"net/http"
	"shopkeeper/internal/entity"
	"strconv"
)

type request struct {
	vars    map[string]string
	body    *entity.Entity
	headers http.Header
}

type RequestOption func(*request)

func newRequest(opts []RequestOption) *request {
	r := &request{
		vars:    make(map[string]string),
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithVar fills a route placeholder.
func WithVar(name, value string) RequestOption {
	return func(r *request) {
		r.vars[name] = value
	}
}

func WithID(id int64) RequestOption {
	return WithVar("id", strconv.FormatInt(id, 10))
}

// WithParent fills the placeholder of nested routes: pid for products and
// country_id for countries.
func WithParent(parent *entity.Entity) RequestOption {
	return func(r *request) {
		if parent == nil {
			return
		}
		id := strconv.FormatInt(parent.ID, 10)
		switch parent.Type {
		case entity.Product:
			r.vars["pid"] = id
		case entity.Country:
			r.vars["country_id"] = id
		}
	}
}

// WithEntity sends e as the request body and fills the id and parent
// placeholders it knows about.
func WithEntity(e *entity.Entity) RequestOption {
	return func(r *request) {
		r.body = e
		if e == nil {
			return
		}
		if e.Resolved() {
			r.vars["id"] = strconv.FormatInt(e.ID, 10)
		}
		switch d := e.Data.(type) {
		case *entity.VariantData:
			if d.Product.Resolved() {
				r.vars["pid"] = strconv.FormatInt(d.Product.ID, 10)
			}
		case *entity.ProvinceData:
			if d.CountryID > 0 {
				r.vars["country_id"] = strconv.FormatInt(d.CountryID, 10)
			}
		}
	}
}

func WithHeader(key, value string) RequestOption {
	return func(r *request) {
		r.headers.Set(key, value)
	}
}
