package routes

import (
	"net/http"
	"shopkeeper/internal/entity"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		itemType entity.Type
		method   Method
		want     string
		wantOK   bool
	}{
		{"shop fetch", entity.Shop, Fetch, "{prefix}.json", true},
		{"shop delete", entity.Shop, Delete, "", false},
		{"shop list", entity.Shop, List, "", false},
		{"product fetch", entity.Product, Fetch, "{prefix}/{id}.json", true},
		{"product count", entity.Product, Count, "{prefix}/count.json", true},
		{"variant list", entity.Variant, List, "products/{pid}/{prefix}.json", true},
		{"variant fetch keeps standard route", entity.Variant, Fetch, "{prefix}/{id}.json", true},
		{"province create", entity.Province, Create, "", false},
		{"province list", entity.Province, List, "countries/{country_id}/provinces.json", true},
		{"option has no routes", entity.Option, List, "", false},
		{"unknown type", entity.Type("nope"), Fetch, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.itemType, tt.method)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_ProductFetchHasID(t *testing.T) {
	tpl, ok := Resolve(entity.Product, Fetch)
	require.True(t, ok)
	assert.Contains(t, tpl, "{id}")
}

func TestFormat(t *testing.T) {
	dest := Format("/admin/{prefix}/{nowork}.json", map[string]string{"prefix": "products", "gg": "bro"})
	assert.Equal(t, "/admin/products/{nowork}.json", dest)

	dest = Format("products/{pid}/variants/{id}.json", map[string]string{"pid": "5", "id": "9"})
	assert.Equal(t, "products/5/variants/9.json", dest)
}

func TestVerb(t *testing.T) {
	for m, want := range map[Method]string{
		List:   http.MethodGet,
		Fetch:  http.MethodGet,
		Count:  http.MethodGet,
		Create: http.MethodPost,
		Update: http.MethodPut,
		Delete: http.MethodDelete,
	} {
		got, err := Verb(m)
		require.NoError(t, err)
		assert.Equal(t, want, got, "method %s", m)
	}

	_, err := Verb(Method("patch"))
	assert.Error(t, err)
}

func TestPublicPath(t *testing.T) {
	path, ok := PublicPath(entity.Product, map[string]string{"handle": "roma-latex-mattress"})
	require.True(t, ok)
	assert.Equal(t, "products/roma-latex-mattress", path)

	_, ok = PublicPath(entity.Shop, nil)
	assert.False(t, ok)
}

func TestLookup_Paginated(t *testing.T) {
	r, ok := Lookup(entity.Product)
	require.True(t, ok)
	assert.True(t, r.Paginated)
	assert.Equal(t, "products", r.Prefix)
	assert.Equal(t, "product", r.Singular)

	r, ok = Lookup(entity.Page)
	require.True(t, ok)
	assert.False(t, r.Paginated)
}
