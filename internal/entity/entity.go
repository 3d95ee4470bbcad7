package entity

import (
	"encoding/json"
	"fmt"
)

// UnresolvedID marks a locally declared record that has no remote id yet.
const UnresolvedID int64 = -1

// Wire is the JSON object exactly as it was received from (or will be sent to) the API.
type Wire map[string]any

// Clone returns a shallow copy. Nil clones to an empty object.
func (w Wire) Clone() Wire {
	out := make(Wire, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Entity is the single record shape shared by every kind. Per-kind fields live in Data.
type Entity struct {
	Type   Type
	ID     int64
	Handle string
	Data   Data
	// Raw keeps the payload the entity was built from so fields the domain
	// model ignores survive a write back.
	Raw Wire
	// Remote is set when the state was fetched rather than declared locally.
	Remote bool
}

// Resolved reports whether the entity carries a remote id. Remote ids are positive.
func (e *Entity) Resolved() bool {
	return e != nil && e.ID > 0
}

func (e *Entity) String() string {
	if e.Handle != "" {
		return fmt.Sprintf("%s/%s (%d)", e.Type, e.Handle, e.ID)
	}
	return fmt.Sprintf("%s/%d", e.Type, e.ID)
}

// MarshalJSON renders the domain view; used by the inspect command.
func (e *Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   Type   `json:"itemType"`
		ID     int64  `json:"id"`
		Handle string `json:"handle,omitempty"`
		Remote bool   `json:"includesRemote"`
		Data   Data   `json:"data"`
	}{e.Type, e.ID, e.Handle, e.Remote, e.Data})
}

func (e *Entity) Shop() (*ShopData, bool) {
	d, ok := e.Data.(*ShopData)
	return d, ok
}

func (e *Entity) Page() (*PageData, bool) {
	d, ok := e.Data.(*PageData)
	return d, ok
}

func (e *Entity) Product() (*ProductData, bool) {
	d, ok := e.Data.(*ProductData)
	return d, ok
}

func (e *Entity) Variant() (*VariantData, bool) {
	d, ok := e.Data.(*VariantData)
	return d, ok
}

func (e *Entity) Option() (*OptionData, bool) {
	d, ok := e.Data.(*OptionData)
	return d, ok
}

func (e *Entity) Country() (*CountryData, bool) {
	d, ok := e.Data.(*CountryData)
	return d, ok
}

func (e *Entity) Province() (*ProvinceData, bool) {
	d, ok := e.Data.(*ProvinceData)
	return d, ok
}

func (e *Entity) Redirect() (*RedirectData, bool) {
	d, ok := e.Data.(*RedirectData)
	return d, ok
}

func (e *Entity) Metafield() (*MetafieldData, bool) {
	d, ok := e.Data.(*MetafieldData)
	return d, ok
}
