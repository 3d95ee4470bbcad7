package transform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"shopkeeper/internal/entity"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrOrphanedVariant      = errors.New("variant has no resolved product")
	ErrUnexpectedType       = errors.New("unexpected item data")
	ErrNoConverter          = errors.New("no converter for item type")
)

// decodeWire reads a JSON object keeping numbers as json.Number so that the
// snapshot re-encodes exactly as received.
func decodeWire(raw []byte) (entity.Wire, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var w entity.Wire
	if err := dec.Decode(&w); err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("expected a JSON object, got %s", bytes.TrimSpace(raw))
	}
	return w, nil
}

// decodeInto fills the typed wire struct v and returns the raw snapshot of the same payload.
func decodeInto(raw json.RawMessage, v any) (entity.Wire, error) {
	snapshot, err := decodeWire(raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// overlay writes the owned fields over a copy of the snapshot. Keys the
// converter does not know about survive untouched.
func overlay(snapshot entity.Wire, fields any) (entity.Wire, error) {
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	owned, err := decodeWire(b)
	if err != nil {
		return nil, err
	}

	out := snapshot.Clone()
	for k, v := range owned {
		out[k] = v
	}
	return out, nil
}

// keepNull restores JSON null for keys that arrived as null and still hold
// the value the converter substituted for them.
func keepNull(out, snapshot entity.Wire, substitutes map[string]any) entity.Wire {
	for key, sub := range substitutes {
		if v, present := snapshot[key]; present && v == nil && out[key] == sub {
			out[key] = nil
		}
	}
	return out
}

// parseDate returns nil for absent, empty or unparsable values.
func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil
	}
	return &t
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}

func requireDate(t *time.Time, field string) (*string, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequiredField, field)
	}
	return formatDate(t), nil
}

// money is a nullable price written as a two-decimal string.
type money struct {
	decimal.NullDecimal
}

func (m money) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Decimal.StringFixed(2))
}

// number is a decimal written as a bare JSON number.
type number struct {
	decimal.Decimal
}

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

func splitTags(s *string) []string {
	if s == nil {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(*s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// optionValues collects option1..option3 in order, stopping at the first gap.
func optionValues(values ...*string) []string {
	var out []string
	for _, v := range values {
		if v == nil {
			break
		}
		out = append(out, *v)
	}
	return out
}

func optionSlot(values []string, i int) *string {
	if i >= len(values) {
		return nil
	}
	v := values[i]
	return &v
}
