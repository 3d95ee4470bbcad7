package local

import (
	"errors"
	"fmt"
	"shopkeeper/internal/entity"
	"strings"
)

var (
	ErrTooManyOptions = errors.New("maximum allowed is three (3) options")
	ErrNoOptions      = errors.New("at least one option must be provided")
)

const maxOptions = 3

type OptionSpec struct {
	Name   string   `yaml:"name" validate:"required"`
	Values []string `yaml:"values" validate:"min=1,dive,required"`
}

// MakeOptions builds unresolved product options, positioned from 1.
func MakeOptions(specs ...OptionSpec) ([]*entity.Entity, error) {
	if len(specs) > maxOptions {
		return nil, fmt.Errorf("make options: %w", ErrTooManyOptions)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("make options: %w", ErrNoOptions)
	}

	out := make([]*entity.Entity, 0, len(specs))
	for i, spec := range specs {
		out = append(out, &entity.Entity{
			Type: entity.Option,
			ID:   entity.UnresolvedID,
			Data: &entity.OptionData{
				Name:     spec.Name,
				Position: i + 1,
				Values:   append([]string(nil), spec.Values...),
			},
		})
	}
	return out, nil
}

// VariantFunc fills in the data of the variant for one combination of option values.
type VariantFunc func(options []string) *entity.VariantData

// MakeVariants builds the options and one variant per combination of their
// values. Combinations vary the last option fastest.
func MakeVariants(specs []OptionSpec, fn VariantFunc) ([]*entity.Entity, []*entity.Entity, error) {
	options, err := MakeOptions(specs...)
	if err != nil {
		return nil, nil, err
	}

	combos := [][]string{{}}
	for _, spec := range specs {
		next := make([][]string, 0, len(combos)*len(spec.Values))
		for _, prefix := range combos {
			for _, v := range spec.Values {
				combo := append(append([]string(nil), prefix...), v)
				next = append(next, combo)
			}
		}
		combos = next
	}

	variants := make([]*entity.Entity, 0, len(combos))
	for i, combo := range combos {
		data := &entity.VariantData{}
		if fn != nil {
			if d := fn(combo); d != nil {
				data = d
			}
		}
		if data.Title == "" {
			data.Title = strings.Join(combo, " / ")
		}
		data.Options = combo
		if data.Position == 0 {
			data.Position = i + 1
		}
		variants = append(variants, &entity.Entity{
			Type: entity.Variant,
			ID:   entity.UnresolvedID,
			Data: data,
		})
	}
	return options, variants, nil
}
