package transform

import (
	"encoding/json"
	"fmt"
	"shopkeeper/internal/entity"
)

type pageWire struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Handle         string  `json:"handle"`
	BodyHTML       *string `json:"body_html"`
	Author         *string `json:"author"`
	TemplateSuffix *string `json:"template_suffix"`
	CreatedAt      *string `json:"created_at"`
	UpdatedAt      *string `json:"updated_at"`
	PublishedAt    *string `json:"published_at"`
}

func PageFromWire(raw json.RawMessage) (*entity.Entity, error) {
	var w pageWire
	snapshot, err := decodeInto(raw, &w)
	if err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return &entity.Entity{
		Type:   entity.Page,
		ID:     w.ID,
		Handle: w.Handle,
		Data: &entity.PageData{
			Title:          w.Title,
			HTML:           deref(w.BodyHTML),
			Author:         w.Author,
			TemplateSuffix: w.TemplateSuffix,
			CreatedAt:      parseDate(w.CreatedAt),
			UpdatedAt:      parseDate(w.UpdatedAt),
			PublishedAt:    parseDate(w.PublishedAt),
		},
		Raw:    snapshot,
		Remote: true,
	}, nil
}

func PageToWire(e *entity.Entity) (entity.Wire, error) {
	d, ok := e.Page()
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a page", ErrUnexpectedType, e)
	}
	createdAt, err := requireDate(d.CreatedAt, "created_at")
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", e, err)
	}
	updatedAt, err := requireDate(d.UpdatedAt, "updated_at")
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", e, err)
	}
	html := d.HTML

	out, err := overlay(e.Raw, pageWire{
		ID:             e.ID,
		Title:          d.Title,
		Handle:         e.Handle,
		BodyHTML:       &html,
		Author:         d.Author,
		TemplateSuffix: d.TemplateSuffix,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
		PublishedAt:    formatDate(d.PublishedAt),
	})
	if err != nil {
		return nil, err
	}
	return keepNull(out, e.Raw, map[string]any{"body_html": ""}), nil
}
