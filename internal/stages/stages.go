package stages

import (
	"context"
	"errors"
	"fmt"
	"shopkeeper/internal/client"
	"shopkeeper/internal/entity"

	"golang.org/x/sync/errgroup"
)

var ErrInvalidResult = errors.New("invalid result")

// Fetcher is the part of the API client the stages need.
type Fetcher interface {
	Fetch(ctx context.Context, t entity.Type, opts ...client.RequestOption) ([]*entity.Entity, error)
	List(ctx context.Context, t entity.Type, opts ...client.RequestOption) ([]*entity.Entity, error)
}

// Reporter receives stage progress.
type Reporter interface {
	StageStart(message string, stage int)
	StageMessage(message string)
	StageItemCount(counts map[string]int)
}

type Result struct {
	Shop      *entity.Entity
	Pages     []*entity.Entity
	Countries []*entity.Entity
	Products  []*entity.Entity
	Counts    map[string]int
}

// StageZero loads the shop, pages, countries and products of a store at the
// same time. Either all four succeed or no result is returned.
func StageZero(ctx context.Context, f Fetcher, rep Reporter) (*Result, error) {
	rep.StageStart("Fetching Countries and Products, Pages, and Provinces", 0)

	var shops, pages, countries, products []*entity.Entity
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		shops, err = f.Fetch(gctx, entity.Shop)
		return failed(entity.Shop, err)
	})
	g.Go(func() (err error) {
		pages, err = f.List(gctx, entity.Page)
		return failed(entity.Page, err)
	})
	g.Go(func() (err error) {
		countries, err = f.List(gctx, entity.Country)
		return failed(entity.Country, err)
	})
	g.Go(func() (err error) {
		products, err = f.List(gctx, entity.Product)
		return failed(entity.Product, err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	switch {
	case countries == nil:
		return nil, missing(entity.Country)
	case products == nil:
		return nil, missing(entity.Product)
	case len(shops) == 0:
		return nil, missing(entity.Shop)
	case pages == nil:
		return nil, missing(entity.Page)
	}

	res := &Result{
		Shop:      shops[0],
		Pages:     pages,
		Countries: countries,
		Products:  products,
	}
	res.Counts = res.count()

	rep.StageItemCount(res.Counts)
	rep.StageMessage(" ")
	return res, nil
}

func (r *Result) count() map[string]int {
	counts := map[string]int{
		"Shop":      1,
		"Pages":     len(r.Pages),
		"Products":  len(r.Products),
		"Variants":  0,
		"Options":   0,
		"Countries": len(r.Countries),
		"Provinces": 0,
	}
	for _, p := range r.Products {
		if d, ok := p.Product(); ok {
			counts["Variants"] += len(d.Variants)
			counts["Options"] += len(d.Options)
		}
	}
	for _, c := range r.Countries {
		if d, ok := c.Country(); ok {
			counts["Provinces"] += len(d.Provinces)
		}
	}
	return counts
}

// failed tags a request error with the item type that caused it.
func failed(t entity.Type, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w for type '%s': %w", ErrInvalidResult, t, err)
}

func missing(t entity.Type) error {
	return fmt.Errorf("%w for type '%s'", ErrInvalidResult, t)
}
