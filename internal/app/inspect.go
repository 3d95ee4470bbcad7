package app

import (
	"context"
	"encoding/json"
	"fmt"
	"shopkeeper/config"
	"shopkeeper/internal/entity"
	"shopkeeper/internal/local"
	"shopkeeper/internal/routes"
	"shopkeeper/internal/stages"
	"shopkeeper/internal/transform"
	"shopkeeper/pkg/text"
	"strconv"
	"strings"
)

const summaryLength = 160

// Inspect loads the remote state of one store and prints the record named by
// path ("pages/about-us", "products/632910392") as it would be sent back.
func (a *App) Inspect(ctx context.Context, env, path string) (*entity.Entity, error) {
	stores, err := a.cfg.Environments(env, config.EnvOptions{Required: true})
	if err != nil {
		return nil, err
	}
	s := stores[0]

	res, err := stages.StageZero(ctx, a.client(s), a.stage)
	if err != nil {
		return nil, err
	}

	a.stage.StageStart("Merging remote and local data...", 1)
	found, err := config.ResolveEntityPath(s, path, config.EntityPathOptions{Required: true})
	if err != nil {
		return nil, err
	}
	if found.Entity == nil {
		return nil, fmt.Errorf("no %s matching '%s' in store '%s'", found.Type, path, s.Name)
	}
	e := found.Entity

	wire, err := transform.ToWire(e)
	if err != nil {
		return nil, err
	}
	body, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(a.out, string(body))

	for _, line := range summary(e, res.Shop) {
		a.stage.StageMessage(line)
	}
	if a.cfg.Data != "" && e.Type == entity.Product {
		a.compareLocal(e)
	}
	return e, nil
}

func summary(e *entity.Entity, shop *entity.Entity) []string {
	lines := []string{e.String()}

	var title, html string
	switch d := e.Data.(type) {
	case *entity.PageData:
		title, html = d.Title, d.HTML
	case *entity.ProductData:
		title, html = d.Title, d.HTML
		lines = append(lines, fmt.Sprintf("%d options, %d variants", len(d.Options), len(d.Variants)))
	case *entity.CountryData:
		title = d.Name
		lines = append(lines, fmt.Sprintf("%d provinces", len(d.Provinces)))
	}
	if title != "" {
		lines = append(lines, "Title: "+title)
	}
	if plain := strings.TrimSpace(text.StripTags(html)); plain != "" {
		lines = append(lines, "Body: "+text.ReduceToLength(plain, summaryLength))
	}

	vars := map[string]string{"handle": e.Handle, "id": strconv.FormatInt(e.ID, 10)}
	if sd, ok := shop.Shop(); ok {
		vars["origin"] = "https://" + sd.Domain
	}
	if p, ok := routes.PublicPath(e.Type, vars); ok && e.Handle != "" {
		if !strings.HasPrefix(p, "https://") {
			p = vars["origin"] + "/" + p
		}
		lines = append(lines, "URL: "+p)
	}
	return lines
}

func (a *App) compareLocal(remote *entity.Entity) {
	w, err := local.Load(a.cfg.Data)
	if err != nil {
		a.log.Warn("cannot read workspace: %v", err)
		return
	}
	locals, err := w.Entities(a.cfg.Defaults)
	if err != nil {
		a.log.Warn("cannot build workspace: %v", err)
		return
	}
	for _, l := range locals {
		if l.Handle != remote.Handle {
			continue
		}
		ld, _ := l.Product()
		rd, _ := remote.Product()
		a.stage.StageMessage(fmt.Sprintf("Local declaration: %d variants, remote: %d variants", len(ld.Variants), len(rd.Variants)))
		return
	}
	a.stage.StageMessage("Not declared locally")
}
