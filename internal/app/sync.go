package app

import (
	"context"
	"errors"
	"fmt"
	"shopkeeper/config"
	"shopkeeper/internal/entity"
	"shopkeeper/internal/local"
	"shopkeeper/internal/stages"
	"shopkeeper/internal/storage"
	"shopkeeper/internal/store"
	"time"

	"github.com/google/uuid"
)

type SyncReport struct {
	RunID  uuid.UUID
	Store  string
	Result *stages.Result
	// Plan is nil when no workspace is configured.
	Plan *local.Plan
}

// Sync loads the remote state of one store, records it when snapshots are
// enabled and compares it with the local workspace.
func (a *App) Sync(ctx context.Context, env string) (*SyncReport, error) {
	stores, err := a.cfg.Environments(env, config.EnvOptions{Required: true})
	if err != nil {
		return nil, err
	}
	s := stores[0]
	report := &SyncReport{RunID: uuid.New(), Store: s.Name}
	started := time.Now().UTC()
	log := a.log.WithPrefix(fmt.Sprintf("[%s %s]", s.Name, report.RunID.String()[:8]))

	res, err := stages.StageZero(ctx, a.client(s), a.stage)
	if err != nil {
		return nil, err
	}
	report.Result = res
	a.metrics.RecordStage(s.Name, "0", res.Counts)

	if a.snapshots != nil {
		if err := a.snapshot(ctx, report, started); err != nil {
			return nil, err
		}
	}

	if a.cfg.Data != "" {
		plan, err := a.plan(s)
		if err != nil {
			return nil, err
		}
		report.Plan = plan
		for _, e := range plan.New {
			log.Log("%s is declared locally but missing remotely", e)
		}
	}
	return report, nil
}

func (a *App) snapshot(ctx context.Context, report *SyncReport, started time.Time) error {
	previous, at, err := a.snapshots.LatestRun(ctx, report.Store)
	switch {
	case errors.Is(err, storage.ErrNoSnapshot):
		a.log.Log("No previous snapshot of '%s'", report.Store)
	case err != nil:
		return fmt.Errorf("read previous snapshot: %w", err)
	default:
		a.log.Log("Previous snapshot of '%s' is %s from %s", report.Store, previous, at.Format(time.RFC3339))
	}

	res := report.Result
	roots := []*entity.Entity{res.Shop}
	roots = append(roots, res.Pages...)
	roots = append(roots, res.Countries...)
	roots = append(roots, res.Products...)

	run := storage.Run{
		ID:        report.RunID,
		Store:     report.Store,
		StartedAt: started,
		Counts:    res.Counts,
		Entities:  roots,
	}
	if err := a.snapshots.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	stored, err := a.snapshots.CountByType(ctx, run.ID, entity.Product, entity.Variant, entity.Page)
	if err != nil {
		return fmt.Errorf("verify snapshot: %w", err)
	}
	a.log.Log("Snapshot %s stored %d products, %d variants and %d pages",
		run.ID, stored[entity.Product], stored[entity.Variant], stored[entity.Page])
	return nil
}

func (a *App) plan(s *store.Store) (*local.Plan, error) {
	w, err := local.Load(a.cfg.Data)
	if err != nil {
		return nil, err
	}
	locals, err := w.Entities(a.cfg.Defaults)
	if err != nil {
		return nil, err
	}

	a.stage.StageStart("Comparing local declarations with the remote store", 1)
	plan := local.PlanEntities(locals, s.Cache())
	a.stage.StageItemCount(plan.Counts())
	a.stage.StageMessage(" ")
	return &plan, nil
}
