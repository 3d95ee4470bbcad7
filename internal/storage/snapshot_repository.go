package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"shopkeeper/internal/entity"
	"shopkeeper/internal/transform"
	"shopkeeper/migrations/snapshot"
	"shopkeeper/pkg/dbconnect"
	"shopkeeper/pkg/logger"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrNoSnapshot = errors.New("no snapshot recorded for store")

// Run is one sync of one store.
type Run struct {
	ID        uuid.UUID
	Store     string
	StartedAt time.Time
	Counts    map[string]int
	Entities  []*entity.Entity
}

type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Prepare connects, checks the connection and brings the snapshot schema up to date.
func Prepare(conn dbconnect.Database, log logger.Logger) (*SnapshotRepository, error) {
	db, err := conn.Connect()
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("snapshot database is unreachable: %w", err)
	}
	for _, m := range snapshot.All(log) {
		if err := m.UpMigration(db); err != nil {
			return nil, fmt.Errorf("snapshot migration failed: %w", err)
		}
	}
	return NewSnapshotRepository(db), nil
}

// SaveRun writes the run and every entity of its trees in one transaction.
func (r *SnapshotRepository) SaveRun(ctx context.Context, run Run) error {
	counts, err := json.Marshal(run.Counts)
	if err != nil {
		return fmt.Errorf("encode counts: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshot.runs (run_id, store, started_at, counts) VALUES ($1, $2, $3, $4)`,
		run.ID.String(), run.Store, run.StartedAt, counts)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot.entities (run_id, item_type, remote_id, handle, children, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id, item_type, remote_id) DO NOTHING`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range Flatten(run.Entities) {
		payload, err := encodePayload(e)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e, err)
		}
		_, err = stmt.ExecContext(ctx, run.ID.String(), string(e.Type), e.ID, nullHandle(e.Handle), pq.Array(childIDs(e)), payload)
		if err != nil {
			return fmt.Errorf("insert %s: %w", e, err)
		}
	}
	return tx.Commit()
}

// LatestRun returns the id and start time of the most recent run of a store.
func (r *SnapshotRepository) LatestRun(ctx context.Context, store string) (uuid.UUID, time.Time, error) {
	var id string
	var started time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT run_id, started_at FROM snapshot.runs WHERE store = $1 ORDER BY started_at DESC LIMIT 1`,
		store).Scan(&id, &started)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, time.Time{}, fmt.Errorf("%w '%s'", ErrNoSnapshot, store)
	}
	if err != nil {
		return uuid.Nil, time.Time{}, err
	}
	runID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("run id %q: %w", id, err)
	}
	return runID, started, nil
}

// CountByType counts the stored entities of a run for the given types.
func (r *SnapshotRepository) CountByType(ctx context.Context, runID uuid.UUID, types ...entity.Type) (map[entity.Type]int, error) {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT item_type, COUNT(*)
		FROM snapshot.entities
		WHERE run_id = $1 AND item_type = ANY($2)
		GROUP BY item_type`, runID.String(), pq.Array(names))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[entity.Type]int, len(types))
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		out[entity.Type(t)] = n
	}
	return out, rows.Err()
}

// Flatten lists each entity followed by its children, depth first.
func Flatten(roots []*entity.Entity) []*entity.Entity {
	var out []*entity.Entity
	for _, e := range roots {
		out = append(out, e)
		out = append(out, Flatten(children(e))...)
	}
	return out
}

func children(e *entity.Entity) []*entity.Entity {
	switch d := e.Data.(type) {
	case *entity.ProductData:
		return append(append([]*entity.Entity(nil), d.Options...), d.Variants...)
	case *entity.CountryData:
		return d.Provinces
	}
	return nil
}

func childIDs(e *entity.Entity) []int64 {
	kids := children(e)
	ids := make([]int64, 0, len(kids))
	for _, k := range kids {
		ids = append(ids, k.ID)
	}
	return ids
}

// encodePayload prefers the payload as received over a re-encoding.
func encodePayload(e *entity.Entity) ([]byte, error) {
	if e.Raw != nil {
		return json.Marshal(e.Raw)
	}
	w, err := transform.ToWire(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func nullHandle(h string) sql.NullString {
	return sql.NullString{String: h, Valid: h != ""}
}
