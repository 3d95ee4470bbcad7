package snapshot

import (
	"database/sql"
	"fmt"
	"shopkeeper/migrations/infrastructure"
	"shopkeeper/pkg/dbconnect/migration"
	"shopkeeper/pkg/logger"
)

const (
	RunsMigration     = "snapshot.runs"
	EntitiesMigration = "snapshot.entities"
)

type CreateSnapshotSchema struct{}

func (m *CreateSnapshotSchema) UpMigration(db *sql.DB) error {
	query := `
	CREATE SCHEMA IF NOT EXISTS snapshot;`
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create schema snapshot: %w", err)
	}
	return nil
}

type CreateRunsTable struct {
	Log logger.Logger
}

func (m *CreateRunsTable) UpMigration(db *sql.DB) error {
	if ok, err := infrastructure.CheckAndSkipMigration(db, RunsMigration, m.Log); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE TABLE IF NOT EXISTS snapshot.runs (
		run_id UUID PRIMARY KEY,
		store VARCHAR(255) NOT NULL,
		started_at TIMESTAMP NOT NULL,
		counts JSONB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS snapshot_runs_store_idx ON snapshot.runs(store, started_at DESC);`
	return infrastructure.ExecuteAndMarkMigration(db, query, RunsMigration, m.Log)
}

type CreateEntitiesTable struct {
	Log logger.Logger
}

func (m *CreateEntitiesTable) UpMigration(db *sql.DB) error {
	if ok, err := infrastructure.CheckAndSkipMigration(db, EntitiesMigration, m.Log); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE TABLE IF NOT EXISTS snapshot.entities (
		run_id UUID NOT NULL,
		item_type VARCHAR(64) NOT NULL,
		remote_id BIGINT NOT NULL,
		handle VARCHAR(255),
		children BIGINT[] NOT NULL DEFAULT '{}',
		payload JSONB NOT NULL,
		PRIMARY KEY (run_id, item_type, remote_id),
		FOREIGN KEY (run_id) REFERENCES snapshot.runs(run_id) ON DELETE CASCADE
	);`
	return infrastructure.ExecuteAndMarkMigration(db, query, EntitiesMigration, m.Log)
}

// All lists the migrations of the snapshot store in the order they must run.
func All(log logger.Logger) []migration.MigrationInterface {
	return []migration.MigrationInterface{
		&infrastructure.MigrationsSchema{},
		&CreateSnapshotSchema{},
		&CreateRunsTable{Log: log},
		&CreateEntitiesTable{Log: log},
	}
}
