package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"shopkeeper/internal/entity"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	runID   = uuid.MustParse("6f1c2a8e-4a1d-4d7e-9a53-2f0f5d8c1b11")
	started = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func productTree() *entity.Entity {
	option := &entity.Entity{Type: entity.Option, ID: 10, Data: &entity.OptionData{}, Raw: entity.Wire{"id": json.Number("10")}}
	variant := &entity.Entity{Type: entity.Variant, ID: 20, Data: &entity.VariantData{}, Raw: entity.Wire{"id": json.Number("20")}}
	return &entity.Entity{
		Type:   entity.Product,
		ID:     1,
		Handle: "bed",
		Data:   &entity.ProductData{Options: []*entity.Entity{option}, Variants: []*entity.Entity{variant}},
		Raw:    entity.Wire{"id": json.Number("1")},
	}
}

func TestFlatten(t *testing.T) {
	product := productTree()
	province := &entity.Entity{Type: entity.Province, ID: 300, Data: &entity.ProvinceData{}}
	country := &entity.Entity{Type: entity.Country, ID: 3, Data: &entity.CountryData{Provinces: []*entity.Entity{province}}}

	var ids []int64
	for _, e := range Flatten([]*entity.Entity{product, country}) {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int64{1, 10, 20, 3, 300}, ids)
	assert.Equal(t, []int64{10, 20}, childIDs(product))
	assert.Equal(t, []int64{}, childIDs(province))
}

func TestSaveRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	run := Run{
		ID:        runID,
		Store:     "testing",
		StartedAt: started,
		Counts:    map[string]int{"Products": 1},
		Entities:  []*entity.Entity{productTree()},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO snapshot.runs").
		WithArgs(runID.String(), "testing", started, []byte(`{"Products":1}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep := mock.ExpectPrepare("INSERT INTO snapshot.entities")
	prep.ExpectExec().
		WithArgs(runID.String(), "products", int64(1), "bed", "{10,20}", []byte(`{"id":1}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(runID.String(), "product_option", int64(10), nil, "{}", []byte(`{"id":10}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(runID.String(), "variants", int64(20), nil, "{}", []byte(`{"id":20}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewSnapshotRepository(db).SaveRun(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRun_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("disk full")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO snapshot.runs").WillReturnError(boom)
	mock.ExpectRollback()

	err = NewSnapshotRepository(db).SaveRun(context.Background(), Run{ID: runID, Store: "testing", StartedAt: started})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEncodePayload_FallsBackToWire(t *testing.T) {
	redirect := &entity.Entity{Type: entity.Redirect, ID: 7, Data: &entity.RedirectData{Path: "/old", Target: "/new"}}

	payload, err := encodePayload(redirect)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"path":"/old","target":"/new"}`, string(payload))
}

func TestLatestRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	query := regexp.QuoteMeta("SELECT run_id, started_at FROM snapshot.runs WHERE store = $1")
	mock.ExpectQuery(query).
		WithArgs("testing").
		WillReturnRows(sqlmock.NewRows([]string{"run_id", "started_at"}).AddRow(runID.String(), started))
	mock.ExpectQuery(query).
		WithArgs("empty").
		WillReturnError(sql.ErrNoRows)

	repo := NewSnapshotRepository(db)
	id, at, err := repo.LatestRun(context.Background(), "testing")
	require.NoError(t, err)
	assert.Equal(t, runID, id)
	assert.Equal(t, started, at)

	_, _, err = repo.LatestRun(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT item_type, COUNT").
		WithArgs(runID.String(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"item_type", "count"}).
			AddRow("products", 2).
			AddRow("variants", 5))

	counts, err := NewSnapshotRepository(db).CountByType(context.Background(), runID, entity.Product, entity.Variant, entity.Page)
	require.NoError(t, err)
	assert.Equal(t, map[entity.Type]int{entity.Product: 2, entity.Variant: 5}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type mockConnector struct {
	db      *sql.DB
	pingErr error
}

func (c mockConnector) Connect() (*sql.DB, error) {
	return c.db, nil
}

func (c mockConnector) Ping() error {
	return c.pingErr
}

func (c mockConnector) Close() error {
	return c.db.Close()
}

func TestPrepare(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	exists := regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM migrations.migrations WHERE name = $1)")
	mock.ExpectExec("CREATE SCHEMA IF NOT EXISTS migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrations.migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE SCHEMA IF NOT EXISTS snapshot").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(exists).WithArgs("snapshot.runs").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS snapshot.runs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO migrations.migrations").WithArgs("snapshot.runs").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(exists).WithArgs("snapshot.entities").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo, err := Prepare(mockConnector{db: db}, nil)
	require.NoError(t, err)
	assert.NotNil(t, repo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrepare_Unreachable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = Prepare(mockConnector{db: db, pingErr: errors.New("connection refused")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
