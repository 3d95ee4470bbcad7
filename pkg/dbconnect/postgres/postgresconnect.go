package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"shopkeeper/config"
	"shopkeeper/pkg/logger"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

const maxRetries = 10
const dbMaxOpenConns = 20
const retryDelay = 5 * time.Second

type PostgresDatabase struct {
	config.DbConfig
	log *logger.BaseLogger
	db  *sql.DB
	mu  sync.Mutex

	driver  string
	retries int
	delay   time.Duration
}

func NewPgConnector(dbConfig config.DbConfig, log *logger.BaseLogger) *PostgresDatabase {
	if log == nil {
		log = logger.NewLogger(nil, "")
	}
	return &PostgresDatabase{
		DbConfig: dbConfig,
		log:      log.WithPrefix("[postgres]"),
		driver:   "postgres",
		retries:  maxRetries,
		delay:    retryDelay,
	}
}

func (pg *PostgresDatabase) Connect() (*sql.DB, error) {
	return pg.ConnectContext(context.Background())
}

// ConnectContext opens the pool once, retrying until the server answers a ping.
func (pg *PostgresDatabase) ConnectContext(ctx context.Context) (*sql.DB, error) {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if pg.db != nil {
		return pg.db, nil
	}

	var err error
	conStr := pg.GetConnectionString()

	for i := 0; i < pg.retries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("connect to postgres: %w", ctx.Err())
			case <-time.After(pg.delay):
			}
		}

		var db *sql.DB
		db, err = sql.Open(pg.driver, conStr)
		if err != nil {
			pg.log.Warn("Failed to connect to Postgres (attempt %d/%d): %v", i+1, pg.retries, err)
			continue
		}

		db.SetMaxOpenConns(dbMaxOpenConns)

		if err = db.PingContext(ctx); err != nil {
			pg.log.Warn("Failed to ping Postgres db (attempt %d/%d): %v", i+1, pg.retries, err)
			db.Close()
			continue
		}

		pg.log.Log("Successfully connected to Postgres")
		pg.db = db
		return pg.db, nil
	}
	return nil, fmt.Errorf("connect to postgres after %d attempts: %w", pg.retries, err)
}

func (pg *PostgresDatabase) Ping() error {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if pg.db == nil {
		return fmt.Errorf("database connection is not established")
	}

	if err := pg.db.Ping(); err != nil {
		pg.db.Close()
		pg.db = nil
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func (pg *PostgresDatabase) Close() error {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if pg.db == nil {
		return nil
	}
	err := pg.db.Close()
	pg.db = nil
	return err
}
