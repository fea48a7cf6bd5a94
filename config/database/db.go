package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"journal/pkg/logger"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var (
	pingAttempts = 5
	pingDelay    = 2 * time.Second
)

// Connect opens a database handle and pings it, retrying a few times in case
// the server is still starting.
func Connect(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	for i := 0; i < pingAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			logger.Sugar.Infof("Successfully connected to the %s database", driver)
			return db, nil
		}
		logger.Sugar.Infof("Database connection failed, retrying in %s... (%v)", pingDelay, err)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(pingDelay):
		}
	}
	db.Close()
	return nil, fmt.Errorf("could not connect to %s database after %d attempts: %w", driver, pingAttempts, err)
}
