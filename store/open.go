package store

import (
	"context"
	"fmt"

	"journal/config/database"
)

// DriverFile selects the flat JSON file backend.
const DriverFile = "file"

// Open returns the backend named by driver. path is used by the file backend,
// dsn by the SQL backends.
func Open(ctx context.Context, driver, path, dsn string) (Store, error) {
	switch driver {
	case DriverFile, "":
		return NewFileStore(path), nil
	case DriverPostgres, DriverSQLite, DriverMySQL:
		db, err := database.Connect(ctx, driver, dsn)
		if err != nil {
			return nil, err
		}
		s := NewSQLStore(db, driver)
		if err := s.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
