package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"journal/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
	DriverMySQL    = "mysql"
)

var createTable = map[string]string{
	DriverPostgres: `CREATE TABLE IF NOT EXISTS notes (
		seq BIGSERIAL PRIMARY KEY,
		id TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		category TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	DriverSQLite: `CREATE TABLE IF NOT EXISTS notes (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		category TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	DriverMySQL: `CREATE TABLE IF NOT EXISTS notes (
		seq BIGINT AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(255) NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		category VARCHAR(255) NOT NULL,
		created_at VARCHAR(64) NOT NULL
	)`,
}

// SQLStore keeps notes in a "notes" table. Insertion order is the seq column.
type SQLStore struct {
	DB     *sql.DB
	Driver string

	mu sync.Mutex
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{DB: db, Driver: driver}
}

// Migrate creates the notes table when it does not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	ddl, ok := createTable[s.Driver]
	if !ok {
		return fmt.Errorf("unsupported sql driver %q", s.Driver)
	}
	if _, err := s.DB.ExecContext(ctx, ddl); err != nil {
		logger.Sugar.Errorf("Failed to create notes table: %v", err)
		return err
	}
	return nil
}

func (s *SQLStore) LoadAll(ctx context.Context) ([]Note, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT id, title, content, category, created_at FROM notes ORDER BY seq")
	if err != nil {
		logger.Sugar.Errorf("Failed to list notes: %v", err)
		return nil, err
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Category, &n.Timestamp); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *SQLStore) Get(ctx context.Context, id string) (Note, error) {
	var n Note
	err := s.DB.QueryRowContext(ctx,
		s.bind("SELECT id, title, content, category, created_at FROM notes WHERE id = ? ORDER BY seq LIMIT 1"), id,
	).Scan(&n.ID, &n.Title, &n.Content, &n.Category, &n.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get note %s: %v", id, err)
		return Note{}, err
	}
	return n, nil
}

func (s *SQLStore) Append(ctx context.Context, note Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, s.bind("SELECT COUNT(*) FROM notes WHERE id = ?"), note.ID).Scan(&count); err != nil {
		logger.Sugar.Errorf("Failed to check note id %s: %v", note.ID, err)
		return err
	}
	if count > 0 {
		return ErrConflict
	}

	_, err = tx.ExecContext(ctx,
		s.bind("INSERT INTO notes (id, title, content, category, created_at) VALUES (?, ?, ?, ?, ?)"),
		note.ID, note.Title, note.Content, note.Category, note.Timestamp)
	if err != nil {
		logger.Sugar.Errorf("Failed to insert note %s: %v", note.ID, err)
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) RemoveByID(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.DB.ExecContext(ctx, s.bind("DELETE FROM notes WHERE id = ?"), id)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete note %s: %v", id, err)
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLStore) Close() error {
	return s.DB.Close()
}

// bind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) bind(query string) string {
	if s.Driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
