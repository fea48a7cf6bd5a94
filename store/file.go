package store

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"journal/pkg/logger"
)

const tempFilePrefix = "journal-tmp-"

// FileStore keeps all notes in one JSON file. Every operation re-reads the
// file; mutations are serialized by mu and replace the file atomically.
type FileStore struct {
	Path string

	mu     sync.Mutex
	digest [sha256.Size]byte // content last written or observed by Watch
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) LoadAll(ctx context.Context) ([]Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	notes, err := s.read()
	if errors.Is(err, ErrFileMissing) {
		return []Note{}, nil
	}
	return notes, err
}

func (s *FileStore) Get(ctx context.Context, id string) (Note, error) {
	notes, err := s.LoadAll(ctx)
	if err != nil {
		return Note{}, err
	}
	for _, n := range notes {
		if n.ID == id {
			return n, nil
		}
	}
	return Note{}, ErrNotFound
}

func (s *FileStore) Append(ctx context.Context, note Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.read()
	if err != nil && !errors.Is(err, ErrFileMissing) {
		return err
	}
	for _, n := range notes {
		if n.ID == note.ID {
			return ErrConflict
		}
	}
	return s.write(append(notes, note))
}

func (s *FileStore) RemoveByID(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.read()
	if err != nil {
		return false, err
	}

	kept := make([]Note, 0, len(notes))
	for _, n := range notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(notes) {
		return false, nil
	}
	return true, s.write(kept)
}

func (s *FileStore) Close() error { return nil }

// read returns ErrFileMissing when the file does not exist.
func (s *FileStore) read() ([]Note, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrFileMissing
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return decode(s.Path, data)
}

func decode(path string, data []byte) ([]Note, error) {
	var notes []Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, &MalformedStoreError{Path: path, Err: err}
	}
	if notes == nil {
		// A literal "null" is not a list of notes.
		return nil, &MalformedStoreError{Path: path, Err: errors.New("expected a JSON array")}
	}
	return notes, nil
}

func encode(notes []Note) ([]byte, error) {
	if notes == nil {
		notes = []Note{}
	}
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// write must be called with mu held.
func (s *FileStore) write(notes []Note) error {
	data, err := encode(notes)
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}

	prev := s.digest
	s.digest = sha256.Sum256(data)
	if err := writeFileAtomic(s.Path, data, 0o644); err != nil {
		s.digest = prev
		logger.Sugar.Errorf("Failed to write store %s: %v", s.Path, err)
		return err
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over filename, so readers see either the old or the new content.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", filename, err)
	}
	return nil
}
