package store

import (
	"context"
	"crypto/sha256"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"journal/pkg/logger"
)

const watchDebounce = 50 * time.Millisecond

// Watch calls onChange whenever the backing file is changed by someone other
// than this store. It watches the parent directory because the file may not
// exist yet and atomic saves replace its inode. Watch blocks until ctx is done.
func (s *FileStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}
	name := filepath.Base(s.Path)

	s.mu.Lock()
	if data, err := os.ReadFile(s.Path); err == nil {
		s.digest = sha256.Sum256(data)
	}
	s.mu.Unlock()

	logger.Sugar.Infof("Watching store file %s", s.Path)

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if s.observe() {
			logger.Sugar.Infof("Store file %s changed on disk", s.Path)
			onChange()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, fire)
			timerMu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Sugar.Errorf("Store watcher error: %v", err)
		}
	}
}

// observe records the current file content and reports whether it differs
// from what the store last wrote or saw.
func (s *FileStore) observe() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Sugar.Warnf("Failed to read store %s after change: %v", s.Path, err)
		return false
	}
	sum := sha256.Sum256(data)
	if sum == s.digest {
		return false
	}
	s.digest = sum
	return true
}
