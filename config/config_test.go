package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp isolates Load from any .env file in the package directory.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"JOURNAL_CONFIG", "JOURNAL_ADDR", "JOURNAL_CORS_ORIGIN", "JOURNAL_DRIVER", "JOURNAL_DB_PATH", "JOURNAL_DSN", "JOURNAL_WATCH", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.HTTP.Addr)
	assert.Equal(t, "*", cfg.HTTP.CORSOrigin)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "db.json", cfg.Storage.Path)
	assert.True(t, cfg.Storage.Watch)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	clearEnv(t)

	path := writeFile(t, dir, "journal.yaml", `
http:
  addr: ":9090"
storage:
  path: /var/lib/journal/notes.json
  watch: false
log:
  level: debug
`)
	t.Setenv("JOURNAL_ADDR", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTP.Addr, "env wins over yaml")
	assert.Equal(t, "/var/lib/journal/notes.json", cfg.Storage.Path)
	assert.False(t, cfg.Storage.Watch)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "*", cfg.HTTP.CORSOrigin, "unset keys keep defaults")
}

func TestLoadConfigPathFromEnv(t *testing.T) {
	dir := chdirTemp(t)
	clearEnv(t)
	path := writeFile(t, dir, "c.yaml", "storage:\n  driver: sqlite3\n  dsn: notes.db\n")
	t.Setenv("JOURNAL_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.Storage.Driver)
	assert.Equal(t, "notes.db", cfg.Storage.DSN)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	clearEnv(t)
	os.Unsetenv("JOURNAL_DB_PATH")
	writeFile(t, dir, ".env", "JOURNAL_DB_PATH=from-dotenv.json\n")
	t.Cleanup(func() { os.Unsetenv("JOURNAL_DB_PATH") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.json", cfg.Storage.Path)
}

func TestLoadErrors(t *testing.T) {
	dir := chdirTemp(t)

	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(writeFile(t, dir, "bad.yaml", "http: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("bad watch flag", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JOURNAL_WATCH", "sometimes")
		_, err := Load("")
		assert.ErrorContains(t, err, "JOURNAL_WATCH")
	})

	t.Run("unknown driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JOURNAL_DRIVER", "mongo")
		_, err := Load("")
		assert.ErrorContains(t, err, "unknown")
	})

	t.Run("sql driver without dsn", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JOURNAL_DRIVER", "postgres")
		_, err := Load("")
		assert.ErrorContains(t, err, "storage.dsn")
	})
}
