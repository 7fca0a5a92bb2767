package cli

import (
	"bytes"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/vibework/vibework/internal/config"
	"github.com/vibework/vibework/internal/logging"
	"github.com/vibework/vibework/internal/storage"
)

const testNow = "2024-01-20T12:00:00Z"

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// setupTestStore creates a migrated in-memory store holding the sample workspace.
func setupTestStore(t *testing.T) (*storage.SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	runner := storage.NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	store, err := storage.NewSQLiteStore(db, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, db
}

// newTestSession returns a colorless session with default config that
// writes into the returned buffer.
func newTestSession(t *testing.T) (*session, *bytes.Buffer) {
	t.Helper()
	return newTestSessionWithConfig(t, config.DefaultConfig())
}

func newTestSessionWithConfig(t *testing.T, cfg *config.Config) (*session, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	sess, err := buildSession(cfg, logging.Nop(), "never", &buf)
	require.NoError(t, err)
	return sess, &buf
}

// writeTestConfig writes a config file that keeps logs quiet and returns
// its path.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	content := "storage:\n  path: " + dir + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
