package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/vibework/vibework/internal/config"
	"github.com/vibework/vibework/internal/logging"
	"github.com/vibework/vibework/internal/render"
	"github.com/vibework/vibework/internal/storage"
)

// session bundles what every command needs besides the data source.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	printer *render.Printer
	palette render.Palette
}

// newSession loads configuration and builds the logger, printer and palette.
// An explicit --config must be readable; otherwise the default file is
// created on first use and a broken one falls back to defaults.
func newSession(globals *GlobalFlags, out io.Writer) (*session, error) {
	if globals == nil {
		globals = &GlobalFlags{}
	}

	var cfg *config.Config
	var err error
	if globals.Config != "" {
		cfg, err = config.Load(globals.Config)
		if err != nil {
			return nil, err
		}
	} else {
		cfg, err = config.LoadOrCreate()
		if err != nil {
			cfg = config.DefaultConfig()
		}
	}

	logger, err := logging.New(cfg.Logging, globals.Verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return buildSession(cfg, logger, globals.Color, out)
}

func buildSession(cfg *config.Config, logger *zap.Logger, colorFlag string, out io.Writer) (*session, error) {
	mode, err := render.ParseColorMode(colorFlag)
	if err != nil {
		return nil, err
	}

	palette, err := render.NewPalette(cfg.Display.DepartmentColors)
	if err != nil {
		return nil, fmt.Errorf("display.department_colors: %w", err)
	}

	return &session{
		cfg:     cfg,
		logger:  logger,
		printer: render.NewPrinter(out, nil, render.ResolveColors(mode, cfg.Display.Colors)),
		palette: palette,
	}, nil
}

// resolveDBPath determines the SQLite database file path.
// Priority: --db flag > config file.
func (s *session) resolveDBPath(globals *GlobalFlags) (string, error) {
	if globals != nil && globals.DBPath != "" {
		return config.ExpandPath(globals.DBPath)
	}
	return s.cfg.DatabasePath()
}

// openStore opens the SQLite data source at dbPath, runs migrations, and
// returns a ready-to-use store and the underlying *sql.DB.
func (s *session) openStore(dbPath string) (*storage.SQLiteStore, *sql.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	s.logger.Debug("opening data source", zap.String("path", dbPath))

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	runner := storage.NewMigrationRunner(db)
	if mode := s.cfg.Storage.SQLiteJournalMode; mode != "" {
		if err := runner.SetJournalMode(mode); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("storage.sqlite_journal_mode: %w", err)
		}
	}
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := storage.NewSQLiteStore(db, s.logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init store: %w", err)
	}

	return store, db, nil
}

// parseNow parses the --now flag. Empty means the current time.
func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now value %q: use RFC 3339, e.g. 2024-01-20T12:00:00Z", s)
	}
	return t, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
