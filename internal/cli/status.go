package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vibework/vibework/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string                `json:"version"`
	DatabasePath      string                `json:"database_path"`
	DatabaseSizeBytes int64                 `json:"database_size_bytes"`
	TotalUsers        int64                 `json:"total_users"`
	TotalActivity     int64                 `json:"total_activity"`
	TotalRoles        int64                 `json:"total_roles"`
	TotalDepartments  int64                 `json:"total_departments"`
	OldestActivity    string                `json:"oldest_activity,omitempty"`
	NewestActivity    string                `json:"newest_activity,omitempty"`
	TopDepartments    []departmentCountJSON `json:"top_departments"`
	Locale            string                `json:"locale"`
	DefaultWindow     string                `json:"default_window"`
}

type departmentCountJSON struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	sess, err := newSession(c.globals, c.out)
	if err != nil {
		return err
	}
	defer sess.logger.Sync() //nolint:errcheck

	dbPath, err := sess.resolveDBPath(c.globals)
	if err != nil {
		return err
	}
	store, db, err := sess.openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(context.Background(), sess, store, db, dbPath)
}

// executeWithStore runs status against a provided store and db (for testing).
func (c *StatusCommand) executeWithStore(ctx context.Context, sess *session, store storage.Store, db *sql.DB, dbPath string) error {
	stats, err := store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	dbSize := getDatabaseSize(db, dbPath)

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(sess, stats, dbPath, dbSize)
	}
	return c.printStatusHuman(sess, stats, dbPath, dbSize)
}

func (c *StatusCommand) printStatusHuman(sess *session, stats *storage.Stats, dbPath string, dbSize int64) error {
	p := sess.printer

	p.Header("Vibework Status")
	p.Field("Version", c.version)
	p.Field("Database", fmt.Sprintf("%s (%s)", dbPath, formatBytes(dbSize)))
	p.Field("Users", formatNumber(stats.TotalUsers))
	p.Field("Activity", formatNumber(stats.TotalActivity))
	p.Field("Roles", formatNumber(stats.TotalRoles))
	p.Field("Departments", formatNumber(stats.TotalDepartments))

	// Time range
	if !stats.OldestActivity.IsZero() {
		p.Field("Oldest", stats.OldestActivity.Local().Format("2006-01-02 15:04"))
		p.Field("Newest", stats.NewestActivity.Local().Format("2006-01-02 15:04"))
	}

	p.Field("Locale", sess.cfg.Display.Locale)
	p.Field("Window", sess.cfg.Display.DefaultWindow)

	// Top departments
	if len(stats.TopDepartments) > 0 {
		p.Print("")
		p.Print("Top Departments:")
		for _, d := range stats.TopDepartments {
			p.Print("  %-20s %s", d.Department, formatNumber(d.Count))
		}
	}

	return nil
}

func (c *StatusCommand) printStatusJSON(sess *session, stats *storage.Stats, dbPath string, dbSize int64) error {
	out := statusJSON{
		Version:           c.version,
		DatabasePath:      dbPath,
		DatabaseSizeBytes: dbSize,
		TotalUsers:        stats.TotalUsers,
		TotalActivity:     stats.TotalActivity,
		TotalRoles:        stats.TotalRoles,
		TotalDepartments:  stats.TotalDepartments,
		TopDepartments:    make([]departmentCountJSON, len(stats.TopDepartments)),
		Locale:            sess.cfg.Display.Locale,
		DefaultWindow:     sess.cfg.Display.DefaultWindow,
	}

	if !stats.OldestActivity.IsZero() {
		out.OldestActivity = stats.OldestActivity.UTC().Format(time.RFC3339)
		out.NewestActivity = stats.NewestActivity.UTC().Format(time.RFC3339)
	}

	for i, d := range stats.TopDepartments {
		out.TopDepartments[i] = departmentCountJSON{Department: d.Department, Count: d.Count}
	}

	return writeJSON(sess.printer.Out(), out)
}

// getDatabaseSize returns the database file size in bytes.
// For on-disk databases, it uses os.Stat. For in-memory databases,
// it queries page_count * page_size.
func getDatabaseSize(db *sql.DB, dbPath string) int64 {
	// Try file stat first
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}

	// Fallback: query SQLite for in-memory or unavailable file
	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
		if len(s) > remainder {
			result.WriteString(",")
		}
	}
	for i := remainder; i < len(s); i += 3 {
		if i > remainder {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
