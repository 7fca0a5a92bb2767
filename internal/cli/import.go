package cli

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vibework/vibework/internal/storage"
	"github.com/vibework/vibework/internal/workspace"
)

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(args []string) error {
	if c.File == "" {
		return fmt.Errorf("--file is required for import command")
	}

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

	return c.executeWithStore(context.Background(), sess, store)
}

// executeWithStore decodes the dataset file and writes it to a provided store (for testing).
func (c *ImportCommand) executeWithStore(ctx context.Context, sess *session, store storage.Store) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := workspace.DecodeDataset(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", c.File, err)
	}

	summary, err := store.ImportDataset(ctx, ds)
	if err != nil {
		return fmt.Errorf("import dataset: %w", err)
	}

	sess.logger.Info("dataset imported",
		zap.String("file", c.File),
		zap.Int("users", summary.Users),
		zap.Int("roles", summary.Roles),
		zap.Int("departments", summary.Departments),
		zap.Int("activity", summary.Activity),
	)

	if c.globals != nil && c.globals.JSON {
		return writeJSON(sess.printer.Out(), map[string]interface{}{
			"file":        c.File,
			"users":       summary.Users,
			"roles":       summary.Roles,
			"departments": summary.Departments,
			"activity":    summary.Activity,
		})
	}

	sess.printer.Success("Imported %s, %s, %s and %s from %s",
		plural(summary.Users, "user", "users"),
		plural(summary.Roles, "role", "roles"),
		plural(summary.Departments, "department", "departments"),
		plural(summary.Activity, "activity entry", "activity entries"),
		c.File,
	)
	return nil
}
