package storage

import (
	"context"
	"database/sql"

	"github.com/vibework/vibework/internal/workspace"
)

// migrateV002 seeds the bundled sample workspace. Upserts make re-running
// safe.
func migrateV002(tx *sql.Tx) error {
	_, err := writeDataset(context.Background(), tx, workspace.SampleDataset())
	return err
}
