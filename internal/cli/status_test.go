package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_SampleDB(t *testing.T) {
	store, db := setupTestStore(t)
	sess, out := newTestSession(t)

	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev"}
	require.NoError(t, cmd.executeWithStore(context.Background(), sess, store, db, ":memory:"))

	output := out.String()
	assert.Contains(t, output, "Vibework Status")
	assert.Contains(t, output, "Version:       dev")
	assert.Contains(t, output, "Database:      :memory:")
	assert.Contains(t, output, "Users:         5")
	assert.Contains(t, output, "Activity:      5")
	assert.Contains(t, output, "Roles:         5")
	assert.Contains(t, output, "Departments:   6")
	assert.Contains(t, output, "Oldest:")
	assert.Contains(t, output, "Window:        7days")
	assert.Contains(t, output, "Top Departments:")
	assert.Contains(t, output, "Marketing")
}

func TestStatus_EmptyActivity(t *testing.T) {
	store, db := setupTestStore(t)
	sess, out := newTestSession(t)

	_, err := db.Exec("DELETE FROM activity")
	require.NoError(t, err)

	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev"}
	require.NoError(t, cmd.executeWithStore(context.Background(), sess, store, db, ":memory:"))

	output := out.String()
	assert.Contains(t, output, "Activity:      0")
	assert.NotContains(t, output, "Oldest:")
	assert.NotContains(t, output, "Top Departments:")
}

func TestStatus_JSON(t *testing.T) {
	store, db := setupTestStore(t)
	sess, out := newTestSession(t)

	cmd := &StatusCommand{globals: &GlobalFlags{JSON: true}, version: "1.0.0"}
	require.NoError(t, cmd.executeWithStore(context.Background(), sess, store, db, ":memory:"))

	var result statusJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))

	assert.Equal(t, "1.0.0", result.Version)
	assert.Equal(t, ":memory:", result.DatabasePath)
	assert.Greater(t, result.DatabaseSizeBytes, int64(0))
	assert.Equal(t, int64(5), result.TotalUsers)
	assert.Equal(t, int64(5), result.TotalActivity)
	assert.Equal(t, "2024-01-15T08:15:00Z", result.OldestActivity)
	assert.Equal(t, "2024-01-15T10:25:00Z", result.NewestActivity)
	require.NotEmpty(t, result.TopDepartments)
	assert.Equal(t, departmentCountJSON{Department: "Marketing", Count: 2}, result.TopDepartments[0])
	assert.Equal(t, "en", result.Locale)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2*1<<20))
	assert.Equal(t, "1.0 GB", formatBytes(1<<30))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}
