package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_ListsDirectory(t *testing.T) {
	store, _ := setupTestStore(t)
	sess, out := newTestSession(t)

	cmd := &UsersCommand{Now: testNow, globals: &GlobalFlags{}}
	require.NoError(t, cmd.executeWithStore(context.Background(), sess, store))

	output := out.String()
	assert.Contains(t, output, "Total:         5")
	assert.Contains(t, output, "Active:        3")
	assert.Contains(t, output, "Admins:        3")
	assert.Contains(t, output, "Inactive:      1")
	assert.Contains(t, output, "5 users")
	assert.Contains(t, output, "EMAIL")
	assert.Contains(t, output, "maria@company.com")
	assert.Contains(t, output, "Marketing, General")
	assert.Contains(t, output, "[suspended]")
	assert.Contains(t, output, "5 days ago")
}

func TestUsers_Filters(t *testing.T) {
	store, _ := setupTestStore(t)
	sess, out := newTestSession(t)

	cmd := &UsersCommand{Status: "active", Department: "general", Role: "manager", Now: testNow, globals: &GlobalFlags{}}
	require.NoError(t, cmd.executeWithStore(context.Background(), sess, store))

	output := out.String()
	assert.Contains(t, output, "Total:         5", "figures cover the whole directory")
	assert.Contains(t, output, "1 user\n")
	assert.Contains(t, output, "Ana López")
	assert.NotContains(t, output, "Carlos Ruiz")
}

func TestUsers_NoMatches(t *testing.T) {
	store, _ := setupTestStore(t)
	sess, out := newTestSession(t)

	cmd := &UsersCommand{Search: "nobody-here", globals: &GlobalFlags{}}
	require.NoError(t, cmd.executeWithStore(context.Background(), sess, store))

	assert.Contains(t, out.String(), "No users match the current filters")
}

func TestUsers_InvalidFlags(t *testing.T) {
	store, _ := setupTestStore(t)
	sess, _ := newTestSession(t)
	ctx := context.Background()

	err := (&UsersCommand{Status: "retired", globals: &GlobalFlags{}}).executeWithStore(ctx, sess, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `--status: invalid status "retired"`)

	err = (&UsersCommand{Role: "owner", globals: &GlobalFlags{}}).executeWithStore(ctx, sess, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "super-admin")
}

func TestUsers_JSON(t *testing.T) {
	store, _ := setupTestStore(t)
	sess, out := newTestSession(t)

	cmd := &UsersCommand{Role: "ADMIN", Now: testNow, globals: &GlobalFlags{JSON: true}}
	require.NoError(t, cmd.executeWithStore(context.Background(), sess, store))

	var result usersOutputJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))

	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 2, result.Matching)
	require.Len(t, result.Users, 2)
	assert.Equal(t, "user-1", result.Users[0].ID)
	assert.Equal(t, []string{"marketing", "general"}, result.Users[0].Departments)
	assert.Equal(t, "2024-01-15T10:30:00Z", result.Users[0].LastActive)
	assert.Equal(t, "5 days ago", result.Users[0].LastActiveLabel)
	assert.Equal(t, "user-2", result.Users[1].ID)
}
