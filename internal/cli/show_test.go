package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibework/vibework/internal/workspace"
)

func TestShow_Full(t *testing.T) {
	store, _ := setupTestStore(t)
	sess, out := newTestSession(t)

	cmd := &ShowCommand{ID: "user-5", Format: "full", globals: &GlobalFlags{}}
	require.NoError(t, cmd.executeWithStore(context.Background(), sess, store))

	output := out.String()
	assert.Contains(t, output, "Laura Martín")
	assert.Contains(t, output, "Role:          super-admin")
	assert.Contains(t, output, "Phone:         +34 645 123 789")
	assert.Contains(t, output, "Created:       2023-05-01")
	assert.Contains(t, output, "[IT] admin")
	assert.Contains(t, output, "PERMISSION")
	assert.Contains(t, output, "security_config")

	// Membership order drives the permission grid
	assert.Less(t, strings.Index(output, "backup_data"), strings.Index(output, "system_config"))
}

func TestShow_Markdown(t *testing.T) {
	store, _ := setupTestStore(t)
	sess, out := newTestSession(t)

	cmd := &ShowCommand{ID: "user-3", Format: "md", globals: &GlobalFlags{}}
	require.NoError(t, cmd.executeWithStore(context.Background(), sess, store))

	output := out.String()
	assert.True(t, strings.HasPrefix(output, "---\nid: user-3\n"))
	assert.Contains(t, output, "## Departments")
	assert.Contains(t, output, "- HR (manager)")
	assert.Contains(t, output, "- [x] hr/manage_employees")
	assert.Contains(t, output, "- [ ] hr/view_payroll")
}

func TestShow_JSON(t *testing.T) {
	store, _ := setupTestStore(t)
	sess, out := newTestSession(t)

	cmd := &ShowCommand{ID: "user-1", Format: "full", globals: &GlobalFlags{JSON: true}}
	require.NoError(t, cmd.executeWithStore(context.Background(), sess, store))

	var result userDetailJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))

	assert.Equal(t, "user-1", result.ID)
	assert.Equal(t, "admin", result.Role)
	assert.Equal(t, "2024-01-15T10:30:00Z", result.LastActive)
	require.Len(t, result.Departments, 2)
	assert.Equal(t, membershipJSON{ID: "marketing", Name: "Marketing", Role: "admin"}, result.Departments[0])
	assert.Equal(t, workspace.SampleDataset().Users[0].Permissions, result.Permissions)
}

func TestShow_FormatFlagJSON(t *testing.T) {
	store, _ := setupTestStore(t)
	sess, out := newTestSession(t)

	cmd := &ShowCommand{ID: "user-4", Format: "json", globals: &GlobalFlags{}}
	require.NoError(t, cmd.executeWithStore(context.Background(), sess, store))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "suspended", result["status"])
}

func TestShow_Errors(t *testing.T) {
	store, _ := setupTestStore(t)
	sess, _ := newTestSession(t)
	ctx := context.Background()

	err := (&ShowCommand{ID: "user-404", globals: &GlobalFlags{}}).executeWithStore(ctx, sess, store)
	require.Error(t, err)
	assert.Equal(t, "user not found: user-404", err.Error())

	err = (&ShowCommand{ID: "user-1", Format: "pdf", globals: &GlobalFlags{}}).executeWithStore(ctx, sess, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --format")

	err = (&ShowCommand{globals: &GlobalFlags{}}).Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--id is required")
}

func TestPermissionGrid_Order(t *testing.T) {
	u := &workspace.User{
		Departments: []workspace.Membership{{ID: "sales"}, {ID: "it"}},
		Permissions: map[string]map[string]bool{
			"it":     {"b": true, "a": false},
			"sales":  {"z": true},
			"legacy": {"x": true},
		},
	}

	grid := permissionGrid(u)
	var keys []string
	for _, e := range grid {
		keys = append(keys, e.Department+"/"+e.Permission)
	}
	assert.Equal(t, []string{"sales/z", "it/a", "it/b", "legacy/x"}, keys)
}
