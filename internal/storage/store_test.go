package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vibework/vibework/internal/workspace"
)

// openTestStore creates a migrated in-memory Store seeded with the sample
// workspace.
func openTestStore(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	return openTestStoreWithLogger(t, nil)
}

func openTestStoreWithLogger(t *testing.T, logger *zap.Logger) (*SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	store, err := NewSQLiteStore(db, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, db
}

func activityIDs(records []workspace.Activity) []string {
	out := make([]string, len(records))
	for i, a := range records {
		out[i] = a.ID
	}
	return out
}

// --- Users ---

func TestListUsers_DatasetOrder(t *testing.T) {
	store, _ := openTestStore(t)

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 5)

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	assert.Equal(t, []string{"user-1", "user-2", "user-3", "user-4", "user-5"}, ids)
}

func TestGetUser_LoadsDetails(t *testing.T) {
	store, _ := openTestStore(t)

	u, err := store.GetUser(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "María González", u.Name)
	assert.Equal(t, workspace.StatusActive, u.Status)
	assert.Equal(t, workspace.RoleAdmin, u.GlobalRole)
	require.NotNil(t, u.LastActive)
	assert.True(t, u.LastActive.Equal(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)))

	// Memberships keep their declared order
	require.Len(t, u.Departments, 2)
	assert.Equal(t, workspace.Membership{ID: "marketing", Name: "Marketing", Role: workspace.RoleAdmin}, u.Departments[0])
	assert.Equal(t, "general", u.Departments[1].ID)

	sample := workspace.SampleDataset().Users[0]
	assert.Equal(t, sample.Permissions, u.Permissions)
}

func TestGetUser_NotFound(t *testing.T) {
	store, _ := openTestStore(t)

	_, err := store.GetUser(context.Background(), "user-404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "user-404")
}

// --- Activity ---

func TestListActivity_All(t *testing.T) {
	store, _ := openTestStore(t)

	records, err := store.ListActivity(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"act-1", "act-2", "act-3", "act-4", "act-5"}, activityIDs(records))

	act3 := records[2]
	require.NotNil(t, act3.Success)
	assert.False(t, *act3.Success)
	assert.Equal(t, "IT", act3.DepartmentName())
	require.NotNil(t, act3.Timestamp)
	assert.True(t, act3.Timestamp.Equal(time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)))
}

func TestListActivity_ScopedToUser(t *testing.T) {
	store, _ := openTestStore(t)

	records, err := store.ListActivity(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"act-1", "act-5"}, activityIDs(records))
}

func TestListActivity_UnknownUserIsEmptyNotNil(t *testing.T) {
	store, _ := openTestStore(t)

	records, err := store.ListActivity(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestListActivity_AbsentFieldsStayAbsent(t *testing.T) {
	store, db := openTestStore(t)

	_, err := db.Exec(`INSERT INTO activity (id, user_id, action) VALUES ('act-bare', 'user-4', 'Visitó panel')`)
	require.NoError(t, err)

	records, err := store.ListActivity(context.Background(), "user-4")
	require.NoError(t, err)
	require.Len(t, records, 1)

	a := records[0]
	assert.Nil(t, a.Department)
	assert.Nil(t, a.Timestamp)
	assert.Nil(t, a.Success)
	assert.Equal(t, "", a.DepartmentName())
}

func TestListActivity_MalformedTimestampIsLoggedAndDropped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store, db := openTestStoreWithLogger(t, zap.New(core))

	_, err := db.Exec(`INSERT INTO activity (id, user_id, action, ts) VALUES ('act-bad', 'user-4', 'Editó', 'yesterday-ish')`)
	require.NoError(t, err)

	records, err := store.ListActivity(context.Background(), "user-4")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Timestamp)

	entries := logs.FilterMessage("malformed timestamp").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "act-bad", entries[0].ContextMap()["id"])
	assert.Equal(t, "yesterday-ish", entries[0].ContextMap()["value"])
}

// --- Roles and departments ---

func TestListRoles(t *testing.T) {
	store, _ := openTestStore(t)

	roles, err := store.ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 5)

	assert.Equal(t, workspace.RoleSuperAdmin, roles[0].ID)
	assert.Equal(t, []string{"*"}, roles[0].Permissions)
	assert.Equal(t, []string{"view_objectives", "view_reports"}, roles[4].Permissions)
	assert.Equal(t, 4, roles[4].UserCount)
}

func TestListDepartments(t *testing.T) {
	store, _ := openTestStore(t)

	depts, err := store.ListDepartments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, workspace.SampleDataset().Departments, depts)
}

// --- Import ---

func TestImportDataset_InsertsAndUpdates(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	ts := time.Date(2024, 1, 19, 16, 0, 0, 0, time.UTC)
	ds := workspace.Dataset{
		Users: []workspace.User{
			{ID: "user-4", Name: "Roberto Sánchez", Email: "roberto@company.com", Status: workspace.StatusActive, GlobalRole: workspace.RoleUser,
				Departments: []workspace.Membership{{ID: "it", Name: "IT", Role: workspace.RoleUser}}},
			{ID: "user-6", Name: "Elena Torres", Email: "elena@company.com", Status: workspace.StatusPending, GlobalRole: workspace.RoleReadOnly},
		},
		Departments: []workspace.Department{{ID: "legal", Name: "Legal", Icon: "⚖️", Color: "#64748b", UserCount: 2}},
		Activity: []workspace.Activity{
			{ID: "act-6", UserID: "user-6", UserName: "Elena Torres", Action: "Creó contrato", Target: "NDA", Department: workspace.String("Legal"), Timestamp: &ts, Success: workspace.Bool(true)},
		},
	}

	summary, err := store.ImportDataset(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Users: 2, Departments: 1, Activity: 1}, summary)

	// Existing user updated in place, keeping its position
	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 6)
	assert.Equal(t, "user-4", users[3].ID)
	assert.Equal(t, workspace.StatusActive, users[3].Status)
	assert.Equal(t, []workspace.Membership{{ID: "it", Name: "IT", Role: workspace.RoleUser}}, users[3].Departments)
	assert.Nil(t, users[3].Permissions, "imported user had no permissions")
	assert.Equal(t, "user-6", users[5].ID)

	records, err := store.ListActivity(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "act-6", records[len(records)-1].ID)
	assert.True(t, records[len(records)-1].Timestamp.Equal(ts))
}

func TestImportDataset_RollsBackOnError(t *testing.T) {
	store, db := openTestStore(t)

	// The second membership repeats the primary key.
	ds := workspace.Dataset{
		Users: []workspace.User{{ID: "user-7", Name: "Dup", Departments: []workspace.Membership{
			{ID: "it", Name: "IT"},
			{ID: "it", Name: "IT"},
		}}},
	}

	_, err := store.ImportDataset(context.Background(), ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user-7")

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users WHERE id = 'user-7'").Scan(&count))
	assert.Zero(t, count, "failed import must not leave partial rows")
}

func TestImportDataset_ReimportWithoutActivityIDs(t *testing.T) {
	store, db := openTestStore(t)
	ctx := context.Background()

	const src = `
activity:
  - user_id: u9
    action: Exported report
    target: Q1
    timestamp: "2024-01-19T16:00:00Z"
    success: false
`
	for i := 0; i < 2; i++ {
		ds, err := workspace.DecodeDataset(strings.NewReader(src))
		require.NoError(t, err)
		_, err = store.ImportDataset(ctx, ds)
		require.NoError(t, err)
	}

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM activity WHERE user_id = 'u9'").Scan(&count))
	assert.Equal(t, 1, count, "importing the same file twice upserts the same rows")
}

func TestImportDataset_RejectsCommaInRolePermission(t *testing.T) {
	store, db := openTestStore(t)

	ds := workspace.Dataset{
		Roles: []workspace.Role{{ID: "auditor", Name: "Auditor", Permissions: []string{"view_logs", "export,all"}}},
	}

	_, err := store.ImportDataset(context.Background(), ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `permission "export,all" contains a comma`)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM roles WHERE id = 'auditor'").Scan(&count))
	assert.Zero(t, count)
}

func TestImportDataset_RolePermissionsRoundTrip(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	perms := []string{"view_logs", "export_reports"}
	_, err := store.ImportDataset(ctx, workspace.Dataset{
		Roles: []workspace.Role{{ID: "auditor", Name: "Auditor", Permissions: perms}},
	})
	require.NoError(t, err)

	roles, err := store.ListRoles(ctx)
	require.NoError(t, err)
	last := roles[len(roles)-1]
	assert.Equal(t, "auditor", last.ID)
	assert.Equal(t, perms, last.Permissions)
}

// --- Stats ---

func TestGetStats(t *testing.T) {
	store, _ := openTestStore(t)

	stats, err := store.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.TotalUsers)
	assert.Equal(t, int64(5), stats.TotalActivity)
	assert.Equal(t, int64(5), stats.TotalRoles)
	assert.Equal(t, int64(6), stats.TotalDepartments)
	assert.True(t, stats.OldestActivity.Equal(time.Date(2024, 1, 15, 8, 15, 0, 0, time.UTC)))
	assert.True(t, stats.NewestActivity.Equal(time.Date(2024, 1, 15, 10, 25, 0, 0, time.UTC)))

	require.NotEmpty(t, stats.TopDepartments)
	assert.Equal(t, DepartmentCount{Department: "Marketing", Count: 2}, stats.TopDepartments[0])
	assert.Len(t, stats.TopDepartments, 4)
}

func TestGetStats_EmptyActivity(t *testing.T) {
	store, db := openTestStore(t)

	_, err := db.Exec("DELETE FROM activity")
	require.NoError(t, err)

	stats, err := store.GetStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalActivity)
	assert.True(t, stats.OldestActivity.IsZero())
	assert.True(t, stats.NewestActivity.IsZero())
	assert.Empty(t, stats.TopDepartments)
}
