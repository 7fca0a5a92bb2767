package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vibework/vibework/internal/workspace"
)

// Store defines the data source operations used by the command line.
type Store interface {
	ListUsers(ctx context.Context) ([]workspace.User, error)
	GetUser(ctx context.Context, id string) (*workspace.User, error)
	ListActivity(ctx context.Context, userID string) ([]workspace.Activity, error)
	ListRoles(ctx context.Context) ([]workspace.Role, error)
	ListDepartments(ctx context.Context) ([]workspace.Department, error)
	ImportDataset(ctx context.Context, ds workspace.Dataset) (ImportSummary, error)
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger

	// Prepared statements
	getUser        *sql.Stmt
	listMembership *sql.Stmt
	listPermission *sql.Stmt
}

const userColumns = `id, name, email, position, avatar, status, last_active,
	global_role, created_at, phone, is_temporary, require_password_change`

const activityColumns = `id, user_id, user_name, action, target, department,
	ts, ip, user_agent, success`

// NewSQLiteStore creates a new SQLiteStore from an already-opened and
// migrated database. A nil logger discards log output.
func NewSQLiteStore(db *sql.DB, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SQLiteStore{db: db, logger: logger}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getUser, err = s.db.Prepare(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err != nil {
		return err
	}

	s.listMembership, err = s.db.Prepare(`
		SELECT department_id, department_name, role
		FROM memberships WHERE user_id = ? ORDER BY position
	`)
	if err != nil {
		return err
	}

	s.listPermission, err = s.db.Prepare(`
		SELECT department_id, permission, granted
		FROM permissions WHERE user_id = ?
	`)
	if err != nil {
		return err
	}

	return nil
}

// parseOptionalTime converts a nullable column into an optional timestamp.
// Malformed values are logged and treated as absent.
func (s *SQLiteStore) parseOptionalTime(v sql.NullString, field, id string) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := workspace.ParseTimestamp(v.String)
	if err != nil {
		s.logger.Warn("malformed timestamp",
			zap.String("field", field),
			zap.String("id", id),
			zap.String("value", v.String),
		)
		return nil
	}
	return &t
}

func formatOptionalTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// ListUsers returns every user with memberships and permissions, in
// dataset order.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]workspace.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	users := []workspace.User{}
	for rows.Next() {
		u, err := s.scanUser(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Details are loaded after the cursor is released so a single-connection
	// pool cannot deadlock.
	for i := range users {
		if err := s.loadUserDetails(ctx, &users[i]); err != nil {
			return nil, err
		}
	}

	return users, nil
}

// GetUser retrieves a single user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*workspace.User, error) {
	u, err := s.scanUser(s.getUser.QueryRowContext(ctx, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if err := s.loadUserDetails(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLiteStore) scanUser(row scanner) (*workspace.User, error) {
	var u workspace.User
	var lastActive, createdAt sql.NullString

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Position, &u.Avatar, &u.Status, &lastActive,
		&u.GlobalRole, &createdAt, &u.Phone, &u.IsTemporary, &u.RequirePasswordChange,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	u.LastActive = s.parseOptionalTime(lastActive, "last_active", u.ID)
	u.CreatedAt = s.parseOptionalTime(createdAt, "created_at", u.ID)
	return &u, nil
}

func (s *SQLiteStore) loadUserDetails(ctx context.Context, u *workspace.User) error {
	rows, err := s.listMembership.QueryContext(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("query memberships: %w", err)
	}
	for rows.Next() {
		var m workspace.Membership
		if err := rows.Scan(&m.ID, &m.Name, &m.Role); err != nil {
			rows.Close()
			return fmt.Errorf("scan membership: %w", err)
		}
		u.Departments = append(u.Departments, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	rows, err = s.listPermission.QueryContext(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("query permissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dept, perm string
		var granted bool
		if err := rows.Scan(&dept, &perm, &granted); err != nil {
			return fmt.Errorf("scan permission: %w", err)
		}
		if u.Permissions == nil {
			u.Permissions = map[string]map[string]bool{}
		}
		if u.Permissions[dept] == nil {
			u.Permissions[dept] = map[string]bool{}
		}
		u.Permissions[dept][perm] = granted
	}

	return rows.Err()
}

// ListActivity returns the activity log in dataset order. An empty userID
// returns every entry; scoping to one user is otherwise left to the query
// engine, which also needs the unscoped collection for its figures.
func (s *SQLiteStore) ListActivity(ctx context.Context, userID string) ([]workspace.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activity`
	var args []interface{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	// Return empty slice rather than nil
	records := []workspace.Activity{}
	for rows.Next() {
		var a workspace.Activity
		var department, ts sql.NullString
		var success sql.NullBool
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.UserName, &a.Action, &a.Target, &department,
			&ts, &a.IP, &a.UserAgent, &success,
		); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if department.Valid {
			a.Department = workspace.String(department.String)
		}
		if success.Valid {
			a.Success = workspace.Bool(success.Bool)
		}
		a.Timestamp = s.parseOptionalTime(ts, "ts", a.ID)
		records = append(records, a)
	}

	return records, rows.Err()
}

// ListRoles returns all roles in dataset order.
func (s *SQLiteStore) ListRoles(ctx context.Context) ([]workspace.Role, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, color, permissions, user_count
		FROM roles ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	roles := []workspace.Role{}
	for rows.Next() {
		var r workspace.Role
		var perms string
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.Color, &perms, &r.UserCount); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		if perms != "" {
			r.Permissions = strings.Split(perms, ",")
		}
		roles = append(roles, r)
	}

	return roles, rows.Err()
}

// ListDepartments returns all departments in dataset order.
func (s *SQLiteStore) ListDepartments(ctx context.Context) ([]workspace.Department, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, icon, color, user_count
		FROM departments ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query departments: %w", err)
	}
	defer rows.Close()

	departments := []workspace.Department{}
	for rows.Next() {
		var d workspace.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Icon, &d.Color, &d.UserCount); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, d)
	}

	return departments, rows.Err()
}

// ImportDataset upserts every record of ds in a single transaction. A
// user's memberships and permissions are replaced by the imported ones.
func (s *SQLiteStore) ImportDataset(ctx context.Context, ds workspace.Dataset) (ImportSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	summary, err := writeDataset(ctx, tx, ds)
	if err != nil {
		return ImportSummary{}, err
	}

	if err := tx.Commit(); err != nil {
		return ImportSummary{}, fmt.Errorf("commit import: %w", err)
	}

	s.logger.Debug("dataset imported",
		zap.Int("users", summary.Users),
		zap.Int("roles", summary.Roles),
		zap.Int("departments", summary.Departments),
		zap.Int("activity", summary.Activity),
	)
	return summary, nil
}

func writeDataset(ctx context.Context, tx *sql.Tx, ds workspace.Dataset) (ImportSummary, error) {
	var summary ImportSummary

	for _, u := range ds.Users {
		if err := writeUser(ctx, tx, u); err != nil {
			return ImportSummary{}, fmt.Errorf("import user %s: %w", u.ID, err)
		}
		summary.Users++
	}

	for _, r := range ds.Roles {
		// Permissions are stored comma-joined.
		for _, perm := range r.Permissions {
			if strings.Contains(perm, ",") {
				return ImportSummary{}, fmt.Errorf("import role %s: permission %q contains a comma", r.ID, perm)
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO roles (id, name, description, color, permissions, user_count)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name, description = excluded.description,
				color = excluded.color, permissions = excluded.permissions,
				user_count = excluded.user_count
		`, r.ID, r.Name, r.Description, r.Color, strings.Join(r.Permissions, ","), r.UserCount)
		if err != nil {
			return ImportSummary{}, fmt.Errorf("import role %s: %w", r.ID, err)
		}
		summary.Roles++
	}

	for _, d := range ds.Departments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO departments (id, name, icon, color, user_count)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name, icon = excluded.icon,
				color = excluded.color, user_count = excluded.user_count
		`, d.ID, d.Name, d.Icon, d.Color, d.UserCount)
		if err != nil {
			return ImportSummary{}, fmt.Errorf("import department %s: %w", d.ID, err)
		}
		summary.Departments++
	}

	for _, a := range ds.Activity {
		var department, success interface{}
		if a.Department != nil {
			department = *a.Department
		}
		if a.Success != nil {
			success = *a.Success
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO activity (`+activityColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				user_id = excluded.user_id, user_name = excluded.user_name,
				action = excluded.action, target = excluded.target,
				department = excluded.department, ts = excluded.ts,
				ip = excluded.ip, user_agent = excluded.user_agent,
				success = excluded.success
		`, a.ID, a.UserID, a.UserName, a.Action, a.Target, department,
			formatOptionalTime(a.Timestamp), a.IP, a.UserAgent, success)
		if err != nil {
			return ImportSummary{}, fmt.Errorf("import activity %s: %w", a.ID, err)
		}
		summary.Activity++
	}

	return summary, nil
}

func writeUser(ctx context.Context, tx *sql.Tx, u workspace.User) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, email = excluded.email,
			position = excluded.position, avatar = excluded.avatar,
			status = excluded.status, last_active = excluded.last_active,
			global_role = excluded.global_role, created_at = excluded.created_at,
			phone = excluded.phone, is_temporary = excluded.is_temporary,
			require_password_change = excluded.require_password_change
	`, u.ID, u.Name, u.Email, u.Position, u.Avatar, u.Status, formatOptionalTime(u.LastActive),
		u.GlobalRole, formatOptionalTime(u.CreatedAt), u.Phone, u.IsTemporary, u.RequirePasswordChange)
	if err != nil {
		return err
	}

	for _, stmt := range []string{
		"DELETE FROM memberships WHERE user_id = ?",
		"DELETE FROM permissions WHERE user_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, u.ID); err != nil {
			return err
		}
	}

	for i, m := range u.Departments {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO memberships (user_id, department_id, department_name, role, position) VALUES (?, ?, ?, ?, ?)",
			u.ID, m.ID, m.Name, m.Role, i,
		); err != nil {
			return err
		}
	}

	// Sorted so the write order does not depend on map iteration.
	depts := make([]string, 0, len(u.Permissions))
	for dept := range u.Permissions {
		depts = append(depts, dept)
	}
	sort.Strings(depts)
	for _, dept := range depts {
		for perm, granted := range u.Permissions[dept] {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO permissions (user_id, department_id, permission, granted) VALUES (?, ?, ?, ?)",
				u.ID, dept, perm, granted,
			); err != nil {
				return err
			}
		}
	}

	return nil
}

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		table string
		dest  *int64
	}{
		{"users", &stats.TotalUsers},
		{"activity", &stats.TotalActivity},
		{"roles", &stats.TotalRoles},
		{"departments", &stats.TotalDepartments},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("count %s: %w", c.table, err)
		}
	}

	// Oldest and newest (NULL when no timestamped activity exists)
	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT MIN(ts), MAX(ts) FROM activity WHERE ts IS NOT NULL",
	).Scan(&oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("activity time range: %w", err)
	}
	if t := s.parseOptionalTime(oldest, "ts", "min"); t != nil {
		stats.OldestActivity = *t
	}
	if t := s.parseOptionalTime(newest, "ts", "max"); t != nil {
		stats.NewestActivity = *t
	}

	// Top departments
	rows, err := s.db.QueryContext(ctx, `
		SELECT department, COUNT(*) AS cnt FROM activity
		WHERE department IS NOT NULL
		GROUP BY department ORDER BY cnt DESC, department LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("top departments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dc DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return nil, err
		}
		stats.TopDepartments = append(stats.TopDepartments, dc)
	}

	return stats, rows.Err()
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{s.getUser, s.listMembership, s.listPermission}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
