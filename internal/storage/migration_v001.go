package storage

import "database/sql"

// migrateV001 creates the workspace schema. Every statement uses IF NOT
// EXISTS for idempotency. The seq columns keep dataset order.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS users (
			seq                     INTEGER PRIMARY KEY AUTOINCREMENT,
			id                      TEXT NOT NULL UNIQUE,
			name                    TEXT NOT NULL DEFAULT '',
			email                   TEXT NOT NULL DEFAULT '',
			position                TEXT NOT NULL DEFAULT '',
			avatar                  TEXT NOT NULL DEFAULT '',
			status                  TEXT NOT NULL DEFAULT 'active',
			last_active             TEXT,
			global_role             TEXT NOT NULL DEFAULT 'user',
			created_at              TEXT,
			phone                   TEXT NOT NULL DEFAULT '',
			is_temporary            BOOLEAN NOT NULL DEFAULT 0,
			require_password_change BOOLEAN NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS memberships (
			user_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			department_id   TEXT NOT NULL,
			department_name TEXT NOT NULL DEFAULT '',
			role            TEXT NOT NULL DEFAULT 'user',
			position        INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, department_id)
		)`,

		`CREATE TABLE IF NOT EXISTS permissions (
			user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			department_id TEXT NOT NULL,
			permission    TEXT NOT NULL,
			granted       BOOLEAN NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, department_id, permission)
		)`,

		`CREATE TABLE IF NOT EXISTS roles (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			name        TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			color       TEXT NOT NULL DEFAULT '',
			permissions TEXT NOT NULL DEFAULT '',
			user_count  INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS departments (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT NOT NULL UNIQUE,
			name       TEXT NOT NULL DEFAULT '',
			icon       TEXT NOT NULL DEFAULT '',
			color      TEXT NOT NULL DEFAULT '',
			user_count INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS activity (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT NOT NULL UNIQUE,
			user_id    TEXT NOT NULL DEFAULT '',
			user_name  TEXT NOT NULL DEFAULT '',
			action     TEXT NOT NULL DEFAULT '',
			target     TEXT NOT NULL DEFAULT '',
			department TEXT,
			ts         TEXT,
			ip         TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			success    BOOLEAN
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_activity_user       ON activity(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_ts         ON activity(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_department ON activity(department)`,
		`CREATE INDEX IF NOT EXISTS idx_users_status        ON users(status)`,
		`CREATE INDEX IF NOT EXISTS idx_users_role          ON users(global_role)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
