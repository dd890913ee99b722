package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(database *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := database.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id                         TEXT PRIMARY KEY,
		owner_id                   TEXT NOT NULL,
		title                      TEXT NOT NULL,
		category                   TEXT NOT NULL
		                           CHECK(category IN ('standard','nonprofit','lean_canvas')),
		status                     TEXT NOT NULL DEFAULT 'draft'
		                           CHECK(status IN ('draft','questionnaire_complete','generating','generated','in_review','finalized','archived')),
		language                   TEXT NOT NULL DEFAULT 'en',
		required_answers           INTEGER NOT NULL DEFAULT 0,
		answered_answers           INTEGER NOT NULL DEFAULT 0,
		completion_pct             REAL NOT NULL DEFAULT 0,
		questionnaire_completed_at TEXT,
		generation_started_at      TEXT,
		generation_completed_at    TEXT,
		version                    INTEGER NOT NULL DEFAULT 0,
		created_at                 TEXT NOT NULL,
		updated_at                 TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS plan_sections (
		plan_id    TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		section    TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (plan_id, section)
	)`,

	`CREATE TABLE IF NOT EXISTS answers (
		plan_id     TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		question_id TEXT NOT NULL,
		question    TEXT NOT NULL DEFAULT '',
		answer      TEXT NOT NULL DEFAULT '',
		required    INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		PRIMARY KEY (plan_id, question_id)
	)`,

	`CREATE TABLE IF NOT EXISTS snapshots (
		id         TEXT PRIMARY KEY,
		plan_id    TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		version    INTEGER NOT NULL CHECK(version > 0),
		title      TEXT NOT NULL,
		category   TEXT NOT NULL,
		status     TEXT NOT NULL,
		comment    TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (plan_id, version)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_snapshots_plan ON snapshots(plan_id)`,

	`CREATE TABLE IF NOT EXISTS snapshot_sections (
		snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		section     TEXT NOT NULL,
		content     TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (snapshot_id, section)
	)`,

	`CREATE TABLE IF NOT EXISTS share_grants (
		id               TEXT PRIMARY KEY,
		plan_id          TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		target_user_id   TEXT,
		is_public        INTEGER NOT NULL DEFAULT 0,
		token            TEXT UNIQUE,
		permission       TEXT NOT NULL
		                 CHECK(permission IN ('read_only','edit','full_access')),
		active           INTEGER NOT NULL DEFAULT 1,
		expires_at       TEXT,
		last_accessed_at TEXT,
		access_count     INTEGER NOT NULL DEFAULT 0,
		created_by       TEXT NOT NULL,
		created_at       TEXT NOT NULL,
		CHECK (NOT (is_public = 1 AND target_user_id IS NOT NULL))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_share_grants_plan ON share_grants(plan_id)`,
}
