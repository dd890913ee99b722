package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/planweave/planweave/internal/db"
	"github.com/planweave/planweave/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo on SQLite. Version numbering
// must be serialized by the caller (a transaction scoped to the plan), so
// the repo is usually constructed from a UnitOfWork DBTX.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

// NewSQLiteSnapshotRepo creates a new SQLiteSnapshotRepo.
func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn}
}

func (r *SQLiteSnapshotRepo) Insert(ctx context.Context, s *domain.VersionSnapshot) error {
	query := `INSERT INTO snapshots (id, plan_id, version, title, category, status, comment, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.PlanID,
		s.Version,
		s.Title,
		string(s.Category),
		string(s.Status),
		s.Comment,
		s.CreatedBy,
		s.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	for section, content := range s.Sections {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO snapshot_sections (snapshot_id, section, content) VALUES (?, ?, ?)`,
			s.ID, string(section), content,
		)
		if err != nil {
			return fmt.Errorf("inserting snapshot section %s: %w", section, err)
		}
	}
	return nil
}

func (r *SQLiteSnapshotRepo) GetByVersion(ctx context.Context, planID string, version int) (*domain.VersionSnapshot, error) {
	query := `SELECT id, plan_id, version, title, category, status, comment, created_by, created_at
		FROM snapshots WHERE plan_id = ? AND version = ?`
	row := r.db.QueryRowContext(ctx, query, planID, version)

	s, err := scanSnapshot(row)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT section, content FROM snapshot_sections WHERE snapshot_id = ?`, s.ID)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot sections: %w", err)
	}
	defer rows.Close()

	s.Sections = make(map[domain.Section]string)
	for rows.Next() {
		var section, content string
		if err := rows.Scan(&section, &content); err != nil {
			return nil, fmt.Errorf("scanning snapshot section: %w", err)
		}
		s.Sections[domain.Section(section)] = content
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot sections: %w", err)
	}
	return s, nil
}

func (r *SQLiteSnapshotRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.VersionSnapshot, error) {
	query := `SELECT id, plan_id, version, title, category, status, comment, created_by, created_at
		FROM snapshots WHERE plan_id = ? ORDER BY version`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.VersionSnapshot
	for rows.Next() {
		var s domain.VersionSnapshot
		var categoryStr, statusStr, createdAtStr string
		if err := rows.Scan(&s.ID, &s.PlanID, &s.Version, &s.Title, &categoryStr, &statusStr, &s.Comment, &s.CreatedBy, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		s.Category = domain.PlanCategory(categoryStr)
		s.Status = domain.PlanStatus(statusStr)
		if s.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing snapshot created_at: %w", err)
		}
		snapshots = append(snapshots, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *SQLiteSnapshotRepo) MaxVersion(ctx context.Context, planID string) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM snapshots WHERE plan_id = ?`, planID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("reading max snapshot version: %w", err)
	}
	return max, nil
}

func scanSnapshot(row *sql.Row) (*domain.VersionSnapshot, error) {
	var s domain.VersionSnapshot
	var categoryStr, statusStr, createdAtStr string

	err := row.Scan(&s.ID, &s.PlanID, &s.Version, &s.Title, &categoryStr, &statusStr, &s.Comment, &s.CreatedBy, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("snapshot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}

	s.Category = domain.PlanCategory(categoryStr)
	s.Status = domain.PlanStatus(statusStr)
	if s.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing snapshot created_at: %w", err)
	}
	return &s, nil
}
