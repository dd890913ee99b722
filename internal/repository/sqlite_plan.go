package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/planweave/planweave/internal/db"
	"github.com/planweave/planweave/internal/domain"
)

// SQLitePlanRepo implements PlanRepo on SQLite.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo. The connection may be a
// *sql.DB or a transaction-scoped DBTX.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	query := `INSERT INTO plans (id, owner_id, title, category, status, language,
			required_answers, answered_answers, completion_pct,
			questionnaire_completed_at, generation_started_at, generation_completed_at,
			version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.OwnerID,
		p.Title,
		string(p.Category),
		string(p.Status),
		p.Language,
		p.RequiredAnswers,
		p.AnsweredAnswers,
		p.CompletionPct,
		nullableTimeToString(p.QuestionnaireCompletedAt),
		nullableTimeToString(p.GenerationStartedAt),
		nullableTimeToString(p.GenerationCompletedAt),
		p.Version,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	query := `SELECT id, owner_id, title, category, status, language,
			required_answers, answered_answers, completion_pct,
			questionnaire_completed_at, generation_started_at, generation_completed_at,
			version, created_at, updated_at
		FROM plans WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	p, err := scanPlan(row)
	if err != nil {
		return nil, err
	}

	p.Sections, err = r.loadSections(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLitePlanRepo) TransitionStatus(ctx context.Context, id string, from, to domain.PlanStatus, at time.Time) (bool, error) {
	query := `UPDATE plans SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, query, string(to), at.Format(time.RFC3339), id, string(from))
	if err != nil {
		return false, fmt.Errorf("transitioning plan status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transitioning plan status: %w", err)
	}
	return n == 1, nil
}

func (r *SQLitePlanRepo) MarkQuestionnaireComplete(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `UPDATE plans SET
			status = 'questionnaire_complete',
			completion_pct = 100,
			questionnaire_completed_at = COALESCE(questionnaire_completed_at, ?),
			updated_at = ?
		WHERE id = ? AND status = 'draft'`
	now := at.Format(time.RFC3339)
	res, err := r.db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return false, fmt.Errorf("marking questionnaire complete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("marking questionnaire complete: %w", err)
	}
	return n == 1, nil
}

func (r *SQLitePlanRepo) UpdateQuestionnaireProgress(ctx context.Context, id string, answered int, pct float64, at time.Time) error {
	query := `UPDATE plans SET answered_answers = ?, completion_pct = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, answered, pct, at.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating questionnaire progress: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) MarkGenerationStarted(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE plans SET generation_started_at = ?, generation_completed_at = NULL, updated_at = ? WHERE id = ?`
	now := at.Format(time.RFC3339)
	if _, err := r.db.ExecContext(ctx, query, now, now, id); err != nil {
		return fmt.Errorf("marking generation started: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) MarkGenerationCompleted(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE plans SET generation_completed_at = ?, updated_at = ? WHERE id = ?`
	now := at.Format(time.RFC3339)
	if _, err := r.db.ExecContext(ctx, query, now, now, id); err != nil {
		return fmt.Errorf("marking generation completed: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) UpsertSection(ctx context.Context, planID string, section domain.Section, content string, at time.Time) error {
	query := `INSERT INTO plan_sections (plan_id, section, content, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(plan_id, section) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`
	now := at.Format(time.RFC3339)
	if _, err := r.db.ExecContext(ctx, query, planID, string(section), content, now); err != nil {
		return fmt.Errorf("upserting section %s: %w", section, err)
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE plans SET updated_at = ? WHERE id = ?`, now, planID); err != nil {
		return fmt.Errorf("touching plan after section write: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) AllocateVersion(ctx context.Context, planID string, at time.Time) (int, error) {
	query := `UPDATE plans SET version = version + 1, updated_at = ? WHERE id = ? RETURNING version`
	var version int
	err := r.db.QueryRowContext(ctx, query, at.Format(time.RFC3339), planID).Scan(&version)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("plan %s: %w", planID, ErrNotFound)
		}
		return 0, fmt.Errorf("allocating snapshot version for plan %s: %w", planID, err)
	}
	return version, nil
}

func (r *SQLitePlanRepo) loadSections(ctx context.Context, planID string) (map[domain.Section]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT section, content FROM plan_sections WHERE plan_id = ?`, planID)
	if err != nil {
		return nil, fmt.Errorf("loading plan sections: %w", err)
	}
	defer rows.Close()

	sections := make(map[domain.Section]string)
	for rows.Next() {
		var section, content string
		if err := rows.Scan(&section, &content); err != nil {
			return nil, fmt.Errorf("scanning plan section: %w", err)
		}
		sections[domain.Section(section)] = content
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan sections: %w", err)
	}
	return sections, nil
}

func scanPlan(row *sql.Row) (*domain.Plan, error) {
	var p domain.Plan
	var categoryStr, statusStr, createdAtStr, updatedAtStr string
	var qCompletedStr, genStartedStr, genCompletedStr sql.NullString

	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &categoryStr, &statusStr, &p.Language,
		&p.RequiredAnswers, &p.AnsweredAnswers, &p.CompletionPct,
		&qCompletedStr, &genStartedStr, &genCompletedStr,
		&p.Version, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	p.Category = domain.PlanCategory(categoryStr)
	p.Status = domain.PlanStatus(statusStr)

	var parseErr error
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	p.QuestionnaireCompletedAt = parseNullableTime(qCompletedStr)
	p.GenerationStartedAt = parseNullableTime(genStartedStr)
	p.GenerationCompletedAt = parseNullableTime(genCompletedStr)

	return &p, nil
}
