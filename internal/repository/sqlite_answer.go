package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/planweave/planweave/internal/db"
	"github.com/planweave/planweave/internal/domain"
)

// SQLiteAnswerRepo implements AnswerRepo on SQLite.
type SQLiteAnswerRepo struct {
	db db.DBTX
}

// NewSQLiteAnswerRepo creates a new SQLiteAnswerRepo.
func NewSQLiteAnswerRepo(conn db.DBTX) *SQLiteAnswerRepo {
	return &SQLiteAnswerRepo{db: conn}
}

func (r *SQLiteAnswerRepo) Upsert(ctx context.Context, a *domain.Answer) error {
	query := `INSERT INTO answers (plan_id, question_id, question, answer, required, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(plan_id, question_id) DO UPDATE SET
			question = excluded.question,
			answer = excluded.answer,
			required = excluded.required,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		a.PlanID,
		a.QuestionID,
		a.Question,
		a.Answer,
		boolToInt(a.Required),
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting answer %s: %w", a.QuestionID, err)
	}
	return nil
}

func (r *SQLiteAnswerRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.Answer, error) {
	query := `SELECT plan_id, question_id, question, answer, required, created_at, updated_at
		FROM answers WHERE plan_id = ? ORDER BY question_id`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("listing answers: %w", err)
	}
	defer rows.Close()

	var answers []*domain.Answer
	for rows.Next() {
		var a domain.Answer
		var requiredInt int
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&a.PlanID, &a.QuestionID, &a.Question, &a.Answer, &requiredInt, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning answer: %w", err)
		}
		a.Required = intToBool(requiredInt)
		if a.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing answer created_at: %w", err)
		}
		if a.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
			return nil, fmt.Errorf("parsing answer updated_at: %w", err)
		}
		answers = append(answers, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating answers: %w", err)
	}
	return answers, nil
}

func (r *SQLiteAnswerRepo) CountAnswered(ctx context.Context, planID string) (int, error) {
	query := `SELECT COUNT(*) FROM answers WHERE plan_id = ? AND required = 1 AND answer != ''`
	var n int
	if err := r.db.QueryRowContext(ctx, query, planID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting answered questions: %w", err)
	}
	return n, nil
}
