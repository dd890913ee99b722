package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/planweave/planweave/internal/db"
	"github.com/planweave/planweave/internal/domain"
)

// SQLiteShareRepo implements ShareRepo on SQLite.
type SQLiteShareRepo struct {
	db db.DBTX
}

// NewSQLiteShareRepo creates a new SQLiteShareRepo.
func NewSQLiteShareRepo(conn db.DBTX) *SQLiteShareRepo {
	return &SQLiteShareRepo{db: conn}
}

const shareColumns = `id, plan_id, target_user_id, is_public, token, permission,
	active, expires_at, last_accessed_at, access_count, created_by, created_at`

func (r *SQLiteShareRepo) Create(ctx context.Context, g *domain.ShareGrant) error {
	query := `INSERT INTO share_grants (` + shareColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var token interface{}
	if g.Token != "" {
		token = g.Token
	}
	_, err := r.db.ExecContext(ctx, query,
		g.ID,
		g.PlanID,
		nullableString(g.TargetUserID),
		boolToInt(g.IsPublic),
		token,
		string(g.Permission),
		boolToInt(g.Active),
		nullableTimeToString(g.ExpiresAt),
		nullableTimeToString(g.LastAccessedAt),
		g.AccessCount,
		g.CreatedBy,
		g.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting share grant: %w", err)
	}
	return nil
}

func (r *SQLiteShareRepo) GetByID(ctx context.Context, id string) (*domain.ShareGrant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+shareColumns+` FROM share_grants WHERE id = ?`, id)
	return scanShare(row)
}

func (r *SQLiteShareRepo) GetByToken(ctx context.Context, token string) (*domain.ShareGrant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+shareColumns+` FROM share_grants WHERE token = ?`, token)
	return scanShare(row)
}

func (r *SQLiteShareRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.ShareGrant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+shareColumns+` FROM share_grants WHERE plan_id = ? ORDER BY created_at`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing share grants: %w", err)
	}
	defer rows.Close()

	var grants []*domain.ShareGrant
	for rows.Next() {
		g, err := scanShareFromRows(rows)
		if err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating share grants: %w", err)
	}
	return grants, nil
}

func (r *SQLiteShareRepo) TokenExists(ctx context.Context, token string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM share_grants WHERE token = ?`, token).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking token uniqueness: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteShareRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE share_grants SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("setting share grant active flag: %w", err)
	}
	return requireOneRow(res, id)
}

func (r *SQLiteShareRepo) UpdatePermission(ctx context.Context, id string, p domain.SharePermission) error {
	res, err := r.db.ExecContext(ctx, `UPDATE share_grants SET permission = ? WHERE id = ?`, string(p), id)
	if err != nil {
		return fmt.Errorf("updating share grant permission: %w", err)
	}
	return requireOneRow(res, id)
}

func (r *SQLiteShareRepo) RecordAccess(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE share_grants SET access_count = access_count + 1, last_accessed_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, at.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("recording share grant access: %w", err)
	}
	return requireOneRow(res, id)
}

func requireOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("share grant %s: %w", id, ErrNotFound)
	}
	return nil
}

type shareScanner interface {
	Scan(dest ...any) error
}

func scanShareRow(sc shareScanner) (*domain.ShareGrant, error) {
	var g domain.ShareGrant
	var targetUser, token, expiresAtStr, lastAccessedStr sql.NullString
	var isPublicInt, activeInt int
	var permissionStr, createdAtStr string

	err := sc.Scan(
		&g.ID, &g.PlanID, &targetUser, &isPublicInt, &token, &permissionStr,
		&activeInt, &expiresAtStr, &lastAccessedStr, &g.AccessCount,
		&g.CreatedBy, &createdAtStr,
	)
	if err != nil {
		return nil, err
	}

	if targetUser.Valid {
		v := targetUser.String
		g.TargetUserID = &v
	}
	g.IsPublic = intToBool(isPublicInt)
	if token.Valid {
		g.Token = token.String
	}
	g.Permission = domain.SharePermission(permissionStr)
	g.Active = intToBool(activeInt)
	g.ExpiresAt = parseNullableTime(expiresAtStr)
	g.LastAccessedAt = parseNullableTime(lastAccessedStr)
	if g.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing share grant created_at: %w", err)
	}
	return &g, nil
}

func scanShare(row *sql.Row) (*domain.ShareGrant, error) {
	g, err := scanShareRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("share grant: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning share grant: %w", err)
	}
	return g, nil
}

func scanShareFromRows(rows *sql.Rows) (*domain.ShareGrant, error) {
	g, err := scanShareRow(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning share grant row: %w", err)
	}
	return g, nil
}
