package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage"
)

const activityColumns = `id, case_id, type, message, user_name,
	created_by, created_at, updated_at`

// ListActivities returns history entries for one case, newest first.
func (s *Store) ListActivities(ctx context.Context, caseID string) ([]*api.Activity, error) {
	owner := storage.GetOwner(ctx)

	query := "SELECT " + activityColumns + " FROM activities WHERE created_by = $1"
	args := []any{owner}
	if caseID != "" {
		query += " AND case_id = $2"
		args = append(args, caseID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()
	return collectActivities(rows)
}

// ListRecentActivities returns the owner's newest entries across all
// cases, up to limit.
func (s *Store) ListRecentActivities(ctx context.Context, limit int) ([]*api.Activity, error) {
	owner := storage.GetOwner(ctx)

	query := "SELECT " + activityColumns + ` FROM activities WHERE created_by = $1
		ORDER BY created_at DESC, id DESC`
	args := []any{owner}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying recent activities: %w", err)
	}
	defer rows.Close()
	return collectActivities(rows)
}

// CreateActivity persists a new history entry.
func (s *Store) CreateActivity(ctx context.Context, a *api.Activity) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO activities (
			id, case_id, type, message, user_name, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, a.ID, a.CaseID, string(a.Type), a.Message, a.User, a.CreatedBy, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

func collectActivities(rows pgx.Rows) ([]*api.Activity, error) {
	var out []*api.Activity
	for rows.Next() {
		var a api.Activity
		var typ string
		if err := rows.Scan(&a.ID, &a.CaseID, &typ, &a.Message, &a.User,
			&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		a.Type = api.ActivityType(typ)
		out = append(out, &a)
	}
	return out, rows.Err()
}
