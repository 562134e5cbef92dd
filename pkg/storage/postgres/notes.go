package postgres

import (
	"context"
	"fmt"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage"
)

// ListNotes returns the owner's notes, newest first. A non-empty caseID
// restricts the listing to one case.
func (s *Store) ListNotes(ctx context.Context, caseID string) ([]*api.Note, error) {
	owner := storage.GetOwner(ctx)

	query := `SELECT id, case_id, content, created_by, created_at, updated_at
		FROM notes WHERE created_by = $1`
	args := []any{owner}
	if caseID != "" {
		query += " AND case_id = $2"
		args = append(args, caseID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var out []*api.Note
	for rows.Next() {
		var n api.Note
		if err := rows.Scan(&n.ID, &n.CaseID, &n.Content, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// CreateNote persists a new note.
func (s *Store) CreateNote(ctx context.Context, n *api.Note) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notes (id, case_id, content, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, n.ID, n.CaseID, n.Content, n.CreatedBy, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting note: %w", err)
	}
	return nil
}

// DeleteNote removes the owner's note.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	owner := storage.GetOwner(ctx)
	result, err := s.pool.Exec(ctx,
		"DELETE FROM notes WHERE id = $1 AND created_by = $2", id, owner)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
