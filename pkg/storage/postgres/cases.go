package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage"
)

const caseColumns = `id, title, description, client_id, client_name, status,
	priority, case_type, court, start_date, deadline, billable_hours, tags,
	created_by, created_at, updated_at`

// ListCases returns the owner's cases matching the filter, newest first.
func (s *Store) ListCases(ctx context.Context, f storage.CaseFilter) ([]*api.Case, error) {
	owner := storage.GetOwner(ctx)

	query := "SELECT " + caseColumns + " FROM cases WHERE created_by = $1"
	args := []any{owner}
	argIdx := 2

	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(f.Status))
		argIdx++
	}
	if f.Priority != "" {
		query += fmt.Sprintf(" AND priority = $%d", argIdx)
		args = append(args, string(f.Priority))
		argIdx++
	}
	if f.ClientID != "" {
		query += fmt.Sprintf(" AND client_id = $%d", argIdx)
		args = append(args, f.ClientID)
		argIdx++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR client_name ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}

	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cases: %w", err)
	}
	defer rows.Close()

	var out []*api.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCase returns the owner's case with the given identifier.
func (s *Store) GetCase(ctx context.Context, id string) (*api.Case, error) {
	owner := storage.GetOwner(ctx)
	row := s.pool.QueryRow(ctx,
		"SELECT "+caseColumns+" FROM cases WHERE id = $1 AND created_by = $2",
		id, owner)
	return scanCase(row)
}

// CreateCase persists a new case.
func (s *Store) CreateCase(ctx context.Context, c *api.Case) error {
	tagsJSON, err := marshalTags(c.Tags)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO cases (
			id, title, description, client_id, client_name, status, priority,
			case_type, court, start_date, deadline, billable_hours, tags,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		c.ID, c.Title, c.Description, c.ClientID, c.ClientName,
		string(c.Status), string(c.Priority), c.CaseType, c.Court,
		c.StartDate, c.Deadline, c.BillableHours, tagsJSON,
		c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting case: %w", err)
	}
	return nil
}

// UpdateCase overwrites the owner's case.
func (s *Store) UpdateCase(ctx context.Context, c *api.Case) error {
	owner := storage.GetOwner(ctx)
	tagsJSON, err := marshalTags(c.Tags)
	if err != nil {
		return err
	}

	result, err := s.pool.Exec(ctx, `
		UPDATE cases SET
			title = $3, description = $4, client_id = $5, client_name = $6,
			status = $7, priority = $8, case_type = $9, court = $10,
			start_date = $11, deadline = $12, billable_hours = $13, tags = $14,
			updated_at = $15
		WHERE id = $1 AND created_by = $2
	`,
		c.ID, owner, c.Title, c.Description, c.ClientID, c.ClientName,
		string(c.Status), string(c.Priority), c.CaseType, c.Court,
		c.StartDate, c.Deadline, c.BillableHours, tagsJSON, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating case: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteCase removes the owner's case.
func (s *Store) DeleteCase(ctx context.Context, id string) error {
	owner := storage.GetOwner(ctx)
	result, err := s.pool.Exec(ctx,
		"DELETE FROM cases WHERE id = $1 AND created_by = $2", id, owner)
	if err != nil {
		return fmt.Errorf("deleting case: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanCase(row pgx.Row) (*api.Case, error) {
	var c api.Case
	var status, priority string
	var tagsJSON []byte

	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.ClientID, &c.ClientName,
		&status, &priority, &c.CaseType, &c.Court,
		&c.StartDate, &c.Deadline, &c.BillableHours, &tagsJSON,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying case: %w", err)
	}

	c.Status = api.CaseStatus(status)
	c.Priority = api.Priority(priority)
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &c.Tags); err != nil {
			return nil, fmt.Errorf("unmarshaling tags: %w", err)
		}
	}
	return &c, nil
}

// marshalTags serializes a tag list for the JSONB column, using NULL for
// an empty list.
func marshalTags(tags []string) ([]byte, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("marshaling tags: %w", err)
	}
	return b, nil
}
