package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage"
)

const documentColumns = `id, case_id, name, type, category, file_url, file_size,
	file_type, description, status, uploaded_by, created_by, created_at, updated_at`

// ListDocuments returns the owner's document metadata matching the
// filter, newest first.
func (s *Store) ListDocuments(ctx context.Context, f storage.DocumentFilter) ([]*api.Document, error) {
	owner := storage.GetOwner(ctx)

	query := "SELECT " + documentColumns + " FROM documents WHERE created_by = $1"
	args := []any{owner}
	argIdx := 2

	if f.CaseID != "" {
		query += fmt.Sprintf(" AND case_id = $%d", argIdx)
		args = append(args, f.CaseID)
		argIdx++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}

	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var out []*api.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDocument returns the owner's document with the given identifier.
func (s *Store) GetDocument(ctx context.Context, id string) (*api.Document, error) {
	owner := storage.GetOwner(ctx)
	row := s.pool.QueryRow(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = $1 AND created_by = $2",
		id, owner)
	return scanDocument(row)
}

// CreateDocument persists new document metadata.
func (s *Store) CreateDocument(ctx context.Context, d *api.Document) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO documents (
			id, case_id, name, type, category, file_url, file_size, file_type,
			description, status, uploaded_by, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		d.ID, d.CaseID, d.Name, d.Type, d.Category, d.FileURL, d.FileSize,
		d.FileType, d.Description, d.Status, d.UploadedBy,
		d.CreatedBy, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// DeleteDocument removes the owner's document metadata.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	owner := storage.GetOwner(ctx)
	result, err := s.pool.Exec(ctx,
		"DELETE FROM documents WHERE id = $1 AND created_by = $2", id, owner)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanDocument(row pgx.Row) (*api.Document, error) {
	var d api.Document
	err := row.Scan(
		&d.ID, &d.CaseID, &d.Name, &d.Type, &d.Category, &d.FileURL,
		&d.FileSize, &d.FileType, &d.Description, &d.Status, &d.UploadedBy,
		&d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}
	return &d, nil
}
