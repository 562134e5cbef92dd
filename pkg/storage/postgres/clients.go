package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage"
)

const clientColumns = `id, name, email, phone, company, address, notes,
	created_by, created_at, updated_at`

// ListClients returns the owner's clients, newest first.
func (s *Store) ListClients(ctx context.Context) ([]*api.Client, error) {
	owner := storage.GetOwner(ctx)
	rows, err := s.pool.Query(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE created_by = $1 ORDER BY created_at DESC, id DESC",
		owner)
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	defer rows.Close()

	var out []*api.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetClient returns the owner's client with the given identifier.
func (s *Store) GetClient(ctx context.Context, id string) (*api.Client, error) {
	owner := storage.GetOwner(ctx)
	row := s.pool.QueryRow(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE id = $1 AND created_by = $2",
		id, owner)
	return scanClient(row)
}

// CreateClient persists a new client.
func (s *Store) CreateClient(ctx context.Context, c *api.Client) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO clients (
			id, name, email, phone, company, address, notes,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		c.ID, c.Name, c.Email, c.Phone, c.Company, c.Address, c.Notes,
		c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting client: %w", err)
	}
	return nil
}

// UpdateClient overwrites the owner's client.
func (s *Store) UpdateClient(ctx context.Context, c *api.Client) error {
	owner := storage.GetOwner(ctx)
	result, err := s.pool.Exec(ctx, `
		UPDATE clients SET
			name = $3, email = $4, phone = $5, company = $6,
			address = $7, notes = $8, updated_at = $9
		WHERE id = $1 AND created_by = $2
	`,
		c.ID, owner, c.Name, c.Email, c.Phone, c.Company,
		c.Address, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteClient removes the owner's client.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	owner := storage.GetOwner(ctx)
	result, err := s.pool.Exec(ctx,
		"DELETE FROM clients WHERE id = $1 AND created_by = $2", id, owner)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanClient(row pgx.Row) (*api.Client, error) {
	var c api.Client
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address, &c.Notes,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying client: %w", err)
	}
	return &c, nil
}
