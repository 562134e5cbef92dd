package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage"
)

const invoiceColumns = `id, case_id, client_name, invoice_number, amount,
	hourly_rate, hours, description, status, due_date, created_by, created_at, updated_at`

// ListInvoices returns the owner's invoices, newest first. A non-empty
// caseID restricts the listing to one case.
func (s *Store) ListInvoices(ctx context.Context, caseID string) ([]*api.Invoice, error) {
	owner := storage.GetOwner(ctx)

	query := "SELECT " + invoiceColumns + " FROM invoices WHERE created_by = $1"
	args := []any{owner}
	if caseID != "" {
		query += " AND case_id = $2"
		args = append(args, caseID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying invoices: %w", err)
	}
	defer rows.Close()

	var out []*api.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// GetInvoice returns the owner's invoice with the given identifier.
func (s *Store) GetInvoice(ctx context.Context, id string) (*api.Invoice, error) {
	owner := storage.GetOwner(ctx)
	row := s.pool.QueryRow(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id = $1 AND created_by = $2",
		id, owner)
	return scanInvoice(row)
}

// CreateInvoice assigns the invoice number from the owner's sequence and
// persists the invoice. Both happen in one transaction so concurrent
// creates never reuse a number.
func (s *Store) CreateInvoice(ctx context.Context, inv *api.Invoice) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var counter int
	err = tx.QueryRow(ctx, `
		INSERT INTO invoice_sequences (owner_id, counter) VALUES ($1, 1)
		ON CONFLICT (owner_id) DO UPDATE SET counter = invoice_sequences.counter + 1
		RETURNING counter
	`, inv.CreatedBy).Scan(&counter)
	if err != nil {
		return fmt.Errorf("advancing invoice sequence: %w", err)
	}

	inv.InvoiceNumber = fmt.Sprintf("INV-%04d-%d", counter, inv.CreatedAt.Year())

	_, err = tx.Exec(ctx, `
		INSERT INTO invoices (
			id, case_id, client_name, invoice_number, amount, hourly_rate,
			hours, description, status, due_date, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		inv.ID, inv.CaseID, inv.ClientName, inv.InvoiceNumber, inv.Amount,
		inv.HourlyRate, inv.Hours, inv.Description, string(inv.Status),
		inv.DueDate, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting invoice: %w", err)
	}

	return tx.Commit(ctx)
}

// UpdateInvoice overwrites the owner's invoice. The invoice number is
// immutable once assigned.
func (s *Store) UpdateInvoice(ctx context.Context, inv *api.Invoice) error {
	owner := storage.GetOwner(ctx)
	result, err := s.pool.Exec(ctx, `
		UPDATE invoices SET
			case_id = $3, client_name = $4, amount = $5, hourly_rate = $6,
			hours = $7, description = $8, status = $9, due_date = $10,
			updated_at = $11
		WHERE id = $1 AND created_by = $2
	`,
		inv.ID, owner, inv.CaseID, inv.ClientName, inv.Amount, inv.HourlyRate,
		inv.Hours, inv.Description, string(inv.Status), inv.DueDate, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteInvoice removes the owner's invoice.
func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	owner := storage.GetOwner(ctx)
	result, err := s.pool.Exec(ctx,
		"DELETE FROM invoices WHERE id = $1 AND created_by = $2", id, owner)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanInvoice(row pgx.Row) (*api.Invoice, error) {
	var inv api.Invoice
	var status string
	err := row.Scan(
		&inv.ID, &inv.CaseID, &inv.ClientName, &inv.InvoiceNumber, &inv.Amount,
		&inv.HourlyRate, &inv.Hours, &inv.Description, &status, &inv.DueDate,
		&inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying invoice: %w", err)
	}
	inv.Status = api.InvoiceStatus(status)
	return &inv, nil
}
