package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage"
)

const taskColumns = `id, case_id, title, description, assigned_to, status,
	priority, due_date, deadline, completed_at, created_by, created_at, updated_at`

// ListTasks returns the owner's tasks, newest first. A non-empty caseID
// restricts the listing to one case.
func (s *Store) ListTasks(ctx context.Context, caseID string) ([]*api.Task, error) {
	owner := storage.GetOwner(ctx)

	query := "SELECT " + taskColumns + " FROM tasks WHERE created_by = $1"
	args := []any{owner}
	if caseID != "" {
		query += " AND case_id = $2"
		args = append(args, caseID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var out []*api.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTask returns the owner's task with the given identifier.
func (s *Store) GetTask(ctx context.Context, id string) (*api.Task, error) {
	owner := storage.GetOwner(ctx)
	row := s.pool.QueryRow(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = $1 AND created_by = $2",
		id, owner)
	return scanTask(row)
}

// CreateTask persists a new task.
func (s *Store) CreateTask(ctx context.Context, t *api.Task) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tasks (
			id, case_id, title, description, assigned_to, status, priority,
			due_date, deadline, completed_at, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		t.ID, t.CaseID, t.Title, t.Description, t.AssignedTo,
		string(t.Status), string(t.Priority),
		t.DueDate, t.Deadline, t.CompletedAt,
		t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

// UpdateTask overwrites the owner's task.
func (s *Store) UpdateTask(ctx context.Context, t *api.Task) error {
	owner := storage.GetOwner(ctx)
	result, err := s.pool.Exec(ctx, `
		UPDATE tasks SET
			case_id = $3, title = $4, description = $5, assigned_to = $6,
			status = $7, priority = $8, due_date = $9, deadline = $10,
			completed_at = $11, updated_at = $12
		WHERE id = $1 AND created_by = $2
	`,
		t.ID, owner, t.CaseID, t.Title, t.Description, t.AssignedTo,
		string(t.Status), string(t.Priority), t.DueDate, t.Deadline,
		t.CompletedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteTask removes the owner's task.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	owner := storage.GetOwner(ctx)
	result, err := s.pool.Exec(ctx,
		"DELETE FROM tasks WHERE id = $1 AND created_by = $2", id, owner)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*api.Task, error) {
	var t api.Task
	var status, priority string
	err := row.Scan(
		&t.ID, &t.CaseID, &t.Title, &t.Description, &t.AssignedTo,
		&status, &priority, &t.DueDate, &t.Deadline, &t.CompletedAt,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	t.Status = api.TaskStatus(status)
	t.Priority = api.Priority(priority)
	return &t, nil
}
