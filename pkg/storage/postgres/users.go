package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage"
)

const userColumns = `id, email, name, role, organization, practice_area,
	experience_years, is_onboarded, otp_code, otp_expires_at, created_at, updated_at`

// GetUserByEmail returns the account for the given email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*api.User, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

// GetUserByID returns the account with the given identifier.
func (s *Store) GetUserByID(ctx context.Context, id string) (*api.User, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// CreateUser persists a new account.
func (s *Store) CreateUser(ctx context.Context, u *api.User) error {
	var otpCode *string
	var otpExpiresAt *time.Time
	if u.Pending != nil {
		otpCode = &u.Pending.Code
		otpExpiresAt = &u.Pending.ExpiresAt
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (
			id, email, name, role, organization, practice_area,
			experience_years, is_onboarded, otp_code, otp_expires_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		u.ID, u.Email, u.Name, string(u.Role), u.Organization, u.PracticeArea,
		u.ExperienceYears, u.IsOnboarded, otpCode, otpExpiresAt,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// UpdateUser overwrites an existing account, including its pending code.
func (s *Store) UpdateUser(ctx context.Context, u *api.User) error {
	var otpCode *string
	var otpExpiresAt *time.Time
	if u.Pending != nil {
		otpCode = &u.Pending.Code
		otpExpiresAt = &u.Pending.ExpiresAt
	}

	result, err := s.pool.Exec(ctx, `
		UPDATE users SET
			email = $2, name = $3, role = $4, organization = $5,
			practice_area = $6, experience_years = $7, is_onboarded = $8,
			otp_code = $9, otp_expires_at = $10, updated_at = $11
		WHERE id = $1
	`,
		u.ID, u.Email, u.Name, string(u.Role), u.Organization,
		u.PracticeArea, u.ExperienceYears, u.IsOnboarded,
		otpCode, otpExpiresAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*api.User, error) {
	var u api.User
	var role string
	var otpCode *string
	var otpExpiresAt *time.Time

	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &role, &u.Organization, &u.PracticeArea,
		&u.ExperienceYears, &u.IsOnboarded, &otpCode, &otpExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	u.Role = api.Role(role)
	if otpCode != nil && otpExpiresAt != nil {
		u.Pending = api.NewPendingCode(*otpCode, *otpExpiresAt)
	}
	return &u, nil
}
