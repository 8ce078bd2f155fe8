// internal/repository/postgres/account_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"kynix-service/internal/domain/auth"
	xerrors "kynix-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `
	id, email, password_hash, first_name, last_name, role, permissions,
	is_active, created_at, last_login_at, designation
`

func (r *AccountRepository) scanAccount(row pgx.Row) (*auth.Account, error) {
	var a auth.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName,
		&a.Role, &a.Permissions, &a.IsActive, &a.CreatedAt,
		&a.LastLoginAt, &a.Designation,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &a, nil
}

// FindByID looks up an account by its stable user id.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*auth.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

// FindByEmail looks up an account by email.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanAccount(r.db.QueryRow(ctx, query, email))
}

// Create inserts a new account and fills the generated id and timestamp.
func (r *AccountRepository) Create(ctx context.Context, a *auth.Account) error {
	query := `
		INSERT INTO accounts (email, password_hash, first_name, last_name, role, permissions, is_active, designation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		a.Email, a.PasswordHash, a.FirstName, a.LastName,
		a.Role, a.Permissions, a.IsActive, a.Designation,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// ExistsByEmail reports whether an account with this email exists.
func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin stamps a successful login.
func (r *AccountRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	query := `UPDATE accounts SET last_login_at = NOW() WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
