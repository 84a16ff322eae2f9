package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/constanfit/constanfit/internal/model"
	"github.com/jackc/pgx/v5"
)

// Common errors for account repository operations.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailExists     = errors.New("email already exists")
)

// CreateAccount inserts the account and its password hash in one transaction.
func (r *Repository) CreateAccount(ctx context.Context, account *model.Account, passwordHash string) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, full_name, has_paid, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		account.ID,
		normalizeEmail(account.Email),
		account.FullName,
		account.HasPaid,
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_credentials (user_id, password_hash)
		VALUES ($1, $2)
	`, account.ID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit account: %w", err)
	}
	return nil
}

// GetAccountByID retrieves an account by its ID.
func (r *Repository) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	query := `
		SELECT id, email, full_name, has_paid, created_at
		FROM users
		WHERE id = $1
	`

	var account model.Account
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Email,
		&account.FullName,
		&account.HasPaid,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	return &account, nil
}

// GetCredentialByEmail returns the account and stored password hash for an email.
func (r *Repository) GetCredentialByEmail(ctx context.Context, email string) (*model.Account, string, error) {
	query := `
		SELECT u.id, u.email, u.full_name, u.has_paid, u.created_at, c.password_hash
		FROM users u
		JOIN user_credentials c ON c.user_id = u.id
		WHERE u.email = $1
	`

	var (
		account model.Account
		hash    string
	)
	err := r.pool.QueryRow(ctx, query, normalizeEmail(email)).Scan(
		&account.ID,
		&account.Email,
		&account.FullName,
		&account.HasPaid,
		&account.CreatedAt,
		&hash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrAccountNotFound
		}
		return nil, "", fmt.Errorf("failed to get credential by email: %w", err)
	}

	return &account, hash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
