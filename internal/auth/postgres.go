package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const accountColumns = `id, name, email, password_hash, is_verified, verify_token_hash, reset_otp_hash, reset_otp_expiry, created_at, updated_at`

// PostgresStore persists accounts with pgx. All token and OTP
// consumption happens inside single conditional UPDATE statements, so
// the row-level atomicity of Postgres serializes concurrent
// transitions on the same account.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, account *Account) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO accounts
		(id, name, email, password_hash, is_verified, verify_token_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, account.ID, account.Name, account.Email, account.PasswordHash,
		account.IsVerified, account.VerifyTokenHash, account.CreatedAt, account.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE email = $1
	`, email)
	return scanAccount(row)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Account, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, id)
	return scanAccount(row)
}

func (s *PostgresStore) ConsumeVerifyToken(ctx context.Context, tokenHash string) (*Account, error) {
	if tokenHash == "" {
		return nil, ErrAccountNotFound
	}

	row := s.db.QueryRow(ctx, `
		UPDATE accounts
		SET is_verified = TRUE, verify_token_hash = '', updated_at = NOW()
		WHERE verify_token_hash = $1
		RETURNING `+accountColumns+`
	`, tokenHash)
	return scanAccount(row)
}

func (s *PostgresStore) SetResetOTP(ctx context.Context, id, otpHash string, expiry time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE accounts
		SET reset_otp_hash = $1, reset_otp_expiry = $2, updated_at = NOW()
		WHERE id = $3
	`, otpHash, expiry, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *PostgresStore) ConsumeResetOTP(ctx context.Context, email, otpHash string, now time.Time, newPasswordHash string) (*Account, error) {
	if otpHash == "" {
		return nil, ErrAccountNotFound
	}

	row := s.db.QueryRow(ctx, `
		UPDATE accounts
		SET password_hash = $1, reset_otp_hash = '', reset_otp_expiry = NULL, updated_at = NOW()
		WHERE email = $2 AND reset_otp_hash = $3 AND reset_otp_expiry > $4
		RETURNING `+accountColumns+`
	`, newPasswordHash, email, otpHash, now)
	return scanAccount(row)
}

func scanAccount(row pgx.Row) (*Account, error) {
	var account Account
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.IsVerified,
		&account.VerifyTokenHash,
		&account.ResetOTPHash,
		&account.ResetOTPExpiry,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}
