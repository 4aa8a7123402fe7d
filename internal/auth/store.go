package auth

import (
	"context"
	"time"
)

// AccountStore is the persistence collaborator for account records.
//
// Every method that consumes a token or OTP is a single conditional
// match-and-mutate: the store applies the mutation only where the
// expected field value still holds, so two concurrent consumers of the
// same credential can never both succeed. Distinct accounts are fully
// independent; no cross-account coordination is required of
// implementations.
//
// Callers pass emails already normalized; the store compares exact
// strings.
type AccountStore interface {
	// Create inserts a new account. ErrDuplicateEmail when the email
	// is already taken; the existing record is left untouched.
	Create(ctx context.Context, account *Account) error

	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)

	// ConsumeVerifyToken marks the matching account verified and
	// clears its token in one step. ErrAccountNotFound when no account
	// holds tokenHash, which covers never-issued and already-consumed
	// tokens identically.
	ConsumeVerifyToken(ctx context.Context, tokenHash string) (*Account, error)

	// SetResetOTP stores a new OTP hash and expiry on the account,
	// replacing any previous one.
	SetResetOTP(ctx context.Context, id, otpHash string, expiry time.Time) error

	// ConsumeResetOTP replaces the password hash and clears the OTP in
	// one step, only where email and otpHash match and the stored
	// expiry is strictly after now. ErrAccountNotFound on any
	// mismatch; the caller must not distinguish the reasons.
	ConsumeResetOTP(ctx context.Context, email, otpHash string, now time.Time, newPasswordHash string) (*Account, error)
}
