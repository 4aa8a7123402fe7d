package auth

import "errors"

var (
	// ErrDuplicateEmail is returned by Create when the email is taken.
	ErrDuplicateEmail = errors.New("account already exists")

	// ErrAccountNotFound is returned by store lookups and conditional
	// updates that matched no account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidToken covers unknown and already-consumed verification
	// tokens. Consumed tokens are cleared, so the two cases are
	// indistinguishable on purpose.
	ErrInvalidToken = errors.New("invalid or expired verification token")

	// ErrInvalidCredentials covers both unknown email and wrong
	// password so login responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotVerified is returned by Login before the password is even
	// checked when the account has not completed email verification.
	ErrNotVerified = errors.New("email not verified")

	// ErrInvalidOTP covers wrong email, wrong code and expired code
	// during a password reset, collapsed to one value.
	ErrInvalidOTP = errors.New("invalid or expired otp")

	// ErrUnhashablePassword is returned for input the hasher refuses:
	// empty, or longer than bcrypt's 72-byte limit.
	ErrUnhashablePassword = errors.New("password cannot be hashed")

	// ErrInvalidSession is returned when a bearer token fails
	// signature, expiry or claim checks.
	ErrInvalidSession = errors.New("invalid session token")
)
