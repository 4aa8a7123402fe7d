package auth

import "time"

// Account is a single identity record. Email is unique across all
// accounts; lookups use the normalized (trimmed, lowercased) form.
//
// VerifyTokenHash and ResetOTPHash hold SHA-256 hashes of the
// credentials mailed to the user, never the plaintext. An empty string
// means no token/OTP is outstanding. ResetOTPExpiry is set whenever
// ResetOTPHash is.
type Account struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	IsVerified      bool
	VerifyTokenHash string
	ResetOTPHash    string
	ResetOTPExpiry  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Profile is the public projection of an account returned to clients.
// It never carries the password hash or any outstanding tokens.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a *Account) Profile() Profile {
	return Profile{ID: a.ID, Name: a.Name, Email: a.Email}
}
