package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

const verifyTokenBytes = 32

var otpSpace = big.NewInt(1000000)

// NewVerifyToken returns a hex-encoded 256-bit random token. Possession
// of the token is the proof of email access, so it comes straight from
// crypto/rand and is never logged or stored in plaintext.
func NewVerifyToken() (string, error) {
	buf := make([]byte, verifyTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// NewOTP returns a six-digit code drawn uniformly from 000000-999999.
// Leading zeros are preserved; the code is a string, not a number.
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashToken returns the hex-encoded SHA-256 of a token or OTP for
// storage. Hash equality is string equality, so conditional updates
// keyed on the hash keep their exact-match semantics.
func HashToken(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
