package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"authflow/internal/email"
)

// Lifecycle drives every credential state transition: signup, email
// verification, login, forgot-password and reset-password. It owns no
// state of its own; all mutation goes through the AccountStore, and
// every consumption of a token or OTP is a single conditional update
// there.
//
// Mail is enqueued after the store commit and never awaited. A
// delivery failure is the queue consumer's problem; it cannot roll
// back a committed transition.
type Lifecycle struct {
	store   AccountStore
	hasher  PasswordHasher
	issuer  *SessionIssuer
	mail    email.Queue
	baseURL string
	otpTTL  time.Duration
	now     func() time.Time
}

func NewLifecycle(store AccountStore, hasher PasswordHasher, issuer *SessionIssuer, mail email.Queue, baseURL string, otpTTL time.Duration) *Lifecycle {
	return &Lifecycle{
		store:   store,
		hasher:  hasher,
		issuer:  issuer,
		mail:    mail,
		baseURL: strings.TrimRight(baseURL, "/"),
		otpTTL:  otpTTL,
		now:     time.Now,
	}
}

// NormalizeEmail is the uniqueness policy: emails are trimmed and
// lowercased before any store call, so lookups and the unique
// constraint agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates an unverified account and mails a single-use
// verification link. The duplicate check is the store's atomic Create,
// not a prior read.
func (l *Lifecycle) Signup(ctx context.Context, name, emailAddr, password string) error {
	emailAddr = NormalizeEmail(emailAddr)

	passwordHash, err := l.hasher.Hash(password)
	if err != nil {
		return err
	}

	token, err := NewVerifyToken()
	if err != nil {
		return err
	}

	now := l.now()
	account := &Account{
		ID:              uuid.NewString(),
		Name:            name,
		Email:           emailAddr,
		PasswordHash:    passwordHash,
		IsVerified:      false,
		VerifyTokenHash: HashToken(token),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := l.store.Create(ctx, account); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/verify/%s", l.baseURL, token)
	l.enqueue(ctx, email.VerificationMessage(emailAddr, link))
	return nil
}

// VerifyEmail consumes a verification token. ErrInvalidToken for
// unknown and already-consumed tokens alike.
func (l *Lifecycle) VerifyEmail(ctx context.Context, token string) error {
	if _, err := l.store.ConsumeVerifyToken(ctx, HashToken(token)); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

// Login authenticates an account and issues a bearer token. Unknown
// email and wrong password both surface as ErrInvalidCredentials; an
// unverified account gets ErrNotVerified before the password is
// checked.
func (l *Lifecycle) Login(ctx context.Context, emailAddr, password string) (string, Profile, error) {
	account, err := l.store.FindByEmail(ctx, NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return "", Profile{}, ErrInvalidCredentials
		}
		return "", Profile{}, err
	}

	if !account.IsVerified {
		return "", Profile{}, ErrNotVerified
	}
	if !l.hasher.Compare(account.PasswordHash, password) {
		return "", Profile{}, ErrInvalidCredentials
	}

	token, err := l.issuer.Issue(account.ID)
	if err != nil {
		return "", Profile{}, err
	}
	return token, account.Profile(), nil
}

// ForgotPassword issues a fresh OTP, replacing any outstanding one,
// and mails it. ErrAccountNotFound propagates: this endpoint reveals
// account existence, matching the upstream behavior.
func (l *Lifecycle) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = NormalizeEmail(emailAddr)

	account, err := l.store.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	otp, err := NewOTP()
	if err != nil {
		return err
	}

	expiry := l.now().Add(l.otpTTL)
	if err := l.store.SetResetOTP(ctx, account.ID, HashToken(otp), expiry); err != nil {
		return err
	}

	// The OTP is committed; the caller is told so even when delivery
	// later fails.
	minutes := int(l.otpTTL / time.Minute)
	l.enqueue(ctx, email.OTPMessage(emailAddr, otp, minutes))
	return nil
}

// ResetPassword consumes an OTP and installs the new password in one
// store operation. Wrong email, wrong code and expired code all
// collapse to ErrInvalidOTP.
func (l *Lifecycle) ResetPassword(ctx context.Context, emailAddr, otp, newPassword string) error {
	newHash, err := l.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	_, err = l.store.ConsumeResetOTP(ctx, NormalizeEmail(emailAddr), HashToken(otp), l.now(), newHash)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrInvalidOTP
		}
		return err
	}
	return nil
}

// Profile loads the public projection for an authenticated account.
func (l *Lifecycle) Profile(ctx context.Context, accountID string) (Profile, error) {
	account, err := l.store.FindByID(ctx, accountID)
	if err != nil {
		return Profile{}, err
	}
	return account.Profile(), nil
}

func (l *Lifecycle) enqueue(ctx context.Context, msg email.Message) {
	if err := l.mail.Enqueue(ctx, msg); err != nil {
		log.Printf("auth: could not enqueue mail to %s: %v", msg.To, err)
	}
}
