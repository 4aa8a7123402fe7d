package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps accounts in process memory. It backs the server
// when no DATABASE_URL is configured and is the store used by tests.
// A single mutex serializes every transition, which trivially gives
// the per-account match-and-mutate guarantee.
type MemoryStore struct {
	mu       sync.Mutex
	byID     map[string]*Account
	idByMail map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:     make(map[string]*Account),
		idByMail: make(map[string]string),
	}
}

func (m *MemoryStore) Create(_ context.Context, account *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.idByMail[account.Email]; taken {
		return ErrDuplicateEmail
	}

	stored := *account
	m.byID[stored.ID] = &stored
	m.idByMail[stored.Email] = stored.ID
	return nil
}

func (m *MemoryStore) FindByEmail(_ context.Context, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.idByMail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return cloneAccount(m.byID[id]), nil
}

func (m *MemoryStore) FindByID(_ context.Context, id string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.byID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

func (m *MemoryStore) ConsumeVerifyToken(_ context.Context, tokenHash string) (*Account, error) {
	if tokenHash == "" {
		return nil, ErrAccountNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, account := range m.byID {
		if account.VerifyTokenHash == tokenHash {
			account.IsVerified = true
			account.VerifyTokenHash = ""
			account.UpdatedAt = time.Now()
			return cloneAccount(account), nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *MemoryStore) SetResetOTP(_ context.Context, id, otpHash string, expiry time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	account.ResetOTPHash = otpHash
	account.ResetOTPExpiry = &expiry
	account.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) ConsumeResetOTP(_ context.Context, email, otpHash string, now time.Time, newPasswordHash string) (*Account, error) {
	if otpHash == "" {
		return nil, ErrAccountNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.idByMail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	account := m.byID[id]
	if account.ResetOTPHash != otpHash {
		return nil, ErrAccountNotFound
	}
	if account.ResetOTPExpiry == nil || !account.ResetOTPExpiry.After(now) {
		return nil, ErrAccountNotFound
	}

	account.PasswordHash = newPasswordHash
	account.ResetOTPHash = ""
	account.ResetOTPExpiry = nil
	account.UpdatedAt = time.Now()
	return cloneAccount(account), nil
}

func cloneAccount(account *Account) *Account {
	clone := *account
	if account.ResetOTPExpiry != nil {
		expiry := *account.ResetOTPExpiry
		clone.ResetOTPExpiry = &expiry
	}
	return &clone
}
