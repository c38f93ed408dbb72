package adminauth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryDirectory implements Directory with an in-process map. It is the
// development default; credentials added after startup do not survive a
// process restart, so production deployments should use RedisDirectory.
type MemoryDirectory struct {
	mu    sync.RWMutex
	creds map[string]*Credential
}

// NewMemoryDirectory creates an empty in-memory credential directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		creds: make(map[string]*Credential),
	}
}

// Add inserts or replaces the credential for its normalized email.
func (m *MemoryDirectory) Add(_ context.Context, cred Credential) error {
	cred.Email = NormalizeEmail(cred.Email)
	if cred.Email == "" || cred.Secret == "" {
		return ErrInvalidCredential
	}
	if cred.ID == uuid.Nil {
		cred.ID = uuid.New()
	}
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.creds[cred.Email] = &cred
	return nil
}

// Get retrieves a copy of the credential for the email.
func (m *MemoryDirectory) Get(_ context.Context, email string) (*Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cred, exists := m.creds[NormalizeEmail(email)]
	if !exists {
		return nil, ErrUnknownAccount
	}

	credCopy := *cred
	return &credCopy, nil
}

// Remove deletes the credential for the email, reporting whether one existed.
func (m *MemoryDirectory) Remove(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := NormalizeEmail(email)
	if _, exists := m.creds[key]; !exists {
		return false, nil
	}
	delete(m.creds, key)
	return true, nil
}

// List returns copies of all stored credentials.
func (m *MemoryDirectory) List(_ context.Context) ([]Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	creds := make([]Credential, 0, len(m.creds))
	for _, cred := range m.creds {
		creds = append(creds, *cred)
	}
	return creds, nil
}

// SetDisabled flips the administrative inactive flag for the email.
func (m *MemoryDirectory) SetDisabled(_ context.Context, email string, disabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cred, exists := m.creds[NormalizeEmail(email)]
	if !exists {
		return ErrUnknownAccount
	}
	cred.Disabled = disabled
	return nil
}

// TouchLastLogin records a successful verification time for the email.
func (m *MemoryDirectory) TouchLastLogin(_ context.Context, email string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cred, exists := m.creds[NormalizeEmail(email)]
	if !exists {
		return ErrUnknownAccount
	}
	cred.LastLoginAt = &at
	return nil
}
