package adminauth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Credential associates an account email with its enrolled TOTP secret and
// metadata. At most one credential exists per normalized email; re-enrollment
// replaces the record wholesale, invalidating the previous secret.
type Credential struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"` // normalized to lowercase
	Name        string     `json:"name,omitempty"`
	Secret      string     `json:"secret"` // Base32-encoded TOTP secret
	Disabled    bool       `json:"disabled"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// NormalizeEmail lowercases and trims an account identifier. Every directory
// operation keys on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Directory is the credential store the verification and enrollment flows
// operate on. Implementations must be safe for concurrent use and must
// serialize writes to the same email so the last write wins deterministically.
//
// Get returns ErrUnknownAccount for emails with no enrolled credential, as do
// Remove-less mutators (SetDisabled, TouchLastLogin).
type Directory interface {
	// Add inserts or replaces the credential for its email, stamping ID and
	// CreatedAt if unset.
	Add(ctx context.Context, cred Credential) error
	// Get returns a copy of the credential for the email.
	Get(ctx context.Context, email string) (*Credential, error)
	// Remove deletes the credential, reporting whether one existed.
	Remove(ctx context.Context, email string) (bool, error)
	// List returns all credentials for administrative enumeration.
	List(ctx context.Context) ([]Credential, error)
	// SetDisabled flips the administrative inactive flag.
	SetDisabled(ctx context.Context, email string, disabled bool) error
	// TouchLastLogin records a successful verification time.
	TouchLastLogin(ctx context.Context, email string, at time.Time) error
}
