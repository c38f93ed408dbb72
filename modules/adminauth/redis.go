package adminauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/utadmin/pkg/totp"
)

// credentialKeyPrefix namespaces directory records in the shared Redis instance.
const credentialKeyPrefix = "adminauth:credential:"

// RedisDirectory implements Directory on top of Redis, giving enrolled
// credentials durability across process restarts. Records are stored as JSON
// under adminauth:credential:<email>; when an encryption key is configured
// the TOTP secret field is sealed with AES-256-GCM before it leaves the
// process.
type RedisDirectory struct {
	client redis.UniversalClient
	encKey []byte
}

// RedisDirectoryOption configures a RedisDirectory.
type RedisDirectoryOption func(*RedisDirectory)

// WithEncryptionKey enables at-rest encryption of stored secrets with the
// given 32-byte AES-256 key.
func WithEncryptionKey(key []byte) RedisDirectoryOption {
	return func(d *RedisDirectory) {
		if len(key) > 0 {
			d.encKey = key
		}
	}
}

// NewRedisDirectory creates a Redis-backed credential directory.
func NewRedisDirectory(client redis.UniversalClient, opts ...RedisDirectoryOption) *RedisDirectory {
	d := &RedisDirectory{client: client}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func credentialKey(email string) string {
	return credentialKeyPrefix + NormalizeEmail(email)
}

func (d *RedisDirectory) seal(cred Credential) (Credential, error) {
	if d.encKey == nil {
		return cred, nil
	}
	sealed, err := totp.EncryptSecret(cred.Secret, d.encKey)
	if err != nil {
		return Credential{}, err
	}
	cred.Secret = sealed
	return cred, nil
}

func (d *RedisDirectory) unseal(cred Credential) (Credential, error) {
	if d.encKey == nil {
		return cred, nil
	}
	secret, err := totp.DecryptSecret(cred.Secret, d.encKey)
	if err != nil {
		return Credential{}, err
	}
	cred.Secret = secret
	return cred, nil
}

// Add inserts or replaces the credential for its normalized email.
func (d *RedisDirectory) Add(ctx context.Context, cred Credential) error {
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

	cred, err := d.seal(cred)
	if err != nil {
		return errors.Join(ErrFailedToStoreCredential, err)
	}

	payload, err := json.Marshal(cred)
	if err != nil {
		return errors.Join(ErrFailedToStoreCredential, err)
	}

	if err := d.client.Set(ctx, credentialKey(cred.Email), payload, 0).Err(); err != nil {
		return errors.Join(ErrFailedToStoreCredential, err)
	}
	return nil
}

// Get retrieves the credential for the email.
func (d *RedisDirectory) Get(ctx context.Context, email string) (*Credential, error) {
	payload, err := d.client.Get(ctx, credentialKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrUnknownAccount
		}
		return nil, err
	}

	var cred Credential
	if err := json.Unmarshal(payload, &cred); err != nil {
		return nil, errors.Join(ErrInvalidCredential, err)
	}
	cred, err = d.unseal(cred)
	if err != nil {
		return nil, errors.Join(ErrInvalidCredential, err)
	}
	return &cred, nil
}

// Remove deletes the credential for the email, reporting whether one existed.
func (d *RedisDirectory) Remove(ctx context.Context, email string) (bool, error) {
	removed, err := d.client.Del(ctx, credentialKey(email)).Result()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

// List scans the credential namespace and returns all stored records.
func (d *RedisDirectory) List(ctx context.Context) ([]Credential, error) {
	var creds []Credential

	iter := d.client.Scan(ctx, 0, credentialKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		payload, err := d.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // removed between SCAN and GET
			}
			return nil, err
		}

		var cred Credential
		if err := json.Unmarshal(payload, &cred); err != nil {
			return nil, errors.Join(ErrInvalidCredential, fmt.Errorf("key %s: %w", iter.Val(), err))
		}
		cred, err = d.unseal(cred)
		if err != nil {
			return nil, errors.Join(ErrInvalidCredential, err)
		}
		creds = append(creds, cred)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return creds, nil
}

// SetDisabled flips the administrative inactive flag for the email.
func (d *RedisDirectory) SetDisabled(ctx context.Context, email string, disabled bool) error {
	return d.update(ctx, email, func(cred *Credential) {
		cred.Disabled = disabled
	})
}

// TouchLastLogin records a successful verification time for the email.
func (d *RedisDirectory) TouchLastLogin(ctx context.Context, email string, at time.Time) error {
	return d.update(ctx, email, func(cred *Credential) {
		cred.LastLoginAt = &at
	})
}

// update applies a read-modify-write on a single credential. Concurrent
// updates to the same email resolve to the last writer, matching the
// directory contract.
func (d *RedisDirectory) update(ctx context.Context, email string, apply func(*Credential)) error {
	cred, err := d.Get(ctx, email)
	if err != nil {
		return err
	}
	apply(cred)
	return d.Add(ctx, *cred)
}
