package totp

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"regexp"
	"strings"
)

// DefaultSecretLength is the raw secret size in bytes. 160 bits is the
// minimum shared-secret length RFC 4226 recommends.
const DefaultSecretLength = 20

// ValidateSecretKeyRegex ensures Base32 format: uppercase A-Z, digits 2-7, optional padding
var ValidateSecretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")

// noPadding is the Base32 encoding used for secrets. Authenticator apps
// expect the unpadded uppercase RFC 4648 alphabet.
var noPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateSecretKey generates a new Base32-encoded secret key for TOTP.
func GenerateSecretKey() (string, error) {
	secret := make([]byte, DefaultSecretLength)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Join(ErrFailedToGenerateSecretKey, err)
	}
	return EncodeKey(secret), nil
}

// EncodeKey encodes raw key bytes as an unpadded uppercase Base32 string.
func EncodeKey(key []byte) string {
	return noPadding.EncodeToString(key)
}

// DecodeKey decodes a Base32 secret back into raw key bytes. The decoder is
// permissive about the cosmetic variations that show up in user input:
// mixed case, surrounding whitespace, the spaces inserted by
// FormatManualEntryKey, and trailing padding are all accepted. Characters
// outside the RFC 4648 alphabet fail with ErrInvalidSecret.
func DecodeKey(secret string) ([]byte, error) {
	secret = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(secret), " ", ""))
	secret = strings.TrimRight(secret, "=")
	if secret == "" {
		return []byte{}, nil
	}
	if !ValidateSecretKeyRegex.MatchString(secret) {
		return nil, ErrInvalidSecret
	}
	key, err := noPadding.DecodeString(secret)
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return key, nil
}

// FormatManualEntryKey groups a Base32 secret into space-separated 4-character
// chunks for users who type the key into their authenticator instead of
// scanning the QR code. The grouping is cosmetic: DecodeKey strips it.
func FormatManualEntryKey(secret string) string {
	secret = strings.TrimSpace(secret)
	if len(secret) <= 4 {
		return secret
	}
	var b strings.Builder
	b.Grow(len(secret) + len(secret)/4)
	for i := 0; i < len(secret); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		end := min(i+4, len(secret))
		b.WriteString(secret[i:end])
	}
	return b.String()
}
