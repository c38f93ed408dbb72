package totp

import (
	"crypto/subtle"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultDigits    = 6      // Standard 6-digit TOTP codes
	DefaultPeriod    = 30     // 30-second validity window (RFC 6238 standard)
	DefaultWindow    = 2      // Accepted time steps on each side of "now" (±60s clock drift)
	DefaultAlgorithm = "SHA1" // HMAC-SHA1 algorithm (RFC 6238 standard)
)

// otpFormatRegex matches a well-formed submitted code: exactly DefaultDigits
// ASCII digits. Anything else is rejected before any HMAC work happens.
var otpFormatRegex = regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, DefaultDigits))

// TOTPParams contains the parameters for TOTP URI generation
type TOTPParams struct {
	Secret      string // Base32-encoded TOTP secret key (required)
	AccountName string // User identifier like email (required)
	Issuer      string // Service name displayed in authenticator apps (required)
	Algorithm   string // HMAC algorithm (optional, defaults to SHA1)
	Digits      int    // Number of digits in generated codes (optional, defaults to 6)
	Period      int    // Code validity period in seconds (optional, defaults to 30)
}

// Validate ensures all required TOTP parameters are present and valid
func (p TOTPParams) Validate() error {
	if p.Secret == "" {
		return ErrMissingSecret
	}
	if !ValidateSecretKeyRegex.MatchString(p.Secret) {
		return ErrInvalidSecret
	}
	if p.AccountName == "" {
		return ErrMissingAccountName
	}
	if p.Issuer == "" {
		return ErrMissingIssuer
	}
	return nil
}

// GetDefaults returns a copy with RFC 6238 standard defaults applied to zero-valued fields
func (p TOTPParams) GetDefaults() TOTPParams {
	if p.Algorithm == "" {
		p.Algorithm = DefaultAlgorithm
	}
	if p.Digits == 0 {
		p.Digits = DefaultDigits
	}
	if p.Period == 0 {
		p.Period = DefaultPeriod
	}
	return p
}

// GetTOTPURI creates a properly encoded TOTP URI for use with authenticator apps.
// The URI format follows the Key Uri Format specification:
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
func GetTOTPURI(params TOTPParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	params = params.GetDefaults()

	label := fmt.Sprintf("%s:%s",
		url.PathEscape(params.Issuer),
		url.PathEscape(params.AccountName),
	)

	query := url.Values{}
	query.Set("secret", params.Secret)
	query.Set("issuer", params.Issuer)
	query.Set("algorithm", params.Algorithm)
	query.Set("digits", fmt.Sprintf("%d", params.Digits))
	query.Set("period", fmt.Sprintf("%d", params.Period))

	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode()), nil
}

// ValidateTOTP validates the code submitted by the user against the current
// time with the default drift window. See ValidateTOTPWithTime.
func ValidateTOTP(secret, otp string) (bool, error) {
	return ValidateTOTPWithTime(secret, otp, time.Now(), DefaultWindow)
}

// ValidateTOTPWithTime validates a submitted code against the time step
// containing t and the given number of adjacent steps on each side.
//
// A structurally invalid code (wrong length, non-digit characters) fails
// fast with ErrInvalidOTP before the secret is even decoded. Candidate
// codes are compared as zero-padded strings in constant time.
//
// A negative window is clamped to 0, so only the exact step containing t
// is accepted; it never widens the acceptance range.
func ValidateTOTPWithTime(secret, otp string, t time.Time, window int) (bool, error) {
	otp = strings.TrimSpace(otp)
	if !otpFormatRegex.MatchString(otp) {
		return false, ErrInvalidOTP
	}

	key, err := DecodeKey(secret)
	if err != nil || len(key) == 0 {
		return false, ErrInvalidSecret
	}

	if window < 0 {
		window = 0
	}

	counter := t.Unix() / int64(DefaultPeriod)
	for i := -window; i <= window; i++ {
		code := fmt.Sprintf("%0*d", DefaultDigits, GenerateHOTP(key, counter+int64(i), DefaultDigits))
		if subtle.ConstantTimeCompare([]byte(code), []byte(otp)) == 1 {
			return true, nil
		}
	}

	return false, nil
}

// GenerateTOTP generates a time-based one-time password for the current
// 30-second window. The secret must be a valid Base32-encoded string.
func GenerateTOTP(secret string) (string, error) {
	return GenerateTOTPWithTime(secret, time.Now())
}

// GenerateTOTPWithTime generates a TOTP code for the 30-second window
// containing the specified time. Useful for testing or generating codes for
// specific moments.
func GenerateTOTPWithTime(secret string, t time.Time) (string, error) {
	key, err := DecodeKey(secret)
	if err != nil || len(key) == 0 {
		return "", ErrInvalidSecret
	}

	counter := t.Unix() / int64(DefaultPeriod)
	code := GenerateHOTP(key, counter, DefaultDigits)

	return fmt.Sprintf("%0*d", DefaultDigits, code), nil
}

// RemainingValidity reports how long the code for the time step containing t
// remains valid.
func RemainingValidity(t time.Time) time.Duration {
	return time.Duration(DefaultPeriod-t.Unix()%DefaultPeriod) * time.Second
}
