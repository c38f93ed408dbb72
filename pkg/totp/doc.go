// Package totp implements the one-time-password core used to gate access to
// the UT-Admin panel: secret key generation, HOTP/TOTP code calculation and
// verification (RFC 4226 / RFC 6238), provisioning URI construction for
// authenticator apps, and AES-256-GCM helpers for storing secrets encrypted
// at rest.
//
// The package is self-contained on purpose. Implementing the two RFCs on top
// of the standard library crypto primitives keeps the authentication core
// free of third-party OTP dependencies and makes the verification semantics
// auditable in one place.
//
// # Code verification
//
// Codes are always six decimal digits and are compared as zero-padded
// strings with a constant-time comparison, never as integers, so leading
// zeros survive and equality checks do not leak timing information.
// Verification tolerates clock drift between the authenticator and the
// server by accepting codes from DefaultWindow time steps on either side of
// the current one:
//
//	ok, err := totp.ValidateTOTP(secret, "492039")
//
// For deterministic tests the window and reference time can be pinned:
//
//	ok, err := totp.ValidateTOTPWithTime(secret, code, at, 2)
//
// # Enrollment
//
// A fresh secret is 20 bytes from crypto/rand, exposed as an unpadded
// Base32 string. GetTOTPURI renders the otpauth:// URI consumed by Google
// Authenticator and compatible apps, and FormatManualEntryKey produces the
// spaced grouping shown to users who type the secret by hand:
//
//	secret, _ := totp.GenerateSecretKey()
//	uri, _ := totp.GetTOTPURI(totp.TOTPParams{
//	    Secret:      secret,
//	    AccountName: "alice@example.com",
//	    Issuer:      "UT-Admin Panel",
//	})
//
// # Error Handling
//
// Exported operations return sentinel errors (ErrInvalidSecret,
// ErrInvalidOTP, ...) that may be wrapped with errors.Join; inspect them
// with errors.Is.
package totp
