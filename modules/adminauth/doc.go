// Package adminauth implements TOTP-gated authentication for the UT-Admin
// panel: staff enroll an authenticator app against their email address and
// every login, as well as the privileged "add admin" flow, is verified with a
// six-digit one-time code.
//
// # Components
//
//   - Directory: the injectable credential store mapping a lowercase email to
//     its enrolled TOTP secret and metadata. MemoryDirectory is the
//     process-local default; RedisDirectory is the durable production
//     backing. Exactly one credential per email, last write wins.
//
//   - Service: the orchestration layer. Enroll mints a fresh secret and
//     returns the provisioning artifacts (otpauth:// URI, QR data URI,
//     manual-entry key, current code); VerifyLogin and VerifySuperAdmin look
//     up the stored secret and run windowed TOTP verification.
//
//   - Handle: a chi router exposing the operations over HTTP/JSON.
//
// The distinguished super-admin account is seeded from configuration on
// first start and afterwards read from the directory like any other
// credential, so its secret can be rotated by re-enrollment. A production
// deployment refuses to start while the well-known default secret is still
// configured.
//
// # Error Handling
//
// The service returns sentinel errors (ErrUnknownAccount, ErrInvalidCode,
// ErrAccountInactive, ErrInvalidCodeFormat, ErrInvalidEmail) that callers
// inspect with errors.Is. The HTTP layer deliberately maps ErrUnknownAccount
// and ErrInvalidCode to one identical response so that external callers
// cannot enumerate enrolled accounts; the distinction survives in logs.
package adminauth
