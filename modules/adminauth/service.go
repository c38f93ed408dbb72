package adminauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrymomot/utadmin/pkg/qrcode"
	"github.com/dmitrymomot/utadmin/pkg/totp"
)

// codeFormatRegex matches a structurally valid submitted code. Anything else
// is rejected before the credential lookup and before any HMAC computation.
var codeFormatRegex = regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, totp.DefaultDigits))

// Principal carries the display attributes of a successfully verified account.
type Principal struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Enrollment bundles everything a freshly enrolled user needs to set up
// their authenticator app. Nothing in it is stored server-side beyond the
// secret itself.
type Enrollment struct {
	Email          string `json:"email"`
	Secret         string `json:"secret"`
	OTPAuthURI     string `json:"otpauth_uri"`
	QRCode         string `json:"qr_code"` // PNG data URI
	ManualEntryKey string `json:"manual_entry_key"`
	CurrentCode    string `json:"current_code"`
}

// Service orchestrates enrollment and code verification against the
// credential directory. Construct it once at process start and share it; all
// methods are safe for concurrent use.
type Service struct {
	cfg       Config
	directory Directory
	log       *slog.Logger
}

// NewService builds the verification service and seeds the distinguished
// super-admin credential when the directory does not hold one yet. Seeding
// never overwrites an existing record, so a rotated super-admin secret
// survives restarts.
//
// In production mode the constructor fails with ErrDefaultSecretInProduction
// while the well-known default secret is still configured.
func NewService(ctx context.Context, cfg Config, directory Directory, log *slog.Logger) (*Service, error) {
	if directory == nil {
		return nil, errors.New("adminauth: nil directory")
	}
	if cfg.IsProduction() && cfg.SuperAdminSecret == DefaultSuperAdminSecret {
		return nil, ErrDefaultSecretInProduction
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "adminauth"))

	s := &Service{
		cfg:       cfg,
		directory: directory,
		log:       log,
	}

	if _, err := directory.Get(ctx, cfg.SuperAdminEmail); err != nil {
		if !errors.Is(err, ErrUnknownAccount) {
			return nil, err
		}
		if err := directory.Add(ctx, Credential{
			Email:  cfg.SuperAdminEmail,
			Name:   cfg.SuperAdminName,
			Secret: cfg.SuperAdminSecret,
		}); err != nil {
			return nil, errors.Join(ErrFailedToStoreCredential, err)
		}
		log.InfoContext(ctx, "seeded super admin credential", slog.String("email", NormalizeEmail(cfg.SuperAdminEmail)))
	}

	return s, nil
}

// Enroll mints a fresh TOTP secret for the email, stores it in the directory
// (replacing any previous secret for that account) and returns the
// provisioning artifacts. The current code is included so setup flows can
// show the user what their authenticator should display right now.
func (s *Service) Enroll(ctx context.Context, email string) (*Enrollment, error) {
	email = NormalizeEmail(email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}

	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return nil, errors.Join(ErrFailedToEnroll, err)
	}

	enrollment, err := s.buildEnrollment(email, secret)
	if err != nil {
		return nil, errors.Join(ErrFailedToEnroll, err)
	}

	if err := s.directory.Add(ctx, Credential{Email: email, Secret: secret}); err != nil {
		return nil, errors.Join(ErrFailedToStoreCredential, err)
	}

	s.log.InfoContext(ctx, "account enrolled", slog.String("email", email))
	return enrollment, nil
}

// SetupInfo returns the provisioning artifacts for the distinguished
// super-admin account, built from its stored secret. Used by the operator
// bootstrap page and the CLI.
func (s *Service) SetupInfo(ctx context.Context) (*Enrollment, error) {
	cred, err := s.directory.Get(ctx, s.cfg.SuperAdminEmail)
	if err != nil {
		return nil, err
	}
	return s.buildEnrollment(cred.Email, cred.Secret)
}

// VerifyLogin checks a submitted code against the stored secret for the
// email. The checks run in a fixed order: code shape, account existence,
// active flag, then the windowed TOTP comparison. On success the last-login
// time is stamped and the account's display attributes are returned.
func (s *Service) VerifyLogin(ctx context.Context, email, code string) (*Principal, error) {
	if !validCodeFormat(code) {
		return nil, ErrInvalidCodeFormat
	}

	email = NormalizeEmail(email)
	cred, err := s.directory.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if cred.Disabled {
		return nil, ErrAccountInactive
	}

	ok, err := totp.ValidateTOTP(cred.Secret, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.InfoContext(ctx, "login code rejected", slog.String("email", email))
		return nil, ErrInvalidCode
	}

	// A failed stamp must not fail an otherwise valid login.
	if err := s.directory.TouchLastLogin(ctx, email, time.Now().UTC()); err != nil {
		s.log.WarnContext(ctx, "failed to stamp last login",
			slog.String("email", email), slog.Any("error", err))
	}

	s.log.InfoContext(ctx, "login verified", slog.String("email", email))
	return &Principal{Email: cred.Email, Name: cred.Name}, nil
}

// VerifySuperAdmin checks a submitted code against the stored secret of the
// configured distinguished account. Privileged operations such as
// provisioning a new admin are gated on this call. The stored secret is
// always used, never the configured seed, so rotation via re-enrollment
// takes effect immediately.
func (s *Service) VerifySuperAdmin(ctx context.Context, code string) error {
	if !validCodeFormat(code) {
		return ErrInvalidCodeFormat
	}

	cred, err := s.directory.Get(ctx, s.cfg.SuperAdminEmail)
	if err != nil {
		return err
	}
	if cred.Disabled {
		return ErrAccountInactive
	}

	ok, err := totp.ValidateTOTP(cred.Secret, code)
	if err != nil {
		return err
	}
	if !ok {
		s.log.InfoContext(ctx, "super admin code rejected")
		return ErrInvalidCode
	}
	return nil
}

// Directory exposes the underlying credential store for administrative
// surfaces (listing enrolled accounts, disabling an account).
func (s *Service) Directory() Directory {
	return s.directory
}

func (s *Service) buildEnrollment(email, secret string) (*Enrollment, error) {
	uri, err := totp.GetTOTPURI(totp.TOTPParams{
		Secret:      secret,
		AccountName: email,
		Issuer:      s.cfg.Issuer,
	})
	if err != nil {
		return nil, err
	}

	qr, err := qrcode.GenerateBase64Image(uri, s.cfg.QRCodeSize)
	if err != nil {
		return nil, err
	}

	code, err := totp.GenerateTOTP(secret)
	if err != nil {
		return nil, err
	}

	return &Enrollment{
		Email:          email,
		Secret:         secret,
		OTPAuthURI:     uri,
		QRCode:         qr,
		ManualEntryKey: totp.FormatManualEntryKey(secret),
		CurrentCode:    code,
	}, nil
}

func validCodeFormat(code string) bool {
	return codeFormatRegex.MatchString(strings.TrimSpace(code))
}

// validEmail applies the same checks the panel's user-facing forms do:
// parseable per RFC 5322 plus a dotted domain, which rejects bare local
// addresses that mail.ParseAddress accepts.
func validEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\n") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	parts := strings.Split(addr.Address, "@")
	if len(parts) != 2 {
		return false
	}
	domain := parts[1]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
