package adminauth

import "errors"

var (
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrInvalidCodeFormat         = errors.New("invalid one-time code format")
	ErrUnknownAccount            = errors.New("account is not enrolled")
	ErrAccountInactive           = errors.New("account is inactive")
	ErrInvalidCode               = errors.New("invalid one-time code")
	ErrInvalidCredential         = errors.New("invalid credential record")
	ErrFailedToEnroll            = errors.New("failed to enroll account")
	ErrFailedToStoreCredential   = errors.New("failed to store credential")
	ErrDefaultSecretInProduction = errors.New("default super admin TOTP secret must be overridden in production")
)
