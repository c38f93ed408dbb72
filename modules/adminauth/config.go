package adminauth

// DefaultSuperAdminSecret is the well-known development secret the module
// falls back to when TOTP_SECRET is unset. NewService refuses to start a
// production deployment while this value is still active.
const DefaultSuperAdminSecret = "JBSWY3DPEHPK3PXP"

type Config struct {
	Issuer           string `env:"TOTP_ISSUER" envDefault:"UT-Admin Panel"`                  // Issuer is the service name shown in authenticator apps.
	SuperAdminEmail  string `env:"SUPER_ADMIN_EMAIL" envDefault:"sanjithrozario@gmail.com"` // SuperAdminEmail is the distinguished account gating privileged operations.
	SuperAdminName   string `env:"SUPER_ADMIN_NAME" envDefault:"Super Admin"`               // SuperAdminName is the display name of the distinguished account.
	SuperAdminSecret string `env:"TOTP_SECRET" envDefault:"JBSWY3DPEHPK3PXP"`               // SuperAdminSecret seeds the distinguished account's Base32 TOTP secret on first start.
	Environment      string `env:"APP_ENV" envDefault:"development"`                        // Environment toggles the production default-secret guard.
	QRCodeSize       int    `env:"TOTP_QR_SIZE" envDefault:"256"`                           // QRCodeSize is the provisioning QR image size in pixels.
}

// IsProduction reports whether the config describes a production deployment.
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
