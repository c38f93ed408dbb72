package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/dmitrymomot/utadmin/modules/adminauth"
	"github.com/dmitrymomot/utadmin/pkg/config"
	"github.com/dmitrymomot/utadmin/pkg/qrcode"
	"github.com/dmitrymomot/utadmin/pkg/totp"
)

// Operator helper for the admin panel's TOTP login. By default it prints the
// current code for the configured secret (TOTP_SECRET, with the same default
// the server uses) so an operator can log in without reaching for a phone.
func main() {
	var (
		setup  = flag.Bool("setup", false, "print provisioning info: secret, manual entry key and otpauth URI")
		qr     = flag.Bool("qr", false, "include a base64 QR data URI with -setup")
		secret = flag.String("secret", "", "override the configured secret")
		genKey = flag.Bool("gen-encryption-key", false, "generate a base64 key for TOTP_ENCRYPTION_KEY and exit")
	)
	flag.Parse()

	if *genKey {
		encodedKey, err := totp.GenerateEncodedEncryptionKey()
		if err != nil {
			log.Fatalf("Failed to generate encryption key: %v", err)
		}
		fmt.Printf("TOTP_ENCRYPTION_KEY=%s\n", encodedKey)
		return
	}

	var cfg adminauth.Config
	config.MustLoad(&cfg)

	key := cfg.SuperAdminSecret
	if *secret != "" {
		key = *secret
	}

	code, err := totp.GenerateTOTP(key)
	if err != nil {
		log.Fatalf("Failed to generate code: %v", err)
	}
	remaining := totp.RemainingValidity(time.Now())

	fmt.Printf("Current TOTP code: %s\n", code)
	fmt.Printf("Valid for another %d seconds\n", int(remaining.Seconds()))

	if !*setup {
		return
	}

	uri, err := totp.GetTOTPURI(totp.TOTPParams{
		Secret:      key,
		AccountName: cfg.SuperAdminEmail,
		Issuer:      cfg.Issuer,
	})
	if err != nil {
		log.Fatalf("Failed to build otpauth URI: %v", err)
	}

	fmt.Println()
	fmt.Printf("Account:          %s\n", cfg.SuperAdminEmail)
	fmt.Printf("Secret:           %s\n", key)
	fmt.Printf("Manual entry key: %s\n", totp.FormatManualEntryKey(key))
	fmt.Printf("otpauth URI:      %s\n", uri)

	if *qr {
		img, err := qrcode.GenerateBase64Image(uri, cfg.QRCodeSize)
		if err != nil {
			log.Fatalf("Failed to render QR code: %v", err)
		}
		fmt.Println()
		fmt.Println("QR code (paste into a browser address bar):")
		fmt.Println(img)
	}
}
