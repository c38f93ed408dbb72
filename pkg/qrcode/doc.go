// Package qrcode renders QR code images either as raw PNG bytes or as a
// data-URI string that can be embedded directly into HTML pages.
//
// Its main consumer is TOTP enrollment: the otpauth:// provisioning URI is
// rendered as a scannable image that authenticator apps consume. The package
// is a thin wrapper around github.com/skip2/go-qrcode that adds sensible
// defaults and input validation.
//
//	img, err := qrcode.Generate("otpauth://totp/...", 256)
//	dataURI, err := qrcode.GenerateBase64Image("otpauth://totp/...", 256)
//
// Both functions are pure transforms of their input. Sentinel errors
// (ErrEmptyContent, ErrFailedToGenerateQRCode) are declared at package level
// for errors.Is comparisons.
package qrcode
