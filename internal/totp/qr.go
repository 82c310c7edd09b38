package totp

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRCodeDataURL renders a provisioning URI as a PNG data URL for display
// during enrollment.
func QRCodeDataURL(uri string) (string, error) {
	qr, err := qrcode.New(uri, qrcode.Highest)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(200)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
