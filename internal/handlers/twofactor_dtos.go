package handlers

// EnrollmentSetupResponse carries the secret, provisioning URI, and QR code
// for the authenticator app
type EnrollmentSetupResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
	QRCode          string `json:"qr_code"`
}

// VerifyEnrollmentRequest represents the request body for confirming
// enrollment with a TOTP code
type VerifyEnrollmentRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// TwoFactorStatusResponse reports whether two-factor is enabled for the
// account
type TwoFactorStatusResponse struct {
	Enabled bool `json:"enabled"`
}
