// internal/account/models.go
package account

// Request bodies for the account flows. All are validated against the JSON
// schemas in schemas.go before use.

type OTPRequestInput struct {
	Email string `json:"email"`
}

type OTPVerifyInput struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type PasswordChangeInput struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

type EmailChangeInput struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	NewEmail string `json:"newEmail"`
}

type OTPRequestOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Code is echoed only in development mode.
	Code string `json:"code,omitempty"`
}

type FlowOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
