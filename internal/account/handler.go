// internal/account/handler.go
package account

import (
	"encoding/json"
	"net/http"

	apperrors "manara-backend/internal/common/errors"
	"manara-backend/internal/common/logger"
	"manara-backend/internal/common/metrics"
	"manara-backend/internal/common/validation"
)

// Handler serves the /api/account endpoints.
type Handler struct {
	service      *Service
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service:      service,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) HandleOTPRequest(w http.ResponseWriter, r *http.Request) {
	var in OTPRequestInput
	if err := h.decodeAndValidate(r, otpRequestSchema, &in); err != nil {
		metrics.AccountRequests.WithLabelValues("otp_request", "invalid").Inc()
		h.errorHandler.WriteError(w, r, err)
		return
	}

	code, err := h.service.RequestOTP(r.Context(), in.Email)
	if err != nil {
		metrics.AccountRequests.WithLabelValues("otp_request", "error").Inc()
		h.errorHandler.WriteError(w, r, err)
		return
	}

	metrics.AccountRequests.WithLabelValues("otp_request", "success").Inc()
	h.writeJSON(w, OTPRequestOutput{
		Success: true,
		Message: "Verification code sent",
		Code:    code,
	})
}

func (h *Handler) HandleOTPVerify(w http.ResponseWriter, r *http.Request) {
	var in OTPVerifyInput
	if err := h.decodeAndValidate(r, otpVerifySchema, &in); err != nil {
		metrics.AccountRequests.WithLabelValues("otp_verify", "invalid").Inc()
		h.errorHandler.WriteError(w, r, err)
		return
	}

	if err := h.service.VerifyOTP(r.Context(), in.Email, in.Code); err != nil {
		metrics.AccountRequests.WithLabelValues("otp_verify", "error").Inc()
		h.errorHandler.WriteError(w, r, err)
		return
	}

	metrics.AccountRequests.WithLabelValues("otp_verify", "success").Inc()
	h.writeJSON(w, FlowOutput{Success: true, Message: "Code verified"})
}

func (h *Handler) HandlePasswordChange(w http.ResponseWriter, r *http.Request) {
	var in PasswordChangeInput
	if err := h.decodeAndValidate(r, passwordChangeSchema, &in); err != nil {
		metrics.AccountRequests.WithLabelValues("password_change", "invalid").Inc()
		h.errorHandler.WriteError(w, r, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), in); err != nil {
		metrics.AccountRequests.WithLabelValues("password_change", "error").Inc()
		h.errorHandler.WriteError(w, r, err)
		return
	}

	metrics.AccountRequests.WithLabelValues("password_change", "success").Inc()
	h.writeJSON(w, FlowOutput{Success: true, Message: "Password updated"})
}

func (h *Handler) HandleEmailChange(w http.ResponseWriter, r *http.Request) {
	var in EmailChangeInput
	if err := h.decodeAndValidate(r, emailChangeSchema, &in); err != nil {
		metrics.AccountRequests.WithLabelValues("email_change", "invalid").Inc()
		h.errorHandler.WriteError(w, r, err)
		return
	}

	if err := h.service.ChangeEmail(r.Context(), in); err != nil {
		metrics.AccountRequests.WithLabelValues("email_change", "error").Inc()
		h.errorHandler.WriteError(w, r, err)
		return
	}

	metrics.AccountRequests.WithLabelValues("email_change", "success").Inc()
	h.writeJSON(w, FlowOutput{Success: true, Message: "Email updated"})
}

// decodeAndValidate decodes the body into a generic map, validates it
// against the schema, then unmarshals into the typed input.
func (h *Handler) decodeAndValidate(r *http.Request, schema string, out interface{}) error {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return apperrors.NewRequestValidationFailedError("body is not valid JSON")
	}

	result, err := validation.ValidateJSON(body, schema)
	if err != nil {
		return apperrors.NewRequestValidationFailedError(err.Error())
	}
	if !result.Valid {
		return apperrors.NewRequestValidationFailedError(result.ErrorString())
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return apperrors.NewRequestValidationFailedError(err.Error())
	}
	return json.Unmarshal(raw, out)
}

func (h *Handler) writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}
