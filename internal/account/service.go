// internal/account/service.go
package account

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"manara-backend/internal/common/config"
	"manara-backend/internal/common/database"
	apperrors "manara-backend/internal/common/errors"
	"manara-backend/internal/common/logger"
	"manara-backend/internal/models"
	"manara-backend/internal/notification"
	"manara-backend/internal/store"
)

// Mailer delivers plain-text mail; satisfied by the SES client wrapper.
type Mailer interface {
	SendTextEmail(ctx context.Context, from, to, subject, body string) error
}

// Service implements the OTP-backed account flows. Codes live in Redis
// under a per-email key with a TTL; verification is one-shot.
type Service struct {
	cfg    config.Config
	redis  *database.RedisClient
	store  store.ContentStore
	mailer Mailer
	writer *notification.Writer
	logger logger.Logger
}

func NewService(
	cfg config.Config,
	redisClient *database.RedisClient,
	s store.ContentStore,
	mailer Mailer,
	writer *notification.Writer,
	log logger.Logger,
) *Service {
	return &Service{
		cfg:    cfg,
		redis:  redisClient,
		store:  s,
		mailer: mailer,
		writer: writer,
		logger: log,
	}
}

func otpKey(email string) string {
	return "account:otp:" + email
}

// RequestOTP generates a code, stores it with the configured TTL and mails
// it to the address. The code is returned to the caller only in development.
func (s *Service) RequestOTP(ctx context.Context, email string) (string, error) {
	code, err := s.generateCode()
	if err != nil {
		return "", err
	}

	ttl := time.Duration(s.cfg.Account.OTPTTL) * time.Second
	if err := s.redis.Set(ctx, otpKey(email), code, ttl); err != nil {
		return "", apperrors.NewExternalServiceError("redis", err)
	}

	if s.mailer != nil && s.cfg.Integrations.AWS.SES.Enabled {
		subject := "رمز التحقق | Verification code"
		body := fmt.Sprintf("رمز التحقق الخاص بك هو: %s\nYour verification code is: %s\n", code, code)
		if err := s.mailer.SendTextEmail(ctx, s.cfg.Integrations.AWS.SES.FromEmail, email, subject, body); err != nil {
			return "", apperrors.NewOTPDeliveryFailedError(err)
		}
	}

	s.logger.Info("OTP issued", map[string]interface{}{
		"email":      email,
		"ttlSeconds": s.cfg.Account.OTPTTL,
	})

	if s.cfg.App.IsDevelopment() {
		return code, nil
	}
	return "", nil
}

// VerifyOTP checks the submitted code in constant time and deletes it on
// success, so a code verifies at most once.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) error {
	stored, err := s.redis.Get(ctx, otpKey(email))
	if err == redis.Nil {
		return apperrors.NewOTPExpiredError()
	}
	if err != nil {
		return apperrors.NewExternalServiceError("redis", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return apperrors.NewOTPInvalidError()
	}

	if err := s.redis.Del(ctx, otpKey(email)); err != nil {
		s.logger.WithError(err).Warn("OTP key delete failed after successful verify", map[string]interface{}{
			"email": email,
		})
	}
	return nil
}

// ChangePassword verifies the OTP, patches the user document with the new
// password hash and writes a security notification for that user.
func (s *Service) ChangePassword(ctx context.Context, in PasswordChangeInput) error {
	if err := s.VerifyOTP(ctx, in.Email, in.Code); err != nil {
		return err
	}

	user, err := s.store.FetchUserByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NewUserNotFoundError(in.Email)
	}

	if err := s.store.PatchUser(ctx, user.ID, map[string]interface{}{
		"passwordHash": hashSecret(in.NewPassword),
	}); err != nil {
		return err
	}

	s.writeSecurityNotice(ctx, in.Email, models.LocalizedString{
		Ar: "تم تغيير كلمة المرور",
		En: "Your password was changed",
	}, models.LocalizedString{
		Ar: "تم تحديث كلمة المرور لحسابك. إذا لم تقم بذلك يرجى التواصل معنا فوراً.",
		En: "The password for your account was updated. If this was not you, contact us immediately.",
	})
	return nil
}

// ChangeEmail verifies the OTP, updates the user's email and notifies the
// new address.
func (s *Service) ChangeEmail(ctx context.Context, in EmailChangeInput) error {
	if err := s.VerifyOTP(ctx, in.Email, in.Code); err != nil {
		return err
	}

	user, err := s.store.FetchUserByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NewUserNotFoundError(in.Email)
	}

	if err := s.store.PatchUser(ctx, user.ID, map[string]interface{}{
		"email": in.NewEmail,
	}); err != nil {
		return err
	}

	s.writeSecurityNotice(ctx, in.NewEmail, models.LocalizedString{
		Ar: "تم تغيير البريد الإلكتروني",
		En: "Your email address was changed",
	}, models.LocalizedString{
		Ar: "تم تحديث البريد الإلكتروني لحسابك.",
		En: "The email address for your account was updated.",
	})
	return nil
}

// writeSecurityNotice writes a direct notification document; failures are
// logged and swallowed since the account change itself already succeeded.
func (s *Service) writeSecurityNotice(ctx context.Context, email string, title, message models.LocalizedString) {
	payload := notification.BuildAccountNotice(title, message, models.SeverityInfo)
	if err := s.writer.WriteDirect(ctx, payload, email); err != nil {
		s.logger.WithError(err).Warn("Security notification write failed", map[string]interface{}{
			"email": email,
		})
	}
}

// generateCode produces a zero-padded numeric code of the configured length.
func (s *Service) generateCode() (string, error) {
	length := s.cfg.Account.OTPLength
	max := big.NewInt(1)
	for i := 0; i < length; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", apperrors.NewExternalServiceError("rand", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
