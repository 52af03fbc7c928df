// internal/webhook/signature.go
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "manara-backend/internal/common/errors"
)

// SignatureHeader is the provider header carrying the webhook signature.
const SignatureHeader = "sanity-webhook-signature"

// Verifier checks webhook signatures of the form "t=<unix-seconds>,v1=<hex>"
// where the hex value is HMAC-SHA256(secret, "{t}.{body}").
type Verifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

func NewVerifier(secret string, toleranceSeconds int) *Verifier {
	return &Verifier{
		secret:    []byte(secret),
		tolerance: time.Duration(toleranceSeconds) * time.Second,
		now:       time.Now,
	}
}

// Verify checks the signature header against the raw request body. A nil
// return means the delivery is authentic and fresh.
func (v *Verifier) Verify(header string, body []byte) error {
	if header == "" {
		return apperrors.NewSignatureMissingError()
	}

	ts, sig, err := parseSignatureHeader(header)
	if err != nil {
		return apperrors.NewSignatureInvalidError(err.Error())
	}

	drift := v.now().Unix() - ts
	if drift < 0 {
		drift = -drift
	}
	if time.Duration(drift)*time.Second > v.tolerance {
		return apperrors.NewSignatureExpiredError(drift)
	}

	expected := computeSignature(v.secret, ts, body)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(sig)) != 1 {
		return apperrors.NewSignatureInvalidError("hmac mismatch")
	}
	return nil
}

// parseSignatureHeader splits "t=<unix>,v1=<hex>" into its parts. Order of
// the fields is not significant; unknown fields are ignored.
func parseSignatureHeader(header string) (int64, string, error) {
	var tsRaw, sig string
	for _, part := range strings.Split(header, ",") {
		k, val, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			tsRaw = val
		case "v1":
			sig = val
		}
	}

	if tsRaw == "" || sig == "" {
		return 0, "", fmt.Errorf("header missing t or v1 field")
	}

	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("timestamp not parseable: %s", tsRaw)
	}
	return ts, strings.ToLower(sig), nil
}

func computeSignature(secret []byte, ts int64, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign produces a valid signature header for a body at the given time.
// Exported for tests and local tooling.
func Sign(secret string, t time.Time, body []byte) string {
	ts := t.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, computeSignature([]byte(secret), ts, body))
}
