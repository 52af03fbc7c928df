// internal/webhook/signature_test.go
package webhook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "manara-backend/internal/common/errors"
)

const testSecret = "test-webhook-secret"

func newTestVerifier(now time.Time) *Verifier {
	v := NewVerifier(testSecret, 300)
	v.now = func() time.Time { return now }
	return v
}

func TestVerifier_Verify_Valid(t *testing.T) {
	now := time.Unix(1700000000, 0)
	body := []byte(`{"_id":"abc123","_type":"episode"}`)

	v := newTestVerifier(now)
	header := Sign(testSecret, now, body)

	assert.NoError(t, v.Verify(header, body))
}

func TestVerifier_Verify_Rejections(t *testing.T) {
	now := time.Unix(1700000000, 0)
	body := []byte(`{"_id":"abc123","_type":"episode"}`)

	tests := []struct {
		name         string
		header       string
		body         []byte
		expectedCode apperrors.ErrorCode
	}{
		{
			name:         "missing header",
			header:       "",
			body:         body,
			expectedCode: apperrors.ErrCodeSignatureMissing,
		},
		{
			name:         "garbage header",
			header:       "not-a-signature",
			body:         body,
			expectedCode: apperrors.ErrCodeSignatureInvalid,
		},
		{
			name:         "unparsable timestamp",
			header:       "t=yesterday,v1=deadbeef",
			body:         body,
			expectedCode: apperrors.ErrCodeSignatureInvalid,
		},
		{
			name:         "tampered body",
			header:       Sign(testSecret, now, []byte(`{"_id":"other"}`)),
			body:         body,
			expectedCode: apperrors.ErrCodeSignatureInvalid,
		},
		{
			name:         "wrong secret",
			header:       Sign("some-other-secret", now, body),
			body:         body,
			expectedCode: apperrors.ErrCodeSignatureInvalid,
		},
		{
			name:         "stale timestamp even with matching hmac",
			header:       Sign(testSecret, now.Add(-301*time.Second), body),
			body:         body,
			expectedCode: apperrors.ErrCodeSignatureExpired,
		},
		{
			name:         "future timestamp outside tolerance",
			header:       Sign(testSecret, now.Add(400*time.Second), body),
			body:         body,
			expectedCode: apperrors.ErrCodeSignatureExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestVerifier(now)
			err := v.Verify(tt.header, tt.body)
			assert.Error(t, err)

			stdErr, ok := err.(*apperrors.StandardError)
			assert.True(t, ok)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
		})
	}
}

func TestVerifier_Verify_WithinTolerance(t *testing.T) {
	now := time.Unix(1700000000, 0)
	body := []byte(`{}`)

	v := newTestVerifier(now)
	assert.NoError(t, v.Verify(Sign(testSecret, now.Add(-299*time.Second), body), body))
	assert.NoError(t, v.Verify(Sign(testSecret, now.Add(299*time.Second), body), body))
}

func TestParseSignatureHeader_FieldOrder(t *testing.T) {
	ts, sig, err := parseSignatureHeader("v1=ABCDEF, t=1700000000")
	assert.NoError(t, err)
	assert.Equal(t, int64(1700000000), ts)
	assert.Equal(t, "abcdef", sig)
}
