package credential

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
)

const (
	codeAlphabet         = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	trackingSuffixLength = 8
	verificationCodeLen  = 6
)

// NewTrackingID returns "FDX" followed by 8 random uppercase alphanumerics.
// Uniqueness is enforced by the database; callers retry on conflict.
func NewTrackingID() (string, error) {
	suffix, err := randomString(trackingSuffixLength)
	if err != nil {
		return "", fmt.Errorf("generate tracking id: %w", err)
	}
	return domain.TrackingIDPrefix + suffix, nil
}

func NewVerificationCode() (string, error) {
	code, err := randomString(verificationCodeLen)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return code, nil
}

func randomString(n int) (string, error) {
	limit := big.NewInt(int64(len(codeAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[idx.Int64()]
	}
	return string(b), nil
}
