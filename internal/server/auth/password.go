package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/ulak-labs/ulak/internal/common"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

// HashSecret hashes a password or security answer with bcrypt.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// VerifySecret reports whether plain matches the stored bcrypt hash.
func VerifySecret(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// ValidatePassword enforces the account password policy: exactly six digits,
// not an ascending or descending run (123456, 654321).
func ValidatePassword(password string) error {
	if !sixDigits.MatchString(password) {
		return fmt.Errorf("%w: password must be exactly 6 digits", common.ErrValidation)
	}
	if isSequential(password) {
		return fmt.Errorf("%w: password must not be a sequential run", common.ErrValidation)
	}
	return nil
}

func isSequential(password string) bool {
	asc, desc := true, true
	for i := 0; i+1 < len(password); i++ {
		if password[i]+1 != password[i+1] {
			asc = false
		}
		if password[i] != password[i+1]+1 {
			desc = false
		}
	}
	return asc || desc
}

// GenerateTempPassword returns a random policy-conforming 6-digit password
// for the forgot-password flow.
func GenerateTempPassword() (string, error) {
	for {
		n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
		if err != nil {
			return "", fmt.Errorf("rand: %w", err)
		}
		candidate := fmt.Sprintf("%06d", n.Int64())
		if !isSequential(candidate) {
			return candidate, nil
		}
	}
}
