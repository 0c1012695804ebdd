package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades hash time against brute-force resistance. 12 lands
// around 250ms per hash on current hardware, which is fine for a login
// endpoint that is itself rate limited.
const bcryptCost = 12

// ErrPasswordMismatch is returned when a password does not verify against
// its stored hash.
var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword hashes a plaintext password with bcrypt. The returned string
// embeds the salt and cost parameters.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
// Returns ErrPasswordMismatch on mismatch; other errors indicate a
// malformed stored hash.
func VerifyPassword(encodedHash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
