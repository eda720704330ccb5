package identity

import "golang.org/x/crypto/bcrypt"

// PasswordVerifier checks a plaintext password against a stored hash.
// It reports success only; callers must not leak which part of a login
// failed.
type PasswordVerifier interface {
	Verify(hash, password string) bool
}

// BcryptVerifier is the production verifier.
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword is for seed tooling and tests. Account management owns
// real password writes.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
