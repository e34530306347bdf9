package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the bcrypt hash stored on both the users and the
// students row.  Cost comes from configuration so tests can run at the
// bcrypt minimum.
func HashPassword(plain string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
