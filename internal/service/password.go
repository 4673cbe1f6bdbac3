package service

import "golang.org/x/crypto/bcrypt"

// hashPassword produces a salted bcrypt hash; the salt is embedded in the
// returned string so verification needs no separate lookup.
func hashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword reports whether plaintext matches the stored hash. A
// malformed or empty hash verifies false rather than erroring.
func verifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
