package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt silently truncates input beyond 72 bytes; reject instead.
const maxPasswordBytes = 72

// HashPassword derives a salted one-way digest from a plaintext secret.
func HashPassword(secret string) (string, error) {
	if secret == "" || len(secret) > maxPasswordBytes {
		return "", ErrInvalidInput
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword compares a plaintext secret against a stored digest.
// A malformed digest yields false rather than an error so the hash format
// never leaks to callers.
func VerifyPassword(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
