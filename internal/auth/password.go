// internal/auth/password.go
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// HashPassword derives the storable digest for a plaintext password: a
// SHA-256 hash over the UTF-8 bytes, base64-encoded. The transform is
// deterministic and unsalted so that stored hashes remain comparable
// across deployments and byte-compatible with existing user documents.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// VerifyPassword reports whether the plaintext password hashes to the
// stored digest. An empty stored hash never matches; accounts without a
// local credential cannot authenticate by password. Comparison is
// constant-time.
func VerifyPassword(password, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	computed := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
