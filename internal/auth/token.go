package auth

import "github.com/google/uuid"

// NewSessionToken returns a fresh opaque session token.
// UUIDv4 draws 122 bits from crypto/rand, which keeps tokens unguessable and
// non-sequential.
func NewSessionToken() string {
	return uuid.NewString()
}
