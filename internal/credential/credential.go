// Package credential hashes and verifies account passwords.
package credential

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher derives and checks salted one-way password hashes.
type Hasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. A malformed hash never matches.
	Verify(hash, password string) bool
	// Dummy returns a valid hash that no real password is expected to match.
	Dummy() string
}

// Bcrypt is the production Hasher.
type Bcrypt struct {
	cost  int
	dummy string
}

// NewBcrypt returns a bcrypt Hasher at the given cost. Out-of-range costs
// fall back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), cost)
	if err != nil {
		panic(fmt.Sprintf("credential: generate dummy hash: %v", err))
	}
	return &Bcrypt{cost: cost, dummy: string(dummy)}
}

// Hash returns the encoded bcrypt hash, which includes its salt and cost.
func (b *Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (b *Bcrypt) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Dummy is computed once at the configured cost, so verifying against it
// costs the same as a real check.
func (b *Bcrypt) Dummy() string {
	return b.dummy
}
