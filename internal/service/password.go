package service

import "golang.org/x/crypto/bcrypt"

// PasswordHasher abstrae el algoritmo de hash de contraseñas.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, stored string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher crea un hasher bcrypt; cost <= 0 usa bcrypt.DefaultCost.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(plain string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

func (h *bcryptHasher) Verify(plain, stored string) bool {
	if stored == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}
