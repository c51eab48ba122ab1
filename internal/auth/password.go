package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const legacyPrefix = "pbkdf2:sha256"

var ErrUnsupportedHash = errors.New("unsupported password hash")

// Hasher creates bcrypt hashes and verifies both bcrypt and legacy
// pbkdf2:sha256:<iterations>$<salt>$<hex> hashes.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash is an error,
// a mismatch is not.
func (h *Hasher) Verify(hash, password string) (bool, error) {
	if strings.HasPrefix(hash, legacyPrefix) {
		return verifyLegacy(hash, password)
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

func verifyLegacy(hash, password string) (bool, error) {
	method, rest, ok := strings.Cut(hash, "$")
	if !ok {
		return false, ErrUnsupportedHash
	}
	salt, digest, ok := strings.Cut(rest, "$")
	if !ok || salt == "" {
		return false, ErrUnsupportedHash
	}

	iterations := 260000
	if parts := strings.Split(method, ":"); len(parts) == 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil || n <= 0 {
			return false, ErrUnsupportedHash
		}
		iterations = n
	} else if len(parts) != 2 {
		return false, ErrUnsupportedHash
	}

	want, err := hex.DecodeString(digest)
	if err != nil || len(want) == 0 {
		return false, ErrUnsupportedHash
	}
	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
