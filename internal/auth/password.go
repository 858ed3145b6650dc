package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/frahmantamala/photoid-studio/internal"
)

// Stored credential format: pbkdf2$<iterations>$<b64 salt>$<b64 key>.
// Iterations and salt travel with the hash so parameters can be raised
// without invalidating existing rows.
const encodingPrefix = "pbkdf2"

type Params struct {
	Iterations int
	SaltLength int
	KeyLength  int
}

func DefaultParams() Params {
	return Params{
		Iterations: internal.MinPBKDF2Iterations,
		SaltLength: 32,
		KeyLength:  32,
	}
}

func (p Params) normalized() Params {
	out := p
	if out.Iterations < internal.MinPBKDF2Iterations {
		out.Iterations = internal.MinPBKDF2Iterations
	}
	if out.SaltLength <= 0 {
		out.SaltLength = 32
	}
	if out.KeyLength <= 0 {
		out.KeyLength = 32
	}
	return out
}

// hashPassword derives a salted PBKDF2-SHA256 key from plaintext with a
// fresh random salt and returns the storable encoding. Two calls with the
// same plaintext produce different salts and therefore different outputs.
func hashPassword(plaintext string, params Params) (string, error) {
	params = params.normalized()

	salt := make([]byte, params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(plaintext), salt, params.Iterations, params.KeyLength, sha256.New)

	return strings.Join([]string{
		encodingPrefix,
		strconv.Itoa(params.Iterations),
		base64.RawURLEncoding.EncodeToString(salt),
		base64.RawURLEncoding.EncodeToString(key),
	}, "$"), nil
}

// verifyPassword re-derives the key with the stored salt and iteration
// count and compares in constant time. A malformed stored value is
// reported as ErrCorruptCredential so callers can tell data corruption
// apart from a wrong password.
func verifyPassword(plaintext, stored string) (bool, error) {
	iterations, salt, key, err := decodeStored(stored)
	if err != nil {
		return false, err
	}

	derived := pbkdf2.Key([]byte(plaintext), salt, iterations, len(key), sha256.New)
	return subtle.ConstantTimeCompare(derived, key) == 1, nil
}

func decodeStored(stored string) (iterations int, salt, key []byte, err error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 4 || parts[0] != encodingPrefix {
		return 0, nil, nil, fmt.Errorf("unexpected credential format: %w", internal.ErrCorruptCredential)
	}

	iterations, err = strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return 0, nil, nil, fmt.Errorf("bad iteration count: %w", internal.ErrCorruptCredential)
	}

	salt, err = base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil || len(salt) == 0 {
		return 0, nil, nil, fmt.Errorf("bad salt encoding: %w", internal.ErrCorruptCredential)
	}

	key, err = base64.RawURLEncoding.DecodeString(parts[3])
	if err != nil || len(key) == 0 {
		return 0, nil, nil, fmt.Errorf("bad key encoding: %w", internal.ErrCorruptCredential)
	}

	return iterations, salt, key, nil
}
