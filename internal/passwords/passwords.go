// Package passwords hashes and verifies user passwords.
//
// New hashes use argon2id in PHC string form. Verification additionally
// accepts bcrypt hashes and the legacy unsalted hex SHA-256 digest so that
// credentials created by older deployments keep working until they are
// upgraded on the next successful login.
package passwords

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Scheme identifies the algorithm an encoded hash was produced with.
type Scheme int

const (
	SchemeUnknown Scheme = iota
	SchemeArgon2id
	SchemeBcrypt
	SchemeLegacySHA256
)

// Params are the argon2id cost parameters.
type Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultParams follow the RFC 9106 second recommended option.
var DefaultParams = Params{
	Memory:  64 * 1024,
	Time:    3,
	Threads: 2,
	SaltLen: 16,
	KeyLen:  32,
}

var ErrMalformedHash = errors.New("malformed password hash")

var b64 = base64.RawStdEncoding

// Hash returns the argon2id encoding of password using DefaultParams.
func Hash(password string) (string, error) {
	return HashWithParams(password, DefaultParams)
}

// HashWithParams returns the argon2id encoding of password.
func HashWithParams(password string, p Params) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// LegacyDigest is the unsalted hex SHA-256 digest used by older deployments.
func LegacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Identify reports the scheme of an encoded hash.
func Identify(encoded string) Scheme {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return SchemeArgon2id
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		return SchemeBcrypt
	case len(encoded) == sha256.Size*2 && isHex(encoded):
		return SchemeLegacySHA256
	default:
		return SchemeUnknown
	}
}

// Verify reports whether password matches encoded.
func Verify(password, encoded string) (bool, error) {
	switch Identify(encoded) {
	case SchemeArgon2id:
		return verifyArgon2id(password, encoded)
	case SchemeBcrypt:
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return err == nil, err
	case SchemeLegacySHA256:
		digest := LegacyDigest(password)
		return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(encoded))) == 1, nil
	default:
		return false, ErrMalformedHash
	}
}

// NeedsRehash reports whether encoded should be replaced by a fresh argon2id hash.
func NeedsRehash(encoded string) bool {
	return Identify(encoded) != SchemeArgon2id
}

func verifyArgon2id(password, encoded string) (bool, error) {
	// $argon2id$v=19$m=65536,t=3,p=2$salt$key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return false, ErrMalformedHash
	}
	// argon2.IDKey panics on zero time or threads.
	if p.Time < 1 || p.Threads < 1 || p.Memory == 0 {
		return false, ErrMalformedHash
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return false, ErrMalformedHash
	}

	candidate := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(candidate, key) == 1, nil
}

func isHex(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}
