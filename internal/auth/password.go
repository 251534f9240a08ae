package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// MaxPasswordLength bounds hashing cost for hostile inputs.
const MaxPasswordLength = 128

var (
	ErrEmptyInput        = errors.New("password: empty input")
	ErrTooLong           = fmt.Errorf("password: exceeds maximum length of %d", MaxPasswordLength)
	ErrInvalidHashFormat = errors.New("password: invalid hash format")
)

// Argon2Params are the argon2id cost parameters. They are embedded in every
// hash so verification never depends on the current configuration.
type Argon2Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// DefaultArgon2Params follow the OWASP argon2id baseline.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:  19 * 1024,
		Time:    2,
		Threads: 1,
		KeyLen:  32,
		SaltLen: 16,
	}
}

// PasswordHasher produces and checks self-describing argon2id PHC strings:
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt>$<digest>
type PasswordHasher struct {
	params Argon2Params
}

// NewPasswordHasher builds a hasher. Zero fields fall back to defaults.
func NewPasswordHasher(params Argon2Params) *PasswordHasher {
	def := DefaultArgon2Params()
	if params.Memory == 0 {
		params.Memory = def.Memory
	}
	if params.Time == 0 {
		params.Time = def.Time
	}
	if params.Threads == 0 {
		params.Threads = def.Threads
	}
	if params.KeyLen == 0 {
		params.KeyLen = def.KeyLen
	}
	if params.SaltLen == 0 {
		params.SaltLen = def.SaltLen
	}
	return &PasswordHasher{params: params}
}

// Hash returns a freshly salted hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if err := checkPassword(password); err != nil {
		return "", err
	}

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}

	p := h.params
	digest := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

// Verify recomputes the digest with the parameters stored in hash and compares
// in constant time. A mismatch is (false, nil); only bad input is an error.
func (h *PasswordHasher) Verify(password, hash string) (bool, error) {
	if password == "" || hash == "" {
		return false, ErrEmptyInput
	}
	if len(password) > MaxPasswordLength {
		return false, ErrTooLong
	}

	decoded, err := decodeHash(hash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), decoded.salt,
		decoded.params.Time, decoded.params.Memory, decoded.params.Threads,
		uint32(len(decoded.digest)))

	return subtle.ConstantTimeCompare(candidate, decoded.digest) == 1, nil
}

func checkPassword(password string) error {
	if password == "" {
		return ErrEmptyInput
	}
	if len(password) > MaxPasswordLength {
		return ErrTooLong
	}
	return nil
}

type decodedHash struct {
	params Argon2Params
	salt   []byte
	digest []byte
}

func decodeHash(encoded string) (*decodedHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, ErrInvalidHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, ErrInvalidHashFormat
	}

	var out decodedHash
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&out.params.Memory, &out.params.Time, &out.params.Threads); err != nil {
		return nil, ErrInvalidHashFormat
	}
	if out.params.Memory == 0 || out.params.Time == 0 || out.params.Threads == 0 {
		return nil, ErrInvalidHashFormat
	}

	var err error
	if out.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(out.salt) == 0 {
		return nil, ErrInvalidHashFormat
	}
	if out.digest, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(out.digest) == 0 {
		return nil, ErrInvalidHashFormat
	}
	return &out, nil
}
