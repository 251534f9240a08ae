package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters keep the suite fast; the format is identical.
func testHasher() *PasswordHasher {
	return NewPasswordHasher(Argon2Params{Memory: 64, Time: 1, Threads: 1})
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := testHasher()
	for _, pw := range []string{"secret1", "correct horse battery staple", "пароль-ü", strings.Repeat("x", MaxPasswordLength)} {
		hash, err := h.Hash(pw)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=64,t=1,p=1$"), hash)

		ok, err := h.Verify(pw, hash)
		require.NoError(t, err)
		assert.True(t, ok, "password %q should verify", pw)
	}
}

func TestVerifyRejectsOtherPassword(t *testing.T) {
	h := testHasher()
	hash, err := h.Hash("password-one")
	require.NoError(t, err)

	ok, err := h.Verify("password-two", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	h := testHasher()
	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashInputErrors(t *testing.T) {
	h := testHasher()

	_, err := h.Hash("")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = h.Hash(strings.Repeat("a", MaxPasswordLength+1))
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestVerifyInputErrors(t *testing.T) {
	h := testHasher()
	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	_, err = h.Verify("", hash)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = h.Verify("secret1", "")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = h.Verify(strings.Repeat("a", MaxPasswordLength+1), hash)
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestVerifyMalformedHash(t *testing.T) {
	h := testHasher()
	cases := []string{
		"not-a-hash",
		"$2a$12$abcdefghijklmnopqrstuv",
		"$argon2i$v=19$m=64,t=1,p=1$c2FsdHNhbHQ$ZGlnZXN0",
		"$argon2id$v=16$m=64,t=1,p=1$c2FsdHNhbHQ$ZGlnZXN0",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdHNhbHQ$ZGlnZXN0",
		"$argon2id$v=19$m=64,t=1,p=1$!!!$ZGlnZXN0",
		"$argon2id$v=19$m=64,t=1,p=1$c2FsdHNhbHQ$",
	}
	for _, c := range cases {
		_, err := h.Verify("secret1", c)
		assert.ErrorIs(t, err, ErrInvalidHashFormat, c)
	}
}

func TestVerifyUsesEmbeddedParameters(t *testing.T) {
	hash, err := NewPasswordHasher(Argon2Params{Memory: 128, Time: 2, Threads: 2}).Hash("secret1")
	require.NoError(t, err)

	ok, err := testHasher().Verify("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}
