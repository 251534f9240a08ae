package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("access-secret-for-tests")
	refreshSecret = []byte("refresh-secret-for-tests")
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewTokenCodec().WithClock(fixedClock(now))

	token, err := codec.Encode("user-42", accessSecret, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	claims, err := codec.Decode(token, accessSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.True(t, claims.IssuedAt.Equal(now))
	assert.True(t, claims.ExpiresAt.Equal(now.Add(15*time.Minute)))

	validated, err := codec.Validate(claims)
	require.NoError(t, err)
	assert.Equal(t, claims, validated)
}

func TestEncodeRejectsEmptyInput(t *testing.T) {
	codec := NewTokenCodec()

	_, err := codec.Encode("", accessSecret, time.Minute)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = codec.Encode("user-1", nil, time.Minute)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDecodeWithOtherSecretFails(t *testing.T) {
	codec := NewTokenCodec()
	token, err := codec.Encode("user-1", accessSecret, time.Minute)
	require.NoError(t, err)

	_, err = codec.Decode(token, refreshSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	refresh, err := codec.Encode("user-1", refreshSecret, time.Hour)
	require.NoError(t, err)
	_, err = codec.Decode(refresh, accessSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestDecodeTamperedPayloadFails(t *testing.T) {
	codec := NewTokenCodec()
	token, err := codec.Encode("user-1", accessSecret, time.Minute)
	require.NoError(t, err)

	other, err := codec.Encode("user-2", accessSecret, time.Minute)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	forged := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, err = codec.Decode(forged, accessSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestDecodeMalformed(t *testing.T) {
	codec := NewTokenCodec()
	for _, token := range []string{"", "garbage", "a.b.c", "a.b"} {
		_, err := codec.Decode(token, accessSecret)
		assert.ErrorIs(t, err, ErrMalformed, token)
	}
}

func TestDecodeRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(accessSecret)
	require.NoError(t, err)

	_, err = NewTokenCodec().Decode(token, accessSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestDecodeDoesNotCheckExpiry(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	token, err := NewTokenCodec().WithClock(fixedClock(past)).Encode("user-1", accessSecret, time.Minute)
	require.NoError(t, err)

	claims, err := NewTokenCodec().Decode(token, accessSecret)
	require.NoError(t, err)

	_, err = NewTokenCodec().Validate(claims)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewTokenCodec().WithClock(fixedClock(now))

	_, err := codec.Validate(TokenClaims{Subject: "", ExpiresAt: now.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.Validate(TokenClaims{Subject: "u", ExpiresAt: now.Add(-time.Second)})
	assert.ErrorIs(t, err, ErrExpiredToken)

	got, err := codec.Validate(TokenClaims{Subject: "u", ExpiresAt: now.Add(time.Second)})
	require.NoError(t, err)
	assert.Equal(t, "u", got.Subject)
}

func TestDecodeAndValidate(t *testing.T) {
	codec := NewTokenCodec()
	token, err := codec.Encode("user-9", refreshSecret, time.Hour)
	require.NoError(t, err)

	claims, err := codec.DecodeAndValidate(token, refreshSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-9", claims.Subject)

	_, err = codec.DecodeAndValidate(token, accessSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
