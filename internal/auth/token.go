package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidInput     = errors.New("token: subject and secret are required")
	ErrInvalidSignature = errors.New("token: signature does not verify")
	ErrMalformed        = errors.New("token: malformed")
	ErrInvalidToken     = errors.New("token: invalid")
	ErrExpiredToken     = errors.New("token: expired")
)

// TokenClaims is the immutable payload of an access or refresh token.
type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec signs and verifies compact HS256 tokens carrying {sub, iat, exp}.
// The secret is supplied per call, so access and refresh tokens never share
// a key inside the codec.
type TokenCodec struct {
	now func() time.Time
}

// NewTokenCodec returns a codec using the wall clock.
func NewTokenCodec() *TokenCodec {
	return &TokenCodec{now: time.Now}
}

// WithClock returns a copy of the codec reading time from now.
func (tc *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	return &TokenCodec{now: now}
}

// Encode issues a token for subject that expires ttl from now.
func (tc *TokenCodec) Encode(subject string, secret []byte, ttl time.Duration) (string, error) {
	if subject == "" || len(secret) == 0 {
		return "", ErrInvalidInput
	}

	now := tc.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Decode checks the signature against secret and returns the claims. Expiry is
// not checked here; see Validate.
func (tc *TokenCodec) Decode(token string, secret []byte) (TokenClaims, error) {
	if token == "" {
		return TokenClaims{}, ErrMalformed
	}
	if len(secret) == 0 {
		return TokenClaims{}, ErrInvalidSignature
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return TokenClaims{}, ErrInvalidSignature
		}
		return TokenClaims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	out := TokenClaims{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Validate rejects claims without a subject or past their expiry.
func (tc *TokenCodec) Validate(claims TokenClaims) (TokenClaims, error) {
	if claims.Subject == "" {
		return TokenClaims{}, ErrInvalidToken
	}
	if claims.ExpiresAt.IsZero() || tc.now().After(claims.ExpiresAt) {
		return TokenClaims{}, ErrExpiredToken
	}
	return claims, nil
}

// DecodeAndValidate is Decode followed by Validate.
func (tc *TokenCodec) DecodeAndValidate(token string, secret []byte) (TokenClaims, error) {
	claims, err := tc.Decode(token, secret)
	if err != nil {
		return TokenClaims{}, err
	}
	return tc.Validate(claims)
}
