package domain

import "time"

// TokenPair is what a successful login hands out.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresIn time.Duration
}
