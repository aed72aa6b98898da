// Copyright 2026 The ContactDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"
)

// Service issues and verifies stateless bearer credentials. Tokens are
// signed HMAC JWTs carrying subject, tenant database name, and expiry;
// nothing is persisted server-side and there is no revocation list.
type Service struct {
	secret   []byte
	method   jwt.SigningMethod
	lifetime time.Duration
	clock    clock.Clock
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects a clock, used by tests to control expiry.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// NewService creates a credential service. Algorithm is the JWT signing
// method name (HS256, HS384, HS512); lifetime is the fixed validity
// window for every issued token.
func NewService(secret, algorithm string, lifetime time.Duration, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("token: signing secret is required")
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("token: unsupported signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token: signing algorithm %q is not an HMAC method", algorithm)
	}

	s := &Service{
		secret:   []byte(secret),
		method:   method,
		lifetime: lifetime,
		clock:    clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Lifetime returns the configured token validity window.
func (s *Service) Lifetime() time.Duration {
	return s.lifetime
}

// Issue creates a signed credential binding username to the resolved
// tenant database. expiresAt = issuance time + configured lifetime.
func (s *Service) Issue(username, database string, clientID int64) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.lifetime)

	claims := &Claims{
		Database: database,
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify parses and validates a credential. The single authoritative
// expiry check happens inside JWT validation against the injected clock.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// IsExpired reports whether the credential is past its expiry.
// Fail-closed: any verification failure counts as expired.
func (s *Service) IsExpired(tokenString string) bool {
	_, err := s.Verify(tokenString)
	return err != nil
}

// ExpiryInfo inspects a credential's remaining lifetime. Invalid or
// expired tokens report IsExpired with no further detail.
func (s *Service) ExpiryInfo(tokenString string) Expiry {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return Expiry{IsExpired: true}
	}

	remaining := claims.ExpiresAt.Time.Sub(s.clock.Now())
	if remaining < 0 {
		remaining = 0
	}

	info := Expiry{
		IsExpired:        remaining == 0,
		ExpiresAt:        claims.ExpiresAt.Time,
		SecondsRemaining: int64(remaining.Seconds()),
		MinutesRemaining: int64(remaining.Minutes()),
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	return info
}

// Refresh issues a brand-new credential with the same subject, tenant
// database, and client id, and a fresh expiry. The old token is not
// invalidated; both remain valid until their independent expiries.
func (s *Service) Refresh(claims *Claims) (string, time.Time, error) {
	return s.Issue(claims.Subject, claims.Database, claims.ClientID)
}
