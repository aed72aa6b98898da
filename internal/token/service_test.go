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
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, mock *clock.Mock) *Service {
	t.Helper()
	s, err := NewService("test-secret", "HS256", 30*time.Minute, WithClock(mock))
	require.NoError(t, err)
	return s
}

// TestPurpose: Validates the issue/verify round trip, expiry transition under
// a controlled clock, and the binding of subject and tenant database.
// Scope: Unit Test
// Expected: Claims round-trip exactly; tokens expire only after the
// configured lifetime elapses.
func TestToken_IssueVerifyRoundTrip(t *testing.T) {
	mock := clock.NewMock()
	s := newTestService(t, mock)

	signed, expiresAt, err := s.Issue("alice", "tenant_db_7", 7)
	require.NoError(t, err)
	assert.Equal(t, mock.Now().Add(30*time.Minute), expiresAt)

	claims, err := s.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username())
	assert.Equal(t, "tenant_db_7", claims.Database)
	assert.Equal(t, int64(7), claims.ClientID)

	assert.False(t, s.IsExpired(signed))

	mock.Add(31 * time.Minute)
	_, err = s.Verify(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.True(t, s.IsExpired(signed))
}

func TestToken_VerifyRejectsGarbage(t *testing.T) {
	s := newTestService(t, clock.NewMock())

	_, err := s.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.True(t, s.IsExpired("not-a-token"))
}

func TestToken_VerifyRejectsWrongSecret(t *testing.T) {
	mock := clock.NewMock()
	s := newTestService(t, mock)
	other, err := NewService("other-secret", "HS256", 30*time.Minute, WithClock(mock))
	require.NoError(t, err)

	signed, _, err := other.Issue("alice", "tenant_db_7", 7)
	require.NoError(t, err)

	_, err = s.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestToken_ExpiryInfo(t *testing.T) {
	mock := clock.NewMock()
	s := newTestService(t, mock)

	signed, expiresAt, err := s.Issue("alice", "tenant_db_7", 0)
	require.NoError(t, err)

	mock.Add(10 * time.Minute)

	info := s.ExpiryInfo(signed)
	assert.False(t, info.IsExpired)
	assert.Equal(t, expiresAt.Unix(), info.ExpiresAt.Unix())
	assert.Equal(t, int64(20*60), info.SecondsRemaining)
	assert.Equal(t, int64(20), info.MinutesRemaining)
}

// Remaining time is floored at zero on expired tokens, never negative.
func TestToken_ExpiryInfoExpired(t *testing.T) {
	mock := clock.NewMock()
	s := newTestService(t, mock)

	signed, _, err := s.Issue("alice", "tenant_db_7", 0)
	require.NoError(t, err)

	mock.Add(2 * time.Hour)

	info := s.ExpiryInfo(signed)
	assert.True(t, info.IsExpired)
	assert.Equal(t, int64(0), info.SecondsRemaining)
	assert.Equal(t, int64(0), info.MinutesRemaining)
}

// Refreshing yields a new token with the same binding and a fresh
// expiry; the old token stays valid until its own expiry.
func TestToken_Refresh(t *testing.T) {
	mock := clock.NewMock()
	s := newTestService(t, mock)

	old, _, err := s.Issue("alice", "tenant_db_7", 7)
	require.NoError(t, err)

	mock.Add(20 * time.Minute)

	claims, err := s.Verify(old)
	require.NoError(t, err)

	fresh, freshExpiry, err := s.Refresh(claims)
	require.NoError(t, err)
	assert.Equal(t, mock.Now().Add(30*time.Minute), freshExpiry)

	freshClaims, err := s.Verify(fresh)
	require.NoError(t, err)
	assert.Equal(t, "alice", freshClaims.Username())
	assert.Equal(t, "tenant_db_7", freshClaims.Database)
	assert.Equal(t, int64(7), freshClaims.ClientID)

	// Old token survives past the refresh, then expires on its own.
	assert.False(t, s.IsExpired(old))
	mock.Add(11 * time.Minute)
	assert.True(t, s.IsExpired(old))
	assert.False(t, s.IsExpired(fresh))
}

func TestToken_ServiceConfigValidation(t *testing.T) {
	_, err := NewService("", "HS256", time.Minute)
	assert.Error(t, err)

	_, err = NewService("secret", "RS256", time.Minute)
	assert.Error(t, err)

	_, err = NewService("secret", "bogus", time.Minute)
	assert.Error(t, err)
}
