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
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Domain errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the self-contained content of a bearer credential. The
// tenant database name is resolved server-side at issuance and is the
// sole tenant-scoping input for protected requests.
type Claims struct {
	Database string `json:"dbname"`
	ClientID int64  `json:"client_id,omitempty"`
	jwt.RegisteredClaims
}

// Username returns the credential subject.
func (c *Claims) Username() string {
	return c.Subject
}

// Expiry describes the remaining lifetime of a credential. Remaining
// values are floored at zero, never negative.
type Expiry struct {
	IsExpired        bool      `json:"is_expired"`
	ExpiresAt        time.Time `json:"expires_at"`
	IssuedAt         time.Time `json:"issued_at"`
	SecondsRemaining int64     `json:"seconds_remaining"`
	MinutesRemaining int64     `json:"minutes_remaining"`
}
