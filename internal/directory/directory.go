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

// Package directory models the master store: the central mapping from
// usernames to tenants and from tenants to tenant database names. Rows
// are owned by an external provisioning process; this system only reads
// them.
package directory

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrUnknownUser         = errors.New("unknown user")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrTenantNotConfigured = errors.New("tenant configuration missing")
)

// MasterUser is a row in the master user table. Username matching is
// exact and case-sensitive as stored.
type MasterUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ClientID     int64     `json:"client_id"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TenantClient maps a tenant to its database. A tenant is valid iff its
// database name is non-empty.
type TenantClient struct {
	ClientID  int64     `json:"client_id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	DBUser    string    `json:"db_user"`
	DBName    string    `json:"db_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether the tenant has a usable database name.
func (c *TenantClient) Valid() bool {
	return c != nil && c.DBName != ""
}

// Repository defines read access to the master store. "No such record"
// is represented as a nil result, never as an error; only storage
// failures produce errors.
type Repository interface {
	// GetUserByUsername looks up a master user by exact username.
	GetUserByUsername(ctx context.Context, username string) (*MasterUser, error)

	// GetUserByField looks up a master user by an allow-listed column.
	GetUserByField(ctx context.Context, field string, value any) (*MasterUser, error)

	// GetClientByID looks up a tenant client by id.
	GetClientByID(ctx context.Context, clientID int64) (*TenantClient, error)

	// GetClientByUsername matches either the client's primary username
	// or its db-user field.
	GetClientByUsername(ctx context.Context, username string) (*TenantClient, error)

	// GetAllValidClients returns clients with a non-empty database name.
	GetAllValidClients(ctx context.Context) ([]*TenantClient, error)

	// ListClients returns all client records.
	ListClients(ctx context.Context) ([]*TenantClient, error)
}
