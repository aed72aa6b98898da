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

// Package contact models tenant-scoped contact records. A contact's
// identity is only unique within its tenant database; every operation
// takes the tenant database name resolved from the caller's credential.
package contact

import (
	"context"
	"errors"
	"time"

	"github.com/contactdesk/contactdesk/internal/sqlbuilder"
)

// Domain errors
var (
	ErrInvalidSearchField = errors.New("search field not allowed")
	ErrNoFields           = errors.New("no fields supplied")
)

// StatusActive is the status value of an active contact.
const StatusActive = 2

// Contact is a row in a tenant contacts table.
type Contact struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository defines tenant-scoped contact persistence. tenantDB names
// the tenant database each call runs against; implementations must
// never cache it across calls.
type Repository interface {
	GetByUsername(ctx context.Context, tenantDB, username string) (*Contact, error)
	GetByID(ctx context.Context, tenantDB string, id int64) (*Contact, error)
	List(ctx context.Context, tenantDB string) ([]*Contact, error)
	ListByStatus(ctx context.Context, tenantDB string, status int) ([]*Contact, error)
	ListByEmail(ctx context.Context, tenantDB, email string) ([]*Contact, error)

	// Search returns contacts matching the given conditions.
	Search(ctx context.Context, tenantDB string, where []sqlbuilder.Cond) ([]*Contact, error)

	// Create inserts a contact and returns the generated id.
	Create(ctx context.Context, tenantDB string, fields sqlbuilder.Fields) (int64, error)

	// Update applies fields to the contact with the given id and
	// reports whether a row matched.
	Update(ctx context.Context, tenantDB string, id int64, fields sqlbuilder.Fields) (bool, error)

	// Delete removes a contact and reports whether a row was removed.
	Delete(ctx context.Context, tenantDB string, id int64) (bool, error)

	// BulkUpdate applies fields to every contact matching where and
	// returns the affected row count.
	BulkUpdate(ctx context.Context, tenantDB string, where []sqlbuilder.Cond, fields sqlbuilder.Fields) (int64, error)
}
