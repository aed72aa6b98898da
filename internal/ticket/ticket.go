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

// Package ticket models tenant-scoped support tickets. Same tenancy
// rules as contacts: reachable only through the tenant database named
// by a verified credential.
package ticket

import (
	"context"
	"time"
)

// Ticket is a row in a tenant tickets table.
type Ticket struct {
	ID        int64     `json:"id"`
	ContactID int64     `json:"contact_id"`
	Subject   string    `json:"subject"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository defines tenant-scoped ticket reads.
type Repository interface {
	// List returns tickets, optionally filtered by status, capped at
	// limit when positive.
	List(ctx context.Context, tenantDB string, status *int, limit int) ([]*Ticket, error)

	// GetByID returns the ticket with the given id, or nil.
	GetByID(ctx context.Context, tenantDB string, id int64) (*Ticket, error)
}

// Service provides ticket reads over a Repository.
type Service struct {
	repo Repository
}

// NewService creates a ticket service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns tickets for the tenant, newest first at the repository's
// discretion, optionally filtered by status and capped at limit.
func (s *Service) List(ctx context.Context, tenantDB string, status *int, limit int) ([]*Ticket, error) {
	return s.repo.List(ctx, tenantDB, status, limit)
}

// GetByID returns one ticket, or nil when absent.
func (s *Service) GetByID(ctx context.Context, tenantDB string, id int64) (*Ticket, error) {
	return s.repo.GetByID(ctx, tenantDB, id)
}
