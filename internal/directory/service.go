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

package directory

import (
	"context"
	"log/slog"

	"github.com/contactdesk/contactdesk/internal/observability/logger"
)

// Service provides identity and tenant resolution against the master
// store.
type Service struct {
	repo   Repository
	hasher *PasswordHasher

	// legacyTenantFallback restores the historical behavior of routing
	// a user to the first valid tenant when neither the client-id nor
	// the username lookup matches. Off by default; when off, such users
	// fail with ErrTenantNotConfigured.
	legacyTenantFallback bool
}

// NewService creates a directory service.
func NewService(repo Repository, hasher *PasswordHasher, legacyTenantFallback bool) *Service {
	return &Service{
		repo:                 repo,
		hasher:               hasher,
		legacyTenantFallback: legacyTenantFallback,
	}
}

// Authenticate verifies a username (and password, when the directory
// row carries a hash) against the master store. Directory rows without
// a stored hash are legacy entries and authenticate on username alone.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*MasterUser, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownUser
	}

	if user.PasswordHash != "" {
		ok, err := s.hasher.Verify(password, user.PasswordHash)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInvalidPassword
		}
	}

	return user, nil
}

// ResolveTenant finds the tenant client for a master user: first by the
// user's client id, then by username/db-user match, then (only when the
// legacy fallback is enabled) the first valid client. A client without
// a database name is never returned.
func (s *Service) ResolveTenant(ctx context.Context, user *MasterUser) (*TenantClient, error) {
	var client *TenantClient

	if user.ClientID > 0 {
		c, err := s.repo.GetClientByID(ctx, user.ClientID)
		if err != nil {
			return nil, err
		}
		client = c
	}

	if client == nil {
		c, err := s.repo.GetClientByUsername(ctx, user.Username)
		if err != nil {
			return nil, err
		}
		client = c
	}

	if client == nil && s.legacyTenantFallback {
		clients, err := s.repo.GetAllValidClients(ctx)
		if err != nil {
			return nil, err
		}
		if len(clients) > 0 {
			client = clients[0]
			slog.WarnContext(ctx, "tenant resolved via legacy first-valid-client fallback",
				logger.Username(user.Username),
				logger.TenantDB(client.DBName),
			)
		}
	}

	if !client.Valid() {
		return nil, ErrTenantNotConfigured
	}

	return client, nil
}

// ListValidTenants returns all tenants with a usable database name.
func (s *Service) ListValidTenants(ctx context.Context) ([]*TenantClient, error) {
	return s.repo.GetAllValidClients(ctx)
}
