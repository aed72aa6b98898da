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
	"errors"
	"testing"
)

// MockRepository is a simple in-memory implementation of Repository
type MockRepository struct {
	users   map[string]*MasterUser
	clients []*TenantClient

	clientQueries int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users: make(map[string]*MasterUser),
	}
}

func (m *MockRepository) GetUserByUsername(ctx context.Context, username string) (*MasterUser, error) {
	return m.users[username], nil
}

func (m *MockRepository) GetUserByField(ctx context.Context, field string, value any) (*MasterUser, error) {
	for _, u := range m.users {
		switch field {
		case "username":
			if u.Username == value {
				return u, nil
			}
		case "email":
			if u.Email == value {
				return u, nil
			}
		case "client_id":
			if u.ClientID == value {
				return u, nil
			}
		}
	}
	return nil, nil
}

func (m *MockRepository) GetClientByID(ctx context.Context, clientID int64) (*TenantClient, error) {
	m.clientQueries++
	for _, c := range m.clients {
		if c.ClientID == clientID {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetClientByUsername(ctx context.Context, username string) (*TenantClient, error) {
	m.clientQueries++
	for _, c := range m.clients {
		if c.Username == username || c.DBUser == username {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetAllValidClients(ctx context.Context) ([]*TenantClient, error) {
	m.clientQueries++
	var valid []*TenantClient
	for _, c := range m.clients {
		if c.Valid() {
			valid = append(valid, c)
		}
	}
	return valid, nil
}

func (m *MockRepository) ListClients(ctx context.Context) ([]*TenantClient, error) {
	return m.clients, nil
}

func testHasher() *PasswordHasher {
	// Small parameters keep the test fast.
	return NewPasswordHasher(8192, 1, 1, 16, 32)
}

func TestDirectory_Authenticate(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()
	hasher := testHasher()
	s := NewService(repo, hasher, false)

	hash, err := hasher.Hash("correct-password")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	repo.users["alice"] = &MasterUser{ID: 1, Username: "alice", ClientID: 7, PasswordHash: hash}
	repo.users["legacy"] = &MasterUser{ID: 2, Username: "legacy"}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := s.Authenticate(ctx, "alice", "correct-password")
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("expected alice, got %s", user.Username)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.Authenticate(ctx, "alice", "wrong-password")
		if !errors.Is(err, ErrInvalidPassword) {
			t.Errorf("expected ErrInvalidPassword, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.Authenticate(ctx, "ghost", "whatever")
		if !errors.Is(err, ErrUnknownUser) {
			t.Errorf("expected ErrUnknownUser, got %v", err)
		}
	})

	t.Run("legacy row without hash authenticates on username", func(t *testing.T) {
		user, err := s.Authenticate(ctx, "legacy", "anything")
		if err != nil {
			t.Fatalf("expected success for legacy row, got %v", err)
		}
		if user.ID != 2 {
			t.Errorf("expected user 2, got %d", user.ID)
		}
	})
}

func TestDirectory_ResolveTenant(t *testing.T) {
	ctx := context.Background()

	clients := []*TenantClient{
		{ClientID: 7, Name: "Acme", Username: "acme", DBUser: "acme_db", DBName: "tenant_db_7"},
		{ClientID: 9, Name: "Unprovisioned", Username: "unprov", DBUser: "unprov_db", DBName: ""},
	}

	t.Run("by client id", func(t *testing.T) {
		repo := NewMockRepository()
		repo.clients = clients
		s := NewService(repo, testHasher(), false)

		client, err := s.ResolveTenant(ctx, &MasterUser{Username: "alice", ClientID: 7})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if client.DBName != "tenant_db_7" {
			t.Errorf("expected tenant_db_7, got %s", client.DBName)
		}
		if repo.clientQueries != 1 {
			t.Errorf("expected a single client query, got %d", repo.clientQueries)
		}
	})

	t.Run("by username when client id misses", func(t *testing.T) {
		repo := NewMockRepository()
		repo.clients = clients
		s := NewService(repo, testHasher(), false)

		client, err := s.ResolveTenant(ctx, &MasterUser{Username: "acme_db", ClientID: 99})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if client.ClientID != 7 {
			t.Errorf("expected client 7, got %d", client.ClientID)
		}
	})

	t.Run("no match without fallback", func(t *testing.T) {
		repo := NewMockRepository()
		repo.clients = clients
		s := NewService(repo, testHasher(), false)

		_, err := s.ResolveTenant(ctx, &MasterUser{Username: "stranger"})
		if !errors.Is(err, ErrTenantNotConfigured) {
			t.Errorf("expected ErrTenantNotConfigured, got %v", err)
		}
	})

	t.Run("legacy fallback picks first valid client", func(t *testing.T) {
		repo := NewMockRepository()
		repo.clients = clients
		s := NewService(repo, testHasher(), true)

		client, err := s.ResolveTenant(ctx, &MasterUser{Username: "stranger"})
		if err != nil {
			t.Fatalf("expected fallback to resolve, got %v", err)
		}
		if client.ClientID != 7 {
			t.Errorf("expected client 7 from fallback, got %d", client.ClientID)
		}
	})

	t.Run("client without database is rejected", func(t *testing.T) {
		repo := NewMockRepository()
		repo.clients = clients
		s := NewService(repo, testHasher(), false)

		_, err := s.ResolveTenant(ctx, &MasterUser{Username: "unprov", ClientID: 9})
		if !errors.Is(err, ErrTenantNotConfigured) {
			t.Errorf("expected ErrTenantNotConfigured, got %v", err)
		}
	})
}
