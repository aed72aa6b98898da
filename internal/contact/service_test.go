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

package contact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactdesk/contactdesk/internal/sqlbuilder"
)

// MockRepository records the statements built by the service.
type MockRepository struct {
	contacts []*Contact

	lastStatus int
	lastWhere  []sqlbuilder.Cond
	lastFields sqlbuilder.Fields

	createdID int64
	matched   bool
	affected  int64
}

func (m *MockRepository) GetByUsername(ctx context.Context, tenantDB, username string) (*Contact, error) {
	for _, c := range m.contacts {
		if c.Username == username {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, tenantDB string, id int64) (*Contact, error) {
	for _, c := range m.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) List(ctx context.Context, tenantDB string) ([]*Contact, error) {
	return m.contacts, nil
}

func (m *MockRepository) ListByStatus(ctx context.Context, tenantDB string, status int) ([]*Contact, error) {
	m.lastStatus = status
	var out []*Contact
	for _, c := range m.contacts {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockRepository) ListByEmail(ctx context.Context, tenantDB, email string) ([]*Contact, error) {
	var out []*Contact
	for _, c := range m.contacts {
		if c.Email == email {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockRepository) Search(ctx context.Context, tenantDB string, where []sqlbuilder.Cond) ([]*Contact, error) {
	m.lastWhere = where
	return m.contacts, nil
}

func (m *MockRepository) Create(ctx context.Context, tenantDB string, fields sqlbuilder.Fields) (int64, error) {
	m.lastFields = fields
	return m.createdID, nil
}

func (m *MockRepository) Update(ctx context.Context, tenantDB string, id int64, fields sqlbuilder.Fields) (bool, error) {
	m.lastFields = fields
	return m.matched, nil
}

func (m *MockRepository) Delete(ctx context.Context, tenantDB string, id int64) (bool, error) {
	return m.matched, nil
}

func (m *MockRepository) BulkUpdate(ctx context.Context, tenantDB string, where []sqlbuilder.Cond, fields sqlbuilder.Fields) (int64, error) {
	m.lastWhere = where
	m.lastFields = fields
	return m.affected, nil
}

// renderWhere turns recorded conditions into SQL for assertions.
func renderWhere(t *testing.T, where []sqlbuilder.Cond) (string, []any) {
	t.Helper()
	query, args, err := sqlbuilder.Select("contacts", sqlbuilder.Options{
		Columns: []string{"id"},
		Where:   where,
	})
	require.NoError(t, err)
	return query, args
}

func TestContact_ListActive(t *testing.T) {
	repo := &MockRepository{contacts: []*Contact{
		{ID: 1, Username: "a", Status: StatusActive},
		{ID: 2, Username: "b", Status: 1},
	}}
	s := NewService(repo)

	out, err := s.ListActive(context.Background(), "tenant_db_7")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, repo.lastStatus)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID)
}

func TestContact_SearchByName(t *testing.T) {
	repo := &MockRepository{}
	s := NewService(repo)

	_, err := s.SearchByName(context.Background(), "tenant_db_7", "an")
	require.NoError(t, err)

	query, args := renderWhere(t, repo.lastWhere)
	assert.Contains(t, query, "(first_name ILIKE $1 OR last_name ILIKE $2)")
	assert.Equal(t, []any{"%an%", "%an%"}, args)
}

func TestContact_SearchAdvanced(t *testing.T) {
	ctx := context.Background()

	t.Run("match all combines with AND", func(t *testing.T) {
		repo := &MockRepository{}
		s := NewService(repo)

		_, err := s.SearchAdvanced(ctx, "tenant_db_7", map[string]string{"email": "example.com"}, true)
		require.NoError(t, err)

		query, args := renderWhere(t, repo.lastWhere)
		assert.Contains(t, query, "email ILIKE $1")
		assert.NotContains(t, query, " OR ")
		assert.Equal(t, []any{"%example.com%"}, args)
	})

	t.Run("match any combines with OR", func(t *testing.T) {
		repo := &MockRepository{}
		s := NewService(repo)

		_, err := s.SearchAdvanced(ctx, "tenant_db_7", map[string]string{
			"first_name": "an",
			"last_name":  "an",
		}, false)
		require.NoError(t, err)

		query, _ := renderWhere(t, repo.lastWhere)
		assert.Contains(t, query, " OR ")
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		s := NewService(&MockRepository{})

		_, err := s.SearchAdvanced(ctx, "tenant_db_7", map[string]string{"password_hash": "x"}, true)
		assert.ErrorIs(t, err, ErrInvalidSearchField)
	})

	t.Run("no fields rejected", func(t *testing.T) {
		s := NewService(&MockRepository{})

		_, err := s.SearchAdvanced(ctx, "tenant_db_7", nil, true)
		assert.ErrorIs(t, err, ErrNoFields)
	})
}

func TestContact_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("timestamps auto-filled", func(t *testing.T) {
		repo := &MockRepository{createdID: 42}
		s := NewService(repo)

		id, err := s.Create(ctx, "tenant_db_7", map[string]any{
			"first_name": "Anna",
			"username":   "anna",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)

		assert.True(t, repo.lastFields.Has("created_at"))
		assert.True(t, repo.lastFields.Has("updated_at"))
		for _, f := range repo.lastFields {
			if f.Name == "created_at" || f.Name == "updated_at" {
				assert.Equal(t, sqlbuilder.Now, f.Value)
			}
		}
	})

	t.Run("NOW literal translated", func(t *testing.T) {
		repo := &MockRepository{}
		s := NewService(repo)

		_, err := s.Create(ctx, "tenant_db_7", map[string]any{
			"username":   "anna",
			"created_at": "NOW",
		})
		require.NoError(t, err)

		for _, f := range repo.lastFields {
			if f.Name == "created_at" {
				assert.Equal(t, sqlbuilder.Now, f.Value)
			}
		}
	})

	t.Run("unknown column rejected", func(t *testing.T) {
		s := NewService(&MockRepository{})

		_, err := s.Create(ctx, "tenant_db_7", map[string]any{"id": 99})
		assert.ErrorIs(t, err, ErrInvalidSearchField)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		s := NewService(&MockRepository{})

		_, err := s.Create(ctx, "tenant_db_7", map[string]any{})
		assert.ErrorIs(t, err, ErrNoFields)
	})
}

func TestContact_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("modification timestamp always stamped", func(t *testing.T) {
		repo := &MockRepository{matched: true}
		s := NewService(repo)

		matched, err := s.Update(ctx, "tenant_db_7", 1, map[string]any{"status": 2})
		require.NoError(t, err)
		assert.True(t, matched)

		require.True(t, repo.lastFields.Has("updated_at"))
		for _, f := range repo.lastFields {
			if f.Name == "updated_at" {
				assert.Equal(t, sqlbuilder.Now, f.Value)
			}
		}
	})

	t.Run("caller supplied timestamp is overridden", func(t *testing.T) {
		repo := &MockRepository{matched: true}
		s := NewService(repo)

		_, err := s.Update(ctx, "tenant_db_7", 1, map[string]any{"updated_at": "2020-01-01"})
		require.NoError(t, err)

		require.Len(t, repo.lastFields, 1)
		assert.Equal(t, "updated_at", repo.lastFields[0].Name)
		assert.Equal(t, sqlbuilder.Now, repo.lastFields[0].Value)
	})

	t.Run("empty body still touches the row", func(t *testing.T) {
		repo := &MockRepository{matched: true}
		s := NewService(repo)

		matched, err := s.Update(ctx, "tenant_db_7", 1, map[string]any{})
		require.NoError(t, err)
		assert.True(t, matched)
		require.Len(t, repo.lastFields, 1)
	})
}

func TestContact_BulkUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("filters build equality conditions", func(t *testing.T) {
		repo := &MockRepository{affected: 3}
		s := NewService(repo)

		affected, err := s.BulkUpdate(ctx, "tenant_db_7",
			map[string]any{"status": 1},
			map[string]any{"status": 2},
		)
		require.NoError(t, err)
		assert.Equal(t, int64(3), affected)

		query, args := renderWhere(t, repo.lastWhere)
		assert.Contains(t, query, "status = $1")
		assert.Equal(t, []any{1}, args)
		assert.True(t, repo.lastFields.Has("updated_at"))
	})

	t.Run("unknown filter column rejected", func(t *testing.T) {
		s := NewService(&MockRepository{})

		_, err := s.BulkUpdate(ctx, "tenant_db_7",
			map[string]any{"client_id": 1},
			map[string]any{"status": 2},
		)
		assert.ErrorIs(t, err, ErrInvalidSearchField)
	})
}
