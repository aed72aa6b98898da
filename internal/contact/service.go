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
	"fmt"

	"github.com/contactdesk/contactdesk/internal/sqlbuilder"
)

// searchableFields is the allow-list of columns that request-supplied
// search and update field names may reference. Anything else is
// rejected before it reaches the statement builder.
var searchableFields = map[string]bool{
	"first_name": true,
	"last_name":  true,
	"email":      true,
	"username":   true,
	"status":     true,
}

// nowLiteral is the request-level sentinel for "current server time".
const nowLiteral = "NOW"

// Service provides contact business logic over a Repository.
type Service struct {
	repo Repository
}

// NewService creates a contact service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByUsername returns the contact with the exact username, or nil.
func (s *Service) GetByUsername(ctx context.Context, tenantDB, username string) (*Contact, error) {
	return s.repo.GetByUsername(ctx, tenantDB, username)
}

// GetByID returns the contact with the given id, or nil.
func (s *Service) GetByID(ctx context.Context, tenantDB string, id int64) (*Contact, error) {
	return s.repo.GetByID(ctx, tenantDB, id)
}

// List returns every contact in the tenant database.
func (s *Service) List(ctx context.Context, tenantDB string) ([]*Contact, error) {
	return s.repo.List(ctx, tenantDB)
}

// ListActive returns contacts with the active status.
func (s *Service) ListActive(ctx context.Context, tenantDB string) ([]*Contact, error) {
	return s.repo.ListByStatus(ctx, tenantDB, StatusActive)
}

// ListByStatus returns contacts with the given status.
func (s *Service) ListByStatus(ctx context.Context, tenantDB string, status int) ([]*Contact, error) {
	return s.repo.ListByStatus(ctx, tenantDB, status)
}

// ListByEmail returns contacts with the given email.
func (s *Service) ListByEmail(ctx context.Context, tenantDB, email string) ([]*Contact, error) {
	return s.repo.ListByEmail(ctx, tenantDB, email)
}

// SearchByName matches term as a case-insensitive substring of the
// first OR last name.
func (s *Service) SearchByName(ctx context.Context, tenantDB, term string) ([]*Contact, error) {
	where := []sqlbuilder.Cond{
		sqlbuilder.Any(
			sqlbuilder.Like("first_name", term),
			sqlbuilder.Like("last_name", term),
		),
	}
	return s.repo.Search(ctx, tenantDB, where)
}

// SearchAdvanced matches each field against its term as a substring,
// combined with AND when matchAll is true, otherwise OR. Field names
// must be on the allow-list.
func (s *Service) SearchAdvanced(ctx context.Context, tenantDB string, fieldTerms map[string]string, matchAll bool) ([]*Contact, error) {
	if len(fieldTerms) == 0 {
		return nil, ErrNoFields
	}

	conds := make([]sqlbuilder.Cond, 0, len(fieldTerms))
	for field, term := range fieldTerms {
		if !searchableFields[field] {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSearchField, field)
		}
		conds = append(conds, sqlbuilder.Like(field, term))
	}

	where := conds
	if !matchAll {
		where = []sqlbuilder.Cond{sqlbuilder.Any(conds...)}
	}
	return s.repo.Search(ctx, tenantDB, where)
}

// Create inserts a contact from request-supplied fields. Creation and
// modification timestamps are auto-filled with the current-time
// sentinel when the caller omits them; a field value of "NOW" is
// translated to the database's current-timestamp expression. Returns
// the generated id.
func (s *Service) Create(ctx context.Context, tenantDB string, values map[string]any) (int64, error) {
	fields, err := buildFields(values)
	if err != nil {
		return 0, err
	}

	if !fields.Has("created_at") {
		fields = fields.Set("created_at", sqlbuilder.Now)
	}
	if !fields.Has("updated_at") {
		fields = fields.Set("updated_at", sqlbuilder.Now)
	}

	return s.repo.Create(ctx, tenantDB, fields)
}

// Update applies fields to a contact. The modification timestamp is
// always stamped to the current time, overriding any caller-supplied
// value. Reports whether a row matched.
func (s *Service) Update(ctx context.Context, tenantDB string, id int64, values map[string]any) (bool, error) {
	delete(values, "updated_at")
	fields := sqlbuilder.Fields{}
	if len(values) > 0 {
		var err error
		fields, err = buildFields(values)
		if err != nil {
			return false, err
		}
	}
	fields = fields.Set("updated_at", sqlbuilder.Now)

	return s.repo.Update(ctx, tenantDB, id, fields)
}

// Delete removes a contact; reports whether a row was removed.
func (s *Service) Delete(ctx context.Context, tenantDB string, id int64) (bool, error) {
	return s.repo.Delete(ctx, tenantDB, id)
}

// BulkUpdate applies fields to every contact matching the equality
// filters. No row cap: the WHERE decides the blast radius. Returns the
// affected count.
func (s *Service) BulkUpdate(ctx context.Context, tenantDB string, filters map[string]any, values map[string]any) (int64, error) {
	fields, err := buildFields(values)
	if err != nil {
		return 0, err
	}
	fields = fields.Set("updated_at", sqlbuilder.Now)

	where := make([]sqlbuilder.Cond, 0, len(filters))
	for col, val := range filters {
		if !searchableFields[col] {
			return 0, fmt.Errorf("%w: %s", ErrInvalidSearchField, col)
		}
		where = append(where, sqlbuilder.Eq(col, val))
	}

	return s.repo.BulkUpdate(ctx, tenantDB, where, fields)
}

// buildFields converts request-supplied column/value pairs to an
// ordered field list, validating names and translating the NOW
// sentinel.
func buildFields(values map[string]any) (sqlbuilder.Fields, error) {
	if len(values) == 0 {
		return nil, ErrNoFields
	}

	fields := sqlbuilder.Fields{}
	for col, val := range values {
		if !searchableFields[col] && col != "created_at" && col != "updated_at" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSearchField, col)
		}
		if str, ok := val.(string); ok && str == nowLiteral {
			val = sqlbuilder.Now
		}
		fields = fields.Set(col, val)
	}
	return fields, nil
}
