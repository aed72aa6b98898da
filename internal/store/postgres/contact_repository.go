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

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contactdesk/contactdesk/internal/contact"
	"github.com/contactdesk/contactdesk/internal/sqlbuilder"
)

var contactColumns = []string{
	"id", "first_name", "last_name", "email", "username",
	"status", "created_at", "updated_at",
}

// ContactRepository implements contact.Repository. Every call resolves
// the tenant pool from the database name it is given.
type ContactRepository struct {
	pools *TenantPools
}

// NewContactRepository creates a new contact repository.
func NewContactRepository(pools *TenantPools) *ContactRepository {
	return &ContactRepository{pools: pools}
}

func (r *ContactRepository) pool(ctx context.Context, tenantDB string) (*pgxpool.Pool, error) {
	return r.pools.Get(ctx, tenantDB)
}

func scanContact(row pgx.Row) (*contact.Contact, error) {
	var c contact.Contact
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Username,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return &c, nil
}

func (r *ContactRepository) queryContacts(ctx context.Context, tenantDB string, where []sqlbuilder.Cond) ([]*contact.Contact, error) {
	pool, err := r.pool(ctx, tenantDB)
	if err != nil {
		return nil, err
	}

	query, args, err := sqlbuilder.Select("contacts", sqlbuilder.Options{
		Columns: contactColumns,
		Where:   where,
		OrderBy: "id",
	})
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*contact.Contact
	for rows.Next() {
		var c contact.Contact
		err := rows.Scan(
			&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Username,
			&c.Status, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contacts: %w", err)
	}

	return contacts, nil
}

// GetByUsername returns the contact with the given username, or nil.
func (r *ContactRepository) GetByUsername(ctx context.Context, tenantDB, username string) (*contact.Contact, error) {
	return r.getOne(ctx, tenantDB, sqlbuilder.Eq("username", username))
}

// GetByID returns the contact with the given id, or nil.
func (r *ContactRepository) GetByID(ctx context.Context, tenantDB string, id int64) (*contact.Contact, error) {
	return r.getOne(ctx, tenantDB, sqlbuilder.Eq("id", id))
}

func (r *ContactRepository) getOne(ctx context.Context, tenantDB string, cond sqlbuilder.Cond) (*contact.Contact, error) {
	pool, err := r.pool(ctx, tenantDB)
	if err != nil {
		return nil, err
	}

	query, args, err := sqlbuilder.Select("contacts", sqlbuilder.Options{
		Columns: contactColumns,
		Where:   []sqlbuilder.Cond{cond},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}

	return scanContact(pool.QueryRow(ctx, query, args...))
}

// List returns every contact in the tenant database.
func (r *ContactRepository) List(ctx context.Context, tenantDB string) ([]*contact.Contact, error) {
	return r.queryContacts(ctx, tenantDB, nil)
}

// ListByStatus returns the contacts with the given status value.
func (r *ContactRepository) ListByStatus(ctx context.Context, tenantDB string, status int) ([]*contact.Contact, error) {
	return r.queryContacts(ctx, tenantDB, []sqlbuilder.Cond{sqlbuilder.Eq("status", status)})
}

// ListByEmail returns the contacts registered under an email address.
func (r *ContactRepository) ListByEmail(ctx context.Context, tenantDB, email string) ([]*contact.Contact, error) {
	return r.queryContacts(ctx, tenantDB, []sqlbuilder.Cond{sqlbuilder.Eq("email", email)})
}

// Search returns the contacts matching the given conditions.
func (r *ContactRepository) Search(ctx context.Context, tenantDB string, where []sqlbuilder.Cond) ([]*contact.Contact, error) {
	return r.queryContacts(ctx, tenantDB, where)
}

// Create inserts a contact and returns the generated id.
func (r *ContactRepository) Create(ctx context.Context, tenantDB string, fields sqlbuilder.Fields) (int64, error) {
	pool, err := r.pool(ctx, tenantDB)
	if err != nil {
		return 0, err
	}

	query, args, err := sqlbuilder.Insert("contacts", fields)
	if err != nil {
		return 0, err
	}
	query += " RETURNING id"

	var id int64
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query, args...).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert contact: %w", err)
	}

	return id, nil
}

// Update applies fields to one contact and reports whether it existed.
func (r *ContactRepository) Update(ctx context.Context, tenantDB string, id int64, fields sqlbuilder.Fields) (bool, error) {
	affected, err := r.exec(ctx, tenantDB, func() (string, []any, error) {
		return sqlbuilder.Update("contacts", fields, []sqlbuilder.Cond{sqlbuilder.Eq("id", id)})
	})
	if err != nil {
		return false, fmt.Errorf("failed to update contact: %w", err)
	}
	return affected > 0, nil
}

// Delete removes one contact and reports whether it existed.
func (r *ContactRepository) Delete(ctx context.Context, tenantDB string, id int64) (bool, error) {
	affected, err := r.exec(ctx, tenantDB, func() (string, []any, error) {
		return sqlbuilder.Delete("contacts", []sqlbuilder.Cond{sqlbuilder.Eq("id", id)})
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}
	return affected > 0, nil
}

// BulkUpdate applies fields to every matching contact and returns the
// affected row count.
func (r *ContactRepository) BulkUpdate(ctx context.Context, tenantDB string, where []sqlbuilder.Cond, fields sqlbuilder.Fields) (int64, error) {
	affected, err := r.exec(ctx, tenantDB, func() (string, []any, error) {
		return sqlbuilder.Update("contacts", fields, where)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update contacts: %w", err)
	}
	return affected, nil
}

func (r *ContactRepository) exec(ctx context.Context, tenantDB string, build func() (string, []any, error)) (int64, error) {
	pool, err := r.pool(ctx, tenantDB)
	if err != nil {
		return 0, err
	}

	query, args, err := build()
	if err != nil {
		return 0, err
	}

	var affected int64
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}
