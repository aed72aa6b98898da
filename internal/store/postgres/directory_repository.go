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

	"github.com/contactdesk/contactdesk/internal/directory"
	"github.com/contactdesk/contactdesk/internal/sqlbuilder"
)

// DirectoryRepository implements directory.Repository against the
// master database.
type DirectoryRepository struct {
	db *DB
}

// NewDirectoryRepository creates a new directory repository.
func NewDirectoryRepository(db *DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

const masterClientColumns = "client_id, name, username, db_user, db_name, created_at"

func (r *DirectoryRepository) scanUser(row pgx.Row) (*directory.MasterUser, error) {
	var user directory.MasterUser
	err := row.Scan(
		&user.ID, &user.Username, &user.Email,
		&user.ClientID, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get master user: %w", err)
	}
	return &user, nil
}

func (r *DirectoryRepository) scanClient(row pgx.Row) (*directory.TenantClient, error) {
	var client directory.TenantClient
	err := row.Scan(
		&client.ClientID, &client.Name, &client.Username,
		&client.DBUser, &client.DBName, &client.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get master client: %w", err)
	}
	return &client, nil
}

// GetUserByUsername looks up a master user by username. A missing user
// is reported as (nil, nil).
func (r *DirectoryRepository) GetUserByUsername(ctx context.Context, username string) (*directory.MasterUser, error) {
	query, args, err := sqlbuilder.Select("master_users", sqlbuilder.Options{
		Columns: []string{"id", "username", "email", "client_id", "password_hash", "created_at"},
		Where:   []sqlbuilder.Cond{sqlbuilder.Eq("username", username)},
	})
	if err != nil {
		return nil, err
	}
	return r.scanUser(r.db.pool.QueryRow(ctx, query, args...))
}

// userLookupFields are the master_users columns a caller may look a
// user up by. Anything else is rejected before touching the database.
var userLookupFields = map[string]bool{
	"username":  true,
	"email":     true,
	"client_id": true,
}

// GetUserByField looks up a master user by an allow-listed column.
func (r *DirectoryRepository) GetUserByField(ctx context.Context, field string, value any) (*directory.MasterUser, error) {
	if !userLookupFields[field] {
		return nil, fmt.Errorf("master users cannot be looked up by %q", field)
	}
	query, args, err := sqlbuilder.Select("master_users", sqlbuilder.Options{
		Columns: []string{"id", "username", "email", "client_id", "password_hash", "created_at"},
		Where:   []sqlbuilder.Cond{sqlbuilder.Eq(field, value)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	return r.scanUser(r.db.pool.QueryRow(ctx, query, args...))
}

// GetClientByID looks up a tenant client row by numeric id.
func (r *DirectoryRepository) GetClientByID(ctx context.Context, clientID int64) (*directory.TenantClient, error) {
	query := `
		SELECT ` + masterClientColumns + `
		FROM master_clients
		WHERE client_id = $1
	`
	return r.scanClient(r.db.pool.QueryRow(ctx, query, clientID))
}

// GetClientByUsername looks up a tenant client by account username or
// by its configured database user.
func (r *DirectoryRepository) GetClientByUsername(ctx context.Context, username string) (*directory.TenantClient, error) {
	query, args, err := sqlbuilder.Select("master_clients", sqlbuilder.Options{
		Columns: []string{"client_id", "name", "username", "db_user", "db_name", "created_at"},
		Where: []sqlbuilder.Cond{
			sqlbuilder.Any(
				sqlbuilder.Eq("username", username),
				sqlbuilder.Eq("db_user", username),
			),
		},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	return r.scanClient(r.db.pool.QueryRow(ctx, query, args...))
}

// GetAllValidClients returns every client row that carries a tenant
// database name, oldest first.
func (r *DirectoryRepository) GetAllValidClients(ctx context.Context) ([]*directory.TenantClient, error) {
	query := `
		SELECT ` + masterClientColumns + `
		FROM master_clients
		WHERE db_name IS NOT NULL AND db_name <> ''
		ORDER BY client_id
	`
	return r.queryClients(ctx, query)
}

// ListClients returns every client row.
func (r *DirectoryRepository) ListClients(ctx context.Context) ([]*directory.TenantClient, error) {
	query := `
		SELECT ` + masterClientColumns + `
		FROM master_clients
		ORDER BY client_id
	`
	return r.queryClients(ctx, query)
}

func (r *DirectoryRepository) queryClients(ctx context.Context, query string, args ...any) ([]*directory.TenantClient, error) {
	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list master clients: %w", err)
	}
	defer rows.Close()

	var clients []*directory.TenantClient
	for rows.Next() {
		var client directory.TenantClient
		err := rows.Scan(
			&client.ClientID, &client.Name, &client.Username,
			&client.DBUser, &client.DBName, &client.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan master client: %w", err)
		}
		clients = append(clients, &client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read master clients: %w", err)
	}

	return clients, nil
}
