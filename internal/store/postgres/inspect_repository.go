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
)

// ColumnInfo describes one column of a tenant table.
type ColumnInfo struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	Nullable bool   `json:"nullable"`
}

// inspectableTables is the closed set of tenant tables the inspection
// endpoints may touch. Table names are interpolated into SQL, so
// nothing outside this set is ever accepted.
var inspectableTables = map[string]bool{
	"contacts": true,
	"tickets":  true,
}

// InspectRepository serves schema and sample-row lookups for the
// operator debug endpoints.
type InspectRepository struct {
	pools *TenantPools
}

// NewInspectRepository creates a new inspect repository.
func NewInspectRepository(pools *TenantPools) *InspectRepository {
	return &InspectRepository{pools: pools}
}

// Tables returns the inspectable tables that exist in the tenant
// database.
func (r *InspectRepository) Tables(ctx context.Context, tenantDB string) ([]string, error) {
	pool, err := r.pools.Get(ctx, tenantDB)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		if inspectableTables[name] {
			tables = append(tables, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", err)
	}

	return tables, nil
}

// Columns returns the column layout of an inspectable table.
func (r *InspectRepository) Columns(ctx context.Context, tenantDB, table string) ([]ColumnInfo, error) {
	if !inspectableTables[table] {
		return nil, fmt.Errorf("table %q is not inspectable", table)
	}

	pool, err := r.pools.Get(ctx, tenantDB)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position
	`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var nullable string
		if err := rows.Scan(&col.Name, &col.DataType, &nullable); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	return columns, nil
}

// Sample returns up to limit rows from an inspectable table as generic
// column maps.
func (r *InspectRepository) Sample(ctx context.Context, tenantDB, table string, limit int) ([]map[string]any, error) {
	if !inspectableTables[table] {
		return nil, fmt.Errorf("table %q is not inspectable", table)
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	pool, err := r.pools.Get(ctx, tenantDB)
	if err != nil {
		return nil, err
	}

	// table is validated against the closed set above.
	rows, err := pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY id LIMIT %d", table, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to sample table %s: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()

	var samples []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read sample row: %w", err)
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		samples = append(samples, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}

	return samples, nil
}
