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
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TenantPools is a connection factory parameterized by tenant database
// name. Pools are created lazily on first use and shared across
// requests; the tenant name is never baked into a repository.
type TenantPools struct {
	cfg   Config
	mu    sync.RWMutex
	pools map[string]*pgxpool.Pool
}

// NewTenantPools creates a tenant pool manager. cfg supplies the shared
// connection parameters; its Database field is ignored here.
func NewTenantPools(cfg Config) *TenantPools {
	return &TenantPools{
		cfg:   cfg,
		pools: make(map[string]*pgxpool.Pool),
	}
}

// Get returns the pool for a tenant database, creating it on first use.
func (t *TenantPools) Get(ctx context.Context, database string) (*pgxpool.Pool, error) {
	if database == "" {
		return nil, fmt.Errorf("tenant database name is required")
	}

	t.mu.RLock()
	pool, ok := t.pools[database]
	t.mu.RUnlock()
	if ok {
		return pool, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Another request may have created it while we waited for the lock.
	if pool, ok := t.pools[database]; ok {
		return pool, nil
	}

	pool, err := newPool(ctx, t.cfg, database)
	if err != nil {
		return nil, fmt.Errorf("failed to open tenant database %q: %w", database, err)
	}
	t.pools[database] = pool

	return pool, nil
}

// Close closes every tenant pool.
func (t *TenantPools) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name, pool := range t.pools {
		pool.Close()
		delete(t.pools, name)
	}
}
