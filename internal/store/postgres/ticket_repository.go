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

	"github.com/contactdesk/contactdesk/internal/sqlbuilder"
	"github.com/contactdesk/contactdesk/internal/ticket"
)

var ticketColumns = []string{
	"id", "contact_id", "subject", "status", "created_at", "updated_at",
}

// TicketRepository implements ticket.Repository.
type TicketRepository struct {
	pools *TenantPools
}

// NewTicketRepository creates a new ticket repository.
func NewTicketRepository(pools *TenantPools) *TicketRepository {
	return &TicketRepository{pools: pools}
}

// List returns tickets in the tenant database, optionally filtered by
// status and capped at limit rows.
func (r *TicketRepository) List(ctx context.Context, tenantDB string, status *int, limit int) ([]*ticket.Ticket, error) {
	pool, err := r.pools.Get(ctx, tenantDB)
	if err != nil {
		return nil, err
	}

	var where []sqlbuilder.Cond
	if status != nil {
		where = append(where, sqlbuilder.Eq("status", *status))
	}

	query, args, err := sqlbuilder.Select("tickets", sqlbuilder.Options{
		Columns: ticketColumns,
		Where:   where,
		OrderBy: "id",
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*ticket.Ticket
	for rows.Next() {
		var t ticket.Ticket
		err := rows.Scan(&t.ID, &t.ContactID, &t.Subject, &t.Status, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tickets: %w", err)
	}

	return tickets, nil
}

// GetByID returns the ticket with the given id, or nil.
func (r *TicketRepository) GetByID(ctx context.Context, tenantDB string, id int64) (*ticket.Ticket, error) {
	pool, err := r.pools.Get(ctx, tenantDB)
	if err != nil {
		return nil, err
	}

	query, args, err := sqlbuilder.Select("tickets", sqlbuilder.Options{
		Columns: ticketColumns,
		Where:   []sqlbuilder.Cond{sqlbuilder.Eq("id", id)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}

	var t ticket.Ticket
	err = pool.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.ContactID, &t.Subject, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return &t, nil
}
