package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/contactdesk/contactdesk/internal/directory"
)

// Dev seeding tool. Creates one demo client with a tenant database and
// a master user that can log into it.
//
// Usage:
//   seed <master-url> <tenant-url> <tenant-db-name>
func main() {
	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "usage: seed <master-url> <tenant-url> <tenant-db-name>")
		os.Exit(1)
	}
	masterURL, tenantURL, tenantDB := os.Args[1], os.Args[2], os.Args[3]

	ctx := context.Background()

	master, err := pgx.Connect(ctx, masterURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to master: %v\n", err)
		os.Exit(1)
	}
	defer master.Close(ctx)

	hasher := directory.NewPasswordHasher(65536, 3, 4, 16, 32)
	hash, err := hasher.Hash("demo-password")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash failed: %v\n", err)
		os.Exit(1)
	}

	var clientID int64
	err = master.QueryRow(ctx, `
		INSERT INTO master_clients (name, username, db_user, db_name)
		VALUES ('Demo Client', 'demo', 'demo_db_user', $1)
		ON CONFLICT (username) DO UPDATE SET db_name = EXCLUDED.db_name
		RETURNING client_id
	`, tenantDB).Scan(&clientID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client insert failed: %v\n", err)
		os.Exit(1)
	}

	_, err = master.Exec(ctx, `
		INSERT INTO master_users (username, email, client_id, password_hash)
		VALUES ('demo', 'demo@example.com', $1, $2)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
	`, clientID, hash)
	if err != nil {
		fmt.Fprintf(os.Stderr, "User insert failed: %v\n", err)
		os.Exit(1)
	}

	tenant, err := pgx.Connect(ctx, tenantURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to tenant: %v\n", err)
		os.Exit(1)
	}
	defer tenant.Close(ctx)

	_, err = tenant.Exec(ctx, `
		INSERT INTO contacts (first_name, last_name, email, username, status)
		VALUES
			('Demo', 'User', 'demo@example.com', 'demo', 2),
			('Anna', 'Anderson', 'anna@example.com', 'anna', 2),
			('Bob', 'Baker', 'bob@example.com', 'bob', 1)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Contact insert failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Seeded client %d and demo users (login: demo / demo-password)\n", clientID)
}
