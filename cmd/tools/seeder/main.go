// The seeder fills a development database with one demo company: two
// agencies with warehouses, a handful of users, products and stock levels,
// so the API has data to serve out of the box.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

func main() {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		log.Fatalf("load env: %v", err)
	}
	dbURL := k.String("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	if err := seed(ctx, conn); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("seeding completed")
}

func seed(ctx context.Context, conn *pgx.Conn) error {
	var companyID string
	err := conn.QueryRow(ctx,
		`SELECT id FROM companies WHERE name = 'Demo Distribution'`).Scan(&companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = conn.QueryRow(ctx,
			`INSERT INTO companies (name) VALUES ('Demo Distribution') RETURNING id`).Scan(&companyID)
	}
	if err != nil {
		return fmt.Errorf("demo company: %w", err)
	}
	log.Printf("company: %s", companyID)

	agencies := map[string]string{}
	for _, name := range []string{"North", "South"} {
		var id string
		if err := conn.QueryRow(ctx,
			`INSERT INTO agencies (company_id, name) VALUES ($1, $2) RETURNING id`,
			companyID, name).Scan(&id); err != nil {
			return fmt.Errorf("create agency %s: %w", name, err)
		}
		agencies[name] = id

		if _, err := conn.Exec(ctx,
			`INSERT INTO warehouses (company_id, agency_id, name) VALUES ($1, $2, $3)`,
			companyID, id, name+" warehouse"); err != nil {
			return fmt.Errorf("create warehouse: %w", err)
		}
	}

	users := []struct {
		role, email, name string
		agency            string
		taxExempt         bool
	}{
		{"admin", "admin@demo.local", "Demo Admin", "", false},
		{"manager", "north.manager@demo.local", "North Manager", "North", false},
		{"customer", "customer@demo.local", "Walk-in Customer", "North", false},
		{"customer", "exempt@demo.local", "Exempt Customer", "South", true},
	}
	for _, u := range users {
		var agencyID *string
		if u.agency != "" {
			id := agencies[u.agency]
			agencyID = &id
		}
		if _, err := conn.Exec(ctx,
			`INSERT INTO users (company_id, agency_id, role, email, name, tax_exempt)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (email) DO NOTHING`,
			companyID, agencyID, u.role, u.email, u.name, u.taxExempt); err != nil {
			return fmt.Errorf("create user %s: %w", u.email, err)
		}
	}

	products := []struct {
		name, price string
		rate        *string
	}{
		{"Standard crate", "10.00", nil},
		{"Half pallet", "5.00", nil},
		{"Reduced-rate box", "8.50", strPtr("5.5")},
	}
	for _, p := range products {
		var productID string
		if err := conn.QueryRow(ctx,
			`INSERT INTO products (company_id, name, price_excl_tax, tax_rate)
			 VALUES ($1, $2, $3::numeric, $4::numeric) RETURNING id`,
			companyID, p.name, p.price, p.rate).Scan(&productID); err != nil {
			return fmt.Errorf("create product %s: %w", p.name, err)
		}

		for _, agencyID := range agencies {
			var warehouseID string
			if err := conn.QueryRow(ctx,
				`SELECT id FROM warehouses WHERE company_id = $1 AND agency_id = $2 LIMIT 1`,
				companyID, agencyID).Scan(&warehouseID); err != nil {
				return fmt.Errorf("find warehouse: %w", err)
			}
			if _, err := conn.Exec(ctx,
				`INSERT INTO stocks (company_id, product_id, agency_id, location_type, location_id, qty, alert_threshold)
				 VALUES ($1, $2, $3, 'WAREHOUSE', $4, 25, 10)
				 ON CONFLICT (company_id, product_id, agency_id, location_type, location_id) DO NOTHING`,
				companyID, productID, agencyID, warehouseID); err != nil {
				return fmt.Errorf("create stock: %w", err)
			}
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
