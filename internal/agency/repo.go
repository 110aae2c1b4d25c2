package agency

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hectotor/Inventory-web-sub000/internal/company"
)

var ErrNotFound = errors.New("agency not found")

// Repo reads and writes agencies and their warehouses.
type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

// List returns the company's agencies ordered by name.
func (r *Repo) List(ctx context.Context) ([]Agency, error) {
	companyID := company.MustFrom(ctx)

	rows, err := r.Pool.Query(ctx,
		`SELECT id, company_id, name, created_at FROM agencies
		 WHERE company_id = $1 ORDER BY name`,
		companyID)
	if err != nil {
		return nil, fmt.Errorf("list agencies: %w", err)
	}
	defer rows.Close()

	var out []Agency
	for rows.Next() {
		var a Agency
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Name, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Get returns one agency within the current company.
func (r *Repo) Get(ctx context.Context, id string) (Agency, error) {
	companyID := company.MustFrom(ctx)

	var a Agency
	err := r.Pool.QueryRow(ctx,
		`SELECT id, company_id, name, created_at FROM agencies
		 WHERE company_id = $1 AND id = $2`,
		companyID, id).
		Scan(&a.ID, &a.CompanyID, &a.Name, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Agency{}, ErrNotFound
	}
	return a, err
}

// Create inserts a new agency.
func (r *Repo) Create(ctx context.Context, name string) (Agency, error) {
	companyID := company.MustFrom(ctx)

	var a Agency
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO agencies (company_id, name) VALUES ($1, $2)
		 RETURNING id, company_id, name, created_at`,
		companyID, name).
		Scan(&a.ID, &a.CompanyID, &a.Name, &a.CreatedAt)
	return a, err
}

// ListWarehouses returns the warehouses of one agency.
func (r *Repo) ListWarehouses(ctx context.Context, agencyID string) ([]Warehouse, error) {
	companyID := company.MustFrom(ctx)

	rows, err := r.Pool.Query(ctx,
		`SELECT id, company_id, agency_id, name, created_at FROM warehouses
		 WHERE company_id = $1 AND agency_id = $2 ORDER BY name`,
		companyID, agencyID)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var out []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.CompanyID, &w.AgencyID, &w.Name, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// CreateWarehouse inserts a warehouse under an existing agency.
func (r *Repo) CreateWarehouse(ctx context.Context, agencyID, name string) (Warehouse, error) {
	companyID := company.MustFrom(ctx)

	var w Warehouse
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO warehouses (company_id, agency_id, name)
		 SELECT $1, id, $3 FROM agencies WHERE company_id = $1 AND id = $2
		 RETURNING id, company_id, agency_id, name, created_at`,
		companyID, agencyID, name).
		Scan(&w.ID, &w.CompanyID, &w.AgencyID, &w.Name, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Warehouse{}, ErrNotFound
	}
	return w, err
}
