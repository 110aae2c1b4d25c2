package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Hectotor/Inventory-web-sub000/internal/company"
	"github.com/Hectotor/Inventory-web-sub000/internal/db"
)

var ErrNotFound = errors.New("stock not found")

// Repo persists per-location stock levels.
type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

const stockCols = `s.id, s.company_id, s.product_id,
	p.name || COALESCE(' ' || NULLIF(p.sub_name, ''), ''),
	s.agency_id, s.location_type, s.location_id,
	s.qty::text, s.alert_threshold::text, s.updated_at`

func scanStock(row pgx.Row) (Stock, error) {
	var (
		s            Stock
		qtyTxt       string
		thresholdTxt pgtype.Text
	)
	if err := row.Scan(&s.ID, &s.CompanyID, &s.ProductID, &s.ProductName, &s.AgencyID,
		&s.LocationType, &s.LocationID, &qtyTxt, &thresholdTxt, &s.UpdatedAt); err != nil {
		return Stock{}, err
	}

	qty, err := db.DecodeDecimal(qtyTxt)
	if err != nil {
		return Stock{}, fmt.Errorf("decode qty: %w", err)
	}
	s.Qty = qty

	threshold, err := db.DecodeDecimalPtr(thresholdTxt)
	if err != nil {
		return Stock{}, fmt.Errorf("decode threshold: %w", err)
	}
	s.AlertThreshold = threshold
	return s, nil
}

// ListAll returns every stock row of the company, joined with product names.
func (r *Repo) ListAll(ctx context.Context) ([]Stock, error) {
	companyID := company.MustFrom(ctx)
	return r.list(ctx,
		`SELECT `+stockCols+` FROM stocks s JOIN products p ON p.id = s.product_id
		 WHERE s.company_id = $1 ORDER BY p.name, s.agency_id`,
		companyID)
}

// ListByCompanyID is ListAll for callers outside a request context, such as
// the sweep worker.
func (r *Repo) ListByCompanyID(ctx context.Context, companyID string) ([]Stock, error) {
	return r.list(ctx,
		`SELECT `+stockCols+` FROM stocks s JOIN products p ON p.id = s.product_id
		 WHERE s.company_id = $1 ORDER BY p.name, s.agency_id`,
		companyID)
}

func (r *Repo) list(ctx context.Context, q string, args ...any) ([]Stock, error) {
	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()

	var out []Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CompanyIDs returns every company that has stock rows, for the sweep.
func (r *Repo) CompanyIDs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT DISTINCT company_id FROM stocks`)
	if err != nil {
		return nil, fmt.Errorf("list stock companies: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// UpsertParams identifies one location's level for a product.
type UpsertParams struct {
	ProductID      string
	AgencyID       string
	LocationType   LocationType
	LocationID     string
	Qty            decimal.Decimal
	AlertThreshold *decimal.Decimal
	ClearThreshold bool
}

// Upsert sets the quantity (and optionally the threshold) of one location.
func (r *Repo) Upsert(ctx context.Context, in UpsertParams) (Stock, error) {
	companyID := company.MustFrom(ctx)

	var threshold *string
	if in.AlertThreshold != nil {
		t := in.AlertThreshold.String()
		threshold = &t
	}

	var id string
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO stocks (company_id, product_id, agency_id, location_type, location_id, qty, alert_threshold)
		 VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric)
		 ON CONFLICT (company_id, product_id, agency_id, location_type, location_id)
		 DO UPDATE SET
		   qty = EXCLUDED.qty,
		   alert_threshold = CASE WHEN $8 THEN NULL ELSE COALESCE(EXCLUDED.alert_threshold, stocks.alert_threshold) END,
		   updated_at = now()
		 RETURNING id`,
		companyID, in.ProductID, in.AgencyID, string(in.LocationType), in.LocationID,
		in.Qty.String(), threshold, in.ClearThreshold).Scan(&id)
	if err != nil {
		return Stock{}, fmt.Errorf("upsert stock: %w", err)
	}

	row := r.Pool.QueryRow(ctx,
		`SELECT `+stockCols+` FROM stocks s JOIN products p ON p.id = s.product_id
		 WHERE s.company_id = $1 AND s.id = $2`,
		companyID, id)
	return scanStock(row)
}
