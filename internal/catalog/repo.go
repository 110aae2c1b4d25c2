package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Hectotor/Inventory-web-sub000/internal/common"
	"github.com/Hectotor/Inventory-web-sub000/internal/company"
	"github.com/Hectotor/Inventory-web-sub000/internal/db"
)

var ErrNotFound = errors.New("product not found")

// Repo reads and writes products, always scoped to the company carried by the
// request context.
type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

const productCols = `id, company_id, name, sub_name, price_excl_tax::text, tax_rate::text, active, created_at`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p        Product
		subName  pgtype.Text
		priceTxt string
		rateTxt  pgtype.Text
	)
	if err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &subName, &priceTxt, &rateTxt, &p.Active, &p.CreatedAt); err != nil {
		return Product{}, err
	}
	p.SubName = db.TextPtr(subName)

	price, err := db.DecodeDecimal(priceTxt)
	if err != nil {
		return Product{}, fmt.Errorf("decode price: %w", err)
	}
	p.PriceExclTax = price

	rate, err := db.DecodeDecimalPtr(rateTxt)
	if err != nil {
		return Product{}, fmt.Errorf("decode tax rate: %w", err)
	}
	p.TaxRate = rate
	return p, nil
}

// List returns the company's products, active first, newest within each group.
func (r *Repo) List(ctx context.Context, pg common.Pagination, includeInactive bool) ([]Product, error) {
	companyID := company.MustFrom(ctx)

	q := `SELECT ` + productCols + ` FROM products WHERE company_id = $1`
	args := []any{companyID}
	if !includeInactive {
		q += ` AND active`
	}
	q += fmt.Sprintf(` ORDER BY active DESC, created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pg.Limit, pg.Offset())

	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]Product, 0, pg.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get returns one product by id within the current company.
func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	companyID := company.MustFrom(ctx)

	row := r.Pool.QueryRow(ctx,
		`SELECT `+productCols+` FROM products WHERE company_id = $1 AND id = $2`,
		companyID, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

// GetMany fetches a set of products by id in one round trip. Missing ids are
// simply absent from the result map.
func (r *Repo) GetMany(ctx context.Context, ids []string) (map[string]Product, error) {
	if len(ids) == 0 {
		return map[string]Product{}, nil
	}
	companyID := company.MustFrom(ctx)

	rows, err := r.Pool.Query(ctx,
		`SELECT `+productCols+` FROM products WHERE company_id = $1 AND id = ANY($2)`,
		companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// CreateParams carries the fields a staff user can set on a new product.
type CreateParams struct {
	Name         string
	SubName      *string
	PriceExclTax decimal.Decimal
	TaxRate      *decimal.Decimal
}

func (r *Repo) Create(ctx context.Context, in CreateParams) (Product, error) {
	companyID := company.MustFrom(ctx)

	row := r.Pool.QueryRow(ctx,
		`INSERT INTO products (company_id, name, sub_name, price_excl_tax, tax_rate)
		 VALUES ($1, $2, $3, $4::numeric, $5::numeric)
		 RETURNING `+productCols,
		companyID, in.Name, in.SubName, in.PriceExclTax.String(), decimalArg(in.TaxRate))
	return scanProduct(row)
}

// UpdateParams updates only non-nil fields. ClearTaxRate removes the product
// level rate so customers fall back to their own or the default.
type UpdateParams struct {
	Name         *string
	SubName      *string
	PriceExclTax *decimal.Decimal
	TaxRate      *decimal.Decimal
	ClearTaxRate bool
	Active       *bool
}

func (r *Repo) Update(ctx context.Context, id string, in UpdateParams) (Product, error) {
	companyID := company.MustFrom(ctx)

	row := r.Pool.QueryRow(ctx,
		`UPDATE products SET
		   name = COALESCE($3, name),
		   sub_name = COALESCE($4, sub_name),
		   price_excl_tax = COALESCE($5::numeric, price_excl_tax),
		   tax_rate = CASE WHEN $7 THEN NULL ELSE COALESCE($6::numeric, tax_rate) END,
		   active = COALESCE($8, active)
		 WHERE company_id = $1 AND id = $2
		 RETURNING `+productCols,
		companyID, id, in.Name, in.SubName, decimalArg(in.PriceExclTax), decimalArg(in.TaxRate), in.ClearTaxRate, in.Active)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func decimalArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
