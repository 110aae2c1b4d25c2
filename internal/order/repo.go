package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hectotor/Inventory-web-sub000/internal/common"
	"github.com/Hectotor/Inventory-web-sub000/internal/company"
	"github.com/Hectotor/Inventory-web-sub000/internal/db"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Repo persists orders. An order and its lines are written in one
// transaction so a crash can never leave a priced order without lines.
type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

var _ Store = (*Repo)(nil)

// Create inserts the order header and all lines atomically and returns the
// stored order.
func (r *Repo) Create(ctx context.Context, o Order) (Order, error) {
	companyID := company.MustFrom(ctx)

	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (company_id, customer_id, sales_rep_id, created_by)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, status, created_at`,
		companyID, o.CustomerID, o.SalesRepID, o.CreatedBy).
		Scan(&o.ID, &o.Status, &o.CreatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	o.CompanyID = companyID

	for i := range o.Lines {
		l := &o.Lines[i]
		err = tx.QueryRow(ctx,
			`INSERT INTO order_lines (order_id, product_id, qty, unit_price_excl_tax, tax_rate, total_excl_tax, total_incl_tax)
			 VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7::numeric)
			 RETURNING id`,
			o.ID, l.ProductID, l.Qty,
			l.UnitPriceExclTax.String(), l.TaxRate.String(),
			l.TotalExclTax.String(), l.TotalInclTax.String()).
			Scan(&l.ID)
		if err != nil {
			return Order{}, fmt.Errorf("insert order line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, fmt.Errorf("commit: %w", err)
	}
	return o, nil
}

// Get returns one order with its lines, scoped to the current company.
func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	companyID := company.MustFrom(ctx)

	var (
		o        Order
		salesRep pgtype.Text
	)
	err := r.Pool.QueryRow(ctx,
		`SELECT id, company_id, customer_id, sales_rep_id, created_by, status, created_at
		 FROM orders WHERE company_id = $1 AND id = $2`,
		companyID, id).
		Scan(&o.ID, &o.CompanyID, &o.CustomerID, &salesRep, &o.CreatedBy, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	o.SalesRepID = db.TextPtr(salesRep)

	lines, err := r.linesOf(ctx, o.ID)
	if err != nil {
		return Order{}, err
	}
	o.Lines = lines
	return o, nil
}

func (r *Repo) linesOf(ctx context.Context, orderID string) ([]Line, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT ol.id, ol.product_id,
		        p.name || COALESCE(' ' || NULLIF(p.sub_name, ''), ''),
		        ol.qty,
		        ol.unit_price_excl_tax::text, ol.tax_rate::text,
		        ol.total_excl_tax::text, ol.total_incl_tax::text
		 FROM order_lines ol
		 JOIN products p ON p.id = ol.product_id
		 WHERE ol.order_id = $1
		 ORDER BY ol.id`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var (
			l                            Line
			unit, rate, exclTax, inclTax string
		)
		if err := rows.Scan(&l.ID, &l.ProductID, &l.ProductName, &l.Qty, &unit, &rate, &exclTax, &inclTax); err != nil {
			return nil, err
		}
		if l.UnitPriceExclTax, err = db.DecodeDecimal(unit); err != nil {
			return nil, err
		}
		if l.TaxRate, err = db.DecodeDecimal(rate); err != nil {
			return nil, err
		}
		if l.TotalExclTax, err = db.DecodeDecimal(exclTax); err != nil {
			return nil, err
		}
		if l.TotalInclTax, err = db.DecodeDecimal(inclTax); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListFilter narrows the order listing. An empty field means no filter; the
// agency filter matches the customer's agency.
type ListFilter struct {
	Status     Status
	CustomerID string
	AgencyID   string
}

// List returns order headers, newest first.
func (r *Repo) List(ctx context.Context, pg common.Pagination, f ListFilter) ([]Order, error) {
	companyID := company.MustFrom(ctx)

	q := `SELECT o.id, o.company_id, o.customer_id, o.sales_rep_id, o.created_by, o.status, o.created_at
	      FROM orders o
	      JOIN users u ON u.id = o.customer_id
	      WHERE o.company_id = $1`
	args := []any{companyID}
	if f.Status != "" {
		args = append(args, string(f.Status))
		q += fmt.Sprintf(` AND o.status = $%d`, len(args))
	}
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		q += fmt.Sprintf(` AND o.customer_id = $%d`, len(args))
	}
	if f.AgencyID != "" {
		args = append(args, f.AgencyID)
		q += fmt.Sprintf(` AND u.agency_id = $%d`, len(args))
	}
	q += fmt.Sprintf(` ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pg.Limit, pg.Offset())

	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := make([]Order, 0, pg.Limit)
	for rows.Next() {
		var (
			o        Order
			salesRep pgtype.Text
		)
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.CustomerID, &salesRep, &o.CreatedBy, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.SalesRepID = db.TextPtr(salesRep)
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListStatuses returns just the status column for the filtered set, feeding
// the dashboard tally.
func (r *Repo) ListStatuses(ctx context.Context, f ListFilter) ([]Status, error) {
	companyID := company.MustFrom(ctx)

	q := `SELECT o.status
	      FROM orders o
	      JOIN users u ON u.id = o.customer_id
	      WHERE o.company_id = $1`
	args := []any{companyID}
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		q += fmt.Sprintf(` AND o.customer_id = $%d`, len(args))
	}
	if f.AgencyID != "" {
		args = append(args, f.AgencyID)
		q += fmt.Sprintf(` AND u.agency_id = $%d`, len(args))
	}

	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list order statuses: %w", err)
	}
	defer rows.Close()

	var out []Status
	for rows.Next() {
		var s Status
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateStatus moves an order forward in its lifecycle. The current status
// is locked for the duration of the check so concurrent updates serialize.
func (r *Repo) UpdateStatus(ctx context.Context, id string, to Status) (Order, Status, error) {
	companyID := company.MustFrom(ctx)

	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return Order{}, "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var from Status
	err = tx.QueryRow(ctx,
		`SELECT status FROM orders WHERE company_id = $1 AND id = $2 FOR UPDATE`,
		companyID, id).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, "", ErrNotFound
	}
	if err != nil {
		return Order{}, "", fmt.Errorf("lock order: %w", err)
	}

	if !CanTransition(from, to) {
		return Order{}, from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	var (
		o        Order
		salesRep pgtype.Text
	)
	err = tx.QueryRow(ctx,
		`UPDATE orders SET status = $3 WHERE company_id = $1 AND id = $2
		 RETURNING id, company_id, customer_id, sales_rep_id, created_by, status, created_at`,
		companyID, id, string(to)).
		Scan(&o.ID, &o.CompanyID, &o.CustomerID, &salesRep, &o.CreatedBy, &o.Status, &o.CreatedAt)
	if err != nil {
		return Order{}, from, fmt.Errorf("update status: %w", err)
	}
	o.SalesRepID = db.TextPtr(salesRep)

	if err := tx.Commit(ctx); err != nil {
		return Order{}, from, fmt.Errorf("commit: %w", err)
	}
	return o, from, nil
}
