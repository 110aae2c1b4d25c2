package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Hectotor/Inventory-web-sub000/internal/common"
	"github.com/Hectotor/Inventory-web-sub000/internal/company"
	"github.com/Hectotor/Inventory-web-sub000/internal/db"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// Repo reads and writes company users.
type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

const userCols = `id, company_id, agency_id, role, email, name, tax_exempt, tax_rate::text, created_at`

func scanUser(row pgx.Row) (User, error) {
	var (
		u       User
		agency  pgtype.Text
		rateTxt pgtype.Text
	)
	if err := row.Scan(&u.ID, &u.CompanyID, &agency, &u.Role, &u.Email, &u.Name, &u.TaxExempt, &rateTxt, &u.CreatedAt); err != nil {
		return User{}, err
	}
	u.AgencyID = db.TextPtr(agency)

	rate, err := db.DecodeDecimalPtr(rateTxt)
	if err != nil {
		return User{}, fmt.Errorf("decode tax rate: %w", err)
	}
	u.TaxRate = rate
	return u, nil
}

// Get returns one user within the current company.
func (r *Repo) Get(ctx context.Context, id string) (User, error) {
	companyID := company.MustFrom(ctx)

	row := r.Pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE company_id = $1 AND id = $2`,
		companyID, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// List returns the company's users, optionally restricted to one role.
func (r *Repo) List(ctx context.Context, pg common.Pagination, role string) ([]User, error) {
	companyID := company.MustFrom(ctx)

	q := `SELECT ` + userCols + ` FROM users WHERE company_id = $1`
	args := []any{companyID}
	if role != "" {
		args = append(args, role)
		q += fmt.Sprintf(` AND role = $%d`, len(args))
	}
	q += fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pg.Limit, pg.Offset())

	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]User, 0, pg.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CreateParams carries the fields set on a new user.
type CreateParams struct {
	AgencyID  *string
	Role      string
	Email     string
	Name      string
	TaxExempt bool
	TaxRate   *decimal.Decimal
}

func (r *Repo) Create(ctx context.Context, in CreateParams) (User, error) {
	companyID := company.MustFrom(ctx)

	row := r.Pool.QueryRow(ctx,
		`INSERT INTO users (company_id, agency_id, role, email, name, tax_exempt, tax_rate)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::numeric)
		 RETURNING `+userCols,
		companyID, in.AgencyID, in.Role, strings.ToLower(in.Email), in.Name, in.TaxExempt, rateArg(in.TaxRate))
	u, err := scanUser(row)
	if isUniqueViolation(err) {
		return User{}, ErrDuplicateEmail
	}
	return u, err
}

// UpdateParams updates only non-nil fields. ClearTaxRate removes the custom
// rate so the company default applies again.
type UpdateParams struct {
	AgencyID     *string
	Role         *string
	Name         *string
	TaxExempt    *bool
	TaxRate      *decimal.Decimal
	ClearTaxRate bool
}

func (r *Repo) Update(ctx context.Context, id string, in UpdateParams) (User, error) {
	companyID := company.MustFrom(ctx)

	row := r.Pool.QueryRow(ctx,
		`UPDATE users SET
		   agency_id = COALESCE($3, agency_id),
		   role = COALESCE($4, role),
		   name = COALESCE($5, name),
		   tax_exempt = COALESCE($6, tax_exempt),
		   tax_rate = CASE WHEN $8 THEN NULL ELSE COALESCE($7::numeric, tax_rate) END
		 WHERE company_id = $1 AND id = $2
		 RETURNING `+userCols,
		companyID, id, in.AgencyID, in.Role, in.Name, in.TaxExempt, rateArg(in.TaxRate), in.ClearTaxRate)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func rateArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
