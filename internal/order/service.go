package order

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Hectotor/Inventory-web-sub000/internal/cart"
	"github.com/Hectotor/Inventory-web-sub000/internal/common"
	"github.com/Hectotor/Inventory-web-sub000/internal/events"
	"github.com/Hectotor/Inventory-web-sub000/internal/money"
	"github.com/Hectotor/Inventory-web-sub000/internal/obs"
	"github.com/Hectotor/Inventory-web-sub000/internal/user"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrCustomerUnknown = errors.New("customer not found")
	ErrNotCustomer     = errors.New("orders can only be placed for customers")
)

// CustomerSource resolves the tax profile of the ordering customer.
type CustomerSource interface {
	Get(ctx context.Context, id string) (user.User, error)
}

// Store is the persistence surface the order workflow drives. *Repo is the
// production implementation.
type Store interface {
	Create(ctx context.Context, o Order) (Order, error)
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, pg common.Pagination, f ListFilter) ([]Order, error)
	ListStatuses(ctx context.Context, f ListFilter) ([]Status, error)
	UpdateStatus(ctx context.Context, id string, to Status) (Order, Status, error)
}

// Service turns carts into orders and drives the status lifecycle.
type Service struct {
	Repo      Store
	Carts     *cart.Service
	Customers CustomerSource
	Bus       *events.Bus
}

// PlaceParams identifies whose cart becomes the order. Customers always
// order for themselves; staff place an order from their own cart on behalf
// of a customer and are recorded as the sales rep.
type PlaceParams struct {
	CustomerID string
}

// Place converts the caller's cart into a persisted order. Lines are priced
// with the customer's effective tax rate at this moment; the cart is cleared
// only after the order is committed, so a failed placement keeps the cart
// intact.
func (s *Service) Place(ctx context.Context, id common.Identity, p PlaceParams) (Order, error) {
	o, err := s.place(ctx, id, p)
	if err != nil {
		countPlacement("error")
		return Order{}, err
	}
	countPlacement("ok")
	return o, nil
}

func (s *Service) place(ctx context.Context, id common.Identity, p PlaceParams) (Order, error) {
	customerID := id.UserID
	var salesRepID *string
	if id.IsStaff() {
		if p.CustomerID == "" {
			return Order{}, ErrCustomerUnknown
		}
		customerID = p.CustomerID
		rep := id.UserID
		salesRepID = &rep
	}

	customer, err := s.Customers.Get(ctx, customerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Order{}, ErrCustomerUnknown
		}
		return Order{}, err
	}
	if customer.Role != common.RoleCustomer {
		return Order{}, ErrNotCustomer
	}

	c, err := s.Carts.Get(ctx, id.CompanyID, id.UserID)
	if err != nil {
		return Order{}, err
	}
	if c.IsEmpty() {
		return Order{}, ErrEmptyCart
	}

	rate := effectiveRate(customer)
	lines := make([]Line, 0, len(c.Lines))
	for _, cl := range c.Lines {
		amounts := money.LineTotal(cl.Product.PriceExclTax, rate, cl.Qty)
		lines = append(lines, Line{
			ProductID:        cl.Product.ID,
			ProductName:      cl.Product.DisplayName(),
			Qty:              cl.Qty,
			UnitPriceExclTax: cl.Product.PriceExclTax,
			TaxRate:          rate,
			TotalExclTax:     amounts.LineExclTax,
			TotalInclTax:     amounts.LineInclTax,
		})
	}

	o, err := s.Repo.Create(ctx, Order{
		CustomerID: customerID,
		SalesRepID: salesRepID,
		CreatedBy:  id.UserID,
		Lines:      lines,
	})
	if err != nil {
		return Order{}, err
	}

	if err := s.Carts.Clear(ctx, id.CompanyID, id.UserID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("order_id", o.ID).Msg("order placed but cart not cleared")
	}

	s.emit(ctx, events.TopicOrderCreated, o.ID, map[string]any{
		"customerId":   o.CustomerID,
		"lineCount":    len(o.Lines),
		"totalExclTax": o.TotalExclTax().StringFixed(2),
		"totalInclTax": o.TotalInclTax().StringFixed(2),
	})
	return o, nil
}

// UpdateStatus moves the order forward and emits the transition.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, to Status) (Order, error) {
	o, from, err := s.Repo.UpdateStatus(ctx, orderID, to)
	if err != nil {
		countTransition(to, "error")
		return Order{}, err
	}
	countTransition(to, "ok")

	s.emit(ctx, events.TopicOrderStatusChanged, o.ID, map[string]any{
		"from": string(from),
		"to":   string(o.Status),
	})
	return o, nil
}

// Stats tallies the filtered orders per status.
func (s *Service) Stats(ctx context.Context, f ListFilter) (Stats, error) {
	statuses, err := s.Repo.ListStatuses(ctx, f)
	if err != nil {
		return Stats{}, err
	}
	return TallyStatuses(statuses), nil
}

// effectiveRate resolves the single tax rate frozen into every line of the
// order: exempt customers pay no tax, a configured customer rate applies
// as-is, and everyone else gets the company default. A product's own rate
// only matters in the cart, never at placement.
func effectiveRate(customer user.User) decimal.Decimal {
	if customer.TaxExempt {
		return decimal.Zero
	}
	if customer.TaxRate != nil {
		return *customer.TaxRate
	}
	return money.DefaultTaxRatePercent
}

func (s *Service) emit(ctx context.Context, topic, aggregateID string, payload any) {
	if s.Bus == nil {
		return
	}
	if _, err := s.Bus.Emit(ctx, topic, aggregateID, payload); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("topic", topic).Msg("emit event")
	}
}

func countPlacement(result string) {
	if obs.OrdersPlacedTotal != nil {
		obs.OrdersPlacedTotal.WithLabelValues(result).Inc()
	}
}

func countTransition(to Status, result string) {
	if obs.OrderStatusTransitionsTotal != nil {
		obs.OrderStatusTransitionsTotal.WithLabelValues(string(to), result).Inc()
	}
}
