package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Hectotor/Inventory-web-sub000/internal/catalog"
	"github.com/Hectotor/Inventory-web-sub000/internal/obs"
)

var (
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInvalidQuantity    = errors.New("invalid quantity")
)

// ProductSource is the slice of the catalog the cart needs.
type ProductSource interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}

// Service applies cart edits against the snapshot store. Every read passes
// through refresh: lines whose product disappeared or was deactivated are
// dropped and the snapshot is written back, so stale carts heal lazily.
type Service struct {
	Store    *Store
	Products ProductSource
}

func NewService(store *Store, products ProductSource) *Service {
	return &Service{Store: store, Products: products}
}

// Get loads and refreshes the user's cart.
func (s *Service) Get(ctx context.Context, companyID, userID string) (Cart, error) {
	c, repaired, err := s.Store.Load(ctx, companyID, userID)
	if err != nil {
		return Cart{}, err
	}
	if repaired {
		countRepair("corrupt")
	}
	return s.refresh(ctx, companyID, userID, c)
}

// AddItem adds qty of a product, merging with any existing line.
func (s *Service) AddItem(ctx context.Context, companyID, userID, productID string, qty int64) (Cart, error) {
	if qty <= 0 {
		return Cart{}, ErrInvalidQuantity
	}
	p, err := s.Products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Cart{}, ErrProductUnavailable
		}
		return Cart{}, err
	}
	if !p.Active {
		return Cart{}, ErrProductUnavailable
	}

	c, repaired, err := s.Store.Load(ctx, companyID, userID)
	if err != nil {
		return Cart{}, err
	}
	if repaired {
		countRepair("corrupt")
	}
	c.Add(p, qty)
	if err := s.Store.Save(ctx, companyID, userID, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// SetQuantity replaces the quantity of a line; zero removes it.
func (s *Service) SetQuantity(ctx context.Context, companyID, userID, productID string, qty int64) (Cart, error) {
	if qty < 0 {
		return Cart{}, ErrInvalidQuantity
	}
	c, repaired, err := s.Store.Load(ctx, companyID, userID)
	if err != nil {
		return Cart{}, err
	}
	if repaired {
		countRepair("corrupt")
	}
	c.SetQuantity(productID, qty)
	if err := s.Store.Save(ctx, companyID, userID, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// RemoveItem drops a line from the cart.
func (s *Service) RemoveItem(ctx context.Context, companyID, userID, productID string) (Cart, error) {
	return s.SetQuantity(ctx, companyID, userID, productID, 0)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, companyID, userID string) error {
	return s.Store.Clear(ctx, companyID, userID)
}

// refresh re-reads every product referenced by the cart and rebuilds the
// lines with current prices. Missing or inactive products are dropped; when
// anything changed the snapshot is written back.
func (s *Service) refresh(ctx context.Context, companyID, userID string, c Cart) (Cart, error) {
	if c.IsEmpty() {
		return c, nil
	}
	ids := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.Product.ID)
	}
	current, err := s.Products.GetMany(ctx, ids)
	if err != nil {
		return Cart{}, fmt.Errorf("refresh cart: %w", err)
	}

	kept := make([]Line, 0, len(c.Lines))
	dropped := 0
	for _, l := range c.Lines {
		p, ok := current[l.Product.ID]
		if !ok || !p.Active {
			dropped++
			continue
		}
		kept = append(kept, Line{Product: p, Qty: l.Qty})
	}
	if dropped == 0 {
		return Cart{Lines: kept}, nil
	}

	zerolog.Ctx(ctx).Info().Int("dropped", dropped).Msg("pruned unavailable cart lines")
	countRepair("stale_line")
	out := Cart{Lines: kept}
	if err := s.Store.Save(ctx, companyID, userID, out); err != nil {
		return Cart{}, err
	}
	return out, nil
}

func countRepair(kind string) {
	if obs.CartSnapshotRepairsTotal != nil {
		obs.CartSnapshotRepairsTotal.WithLabelValues(kind).Inc()
	}
}
