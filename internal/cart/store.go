package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Store persists cart snapshots in Redis, keyed per company and user. A
// snapshot that fails to decode is treated as lost: it is cleared and an
// empty cart is returned, so one bad write never wedges a user.
type Store struct {
	R   *redis.Client
	TTL time.Duration
}

func NewStore(r *redis.Client, ttl time.Duration) *Store {
	return &Store{R: r, TTL: ttl}
}

func cartKey(companyID, userID string) string {
	return fmt.Sprintf("cart:%s:%s", companyID, userID)
}

// Load returns the stored cart, or an empty cart when none exists. Corrupt
// payloads are deleted and reported as a repair, not as an error.
func (s *Store) Load(ctx context.Context, companyID, userID string) (Cart, bool, error) {
	key := cartKey(companyID, userID)
	raw, err := s.R.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Cart{}, false, nil
	}
	if err != nil {
		return Cart{}, false, fmt.Errorf("load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		zerolog.Ctx(ctx).Warn().Str("key", key).Err(err).Msg("discarding corrupt cart snapshot")
		if delErr := s.R.Del(ctx, key).Err(); delErr != nil {
			return Cart{}, false, fmt.Errorf("clear corrupt cart: %w", delErr)
		}
		return Cart{}, true, nil
	}
	return c, false, nil
}

// Save writes the snapshot and refreshes its TTL. Empty carts are deleted
// rather than stored.
func (s *Store) Save(ctx context.Context, companyID, userID string, c Cart) error {
	key := cartKey(companyID, userID)
	if c.IsEmpty() {
		if err := s.R.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("delete empty cart: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.R.Set(ctx, key, raw, s.TTL).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Clear removes the snapshot.
func (s *Store) Clear(ctx context.Context, companyID, userID string) error {
	if err := s.R.Del(ctx, cartKey(companyID, userID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
