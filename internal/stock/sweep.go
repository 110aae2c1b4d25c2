package stock

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hectotor/Inventory-web-sub000/internal/events"
	"github.com/Hectotor/Inventory-web-sub000/internal/lock"
	"github.com/Hectotor/Inventory-web-sub000/internal/obs"
)

// Sweeper periodically recomputes low-stock alerts for every company and
// publishes the result as a gauge plus a stock.low event per company. A
// Redis lock keeps concurrent workers from double-scanning.
type Sweeper struct {
	Repo    *Repo
	Bus     *events.Bus
	Locker  lock.Locker
	LockKey string
	LockTTL time.Duration
}

// Run executes one sweep. When another worker holds the lock the sweep is
// skipped silently.
func (s *Sweeper) Run(ctx context.Context) error {
	err := s.Locker.TryWithLock(ctx, s.LockKey, s.LockTTL, s.sweep)
	if errors.Is(err, lock.ErrNotAcquired) {
		zerolog.Ctx(ctx).Debug().Msg("sweep already running elsewhere")
		return nil
	}
	return err
}

func (s *Sweeper) sweep(ctx context.Context) error {
	log := zerolog.Ctx(ctx)

	companies, err := s.Repo.CompanyIDs(ctx)
	if err != nil {
		return err
	}

	for _, companyID := range companies {
		stocks, err := s.Repo.ListByCompanyID(ctx, companyID)
		if err != nil {
			log.Error().Err(err).Str("company_id", companyID).Msg("sweep: list stocks")
			continue
		}

		alerts := LowStock(stocks)
		if obs.LowStockAlertsGauge != nil {
			obs.LowStockAlertsGauge.WithLabelValues(companyID).Set(float64(len(alerts)))
		}
		if len(alerts) == 0 {
			continue
		}

		log.Info().Str("company_id", companyID).Int("alerts", len(alerts)).Msg("low stock detected")
		if s.Bus != nil {
			flagged := make([]map[string]string, 0, len(alerts))
			for _, a := range alerts {
				flagged = append(flagged, map[string]string{
					"productId": a.ProductID,
					"total":     a.Total.String(),
					"threshold": a.Threshold.String(),
				})
			}
			if _, err := s.Bus.Emit(ctx, events.TopicStockLow, companyID, map[string]any{
				"products": flagged,
			}); err != nil {
				log.Error().Err(err).Str("company_id", companyID).Msg("sweep: emit event")
			}
		}
	}
	return nil
}
