package events

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists events in the domain_events table.
type PGStore struct {
	Pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{Pool: pool}
}

func (s *PGStore) InsertDomainEvent(ctx context.Context, topic, aggregateID string, payload []byte) (Event, error) {
	var ev Event
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO domain_events (topic, aggregate_id, payload)
		 VALUES ($1, $2, $3)
		 RETURNING id, topic, aggregate_id, payload, occurred_at`,
		topic, aggregateID, payload).
		Scan(&ev.ID, &ev.Topic, &ev.AggregateID, &ev.Payload, &ev.OccurredAt)
	return ev, err
}
