package bot

import (
	"context"
	"fmt"

	"horse.fit/polly/internal/db"
	"horse.fit/polly/internal/translation"
)

// CounterQueries is the storage surface the counter adapter needs.
// *db.Pool implements it.
type CounterQueries interface {
	GlobalCounterTotals(ctx context.Context) (db.CounterTotals, error)
	GuildCounterTotals(ctx context.Context, guildID string) (db.CounterTotals, error)
	SaveGlobalCounterTotals(ctx context.Context, totals db.CounterTotals) error
	SaveGuildCounterTotals(ctx context.Context, guildID string, totals db.CounterTotals) error
	ListGuildCounterTotals(ctx context.Context) (map[string]db.CounterTotals, error)
}

// counterStore adapts the database counter queries to the stats counter
// interface. Scopes with no stored row read as zero rather than as an
// error so first contact with a guild starts counting cleanly.
type counterStore struct {
	queries CounterQueries
}

// NewCounterStore wraps the database queries as a translation counter
// store.
func NewCounterStore(queries CounterQueries) translation.CounterStore {
	return &counterStore{queries: queries}
}

func (s *counterStore) GlobalCounters(ctx context.Context) (translation.Counters, error) {
	totals, err := s.queries.GlobalCounterTotals(ctx)
	if err != nil {
		if db.IsNoRows(err) {
			return translation.Counters{}, nil
		}
		return translation.Counters{}, fmt.Errorf("load global counters: %w", err)
	}
	return asCounters(totals), nil
}

func (s *counterStore) GuildCounters(ctx context.Context, guildID string) (translation.Counters, error) {
	totals, err := s.queries.GuildCounterTotals(ctx, guildID)
	if err != nil {
		if db.IsNoRows(err) {
			return translation.Counters{}, nil
		}
		return translation.Counters{}, fmt.Errorf("load counters for guild %s: %w", guildID, err)
	}
	return asCounters(totals), nil
}

func (s *counterStore) SaveGlobalCounters(ctx context.Context, counters translation.Counters) error {
	return s.queries.SaveGlobalCounterTotals(ctx, asTotals(counters))
}

func (s *counterStore) SaveGuildCounters(ctx context.Context, guildID string, counters translation.Counters) error {
	return s.queries.SaveGuildCounterTotals(ctx, guildID, asTotals(counters))
}

func (s *counterStore) ListGuildCounters(ctx context.Context) (map[string]translation.Counters, error) {
	rows, err := s.queries.ListGuildCounterTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list guild counters: %w", err)
	}
	counters := make(map[string]translation.Counters, len(rows))
	for guildID, totals := range rows {
		counters[guildID] = asCounters(totals)
	}
	return counters, nil
}

func asCounters(totals db.CounterTotals) translation.Counters {
	return translation.Counters{
		Requests:   totals.Requests,
		Detections: totals.Detections,
		Characters: totals.Characters,
	}
}

func asTotals(counters translation.Counters) db.CounterTotals {
	return db.CounterTotals{
		Requests:   counters.Requests,
		Detections: counters.Detections,
		Characters: counters.Characters,
	}
}
