package db

import (
	"context"
	"fmt"
)

// CounterTotals carries one scope's persisted usage counters.
type CounterTotals struct {
	Requests   int64 `json:"requests"`
	Detections int64 `json:"detections"`
	Characters int64 `json:"characters"`
}

func (p *Pool) GlobalCounterTotals(ctx context.Context) (CounterTotals, error) {
	const q = `
SELECT count_requests, count_detections, count_characters
FROM bot.global_config
WHERE id = 1
LIMIT 1
`

	var totals CounterTotals
	err := p.QueryRow(ctx, q).Scan(&totals.Requests, &totals.Detections, &totals.Characters)
	if err != nil {
		if IsNoRows(err) {
			return CounterTotals{}, ErrNoRows
		}
		return CounterTotals{}, fmt.Errorf("query global counters: %w", err)
	}
	return totals, nil
}

func (p *Pool) GuildCounterTotals(ctx context.Context, guildID string) (CounterTotals, error) {
	const q = `
SELECT count_requests, count_detections, count_characters
FROM bot.guild_settings
WHERE guild_id = $1
LIMIT 1
`

	var totals CounterTotals
	err := p.QueryRow(ctx, q, guildID).Scan(&totals.Requests, &totals.Detections, &totals.Characters)
	if err != nil {
		if IsNoRows(err) {
			return CounterTotals{}, ErrNoRows
		}
		return CounterTotals{}, fmt.Errorf("query guild counters: %w", err)
	}
	return totals, nil
}

// SaveGlobalCounterTotals overwrites the global scope's counters.
func (p *Pool) SaveGlobalCounterTotals(ctx context.Context, totals CounterTotals) error {
	const q = `
INSERT INTO bot.global_config (id, count_requests, count_detections, count_characters)
VALUES (1, $1, $2, $3)
ON CONFLICT (id) DO UPDATE SET
	count_requests = EXCLUDED.count_requests,
	count_detections = EXCLUDED.count_detections,
	count_characters = EXCLUDED.count_characters,
	updated_at = now()
`

	if _, err := p.Exec(ctx, q, totals.Requests, totals.Detections, totals.Characters); err != nil {
		return fmt.Errorf("save global counters: %w", err)
	}
	return nil
}

// SaveGuildCounterTotals overwrites one guild's counters, creating the
// settings row when the guild has none yet.
func (p *Pool) SaveGuildCounterTotals(ctx context.Context, guildID string, totals CounterTotals) error {
	const q = `
INSERT INTO bot.guild_settings (guild_id, count_requests, count_detections, count_characters)
VALUES ($1, $2, $3, $4)
ON CONFLICT (guild_id) DO UPDATE SET
	count_requests = EXCLUDED.count_requests,
	count_detections = EXCLUDED.count_detections,
	count_characters = EXCLUDED.count_characters,
	updated_at = now()
`

	if _, err := p.Exec(ctx, q, guildID, totals.Requests, totals.Detections, totals.Characters); err != nil {
		return fmt.Errorf("save counters for guild %s: %w", guildID, err)
	}
	return nil
}

func (p *Pool) ListGuildCounterTotals(ctx context.Context) (map[string]CounterTotals, error) {
	const q = `
SELECT guild_id, count_requests, count_detections, count_characters
FROM bot.guild_settings
ORDER BY guild_id
`

	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query guild counter rows: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]CounterTotals, 16)
	for rows.Next() {
		var guildID string
		var row CounterTotals
		if err := rows.Scan(&guildID, &row.Requests, &row.Detections, &row.Characters); err != nil {
			return nil, fmt.Errorf("scan guild counter row: %w", err)
		}
		totals[guildID] = row
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guild counter rows: %w", err)
	}

	return totals, nil
}
