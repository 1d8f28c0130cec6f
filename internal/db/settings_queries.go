package db

import (
	"context"
	"encoding/json"
	"fmt"
)

// AccessEntry is one allowlist or blocklist member: a channel, role, or
// member ID together with its kind.
type AccessEntry struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

const (
	AccessKindChannel = "channel"
	AccessKindRole    = "role"
	AccessKindMember  = "member"
)

// ValidAccessKind reports whether kind names one of the entry kinds an
// access list can hold.
func ValidAccessKind(kind string) bool {
	switch kind {
	case AccessKindChannel, AccessKindRole, AccessKindMember:
		return true
	}
	return false
}

// AccessList names which of the two per-guild lists a query touches.
type AccessList string

const (
	AccessAllow AccessList = "allowlist"
	AccessBlock AccessList = "blocklist"
)

func (l AccessList) column() (string, error) {
	switch l {
	case AccessAllow:
		return "allowlist", nil
	case AccessBlock:
		return "blocklist", nil
	default:
		return "", fmt.Errorf("unknown access list %q", string(l))
	}
}

func (p *Pool) GetGuildSettings(ctx context.Context, guildID string) (GuildSettings, error) {
	const q = `
SELECT
	guild_id,
	reaction_enabled,
	text_enabled,
	allowlist,
	blocklist,
	count_requests,
	count_detections,
	count_characters
FROM bot.guild_settings
WHERE guild_id = $1
LIMIT 1
`

	var row GuildSettings
	err := p.QueryRow(ctx, q, guildID).Scan(
		&row.GuildID,
		&row.ReactionEnabled,
		&row.TextEnabled,
		&row.Allowlist,
		&row.Blocklist,
		&row.CountRequests,
		&row.CountDetections,
		&row.CountCharacters,
	)
	if err != nil {
		if IsNoRows(err) {
			return GuildSettings{}, ErrNoRows
		}
		return GuildSettings{}, fmt.Errorf("query guild settings: %w", err)
	}
	return row, nil
}

// EnsureGuildSettings returns the guild's settings row, creating it with
// defaults on first contact with the guild.
func (p *Pool) EnsureGuildSettings(ctx context.Context, guildID string) (GuildSettings, error) {
	const q = `
INSERT INTO bot.guild_settings (guild_id)
VALUES ($1)
ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
RETURNING
	guild_id,
	reaction_enabled,
	text_enabled,
	allowlist,
	blocklist,
	count_requests,
	count_detections,
	count_characters
`

	var row GuildSettings
	err := p.QueryRow(ctx, q, guildID).Scan(
		&row.GuildID,
		&row.ReactionEnabled,
		&row.TextEnabled,
		&row.Allowlist,
		&row.Blocklist,
		&row.CountRequests,
		&row.CountDetections,
		&row.CountCharacters,
	)
	if err != nil {
		return GuildSettings{}, fmt.Errorf("ensure guild settings: %w", err)
	}
	return row, nil
}

func (p *Pool) ListGuildSettings(ctx context.Context) ([]GuildSettings, error) {
	const q = `
SELECT
	guild_id,
	reaction_enabled,
	text_enabled,
	allowlist,
	blocklist,
	count_requests,
	count_detections,
	count_characters
FROM bot.guild_settings
ORDER BY guild_id
`

	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query guild settings rows: %w", err)
	}
	defer rows.Close()

	items := make([]GuildSettings, 0, 16)
	for rows.Next() {
		var row GuildSettings
		if err := rows.Scan(
			&row.GuildID,
			&row.ReactionEnabled,
			&row.TextEnabled,
			&row.Allowlist,
			&row.Blocklist,
			&row.CountRequests,
			&row.CountDetections,
			&row.CountCharacters,
		); err != nil {
			return nil, fmt.Errorf("scan guild settings row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guild settings rows: %w", err)
	}

	return items, nil
}

func (p *Pool) SetGuildReactionEnabled(ctx context.Context, guildID string, enabled bool) error {
	const q = `
INSERT INTO bot.guild_settings (guild_id, reaction_enabled)
VALUES ($1, $2)
ON CONFLICT (guild_id) DO UPDATE SET
	reaction_enabled = EXCLUDED.reaction_enabled,
	updated_at = now()
`

	if _, err := p.Exec(ctx, q, guildID, enabled); err != nil {
		return fmt.Errorf("set guild reaction toggle: %w", err)
	}
	return nil
}

func (p *Pool) SetGuildTextEnabled(ctx context.Context, guildID string, enabled bool) error {
	const q = `
INSERT INTO bot.guild_settings (guild_id, text_enabled)
VALUES ($1, $2)
ON CONFLICT (guild_id) DO UPDATE SET
	text_enabled = EXCLUDED.text_enabled,
	updated_at = now()
`

	if _, err := p.Exec(ctx, q, guildID, enabled); err != nil {
		return fmt.Errorf("set guild text toggle: %w", err)
	}
	return nil
}

// AddGuildAccessEntries appends entries to one of the guild's lists,
// skipping entries already present. The read-modify-write runs in a
// transaction with the row locked so concurrent edits cannot drop each
// other's entries.
func (p *Pool) AddGuildAccessEntries(ctx context.Context, guildID string, list AccessList, entries []AccessEntry) error {
	return p.updateAccessList(ctx, guildID, list, func(current []AccessEntry) []AccessEntry {
		merged := current
		for _, entry := range entries {
			if !containsAccessEntry(merged, entry) {
				merged = append(merged, entry)
			}
		}
		return merged
	})
}

// RemoveGuildAccessEntries drops matching entries from one of the
// guild's lists. Entries not present are ignored.
func (p *Pool) RemoveGuildAccessEntries(ctx context.Context, guildID string, list AccessList, entries []AccessEntry) error {
	return p.updateAccessList(ctx, guildID, list, func(current []AccessEntry) []AccessEntry {
		kept := make([]AccessEntry, 0, len(current))
		for _, entry := range current {
			if !containsAccessEntry(entries, entry) {
				kept = append(kept, entry)
			}
		}
		return kept
	})
}

// ClearGuildAccessList empties one of the guild's lists.
func (p *Pool) ClearGuildAccessList(ctx context.Context, guildID string, list AccessList) error {
	return p.updateAccessList(ctx, guildID, list, func([]AccessEntry) []AccessEntry {
		return []AccessEntry{}
	})
}

func (p *Pool) updateAccessList(
	ctx context.Context,
	guildID string,
	list AccessList,
	apply func([]AccessEntry) []AccessEntry,
) error {
	column, err := list.column()
	if err != nil {
		return err
	}

	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return fmt.Errorf("begin access list update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const ensure = `
INSERT INTO bot.guild_settings (guild_id)
VALUES ($1)
ON CONFLICT (guild_id) DO NOTHING
`
	if _, err := tx.Exec(ctx, ensure, guildID); err != nil {
		return fmt.Errorf("ensure guild settings row: %w", err)
	}

	lockQuery := fmt.Sprintf(`SELECT %s FROM bot.guild_settings WHERE guild_id = $1 FOR UPDATE`, column)
	var raw json.RawMessage
	if err := tx.QueryRow(ctx, lockQuery, guildID).Scan(&raw); err != nil {
		return fmt.Errorf("lock %s for guild %s: %w", column, guildID, err)
	}
	current, err := DecodeAccessList(raw)
	if err != nil {
		return err
	}

	updated := apply(current)
	if updated == nil {
		updated = []AccessEntry{}
	}
	payload, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("encode %s: %w", column, err)
	}

	storeQuery := fmt.Sprintf(`UPDATE bot.guild_settings SET %s = $2::jsonb, updated_at = now() WHERE guild_id = $1`, column)
	if _, err := tx.Exec(ctx, storeQuery, guildID, string(payload)); err != nil {
		return fmt.Errorf("store %s for guild %s: %w", column, guildID, err)
	}

	return tx.Commit(ctx)
}

// DecodeAccessList parses a stored access-list column. Empty input
// decodes to an empty, non-nil slice.
func DecodeAccessList(raw json.RawMessage) ([]AccessEntry, error) {
	if len(raw) == 0 {
		return []AccessEntry{}, nil
	}
	var entries []AccessEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode access list: %w", err)
	}
	if entries == nil {
		entries = []AccessEntry{}
	}
	return entries, nil
}

func containsAccessEntry(entries []AccessEntry, entry AccessEntry) bool {
	for _, candidate := range entries {
		if candidate.Kind == entry.Kind && candidate.ID == entry.ID {
			return true
		}
	}
	return false
}

func (p *Pool) GetGlobalConfig(ctx context.Context) (GlobalConfig, error) {
	const q = `
SELECT
	id,
	cooldown_timeout_seconds,
	cooldown_multiple,
	count_requests,
	count_detections,
	count_characters,
	updated_at
FROM bot.global_config
WHERE id = 1
LIMIT 1
`

	var row GlobalConfig
	err := p.QueryRow(ctx, q).Scan(
		&row.ID,
		&row.CooldownTimeoutSeconds,
		&row.CooldownMultiple,
		&row.CountRequests,
		&row.CountDetections,
		&row.CountCharacters,
		&row.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return GlobalConfig{}, ErrNoRows
		}
		return GlobalConfig{}, fmt.Errorf("query global config: %w", err)
	}
	return row, nil
}

func (p *Pool) SetGlobalCooldownTimeout(ctx context.Context, seconds int) error {
	const q = `
INSERT INTO bot.global_config (id, cooldown_timeout_seconds)
VALUES (1, $1)
ON CONFLICT (id) DO UPDATE SET
	cooldown_timeout_seconds = EXCLUDED.cooldown_timeout_seconds,
	updated_at = now()
`

	if _, err := p.Exec(ctx, q, seconds); err != nil {
		return fmt.Errorf("set cooldown timeout: %w", err)
	}
	return nil
}

func (p *Pool) SetGlobalCooldownMultiple(ctx context.Context, multiple bool) error {
	const q = `
INSERT INTO bot.global_config (id, cooldown_multiple)
VALUES (1, $1)
ON CONFLICT (id) DO UPDATE SET
	cooldown_multiple = EXCLUDED.cooldown_multiple,
	updated_at = now()
`

	if _, err := p.Exec(ctx, q, multiple); err != nil {
		return fmt.Errorf("set cooldown multiple: %w", err)
	}
	return nil
}
