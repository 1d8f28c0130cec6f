package db

import (
	"context"
	"fmt"
)

// APITokenDigest pairs a token row with the digest the auth middleware
// verifies against.
type APITokenDigest struct {
	TokenID int64
	Name    string
	Digest  string
}

func (p *Pool) InsertAPIToken(ctx context.Context, name, digest string) (APIToken, error) {
	const q = `
INSERT INTO bot.api_tokens (name, token_digest)
VALUES ($1, $2)
RETURNING token_id, token_uuid::text, name, token_digest, created_at
`

	var row APIToken
	err := p.QueryRow(ctx, q, name, digest).Scan(
		&row.TokenID,
		&row.TokenUUID,
		&row.Name,
		&row.TokenDigest,
		&row.CreatedAt,
	)
	if err != nil {
		return APIToken{}, fmt.Errorf("insert api token: %w", err)
	}
	return row, nil
}

func (p *Pool) ListActiveAPITokenDigests(ctx context.Context) ([]APITokenDigest, error) {
	const q = `
SELECT token_id, name, token_digest
FROM bot.api_tokens
WHERE revoked_at IS NULL
ORDER BY token_id
`

	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query api token rows: %w", err)
	}
	defer rows.Close()

	items := make([]APITokenDigest, 0, 4)
	for rows.Next() {
		var row APITokenDigest
		if err := rows.Scan(&row.TokenID, &row.Name, &row.Digest); err != nil {
			return nil, fmt.Errorf("scan api token row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate api token rows: %w", err)
	}

	return items, nil
}

func (p *Pool) TouchAPIToken(ctx context.Context, tokenID int64) error {
	const q = `
UPDATE bot.api_tokens
SET last_used_at = now()
WHERE token_id = $1
`

	if _, err := p.Exec(ctx, q, tokenID); err != nil {
		return fmt.Errorf("touch api token: %w", err)
	}
	return nil
}

func (p *Pool) ListAPITokens(ctx context.Context) ([]APIToken, error) {
	const q = `
SELECT token_id, token_uuid::text, name, created_at, last_used_at, revoked_at
FROM bot.api_tokens
ORDER BY token_id
`

	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query api tokens: %w", err)
	}
	defer rows.Close()

	items := make([]APIToken, 0, 4)
	for rows.Next() {
		var row APIToken
		if err := rows.Scan(
			&row.TokenID,
			&row.TokenUUID,
			&row.Name,
			&row.CreatedAt,
			&row.LastUsedAt,
			&row.RevokedAt,
		); err != nil {
			return nil, fmt.Errorf("scan api token: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate api tokens: %w", err)
	}

	return items, nil
}

func (p *Pool) RevokeAPIToken(ctx context.Context, name string) (bool, error) {
	const q = `
UPDATE bot.api_tokens
SET revoked_at = now()
WHERE name = $1
  AND revoked_at IS NULL
`

	tag, err := p.Exec(ctx, q, name)
	if err != nil {
		return false, fmt.Errorf("revoke api token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
