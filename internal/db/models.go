package db

import (
	"encoding/json"
	"time"
)

// GuildSettings maps bot.guild_settings.
type GuildSettings struct {
	GuildID           string          `gorm:"column:guild_id;type:text;primaryKey"`
	GuildSettingsUUID string          `gorm:"column:guild_settings_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	ReactionEnabled   bool            `gorm:"column:reaction_enabled;type:boolean;not null;default:false"`
	TextEnabled       bool            `gorm:"column:text_enabled;type:boolean;not null;default:false"`
	Allowlist         json.RawMessage `gorm:"column:allowlist;type:jsonb;not null;default:'[]'"`
	Blocklist         json.RawMessage `gorm:"column:blocklist;type:jsonb;not null;default:'[]'"`
	CountRequests     int64           `gorm:"column:count_requests;type:bigint;not null;default:0"`
	CountDetections   int64           `gorm:"column:count_detections;type:bigint;not null;default:0"`
	CountCharacters   int64           `gorm:"column:count_characters;type:bigint;not null;default:0"`
	CreatedAt         time.Time       `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (GuildSettings) TableName() string { return "bot.guild_settings" }

// GlobalConfig maps bot.global_config, a single-row table keyed by id 1.
type GlobalConfig struct {
	ID                     int16     `gorm:"column:id;type:smallint;primaryKey"`
	CooldownTimeoutSeconds int       `gorm:"column:cooldown_timeout_seconds;type:integer;not null;default:0"`
	CooldownMultiple       bool      `gorm:"column:cooldown_multiple;type:boolean;not null;default:false"`
	CountRequests          int64     `gorm:"column:count_requests;type:bigint;not null;default:0"`
	CountDetections        int64     `gorm:"column:count_detections;type:bigint;not null;default:0"`
	CountCharacters        int64     `gorm:"column:count_characters;type:bigint;not null;default:0"`
	UpdatedAt              time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (GlobalConfig) TableName() string { return "bot.global_config" }

// APIToken maps bot.api_tokens. Rows hold bcrypt digests; raw tokens are
// never stored.
type APIToken struct {
	TokenID     int64      `gorm:"column:token_id;primaryKey;autoIncrement"`
	TokenUUID   string     `gorm:"column:token_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	Name        string     `gorm:"column:name;type:text;not null;unique"`
	TokenDigest string     `gorm:"column:token_digest;type:text;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	LastUsedAt  *time.Time `gorm:"column:last_used_at;type:timestamptz"`
	RevokedAt   *time.Time `gorm:"column:revoked_at;type:timestamptz"`
}

func (APIToken) TableName() string { return "bot.api_tokens" }

func autoMigrateModels() []any {
	return []any{
		&GuildSettings{},
		&GlobalConfig{},
		&APIToken{},
	}
}
