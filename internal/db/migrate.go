package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
)

// The bot schema must exist before gorm can create tables inside it.
//
//go:embed sql/pre_automigrate.sql
var preAutoMigrateSQL string

// Seeds the bot.global_config singleton once the table exists.
//
//go:embed sql/post_automigrate.sql
var postAutoMigrateSQL string

func (p *Pool) autoMigrate(ctx context.Context) error {
	if p == nil || p.orm == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	if err := p.execMigrationScript(ctx, "pre-auto-migrate", preAutoMigrateSQL); err != nil {
		return err
	}

	if err := p.orm.WithContext(ctx).AutoMigrate(autoMigrateModels()...); err != nil {
		return fmt.Errorf("gorm auto-migrate models: %w", err)
	}

	return p.execMigrationScript(ctx, "post-auto-migrate", postAutoMigrateSQL)
}

func (p *Pool) execMigrationScript(ctx context.Context, label, sqlText string) error {
	trimmed := strings.TrimSpace(sqlText)
	if trimmed == "" {
		return nil
	}
	if err := p.orm.WithContext(ctx).Exec(trimmed).Error; err != nil {
		return fmt.Errorf("execute %s SQL: %w", label, err)
	}
	return nil
}
