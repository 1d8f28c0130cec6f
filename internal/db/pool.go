package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"horse.fit/polly/internal/config"
)

var ErrNoRows = sql.ErrNoRows

func IsNoRows(err error) bool {
	return errors.Is(err, ErrNoRows)
}

// Pool is the process-wide Postgres handle. The query files speak raw
// SQL through it; gorm only manages the connection and auto-migration.
type Pool struct {
	orm   *gorm.DB
	sqlDB *sql.DB
}

func NewPool(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	orm, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel, cfg.Environment)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	sqlDB, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("get gorm sql db: %w", err)
	}
	applyConnLimits(sqlDB, cfg)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	pool := &Pool{orm: orm, sqlDB: sqlDB}
	if err := pool.autoMigrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("auto-migrate schema: %w", err)
	}

	return pool, nil
}

func applyConnLimits(sqlDB *sql.DB, cfg *config.Config) {
	maxOpen := int(cfg.DBMaxConns)
	if maxOpen <= 0 {
		maxOpen = 8
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(max(1, min(int(cfg.DBMinConns), maxOpen)))
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
}

func (p *Pool) Close() error {
	if p == nil || p.sqlDB == nil {
		return nil
	}
	return p.sqlDB.Close()
}

func (p *Pool) QueryRow(ctx context.Context, query string, args ...any) *Row {
	if p == nil || p.orm == nil {
		return &Row{row: nil}
	}
	return &Row{row: p.orm.WithContext(ctx).Raw(query, args...).Row()}
}

func (p *Pool) Query(ctx context.Context, query string, args ...any) (*Rows, error) {
	if p == nil || p.orm == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}
	rows, err := p.orm.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (p *Pool) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	if p == nil || p.orm == nil {
		return CommandTag{}, fmt.Errorf("database pool is not initialized")
	}
	res := p.orm.WithContext(ctx).Exec(query, args...)
	return CommandTag{rowsAffected: res.RowsAffected}, res.Error
}

// Row, Rows and CommandTag wrap database/sql results so the query
// files never touch gorm types directly.
type Row struct{ row *sql.Row }

func (r *Row) Scan(dest ...any) error {
	if r == nil || r.row == nil {
		return ErrNoRows
	}
	return r.row.Scan(dest...)
}

type Rows struct{ rows *sql.Rows }

func (r *Rows) Next() bool {
	if r == nil || r.rows == nil {
		return false
	}
	return r.rows.Next()
}

func (r *Rows) Scan(dest ...any) error {
	if r == nil || r.rows == nil {
		return ErrNoRows
	}
	return r.rows.Scan(dest...)
}

func (r *Rows) Err() error {
	if r == nil || r.rows == nil {
		return nil
	}
	return r.rows.Err()
}

func (r *Rows) Close() {
	if r == nil || r.rows == nil {
		return
	}
	_ = r.rows.Close()
}

type CommandTag struct{ rowsAffected int64 }

func (c CommandTag) RowsAffected() int64 { return c.rowsAffected }

// Tx is the transactional subset of the Pool query surface.
type Tx interface {
	QueryRow(ctx context.Context, query string, args ...any) *Row
	Query(ctx context.Context, query string, args ...any) (*Rows, error)
	Exec(ctx context.Context, query string, args ...any) (CommandTag, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type TxOptions struct{}

func (p *Pool) BeginTx(ctx context.Context, _ TxOptions) (Tx, error) {
	if p == nil || p.orm == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}
	tx := p.orm.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &poolTx{orm: tx}, nil
}

type poolTx struct {
	orm *gorm.DB
}

func (t *poolTx) QueryRow(ctx context.Context, query string, args ...any) *Row {
	return &Row{row: t.orm.WithContext(ctx).Raw(query, args...).Row()}
}

func (t *poolTx) Query(ctx context.Context, query string, args ...any) (*Rows, error) {
	rows, err := t.orm.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (t *poolTx) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	res := t.orm.WithContext(ctx).Exec(query, args...)
	return CommandTag{rowsAffected: res.RowsAffected}, res.Error
}

func (t *poolTx) Commit(ctx context.Context) error {
	return t.orm.WithContext(ctx).Commit().Error
}

func (t *poolTx) Rollback(ctx context.Context) error {
	return t.orm.WithContext(ctx).Rollback().Error
}

// gormLogLevel maps the app LOG_LEVEL onto gorm's coarser scale.
func gormLogLevel(appLevel, environment string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(appLevel)) {
	case "trace", "debug":
		return logger.Info
	case "warn", "warning", "info", "":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	}
	if strings.EqualFold(strings.TrimSpace(environment), "local") {
		return logger.Warn
	}
	return logger.Error
}
