package bot

import (
	"context"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"

	"horse.fit/polly/internal/translation"
)

const maintenanceSchedule = "*/2 * * * *"

// Maintenance clears trigger cooldown state and flushes usage counters
// on a fixed schedule. The two-minute cadence bounds both the cooldown
// memory and how much usage data an unclean shutdown can lose.
type Maintenance struct {
	cooldowns *CooldownTracker
	stats     *translation.StatsCounter
	logger    zerolog.Logger
}

func NewMaintenance(cooldowns *CooldownTracker, stats *translation.StatsCounter, logger zerolog.Logger) *Maintenance {
	return &Maintenance{
		cooldowns: cooldowns,
		stats:     stats,
		logger:    logger.With().Str("component", "maintenance").Logger(),
	}
}

// Start registers the sweep with the scheduler.
func (m *Maintenance) Start(ctx context.Context, ctab *crontab.Crontab) error {
	return ctab.AddJob(maintenanceSchedule, func() {
		m.Run(ctx)
	})
}

// Run performs one sweep. Safe to call directly, including as a final
// flush during shutdown.
func (m *Maintenance) Run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	cleared := m.cooldowns.Tracked()
	m.cooldowns.Reset()
	if err := m.stats.Flush(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("flush usage counters")
		return
	}
	m.logger.Debug().Int("cooldowns_cleared", cleared).Msg("maintenance sweep finished")
}
