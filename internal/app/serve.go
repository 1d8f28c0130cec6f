package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mileusna/crontab"

	"horse.fit/polly/internal/bot"
	"horse.fit/polly/internal/cli"
	"horse.fit/polly/internal/config"
	"horse.fit/polly/internal/db"
	"horse.fit/polly/internal/httpapi"
	"horse.fit/polly/internal/logging"
	"horse.fit/polly/internal/translation"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	host := fs.String("host", "0.0.0.0", "Host interface to bind")
	port := fs.Int("port", 8090, "HTTP port")
	readTimeout := fs.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	writeTimeout := fs.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *port <= 0 || *port > 65535 {
		fmt.Fprintln(os.Stderr, "--port must be between 1 and 65535")
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	pool, err := db.NewPool(dbCtx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("serve failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	stats := translation.NewStatsCounter(bot.NewCounterStore(pool), logger)
	if err := stats.Initialize(ctx); err != nil {
		logger.Error().Err(err).Msg("serve failed to load usage counters")
		fmt.Fprintf(os.Stderr, "Failed to load usage counters: %v\n", err)
		return 1
	}

	client := translation.NewClient(cfg.GoogleAPIKey, stats, logger, translation.Options{
		CacheSize: cfg.TranslateCacheSize,
	})
	if !client.HasCredentials() {
		logger.Warn().Msg("GOOGLE_TRANSLATE_API_KEY is not set; translation events will be skipped")
	}

	service, err := bot.NewService(client, pool, stats, logger)
	if err != nil {
		logger.Error().Err(err).Msg("serve failed to build bot service")
		fmt.Fprintf(os.Stderr, "Failed to build bot service: %v\n", err)
		return 1
	}

	ctab := crontab.New()
	defer ctab.Shutdown()

	maintenance := bot.NewMaintenance(service.Cooldowns(), stats, logger)
	if err := maintenance.Start(ctx, ctab); err != nil {
		logger.Error().Err(err).Msg("serve failed to schedule maintenance")
		fmt.Fprintf(os.Stderr, "Failed to schedule maintenance: %v\n", err)
		return 1
	}

	srv := httpapi.NewServer(pool, service, stats, logger, httpapi.Options{
		Host:            *host,
		Port:            *port,
		ReadTimeout:     *readTimeout,
		WriteTimeout:    *writeTimeout,
		ShutdownTimeout: *shutdownTimeout,
		AllowedOrigins:  cfg.CORSAllowedOriginsList(),
		Environment:     cfg.Environment,
	})

	serveErr := srv.Start(ctx)

	// The request context is gone by now; give the final counter flush
	// its own deadline so usage survives the shutdown.
	flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer flushCancel()
	if err := stats.Flush(flushCtx); err != nil {
		logger.Warn().Err(err).Msg("final usage counter flush failed")
	}

	if serveErr != nil {
		logger.Error().Err(serveErr).Str("host", *host).Int("port", *port).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", serveErr)
		return 1
	}

	return 0
}
