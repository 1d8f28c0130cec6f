package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"horse.fit/polly/internal/bot"
	"horse.fit/polly/internal/db"
	"horse.fit/polly/internal/globaltime"
	"horse.fit/polly/internal/lang"
	"horse.fit/polly/internal/metrics"
	"horse.fit/polly/internal/translation"
)

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	Environment     string
}

type Server struct {
	pool    *db.Pool
	service *bot.Service
	stats   *translation.StatsCounter
	auth    *apiAuth
	schemas *eventSchemas
	logger  zerolog.Logger
	opts    Options
}

func NewServer(pool *db.Pool, service *bot.Service, stats *translation.StatsCounter, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	port := opts.Port
	if port <= 0 {
		port = 8090
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Server{
		pool:    pool,
		service: service,
		stats:   stats,
		auth:    newAPIAuth(pool, opts.Environment, logger),
		logger:  logger,
		opts: Options{
			Host:            host,
			Port:            port,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			AllowedOrigins:  origins,
			Environment:     opts.Environment,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.pool == nil || s.service == nil {
		return fmt.Errorf("server is not initialized")
	}

	schemas, err := loadEventSchemas()
	if err != nil {
		return fmt.Errorf("load event schemas: %w", err)
	}
	s.schemas = schemas

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.opts.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       3600,
	}))
	e.Use(metrics.HTTPMetrics())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("remote_ip", v.RemoteIP).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}

			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)

	protected := api.Group("", s.auth.middleware())
	protected.GET("/languages", s.handleLanguages)
	protected.GET("/stats", s.handleStats)
	protected.GET("/cooldown", s.handleGetCooldown)
	protected.PUT("/cooldown", s.handlePutCooldown)

	protected.POST("/events/reaction", s.handleReactionEvent)
	protected.POST("/events/command", s.handleCommandEvent)
	protected.POST("/events/message", s.handleMessageEvent)

	protected.GET("/guilds/:guild_id/settings", s.handleGetGuildSettings)
	protected.PUT("/guilds/:guild_id/settings", s.handlePutGuildSettings)
	protected.GET("/guilds/:guild_id/allowlist", s.handleGetAccessList(db.AccessAllow))
	protected.POST("/guilds/:guild_id/allowlist", s.handleAddAccessEntries(db.AccessAllow))
	protected.DELETE("/guilds/:guild_id/allowlist", s.handleRemoveAccessEntries(db.AccessAllow))
	protected.GET("/guilds/:guild_id/blocklist", s.handleGetAccessList(db.AccessBlock))
	protected.POST("/guilds/:guild_id/blocklist", s.handleAddAccessEntries(db.AccessBlock))
	protected.DELETE("/guilds/:guild_id/blocklist", s.handleRemoveAccessEntries(db.AccessBlock))

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("polly server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("polly server stopped")
	return nil
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch v := he.Message.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				message = v
			}
		default:
			if text := strings.TrimSpace(http.StatusText(status)); text != "" {
				message = text
			}
		}
	} else if err != nil {
		message = err.Error()
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		if status >= 500 {
			_ = internalError(c, "Internal server error")
			return
		}
		_ = fail(c, status, message, nil)
		return
	}

	_ = c.String(status, message)
}

func (s *Server) handleHealth(c echo.Context) error {
	var one int
	if err := s.pool.QueryRow(c.Request().Context(), `SELECT 1`).Scan(&one); err != nil {
		s.logger.Error().Err(err).Msg("health database ping failed")
		return fail(c, http.StatusServiceUnavailable, "Database unreachable", nil)
	}
	return success(c, map[string]any{
		"service": "polly",
		"time":    globaltime.UTC(),
	})
}

func (s *Server) handleLanguages(c echo.Context) error {
	return success(c, map[string]any{
		"items": lang.Options(),
	})
}

func (s *Server) handleStats(c echo.Context) error {
	ctx := c.Request().Context()
	guildID := strings.TrimSpace(c.QueryParam("guild_id"))

	global, err := s.stats.Global(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("load global stats failed")
		return internalError(c, "Failed to load stats")
	}
	data := map[string]any{"global": global}

	if guildID != "" {
		guild, err := s.stats.Guild(ctx, guildID)
		if err != nil {
			s.logger.Error().Err(err).Str("guild_id", guildID).Msg("load guild stats failed")
			return internalError(c, "Failed to load stats")
		}
		data["guild_id"] = guildID
		data["guild"] = guild
	}

	text, err := s.stats.Text(ctx, guildID)
	if err != nil {
		s.logger.Error().Err(err).Msg("render stats text failed")
		return internalError(c, "Failed to load stats")
	}
	data["text"] = text

	return success(c, data)
}
