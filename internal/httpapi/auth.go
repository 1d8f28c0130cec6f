package httpapi

import (
	"context"
	"crypto/sha256"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"horse.fit/polly/internal/auth"
	"horse.fit/polly/internal/db"
	"horse.fit/polly/internal/globaltime"
)

const (
	digestReloadInterval = time.Minute
	tokenTouchInterval   = time.Minute
)

// TokenStore is the storage surface token verification needs. *db.Pool
// implements it.
type TokenStore interface {
	ListActiveAPITokenDigests(ctx context.Context) ([]db.APITokenDigest, error)
	TouchAPIToken(ctx context.Context, tokenID int64) error
}

type knownToken struct {
	tokenID   int64
	touchedAt time.Time
}

// apiAuth verifies bearer tokens against the stored bcrypt digests. A
// verified token's SHA-256 fingerprint is cached so repeat requests skip
// the bcrypt comparison; the cache is rebuilt on every digest reload,
// which is how revocation takes effect.
type apiAuth struct {
	store       TokenStore
	environment string
	logger      zerolog.Logger

	mu       sync.Mutex
	digests  []db.APITokenDigest
	known    map[[sha256.Size]byte]*knownToken
	loadedAt time.Time

	openWarn sync.Once
}

func newAPIAuth(store TokenStore, environment string, logger zerolog.Logger) *apiAuth {
	return &apiAuth{
		store:       store,
		environment: environment,
		logger:      logger,
		known:       make(map[[sha256.Size]byte]*knownToken),
	}
}

func (a *apiAuth) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, _ := bearerToken(c)
			ok, err := a.authorize(c.Request().Context(), token)
			if err != nil {
				a.logger.Error().Err(err).Msg("token verification failed")
				return internalError(c, "Failed to authorize request")
			}
			if !ok {
				return failUnauthorized(c, "Authentication required")
			}
			return next(c)
		}
	}
}

func (a *apiAuth) authorize(ctx context.Context, token string) (bool, error) {
	now := globaltime.Now()

	a.mu.Lock()
	if a.loadedAt.IsZero() || now.Sub(a.loadedAt) >= digestReloadInterval {
		digests, err := a.store.ListActiveAPITokenDigests(ctx)
		if err != nil {
			a.mu.Unlock()
			return false, err
		}
		a.digests = digests
		a.known = make(map[[sha256.Size]byte]*knownToken)
		a.loadedAt = now
	}

	if len(a.digests) == 0 {
		open := a.environment == "local"
		a.mu.Unlock()
		if open {
			a.openWarn.Do(func() {
				a.logger.Warn().Msg("no API tokens minted; serving without authentication in local environment")
			})
			return true, nil
		}
		return false, nil
	}

	if token == "" {
		a.mu.Unlock()
		return false, nil
	}

	fp := auth.Fingerprint(token)
	if cached, ok := a.known[fp]; ok {
		tokenID := cached.tokenID
		touch := now.Sub(cached.touchedAt) >= tokenTouchInterval
		if touch {
			cached.touchedAt = now
		}
		a.mu.Unlock()
		if touch {
			if err := a.store.TouchAPIToken(ctx, tokenID); err != nil {
				a.logger.Warn().Err(err).Int64("token_id", tokenID).Msg("touch token failed")
			}
		}
		return true, nil
	}

	for _, digest := range a.digests {
		if auth.VerifyToken(token, digest.Digest) {
			a.known[fp] = &knownToken{tokenID: digest.TokenID, touchedAt: now}
			tokenID := digest.TokenID
			a.mu.Unlock()
			if err := a.store.TouchAPIToken(ctx, tokenID); err != nil {
				a.logger.Warn().Err(err).Int64("token_id", tokenID).Msg("touch token failed")
			}
			return true, nil
		}
	}

	a.mu.Unlock()
	return false, nil
}

func bearerToken(c echo.Context) (string, bool) {
	header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
