package translation

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"horse.fit/polly/internal/metrics"
)

const (
	// DefaultBaseURL is the Google Translate v2 REST endpoint.
	DefaultBaseURL = "https://translation.googleapis.com"

	detectPath    = "/language/translate/v2/detect"
	translatePath = "/language/translate/v2"

	userAgent = "polly translation bot (+https://horse.fit)"
)

// Options tune the client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	CacheSize  int
	HTTPClient *http.Client
}

// Client calls the Google Translate v2 API with result caching and usage
// accounting. Transport-level failures are absorbed: the caller sees an
// absent result and the warning lands in the log. Only missing
// credentials and errors the API itself reports surface as errors.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	stats      *StatsCounter
	logger     zerolog.Logger

	detectCache    *fifoCache[uint64, *DetectedLanguage]
	translateCache *fifoCache[translateKey, *Translation]
}

// translateKey identifies one translation request. The text rides as a
// fingerprint: caching a hash instead of the full message keeps the
// bounded cache small no matter how long messages get.
type translateKey struct {
	target string
	text   uint64
	source string
}

func NewClient(apiKey string, stats *StatsCounter, logger zerolog.Logger, opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cacheSize := opts.CacheSize
	if cacheSize < 1 {
		cacheSize = DefaultCacheSize
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "google-translate",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("translation API breaker state changed")
		},
	})

	return &Client{
		apiKey:         strings.TrimSpace(apiKey),
		baseURL:        baseURL,
		httpClient:     httpClient,
		breaker:        breaker,
		stats:          stats,
		logger:         logger,
		detectCache:    newFIFOCache[uint64, *DetectedLanguage](cacheSize),
		translateCache: newFIFOCache[translateKey, *Translation](cacheSize),
	}
}

// HasCredentials reports whether an API key is configured. Event handlers
// bail out early on false instead of producing per-event errors.
func (c *Client) HasCredentials() bool {
	return c != nil && c.apiKey != ""
}

// Stats exposes the usage counters for rendering and flushing.
func (c *Client) Stats() *StatsCounter {
	return c.stats
}

// DetectLanguage returns the most confident detection for text, or nil
// when the API had nothing reliable to say or could not be reached.
// guildID attributes usage; empty means global-only accounting.
func (c *Client) DetectLanguage(ctx context.Context, text, guildID string) (*DetectedLanguage, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingToken
	}

	key := fingerprint(text)
	if cached, ok := c.detectCache.Get(key); ok {
		metrics.TranslationCacheHits.WithLabelValues("detect").Inc()
		return cached, nil
	}
	metrics.TranslationCacheMisses.WithLabelValues("detect").Inc()

	params := url.Values{}
	params.Set("q", text)
	params.Set("key", c.apiKey)

	body, ok := c.get(ctx, detectPath, params, "detect")
	if !ok {
		metrics.TranslationRequestsTotal.WithLabelValues("detect", "absent").Inc()
		return nil, nil
	}
	if apiErr := embeddedError(body); apiErr != nil {
		metrics.TranslationRequestsTotal.WithLabelValues("detect", "api_error").Inc()
		c.logger.Warn().Int("code", apiErr.Code).Msg(apiErr.Message)
		return nil, apiErr
	}

	candidates, err := parseDetections(body)
	if err != nil {
		metrics.TranslationRequestsTotal.WithLabelValues("detect", "api_error").Inc()
		return nil, err
	}

	best := bestDetection(candidates)
	c.stats.AddDetect(ctx, guildID)
	c.detectCache.Put(key, best)
	metrics.TranslationRequestsTotal.WithLabelValues("detect", "ok").Inc()
	return best, nil
}

// TranslateText translates text into target. source may be empty, letting
// the API auto-detect; a -Latn romanization suffix on source is stripped
// before the request since the API rejects it as a source language.
func (c *Client) TranslateText(ctx context.Context, target, text, source, guildID string) (*Translation, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingToken
	}

	key := translateKey{target: target, text: fingerprint(text), source: source}
	if cached, ok := c.translateCache.Get(key); ok {
		metrics.TranslationCacheHits.WithLabelValues("translate").Inc()
		return cached, nil
	}
	metrics.TranslationCacheMisses.WithLabelValues("translate").Inc()

	params := url.Values{}
	params.Set("q", text)
	params.Set("target", target)
	params.Set("key", c.apiKey)
	params.Set("format", "text")
	if source != "" {
		params.Set("source", strings.ReplaceAll(source, "-Latn", ""))
	}

	body, ok := c.get(ctx, translatePath, params, "translate")
	if !ok {
		metrics.TranslationRequestsTotal.WithLabelValues("translate", "absent").Inc()
		return nil, nil
	}
	if apiErr := embeddedError(body); apiErr != nil {
		metrics.TranslationRequestsTotal.WithLabelValues("translate", "api_error").Inc()
		c.logger.Error().Int("code", apiErr.Code).Msg(apiErr.Message)
		return nil, apiErr
	}

	translated, err := parseTranslation(body)
	if err != nil {
		metrics.TranslationRequestsTotal.WithLabelValues("translate", "api_error").Inc()
		return nil, err
	}

	c.stats.AddRequest(ctx, guildID, text)
	c.translateCache.Put(key, translated)
	metrics.TranslationRequestsTotal.WithLabelValues("translate", "ok").Inc()
	return translated, nil
}

// get performs one API round trip through the circuit breaker. Any
// transport failure, non-200 status, or open breaker is logged and
// reported as absent; these are never retried here. The request URL
// carries the API key, so it must never reach the log.
func (c *Client) get(ctx context.Context, path string, params url.Values, endpoint string) ([]byte, bool) {
	requestURL := c.baseURL + path + "?" + params.Encode()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		started := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("send request: %w", err)
		}
		defer resp.Body.Close()
		metrics.TranslationAPILatency.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("GET %s returned status %d", path, resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		return body, nil
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("translation API request failed")
		return nil, false
	}
	return result.([]byte), true
}

func fingerprint(text string) uint64 {
	h := fnv.New64a()
	_, _ = io.WriteString(h, text)
	return h.Sum64()
}
