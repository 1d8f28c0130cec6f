package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *stubCounterStore, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	store := newStubCounterStore()
	stats := NewStatsCounter(store, zerolog.Nop())
	client := NewClient("test-key", stats, zerolog.Nop(), Options{BaseURL: srv.URL})
	return client, store, &hits
}

func detectResponse(candidates string) string {
	return fmt.Sprintf(`{"data":{"detections":[%s]}}`, candidates)
}

func TestDetectLanguageCachesResults(t *testing.T) {
	t.Parallel()

	client, _, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/language/translate/v2/detect" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, detectResponse(`[{"language":"fr","isReliable":false,"confidence":0.99}]`))
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		detected, err := client.DetectLanguage(ctx, "bonjour tout le monde", "g1")
		if err != nil {
			t.Fatalf("detect failed: %v", err)
		}
		if detected == nil || detected.Language != "fr" {
			t.Fatalf("unexpected detection: %+v", detected)
		}
	}

	if got := hits.Load(); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}
	counters, err := client.Stats().Guild(ctx, "g1")
	if err != nil {
		t.Fatalf("counter read failed: %v", err)
	}
	if counters.Detections != 1 {
		t.Fatalf("cache hit must not count a detection, got %d", counters.Detections)
	}
}

func TestDetectLanguagePicksHighestConfidenceFirstSeen(t *testing.T) {
	t.Parallel()

	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, detectResponse(
			`[{"language":"es","isReliable":false,"confidence":0.4}],`+
				`[{"language":"en","isReliable":true,"confidence":0.9}],`+
				`[{"language":"fr","isReliable":true,"confidence":0.9}]`))
	})

	detected, err := client.DetectLanguage(context.Background(), "some ambiguous text", "")
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if detected == nil || detected.Language != "en" {
		t.Fatalf("tie must keep the first candidate seen, got %+v", detected)
	}
}

func TestDetectLanguageCachesAbsentSelection(t *testing.T) {
	t.Parallel()

	client, _, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, detectResponse(`[{"language":"und","isReliable":false,"confidence":0}]`))
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		detected, err := client.DetectLanguage(ctx, "???", "")
		if err != nil {
			t.Fatalf("detect failed: %v", err)
		}
		if detected != nil {
			t.Fatalf("zero confidence must select nothing, got %+v", detected)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("absent selection must still be served from cache, upstream calls: %d", got)
	}
}

func TestDetectLanguageWithoutToken(t *testing.T) {
	t.Parallel()

	store := newStubCounterStore()
	stats := NewStatsCounter(store, zerolog.Nop())

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := NewClient("", stats, zerolog.Nop(), Options{BaseURL: srv.URL})
	_, err := client.DetectLanguage(context.Background(), "hello", "")
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("missing credentials must fail before any network call")
	}
}

func TestDetectLanguageTransportFailureIsAbsent(t *testing.T) {
	t.Parallel()

	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	ctx := context.Background()
	detected, err := client.DetectLanguage(ctx, "hello there", "")
	if err != nil {
		t.Fatalf("transport failures must not be errors, got %v", err)
	}
	if detected != nil {
		t.Fatalf("expected absent result, got %+v", detected)
	}
	counters, err := client.Stats().Global(ctx)
	if err != nil {
		t.Fatalf("counter read failed: %v", err)
	}
	if counters.Detections != 0 {
		t.Fatalf("failed call must not count a detection, got %d", counters.Detections)
	}
}

func TestTranslateTextSurfacesEmbeddedAPIError(t *testing.T) {
	t.Parallel()

	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":{"code":403,"message":"Daily Limit Exceeded"}}`)
	})

	_, err := client.TranslateText(context.Background(), "en", "hola", "es", "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an APIError, got %v", err)
	}
	if apiErr.Message != "Daily Limit Exceeded" || apiErr.Code != 403 {
		t.Fatalf("unexpected API error: %+v", apiErr)
	}
}

func TestTranslateTextRequestShape(t *testing.T) {
	t.Parallel()

	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/language/translate/v2" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("source"); got != "ru" {
			t.Errorf("source must have -Latn stripped, got %q", got)
		}
		if got := q.Get("format"); got != "text" {
			t.Errorf("format must be text, got %q", got)
		}
		if got := q.Get("target"); got != "en" {
			t.Errorf("unexpected target %q", got)
		}
		fmt.Fprint(w, `{"data":{"translations":[{"translatedText":"hello","detectedSourceLanguage":"ru"}]}}`)
	})

	ctx := context.Background()
	translated, err := client.TranslateText(ctx, "en", "привет", "ru-Latn", "g1")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if translated == nil || translated.Text != "hello" {
		t.Fatalf("unexpected translation: %+v", translated)
	}

	counters, err := client.Stats().Guild(ctx, "g1")
	if err != nil {
		t.Fatalf("counter read failed: %v", err)
	}
	if counters.Requests != 1 {
		t.Fatalf("expected one counted request, got %d", counters.Requests)
	}
	if counters.Characters != 6 {
		t.Fatalf("expected 6 counted characters, got %d", counters.Characters)
	}
}

func TestTranslateTextCacheSkipsNetworkAndCounters(t *testing.T) {
	t.Parallel()

	client, _, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"translations":[{"translatedText":"bonjour"}]}}`)
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		translated, err := client.TranslateText(ctx, "fr", "hello", "en", "")
		if err != nil {
			t.Fatalf("translate failed: %v", err)
		}
		if translated.Text != "bonjour" {
			t.Fatalf("unexpected translation %q", translated.Text)
		}
	}

	if got := hits.Load(); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}
	counters, err := client.Stats().Global(ctx)
	if err != nil {
		t.Fatalf("counter read failed: %v", err)
	}
	if counters.Requests != 1 {
		t.Fatalf("cache hits must not count requests, got %d", counters.Requests)
	}
}

func TestClientBreakerShortCircuitsAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	client, _, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if detected, err := client.DetectLanguage(ctx, "unreachable", ""); err != nil || detected != nil {
			t.Fatalf("failure %d should be absent, got %+v err=%v", i, detected, err)
		}
	}
	if got := hits.Load(); got != 5 {
		t.Fatalf("expected 5 upstream attempts before the breaker opens, got %d", got)
	}

	// Breaker is open now: the next call must not reach the server and
	// still reads as an absent result rather than an error.
	detected, err := client.DetectLanguage(ctx, "unreachable", "")
	if err != nil || detected != nil {
		t.Fatalf("open breaker should be absent, got %+v err=%v", detected, err)
	}
	if got := hits.Load(); got != 5 {
		t.Fatalf("open breaker must not call upstream, got %d attempts", got)
	}
}
