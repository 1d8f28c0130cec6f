package translation

import "testing"

func TestParseTranslationRequiresTranslatedText(t *testing.T) {
	t.Parallel()

	_, err := parseTranslation([]byte(`{"data":{"translations":[{"model":"nmt"}]}}`))
	if err == nil {
		t.Fatalf("expected an error for a translation without translatedText")
	}

	translated, err := parseTranslation([]byte(`{"data":{"translations":[{"translatedText":""}]}}`))
	if err != nil {
		t.Fatalf("empty translatedText is still present: %v", err)
	}
	if translated.Text != "" {
		t.Fatalf("unexpected text %q", translated.Text)
	}
}

func TestParseTranslationRequiresDataObject(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{}`, `{"data":{"translations":[]}}`} {
		if _, err := parseTranslation([]byte(body)); err == nil {
			t.Fatalf("expected an error for body %s", body)
		}
	}
}

func TestParseDetectionsSkipsEmptyGroups(t *testing.T) {
	t.Parallel()

	candidates, err := parseDetections([]byte(
		`{"data":{"detections":[[],[{"language":"de","isReliable":true,"confidence":0.7}]]}}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Language != "de" {
		t.Fatalf("unexpected candidates: %+v", candidates)
	}
}

func TestEmbeddedErrorAbsent(t *testing.T) {
	t.Parallel()

	if apiErr := embeddedError([]byte(`{"data":{"detections":[]}}`)); apiErr != nil {
		t.Fatalf("expected no embedded error, got %+v", apiErr)
	}
	apiErr := embeddedError([]byte(`{"error":{"code":400,"message":"Bad Request"}}`))
	if apiErr == nil || apiErr.Code != 400 || apiErr.Message != "Bad Request" {
		t.Fatalf("unexpected embedded error: %+v", apiErr)
	}
}
