package lang

import "testing"

func TestNormalizeTag(t *testing.T) {
	t.Parallel()

	if got := NormalizeTag(" EN_us "); got != "en-us" {
		t.Fatalf("unexpected normalized tag: %q", got)
	}
	if got := NormalizeTag("zh-Hans"); got != "zh-hans" {
		t.Fatalf("unexpected normalized tag: %q", got)
	}
	if got := NormalizeTag("en--US"); got != "en-us" {
		t.Fatalf("unexpected collapsed tag: %q", got)
	}
	if got := NormalizeTag("en_123"); got != "" {
		t.Fatalf("expected invalid tag to normalize to empty string, got %q", got)
	}
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	if got := NormalizeCode(" EN-us "); got != "en" {
		t.Fatalf("unexpected normalized code: %q", got)
	}
	if got := NormalizeCode("ZH-cn"); got != "zh-cn" {
		t.Fatalf("expected regional Chinese tag to survive, got %q", got)
	}
	if got := NormalizeCode("pt-BR"); got != "pt" {
		t.Fatalf("unexpected normalized code: %q", got)
	}
	if got := NormalizeCode(" "); got != "" {
		t.Fatalf("expected empty code for blank input, got %q", got)
	}
}

func TestPrimary(t *testing.T) {
	t.Parallel()

	if got := Primary("zh-CN"); got != "zh" {
		t.Fatalf("unexpected primary subtag: %q", got)
	}
	if got := Primary("en"); got != "en" {
		t.Fatalf("unexpected primary subtag: %q", got)
	}
}

func TestStripLatn(t *testing.T) {
	t.Parallel()

	if got := StripLatn("ru-Latn"); got != "ru" {
		t.Fatalf("unexpected stripped code: %q", got)
	}
	if got := StripLatn("ja"); got != "ja" {
		t.Fatalf("expected plain code to pass through, got %q", got)
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	if got := Name("es"); got != "Spanish" {
		t.Fatalf("unexpected language name: %q", got)
	}
	if got := Name("IW"); got != "Hebrew" {
		t.Fatalf("unexpected legacy Hebrew name: %q", got)
	}
	if got := Name("zz"); got != "ZZ" {
		t.Fatalf("expected unknown code uppercased, got %q", got)
	}
}
