package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"horse.fit/polly/internal/db"
)

type guildSettingsEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		Settings guildSettingsResponse `json:"settings"`
		Notices  []string              `json:"notices"`
		Text     string                `json:"text"`
	} `json:"data"`
}

type accessListEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		List    string           `json:"list"`
		Entries []db.AccessEntry `json:"entries"`
	} `json:"data"`
}

type cooldownEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		Cooldown cooldownResponse `json:"cooldown"`
		Notices  []string         `json:"notices"`
	} `json:"data"`
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func decodeFailFields(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var envelope struct {
		Status string            `json:"status"`
		Data   map[string]string `json:"data"`
	}
	decodeInto(t, rec, &envelope)
	if envelope.Status != "fail" {
		t.Fatalf("unexpected envelope status: %q", envelope.Status)
	}
	return envelope.Data
}

func TestHandleGetGuildSettingsCreatesDefaults(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeTranslator{}, newFakeSettingsStore())

	_, c, rec := newJSONContext(http.MethodGet, "/api/v1/guilds/g1/settings", "")
	c.SetParamNames("guild_id")
	c.SetParamValues("g1")

	if err := server.handleGetGuildSettings(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var envelope guildSettingsEnvelope
	decodeInto(t, rec, &envelope)
	settings := envelope.Data.Settings
	if settings.GuildID != "g1" {
		t.Fatalf("unexpected guild id: %q", settings.GuildID)
	}
	if settings.ReactionEnabled || settings.TextEnabled {
		t.Fatalf("fresh guild should have both toggles off: %+v", settings)
	}
	if settings.Allowlist == nil || settings.Blocklist == nil {
		t.Fatalf("access lists should decode as empty, not null: %+v", settings)
	}
	if !strings.HasPrefix(envelope.Data.Text, "### Server Settings:\n- Reaction Translations:  **False**\n- Flag Translations:  **False**\n") {
		t.Fatalf("unexpected summary text: %q", envelope.Data.Text)
	}
}

func TestHandleGetGuildSettingsRendersSummary(t *testing.T) {
	t.Parallel()

	store := newFakeSettingsStore()
	store.enableGuild("g1")
	store.rows["g1"] = store.withListColumn(store.rows["g1"], db.AccessBlock,
		json.RawMessage(`[{"kind":"channel","id":"ch9"},{"kind":"role","id":"r2"}]`))
	server := newTestServer(t, &fakeTranslator{}, store)

	_, c, rec := newJSONContext(http.MethodGet, "/api/v1/guilds/g1/settings", "")
	c.SetParamNames("guild_id")
	c.SetParamValues("g1")

	if err := server.handleGetGuildSettings(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var envelope guildSettingsEnvelope
	decodeInto(t, rec, &envelope)

	want := "### Server Settings:\n" +
		"- Reaction Translations:  **True**\n" +
		"- Flag Translations:  **True**\n" +
		"Blocklist:\n" +
		"- <#ch9>\n" +
		"- <@&r2>\n" +
		"### **Global Usage**:\n" +
		"- API Requests:  **0**\n" +
		"- Language Detect calls:  **0**\n" +
		"- Characters requested:  **0**\n" +
		"### **Guild g1's Usage**:\n" +
		"- API Requests:  **0**\n" +
		"- Language Detect calls:  **0**\n" +
		"- Characters requested:  **0**\n"
	if envelope.Data.Text != want {
		t.Fatalf("unexpected summary text:\n%s", envelope.Data.Text)
	}
}

func TestHandlePutGuildSettingsTogglesAndNotices(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeTranslator{}, newFakeSettingsStore())

	body := `{"reaction_enabled": true, "text_enabled": true}`
	_, c, rec := newJSONContext(http.MethodPut, "/api/v1/guilds/g1/settings", body)
	c.SetParamNames("guild_id")
	c.SetParamValues("g1")

	if err := server.handlePutGuildSettings(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var envelope guildSettingsEnvelope
	decodeInto(t, rec, &envelope)
	if !envelope.Data.Settings.ReactionEnabled || !envelope.Data.Settings.TextEnabled {
		t.Fatalf("toggles not persisted: %+v", envelope.Data.Settings)
	}
	if len(envelope.Data.Notices) != 2 {
		t.Fatalf("unexpected notices: %v", envelope.Data.Notices)
	}
	if envelope.Data.Notices[0] != "Reaction translations have been turned ✅ ON" {
		t.Fatalf("unexpected reaction notice: %q", envelope.Data.Notices[0])
	}
	if envelope.Data.Notices[1] != "Flag emoji translations have been turned ✅ ON" {
		t.Fatalf("unexpected text notice: %q", envelope.Data.Notices[1])
	}
}

func TestHandlePutGuildSettingsRejectsBadPayloads(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{name: "empty object", body: `{}`, field: "body"},
		{name: "unknown field", body: `{"colour": true}`, field: "colour"},
		{name: "non boolean toggle", body: `{"reaction_enabled": "yes"}`, field: "reaction_enabled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t, &fakeTranslator{}, newFakeSettingsStore())

			_, c, rec := newJSONContext(http.MethodPut, "/api/v1/guilds/g1/settings", tc.body)
			c.SetParamNames("guild_id")
			c.SetParamValues("g1")

			if err := server.handlePutGuildSettings(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
			}
			fields := decodeFailFields(t, rec)
			if fields[tc.field] == "" {
				t.Fatalf("expected a message for %q, got %v", tc.field, fields)
			}
		})
	}
}

func TestHandleAddAccessEntriesValidatesEntries(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeTranslator{}, newFakeSettingsStore())

	body := `{"entries": [{"kind": "potato", "id": ""}]}`
	_, c, rec := newJSONContext(http.MethodPost, "/api/v1/guilds/g1/allowlist", body)
	c.SetParamNames("guild_id")
	c.SetParamValues("g1")

	if err := server.handleAddAccessEntries(db.AccessAllow)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	fields := decodeFailFields(t, rec)
	if fields["entries[0].kind"] == "" {
		t.Fatalf("expected a kind error, got %v", fields)
	}
	if fields["entries[0].id"] == "" {
		t.Fatalf("expected an id error, got %v", fields)
	}
}

func TestAccessListAddAndClear(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeTranslator{}, newFakeSettingsStore())

	addBody := `{"entries": [{"kind": "channel", "id": "ch9"}, {"kind": "role", "id": "r2"}]}`
	_, c, rec := newJSONContext(http.MethodPost, "/api/v1/guilds/g1/blocklist", addBody)
	c.SetParamNames("guild_id")
	c.SetParamValues("g1")

	if err := server.handleAddAccessEntries(db.AccessBlock)(c); err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected add status: %d body=%s", rec.Code, rec.Body.String())
	}

	var envelope accessListEnvelope
	decodeInto(t, rec, &envelope)
	if envelope.Data.List != "blocklist" {
		t.Fatalf("unexpected list name: %q", envelope.Data.List)
	}
	if len(envelope.Data.Entries) != 2 {
		t.Fatalf("unexpected entries after add: %v", envelope.Data.Entries)
	}
	if envelope.Data.Entries[0].Kind != db.AccessKindChannel || envelope.Data.Entries[0].ID != "ch9" {
		t.Fatalf("unexpected first entry: %+v", envelope.Data.Entries[0])
	}

	_, c, rec = newJSONContext(http.MethodDelete, "/api/v1/guilds/g1/blocklist", `{"all": true}`)
	c.SetParamNames("guild_id")
	c.SetParamValues("g1")

	if err := server.handleRemoveAccessEntries(db.AccessBlock)(c); err != nil {
		t.Fatalf("remove returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected remove status: %d body=%s", rec.Code, rec.Body.String())
	}

	envelope = accessListEnvelope{}
	decodeInto(t, rec, &envelope)
	if len(envelope.Data.Entries) != 0 {
		t.Fatalf("expected an empty list after clear: %v", envelope.Data.Entries)
	}
}

func TestHandlePutCooldownSetsPolicyAndNotices(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeTranslator{}, newFakeSettingsStore())

	body := `{"timeout_seconds": 45, "multiple": true}`
	_, c, rec := newJSONContext(http.MethodPut, "/api/v1/cooldown", body)

	if err := server.handlePutCooldown(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var envelope cooldownEnvelope
	decodeInto(t, rec, &envelope)
	if envelope.Data.Cooldown.TimeoutSeconds != 45 {
		t.Fatalf("unexpected timeout: %+v", envelope.Data.Cooldown)
	}
	if !envelope.Data.Cooldown.Multiple {
		t.Fatalf("multiple not persisted: %+v", envelope.Data.Cooldown)
	}
	if len(envelope.Data.Notices) != 2 {
		t.Fatalf("unexpected notices: %v", envelope.Data.Notices)
	}
	if envelope.Data.Notices[0] != "Translation timeout set to 45s." {
		t.Fatalf("unexpected timeout notice: %q", envelope.Data.Notices[0])
	}
	if envelope.Data.Notices[1] != "Multiple translations have been turned ✅ ON" {
		t.Fatalf("unexpected multiple notice: %q", envelope.Data.Notices[1])
	}
}

func TestHandlePutCooldownRejectsNegativeTimeout(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeTranslator{}, newFakeSettingsStore())

	_, c, rec := newJSONContext(http.MethodPut, "/api/v1/cooldown", `{"timeout_seconds": -5}`)

	if err := server.handlePutCooldown(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	fields := decodeFailFields(t, rec)
	if fields["timeout_seconds"] == "" {
		t.Fatalf("expected a timeout error, got %v", fields)
	}
}

func TestHandleGetCooldownReportsDefaults(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeTranslator{}, newFakeSettingsStore())

	_, c, rec := newJSONContext(http.MethodGet, "/api/v1/cooldown", "")

	if err := server.handleGetCooldown(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var envelope cooldownEnvelope
	decodeInto(t, rec, &envelope)
	if envelope.Data.Cooldown.TimeoutSeconds != 0 || envelope.Data.Cooldown.Multiple {
		t.Fatalf("unexpected default policy: %+v", envelope.Data.Cooldown)
	}
	if envelope.Data.Cooldown.TrackedMessages != 0 {
		t.Fatalf("unexpected tracked count: %+v", envelope.Data.Cooldown)
	}
}
