package httpapi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"horse.fit/polly/internal/bot"
	"horse.fit/polly/internal/db"
)

type guildSettingsResponse struct {
	GuildID         string           `json:"guild_id"`
	ReactionEnabled bool             `json:"reaction_enabled"`
	TextEnabled     bool             `json:"text_enabled"`
	Allowlist       []db.AccessEntry `json:"allowlist"`
	Blocklist       []db.AccessEntry `json:"blocklist"`
}

type cooldownResponse struct {
	TimeoutSeconds  int  `json:"timeout_seconds"`
	Multiple        bool `json:"multiple"`
	TrackedMessages int  `json:"tracked_messages"`
}

type accessListRequest struct {
	Entries []db.AccessEntry `json:"entries"`
	All     bool             `json:"all,omitempty"`
}

func buildGuildSettingsResponse(settings bot.Settings) guildSettingsResponse {
	return guildSettingsResponse{
		GuildID:         settings.GuildID,
		ReactionEnabled: settings.ReactionEnabled,
		TextEnabled:     settings.TextEnabled,
		Allowlist:       settings.Allowlist,
		Blocklist:       settings.Blocklist,
	}
}

func guildIDParam(c echo.Context) (string, bool) {
	guildID := strings.TrimSpace(c.Param("guild_id"))
	return guildID, guildID != ""
}

func (s *Server) handleGetGuildSettings(c echo.Context) error {
	guildID, ok := guildIDParam(c)
	if !ok {
		return failValidation(c, map[string]string{"guild_id": "is required"})
	}

	ctx := c.Request().Context()
	settings, err := s.service.GuildSettings(ctx, guildID)
	if err != nil {
		s.logger.Error().Err(err).Str("guild_id", guildID).Msg("load guild settings failed")
		return internalError(c, "Failed to load guild settings")
	}
	summary, err := s.service.SettingsSummary(ctx, guildID)
	if err != nil {
		s.logger.Error().Err(err).Str("guild_id", guildID).Msg("render settings summary failed")
		return internalError(c, "Failed to load guild settings")
	}
	return success(c, map[string]any{
		"settings": buildGuildSettingsResponse(settings),
		"text":     summary,
	})
}

func (s *Server) handlePutGuildSettings(c echo.Context) error {
	guildID, ok := guildIDParam(c)
	if !ok {
		return failValidation(c, map[string]string{"guild_id": "is required"})
	}

	var payload map[string]json.RawMessage
	if err := decodeJSONBody(c, &payload); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}
	if len(payload) == 0 {
		return failValidation(c, map[string]string{"body": "at least one settings field is required"})
	}
	for key := range payload {
		switch key {
		case "reaction_enabled", "text_enabled":
			// Supported.
		default:
			return failValidation(c, map[string]string{key: "is not a supported settings field"})
		}
	}

	ctx := c.Request().Context()
	notices := make([]string, 0, len(payload))

	if raw, exists := payload["reaction_enabled"]; exists {
		var enabled bool
		if err := json.Unmarshal(raw, &enabled); err != nil {
			return failValidation(c, map[string]string{"reaction_enabled": "must be a boolean"})
		}
		notice, err := s.service.SetReactionEnabled(ctx, guildID, enabled)
		if err != nil {
			s.logger.Error().Err(err).Str("guild_id", guildID).Msg("update reaction toggle failed")
			return internalError(c, "Failed to update guild settings")
		}
		notices = append(notices, notice)
	}

	if raw, exists := payload["text_enabled"]; exists {
		var enabled bool
		if err := json.Unmarshal(raw, &enabled); err != nil {
			return failValidation(c, map[string]string{"text_enabled": "must be a boolean"})
		}
		notice, err := s.service.SetTextEnabled(ctx, guildID, enabled)
		if err != nil {
			s.logger.Error().Err(err).Str("guild_id", guildID).Msg("update text toggle failed")
			return internalError(c, "Failed to update guild settings")
		}
		notices = append(notices, notice)
	}

	settings, err := s.service.GuildSettings(ctx, guildID)
	if err != nil {
		s.logger.Error().Err(err).Str("guild_id", guildID).Msg("reload guild settings failed")
		return internalError(c, "Failed to load guild settings")
	}
	return success(c, map[string]any{
		"settings": buildGuildSettingsResponse(settings),
		"notices":  notices,
	})
}

func (s *Server) handleGetAccessList(list db.AccessList) echo.HandlerFunc {
	return func(c echo.Context) error {
		guildID, ok := guildIDParam(c)
		if !ok {
			return failValidation(c, map[string]string{"guild_id": "is required"})
		}

		settings, err := s.service.GuildSettings(c.Request().Context(), guildID)
		if err != nil {
			s.logger.Error().Err(err).Str("guild_id", guildID).Msg("load access list failed")
			return internalError(c, "Failed to load access list")
		}
		return success(c, map[string]any{
			"list":    string(list),
			"entries": accessListEntries(settings, list),
		})
	}
}

func (s *Server) handleAddAccessEntries(list db.AccessList) echo.HandlerFunc {
	return func(c echo.Context) error {
		guildID, ok := guildIDParam(c)
		if !ok {
			return failValidation(c, map[string]string{"guild_id": "is required"})
		}

		var req accessListRequest
		if err := decodeJSONBody(c, &req); err != nil {
			return failValidation(c, map[string]string{"body": err.Error()})
		}
		if fieldErrors := validateAccessEntries(req.Entries); len(fieldErrors) > 0 {
			return failValidation(c, fieldErrors)
		}

		ctx := c.Request().Context()
		if err := s.service.AddAccessEntries(ctx, guildID, list, req.Entries); err != nil {
			s.logger.Error().Err(err).Str("guild_id", guildID).Msg("add access entries failed")
			return internalError(c, "Failed to update access list")
		}

		settings, err := s.service.GuildSettings(ctx, guildID)
		if err != nil {
			s.logger.Error().Err(err).Str("guild_id", guildID).Msg("reload access list failed")
			return internalError(c, "Failed to load access list")
		}
		return success(c, map[string]any{
			"list":    string(list),
			"entries": accessListEntries(settings, list),
		})
	}
}

func (s *Server) handleRemoveAccessEntries(list db.AccessList) echo.HandlerFunc {
	return func(c echo.Context) error {
		guildID, ok := guildIDParam(c)
		if !ok {
			return failValidation(c, map[string]string{"guild_id": "is required"})
		}

		var req accessListRequest
		if err := decodeJSONBody(c, &req); err != nil {
			return failValidation(c, map[string]string{"body": err.Error()})
		}

		ctx := c.Request().Context()
		if req.All {
			if err := s.service.ClearAccessList(ctx, guildID, list); err != nil {
				s.logger.Error().Err(err).Str("guild_id", guildID).Msg("clear access list failed")
				return internalError(c, "Failed to update access list")
			}
		} else {
			if fieldErrors := validateAccessEntries(req.Entries); len(fieldErrors) > 0 {
				return failValidation(c, fieldErrors)
			}
			if err := s.service.RemoveAccessEntries(ctx, guildID, list, req.Entries); err != nil {
				s.logger.Error().Err(err).Str("guild_id", guildID).Msg("remove access entries failed")
				return internalError(c, "Failed to update access list")
			}
		}

		settings, err := s.service.GuildSettings(ctx, guildID)
		if err != nil {
			s.logger.Error().Err(err).Str("guild_id", guildID).Msg("reload access list failed")
			return internalError(c, "Failed to load access list")
		}
		return success(c, map[string]any{
			"list":    string(list),
			"entries": accessListEntries(settings, list),
		})
	}
}

func (s *Server) handleGetCooldown(c echo.Context) error {
	policy, err := s.service.CooldownConfig(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load cooldown config failed")
		return internalError(c, "Failed to load cooldown settings")
	}
	return success(c, map[string]any{
		"cooldown": buildCooldownResponse(policy, s.service.Cooldowns().Tracked()),
	})
}

func (s *Server) handlePutCooldown(c echo.Context) error {
	var payload map[string]json.RawMessage
	if err := decodeJSONBody(c, &payload); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}
	if len(payload) == 0 {
		return failValidation(c, map[string]string{"body": "at least one cooldown field is required"})
	}
	for key := range payload {
		switch key {
		case "timeout_seconds", "multiple":
			// Supported.
		default:
			return failValidation(c, map[string]string{key: "is not a supported cooldown field"})
		}
	}

	ctx := c.Request().Context()
	notices := make([]string, 0, len(payload))

	if raw, exists := payload["timeout_seconds"]; exists {
		var seconds int
		if err := json.Unmarshal(raw, &seconds); err != nil {
			return failValidation(c, map[string]string{"timeout_seconds": "must be an integer"})
		}
		if seconds < 0 {
			return failValidation(c, map[string]string{"timeout_seconds": "must not be negative"})
		}
		notice, err := s.service.SetCooldownTimeout(ctx, time.Duration(seconds)*time.Second)
		if err != nil {
			s.logger.Error().Err(err).Msg("update cooldown timeout failed")
			return internalError(c, "Failed to update cooldown settings")
		}
		notices = append(notices, notice)
	}

	if raw, exists := payload["multiple"]; exists {
		var multiple bool
		if err := json.Unmarshal(raw, &multiple); err != nil {
			return failValidation(c, map[string]string{"multiple": "must be a boolean"})
		}
		notice, err := s.service.SetCooldownMultiple(ctx, multiple)
		if err != nil {
			s.logger.Error().Err(err).Msg("update cooldown multiple failed")
			return internalError(c, "Failed to update cooldown settings")
		}
		notices = append(notices, notice)
	}

	policy, err := s.service.CooldownConfig(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("reload cooldown config failed")
		return internalError(c, "Failed to load cooldown settings")
	}
	return success(c, map[string]any{
		"cooldown": buildCooldownResponse(policy, s.service.Cooldowns().Tracked()),
		"notices":  notices,
	})
}

func buildCooldownResponse(policy bot.CooldownPolicy, tracked int) cooldownResponse {
	return cooldownResponse{
		TimeoutSeconds:  int(policy.Timeout / time.Second),
		Multiple:        policy.Multiple,
		TrackedMessages: tracked,
	}
}

func accessListEntries(settings bot.Settings, list db.AccessList) []db.AccessEntry {
	if list == db.AccessAllow {
		return settings.Allowlist
	}
	return settings.Blocklist
}

func validateAccessEntries(entries []db.AccessEntry) map[string]string {
	if len(entries) == 0 {
		return map[string]string{"entries": "at least one entry is required"}
	}
	fieldErrors := make(map[string]string)
	for i, entry := range entries {
		if !db.ValidAccessKind(entry.Kind) {
			fieldErrors[fmt.Sprintf("entries[%d].kind", i)] = "must be channel, role, or member"
		}
		if strings.TrimSpace(entry.ID) == "" {
			fieldErrors[fmt.Sprintf("entries[%d].id", i)] = "is required"
		}
	}
	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}
