package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"horse.fit/polly/internal/db"
)

// GuildSettings returns the stored settings for a guild, creating the
// default row on first contact. Reads go to storage rather than the
// cache so administrators always see the persisted state.
func (s *Service) GuildSettings(ctx context.Context, guildID string) (Settings, error) {
	row, err := s.store.EnsureGuildSettings(ctx, guildID)
	if err != nil {
		return Settings{}, err
	}
	return decodeSettings(row)
}

// SetReactionEnabled switches flag-reaction handling for a guild and
// returns the confirmation line for the requesting user.
func (s *Service) SetReactionEnabled(ctx context.Context, guildID string, enabled bool) (string, error) {
	if err := s.store.SetGuildReactionEnabled(ctx, guildID, enabled); err != nil {
		return "", err
	}
	s.settings.Invalidate(guildID)
	return fmt.Sprintf("Reaction translations have been turned %s", toggleVerb(enabled)), nil
}

// SetTextEnabled switches inline flag-emoji handling for a guild.
func (s *Service) SetTextEnabled(ctx context.Context, guildID string, enabled bool) (string, error) {
	if err := s.store.SetGuildTextEnabled(ctx, guildID, enabled); err != nil {
		return "", err
	}
	s.settings.Invalidate(guildID)
	return fmt.Sprintf("Flag emoji translations have been turned %s", toggleVerb(enabled)), nil
}

// AddAccessEntries appends entries to one of a guild's access lists.
func (s *Service) AddAccessEntries(ctx context.Context, guildID string, list db.AccessList, entries []db.AccessEntry) error {
	if err := s.store.AddGuildAccessEntries(ctx, guildID, list, entries); err != nil {
		return err
	}
	s.settings.Invalidate(guildID)
	return nil
}

// RemoveAccessEntries removes entries from one of a guild's access
// lists. Entries not present are ignored.
func (s *Service) RemoveAccessEntries(ctx context.Context, guildID string, list db.AccessList, entries []db.AccessEntry) error {
	if err := s.store.RemoveGuildAccessEntries(ctx, guildID, list, entries); err != nil {
		return err
	}
	s.settings.Invalidate(guildID)
	return nil
}

// ClearAccessList empties one of a guild's access lists.
func (s *Service) ClearAccessList(ctx context.Context, guildID string, list db.AccessList) error {
	if err := s.store.ClearGuildAccessList(ctx, guildID, list); err != nil {
		return err
	}
	s.settings.Invalidate(guildID)
	return nil
}

// CooldownConfig reports the current global trigger policy.
func (s *Service) CooldownConfig(ctx context.Context) (CooldownPolicy, error) {
	return s.settings.CooldownPolicy(ctx)
}

// SetCooldownTimeout changes how long repeat triggers wait per message.
func (s *Service) SetCooldownTimeout(ctx context.Context, timeout time.Duration) (string, error) {
	seconds := int(timeout / time.Second)
	if err := s.store.SetGlobalCooldownTimeout(ctx, seconds); err != nil {
		return "", err
	}
	s.settings.InvalidateCooldown()
	return fmt.Sprintf("Translation timeout set to %ds.", seconds), nil
}

// SetCooldownMultiple switches whether one message may be translated
// into several languages.
func (s *Service) SetCooldownMultiple(ctx context.Context, multiple bool) (string, error) {
	if err := s.store.SetGlobalCooldownMultiple(ctx, multiple); err != nil {
		return "", err
	}
	s.settings.InvalidateCooldown()
	return fmt.Sprintf("Multiple translations have been turned %s", toggleVerb(multiple)), nil
}

// SettingsSummary renders a guild's configuration as the text block the
// host posts for a show-settings command: toggle lines, access lists,
// then the usage counters.
func (s *Service) SettingsSummary(ctx context.Context, guildID string) (string, error) {
	settings, err := s.GuildSettings(ctx, guildID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("### Server Settings:\n")
	fmt.Fprintf(&b, "- Reaction Translations:  **%s**\n", summaryBool(settings.ReactionEnabled))
	fmt.Fprintf(&b, "- Flag Translations:  **%s**\n", summaryBool(settings.TextEnabled))
	writeAccessBlock(&b, "Allowlist", settings.Allowlist)
	writeAccessBlock(&b, "Blocklist", settings.Blocklist)

	usage, err := s.stats.Text(ctx, guildID)
	if err != nil {
		return "", err
	}
	b.WriteString(usage)
	return b.String(), nil
}

func writeAccessBlock(b *strings.Builder, label string, entries []db.AccessEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, entry := range entries {
		fmt.Fprintf(b, "- %s\n", entryMention(entry))
	}
}

// entryMention renders an access entry in the host platform's mention
// syntax so posted summaries resolve to live names.
func entryMention(entry db.AccessEntry) string {
	switch entry.Kind {
	case db.AccessKindChannel:
		return fmt.Sprintf("<#%s>", entry.ID)
	case db.AccessKindRole:
		return fmt.Sprintf("<@&%s>", entry.ID)
	case db.AccessKindMember:
		return fmt.Sprintf("<@%s>", entry.ID)
	}
	return entry.ID
}

func summaryBool(on bool) string {
	if on {
		return "True"
	}
	return "False"
}

func toggleVerb(on bool) string {
	if on {
		return "✅ ON"
	}
	return "❌ OFF"
}
