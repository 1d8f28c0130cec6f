package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/polly/internal/lang"
	"horse.fit/polly/internal/langdetect"
	"horse.fit/polly/internal/metrics"
	"horse.fit/polly/internal/translation"
)

// Translator is the translation client surface the service drives. A
// nil result with a nil error means the API was unreachable.
type Translator interface {
	HasCredentials() bool
	DetectLanguage(ctx context.Context, text, guildID string) (*translation.DetectedLanguage, error)
	TranslateText(ctx context.Context, target, text, source, guildID string) (*translation.Translation, error)
}

// ReactionEvent is a reaction added to a guild message, as delivered by
// the host gateway. The actor fields describe the reacting member;
// EmojiCount is how many reactions with this emoji the message carries
// after the new one. MessageContent is the text to translate: for
// messages that carry embeds the host sends the first embed's
// description in place of the body.
type ReactionEvent struct {
	Actor
	MessageID      string `json:"message_id"`
	MessageContent string `json:"message_content"`
	AuthorDisplay  string `json:"author_display"`
	Emoji          string `json:"emoji"`
	EmojiCount     int    `json:"emoji_count"`
	CanPost        bool   `json:"can_post"`
	CanEmbed       bool   `json:"can_embed"`
}

// CommandEvent is an explicit translation request issued by a member.
// To is a free-form language query: a code, a name, a country, or a
// flag emoji.
type CommandEvent struct {
	Actor
	MessageID string `json:"message_id"`
	To        string `json:"to"`
	Text      string `json:"text"`
	CanEmbed  bool   `json:"can_embed"`
}

// MessageEvent is a posted guild message that may carry an inline flag
// emoji. The actor fields describe the author.
type MessageEvent struct {
	Actor
	MessageID     string `json:"message_id"`
	Content       string `json:"content"`
	AuthorDisplay string `json:"author_display"`
	CanPost       bool   `json:"can_post"`
	CanEmbed      bool   `json:"can_embed"`
}

type OutcomeStatus string

const (
	OutcomeTranslated OutcomeStatus = "translated"
	OutcomeSkipped    OutcomeStatus = "skipped"
	OutcomeNotice     OutcomeStatus = "notice"
)

// Outcome reports what an event produced. Translated outcomes carry the
// reply to post, notice outcomes carry a plain channel message for the
// requesting user, and skipped outcomes carry only the reason.
type Outcome struct {
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
	Reply  *Reply        `json:"reply,omitempty"`
	Notice string        `json:"notice,omitempty"`
}

const (
	skipUnsupportedEmoji   = "unsupported_emoji"
	skipNoFlagEmoji        = "no_flag_emoji"
	skipMissingCredentials = "missing_credentials"
	skipOutsideGuild       = "outside_guild"
	skipAlreadyTranslated  = "already_translated"
	skipCannotPost         = "cannot_post"
	skipReactionsDisabled  = "reactions_disabled"
	skipTextDisabled       = "text_disabled"
	skipBotMember          = "bot_member"
	skipAccessDenied       = "access_denied"
	skipCooldown           = "cooldown"
	skipDuplicateReaction  = "duplicate_reaction"
	skipEmptyMessage       = "empty_message"
	skipUndetected         = "undetected_language"
	skipSameLanguage       = "same_language"
	skipSameLanguageLocal  = "same_language_local"
	skipAPIError           = "api_error"
	skipUnavailable        = "translation_unavailable"
)

func skipped(reason string) Outcome {
	return Outcome{Status: OutcomeSkipped, Reason: reason}
}

func noticed(reason, text string) Outcome {
	return Outcome{Status: OutcomeNotice, Reason: reason, Notice: text}
}

func replied(reply Reply) Outcome {
	return Outcome{Status: OutcomeTranslated, Reply: &reply}
}

// Service implements the translation flows behind the event endpoints
// and the administrative operations behind the settings endpoints.
type Service struct {
	translator Translator
	store      SettingsStore
	settings   *SettingsCache
	cooldowns  *CooldownTracker
	stats      *translation.StatsCounter
	logger     zerolog.Logger
}

func NewService(translator Translator, store SettingsStore, stats *translation.StatsCounter, logger zerolog.Logger) (*Service, error) {
	settings, err := NewSettingsCache(store)
	if err != nil {
		return nil, err
	}
	return &Service{
		translator: translator,
		store:      store,
		settings:   settings,
		cooldowns:  NewCooldownTracker(),
		stats:      stats,
		logger:     logger.With().Str("component", "bot").Logger(),
	}, nil
}

// Cooldowns exposes the trigger tracker for maintenance and status
// reporting.
func (s *Service) Cooldowns() *CooldownTracker {
	return s.cooldowns
}

// Stats exposes the usage counter for reporting endpoints.
func (s *Service) Stats() *translation.StatsCounter {
	return s.stats
}

// HandleReaction runs the flag-reaction flow. Events that do not end in
// a posted translation report a skip reason; an error means storage
// failed and the event may be retried.
func (s *Service) HandleReaction(ctx context.Context, event ReactionEvent) (Outcome, error) {
	outcome, err := s.handleReaction(ctx, event)
	return s.observe("reaction", outcome, err)
}

func (s *Service) handleReaction(ctx context.Context, event ReactionEvent) (Outcome, error) {
	flag, ok := lang.FlagByEmoji(event.Emoji)
	if !ok {
		return skipped(skipUnsupportedEmoji), nil
	}
	if !s.translator.HasCredentials() {
		return skipped(skipMissingCredentials), nil
	}
	if event.GuildID == "" {
		return skipped(skipOutsideGuild), nil
	}
	if s.cooldowns.IsTranslated(event.MessageID) {
		return skipped(skipAlreadyTranslated), nil
	}
	if !event.CanPost {
		return skipped(skipCannotPost), nil
	}

	settings, err := s.settings.Guild(ctx, event.GuildID)
	if err != nil {
		return Outcome{}, err
	}
	if !settings.ReactionEnabled {
		return skipped(skipReactionsDisabled), nil
	}
	if event.IsBot {
		return skipped(skipBotMember), nil
	}
	if !accessAllowed(settings.Allowlist, settings.Blocklist, event.Actor) {
		return skipped(skipAccessDenied), nil
	}

	policy, err := s.settings.CooldownPolicy(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if !s.cooldowns.Register(event.MessageID, event.Emoji, policy) {
		s.logger.Debug().
			Str("guild_id", event.GuildID).
			Str("message_id", event.MessageID).
			Str("emoji", event.Emoji).
			Msg("reaction trigger rejected by cooldown")
		return skipped(skipCooldown), nil
	}
	if event.EmojiCount > 1 {
		return skipped(skipDuplicateReaction), nil
	}

	return s.translateForFlag(ctx, flagRequest{
		guildID:       event.GuildID,
		messageID:     event.MessageID,
		text:          event.MessageContent,
		target:        flag.Code,
		authorDisplay: event.AuthorDisplay,
		requesterID:   event.MemberID,
		canEmbed:      event.CanEmbed,
	}), nil
}

// HandleMessage runs the inline-flag flow for a posted message: a flag
// emoji inside the text asks for the whole message in that language.
func (s *Service) HandleMessage(ctx context.Context, event MessageEvent) (Outcome, error) {
	outcome, err := s.handleMessage(ctx, event)
	return s.observe("message", outcome, err)
}

func (s *Service) handleMessage(ctx context.Context, event MessageEvent) (Outcome, error) {
	flag, ok := lang.FindFlagEmoji(event.Content)
	if !ok {
		return skipped(skipNoFlagEmoji), nil
	}
	if !s.translator.HasCredentials() {
		return skipped(skipMissingCredentials), nil
	}
	if event.GuildID == "" {
		return skipped(skipOutsideGuild), nil
	}
	if s.cooldowns.IsTranslated(event.MessageID) {
		return skipped(skipAlreadyTranslated), nil
	}
	if !event.CanPost {
		return skipped(skipCannotPost), nil
	}

	settings, err := s.settings.Guild(ctx, event.GuildID)
	if err != nil {
		return Outcome{}, err
	}
	if !settings.TextEnabled {
		return skipped(skipTextDisabled), nil
	}
	if event.IsBot {
		return skipped(skipBotMember), nil
	}
	if !accessAllowed(settings.Allowlist, settings.Blocklist, event.Actor) {
		return skipped(skipAccessDenied), nil
	}

	// Cheap local guess before spending an API call: when the text
	// already looks like the flag's language there is nothing to do.
	if guess := langdetect.Guess(event.Content); guess != "" && guess == lang.Primary(flag.Code) {
		return skipped(skipSameLanguageLocal), nil
	}

	policy, err := s.settings.CooldownPolicy(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if !s.cooldowns.Register(event.MessageID, flag.Emoji, policy) {
		s.logger.Debug().
			Str("guild_id", event.GuildID).
			Str("message_id", event.MessageID).
			Str("emoji", flag.Emoji).
			Msg("inline flag rejected by cooldown")
		return skipped(skipCooldown), nil
	}

	return s.translateForFlag(ctx, flagRequest{
		guildID:       event.GuildID,
		messageID:     event.MessageID,
		text:          event.Content,
		target:        flag.Code,
		authorDisplay: event.AuthorDisplay,
		requesterID:   event.MemberID,
		canEmbed:      event.CanEmbed,
	}), nil
}

// HandleCommand runs the explicit translate command. Unlike the
// reaction flows, failures here answer the requesting user instead of
// skipping silently.
func (s *Service) HandleCommand(ctx context.Context, event CommandEvent) (Outcome, error) {
	outcome, err := s.handleCommand(ctx, event)
	return s.observe("command", outcome, err)
}

func (s *Service) handleCommand(ctx context.Context, event CommandEvent) (Outcome, error) {
	target := lang.Resolve(event.To)
	if target == "" {
		target = "en"
	}
	if !s.translator.HasCredentials() {
		return noticed(skipMissingCredentials, "The bot owner needs to set an api key first!"), nil
	}

	detected, err := s.translator.DetectLanguage(ctx, event.Text, event.GuildID)
	if err != nil {
		var apiErr *translation.APIError
		if errors.As(err, &apiErr) {
			return noticed(skipAPIError, apiErr.Message), nil
		}
		return Outcome{}, err
	}
	fromLang := "auto"
	if detected != nil {
		fromLang = detected.Language
	}
	if fromLang == target {
		text := fmt.Sprintf("⚠️ I cannot translate `%s` to `%s`! Same language!?", lang.Name(fromLang), lang.Name(target))
		return noticed(skipSameLanguage, text), nil
	}

	translated, err := s.translator.TranslateText(ctx, target, event.Text, fromLang, event.GuildID)
	if err != nil {
		var apiErr *translation.APIError
		if errors.As(err, &apiErr) {
			return noticed(skipAPIError, apiErr.Message), nil
		}
		return Outcome{}, err
	}
	if translated == nil {
		return noticed(skipUnavailable, "Google said there is nothing to be translated /shrug"), nil
	}

	reply := buildReply("", memberMention(event.MemberID), fromLang, target, translated.Text, event.MessageID)
	// The command answers in the requester's own channel, so the plain
	// fallback is just the translated text without an author line.
	reply.PlainText = translated.Text
	if !event.CanEmbed {
		reply.Rich = nil
	}
	return replied(reply), nil
}

type flagRequest struct {
	guildID       string
	messageID     string
	text          string
	target        string
	authorDisplay string
	requesterID   string
	canEmbed      bool
}

// translateForFlag is the shared tail of the reaction and inline-flag
// flows: detect, compare, translate, and format. All failures skip
// silently, matching the unprompted nature of these flows.
func (s *Service) translateForFlag(ctx context.Context, req flagRequest) Outcome {
	if strings.TrimSpace(req.text) == "" {
		return skipped(skipEmptyMessage)
	}

	detected, err := s.translator.DetectLanguage(ctx, req.text, req.guildID)
	if err != nil {
		return skipped(skipAPIError)
	}
	if detected == nil {
		return skipped(skipUndetected)
	}
	if detected.Language == req.target {
		return skipped(skipSameLanguage)
	}

	translated, err := s.translator.TranslateText(ctx, req.target, req.text, detected.Language, req.guildID)
	if err != nil {
		return skipped(skipAPIError)
	}
	if translated == nil {
		return skipped(skipUnavailable)
	}

	reply := buildReply(req.authorDisplay, memberMention(req.requesterID), detected.Language, req.target, translated.Text, req.messageID)
	if !req.canEmbed {
		reply.Rich = nil
	}
	if !s.cooldowns.AllowsMultiple(req.messageID) {
		s.cooldowns.MarkTranslated(req.messageID)
	}

	s.logger.Info().
		Str("guild_id", req.guildID).
		Str("message_id", req.messageID).
		Str("from", detected.Language).
		Str("to", req.target).
		Msg("translated message")
	return replied(reply)
}

// observe records the event outcome metric and logs infrastructure
// failures before they surface as API errors.
func (s *Service) observe(kind string, outcome Outcome, err error) (Outcome, error) {
	if err != nil {
		metrics.EventsTotal.WithLabelValues(kind, "error").Inc()
		s.logger.Error().Err(err).Str("event", kind).Msg("event handling failed")
		return Outcome{}, err
	}
	label := string(outcome.Status)
	if outcome.Reason != "" {
		label = outcome.Reason
	}
	metrics.EventsTotal.WithLabelValues(kind, label).Inc()
	return outcome, nil
}
