package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"horse.fit/polly/internal/bot"
)

// eventResponse is the tagged outcome returned for every event route.
// Skips are successes; the host decides what, if anything, to do with
// the reason.
type eventResponse struct {
	Outcome   string           `json:"outcome"`
	Reason    string           `json:"reason,omitempty"`
	Message   *bot.RichMessage `json:"message,omitempty"`
	Plain     string           `json:"plain,omitempty"`
	ReplyToID string           `json:"reply_to_id,omitempty"`
	Notice    string           `json:"notice,omitempty"`
}

func buildEventResponse(outcome bot.Outcome) eventResponse {
	resp := eventResponse{
		Outcome: string(outcome.Status),
		Reason:  outcome.Reason,
		Notice:  outcome.Notice,
	}
	if outcome.Reply != nil {
		resp.Message = outcome.Reply.Rich
		resp.Plain = outcome.Reply.PlainText
		resp.ReplyToID = outcome.Reply.ReplyToID
	}
	return resp
}

func eventSuccess(c echo.Context, outcome bot.Outcome) error {
	resp := buildEventResponse(outcome)
	if outcome.Notice != "" {
		return c.JSON(http.StatusOK, jsendResponse{
			Status:  "success",
			Data:    resp,
			Message: outcome.Notice,
		})
	}
	return success(c, resp)
}

func (s *Server) handleReactionEvent(c echo.Context) error {
	var event bot.ReactionEvent
	if err := decodeEvent(c, s.schemas.reaction, &event); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	outcome, err := s.service.HandleReaction(c.Request().Context(), event)
	if err != nil {
		s.logger.Error().Err(err).Str("message_id", event.MessageID).Msg("reaction event failed")
		return internalError(c, "Failed to handle event")
	}
	return eventSuccess(c, outcome)
}

func (s *Server) handleCommandEvent(c echo.Context) error {
	var event bot.CommandEvent
	if err := decodeEvent(c, s.schemas.command, &event); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	outcome, err := s.service.HandleCommand(c.Request().Context(), event)
	if err != nil {
		s.logger.Error().Err(err).Str("member_id", event.MemberID).Msg("command event failed")
		return internalError(c, "Failed to handle event")
	}
	return eventSuccess(c, outcome)
}

func (s *Server) handleMessageEvent(c echo.Context) error {
	var event bot.MessageEvent
	if err := decodeEvent(c, s.schemas.message, &event); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	outcome, err := s.service.HandleMessage(c.Request().Context(), event)
	if err != nil {
		s.logger.Error().Err(err).Str("message_id", event.MessageID).Msg("message event failed")
		return internalError(c, "Failed to handle event")
	}
	return eventSuccess(c, outcome)
}
