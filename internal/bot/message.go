package bot

import (
	"fmt"

	"horse.fit/polly/internal/lang"
)

const (
	embedColour   = 0x5191F5
	authorName    = "Google Translate"
	authorIconURL = "https://cdn.discordapp.com/emojis/914867101360087041.png"
)

// RichMessage is the embed-style payload the host gateway renders for a
// translation reply.
type RichMessage struct {
	Content     string `json:"content"`
	Description string `json:"description"`
	Colour      int    `json:"colour"`
	AuthorName  string `json:"author_name"`
	AuthorIcon  string `json:"author_icon_url"`
	FooterText  string `json:"footer_text"`
}

// Reply carries both renderings of a finished translation: the rich
// message and the plain fallback. Rich is nil when the target channel
// cannot take embeds, telling the sink to post the plain text.
type Reply struct {
	Rich      *RichMessage `json:"rich,omitempty"`
	PlainText string       `json:"plain_text"`
	ReplyToID string       `json:"reply_to_id,omitempty"`
}

// buildReply formats a translation for posting. Language codes are
// shown by name with any romanization suffix stripped, so the footer
// reads "Russian  →  English" even when detection reported "ru-Latn".
func buildReply(authorDisplay, requesterMention, fromLang, toLang, translated, replyToID string) Reply {
	from := lang.StripLatn(fromLang)
	to := lang.StripLatn(toLang)

	return Reply{
		Rich: &RichMessage{
			Content:     fmt.Sprintf("> Requested by: %s", requesterMention),
			Description: translated,
			Colour:      embedColour,
			AuthorName:  authorName,
			AuthorIcon:  authorIconURL,
			FooterText:  fmt.Sprintf("%s  →  %s", lang.Name(from), lang.Name(to)),
		},
		PlainText: fmt.Sprintf("%s:\n%s", authorDisplay, translated),
		ReplyToID: replyToID,
	}
}

func memberMention(memberID string) string {
	return "<@" + memberID + ">"
}
