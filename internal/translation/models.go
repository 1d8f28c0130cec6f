package translation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DetectedLanguage is one detection candidate returned by the API.
type DetectedLanguage struct {
	Language   string
	Reliable   bool
	Confidence float64
}

// Translation is the translated text together with what the API reported
// about the source.
type Translation struct {
	DetectedSourceLanguage string
	Model                  string
	Text                   string
}

type detectCandidate struct {
	Language   string  `json:"language"`
	IsReliable bool    `json:"isReliable"`
	Confidence float64 `json:"confidence"`
}

type detectPayload struct {
	Data *struct {
		Detections [][]detectCandidate `json:"detections"`
	} `json:"data"`
}

type translateRow struct {
	DetectedSourceLanguage string  `json:"detectedSourceLanguage"`
	Model                  string  `json:"model"`
	TranslatedText         *string `json:"translatedText"`
}

type translatePayload struct {
	Data *struct {
		Translations []translateRow `json:"translations"`
	} `json:"data"`
}

type errorPayload struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// embeddedError extracts the error object the API embeds in otherwise
// successful responses. Returns nil when the body carries no error.
func embeddedError(body []byte) *APIError {
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	if payload.Error == nil {
		return nil
	}
	message := strings.TrimSpace(payload.Error.Message)
	if message == "" {
		message = "the translation API reported an unspecified error"
	}
	return &APIError{Code: payload.Error.Code, Message: message}
}

// parseDetections decodes a detect response. The wire shape is a list of
// candidate lists; the first entry of each inner list is one candidate.
func parseDetections(body []byte) ([]DetectedLanguage, error) {
	var payload detectPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode detect payload: %w", err)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("detect payload missing data object")
	}

	candidates := make([]DetectedLanguage, 0, len(payload.Data.Detections))
	for _, group := range payload.Data.Detections {
		if len(group) == 0 {
			continue
		}
		first := group[0]
		if strings.TrimSpace(first.Language) == "" {
			return nil, fmt.Errorf("detect candidate missing language")
		}
		candidates = append(candidates, DetectedLanguage{
			Language:   first.Language,
			Reliable:   first.IsReliable,
			Confidence: first.Confidence,
		})
	}
	return candidates, nil
}

// bestDetection picks the candidate with the strictly highest confidence;
// ties keep the first one seen. A set whose confidences are all zero
// selects nothing.
func bestDetection(candidates []DetectedLanguage) *DetectedLanguage {
	var best *DetectedLanguage
	conf := 0.0
	for i := range candidates {
		if candidates[i].Confidence > conf {
			best = &candidates[i]
			conf = candidates[i].Confidence
		}
	}
	return best
}

// parseTranslation decodes a translate response and validates the fields
// the rest of the service depends on.
func parseTranslation(body []byte) (*Translation, error) {
	var payload translatePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode translate payload: %w", err)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("translate payload missing data object")
	}
	if len(payload.Data.Translations) == 0 {
		return nil, fmt.Errorf("translate payload has no translations")
	}

	row := payload.Data.Translations[0]
	if row.TranslatedText == nil {
		return nil, fmt.Errorf("translate payload missing translatedText")
	}
	return &Translation{
		DetectedSourceLanguage: row.DetectedSourceLanguage,
		Model:                  row.Model,
		Text:                   *row.TranslatedText,
	}, nil
}
