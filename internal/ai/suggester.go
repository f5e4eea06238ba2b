package ai

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Suggester generates PUC classification suggestions for an invoice payload.
// It satisfies the use-case service contract: failures are logged and
// absorbed, never returned, so the caller can fall back deterministically.
type Suggester struct {
	client *Client
	model  string
	log    zerolog.Logger
}

// NewSuggester wires a Suggester around an OpenAI-compatible client.
func NewSuggester(client *Client, model string, log zerolog.Logger) *Suggester {
	return &Suggester{client: client, model: model, log: log}
}

// GenerateSuggestions asks the model to classify the invoice lines against
// the tenant catalog. Returns nil when the service is unavailable or the
// reply cannot be interpreted; nil is the designed degradation signal.
func (s *Suggester) GenerateSuggestions(ctx context.Context, payload InvoicePayload, catalog []CatalogEntry) []RawSuggestion {
	if s.client == nil {
		s.log.Debug().Msg("ai suggester disabled, no client configured")
		return nil
	}

	prompt := buildUserPrompt(payload, catalog)
	if prompt == "" {
		s.log.Warn().Str("external_id", payload.ExternalID).Msg("invoice payload has no lines, skipping ai call")
		return nil
	}

	reply, err := s.client.ChatText(ctx, s.model, systemPromptClassifier, prompt)
	if err != nil {
		s.log.Warn().Err(err).Str("external_id", payload.ExternalID).Msg("ai completion failed")
		return nil
	}

	suggestions := parseReply(reply)
	if suggestions == nil {
		s.log.Warn().Str("external_id", payload.ExternalID).Msg("ai reply could not be interpreted")
	}
	return suggestions
}

// parseReply tries strict JSON first, then the pipe-separated line format
// some models fall back to ("codigo | razon | confianza").
func parseReply(reply string) []RawSuggestion {
	raw := ExtractJSON(reply)

	var items []RawSuggestion
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		return items
	}

	var fromText []RawSuggestion
	for _, line := range strings.Split(reply, "\n") {
		if !strings.Contains(line, "|") {
			continue
		}
		parts := strings.Split(strings.TrimLeft(strings.TrimSpace(line), "- "), "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if parts[0] == "" {
			continue
		}

		item := RawSuggestion{AccountCode: parts[0]}
		if len(parts) >= 2 && parts[1] != "" {
			item.Rationale = parts[1]
		}
		if len(parts) >= 3 {
			if conf, err := strconv.ParseFloat(parts[2], 64); err == nil {
				item.Confidence = conf
			}
		}
		fromText = append(fromText, item)
	}
	return fromText
}
