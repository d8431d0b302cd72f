// Package classifier turns a voice transcript into a structured action
// intent using Claude. The model is asked for strict JSON; the parse side is
// defensive because models wrap output in prose more often than they should.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/pkg/metrics"
)

// Classifier maps transcripts to action intents via the Anthropic API.
type Classifier struct {
	client anthropic.Client
	model  string
	log    *slog.Logger
}

// New creates a Classifier. The client carries the API key.
func New(client anthropic.Client, model string, logger *slog.Logger) *Classifier {
	return &Classifier{
		client: client,
		model:  model,
		log:    logger.With("adapter", "classifier"),
	}
}

// Classify interprets one transcript in the context of the active sheet.
// sheetID may be empty when no spreadsheet is open yet.
func (c *Classifier) Classify(ctx context.Context, transcript, sheetID string) (domain.ActionIntent, error) {
	prompt := buildPrompt(transcript, sheetID)

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		metrics.ClassifierRequests.WithLabelValues("error").Inc()
		return domain.ActionIntent{}, fmt.Errorf("classifier: api call: %w", err)
	}

	if len(msg.Content) == 0 {
		metrics.ClassifierRequests.WithLabelValues("empty").Inc()
		return domain.ActionIntent{}, fmt.Errorf("classifier: empty response")
	}

	intent, err := parseIntent(msg.Content[0].Text)
	if err != nil {
		c.log.WarnContext(ctx, "classifier response unparseable",
			slog.String("error", err.Error()))
		metrics.ClassifierRequests.WithLabelValues("unparseable").Inc()
		return domain.ActionIntent{}, fmt.Errorf("classifier: %w", err)
	}

	c.log.DebugContext(ctx, "intent classified",
		slog.String("kind", intent.Kind.String()),
		slog.Float64("confidence", intent.Confidence),
	)
	metrics.ClassifierRequests.WithLabelValues("ok").Inc()

	return intent, nil
}

// buildPrompt creates the classification prompt for a single transcript.
func buildPrompt(transcript, sheetID string) string {
	sheetLine := "No spreadsheet is currently open."
	if sheetID != "" {
		sheetLine = fmt.Sprintf("The active spreadsheet is %q.", sheetID)
	}

	return fmt.Sprintf(`You are the intent classifier of a voice-controlled spreadsheet assistant.

%s

Transcript of the user's utterance:
%q

Map the utterance to exactly one action. Output ONLY a valid JSON object matching this exact schema:
{
  "kind": "<one of: create_spreadsheet|open_spreadsheet|update_cell|update_range|insert_row|insert_column|delete_row|delete_column|format_cells|apply_formula|sort_data|filter_data|create_chart|rename_sheet|merge_cells|freeze_rows|freeze_columns|add_data_validation|clear_range|append_transaction|create_tally_sheet>",
  "params": { "<kind-specific parameters, A1 notation for ranges>" },
  "confidence": <0.0-1.0, your certainty in this interpretation>,
  "confirmation_required": <true if the action destroys or overwrites data>,
  "clarification": "<a question for the user, only when you cannot commit to one interpretation>"
}

Rules:
- Ranges use A1 notation ("B4", "A1:C5"); rows and columns use 1-based indexes
- update_cell params: {"range": "<cell>", "value": "<value>"}
- update_range params: {"range": "<range>", "values": [["<row>"], ...]}
- insert_row/delete_row params: {"row_index": <n>, "count": <n>}
- insert_column/delete_column params: {"column_index": <n>, "count": <n>}
- append_transaction params: {"values": ["<cell>", ...]}
- apply_formula params: {"range": "<cell>", "formula": "<formula string>"}
- format_cells params: {"range": "<range>", "format": {"bold": <bool>, "italic": <bool>, "underline": <bool>, "font_size": <n>, "text_color": "<#rrggbb>", "background_color": "<#rrggbb>", "number_format": "<pattern>"}} with only the attributes to change
- sort_data params: {"range": "<range>", "column": <n>, "ascending": <bool>}
- clear_range/merge_cells params: {"range": "<range>"}
- Lower the confidence when the utterance is ambiguous, and fill "clarification"
- Output ONLY the JSON, no markdown, no explanations`, sheetLine, transcript)
}

// parseIntent extracts and validates the intent JSON from a model response.
func parseIntent(s string) (domain.ActionIntent, error) {
	jsonStr, err := extractJSON(s)
	if err != nil {
		return domain.ActionIntent{}, err
	}

	var intent domain.ActionIntent
	if err := json.Unmarshal([]byte(jsonStr), &intent); err != nil {
		return domain.ActionIntent{}, fmt.Errorf("decode intent json: %w", err)
	}

	if !intent.Kind.IsValid() {
		return domain.ActionIntent{}, fmt.Errorf("unknown action kind %q", intent.Kind)
	}
	if intent.Confidence < 0 || intent.Confidence > 1 {
		return domain.ActionIntent{}, fmt.Errorf("confidence %v out of range", intent.Confidence)
	}
	if intent.Params == nil {
		intent.Params = domain.ActionParams{}
	}

	return intent, nil
}

// extractJSON finds the first complete JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
