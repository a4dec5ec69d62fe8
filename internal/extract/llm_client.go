package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"product-intel/internal/model"
	"product-intel/internal/schema"

	"github.com/rs/zerolog"
)

const defaultModel = "anthropic/claude-sonnet-4"

// LLMClient calls an OpenAI-compatible chat-completions endpoint to turn
// datasheet text into the per-field attribute structure. It implements
// Extractor.
type LLMClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewLLMClient creates an extraction client for the given endpoint.
func NewLLMClient(baseURL, apiKey, modelName string, timeout time.Duration, logger zerolog.Logger) *LLMClient {
	if modelName == "" {
		modelName = defaultModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &LLMClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      modelName,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "llm-extractor").Logger(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// wireResult is the JSON document the model is asked to produce.
type wireResult struct {
	SKU           *string              `json:"sku"`
	Name          *string              `json:"name"`
	ProductFamily *string              `json:"product_family"`
	Attributes    map[string]wireField `json:"attributes"`
	Warnings      []string             `json:"warnings"`
}

type wireField struct {
	Value      any    `json:"value"`
	Confidence string `json:"confidence"`
	SourceNote string `json:"source_note"`
}

// Extract sends the datasheet text plus the category schema to the model and
// parses its JSON answer. Any transport or parse failure comes back as one
// EXTRACTION_FAILED error; retrying is the caller's decision, not ours.
func (c *LLMClient) Extract(ctx context.Context, s *schema.AttributeSchema, document []byte) (*Result, error) {
	text, err := PDFText(document)
	if err != nil {
		return nil, model.NewExtractionFailedError(err.Error())
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(s, text)},
		},
		Temperature: 0,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, model.NewExtractionFailedError(fmt.Sprintf("failed to encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, model.NewExtractionFailedError(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Info().
		Str("model", c.model).
		Str("category_id", s.CategoryID).
		Int("document_chars", len(text)).
		Msg("calling extraction model")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewExtractionFailedError(fmt.Sprintf("extraction request failed: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewExtractionFailedError(fmt.Sprintf("failed to read extraction response: %v", err))
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", truncate(string(raw), 500)).
			Msg("extraction model returned an error")
		return nil, model.NewExtractionFailedError(fmt.Sprintf("extraction endpoint returned status %d", resp.StatusCode))
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, model.NewExtractionFailedError(fmt.Sprintf("malformed extraction response: %v", err))
	}
	if len(chat.Choices) == 0 {
		return nil, model.NewExtractionFailedError("extraction response contained no choices")
	}

	return parseModelOutput(chat.Choices[0].Message.Content)
}

// parseModelOutput decodes the model's JSON answer, tolerating markdown code
// fences around it.
func parseModelOutput(content string) (*Result, error) {
	content = strings.TrimSpace(content)
	if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			content = content[start : end+1]
		}
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return nil, model.NewExtractionFailedError(fmt.Sprintf("model output is not valid JSON: %v", err))
	}

	result := &Result{
		Attributes: make(map[string]Field, len(wire.Attributes)),
		Warnings:   wire.Warnings,
	}
	if wire.SKU != nil {
		result.SKU = strings.TrimSpace(*wire.SKU)
	}
	if wire.Name != nil {
		result.Name = strings.TrimSpace(*wire.Name)
	}
	if wire.ProductFamily != nil {
		result.ProductFamily = strings.TrimSpace(*wire.ProductFamily)
	}
	for key, f := range wire.Attributes {
		result.Attributes[key] = Field{
			Value:      f.Value,
			Confidence: Confidence(strings.ToLower(f.Confidence)),
			SourceNote: f.SourceNote,
		}
	}
	return result, nil
}

// buildPrompt describes the category schema and asks for the per-field
// confidence structure.
func buildPrompt(s *schema.AttributeSchema, text string) string {
	var sb strings.Builder
	sb.WriteString("You are extracting product specifications from a network equipment datasheet.\n")
	sb.WriteString("Extract values for these attributes of category \"")
	sb.WriteString(s.CategoryID)
	sb.WriteString("\":\n\n")

	for _, attr := range s.Attributes() {
		sb.WriteString("- ")
		sb.WriteString(attr.Key)
		sb.WriteString(" (")
		sb.WriteString(string(attr.Type))
		if len(attr.Enum) > 0 {
			sb.WriteString(", one of: ")
			sb.WriteString(strings.Join(attr.Enum, ", "))
		}
		sb.WriteString(")")
		if attr.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(attr.Description)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(`
Respond with only a JSON object, no prose:
{
  "sku": "product SKU or null",
  "name": "product name or null",
  "product_family": "product family or null",
  "attributes": {
    "<attribute_key>": {"value": <value or null>, "confidence": "high|medium|low", "source_note": "where you found it"}
  },
  "warnings": ["anything ambiguous or missing"]
}
Set value to null when the datasheet does not state the attribute. Do not guess.

Datasheet text:
---
`)
	sb.WriteString(text)
	sb.WriteString("\n---\n")
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
