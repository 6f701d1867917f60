// Package ai wraps the OpenAI API for voice expense entry: Whisper
// transcription of voice notes and GPT extraction of structured expense
// data from the transcript. The whole package is optional; without an API
// key the bot degrades to "feature unavailable" messaging.
package ai

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	apperrors "buildflow/internal/errors"
	"buildflow/internal/logger"
)

// minConfidence is the parse confidence below which the expense is
// rejected and the user asked to repeat.
const minConfidence = 0.5

const parseSystemPrompt = "Ты помощник для парсинга расходов. Отвечай только валидным JSON."

const parsePromptTemplate = `Проанализируй следующий текст расхода и извлеки информацию о расходе.

Текст: %s

Вернись в формате JSON с полями:
- amount: число (сумма в BYN)
- category: "materials" (материалы), "labor" (работа) или "other" (прочее)
- description: строка (описание)
- confidence: число от 0 до 1 (уверенность в парсинге)

Если не получается распарсить, вернись с confidence: 0 и опиши проблему.

Только JSON, без дополнительного текста.`

// ParsedExpense is the structured result extracted from a transcript.
type ParsedExpense struct {
	Amount      decimal.Decimal
	Category    string
	Description string
	Confidence  float64
}

// Client calls the OpenAI API. A nil *Client is a valid "disabled" client
// whose methods return ErrVoiceUnavailable.
type Client struct {
	api *openai.Client
}

// NewClient returns a client, or nil when no API key is configured.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{api: openai.NewClient(apiKey)}
}

// Transcribe sends a voice note through Whisper and returns the Russian
// transcript.
func (c *Client) Transcribe(ctx context.Context, name string, audio io.Reader) (string, error) {
	if c == nil {
		return "", apperrors.ErrVoiceUnavailable
	}

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: name,
		Reader:   audio,
		Language: "ru",
	})
	if err != nil {
		logger.Get().Errorw("whisper transcription failed", "error", err)
		return "", apperrors.Wrap(apperrors.ErrVoiceUnavailable, err)
	}
	return resp.Text, nil
}

// ParseExpense extracts amount, category, description and confidence from
// a transcript. Low-confidence parses return ErrLowConfidence.
func (c *Client) ParseExpense(ctx context.Context, text string) (*ParsedExpense, error) {
	if c == nil {
		return nil, apperrors.ErrVoiceUnavailable
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: parseSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: strings.Replace(parsePromptTemplate, "%s", text, 1)},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		logger.Get().Errorw("expense parsing failed", "error", err)
		return nil, apperrors.Wrap(apperrors.ErrVoiceUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.ErrVoiceUnavailable
	}

	return DecodeExpense(resp.Choices[0].Message.Content)
}

// rawExpense mirrors the JSON contract the model is asked to follow.
type rawExpense struct {
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Confidence  float64     `json:"confidence"`
}

// DecodeExpense parses the model's JSON reply and applies the validation
// rules: known category, positive amount, confidence at least 0.5.
func DecodeExpense(reply string) (*ParsedExpense, error) {
	// Models occasionally wrap the JSON in a code fence.
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")

	var raw rawExpense
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &raw); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrLowConfidence, err)
	}

	if raw.Confidence < minConfidence {
		return nil, apperrors.ErrLowConfidence
	}

	switch raw.Category {
	case "materials", "labor", "other":
	default:
		return nil, apperrors.ErrLowConfidence
	}

	amount, err := decimal.NewFromString(raw.Amount.String())
	if err != nil || !amount.IsPositive() {
		return nil, apperrors.ErrLowConfidence
	}

	return &ParsedExpense{
		Amount:      amount,
		Category:    raw.Category,
		Description: raw.Description,
		Confidence:  raw.Confidence,
	}, nil
}
