// Package preview generates short catalog previews for live-fetched documents
// with an LLM. Strictly cosmetic: previews never influence search, ranking or
// the quality gate, and every failure degrades to the plain first-paragraph
// preview.
package preview

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"

	"github.com/kodhane/mevra/internal/model"
)

// inputRuneLimit caps how much document text goes into the prompt.
const inputRuneLimit = 6000

// Summarizer produces one-paragraph document previews.
type Summarizer struct {
	client    *openai.Client
	modelName string
}

// New creates a summarizer from config. Returns (nil, nil) when no provider is
// configured; a nil *Summarizer is a valid "disabled" value.
func New(cfg model.PreviewConfig) (*Summarizer, error) {
	if cfg.Provider == "" {
		return nil, nil
	}
	if cfg.Provider != "openai" {
		return nil, fmt.Errorf("unsupported preview provider: %s", cfg.Provider)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("preview provider %s requires an api key", cfg.Provider)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	return &Summarizer{
		client:    openai.NewClientWithConfig(clientConfig),
		modelName: modelName,
	}, nil
}

// Summarize returns a 2-3 sentence preview of the document text.
func (s *Summarizer) Summarize(ctx context.Context, title, text string) (string, error) {
	if s == nil {
		return "", nil
	}

	text = truncateRunes(strings.TrimSpace(text), inputRuneLimit)
	if text == "" {
		return "", nil
	}

	req := openai.ChatCompletionRequest{
		Model: s.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "Sen Türk hukuk metinlerini özetleyen bir asistansın. Yalnızca verilen metne dayan; metinde olmayan hiçbir bilgi ekleme.",
			},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Belge başlığı: %s\n\nAşağıdaki metni 2-3 cümlede, belgenin konusunu ve kapsamını belirterek özetle:\n\n%s",
					title, text),
			},
		},
		MaxTokens:   200,
		Temperature: 0.3,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("preview completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("preview completion: empty response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
