// Package narrate generates narration text for voice samples through the
// OpenAI chat completion API.
package narrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Classified generation failures callers can branch on.
var (
	ErrInvalidAPIKey = errors.New("invalid API key, check your API key in settings")
	ErrQuotaExceeded = errors.New("insufficient API credits, check your OpenAI account")
	ErrRateLimited   = errors.New("rate limit exceeded, wait a moment and try again")
)

const systemPrompt = "You are a helpful assistant that generates high-quality text for voice training purposes. " +
	"Generate only the requested text without any meta-commentary or explanations."

// Generator produces narration text through the OpenAI API.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a generator using the given credential and model
// (e.g. "gpt-4o-mini").
func NewGenerator(apiKey, model string) *Generator {
	return &Generator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// TestConnection makes a minimal API call to verify connectivity and the
// stored credential.
func (g *Generator) TestConnection(ctx context.Context) error {
	_, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: 5,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "Test"},
		},
	})
	if err != nil {
		return classifyError(err)
	}
	return nil
}

// Generate produces narration text for the request, cleaned of model
// boilerplate. It never panics on API failure; errors come back
// classified where the user can act on them.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	if err := ValidateVocabulary(req.Vocabulary); err != nil {
		return "", err
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.8,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req)},
		},
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no text generated")
	}

	return CleanGeneratedText(resp.Choices[0].Message.Content), nil
}

// Model returns the model name this generator calls.
func (g *Generator) Model() string {
	return g.model
}

// classifyError maps API failures onto user-actionable categories,
// falling back to a wrapped generic error.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := strings.ToLower(apiErr.Message + " " + apiErr.Type + " " + fmt.Sprint(apiErr.Code))
		switch {
		case strings.Contains(msg, "insufficient_quota"):
			return ErrQuotaExceeded
		case strings.Contains(msg, "invalid_api_key") || strings.Contains(msg, "incorrect api key"):
			return ErrInvalidAPIKey
		case strings.Contains(msg, "rate_limit"):
			return ErrRateLimited
		}
	}
	return fmt.Errorf("API error: %w", err)
}
