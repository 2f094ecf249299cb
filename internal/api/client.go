package api

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	apierrors "github.com/diogo/netchat/internal/errors"
	"github.com/diogo/netchat/internal/models"
)

// Generator produces a reply for a request under a system instruction
type Generator interface {
	Generate(ctx context.Context, request []models.Turn, instruction string) (string, error)
	GetModel() models.Model
	Close() error
}

// GeminiClient talks to the Gemini API through the official SDK
type GeminiClient struct {
	client *genai.Client
	model  models.Model
	logger zerolog.Logger
	mu     sync.RWMutex
	closed bool
}

// ClientOption is a function that configures the client
type ClientOption func(*GeminiClient)

// WithModel sets the model used for generation
func WithModel(model models.Model) ClientOption {
	return func(c *GeminiClient) {
		c.model = model
	}
}

// WithLogger sets the logger for request diagnostics
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *GeminiClient) {
		c.logger = logger
	}
}

// NewClient creates a GeminiClient authenticated with apiKey
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apierrors.ErrMissingCredential
	}

	c := &GeminiClient{
		model:  models.DefaultModel,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client

	return c, nil
}

// Generate sends the request as chat history plus a final message and
// returns the text of the first candidate.
func (c *GeminiClient) Generate(ctx context.Context, request []models.Turn, instruction string) (string, error) {
	if len(request) == 0 {
		return "", apierrors.ErrEmptyRequest
	}

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return "", fmt.Errorf("client is closed")
	}
	gm := c.client.GenerativeModel(c.model.Name)
	c.mu.RUnlock()

	if instruction != "" {
		gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(instruction)}}
	}

	contents := toContents(request)
	last := contents[len(contents)-1]

	cs := gm.StartChat()
	cs.History = contents[:len(contents)-1]

	c.logger.Debug().
		Str("model", c.model.Name).
		Int("history", len(cs.History)).
		Str("role", last.Role).
		Msg("sending message")

	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", err
	}

	return extractText(resp)
}

// GetModel returns the configured model
func (c *GeminiClient) GetModel() models.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// Close releases the underlying SDK client
func (c *GeminiClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

// extractText concatenates the text parts of the first candidate
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", apierrors.ErrNoContent
	}

	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return "", apierrors.ErrNoContent
	}

	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	if text.Len() == 0 {
		return "", apierrors.ErrNoContent
	}
	return text.String(), nil
}

var _ Generator = (*GeminiClient)(nil)
