package gemini

import (
	"context"

	"google.golang.org/genai"
)

// generator is the part of the Gemini SDK the assistant uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// SDKClient wraps the official SDK client to satisfy generator.
type SDKClient struct {
	client *genai.Client
}

// NewSDKClient creates a Gemini API client for apiKey.
func NewSDKClient(ctx context.Context, apiKey string) (*SDKClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &SDKClient{client: client}, nil
}

// GenerateContent calls the SDK's GenerateContent method.
func (c *SDKClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, model, contents, config)
}
