package client

import (
	"context"
	"fmt"

	"github.com/goaltrack/backend/internal/config"
	"google.golang.org/genai"
)

type SuggestClient struct {
	client *genai.Client
	model  string
}

func NewSuggestClient(cfg config.SuggestConfig) (*SuggestClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing AI_API_KEY")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, err
	}
	return &SuggestClient{client: client, model: cfg.Model}, nil
}

// GenerateText sends a single prompt and returns the model's text reply.
func (c *SuggestClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	res, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", fmt.Errorf("empty generation result")
	}
	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("empty generation result")
	}
	return text, nil
}
