package estimate

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/housefit/apartment-management-backend/config"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"go.uber.org/zap"
)

// Generator produces a JSON text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Health(ctx context.Context) error
	Model() string
	BaseURL() string
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopK        int     `json:"top_k"`
	TopP        float64 `json:"top_p"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  string          `json:"format"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// OllamaClient talks to a local Ollama server.
type OllamaClient struct {
	http    *resty.Client
	baseURL string
	model   string
	log     *zap.Logger
}

func NewOllamaClient(cfg *config.Config, log *zap.Logger) *OllamaClient {
	client := resty.New().
		SetBaseURL(cfg.OllamaURL).
		SetTimeout(cfg.OllamaTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &OllamaClient{
		http:    client,
		baseURL: cfg.OllamaURL,
		model:   cfg.OllamaModel,
		log:     log,
	}
}

func (c *OllamaClient) Model() string   { return c.model }
func (c *OllamaClient) BaseURL() string { return c.baseURL }

// Generate returns the raw "response" text. Transport failures and non-2xx
// replies are DependencyUnavailable.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	c.log.Debug("🤖 Calling Ollama", zap.String("model", c.model), zap.Int("prompt_length", len(prompt)))

	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(generateRequest{
			Model:  c.model,
			Prompt: prompt,
			Stream: false,
			Format: "json",
			Options: generateOptions{
				Temperature: 0.5,
				TopK:        40,
				TopP:        0.9,
			},
		}).
		SetResult(&out).
		Post("/api/generate")
	if err != nil {
		c.log.Warn("⚠️ Ollama request failed", zap.String("url", c.baseURL), zap.Error(err))
		return "", apperrors.Unavailable("AI service unavailable", err)
	}
	if resp.IsError() {
		c.log.Warn("⚠️ Ollama returned an error status", zap.Int("status", resp.StatusCode()))
		return "", apperrors.Unavailable("AI service unavailable",
			fmt.Errorf("ollama returned status %d", resp.StatusCode()))
	}

	c.log.Debug("🤖 Ollama response received", zap.Int("length", len(out.Response)))
	return out.Response, nil
}

func (c *OllamaClient) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/api/tags")
	if err != nil {
		return apperrors.Unavailable("AI service unavailable", err)
	}
	if resp.IsError() {
		return apperrors.Unavailable("AI service unavailable",
			fmt.Errorf("ollama returned status %d", resp.StatusCode()))
	}
	return nil
}
