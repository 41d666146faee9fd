package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// PerplexityConfig configures the AI enrichment client. The Perplexity
// API speaks the OpenAI chat-completions protocol, so the stock client
// works with a swapped base URL.
type PerplexityConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"-"` // from env, never config files
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// DefaultPerplexityConfig returns production enrichment settings.
func DefaultPerplexityConfig() PerplexityConfig {
	return PerplexityConfig{
		BaseURL:     "https://api.perplexity.ai",
		Model:       "sonar",
		MaxTokens:   500,
		Temperature: 0.2,
	}
}

// PerplexityProvider implements EnrichmentProvider over the Perplexity
// chat-completions API.
type PerplexityProvider struct {
	client *openai.Client
	cfg    PerplexityConfig
}

// NewPerplexity builds the enrichment client.
func NewPerplexity(cfg PerplexityConfig) *PerplexityProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultPerplexityConfig().BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultPerplexityConfig().Model
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultPerplexityConfig().MaxTokens
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	cc.BaseURL = cfg.BaseURL
	return &PerplexityProvider{client: openai.NewClientWithConfig(cc), cfg: cfg}
}

const scorePromptTemplate = `Analyze the cryptocurrency %s (%s). Return ONLY valid JSON with this exact structure, every value a number from 0 to 100:

{
  "narrativeMomentum": {"mentionsTrend7d": 0, "mentionsTrend30d": 0, "catalystStrength": 0},
  "socialHype": {"socialVolume": 0, "engagementRate": 0, "communityScore": 0, "viralPotential": 0},
  "networkUsage": {"networkUtilization": 0, "developerActivity": 0, "addressGrowth": 0},
  "fundamentalStrength": {"liquidityScore": 0, "holderDistribution": 0, "supplyHealth": 0}
}`

// ScoreToken asks the model for structured sub-metrics and falls back
// through the extraction chain when the response is unstructured. The
// caller owns the timeout; any error means fallback scoring for this
// token only.
func (p *PerplexityProvider) ScoreToken(ctx context.Context, symbol, name string) (*TokenScores, error) {
	prompt := fmt.Sprintf(scorePromptTemplate, name, symbol)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("enrichment request for %s: %w", symbol, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("enrichment response for %s: empty content", symbol)
	}

	content := resp.Choices[0].Message.Content
	return ParseScores(symbol, content)
}

// ParseScores turns a model response into TokenScores. Strategy order:
// structured JSON first, then the regex/sentiment extraction chain with
// the single score spread across all four groups.
func ParseScores(symbol, content string) (*TokenScores, error) {
	if scores, ok := parseStructured(symbol, content); ok {
		return scores, nil
	}

	score, method, ok := ExtractScore(content)
	if !ok {
		return nil, fmt.Errorf("enrichment response for %s: %w", symbol, ErrNoScore)
	}
	log.Debug().Str("symbol", symbol).Str("method", method).Float64("score", score).
		Msg("Enrichment response was unstructured, extracted single score")

	flat := SubMetrics{"score": score}
	return &TokenScores{
		Symbol:      symbol,
		Narrative:   flat,
		Social:      flat,
		Network:     flat,
		Fundamental: flat,
	}, nil
}

func parseStructured(symbol, content string) (*TokenScores, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var payload struct {
		Narrative   SubMetrics `json:"narrativeMomentum"`
		Social      SubMetrics `json:"socialHype"`
		Network     SubMetrics `json:"networkUsage"`
		Fundamental SubMetrics `json:"fundamentalStrength"`
		Fallback    bool       `json:"fallback"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return nil, false
	}
	if len(payload.Narrative) == 0 && len(payload.Social) == 0 &&
		len(payload.Network) == 0 && len(payload.Fundamental) == 0 {
		return nil, false
	}

	return &TokenScores{
		Symbol:      symbol,
		Narrative:   payload.Narrative,
		Social:      payload.Social,
		Network:     payload.Network,
		Fundamental: payload.Fundamental,
		Fallback:    payload.Fallback,
	}, true
}
