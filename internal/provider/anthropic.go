package provider

import (
	"context"
	"net/http"
	"strings"
	"time"

	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
)

const (
	// DefaultAnthropicBaseURL is the public Anthropic endpoint
	DefaultAnthropicBaseURL = "https://api.anthropic.com/v1"

	anthropicVersion = "2023-06-01"

	// The messages API rejects requests without max_tokens.
	defaultAnthropicMaxTokens = 4096
)

// Anthropic calls the messages API.
type Anthropic struct {
	apiKey    string
	baseURL   string
	maxTokens int
	client    *http.Client
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID         string             `json:"id"`
	Model      string             `json:"model"`
	Content    []anthropicContent `json:"content"`
	StopReason string             `json:"stop_reason"`
	Usage      anthropicUsage     `json:"usage"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// NewAnthropic creates an Anthropic client. An API key is required.
func NewAnthropic(cfg Config) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, crewerrors.NewConfigMissingKeyError(NameAnthropic, "ANTHROPIC_API_KEY").WithDocs(KeysURL(NameAnthropic))
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultAnthropicBaseURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	return &Anthropic{
		apiKey:    cfg.APIKey,
		baseURL:   baseURL,
		maxTokens: maxTokens,
		client:    newHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}, nil
}

// Name implements CompletionClient.
func (p *Anthropic) Name() string { return NameAnthropic }

// Complete implements CompletionClient. System messages are lifted into the
// request's system field; the text blocks of the reply are concatenated into
// a single choice.
func (p *Anthropic) Complete(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	antReq := &anthropicRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if antReq.MaxTokens == 0 {
		antReq.MaxTokens = p.maxTokens
	}

	var system []string
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		antReq.Messages = append(antReq.Messages, anthropicMessage{Role: m.Role, Content: m.Content})
	}
	antReq.System = strings.Join(system, "\n\n")

	var antResp anthropicResponse
	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	}
	if err := postJSON(ctx, p.client, NameAnthropic, p.baseURL+"/messages", headers, antReq, &antResp); err != nil {
		return nil, err
	}

	var text strings.Builder
	found := false
	for _, block := range antResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
			found = true
		}
	}
	if !found {
		return nil, noChoicesError(NameAnthropic)
	}

	return &Response{
		Choices:  []Choice{{Text: text.String(), FinishReason: antResp.StopReason}},
		Model:    antResp.Model,
		Latency:  time.Since(start),
		Provider: NameAnthropic,
		Usage: Usage{
			InputTokens:  antResp.Usage.InputTokens,
			OutputTokens: antResp.Usage.OutputTokens,
			TotalTokens:  antResp.Usage.InputTokens + antResp.Usage.OutputTokens,
		},
	}, nil
}
