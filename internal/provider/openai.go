package provider

import (
	"context"
	"net/http"
	"strings"
	"time"

	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
)

// DefaultOpenAIBaseURL is the public OpenAI endpoint
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAI calls the chat completions API.
type OpenAI struct {
	apiKey    string
	baseURL   string
	maxTokens int
	client    *http.Client
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature *float64        `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []openAIChoice `json:"choices"`
	Usage   openAIUsage    `json:"usage"`
}

type openAIChoice struct {
	Index        int           `json:"index"`
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewOpenAI creates an OpenAI client. An API key is required.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, crewerrors.NewConfigMissingKeyError(NameOpenAI, "OPENAI_API_KEY").WithDocs(KeysURL(NameOpenAI))
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	return &OpenAI{
		apiKey:    cfg.APIKey,
		baseURL:   baseURL,
		maxTokens: cfg.MaxTokens,
		client:    newHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}, nil
}

// Name implements CompletionClient.
func (p *OpenAI) Name() string { return NameOpenAI }

// Complete implements CompletionClient.
func (p *OpenAI) Complete(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	oaiReq := &openAIRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if oaiReq.MaxTokens == 0 {
		oaiReq.MaxTokens = p.maxTokens
	}
	for _, m := range req.Messages {
		oaiReq.Messages = append(oaiReq.Messages, openAIMessage{Role: m.Role, Content: m.Content})
	}

	var oaiResp openAIResponse
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}
	if err := postJSON(ctx, p.client, NameOpenAI, p.baseURL+"/chat/completions", headers, oaiReq, &oaiResp); err != nil {
		return nil, err
	}
	if len(oaiResp.Choices) == 0 {
		return nil, noChoicesError(NameOpenAI)
	}

	resp := &Response{
		Model:    oaiResp.Model,
		Latency:  time.Since(start),
		Provider: NameOpenAI,
		Usage: Usage{
			InputTokens:  oaiResp.Usage.PromptTokens,
			OutputTokens: oaiResp.Usage.CompletionTokens,
			TotalTokens:  oaiResp.Usage.TotalTokens,
		},
	}
	for _, c := range oaiResp.Choices {
		resp.Choices = append(resp.Choices, Choice{
			Index:        c.Index,
			Text:         c.Message.Content,
			FinishReason: c.FinishReason,
		})
	}
	return resp, nil
}
