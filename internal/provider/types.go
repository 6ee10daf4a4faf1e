package provider

import "time"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Request is a single completion call.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`

	// Temperature is omitted from the wire request when nil so the service
	// default applies. A non-nil zero is sent as 0.
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens of 0 means the provider default
	MaxTokens int `json:"max_tokens,omitempty"`

	// Metadata is not sent to the service. The scripted provider keys on "role".
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewUserRequest builds the common single-user-message request.
func NewUserRequest(model, prompt string, temperature *float64) *Request {
	return &Request{
		Model:       model,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		Temperature: temperature,
	}
}

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response holds the candidates returned for a Request.
type Response struct {
	Choices  []Choice      `json:"choices"`
	Model    string        `json:"model"`
	Usage    Usage         `json:"usage"`
	Latency  time.Duration `json:"latency"`
	Provider string        `json:"provider"`
}

// Choice is one candidate completion.
type Choice struct {
	Index        int    `json:"index"`
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// Usage counts tokens.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Text returns the first candidate verbatim, or "" when there is none.
func (r *Response) Text() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Text
}

// Float returns a pointer to f, for Request.Temperature.
func Float(f float64) *float64 {
	return &f
}
