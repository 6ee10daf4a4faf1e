package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
)

const openAIReply = `{
  "id": "chatcmpl-1",
  "model": "gpt-4o-2024-08-06",
  "choices": [
    {"index": 0, "message": {"role": "assistant", "content": "first"}, "finish_reason": "stop"},
    {"index": 1, "message": {"role": "assistant", "content": "second"}, "finish_reason": "stop"}
  ],
  "usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func TestNewOpenAI(t *testing.T) {
	_, err := NewOpenAI(Config{})
	require.Error(t, err)
	assert.Equal(t, crewerrors.ErrCodeConfigMissingKey, crewerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "Documentation: "+KeysURL(NameOpenAI))

	p, err := NewOpenAI(Config{APIKey: "k", BaseURL: "http://example.test/v1/"})
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/v1", p.baseURL)
	assert.Equal(t, DefaultTimeout, p.client.Timeout)

	p, err = NewOpenAI(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIBaseURL, p.baseURL)
	assert.Equal(t, NameOpenAI, p.Name())
}

func TestOpenAIComplete(t *testing.T) {
	var body map[string]any
	var headers http.Header
	server := newTestServer(t, capture(t, http.StatusOK, openAIReply, &body, &headers))

	p, err := NewOpenAI(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), NewUserRequest("gpt-4o", "build an API", Float(0)))
	require.NoError(t, err)

	assert.Equal(t, "first", resp.Text())
	assert.Len(t, resp.Choices, 2)
	assert.Equal(t, "gpt-4o-2024-08-06", resp.Model)
	assert.Equal(t, 15, resp.Usage.TotalTokens)

	assert.Equal(t, "Bearer sk-test", headers.Get("Authorization"))
	assert.Contains(t, headers.Get("User-Agent"), "crewgen/")
	assert.Equal(t, "gpt-4o", body["model"])
	temp, present := body["temperature"]
	assert.True(t, present, "a zero temperature must still be sent")
	assert.Equal(t, float64(0), temp)

	msgs := body["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, map[string]any{"role": "user", "content": "build an API"}, msgs[0])
}

func TestOpenAIOmitsUnsetTemperature(t *testing.T) {
	var body map[string]any
	server := newTestServer(t, capture(t, http.StatusOK, openAIReply, &body, nil))

	p, err := NewOpenAI(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), NewUserRequest("gpt-5", "plan", nil))
	require.NoError(t, err)

	_, present := body["temperature"]
	assert.False(t, present)
	_, present = body["max_tokens"]
	assert.False(t, present)
}

func TestOpenAIErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		reply    string
		wantCode crewerrors.ErrorCode
		wantMsg  string
	}{
		{
			name:     "invalid key",
			status:   http.StatusUnauthorized,
			reply:    `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`,
			wantCode: crewerrors.ErrCodeProviderAuth,
			wantMsg:  "Incorrect API key provided",
		},
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			reply:    `{"error": {"message": "Rate limit reached", "type": "requests"}}`,
			wantCode: crewerrors.ErrCodeProviderAPI,
			wantMsg:  "Rate limit reached",
		},
		{
			name:     "plain text body",
			status:   http.StatusBadGateway,
			reply:    "upstream down",
			wantCode: crewerrors.ErrCodeProviderAPI,
			wantMsg:  "upstream down",
		},
		{
			name:     "no choices",
			status:   http.StatusOK,
			reply:    `{"model": "gpt-4o", "choices": []}`,
			wantCode: crewerrors.ErrCodeProviderNoChoice,
			wantMsg:  "no completion choices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, capture(t, tt.status, tt.reply, nil, nil))
			p, err := NewOpenAI(Config{APIKey: "k", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = p.Complete(context.Background(), NewUserRequest("gpt-4o", "x", nil))
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, crewerrors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)

			if tt.status != http.StatusOK {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.status, apiErr.StatusCode)
			}
		})
	}
}

func TestOpenAIHonoursContext(t *testing.T) {
	server := newTestServer(t, stall())
	p, err := NewOpenAI(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = p.Complete(ctx, NewUserRequest("gpt-4o", "x", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
