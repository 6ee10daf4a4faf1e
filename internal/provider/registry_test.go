package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
)

func TestRegistryNew(t *testing.T) {
	script := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(script, []byte("default: ok\n"), 0o644))

	tests := []struct {
		name     string
		cfg      Config
		wantName string
		wantCode crewerrors.ErrorCode
	}{
		{name: "openai", cfg: Config{Name: NameOpenAI, APIKey: "k"}, wantName: NameOpenAI},
		{name: "anthropic", cfg: Config{Name: NameAnthropic, APIKey: "k"}, wantName: NameAnthropic},
		{name: "scripted", cfg: Config{Name: NameScripted, ScriptPath: script}, wantName: NameScripted},
		{name: "openai without key", cfg: Config{Name: NameOpenAI}, wantCode: crewerrors.ErrCodeConfigMissingKey},
		{name: "scripted without file", cfg: Config{Name: NameScripted}, wantCode: crewerrors.ErrCodeProviderConfig},
		{name: "unknown", cfg: Config{Name: "mystery"}, wantCode: crewerrors.ErrCodeProviderNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.cfg)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Nil(t, client)
				assert.Equal(t, tt.wantCode, crewerrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, client.Name())
		})
	}
}

type echoClient struct{}

func (echoClient) Name() string { return "echo" }

func (echoClient) Complete(_ context.Context, req *Request) (*Response, error) {
	return &Response{Choices: []Choice{{Text: req.Messages[0].Content}}}, nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("echo", func(Config) (CompletionClient, error) { return echoClient{}, nil }))
	assert.Error(t, r.Register("echo", nil))
	assert.Equal(t, []string{"anthropic", "echo", "openai", "scripted"}, r.Names())

	client, err := r.New(Config{Name: "echo"})
	require.NoError(t, err)
	resp, err := client.Complete(context.Background(), NewUserRequest("m", "hi", nil))
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Text())
}

func TestKeysURL(t *testing.T) {
	assert.Equal(t, "https://platform.openai.com/api-keys", KeysURL(NameOpenAI))
	assert.Equal(t, "https://console.anthropic.com/settings/keys", KeysURL(NameAnthropic))
	assert.Empty(t, KeysURL(NameScripted))
	assert.Empty(t, KeysURL("mystery"))
}
