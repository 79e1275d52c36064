package client

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teilomillet/gollm"
	"go.uber.org/zap"

	"github.com/nanograph-ai/nanograph/config"
	"github.com/nanograph-ai/nanograph/mocks"
)

func TestClientOptionsIncludeAPIKey(t *testing.T) {
	base := clientOptions(config.ClientConfig{Provider: "openai", Model: "gpt-4o"})
	assert.Len(t, base, 2)

	withKey := clientOptions(config.ClientConfig{Provider: "openai", Model: "gpt-4o", APIKey: "sk-test"})
	assert.Len(t, withKey, 3)
}

func TestApplyEndpoint(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ClientConfig
		want string
	}{
		{
			name: "generic provider",
			cfg:  config.ClientConfig{Provider: "openai", Endpoint: "https://proxy.internal/v1"},
			want: "https://proxy.internal/v1",
		},
		{
			name: "ollama",
			cfg:  config.ClientConfig{Provider: "ollama", Endpoint: "http://localhost:11434"},
			want: "http://localhost:11434",
		},
		{
			name: "no endpoint configured",
			cfg:  config.ClientConfig{Provider: "openai"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := mocks.NewMockLLM(nil)
			require.NoError(t, applyEndpoint(mock, tt.cfg))
			assert.Equal(t, tt.want, mock.Endpoint)
		})
	}
}

func TestSetDefaultOptionsReachClient(t *testing.T) {
	mock := mocks.NewMockLLM(nil)
	r := NewResource(mock, ModeToolCall, zap.NewNop(), nil)

	r.SetDefaultOptions(map[string]interface{}{"temperature": 0.7, "max_tokens": 256})

	assert.Equal(t, 0.7, mock.Options["temperature"])
	assert.Equal(t, 256, mock.Options["max_tokens"])
}

func TestGenerateWithOptionsOverridesAndRestores(t *testing.T) {
	var during interface{}
	mock := mocks.NewMockLLM(nil)
	mock.GenerateFunc = func(ctx context.Context, prompt *gollm.Prompt) (string, error) {
		during = mock.Options["temperature"]
		return "ok", nil
	}

	r := NewResource(mock, ModeToolCall, zap.NewNop(), nil)
	r.SetDefaultOptions(map[string]interface{}{"temperature": 0.7})

	_, err := r.GenerateWithOptions(context.Background(), &gollm.Prompt{}, map[string]interface{}{"temperature": 0.2})
	require.NoError(t, err)

	assert.Equal(t, 0.2, during)
	assert.Equal(t, 0.7, mock.Options["temperature"])
}

func TestInstallIsOnceOnly(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	r := NewResource(mocks.NewMockLLM(nil), ModeToolCall, zap.NewNop(), nil)
	require.NoError(t, Install(r))

	// the shared handle is a singleton: a second install is rejected
	other := NewResource(mocks.NewMockLLM(nil), ModeToolCall, zap.NewNop(), nil)
	require.Error(t, Install(other))
}

func TestResetAllowsReinstall(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first := NewResource(mocks.NewMockLLM(nil), ModeToolCall, zap.NewNop(), nil)
	require.NoError(t, Install(first))

	Reset()

	second := NewResource(mocks.NewMockLLM(nil), ModeToolCall, zap.NewNop(), nil)
	require.NoError(t, Install(second))
}

func TestGenerateDelegatesAndCounts(t *testing.T) {
	var gotPrompt *gollm.Prompt
	mock := mocks.NewMockLLM(func(ctx context.Context, prompt *gollm.Prompt) (string, error) {
		gotPrompt = prompt
		return "pong", nil
	})

	r := NewResource(mock, ModeToolCall, zap.NewNop(), nil)

	prompt := &gollm.Prompt{Messages: []gollm.PromptMessage{{Role: "user", Content: "ping"}}}
	got, err := r.Generate(context.Background(), prompt)
	require.NoError(t, err)
	assert.Equal(t, "pong", got)
	assert.Same(t, prompt, gotPrompt)
}

func TestGenerateWrapsErrors(t *testing.T) {
	mock := mocks.NewMockLLM(func(ctx context.Context, prompt *gollm.Prompt) (string, error) {
		return "", context.DeadlineExceeded
	})

	r := NewResource(mock, ModeToolCall, zap.NewNop(), nil)

	_, err := r.Generate(context.Background(), &gollm.Prompt{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStructuredCachedPerMode(t *testing.T) {
	r := NewResource(mocks.NewMockLLM(nil), ModeToolCall, zap.NewNop(), nil)

	s1, err := r.Structured(ModeJSON)
	require.NoError(t, err)
	s2, err := r.Structured(ModeJSON)
	require.NoError(t, err)
	assert.Same(t, s1, s2)

	other, err := r.Structured(ModeMarkdownJSON)
	require.NoError(t, err)
	assert.NotSame(t, s1, other)
}

func TestStructuredRejectsUnknownMode(t *testing.T) {
	r := NewResource(mocks.NewMockLLM(nil), ModeToolCall, zap.NewNop(), nil)

	_, err := r.Structured(Mode("freeform"))
	require.Error(t, err)
}

func TestStructuredConcurrentFirstUse(t *testing.T) {
	r := NewResource(mocks.NewMockLLM(nil), ModeToolCall, zap.NewNop(), nil)

	const n = 16
	results := make([]*Structured, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			s, err := r.Structured(ModeJSONSchema)
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestStructuredGenerateCleansMarkdownJSON(t *testing.T) {
	mock := mocks.NewMockLLM(func(ctx context.Context, prompt *gollm.Prompt) (string, error) {
		return "```json\n{\"ok\": true}\n```", nil
	})

	r := NewResource(mock, ModeMarkdownJSON, zap.NewNop(), nil)
	s, err := r.Structured(ModeMarkdownJSON)
	require.NoError(t, err)

	got, err := s.Generate(context.Background(), &gollm.Prompt{}, map[string]interface{}{})
	require.NoError(t, err)
	assert.NotContains(t, got, "```")
}
