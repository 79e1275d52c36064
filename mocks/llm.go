// Package mocks provides test doubles for the gollm client so that
// normalization and completion pipelines can be exercised without any
// network traffic.
package mocks

import (
	"context"

	"github.com/teilomillet/gollm"
	"github.com/teilomillet/gollm/llm"
	"github.com/teilomillet/gollm/utils"
)

// MockLLM implements gollm.LLM for tests. Behavior is configured through
// GenerateFunc; every other method returns a sensible default.
//
//	mockLLM := mocks.NewMockLLM(func(ctx context.Context, prompt *gollm.Prompt) (string, error) {
//	    return "mocked response", nil
//	})
type MockLLM struct {
	GenerateFunc func(context.Context, *gollm.Prompt) (string, error)
	DebugFunc    func(string, ...interface{})
	Provider     string
	Model        string

	// Endpoint and Options record what SetEndpoint, SetOllamaEndpoint
	// and SetOption received, so tests can assert settings reach the
	// client.
	Endpoint string
	Options  map[string]interface{}
}

// NewMockLLM creates a MockLLM with an optional generate function. If
// generateFunc is nil, Generate returns an empty string with no error.
func NewMockLLM(generateFunc func(context.Context, *gollm.Prompt) (string, error)) *MockLLM {
	return &MockLLM{
		GenerateFunc: generateFunc,
		Provider:     "mock",
		Model:        "mock-model",
	}
}

// NewMockLLMWithConfig creates a MockLLM reporting specific provider and
// model names.
func NewMockLLMWithConfig(provider, model string, generateFunc func(context.Context, *gollm.Prompt) (string, error)) *MockLLM {
	return &MockLLM{
		GenerateFunc: generateFunc,
		Provider:     provider,
		Model:        model,
	}
}

// Generate delegates to GenerateFunc when set. The opts parameter is
// ignored in the mock.
func (m *MockLLM) Generate(ctx context.Context, prompt *gollm.Prompt, opts ...llm.GenerateOption) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "", nil
}

// Debug captures debug messages if DebugFunc is provided.
func (m *MockLLM) Debug(format string, args ...interface{}) {
	if m.DebugFunc != nil {
		m.DebugFunc(format, args...)
	}
}

// GetPromptJSONSchema returns a minimal valid JSON schema.
func (m *MockLLM) GetPromptJSONSchema(opts ...gollm.SchemaOption) ([]byte, error) {
	return []byte(`{}`), nil
}

// GetProvider returns the mock provider name.
func (m *MockLLM) GetProvider() string {
	return m.Provider
}

// GetModel returns the mock model name.
func (m *MockLLM) GetModel() string {
	return m.Model
}

// GetLogLevel returns a fixed default level.
func (m *MockLLM) GetLogLevel() gollm.LogLevel {
	return gollm.LogLevelInfo
}

// UpdateLogLevel is a no-op in the mock.
func (m *MockLLM) UpdateLogLevel(level gollm.LogLevel) {
}

// SetLogLevel is a no-op in the mock.
func (m *MockLLM) SetLogLevel(level gollm.LogLevel) {
}

// GetLogger returns nil; the mock does not log.
func (m *MockLLM) GetLogger() utils.Logger {
	return nil
}

// NewPrompt creates a single user-role prompt.
func (m *MockLLM) NewPrompt(text string) *gollm.Prompt {
	return &gollm.Prompt{
		Messages: []gollm.PromptMessage{
			{Role: "user", Content: text},
		},
	}
}

// SetEndpoint records the endpoint.
func (m *MockLLM) SetEndpoint(endpoint string) {
	m.Endpoint = endpoint
}

// SetOption records the option.
func (m *MockLLM) SetOption(key string, value interface{}) {
	if m.Options == nil {
		m.Options = make(map[string]interface{})
	}
	m.Options[key] = value
}

// SupportsJSONSchema reports schema support so structured paths are
// testable.
func (m *MockLLM) SupportsJSONSchema() bool {
	return true
}

// GenerateWithSchema delegates to GenerateFunc; the schema is not
// validated by the mock.
func (m *MockLLM) GenerateWithSchema(ctx context.Context, prompt *gollm.Prompt, schema interface{}, opts ...llm.GenerateOption) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "", nil
}

// SetOllamaEndpoint records the endpoint.
func (m *MockLLM) SetOllamaEndpoint(endpoint string) error {
	m.Endpoint = endpoint
	return nil
}

// SetSystemPrompt is a no-op in the mock.
func (m *MockLLM) SetSystemPrompt(prompt string, cacheType llm.CacheType) {
}
