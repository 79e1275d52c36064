// Package completions builds and sends completion requests: it feeds raw
// caller input through the message normalizer, splices in context and
// system prompts, and hands the canonical threads to the shared client.
package completions

// Request is an incoming completion request. Messages accepts any of the
// shapes the normalizer understands (string, message, thread, batch);
// when it is nil, Input is used as a bare prompt string instead.
type Request struct {
	// ID identifies the request; generated when empty.
	ID string `json:"id,omitempty"`

	// Input is a bare prompt, used only when Messages is nil.
	Input string `json:"input,omitempty"`

	// Messages is raw message input in any accepted shape.
	Messages interface{} `json:"messages,omitempty"`

	// Context is additive: appended to the thread's last system message,
	// or inserted as a new one.
	Context string `json:"context,omitempty"`

	// SystemPrompt replaces the thread's system instruction outright.
	// Flat threads only; batch requests must leave it empty.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Options are optional generation parameters.
	Options *Options `json:"options,omitempty" validate:"omitempty"`
}

// Options are generation parameters forwarded with a request, layered
// over the configured client defaults. Zero values are treated as unset.
type Options struct {
	Temperature float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=1"`
	MaxTokens   int     `json:"max_tokens,omitempty" validate:"omitempty,gt=0"`
	TopP        float64 `json:"top_p,omitempty" validate:"omitempty,gt=0,lte=1"`
}

// Response is the processed output of a request. Content is set for flat
// requests; Contents carries one entry per thread for batch requests.
type Response struct {
	ID       string   `json:"id"`
	Content  string   `json:"content,omitempty"`
	Contents []string `json:"contents,omitempty"`
}
