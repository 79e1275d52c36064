package completions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/teilomillet/gollm"
	"go.uber.org/zap"

	"github.com/nanograph-ai/nanograph/client"
	"github.com/nanograph-ai/nanograph/config"
	"github.com/nanograph-ai/nanograph/errors"
	"github.com/nanograph-ai/nanograph/messages"
)

// Processor turns raw requests into canonical prompts and runs them
// through the shared client. It is safe for concurrent use as long as
// callers do not share mutable message threads across requests.
type Processor struct {
	client   *client.Resource
	cfg      *config.Config
	logger   *zap.Logger
	validate *validator.Validate
}

// NewProcessor creates a processor bound to a configuration and a client
// resource. Both are required.
func NewProcessor(cfg *config.Config, res *client.Resource, logger *zap.Logger) (*Processor, error) {
	if cfg == nil {
		return nil, errors.NewValidationError("config is required", nil)
	}
	if res == nil {
		return nil, errors.NewValidationError("client resource is required", nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		client:   res,
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// BuildPrompts validates and normalizes a request into one gollm prompt
// per thread. The reported batch flag distinguishes a one-thread batch
// from a flat request.
//
// Normalization order is fixed: coerce to canonical shape, apply Context
// (additive), then apply the system prompt (replacement). The request's
// SystemPrompt falls back to the configured default; either applies to
// flat threads only.
func (p *Processor) BuildPrompts(req *Request) ([]*gollm.Prompt, bool, error) {
	if req == nil {
		return nil, false, errors.NewValidationError("request cannot be nil", nil)
	}
	if err := p.validate.Struct(req); err != nil {
		return nil, false, errors.NewValidationError("invalid request options", err)
	}

	raw := req.Messages
	if raw == nil {
		if req.Input == "" {
			return nil, false, errors.NewValidationError("request must contain either messages or input", nil)
		}
		raw = req.Input
	}

	normalized, err := messages.FormatMessages(raw)
	if err != nil {
		return nil, false, err
	}

	if req.Context != "" {
		normalized = messages.AddContext(normalized, req.Context)
	}

	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = p.cfg.Client.SystemPrompt
	}
	if systemPrompt != "" {
		if normalized.IsBatch() {
			if req.SystemPrompt != "" {
				return nil, false, errors.NewValidationError("system prompt replacement is not supported for batch requests", nil)
			}
			// configured default is skipped for batches; threads are sent as-is
		} else {
			normalized = messages.NormalizedThread(
				messages.SwapSystemPrompt(normalized.Thread(), systemPrompt),
			)
		}
	}

	threads := normalized.Threads()
	prompts := make([]*gollm.Prompt, len(threads))
	for i, t := range threads {
		prompts[i] = toPrompt(t)
	}
	return prompts, normalized.IsBatch(), nil
}

// Process runs a request end to end and formats the response according to
// the formatting configuration. Threads of a batch are sent sequentially;
// the first failure aborts the request.
func (p *Processor) Process(ctx context.Context, req *Request) (*Response, error) {
	prompts, batch, err := p.BuildPrompts(req)
	if err != nil {
		return nil, err
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	p.logger.Debug("processing completion request",
		zap.String("request_id", id),
		zap.Int("threads", len(prompts)),
		zap.Bool("batch", batch),
	)

	opts := requestOptions(req.Options)
	contents := make([]string, len(prompts))
	for i, prompt := range prompts {
		content, err := p.client.GenerateWithOptions(ctx, prompt, opts)
		if err != nil {
			return nil, err
		}
		contents[i] = p.formatContent(content)
	}

	resp := &Response{ID: id}
	if batch {
		resp.Contents = contents
	} else {
		resp.Content = contents[0]
	}
	return resp, nil
}

// formatContent applies the configured response formatting: JSON
// cleaning, whitespace trimming, and length truncation, in that order.
func (p *Processor) formatContent(content string) string {
	f := p.cfg.Formatting
	if f.CleanJSON {
		content = gollm.CleanResponse(content)
	}
	if f.TrimWhitespace {
		content = strings.TrimSpace(content)
	}
	if f.MaxLength > 0 && len(content) > f.MaxLength {
		cut := f.MaxLength
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}
	return content
}

// requestOptions converts typed request options to the client's option
// map. Zero values are treated as unset.
func requestOptions(o *Options) map[string]interface{} {
	if o == nil {
		return nil
	}
	opts := make(map[string]interface{})
	if o.Temperature > 0 {
		opts["temperature"] = o.Temperature
	}
	if o.MaxTokens > 0 {
		opts["max_tokens"] = o.MaxTokens
	}
	if o.TopP > 0 {
		opts["top_p"] = o.TopP
	}
	return opts
}

func toPrompt(t messages.Thread) *gollm.Prompt {
	pm := make([]gollm.PromptMessage, len(t))
	for i, m := range t {
		role, _ := m.Role()
		pm[i] = gollm.PromptMessage{
			Role:    string(role),
			Content: contentString(m.Content()),
		}
	}
	return &gollm.Prompt{Messages: pm}
}

// contentString renders message content for the wire: strings pass
// through, structured payloads are JSON-encoded.
func contentString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Sprintf("%v", c)
		}
		return string(b)
	}
}
