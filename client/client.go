// Package client manages the shared LLM client handle. The handle wraps a
// gollm client plus per-mode structured-output views, and is initialized
// at most once per process: the first Get constructs it, later calls
// return the same handle. Callers pass the handle explicitly to whatever
// needs it rather than reaching for hidden globals.
package client

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/teilomillet/gollm"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/nanograph-ai/nanograph/config"
	"github.com/nanograph-ai/nanograph/errors"
)

// Resource is the shared handle around the underlying gollm client.
type Resource struct {
	llm      gollm.LLM
	mode     Mode
	provider string
	model    string
	logger   *zap.Logger
	metrics  *Metrics

	genMu    sync.Mutex
	defaults map[string]interface{}

	structuredMu sync.RWMutex
	structured   map[Mode]*Structured
	initGroup    singleflight.Group
}

var (
	sharedMu    sync.Mutex
	initialized bool
	shared      *Resource
)

// Get returns the shared resource, initializing it on the first call.
// Initialization happens at most once per process; subsequent calls
// return the existing handle and ignore their arguments. Use Reset to
// discard the handle (tests only).
func Get(cfg config.ClientConfig, logger *zap.Logger, registry *prometheus.Registry) (*Resource, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if initialized {
		return shared, nil
	}

	r, err := newResource(cfg, logger, registry)
	if err != nil {
		return nil, err
	}

	shared = r
	initialized = true
	logger.Debug("LLM client resource initialized",
		zap.String("provider", r.provider),
		zap.String("model", r.model),
		zap.String("mode", string(r.mode)),
	)
	return shared, nil
}

// Install makes r the shared resource. It fails if a resource is already
// installed, preserving the once-only contract. Intended for callers that
// construct their own Resource via NewResource (custom gollm clients,
// tests).
func Install(r *Resource) error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if initialized {
		return errors.NewClientError("client resource already initialized", nil)
	}
	shared = r
	initialized = true
	return nil
}

// Reset discards the shared resource so the next Get reinitializes it.
// Tests only; concurrent use with Get on live traffic is a caller bug.
func Reset() {
	sharedMu.Lock()
	initialized = false
	shared = nil
	sharedMu.Unlock()
}

// NewResource wraps an existing gollm client in a Resource without
// touching the shared handle. A nil metrics gets a private registry.
func NewResource(llm gollm.LLM, mode Mode, logger *zap.Logger, metrics *Metrics) *Resource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Resource{
		llm:        llm,
		mode:       mode,
		provider:   llm.GetProvider(),
		model:      llm.GetModel(),
		logger:     logger,
		metrics:    metrics,
		defaults:   make(map[string]interface{}),
		structured: make(map[Mode]*Structured),
	}
}

func newResource(cfg config.ClientConfig, logger *zap.Logger, registry *prometheus.Registry) (*Resource, error) {
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	if cfg.APIKey == "" && cfg.Provider != "ollama" {
		return nil, errors.NewClientError("no API key configured for provider "+cfg.Provider, nil)
	}

	llm, err := gollm.NewLLM(clientOptions(cfg)...)
	if err != nil {
		return nil, errors.NewClientError("failed to initialize LLM client", err)
	}

	if err := applyEndpoint(llm, cfg); err != nil {
		return nil, err
	}

	r := NewResource(llm, mode, logger, NewMetrics(registry))
	r.provider = cfg.Provider
	r.model = cfg.Model
	r.SetDefaultOptions(cfg.Options)
	return r, nil
}

// clientOptions assembles the gollm construction options from the client
// configuration.
func clientOptions(cfg config.ClientConfig) []gollm.ConfigOption {
	opts := []gollm.ConfigOption{
		gollm.SetProvider(cfg.Provider),
		gollm.SetModel(cfg.Model),
	}
	if cfg.APIKey != "" {
		opts = append(opts, gollm.SetAPIKey(cfg.APIKey))
	}
	return opts
}

// applyEndpoint points the client at a configured endpoint override.
// Ollama has a dedicated setter; other providers use the generic one.
func applyEndpoint(llm gollm.LLM, cfg config.ClientConfig) error {
	if cfg.Endpoint == "" {
		return nil
	}
	if cfg.Provider == "ollama" {
		if err := llm.SetOllamaEndpoint(cfg.Endpoint); err != nil {
			return errors.NewClientError("failed to set ollama endpoint", err)
		}
		return nil
	}
	llm.SetEndpoint(cfg.Endpoint)
	return nil
}

// LLM exposes the wrapped gollm client.
func (r *Resource) LLM() gollm.LLM {
	return r.llm
}

// Mode returns the default structured-output mode.
func (r *Resource) Mode() Mode {
	return r.mode
}

// Metrics returns the resource's metrics.
func (r *Resource) Metrics() *Metrics {
	return r.metrics
}

// SetDefaultOptions applies generation parameters (temperature,
// max_tokens and the like) to the underlying client and records them so
// per-request overrides can be undone.
func (r *Resource) SetDefaultOptions(opts map[string]interface{}) {
	r.genMu.Lock()
	defer r.genMu.Unlock()
	for k, v := range opts {
		r.llm.SetOption(k, v)
		r.defaults[k] = v
	}
}

// Generate sends a prompt to the model and returns the raw completion.
func (r *Resource) Generate(ctx context.Context, prompt *gollm.Prompt) (string, error) {
	return r.GenerateWithOptions(ctx, prompt, nil)
}

// GenerateWithOptions sends a prompt with per-request generation
// parameters layered over the configured defaults. Calls are serialized
// so an override cannot leak into a concurrent request; overridden keys
// revert to their defaults after the call. An overridden key with no
// configured default keeps its last value.
func (r *Resource) GenerateWithOptions(ctx context.Context, prompt *gollm.Prompt, opts map[string]interface{}) (string, error) {
	r.genMu.Lock()
	defer r.genMu.Unlock()

	if len(opts) > 0 {
		for k, v := range opts {
			r.llm.SetOption(k, v)
		}
		defer r.restoreDefaults(opts)
	}

	r.metrics.RequestsTotal.WithLabelValues(r.provider, r.model).Inc()

	start := time.Now()
	response, err := r.llm.Generate(ctx, prompt)
	r.metrics.RequestDuration.WithLabelValues(r.provider, r.model).Observe(time.Since(start).Seconds())

	if err != nil {
		r.metrics.ErrorsTotal.WithLabelValues("generate").Inc()
		r.logger.Error("completion request failed",
			zap.String("provider", r.provider),
			zap.String("model", r.model),
			zap.Error(err),
		)
		return "", errors.NewClientError("completion request failed", err)
	}
	return response, nil
}

func (r *Resource) restoreDefaults(overridden map[string]interface{}) {
	for k := range overridden {
		if d, ok := r.defaults[k]; ok {
			r.llm.SetOption(k, d)
		}
	}
}

// Structured returns the structured-output view for the given mode,
// creating it on first use. Concurrent first calls for the same mode are
// collapsed into a single construction.
func (r *Resource) Structured(mode Mode) (*Structured, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	r.structuredMu.RLock()
	s, ok := r.structured[mode]
	r.structuredMu.RUnlock()
	if ok {
		return s, nil
	}

	v, err, _ := r.initGroup.Do(string(mode), func() (interface{}, error) {
		r.structuredMu.Lock()
		defer r.structuredMu.Unlock()
		if s, ok := r.structured[mode]; ok {
			return s, nil
		}
		s := &Structured{resource: r, mode: mode}
		r.structured[mode] = s
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Structured), nil
}

// Structured is a mode-bound view of the resource that asks the model for
// schema-conforming output.
type Structured struct {
	resource *Resource
	mode     Mode
}

// Mode returns the mode this view is bound to.
func (s *Structured) Mode() Mode {
	return s.mode
}

// Generate sends a prompt expecting output that conforms to schema. For
// ModeMarkdownJSON the response is additionally stripped of markdown
// fences.
func (s *Structured) Generate(ctx context.Context, prompt *gollm.Prompt, schema interface{}) (string, error) {
	r := s.resource
	r.genMu.Lock()
	defer r.genMu.Unlock()

	r.metrics.RequestsTotal.WithLabelValues(r.provider, r.model).Inc()

	start := time.Now()
	response, err := r.llm.GenerateWithSchema(ctx, prompt, schema)
	r.metrics.RequestDuration.WithLabelValues(r.provider, r.model).Observe(time.Since(start).Seconds())

	if err != nil {
		r.metrics.ErrorsTotal.WithLabelValues("generate_with_schema").Inc()
		return "", errors.NewClientError("structured completion request failed", err)
	}

	if s.mode == ModeMarkdownJSON {
		response = gollm.CleanResponse(response)
	}
	return response, nil
}
