// Package supportmesh provides a high-level façade over the support workflow,
// its tool registry and the ambient services (model provider, logging,
// metrics). Most applications interact with this package by:
//  1. Loading a config.Config (or starting from config.Default())
//  2. Creating a SupportMesh via FromConfig() or New() with an explicit model
//  3. Handling user messages synchronously with Handle()
//
// The façade delegates routing to support.Workflow while keeping setup and
// usage ergonomics concise. Defaults use the mock support tools and a no-op
// logger.
package supportmesh

import (
	"context"
	"fmt"

	"github.com/hupe1980/supportmesh/config"
	"github.com/hupe1980/supportmesh/graph"
	"github.com/hupe1980/supportmesh/logging"
	"github.com/hupe1980/supportmesh/metrics"
	"github.com/hupe1980/supportmesh/model"
	"github.com/hupe1980/supportmesh/model/anthropic"
	"github.com/hupe1980/supportmesh/model/openai"
	"github.com/hupe1980/supportmesh/support"
	"github.com/hupe1980/supportmesh/tool"
	"github.com/hupe1980/supportmesh/tool/mocktools"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
)

// Options configures the SupportMesh instance.
type Options struct {
	// Registry holds the tools exposed to the agents (defaults to the mock
	// support tools).
	Registry *tool.Registry

	// Classifier replaces the default keyword classifier for both tier and
	// issue when set.
	Classifier interface {
		support.TierClassifier
		support.IssueClassifier
	}

	// Instructions holds optional per-agent system prompts.
	Instructions map[support.Node]string

	EnableStreaming bool
	RecursionLimit  int

	// DiagramPath, when set, receives the workflow diagram on construction.
	// Write failures are logged only.
	DiagramPath string

	// Metrics records node, route and tool call metrics when set.
	Metrics *metrics.Collector

	// Hooks are chained after the metrics hooks.
	Hooks graph.Hooks

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// SupportMesh is the high-level façade aggregating the workflow and services.
type SupportMesh struct {
	opts     Options
	model    model.Model
	workflow *support.Workflow
}

// New creates a SupportMesh around llm.
func New(llm model.Model, optFns ...func(o *Options)) (*SupportMesh, error) {
	if llm == nil {
		return nil, fmt.Errorf("supportmesh: model must not be nil")
	}

	opts := Options{
		Registry:       mocktools.SupportRegistry(),
		RecursionLimit: graph.DefaultRecursionLimit,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	hooks := opts.Hooks
	var onToolCall tool.CallObserver
	if opts.Metrics != nil {
		hooks = graph.Chain(opts.Metrics.Hooks(), opts.Hooks)
		onToolCall = opts.Metrics.ObserveToolCall
	}

	wf, err := support.NewWorkflow(llm, opts.Registry, func(o *support.Options) {
		if opts.Classifier != nil {
			o.TierClassifier = opts.Classifier
			o.IssueClassifier = opts.Classifier
		}
		o.Instructions = opts.Instructions
		o.EnableStreaming = opts.EnableStreaming
		o.RecursionLimit = opts.RecursionLimit
		o.Logger = opts.Logger
		o.Hooks = hooks
		o.OnToolCall = onToolCall
	})
	if err != nil {
		return nil, fmt.Errorf("supportmesh: build workflow: %w", err)
	}

	m := &SupportMesh{opts: opts, model: llm, workflow: wf}

	if opts.DiagramPath != "" {
		_ = wf.WriteDiagram(opts.DiagramPath)
	}

	return m, nil
}

// FromConfig builds the model, logger and workflow options from cfg. Further
// option functions are applied last.
func FromConfig(cfg *config.Config, optFns ...func(o *Options)) (*SupportMesh, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lc, err := cfg.LoggerConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(lc)

	llm, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}

	instructions := make(map[support.Node]string, len(cfg.Instructions))
	for name, text := range cfg.Instructions {
		instructions[support.Node(name)] = text
	}

	return New(llm, append([]func(o *Options){func(o *Options) {
		o.Classifier = &support.KeywordClassifier{
			VIPKeywords:     cfg.Classifier.VIPKeywords,
			BillingKeywords: cfg.Classifier.BillingKeywords,
		}
		o.Instructions = instructions
		o.EnableStreaming = cfg.Stream
		o.RecursionLimit = cfg.RecursionLimit
		o.DiagramPath = cfg.DiagramPath
		o.Logger = logger
	}}, optFns...)...)
}

// NewModel creates the model adapter selected by cfg.Provider.
func NewModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if err := cfg.ValidateCredentials(); err != nil {
			return nil, err
		}
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.Temperature = cfg.Temperature
			if cfg.MaxTokens > 0 {
				o.MaxCompletionTokens = cfg.MaxTokens
			}
			o.APIKey = cfg.OpenAI.APIKey
			o.BaseURL = cfg.OpenAI.BaseURL
		}), nil
	case config.ProviderAnthropic:
		if err := cfg.ValidateCredentials(); err != nil {
			return nil, err
		}
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
			o.Temperature = cfg.Temperature
			if cfg.MaxTokens > 0 {
				o.MaxTokens = cfg.MaxTokens
			}
			o.APIKey = cfg.Anthropic.APIKey
			o.BaseURL = cfg.Anthropic.BaseURL
		}), nil
	case config.ProviderScripted:
		name := cfg.Model
		if name == "" {
			name = "offline"
		}
		return NewOfflineModel(name), nil
	default:
		return nil, fmt.Errorf("supportmesh: unknown provider %q", cfg.Provider)
	}
}

// Handle routes one user message through the workflow. On failure the partial
// result is returned together with the error.
func (m *SupportMesh) Handle(ctx context.Context, text string) (*support.Result, error) {
	m.opts.Logger.Debug("supportmesh.handle", "model", m.model.Info().Name)
	return m.workflow.Invoke(ctx, text)
}

// Workflow returns the compiled support workflow.
func (m *SupportMesh) Workflow() *support.Workflow { return m.workflow }

// Model returns the model driving the agents.
func (m *SupportMesh) Model() model.Model { return m.model }

// Logger returns the configured logger.
func (m *SupportMesh) Logger() logging.Logger { return m.opts.Logger }
