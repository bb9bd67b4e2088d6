package llm

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/umputun/appscope/pkg/config"
	"github.com/umputun/appscope/pkg/domain"
)

// generateRequest is a single structured-output call to a model provider
type generateRequest struct {
	APIKey    string
	System    string
	Prompt    string
	Schema    json.RawMessage
	WebSearch bool
}

// backend issues one generate call and returns the raw response text
type backend interface {
	generate(ctx context.Context, req generateRequest) (string, error)
}

// Analyzer turns an app-store URL into an AnalysisResult with one model call
type Analyzer struct {
	backend   backend
	config    config.LLMConfig
	systemMsg string
	getenv    func(string) string
}

// NewAnalyzer creates a new analyzer for the configured provider
func NewAnalyzer(cfg config.LLMConfig) *Analyzer {
	// use custom system prompt if provided, otherwise use default
	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}

	var b backend
	switch cfg.Provider {
	case config.ProviderOpenAI:
		b = &openAIBackend{endpoint: cfg.Endpoint, model: cfg.Model, temperature: cfg.Temperature, maxTokens: cfg.MaxTokens}
	default:
		b = newGeminiBackend(cfg)
	}

	return &Analyzer{backend: b, config: cfg, systemMsg: systemMsg, getenv: os.Getenv}
}

// Analyze requests the analysis of the app at appURL.
// All failures are *AnalysisError, no partial result is ever returned.
func (a *Analyzer) Analyze(ctx context.Context, appURL string) (*domain.AnalysisResult, error) {
	apiKey := a.getenv(a.config.APIKeyEnv)
	if apiKey == "" {
		return nil, configurationError(a.config.APIKeyEnv)
	}

	st := time.Now()
	text, err := a.backend.generate(ctx, generateRequest{
		APIKey:    apiKey,
		System:    a.systemMsg,
		Prompt:    buildPrompt(appURL),
		Schema:    resultSchema,
		WebSearch: !a.config.DisableWebSearch,
	})
	if err != nil {
		log.Printf("[WARN] analysis of %s failed after %v: %v", appURL, time.Since(st).Round(time.Millisecond), err)
		return nil, TransportError(err)
	}
	log.Printf("[DEBUG] %s responded in %v, %d bytes", a.config.Provider, time.Since(st).Round(time.Millisecond), len(text))

	if strings.TrimSpace(text) == "" {
		return nil, emptyResponseError()
	}

	result, err := parseResult(text)
	if err != nil {
		log.Printf("[WARN] can't parse analysis of %s: %v", appURL, err)
		return nil, malformedResponseError(err)
	}
	log.Printf("[INFO] analyzed %s (%s): %d liked, %d disliked, %d reviews",
		appURL, result.AppName, len(result.LikedFeatures), len(result.DislikedFeatures), len(result.Reviews))
	return result, nil
}
