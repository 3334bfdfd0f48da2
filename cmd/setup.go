package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/replica-matcher/internal/ai"
	"github.com/spigell/replica-matcher/internal/ai/gemini"
	"github.com/spigell/replica-matcher/internal/extraction"
	"github.com/spigell/replica-matcher/internal/filtering"
	"github.com/spigell/replica-matcher/internal/logger"
	"github.com/spigell/replica-matcher/internal/metrics"
	"github.com/spigell/replica-matcher/internal/ranking"
	"github.com/spigell/replica-matcher/internal/secrets"
	"github.com/spigell/replica-matcher/internal/session"
)

// runtime is what every command needs: a logger, the parsed config and a session.
type runtime struct {
	logger   *zap.Logger
	config   *Config
	tracker  *session.Tracker
	ranker   *ranking.Ranker
	registry *prometheus.Registry
}

// setup builds the runtime. Logs go to output, stdout when empty.
func setup(output string) *runtime {
	logger, err := logger.New(logger.Options{
		JSON:   viper.GetBool("json"),
		Debug:  viper.GetBool("debug"),
		Output: output,
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	vocab := extraction.DefaultVocabulary()
	if len(config.Extraction.Stopwords) > 0 {
		vocab = vocab.WithStopwords(config.Extraction.Stopwords...)
	}

	extractor := extraction.New(extraction.Config{
		ContextWindow:    config.Extraction.ContextWindow,
		MaxMessageLength: config.Extraction.MaxMessageLength,
		MaxCandidates:    config.Extraction.MaxCandidates,
		Vocabulary:       vocab,
	}, logger)
	ranker := ranking.New(nil, logger)

	tracker, err := session.New(session.Deps{
		Extractor: extractor,
		Ranker:    ranker,
		Filters:   filtering.Default(),
		Metrics:   metrics.New(registry),
		Logger:    logger,
	}, session.Config{
		FallbackQuery: config.Session.FallbackQuery,
		Filters:       config.Filters,
	})
	if err != nil {
		logger.Fatal("creating a session", zap.Error(err))
	}

	for _, status := range tracker.Filters() {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.Any("details", status.Details),
		)
	}

	return &runtime{
		logger:   logger,
		config:   config,
		tracker:  tracker,
		ranker:   ranker,
		registry: registry,
	}
}

func newResponder(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Responder, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewResponder(generator, cfg.Gemini.MaxLogLength, logger), nil
}
