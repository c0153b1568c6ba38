package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mkravchenko/claimflow/internal/config"
	"github.com/mkravchenko/claimflow/internal/core/ports"
	"github.com/mkravchenko/claimflow/internal/core/usecase"
	"github.com/mkravchenko/claimflow/internal/infrastructure/extractor/pdftext"
	"github.com/mkravchenko/claimflow/internal/infrastructure/llm/openai"
	"github.com/mkravchenko/claimflow/internal/infrastructure/queue/nats"
	"github.com/mkravchenko/claimflow/internal/infrastructure/resilience"
	"github.com/mkravchenko/claimflow/internal/observability/logging"
	"github.com/mkravchenko/claimflow/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Processor      ports.ClaimProcessor
	HTTPMetrics    *metrics.HTTPServerMetrics
	MetricsHandler http.Handler

	closeFn func()
}

func New(cfg config.Config, service string) (*App, error) {
	logger := logging.New(service, cfg.LogLevel)
	slog.SetDefault(logger)

	httpMetrics, registry := metrics.NewHTTPServerMetrics(service)
	pipelineMetrics := metrics.NewPipelineMetrics(service, registry)

	executor := resilience.NewExecutor(resilience.Config{
		CallTimeout:             cfg.CallTimeout(),
		RatePerSecond:           cfg.RatePerSecond,
		RateBurst:               cfg.RateBurst,
		BreakerEnabled:          cfg.BreakerEnabled,
		BreakerMinRequests:      uint32(cfg.BreakerMinRequests),
		BreakerFailureRatio:     cfg.BreakerFailureRatio,
		BreakerOpenTimeout:      cfg.BreakerOpenTimeout(),
		BreakerHalfOpenMaxCalls: uint32(cfg.BreakerHalfOpenCalls),
	})

	client := openai.New(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, executor)
	client.SetObserver(pipelineMetrics.RecordLLMCall)

	classifier := openai.NewClassifier(client)
	extractors := openai.NewFieldExtractors(client)
	textExtractor := pdftext.NewExtractor()
	validator := usecase.NewValidator(cfg.CalendarDates)

	var publisher ports.DecisionPublisher
	closeFn := func() {}
	if cfg.NATSEnabled {
		natsPublisher, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			return nil, fmt.Errorf("init decision publisher: %w", err)
		}
		publisher = natsPublisher
		closeFn = natsPublisher.Close
	}

	processUC := usecase.NewProcessClaimUseCase(
		textExtractor,
		classifier,
		extractors,
		validator,
		publisher,
		cfg.MaxParallelDocs,
	)

	return &App{
		Config:         cfg,
		Logger:         logger,
		Processor:      pipelineMetrics.InstrumentProcessor(processUC),
		HTTPMetrics:    httpMetrics,
		MetricsHandler: httpMetrics.Handler(),
		closeFn:        closeFn,
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
