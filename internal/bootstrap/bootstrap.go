// Package bootstrap assembles the application graph: configuration, logging,
// metrics, the completion gateway and the HTTP router. A failed gateway
// construction does not abort startup; the server comes up degraded and
// reports the failure through /api/health and 503 chat responses.
package bootstrap

import (
	"context"
	"log/slog"
	"time"

	httpadapter "github.com/mkorolev/legal-doc-assistant/internal/adapters/http"
	"github.com/mkorolev/legal-doc-assistant/internal/config"
	"github.com/mkorolev/legal-doc-assistant/internal/core/ports"
	"github.com/mkorolev/legal-doc-assistant/internal/core/usecase"
	"github.com/mkorolev/legal-doc-assistant/internal/infrastructure/extractor"
	"github.com/mkorolev/legal-doc-assistant/internal/infrastructure/llm/gemini"
	"github.com/mkorolev/legal-doc-assistant/internal/infrastructure/resilience"
	"github.com/mkorolev/legal-doc-assistant/internal/observability/logging"
	"github.com/mkorolev/legal-doc-assistant/internal/observability/metrics"
)

const serviceName = "legal-doc-assistant"

type App struct {
	Config         config.Config
	Logger         *slog.Logger
	Metrics        *metrics.HTTPServerMetrics
	Router         *httpadapter.Router
	GatewayInitErr error

	gateway *gemini.Client
}

func New(ctx context.Context, cfg config.Config) *App {
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)

	exec := resilience.NewExecutor("gemini", resilienceConfig(cfg), gemini.RetryClassifier)
	client, initErr := gemini.New(ctx, gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: time.Duration(cfg.CompletionTimeoutSeconds) * time.Second,
	}, exec)

	var gateway ports.CompletionGateway
	var chat ports.ChatService
	if initErr != nil {
		logger.Error("completion_gateway_unavailable", "error", initErr)
	} else {
		gateway = &instrumentedGateway{inner: client, metrics: httpMetrics}
		chat = usecase.NewChatUseCase(extractor.NewRegistry(), gateway, cfg.MaxUploadBytes)
		logger.Info("completion_gateway_ready", "model", client.ModelName())
	}

	apiKeyConfigured := gemini.ValidateAPIKey(cfg.GeminiAPIKey) == nil
	health := usecase.NewHealthUseCase(gateway, initErr, apiKeyConfigured)

	return &App{
		Config:         cfg,
		Logger:         logger,
		Metrics:        httpMetrics,
		Router:         httpadapter.NewRouter(chat, health, httpMetrics, cfg, initErr),
		GatewayInitErr: initErr,
		gateway:        client,
	}
}

func (a *App) Close() {
	if a.gateway != nil {
		if err := a.gateway.Close(); err != nil {
			a.Logger.Warn("gateway_close_failed", "error", err)
		}
	}
}

func resilienceConfig(cfg config.Config) resilience.Config {
	out := resilience.DefaultConfig()
	out.RetryMaxAttempts = cfg.RetryMaxAttempts
	out.RetryInitialBackoff = time.Duration(cfg.RetryInitialBackoffMS) * time.Millisecond
	out.RetryMaxBackoff = time.Duration(cfg.RetryMaxBackoffMS) * time.Millisecond
	out.BreakerEnabled = cfg.BreakerEnabled
	return out
}

// instrumentedGateway times every completion call on the way through to the
// Gemini client.
type instrumentedGateway struct {
	inner   ports.CompletionGateway
	metrics *metrics.HTTPServerMetrics
}

func (g *instrumentedGateway) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	answer, err := g.inner.Complete(ctx, prompt)
	g.metrics.RecordCompletionDuration(time.Since(start))
	return answer, err
}

func (g *instrumentedGateway) Probe(ctx context.Context) error { return g.inner.Probe(ctx) }

func (g *instrumentedGateway) ModelName() string { return g.inner.ModelName() }
