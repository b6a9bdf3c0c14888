package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mkorolev/legal-doc-assistant/internal/config"
	"github.com/mkorolev/legal-doc-assistant/internal/core/ports"
	"github.com/mkorolev/legal-doc-assistant/internal/core/usecase"
	"github.com/mkorolev/legal-doc-assistant/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	chat           ports.ChatService
	health         *usecase.HealthUseCase
	httpMetrics    *metrics.HTTPServerMetrics
	cfg            config.Config
	gatewayInitErr error
}

// NewRouter accepts a nil chat service: when the AI client could not be
// initialized the server still runs, answers health checks and reports 503
// on chat so operators can see the configuration failure.
func NewRouter(
	chat ports.ChatService,
	health *usecase.HealthUseCase,
	httpMetrics *metrics.HTTPServerMetrics,
	cfg config.Config,
	gatewayInitErr error,
) *Router {
	return &Router{
		chat:           chat,
		health:         health,
		httpMetrics:    httpMetrics,
		cfg:            cfg,
		gatewayInitErr: gatewayInitErr,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", rt.chatHandler)
	mux.HandleFunc("/api/health", rt.healthHandler)
	mux.Handle("/metrics", rt.httpMetrics.Handler())

	var handler http.Handler = mux
	handler = rt.httpMetrics.Middleware(serviceName, handler)
	if rt.cfg.MaxConcurrentRequests > 0 {
		wait := time.Duration(rt.cfg.BackpressureWaitMS) * time.Millisecond
		handler = backpressureMiddleware(handler, rt.cfg.MaxConcurrentRequests, wait)
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, label, message string) {
	writeJSON(w, status, errorResponse{Error: label, Message: message})
}
