package usecase

import (
	"context"
	"fmt"

	"github.com/mkorolev/legal-doc-assistant/internal/core/ports"
)

type HealthStatus struct {
	Healthy          bool
	Message          string
	APIKeyConfigured bool
	ModelAvailable   bool
}

// HealthUseCase reports whether the completion service is usable. It only
// probes client/model construction; no completion request is ever sent.
type HealthUseCase struct {
	gateway          ports.CompletionGateway
	initErr          error
	apiKeyConfigured bool
}

func NewHealthUseCase(gateway ports.CompletionGateway, initErr error, apiKeyConfigured bool) *HealthUseCase {
	return &HealthUseCase{
		gateway:          gateway,
		initErr:          initErr,
		apiKeyConfigured: apiKeyConfigured,
	}
}

func (uc *HealthUseCase) Check(ctx context.Context) HealthStatus {
	if uc.initErr != nil {
		return HealthStatus{
			Message:          uc.initErr.Error(),
			APIKeyConfigured: uc.apiKeyConfigured,
		}
	}
	if uc.gateway == nil {
		return HealthStatus{
			Message:          "completion gateway is not initialized",
			APIKeyConfigured: uc.apiKeyConfigured,
		}
	}
	if err := uc.gateway.Probe(ctx); err != nil {
		return HealthStatus{
			Message:          err.Error(),
			APIKeyConfigured: uc.apiKeyConfigured,
		}
	}
	return HealthStatus{
		Healthy:          true,
		Message:          fmt.Sprintf("model %s is ready", uc.gateway.ModelName()),
		APIKeyConfigured: true,
		ModelAvailable:   true,
	}
}
