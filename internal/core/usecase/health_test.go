package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCheckHealthyGateway(t *testing.T) {
	uc := NewHealthUseCase(&fakeGateway{}, nil, true)

	status := uc.Check(context.Background())
	if !status.Healthy {
		t.Fatalf("expected healthy status, got %+v", status)
	}
	if !status.APIKeyConfigured || !status.ModelAvailable {
		t.Fatalf("expected key and model flags set, got %+v", status)
	}
	if !strings.Contains(status.Message, "fake-model") {
		t.Fatalf("expected model name in message, got %q", status.Message)
	}
}

func TestCheckReportsInitFailure(t *testing.T) {
	initErr := errors.New("GEMINI_API_KEY is a placeholder value")
	uc := NewHealthUseCase(nil, initErr, false)

	status := uc.Check(context.Background())
	if status.Healthy {
		t.Fatalf("expected unhealthy status")
	}
	if status.APIKeyConfigured {
		t.Fatalf("expected apiKeyConfigured=false for placeholder key")
	}
	if status.ModelAvailable {
		t.Fatalf("expected modelAvailable=false when client never initialized")
	}
	if !strings.Contains(status.Message, "placeholder") {
		t.Fatalf("expected init failure message, got %q", status.Message)
	}
}

type failingProbeGateway struct {
	fakeGateway
	probeErr error
}

func (f *failingProbeGateway) Probe(_ context.Context) error { return f.probeErr }

func TestCheckReportsProbeFailure(t *testing.T) {
	uc := NewHealthUseCase(&failingProbeGateway{probeErr: errors.New("model handle failed")}, nil, true)

	status := uc.Check(context.Background())
	if status.Healthy || status.ModelAvailable {
		t.Fatalf("expected unhealthy status on probe failure, got %+v", status)
	}
	if !status.APIKeyConfigured {
		t.Fatalf("expected apiKeyConfigured=true when only the probe fails")
	}
}
