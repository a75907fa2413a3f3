package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/genio/internal/client/auth"
	"github.com/dmitrijs2005/genio/internal/client/config"
	"github.com/dmitrijs2005/genio/internal/logging"
	"golang.org/x/oauth2"
)

// TokenSourcer is implemented by authenticators that can authorize Drive
// requests.
type TokenSourcer interface {
	TokenSource(ctx context.Context) oauth2.TokenSource
}

// New builds the gateway selected by cfg.Backend. Whenever authn reports demo
// mode the simulated backend is returned instead.
func New(ctx context.Context, cfg *config.Config, authn auth.Authenticator, log logging.Logger) (Gateway, error) {
	if authn != nil && authn.IsDemoMode() {
		log.Info(ctx, "demo mode: using simulated storage", "latency", cfg.DemoLatency)
		return newSimulatedFromConfig(cfg, log), nil
	}

	switch cfg.Backend {
	case config.BackendDemo, "":
		return newSimulatedFromConfig(cfg, log), nil

	case config.BackendDrive:
		ts, ok := authn.(TokenSourcer)
		if !ok {
			return nil, fmt.Errorf("drive: %w", ErrAuthRequired)
		}
		return build(NewDrive(ctx, ts.TokenSource(ctx), log))

	case config.BackendWebhook:
		if cfg.WebhookURL == "" {
			return nil, errors.New("webhook: base URL is not configured")
		}
		hc := &http.Client{Timeout: cfg.RequestTimeout}
		return NewWebhook(cfg.WebhookURL, hc, cfg.WebhookSecret, log), nil

	case config.BackendS3:
		return build(NewS3(ctx, cfg, log))

	case config.BackendGCS:
		return build(NewGCS(ctx, cfg, log))

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// build keeps a failed constructor from returning a typed nil Gateway.
func build(g Gateway, err error) (Gateway, error) {
	if err != nil {
		return nil, err
	}
	return g, nil
}

func newSimulatedFromConfig(cfg *config.Config, log logging.Logger) *Simulated {
	return NewSimulated(
		WithLatencyScale(cfg.DemoLatency),
		WithFailureRate(cfg.DemoFailureRate),
		WithLogger(log),
	)
}
