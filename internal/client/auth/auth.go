package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/genio/internal/client/config"
	"github.com/dmitrijs2005/genio/internal/logging"
)

var (
	ErrNotSignedIn  = errors.New("not signed in")
	ErrEmptyCode    = errors.New("empty authorization code")
	ErrRevokeFailed = errors.New("token revocation failed")
)

// Placeholders shipped in the configuration templates.
var placeholders = []string{"SUA_CHAVE", "SEU_ID"}

// Authenticator is the contract the shell and the gateway factory depend on.
type Authenticator interface {
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
	IsSignedIn() bool
	IsDemoMode() bool
}

// IsPlaceholder reports whether the Google credentials are unusable: either
// value is empty or still contains a template placeholder.
func IsPlaceholder(apiKey, clientID string) bool {
	for _, v := range []string{apiKey, clientID} {
		if strings.TrimSpace(v) == "" {
			return true
		}
		for _, p := range placeholders {
			if strings.Contains(v, p) {
				return true
			}
		}
	}
	return false
}

// New picks the authenticator for cfg.Backend. The Drive backend falls back
// to demo mode when its credentials are placeholders.
func New(cfg *config.Config, prompter Prompter, log logging.Logger) Authenticator {
	switch cfg.Backend {
	case config.BackendDrive:
		if IsPlaceholder(cfg.GoogleAPIKey, cfg.GoogleClientID) {
			log.Warn(context.Background(), "google credentials missing or placeholder, running in demo mode")
			return NewDemo()
		}
		return NewGoogle(cfg, prompter, log)
	case config.BackendWebhook, config.BackendS3, config.BackendGCS:
		return NewLocal()
	default:
		return NewDemo()
	}
}
