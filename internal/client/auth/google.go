package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrijs2005/genio/internal/client/config"
	"github.com/dmitrijs2005/genio/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	DriveFileScope   = "https://www.googleapis.com/auth/drive.file"
	defaultRevokeURL = "https://oauth2.googleapis.com/revoke"
)

// Google authenticates against Google's OAuth2 endpoint.
type Google struct {
	conf      *oauth2.Config
	apiKey    string
	prompter  Prompter
	revokeURL string
	http      *http.Client
	log       logging.Logger

	mu    sync.RWMutex
	token *oauth2.Token
	ts    oauth2.TokenSource
}

func NewGoogle(cfg *config.Config, prompter Prompter, log logging.Logger) *Google {
	return &Google{
		conf: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{DriveFileScope},
			Endpoint:     google.Endpoint,
		},
		apiKey:    cfg.GoogleAPIKey,
		prompter:  prompter,
		revokeURL: defaultRevokeURL,
		http:      http.DefaultClient,
		log:       log.With("component", "auth", "provider", "google"),
	}
}

// SignIn runs the consent flow and exchanges the pasted code for a token.
func (g *Google) SignIn(ctx context.Context) error {
	state := uuid.NewString()
	authURL := g.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)

	code, err := g.prompter.Prompt(ctx, authURL)
	if err != nil {
		return fmt.Errorf("consent: %w", err)
	}

	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("token exchange: %w", err)
	}

	g.mu.Lock()
	g.token = tok
	g.ts = oauth2.ReuseTokenSource(tok, g.conf.TokenSource(context.Background(), tok))
	g.mu.Unlock()

	g.log.Info(ctx, "signed in")
	return nil
}

// SignOut revokes the current token and forgets it. The local session is
// cleared even when revocation fails.
func (g *Google) SignOut(ctx context.Context) error {
	g.mu.Lock()
	tok := g.token
	g.token, g.ts = nil, nil
	g.mu.Unlock()

	if tok == nil {
		return nil
	}

	if err := g.revoke(ctx, tok); err != nil {
		g.log.Warn(ctx, "token revocation failed", "err", err)
		return err
	}
	g.log.Info(ctx, "signed out")
	return nil
}

func (g *Google) revoke(ctx context.Context, tok *oauth2.Token) error {
	value := tok.AccessToken
	if tok.RefreshToken != "" {
		value = tok.RefreshToken
	}

	form := url.Values{"token": {value}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRevokeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return fmt.Errorf("%w: %s; body: %s", ErrRevokeFailed, resp.Status, string(b))
	}
	return nil
}

func (g *Google) IsSignedIn() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token != nil
}

func (g *Google) IsDemoMode() bool {
	return IsPlaceholder(g.apiKey, g.conf.ClientID)
}

// TokenSource returns a source bound to the current session. It fails with
// ErrNotSignedIn while no one is signed in, so sign-out takes effect for
// clients created earlier.
func (g *Google) TokenSource(ctx context.Context) oauth2.TokenSource {
	return sessionSource{g: g}
}

type sessionSource struct{ g *Google }

func (s sessionSource) Token() (*oauth2.Token, error) {
	s.g.mu.RLock()
	ts := s.g.ts
	s.g.mu.RUnlock()
	if ts == nil {
		return nil, ErrNotSignedIn
	}
	return ts.Token()
}
