package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/genio/internal/client/auth"
	"github.com/dmitrijs2005/genio/internal/client/config"
	"github.com/dmitrijs2005/genio/internal/client/dropzone"
	"github.com/dmitrijs2005/genio/internal/client/gateway"
	"github.com/dmitrijs2005/genio/internal/client/models"
	"github.com/dmitrijs2005/genio/internal/client/repositories/ventures"
	"github.com/dmitrijs2005/genio/internal/client/services"
	"github.com/dmitrijs2005/genio/internal/logging"
)

// shutdownGrace bounds how long exit waits for uploads still in flight.
const shutdownGrace = 5 * time.Second

type App struct {
	config     *config.Config
	auth       auth.Authenticator
	gateway    gateway.Gateway
	controller services.Controller
	repo       ventures.Repository
	log        logging.Logger
	reader     *bufio.Reader
	out        io.Writer

	// dropRoot is where watch creates default drop directories; empty means
	// the working directory.
	dropRoot string

	outMu    sync.Mutex
	mu       sync.Mutex
	watchers map[string]*dropzone.Watcher
	view     *openView
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	authn := auth.New(c, auth.NewTerminalPrompter(), log)

	gw, err := gateway.New(ctx, c, authn, log)
	if err != nil {
		return nil, fmt.Errorf("init gateway: %w", err)
	}

	repo := ventures.NewMemoryRepository()
	ctl := services.NewController(gw, repo, log)

	return newApp(c, authn, gw, ctl, repo, log, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, authn auth.Authenticator, gw gateway.Gateway, ctl services.Controller,
	repo ventures.Repository, log logging.Logger, reader *bufio.Reader, out io.Writer) *App {
	return &App{
		config:     c,
		auth:       authn,
		gateway:    gw,
		controller: ctl,
		repo:       repo,
		log:        log,
		reader:     reader,
		out:        out,
		watchers:   make(map[string]*dropzone.Watcher),
	}
}

// Run blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.shutdown(ctx)

	a.say(titleStyle.Render("Welcome to Genio (type 'help' for commands)"))
	if a.auth.IsDemoMode() {
		a.say(demoBadge.Render(" DEMO ") + " storage is simulated, nothing leaves this machine")
	} else {
		a.say(mutedStyle.Render("backend: " + string(a.config.Backend)))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(ctx, a, a.getStatus, a.reader)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		a.say()
	}
}

func (a *App) shutdown(ctx context.Context) {
	a.closeView()
	a.stopWatchers()

	waited := make(chan struct{})
	go func() {
		a.controller.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(shutdownGrace):
		a.log.Warn(ctx, "exiting with uploads in flight")
	}

	if c, ok := a.gateway.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.log.Warn(ctx, "close gateway", "err", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.IsSignedIn()
}

func (a *App) getStatus() string {
	var parts []string
	if a.auth.IsDemoMode() {
		parts = append(parts, "demo")
	}
	if a.isLoggedIn() {
		parts = append(parts, fmt.Sprintf("%d ventures", len(a.repo.List())))
	}

	a.mu.Lock()
	if n := len(a.watchers); n > 0 {
		parts = append(parts, fmt.Sprintf("%d watching", n))
	}
	a.mu.Unlock()

	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// say writes one line to the shell output. Safe for concurrent use, since
// the open view prints from upload goroutines.
func (a *App) say(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *App) sayf(format string, args ...any) {
	a.say(fmt.Sprintf(format, args...))
}

// ventureAt resolves a 1-based list position to the venture it currently
// points at.
func (a *App) ventureAt(args []string, usage string) (models.Venture, error) {
	if len(args) == 0 {
		return models.Venture{}, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(args[0])
	list := a.repo.List()
	if err != nil || n < 1 || n > len(list) {
		return models.Venture{}, fmt.Errorf("%w: %s", errNoSuchVenture, args[0])
	}
	return list[n-1], nil
}

// fileAt resolves a 1-based position in the venture's file listing.
func fileAt(v models.Venture, arg string) (models.AttachedFile, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(v.Files) {
		return models.AttachedFile{}, fmt.Errorf("%w: %s", errNoSuchFile, arg)
	}
	return v.Files[n-1], nil
}
