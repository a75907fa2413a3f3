package cli

import (
	"context"
	"fmt"
)

func (a *App) Login(ctx context.Context) error {
	if a.auth.IsSignedIn() {
		a.say("Already logged in")
		return nil
	}
	if err := a.auth.SignIn(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if a.auth.IsDemoMode() {
		a.say("Logged in " + demoBadge.Render(" DEMO "))
	} else {
		a.say("Logged in")
	}
	return nil
}

// Logout ends the session. Ventures stay in memory until exit.
func (a *App) Logout(ctx context.Context) error {
	a.closeView()
	a.stopWatchers()
	if err := a.auth.SignOut(ctx); err != nil {
		a.log.Warn(ctx, "sign out", "err", err)
	}
	a.say("Logged out")
	return nil
}
