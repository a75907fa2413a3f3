package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/genio/internal/client/repositories/ventures"
	"github.com/dmitrijs2005/genio/internal/client/view"
)

var (
	errNoSuchVenture = errors.New("no such venture")
	errNoSuchFile    = errors.New("no such file")
)

// New prompts for name and description and creates the venture together
// with its remote folder.
func (a *App) New(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Venture name", a.out)
	if err != nil {
		return err
	}
	desc, err := GetSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	a.say(mutedStyle.Render("Creating folder..."))
	v, err := a.controller.CreateVenture(ctx, name, desc)
	if err != nil {
		return err
	}
	a.sayf("Created venture %q", v.Name)
	return nil
}

func (a *App) List(ctx context.Context) error {
	sums := view.Summaries(a.repo)
	if len(sums) == 0 {
		a.say("No ventures yet. Use 'new' to create one.")
		return nil
	}
	for i, s := range sums {
		a.say(renderSummary(i+1, s))
	}
	return nil
}

// Open prints the venture detail and keeps following it until close,
// another open, or the venture is deleted.
func (a *App) Open(ctx context.Context, args []string) error {
	v, err := a.ventureAt(args, "open <n>")
	if err != nil {
		return err
	}
	d, err := view.Detail(a.repo, v.ID)
	if err != nil {
		return err
	}
	a.say(renderDetail(d))
	a.openVenture(v)
	a.say(mutedStyle.Render("(following changes; 'close' to stop)"))
	return nil
}

func (a *App) CloseView(ctx context.Context) error {
	if a.openVentureID() == "" {
		a.say("No venture is open")
		return nil
	}
	a.closeView()
	return nil
}

// Edit changes name and description. An empty answer keeps the current value.
func (a *App) Edit(ctx context.Context, args []string) error {
	v, err := a.ventureAt(args, "edit <n>")
	if err != nil {
		return err
	}

	name, err := GetSimpleText(a.reader, fmt.Sprintf("Name [%s]", v.Name), a.out)
	if err != nil {
		return err
	}
	desc, err := GetSimpleText(a.reader, fmt.Sprintf("Description [%s]", v.Description), a.out)
	if err != nil {
		return err
	}

	var patch ventures.Patch
	if name != "" {
		patch.Name = &name
	}
	if desc != "" {
		patch.Description = &desc
	}
	if patch.Name == nil && patch.Description == nil {
		a.say("Nothing changed")
		return nil
	}
	if err := a.controller.UpdateVenture(v.ID, patch); err != nil {
		return err
	}
	a.say("Saved")
	return nil
}

// Delete removes the venture and its remote folder after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	v, err := a.ventureAt(args, "delete <n>")
	if err != nil {
		return err
	}

	q := fmt.Sprintf("Delete venture %q and its %d files? This cannot be undone.", v.Name, len(v.Files))
	if !Confirm(a.reader, q, a.out) {
		a.say("Cancelled")
		return nil
	}

	if err := a.controller.DeleteVenture(ctx, v.ID); err != nil {
		return err
	}
	a.stopWatcher(v.ID)
	a.sayf("Deleted venture %q", v.Name)
	return nil
}
