package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/genio/internal/client/models"
)

// Upload attaches the files at the given paths. Unreadable paths are
// reported and skipped; the rest go as one batch.
func (a *App) Upload(ctx context.Context, args []string) error {
	v, err := a.ventureAt(args, "upload <n> <path...>")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: upload <n> <path...>")
	}

	payloads := make([]models.Payload, 0, len(args)-1)
	for _, path := range args[1:] {
		p, err := models.PayloadFromPath(path)
		if err != nil {
			a.say(errorStyle.Render(fmt.Sprintf("skip %s: %v", path, err)))
			continue
		}
		payloads = append(payloads, p)
	}
	if len(payloads) == 0 {
		return nil
	}

	tokens, err := a.controller.UploadFiles(ctx, v.ID, payloads)
	if err != nil {
		return err
	}
	a.sayf("Uploading %d files to %q", len(tokens), v.Name)
	return nil
}

// Remove deletes one file, addressed by its position in the open listing.
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: rm <n> <file#>")
	}
	v, err := a.ventureAt(args, "rm <n> <file#>")
	if err != nil {
		return err
	}
	f, err := fileAt(v, args[1])
	if err != nil {
		return err
	}

	if err := a.controller.DeleteFile(ctx, v.ID, f.Token); err != nil {
		return err
	}
	a.sayf("Deleted %s", f.Payload.Name)
	return nil
}

// Clear deletes every settled file of the venture after confirmation. Either
// all of them go or none does.
func (a *App) Clear(ctx context.Context, args []string) error {
	v, err := a.ventureAt(args, "clear <n>")
	if err != nil {
		return err
	}
	if len(v.Files) == 0 {
		a.say("Nothing to clear")
		return nil
	}

	if !Confirm(a.reader, fmt.Sprintf("Delete all files of %q?", v.Name), a.out) {
		a.say("Cancelled")
		return nil
	}
	if err := a.controller.ClearFiles(ctx, v.ID); err != nil {
		return fmt.Errorf("no files were removed: %w", err)
	}
	a.sayf("Cleared %q", v.Name)
	return nil
}
