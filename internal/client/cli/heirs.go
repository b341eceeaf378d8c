package cli

import (
	"context"
	"fmt"
	"os"
)

// AddHeir registers a person who will receive the vault link after the
// transmission triggers.
func (a *App) AddHeir(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Heir name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := GetSimpleText(a.reader, "Heir email", os.Stdout)
	if err != nil {
		return err
	}

	heir, err := a.api.AddHeir(ctx, name, email)
	if err != nil {
		fmt.Printf("Save failed: %v\n", err)
		return err
	}

	fmt.Printf("Added heir %s\n", heir.ID)
	printlnFn("Remember: share your passphrase with them out of band, or the vault stays sealed.")
	return nil
}

// ListHeirs prints all designated heirs.
func (a *App) ListHeirs(ctx context.Context) error {
	heirs, err := a.api.ListHeirs(ctx)
	if err != nil {
		fmt.Printf("List failed: %v\n", err)
		return err
	}

	if len(heirs) == 0 {
		printlnFn("No heirs designated.")
		return nil
	}

	for _, h := range heirs {
		notified := ""
		if h.Notified {
			notified = "  (notified)"
		}
		fmt.Printf("%s  %s <%s>%s\n", h.ID, h.Name, h.Email, notified)
	}
	return nil
}

// DeleteHeir removes a designated heir.
func (a *App) DeleteHeir(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Heir ID", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.DeleteHeir(ctx, id); err != nil {
		fmt.Printf("Delete failed: %v\n", err)
		return err
	}

	printlnFn("Deleted.")
	return nil
}
