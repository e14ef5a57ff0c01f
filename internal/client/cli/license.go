package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/parallaxhq/parallax/internal/common"
)

// AddLicense prompts for a plate and vehicle model and registers the plate
// for the current user.
func (a *App) AddLicense(ctx context.Context) error {
	licenseNumber, err := getSimpleText(a.reader, "Enter license number:", os.Stdout)
	if err != nil {
		a.showError(err.Error())
		return err
	}

	vehicleModel, err := getSimpleText(a.reader, "Enter vehicle model:", os.Stdout)
	if err != nil {
		a.showError(err.Error())
		return err
	}

	if err := a.licenses.Submit(ctx, a.currentUser, licenseNumber, vehicleModel); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			a.showError("This license number is already registered.")
		} else {
			a.showError(err.Error())
		}
		return err
	}

	a.showSuccess("License registered.")
	return a.ListLicenses(ctx)
}

// ListLicenses renders the current user's plates, newest first. An empty list
// shows a placeholder instead of a blank screen.
func (a *App) ListLicenses(ctx context.Context) error {
	entries, err := a.licenses.List(ctx, a.currentUser)
	if err != nil {
		a.showError(err.Error())
		return err
	}

	if len(entries) == 0 {
		printlnFn("No license numbers registered yet.")
		return nil
	}

	printlnFn("Your licenses:")
	for _, l := range entries {
		printlnFn(fmt.Sprintf("  %s - %s (added %s)", l.LicenseNumber, l.VehicleModel, l.CreatedAt))
	}
	return nil
}

// RemoveLicense prompts for a plate and deletes it from the current user's
// list. Removing a plate that is not there succeeds silently.
func (a *App) RemoveLicense(ctx context.Context) error {
	licenseNumber, err := getSimpleText(a.reader, "Enter license number to remove:", os.Stdout)
	if err != nil {
		a.showError(err.Error())
		return err
	}

	if err := a.licenses.Remove(ctx, a.currentUser, licenseNumber); err != nil {
		a.showError(err.Error())
		return err
	}

	a.showSuccess("License removed.")
	return a.ListLicenses(ctx)
}
