package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/parallaxhq/parallax/internal/common"
)

// Input seams. Tests replace these to drive commands without a terminal.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for credentials and creates an account. Per the original
// flow, a successful registration does not log the user in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username (min 3 characters):", os.Stdout)
	if err != nil {
		a.showError(err.Error())
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		a.showError(err.Error())
		return err
	}

	if err := a.auth.Register(ctx, username, password); err != nil {
		a.showError(err.Error())
		return err
	}

	a.showSuccess("Account created. You can now log in.")
	return nil
}

// Login prompts for credentials and authenticates. On success the license
// view is rendered immediately, same as after a restored session.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username:", os.Stdout)
	if err != nil {
		a.showError(err.Error())
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		a.showError(err.Error())
		return err
	}

	user, err := a.auth.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			a.showError("Invalid username or password.")
		} else {
			a.showError(err.Error())
		}
		return err
	}

	a.currentUser = user
	a.showSuccess(fmt.Sprintf("Logged in as %s.", user.Username))
	return a.ListLicenses(ctx)
}

// Logout clears the persisted session and returns to the logged-out view.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.showError(err.Error())
		return err
	}
	a.currentUser = nil
	a.showSuccess("Logged out.")
	return nil
}
