// Package cli implements the interactive terminal front end of the local
// plate registry: a REPL with a logged-out view (register/login) and a
// logged-in view (plate management), mirroring the two screens of the
// original single-page app.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/parallaxhq/parallax/internal/client/api"
	"github.com/parallaxhq/parallax/internal/client/config"
	"github.com/parallaxhq/parallax/internal/client/models"
	"github.com/parallaxhq/parallax/internal/client/services"
	"github.com/parallaxhq/parallax/internal/client/storage"
	"github.com/parallaxhq/parallax/internal/logging"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	auth        *services.AuthService
	licenses    *services.LicenseService
	api         *api.Client
	currentUser *models.User
	reader      *bufio.Reader
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	store, err := storage.NewFileStore(c.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	return &App{
		config:   c,
		logger:   logger,
		auth:     services.NewAuthService(store),
		licenses: services.NewLicenseService(store),
		api:      api.NewClient(c.ServerBaseURL),
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.currentUser != nil
}

// status renders the prompt suffix: the logged-in username or nothing.
func (a *App) status() string {
	if a.currentUser == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.currentUser.Username)
}

func (a *App) showSuccess(msg string) {
	printlnFn("OK: " + msg)
}

func (a *App) showError(msg string) {
	printlnFn("ERROR: " + msg)
}

// Run restores a persisted session if one is valid and then enters the REPL.
// Restoring a session is equivalent to a successful login: the license view
// is rendered immediately, without re-validating credentials.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to Parallax (type 'help' for commands)")

	user, err := a.auth.RestoreSession(ctx)
	if err != nil {
		a.logger.Warn(ctx, "session restore failed", "error", err.Error())
	}
	if user != nil {
		a.currentUser = user
		printlnFn(fmt.Sprintf("Welcome back, %s!", user.Username))
		_ = a.ListLicenses(ctx)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}
