// Package httpapi exposes the backend over HTTP/JSON: authentication, vehicle
// management, public plate queries, image recognition, and photo presigning.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/parallaxhq/parallax/internal/logging"
	"github.com/parallaxhq/parallax/internal/server/services"
)

// Server is the HTTP front of the backend.
type Server struct {
	address     string
	logger      logging.Logger
	users       *services.UserService
	vehicles    *services.VehicleService
	plateImages *services.PlateImageService
	photos      *services.PhotoService
}

// NewServer constructs a Server bound to the given address.
func NewServer(address string, l logging.Logger, us *services.UserService, vs *services.VehicleService,
	ps *services.PlateImageService, ph *services.PhotoService) *Server {
	return &Server{
		address:     address,
		logger:      l.With("module", "http_server"),
		users:       us,
		vehicles:    vs,
		plateImages: ps,
		photos:      ph,
	}
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
