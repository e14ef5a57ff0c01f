package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router builds the API route table. The query, recognition, and health
// endpoints are public; account, vehicle, and photo management require a
// bearer access token.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.corsMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost, http.MethodOptions)

	api.HandleFunc("/vehicles/query", s.handleQuery).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/plate-image/query", s.handleRecognize).Methods(http.MethodPost, http.MethodOptions)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.authMiddleware)
	authed.HandleFunc("/vehicles", s.handleListVehicles).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/vehicles", s.handleRegisterVehicle).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/vehicles", s.handleDeleteVehicle).Methods(http.MethodDelete, http.MethodOptions)
	authed.HandleFunc("/vehicles/blacklist", s.handleBlacklist).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/vehicles/photo", s.handlePhotoUpload).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/vehicles/photo", s.handlePhotoDownload).Methods(http.MethodGet, http.MethodOptions)

	return r
}
