package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/parallaxhq/parallax/internal/common"
	"github.com/parallaxhq/parallax/internal/server/models"
)

// Message codes mirror the original backend so existing front ends keep
// working against this implementation.
const (
	msgInvalidLicense         = "INVALID_LICENSE"
	msgVehicleDetailsRequired = "VEHICLE_DETAILS_REQUIRED"
	msgLicenseExists          = "LICENSE_EXISTS"
	msgNotFound               = "NOT_FOUND"
	msgAdminOnly              = "ADMIN_ONLY"
	msgLicenseRequired        = "LICENSE_REQUIRED"
)

type registerRequest struct {
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhoneCountry string `json:"phoneCountry"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Username     string `json:"username,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
	Admin        bool   `json:"admin,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type vehicleRequest struct {
	LicenseNumber string `json:"licenseNumber"`
	Make          string `json:"make"`
	Model         string `json:"model"`
	Year          string `json:"year"`
	Blacklisted   bool   `json:"blacklisted"`
}

type vehicleView struct {
	LicenseNumber     string `json:"licenseNumber"`
	Make              string `json:"make"`
	Model             string `json:"model"`
	Year              string `json:"year"`
	Blacklisted       bool   `json:"blacklisted"`
	PhotoKey          string `json:"photoKey,omitempty"`
	CreatedAt         string `json:"createdAt"`
	OwnerEmail        string `json:"ownerEmail,omitempty"`
	OwnerPhoneCountry string `json:"ownerPhoneCountry,omitempty"`
	OwnerPhone        string `json:"ownerPhone,omitempty"`
}

type photoRequest struct {
	LicenseNumber string `json:"licenseNumber"`
}

func viewFromVehicle(v models.Vehicle) vehicleView {
	return vehicleView{
		LicenseNumber: v.LicenseNumber,
		Make:          v.Make,
		Model:         v.Model,
		Year:          v.Year,
		Blacklisted:   v.Blacklisted,
		PhotoKey:      v.PhotoKey,
		CreatedAt:     v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// serviceStatus maps sentinel service errors to HTTP status codes.
func serviceStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.DisplayName, req.PhoneCountry, req.Phone, req.Password)
	if err != nil {
		writeMessage(w, serviceStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"username":    user.Username,
		"displayName": user.DisplayName,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{Message: "invalid JSON body"})
		return
	}

	if strings.TrimSpace(req.Identifier) == "" || strings.TrimSpace(req.Password) == "" {
		writeJSON(w, http.StatusBadRequest, loginResponse{Message: "Identifier and password are required"})
		return
	}

	user, pair, err := s.users.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, loginResponse{Message: "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, loginResponse{Message: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Success:      true,
		Message:      "Login successful",
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		Admin:        s.users.IsAdmin(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenExpired) || errors.Is(err, common.ErrorNotFound) {
			writeMessage(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// handleListVehicles returns the caller's vehicles, or every vehicle with
// owner details when the administrator asks.
func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	if s.users.IsAdmin(user) {
		all, err := s.vehicles.ListAllWithOwners(r.Context())
		if err != nil {
			writeMessage(w, serviceStatus(err), err.Error())
			return
		}
		views := make([]vehicleView, 0, len(all))
		for _, v := range all {
			view := viewFromVehicle(v.Vehicle)
			view.OwnerEmail = v.OwnerEmail
			view.OwnerPhoneCountry = v.OwnerPhoneCountry
			view.OwnerPhone = v.OwnerPhone
			views = append(views, view)
		}
		writeJSON(w, http.StatusOK, map[string]any{"vehicles": views})
		return
	}

	own, err := s.vehicles.List(r.Context(), user.Username)
	if err != nil {
		writeMessage(w, serviceStatus(err), err.Error())
		return
	}
	views := make([]vehicleView, 0, len(own))
	for _, v := range own {
		views = append(views, viewFromVehicle(v))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleRegisterVehicle(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	vehicle, err := s.vehicles.Register(r.Context(), user.Username, req.LicenseNumber, req.Make, req.Model, req.Year)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			writeMessage(w, http.StatusConflict, msgLicenseExists)
		case errors.Is(err, common.ErrorValidation) && strings.Contains(err.Error(), "license"):
			writeMessage(w, http.StatusBadRequest, msgInvalidLicense)
		case errors.Is(err, common.ErrorValidation):
			writeMessage(w, http.StatusBadRequest, msgVehicleDetailsRequired)
		default:
			writeMessage(w, serviceStatus(err), err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, viewFromVehicle(*vehicle))
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := s.vehicles.Delete(r.Context(), user.Username, req.LicenseNumber, s.users.IsAdmin(user))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeMessage(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeMessage(w, serviceStatus(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleBlacklist flips the blacklist flag on a plate. Admin only.
func (s *Server) handleBlacklist(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !s.users.IsAdmin(user) {
		writeMessage(w, http.StatusForbidden, msgAdminOnly)
		return
	}

	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	vehicle, err := s.vehicles.SetBlacklisted(r.Context(), req.LicenseNumber, req.Blacklisted)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeMessage(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeMessage(w, serviceStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"licenseNumber": vehicle.LicenseNumber,
		"blacklisted":   vehicle.Blacklisted,
	})
}

// handleQuery answers the public plate lookup.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	plate := r.URL.Query().Get("plate")
	if strings.TrimSpace(plate) == "" {
		writeMessage(w, http.StatusBadRequest, msgLicenseRequired)
		return
	}

	status, err := s.vehicles.Query(r.Context(), plate)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			writeMessage(w, http.StatusBadRequest, msgInvalidLicense)
			return
		}
		writeMessage(w, serviceStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"registered":  status.Registered,
		"blacklisted": status.Blacklisted,
		"message":     status.Message,
	})
}

// handleRecognize accepts a raw image upload and returns the recognizer
// verdict cross-checked against the registry.
func (s *Server) handleRecognize(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Please upload a valid image file.",
		})
		return
	}

	image, err := io.ReadAll(r.Body)
	if err != nil || len(image) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Image data is required.",
		})
		return
	}

	result, err := s.plateImages.Recognize(r.Context(), image, contentType)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       result.Success,
		"plateFound":    result.PlateFound,
		"licenseNumber": result.LicenseNumber,
		"foundInSystem": result.FoundInSystem,
		"blacklisted":   result.Blacklisted,
		"message":       result.Message,
	})
}

// handlePhotoUpload issues a presigned PUT URL for a vehicle photo and records
// the storage key on the vehicle.
func (s *Server) handlePhotoUpload(w http.ResponseWriter, r *http.Request) {
	var req photoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.LicenseNumber) == "" {
		writeMessage(w, http.StatusBadRequest, msgLicenseRequired)
		return
	}

	key, uploadURL, err := s.photos.GetPresignedPutUrl(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "presign failed")
		return
	}

	if err := s.vehicles.AttachPhoto(r.Context(), req.LicenseNumber, key); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeMessage(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeMessage(w, serviceStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key, "url": uploadURL})
}

// handlePhotoDownload issues a presigned GET URL for a stored photo key.
func (s *Server) handlePhotoDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeMessage(w, http.StatusBadRequest, "key is required")
		return
	}

	url, err := s.photos.GetPresignedGetUrl(r.Context(), key)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "presign failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
