package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// RecognizeResult is the backend's verdict on an uploaded image: whether a
// plate was read and, if so, its registration and blacklist status.
type RecognizeResult struct {
	Success       bool
	PlateFound    bool
	LicenseNumber string
	FoundInSystem bool
	Blacklisted   bool
	Message       string
}

// recognizerResponse mirrors the JSON of the external recognition service.
type recognizerResponse struct {
	Success bool   `json:"success"`
	Plate   string `json:"plate"`
}

// PlateImageService forwards images to the external plate recognition service
// and cross-checks detected plates against the vehicle registry. Recognizer
// failures surface as a soft, user-visible message rather than an error.
type PlateImageService struct {
	recognizerBaseURL string
	vehicles          *VehicleService
	http              *http.Client
}

// NewPlateImageService constructs a PlateImageService for the given
// recognizer base URL.
func NewPlateImageService(recognizerBaseURL string, vehicles *VehicleService) *PlateImageService {
	return &PlateImageService{
		recognizerBaseURL: recognizerBaseURL,
		vehicles:          vehicles,
		http:              &http.Client{Timeout: 15 * time.Second},
	}
}

// Recognize sends the image to the recognizer with bounded retries and maps
// the detected plate to a registry verdict.
func (s *PlateImageService) Recognize(ctx context.Context, image []byte, contentType string) (*RecognizeResult, error) {
	recognized, err := s.forwardToRecognizer(ctx, image, contentType)
	if err != nil || !recognized.Success {
		return &RecognizeResult{
			Message: "Unable to analyze image at this time.",
		}, nil
	}

	plate := NormalizeLicense(recognized.Plate)
	if plate == "" {
		return &RecognizeResult{
			Success: true,
			Message: "No readable license plate was found in the image.",
		}, nil
	}

	status, err := s.vehicles.Query(ctx, plate)
	if err != nil {
		return nil, fmt.Errorf("checking detected plate: %w", err)
	}

	result := &RecognizeResult{
		Success:       true,
		PlateFound:    true,
		LicenseNumber: plate,
		FoundInSystem: status.Registered,
		Blacklisted:   status.Blacklisted,
	}
	switch {
	case !status.Registered:
		result.Message = fmt.Sprintf("Detected plate %s. This plate is not registered in Parallax.", plate)
	case status.Blacklisted:
		result.Message = fmt.Sprintf("Detected plate %s. This plate is registered and currently blacklisted.", plate)
	default:
		result.Message = fmt.Sprintf("Detected plate %s. This plate is registered and not blacklisted.", plate)
	}
	return result, nil
}

// forwardToRecognizer POSTs the raw image to the recognizer. Transient
// failures are retried with exponential backoff before giving up.
func (s *PlateImageService) forwardToRecognizer(ctx context.Context, image []byte, contentType string) (*recognizerResponse, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var recognized recognizerResponse
	backoff := retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			s.recognizerBaseURL+"/recognize", bytes.NewReader(image))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := s.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			io.Copy(io.Discard, resp.Body)
			return retry.RetryableError(fmt.Errorf("recognizer status %s", resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("recognizer status %s", resp.Status)
		}

		return json.NewDecoder(resp.Body).Decode(&recognized)
	})
	if err != nil {
		return nil, err
	}
	return &recognized, nil
}
