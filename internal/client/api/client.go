// Package api implements the HTTP client for the Parallax backend. Only the
// supplementary CLI commands (query, scan, photo) use it; the core registry
// flow is fully local and never touches the network.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrUnavailable marks transport-level failures: the backend is down or
	// unreachable. Callers degrade to an inline "server unavailable" message.
	ErrUnavailable = errors.New("server unavailable")
)

// Client is a thin JSON client over the backend's HTTP API.
type Client struct {
	baseURL     string
	http        *http.Client
	accessToken string
}

// NewClient returns a Client for the given base URL, e.g. "http://host:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetAccessToken stores a backend access token. Subsequent requests carry it
// as a bearer Authorization header; the photo endpoints require one.
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// PlateStatus is the backend's answer to a plate query.
type PlateStatus struct {
	Registered  bool   `json:"registered"`
	Blacklisted bool   `json:"blacklisted"`
	Message     string `json:"message"`
}

// RecognizeResult is the backend's answer to an image recognition request.
type RecognizeResult struct {
	Success       bool   `json:"success"`
	PlateFound    bool   `json:"plateFound"`
	LicenseNumber string `json:"licenseNumber"`
	FoundInSystem bool   `json:"foundInSystem"`
	Blacklisted   bool   `json:"blacklisted"`
	Message       string `json:"message"`
}

// presignResponse mirrors the photo presign endpoint payload.
type presignResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return nil, err
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Ping checks backend liveness.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

// QueryPlate asks the backend whether a plate is registered and blacklisted.
func (c *Client) QueryPlate(ctx context.Context, plate string) (*PlateStatus, error) {
	var status PlateStatus
	path := "/api/vehicles/query?plate=" + url.QueryEscape(plate)
	if err := c.getJSON(ctx, path, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// RecognizePlate uploads raw image bytes to the recognition endpoint and
// returns the backend's verdict.
func (c *Client) RecognizePlate(ctx context.Context, image []byte, contentType string) (*RecognizeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/plate-image/query", bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result RecognizeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding recognition response: %w", err)
	}
	return &result, nil
}

// RequestPhotoUpload asks the backend for a presigned PUT URL for a vehicle
// photo and returns the storage key together with the URL.
func (c *Client) RequestPhotoUpload(ctx context.Context, plate string) (key string, uploadURL string, err error) {
	body, err := json.Marshal(map[string]string{"licenseNumber": plate})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/vehicles/photo", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	var presign presignResponse
	if err := json.NewDecoder(resp.Body).Decode(&presign); err != nil {
		return "", "", err
	}
	return presign.Key, presign.URL, nil
}
