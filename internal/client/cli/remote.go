package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/parallaxhq/parallax/internal/client/api"
	"github.com/parallaxhq/parallax/internal/netx"
)

// unavailableMsg is shown whenever the backend cannot be reached. The local
// registry keeps working; only the remote commands degrade.
const unavailableMsg = "Server unavailable. Local data is unaffected."

// QueryPlate asks the backend whether a plate is registered and blacklisted.
func (a *App) QueryPlate(ctx context.Context) error {
	licenseNumber, err := getSimpleText(a.reader, "Enter license number to query:", os.Stdout)
	if err != nil {
		a.showError(err.Error())
		return err
	}

	status, err := a.api.QueryPlate(ctx, licenseNumber)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			a.showError(unavailableMsg)
		} else {
			a.showError(err.Error())
		}
		return err
	}

	switch {
	case status.Blacklisted:
		printlnFn("Plate is BLACKLISTED:", status.Message)
	case status.Registered:
		printlnFn("Plate is registered:", status.Message)
	default:
		printlnFn("Plate is not in the system:", status.Message)
	}
	return nil
}

// ScanImage uploads an image file to the backend's recognition endpoint and
// prints the verdict.
func (a *App) ScanImage(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter path to image file:", os.Stdout)
	if err != nil {
		a.showError(err.Error())
		return err
	}

	image, err := os.ReadFile(path)
	if err != nil {
		a.showError(fmt.Sprintf("reading image: %s", err.Error()))
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := a.api.RecognizePlate(ctx, image, contentType)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			a.showError(unavailableMsg)
		} else {
			a.showError(err.Error())
		}
		return err
	}

	if !result.Success || !result.PlateFound {
		printlnFn("No plate recognized:", result.Message)
		return nil
	}

	printlnFn("Recognized plate:", result.LicenseNumber)
	switch {
	case result.Blacklisted:
		printlnFn("Plate is BLACKLISTED:", result.Message)
	case result.FoundInSystem:
		printlnFn("Plate is registered:", result.Message)
	default:
		printlnFn("Plate is not in the system:", result.Message)
	}
	return nil
}

// AttachPhoto requests a presigned upload URL for a plate photo and uploads
// the file directly to object storage.
func (a *App) AttachPhoto(ctx context.Context) error {
	licenseNumber, err := getSimpleText(a.reader, "Enter license number:", os.Stdout)
	if err != nil {
		a.showError(err.Error())
		return err
	}

	path, err := getSimpleText(a.reader, "Enter path to photo file:", os.Stdout)
	if err != nil {
		a.showError(err.Error())
		return err
	}

	photo, err := os.ReadFile(path)
	if err != nil {
		a.showError(fmt.Sprintf("reading photo: %s", err.Error()))
		return err
	}

	key, uploadURL, err := a.api.RequestPhotoUpload(ctx, licenseNumber)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			a.showError(unavailableMsg)
		} else {
			a.showError(err.Error())
		}
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if err := netx.UploadToPresignedURL(ctx, uploadURL, photo, contentType); err != nil {
		a.showError(fmt.Sprintf("uploading photo: %s", err.Error()))
		return err
	}

	a.showSuccess(fmt.Sprintf("Photo uploaded as %s.", key))
	return nil
}
