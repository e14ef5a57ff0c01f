package models

import "time"

// Vehicle is a registered license plate. LicenseNumber is stored normalized
// (trimmed, uppercased) and Username is the lowercased owner account name.
type Vehicle struct {
	ID            string
	Username      string
	LicenseNumber string
	Make          string
	Model         string
	Year          string
	Blacklisted   bool
	PhotoKey      string
	CreatedAt     time.Time
}

// VehicleWithOwner augments a vehicle with owner contact details for the
// administrator listing.
type VehicleWithOwner struct {
	Vehicle
	OwnerEmail        string
	OwnerPhoneCountry string
	OwnerPhone        string
}
