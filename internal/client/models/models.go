// Package models defines the records persisted by the local plate registry:
// the user directory, per-user license entries, and the session pointer.
package models

// User is one account in the user directory. The password is stored and
// compared as plain text; the original application behaves the same way and
// reproducing it faithfully is a requirement, not an oversight.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// License is one registered plate. LicenseNumber is stored trimmed and
// uppercased; CreatedAt is an RFC 3339 timestamp in UTC.
type License struct {
	LicenseNumber string `json:"licenseNumber"`
	VehicleModel  string `json:"vehicleModel"`
	CreatedAt     string `json:"createdAt"`
}

// Session is the persisted pointer to the logged-in account. At most one
// session exists at a time.
type Session struct {
	Username string `json:"username"`
}
