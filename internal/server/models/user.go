// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a backend account. The username is the lowercased email and serves
// as the login identifier; the phone number is an optional secondary
// identifier. Passwords are stored as provided, matching the demo backend.
type User struct {
	ID           string
	Username     string
	Email        string
	DisplayName  string
	PhoneCountry string
	Phone        string
	Password     string
	CreatedAt    time.Time
}
