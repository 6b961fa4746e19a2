package domain

import "time"

// Customer is the domain model for bank customers.
type Customer struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	DateOfBirth  string
	PasswordHash string
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
