package domain

import "time"

// IdentityDocument is the image-backed proof of identity submitted at
// registration. It is owned 1:1 by a customer and immutable after creation.
type IdentityDocument struct {
	ID               string
	CustomerID       string
	IdentityNumber   string
	RegistrationDate string
	FrontImage       []byte
	BackImage        []byte
	CreatedAt        time.Time
}
