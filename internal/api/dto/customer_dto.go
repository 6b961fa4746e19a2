package dto

import "time"

// CustomerLoginRequest payload for customer login.
type CustomerLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response fragment for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CustomerResponse is the outward shape of a customer record.
type CustomerResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// IdentityResponse is the outward shape of an identity document; image
// binaries are never echoed back.
type IdentityResponse struct {
	IdentityNumber   string `json:"identity_number"`
	RegistrationDate string `json:"registration_date"`
}

// UpdateProfileRequest payload for PUT /customers/me.
type UpdateProfileRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}
