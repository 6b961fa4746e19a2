package domain

// PrincipalType differentiates customer vs staff tokens.
type PrincipalType string

const (
	PrincipalCustomer PrincipalType = "CUSTOMER"
	PrincipalStaff    PrincipalType = "STAFF"
)
