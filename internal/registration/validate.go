package registration

import (
	"regexp"
	"strings"
	"unicode"

	apperrors "github.com/spec-kit/bank-backoffice/pkg/util"
)

// ImageUpload carries one uploaded identity image with its declared type.
type ImageUpload struct {
	ContentType string
	Data        []byte
}

// Input is the raw registration payload before any normalization.
type Input struct {
	Username         string
	Email            string
	Password         string
	FullName         string
	DateOfBirth      string
	IdentityNumber   string
	RegistrationDate string
	FrontImage       *ImageUpload
	BackImage        *ImageUpload
}

// Accepted date shapes: YYYY-MM-DD or YYYY/MM/DD.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$|^\d{4}/\d{2}/\d{2}$`)

// National identity numbers are exactly 9 or exactly 12 digits.
var identityNumberPattern = regexp.MustCompile(`^(\d{9}|\d{12})$`)

const passwordSymbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

type check struct {
	name string
	run  func(*Input) error
}

// checks runs in fixed order; the first failure wins.
var checks = []check{
	{name: "password_strength", run: checkPasswordStrength},
	{name: "date_of_birth", run: checkDateOfBirth},
	{name: "identity_complete", run: checkIdentityComplete},
	{name: "identity_number", run: checkIdentityNumber},
	{name: "registration_date", run: checkRegistrationDate},
}

// Validate applies the structural checks in order.
func Validate(in *Input) error {
	for _, c := range checks {
		if err := c.run(in); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePassword exposes the password policy for password-change flows.
func ValidatePassword(password string) error {
	return checkPasswordStrength(&Input{Password: password})
}

func checkPasswordStrength(in *Input) error {
	var hasDigit, hasUpper, hasLower, hasSymbol bool
	for _, r := range in.Password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	if len(in.Password) < 8 || !hasDigit || !hasUpper || !hasLower || !hasSymbol {
		return apperrors.NewValidationError(apperrors.CodeWeakPassword,
			"password must be at least 8 characters with a digit, an uppercase letter, a lowercase letter and a symbol")
	}
	return nil
}

func checkDateOfBirth(in *Input) error {
	if !datePattern.MatchString(in.DateOfBirth) {
		return apperrors.NewValidationError(apperrors.CodeBadDateOfBirth,
			"date of birth must be YYYY-MM-DD or YYYY/MM/DD")
	}
	return nil
}

func checkIdentityComplete(in *Input) error {
	if in.IdentityNumber == "" || in.RegistrationDate == "" ||
		in.FrontImage == nil || len(in.FrontImage.Data) == 0 ||
		in.BackImage == nil || len(in.BackImage.Data) == 0 {
		return apperrors.NewValidationError(apperrors.CodeIncompleteIdentity,
			"identity number, registration date and both identity images are required")
	}
	return nil
}

func checkIdentityNumber(in *Input) error {
	if !identityNumberPattern.MatchString(in.IdentityNumber) {
		return apperrors.NewValidationError(apperrors.CodeBadIdentityNumber,
			"identity number must be exactly 9 or 12 digits")
	}
	return nil
}

func checkRegistrationDate(in *Input) error {
	if !datePattern.MatchString(in.RegistrationDate) {
		return apperrors.NewValidationError(apperrors.CodeBadRegistrationDate,
			"registration date must be YYYY-MM-DD or YYYY/MM/DD")
	}
	return nil
}
