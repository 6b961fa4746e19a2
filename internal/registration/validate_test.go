package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/bank-backoffice/pkg/util"
)

func validInput() *Input {
	return &Input{
		Username:         "alice",
		Email:            "alice@example.com",
		Password:         "Str0ng!pass",
		FullName:         "Alice Nguyen",
		DateOfBirth:      "1990-04-12",
		IdentityNumber:   "123456789",
		RegistrationDate: "2015/06/01",
		FrontImage:       &ImageUpload{ContentType: "image/png", Data: []byte{1}},
		BackImage:        &ImageUpload{ContentType: "image/png", Data: []byte{1}},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, Validate(validInput()))
}

func TestValidate_WeakPassword(t *testing.T) {
	cases := []string{
		"alllowercase1!", // no uppercase
		"ALLUPPERCASE1!", // no lowercase
		"NoDigits!!",     // no digit
		"NoSymbol123",    // no symbol
		"Sh0r!t",         // too short
		"",
	}
	for _, password := range cases {
		in := validInput()
		in.Password = password
		err := Validate(in)
		require.Error(t, err, password)
		assert.Equal(t, apperrors.CodeWeakPassword, apperrors.CodeOf(err), password)
	}
}

func TestValidate_DateOfBirth(t *testing.T) {
	for _, dob := range []string{"1990-04-12", "1990/04/12"} {
		in := validInput()
		in.DateOfBirth = dob
		assert.NoError(t, Validate(in), dob)
	}

	for _, dob := range []string{"12-04-1990", "1990.04.12", "1990-4-12", "yesterday", ""} {
		in := validInput()
		in.DateOfBirth = dob
		err := Validate(in)
		require.Error(t, err, dob)
		assert.Equal(t, apperrors.CodeBadDateOfBirth, apperrors.CodeOf(err), dob)
	}
}

func TestValidate_IncompleteIdentity(t *testing.T) {
	mutations := []func(*Input){
		func(in *Input) { in.IdentityNumber = "" },
		func(in *Input) { in.RegistrationDate = "" },
		func(in *Input) { in.FrontImage = nil },
		func(in *Input) { in.BackImage = nil },
		func(in *Input) { in.FrontImage = &ImageUpload{ContentType: "image/png"} },
	}
	for i, mutate := range mutations {
		in := validInput()
		mutate(in)
		err := Validate(in)
		require.Error(t, err, i)
		assert.Equal(t, apperrors.CodeIncompleteIdentity, apperrors.CodeOf(err), i)
	}
}

func TestValidate_IdentityNumber(t *testing.T) {
	for _, number := range []string{"123456789", "123456789012"} {
		in := validInput()
		in.IdentityNumber = number
		assert.NoError(t, Validate(in), number)
	}

	// 5 digits, 10 digits, letters
	for _, number := range []string{"12345", "1234567890", "12345678a", "1234567890123"} {
		in := validInput()
		in.IdentityNumber = number
		err := Validate(in)
		require.Error(t, err, number)
		assert.Equal(t, apperrors.CodeBadIdentityNumber, apperrors.CodeOf(err), number)
	}
}

func TestValidate_RegistrationDate(t *testing.T) {
	in := validInput()
	in.RegistrationDate = "01/06/2015"
	err := Validate(in)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBadRegistrationDate, apperrors.CodeOf(err))
}

// First failure wins: a weak password masks every later problem.
func TestValidate_Ordering(t *testing.T) {
	in := validInput()
	in.Password = "weak"
	in.DateOfBirth = "bad"
	in.IdentityNumber = ""

	err := Validate(in)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeWeakPassword, apperrors.CodeOf(err))

	in.Password = "Str0ng!pass"
	err = Validate(in)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBadDateOfBirth, apperrors.CodeOf(err))

	in.DateOfBirth = "1990-04-12"
	err = Validate(in)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeIncompleteIdentity, apperrors.CodeOf(err))
}
