package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-auth-service/pkg/apperror"
)

func TestValidateUserID(t *testing.T) {
	assert.NoError(t, ValidateUserID("60d5ec4f9e7f9b3d84399a6b"))

	for _, id := range []string{"", "60d5ec4f", "zzd5ec4f9e7f9b3d84399a6b", "60d5ec4f9e7f9b3d84399a6b00"} {
		err := ValidateUserID(id)
		require.Error(t, err, id)
		assert.True(t, apperror.Is(err, apperror.KindValidation), id)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("password123"))
	assert.NoError(t, ValidatePassword("abc"))

	for _, p := range []string{"", "ab", "pass word!", "p@ss", "abcdefghijklmnopqrstuvwxyz012345"} {
		err := ValidatePassword(p)
		require.Error(t, err, p)
		assert.True(t, apperror.Is(err, apperror.KindValidation), p)
	}
}

func TestValidateComparePasswordInput(t *testing.T) {
	assert.NoError(t, ValidateComparePasswordInput("password123", "password123"))

	err := ValidateComparePasswordInput("password123", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passwordHash")

	err = ValidateComparePasswordInput("bad pass!", "$2a$10$hash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passwordInput")
}

func TestValidateLoginInput(t *testing.T) {
	in, err := ValidateLoginInput(LoginInput{Email: "  Hermawan.Hant@Gmail.com ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "hermawan.hant@gmail.com", in.Email)

	// no pattern constraint at login
	_, err = ValidateLoginInput(LoginInput{Email: "a@b.co", Password: "has space!"})
	assert.NoError(t, err)

	_, err = ValidateLoginInput(LoginInput{Email: "not-an-email", Password: "password123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")

	_, err = ValidateLoginInput(LoginInput{Email: "a@b.co", Password: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestValidateRegisterInput(t *testing.T) {
	in, err := ValidateRegisterInput(RegisterInput{
		FirstName: " john ",
		LastName:  "",
		Email:     "John_Doe@gmail.com",
		Password:  "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "john", in.FirstName)
	assert.Equal(t, "", in.LastName)
	assert.Equal(t, "john_doe@gmail.com", in.Email)

	cases := map[string]RegisterInput{
		"firstName": {FirstName: "  ", Email: "a@b.co", Password: "password123"},
		"email":     {FirstName: "john", Email: "", Password: "password123"},
		"password":  {FirstName: "john", Email: "a@b.co", Password: "ab"},
	}
	for field, input := range cases {
		_, err := ValidateRegisterInput(input)
		require.Error(t, err, field)
		assert.True(t, apperror.Is(err, apperror.KindValidation), field)
		assert.Contains(t, err.Error(), field)
	}
}
