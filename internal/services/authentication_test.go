package services

import (
	"testing"

	"nguoisaigon/internal/models"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	authentication, err := NewAuthentication("secret")
	require.NoError(t, err)

	token, err := authentication.CreateToken(&models.User{
		ID:        42,
		Username:  "phuong",
		FirstName: "Phương",
		LastName:  "Trần",
	})
	require.NoError(t, err)

	user, err := authentication.Validate(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), user.ID)
	require.Equal(t, "phuong", user.Username)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	a, err := NewAuthentication("secret-a")
	require.NoError(t, err)
	b, err := NewAuthentication("secret-b")
	require.NoError(t, err)

	token, err := a.CreateToken(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = b.Validate(token)
	require.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	authentication, err := NewAuthentication("secret")
	require.NoError(t, err)

	_, err = authentication.Validate("not-a-token")
	require.Error(t, err)
}
