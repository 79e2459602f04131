package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndValidate(t *testing.T) {
	v := NewValidator("test-secret")

	token, err := v.Sign("user-42")
	require.NoError(t, err)

	userID, err := v.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewValidator("secret-a").Sign("user-1")
	require.NoError(t, err)

	_, err = NewValidator("secret-b").Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewValidator("secret").Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsMissingSubject(t *testing.T) {
	v := NewValidator("secret")
	token, err := v.Sign("")
	require.NoError(t, err)

	_, err = v.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
