package middleware

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func TestValidationMessage(t *testing.T) {
	SetupValidator()

	t.Run("uses json field names and humanized messages", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&loginForm{Email: "not-an-email", Password: "short"})
		require.Error(t, err)

		msg := ValidationMessage(err)

		assert.Contains(t, msg, "email: invalid email format")
		assert.Contains(t, msg, "password: must be at least 8 characters")
	})

	t.Run("reports missing required fields", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&loginForm{})
		require.Error(t, err)

		msg := ValidationMessage(err)

		assert.Contains(t, msg, "email: this field is required")
	})

	t.Run("passes non-validation errors through", func(t *testing.T) {
		err := errors.New("unexpected EOF")

		assert.Equal(t, "unexpected EOF", ValidationMessage(err))
	})
}
