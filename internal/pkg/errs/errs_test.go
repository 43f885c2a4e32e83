package errs_test

import (
	"errors"
	"testing"

	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("userId", "123")

		assert.Equal(t, "userId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("userId", "123", cause)

		assert.Equal(t, "userId", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: userId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("email")

		assert.Equal(t, "email", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: email", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("email", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: email (cause: invalid format)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("username")

		assert.Equal(t, "username", err.ParamName)
		assert.Equal(t, "value is required: username", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("quantity", -1, 0, 1000)

		assert.Equal(t, "quantity", err.ParamName)
		assert.Equal(t, -1, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 1000, err.Max)
		assert.Equal(t, "value is invalid: -1 is quantity, min value is 0, max value is 1000", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestConcurrentModificationError(t *testing.T) {
	t.Run("NewConcurrentModificationError", func(t *testing.T) {
		err := errs.NewConcurrentModificationError("order", "abc", 3)

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, "abc", err.ID)
		assert.Equal(t, int64(3), err.ExpectedVersion)
		assert.Equal(t,
			"concurrent modification: order abc was changed concurrently, expected version 3",
			err.Error())
		assert.Equal(t, errs.ErrConcurrentModification, err.Unwrap())
	})

	t.Run("errors.Is matches sentinel", func(t *testing.T) {
		err := errs.NewConcurrentModificationError("order", "abc", 3)
		require.ErrorIs(t, err, errs.ErrConcurrentModification)
	})
}

func TestInvalidTransitionError(t *testing.T) {
	err := errs.NewInvalidTransitionError("order", "DELIVERED", "PENDING")

	assert.Equal(t, "invalid status transition: order cannot move from DELIVERED to PENDING", err.Error())
	assert.Equal(t, errs.ErrInvalidTransition, err.Unwrap())
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestInvalidStateError(t *testing.T) {
	t.Run("NewInvalidStateError", func(t *testing.T) {
		err := errs.NewInvalidStateError("cannot delete the last admin user")

		assert.Equal(t, "invalid state: cannot delete the last admin user", err.Error())
		assert.Equal(t, errs.ErrInvalidState, err.Unwrap())
	})

	t.Run("NewInvalidStateErrorWithCause", func(t *testing.T) {
		cause := errors.New("admin count is 1")
		err := errs.NewInvalidStateErrorWithCause("cannot remove admin role", cause)

		assert.Equal(t, "invalid state: cannot remove admin role (cause: admin count is 1)", err.Error())
		require.ErrorIs(t, err, errs.ErrInvalidState)
	})
}

func TestAccessDeniedError(t *testing.T) {
	err := errs.NewAccessDeniedError("only admins can delete users")

	assert.Equal(t, "access denied: only admins can delete users", err.Error())
	assert.Equal(t, errs.ErrAccessDenied, err.Unwrap())
	require.ErrorIs(t, err, errs.ErrAccessDenied)
}

func TestTokenInvalidError(t *testing.T) {
	t.Run("NewTokenInvalidError", func(t *testing.T) {
		err := errs.NewTokenInvalidError("token is expired")

		assert.Equal(t, "token is invalid: token is expired", err.Error())
		assert.Equal(t, errs.ErrTokenInvalid, err.Unwrap())
	})

	t.Run("NewTokenInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("signature mismatch")
		err := errs.NewTokenInvalidErrorWithCause("verification failed", cause)

		assert.Equal(t, "token is invalid: verification failed (cause: signature mismatch)", err.Error())
		require.ErrorIs(t, err, errs.ErrTokenInvalid)
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("sentinel errors are defined", func(t *testing.T) {
		require.Error(t, errs.ErrObjectNotFound)
		require.Error(t, errs.ErrValueIsInvalid)
		require.Error(t, errs.ErrValueIsRequired)
		require.Error(t, errs.ErrValueIsOutOfRange)
		require.Error(t, errs.ErrConcurrentModification)
		require.Error(t, errs.ErrInvalidTransition)
		require.Error(t, errs.ErrInvalidState)
		require.Error(t, errs.ErrAccessDenied)
		require.Error(t, errs.ErrTokenInvalid)
	})
}
