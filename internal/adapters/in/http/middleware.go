package http

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/user"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/token"
)

const principalContextKey = "principal"

// AuthMiddleware authenticates requests with a bearer token. The account is
// re-read on every request rather than trusted from the token, so role and
// permission changes take effect on the next request and deactivated accounts
// are locked out immediately.
type AuthMiddleware struct {
	tokens *token.Service
	users  ports.UserRepository
}

// NewAuthMiddleware creates the bearer token middleware.
func NewAuthMiddleware(tokens *token.Service, users ports.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Authenticate validates the bearer token and stores the resolved principal
// in the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		principal, err := m.resolve(ctx)
		if err != nil {
			return fail(ctx, err)
		}

		ctx.Set(principalContextKey, principal)
		return next(ctx)
	}
}

func (m *AuthMiddleware) resolve(ctx echo.Context) (user.Principal, error) {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return user.Principal{}, errs.NewTokenInvalidError("missing bearer token")
	}

	claims, err := m.tokens.Validate(strings.TrimPrefix(header, prefix))
	if err != nil {
		return user.Principal{}, err
	}

	userID, err := kernel.UUIDFromString(claims.UserID)
	if err != nil {
		return user.Principal{}, errs.NewTokenInvalidErrorWithCause("malformed subject", err)
	}

	account, err := m.users.Get(ctx.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return user.Principal{}, errs.NewTokenInvalidError("account no longer exists")
		}
		return user.Principal{}, err
	}
	if !account.Active() {
		return user.Principal{}, errs.NewTokenInvalidError("account is deactivated")
	}

	return account.Principal(), nil
}

func principalFrom(ctx echo.Context) user.Principal {
	principal, _ := ctx.Get(principalContextKey).(user.Principal)
	return principal
}
