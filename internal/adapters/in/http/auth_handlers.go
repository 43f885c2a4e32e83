package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/pkg/errs"
)

// AuthHandlers serves login, logout and the principal's own account.
type AuthHandlers struct {
	loginHandler commands.LoginCommandHandler
	getHandler   queries.GetUserQueryHandler
}

// NewAuthHandlers creates the auth handler group.
func NewAuthHandlers(loginHandler commands.LoginCommandHandler, getHandler queries.GetUserQueryHandler) *AuthHandlers {
	return &AuthHandlers{loginHandler: loginHandler, getHandler: getHandler}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(ctx echo.Context) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewLoginCommand(req.Email, req.Password)
	if err != nil {
		return fail(ctx, err)
	}

	result, err := h.loginHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "logged in", result)
}

// Me handles GET /auth/me.
func (h *AuthHandlers) Me(ctx echo.Context) error {
	principal := principalFrom(ctx)

	query, err := queries.NewGetUserQuery(principal, principal.ID)
	if err != nil {
		return fail(ctx, err)
	}

	account, err := h.getHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "account", account)
}

// Logout handles POST /auth/logout. Tokens are stateless, so logout is a
// client-side discard; the endpoint exists for API symmetry.
func (h *AuthHandlers) Logout(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, "logged out", nil)
}
