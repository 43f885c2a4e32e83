package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

// UserHandlers serves the account resource. All operations run against the
// principal resolved by the auth middleware; the access policy inside the
// command handlers decides what the principal may touch.
type UserHandlers struct {
	createHandler commands.CreateUserCommandHandler
	updateHandler commands.UpdateUserCommandHandler
	deleteHandler commands.DeleteUserCommandHandler

	getHandler  queries.GetUserQueryHandler
	listHandler queries.ListUsersQueryHandler
}

// NewUserHandlers creates the account handler group.
func NewUserHandlers(
	createHandler commands.CreateUserCommandHandler,
	updateHandler commands.UpdateUserCommandHandler,
	deleteHandler commands.DeleteUserCommandHandler,
	getHandler queries.GetUserQueryHandler,
	listHandler queries.ListUsersQueryHandler,
) *UserHandlers {
	return &UserHandlers{
		createHandler: createHandler,
		updateHandler: updateHandler,
		deleteHandler: deleteHandler,
		getHandler:    getHandler,
		listHandler:   listHandler,
	}
}

type userRequest struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// Create handles POST /users.
func (h *UserHandlers) Create(ctx echo.Context) error {
	var req userRequest
	if err := ctx.Bind(&req); err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	userID := kernel.NewUUID()
	cmd, err := commands.NewCreateUserCommand(
		principalFrom(ctx),
		userID,
		req.Email,
		req.Password,
		req.FirstName,
		req.LastName,
		req.Roles,
		req.Permissions,
	)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.createHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusCreated, "account created", map[string]string{"id": userID.String()})
}

// Update handles PUT /users/:id.
func (h *UserHandlers) Update(ctx echo.Context) error {
	userID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req userRequest
	if err = ctx.Bind(&req); err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewUpdateUserCommand(
		principalFrom(ctx),
		userID,
		req.Email,
		req.Password,
		req.FirstName,
		req.LastName,
		req.Roles,
		req.Permissions,
	)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.updateHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "account updated", nil)
}

// Delete handles DELETE /users/:id.
func (h *UserHandlers) Delete(ctx echo.Context) error {
	userID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewDeleteUserCommand(principalFrom(ctx), userID)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.deleteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "account deleted", nil)
}

// Get handles GET /users/:id.
func (h *UserHandlers) Get(ctx echo.Context) error {
	userID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	query, err := queries.NewGetUserQuery(principalFrom(ctx), userID)
	if err != nil {
		return fail(ctx, err)
	}

	account, err := h.getHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "account", account)
}

// List handles GET /users.
func (h *UserHandlers) List(ctx echo.Context) error {
	accounts, err := h.listHandler.Handle(ctx.Request().Context(), queries.NewListUsersQuery(principalFrom(ctx)))
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "accounts", accounts)
}
