package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/user"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrGetUserQueryIsNotConstructed = errors.New(
	"GetUserQuery must be created via NewGetUserQuery constructor",
)

// GetUserQuery retrieves a single account. Administrators can read any
// account; everyone else only their own.
type GetUserQuery struct {
	principal user.Principal
	userID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetUserQuery creates a query to retrieve one account on behalf of the
// authenticated principal.
func NewGetUserQuery(principal user.Principal, userID kernel.UUID) (GetUserQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetUserQuery{}, err
	}
	return GetUserQuery{principal: principal, userID: userID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetUserQuery) Validate() error {
	return q.guard.Validate(ErrGetUserQueryIsNotConstructed)
}

// UserID returns the identifier of the account to retrieve.
func (q GetUserQuery) UserID() kernel.UUID { return q.userID }

// UserResponse is the account read model. The password hash is never part of
// any read model.
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Roles       []string   `json:"roles"`
	Permissions []string   `json:"permissions"`
	Active      bool       `json:"active"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

const userColumns = `
	id,
	email,
	first_name,
	last_name,
	roles,
	permissions,
	active,
	last_login,
	version,
	created_at,
	updated_at
`

func scanUsers(ctx context.Context, db *gorm.DB, sqlText string, args ...any) ([]UserResponse, error) {
	users := make([]UserResponse, 0)

	result, err := db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer result.Close()

	for result.Next() {
		var u UserResponse
		var roles, permissions pq.StringArray
		var lastLogin sql.NullTime

		if err = result.Scan(
			&u.ID,
			&u.Email,
			&u.FirstName,
			&u.LastName,
			&roles,
			&permissions,
			&u.Active,
			&lastLogin,
			&u.Version,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, err
		}

		u.Roles = roles
		u.Permissions = permissions
		if lastLogin.Valid {
			t := lastLogin.Time
			u.LastLogin = &t
		}
		users = append(users, u)
	}

	if err = result.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// GetUserQueryHandler serves single-account reads. Account reads are not
// cached: they are cheap primary key lookups and the read model feeds
// authorization decisions, where staleness has a real cost.
type GetUserQueryHandler struct {
	db *gorm.DB
}

// NewGetUserQueryHandler creates a handler for single-account retrieval.
func NewGetUserQueryHandler(db *gorm.DB) GetUserQueryHandler {
	return GetUserQueryHandler{db: db}
}

// Handle returns the account read model after checking the principal may see it.
func (h GetUserQueryHandler) Handle(ctx context.Context, query GetUserQuery) (UserResponse, error) {
	if err := query.Validate(); err != nil {
		return UserResponse{}, err
	}

	if !query.principal.IsAdmin() && !query.principal.IsSelf(query.userID) {
		return UserResponse{}, errs.NewAccessDeniedError("users can only view their own account")
	}

	users, err := scanUsers(ctx, h.db,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, query.userID.String())
	if err != nil {
		return UserResponse{}, err
	}
	if len(users) == 0 {
		return UserResponse{}, errs.NewObjectNotFoundError("user", query.userID)
	}

	return users[0], nil
}
