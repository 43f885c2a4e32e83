// Package user contains the user aggregate and the principal value passed
// through use cases to represent the authenticated caller.
package user

import (
	"errors"
	"slices"
	"strings"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

// RoleAdmin is the administrator role. The system maintains the invariant
// that at least one active user always holds it.
const RoleAdmin = "ADMIN"

var (
	// ErrUserIsNotConstructed is returned when a User instance was not created
	// through NewUser or RestoreUser.
	ErrUserIsNotConstructed = errors.New("User must be created via NewUser or RestoreUser")
)

// Principal identifies the authenticated caller of a use case.
// It is threaded explicitly through every command and query that needs it;
// there is no ambient "current user" state.
type Principal struct {
	ID    kernel.UUID
	Email string
	Roles []string
}

// IsAdmin reports whether the principal holds the administrator role.
func (p Principal) IsAdmin() bool {
	return slices.Contains(p.Roles, RoleAdmin)
}

// IsSelf reports whether the principal is acting on their own user record.
func (p Principal) IsSelf(id kernel.UUID) bool {
	return p.ID.IsEqual(id)
}

// User is the aggregate root for an account.
//
// Invariants:
//   - Must have a valid unique identifier and a well-formed, unique email
//   - Role and permission sets are deduplicated and sorted
//   - The password hash is opaque to the domain; hashing happens at the
//     application boundary
type User struct {
	id           kernel.UUID
	email        string
	passwordHash string
	firstName    string
	lastName     string
	roles        []string
	permissions  []string
	active       bool
	lastLogin    *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewUser creates a new active user account.
func NewUser(
	id kernel.UUID,
	email string,
	passwordHash string,
	firstName string,
	lastName string,
	roles []string,
	permissions []string,
) (*User, error) {
	now := time.Now().UTC()
	u := &User{
		firstName:     firstName,
		lastName:      lastName,
		roles:         normalizeSet(roles),
		permissions:   normalizeSet(permissions),
		active:        true,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		u.setID(id),
		u.setEmail(email),
		u.setPasswordHash(passwordHash),
	); err != nil {
		return nil, err
	}

	return u, nil
}

// RestoreUser reconstructs a User from persistence.
func RestoreUser(
	id kernel.UUID,
	email string,
	passwordHash string,
	firstName string,
	lastName string,
	roles []string,
	permissions []string,
	active bool,
	lastLogin *time.Time,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) (*User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &User{
		id:            id,
		email:         email,
		passwordHash:  passwordHash,
		firstName:     firstName,
		lastName:      lastName,
		roles:         normalizeSet(roles),
		permissions:   normalizeSet(permissions),
		active:        active,
		lastLogin:     lastLogin,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the User instance was properly constructed.
func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

// ID returns the user's unique identifier.
func (u *User) ID() kernel.UUID { return u.id }

// Email returns the unique login email.
func (u *User) Email() string { return u.email }

// PasswordHash returns the opaque password hash.
func (u *User) PasswordHash() string { return u.passwordHash }

// FirstName returns the given name.
func (u *User) FirstName() string { return u.firstName }

// LastName returns the family name.
func (u *User) LastName() string { return u.lastName }

// Roles returns the sorted, deduplicated role set.
func (u *User) Roles() []string { return u.roles }

// Permissions returns the sorted, deduplicated permission set.
func (u *User) Permissions() []string { return u.permissions }

// Active reports whether the account may log in.
func (u *User) Active() bool { return u.active }

// LastLogin returns the most recent successful login, nil if never.
func (u *User) LastLogin() *time.Time { return u.lastLogin }

// Version returns the optimistic-lock version the aggregate was loaded at.
func (u *User) Version() int64 { return u.version }

// CreatedAt returns the immutable creation timestamp.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns the last modification timestamp.
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.roles, role)
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// Principal converts the user into the value passed to use cases as the
// authenticated caller.
func (u *User) Principal() Principal {
	return Principal{ID: u.id, Email: u.email, Roles: u.roles}
}

// UpdateProfile replaces name and email.
func (u *User) UpdateProfile(email, firstName, lastName string) error {
	if err := u.setEmail(email); err != nil {
		return err
	}
	u.firstName = firstName
	u.lastName = lastName
	return nil
}

// SetRoles replaces the role set.
// Authorization for this change lives in the access policy, not here.
func (u *User) SetRoles(roles []string) {
	u.roles = normalizeSet(roles)
}

// SetPermissions replaces the permission set.
func (u *User) SetPermissions(permissions []string) {
	u.permissions = normalizeSet(permissions)
}

// ChangePasswordHash replaces the stored password hash.
func (u *User) ChangePasswordHash(passwordHash string) error {
	return u.setPasswordHash(passwordHash)
}

// SetActive enables or disables the account.
func (u *User) SetActive(active bool) {
	u.active = active
}

// RecordLogin stamps a successful authentication.
func (u *User) RecordLogin(at time.Time) {
	u.lastLogin = &at
}

// MarkPersisted records a successful conditional write: the version advances
// by exactly one and the update timestamp is refreshed. Called by the
// persistence layer only after the compare-and-swap write committed.
func (u *User) MarkPersisted(updatedAt time.Time) {
	u.version++
	u.updatedAt = updatedAt
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setEmail(email string) error {
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return errs.NewValueIsInvalidError("email")
	}
	u.email = strings.ToLower(email)
	return nil
}

func (u *User) setPasswordHash(passwordHash string) error {
	if passwordHash == "" {
		return errs.NewValueIsRequiredError("passwordHash")
	}
	u.passwordHash = passwordHash
	return nil
}

// normalizeSet deduplicates and sorts a role or permission set so that
// equality checks and persistence are stable.
func normalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
