// Package services provides domain services that implement business rules
// spanning more than one aggregate. AccessPolicy decides what an authenticated
// principal may do to user accounts, including protection of the last
// remaining administrator.
package services

import (
	"fmt"
	"slices"

	"logistics/internal/core/domain/model/user"
	"logistics/internal/pkg/errs"
)

// AccessPolicy is a stateless domain service encapsulating the authorization
// rules for user management.
//
// Rules:
//   - Only administrators grant the administrator role
//   - Non-administrators may update only their own account, and cannot change
//     role or permission grants
//   - Only administrators delete accounts, never their own
//   - The last administrator can be neither demoted nor deleted
type AccessPolicy struct{}

// NewAccessPolicy creates a new AccessPolicy instance.
func NewAccessPolicy() AccessPolicy {
	return AccessPolicy{}
}

// AuthorizeCreate decides whether the principal may create a user holding
// the given roles. Granting the administrator role requires being one.
func (p AccessPolicy) AuthorizeCreate(principal user.Principal, roles []string) error {
	if slices.Contains(roles, user.RoleAdmin) && !principal.IsAdmin() {
		return errs.NewAccessDeniedError("only administrators can create administrator accounts")
	}
	return nil
}

// AuthorizeUpdate decides whether the principal may update the target account.
// It returns canChangeGrants=true when role and permission changes in the
// request should be applied; for a self-service update by a non-administrator
// they are silently ignored rather than rejected, so the caller keeps the
// target's existing grants.
func (p AccessPolicy) AuthorizeUpdate(principal user.Principal, target *user.User) (canChangeGrants bool, err error) {
	if err := target.Validate(); err != nil {
		return false, err
	}

	if !principal.IsAdmin() && !principal.IsSelf(target.ID()) {
		return false, errs.NewAccessDeniedError("users can only update their own account")
	}

	return principal.IsAdmin(), nil
}

// AuthorizeRoleChange guards demotion of the last administrator. adminCount is
// the number of administrator accounts read under a row lock in the same
// transaction that applies the change.
func (p AccessPolicy) AuthorizeRoleChange(target *user.User, newRoles []string, adminCount int64) error {
	if err := target.Validate(); err != nil {
		return err
	}

	losesAdmin := target.IsAdmin() && !slices.Contains(newRoles, user.RoleAdmin)
	if losesAdmin && adminCount <= 1 {
		return errs.NewInvalidStateError(
			fmt.Sprintf("cannot remove administrator role from %s: it is the last administrator account", target.Email()))
	}

	return nil
}

// AuthorizeDelete decides whether the principal may delete the target account.
// Deletion is administrator-only, self-deletion is never allowed, and the last
// administrator account cannot be removed.
func (p AccessPolicy) AuthorizeDelete(principal user.Principal, target *user.User, adminCount int64) error {
	if err := target.Validate(); err != nil {
		return err
	}

	if !principal.IsAdmin() {
		return errs.NewAccessDeniedError("only administrators can delete accounts")
	}

	if principal.IsSelf(target.ID()) {
		return errs.NewInvalidStateError("administrators cannot delete their own account")
	}

	if target.IsAdmin() && adminCount <= 1 {
		return errs.NewInvalidStateError(
			fmt.Sprintf("cannot delete %s: it is the last administrator account", target.Email()))
	}

	return nil
}
