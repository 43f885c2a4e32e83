// Package userrepo persists account aggregates. Roles and permissions are
// stored as native Postgres text arrays.
package userrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/user"
)

// UserDTO represents the database structure for accounts.
type UserDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email        string         `gorm:"uniqueIndex;not null"`
	PasswordHash string         `gorm:"not null"`
	FirstName    string         `gorm:"not null"`
	LastName     string         `gorm:"not null"`
	Roles        pq.StringArray `gorm:"type:text[];not null"`
	Permissions  pq.StringArray `gorm:"type:text[];not null"`
	Active       bool           `gorm:"not null"`
	LastLogin    *time.Time
	Version      int64 `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides GORM's default naming to use "users".
func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(u *user.User) UserDTO {
	return UserDTO{
		ID:           u.ID().Bytes(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		FirstName:    u.FirstName(),
		LastName:     u.LastName(),
		Roles:        u.Roles(),
		Permissions:  u.Permissions(),
		Active:       u.Active(),
		LastLogin:    u.LastLogin(),
		Version:      u.Version(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return user.RestoreUser(
		id,
		dto.Email,
		dto.PasswordHash,
		dto.FirstName,
		dto.LastName,
		dto.Roles,
		dto.Permissions,
		dto.Active,
		dto.LastLogin,
		dto.Version,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
