package userrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/user"
	"logistics/internal/pkg/errs"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB, tracker aggregateTracker) *GormUserRepository {
	return &GormUserRepository{db: db, tracker: tracker}
}

// Add saves a new account.
func (r *GormUserRepository) Add(ctx context.Context, aggregate *user.User) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update performs the conditional write against the version the aggregate
// was loaded at.
func (r *GormUserRepository) Update(ctx context.Context, aggregate *user.User) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	expected := aggregate.Version()
	now := time.Now().UTC()
	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Model(&UserDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Updates(map[string]any{
			"email":         dto.Email,
			"password_hash": dto.PasswordHash,
			"first_name":    dto.FirstName,
			"last_name":     dto.LastName,
			"roles":         dto.Roles,
			"permissions":   dto.Permissions,
			"active":        dto.Active,
			"last_login":    dto.LastLogin,
			"version":       expected + 1,
			"updated_at":    now,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.classifyMissedWrite(ctx, aggregate.ID(), expected)
	}

	aggregate.MarkPersisted(now)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Delete removes an account by identifier.
func (r *GormUserRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&UserDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("user", id.String())
	}

	return nil
}

// Get retrieves an account by ID.
func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByEmail retrieves an account by its email address.
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "email = lower(?)", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", email)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves all accounts ordered by email.
func (r *GormUserRepository) GetAll(ctx context.Context) ([]*user.User, error) {
	var dtos []UserDTO
	if err := r.db.WithContext(ctx).Order("email").Find(&dtos).Error; err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(dtos))
	for _, dto := range dtos {
		u, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, nil
}

// ExistsByEmail reports whether an account with the email already exists.
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserDTO{}).
		Where("email = lower(?)", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// adminGuardLockID keys the advisory lock serializing transactions that
// depend on the active-administrator count.
const adminGuardLockID = 7201

// CountAdminsForUpdate counts administrator accounts while locking their rows
// until the surrounding transaction ends. Callers rely on the count staying
// accurate for the rest of the transaction, so two demotions of the same last
// administrator cannot both pass the check. Row locks alone cannot cover the
// zero-row case (two bootstrapping instances would each see an empty set and
// both seed), so an advisory lock is taken first; it is released with the
// transaction.
func (r *GormUserRepository) CountAdminsForUpdate(ctx context.Context) (int64, error) {
	if err := r.db.WithContext(ctx).
		Exec(`SELECT pg_advisory_xact_lock(?)`, adminGuardLockID).Error; err != nil {
		return 0, err
	}

	rows, err := r.db.WithContext(ctx).Raw(
		`SELECT id FROM users WHERE ? = ANY(roles) AND active FOR UPDATE`,
		user.RoleAdmin,
	).Rows()
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		count++
	}
	if err = rows.Err(); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *GormUserRepository) classifyMissedWrite(ctx context.Context, id kernel.UUID, expected int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserDTO{}).
		Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("user", id.String())
	}
	return errs.NewConcurrentModificationError("user", id.String(), expected)
}
