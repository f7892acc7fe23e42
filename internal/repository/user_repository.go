package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"authservice/internal/errors"
	"authservice/internal/model"
)

// ListQuery selects a window of users ordered by id.
type ListQuery struct {
	// Filter matches names case-insensitively by substring when non-empty.
	Filter string
	Offset int
	// Limit <= 0 means no limit.
	Limit int
}

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, q ListQuery) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error
}

// UserRecord is the persisted row of a user.
type UserRecord struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"size:255"`
	Name         string `gorm:"size:255;index"`
	Role         string `gorm:"size:20;not null;default:'USER'"`
	Age          *int
	AddressCity  *string `gorm:"size:120"`
	AddressState *string `gorm:"size:120"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the database table name for the user record.
func (UserRecord) TableName() string {
	return "users"
}

func toRecord(u *model.User) *UserRecord {
	rec := &UserRecord{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         string(u.Role),
		Age:          u.Age,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.Address != nil {
		city, state := u.Address.City, u.Address.State
		rec.AddressCity = &city
		rec.AddressState = &state
	}
	return rec
}

func (r *UserRecord) toModel() *model.User {
	u := &model.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Name:         r.Name,
		Role:         model.Role(r.Role),
		Age:          r.Age,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.AddressCity != nil || r.AddressState != nil {
		u.Address = &model.Address{}
		if r.AddressCity != nil {
			u.Address.City = *r.AddressCity
		}
		if r.AddressState != nil {
			u.Address.State = *r.AddressState
		}
	}
	return u
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if _, err := r.FindByEmail(ctx, user.Email); err == nil {
		return errors.ErrEmailTaken
	} else if !stderrors.Is(err, errors.ErrUserNotFound) {
		return err
	}

	rec := toRecord(user)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	*user = *rec.toModel()
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var rec UserRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, translateNotFound(err, fmt.Sprintf("find user by id %d", id))
	}
	return rec.toModel(), nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var rec UserRecord
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&rec).Error; err != nil {
		return nil, translateNotFound(err, "find user by email")
	}
	return rec.toModel(), nil
}

func (r *userRepository) List(ctx context.Context, q ListQuery) ([]model.User, error) {
	tx := r.db.WithContext(ctx).Order("id ASC")
	if q.Filter != "" {
		tx = tx.Where("LOWER(name) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(q.Filter))+"%")
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var recs []UserRecord
	if err := tx.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]model.User, 0, len(recs))
	for i := range recs {
		users = append(users, *recs[i].toModel())
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	if _, err := r.FindByID(ctx, user.ID); err != nil {
		return err
	}

	rec := toRecord(user)
	err := r.db.WithContext(ctx).Model(&UserRecord{ID: user.ID}).
		Select("Name", "Role", "Age", "AddressCity", "AddressState", "PasswordHash", "UpdatedAt").
		Updates(rec).Error
	if err != nil {
		return fmt.Errorf("update user id %d: %w", user.ID, err)
	}
	updated, err := r.FindByID(ctx, user.ID)
	if err != nil {
		return err
	}
	*user = *updated
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&UserRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user id %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

// AutoMigrate creates or updates the users table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserRecord{}); err != nil {
		return fmt.Errorf("auto-migrate users: %w", err)
	}
	return nil
}

func translateNotFound(err error, op string) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.ErrUserNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// escapeLike escapes LIKE wildcards using '!' as the escape character.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
