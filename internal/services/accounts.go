package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/studenthub/backend/internal/models"
	"github.com/studenthub/backend/internal/storage"
	"github.com/studenthub/backend/pkg/logger"
	"github.com/studenthub/backend/pkg/utils"
	"gorm.io/gorm"
)

// AvatarStorage is the slice of the object store the account service needs.
type AvatarStorage interface {
	Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (storage.Object, error)
	Delete(ctx context.Context, storageID string) error
}

type AccountService struct {
	db    *gorm.DB
	store AvatarStorage
}

func NewAccountService(db *gorm.DB, store AvatarStorage) *AccountService {
	return &AccountService{db: db, store: store}
}

type RegisterInput struct {
	Name              string
	Email             string
	Phone             int64
	Role              models.UserRole
	Password          string
	AvatarContentType string
	AvatarSize        int64
}

// Register validates the input, uploads the avatar, hashes the password and
// persists the record. The uniqueness check runs before the upload so the
// common duplicate case never creates a remote object; if a concurrent
// registration still wins the insert race, the store's unique index rejects
// this one and the uploaded object is removed again.
func (s *AccountService) Register(ctx context.Context, in RegisterInput, avatar io.Reader) (*models.User, error) {
	if verr := ValidateRegistration(in); verr != nil {
		return nil, verr
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed checking email uniqueness: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	object, err := s.store.Upload(ctx, avatar, in.AvatarSize, in.AvatarContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed hashing password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         in.Role,
		Avatar: models.Avatar{
			StorageID: object.StorageID,
			URL:       object.URL,
		},
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			// Lost the insert race; clean up the object we just uploaded.
			if delErr := s.store.Delete(ctx, object.StorageID); delErr != nil {
				logger.Error("avatar_cleanup_failed", delErr, map[string]interface{}{
					"storage_id": object.StorageID,
				})
			}
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed creating user: %w", err)
	}

	logger.Info("user_registered", map[string]interface{}{
		"user_id": user.ID.String(),
		"role":    string(user.Role),
	})

	return user, nil
}

// Login returns the authenticated user. A missing account and a wrong
// password both yield ErrInvalidCredentials so the response cannot be used
// to enumerate accounts.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed looking up user: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// Delete removes the target account and its avatar object. Only admins may
// delete; the deletion is immediate and permanent.
func (s *AccountService) Delete(ctx context.Context, requester *models.User, targetID uuid.UUID) error {
	if requester == nil || requester.Role != models.UserRoleAdmin {
		return ErrForbidden
	}

	var target models.User
	if err := s.db.WithContext(ctx).First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed fetching user: %w", err)
	}

	result := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", targetID)
	if result.Error != nil {
		return fmt.Errorf("failed deleting user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	if target.Avatar.StorageID != "" {
		if err := s.store.Delete(ctx, target.Avatar.StorageID); err != nil {
			logger.Error("avatar_cleanup_failed", err, map[string]interface{}{
				"storage_id": target.Avatar.StorageID,
				"user_id":    targetID.String(),
			})
		}
	}

	logger.InfoWithUser(requester.ID.String(), "user_deleted", map[string]interface{}{
		"target_id": targetID.String(),
	})

	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
