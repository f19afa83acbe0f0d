package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/docstore"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	store docstore.Store
	log   *zap.SugaredLogger
	cost  int
}

// NewUserService creates a new UserServicer.
func NewUserService(store docstore.Store) UserServicer {
	return &userService{store: store, log: logger.Named("users"), cost: bcrypt.DefaultCost}
}

// CreateUser registers a new user
func (s *userService) CreateUser(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	if _, err := s.GetUserByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrDuplicateEmail
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         strings.TrimSpace(name),
		Preferences:  models.DefaultUserPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	doc, err := docstore.Encode(user)
	if err != nil {
		return nil, storeError(s.log, "encode user", err, nil)
	}
	id, err := s.store.Add(ctx, models.CollectionUsers, doc)
	if err != nil {
		return nil, storeError(s.log, "add user", err, nil)
	}
	user.ID = id
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := loadAll[models.User](ctx, s.store, s.log, models.CollectionUsers,
		docstore.Eq("email", strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperrors.ErrUserNotFound
	}
	return &users[0], nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return load[models.User](ctx, s.store, s.log, models.CollectionUsers, id, apperrors.ErrUserNotFound)
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}

// AttemptLogin checks the credentials and stamps the login time. Unknown
// emails and wrong passwords fail the same way.
func (s *userService) AttemptLogin(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.VerifyPassword(user, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.store.Update(ctx, models.CollectionUsers, user.ID, docstore.Document{"last_login": now}); err != nil {
		return nil, storeError(s.log, "update last login", err, apperrors.ErrUserNotFound)
	}
	user.LastLogin = &now
	return user, nil
}

// UpdateProfile changes the display name and/or profile image.
func (s *userService) UpdateProfile(ctx context.Context, id string, name, profileImage *string) (*models.User, error) {
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return nil, err
	}

	fields := docstore.Document{"updated_at": time.Now().UTC()}
	if name != nil {
		fields["name"] = strings.TrimSpace(*name)
	}
	if profileImage != nil {
		fields["profile_image"] = *profileImage
	}
	if err := s.store.Update(ctx, models.CollectionUsers, id, fields); err != nil {
		return nil, storeError(s.log, "update profile", err, apperrors.ErrUserNotFound)
	}
	return s.GetUserByID(ctx, id)
}

// ChangePassword replaces the password after checking the current one.
func (s *userService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if newPassword == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "new password is required")
	}
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.VerifyPassword(user, currentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	fields := docstore.Document{
		"password_hash": string(hashedPassword),
		"updated_at":    time.Now().UTC(),
	}
	if err := s.store.Update(ctx, models.CollectionUsers, id, fields); err != nil {
		return storeError(s.log, "change password", err, apperrors.ErrUserNotFound)
	}
	return nil
}

// DeleteUser removes the account after checking the password.
func (s *userService) DeleteUser(ctx context.Context, id, password string) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.VerifyPassword(user, password) {
		return apperrors.ErrInvalidCredentials
	}
	if err := s.store.Delete(ctx, models.CollectionUsers, id); err != nil {
		return storeError(s.log, "delete user", err, apperrors.ErrUserNotFound)
	}
	return nil
}
