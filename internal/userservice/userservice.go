// userservice.go
package userservice

import (
	"context"
	"fmt"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/models"
	"github.com/haguru/yelpcamp/pkg/helper"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	UserRepo   interfaces.UserRepository
	Logger     interfaces.Logger
	bcryptCost int
}

// NewUserService creates a new UserService instance.
func NewUserService(repo interfaces.UserRepository, logger interfaces.Logger) *UserService {
	return &UserService{
		UserRepo:   repo,
		Logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// RegisterUser hashes the password and adds the user via the repository.
// A taken username yields models.ErrDuplicateUser.
func (s *UserService) RegisterUser(ctx context.Context, email, username, password string) (string, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", username)
	defer s.Logger.Debug("Exiting function", "func", funcName, "user", username)

	if username == "" || password == "" {
		return "", fmt.Errorf("%s: %s: %w", ErrFailedToRegisterUser, ErrMissingCredentials, models.ErrInvalidInput)
	}

	s.Logger.Info("Registering user", "func", funcName, "user", username)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		s.Logger.Error(ErrFailedToHashPassword, "func", funcName, "user", username, "error", err)
		return "", fmt.Errorf("%s: %w", ErrFailedToHashPassword, err)
	}

	user := models.NewUser(username, email, string(hashedPassword))
	userID, err := s.UserRepo.AddUser(ctx, *user)
	if err != nil {
		s.Logger.Error(ErrFailedToRegisterUser, "func", funcName, "user", username, "error", err)
		return "", fmt.Errorf("%s: %w", ErrFailedToRegisterUser, err)
	}
	s.Logger.Info("User registered successfully", "func", funcName, "user", username, "ID", userID)
	return userID, nil
}

// AuthenticateUser verifies a user's credentials and returns the stored user.
// Unknown users and wrong passwords both yield models.ErrInvalidCredentials.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (*models.User, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", username)
	defer s.Logger.Debug("Exiting function", "func", funcName, "user", username)

	user, err := s.UserRepo.GetUserByUsername(ctx, username)
	if err != nil {
		s.Logger.Error(ErrRetrievingUser, "func", funcName, "user", username, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	if user == nil {
		s.Logger.Warn(ErrUserNotFound, "func", funcName, "user", username)
		return nil, fmt.Errorf("%s: %w", ErrUserNotFound, models.ErrInvalidCredentials)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password))
	if err != nil {
		s.Logger.Warn(ErrInvalidPassword, "func", funcName, "user", username)
		return nil, fmt.Errorf("%s: %w", ErrInvalidPassword, models.ErrInvalidCredentials)
	}

	s.Logger.Info("User authenticated successfully", "func", funcName, "user", username)
	return user, nil
}
