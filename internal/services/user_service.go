package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/otherscovers/otherscovers/internal/models"
	"github.com/otherscovers/otherscovers/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService encapsulates the business logic for user accounts.
type UserService struct {
	repo UserStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserStore) *UserService {
	return &UserService{
		repo: repo,
	}
}

// RegisterUser registers a new user after hashing their password. Usernames
// are unique across all users; the unique index backs up the pre-check.
func (s *UserService) RegisterUser(ctx context.Context, username, password string) (*models.User, error) {
	logrus.Info("Registering new user")

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		logrus.Warn("Missing required fields during registration")
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidRequest)
	}

	existing, _ := s.repo.GetUserByUsername(ctx, username)
	if existing != nil {
		logrus.WithField("username", username).Warn("Username already in use")
		return nil, ErrUsernameTaken
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:       username,
		HashedPassword: string(hashedPwd),
		LendingLibrary: []models.Book{},
		BorrowedBooks:  []models.Book{},
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the race against a concurrent registration.
			return nil, ErrUsernameTaken
		}
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	logrus.WithField("userID", createdUser.ID.Hex()).Info("User registered successfully")
	return createdUser, nil
}

// AuthenticateUser verifies the username and password and returns the user
// if credentials are valid.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (*models.User, error) {
	logrus.WithField("username", username).Info("Authenticating user")

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		logrus.WithField("username", username).Warn("User not found")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("username", username).Warn("Invalid credentials")
		return nil, ErrInvalidCredentials
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return user, nil
}

// UpdateLastActive stamps the user's last activity time.
func (s *UserService) UpdateLastActive(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.UpdateLastActive(ctx, id)
}
