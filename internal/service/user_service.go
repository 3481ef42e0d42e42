// Package service implements the business rules on top of the repositories.
package service

import (
	"context"
	"strings"

	"recipebox/internal/models"
	"recipebox/internal/observability"
	"recipebox/internal/repository"
	"recipebox/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, credential checks and profile updates.
type UserService struct {
	userRepo          repository.UserRepository
	tokenRepo         repository.TokenRepository
	passwordMinLength int
}

// RegisterInput is the payload for creating a new account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// UpdateProfileInput carries a partial profile update. Nil fields are left
// unchanged.
type UpdateProfileInput struct {
	UserID   uint
	Name     *string
	Password *string
}

// NewUserService returns a UserService with the configured password minimum.
func NewUserService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, passwordMinLength int) *UserService {
	return &UserService{
		userRepo:          userRepo,
		tokenRepo:         tokenRepo,
		passwordMinLength: passwordMinLength,
	}
}

// Register creates a new user with a hashed password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, models.NewFieldValidationError("email", "Email is required")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewFieldValidationError("email", err.Error())
	}
	if err := validation.ValidatePassword(in.Password, s.passwordMinLength); err != nil {
		return nil, models.NewFieldValidationError("password", err.Error())
	}
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, models.NewFieldValidationError("name", err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewFieldValidationError("email", "User with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hashed),
		Name:     in.Name,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate validates the credentials and returns the user's token key,
// creating the token on first use and returning the same key afterwards.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", models.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil || !user.IsActive {
		observability.AuthFailures.WithLabelValues("credentials").Inc()
		return "", models.NewValidationError("Unable to authenticate with provided credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		observability.AuthFailures.WithLabelValues("credentials").Inc()
		return "", models.NewValidationError("Unable to authenticate with provided credentials")
	}

	token, err := s.tokenRepo.GetOrCreate(ctx, user.ID)
	if err != nil {
		return "", err
	}
	return token.Key, nil
}

// GetProfile returns the user for the authenticated identity.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile changes name and/or password of the owning user.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if err := validation.ValidateName(*in.Name); err != nil {
			return nil, models.NewFieldValidationError("name", err.Error())
		}
		user.Name = *in.Name
	}
	if in.Password != nil {
		if err := validation.ValidatePassword(*in.Password, s.passwordMinLength); err != nil {
			return nil, models.NewFieldValidationError("password", err.Error())
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
