package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rallydesk/rallydesk/models"
	"github.com/rallydesk/rallydesk/repositories"
	"github.com/rallydesk/rallydesk/utils"
)

const (
	minPasswordLength = 8
	tokenLifetime     = 24 * time.Hour
)

type RegisterInput struct {
	Email    string          `json:"email"`
	FullName string          `json:"full_name"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, string, error)
	VerifyEmail(ctx context.Context, email, code string) error
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type authService struct {
	db        *sql.DB
	userRepo  repositories.UserRepository
	email     EmailSender
	jwtSecret []byte
	logger    *slog.Logger
}

func NewAuthService(db *sql.DB, userRepo repositories.UserRepository, email EmailSender, jwtSecret []byte, logger *slog.Logger) AuthService {
	return &authService{
		db:        db,
		userRepo:  userRepo,
		email:     email,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Email == "" || input.FullName == "" {
		return nil, ErrValidationFailed
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	role := input.Role
	if role == "" {
		role = models.RoleViewer
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	code, err := generateVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	user := &models.User{
		ID:               uuid.NewString(),
		Email:            input.Email,
		FullName:         input.FullName,
		PasswordHash:     hash,
		Role:             role,
		Verified:         false,
		VerificationCode: &code,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, s.db, user); err != nil {
		return nil, mapRepositoryError(err)
	}

	// Registration succeeds even when mail delivery does not; the code can
	// be resent later.
	if err := s.email.SendVerificationEmail(user.Email, code); err != nil {
		s.logger.Warn("failed to send verification email",
			slog.String("user_id", user.ID), slog.Any("error", err))
	}

	user.PasswordHash = ""
	user.VerificationCode = nil
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, s.db, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to load user by email: %w", err)
	}
	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}
	if !user.Verified {
		return nil, "", ErrEmailNotVerified
	}

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(tokenLifetime).Unix(),
		"iat":  time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	user.PasswordHash = ""
	user.VerificationCode = nil
	return user, token, nil
}

func (s *authService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.userRepo.GetByEmail(ctx, s.db, email)
	if err != nil {
		return mapRepositoryError(err)
	}
	if user.Verified {
		return nil
	}
	if user.VerificationCode == nil || *user.VerificationCode != code {
		return ErrInvalidVerification
	}
	return mapRepositoryError(s.userRepo.MarkVerified(ctx, s.db, user.ID))
}

func (s *authService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	user.PasswordHash = ""
	user.VerificationCode = nil
	return user, nil
}

// generateVerificationCode returns a random six digit numeric code.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
