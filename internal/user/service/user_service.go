package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mauryaent/mtech-store/internal/platform/config"
	"github.com/mauryaent/mtech-store/internal/platform/logger"
	"github.com/mauryaent/mtech-store/internal/user/domain"
	"github.com/mauryaent/mtech-store/internal/user/repository"
)

const minPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("email already exists")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type UserService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ValidateToken(tokenString string) (*TokenClaims, error)
}

type TokenClaims struct {
	UserID int64
	Email  string
}

type userService struct {
	repo          repository.UserRepository
	jwtSecret     []byte
	tokenLifetime time.Duration
}

func NewUserService(repo repository.UserRepository, authCfg config.AuthConfig) UserService {
	return &userService{
		repo:          repo,
		jwtSecret:     authCfg.JWTSecret,
		tokenLifetime: authCfg.TokenLifetime,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	// Length is checked here rather than in binding tags so non-HTTP callers
	// get the same rule.
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Register: failed to hash password", err)
		return nil, fmt.Errorf("could not process registration: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserConflict) {
			return nil, ErrUserAlreadyExists
		}
		logger.Error("Register: failed to create user in repo", err)
		return nil, fmt.Errorf("could not save user: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &domain.AuthResponse{Token: token, User: *user}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		logger.Error("Login: failed to get user by email", err)
		return nil, ErrInvalidCredentials
	}

	// Same error for unknown email and wrong password, never reveal which.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &domain.AuthResponse{Token: token, User: *user}, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		logger.Error("generateToken: failed to sign token", err)
		return "", fmt.Errorf("could not generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and verifies a bearer token, returning its identity
// claims. Any parse, signature, or expiry failure maps to ErrInvalidToken.
func (s *userService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(float64) // JSON numbers decode as float64
	if !ok {
		return nil, ErrInvalidToken
	}
	email, ok := claims["email"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{UserID: int64(userID), Email: email}, nil
}
