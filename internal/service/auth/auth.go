package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/repository"
)

type Config struct {
	// Secret key to sign access tokens
	// Required to be set
	SecretKey string

	// Access token lifetime
	// If not set then default is used
	AccessTTL time.Duration

	// Hasher to use during registration and login
	// If not set then bcrypt is used
	Hasher PasswordHasher
}

type AuthService struct {
	token  tokenManager
	hasher PasswordHasher

	// Repository to access long term data
	userRepo repository.UserRepo
}

func NewService(cfg Config, userRepo repository.UserRepo) (*AuthService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}
	if userRepo == nil {
		return nil, errors.New("user repo must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	accessTTL := cfg.AccessTTL
	if accessTTL == 0 {
		accessTTL = defaultAccessTokenTTL
	}

	return &AuthService{
		token: tokenManager{
			key:       cfg.SecretKey,
			alg:       jwt.GetSigningMethod(defaultSigningMethod),
			accessTTL: accessTTL,
		},
		hasher:   hasher,
		userRepo: userRepo,
	}, nil
}

// Register creates a student account and returns an access token
func (s *AuthService) Register(ctx context.Context, name string, email string, password string) (models.User, string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, "", errors.New("can't use this as password")
	}

	user, err := s.userRepo.CreateUser(ctx, repository.CreateUserParams{
		Name:           name,
		Email:          email,
		HashedPassword: hash,
		Role:           models.RoleStudent,
	})
	if err != nil {
		return models.User{}, "", err
	}

	token, err := s.token.Generate(user)
	if err != nil {
		return models.User{}, "", err
	}

	return user, token, nil
}

// Login checks credentials and returns an access token
// Returns apperrors.ErrUserNotFound for unknown email and wrong password
// alike, so callers can't probe which emails exist
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, "", apperrors.ErrUserNotFound
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, "", apperrors.ErrUserNotFound
	}

	token, err := s.token.Generate(user)
	if err != nil {
		return models.User{}, "", err
	}

	return user, token, nil
}

// Auth resolves the user behind a request's Bearer token
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	header := r.Header.Get("Authorization")
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenString == "" {
		return models.User{}, errors.New("authorization header missing or malformed")
	}

	claims, err := s.token.Parse(tokenString)
	if err != nil {
		return models.User{}, err
	}

	return s.userRepo.GetUserByID(ctx, claims.UserID)
}
