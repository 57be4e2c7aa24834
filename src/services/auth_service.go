package services

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-chi/jwtauth"
	"golang.org/x/crypto/pbkdf2"

	"stocksim/src/models"
	"stocksim/src/repositories"
	"stocksim/src/schemas"
	"stocksim/src/utils"
)

const (
	pbkdf2Iterations  = 100000
	pbkdf2KeyLength   = 32
	minPasswordLength = 6
)

type AuthServiceI interface {
	Register(ctx context.Context, email, password, name string) (*schemas.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*schemas.AuthResponse, error)
}

type AuthService struct {
	userRepository repositories.UserRepository
	tokenAuth      *jwtauth.JWTAuth
	tokenTTL       time.Duration
}

func NewAuthService(userRepository repositories.UserRepository, tokenAuth *jwtauth.JWTAuth, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		tokenAuth:      tokenAuth,
		tokenTTL:       tokenTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*schemas.AuthResponse, error) {
	if len(password) < minPasswordLength {
		return nil, utils.BadRequest(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, utils.BadRequest("email is required")
	}

	existing, err := s.userRepository.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, utils.BadRequest("email already registered")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}
	if err := s.userRepository.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.authResponse(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*schemas.AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepository.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || !verifyPassword(password, user.PasswordHash) {
		return nil, utils.Unauthorized("invalid email or password")
	}

	return s.authResponse(user)
}

func (s *AuthService) authResponse(user *models.User) (*schemas.AuthResponse, error) {
	claims := map[string]interface{}{
		"user_id": int64(user.ID),
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}
	_, token, err := s.tokenAuth.Encode(claims)
	if err != nil {
		return nil, fmt.Errorf("encode token: %w", err)
	}

	return &schemas.AuthResponse{
		User: schemas.UserResponse{
			ID:    int64(user.ID),
			Email: user.Email,
			Name:  user.Name,
		},
		Token: token,
	}, nil
}

// hashPassword derives a salted PBKDF2-SHA256 hash, stored as
// "saltHex:derivedHex" so the salt travels with the hash.
func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	derived := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(derived), nil
}

func verifyPassword(password, stored string) bool {
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	derived := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return hmac.Equal(derived, expected)
}
