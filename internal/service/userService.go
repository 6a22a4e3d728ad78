package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	repository "github.com/samiserrag/denver-songwriters-collective-sub014/internal/database/postgres"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

// RegisterRequest represents the data needed to register a member
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest represents the login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userService struct {
	userRepo      repository.UserRepository
	jwtSecret     []byte
	jwtExpiration time.Duration
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) UserService {
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	return &userService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExpiration,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Email:        email,
		Name:         req.Name,
		Role:         entity.RoleMember,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": email}).Info("user registered")
	return user, nil
}

func (s *userService) Login(ctx context.Context, req *LoginRequest) (string, *entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Same error for unknown email and wrong password.
		return "", nil, entity.ErrInvalidCredentials
	}

	if !checkPassword(user.PasswordHash, req.Password) {
		return "", nil, entity.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}

func (s *userService) issueToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseToken validates a bearer token and returns the user id it names.
func (s *userService) ParseToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.jwtSecret, nil
		})
	if err != nil || !token.Valid {
		return 0, entity.ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, entity.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, entity.ErrUnauthorized
	}
	return userID, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]*entity.User, error) {
	return s.userRepo.GetAll(ctx)
}

func (s *userService) LinkTelegram(ctx context.Context, userID int64, telegramID string) error {
	if telegramID == "" {
		return entity.ErrInvalidInput
	}
	return s.userRepo.UpdateTelegramID(ctx, userID, telegramID)
}
