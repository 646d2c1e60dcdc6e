package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/therealadik/cashcards-api/internal/config"
	"github.com/therealadik/cashcards-api/internal/dto"
	"github.com/therealadik/cashcards-api/internal/models"
	"github.com/therealadik/cashcards-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("неверные учетные данные")

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (int64, error)
	Login(ctx context.Context, req dto.LoginRequest) (string, error)
	Authenticate(ctx context.Context, login, password string) (*models.User, error)
	ParseToken(tokenString string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	authCfg  config.AuthConfig
}

func NewAuthService(userRepo repository.UserRepository, authCfg config.AuthConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		authCfg:  authCfg,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (int64, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	user := &models.User{
		Login:    req.Login,
		Password: string(hashedPassword),
		Role:     models.RoleCardOwner,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// Authenticate проверяет пару логин/пароль. Неизвестный логин и неверный
// пароль наружу неразличимы.
func (s *authService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	user, err := s.userRepo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (string, error) {
	user, err := s.Authenticate(ctx, req.Login, req.Password)
	if err != nil {
		return "", err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", err
	}

	return token, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.Login,
		"role": user.Role,
		"exp":  time.Now().Add(s.authCfg.TokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.authCfg.JWTSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *authService) ParseToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("неожиданный метод подписи токена")
		}
		return []byte(s.authCfg.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("невалидный токен")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("невалидные claims")
	}

	login, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("невалидный логин в токене")
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, errors.New("невалидная роль в токене")
	}

	return &models.User{Login: login, Role: role}, nil
}
