package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/therealadik/cashcards-api/internal/models"
	"github.com/therealadik/cashcards-api/internal/service"
)

type contextKey string

const OwnerKey contextKey = "owner"

var ErrNoOwner = errors.New("владелец не найден в контексте")

type AuthMiddleware struct {
	authService service.AuthService
	logger      *logrus.Logger
}

func NewAuthMiddleware(authService service.AuthService, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      logger,
	}
}

// Middleware аутентифицирует запрос (Basic или Bearer) и кладет логин
// вызывающего в контекст. Пользователь без роли CARD-OWNER получает 403
// до любых решений по конкретной карте.
func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authenticate(r)
		if err != nil {
			m.logger.WithError(err).Warn("Ошибка аутентификации")
			http.Error(w, "Требуется авторизация", http.StatusUnauthorized)
			return
		}

		if user.Role != models.RoleCardOwner {
			m.logger.Warnf("Доступ запрещен для пользователя %s: роль %s", user.Login, user.Role)
			http.Error(w, "Доступ запрещен", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), OwnerKey, user.Login)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*models.User, error) {
	if login, password, ok := r.BasicAuth(); ok {
		return m.authService.Authenticate(r.Context(), login, password)
	}

	const bearerPrefix = "Bearer "
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return m.authService.ParseToken(strings.TrimPrefix(authHeader, bearerPrefix))
	}

	return nil, errors.New("отсутствует заголовок Authorization")
}

func GetOwner(ctx context.Context) (string, error) {
	owner, ok := ctx.Value(OwnerKey).(string)
	if !ok {
		return "", ErrNoOwner
	}
	return owner, nil
}
