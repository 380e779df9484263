package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"appeals-system/internal/entities"
	"appeals-system/pkg/contextkeys"
	apperrors "appeals-system/pkg/errors"
	"appeals-system/pkg/service"
	"appeals-system/pkg/utils"
)

// UserLoader - откуда middleware берет пользователя по id из токена.
type UserLoader interface {
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	users      UserLoader
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, users UserLoader, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		users:      users,
		logger:     logger,
	}
}

// Auth проверяет Bearer-токен и кладет в контекст запроса id и самого пользователя.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Debug("AuthMiddleware: пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			m.logger.Warn("AuthMiddleware: неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx := c.Request().Context()
		user, err := m.users.FindByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				m.logger.Warn("AuthMiddleware: пользователь из токена не найден", zap.Uint64("userID", claims.UserID))
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
			}
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx = context.WithValue(ctx, contextkeys.UserIDKey, user.ID)
		ctx = context.WithValue(ctx, contextkeys.UserKey, user)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireRoles пропускает только пользователей хотя бы с одной из ролей. Ставится после Auth.
func (m *AuthMiddleware) RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := utils.GetUserFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}
			if !user.HasAnyRole(roles...) {
				m.logger.Warn("доступ запрещен: нет нужной роли",
					zap.Uint64("userID", user.ID), zap.Strings("required", roles), zap.String("path", c.Path()))
				return utils.ErrorResponse(c, apperrors.NewHttpError(
					http.StatusForbidden, "User has no "+roleNames(roles)+" role", apperrors.ErrForbidden, nil), m.logger)
			}
			return next(c)
		}
	}
}

// roleNames: [ADMIN_ROLE MODERATOR_ROLE] -> "admin or moderator"
func roleNames(roles []string) string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, strings.ToLower(strings.TrimSuffix(r, "_ROLE")))
	}
	return strings.Join(names, " or ")
}
