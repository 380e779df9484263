package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"appeals-system/internal/dto"
	"appeals-system/internal/entities"
	"appeals-system/internal/repositories"
	"appeals-system/pkg/config"
	"appeals-system/pkg/constants"
	apperrors "appeals-system/pkg/errors"
	"appeals-system/pkg/metrics"
	"appeals-system/pkg/service"
	"appeals-system/pkg/utils"
)

const (
	tokenTypeBearer = "Bearer"

	msgEmailTaken = "User with current email already registered"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, payload dto.RegisterDTO) (*dto.AuthResponseDTO, error)
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	GetUserByID(ctx context.Context, userID uint64) (*entities.User, error)
}

type AuthService struct {
	txManager       repositories.TxManagerInterface
	userRepo        repositories.UserRepositoryInterface
	socialGroupRepo repositories.SocialGroupRepositoryInterface
	cacheRepo       repositories.CacheRepositoryInterface
	jwtService      service.JWTService
	logger          *zap.Logger
	cfg             *config.AuthConfig
}

func NewAuthService(
	txManager repositories.TxManagerInterface,
	userRepo repositories.UserRepositoryInterface,
	socialGroupRepo repositories.SocialGroupRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		txManager:       txManager,
		userRepo:        userRepo,
		socialGroupRepo: socialGroupRepo,
		cacheRepo:       cacheRepo,
		jwtService:      jwtService,
		logger:          logger,
		cfg:             cfg,
	}
}

func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO) (*dto.AuthResponseDTO, error) {
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	logger := s.logger.With(zap.String("email", email))

	if payload.Password != payload.PasswordConfirmation {
		return nil, apperrors.NewValidationError("password_confirmation", "passwords do not match")
	}

	hashed, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	sex := constants.SexNotChosen
	if payload.Sex.Valid {
		sex = payload.Sex.String
	}
	socialGroupID := payload.SocialGroupID

	user := &entities.User{
		FirstName:     payload.FirstName,
		LastName:      null.StringFrom(payload.LastName),
		Patronymic:    null.StringFrom(payload.Patronymic),
		Email:         email,
		Phone:         null.StringFrom(payload.Phone),
		Sex:           sex,
		Password:      hashed,
		IsActive:      true,
		SocialGroupID: &socialGroupID,
		Roles:         []string{constants.SimpleUserRole},
		NotifyActive:  true,
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		exists, err := s.userRepo.ExistsByEmailInTx(ctx, tx, email)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewHttpError(http.StatusBadRequest, msgEmailTaken, apperrors.ErrConflict, nil)
		}

		if _, err := s.socialGroupRepo.FindByIDInTx(ctx, tx, socialGroupID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewHttpError(http.StatusNotFound,
					fmt.Sprintf("Undefined social_group with %d pk", socialGroupID), err, nil)
			}
			return err
		}

		if err := s.userRepo.CreateInTx(ctx, tx, user); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return apperrors.NewHttpError(http.StatusBadRequest, msgEmailTaken, err, nil)
			}
			return err
		}
		return nil
	})
	if err != nil {
		logger.Warn("регистрация отклонена", zap.Error(err))
		return nil, err
	}

	logger.Info("пользователь зарегистрирован", zap.Uint64("userID", user.ID))
	return s.issueToken(user)
}

// Login проверяет пароль; после MaxLoginAttempts неудач подряд email блокируется на LockoutDuration.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	logger := s.logger.With(zap.String("email", email))
	attemptsKey := fmt.Sprintf(constants.CacheKeyLoginAttempts, email)

	if s.isLockedOut(ctx, attemptsKey) {
		logger.Warn("вход заблокирован: слишком много попыток")
		metrics.LoginAttemptsTotal.WithLabelValues("locked").Inc()
		return nil, apperrors.NewHttpError(http.StatusTooManyRequests,
			fmt.Sprintf("Too many login attempts. Try again in %d minutes", int(s.cfg.LockoutDuration.Minutes())),
			apperrors.ErrTooManyAttempts, nil)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, s.loginFailed(ctx, logger, attemptsKey)
	}
	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		return nil, s.loginFailed(ctx, logger, attemptsKey)
	}
	if !user.IsActive {
		logger.Warn("попытка входа неактивного пользователя", zap.Uint64("userID", user.ID))
		metrics.LoginAttemptsTotal.WithLabelValues("inactive").Inc()
		return nil, apperrors.NewHttpError(http.StatusUnauthorized, "User is not active", apperrors.ErrUnauthorized, nil)
	}

	if err := s.cacheRepo.Del(ctx, attemptsKey); err != nil {
		logger.Warn("не удалось сбросить счетчик попыток входа", zap.Error(err))
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	logger.Info("успешный вход", zap.Uint64("userID", user.ID))
	return s.issueToken(user)
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint64) (*entities.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthService) issueToken(user *entities.User) (*dto.AuthResponseDTO, error) {
	token, err := s.jwtService.GenerateAccessToken(user.ID)
	if err != nil {
		s.logger.Error("не удалось выпустить токен", zap.Uint64("userID", user.ID), zap.Error(err))
		return nil, err
	}
	return &dto.AuthResponseDTO{User: user, AccessToken: token, TokenType: tokenTypeBearer}, nil
}

// Недоступность redis не должна мешать входу: ошибки кеша только логируются.
func (s *AuthService) isLockedOut(ctx context.Context, key string) bool {
	if s.cfg.MaxLoginAttempts <= 0 {
		return false
	}
	raw, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("кеш попыток входа недоступен", zap.Error(err))
		}
		return false
	}
	attempts, _ := strconv.Atoi(raw)
	return attempts >= s.cfg.MaxLoginAttempts
}

func (s *AuthService) loginFailed(ctx context.Context, logger *zap.Logger, key string) error {
	metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
	logger.Warn("неверные учетные данные")

	attempts, err := s.cacheRepo.Incr(ctx, key)
	if err != nil {
		logger.Warn("не удалось увеличить счетчик попыток входа", zap.Error(err))
		return apperrors.ErrInvalidCredentials
	}
	if attempts == 1 {
		if err := s.cacheRepo.Expire(ctx, key, s.cfg.LockoutDuration); err != nil {
			logger.Warn("не удалось задать TTL счетчику попыток", zap.Error(err))
		}
	}
	return apperrors.ErrInvalidCredentials
}
