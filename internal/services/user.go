package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"appeals-system/internal/dto"
	"appeals-system/internal/entities"
	"appeals-system/internal/repositories"
	"appeals-system/pkg/constants"
)

type UserServiceInterface interface {
	// CityHeadSetup делает пользователя единственным главой города.
	CityHeadSetup(ctx context.Context, payload dto.CityHeadSetupDTO) (*entities.User, error)
	AddControlUser(ctx context.Context, payload dto.AddControlUserDTO) (*entities.User, error)
	AddEmployeeUser(ctx context.Context, payload dto.AddEmployeeUserDTO) (*entities.User, error)
	UpdateAdminUser(ctx context.Context, actingUserID uint64, payload dto.UpdateAdminUserDTO) (*entities.User, error)
	UpdateUserAvatar(ctx context.Context, userID uint64, file dto.UploadedFile) (string, error)
	ActivateUser(ctx context.Context, userID uint64, isActive bool) (*entities.User, error)
}

type UserService struct {
	txManager         repositories.TxManagerInterface
	userRepo          repositories.UserRepositoryInterface
	departmentRepo    repositories.DepartmentRepositoryInterface
	employeeRepo      repositories.EmployeeRepositoryInterface
	socialGroupRepo   repositories.SocialGroupRepositoryInterface
	visibilityService AppealVisibilityServiceInterface
	attachmentService AttachmentServiceInterface
	logger            *zap.Logger
}

func NewUserService(
	txManager repositories.TxManagerInterface,
	userRepo repositories.UserRepositoryInterface,
	departmentRepo repositories.DepartmentRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	socialGroupRepo repositories.SocialGroupRepositoryInterface,
	visibilityService AppealVisibilityServiceInterface,
	attachmentService AttachmentServiceInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{
		txManager:         txManager,
		userRepo:          userRepo,
		departmentRepo:    departmentRepo,
		employeeRepo:      employeeRepo,
		socialGroupRepo:   socialGroupRepo,
		visibilityService: visibilityService,
		attachmentService: attachmentService,
		logger:            logger,
	}
}

func (s *UserService) CityHeadSetup(ctx context.Context, payload dto.CityHeadSetupDTO) (*entities.User, error) {
	var target *entities.User
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		target, err = s.userRepo.FindByEmailInTx(ctx, tx, payload.Email)
		if err != nil {
			return err
		}

		holders, err := s.userRepo.FindByRoleInTx(ctx, tx, constants.CityHeadRole)
		if err != nil {
			return err
		}
		for i := range holders {
			holder := &holders[i]
			if holder.ID == target.ID {
				continue
			}
			holder.RemoveRole(constants.CityHeadRole)
			if err := s.userRepo.UpdateInTx(ctx, tx, holder); err != nil {
				return err
			}
			s.logger.Info("роль главы города снята", zap.Uint64("userID", holder.ID))
		}

		target.AssignRole(constants.CityHeadRole)
		target.Position = payload.Position
		return s.userRepo.UpdateInTx(ctx, tx, target)
	})
	if err != nil {
		s.logger.Error("не удалось назначить главу города", zap.String("email", payload.Email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("назначен глава города", zap.Uint64("userID", target.ID))
	return target, nil
}

func (s *UserService) AddControlUser(ctx context.Context, payload dto.AddControlUserDTO) (*entities.User, error) {
	var user *entities.User
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		user, err = s.userRepo.FindByEmailInTx(ctx, tx, payload.Email)
		if err != nil {
			return err
		}
		user.AssignRole(constants.ControlRole)
		user.Position = payload.Position
		return s.userRepo.UpdateInTx(ctx, tx, user)
	})
	if err != nil {
		s.logger.Error("не удалось добавить контролера", zap.String("email", payload.Email), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// AddEmployeeUser: директор получает DEPARTMENT_HEAD_ROLE и становится директором департамента,
// остальные получают EMPLOYEE_ROLE и запись в employees.
func (s *UserService) AddEmployeeUser(ctx context.Context, payload dto.AddEmployeeUserDTO) (*entities.User, error) {
	logger := s.logger.With(zap.String("email", payload.Email), zap.Uint64("departmentID", payload.DepartmentID))

	var user *entities.User
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		user, err = s.userRepo.FindByEmailInTx(ctx, tx, payload.Email)
		if err != nil {
			return err
		}
		department, err := s.departmentRepo.FindByIDInTx(ctx, tx, payload.DepartmentID)
		if err != nil {
			return err
		}

		user.Position = payload.Position
		if payload.IsDirector {
			user.AssignRole(constants.DepartmentHeadRole)
			if err := s.departmentRepo.UpdateDirectorInTx(ctx, tx, department.ID, user.ID); err != nil {
				return err
			}
		} else {
			user.AssignRole(constants.EmployeeRole)
			employee := &entities.Employee{UserID: user.ID, DepartmentID: department.ID}
			if payload.Position.Valid {
				position := payload.Position.String
				employee.Position = &position
			}
			if err := s.employeeRepo.CreateInTx(ctx, tx, employee); err != nil {
				return err
			}
		}
		return s.userRepo.UpdateInTx(ctx, tx, user)
	})
	if err != nil {
		logger.Error("не удалось добавить сотрудника", zap.Error(err))
		return nil, err
	}

	logger.Info("сотрудник добавлен", zap.Uint64("userID", user.ID), zap.Bool("isDirector", payload.IsDirector))
	return user, nil
}

// UpdateAdminUser меняет роли и профиль. Выдача ADMIN/MODERATOR привязывает пользователя ко всем
// обращениям на модерации и рассмотрении, снятие этих ролей удаляет все его привязки.
func (s *UserService) UpdateAdminUser(ctx context.Context, actingUserID uint64, payload dto.UpdateAdminUserDTO) (*entities.User, error) {
	logger := s.logger.With(zap.Uint64("userID", payload.UserID), zap.Uint64("actingUserID", actingUserID))

	var user *entities.User
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		user, err = s.userRepo.FindByIDInTx(ctx, tx, payload.UserID)
		if err != nil {
			return err
		}

		// снимок до изменения ролей
		wasPrivileged := user.HasAnyRole(constants.PrivilegedRoles...)
		user.SetRoles(mergeRoles(payload.Roles, user.Roles))

		switch {
		case containsAny(payload.Roles, constants.PrivilegedRoles):
			if _, err := s.visibilityService.ConnectToAllEligibleInTx(ctx, tx, actingUserID, user.ID); err != nil {
				return err
			}
		case wasPrivileged && !user.HasAnyRole(constants.PrivilegedRoles...):
			if _, err := s.visibilityService.DisconnectUserFromAppealsInTx(ctx, tx, user.ID); err != nil {
				return err
			}
		}

		if payload.SocialGroupID != nil {
			group, err := s.socialGroupRepo.FindByIDInTx(ctx, tx, *payload.SocialGroupID)
			if err != nil {
				return err
			}
			user.SocialGroupID = &group.ID
		}
		applyProfile(user, payload)
		return s.userRepo.UpdateInTx(ctx, tx, user)
	})
	if err != nil {
		logger.Error("не удалось обновить пользователя", zap.Error(err))
		return nil, err
	}

	logger.Info("пользователь обновлен администратором", zap.Strings("roles", user.Roles))
	return user, nil
}

func (s *UserService) UpdateUserAvatar(ctx context.Context, userID uint64, file dto.UploadedFile) (string, error) {
	url, err := s.attachmentService.StoreAvatar(file)
	if err != nil {
		return "", err
	}

	var oldAvatar null.String
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		user, err := s.userRepo.FindByIDInTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		oldAvatar = user.Avatar
		user.Avatar = null.StringFrom(url)
		return s.userRepo.UpdateInTx(ctx, tx, user)
	})
	if err != nil {
		s.logger.Error("не удалось обновить аватар", zap.Uint64("userID", userID), zap.Error(err))
		s.attachmentService.RemoveFiles([]string{url})
		return "", err
	}

	if oldAvatar.Valid && oldAvatar.String != "" {
		s.attachmentService.RemoveFiles([]string{oldAvatar.String})
	}
	return url, nil
}

func (s *UserService) ActivateUser(ctx context.Context, userID uint64, isActive bool) (*entities.User, error) {
	var user *entities.User
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		user, err = s.userRepo.FindByIDInTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		user.IsActive = isActive
		return s.userRepo.UpdateInTx(ctx, tx, user)
	})
	if err != nil {
		s.logger.Error("не удалось изменить активность пользователя", zap.Uint64("userID", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("активность пользователя изменена", zap.Uint64("userID", userID), zap.Bool("isActive", isActive))
	return user, nil
}

// mergeRoles: новые роли, затем сохраняемые операционные роли в текущем порядке.
// Если итог пуст - SIMPLE_USER_ROLE.
func mergeRoles(newRoles, current []string) []string {
	merged := make([]string, 0, len(newRoles)+len(constants.OperationalRoles))
	merged = append(merged, newRoles...)
	for _, role := range current {
		if containsAny([]string{role}, constants.OperationalRoles) {
			merged = append(merged, role)
		}
	}
	if len(merged) == 0 {
		return []string{constants.SimpleUserRole}
	}
	return merged
}

func containsAny(roles, wanted []string) bool {
	for _, r := range roles {
		for _, w := range wanted {
			if r == w {
				return true
			}
		}
	}
	return false
}

func applyProfile(user *entities.User, payload dto.UpdateAdminUserDTO) {
	user.FirstName = payload.FirstName
	if payload.LastName.Valid {
		user.LastName = payload.LastName
	}
	if payload.Patronymic.Valid {
		user.Patronymic = payload.Patronymic
	}
	if payload.Phone.Valid {
		user.Phone = payload.Phone
	}
	if payload.IsActive != nil {
		user.IsActive = *payload.IsActive
	}
}
