package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Freeeeeet/quran_academy/internal/model"
)

// RoleListener получает смену роли участника до того, как её увидит интерфейс
type RoleListener interface {
	OnRoleChange(participantID int64, role model.Role)
}

type UserService struct {
	userRepo     UserStore
	roleListener RoleListener
	adminIDs     map[int64]struct{}
	logger       *zap.Logger
}

func NewUserService(userRepo UserStore, roleListener RoleListener, adminTelegramIDs []int64, logger *zap.Logger) *UserService {
	admins := make(map[int64]struct{}, len(adminTelegramIDs))
	for _, id := range adminTelegramIDs {
		admins[id] = struct{}{}
	}

	return &UserService{
		userRepo:     userRepo,
		roleListener: roleListener,
		adminIDs:     admins,
		logger:       logger,
	}
}

// RegisterUser регистрирует или обновляет пользователя
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error) {
	existingUser, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, &TransportError{Op: "check existing user", Err: err}
	}

	if existingUser != nil {
		existingUser.Username = username
		existingUser.FirstName = firstName
		existingUser.LastName = lastName
		existingUser.LanguageCode = languageCode

		if err := s.userRepo.Update(ctx, existingUser); err != nil {
			return nil, &TransportError{Op: "update user", Err: err}
		}

		// Роль не менялась, выбранная вкладка сохраняется
		return existingUser, nil
	}

	// По умолчанию студент; администраторы задаются конфигурацией
	role := model.RoleStudent
	if _, ok := s.adminIDs[telegramID]; ok {
		role = model.RoleAdmin
	}

	user := &model.User{
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, &TransportError{Op: "create user", Err: err}
	}

	s.roleListener.OnRoleChange(user.ID, user.Role)

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
		zap.String("role", string(role)),
	)

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, &TransportError{Op: "get user", Err: err}
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, &TransportError{Op: "get user", Err: err}
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListTeachers список учителей для выбора при бронировании
func (s *UserService) ListTeachers(ctx context.Context) ([]*model.User, error) {
	teachers, err := s.userRepo.ListByRole(ctx, model.RoleInstructor)
	if err != nil {
		return nil, &TransportError{Op: "list teachers", Err: err}
	}
	return teachers, nil
}

// ListStudents список студентов для учителя и администратора
func (s *UserService) ListStudents(ctx context.Context) ([]*model.User, error) {
	students, err := s.userRepo.ListByRole(ctx, model.RoleStudent)
	if err != nil {
		return nil, &TransportError{Op: "list students", Err: err}
	}
	return students, nil
}

// ChangeRole меняет роль пользователя; доступно только администратору.
// Навигация участника сбрасывается на экран новой роли в том же вызове.
func (s *UserService) ChangeRole(ctx context.Context, admin model.Actor, userID int64, role model.Role) (*model.User, error) {
	if admin.Role != model.RoleAdmin {
		return nil, ErrNotPermitted
	}

	if _, err := model.ParseRole(string(role)); err != nil {
		verr := &ValidationError{}
		verr.add("role", err.Error())
		return nil, verr
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Role == role {
		return user, nil
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, &TransportError{Op: "update user role", Err: fmt.Errorf("user %d: %w", userID, err)}
	}

	previous := user.Role
	user.Role = role
	s.roleListener.OnRoleChange(userID, role)

	s.logger.Info("User role changed",
		zap.Int64("user_id", userID),
		zap.Int64("admin_id", admin.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(role)),
	)

	return user, nil
}
