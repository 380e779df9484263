package utils

import (
	"context"

	"appeals-system/internal/entities"
	"appeals-system/pkg/contextkeys"
	apperrors "appeals-system/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

// GetUserFromCtx - пользователь, загруженный AuthMiddleware.
func GetUserFromCtx(ctx context.Context) (*entities.User, error) {
	user, ok := ctx.Value(contextkeys.UserKey).(*entities.User)
	if !ok || user == nil {
		return nil, apperrors.ErrUserNotFoundInContext
	}
	return user, nil
}
