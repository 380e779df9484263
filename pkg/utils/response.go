package utils

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "appeals-system/pkg/errors"
)

// ErrorBody - тело ответа с ошибкой. Detail - строка либо список ошибок полей.
type ErrorBody struct {
	Detail interface{} `json:"detail"`
}

// ErrorList сопоставляет доменные ошибки HTTP-кодам. Порядок важен: ищется первое совпадение.
var ErrorList = []struct {
	Err  error
	Code int
}{
	{apperrors.ErrNotFound, http.StatusNotFound},
	{apperrors.ErrConflict, http.StatusBadRequest},
	{apperrors.ErrBadRequest, http.StatusBadRequest},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
	{apperrors.ErrInvalidToken, http.StatusUnauthorized},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized},
	{apperrors.ErrInvalidSigningMethod, http.StatusUnauthorized},
	{apperrors.ErrEmptyAuthHeader, http.StatusUnauthorized},
	{apperrors.ErrInvalidAuthHeader, http.StatusUnauthorized},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized},
	{apperrors.ErrUserIDNotFoundInContext, http.StatusUnauthorized},
	{apperrors.ErrUserNotFoundInContext, http.StatusUnauthorized},
	{apperrors.ErrForbidden, http.StatusForbidden},
	{apperrors.ErrTooManyAttempts, http.StatusTooManyRequests},
}

// ErrorResponse переводит ошибку в HTTP-ответ. Неизвестные ошибки логируются и отдаются как 500.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	code, body := resolveError(err)
	if code >= http.StatusInternalServerError && logger != nil {
		logger.Error("необработанная ошибка запроса",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
	}
	return c.JSON(code, body)
}

func resolveError(err error) (int, ErrorBody) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, ErrorBody{Detail: validationErr.Fields}
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, ErrorBody{Detail: fromValidator(fieldErrs).Fields}
	}

	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Details != nil {
			return httpErr.Code, ErrorBody{Detail: httpErr.Details}
		}
		return httpErr.Code, ErrorBody{Detail: httpErr.Message}
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return echoErr.Code, ErrorBody{Detail: echoErr.Message}
	}

	for _, e := range ErrorList {
		if errors.Is(err, e.Err) {
			return e.Code, ErrorBody{Detail: err.Error()}
		}
	}
	return http.StatusInternalServerError, ErrorBody{Detail: "Internal server error"}
}

func fromValidator(errs validator.ValidationErrors) *apperrors.ValidationError {
	out := &apperrors.ValidationError{}
	for _, fe := range errs {
		out.Fields = append(out.Fields, apperrors.FieldError{
			Loc:  []string{"body", fe.Field()},
			Msg:  fe.Error(),
			Type: fe.Tag(),
		})
	}
	return out
}
