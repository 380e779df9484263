package controllers

import (
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/labstack/echo/v4"

	"appeals-system/pkg/config"
	apperrors "appeals-system/pkg/errors"
)

// bindAndValidate читает тело запроса в payload и проверяет validate-теги.
func bindAndValidate(c echo.Context, payload interface{}) error {
	if err := c.Bind(payload); err != nil {
		return fmt.Errorf("неверный формат данных: %v: %w", err, apperrors.ErrBadRequest)
	}
	return c.Validate(payload)
}

func parseIDParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

// checkUpload сверяет файл с ограничениями контекста загрузки.
func checkUpload(field string, header *multipart.FileHeader, uploadContext string) error {
	rules := config.UploadContexts[uploadContext]
	if rules.MaxSizeMB > 0 && header.Size > rules.MaxBytes() {
		return apperrors.NewValidationError(field, fmt.Sprintf("file %s exceeds %d MB", header.Filename, rules.MaxSizeMB))
	}
	if !rules.Allows(header.Filename) {
		return apperrors.NewValidationError(field, fmt.Sprintf("file type of %s is not allowed", header.Filename))
	}
	return nil
}
