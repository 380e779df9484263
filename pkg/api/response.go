package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response - конверт успешного ответа: {"data": ...}
type Response[T any] struct {
	Data T `json:"data"`
}

type ListResponse[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type PaginationMeta struct {
	Page    uint64 `json:"page"`
	PerPage uint64 `json:"per_page"`
	Total   uint64 `json:"total"`
}

// SuccessOne - для возврата одного объекта
func SuccessOne[T any](c echo.Context, data T) error {
	return c.JSON(http.StatusOK, Response[T]{Data: data})
}

func SuccessList[T any](c echo.Context, list []T, meta PaginationMeta) error {
	if list == nil {
		list = make([]T, 0)
	}
	return c.JSON(http.StatusOK, ListResponse[T]{Data: list, Meta: meta})
}
