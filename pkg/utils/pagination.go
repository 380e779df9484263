package utils

import (
	"net/url"
	"strconv"
	"strings"

	"appeals-system/pkg/constants"
	"appeals-system/pkg/types"
)

// ParsePaginationParams читает page и per_page; некорректные значения заменяются умолчаниями,
// слишком большие ограничиваются MaxPage и MaxPerPage.
func ParsePaginationParams(values url.Values) types.Pagination {
	p := types.Pagination{Page: 1, PerPage: constants.DefaultPerPage}

	if raw := values.Get("per_page"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil && v > 0 {
			p.PerPage = min(v, constants.MaxPerPage)
		}
	}
	if raw := values.Get("page"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil && v > 0 {
			p.Page = min(v, constants.MaxPage)
		}
	}
	return p
}

// ParseUint64List разбирает "1,2,3"; пустые элементы пропускаются.
func ParseUint64List(raw string) ([]uint64, error) {
	var ids []uint64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
