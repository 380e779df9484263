package types

import "math"

// Pagination - параметры страницы списка. Page начинается с 1.
type Pagination struct {
	Page    uint64
	PerPage uint64
}

// Offset не превышает максимум bigint: за пределами данных получается пустая страница.
func (p Pagination) Offset() uint64 {
	if p.Page <= 1 || p.PerPage == 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt64/p.PerPage {
		return math.MaxInt64
	}
	return (p.Page - 1) * p.PerPage
}
