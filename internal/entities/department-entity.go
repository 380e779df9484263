package entities

import "appeals-system/pkg/types"

type Department struct {
	ID         uint64  `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	DirectorID *uint64 `json:"director_id" db:"director_id"`
	ControlID  *uint64 `json:"control_id" db:"control_id"`

	types.BaseEntity
}

type Employee struct {
	ID           uint64  `json:"id" db:"id"`
	UserID       uint64  `json:"user_id" db:"user_id"`
	DepartmentID uint64  `json:"department_id" db:"department_id"`
	Position     *string `json:"position" db:"position"`

	types.BaseEntity
}

type SocialGroup struct {
	ID       uint64 `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	IsActive bool   `json:"is_active" db:"is_active"`

	types.BaseEntity
}

// Deputy - депутат округа; на него может ссылаться обращение.
type Deputy struct {
	ID         uint64  `json:"id" db:"id"`
	FirstName  string  `json:"first_name" db:"first_name"`
	LastName   string  `json:"last_name" db:"last_name"`
	Patronymic *string `json:"patronymic" db:"patronymic"`
	District   *string `json:"district" db:"district"`
	Phone      *string `json:"phone" db:"phone"`

	types.BaseEntity
}
