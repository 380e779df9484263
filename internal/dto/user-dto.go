package dto

import "github.com/aarondl/null/v8"

type CityHeadSetupDTO struct {
	Email    string      `json:"email" validate:"required,email"`
	Position null.String `json:"position" validate:"omitempty,max=255"`
}

type AddControlUserDTO struct {
	Email    string      `json:"email" validate:"required,email"`
	Position null.String `json:"position" validate:"omitempty,max=255"`
}

type AddEmployeeUserDTO struct {
	Email        string      `json:"email" validate:"required,email"`
	Position     null.String `json:"position" validate:"omitempty,max=255"`
	DepartmentID uint64      `json:"department_id" validate:"required"`
	IsDirector   bool        `json:"is_director"`
}

// UpdateAdminUserDTO - правка сотрудника администратором. Пустые необязательные поля не меняются.
type UpdateAdminUserDTO struct {
	UserID        uint64      `json:"user_id" validate:"required"`
	Roles         []string    `json:"roles" validate:"omitempty,dive,role_tag"`
	FirstName     string      `json:"first_name" validate:"required,max=150"`
	LastName      null.String `json:"last_name" validate:"omitempty,max=150"`
	Patronymic    null.String `json:"patronymic" validate:"omitempty,max=150"`
	Phone         null.String `json:"phone" validate:"omitempty,phone_digits"`
	SocialGroupID *uint64     `json:"social_group_id" validate:"omitempty"`
	IsActive      *bool       `json:"is_active"`
}
