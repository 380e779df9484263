package dto

import (
	"github.com/aarondl/null/v8"

	"appeals-system/internal/entities"
)

type RegisterDTO struct {
	FirstName            string      `json:"first_name" validate:"required,max=55"`
	LastName             string      `json:"last_name" validate:"required,max=55"`
	Patronymic           string      `json:"patronymic" validate:"required,max=55"`
	Email                string      `json:"email" validate:"required,email"`
	Phone                string      `json:"phone" validate:"required,phone_digits"`
	Sex                  null.String `json:"sex" validate:"omitempty,sex_type"`
	Password             string      `json:"password" validate:"required,min=8"`
	PasswordConfirmation string      `json:"password_confirmation" validate:"required"`
	SocialGroupID        uint64      `json:"social_group_id" validate:"required"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponseDTO struct {
	User        *entities.User `json:"user"`
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
}
