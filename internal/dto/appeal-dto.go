package dto

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/null/v8"

	"appeals-system/internal/entities"
	apperrors "appeals-system/pkg/errors"
	"appeals-system/pkg/postgis"
)

// AppealFormDTO - поля multipart-формы создания обращения.
type AppealFormDTO struct {
	AppealThemeID uint64 `form:"appeal_theme_id" validate:"required"`
	ProblemBody   string `form:"problem_body" validate:"required,max=700"`
	Address       string `form:"address" validate:"required"`
	Locate        string `form:"locate" validate:"required"`
	IsActive      bool   `form:"is_active"`
}

// AppealUpdateFormDTO - форма редактирования. Координаты задаются только при создании, поле locate игнорируется.
type AppealUpdateFormDTO struct {
	AppealThemeID uint64 `form:"appeal_theme_id" validate:"required"`
	ProblemBody   string `form:"problem_body" validate:"required,max=700"`
	Address       string `form:"address" validate:"required"`
	IsActive      bool   `form:"is_active"`
}

// AppealInput - проверенные данные обращения для сервиса.
type AppealInput struct {
	AppealThemeID uint64
	ProblemBody   string
	Address       string
	Locate        postgis.Point
	IsActive      bool
}

// ParseLocate разбирает строку "lat,lng". Ровно две числовые координаты, иначе ошибка поля locate.
func ParseLocate(raw string) (postgis.Point, error) {
	invalid := apperrors.NewValidationError("locate", "Locate must be coords")

	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return postgis.Point{}, invalid
	}

	coords := make([]float64, 2)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return postgis.Point{}, invalid
		}
		coords[i] = v
	}

	if coords[0] < -90 || coords[0] > 90 || coords[1] < -180 || coords[1] > 180 {
		return postgis.Point{}, invalid
	}
	return postgis.NewPoint(coords[0], coords[1]), nil
}

func (f AppealFormDTO) ToInput() (AppealInput, error) {
	point, err := ParseLocate(f.Locate)
	if err != nil {
		return AppealInput{}, err
	}
	return AppealInput{
		AppealThemeID: f.AppealThemeID,
		ProblemBody:   f.ProblemBody,
		Address:       f.Address,
		Locate:        point,
		IsActive:      f.IsActive,
	}, nil
}

func (f AppealUpdateFormDTO) ToInput() AppealInput {
	return AppealInput{
		AppealThemeID: f.AppealThemeID,
		ProblemBody:   f.ProblemBody,
		Address:       f.Address,
		IsActive:      f.IsActive,
	}
}

// MoveAppealToWorkDTO. DeputyID принимается, но пока не назначается.
type MoveAppealToWorkDTO struct {
	AppealID      uint64      `json:"-"`
	AppealThemeID uint64      `json:"appeal_theme_id" validate:"required"`
	DeputyID      *uint64     `json:"deputy_id" validate:"omitempty"`
	Note          null.String `json:"note" validate:"omitempty,max=2000"`
	IsActive      *bool       `json:"is_active"`
}

type LocateDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type AppealDTO struct {
	ID               uint64                      `json:"id"`
	CreatorID        uint64                      `json:"creator_id"`
	AppealThemeID    uint64                      `json:"appeal_theme_id"`
	ExecutorID       *uint64                     `json:"executor_id"`
	DeputyID         *uint64                     `json:"deputy_id"`
	StatusID         uint64                      `json:"status_id"`
	ProblemBody      string                      `json:"problem_body"`
	Address          null.String                 `json:"address"`
	PostAddress      null.String                 `json:"post_address"`
	Note             null.String                 `json:"note"`
	IsActive         bool                        `json:"is_active"`
	Rate             int                         `json:"rate"`
	DispatcherCreate bool                        `json:"dispatcher_create"`
	IsHidden         bool                        `json:"is_hidden"`
	ExpiredAt        *time.Time                  `json:"expired_at"`
	UsersVoted       []int64                     `json:"users_voted"`
	Locate           *LocateDTO                  `json:"locate"`
	CreatedAt        *time.Time                  `json:"created_at"`
	UpdatedAt        *time.Time                  `json:"updated_at"`
	Status           *entities.AppealStatus      `json:"status,omitempty"`
	Theme            *entities.AppealTheme       `json:"theme,omitempty"`
	Attachments      []entities.AppealAttachment `json:"attachments,omitempty"`
}

func NewAppealDTO(a *entities.UserAppeal) AppealDTO {
	out := AppealDTO{
		ID:               a.ID,
		CreatorID:        a.CreatorID,
		AppealThemeID:    a.AppealThemeID,
		ExecutorID:       a.ExecutorID,
		DeputyID:         a.DeputyID,
		StatusID:         a.StatusID,
		ProblemBody:      a.ProblemBody,
		Address:          a.Address,
		PostAddress:      a.PostAddress,
		Note:             a.Note,
		IsActive:         a.IsActive,
		Rate:             a.Rate,
		DispatcherCreate: a.DispatcherCreate,
		IsHidden:         a.IsHidden,
		ExpiredAt:        a.ExpiredAt,
		UsersVoted:       a.UsersVoted,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
		Status:           a.Status,
		Theme:            a.Theme,
		Attachments:      a.Attachments,
	}
	if out.UsersVoted == nil {
		out.UsersVoted = []int64{}
	}
	if a.Locate != nil {
		out.Locate = &LocateDTO{Lat: a.Locate.Lat, Lng: a.Locate.Lng}
	}
	return out
}

func NewAppealDTOs(appeals []entities.UserAppeal) []AppealDTO {
	out := make([]AppealDTO, len(appeals))
	for i := range appeals {
		out[i] = NewAppealDTO(&appeals[i])
	}
	return out
}

type AppealReportItemDTO struct {
	AppealID    uint64 `json:"appeal_id"`
	CreatedAt   string `json:"created_at"`
	CreatorName string `json:"creator_name"`
	ThemeName   string `json:"theme_name"`
	StatusTitle string `json:"status_title"`
	ExecutorFio string `json:"executor_fio"`
	Address     string `json:"address"`
	ProblemBody string `json:"problem_body"`
	IsActive    bool   `json:"is_active"`
}
