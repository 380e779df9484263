package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"appeals-system/pkg/postgis"
	"appeals-system/pkg/types"
)

type AppealStatus struct {
	ID          uint64 `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	StatusConst string `json:"status_const" db:"status_const"`
}

type AppealTheme struct {
	ID           uint64 `json:"id" db:"id"`
	Theme        string `json:"theme" db:"theme"`
	DepartmentID uint64 `json:"department_id" db:"department_id"`
	IsHidden     bool   `json:"is_hidden" db:"is_hidden"`
}

// UserAppeal - обращение гражданина.
type UserAppeal struct {
	ID               uint64         `db:"id"`
	CreatorID        uint64         `db:"creator_id"`
	AppealThemeID    uint64         `db:"appeal_theme_id"`
	ExecutorID       *uint64        `db:"executor_id"`
	DeputyID         *uint64        `db:"deputy_id"`
	StatusID         uint64         `db:"status_id"`
	ProblemBody      string         `db:"problem_body"`
	Address          null.String    `db:"address"`
	PostAddress      null.String    `db:"post_address"`
	Note             null.String    `db:"note"`
	IsActive         bool           `db:"is_active"`
	Rate             int            `db:"rate"`
	DispatcherCreate bool           `db:"dispatcher_create"`
	IsHidden         bool           `db:"is_hidden"`
	ExpiredAt        *time.Time     `db:"expired_at"`
	UsersVoted       []int64        `db:"users_voted"`
	Locate           *postgis.Point `db:"-"`

	types.BaseEntity
	types.SoftDelete

	// заполняются только при явной загрузке связей
	Status      *AppealStatus      `db:"-"`
	Theme       *AppealTheme       `db:"-"`
	Attachments []AppealAttachment `db:"-"`
}

type AppealAttachment struct {
	ID           uint64    `json:"id" db:"id"`
	Link         string    `json:"link" db:"link"`
	Meta         string    `json:"meta" db:"meta"`
	Name         string    `json:"name" db:"name"`
	UserAppealID uint64    `json:"user_appeal_id" db:"user_appeal_id"`
	CreatorID    uint64    `json:"creator_id" db:"creator_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AppealUser - связь сотрудника с обращением, которое он видит.
type AppealUser struct {
	ID         uint64      `json:"id" db:"id"`
	AppealID   uint64      `json:"appeal_id" db:"appeal_id"`
	EmployeeID *uint64     `json:"employee_id" db:"employee_id"`
	CreatorID  *uint64     `json:"creator_id" db:"creator_id"`
	Comment    null.String `json:"comment" db:"comment"`
	ClosedDate *time.Time  `json:"closed_date" db:"closed_date"`
	IsPrivate  bool        `json:"is_private" db:"is_private"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

type AppealHistory struct {
	ID                uint64      `json:"id" db:"id"`
	AppealID          uint64      `json:"appeal_id" db:"appeal_id"`
	CreatorID         *uint64     `json:"creator_id" db:"creator_id"`
	ConnectedPersonID *uint64     `json:"connected_person_id" db:"connected_person_id"`
	Comment           string      `json:"comment" db:"comment"`
	Type              string      `json:"type" db:"type"`
	Meta              null.String `json:"meta" db:"meta"`
	IsPrivate         bool        `json:"is_private" db:"is_private"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
}

// AppealReportItem - строка отчёта по обращениям.
type AppealReportItem struct {
	AppealID    uint64
	CreatedAt   time.Time
	CreatorName string
	ThemeName   string
	StatusTitle string
	ExecutorFio null.String
	Address     null.String
	ProblemBody string
	IsActive    bool
}

type AppealReportFilter struct {
	DateFrom     *time.Time
	DateTo       *time.Time
	StatusConsts []string
	ThemeIDs     []uint64
	Page         uint64
	PerPage      uint64
}
