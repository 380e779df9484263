package constants

// Теги ролей, хранятся в users.roles (text[]).
const (
	AdminRole          = "ADMIN_ROLE"
	CityHeadRole       = "CITY_HEAD_ROLE"
	ControlRole        = "CONTROL_ROLE"
	DepartmentHeadRole = "DEPARTMENT_HEAD_ROLE"
	ModeratorRole      = "MODERATOR_ROLE"
	EmployeeRole       = "EMPLOYEE_ROLE"
	SimpleUserRole     = "SIMPLE_USER_ROLE"
	BusinessRole       = "BUSINESS_ROLE"
)

var AllRoles = []string{
	AdminRole, CityHeadRole, ControlRole, DepartmentHeadRole,
	ModeratorRole, EmployeeRole, SimpleUserRole, BusinessRole,
}

// PrivilegedRoles видят все обращения на модерации и рассмотрении.
var PrivilegedRoles = []string{AdminRole, ModeratorRole}

// OperationalRoles сохраняются при смене ролей администратором.
var OperationalRoles = []string{EmployeeRole, DepartmentHeadRole, ControlRole}

func IsKnownRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

const (
	SexMale      = "MALE"
	SexFemale    = "FEMALE"
	SexNotChosen = "NOT_CHOSEN"
)

var AllSexTypes = []string{SexMale, SexFemale, SexNotChosen}
