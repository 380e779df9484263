package seeders

import "appeals-system/pkg/constants"

type statusSeed struct {
	Title       string
	StatusConst string
}

var statusesData = []statusSeed{
	{"На модерации", constants.AppealStatusModeration},
	{"На рассмотрении", constants.AppealStatusConsideration},
	{"В работе", constants.AppealStatusInWork},
	{"Ожидает подтверждения руководителя", constants.AppealStatusCloseBossConfirmation},
	{"Ожидает подтверждения контроля", constants.AppealStatusCloseControlConfirmation},
	{"Отклонено", constants.AppealStatusRejected},
	{"Решено", constants.AppealStatusResolved},
	{"Требует ознакомления", constants.AppealStatusNeedRead},
}

var socialGroupsData = []string{
	"Пенсионеры",
	"Студенты",
	"Люди с инвалидностью",
	"Многодетные семьи",
	"Предприниматели",
	"Другое",
}

// департамент -> темы обращений
var departmentThemesData = map[string][]string{
	"Жилищно-коммунальное хозяйство": {"Водоснабжение", "Отопление", "Вывоз мусора"},
	"Транспорт и дороги":             {"Ремонт дорог", "Общественный транспорт", "Освещение улиц"},
	"Социальная защита":              {"Пособия и выплаты", "Прочее"},
}
