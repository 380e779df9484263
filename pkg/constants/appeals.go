package constants

// Коды статусов обращения (appeal_statuses.status_const).
const (
	AppealStatusModeration               = "MODERATION"
	AppealStatusConsideration            = "CONSIDERATION"
	AppealStatusInWork                   = "IN_WORK"
	AppealStatusCloseBossConfirmation    = "CLOSE_BOSS_CONFIRMATION"
	AppealStatusCloseControlConfirmation = "CLOSE_CONTROL_CONFIRMATION"
	AppealStatusRejected                 = "REJECTED"
	AppealStatusResolved                 = "RESOLVED"
	AppealStatusNeedRead                 = "NEED_READ"
)

// Статусы, обращения в которых получает вновь назначенный админ/модератор.
var ConnectableAppealStatuses = []string{AppealStatusModeration, AppealStatusConsideration}

// Типы записей истории обращения. Значение APPEAL_REJECTED хранится как "REJECTED".
const (
	HistoryAppealCreated         = "APPEAL_CREATED"
	HistoryAppealToWork          = "APPEAL_TO_WORK"
	HistoryAppealModeration      = "APPEAL_MODERATION"
	HistoryDepartmentAssigned    = "DEPARTMENT_ASSIGNED"
	HistoryAppealDelegate        = "APPEAL_DELEGATE"
	HistoryAppealResolved        = "APPEAL_RESOLVED"
	HistoryAppealRejected        = "REJECTED"
	HistoryAppealRead            = "APPEAL_READ"
	HistoryGorodClosed           = "GOROD_CLOSED"
	HistoryBossClosed            = "BOSS_CLOSED"
	HistoryBossRejected          = "BOSS_REJECTED"
	HistoryControlRejected       = "CONTROL_REJECTED"
	HistoryDepartmentConnected   = "DEPARTMENT_CONNECTED"
	HistoryOrganizationConnected = "ORGANIZATION_CONNECTED"
	HistoryDeputyConnected       = "DEPUTY_CONNECTED"
	HistoryNewMessage            = "NEW_MESSAGE"
	HistoryCompanyConnected      = "COMPANY_CONNECTED"
)

var AllHistoryTypes = []string{
	HistoryAppealCreated, HistoryAppealToWork, HistoryAppealModeration, HistoryDepartmentAssigned,
	HistoryAppealDelegate, HistoryAppealResolved, HistoryAppealRejected, HistoryAppealRead,
	HistoryGorodClosed, HistoryBossClosed, HistoryBossRejected, HistoryControlRejected,
	HistoryDepartmentConnected, HistoryOrganizationConnected, HistoryDeputyConnected,
	HistoryNewMessage, HistoryCompanyConnected,
}

func IsHistoryType(t string) bool {
	for _, h := range AllHistoryTypes {
		if h == t {
			return true
		}
	}
	return false
}

// Шаблон комментария при отправке обращения на модерацию.
const ModerationCommentFormat = "Сообщение № %d было отправлено на модерацию"
