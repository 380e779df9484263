package constants

//============== UPLOAD CATEGORIES ==============

// Каталоги внутри MEDIA_ROOT, в которые складываются загруженные файлы.
const (
	UploadCategoryAppeals = "appeals"
	UploadCategoryAvatars = "avatars"
)

//============== CACHE KEYS ==============

const (
	// Счётчик неудачных попыток входа. Формат: login_attempts:<email>
	CacheKeyLoginAttempts = "login_attempts:%s"

	// Версия списка обращений; меняется при любой записи обращения.
	CacheKeyAppealsVersion = "appeals:version"

	// Страница списка обращений. Формат: appeals:list:v<version>:<page>:<per_page>
	CacheKeyAppealsPage = "appeals:list:v%d:%d:%d"
)

//============== VISIBILITY ==============

// Размер пачки при массовой привязке сотрудника к обращениям.
const AppealConnectChunkSize = 30

//============== PAGINATION ==============

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
	MaxPage        = 1_000_000
)
