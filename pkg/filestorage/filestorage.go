package filestorage

import (
	"io"
	"strings"
)

// FileStorageInterface - хранилище загруженных файлов. Save возвращает публичный URL.
type FileStorageInterface interface {
	Save(file io.Reader, originalFileName string, category string) (url string, err error)
	Delete(url string) error
}

type FileType string

const (
	FileTypeVideo    FileType = "video"
	FileTypeImage    FileType = "image"
	FileTypeIcon     FileType = "icon"
	FileTypeDocument FileType = "document"
	FileTypeAudio    FileType = "audio"
	FileTypeUnknown  FileType = ""
)

var fileTypesByExt = map[FileType][]string{
	FileTypeVideo:    {"m4v", "mp4", "mov"},
	FileTypeImage:    {"jpg", "jpeg", "png", "gif", "webp", "wav", "bmp"},
	FileTypeIcon:     {"svg"},
	FileTypeDocument: {"doc", "docx", "xlsx", "xls", "pdf"},
	FileTypeAudio:    {"mp3", "cdr", "mpga"},
}

var extIndex = func() map[string]FileType {
	idx := make(map[string]FileType)
	for t, exts := range fileTypesByExt {
		for _, ext := range exts {
			idx[ext] = t
		}
	}
	return idx
}()

// Extension - всё после последней точки; "" если точки нет.
func Extension(fileName string) string {
	i := strings.LastIndex(fileName, ".")
	if i < 0 {
		return ""
	}
	return fileName[i+1:]
}

// Classify определяет тип файла по расширению без учёта регистра.
// Неизвестные расширения дают FileTypeUnknown.
func Classify(fileName string) FileType {
	return extIndex[strings.ToLower(Extension(fileName))]
}
