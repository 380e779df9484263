package config

import "appeals-system/pkg/filestorage"

// UploadConfig - ограничения на загружаемый файл. Пустой AllowedTypes - любой тип.
type UploadConfig struct {
	AllowedTypes []filestorage.FileType
	MaxSizeMB    int64
}

const (
	UploadAvatar     = "avatar"
	UploadAppealFile = "appeal_file"
)

var UploadContexts = map[string]UploadConfig{
	UploadAvatar: {
		AllowedTypes: []filestorage.FileType{filestorage.FileTypeImage},
		MaxSizeMB:    5,
	},
	UploadAppealFile: {
		MaxSizeMB: 20,
	},
}

func (u UploadConfig) MaxBytes() int64 {
	return u.MaxSizeMB << 20
}

func (u UploadConfig) Allows(fileName string) bool {
	if len(u.AllowedTypes) == 0 {
		return true
	}
	fileType := filestorage.Classify(fileName)
	for _, t := range u.AllowedTypes {
		if t == fileType {
			return true
		}
	}
	return false
}
