package dto

import "io"

// UploadedFile - загруженный файл, уже открытый контроллером.
type UploadedFile struct {
	FileName string
	Content  io.Reader
}
