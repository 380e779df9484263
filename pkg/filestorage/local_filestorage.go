package filestorage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"appeals-system/pkg/utils"
)

type LocalFileStorage struct {
	basePath  string
	urlPrefix string
}

func NewLocalFileStorage(basePath, urlPrefix string) (FileStorageInterface, error) {
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("не удалось создать директорию: %w", err)
		}
	}
	return &LocalFileStorage{basePath: basePath, urlPrefix: "/" + strings.Trim(urlPrefix, "/") + "/"}, nil
}

// StoredName строит имя файла на диске: случайный токен + slug исходного имени + расширение.
func StoredName(originalFileName string) string {
	ext := Extension(originalFileName)
	base := originalFileName
	if ext != "" {
		base = strings.TrimSuffix(originalFileName, "."+ext)
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + utils.Slugify(base)
	if ext != "" {
		name += "." + strings.ToLower(ext)
	}
	return name
}

func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, category string) (string, error) {
	fileName := StoredName(filepath.Base(originalFileName))

	dir := filepath.Join(s.basePath, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	fullPath := filepath.Join(dir, fileName)
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}

	if _, err = io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(fullPath)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(fullPath)
		return "", err
	}

	return s.urlPrefix + path.Join(category, fileName), nil
}

// Delete принимает URL, выданный Save. Отсутствующий файл - не ошибка.
func (s *LocalFileStorage) Delete(fileURL string) error {
	relativePath := strings.TrimPrefix(fileURL, s.urlPrefix)
	cleaned := filepath.Clean(filepath.FromSlash(relativePath))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return fmt.Errorf("недопустимый путь файла: %s", fileURL)
	}

	fullPath := filepath.Join(s.basePath, cleaned)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(fullPath)
}
