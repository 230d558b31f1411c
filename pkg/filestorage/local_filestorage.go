package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type LocalFileStorage struct {
	basePath string
	baseURL  string
}

func NewLocalFileStorage(basePath, baseURL string) (FileStorageInterface, error) {
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("creating upload directory: %w", err)
		}
	}
	return &LocalFileStorage{basePath: basePath, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalFileStorage) Save(file io.Reader, originalFileName, mimeType, prefix string) (*StoredFile, error) {
	ext := filepath.Ext(originalFileName)
	uniqueFileName := fmt.Sprintf("%s-%s%s", time.Now().Format("2006-01-02"), uuid.New().String(), ext)

	datePath := time.Now().Format("2006/01/02")
	fullDirPath := filepath.Join(s.basePath, prefix, datePath)
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return nil, err
	}

	dst, err := os.Create(filepath.Join(fullDirPath, uniqueFileName))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		return nil, err
	}

	relPath := filepath.ToSlash(filepath.Join(prefix, datePath, uniqueFileName))
	return &StoredFile{
		Path: relPath,
		URL:  s.baseURL + "/" + relPath,
	}, nil
}

func (s *LocalFileStorage) Delete(path string) error {
	relativePath := strings.TrimPrefix(path, s.baseURL+"/")
	fullPath := filepath.Join(s.basePath, relativePath)

	// Absent file counts as success, same leniency as record deletes.
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(fullPath)
}
