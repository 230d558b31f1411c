package filestorage

import (
	"encoding/base64"
	"fmt"
	"io"
	"time"
)

// InlineFileStorage keeps the whole payload in the returned URL as a data
// URI. Used with the local snapshot store, where there is no file server.
type InlineFileStorage struct{}

func NewInlineFileStorage() FileStorageInterface {
	return &InlineFileStorage{}
}

func (s *InlineFileStorage) Save(file io.Reader, originalFileName, mimeType, prefix string) (*StoredFile, error) {
	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &StoredFile{
		Path: fmt.Sprintf("%d-%s", time.Now().UnixMilli(), originalFileName),
		URL:  fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(payload)),
	}, nil
}

func (s *InlineFileStorage) Delete(path string) error {
	// Nothing is stored outside the message record.
	return nil
}
