package filestorage

import "io"

// StoredFile describes a saved attachment: the storage path and the URL
// handed to clients.
type StoredFile struct {
	Path string
	URL  string
}

// FileStorageInterface is the attachment port. The disk implementation
// serves files under a public base URL; the inline implementation encodes
// the payload as a data URI and stores nothing on disk.
type FileStorageInterface interface {
	Save(file io.Reader, originalFileName, mimeType, prefix string) (*StoredFile, error)
	Delete(path string) error
}
