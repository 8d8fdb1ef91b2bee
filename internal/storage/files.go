package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads"

// FileStore persists uploaded images on local disk. Rows reference files by
// their public URL path (/uploads/<bucket>/<name>).
type FileStore struct {
	root string
}

// NewFileStore creates the store rooted at dir, creating it when missing.
func NewFileStore(dir string) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("file store: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: create root: %w", err)
	}
	return &FileStore{root: dir}, nil
}

// Root returns the directory files are written under.
func (s *FileStore) Root() string { return s.root }

// Save writes the uploaded file into the named bucket and returns its public
// URL path. Filenames are randomised; only the original extension survives.
func (s *FileStore) Save(bucket string, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", errors.New("file store: file is required")
	}
	bucket = sanitizeBucket(bucket)

	dir := filepath.Join(s.root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("file store: create bucket: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	dst := filepath.Join(dir, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("file store: open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("file store: create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("file store: write file: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", URLPrefix, bucket, name), nil
}

// Remove deletes the file behind a public URL path. Missing files are not an
// error (delete-if-exists semantics).
func (s *FileStore) Remove(urlPath string) error {
	rel, ok := s.relativePath(urlPath)
	if !ok {
		return nil
	}

	err := os.Remove(filepath.Join(s.root, rel))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file store: remove %s: %w", urlPath, err)
	}
	return nil
}

// Exists reports whether the file behind a public URL path is on disk.
func (s *FileStore) Exists(urlPath string) bool {
	rel, ok := s.relativePath(urlPath)
	if !ok {
		return false
	}
	_, err := os.Stat(filepath.Join(s.root, rel))
	return err == nil
}

func (s *FileStore) relativePath(urlPath string) (string, bool) {
	urlPath = strings.TrimSpace(urlPath)
	if urlPath == "" || !strings.HasPrefix(urlPath, URLPrefix+"/") {
		return "", false
	}

	rel := strings.TrimPrefix(urlPath, URLPrefix+"/")
	rel = filepath.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return rel, true
}

func sanitizeBucket(bucket string) string {
	bucket = strings.TrimSpace(strings.ToLower(bucket))
	if bucket == "" {
		return "misc"
	}
	return filepath.Base(bucket)
}
