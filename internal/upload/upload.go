package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the public path under which stored images are served.
const URLPrefix = "/uploads"

var (
	whitespace = regexp.MustCompile(`\s+`)
	unsafeName = regexp.MustCompile(`[^a-z0-9_\-]`)
)

// Store writes uploaded images into a single directory.
type Store struct {
	dir string
}

// NewStore creates dir if needed and returns a Store writing into it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory images are written to.
func (s *Store) Dir() string {
	return s.dir
}

// FileName derives the stored file name for a medicine image: the medicine
// name lower-cased with whitespace runs replaced by "_", plus the original
// file extension.
func FileName(medicineName, originalName string) string {
	base := whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(medicineName)), "_")
	base = unsafeName.ReplaceAllString(base, "")
	if base == "" {
		base = "image"
	}
	return base + strings.ToLower(filepath.Ext(originalName))
}

// Save stores the uploaded file for medicineName under a name no other upload
// uses and returns its public path, e.g. "/uploads/vitamin_c_1b4e28ba.jpg".
// Existing files are never overwritten.
func (s *Store) Save(medicineName string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uniqueName(FileName(medicineName, fh.Filename))
	path := filepath.Join(s.dir, name)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close image file: %w", err)
	}
	return URLPrefix + "/" + name, nil
}

// uniqueName inserts a random suffix before the extension of name.
func uniqueName(name string) string {
	ext := filepath.Ext(name)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return strings.TrimSuffix(name, ext) + "_" + suffix + ext
}

// Remove deletes an image by the public path Save returned for it. Since every
// Save writes a fresh file, this only ever removes that upload. Missing files
// are ignored.
func (s *Store) Remove(publicPath string) error {
	name := filepath.Base(strings.TrimPrefix(publicPath, URLPrefix+"/"))
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
