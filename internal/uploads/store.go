package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxFileSize is the largest accepted upload (5 MB).
const MaxFileSize = 5 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

var (
	ErrUnsupportedType = errors.New("file type not allowed (png, jpg, jpeg, gif)")
	ErrFileTooLarge    = errors.New("file size must not exceed 5MB")
)

// Store saves pet photos under a root directory and hands back stable
// relative references. Callers persist only the reference, never bytes.
type Store struct {
	root string
	now  func() time.Time
}

// NewStore creates the upload directories and returns a Store rooted at
// root.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, "pets"), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{root: root, now: time.Now}, nil
}

// SavePetImage validates and stores an uploaded pet photo, returning the
// relative reference to persist (uploads/pets/<file>). The declared
// filename is sanitized and prefixed with a timestamp to avoid clashes.
func (s *Store) SavePetImage(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	name := fmt.Sprintf("%d_%s", s.now().Unix(), sanitizeFilename(filename))
	dst := filepath.Join(s.root, "pets", name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	// Copy one byte past the limit so an oversized stream is detectable
	// without buffering it whole.
	n, err := io.CopyN(f, r, MaxFileSize+1)
	if err != nil && err != io.EOF {
		os.Remove(dst)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if n > MaxFileSize {
		os.Remove(dst)
		return "", ErrFileTooLarge
	}

	return "uploads/pets/" + name, nil
}

// Root returns the directory uploads are stored under.
func (s *Store) Root() string {
	return s.root
}

// sanitizeFilename strips path components and replaces anything outside
// a safe character set.
func sanitizeFilename(filename string) string {
	base := filepath.Base(filename)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
