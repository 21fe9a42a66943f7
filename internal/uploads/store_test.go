package uploads

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	store.now = func() time.Time { return time.Unix(1700000000, 0) }
	return store
}

func TestSavePetImage(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.SavePetImage("rex.jpg", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("SavePetImage() failed: %v", err)
	}

	want := "uploads/pets/1700000000_rex.jpg"
	if ref != want {
		t.Errorf("reference = %q, want %q", ref, want)
	}

	data, err := os.ReadFile(filepath.Join(store.Root(), "pets", "1700000000_rex.jpg"))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("stored content = %q", data)
	}
}

func TestSavePetImageRejectsUnsupportedTypes(t *testing.T) {
	store := newTestStore(t)

	for _, filename := range []string{"notes.txt", "archive.zip", "shell.php", "rex", "rex.jpg.exe"} {
		if _, err := store.SavePetImage(filename, strings.NewReader("x")); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("SavePetImage(%q) error = %v, want %v", filename, err, ErrUnsupportedType)
		}
	}
}

func TestSavePetImageRejectsOversized(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SavePetImage("big.png", bytes.NewReader(make([]byte, MaxFileSize+1)))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("SavePetImage() error = %v, want %v", err, ErrFileTooLarge)
	}

	// The partial file must not linger on disk.
	entries, err := os.ReadDir(filepath.Join(store.Root(), "pets"))
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected upload left %d files behind", len(entries))
	}
}

func TestSavePetImageAcceptsExactLimit(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.SavePetImage("limit.gif", bytes.NewReader(make([]byte, MaxFileSize))); err != nil {
		t.Errorf("SavePetImage() at the size limit failed: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "rex.jpg", want: "rex.jpg"},
		{in: "my photo (1).jpg", want: "my_photo__1_.jpg"},
		{in: "../../etc/passwd.png", want: "passwd.png"},
		{in: "Ünïcode.png", want: "_n_code.png"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
