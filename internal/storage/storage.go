// Package storage is the object-storage boundary: bytes plus a key in,
// durable retrieval URL out.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage accepts a file under a destination key and returns a URL it
// can later be fetched from.
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader) (string, error)
}

// Disk stores objects under a local root directory, served at baseURL.
type Disk struct {
	root    string
	baseURL string
}

func NewDisk(root, baseURL string) *Disk {
	return &Disk{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Root is the directory objects are written beneath.
func (d *Disk) Root() string { return d.root }

func (d *Disk) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	// Checked before Clean, which would silently resolve ".." segments.
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", fmt.Errorf("invalid storage key %q", key)
		}
	}
	clean := path.Clean("/" + key)

	dest := filepath.Join(d.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating storage dir: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("creating object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("writing object: %w", err)
	}

	return d.baseURL + clean, nil
}

// DocumentKey builds the storage key for a user-uploaded document:
// user_documents/<userID>/<timestamp>_<name>.
func DocumentKey(userID uuid.UUID, fileName string) string {
	return fmt.Sprintf("user_documents/%s/%d_%s", userID, time.Now().UnixMilli(), sanitizeFileName(fileName))
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == ".." || name == "/" {
		name = ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
