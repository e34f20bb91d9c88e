package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"unicode"

	cfg "github.com/vaibhavguptahere/smacad-test/internal/config"
)

var ErrNotFound = errors.New("stored file not found")

// Storage defines the interface for file storage operations
type Storage interface {
	// Save stores a file at the given path
	Save(ctx context.Context, path string, file io.Reader, contentType string) error

	// Delete removes a file at the given path
	Delete(ctx context.Context, path string) error

	// Retrieve hands out the file as an attachment named filename
	Retrieve(ctx context.Context, path, filename string) (*Object, error)

	// Exists reports whether a file is present at the given path
	Exists(ctx context.Context, path string) (bool, error)
}

// Object is either a redirect to a short-lived link or a byte stream.
type Object struct {
	RedirectURL string
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// New creates the storage backend selected by STORAGE_DRIVER.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case cfg.StorageLocal:
		slog.Info("initializing local storage", "path", c.LocalStoragePath)
		return NewLocalStorage(c.LocalStoragePath)
	case cfg.StorageS3, "":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:        c.S3Region,
			Bucket:        c.S3Bucket,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			Endpoint:      c.S3Endpoint,
			PresignExpiry: c.S3PresignExpiry,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

// SanitizeFilename keeps a download name safe for headers and file systems.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '"' || r == '/' || r == ':' || r == '*' || r == '?' || r == '<' || r == '>' || r == '|':
			b.WriteRune('_')
		case unicode.IsControl(r):
			continue
		default:
			b.WriteRune(r)
		}
	}
	clean := strings.Trim(strings.TrimSpace(b.String()), ".")
	if clean == "" {
		return "download"
	}
	return clean
}

// ContentDisposition builds an attachment header value for filename.
// Non-ASCII names are encoded per RFC 2231.
func ContentDisposition(filename string) string {
	value := mime.FormatMediaType("attachment", map[string]string{"filename": SanitizeFilename(filename)})
	if value == "" {
		return "attachment"
	}
	return value
}
