package validation

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	// AllowedTypes maps a lowercase extension to the content types that
	// http.DetectContentType may report for it.
	AllowedTypes map[string][]string
	MaxSize      int64
}

var (
	// ImageConstraints defines validation rules for image uploads
	ImageConstraints = FileConstraints{
		AllowedTypes: map[string][]string{
			".jpg":  {"image/jpeg"},
			".jpeg": {"image/jpeg"},
			".png":  {"image/png"},
		},
		MaxSize: 10 << 20, // 10MB
	}

	// DocumentConstraints covers PDF and Office documents. OOXML files sniff
	// as zip archives; legacy Office files as generic binary.
	DocumentConstraints = FileConstraints{
		AllowedTypes: map[string][]string{
			".pdf":  {"application/pdf"},
			".doc":  {"application/octet-stream"},
			".ppt":  {"application/octet-stream"},
			".docx": {"application/zip"},
			".pptx": {"application/zip"},
		},
		MaxSize: 50 << 20, // 50MB
	}
)

// NoteConstraints returns the accepted note formats capped at maxSize.
func NoteConstraints(maxSize int64) []FileConstraints {
	docs, images := DocumentConstraints, ImageConstraints
	if maxSize > 0 {
		docs.MaxSize = maxSize
		images.MaxSize = min(images.MaxSize, maxSize)
	}
	return []FileConstraints{docs, images}
}

// ValidateUpload checks name, size and sniffed content of an upload and
// returns the detected content type. content is rewound afterwards.
// If multiple constraints are provided, the file must match at least one.
func ValidateUpload(filename string, size int64, content io.ReadSeeker, constraints ...FileConstraints) (string, error) {
	if len(constraints) == 0 {
		return "", fmt.Errorf("no file constraints provided")
	}

	ext := strings.ToLower(filepath.Ext(filename))

	// Try each constraint set - file must match at least one
	var lastErr error
	for _, constraint := range constraints {
		if _, ok := constraint.AllowedTypes[ext]; !ok {
			continue
		}
		detected, err := validateAgainstConstraint(ext, size, content, constraint)
		if err == nil {
			return detected, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		return "", fmt.Errorf("invalid file extension: %q", ext)
	}
	return "", lastErr
}

// validateAgainstConstraint validates a file against a single constraint set
func validateAgainstConstraint(ext string, size int64, content io.ReadSeeker, constraints FileConstraints) (string, error) {
	// Check file size first (before reading content)
	if size > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return "", fmt.Errorf("file too large: maximum size is %d MB", maxMB)
	}
	if size == 0 {
		return "", fmt.Errorf("file is empty")
	}

	detectedType, err := DetectContentType(content)
	if err != nil {
		return "", err
	}

	if !slices.Contains(constraints.AllowedTypes[ext], detectedType) {
		return "", fmt.Errorf("invalid file type for %s (detected: %s)", ext, detectedType)
	}

	return detectedType, nil
}

// officeTypes are the registered types of formats that sniff as generic
// containers.
var officeTypes = map[string]string{
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// ContentTypeFor returns the content type to store for a validated upload.
func ContentTypeFor(filename, detected string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := officeTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if i := strings.Index(t, ";"); i >= 0 {
			t = strings.TrimSpace(t[:i])
		}
		return t
	}
	return detected
}

// DetectContentType sniffs the first 512 bytes and rewinds the reader when it can seek.
func DetectContentType(file io.Reader) (string, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	// Reset file pointer to beginning for later use
	seeker, ok := file.(io.Seeker)
	if ok {
		_, err = seeker.Seek(0, io.SeekStart)
		if err != nil {
			return "", fmt.Errorf("failed to reset file pointer: %w", err)
		}
	}

	// http.DetectContentType may append parameters, e.g. "; charset=utf-8"
	detected := http.DetectContentType(buffer[:n])
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = strings.TrimSpace(detected[:i])
	}
	return detected, nil
}
