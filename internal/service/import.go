package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/vaibhavguptahere/smacad-test/internal/model"
)

// sidecarExt marks the metadata file that accompanies each imported note.
const sidecarExt = ".md"

// ImportSkip records a file that was not imported.
type ImportSkip struct {
	File   string
	Reason string
}

type ImportResult struct {
	Imported []*model.Note
	Skipped  []ImportSkip
}

// Import creates one note per file at the top level of dir. Each file needs a
// sidecar named after its stem ("algebra.pdf" pairs with "algebra.md") whose
// front matter holds the note fields and whose body is the description.
// A file that fails is skipped and reported; the rest are still imported.
func (s *NoteService) Import(ctx context.Context, dir fs.FS) (*ImportResult, error) {
	entries, err := fs.ReadDir(dir, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read import directory: %w", err)
	}

	sidecars := make(map[string]bool)
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(path.Ext(entry.Name()), sidecarExt) {
			sidecars[entry.Name()] = true
		}
	}

	result := &ImportResult{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || sidecars[name] || strings.HasPrefix(name, ".") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		sidecar := strings.TrimSuffix(name, path.Ext(name)) + sidecarExt
		if !sidecars[sidecar] {
			result.Skipped = append(result.Skipped, ImportSkip{File: name, Reason: "no " + sidecar + " sidecar"})
			continue
		}

		note, err := s.importOne(ctx, dir, name, sidecar)
		if err != nil {
			slog.Warn("import skipped file", "file", name, "error", err)
			result.Skipped = append(result.Skipped, ImportSkip{File: name, Reason: err.Error()})
			continue
		}
		result.Imported = append(result.Imported, note)
	}

	return result, nil
}

func (s *NoteService) importOne(ctx context.Context, dir fs.FS, name, sidecar string) (*model.Note, error) {
	source, err := fs.ReadFile(dir, sidecar)
	if err != nil {
		return nil, err
	}
	meta, description, err := s.parser.ParseSidecar(source)
	if err != nil {
		return nil, err
	}

	file, err := dir.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	content, ok := file.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, err
		}
		content = bytes.NewReader(data)
	}

	return s.Create(ctx, NoteInput{
		Title:       meta.Title,
		Class:       meta.Class,
		Subject:     meta.Subject,
		Topic:       meta.Topic,
		Description: description,
	}, &Upload{Filename: name, Size: info.Size(), Content: content})
}
