package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveRetrieveDelete(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	content := []byte("%PDF-1.4 algebra")
	require.NoError(t, store.Save(ctx, "notes/a.pdf", bytes.NewReader(content), "application/pdf"))

	exists, err := store.Exists(ctx, "notes/a.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	obj, err := store.Retrieve(ctx, "notes/a.pdf", "Algebra Basics.pdf")
	require.NoError(t, err)
	got, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.NoError(t, obj.Body.Close())
	assert.Equal(t, content, got)
	assert.Equal(t, int64(len(content)), obj.Size)
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.Empty(t, obj.RedirectURL)

	require.NoError(t, store.Delete(ctx, "notes/a.pdf"))
	require.NoError(t, store.Delete(ctx, "notes/a.pdf"), "deleting twice is fine")

	_, err = store.Retrieve(ctx, "notes/a.pdf", "a.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err = store.Exists(ctx, "notes/a.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_StaysInsideBase(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	base := filepath.Join(root, "uploads")
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "../../escape.txt", bytes.NewReader([]byte("x")), ""))

	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err), "file must not be written outside the base directory")
	_, err = os.Stat(filepath.Join(base, "escape.txt"))
	assert.NoError(t, err)

	err = store.Save(ctx, "/", bytes.NewReader([]byte("x")), "")
	assert.Error(t, err)
}

func TestLocalStorage_LeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "notes/b.pdf", bytes.NewReader([]byte("b")), ""))

	entries, err := os.ReadDir(filepath.Join(base, "notes"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b.pdf", entries[0].Name())
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Algebra Basics.pdf":         "Algebra Basics.pdf",
		`../../etc/passwd`:           "passwd",
		`C:\Users\me\notes.pdf`:      "notes.pdf",
		"quote\"d<name>.pdf":         "quote_d_name_.pdf",
		"line\nbreak.pdf":            "linebreak.pdf",
		"":                           "download",
		"...":                        "download",
		"Trigonométrie – Résumé.pdf": "Trigonométrie – Résumé.pdf",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="Algebra Basics.pdf"`, ContentDisposition("Algebra Basics.pdf"))
	assert.Equal(t, "attachment; filename=notes.pdf", ContentDisposition("../notes.pdf"))
	assert.Contains(t, ContentDisposition("Résumé.pdf"), "filename*=utf-8''R%C3%A9sum%C3%A9.pdf")
}
