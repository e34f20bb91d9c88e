// Package storagetest provides an in-memory storage.Storage for tests.
package storagetest

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/vaibhavguptahere/smacad-test/internal/storage"
)

// Memory keeps objects in a map. The Err fields, when set, are returned by
// the matching operation instead of touching the map.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	SaveErr     error
	DeleteErr   error
	RetrieveErr error
}

func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (m *Memory) Save(_ context.Context, path string, file io.Reader, contentType string) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = data
	m.types[path] = contentType
	return nil
}

func (m *Memory) Delete(_ context.Context, path string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	delete(m.types, path)
	return nil
}

func (m *Memory) Retrieve(_ context.Context, path, _ string) (*storage.Object, error) {
	if m.RetrieveErr != nil {
		return nil, m.RetrieveErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[path]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.Object{
		Body:        io.NopCloser(bytes.NewReader(data)),
		Size:        int64(len(data)),
		ContentType: m.types[path],
	}, nil
}

func (m *Memory) Exists(_ context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[path]
	return ok, nil
}

// Object returns the stored bytes at path.
func (m *Memory) Object(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[path]
	return data, ok
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
