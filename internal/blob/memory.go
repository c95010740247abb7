package blob

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// Memory keeps blobs in process; used in tests.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	prefix  string
}

func NewMemory(prefix string) *Memory {
	if prefix == "" {
		prefix = "/uploads"
	}
	return &Memory{objects: map[string]memoryObject{}, prefix: strings.TrimSuffix(prefix, "/")}
}

func (m *Memory) Driver() Driver { return DriverMemory }

func (m *Memory) URL(key string) string { return m.prefix + "/" + key }

func (m *Memory) Put(_ context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; ok {
		return Info{}, fmt.Errorf("blob %s already exists", key)
	}
	m.objects[key] = memoryObject{data: data, contentType: opts.ContentType}
	return Info{Key: key, Size: int64(len(data)), ContentType: opts.ContentType, URL: m.URL(key)}, nil
}

func (m *Memory) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return false, nil
	}
	delete(m.objects, key)
	return true, nil
}

// Bytes returns a stored object's content.
func (m *Memory) Bytes(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o.data, ok
}
