package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Filesystem writes blobs under root; the HTTP layer serves root at prefix.
type Filesystem struct {
	root   string
	prefix string
}

func NewFilesystem(root, prefix string) (*Filesystem, error) {
	if root == "" {
		root = "public/uploads"
	}
	if prefix == "" {
		prefix = "/uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Filesystem{root: root, prefix: strings.TrimSuffix(prefix, "/")}, nil
}

func (s *Filesystem) Driver() Driver { return DriverFilesystem }

// Root is the directory holding the blobs.
func (s *Filesystem) Root() string { return s.root }

func (s *Filesystem) URL(key string) string {
	return s.prefix + "/" + key
}

func (s *Filesystem) Put(_ context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	p, err := s.pathFor(key)
	if err != nil {
		return Info{}, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return Info{}, err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return Info{}, fmt.Errorf("blob %s already exists", key)
		}
		return Info{}, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(p)
		return Info{}, err
	}
	return Info{Key: key, Size: n, ContentType: opts.ContentType, URL: s.URL(key)}, nil
}

func (s *Filesystem) Delete(_ context.Context, key string) (bool, error) {
	p, err := s.pathFor(key)
	if err != nil {
		return false, err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// pathFor maps key under root, refusing absolute keys and traversal.
func (s *Filesystem) pathFor(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(path.Clean(key))), nil
}
