// Package upload validates image uploads and stores them under a
// timestamped, URL-safe name.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"vkseva-content/internal/blob"
	"vkseva-content/internal/metrics"
)

var (
	ErrEmptyFile = errors.New("no file uploaded")
	ErrTooLarge  = errors.New("file too large")
	ErrNotImage  = errors.New("file is not an image")
)

var unsafeChars = regexp.MustCompile(`[^\w-]`)

// Input is one uploaded file. Title, when set, names the stored file.
type Input struct {
	Filename string
	Title    string
	Body     io.Reader
}

type Service struct {
	store    blob.Store
	maxBytes int64
	now      func() time.Time
	logger   *log.Logger
}

func New(store blob.Store, maxBytes int64, logger *log.Logger) *Service {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{store: store, maxBytes: maxBytes, now: time.Now, logger: logger}
}

func (s *Service) MaxBytes() int64 { return s.maxBytes }

// Save checks the file is a non-empty image within the size limit and
// writes it to the blob store.
func (s *Service) Save(ctx context.Context, in Input) (blob.Info, error) {
	data, err := io.ReadAll(io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		metrics.ObserveUpload("error")
		return blob.Info{}, fmt.Errorf("read upload: %w", err)
	}
	switch {
	case len(data) == 0:
		metrics.ObserveUpload("rejected")
		return blob.Info{}, ErrEmptyFile
	case int64(len(data)) > s.maxBytes:
		metrics.ObserveUpload("rejected")
		return blob.Info{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxBytes)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		metrics.ObserveUpload("rejected")
		return blob.Info{}, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}

	key := s.keyFor(in, mt.Extension())
	info, err := s.store.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{ContentType: mt.String()})
	if err != nil {
		metrics.ObserveUpload("error")
		return blob.Info{}, fmt.Errorf("store upload: %w", err)
	}
	s.logger.Printf("stored upload %s (%d bytes, %s)", key, info.Size, mt.String())
	metrics.ObserveUpload("ok")
	return info, nil
}

// Release deletes the stored object behind url. URLs that do not point into
// this store are left alone. It reports whether an object was removed.
func (s *Service) Release(ctx context.Context, url string) (bool, error) {
	key, ok := s.keyOf(url)
	if !ok {
		return false, nil
	}
	removed, err := s.store.Delete(ctx, key)
	if err != nil {
		metrics.ObserveUpload("error")
		return false, fmt.Errorf("release upload %s: %w", key, err)
	}
	if removed {
		s.logger.Printf("released upload %s", key)
		metrics.ObserveUpload("released")
	}
	return removed, nil
}

func (s *Service) keyOf(url string) (string, bool) {
	base := s.store.URL("")
	if url == "" || !strings.HasPrefix(url, base) {
		return "", false
	}
	key := strings.TrimPrefix(url, base)
	if key == "" || strings.HasPrefix(key, ".") || strings.ContainsAny(key, `/\?#`) {
		return "", false
	}
	return key, true
}

func (s *Service) keyFor(in Input, ext string) string {
	base := strings.TrimSuffix(filepath.Base(in.Filename), filepath.Ext(in.Filename))
	if t := strings.TrimSpace(in.Title); t != "" {
		base = t + "-image"
	}
	name := cleanName(base)
	if name == "" {
		name = uuid.NewString()
	}
	return fmt.Sprintf("%d_%s%s", s.now().UnixMilli(), name, ext)
}

// cleanName turns spaces into dashes and drops anything outside [A-Za-z0-9_-].
func cleanName(s string) string {
	s = strings.Join(strings.Fields(s), "-")
	return unsafeChars.ReplaceAllString(s, "")
}
