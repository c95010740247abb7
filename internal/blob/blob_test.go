package blob

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystem_PutDelete(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	store, err := NewFilesystem(root, "/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	info, err := store.Put(ctx, "1700000000000_logo.png", strings.NewReader("png"), PutOptions{ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000000_logo.png", info.URL)
	assert.EqualValues(t, 3, info.Size)

	data, err := os.ReadFile(filepath.Join(root, "1700000000000_logo.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	_, err = store.Put(ctx, "1700000000000_logo.png", strings.NewReader("again"), PutOptions{})
	assert.Error(t, err, "keys are create-only")

	ok, err := store.Delete(ctx, "1700000000000_logo.png")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.Delete(ctx, "1700000000000_logo.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilesystem_RejectsTraversal(t *testing.T) {
	store, err := NewFilesystem(t.TempDir(), "")
	require.NoError(t, err)
	for _, key := range []string{"", "/etc/passwd", "../escape.png", "a/../../b"} {
		_, err := store.Put(context.Background(), key, strings.NewReader("x"), PutOptions{})
		assert.Error(t, err, key)
	}
}

func TestMemory_PutBytes(t *testing.T) {
	m := NewMemory("")
	info, err := m.Put(context.Background(), "a.png", strings.NewReader("abc"), PutOptions{ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.png", info.URL)
	data, ok := m.Bytes("a.png")
	assert.True(t, ok)
	assert.Equal(t, "abc", string(data))
}

type recordedRequest struct {
	method, path, contentType string
}

// s3RoundTripper answers every request with 200 and records what was sent.
type s3RoundTripper struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (rt *s3RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		_, _ = io.Copy(io.Discard, req.Body)
	}
	rt.mu.Lock()
	rt.requests = append(rt.requests, recordedRequest{req.Method, req.URL.Path, req.Header.Get("Content-Type")})
	rt.mu.Unlock()
	status := http.StatusOK
	if req.Method == http.MethodDelete {
		status = http.StatusNoContent
	}
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"ETag": {`"etag"`}}}, nil
}

func TestS3_PutUsesBucketPath(t *testing.T) {
	rt := &s3RoundTripper{}
	store, err := NewS3(context.Background(), S3Config{
		Bucket:          "media",
		Endpoint:        "https://minio.local:9000",
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		httpClient:      &http.Client{Transport: rt},
	})
	require.NoError(t, err)
	ctx := context.Background()

	info, err := store.Put(ctx, "1700000000000_team.jpg", strings.NewReader("jpeg"), PutOptions{ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local:9000/media/1700000000000_team.jpg", info.URL)

	ok, err := store.Delete(ctx, "1700000000000_team.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, rt.requests, 2)
	assert.Equal(t, http.MethodPut, rt.requests[0].method)
	assert.Equal(t, "/media/1700000000000_team.jpg", rt.requests[0].path)
	assert.Equal(t, "image/jpeg", rt.requests[0].contentType)
	assert.Equal(t, http.MethodDelete, rt.requests[1].method)
}

func TestS3_PublicURLs(t *testing.T) {
	assert.Equal(t, "https://cdn.example.org", publicBase(S3Config{Bucket: "b", PublicBaseURL: "https://cdn.example.org/"}, "eu-west-1"))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", publicBase(S3Config{Bucket: "b"}, "eu-west-1"))
	_, err := NewS3(context.Background(), S3Config{})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	store, err := Open(context.Background(), Config{Driver: "memory"})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, store.Driver())

	store, err = Open(context.Background(), Config{Root: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, store.Driver())

	_, err = Open(context.Background(), Config{Driver: "ftp"})
	assert.Error(t, err)
}
