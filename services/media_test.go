package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

type memoryStore struct {
	objects map[string][]byte
	types   map[string]string
	deleted []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *memoryStore) UploadFile(_ context.Context, name string, r io.Reader, _ int64, contentType string) (*minio.UploadInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.objects[name] = data
	s.types[name] = contentType
	return &minio.UploadInfo{Key: name, Size: int64(len(data))}, nil
}

func (s *memoryStore) DeleteFile(_ context.Context, name string) error {
	delete(s.objects, name)
	s.deleted = append(s.deleted, name)
	return nil
}

func (s *memoryStore) PublicURL(name string) string {
	return "https://cdn.example/" + name
}

type avatarFunc func(userID, url string) error

func (f avatarFunc) SetAvatar(userID, url string) error { return f(userID, url) }

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("avatar", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["avatar"][0]
}

func TestUploadAvatarStoresAndLinks(t *testing.T) {
	store := newMemoryStore()
	var linked string
	svc := NewMediaService(true)
	svc.wire(store, avatarFunc(func(_, url string) error {
		linked = url
		return nil
	}))

	resp, err := svc.UploadAvatar(context.Background(), "u1", fileHeader(t, "me.txt", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.ContentType)
	assert.True(t, strings.HasPrefix(resp.ObjectName, "avatars/u1/"), resp.ObjectName)
	assert.True(t, strings.HasSuffix(resp.ObjectName, ".png"), resp.ObjectName)
	assert.Equal(t, int64(len(pngBytes)), resp.Size)
	assert.Equal(t, "https://cdn.example/"+resp.ObjectName, resp.AvatarURL)
	assert.Equal(t, resp.AvatarURL, linked)
	assert.Equal(t, pngBytes, store.objects[resp.ObjectName])
	assert.Equal(t, "image/png", store.types[resp.ObjectName])
}

func TestUploadAvatarRejectsBadInput(t *testing.T) {
	svc := NewMediaService(true)
	svc.wire(newMemoryStore(), avatarFunc(func(_, _ string) error { return nil }))
	ctx := context.Background()

	_, err := svc.UploadAvatar(ctx, "u1", nil)
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.UploadAvatar(ctx, "u1", fileHeader(t, "fake.png", []byte("just some text, not an image")))
	appErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, appErr.Message, "Invalid image file format")

	big := fileHeader(t, "big.png", pngBytes)
	big.Size = MaxAvatarSize + 1
	_, err = svc.UploadAvatar(ctx, "u1", big)
	appErr = requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Avatar file too large. Maximum size: 2MB", appErr.Message)
}

func TestUploadAvatarCleansUpWhenLinkFails(t *testing.T) {
	store := newMemoryStore()
	svc := NewMediaService(true)
	svc.wire(store, avatarFunc(func(_, _ string) error { return errors.New("db down") }))

	_, err := svc.UploadAvatar(context.Background(), "u1", fileHeader(t, "a.png", pngBytes))
	require.Error(t, err)
	require.Len(t, store.deleted, 1)
	assert.Empty(t, store.objects)
}

func TestUploadAvatarDisabled(t *testing.T) {
	svc := NewMediaService(false)
	_, err := svc.UploadAvatar(context.Background(), "u1", fileHeader(t, "a.png", pngBytes))
	requireStatus(t, err, http.StatusServiceUnavailable)
}
