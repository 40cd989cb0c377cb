package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"campusresponse/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File["image"], 1)
	return form.File["image"][0]
}

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	webpBytes = append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), make([]byte, 32)...)
)

func TestSaveIncidentImageLocal(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalImageStore(dir, "/media/")
	data := pngBytes

	url, err := SaveIncidentImage(context.Background(), store, uploadHeader(t, "Photo.PNG", "image/png", data), 1024)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/incidents/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	saved, err := os.ReadFile(filepath.Join(dir, "incidents", filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, data, saved)
}

func TestSaveIncidentImageExtensionFromContent(t *testing.T) {
	store := NewLocalImageStore(t.TempDir(), "/media")

	url, err := SaveIncidentImage(context.Background(), store, uploadHeader(t, "camera", "application/octet-stream", webpBytes), 1024)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".webp"), url)

	// 文件名与声明的类型都不可信
	url, err = SaveIncidentImage(context.Background(), store, uploadHeader(t, "evil.html", "text/html", pngBytes), 1024)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".png"), url)
}

func TestSaveIncidentImageServedAsImage(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalImageStore(dir, "/media")

	url, err := SaveIncidentImage(context.Background(), store, uploadHeader(t, "evil.html", "image/png", pngBytes), 1024)
	require.NoError(t, err)

	srv := http.StripPrefix("/media", http.FileServer(http.Dir(dir)))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestSaveIncidentImageRejects(t *testing.T) {
	store := NewLocalImageStore(t.TempDir(), "/media")

	tests := []struct {
		name   string
		header *multipart.FileHeader
	}{
		{"not an image", uploadHeader(t, "notes.txt", "text/plain", []byte("hello"))},
		{"html disguised as png", uploadHeader(t, "photo.png", "image/png", []byte("<html><script>alert(document.cookie)</script></html>"))},
		{"svg", uploadHeader(t, "logo.svg", "image/svg+xml", []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`))},
		{"too large", uploadHeader(t, "big.png", "image/png", append(bytes.Clone(pngBytes), bytes.Repeat([]byte("x"), 2048)...))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SaveIncidentImage(context.Background(), store, tt.header, 1024)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Contains(t, verr.Fields, "image")
		})
	}

	entries, err := os.ReadDir(store.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewImageStoreLocal(t *testing.T) {
	store, err := NewImageStore(context.Background(), config.StorageConfig{
		Backend:  config.StorageLocal,
		MediaDir: t.TempDir(),
		MediaURL: "/media",
	})
	require.NoError(t, err)
	assert.IsType(t, &LocalImageStore{}, store)
}
