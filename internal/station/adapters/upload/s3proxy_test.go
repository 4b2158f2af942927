package upload_test

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldnotes/internal/station/adapters/upload"
	"fieldnotes/internal/station/config"
	"fieldnotes/internal/station/domain/entities"
)

var (
	imageNamePattern = regexp.MustCompile(`^media-\d+\.jpg$`)
	videoNamePattern = regexp.MustCompile(`^media-\d+\.mp4$`)
)

func newTestUploader(t *testing.T, handler http.Handler, base64Mode bool) *upload.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return upload.NewClient(&config.UploadConfig{
		BaseURL:        server.URL,
		Base64Mode:     base64Mode,
		RequestTimeout: 5 * time.Second,
	})
}

func writeTempAsset(t *testing.T, name string, content []byte) entities.LocalAsset {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return entities.LocalAsset{URI: path}
}

func TestUpload_MultipartSuccess(t *testing.T) {
	content := []byte("jpeg bytes")

	var gotFilename string
	var gotContent []byte
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/uploadFile", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()

		gotFilename = header.Filename
		gotContent, err = io.ReadAll(file)
		require.NoError(t, err)

		w.Header().Set("Location", "https://store.example/bucket/media-1.jpg")
		w.WriteHeader(http.StatusOK)
	})
	client := newTestUploader(t, handler, false)

	locator, err := client.Upload(context.Background(), writeTempAsset(t, "photo.png", content), entities.KindImage)

	require.NoError(t, err)
	assert.Equal(t, "https://store.example/bucket/media-1.jpg", locator)
	assert.Equal(t, content, gotContent)
	assert.Regexp(t, imageNamePattern, gotFilename, "filename extension follows the media kind, not the source container")
}

func TestUpload_VideoFilenameExtension(t *testing.T) {
	var gotFilename string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		gotFilename = header.Filename

		w.Header().Set("Location", "https://store.example/v.mp4")
	})
	client := newTestUploader(t, handler, false)

	_, err := client.Upload(context.Background(), writeTempAsset(t, "clip.mov", []byte("mov")), entities.KindVideo)

	require.NoError(t, err)
	assert.Regexp(t, videoNamePattern, gotFilename)
}

func TestUpload_Base64Form(t *testing.T) {
	content := []byte("video bytes")

	var gotFile, gotName string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFile = r.FormValue("file")
		gotName = r.FormValue("name")

		w.Header().Set("Location", "https://store.example/v.mp4")
	})
	client := newTestUploader(t, handler, true)

	locator, err := client.Upload(context.Background(), writeTempAsset(t, "clip.mov", content), entities.KindVideo)

	require.NoError(t, err)
	assert.Equal(t, "https://store.example/v.mp4", locator)
	assert.Regexp(t, videoNamePattern, gotName)

	require.True(t, strings.HasPrefix(gotFile, "data:video/mp4;base64,"))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(gotFile, "data:video/mp4;base64,"))
	require.NoError(t, err)
	assert.Equal(t, content, decoded)
}

func TestUpload_MissingLocationHeader(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	client := newTestUploader(t, handler, false)

	_, err := client.Upload(context.Background(), writeTempAsset(t, "a.jpg", []byte("x")), entities.KindImage)

	assert.ErrorIs(t, err, upload.ErrLocationMissing)
}

func TestUpload_Rejected(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("denied"))
	})
	client := newTestUploader(t, handler, false)

	_, err := client.Upload(context.Background(), writeTempAsset(t, "a.jpg", []byte("x")), entities.KindImage)

	var rejected *upload.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusForbidden, rejected.Status)
	assert.Equal(t, "denied", rejected.Body)
}

func TestUpload_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // refuse connections

	client := upload.NewClient(&config.UploadConfig{
		BaseURL:        server.URL,
		RequestTimeout: time.Second,
	})

	_, err := client.Upload(context.Background(), writeTempAsset(t, "a.jpg", []byte("x")), entities.KindImage)

	assert.ErrorIs(t, err, upload.ErrTransport)
}

func TestUpload_UnreadableAsset(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected when the asset cannot be read")
	})
	client := newTestUploader(t, handler, false)

	_, err := client.Upload(context.Background(), entities.LocalAsset{URI: "/nonexistent/file.jpg"}, entities.KindImage)

	assert.Error(t, err)
}
