package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"vistoria/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBlobStore(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalBlobStore(dir, "/uploads/")
	ctx := context.Background()

	blob, err := store.Store(ctx, []byte("image"), "abc.webp")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc.webp", blob.URL)
	assert.Equal(t, filepath.Join(dir, "abc.webp"), blob.Path)

	data, err := os.ReadFile(blob.Path)
	require.NoError(t, err)
	assert.Equal(t, "image", string(data))

	require.NoError(t, store.Delete(ctx, blob.URL))
	_, err = os.Stat(blob.Path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, blob.URL), "deleting twice is fine")
}

func TestLocalBlobStore_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalBlobStore(dir, "/uploads")

	blob, err := store.Store(context.Background(), []byte("x"), "../../escape.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.png"), blob.Path)
}

type fakeGitHub struct {
	mu    sync.Mutex
	files map[string][]byte
	calls []string
}

func (f *fakeGitHub) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.calls = append(f.calls, r.Method)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		const prefix = "/repos/owner/repo/contents/"
		require.Contains(t, r.URL.Path, prefix)
		filePath := r.URL.Path[len(prefix):]

		switch r.Method {
		case http.MethodPut:
			var body githubContentRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "main", body.Branch)
			data, err := base64.StdEncoding.DecodeString(body.Content)
			require.NoError(t, err)
			f.files[filePath] = data
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"content":{"sha":"abc"}}`))
		case http.MethodGet:
			if _, ok := f.files[filePath]; !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"Not Found"}`))
				return
			}
			_, _ = w.Write([]byte(`{"sha":"abc"}`))
		case http.MethodDelete:
			var body githubContentRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "abc", body.SHA)
			delete(f.files, filePath)
			_, _ = w.Write([]byte(`{}`))
		}
	}
}

func TestGitHubBlobStore(t *testing.T) {
	fake := &fakeGitHub{files: map[string][]byte{}}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	store := NewGitHubBlobStore(config.Config{
		GitHubToken: "token",
		GitHubOwner: "owner",
		GitHubRepo:  "repo",
	})
	store.apiURL = server.URL
	ctx := context.Background()

	blob, err := store.Store(ctx, []byte("photo"), "a.webp")
	require.NoError(t, err)
	assert.Equal(t, "uploads/vistorias/a.webp", blob.Path)
	assert.Equal(t, "https://raw.githubusercontent.com/owner/repo/main/uploads/vistorias/a.webp", blob.URL)
	assert.Equal(t, []byte("photo"), fake.files["uploads/vistorias/a.webp"])

	require.NoError(t, store.Delete(ctx, blob.URL))
	assert.Empty(t, fake.files)
	assert.Equal(t, []string{http.MethodPut, http.MethodGet, http.MethodDelete}, fake.calls)

	assert.NoError(t, store.Delete(ctx, blob.Path), "missing blob is skipped")
}

func TestGitHubBlobStore_UploadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"sha wasn't supplied"}`))
	}))
	defer server.Close()

	store := NewGitHubBlobStore(config.Config{GitHubToken: "token", GitHubOwner: "owner", GitHubRepo: "repo"})
	store.apiURL = server.URL

	_, err := store.Store(context.Background(), []byte("photo"), "a.webp")
	assert.ErrorIs(t, err, ErrStorageBackend)
}

func TestNewBlobStore_SelectsBackend(t *testing.T) {
	_, ok := NewBlobStore(config.Config{StorageType: config.StorageLocal}).(*LocalBlobStore)
	assert.True(t, ok)

	_, ok = NewBlobStore(config.Config{StorageType: config.StorageGitHub}).(*GitHubBlobStore)
	assert.True(t, ok)
}
