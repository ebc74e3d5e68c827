package client

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	data := []byte("hello world")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	size, sum, err := FileChecksum(path)
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), size)

	want := sha256.Sum256(data)
	require.Equal(t, hex.EncodeToString(want[:]), sum)
}

func TestAPI_Login(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "alice@example.com", req["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":         "tok-123",
			"must_change_password": true,
		})
	}))
	defer ts.Close()

	api := NewAPI(ts.URL, "")
	token, mustChange, err := api.Login("alice@example.com", "482913")
	require.NoError(t, err)
	require.Equal(t, "tok-123", token)
	require.True(t, mustChange)
}

func TestAPI_ErrorDecoding(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"code":   "illegal_state",
			"detail": "session already decided",
		})
	}))
	defer ts.Close()

	api := NewAPI(ts.URL, "tok")
	err := api.Verb("s-1", "accept")
	require.ErrorContains(t, err, "illegal_state")
	require.ErrorContains(t, err, "session already decided")
}

func TestAPI_UploadStreamsMultipart(t *testing.T) {
	data := []byte("file payload")
	path := filepath.Join(t.TempDir(), "payload.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	var gotAuth string
	var gotBytes []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/api/transfers/sessions/s-1/upload", r.URL.Path)

		mr, err := r.MultipartReader()
		require.NoError(t, err)
		part, err := mr.NextPart()
		require.NoError(t, err)
		require.Equal(t, "file", part.FormName())
		gotBytes, err = io.ReadAll(part)
		require.NoError(t, err)

		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer ts.Close()

	api := NewAPI(ts.URL, "tok-123")
	require.NoError(t, api.Upload("s-1", path))
	require.Equal(t, "Bearer tok-123", gotAuth)
	require.Equal(t, data, gotBytes)
}

func TestAPI_DownloadWritesFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/transfers/sessions/s-1/download", r.URL.Path)
		w.Write([]byte("artifact bytes"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "out.bin")
	api := NewAPI(ts.URL, "tok")
	require.NoError(t, api.Download("s-1", dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "artifact bytes", string(got))
}
