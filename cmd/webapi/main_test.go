package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/silktrader/vernissage/pkg/auth"
	"github.com/silktrader/vernissage/pkg/storage/images"
	"github.com/silktrader/vernissage/pkg/storage/sqlite"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler(t *testing.T) (http.Handler, images.Storage) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	dir := t.TempDir()

	storage, err := sqlite.New(logger, filepath.Join(dir, "gallery.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	imageStorage, err := images.New(logger, filepath.Join(dir, "images"))
	require.NoError(t, err)

	handler, err := newAPIHandler(logger, storage, imageStorage, auth.NewHasher(bcrypt.MinCost))
	require.NoError(t, err)
	return applyCORSHandler(handler, []string{"*"}), imageStorage
}

func call(t *testing.T, handler http.Handler, method, path, body string) (int, string) {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, path, strings.NewReader(body)))
	return recorder.Code, recorder.Body.String()
}

func messageOf(t *testing.T, body string) string {
	t.Helper()
	var payload struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	return payload.Message
}

func TestGalleryScenario(t *testing.T) {
	handler, _ := newTestHandler(t)

	status, body := call(t, handler, http.MethodPost, "/api/register", `{"username": "alice", "email": "a@x.com", "password": "pw1"}`)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "User registered successfully", messageOf(t, body))

	status, body = call(t, handler, http.MethodPost, "/api/register", `{"username": "alice", "email": "b@x.com", "password": "pw2"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User already exists", messageOf(t, body))

	status, body = call(t, handler, http.MethodPost, "/api/register", `{"username": "bob", "email": "a@x.com", "password": "pw2"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User already exists", messageOf(t, body))

	status, body = call(t, handler, http.MethodPost, "/api/login", `{"username": "alice", "password": "pw1"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Login successful", messageOf(t, body))

	status, _ = call(t, handler, http.MethodPost, "/api/login", `{"username": "alice", "password": "pw2"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, handler, http.MethodPost, "/api/login", `{"username": "mallory", "password": "pw1"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	// alice is the first registered user
	status, body = call(t, handler, http.MethodPost, "/api/artworks",
		`{"title": "Sunset", "description": "...", "image": "sunset.png", "category": "painting", "user_id": 1}`)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Artwork uploaded successfully", messageOf(t, body))

	status, body = call(t, handler, http.MethodGet, "/api/artworks", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t,
		`[{"id": 1, "title": "Sunset", "description": "...", "image": "sunset.png", "category": "painting", "user_id": 1}]`,
		body)

	status, body = call(t, handler, http.MethodPost, "/api/feedback", `{"content": "Stunning", "user_id": 1, "artwork_id": 1}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Feedback submitted successfully", messageOf(t, body))

	status, _ = call(t, handler, http.MethodPost, "/api/feedback", `{"content": "Stunning", "user_id": 1, "artwork_id": 2}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, handler, http.MethodGet, "/api/artworks/1/feedback", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"id": 1, "content": "Stunning", "user_id": 1, "artwork_id": 1}]`, body)

	status, _ = call(t, handler, http.MethodPost, "/api/blog-posts", `{"title": "Hello", "content": "First post", "user_id": 1}`)
	assert.Equal(t, http.StatusCreated, status)
	status, body = call(t, handler, http.MethodGet, "/api/blog-posts", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"id": 1, "title": "Hello", "content": "First post", "user_id": 1}]`, body)

	status, _ = call(t, handler, http.MethodPost, "/api/events", `{"title": "Vernissage", "description": "Opening", "date": "2024-05-01"}`)
	assert.Equal(t, http.StatusCreated, status)
	status, body = call(t, handler, http.MethodGet, "/api/events", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"id": 1, "title": "Vernissage", "description": "Opening", "date": "2024-05-01"}]`, body)
}

func TestArtworksKeepCreationOrder(t *testing.T) {
	handler, _ := newTestHandler(t)

	status, _ := call(t, handler, http.MethodPost, "/api/register", `{"username": "alice", "email": "a@x.com", "password": "pw1"}`)
	require.Equal(t, http.StatusCreated, status)

	for _, title := range []string{"A1", "A2", "A3"} {
		status, _ = call(t, handler, http.MethodPost, "/api/artworks",
			fmt.Sprintf(`{"title": %q, "description": "d", "image": "i.png", "category": "c", "user_id": 1}`, title))
		require.Equal(t, http.StatusCreated, status)
	}

	_, body := call(t, handler, http.MethodGet, "/api/artworks", "")
	var listed []struct {
		Id    int64  `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &listed))
	require.Len(t, listed, 3)
	for i, title := range []string{"A1", "A2", "A3"} {
		assert.Equal(t, title, listed[i].Title)
		assert.Equal(t, int64(i+1), listed[i].Id)
	}
}

func TestDanglingAuthor(t *testing.T) {
	handler, _ := newTestHandler(t)

	status, body := call(t, handler, http.MethodPost, "/api/artworks",
		`{"title": "Sunset", "description": "...", "image": "sunset.png", "category": "painting", "user_id": 5}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "The referenced user doesn't exist", messageOf(t, body))

	_, body = call(t, handler, http.MethodGet, "/api/artworks", "")
	assert.JSONEq(t, `[]`, body)
}

func TestImagesAndLiveness(t *testing.T) {
	handler, imageStorage := newTestHandler(t)
	require.NoError(t, os.WriteFile(filepath.Join(imageStorage.Path, "sunset.png"), []byte("png"), 0o600))

	status, body := call(t, handler, http.MethodGet, "/images/sunset.png", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "png", body)

	status, _ = call(t, handler, http.MethodGet, "/liveness", "")
	assert.Equal(t, http.StatusOK, status)
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error {
	return errors.New("database is closed")
}

func TestLivenessFailure(t *testing.T) {
	recorder := httptest.NewRecorder()
	liveness(failingPinger{})(recorder, httptest.NewRequest(http.MethodGet, "/liveness", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "closed")
}

func TestCORSPreflight(t *testing.T) {
	handler, _ := newTestHandler(t)

	request := httptest.NewRequest(http.MethodOptions, "/api/register", nil)
	request.Header.Set("Origin", "http://gallery.example")
	request.Header.Set("Access-Control-Request-Method", http.MethodPost)
	request.Header.Set("Access-Control-Request-Headers", "Content-Type")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
}
