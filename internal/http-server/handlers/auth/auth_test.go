package auth_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authhandler "github.com/ryota-okonogi/wonderful-editor/internal/http-server/handlers/auth"
	userservice "github.com/ryota-okonogi/wonderful-editor/internal/service/user"
	"github.com/ryota-okonogi/wonderful-editor/internal/storage/sqlite"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := authhandler.New(log, userservice.New(log, s, time.Hour), secret)

	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Route("/api/v1/auth", h.Register())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body map[string]string) *http.Response {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := srv.Client().Post(srv.URL+path, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/v1/auth/register",
		map[string]string{"name": "alice", "email": "alice@example.com", "password": "s3cret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var usr struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&usr))
	assert.NotZero(t, usr.ID)
	assert.Equal(t, "alice", usr.Name)

	resp = post(t, srv, "/api/v1/auth/login",
		map[string]string{"email": "alice@example.com", "password": "s3cret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tok))

	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, float64(usr.ID), parsed.Claims.(jwt.MapClaims)["uid"])
}

func TestRegister_Validation(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{name: "missing name", body: map[string]string{"email": "a@b.c", "password": "p"}},
		{name: "missing email", body: map[string]string{"name": "a", "password": "p"}},
		{name: "missing password", body: map[string]string{"name": "a", "email": "a@b.c"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := post(t, srv, "/api/v1/auth/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]string{"name": "alice", "email": "alice@example.com", "password": "s3cret"}

	resp := post(t, srv, "/api/v1/auth/register", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post(t, srv, "/api/v1/auth/register", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/v1/auth/register",
		map[string]string{"name": "alice", "email": "alice@example.com", "password": "s3cret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post(t, srv, "/api/v1/auth/login",
		map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = post(t, srv, "/api/v1/auth/login",
		map[string]string{"email": "nobody@example.com", "password": "s3cret"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
