package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) (*app, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	a := &app{
		db:        db,
		store:     &profileStore{db: db},
		logger:    zap.NewNop(),
		jwtSecret: []byte("test-secret"),
	}
	return a, mock
}

func TestAuthenticateRoundTrip(t *testing.T) {
	a, mock := newTestApp(t)

	token, err := a.issueToken("user-1")
	require.NoError(t, err)

	mock.ExpectExec("UPDATE users SET last_online").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	var gotID string
	handler := a.authenticate(func(w http.ResponseWriter, r *http.Request) {
		gotID = callerID(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", gotID)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	a, _ := newTestApp(t)

	handler := a.authenticate(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateGarbageToken(t *testing.T) {
	a, _ := newTestApp(t)

	handler := a.authenticate(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a bad token")
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	a, _ := newTestApp(t)

	other := &app{jwtSecret: []byte("some-other-secret")}
	token, err := other.issueToken("user-1")
	require.NoError(t, err)

	handler := a.authenticate(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a foreign token")
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
