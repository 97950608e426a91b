// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/expensa/internal/platform/apperr"
	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/platform/notify"
	"github.com/taibuivan/expensa/internal/session"
	"github.com/taibuivan/expensa/internal/transport"
)

type authFixture struct {
	store    *session.TokenStore
	recorder *notify.Recorder
	service  *session.AuthService

	mu   sync.Mutex
	hits map[string]int
}

func (fixture *authFixture) hitCount(path string) int {
	fixture.mu.Lock()
	defer fixture.mu.Unlock()
	return fixture.hits[path]
}

func (fixture *authFixture) totalHits() int {
	fixture.mu.Lock()
	defer fixture.mu.Unlock()
	return len(fixture.hits)
}

func newAuthFixture(t *testing.T, handler http.HandlerFunc) *authFixture {
	t.Helper()

	fixture := &authFixture{hits: map[string]int{}}
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		fixture.mu.Lock()
		fixture.hits[request.URL.Path]++
		fixture.mu.Unlock()
		handler(writer, request)
	}))
	t.Cleanup(server.Close)

	fixture.store = session.NewTokenStore(session.NewMemoryStorage(""), discardLogger)
	require.NoError(t, fixture.store.Initialize(context.Background()))
	fixture.recorder = notify.NewRecorder()

	client, err := transport.NewClient(
		transport.Options{Prefix: "/api", BaseURL: server.URL + "/api/v1", Timeout: 5 * time.Second},
		transport.Dependencies{
			Tokens:    fixture.store,
			Remover:   fixture.store,
			Notifier:  fixture.recorder,
			Navigator: fixture.recorder,
			Logger:    discardLogger,
		},
	)
	require.NoError(t, err)

	fixture.service = session.NewAuthService(client, fixture.store, fixture.recorder, discardLogger)
	return fixture
}

func writeJSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}

/*
TestLogin_SavesToken stores the token from a top-level `{token}` body.
*/
func TestLogin_SavesToken(t *testing.T) {
	token := userToken(t, "u-1", "Employee", time.Hour)

	fixture := newAuthFixture(t, func(writer http.ResponseWriter, request *http.Request) {
		var credentials session.Credentials
		_ = json.NewDecoder(request.Body).Decode(&credentials)
		assert.Equal(t, "jane@expensa.dev", credentials.Email)
		assert.Equal(t, "secret", credentials.Password)
		assert.Equal(t, http.MethodPost, request.Method)
		writeJSON(writer, http.StatusOK, map[string]string{"token": token})
	})

	require.NoError(t, fixture.service.Login(context.Background(), " jane@expensa.dev ", "secret"))
	assert.Equal(t, token, fixture.store.Current())
	assert.Equal(t, 1, fixture.hitCount("/api/v1/auth/login"))
}

/*
TestLogin_Precondition fails fast without a network call.
*/
func TestLogin_Precondition(t *testing.T) {
	fixture := newAuthFixture(t, func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	err := fixture.service.Login(context.Background(), "not-an-email", "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.Zero(t, fixture.totalHits())
}

/*
TestLogin_FailuresBypassRecovery leaves interpretation to the caller.
*/
func TestLogin_FailuresBypassRecovery(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		message string
	}{
		{"unauthorized_with_message", http.StatusUnauthorized, map[string]string{"message": "Account locked"}, "Account locked"},
		{"unauthorized_without_message", http.StatusUnauthorized, nil, constants.MsgInvalidCredentials},
		{"server_error", http.StatusInternalServerError, map[string]string{"message": "db down"}, constants.MsgLoginFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newAuthFixture(t, func(writer http.ResponseWriter, _ *http.Request) {
				writeJSON(writer, tt.status, tt.body)
			})

			err := fixture.service.Login(context.Background(), "jane@expensa.dev", "wrong")
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())

			assert.Empty(t, fixture.recorder.Events())
			assert.Empty(t, fixture.recorder.Navigations())
			assert.Empty(t, fixture.store.Current())
		})
	}
}

/*
TestMe_Unauthorized tears the session down and reports an expired session.
*/
func TestMe_Unauthorized(t *testing.T) {
	fixture := newAuthFixture(t, func(writer http.ResponseWriter, _ *http.Request) {
		writeJSON(writer, http.StatusUnauthorized, map[string]string{"message": "Invalid or expired token"})
	})
	require.NoError(t, fixture.store.Save(context.Background(), userToken(t, "u-1", "Admin", time.Hour)))

	profile, err := fixture.service.Me(context.Background())
	assert.Nil(t, profile)
	require.Error(t, err)
	assert.Equal(t, constants.MsgSessionExpired, err.Error())
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	assert.Empty(t, fixture.store.Current())
	assert.Equal(t, []string{constants.MsgUnauthorizedAction}, fixture.recorder.Messages(notify.LevelError))
	assert.Len(t, fixture.recorder.Navigations(), 1)
}

/*
TestMe_DecodesEnvelope unwraps `{data: user}`.
*/
func TestMe_DecodesEnvelope(t *testing.T) {
	fixture := newAuthFixture(t, func(writer http.ResponseWriter, _ *http.Request) {
		writeJSON(writer, http.StatusOK, map[string]any{"data": map[string]string{
			"id": "u-1", "name": "Jane Doe", "email": "jane@expensa.dev", "role": "Admin",
		}})
	})

	profile, err := fixture.service.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", profile.ID)
	assert.Equal(t, "Admin", profile.Role)
}

/*
TestLogout_Idempotent navigates on every call and leaves no token.
*/
func TestLogout_Idempotent(t *testing.T) {
	fixture := newAuthFixture(t, func(writer http.ResponseWriter, _ *http.Request) {})
	require.NoError(t, fixture.store.Save(context.Background(), "opaque"))

	require.NoError(t, fixture.service.Logout(context.Background()))
	require.NoError(t, fixture.service.Logout(context.Background()))

	assert.Empty(t, fixture.store.Current())
	assert.Equal(t, []string{"logout", "logout"}, fixture.recorder.Navigations())
}
