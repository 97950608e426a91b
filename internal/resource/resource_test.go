// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
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
	"github.com/taibuivan/expensa/internal/platform/validate"
	"github.com/taibuivan/expensa/internal/resource"
	"github.com/taibuivan/expensa/internal/session"
	"github.com/taibuivan/expensa/internal/transport"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type widget struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type newWidget struct {
	Name string `json:"name"`
}

func (payload newWidget) Validate(validator *validate.Validator) {
	validator.Required("name", payload.Name)
}

var widgetSpec = resource.Spec{Path: "/widgets", FilterKey: "status", Singular: "widget", Plural: "widgets"}

// fixture is an API answering with a fixed status and body, counting calls.
type fixture struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
	status   int
	body     string
}

func (f *fixture) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	raw, _ := io.ReadAll(request.Body)

	f.mu.Lock()
	f.requests = append(f.requests, request)
	f.bodies = append(f.bodies, string(raw))
	status, body := f.status, f.body
	f.mu.Unlock()

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_, _ = writer.Write([]byte(body))
}

func (f *fixture) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fixture) last() (*http.Request, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1], f.bodies[len(f.bodies)-1]
}

func newCollection(t *testing.T, status int, body string) (*resource.Collection[widget], *fixture, *notify.Recorder) {
	t.Helper()

	api := &fixture{status: status, body: body}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	store := session.NewTokenStore(session.NewMemoryStorage(""), discardLogger)
	recorder := notify.NewRecorder()

	client, err := transport.NewClient(
		transport.Options{Prefix: "/api", BaseURL: server.URL + "/api/v1", Timeout: 5 * time.Second},
		transport.Dependencies{Tokens: store, Remover: store, Notifier: recorder, Navigator: recorder, Logger: discardLogger},
	)
	require.NoError(t, err)

	return resource.NewCollection[widget](client, recorder, widgetSpec), api, recorder
}

/*
TestMessagesFor derives every fixed text from the nouns.
*/
func TestMessagesFor(t *testing.T) {
	messages := resource.MessagesFor(widgetSpec)

	assert.Equal(t, "Failed to load widgets", messages.ListFailed)
	assert.Equal(t, "Failed to load widget", messages.GetFailed)
	assert.Equal(t, "Failed to create widget", messages.CreateFailed)
	assert.Equal(t, "Widget created successfully", messages.Created)
	assert.Equal(t, "Widget status updated", messages.Updated)
}

/*
TestValues applies defaults and never sends the ALL sentinel.
*/
func TestValues(t *testing.T) {
	collection, _, _ := newCollection(t, http.StatusOK, `{}`)

	tests := []struct {
		name  string
		query resource.ListQuery
		want  string
	}{
		{"defaults", resource.ListQuery{}, "limit=10&page=1"},
		{"all_sentinel", resource.ListQuery{Filter: "ALL", Page: 2, Limit: 5}, "limit=5&page=2"},
		{"all_lowercase", resource.ListQuery{Filter: "all"}, "limit=10&page=1"},
		{"filtered", resource.ListQuery{Filter: "Pending", Page: 3}, "limit=10&page=3&status=Pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collection.Values(tt.query).Encode())
		})
	}
}

/*
TestList decodes the page envelope and normalizes a null item list.
*/
func TestList(t *testing.T) {
	collection, api, _ := newCollection(t, http.StatusOK, `{"data":{"total":12,"items":[{"id":"w-1","name":"Bolt"}]}}`)

	page, err := collection.List(context.Background(), resource.ListQuery{Filter: "Approved", Page: 2})
	require.NoError(t, err)

	assert.Equal(t, 12, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Bolt", page.Items[0].Name)

	request, _ := api.last()
	assert.Equal(t, "/api/v1/widgets", request.URL.Path)
	assert.Equal(t, "Approved", request.URL.Query().Get("status"))

	empty, _, _ := newCollection(t, http.StatusOK, `{"data":{"total":0,"items":null}}`)
	page, err = empty.List(context.Background(), resource.ListQuery{})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

/*
TestList_Failure prefers the server message and falls back to the default.
*/
func TestList_Failure(t *testing.T) {
	collection, _, recorder := newCollection(t, http.StatusInternalServerError, `{"message":"database is down"}`)

	_, err := collection.List(context.Background(), resource.ListQuery{})
	require.Error(t, err)
	assert.Equal(t, "database is down", err.Error())
	assert.Equal(t, []string{"database is down"}, recorder.Messages(notify.LevelError))

	collection, _, _ = newCollection(t, http.StatusNotFound, ``)
	_, err = collection.List(context.Background(), resource.ListQuery{})
	require.Error(t, err)
	assert.Equal(t, "Failed to load widgets", err.Error())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

/*
TestCreate_Precondition fails fast without a network round trip.
*/
func TestCreate_Precondition(t *testing.T) {
	collection, api, recorder := newCollection(t, http.StatusCreated, `{"data":{"id":"w-9"}}`)

	_, err := collection.Create(context.Background(), newWidget{})
	require.Error(t, err)

	assert.Equal(t, constants.MsgBadRequest, err.Error())
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.Zero(t, api.calls())
	assert.Equal(t, []string{constants.MsgBadRequest}, recorder.Messages(notify.LevelError))
}

/*
TestCreate_Success posts the body and toasts.
*/
func TestCreate_Success(t *testing.T) {
	collection, api, recorder := newCollection(t, http.StatusCreated, `{"data":{"id":"w-9","name":"Nut"}}`)

	created, err := collection.Create(context.Background(), newWidget{Name: "Nut"})
	require.NoError(t, err)
	assert.Equal(t, "w-9", created.ID)

	request, body := api.last()
	assert.Equal(t, http.MethodPost, request.Method)
	assert.JSONEq(t, `{"name":"Nut"}`, body)
	assert.Equal(t, []string{"Widget created successfully"}, recorder.Messages(notify.LevelSuccess))
}

/*
TestCreate_ServerMessageOnlyOn400 surfaces the server text for 400 and the default otherwise.
*/
func TestCreate_ServerMessageOnlyOn400(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"bad_request", http.StatusBadRequest, "Name already taken"},
		{"server_error", http.StatusInternalServerError, "Failed to create widget"},
		{"conflict", http.StatusConflict, "Failed to create widget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collection, _, _ := newCollection(t, tt.status, `{"message":"Name already taken"}`)

			_, err := collection.Create(context.Background(), newWidget{Name: "Nut"})
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

/*
TestUpdateStatus patches the status sub-resource.
*/
func TestUpdateStatus(t *testing.T) {
	collection, api, recorder := newCollection(t, http.StatusOK, `{"data":{"id":"w-1"}}`)

	require.NoError(t, collection.UpdateStatus(context.Background(), "w-1", "Approved"))

	request, body := api.last()
	assert.Equal(t, http.MethodPatch, request.Method)
	assert.Equal(t, "/api/v1/widgets/w-1/status", request.URL.Path)

	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &sent))
	assert.Equal(t, "Approved", sent["status"])
	assert.Equal(t, []string{"Widget status updated"}, recorder.Messages(notify.LevelSuccess))
}

/*
TestFailure_Unauthorized leaves the toast to the pipeline.
*/
func TestFailure_Unauthorized(t *testing.T) {
	collection, _, recorder := newCollection(t, http.StatusUnauthorized, `{"message":"token expired"}`)

	_, err := collection.Get(context.Background(), "w-1")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	// Exactly one toast, raised by the recovery stage.
	assert.Equal(t, []string{constants.MsgUnauthorizedAction}, recorder.Messages(notify.LevelError))
	assert.Equal(t, []string{"unauthorized"}, recorder.Navigations())
}
