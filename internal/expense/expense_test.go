// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package expense_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/expensa/internal/expense"
	"github.com/taibuivan/expensa/internal/platform/apperr"
	"github.com/taibuivan/expensa/internal/platform/notify"
	"github.com/taibuivan/expensa/internal/resource"
	"github.com/taibuivan/expensa/internal/session"
	"github.com/taibuivan/expensa/internal/transport"
	"github.com/taibuivan/expensa/internal/workflow"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type apiStub struct {
	mu     sync.Mutex
	paths  []string
	status int
}

func (stub *apiStub) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	stub.mu.Lock()
	stub.paths = append(stub.paths, request.Method+" "+request.URL.RequestURI())
	status := stub.status
	stub.mu.Unlock()

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if status >= 400 {
		_, _ = writer.Write([]byte(`{"message":"rejected by server"}`))
		return
	}
	_, _ = writer.Write([]byte(`{"data":{"total":1,"items":[{"id":"exp-1","amount":42.5,"purpose":"Taxi","status":"Pending"}]}}`))
}

func (stub *apiStub) seen() []string {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return append([]string(nil), stub.paths...)
}

func newService(t *testing.T, status int) (*expense.Service, *apiStub, *notify.Recorder) {
	t.Helper()

	stub := &apiStub{status: status}
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	store := session.NewTokenStore(session.NewMemoryStorage(""), discardLogger)
	recorder := notify.NewRecorder()
	client, err := transport.NewClient(
		transport.Options{Prefix: "/api", BaseURL: server.URL + "/api/v1", Timeout: 5 * time.Second},
		transport.Dependencies{Tokens: store, Remover: store, Notifier: recorder, Navigator: recorder, Logger: discardLogger},
	)
	require.NoError(t, err)

	return expense.NewService(client, recorder), stub, recorder
}

/*
TestNewExpense_Validate requires a positive amount and a purpose.
*/
func TestNewExpense_Validate(t *testing.T) {
	service, stub, _ := newService(t, http.StatusCreated)

	_, err := service.Create(context.Background(), expense.NewExpense{Amount: 0, Purpose: "Lunch"})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	_, err = service.Create(context.Background(), expense.NewExpense{Amount: 12})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	assert.Empty(t, stub.seen())
}

/*
TestList sends the status filter.
*/
func TestList(t *testing.T) {
	service, stub, _ := newService(t, http.StatusOK)

	page, err := service.List(context.Background(), resource.ListQuery{Filter: string(workflow.StatusPending), Page: 1, Limit: 20})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, 42.5, page.Items[0].Amount)
	assert.Equal(t, workflow.StatusPending, page.Items[0].Status)
	assert.Equal(t, []string{"GET /api/v1/expenses?limit=20&page=1&status=Pending"}, stub.seen())
}

/*
TestApprove updates the local copy after the server accepted.
*/
func TestApprove(t *testing.T) {
	service, stub, _ := newService(t, http.StatusOK)
	record := &expense.Expense{ID: "exp-1", Status: workflow.StatusReviewed}

	require.NoError(t, service.Approve(context.Background(), record))

	assert.Equal(t, workflow.StatusApproved, record.Status)
	assert.NotZero(t, record.UpdatedAt)
	assert.Equal(t, []string{"PATCH /api/v1/expenses/exp-1/status"}, stub.seen())
}

/*
TestReject_ServerFailure keeps the cached status.
*/
func TestReject_ServerFailure(t *testing.T) {
	service, _, recorder := newService(t, http.StatusInternalServerError)
	record := &expense.Expense{ID: "exp-1", Status: workflow.StatusPending}

	err := service.Reject(context.Background(), record)
	require.Error(t, err)

	assert.Equal(t, "rejected by server", err.Error())
	assert.Equal(t, workflow.StatusPending, record.Status)
	assert.Equal(t, []string{"rejected by server"}, recorder.Messages(notify.LevelError))
}

/*
TestMarkReviewed_NotOffered is refused locally once approved.
*/
func TestMarkReviewed_NotOffered(t *testing.T) {
	service, stub, _ := newService(t, http.StatusOK)
	record := &expense.Expense{ID: "exp-1", Status: workflow.StatusApproved}

	require.Error(t, service.MarkReviewed(context.Background(), record))
	assert.Empty(t, stub.seen())
}
