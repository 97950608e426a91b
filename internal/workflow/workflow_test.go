// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package workflow_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/expensa/internal/platform/apperr"
	"github.com/taibuivan/expensa/internal/workflow"
)

type record struct {
	id        string
	status    workflow.Status
	locked    bool
	appliedAt time.Time
}

func (r *record) CurrentStatus() workflow.Status { return r.status }
func (r *record) Locked() bool                   { return r.locked }
func (r *record) RecordID() string               { return r.id }
func (r *record) ApplyStatus(status workflow.Status, at time.Time) {
	r.status = status
	r.appliedAt = at
}

type updater struct {
	calls []string
	err   error
}

func (u *updater) UpdateStatus(_ context.Context, id string, status string) error {
	u.calls = append(u.calls, id+"="+status)
	return u.err
}

/*
TestRules checks every status against the three predicates.
*/
func TestRules(t *testing.T) {
	tests := []struct {
		status                         workflow.Status
		approve, reject, markReviewed bool
	}{
		{workflow.StatusPending, true, true, true},
		{workflow.StatusReviewed, true, false, false},
		{workflow.StatusApproved, false, false, false},
		{workflow.StatusRejected, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.approve, workflow.CanApprove(tt.status))
			assert.Equal(t, tt.reject, workflow.CanReject(tt.status))
			assert.Equal(t, tt.markReviewed, workflow.CanMarkReviewed(tt.status))
		})
	}
}

/*
TestAvailable_Locked offers nothing for a locked record, whatever its status.
*/
func TestAvailable_Locked(t *testing.T) {
	pending := &record{status: workflow.StatusPending}
	assert.Equal(t, []workflow.Action{workflow.ActionApprove, workflow.ActionReject, workflow.ActionReview}, workflow.Available(pending))

	reconciled := &record{status: workflow.StatusPending, locked: true}
	assert.Empty(t, workflow.Available(reconciled))
	assert.False(t, workflow.Allowed(reconciled, workflow.ActionApprove))
}

/*
TestParseStatus accepts any casing.
*/
func TestParseStatus(t *testing.T) {
	status, ok := workflow.ParseStatus(" reviewed ")
	require.True(t, ok)
	assert.Equal(t, workflow.StatusReviewed, status)

	_, ok = workflow.ParseStatus("archived")
	assert.False(t, ok)

	action, ok := workflow.ActionFor(workflow.StatusRejected)
	require.True(t, ok)
	assert.Equal(t, workflow.ActionReject, action)

	_, ok = workflow.ActionFor(workflow.StatusPending)
	assert.False(t, ok)
}

/*
TestTransition_Success applies the target only after the server accepted it.
*/
func TestTransition_Success(t *testing.T) {
	r := &record{id: "exp-1", status: workflow.StatusReviewed}
	u := &updater{}

	err := workflow.Transition(context.Background(), u, r, workflow.ActionApprove)
	require.NoError(t, err)

	assert.Equal(t, []string{"exp-1=Approved"}, u.calls)
	assert.Equal(t, workflow.StatusApproved, r.status)
	assert.False(t, r.appliedAt.IsZero())
}

/*
TestTransition_ServerFailure leaves the record untouched.
*/
func TestTransition_ServerFailure(t *testing.T) {
	r := &record{id: "exp-2", status: workflow.StatusPending}
	u := &updater{err: errors.New("boom")}

	err := workflow.Transition(context.Background(), u, r, workflow.ActionReject)
	require.Error(t, err)

	assert.Len(t, u.calls, 1)
	assert.Equal(t, workflow.StatusPending, r.status)
	assert.True(t, r.appliedAt.IsZero())
}

/*
TestTransition_Refused never calls the server for a refused action.
*/
func TestTransition_Refused(t *testing.T) {
	r := &record{id: "exp-3", status: workflow.StatusApproved}
	u := &updater{}

	err := workflow.Transition(context.Background(), u, r, workflow.ActionReview)
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusConflict, appError.HTTPStatus)
	assert.Equal(t, "Cannot review a request that is approved", appError.Message)
	assert.Empty(t, u.calls)
}
