// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package workflow holds the review status enum of expenses and advances and
the rules deciding which review actions a record still offers.

Rules:

  - Approve: status is Pending or Reviewed.
  - Reject, MarkReviewed: status is Pending.
  - A locked record (a reconciled advance) offers nothing.

The client consults these before calling the server; the development API
applies the same rules on arrival.
*/
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/expensa/internal/platform/apperr"
)

// # Status

// Status is the review state of an expense or advance.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusReviewed Status = "Reviewed"
	StatusRejected Status = "Rejected"
)

// Statuses lists the enum in display order.
var Statuses = []Status{StatusPending, StatusReviewed, StatusApproved, StatusRejected}

// ParseStatus normalizes a wire or user value ("pending", "APPROVED").
func ParseStatus(raw string) (Status, bool) {
	for _, status := range Statuses {
		if strings.EqualFold(strings.TrimSpace(raw), string(status)) {
			return status, true
		}
	}
	return "", false
}

// # Actions

// Action is a review transition.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionReview  Action = "review"
)

// Target returns the status an action moves a record to.
func (action Action) Target() Status {
	switch action {
	case ActionApprove:
		return StatusApproved
	case ActionReject:
		return StatusRejected
	case ActionReview:
		return StatusReviewed
	default:
		return ""
	}
}

// ActionFor returns the action reaching target, if any.
func ActionFor(target Status) (Action, bool) {
	for _, action := range []Action{ActionApprove, ActionReject, ActionReview} {
		if action.Target() == target {
			return action, true
		}
	}
	return "", false
}

// CanApprove reports whether status still offers approval.
func CanApprove(status Status) bool {
	return status == StatusPending || status == StatusReviewed
}

// CanReject reports whether status still offers rejection.
func CanReject(status Status) bool {
	return status == StatusPending
}

// CanMarkReviewed reports whether status still offers marking as reviewed.
func CanMarkReviewed(status Status) bool {
	return status == StatusPending
}

// # Records

// Reviewable is a record subject to the review rules.
type Reviewable interface {
	CurrentStatus() Status
	// Locked reports a record that accepts no further transition regardless of status.
	Locked() bool
}

// Allowed reports whether action is offered for record.
func Allowed(record Reviewable, action Action) bool {
	if record.Locked() {
		return false
	}

	status := record.CurrentStatus()
	switch action {
	case ActionApprove:
		return CanApprove(status)
	case ActionReject:
		return CanReject(status)
	case ActionReview:
		return CanMarkReviewed(status)
	default:
		return false
	}
}

// Available lists the actions offered for record.
func Available(record Reviewable) []Action {
	actions := make([]Action, 0, 3)
	for _, action := range []Action{ActionApprove, ActionReject, ActionReview} {
		if Allowed(record, action) {
			actions = append(actions, action)
		}
	}
	return actions
}

// NotAllowed is the error for a refused transition.
func NotAllowed(status Status, action Action) *apperr.AppError {
	return apperr.Conflict(fmt.Sprintf("Cannot %s a request that is %s", action, strings.ToLower(string(status))))
}

// # Transitions

// Record is a reviewable record the client can move between statuses.
type Record interface {
	Reviewable
	RecordID() string
	ApplyStatus(status Status, at time.Time)
}

// StatusUpdater sends the status change to the server.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id string, status string) error
}

// Transition checks the rule, calls the server, and only then updates record.
// A failed call leaves record untouched.
func Transition(ctx context.Context, updater StatusUpdater, record Record, action Action) error {
	if !Allowed(record, action) {
		return NotAllowed(record.CurrentStatus(), action)
	}

	target := action.Target()
	if err := updater.UpdateStatus(ctx, record.RecordID(), string(target)); err != nil {
		return err
	}

	record.ApplyStatus(target, time.Now())
	return nil
}
