// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package advance is the client service for cash advances paid before spending.
//
// Once an advance is reconciled against actual spend it is locked: no review
// action is offered regardless of its status.
package advance

import (
	"context"
	"time"

	"github.com/taibuivan/expensa/internal/platform/notify"
	"github.com/taibuivan/expensa/internal/platform/validate"
	"github.com/taibuivan/expensa/internal/resource"
	"github.com/taibuivan/expensa/internal/transport"
	"github.com/taibuivan/expensa/internal/workflow"
)

// Advance is a cash advance request. Timestamps are epoch millis.
type Advance struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employeeId"`
	EmployeeName  string          `json:"employeeName"`
	ProjectID     string          `json:"projectId,omitempty"`
	Amount        float64         `json:"amount"`
	Purpose       string          `json:"purpose"`
	Status        workflow.Status `json:"status"`
	Reconciled    bool            `json:"reconciled"`
	SettledAmount float64         `json:"settledAmount"`
	Comment       string          `json:"comment,omitempty"`
	CreatedAt     int64           `json:"createdAt"`
	UpdatedAt     int64           `json:"updatedAt"`
}

func (advance *Advance) CurrentStatus() workflow.Status { return advance.Status }
func (advance *Advance) Locked() bool                   { return advance.Reconciled }
func (advance *Advance) RecordID() string               { return advance.ID }

// ApplyStatus records a confirmed transition.
func (advance *Advance) ApplyStatus(status workflow.Status, at time.Time) {
	advance.Status = status
	advance.UpdatedAt = at.UnixMilli()
}

// Outstanding is the part of the advance not yet settled.
func (advance *Advance) Outstanding() float64 {
	if advance.SettledAmount >= advance.Amount {
		return 0
	}
	return advance.Amount - advance.SettledAmount
}

// NewAdvance is the create body. Amount and purpose are required.
type NewAdvance struct {
	ProjectID string  `json:"projectId,omitempty"`
	Amount    float64 `json:"amount"`
	Purpose   string  `json:"purpose"`
}

// Validate implements [resource.Payload].
func (payload NewAdvance) Validate(validator *validate.Validator) {
	validator.
		Positive("amount", payload.Amount).
		Required("purpose", payload.Purpose).
		MaxLen("purpose", payload.Purpose, 500)
}

// Spec is the wire description of the collection.
var Spec = resource.Spec{Path: "/advances", FilterKey: "status", Singular: "advance", Plural: "advances"}

// Service exposes the advance calls.
type Service struct {
	collection *resource.Collection[Advance]
}

// NewService creates the advance service.
func NewService(client *transport.Client, notifier notify.Notifier) *Service {
	return &Service{collection: resource.NewCollection[Advance](client, notifier, Spec)}
}

func (service *Service) List(ctx context.Context, query resource.ListQuery) (resource.Page[Advance], error) {
	return service.collection.List(ctx, query)
}

func (service *Service) Get(ctx context.Context, id string) (Advance, error) {
	return service.collection.Get(ctx, id)
}

func (service *Service) Create(ctx context.Context, payload NewAdvance) (Advance, error) {
	return service.collection.Create(ctx, payload)
}

func (service *Service) Approve(ctx context.Context, advance *Advance) error {
	return workflow.Transition(ctx, service.collection, advance, workflow.ActionApprove)
}

func (service *Service) Reject(ctx context.Context, advance *Advance) error {
	return workflow.Transition(ctx, service.collection, advance, workflow.ActionReject)
}

func (service *Service) MarkReviewed(ctx context.Context, advance *Advance) error {
	return workflow.Transition(ctx, service.collection, advance, workflow.ActionReview)
}
