// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package expense is the client service for employee expense claims.
package expense

import (
	"context"
	"time"

	"github.com/taibuivan/expensa/internal/platform/notify"
	"github.com/taibuivan/expensa/internal/platform/validate"
	"github.com/taibuivan/expensa/internal/resource"
	"github.com/taibuivan/expensa/internal/transport"
	"github.com/taibuivan/expensa/internal/workflow"
)

// Expense is a claim for money already spent. Timestamps are epoch millis.
type Expense struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employeeId"`
	EmployeeName string          `json:"employeeName"`
	ProjectID    string          `json:"projectId,omitempty"`
	Amount       float64         `json:"amount"`
	Purpose      string          `json:"purpose"`
	Category     string          `json:"category,omitempty"`
	Status       workflow.Status `json:"status"`
	Comment      string          `json:"comment,omitempty"`
	CreatedAt    int64           `json:"createdAt"`
	UpdatedAt    int64           `json:"updatedAt"`
}

func (expense *Expense) CurrentStatus() workflow.Status { return expense.Status }
func (expense *Expense) Locked() bool                   { return false }
func (expense *Expense) RecordID() string               { return expense.ID }

// ApplyStatus records a confirmed transition.
func (expense *Expense) ApplyStatus(status workflow.Status, at time.Time) {
	expense.Status = status
	expense.UpdatedAt = at.UnixMilli()
}

// NewExpense is the create body. Amount and purpose are required.
type NewExpense struct {
	ProjectID string  `json:"projectId,omitempty"`
	Amount    float64 `json:"amount"`
	Purpose   string  `json:"purpose"`
	Category  string  `json:"category,omitempty"`
}

// Validate implements [resource.Payload].
func (payload NewExpense) Validate(validator *validate.Validator) {
	validator.
		Positive("amount", payload.Amount).
		Required("purpose", payload.Purpose).
		MaxLen("purpose", payload.Purpose, 500)
}

// Spec is the wire description of the collection.
var Spec = resource.Spec{Path: "/expenses", FilterKey: "status", Singular: "expense", Plural: "expenses"}

// Service exposes the expense calls.
type Service struct {
	collection *resource.Collection[Expense]
}

// NewService creates the expense service.
func NewService(client *transport.Client, notifier notify.Notifier) *Service {
	return &Service{collection: resource.NewCollection[Expense](client, notifier, Spec)}
}

// List fetches one page, optionally filtered by status.
func (service *Service) List(ctx context.Context, query resource.ListQuery) (resource.Page[Expense], error) {
	return service.collection.List(ctx, query)
}

// Get fetches one expense.
func (service *Service) Get(ctx context.Context, id string) (Expense, error) {
	return service.collection.Get(ctx, id)
}

// Create submits a new expense.
func (service *Service) Create(ctx context.Context, payload NewExpense) (Expense, error) {
	return service.collection.Create(ctx, payload)
}

// Approve moves a Pending or Reviewed expense to Approved.
func (service *Service) Approve(ctx context.Context, expense *Expense) error {
	return workflow.Transition(ctx, service.collection, expense, workflow.ActionApprove)
}

// Reject moves a Pending expense to Rejected.
func (service *Service) Reject(ctx context.Context, expense *Expense) error {
	return workflow.Transition(ctx, service.collection, expense, workflow.ActionReject)
}

// MarkReviewed moves a Pending expense to Reviewed.
func (service *Service) MarkReviewed(ctx context.Context, expense *Expense) error {
	return workflow.Transition(ctx, service.collection, expense, workflow.ActionReview)
}
