// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package dashboard is the client service behind the overview screen.

The status summaries are computed by the server and fetched as-is; only the
approval rate is derived locally. The budget endpoint returns the allocated
amount and the spent amounts, which are summed on the client.
*/
package dashboard

import (
	"context"
	"errors"

	"github.com/taibuivan/expensa/internal/platform/apperr"
	"github.com/taibuivan/expensa/internal/platform/notify"
	"github.com/taibuivan/expensa/internal/transport"
	"github.com/taibuivan/expensa/internal/views"
	"github.com/taibuivan/expensa/pkg/slice"
)

const (
	PathExpensesSummary = "/dashboard/expenses-summary"
	PathAdvancesSummary = "/dashboard/advances-summary"
	PathBudget          = "/dashboard/budget"
)

// # Models

// StatusSummary counts expenses or advances per review status.
type StatusSummary struct {
	Total       int     `json:"total"`
	Pending     int     `json:"pending"`
	Approved    int     `json:"approved"`
	Reviewed    int     `json:"reviewed"`
	Rejected    int     `json:"rejected"`
	TotalAmount float64 `json:"totalAmount"`

	// ApprovalRate is Approved over Total as a whole percentage. Client side.
	ApprovalRate int `json:"-"`
}

// Spent is one amount counted against the budget.
type Spent struct {
	Amount float64 `json:"amount"`
}

// budgetBody is the wire shape of the budget endpoint.
type budgetBody struct {
	Allocated float64 `json:"allocated"`
	Expenses  []Spent `json:"expenses"`
}

// # Service

// Service exposes the dashboard calls.
type Service struct {
	client   *transport.Client
	notifier notify.Notifier
}

// NewService creates the dashboard service.
func NewService(client *transport.Client, notifier notify.Notifier) *Service {
	return &Service{client: client, notifier: notifier}
}

// ExpensesSummary fetches the expense counts.
func (service *Service) ExpensesSummary(ctx context.Context) (StatusSummary, error) {
	return service.summary(ctx, PathExpensesSummary, "Failed to load expenses summary")
}

// AdvanceSummary fetches the advance counts.
func (service *Service) AdvanceSummary(ctx context.Context) (StatusSummary, error) {
	return service.summary(ctx, PathAdvancesSummary, "Failed to load advances summary")
}

// Budget fetches the allocation and sums what was spent against it.
func (service *Service) Budget(ctx context.Context) (views.BudgetSummary, error) {
	var body budgetBody
	if err := service.client.Get(ctx, PathBudget, nil, &body); err != nil {
		return views.BudgetSummary{}, service.fail(err, "Failed to load budget")
	}

	amounts := slice.Map(body.Expenses, func(spent Spent) float64 { return spent.Amount })
	return views.Budget(body.Allocated, amounts), nil
}

func (service *Service) summary(ctx context.Context, path, fallback string) (StatusSummary, error) {
	var summary StatusSummary
	if err := service.client.Get(ctx, path, nil, &summary); err != nil {
		return StatusSummary{}, service.fail(err, fallback)
	}

	summary.ApprovalRate = views.Percentage(float64(summary.Approved), float64(summary.Total))
	return summary, nil
}

func (service *Service) fail(err error, fallback string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	labelled := apperr.Describe(err, fallback)
	switch apperr.KindOf(err) {
	case apperr.KindNetwork, apperr.KindUnauthorized:
	default:
		notify.Error(service.notifier, labelled.Error())
	}
	return labelled
}
