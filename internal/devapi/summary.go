// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package devapi

import (
	"github.com/taibuivan/expensa/internal/advance"
	"github.com/taibuivan/expensa/internal/dashboard"
	"github.com/taibuivan/expensa/internal/department"
	"github.com/taibuivan/expensa/internal/expense"
	"github.com/taibuivan/expensa/internal/workflow"
	"github.com/taibuivan/expensa/pkg/slice"
)

// BudgetBody is the budget endpoint payload: the allocation and the approved spend.
type BudgetBody struct {
	Allocated float64           `json:"allocated"`
	Expenses  []dashboard.Spent `json:"expenses"`
}

func countStatuses(statuses []workflow.Status, amounts []float64) dashboard.StatusSummary {
	count := func(target workflow.Status) int {
		return slice.Count(statuses, func(status workflow.Status) bool { return status == target })
	}

	return dashboard.StatusSummary{
		Total:       len(statuses),
		Pending:     count(workflow.StatusPending),
		Approved:    count(workflow.StatusApproved),
		Reviewed:    count(workflow.StatusReviewed),
		Rejected:    count(workflow.StatusRejected),
		TotalAmount: slice.Sum(amounts, func(amount float64) float64 { return amount }),
	}
}

// ExpensesSummary counts the expenses owner may see.
func (store *Store) ExpensesSummary(owner Owner) dashboard.StatusSummary {
	expenses := store.ListExpenses(owner, "")
	return countStatuses(
		slice.Map(expenses, func(e expense.Expense) workflow.Status { return e.Status }),
		slice.Map(expenses, func(e expense.Expense) float64 { return e.Amount }),
	)
}

// AdvancesSummary counts the advances owner may see.
func (store *Store) AdvancesSummary(owner Owner) dashboard.StatusSummary {
	advances := store.ListAdvances(owner, "")
	return countStatuses(
		slice.Map(advances, func(a advance.Advance) workflow.Status { return a.Status }),
		slice.Map(advances, func(a advance.Advance) float64 { return a.Amount }),
	)
}

// Budget returns the total department allocation and every approved expense.
func (store *Store) Budget() BudgetBody {
	approved := store.ListExpenses(Owner{}, workflow.StatusApproved)

	return BudgetBody{
		Allocated: slice.Sum(store.ListDepartments(), func(d department.Department) float64 { return d.Budget }),
		Expenses:  slice.Map(approved, func(e expense.Expense) dashboard.Spent { return dashboard.Spent{Amount: e.Amount} }),
	}
}
