// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package views holds the presentation state derived from fetched collections.

Everything here is computed on the client with no server round trip:

  - Summaries: pure reductions with a zero-division guard.
  - [FilteredList]: a collection narrowed by a criterion, recomputed when either changes.
  - [ListView]: one server page plus its query, discarding out-of-order completions.
*/
package views

import (
	"math"

	"github.com/taibuivan/expensa/internal/department"
	"github.com/taibuivan/expensa/internal/platform/sec"
	"github.com/taibuivan/expensa/internal/project"
	"github.com/taibuivan/expensa/internal/user"
	"github.com/taibuivan/expensa/pkg/slice"
)

// # Arithmetic

// Percentage returns part/whole as a whole percentage in [0, 100], rounded half up.
// A non-positive whole yields 0.
func Percentage(part, whole float64) int {
	if whole <= 0 || math.IsNaN(part) || math.IsNaN(whole) {
		return 0
	}

	value := math.Floor(part/whole*100 + 0.5)
	switch {
	case value < 0:
		return 0
	case value > 100:
		return 100
	default:
		return int(value)
	}
}

// average divides total by count, returning 0 for an empty collection.
func average(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// # Budget

// BudgetSummary is the allocated amount against what was spent.
type BudgetSummary struct {
	Allocated       float64 `json:"allocated"`
	Used            float64 `json:"used"`
	Remaining       float64 `json:"remaining"`
	UsagePercentage int     `json:"usagePercentage"`
}

// Budget sums used and derives the remaining amount and usage percentage.
// Remaining never goes below zero; usage is 0 when nothing was allocated.
func Budget(allocated float64, used []float64) BudgetSummary {
	spent := slice.Sum(used, func(amount float64) float64 { return amount })

	return BudgetSummary{
		Allocated:       allocated,
		Used:            spent,
		Remaining:       math.Max(0, allocated-spent),
		UsagePercentage: Percentage(spent, allocated),
	}
}

// # Collections

// UsersSummary counts accounts by state and role.
type UsersSummary struct {
	Total            int `json:"total"`
	Active           int `json:"active"`
	Inactive         int `json:"inactive"`
	Admins           int `json:"admins"`
	Employees        int `json:"employees"`
	ActivePercentage int `json:"activePercentage"`
}

// SummarizeUsers reduces a user list.
func SummarizeUsers(users []user.User) UsersSummary {
	active := slice.Count(users, func(u user.User) bool { return u.IsActive() })

	return UsersSummary{
		Total:            len(users),
		Active:           active,
		Inactive:         len(users) - active,
		Admins:           slice.Count(users, func(u user.User) bool { return u.Role == sec.RoleAdmin }),
		Employees:        slice.Count(users, func(u user.User) bool { return u.Role == sec.RoleEmployee }),
		ActivePercentage: Percentage(float64(active), float64(len(users))),
	}
}

// DepartmentsSummary totals department budgets.
type DepartmentsSummary struct {
	Count         int     `json:"count"`
	TotalBudget   float64 `json:"totalBudget"`
	AverageBudget float64 `json:"averageBudget"`
}

// SummarizeDepartments reduces a department list.
func SummarizeDepartments(departments []department.Department) DepartmentsSummary {
	total := slice.Sum(departments, func(d department.Department) float64 { return d.Budget })

	return DepartmentsSummary{
		Count:         len(departments),
		TotalBudget:   total,
		AverageBudget: average(total, len(departments)),
	}
}

// ProjectsSummary totals project budgets and counts active ones.
type ProjectsSummary struct {
	Count         int     `json:"count"`
	Active        int     `json:"active"`
	TotalBudget   float64 `json:"totalBudget"`
	AverageBudget float64 `json:"averageBudget"`
}

// SummarizeProjects reduces a project list.
func SummarizeProjects(projects []project.Project) ProjectsSummary {
	total := slice.Sum(projects, func(p project.Project) float64 { return p.Budget })

	return ProjectsSummary{
		Count:         len(projects),
		Active:        slice.Count(projects, func(p project.Project) bool { return p.Status == project.StatusActive }),
		TotalBudget:   total,
		AverageBudget: average(total, len(projects)),
	}
}
