// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package devapi

import (
	"fmt"

	"github.com/taibuivan/expensa/internal/advance"
	"github.com/taibuivan/expensa/internal/department"
	"github.com/taibuivan/expensa/internal/expense"
	"github.com/taibuivan/expensa/internal/platform/sec"
	"github.com/taibuivan/expensa/internal/project"
	"github.com/taibuivan/expensa/internal/user"
	"github.com/taibuivan/expensa/internal/workflow"
)

// Seeded credentials for local runs.
const (
	AdminEmail       = "admin@expensa.dev"
	AdminPassword    = "admin-password"
	EmployeeEmail    = "jane@expensa.dev"
	EmployeePassword = "employee-password"
)

// Seed fills store with a small demo data set.
//
// cost is the bcrypt cost; tests pass bcrypt.MinCost.
func Seed(store *Store, cost int) error {

	// ── 1. Organisation ───────────────────────────────────────────────────
	engineering := store.CreateDepartment(department.NewDepartment{Name: "Engineering", Manager: "Ada Admin", Budget: 250000})
	store.CreateDepartment(department.NewDepartment{Name: "Sales", Manager: "Sam Seller", Budget: 120000})

	platform := store.CreateProject(project.NewProject{Name: "Platform Rewrite", DepartmentID: engineering.ID, Budget: 90000})
	onHold := store.CreateProject(project.NewProject{Name: "Mobile App", DepartmentID: engineering.ID, Budget: 40000})
	if _, err := store.SetProjectStatus(onHold.ID, project.StatusOnHold); err != nil {
		return err
	}

	// ── 2. Accounts ───────────────────────────────────────────────────────
	accounts := []struct {
		name, email, password string
		role                  sec.Role
	}{
		{"Ada Admin", AdminEmail, AdminPassword, sec.RoleAdmin},
		{"Jane Doe", EmployeeEmail, EmployeePassword, sec.RoleEmployee},
	}

	var employee user.User
	for _, seed := range accounts {
		hash, err := sec.HashPassword(seed.password, cost)
		if err != nil {
			return fmt.Errorf("devapi: hash seed password: %w", err)
		}

		created, err := store.CreateUser(user.NewUser{
			Name:         seed.name,
			Email:        seed.email,
			Role:         seed.role,
			DepartmentID: engineering.ID,
		}, hash)
		if err != nil {
			return err
		}
		if seed.role == sec.RoleEmployee {
			employee = created
		}
	}

	// ── 3. Requests ───────────────────────────────────────────────────────
	taxi := store.CreateExpense(employee, expense.NewExpense{ProjectID: platform.ID, Amount: 42.5, Purpose: "Taxi to client site", Category: "Travel"})
	store.CreateExpense(employee, expense.NewExpense{ProjectID: platform.ID, Amount: 129.99, Purpose: "Team lunch", Category: "Meals"})
	if _, err := store.TransitionExpense(taxi.ID, workflow.StatusApproved); err != nil {
		return err
	}

	store.CreateAdvance(employee, advance.NewAdvance{ProjectID: platform.ID, Amount: 1500, Purpose: "Conference travel"})
	return nil
}
