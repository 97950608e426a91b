// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package devapi

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/expensa/internal/advance"
	"github.com/taibuivan/expensa/internal/department"
	"github.com/taibuivan/expensa/internal/expense"
	"github.com/taibuivan/expensa/internal/platform/apperr"
	"github.com/taibuivan/expensa/internal/platform/sec"
	"github.com/taibuivan/expensa/internal/project"
	"github.com/taibuivan/expensa/internal/user"
	"github.com/taibuivan/expensa/internal/workflow"
	"github.com/taibuivan/expensa/pkg/slice"
	"github.com/taibuivan/expensa/pkg/uuidv7"
)

// # Tables

// table keeps rows in insertion order, newest last.
type table[T any] struct {
	rows  map[string]*T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

func (t *table[T]) insert(id string, row T) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = &row
}

func (t *table[T]) find(id string) (*T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

// all returns copies, newest first.
func (t *table[T]) all() []T {
	rows := make([]T, 0, len(t.order))
	for i := len(t.order) - 1; i >= 0; i-- {
		rows = append(rows, *t.rows[t.order[i]])
	}
	return rows
}

// account is a user together with its password hash.
type account struct {
	user.User
	PasswordHash string
}

// # Store

// Store is the in-memory data set behind the development API.
//
// Every method returns copies; callers never hold a pointer into the store.
type Store struct {
	mu sync.RWMutex

	accounts    *table[account]
	expenses    *table[expense.Expense]
	advances    *table[advance.Advance]
	projects    *table[project.Project]
	departments *table[department.Department]

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:    newTable[account](),
		expenses:    newTable[expense.Expense](),
		advances:    newTable[advance.Advance](),
		projects:    newTable[project.Project](),
		departments: newTable[department.Department](),
		now:         time.Now,
	}
}

// Ping reports whether the store can serve logins.
func (store *Store) Ping(_ context.Context) error {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if len(store.accounts.order) == 0 {
		return errors.New("devapi: no accounts seeded")
	}
	return nil
}

func (store *Store) stamp() int64 {
	return store.now().UnixMilli()
}

// # Accounts

// Authenticate checks the credentials and returns the matching active user.
func (store *Store) Authenticate(email, password string) (user.User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	for _, id := range store.accounts.order {
		candidate := store.accounts.rows[id]
		if !strings.EqualFold(candidate.Email, strings.TrimSpace(email)) {
			continue
		}

		if !sec.PasswordMatches(candidate.PasswordHash, password) {
			break
		}
		if !candidate.IsActive() {
			return user.User{}, apperr.Unauthorized("Account is inactive")
		}
		return candidate.User, nil
	}

	return user.User{}, apperr.Unauthorized("Invalid email or password")
}

// CreateUser stores a new account. The email must be unique.
func (store *Store) CreateUser(input user.NewUser, passwordHash string) (user.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, existing := range store.accounts.rows {
		if strings.EqualFold(existing.Email, input.Email) {
			return user.User{}, apperr.Conflict("Email is already registered")
		}
	}

	now := store.stamp()
	created := user.User{
		ID:           uuidv7.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Role:         input.Role,
		DepartmentID: input.DepartmentID,
		Status:       user.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	store.accounts.insert(created.ID, account{User: created, PasswordHash: passwordHash})
	return created, nil
}

// FindUser returns the user with id.
func (store *Store) FindUser(id string) (user.User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	found, ok := store.accounts.find(id)
	if !ok {
		return user.User{}, apperr.NotFound("User")
	}
	return found.User, nil
}

// ListUsers returns every user, optionally narrowed to one role.
func (store *Store) ListUsers(role sec.Role) []user.User {
	store.mu.RLock()
	defer store.mu.RUnlock()

	users := slice.Map(store.accounts.all(), func(a account) user.User { return a.User })
	if role == "" {
		return users
	}
	return slice.Filter(users, func(u user.User) bool { return u.Role == role })
}

// SetUserStatus activates or deactivates an account.
func (store *Store) SetUserStatus(id string, status user.Status) (user.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	found, ok := store.accounts.find(id)
	if !ok {
		return user.User{}, apperr.NotFound("User")
	}
	found.Status = status
	found.UpdatedAt = store.stamp()
	return found.User, nil
}

// # Expenses

// Owner narrows expense and advance reads. An empty EmployeeID means everyone.
type Owner struct {
	EmployeeID string
}

func (owner Owner) sees(employeeID string) bool {
	return owner.EmployeeID == "" || owner.EmployeeID == employeeID
}

// ListExpenses returns the expenses owner may see, optionally with one status.
func (store *Store) ListExpenses(owner Owner, status workflow.Status) []expense.Expense {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return slice.Filter(store.expenses.all(), func(e expense.Expense) bool {
		return owner.sees(e.EmployeeID) && (status == "" || e.Status == status)
	})
}

// FindExpense returns one expense owner may see.
func (store *Store) FindExpense(owner Owner, id string) (expense.Expense, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	found, ok := store.expenses.find(id)
	if !ok || !owner.sees(found.EmployeeID) {
		return expense.Expense{}, apperr.NotFound("Expense")
	}
	return *found, nil
}

// CreateExpense files a new Pending expense for employee.
func (store *Store) CreateExpense(employee user.User, input expense.NewExpense) expense.Expense {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := store.stamp()
	created := expense.Expense{
		ID:           uuidv7.New(),
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		ProjectID:    input.ProjectID,
		Amount:       input.Amount,
		Purpose:      strings.TrimSpace(input.Purpose),
		Category:     input.Category,
		Status:       workflow.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	store.expenses.insert(created.ID, created)
	return created
}

// TransitionExpense moves an expense to target when the review rules allow it.
func (store *Store) TransitionExpense(id string, target workflow.Status) (expense.Expense, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	found, ok := store.expenses.find(id)
	if !ok {
		return expense.Expense{}, apperr.NotFound("Expense")
	}
	if err := checkTransition(found, target); err != nil {
		return expense.Expense{}, err
	}

	found.ApplyStatus(target, store.now())
	return *found, nil
}

// # Advances

// ListAdvances returns the advances owner may see, optionally with one status.
func (store *Store) ListAdvances(owner Owner, status workflow.Status) []advance.Advance {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return slice.Filter(store.advances.all(), func(a advance.Advance) bool {
		return owner.sees(a.EmployeeID) && (status == "" || a.Status == status)
	})
}

// FindAdvance returns one advance owner may see.
func (store *Store) FindAdvance(owner Owner, id string) (advance.Advance, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	found, ok := store.advances.find(id)
	if !ok || !owner.sees(found.EmployeeID) {
		return advance.Advance{}, apperr.NotFound("Advance")
	}
	return *found, nil
}

// CreateAdvance files a new Pending advance for employee.
func (store *Store) CreateAdvance(employee user.User, input advance.NewAdvance) advance.Advance {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := store.stamp()
	created := advance.Advance{
		ID:           uuidv7.New(),
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		ProjectID:    input.ProjectID,
		Amount:       input.Amount,
		Purpose:      strings.TrimSpace(input.Purpose),
		Status:       workflow.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	store.advances.insert(created.ID, created)
	return created
}

// TransitionAdvance moves an advance to target when the review rules allow it.
func (store *Store) TransitionAdvance(id string, target workflow.Status) (advance.Advance, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	found, ok := store.advances.find(id)
	if !ok {
		return advance.Advance{}, apperr.NotFound("Advance")
	}
	if err := checkTransition(found, target); err != nil {
		return advance.Advance{}, err
	}

	found.ApplyStatus(target, store.now())
	return *found, nil
}

// Reconcile settles an approved advance and locks it.
func (store *Store) Reconcile(id string, settledAmount float64) (advance.Advance, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	found, ok := store.advances.find(id)
	if !ok {
		return advance.Advance{}, apperr.NotFound("Advance")
	}
	if found.Status != workflow.StatusApproved || found.Reconciled {
		return advance.Advance{}, apperr.Conflict("Only approved, unreconciled advances can be reconciled")
	}

	found.Reconciled = true
	found.SettledAmount = settledAmount
	found.UpdatedAt = store.stamp()
	return *found, nil
}

func checkTransition(record workflow.Reviewable, target workflow.Status) error {
	action, ok := workflow.ActionFor(target)
	if !ok {
		return apperr.ValidationError("Status must be Approved, Reviewed or Rejected")
	}
	if !workflow.Allowed(record, action) {
		return workflow.NotAllowed(record.CurrentStatus(), action)
	}
	return nil
}

// # Projects

// ListProjects returns every project, optionally with one status.
func (store *Store) ListProjects(status project.Status) []project.Project {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return slice.Filter(store.projects.all(), func(p project.Project) bool {
		return status == "" || p.Status == status
	})
}

// FindProject returns the project with id.
func (store *Store) FindProject(id string) (project.Project, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	found, ok := store.projects.find(id)
	if !ok {
		return project.Project{}, apperr.NotFound("Project")
	}
	return *found, nil
}

// CreateProject stores a new active project.
func (store *Store) CreateProject(input project.NewProject) project.Project {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := store.stamp()
	created := project.Project{
		ID:           uuidv7.New(),
		Name:         strings.TrimSpace(input.Name),
		DepartmentID: input.DepartmentID,
		Budget:       input.Budget,
		Status:       project.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	store.projects.insert(created.ID, created)
	return created
}

// SetProjectStatus moves a project to status.
func (store *Store) SetProjectStatus(id string, status project.Status) (project.Project, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	found, ok := store.projects.find(id)
	if !ok {
		return project.Project{}, apperr.NotFound("Project")
	}
	found.Status = status
	found.UpdatedAt = store.stamp()
	return *found, nil
}

// # Departments

// ListDepartments returns every department.
func (store *Store) ListDepartments() []department.Department {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.departments.all()
}

// FindDepartment returns the department with id.
func (store *Store) FindDepartment(id string) (department.Department, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	found, ok := store.departments.find(id)
	if !ok {
		return department.Department{}, apperr.NotFound("Department")
	}
	return *found, nil
}

// CreateDepartment stores a new department.
func (store *Store) CreateDepartment(input department.NewDepartment) department.Department {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := store.stamp()
	created := department.Department{
		ID:        uuidv7.New(),
		Name:      strings.TrimSpace(input.Name),
		Manager:   input.Manager,
		Budget:    input.Budget,
		CreatedAt: now,
		UpdatedAt: now,
	}
	store.departments.insert(created.ID, created)
	return created
}
