// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package devapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/expensa/internal/advance"
	"github.com/taibuivan/expensa/internal/department"
	"github.com/taibuivan/expensa/internal/expense"
	"github.com/taibuivan/expensa/internal/platform/apperr"
	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/platform/middleware"
	requestutil "github.com/taibuivan/expensa/internal/platform/request"
	"github.com/taibuivan/expensa/internal/platform/respond"
	"github.com/taibuivan/expensa/internal/platform/sec"
	"github.com/taibuivan/expensa/internal/platform/validate"
	"github.com/taibuivan/expensa/internal/project"
	"github.com/taibuivan/expensa/internal/resource"
	"github.com/taibuivan/expensa/internal/user"
	"github.com/taibuivan/expensa/internal/workflow"
	"github.com/taibuivan/expensa/pkg/pagination"
)

// # Handler Implementation

// Handler implements every endpoint of the development API.
type Handler struct {
	store        *Store
	tokens       *sec.TokenService
	tokenTTL     time.Duration
	passwordCost int
}

// NewHandler constructs the [Handler]. passwordCost applies to accounts
// created through the API.
func NewHandler(store *Store, tokens *sec.TokenService, tokenTTL time.Duration, passwordCost int) *Handler {
	return &Handler{store: store, tokens: tokens, tokenTTL: tokenTTL, passwordCost: passwordCost}
}

// Routes returns the router mounted under /api/v1.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	adminOnly := middleware.RequireRole(sec.RoleAdmin)

	// ## Public
	router.Post("/auth/login", handler.login)

	// ## Authenticated
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Get("/auth/me", handler.me)

		authed.Route("/expenses", func(expenses chi.Router) {
			expenses.Get("/", handler.listExpenses)
			expenses.Post("/", handler.createExpense)
			expenses.Get("/{id}", handler.getExpense)
			expenses.With(adminOnly).Patch("/{id}/status", handler.setExpenseStatus)
		})

		authed.Route("/advances", func(advances chi.Router) {
			advances.Get("/", handler.listAdvances)
			advances.Post("/", handler.createAdvance)
			advances.Get("/{id}", handler.getAdvance)
			advances.With(adminOnly).Patch("/{id}/status", handler.setAdvanceStatus)
			advances.With(adminOnly).Post("/{id}/reconcile", handler.reconcileAdvance)
		})

		authed.Route("/projects", func(projects chi.Router) {
			projects.Get("/", handler.listProjects)
			projects.Get("/{id}", handler.getProject)
			projects.With(adminOnly).Post("/", handler.createProject)
			projects.With(adminOnly).Patch("/{id}/status", handler.setProjectStatus)
		})

		authed.Route("/departments", func(departments chi.Router) {
			departments.Get("/", handler.listDepartments)
			departments.Get("/{id}", handler.getDepartment)
			departments.With(adminOnly).Post("/", handler.createDepartment)
		})

		authed.Route("/dashboard", func(dashboard chi.Router) {
			dashboard.Get("/expenses-summary", handler.expensesSummary)
			dashboard.Get("/advances-summary", handler.advancesSummary)
			dashboard.Get("/budget", handler.budget)
		})

		// ## Administrative
		authed.Route("/users", func(users chi.Router) {
			users.Use(adminOnly)
			users.Get("/", handler.listUsers)
			users.Post("/", handler.createUser)
			users.Get("/{id}", handler.getUser)
			users.Patch("/{id}/status", handler.setUserStatus)
		})
	})

	return router
}

// # Authentication Endpoints

/*
POST /api/v1/auth/login.

Description: Exchanges credentials for a signed token.

Request (Body):
  - email: string
  - password: string

Response:
  - 200: {"token": string} (top-level, no data envelope)
  - 400: ErrInvalidJSON/Validation: Missing fields
  - 401: ErrUnauthorized: Wrong credentials or inactive account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("email", input.Email).Required("password", input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.store.Authenticate(input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.tokens.GenerateAccessToken(sec.TokenSubject{
		UserID: account.ID,
		Name:   account.Name,
		Email:  account.Email,
		Role:   account.Role,
	}, handler.tokenTTL)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]string{constants.FieldToken: token})
}

/*
GET /api/v1/auth/me.

Response:
  - 200: User: The account behind the token
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	current, err := handler.store.FindUser(claims.Subject)
	if err != nil {
		respond.Error(writer, request, apperr.Unauthorized("Account no longer exists"))
		return
	}

	respond.OK(writer, current)
}

// # Expense Endpoints

/*
GET /api/v1/expenses.

Description: Employees see their own expenses, admins see everyone's.

Request:
  - status: Pending|Approved|Reviewed|Rejected (optional)
  - page, limit: int

Response:
  - 200: {total, items}
  - 400: ErrValidation: Unknown status
*/
func (handler *Handler) listExpenses(writer http.ResponseWriter, request *http.Request) {
	params := requestutil.List(request, constants.FieldStatus)

	status, err := statusFilter(params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writePage(writer, handler.store.ListExpenses(ownerOf(request), status), params)
}

func (handler *Handler) getExpense(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.store.FindExpense(ownerOf(request), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) createExpense(writer http.ResponseWriter, request *http.Request) {
	var input expense.NewExpense
	if err := decodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	employee, err := handler.caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, handler.store.CreateExpense(employee, input))
}

/*
PATCH /api/v1/expenses/{id}/status.

Description: Admin review. Applies the same rules the client offers.

Request (Body):
  - status: Approved|Reviewed|Rejected

Response:
  - 200: Expense: Updated record
  - 403: ErrForbidden: Not an admin
  - 404: ErrNotFound: Unknown expense
  - 409: ErrConflict: Transition not allowed from the current status
*/
func (handler *Handler) setExpenseStatus(writer http.ResponseWriter, request *http.Request) {
	target, err := decodeStatus(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.store.TransitionExpense(requestutil.Param(request, "id"), target)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

// # Advance Endpoints

func (handler *Handler) listAdvances(writer http.ResponseWriter, request *http.Request) {
	params := requestutil.List(request, constants.FieldStatus)

	status, err := statusFilter(params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writePage(writer, handler.store.ListAdvances(ownerOf(request), status), params)
}

func (handler *Handler) getAdvance(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.store.FindAdvance(ownerOf(request), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) createAdvance(writer http.ResponseWriter, request *http.Request) {
	var input advance.NewAdvance
	if err := decodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	employee, err := handler.caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, handler.store.CreateAdvance(employee, input))
}

func (handler *Handler) setAdvanceStatus(writer http.ResponseWriter, request *http.Request) {
	target, err := decodeStatus(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.store.TransitionAdvance(requestutil.Param(request, "id"), target)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

/*
POST /api/v1/advances/{id}/reconcile.

Description: Settles an approved advance against actual spend and locks it.

Request (Body):
  - settledAmount: number (>= 0)

Response:
  - 200: Advance: Reconciled record
  - 409: ErrConflict: Not approved, or already reconciled
*/
func (handler *Handler) reconcileAdvance(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		SettledAmount float64 `json:"settledAmount"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.NonNegative("settledAmount", input.SettledAmount).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.store.Reconcile(requestutil.Param(request, "id"), input.SettledAmount)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

// # Project Endpoints

func (handler *Handler) listProjects(writer http.ResponseWriter, request *http.Request) {
	params := requestutil.List(request, constants.FieldStatus)

	var status project.Status
	if raw, ok := params.Filter[constants.FieldStatus]; ok {
		parsed, valid := project.ParseStatus(raw)
		if !valid {
			respond.Error(writer, request, apperr.ValidationError("Unknown project status"))
			return
		}
		status = parsed
	}

	writePage(writer, handler.store.ListProjects(status), params)
}

func (handler *Handler) getProject(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.store.FindProject(requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) createProject(writer http.ResponseWriter, request *http.Request) {
	var input project.NewProject
	if err := decodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, handler.store.CreateProject(input))
}

func (handler *Handler) setProjectStatus(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Status string `json:"status"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, ok := project.ParseStatus(input.Status)
	if !ok {
		respond.Error(writer, request, apperr.ValidationError("Unknown project status"))
		return
	}

	updated, err := handler.store.SetProjectStatus(requestutil.Param(request, "id"), status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

// # Department Endpoints

func (handler *Handler) listDepartments(writer http.ResponseWriter, request *http.Request) {
	writePage(writer, handler.store.ListDepartments(), requestutil.List(request))
}

func (handler *Handler) getDepartment(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.store.FindDepartment(requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) createDepartment(writer http.ResponseWriter, request *http.Request) {
	var input department.NewDepartment
	if err := decodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, handler.store.CreateDepartment(input))
}

// # User Endpoints

func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := requestutil.List(request, "role")

	var role sec.Role
	if raw, ok := params.Filter["role"]; ok {
		parsed, valid := sec.ParseRole(raw)
		if !valid {
			respond.Error(writer, request, apperr.ValidationError("Unknown role"))
			return
		}
		role = parsed
	}

	writePage(writer, handler.store.ListUsers(role), params)
}

func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.store.FindUser(requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var input user.NewUser
	if err := decodeValid(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	hash, err := sec.HashPassword(input.Password, handler.passwordCost)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	created, err := handler.store.CreateUser(input, hash)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) setUserStatus(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Status string `json:"status"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, ok := user.ParseStatus(input.Status)
	if !ok {
		respond.Error(writer, request, apperr.ValidationError("Status must be active or inactive"))
		return
	}

	updated, err := handler.store.SetUserStatus(requestutil.Param(request, "id"), status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

// # Dashboard Endpoints

func (handler *Handler) expensesSummary(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.store.ExpensesSummary(ownerOf(request)))
}

func (handler *Handler) advancesSummary(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.store.AdvancesSummary(ownerOf(request)))
}

func (handler *Handler) budget(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, handler.store.Budget())
}

// # Helpers

// caller loads the account behind the token.
func (handler *Handler) caller(request *http.Request) (user.User, error) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return user.User{}, err
	}
	return handler.store.FindUser(claims.Subject)
}

// ownerOf scopes reads: admins see every record, employees only their own.
func ownerOf(request *http.Request) Owner {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return Owner{EmployeeID: "-"}
	}
	if role, _ := sec.ParseRole(claims.Role); role == sec.RoleAdmin {
		return Owner{}
	}
	return Owner{EmployeeID: claims.Subject}
}

// decodeValid decodes a create body and runs its own required-field rules.
func decodeValid(request *http.Request, payload resource.Payload) error {
	if err := requestutil.DecodeJSON(request, payload); err != nil {
		return err
	}

	validator := &validate.Validator{}
	payload.Validate(validator)
	return validator.Err()
}

func decodeStatus(request *http.Request) (workflow.Status, error) {
	var input struct {
		Status string `json:"status"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return "", err
	}

	status, ok := workflow.ParseStatus(input.Status)
	if !ok {
		return "", apperr.ValidationError("Unknown status")
	}
	return status, nil
}

func statusFilter(params requestutil.ListParams) (workflow.Status, error) {
	raw, ok := params.Filter[constants.FieldStatus]
	if !ok {
		return "", nil
	}

	status, valid := workflow.ParseStatus(raw)
	if !valid {
		return "", apperr.ValidationError("Unknown status")
	}
	return status, nil
}

func writePage[T any](writer http.ResponseWriter, items []T, params requestutil.ListParams) {
	respond.Page(writer, pagination.Window(items, params.Params), len(items))
}
