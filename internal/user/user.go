// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package user is the client service for user accounts. Admin only on the server.
package user

import (
	"context"
	"strings"

	"github.com/taibuivan/expensa/internal/platform/notify"
	"github.com/taibuivan/expensa/internal/platform/sec"
	"github.com/taibuivan/expensa/internal/platform/validate"
	"github.com/taibuivan/expensa/internal/resource"
	"github.com/taibuivan/expensa/internal/transport"
)

// Status is the account state.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ParseStatus normalizes a user supplied account state.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusActive:
		return StatusActive, true
	case StatusInactive:
		return StatusInactive, true
	}
	return "", false
}

// User is an account as the server returns it.
type User struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Role         sec.Role `json:"role"`
	DepartmentID string   `json:"departmentId,omitempty"`
	Status       Status   `json:"status"`
	CreatedAt    int64    `json:"createdAt"`
	UpdatedAt    int64    `json:"updatedAt"`
}

// IsActive reports whether the account can sign in.
func (user User) IsActive() bool {
	return user.Status == StatusActive
}

// NewUser is the create body.
type NewUser struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Role         sec.Role `json:"role"`
	DepartmentID string   `json:"departmentId,omitempty"`
}

// Validate implements [resource.Payload].
func (payload NewUser) Validate(validator *validate.Validator) {
	validator.
		Required("name", payload.Name).
		Required("email", payload.Email).
		Email("email", payload.Email).
		Required("password", payload.Password).
		Custom("role", !payload.Role.Valid(), "must be Admin or Employee")
}

// Spec is the wire description of the collection. The list filter is the role.
var Spec = resource.Spec{Path: "/users", FilterKey: "role", Singular: "user", Plural: "users"}

// Service exposes the user calls.
type Service struct {
	collection *resource.Collection[User]
}

// NewService creates the user service.
func NewService(client *transport.Client, notifier notify.Notifier) *Service {
	return &Service{collection: resource.NewCollection[User](client, notifier, Spec)}
}

// List fetches one page, optionally filtered by role.
func (service *Service) List(ctx context.Context, query resource.ListQuery) (resource.Page[User], error) {
	return service.collection.List(ctx, query)
}

func (service *Service) Get(ctx context.Context, id string) (User, error) {
	return service.collection.Get(ctx, id)
}

func (service *Service) Create(ctx context.Context, payload NewUser) (User, error) {
	return service.collection.Create(ctx, payload)
}

// SetStatus activates or deactivates an account.
func (service *Service) SetStatus(ctx context.Context, id string, status Status) error {
	return service.collection.UpdateStatus(ctx, id, string(status))
}
