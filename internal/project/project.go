// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package project is the client service for projects expenses are booked against.
package project

import (
	"context"
	"strings"

	"github.com/taibuivan/expensa/internal/platform/notify"
	"github.com/taibuivan/expensa/internal/platform/validate"
	"github.com/taibuivan/expensa/internal/resource"
	"github.com/taibuivan/expensa/internal/transport"
)

// Status is the lifecycle state of a project.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOnHold    Status = "on_hold"
)

// Statuses lists the enum in display order.
var Statuses = []Status{StatusActive, StatusOnHold, StatusCompleted}

// ParseStatus normalizes a user supplied project state ("On Hold", "on-hold").
func ParseStatus(raw string) (Status, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	for _, status := range Statuses {
		if normalized == string(status) {
			return status, true
		}
	}
	return "", false
}

// Project is a budgeted piece of work owned by a department.
type Project struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	DepartmentID string  `json:"departmentId,omitempty"`
	Budget       float64 `json:"budget"`
	Status       Status  `json:"status"`
	CreatedAt    int64   `json:"createdAt"`
	UpdatedAt    int64   `json:"updatedAt"`
}

// NewProject is the create body.
type NewProject struct {
	Name         string  `json:"name"`
	DepartmentID string  `json:"departmentId,omitempty"`
	Budget       float64 `json:"budget"`
}

// Validate implements [resource.Payload].
func (payload NewProject) Validate(validator *validate.Validator) {
	validator.
		Required("name", payload.Name).
		MaxLen("name", payload.Name, 120).
		NonNegative("budget", payload.Budget)
}

// Spec is the wire description of the collection.
var Spec = resource.Spec{Path: "/projects", FilterKey: "status", Singular: "project", Plural: "projects"}

// Service exposes the project calls.
type Service struct {
	collection *resource.Collection[Project]
}

// NewService creates the project service.
func NewService(client *transport.Client, notifier notify.Notifier) *Service {
	return &Service{collection: resource.NewCollection[Project](client, notifier, Spec)}
}

func (service *Service) List(ctx context.Context, query resource.ListQuery) (resource.Page[Project], error) {
	return service.collection.List(ctx, query)
}

func (service *Service) Get(ctx context.Context, id string) (Project, error) {
	return service.collection.Get(ctx, id)
}

func (service *Service) Create(ctx context.Context, payload NewProject) (Project, error) {
	return service.collection.Create(ctx, payload)
}

// SetStatus moves the project to status.
func (service *Service) SetStatus(ctx context.Context, id string, status Status) error {
	return service.collection.UpdateStatus(ctx, id, string(status))
}
