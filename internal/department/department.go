// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package department is the client service for departments.
package department

import (
	"context"

	"github.com/taibuivan/expensa/internal/platform/notify"
	"github.com/taibuivan/expensa/internal/platform/validate"
	"github.com/taibuivan/expensa/internal/resource"
	"github.com/taibuivan/expensa/internal/transport"
)

// Department groups users and owns a yearly budget.
type Department struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Manager   string  `json:"manager,omitempty"`
	Budget    float64 `json:"budget"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

// NewDepartment is the create body.
type NewDepartment struct {
	Name    string  `json:"name"`
	Manager string  `json:"manager,omitempty"`
	Budget  float64 `json:"budget"`
}

// Validate implements [resource.Payload].
func (payload NewDepartment) Validate(validator *validate.Validator) {
	validator.
		Required("name", payload.Name).
		MaxLen("name", payload.Name, 120).
		NonNegative("budget", payload.Budget)
}

// Spec is the wire description of the collection. Departments have no list filter.
var Spec = resource.Spec{Path: "/departments", Singular: "department", Plural: "departments"}

// Service exposes the department calls.
type Service struct {
	collection *resource.Collection[Department]
}

// NewService creates the department service.
func NewService(client *transport.Client, notifier notify.Notifier) *Service {
	return &Service{collection: resource.NewCollection[Department](client, notifier, Spec)}
}

func (service *Service) List(ctx context.Context, query resource.ListQuery) (resource.Page[Department], error) {
	return service.collection.List(ctx, query)
}

func (service *Service) Get(ctx context.Context, id string) (Department, error) {
	return service.collection.Get(ctx, id)
}

func (service *Service) Create(ctx context.Context, payload NewDepartment) (Department, error) {
	return service.collection.Create(ctx, payload)
}
