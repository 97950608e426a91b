// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package resource is the typed façade over one REST collection.

Every domain service (expenses, advances, users, projects, departments) is a
thin wrapper around a [Collection]. The collection owns the uniform contract:

  - List:   GET   <prefix>/<path>?page&limit[&<filterKey>]  -> {data: {total, items}}
  - Get:    GET   <prefix>/<path>/{id}                      -> {data: entity}
  - Create: POST  <prefix>/<path>                           -> {data: entity}
  - Status: PATCH <prefix>/<path>/{id}/status {status}      -> {data: ...}

# Error Mapping

Failures come back as [*apperr.AppError] relabelled with "prefer the server
message, else a fixed default". Create only surfaces server messages on 400.
*/
package resource

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/expensa/internal/platform/apperr"
	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/platform/notify"
	"github.com/taibuivan/expensa/internal/platform/validate"
	"github.com/taibuivan/expensa/internal/transport"
)

// # Contracts

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// ListQuery selects a page. Zero values mean defaults; a Filter of "" or
// "ALL" sends no filter parameter.
type ListQuery struct {
	Filter string
	Page   int
	Limit  int
}

// Payload is a create body that can check its own required fields.
type Payload interface {
	Validate(validator *validate.Validator)
}

// Spec names a collection.
type Spec struct {
	// Path under the API prefix, e.g. "/expenses".
	Path string
	// FilterKey is the query parameter the list filter is sent as ("status", "role").
	FilterKey string
	// Singular and Plural are lowercase nouns used in messages ("expense", "expenses").
	Singular string
	Plural   string
}

// Messages are the fixed user-facing texts of a collection.
type Messages struct {
	ListFailed   string
	GetFailed    string
	CreateFailed string
	UpdateFailed string
	Created      string
	Updated      string
}

// MessagesFor derives the default messages from the nouns of spec.
func MessagesFor(spec Spec) Messages {
	title := cases.Title(language.English)
	return Messages{
		ListFailed:   "Failed to load " + spec.Plural,
		GetFailed:    "Failed to load " + spec.Singular,
		CreateFailed: "Failed to create " + spec.Singular,
		UpdateFailed: "Failed to update " + spec.Singular + " status",
		Created:      title.String(spec.Singular) + " created successfully",
		Updated:      title.String(spec.Singular) + " status updated",
	}
}

// # Collection

// Collection issues the uniform calls for one resource type.
type Collection[T any] struct {
	client   *transport.Client
	notifier notify.Notifier
	spec     Spec
	messages Messages
}

// NewCollection creates a collection with messages derived from spec.
func NewCollection[T any](client *transport.Client, notifier notify.Notifier, spec Spec) *Collection[T] {
	return &Collection[T]{
		client:   client,
		notifier: notifier,
		spec:     spec,
		messages: MessagesFor(spec),
	}
}

// Messages returns the collection's fixed texts.
func (collection *Collection[T]) Messages() Messages {
	return collection.messages
}

// Values encodes a query for the wire.
func (collection *Collection[T]) Values(query ListQuery) url.Values {
	page := query.Page
	if page < 1 {
		page = constants.DefaultPage
	}
	limit := query.Limit
	if limit < 1 {
		limit = constants.DefaultLimit
	}

	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	values.Set("limit", strconv.Itoa(limit))

	filter := strings.TrimSpace(query.Filter)
	if filter != "" && !strings.EqualFold(filter, constants.FilterAll) && collection.spec.FilterKey != "" {
		values.Set(collection.spec.FilterKey, filter)
	}
	return values
}

// List fetches one page.
func (collection *Collection[T]) List(ctx context.Context, query ListQuery) (Page[T], error) {
	var page Page[T]
	if err := collection.client.Get(ctx, collection.spec.Path, collection.Values(query), &page); err != nil {
		return Page[T]{}, collection.fail(err, collection.messages.ListFailed, true)
	}

	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

// Get fetches one record by id.
func (collection *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var entity T
	if err := collection.client.Get(ctx, collection.itemPath(id), nil, &entity); err != nil {
		var zero T
		return zero, collection.fail(err, collection.messages.GetFailed, true)
	}
	return entity, nil
}

// Create checks payload's required fields, then posts it.
//
// A failed precondition returns a BadRequest error without any call.
func (collection *Collection[T]) Create(ctx context.Context, payload Payload) (T, error) {
	var entity T

	// ── 1. Client Precondition ────────────────────────────────────────────
	validator := &validate.Validator{}
	payload.Validate(validator)
	if validator.HasErrors() {
		notify.Error(collection.notifier, constants.MsgBadRequest)
		return entity, apperr.BadRequest(constants.MsgBadRequest, validator.Details()...)
	}

	// ── 2. Call ───────────────────────────────────────────────────────────
	if err := collection.client.Post(ctx, collection.spec.Path, payload, &entity); err != nil {
		var zero T
		return zero, collection.fail(err, collection.messages.CreateFailed, apperr.Is(err, apperr.KindBadRequest))
	}

	notify.Success(collection.notifier, collection.messages.Created)
	return entity, nil
}

// UpdateStatus patches the status of record id.
func (collection *Collection[T]) UpdateStatus(ctx context.Context, id string, status string) error {
	body := map[string]string{constants.FieldStatus: status}
	if err := collection.client.Patch(ctx, collection.itemPath(id)+"/status", body, nil); err != nil {
		return collection.fail(err, collection.messages.UpdateFailed, true)
	}

	notify.Success(collection.notifier, collection.messages.Updated)
	return nil
}

func (collection *Collection[T]) itemPath(id string) string {
	return collection.spec.Path + "/" + url.PathEscape(id)
}

// fail relabels err and raises a toast for failures the pipeline left silent.
func (collection *Collection[T]) fail(err error, fallback string, preferServer bool) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var labelled error
	if preferServer {
		labelled = apperr.Describe(err, fallback)
	} else {
		labelled = apperr.Relabel(err, fallback)
	}

	// Network and 401 failures were already announced by the pipeline.
	switch apperr.KindOf(err) {
	case apperr.KindNetwork, apperr.KindUnauthorized:
	default:
		notify.Error(collection.notifier, labelled.Error())
	}

	return labelled
}
