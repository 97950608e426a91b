// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests
arriving at the development API.

It abstracts away the router's parameter extraction and common body decoding
patterns, ensuring consistent error handling and type safety.
*/
package request

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/expensa/internal/platform/apperr"
	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/platform/ctxutil"
	"github.com/taibuivan/expensa/internal/platform/sec"
	"github.com/taibuivan/expensa/internal/platform/validate"
	"github.com/taibuivan/expensa/pkg/convert"
	"github.com/taibuivan/expensa/pkg/pagination"
)

// DecodeJSON reads the request body and decodes it into target.
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// ListParams is the query contract shared by every list endpoint.
type ListParams struct {
	pagination.Params
	Filter map[string]string
}

// List parses `page`, `limit` and the named filter keys.
//
// Missing or malformed numbers fall back to the defaults; filter keys with
// an empty value are ignored.
func List(request *http.Request, filterKeys ...string) ListParams {
	query := request.URL.Query()

	params := ListParams{
		Params: pagination.New(
			convert.PositiveIntD(query.Get("page"), constants.DefaultPage),
			convert.PositiveIntD(query.Get("limit"), constants.DefaultLimit),
		),
		Filter: make(map[string]string, len(filterKeys)),
	}

	for _, key := range filterKeys {
		if value := query.Get(key); value != "" {
			params.Filter[key] = value
		}
	}

	return params
}

// RequiredClaims ensures the request is authenticated and returns the user claims.
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}
