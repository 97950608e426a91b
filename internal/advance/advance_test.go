// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package advance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/expensa/internal/advance"
	"github.com/taibuivan/expensa/internal/platform/validate"
	"github.com/taibuivan/expensa/internal/workflow"
)

/*
TestReconciled locks every review action.
*/
func TestReconciled(t *testing.T) {
	open := &advance.Advance{Status: workflow.StatusPending}
	assert.Len(t, workflow.Available(open), 3)

	reconciled := &advance.Advance{Status: workflow.StatusReviewed, Reconciled: true}
	assert.Empty(t, workflow.Available(reconciled))
}

/*
TestOutstanding never goes negative.
*/
func TestOutstanding(t *testing.T) {
	assert.Equal(t, 300.0, (&advance.Advance{Amount: 1000, SettledAmount: 700}).Outstanding())
	assert.Zero(t, (&advance.Advance{Amount: 1000, SettledAmount: 1200}).Outstanding())
}

/*
TestNewAdvance_Validate requires amount and purpose.
*/
func TestNewAdvance_Validate(t *testing.T) {
	validator := &validate.Validator{}
	advance.NewAdvance{Amount: -1}.Validate(validator)

	assert.True(t, validator.HasErrors())
	assert.Len(t, validator.Details(), 2)

	validator = &validate.Validator{}
	advance.NewAdvance{Amount: 250, Purpose: "Conference travel"}.Validate(validator)
	assert.False(t, validator.HasErrors())
}
