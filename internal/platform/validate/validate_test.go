// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/avisbase/internal/platform/apperr"
	"github.com/taibuivan/avisbase/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Morgenbladet", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Date checks the calendar date rule used for issue dates.
*/
func TestValidator_Date(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		isValid bool
	}{
		{"valid_date", "1905-06-07", true},
		{"leap_day", "2024-02-29", true},
		{"not_a_leap_day", "2023-02-29", false},
		{"wrong_layout", "07.06.1905", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Date("date", tt.date)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_DateOrder rejects a title that ends before it starts.
*/
func TestValidator_DateOrder(t *testing.T) {
	start := time.Date(1860, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(1850, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, (&validate.Validator{}).DateOrder("end_date", &start, &end).HasErrors())
	assert.False(t, (&validate.Validator{}).DateOrder("end_date", &end, &start).HasErrors())
	assert.False(t, (&validate.Validator{}).DateOrder("end_date", &start, nil).HasErrors())
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("name", "Aftenposten").
		MaxLen("name", "Aftenposten", 500).
		Token("urn", "URN:NBN:no-nb_digavis_aftenposten_null_null_19050607_46_131_1").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "").             // Fails
		MaxLen("name", "Aftenposten", 5). // Fails
		Date("date", "not-a-date").       // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
