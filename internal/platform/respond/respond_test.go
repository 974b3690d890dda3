// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/avisbase/internal/platform/apperr"
	"github.com/taibuivan/avisbase/internal/platform/respond"
)

func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "plain error is hidden",
			err:    errors.New("dial tcp: connection refused"),
			status: http.StatusInternalServerError,
			body:   `{"error":"An unexpected error occurred","code":"INTERNAL_ERROR"}`,
		},
		{
			name:   "wrapped app error keeps its status",
			err:    fmt.Errorf("load title: %w", apperr.NotFound("Title")),
			status: http.StatusNotFound,
			body:   `{"error":"Title not found","code":"NOT_FOUND"}`,
		},
		{
			name:   "validation details are sent",
			err:    apperr.ValidationError("Invalid title", apperr.FieldError{Field: "name", Message: "is required"}),
			status: http.StatusBadRequest,
			body:   `{"error":"Invalid title","code":"VALIDATION_ERROR","details":[{"field":"name","message":"is required"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.body, recorder.Body.String())
		})
	}
}

func TestAccepted(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Accepted(recorder, map[string]string{"state": "indexing"})

	assert.Equal(t, http.StatusAccepted, recorder.Code)
	assert.JSONEq(t, `{"data":{"state":"indexing"}}`, recorder.Body.String())
}
