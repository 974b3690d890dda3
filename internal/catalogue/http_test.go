// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalogue_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/avisbase/internal/catalogue"
	"github.com/taibuivan/avisbase/internal/platform/apperr"
)

type stubSearcher struct {
	titles []catalogue.Title
	err    error
}

func (s stubSearcher) Search(context.Context, string) ([]catalogue.Title, error) {
	return s.titles, s.err
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

func serve(t *testing.T, handler http.Handler, method, target, body string) (int, envelope) {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))

	var decoded envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded), recorder.Body.String())
	return recorder.Code, decoded
}

/*
TestHandler_ItemLifecycle drives title, item and deletion routes end to end.
*/
func TestHandler_ItemLifecycle(t *testing.T) {
	service, _ := newTestService(t)
	routes := catalogue.NewHandler(service, stubSearcher{}).Routes()

	status, body := serve(t, routes, http.MethodPost, "/titles", `{"name":"Aftenposten"}`)
	require.Equal(t, http.StatusCreated, status, body.Error)
	var title catalogue.Title
	require.NoError(t, json.Unmarshal(body.Data, &title))

	status, body = serve(t, routes, http.MethodPost, "/items",
		`{"title_id":"`+title.ID+`","date":"1905-06-07","format":"physical","container_id":"HYLLE-0042"}`)
	require.Equal(t, http.StatusCreated, status, body.Error)
	var item catalogue.Item
	require.NoError(t, json.Unmarshal(body.Data, &item))

	status, body = serve(t, routes, http.MethodPost, "/items",
		`{"title_id":"`+title.ID+`","date":"1905-06-07","format":"physical","container_id":"HYLLE-0043"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, catalogue.ErrFormatAlreadyExists.Code, body.Code)

	status, _ = serve(t, routes, http.MethodGet, "/items/"+item.ID, "")
	assert.Equal(t, http.StatusOK, status)

	status, body = serve(t, routes, http.MethodDelete, "/manifestations/"+item.ManifestationID+"?cascade=true", "")
	require.Equal(t, http.StatusOK, status, body.Error)
	var result catalogue.DeleteResult
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.True(t, result.ManifestationDeleted)

	status, body = serve(t, routes, http.MethodGet, "/manifestations/"+item.ManifestationID, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

/*
TestHandler_Errors maps request and domain failures onto the error envelope.
*/
func TestHandler_Errors(t *testing.T) {
	service, store := newTestService(t)
	seedIssue(store)
	routes := catalogue.NewHandler(service, stubSearcher{err: apperr.ServiceUnavailable("INDEX_NOT_AVAILABLE", "not ready")}).Routes()

	cases := []struct {
		name   string
		method string
		target string
		body   string
		status int
		code   string
	}{
		{"unknown_field", http.MethodPost, "/titles", `{"title":"x"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing_container", http.MethodPost, "/items", `{"title_id":"100","date":"1905-06-07","format":"physical"}`, http.StatusBadRequest, "MISSING_CONTAINER"},
		{"bad_cascade", http.MethodDelete, "/manifestations/300?cascade=maybe", "", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"empty_issue", http.MethodDelete, "/manifestations/300", "", http.StatusConflict, "EMPTY_MANIFESTATION"},
		{"update_title", http.MethodPatch, "/manifestations/100", `{"notes":"x"}`, http.StatusBadRequest, "NOT_SUPPORTED"},
		{"search_not_ready", http.MethodGet, "/titles/search?q=avis", "", http.StatusServiceUnavailable, "INDEX_NOT_AVAILABLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := serve(t, routes, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

/*
TestHandler_Terms reports an existing term as a conflict.
*/
func TestHandler_Terms(t *testing.T) {
	service, _ := newTestService(t)
	routes := catalogue.NewHandler(service, stubSearcher{}).Routes()

	status, _ := serve(t, routes, http.MethodPost, "/publishers", `{"name":"Schibsted"}`)
	assert.Equal(t, http.StatusCreated, status)

	status, body := serve(t, routes, http.MethodPost, "/publishers", `{"name":"Schibsted"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_EXISTS", body.Code)
}

/*
TestHandler_SearchAndList returns search hits and paged listings in the success envelope.
*/
func TestHandler_SearchAndList(t *testing.T) {
	service, store := newTestService(t)
	seedIssue(store)
	routes := catalogue.NewHandler(service, stubSearcher{titles: []catalogue.Title{{ID: "100", Name: "Aftenposten"}}}).Routes()

	status, body := serve(t, routes, http.MethodGet, "/titles/search?q=posten", "")
	require.Equal(t, http.StatusOK, status)
	var hits []catalogue.Title
	require.NoError(t, json.Unmarshal(body.Data, &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "Aftenposten", hits[0].Name)

	status, body = serve(t, routes, http.MethodGet, "/titles?limit=5", "")
	require.Equal(t, http.StatusOK, status)
	var titles []catalogue.Title
	require.NoError(t, json.Unmarshal(body.Data, &titles))
	assert.Len(t, titles, 1)
}
