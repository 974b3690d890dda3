// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collections

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/avisbase/internal/platform/metrics"
)

// maxErrorBody caps how much of a failed response is kept for the error message.
const maxErrorBody = 4 << 10

// # HTTP Store

// HTTPOptions configures an [HTTPStore].
type HTTPOptions struct {
	// BaseURL is the root of the Collections JSON gateway, e.g. https://collections.example/api.
	BaseURL string
	// Timeout bounds each round trip.
	Timeout time.Duration
	// RatePerSecond and Burst throttle outbound calls. Zero disables throttling.
	RatePerSecond float64
	Burst         int
}

// HTTPStore is the [Store] backed by the Collections JSON gateway.
//
// Routes, relative to BaseURL:
//
//	GET    /{database}/records/{id}[?children=true]
//	GET    /{database}/records?record_type=&work_type=&title_id=&date=&number=&name=&offset=&limit=
//	POST   /{database}/records
//	PUT    /{database}/records/{id}
//	DELETE /{database}/records/{id}
//
// Every response body is a [RecordList].
type HTTPStore struct {
	baseURL *url.URL
	client  *http.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewHTTPStore validates the options and builds a store. A nil m records into
// unregistered instruments; a nil logger uses the default logger.
func NewHTTPStore(options HTTPOptions, m *metrics.Metrics, logger *slog.Logger) (*HTTPStore, error) {
	base, err := url.Parse(strings.TrimRight(options.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("collections: invalid base URL %q", options.BaseURL)
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if options.RatePerSecond > 0 {
		burst := options.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(options.RatePerSecond), burst)
	}

	return &HTTPStore{
		baseURL: base,
		client:  &http.Client{Timeout: options.Timeout},
		limiter: limiter,
		metrics: m,
		logger:  logger,
	}, nil
}

// Get implements [Store].
func (store *HTTPStore) Get(ctx context.Context, database Database, id string) (*RecordList, error) {
	return store.do(ctx, "get", http.MethodGet, store.recordURL(database, id, nil), nil)
}

// GetWithChildren implements [Store].
func (store *HTTPStore) GetWithChildren(ctx context.Context, id string) (*RecordList, error) {
	params := url.Values{"children": []string{"true"}}
	return store.do(ctx, "get_with_children", http.MethodGet, store.recordURL(DatabaseObjects, id, params), nil)
}

// Query implements [Store].
func (store *HTTPStore) Query(ctx context.Context, q Query) (*RecordList, error) {
	database := q.Database
	if database == "" {
		database = DatabaseObjects
	}

	params := url.Values{}
	setIf(params, "record_type", string(q.RecordType))
	setIf(params, "work_type", string(q.WorkType))
	setIf(params, "title_id", q.TitleID)
	setIf(params, "date", q.Date)
	setIf(params, "name", q.Name)
	if q.Number != nil {
		params.Set("number", *q.Number)
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	endpoint := store.collectionURL(database)
	endpoint.RawQuery = params.Encode()
	return store.do(ctx, "query", http.MethodGet, endpoint, nil)
}

// Create implements [Store].
func (store *HTTPStore) Create(ctx context.Context, database Database, record Record) (*RecordList, error) {
	return store.do(ctx, "create", http.MethodPost, store.collectionURL(database), &record)
}

// Update implements [Store].
func (store *HTTPStore) Update(ctx context.Context, database Database, record Record) (*RecordList, error) {
	return store.do(ctx, "update", http.MethodPut, store.recordURL(database, record.ID, nil), &record)
}

// Delete implements [Store].
func (store *HTTPStore) Delete(ctx context.Context, database Database, id string) (*RecordList, error) {
	return store.do(ctx, "delete", http.MethodDelete, store.recordURL(database, id, nil), nil)
}

// # Transport

func (store *HTTPStore) do(ctx context.Context, operation, method string, endpoint *url.URL, payload *Record) (result *RecordList, err error) {
	started := time.Now()
	defer func() {
		store.metrics.ObserveCollections(operation, time.Since(started).Seconds(), err)
	}()

	if err := store.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("collections: %s: rate limiter: %w", operation, err)
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("collections: %s: encode record: %w", operation, err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("collections: %s: build request: %w", operation, err)
	}
	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := store.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("collections: %s: request: %w", operation, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return &RecordList{}, nil
	}

	if response.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))

		// The gateway reports Collections-level failures as a RecordList with a diagnostic.
		var list RecordList
		if json.Unmarshal(raw, &list) == nil && list.Diagnostic != nil {
			return &list, nil
		}
		return nil, fmt.Errorf("collections: %s: status %d: %s", operation, response.StatusCode, strings.TrimSpace(string(raw)))
	}

	var list RecordList
	if err := json.NewDecoder(response.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("collections: %s: decode: %w", operation, err)
	}

	if list.Diagnostic != nil {
		store.logger.WarnContext(ctx, "collections_diagnostic",
			slog.String("operation", operation),
			slog.String("message", list.Diagnostic.Message),
		)
	}

	return &list, nil
}

func (store *HTTPStore) collectionURL(database Database) *url.URL {
	return store.baseURL.JoinPath(string(database), "records")
}

func (store *HTTPStore) recordURL(database Database, id string, params url.Values) *url.URL {
	endpoint := store.baseURL.JoinPath(string(database), "records", id)
	if params != nil {
		endpoint.RawQuery = params.Encode()
	}
	return endpoint
}

func setIf(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}
