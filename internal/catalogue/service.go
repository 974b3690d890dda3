// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/avisbase/internal/collections"
	"github.com/taibuivan/avisbase/internal/platform/ctxutil"
	"github.com/taibuivan/avisbase/internal/platform/metrics"
)

// Options tunes the [Service].
type Options struct {
	// TitleCacheTTL is how long a fetched title is served from memory. Zero disables caching.
	TitleCacheTTL time.Duration
}

// Service implements the catalogue hierarchy lifecycle on top of a [collections.Store].
//
// # Concurrency
//
// Service is safe for concurrent use and holds no lock across an operation. The
// find-or-create manifestation, format conflict check and item create in
// [Service.CreateItem] are separate store calls; two concurrent requests for the same
// issue and format can both pass the check. Collections is the final arbiter.
type Service struct {
	store   collections.Store
	ids     IDAllocator
	indexer TitleIndexer
	titles  *titleCache
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewService builds a Service. A nil indexer disables immediate indexing of new titles.
func NewService(store collections.Store, ids IDAllocator, indexer TitleIndexer, m *metrics.Metrics, logger *slog.Logger, options Options) *Service {
	if indexer == nil {
		indexer = noopIndexer{}
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Service{
		store:   store,
		ids:     ids,
		indexer: indexer,
		titles:  newTitleCache(options.TitleCacheTTL),
		metrics: m,
		logger:  logger,
	}
}

// logFor attributes service events to the request and the cataloguer behind it.
func (service *Service) logFor(ctx context.Context) *slog.Logger {
	logger := service.logger
	if id := ctxutil.GetRequestID(ctx); id != "" {
		logger = logger.With(slog.String("request_id", id))
	}
	if cataloguer := ctxutil.GetCataloguer(ctx); cataloguer != "" {
		logger = logger.With(slog.String("cataloguer", cataloguer))
	}
	return logger
}

// # Store Helpers

// fetchOne reads exactly one record of the expected type.
//
// Zero records is [ErrNotFound] and more than one is [ErrInconsistentStore]. A record
// of another type yields mismatch, which lets callers choose between NotFound and
// NotSupported.
func (service *Service) fetchOne(ctx context.Context, id string, expected collections.RecordType, mismatch error, children bool) (*collections.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound.WithMessage("Catalogue record id is empty")
	}

	var (
		list *collections.RecordList
		err  error
	)
	if children {
		list, err = service.store.GetWithChildren(ctx, id)
	} else {
		list, err = service.store.Get(ctx, collections.DatabaseObjects, id)
	}
	if err != nil {
		return nil, ErrCatalogueRead.WithCause(fmt.Errorf("get %s: %w", id, err))
	}
	if err := list.Err(); err != nil {
		return nil, ErrCatalogueRead.WithCause(fmt.Errorf("get %s: %w", id, err))
	}

	switch list.Len() {
	case 0:
		return nil, ErrNotFound.WithMessage(fmt.Sprintf("Catalogue record %s not found", id))
	case 1:
	default:
		return nil, inconsistent("%d records share id %s", list.Len(), id)
	}

	record := &list.Records[0]
	if record.RecordType != expected {
		return nil, mismatch
	}
	return record, nil
}

// query runs a read query, converting transport failures and diagnostics into [ErrCatalogueRead].
func (service *Service) query(ctx context.Context, q collections.Query) ([]collections.Record, error) {
	list, err := service.store.Query(ctx, q)
	if err == nil {
		err = list.Err()
	}
	if err != nil {
		return nil, ErrCatalogueRead.WithCause(fmt.Errorf("query %s: %w", q.Database, err))
	}
	return list.Records, nil
}

// written checks the result of a write. It returns nil without error when the
// store answered with an empty list; callers decide what that means.
func written(list *collections.RecordList, err error, action string) (*collections.Record, error) {
	if err != nil {
		return nil, ErrCatalogueWrite.WithCause(fmt.Errorf("%s: %w", action, err))
	}
	if err := list.Err(); err != nil {
		return nil, ErrCatalogueWrite.WithCause(fmt.Errorf("%s: %w", action, err))
	}
	record, _ := list.First()
	return record, nil
}

// create mints an id, writes the record and fails if Collections returns no object.
func (service *Service) create(ctx context.Context, database collections.Database, build func(id string) collections.Record, kind string) (string, error) {
	id, err := service.ids.NextID(ctx)
	if err != nil {
		return "", fmt.Errorf("catalogue: allocate %s id: %w", kind, err)
	}

	list, err := service.store.Create(ctx, database, build(id))
	created, err := written(list, err, "create "+kind)
	if err != nil {
		return "", err
	}
	if created == nil {
		return "", ErrCatalogueWrite.WithMessage(fmt.Sprintf("Collections returned no %s after create", kind))
	}

	service.metrics.RecordsCreated.WithLabelValues(kind).Inc()
	return id, nil
}
