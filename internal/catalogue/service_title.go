// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalogue

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/avisbase/internal/collections"
	"github.com/taibuivan/avisbase/internal/platform/validate"
	"github.com/taibuivan/avisbase/pkg/slice"
)

const (
	maxNameLength = 500
	maxTermLength = 200
)

// CreateTitle creates a serial title.
//
// Publisher, place and language are ensured as terms first; an existing term is
// not an error. The created title is handed to the indexer so it is searchable on
// return; an indexing failure is logged and does not fail the call.
func (service *Service) CreateTitle(ctx context.Context, input CreateTitleInput) (*Title, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	terms := []struct {
		kind TermKind
		name string
	}{
		{TermPublisher, input.Publisher},
		{TermPlace, input.PublisherPlace},
		{TermLanguage, input.Language},
	}
	for _, term := range terms {
		if strings.TrimSpace(term.name) == "" {
			continue
		}
		if _, err := service.createTerm(ctx, term.kind, term.name); err != nil && !errors.Is(err, ErrAlreadyExists) {
			return nil, err
		}
	}

	id, err := service.create(ctx, collections.DatabaseObjects, func(id string) collections.Record {
		return titleRecord(id, input)
	}, "title")
	if err != nil {
		return nil, err
	}

	title, err := service.readTitle(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := service.indexer.AddTitle(ctx, *title); err != nil {
		service.logFor(ctx).Warn("title_index_failed", slog.String("title_id", title.ID), slog.Any("error", err))
	}

	service.logFor(ctx).Info("title_created", slog.String("title_id", title.ID), slog.String("name", title.Name))
	return title, nil
}

// GetTitle returns the title with the given id. Year-works and other record kinds are [ErrNotFound].
func (service *Service) GetTitle(ctx context.Context, id string) (*Title, error) {
	if title, ok := service.titles.get(id); ok {
		return title, nil
	}
	return service.readTitle(ctx, id)
}

func (service *Service) readTitle(ctx context.Context, id string) (*Title, error) {
	notFound := ErrNotFound.WithMessage("Title " + id + " not found")
	record, err := service.fetchOne(ctx, id, collections.RecordTypeWork, notFound, false)
	if err != nil {
		return nil, err
	}
	if !collections.IsTitle(record) {
		return nil, notFound
	}

	title := mapTitle(record)
	service.titles.set(title)
	return title, nil
}

// ListTitles returns one page of titles in catalogue order. An empty page marks the end.
func (service *Service) ListTitles(ctx context.Context, offset, limit int) ([]Title, error) {
	records, err := service.query(ctx, collections.Query{
		Database:   collections.DatabaseObjects,
		RecordType: collections.RecordTypeWork,
		WorkType:   collections.WorkTypeSerial,
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	titles := slice.Filter(records, func(record collections.Record) bool { return collections.IsTitle(&record) })
	return slice.Map(titles, func(record collections.Record) Title { return *mapTitle(&record) }), nil
}

// # Validation

func (input CreateTitleInput) validate() error {
	validator := &validate.Validator{}

	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, maxNameLength)
	start := optionalDate(validator, FieldStartDate, input.StartDate)
	end := optionalDate(validator, FieldEndDate, input.EndDate)
	validator.DateOrder(FieldEndDate, start, end)

	validator.MaxLen(FieldPublisher, input.Publisher, maxTermLength).
		MaxLen(FieldPublisherPlace, input.PublisherPlace, maxTermLength).
		MaxLen(FieldLanguage, input.Language, maxTermLength).
		MaxLen(FieldMaterialType, input.MaterialType, maxTermLength)

	return validator.Err()
}

// optionalDate validates a date that may be blank and returns it parsed, or nil.
func optionalDate(validator *validate.Validator, field, value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	date, err := time.Parse(validate.DateLayout, value)
	if err != nil {
		validator.Date(field, value)
		return nil
	}
	return &date
}
