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
	"github.com/taibuivan/avisbase/internal/platform/validate"
)

const (
	maxNumberLength = 20
	maxNotesLength  = 2000
	maxURNLength    = 255
)

// GetItem returns the item with the given id.
func (service *Service) GetItem(ctx context.Context, id string) (*Item, error) {
	record, err := service.fetchOne(ctx, id, collections.RecordTypeItem, ErrNotFound.WithMessage("Item "+id+" not found"), false)
	if err != nil {
		return nil, err
	}
	return mapItem(record)
}

// CreateItem registers a digital or physical holding of an issue.
//
// The issue is found by (title, date, number) or created. A second item of a format
// the issue already holds fails with [ErrFormatAlreadyExists]. Physical items get
// their container created on demand.
func (service *Service) CreateItem(ctx context.Context, input CreateItemInput) (*Item, error) {
	key, err := input.validate()
	if err != nil {
		return nil, err
	}

	title, err := service.GetTitle(ctx, input.TitleID)
	if err != nil {
		return nil, err
	}

	record, err := service.findOrCreateManifestation(ctx, title, key, input.Edition, input.Notes)
	if err != nil {
		return nil, err
	}
	manifestation, err := mapManifestation(record)
	if err != nil {
		return nil, err
	}

	// Not serialised with the create below.
	if err := service.checkFormatFree(ctx, manifestation.ID, input.Format); err != nil {
		return nil, err
	}

	if input.Format == FormatPhysical {
		if err := service.ensureContainer(ctx, input.ContainerID); err != nil {
			return nil, err
		}
	}

	id, err := service.create(ctx, collections.DatabaseObjects, func(id string) collections.Record {
		return itemRecord(id, manifestation, input)
	}, "item")
	if err != nil {
		return nil, err
	}

	item, err := service.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	service.logFor(ctx).Info("item_created",
		slog.String("item_id", item.ID),
		slog.String("manifestation_id", item.ManifestationID),
		slog.String("format", string(item.Format)),
	)
	return item, nil
}

// CreateMissingItem records an issue as known but not held.
//
// No item is created: the found or created manifestation is returned as a
// placeholder item with an empty format.
func (service *Service) CreateMissingItem(ctx context.Context, input CreateMissingItemInput) (*Item, error) {
	key, err := input.validate()
	if err != nil {
		return nil, err
	}

	title, err := service.GetTitle(ctx, input.TitleID)
	if err != nil {
		return nil, err
	}

	record, err := service.findOrCreateManifestation(ctx, title, key, input.Edition, input.Notes)
	if err != nil {
		return nil, err
	}
	return mapMissingItem(record)
}

// findOrCreateManifestation reuses the issue with the same key under title, or creates it.
func (service *Service) findOrCreateManifestation(ctx context.Context, title *Title, key issueKey, edition, notes string) (*collections.Record, error) {
	number := key.Number
	records, err := service.query(ctx, collections.Query{
		Database:   collections.DatabaseObjects,
		RecordType: collections.RecordTypeManifestation,
		TitleID:    title.ID,
		Date:       collections.FormatDate(key.Date),
		Number:     &number,
		Limit:      2,
	})
	if err != nil {
		return nil, err
	}

	var matches []*collections.Record
	for i := range records {
		if sameIssue(&records[i], title.ID, key) {
			matches = append(matches, &records[i])
		}
	}
	switch len(matches) {
	case 0:
	case 1:
		return matches[0], nil
	default:
		return nil, inconsistent("title %s has %d issues dated %s numbered %q", title.ID, len(matches), collections.FormatDate(key.Date), key.Number)
	}

	id, err := service.create(ctx, collections.DatabaseObjects, func(id string) collections.Record {
		return manifestationRecord(id, title, key, edition, notes)
	}, "manifestation")
	if err != nil {
		return nil, err
	}

	service.logFor(ctx).Info("manifestation_created",
		slog.String("manifestation_id", id),
		slog.String("title_id", title.ID),
		slog.String("date", collections.FormatDate(key.Date)),
	)
	return service.fetchOne(ctx, id, collections.RecordTypeManifestation, inconsistent("record %s is not a manifestation", id), false)
}

// checkFormatFree fails if the manifestation already holds an item of format.
func (service *Service) checkFormatFree(ctx context.Context, manifestationID string, format Format) error {
	record, err := service.fetchOne(ctx, manifestationID, collections.RecordTypeManifestation, inconsistent("record %s is not a manifestation", manifestationID), true)
	if err != nil {
		return err
	}

	for _, child := range collections.ChildrenOfType(record, collections.RecordTypeItem) {
		if existing, _ := collections.FormatOf(&child); existing == string(format) {
			service.metrics.FormatConflicts.Inc()
			return ErrFormatAlreadyExists.WithMessage(fmt.Sprintf("Issue %s already has a %s item (%s)", manifestationID, format, child.ID))
		}
	}
	return nil
}

// # Validation

func (input CreateItemInput) validate() (issueKey, error) {
	validator := &validate.Validator{}

	validator.Required(FieldTitleID, input.TitleID)
	date := requiredDate(validator, FieldDate, input.Date)
	validator.MaxLen(FieldNumber, input.Number, maxNumberLength).
		MaxLen(FieldEdition, input.Edition, maxNumberLength).
		MaxLen(FieldNotes, input.Notes, maxNotesLength)

	urn := strings.TrimSpace(input.URN)
	container := strings.TrimSpace(input.ContainerID)

	validator.OneOf(FieldFormat, string(input.Format), string(FormatDigital), string(FormatPhysical))
	switch input.Format {
	case FormatDigital:
		validator.Required(FieldURN, urn).MaxLen(FieldURN, urn, maxURNLength).Token(FieldURN, urn)
		validator.Custom(FieldContainerID, container != "", "Digital items have no container")
	case FormatPhysical:
		validator.Custom(FieldURN, urn != "", "Physical items have no URN")
		validator.MaxLen(FieldContainerID, container, maxTermLength).Token(FieldContainerID, container)
	}

	if err := validator.Err(); err != nil {
		return issueKey{}, err
	}
	if input.Format == FormatPhysical && container == "" {
		return issueKey{}, ErrMissingContainer
	}
	return issueKey{Date: date, Number: strings.TrimSpace(input.Number)}, nil
}

func (input CreateMissingItemInput) validate() (issueKey, error) {
	validator := &validate.Validator{}

	validator.Required(FieldTitleID, input.TitleID)
	date := requiredDate(validator, FieldDate, input.Date)
	validator.MaxLen(FieldNumber, input.Number, maxNumberLength).
		MaxLen(FieldEdition, input.Edition, maxNumberLength).
		MaxLen(FieldNotes, input.Notes, maxNotesLength)

	if err := validator.Err(); err != nil {
		return issueKey{}, err
	}
	return issueKey{Date: date, Number: strings.TrimSpace(input.Number)}, nil
}

func requiredDate(validator *validate.Validator, field, value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		validator.Required(field, value)
		return time.Time{}
	}
	date, err := time.Parse(validate.DateLayout, value)
	if err != nil {
		validator.Date(field, value)
	}
	return date
}
