// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/avisbase/internal/collections"
	"github.com/taibuivan/avisbase/internal/platform/validate"
	"github.com/taibuivan/avisbase/pkg/pointer"
)

// GetManifestation returns the issue with the given id.
func (service *Service) GetManifestation(ctx context.Context, id string) (*Manifestation, error) {
	record, err := service.fetchOne(ctx, id, collections.RecordTypeManifestation, ErrNotFound.WithMessage("Issue "+id+" not found"), false)
	if err != nil {
		return nil, err
	}
	return mapManifestation(record)
}

// UpdateManifestation applies the supplied fields of input to the issue.
//
// Omitted fields are left untouched. The identity key (title, date, number) cannot
// be changed. An id of another record kind is [ErrNotSupported].
func (service *Service) UpdateManifestation(ctx context.Context, id string, input UpdateManifestationInput) (*Manifestation, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	record, err := service.fetchOne(ctx, id, collections.RecordTypeManifestation, notSupported("update", id), false)
	if err != nil {
		return nil, err
	}
	if input.IsEmpty() {
		return mapManifestation(record)
	}

	updated := *record
	if input.Notes != nil {
		updated.Notes = nonEmpty(*input.Notes)
	}
	if input.Edition != nil {
		updated.AlternativeNumbers = withAlternateNumber(record.AlternativeNumbers, collections.AltNumberEdition, *input.Edition)
	}

	list, err := service.store.Update(ctx, collections.DatabaseObjects, updated)
	stored, err := written(list, err, "update manifestation")
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, inconsistent("issue %s disappeared during update", record.ID)
	}

	service.logFor(ctx).Info("manifestation_updated", slog.String("manifestation_id", record.ID))
	return service.GetManifestation(ctx, record.ID)
}

// DeleteManifestation removes the physical item of an issue, and with cascade the
// issue itself once it holds nothing else.
//
//   - One physical item: it is deleted. If it was the only item and cascade is set,
//     the issue is deleted too.
//   - No items: cascade deletes the issue; without cascade it is [ErrEmptyManifestation].
//   - Items but no physical one: [ErrNotFound], there is nothing to delete.
//   - More than one physical item: [ErrInconsistentStore], never repaired here.
func (service *Service) DeleteManifestation(ctx context.Context, id string, cascade bool) (*DeleteResult, error) {
	record, err := service.fetchOne(ctx, id, collections.RecordTypeManifestation, notSupported("delete", id), true)
	if err != nil {
		return nil, err
	}

	items := collections.ChildrenOfType(record, collections.RecordTypeItem)
	var physical []collections.Record
	for _, item := range items {
		if format, _ := collections.FormatOf(&item); format == collections.FormatPhysical {
			physical = append(physical, item)
		}
	}

	result := &DeleteResult{ManifestationID: record.ID}

	switch {
	case len(physical) > 1:
		return nil, inconsistent("issue %s has %d physical items", record.ID, len(physical))

	case len(items) == 0:
		if !cascade {
			return nil, ErrEmptyManifestation.WithMessage(fmt.Sprintf("Issue %s has no items; pass cascade to delete it", record.ID))
		}

	case len(physical) == 0:
		return nil, ErrNotFound.WithMessage(fmt.Sprintf("Issue %s has no physical item", record.ID))

	default:
		if err := service.deleteObject(ctx, physical[0].ID, "item"); err != nil {
			return nil, err
		}
		result.DeletedItemID = physical[0].ID
		if len(items) > 1 || !cascade {
			service.logDeletion(ctx, result)
			return result, nil
		}
	}

	if err := service.deleteObject(ctx, record.ID, "manifestation"); err != nil {
		return nil, err
	}
	result.ManifestationDeleted = true
	service.logDeletion(ctx, result)
	return result, nil
}

func (service *Service) deleteObject(ctx context.Context, id, kind string) error {
	list, err := service.store.Delete(ctx, collections.DatabaseObjects, id)
	deleted, err := written(list, err, "delete "+kind)
	if err != nil {
		return err
	}
	if deleted == nil {
		return inconsistent("%s %s disappeared during deletion", kind, id)
	}
	service.metrics.RecordsDeleted.WithLabelValues(kind).Inc()
	return nil
}

func (service *Service) logDeletion(ctx context.Context, result *DeleteResult) {
	service.logFor(ctx).Warn("manifestation_items_deleted",
		slog.String("manifestation_id", result.ManifestationID),
		slog.String("item_id", result.DeletedItemID),
		slog.Bool("manifestation_deleted", result.ManifestationDeleted),
	)
}

func notSupported(operation, id string) error {
	return ErrNotSupported.WithMessage(fmt.Sprintf("Cannot %s record %s: it is not an issue", operation, id))
}

// # Validation

func (input UpdateManifestationInput) validate() error {
	validator := &validate.Validator{}
	validator.MaxLen(FieldNotes, pointer.Val(input.Notes), maxNotesLength).
		MaxLen(FieldEdition, strings.TrimSpace(pointer.Val(input.Edition)), maxNumberLength)
	return validator.Err()
}
