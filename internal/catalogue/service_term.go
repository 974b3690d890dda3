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
)

// database returns the Collections database holding terms of this kind.
func (kind TermKind) database() collections.Database {
	switch kind {
	case TermPublisher:
		return collections.DatabasePeople
	case TermPlace:
		return collections.DatabasePlaces
	default:
		return collections.DatabaseLanguages
	}
}

// CreatePublisher creates a publisher unless one with that name exists.
//
// If it exists, the existing term is returned together with [ErrAlreadyExists].
func (service *Service) CreatePublisher(ctx context.Context, name string) (*Term, error) {
	return service.createTerm(ctx, TermPublisher, name)
}

// CreatePlace creates a place of publication unless one with that name exists.
func (service *Service) CreatePlace(ctx context.Context, name string) (*Term, error) {
	return service.createTerm(ctx, TermPlace, name)
}

// CreateLanguage creates a language unless one with that name exists.
func (service *Service) CreateLanguage(ctx context.Context, name string) (*Term, error) {
	return service.createTerm(ctx, TermLanguage, name)
}

func (service *Service) createTerm(ctx context.Context, kind TermKind, name string) (*Term, error) {
	name = strings.TrimSpace(name)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, maxTermLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	existing, err := service.findTerm(ctx, kind.database(), name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		term := &Term{ID: existing.ID, Kind: kind, Name: name}
		return term, ErrAlreadyExists.WithMessage(fmt.Sprintf("The %s %q already exists", kind, name))
	}

	id, err := service.create(ctx, kind.database(), func(id string) collections.Record {
		return collections.Record{ID: id, Name: name}
	}, string(kind))
	if err != nil {
		return nil, err
	}

	service.logFor(ctx).Info("term_created", slog.String("kind", string(kind)), slog.String("term_id", id), slog.String("name", name))
	return &Term{ID: id, Kind: kind, Name: name}, nil
}

// ensureContainer creates the storage location barcode unless it exists.
func (service *Service) ensureContainer(ctx context.Context, barcode string) error {
	barcode = strings.TrimSpace(barcode)

	existing, err := service.findTerm(ctx, collections.DatabaseLocations, barcode)
	if err != nil || existing != nil {
		return err
	}

	id, err := service.create(ctx, collections.DatabaseLocations, func(id string) collections.Record {
		return collections.Record{ID: id, Name: barcode}
	}, "container")
	if err != nil {
		return err
	}

	service.logFor(ctx).Info("container_created", slog.String("container_id", barcode), slog.String("record_id", id))
	return nil
}

func (service *Service) findTerm(ctx context.Context, database collections.Database, name string) (*collections.Record, error) {
	records, err := service.query(ctx, collections.Query{Database: database, Name: name, Limit: 1})
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return &records[0], nil
}
