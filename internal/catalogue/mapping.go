// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalogue

import (
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/avisbase/internal/collections"
)

// # Record → Domain

func mapTitle(record *collections.Record) *Title {
	title := &Title{ID: record.ID}
	title.Name, _ = collections.Name(record)
	if start, ok := collections.Date(record); ok {
		title.StartDate = &start
	}
	if end, ok := collections.EndDate(record); ok {
		title.EndDate = &end
	}
	title.Publisher, _ = collections.Publisher(record)
	title.PublisherPlace, _ = collections.Place(record)
	title.Language, _ = collections.Language(record)
	title.MaterialType, _ = collections.MaterialType(record)
	return title
}

func mapManifestation(record *collections.Record) (*Manifestation, error) {
	title, ok := collections.TitleAncestor(record)
	if !ok {
		return nil, inconsistent("manifestation %s has no title ancestor", record.ID)
	}
	date, ok := collections.Date(record)
	if !ok {
		return nil, inconsistent("manifestation %s has no date", record.ID)
	}

	manifestation := &Manifestation{ID: record.ID, TitleID: title.ID, Date: date}
	manifestation.TitleName, _ = collections.Name(title)
	manifestation.Number, _ = collections.AlternateNumber(record, collections.AltNumberIssue)
	manifestation.Edition, _ = collections.AlternateNumber(record, collections.AltNumberEdition)
	manifestation.Notes, _ = collections.Notes(record)
	return manifestation, nil
}

func mapItem(record *collections.Record) (*Item, error) {
	parent, ok := collections.ParentOf(record)
	if !ok || parent.RecordType != collections.RecordTypeManifestation {
		return nil, inconsistent("item %s is not attached to a manifestation", record.ID)
	}
	title, ok := collections.TitleAncestor(parent)
	if !ok {
		return nil, inconsistent("item %s has no title ancestor", record.ID)
	}

	item := &Item{ID: record.ID, TitleID: title.ID, ManifestationID: parent.ID}
	item.TitleName, _ = collections.Name(title)
	item.Name, _ = collections.Name(record)
	if item.Name == "" {
		item.Name = item.TitleName
	}
	if date, ok := collections.Date(record); ok {
		item.Date = date
	} else {
		item.Date, _ = collections.Date(parent)
	}

	format, _ := collections.FormatOf(record)
	item.Format = Format(format)
	switch item.Format {
	case FormatDigital:
		item.URN, _ = collections.URN(record)
	case FormatPhysical:
		item.ContainerID, _ = collections.Container(record)
	}
	return item, nil
}

// mapMissingItem presents a manifestation as an item-shaped placeholder with no format.
func mapMissingItem(record *collections.Record) (*Item, error) {
	manifestation, err := mapManifestation(record)
	if err != nil {
		return nil, err
	}
	return &Item{
		ID:              manifestation.ID,
		Name:            manifestation.TitleName,
		Date:            manifestation.Date,
		TitleID:         manifestation.TitleID,
		TitleName:       manifestation.TitleName,
		ManifestationID: manifestation.ID,
	}, nil
}

// # Domain → Record

func titleRecord(id string, input CreateTitleInput) collections.Record {
	return collections.Record{
		ID:           id,
		RecordType:   collections.RecordTypeWork,
		WorkType:     collections.WorkTypeSerial,
		Titles:       []string{strings.TrimSpace(input.Name)},
		DateStart:    strings.TrimSpace(input.StartDate),
		DateEnd:      strings.TrimSpace(input.EndDate),
		Publishers:   nonEmpty(input.Publisher),
		Places:       nonEmpty(input.PublisherPlace),
		Languages:    nonEmpty(input.Language),
		MaterialType: strings.TrimSpace(input.MaterialType),
	}
}

func manifestationRecord(id string, title *Title, key issueKey, edition, notes string) collections.Record {
	var numbers []collections.AlternativeNumber
	numbers = withAlternateNumber(numbers, collections.AltNumberIssue, key.Number)
	numbers = withAlternateNumber(numbers, collections.AltNumberEdition, edition)

	return collections.Record{
		ID:                 id,
		RecordType:         collections.RecordTypeManifestation,
		Titles:             []string{title.Name},
		DateStart:          collections.FormatDate(key.Date),
		PartOf:             collections.Ref(title.ID),
		AlternativeNumbers: numbers,
		Notes:              nonEmpty(notes),
	}
}

func itemRecord(id string, manifestation *Manifestation, input CreateItemInput) collections.Record {
	record := collections.Record{
		ID:         id,
		RecordType: collections.RecordTypeItem,
		Titles:     []string{manifestation.TitleName},
		Format:     string(input.Format),
		DateStart:  collections.FormatDate(manifestation.Date),
		PartOf:     collections.Ref(manifestation.ID),
	}
	switch input.Format {
	case FormatDigital:
		record.URN = strings.TrimSpace(input.URN)
	case FormatPhysical:
		record.Locations = nonEmpty(input.ContainerID)
	}
	return record
}

// # Helpers

// issueKey is the identity of a manifestation within its title.
type issueKey struct {
	Date   time.Time
	Number string
}

// sameIssue reports whether record is the manifestation for key under titleID.
func sameIssue(record *collections.Record, titleID string, key issueKey) bool {
	if record.RecordType != collections.RecordTypeManifestation {
		return false
	}
	title, ok := collections.TitleAncestor(record)
	if !ok || title.ID != titleID {
		return false
	}
	date, ok := collections.Date(record)
	if !ok || !date.Equal(key.Date) {
		return false
	}
	number, _ := collections.AlternateNumber(record, collections.AltNumberIssue)
	return number == key.Number
}

// withAlternateNumber replaces every number of numberType with value, or removes them if value is empty.
func withAlternateNumber(numbers []collections.AlternativeNumber, numberType, value string) []collections.AlternativeNumber {
	kept := make([]collections.AlternativeNumber, 0, len(numbers)+1)
	for _, number := range numbers {
		if number.Type != numberType {
			kept = append(kept, number)
		}
	}
	if value = strings.TrimSpace(value); value != "" {
		kept = append(kept, collections.AlternativeNumber{Type: numberType, Value: value})
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

func nonEmpty(value string) []string {
	if value = strings.TrimSpace(value); value == "" {
		return nil
	}
	return []string{value}
}

func inconsistent(format string, args ...any) error {
	return ErrInconsistentStore.WithMessage(fmt.Sprintf(format, args...))
}
