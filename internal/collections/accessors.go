// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collections

import (
	"strings"
	"time"
)

// maxAncestorHops bounds the ancestor walk. Item → Manifestation → Year → Title is
// the deepest legal chain; anything longer is a cycle or a corrupt link.
const maxAncestorHops = 4

// # Type Tags

// TypeOf returns the record type tag.
func TypeOf(record *Record) (RecordType, bool) {
	if record == nil || record.RecordType == "" {
		return "", false
	}
	return record.RecordType, true
}

// IsTitle reports whether record is a serial title (a WORK that is not a year-work).
func IsTitle(record *Record) bool {
	return record != nil && record.RecordType == RecordTypeWork && record.WorkType != WorkTypeYear
}

// IsYearWork reports whether record is a legacy year-work.
func IsYearWork(record *Record) bool {
	return record != nil && record.RecordType == RecordTypeWork && record.WorkType == WorkTypeYear
}

// # Scalar Fields

// FormatOf returns the item format.
func FormatOf(record *Record) (string, bool) {
	if record == nil || record.Format == "" {
		return "", false
	}
	return record.Format, true
}

// Name returns the display name: the first non-blank title, else the term name.
func Name(record *Record) (string, bool) {
	if record == nil {
		return "", false
	}
	for _, title := range record.Titles {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			return trimmed, true
		}
	}
	if trimmed := strings.TrimSpace(record.Name); trimmed != "" {
		return trimmed, true
	}
	return "", false
}

// Date returns the start date, which is the issue date for manifestations and items.
func Date(record *Record) (time.Time, bool) {
	if record == nil {
		return time.Time{}, false
	}
	return parseDate(record.DateStart)
}

// EndDate returns the end date.
func EndDate(record *Record) (time.Time, bool) {
	if record == nil {
		return time.Time{}, false
	}
	return parseDate(record.DateEnd)
}

// AlternateNumber returns the value of the first alternative number of the given type.
func AlternateNumber(record *Record, numberType string) (string, bool) {
	if record == nil {
		return "", false
	}
	for _, number := range record.AlternativeNumbers {
		if number.Type == numberType && number.Value != "" {
			return number.Value, true
		}
	}
	return "", false
}

// Notes returns the free-text notes joined by newlines.
func Notes(record *Record) (string, bool) {
	if record == nil {
		return "", false
	}
	return joined(record.Notes, "\n")
}

// URN returns the persistent identifier of a digital item.
func URN(record *Record) (string, bool) {
	if record == nil || record.URN == "" {
		return "", false
	}
	return record.URN, true
}

// Container returns the current storage location barcode of a physical item.
func Container(record *Record) (string, bool) {
	if record == nil {
		return "", false
	}
	return first(record.Locations)
}

// Publisher returns the first publisher.
func Publisher(record *Record) (string, bool) {
	if record == nil {
		return "", false
	}
	return first(record.Publishers)
}

// Place returns the first place of publication.
func Place(record *Record) (string, bool) {
	if record == nil {
		return "", false
	}
	return first(record.Places)
}

// Language returns the first language.
func Language(record *Record) (string, bool) {
	if record == nil {
		return "", false
	}
	return first(record.Languages)
}

// MaterialType returns the material type.
func MaterialType(record *Record) (string, bool) {
	if record == nil || record.MaterialType == "" {
		return "", false
	}
	return record.MaterialType, true
}

// # Hierarchy

// ParentID returns the id of the immediate parent.
func ParentID(record *Record) (string, bool) {
	if record == nil || record.PartOf == nil || record.PartOf.ID == "" {
		return "", false
	}
	return record.PartOf.ID, true
}

// ParentOf returns the logical parent one level up.
//
// For a manifestation this is its title in the flat schema, or its year-work in the
// legacy schema. Callers that need the title regardless of generation should use
// [TitleAncestor].
func ParentOf(record *Record) (*Record, bool) {
	if _, ok := ParentID(record); !ok {
		return nil, false
	}
	return record.PartOf, true
}

// TitleAncestor walks up to the nearest title.
//
// Each hop inspects the parent's own tags instead of assuming a fixed depth, so the
// same call resolves Manifestation → Title and Manifestation → Year → Title, and an
// item one level further down. A record that is itself a title is its own ancestor.
func TitleAncestor(record *Record) (*Record, bool) {
	return titleAncestor(record, 0)
}

func titleAncestor(record *Record, hops int) (*Record, bool) {
	if record == nil || hops > maxAncestorHops {
		return nil, false
	}
	if IsTitle(record) {
		return record, true
	}
	parent, ok := ParentOf(record)
	if !ok {
		return nil, false
	}
	return titleAncestor(parent, hops+1)
}

// ChildrenOfType returns the expanded parts carrying the given record type.
func ChildrenOfType(record *Record, recordType RecordType) []Record {
	if record == nil {
		return nil
	}
	var children []Record
	for _, part := range record.Parts {
		if part.RecordType == recordType {
			children = append(children, part)
		}
	}
	return children
}

// # Helpers

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// FormatDate renders a date the way Collections stores it.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

func first(values []string) (string, bool) {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed, true
		}
	}
	return "", false
}

func joined(values []string, separator string) (string, bool) {
	var kept []string
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) == 0 {
		return "", false
	}
	return strings.Join(kept, separator), true
}
