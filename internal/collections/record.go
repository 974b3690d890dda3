// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package collections is the adapter for the external Collections catalogue store.

Collections keeps every catalogue object (titles, year-works, manifestations, items)
as one loosely-typed record shape in the objects database, and terms (publishers,
places, languages, storage locations) in their own databases. This package models that
shape as a single tagged [Record], exposes pure accessor functions over it, and provides
two [Store] implementations:

  - [HTTPStore]: the JSON gateway in front of Collections.
  - [MemoryStore]: an in-process store for local development and tests.

Domain types (titles, manifestations, items) are deliberately not defined here. They
are built from records by the catalogue service at its boundary.
*/
package collections

import (
	"errors"
	"fmt"
)

// # Databases

// Database names a Collections database.
type Database string

const (
	DatabaseObjects   Database = "objects"
	DatabasePeople    Database = "people"
	DatabasePlaces    Database = "places"
	DatabaseLanguages Database = "languages"
	DatabaseLocations Database = "locations"
)

// # Record Tags

// RecordType is the Collections tag distinguishing catalogue objects.
type RecordType string

const (
	RecordTypeWork          RecordType = "WORK"
	RecordTypeManifestation RecordType = "MANIFESTATION"
	RecordTypeItem          RecordType = "ITEM"
)

// WorkType refines [RecordTypeWork]. Legacy hierarchies insert a year-work
// between a serial title and its manifestations.
type WorkType string

const (
	WorkTypeSerial WorkType = "SERIAL"
	WorkTypeYear   WorkType = "YEAR"
)

// Item formats as stored on ITEM records.
const (
	FormatDigital  = "digital"
	FormatPhysical = "physical"
)

// Alternative number types.
const (
	AltNumberIssue   = "nummer"
	AltNumberEdition = "utgave"
)

// DateLayout is the layout of every date field in Collections.
const DateLayout = "2006-01-02"

// # Record Shape

// AlternativeNumber is a typed secondary identifier on a record.
type AlternativeNumber struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Record is the generic Collections record.
//
// Reads return PartOf expanded up the hierarchy (each parent carries its own
// parent), so the ancestor walk never needs I/O. Parts are only populated by
// [Store.GetWithChildren].
type Record struct {
	ID                 string              `json:"priref"`
	RecordType         RecordType          `json:"record_type,omitempty"`
	WorkType           WorkType            `json:"work_type,omitempty"`
	Titles             []string            `json:"title,omitempty"`
	Name               string              `json:"name,omitempty"`
	Format             string              `json:"format,omitempty"`
	DateStart          string              `json:"dating_date_start,omitempty"`
	DateEnd            string              `json:"dating_date_end,omitempty"`
	PartOf             *Record             `json:"part_of,omitempty"`
	Parts              []Record            `json:"parts,omitempty"`
	Publishers         []string            `json:"publisher,omitempty"`
	Places             []string            `json:"place_of_publication,omitempty"`
	Languages          []string            `json:"language,omitempty"`
	MaterialType       string              `json:"material_type,omitempty"`
	Notes              []string            `json:"notes,omitempty"`
	AlternativeNumbers []AlternativeNumber `json:"alternative_number,omitempty"`
	URN                string              `json:"urn,omitempty"`
	Locations          []string            `json:"current_location,omitempty"`
}

// Ref returns a shallow reference to the record with the given id, suitable for PartOf on a new record.
func Ref(id string) *Record {
	return &Record{ID: id}
}

// # Results

// Diagnostic is the error payload Collections attaches to a failed call.
type Diagnostic struct {
	Message string `json:"message"`
	Info    string `json:"info,omitempty"`
}

// RecordList is the result of every [Store] operation.
type RecordList struct {
	Records    []Record    `json:"recordList"`
	Diagnostic *Diagnostic `json:"error,omitempty"`
}

// Len returns the number of records, treating a nil list as empty.
func (l *RecordList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Records)
}

// First returns the first record, if any.
func (l *RecordList) First() (*Record, bool) {
	if l.Len() == 0 {
		return nil, false
	}
	return &l.Records[0], true
}

// Err converts an attached diagnostic into a [*DiagnosticError].
func (l *RecordList) Err() error {
	if l == nil || l.Diagnostic == nil {
		return nil
	}
	return &DiagnosticError{Diagnostic: *l.Diagnostic}
}

// DiagnosticError is returned by [RecordList.Err].
type DiagnosticError struct {
	Diagnostic Diagnostic
}

func (e *DiagnosticError) Error() string {
	if e.Diagnostic.Info == "" {
		return "collections: " + e.Diagnostic.Message
	}
	return fmt.Sprintf("collections: %s (%s)", e.Diagnostic.Message, e.Diagnostic.Info)
}

// IsDiagnostic reports whether err carries a Collections diagnostic.
func IsDiagnostic(err error) bool {
	var diagnostic *DiagnosticError
	return errors.As(err, &diagnostic)
}

// failed builds a diagnostic-only result.
func failed(message, info string) *RecordList {
	return &RecordList{Diagnostic: &Diagnostic{Message: message, Info: info}}
}
