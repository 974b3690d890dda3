// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalogue manages the Title → Manifestation → Item hierarchy of newspaper
holdings stored in Collections.

A Title is a newspaper. A Manifestation is one dated issue of it, identified by
(title, date, issue number). An Item is a holding of an issue, either digital (with a
URN) or physical (with a storage container barcode); an issue holds at most one of
each.

The [Service] is the only place that turns generic Collections records into these
domain types. Everything above it (HTTP handlers, the title search index) sees
[Title], [Manifestation] and [Item] only.
*/
package catalogue

import "time"

// # Field Identifiers

const (
	FieldName           = "name"
	FieldStartDate      = "start_date"
	FieldEndDate        = "end_date"
	FieldTitleID        = "title_id"
	FieldDate           = "date"
	FieldFormat         = "format"
	FieldNumber         = "number"
	FieldEdition        = "edition"
	FieldNotes          = "notes"
	FieldURN            = "urn"
	FieldContainerID    = "container_id"
	FieldPublisher      = "publisher"
	FieldPublisherPlace = "publisher_place"
	FieldLanguage       = "language"
	FieldMaterialType   = "material_type"
)

// # Item Format

// Format distinguishes digital from physical holdings.
type Format string

const (
	FormatDigital  Format = "digital"
	FormatPhysical Format = "physical"
)

// # Domain Types

// Title is a serial publication (a newspaper).
type Title struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Publisher      string     `json:"publisher,omitempty"`
	PublisherPlace string     `json:"publisher_place,omitempty"`
	Language       string     `json:"language,omitempty"`
	MaterialType   string     `json:"material_type,omitempty"`
}

// Manifestation is one dated issue of a [Title].
//
// (TitleID, Date, Number) is the identity of an issue and never changes after
// creation. Edition and Notes may be updated.
type Manifestation struct {
	ID        string    `json:"id"`
	TitleID   string    `json:"title_id"`
	TitleName string    `json:"title_name,omitempty"`
	Date      time.Time `json:"date"`
	Number    string    `json:"number,omitempty"`
	Edition   string    `json:"edition,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// Item is a holding of a [Manifestation].
//
// A placeholder for an issue that is known but not held has an empty Format and
// carries the manifestation's own id.
type Item struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Date            time.Time `json:"date"`
	TitleID         string    `json:"title_id"`
	TitleName       string    `json:"title_name,omitempty"`
	ManifestationID string    `json:"manifestation_id"`
	Format          Format    `json:"format,omitempty"`
	URN             string    `json:"urn,omitempty"`
	ContainerID     string    `json:"container_id,omitempty"`
}

// IsMissing reports whether the item is a "known but not held" placeholder.
func (item *Item) IsMissing() bool {
	return item.Format == ""
}

// TermKind names the authority list a [Term] belongs to.
type TermKind string

const (
	TermPublisher TermKind = "publisher"
	TermPlace     TermKind = "place"
	TermLanguage  TermKind = "language"
)

// Term is an authority record such as a publisher, a place or a language.
type Term struct {
	ID   string   `json:"id"`
	Kind TermKind `json:"kind"`
	Name string   `json:"name"`
}

// # Inputs

// CreateTitleInput carries a new title. Dates are YYYY-MM-DD and optional.
type CreateTitleInput struct {
	Name           string `json:"name"`
	StartDate      string `json:"start_date,omitempty"`
	EndDate        string `json:"end_date,omitempty"`
	Publisher      string `json:"publisher,omitempty"`
	PublisherPlace string `json:"publisher_place,omitempty"`
	Language       string `json:"language,omitempty"`
	MaterialType   string `json:"material_type,omitempty"`
}

// CreateItemInput registers a holding of an issue.
//
// Number, Edition and Notes only apply when the issue does not exist yet and is
// created on the way.
type CreateItemInput struct {
	TitleID     string `json:"title_id"`
	Date        string `json:"date"`
	Format      Format `json:"format"`
	Number      string `json:"number,omitempty"`
	Edition     string `json:"edition,omitempty"`
	Notes       string `json:"notes,omitempty"`
	URN         string `json:"urn,omitempty"`
	ContainerID string `json:"container_id,omitempty"`
}

// CreateMissingItemInput records an issue that is known but not held.
type CreateMissingItemInput struct {
	TitleID string `json:"title_id"`
	Date    string `json:"date"`
	Number  string `json:"number,omitempty"`
	Edition string `json:"edition,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// UpdateManifestationInput is a partial update. Nil fields are left untouched;
// a pointer to "" clears the field.
type UpdateManifestationInput struct {
	Notes   *string `json:"notes,omitempty"`
	Edition *string `json:"edition,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (input UpdateManifestationInput) IsEmpty() bool {
	return input.Notes == nil && input.Edition == nil
}

// DeleteResult reports what a manifestation deletion removed.
type DeleteResult struct {
	ManifestationID      string `json:"manifestation_id"`
	DeletedItemID        string `json:"deleted_item_id,omitempty"`
	ManifestationDeleted bool   `json:"manifestation_deleted"`
}
