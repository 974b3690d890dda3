// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collections

import "context"

// # Store Contract

// Store is the narrow contract the catalogue service has with Collections.
//
// Every call returns a [RecordList]. Transport failures are returned as errors;
// failures reported by Collections itself arrive as a diagnostic on the list.
// A missing record is an empty list, never an error.
type Store interface {
	// Get returns a single record with its parent chain expanded and no children.
	Get(ctx context.Context, database Database, id string) (*RecordList, error)

	// GetWithChildren returns an objects-database record with its Parts expanded one level.
	GetWithChildren(ctx context.Context, id string) (*RecordList, error)

	// Query returns the records matching every non-empty filter of q.
	Query(ctx context.Context, q Query) (*RecordList, error)

	// Create stores a new record. The record must carry its id.
	Create(ctx context.Context, database Database, record Record) (*RecordList, error)

	// Update replaces a stored record. An empty result means the target no longer exists.
	Update(ctx context.Context, database Database, record Record) (*RecordList, error)

	// Delete removes a record that has no children and returns it.
	Delete(ctx context.Context, database Database, id string) (*RecordList, error)
}

// Query filters a [Store.Query] call. Zero values do not filter, except Number
// which filters whenever it is non-nil (a pointer to "" selects records without one).
type Query struct {
	Database   Database
	RecordType RecordType
	WorkType   WorkType

	// TitleID selects records whose title ancestor has this id, across both schema generations.
	TitleID string

	// Date matches DateStart exactly (YYYY-MM-DD).
	Date string

	// Number matches the issue alternative number.
	Number *string

	// Name matches the display name case-insensitively.
	Name string

	Offset int
	Limit  int
}
