// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalogue

import "github.com/taibuivan/avisbase/internal/platform/apperr"

// Sentinel errors. Returned errors may carry a more specific message; match them
// with [errors.Is], which compares machine codes.
var (
	// ErrNotFound: the id resolves to nothing, or to a record of another kind.
	ErrNotFound = apperr.NotFound("Catalogue record")

	// ErrInconsistentStore: a structural invariant is violated in Collections. Never retried.
	ErrInconsistentStore = apperr.InternalCode("INCONSISTENT_STORE", "The catalogue store is in an inconsistent state")

	// ErrFormatAlreadyExists: the manifestation already holds an item of the requested format.
	ErrFormatAlreadyExists = apperr.ConflictCode("FORMAT_ALREADY_EXISTS", "The issue already has an item in this format")

	// ErrMissingContainer: a physical item was requested without a container.
	ErrMissingContainer = apperr.BadRequest("MISSING_CONTAINER", "Physical items require a container")

	// ErrAlreadyExists: a publisher, place or language with that name exists already.
	ErrAlreadyExists = apperr.ConflictCode("ALREADY_EXISTS", "The term already exists")

	// ErrNotSupported: a valid id of the wrong record kind for the requested operation.
	ErrNotSupported = apperr.BadRequest("NOT_SUPPORTED", "The operation is not supported for this record")

	// ErrEmptyManifestation: deleting an issue without items requires explicit cascade.
	ErrEmptyManifestation = apperr.ConflictCode("EMPTY_MANIFESTATION", "The issue has no items; pass cascade to delete it")

	// ErrCatalogueWrite: Collections rejected a write or returned no object.
	ErrCatalogueWrite = apperr.BadGateway("CATALOGUE_WRITE_ERROR", "The catalogue store rejected the change", nil)

	// ErrCatalogueRead: Collections could not be read.
	ErrCatalogueRead = apperr.BadGateway("CATALOGUE_READ_ERROR", "The catalogue store could not be read", nil)
)
