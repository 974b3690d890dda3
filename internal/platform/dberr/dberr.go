// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/avisbase/internal/platform/apperr"
)

// SQLSTATE codes the allocator cares about.
const (
	codeUndefinedTable    = "42P01"
	codeSequenceExhausted = "2200H"
	codeObjectNotInPrereq = "55000"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Schema and sequence problems are operator errors; keep the action in the cause
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case codeUndefinedTable, codeObjectNotInPrereq:
			return apperr.Internal(fmt.Errorf("%s: schema not migrated: %w", action, err))
		case codeSequenceExhausted:
			return apperr.Internal(fmt.Errorf("%s: sequence exhausted: %w", action, err))
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
