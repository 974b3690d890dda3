// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sequence mints identifiers for new Collections records.

Collections does not assign prirefs itself, so every record this service creates
(titles, manifestations, items, terms) takes its id from a sequence allocator.

Implementations:

  - [PostgresAllocator]: nextval() on catalogue_record_id_seq. Safe across replicas.
  - [MemoryAllocator]: an in-process counter for development and tests.
*/
package sequence

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/avisbase/internal/platform/dberr"
)

// SequenceName is the Postgres sequence created by migration 000001.
const SequenceName = "catalogue_record_id_seq"

// # Postgres Allocator

// PostgresAllocator draws ids from a Postgres sequence.
type PostgresAllocator struct {
	pool *pgxpool.Pool
}

// NewPostgresAllocator constructs an allocator over an existing pool.
func NewPostgresAllocator(pool *pgxpool.Pool) *PostgresAllocator {
	return &PostgresAllocator{pool: pool}
}

// NextID returns the next value of the sequence as a decimal string.
func (allocator *PostgresAllocator) NextID(ctx context.Context) (string, error) {
	var id int64
	if err := allocator.pool.QueryRow(ctx, "SELECT nextval($1::regclass)", SequenceName).Scan(&id); err != nil {
		return "", dberr.Wrap(err, "next_record_id")
	}
	return strconv.FormatInt(id, 10), nil
}

// # Memory Allocator

// MemoryAllocator hands out consecutive ids from an atomic counter.
type MemoryAllocator struct {
	next atomic.Int64
}

// NewMemoryAllocator returns an allocator whose first id is seed.
func NewMemoryAllocator(seed int64) *MemoryAllocator {
	allocator := &MemoryAllocator{}
	allocator.next.Store(seed)
	return allocator
}

// NextID implements the allocator contract. It never fails.
func (allocator *MemoryAllocator) NextID(_ context.Context) (string, error) {
	return strconv.FormatInt(allocator.next.Add(1)-1, 10), nil
}
