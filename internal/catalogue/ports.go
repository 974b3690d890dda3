// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks IDAllocator,TitleIndexer

package catalogue

import "context"

// IDAllocator mints identifiers for new Collections records.
type IDAllocator interface {
	NextID(ctx context.Context) (string, error)
}

// TitleIndexer makes a newly created title searchable without waiting for a rebuild.
type TitleIndexer interface {
	AddTitle(ctx context.Context, title Title) error
}

// noopIndexer is used when no search index is wired.
type noopIndexer struct{}

func (noopIndexer) AddTitle(context.Context, Title) error { return nil }
