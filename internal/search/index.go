// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package search keeps an in-memory index of titles for interactive name search.

Architecture:

  - One writer: rebuilds, incremental adds and staged feed entries serialize on a mutex.
  - Many readers: searches run lock-free against an immutable snapshot that the writer
    publishes on commit or on [Index.Refresh].
  - A title created through the catalogue service is added and committed at once, so it
    is searchable before the next scheduled rebuild.
*/
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/avisbase/internal/catalogue"
	"github.com/taibuivan/avisbase/internal/platform/apperr"
	"github.com/taibuivan/avisbase/internal/platform/constants"
	"github.com/taibuivan/avisbase/internal/platform/metrics"
	"github.com/taibuivan/avisbase/pkg/slice"
)

// ErrIndexNotAvailable is returned by [Index.Search] before the first rebuild completes.
var ErrIndexNotAvailable = apperr.ServiceUnavailable("INDEX_NOT_AVAILABLE", "The title index is still being built")

// DefaultPageSize is the number of titles fetched per page during a rebuild.
const DefaultPageSize = 500

// # State

// State is the lifecycle state of the index.
type State int32

const (
	StateUninitialized State = iota
	StateIndexing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIndexing:
		return "indexing"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// TitleSource pages through every title in the catalogue.
type TitleSource interface {
	ListTitles(ctx context.Context, offset, limit int) ([]catalogue.Title, error)
}

// Options tunes the [Index].
type Options struct {
	// RequireReady makes Search fail with [ErrIndexNotAvailable] until the first
	// rebuild has completed. When false, Search answers from whatever is indexed.
	RequireReady bool

	// PageSize is the rebuild page size. Zero means [DefaultPageSize].
	PageSize int
}

// # Index

// Index is the title search index. The zero value is not usable; call [NewIndex].
type Index struct {
	options Options
	metrics *metrics.Metrics
	logger  *slog.Logger

	state      atomic.Int32
	rebuilding atomic.Bool
	current    atomic.Pointer[snapshot]

	// Writer state, guarded by mu.
	mu           sync.Mutex
	docs         map[string]document
	sinceRebuild map[string]document
	dirty        bool
}

// NewIndex returns an empty, uninitialized index.
func NewIndex(options Options, m *metrics.Metrics, logger *slog.Logger) *Index {
	if options.PageSize <= 0 {
		options.PageSize = DefaultPageSize
	}
	if m == nil {
		m = metrics.New(nil)
	}

	index := &Index{
		options: options,
		metrics: m,
		logger:  logger,
		docs:    make(map[string]document),
	}
	index.current.Store(&snapshot{})
	index.setState(StateUninitialized)
	return index
}

// State returns the current lifecycle state.
func (index *Index) State() State {
	return State(index.state.Load())
}

// Len returns the number of titles visible to searches.
func (index *Index) Len() int {
	return len(index.current.Load().docs)
}

// Ready returns [ErrIndexNotAvailable] until the first rebuild has completed.
func (index *Index) Ready() error {
	if index.State() != StateReady {
		return ErrIndexNotAvailable
	}
	return nil
}

// Rebuilding reports whether a rebuild is running.
func (index *Index) Rebuilding() bool {
	return index.rebuilding.Load()
}

func (index *Index) setState(state State) {
	index.state.Store(int32(state))
	index.metrics.IndexState.Set(float64(state))
}

// # Writes

// RebuildAll replaces the index contents with every named title from source.
//
// If a rebuild is already running the call returns immediately without error.
// While a rebuild runs after the index became ready, searches keep answering from
// the previous snapshot. Titles added during the rebuild survive the swap.
func (index *Index) RebuildAll(ctx context.Context, source TitleSource) error {
	if !index.rebuilding.CompareAndSwap(false, true) {
		index.metrics.IndexRebuilds.WithLabelValues("skipped").Inc()
		index.logger.Info("index_rebuild_skipped", slog.String("reason", "already_running"))
		return nil
	}
	defer index.rebuilding.Store(false)

	started := time.Now()
	firstBuild := index.State() != StateReady
	if firstBuild {
		index.setState(StateIndexing)
	}

	index.mu.Lock()
	index.sinceRebuild = make(map[string]document)
	index.mu.Unlock()

	docs, err := index.collect(ctx, source)
	if err != nil {
		index.mu.Lock()
		index.sinceRebuild = nil
		index.mu.Unlock()
		if firstBuild {
			index.setState(StateUninitialized)
		}
		index.metrics.IndexRebuilds.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}

	index.mu.Lock()
	for id, doc := range index.sinceRebuild {
		docs[id] = doc
	}
	index.docs = docs
	index.sinceRebuild = nil
	index.commitLocked()
	index.mu.Unlock()

	index.setState(StateReady)

	elapsed := time.Since(started)
	index.metrics.IndexRebuilds.WithLabelValues(metrics.OutcomeOK).Inc()
	index.metrics.IndexRebuildDuration.Observe(elapsed.Seconds())
	index.logger.Info("index_rebuild_finished", slog.Int("documents", len(docs)), slog.Duration("elapsed", elapsed))
	return nil
}

func (index *Index) collect(ctx context.Context, source TitleSource) (map[string]document, error) {
	docs := make(map[string]document)
	for offset := 0; ; {
		titles, err := source.ListTitles(ctx, offset, index.options.PageSize)
		if err != nil {
			return nil, fmt.Errorf("search: list titles at offset %d: %w", offset, err)
		}
		if len(titles) == 0 {
			return docs, nil
		}
		for _, title := range titles {
			if doc, ok := newDocument(title); ok {
				docs[title.ID] = doc
			}
		}
		offset += len(titles)
	}
}

// AddTitle indexes one title and commits, so it is searchable on return.
// Titles without a name are ignored.
func (index *Index) AddTitle(_ context.Context, title catalogue.Title) error {
	doc, ok := newDocument(title)
	if !ok {
		return nil
	}

	index.mu.Lock()
	defer index.mu.Unlock()
	index.putLocked(doc)
	index.commitLocked()
	return nil
}

// Stage indexes one title without committing. It becomes searchable on the next
// [Index.Refresh] or commit.
func (index *Index) Stage(title catalogue.Title) {
	doc, ok := newDocument(title)
	if !ok {
		return
	}

	index.mu.Lock()
	defer index.mu.Unlock()
	index.putLocked(doc)
	index.dirty = true
}

// Refresh publishes staged writes to readers. It is a no-op when nothing changed.
func (index *Index) Refresh() {
	index.mu.Lock()
	defer index.mu.Unlock()
	if index.dirty {
		index.commitLocked()
	}
}

func (index *Index) putLocked(doc document) {
	index.docs[doc.title.ID] = doc
	if index.sinceRebuild != nil {
		index.sinceRebuild[doc.title.ID] = doc
	}
}

func (index *Index) commitLocked() {
	snap := newSnapshot(index.docs)
	index.current.Store(snap)
	index.dirty = false
	index.metrics.IndexDocuments.Set(float64(len(snap.docs)))
}

// # Reads

// Search returns the titles whose name contains every whitespace-separated term of
// query as a substring, ignoring case and term order. Results are ordered by name and
// capped at [constants.SearchResultLimit]. A query without terms matches nothing.
func (index *Index) Search(_ context.Context, query string) ([]catalogue.Title, error) {
	if index.options.RequireReady && index.State() != StateReady {
		index.metrics.IndexSearches.WithLabelValues("not_ready").Inc()
		return nil, ErrIndexNotAvailable
	}

	terms := strings.Fields(fold(query))
	if len(terms) == 0 {
		index.metrics.IndexSearches.WithLabelValues(metrics.OutcomeOK).Inc()
		return []catalogue.Title{}, nil
	}

	snap := index.current.Load()
	hits := snap.match(terms, constants.SearchResultLimit)

	index.metrics.IndexSearches.WithLabelValues(metrics.OutcomeOK).Inc()
	return slice.Map(hits, func(doc *document) catalogue.Title { return doc.title }), nil
}

// # Documents and Snapshots

// document is an indexed title. key is the folded name; it orders results and is
// the text terms are matched against.
type document struct {
	title catalogue.Title
	key   string
}

func newDocument(title catalogue.Title) (document, bool) {
	name := strings.TrimSpace(title.Name)
	if name == "" {
		return document{}, false
	}
	return document{title: title, key: fold(name)}, true
}

func (doc *document) contains(term string) bool {
	return strings.Contains(doc.key, term)
}

// snapshot is an immutable reader view. docs is sorted by folded name then id;
// postings hold ascending positions into docs.
type snapshot struct {
	docs     []document
	postings map[string][]int
}

func newSnapshot(source map[string]document) *snapshot {
	docs := make([]document, 0, len(source))
	for _, doc := range source {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].key != docs[j].key {
			return docs[i].key < docs[j].key
		}
		return docs[i].title.ID < docs[j].title.ID
	})

	postings := make(map[string][]int)
	for position, doc := range docs {
		for _, gram := range trigrams(doc.key) {
			postings[gram] = append(postings[gram], position)
		}
	}
	return &snapshot{docs: docs, postings: postings}
}

// match returns up to limit documents containing every term.
func (snap *snapshot) match(terms []string, limit int) []*document {
	candidates, narrowed := snap.candidates(terms)

	var hits []*document
	visit := func(position int) bool {
		doc := &snap.docs[position]
		for _, term := range terms {
			if !doc.contains(term) {
				return true
			}
		}
		hits = append(hits, doc)
		return len(hits) < limit
	}

	if narrowed {
		for _, position := range candidates {
			if !visit(position) {
				break
			}
		}
		return hits
	}
	for position := range snap.docs {
		if !visit(position) {
			break
		}
	}
	return hits
}

// candidates intersects the trigram postings of every term of three runes or more.
// narrowed is false when no term was long enough to use the postings.
func (snap *snapshot) candidates(terms []string) (positions []int, narrowed bool) {
	for _, term := range terms {
		if utf8.RuneCountInString(term) < 3 {
			continue
		}
		for _, gram := range trigrams(term) {
			list := snap.postings[gram]
			if !narrowed {
				positions = append([]int(nil), list...)
				narrowed = true
			} else {
				positions = intersect(positions, list)
			}
			if len(positions) == 0 {
				return nil, true
			}
		}
	}
	return positions, narrowed
}

func intersect(a, b []int) []int {
	out := a[:0]
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
