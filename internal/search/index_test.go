// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/avisbase/internal/catalogue"
	"github.com/taibuivan/avisbase/internal/collections"
	"github.com/taibuivan/avisbase/internal/platform/metrics"
	"github.com/taibuivan/avisbase/internal/search"
	"github.com/taibuivan/avisbase/internal/sequence"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newIndex(requireReady bool) *search.Index {
	return search.NewIndex(search.Options{RequireReady: requireReady, PageSize: 2}, metrics.New(nil), discardLogger())
}

// titleSource pages over a fixed title list. With gate set, every call signals
// entered and then blocks until gate is closed.
type titleSource struct {
	titles  []catalogue.Title
	err     error
	calls   atomic.Int32
	entered chan struct{}
	gate    chan struct{}
}

func (source *titleSource) ListTitles(_ context.Context, offset, limit int) ([]catalogue.Title, error) {
	source.calls.Add(1)
	if source.gate != nil {
		select {
		case source.entered <- struct{}{}:
		default:
		}
		<-source.gate
	}
	if source.err != nil {
		return nil, source.err
	}
	if offset >= len(source.titles) {
		return nil, nil
	}
	return source.titles[offset:min(offset+limit, len(source.titles))], nil
}

func newspapers() *titleSource {
	return &titleSource{titles: []catalogue.Title{
		{ID: "1", Name: "Morgenbladet"},
		{ID: "2", Name: "Aftenposten"},
		{ID: "3", Name: "Bikubeavisen"},
		{ID: "4", Name: "  "},
	}}
}

func names(titles []catalogue.Title) []string {
	out := make([]string, 0, len(titles))
	for _, title := range titles {
		out = append(out, title.Name)
	}
	return out
}

func readyIndex(t *testing.T, source search.TitleSource) *search.Index {
	t.Helper()
	index := newIndex(true)
	require.NoError(t, index.RebuildAll(context.Background(), source))
	require.Equal(t, search.StateReady, index.State())
	return index
}

/*
TestSearch_SubstringTerms checks conjunctive, case-insensitive substring matching.
*/
func TestSearch_SubstringTerms(t *testing.T) {
	index := readyIndex(t, newspapers())
	ctx := context.Background()

	cases := map[string][]string{
		"avis":         {"Bikubeavisen"},
		"posten":       {"Aftenposten"},
		"AVIS":         {"Bikubeavisen"},
		"en":           {"Aftenposten", "Bikubeavisen", "Morgenbladet"},
		"posten aften": {"Aftenposten"},
		"posten blad":  {},
		"  ":           {},
		"x":            {},
	}
	for query, want := range cases {
		t.Run(query, func(t *testing.T) {
			got, err := index.Search(ctx, query)
			require.NoError(t, err)
			assert.Equal(t, want, names(got))
		})
	}
	assert.Equal(t, 3, index.Len(), "unnamed titles are skipped")
}

/*
TestSearch_PunctuationIsLiteral treats everything but whitespace as part of a term.
*/
func TestSearch_PunctuationIsLiteral(t *testing.T) {
	index := newIndex(false)
	ctx := context.Background()
	require.NoError(t, index.AddTitle(ctx, catalogue.Title{ID: "1", Name: "Aftenposten"}))
	require.NoError(t, index.AddTitle(ctx, catalogue.Title{ID: "2", Name: "Bergens-Tidende"}))

	cases := map[string][]string{
		"posten.":     {},
		"n-p":         {},
		"s-t":         {"Bergens-Tidende"},
		"bergens-tid": {"Bergens-Tidende"},
		"bergens tid": {"Bergens-Tidende"},
		"\tposten\n":  {"Aftenposten"},
	}
	for query, want := range cases {
		got, err := index.Search(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, want, names(got), query)
	}
}

/*
TestSearch_NotReady enforces or relaxes the readiness guard.
*/
func TestSearch_NotReady(t *testing.T) {
	ctx := context.Background()

	strict := newIndex(true)
	_, err := strict.Search(ctx, "avis")
	assert.ErrorIs(t, err, search.ErrIndexNotAvailable)

	relaxed := newIndex(false)
	require.NoError(t, relaxed.AddTitle(ctx, catalogue.Title{ID: "3", Name: "Bikubeavisen"}))
	got, err := relaxed.Search(ctx, "avis")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bikubeavisen"}, names(got))
	assert.Equal(t, search.StateUninitialized, relaxed.State())
}

/*
TestSearch_Limit caps results and orders them by name then id.
*/
func TestSearch_Limit(t *testing.T) {
	source := &titleSource{}
	for i := 0; i < 60; i++ {
		source.titles = append(source.titles, catalogue.Title{ID: fmt.Sprintf("%03d", 60-i), Name: fmt.Sprintf("Avis %02d", i%30)})
	}
	index := readyIndex(t, source)

	got, err := index.Search(context.Background(), "avis")
	require.NoError(t, err)
	require.Len(t, got, 50)
	assert.Equal(t, "Avis 00", got[0].Name)
	assert.Equal(t, "Avis 00", got[1].Name)
	assert.Less(t, got[0].ID, got[1].ID)
	assert.Equal(t, "Avis 24", got[49].Name)
}

/*
TestSearch_NorwegianLetters folds case of æ, ø and å and tolerates decomposed input.
*/
func TestSearch_NorwegianLetters(t *testing.T) {
	index := newIndex(false)
	ctx := context.Background()
	require.NoError(t, index.AddTitle(ctx, catalogue.Title{ID: "1", Name: "Åndalsnes Avis"}))
	require.NoError(t, index.AddTitle(ctx, catalogue.Title{ID: "2", Name: "Fædrelandsvennen"}))

	for _, query := range []string{"åndal", "ÅNDAL", "åndal", "FÆDRE"} {
		got, err := index.Search(ctx, query)
		require.NoError(t, err)
		assert.Len(t, got, 1, query)
	}
}

/*
TestRebuildAll_Overlapping drops a rebuild requested while one is running.
*/
func TestRebuildAll_Overlapping(t *testing.T) {
	source := newspapers()
	source.entered = make(chan struct{}, 1)
	source.gate = make(chan struct{})
	index := newIndex(true)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- index.RebuildAll(ctx, source) }()

	<-source.entered
	assert.Equal(t, search.StateIndexing, index.State())
	assert.True(t, index.Rebuilding())
	require.NoError(t, index.RebuildAll(ctx, source))

	close(source.gate)
	require.NoError(t, <-done)

	assert.Equal(t, search.StateReady, index.State())
	assert.False(t, index.Rebuilding())
	assert.Equal(t, int32(3), source.calls.Load(), "two full pages and one empty page from a single rebuild")
}

/*
TestRebuildAll_Failure returns a first build to uninitialized and keeps a ready index serving.
*/
func TestRebuildAll_Failure(t *testing.T) {
	ctx := context.Background()
	broken := &titleSource{err: errors.New("collections unreachable")}

	index := newIndex(true)
	require.Error(t, index.RebuildAll(ctx, broken))
	assert.Equal(t, search.StateUninitialized, index.State())

	index = readyIndex(t, newspapers())
	require.Error(t, index.RebuildAll(ctx, broken))
	assert.Equal(t, search.StateReady, index.State())

	got, err := index.Search(ctx, "posten")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

/*
TestRebuildAll_ReplacesContents drops titles that are no longer listed.
*/
func TestRebuildAll_ReplacesContents(t *testing.T) {
	ctx := context.Background()
	index := readyIndex(t, newspapers())

	require.NoError(t, index.RebuildAll(ctx, &titleSource{titles: []catalogue.Title{{ID: "9", Name: "Dagbladet"}}}))

	got, err := index.Search(ctx, "posten")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, index.Len())
}

/*
TestAddTitle_DuringRebuild keeps titles added while a rebuild is collecting.
*/
func TestAddTitle_DuringRebuild(t *testing.T) {
	source := newspapers()
	source.entered = make(chan struct{}, 1)
	source.gate = make(chan struct{})
	index := newIndex(false)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- index.RebuildAll(ctx, source) }()
	<-source.entered

	require.NoError(t, index.AddTitle(ctx, catalogue.Title{ID: "7", Name: "Dagbladet"}))
	close(source.gate)
	require.NoError(t, <-done)

	got, err := index.Search(ctx, "dagblad")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dagbladet"}, names(got))
	assert.Equal(t, 4, index.Len())
}

/*
TestStage_VisibleAfterRefresh keeps staged titles hidden until the next refresh.
*/
func TestStage_VisibleAfterRefresh(t *testing.T) {
	index := readyIndex(t, newspapers())
	ctx := context.Background()

	index.Stage(catalogue.Title{ID: "8", Name: "Nordlys"})
	got, err := index.Search(ctx, "nordlys")
	require.NoError(t, err)
	assert.Empty(t, got)

	index.Refresh()
	got, err = index.Search(ctx, "nordlys")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

/*
TestCreatedTitleIsSearchable finds a title created through the catalogue service at once.
*/
func TestCreatedTitleIsSearchable(t *testing.T) {
	store := collections.NewMemoryStore()
	index := newIndex(true)
	service := catalogue.NewService(store, sequence.NewMemoryAllocator(1), index, metrics.New(nil), discardLogger(), catalogue.Options{})
	ctx := context.Background()

	require.NoError(t, index.RebuildAll(ctx, service))

	created, err := service.CreateTitle(ctx, catalogue.CreateTitleInput{Name: "Bergens Tidende"})
	require.NoError(t, err)

	got, err := index.Search(ctx, "tidende berg")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, created.ID, got[0].ID)
}
