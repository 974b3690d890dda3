// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalogue_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/avisbase/internal/catalogue"
	"github.com/taibuivan/avisbase/internal/collections"
	"github.com/taibuivan/avisbase/internal/platform/metrics"
	"github.com/taibuivan/avisbase/internal/sequence"
)

const (
	testURN       = "URN:NBN:no-nb_digavis_aftenposten_null_null_19050607_1_1_1"
	testContainer = "HYLLE-0042"
	testDate      = "1905-06-07"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(store collections.Store, indexer catalogue.TitleIndexer) *catalogue.Service {
	return catalogue.NewService(store, sequence.NewMemoryAllocator(1000), indexer, metrics.New(nil), discardLogger(), catalogue.Options{})
}

// newTestService returns a service over an empty in-memory store.
func newTestService(t *testing.T) (*catalogue.Service, *collections.MemoryStore) {
	t.Helper()
	store := collections.NewMemoryStore()
	return newService(store, nil), store
}

// createTestTitle creates "Aftenposten" and returns it.
func createTestTitle(t *testing.T, service *catalogue.Service) *catalogue.Title {
	t.Helper()
	title, err := service.CreateTitle(context.Background(), catalogue.CreateTitleInput{Name: "Aftenposten"})
	require.NoError(t, err)
	return title
}

func digitalInput(titleID string) catalogue.CreateItemInput {
	return catalogue.CreateItemInput{TitleID: titleID, Date: testDate, Format: catalogue.FormatDigital, URN: testURN}
}

func physicalInput(titleID string) catalogue.CreateItemInput {
	return catalogue.CreateItemInput{TitleID: titleID, Date: testDate, Format: catalogue.FormatPhysical, ContainerID: testContainer}
}

// itemsOf lists the items currently attached to a manifestation.
func itemsOf(t *testing.T, store collections.Store, manifestationID string) []collections.Record {
	t.Helper()
	list, err := store.GetWithChildren(context.Background(), manifestationID)
	require.NoError(t, err)
	record, ok := list.First()
	require.True(t, ok, "manifestation %s is gone", manifestationID)
	return collections.ChildrenOfType(record, collections.RecordTypeItem)
}

func exists(t *testing.T, store collections.Store, id string) bool {
	t.Helper()
	list, err := store.Get(context.Background(), collections.DatabaseObjects, id)
	require.NoError(t, err)
	return list.Len() > 0
}

// seedIssue stores Title 100 with issue 300 and the given items under it.
func seedIssue(store *collections.MemoryStore, items ...collections.Record) {
	store.Seed(collections.DatabaseObjects,
		collections.Record{ID: "100", RecordType: collections.RecordTypeWork, WorkType: collections.WorkTypeSerial, Titles: []string{"Aftenposten"}},
		collections.Record{
			ID: "300", RecordType: collections.RecordTypeManifestation, DateStart: testDate, PartOf: collections.Ref("100"),
			Notes:              []string{"Morning edition"},
			AlternativeNumbers: []collections.AlternativeNumber{{Type: collections.AltNumberIssue, Value: "12"}, {Type: collections.AltNumberEdition, Value: "2"}},
		},
	)
	for _, item := range items {
		item.RecordType = collections.RecordTypeItem
		item.PartOf = collections.Ref("300")
		store.Seed(collections.DatabaseObjects, item)
	}
}

// # Scripted Stores

// emptyWriteStore acknowledges writes without returning the written object.
type emptyWriteStore struct {
	*collections.MemoryStore
}

func (emptyWriteStore) Create(context.Context, collections.Database, collections.Record) (*collections.RecordList, error) {
	return &collections.RecordList{}, nil
}

func (emptyWriteStore) Update(context.Context, collections.Database, collections.Record) (*collections.RecordList, error) {
	return &collections.RecordList{}, nil
}

// duplicateStore answers every single-record read with two copies of the record.
type duplicateStore struct {
	*collections.MemoryStore
}

func (store duplicateStore) Get(ctx context.Context, database collections.Database, id string) (*collections.RecordList, error) {
	list, err := store.MemoryStore.Get(ctx, database, id)
	if err != nil || list.Len() == 0 {
		return list, err
	}
	list.Records = append(list.Records, list.Records[0])
	return list, nil
}
