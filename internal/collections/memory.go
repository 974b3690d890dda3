// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collections

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// # In-Memory Store

// MemoryStore is a concurrency-safe, in-process [Store].
//
// It mirrors the Collections behaviour the catalogue relies on: parent chains are
// expanded on reads, ancestor queries work across both schema generations, creating
// under a missing parent and deleting a record that still has children are reported
// as diagnostics.
type MemoryStore struct {
	mu        sync.RWMutex
	databases map[Database]map[string]Record
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{databases: make(map[Database]map[string]Record)}
}

// Seed writes records as-is, bypassing the checks [MemoryStore.Create] applies.
// It is used for development fixtures and for reproducing legacy or broken hierarchies.
func (store *MemoryStore) Seed(database Database, records ...Record) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, record := range records {
		store.table(database)[record.ID] = flatten(record)
	}
}

// Get implements [Store].
func (store *MemoryStore) Get(_ context.Context, database Database, id string) (*RecordList, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	record, ok := store.databases[database][id]
	if !ok {
		return &RecordList{}, nil
	}
	return &RecordList{Records: []Record{store.expand(database, record)}}, nil
}

// GetWithChildren implements [Store].
func (store *MemoryStore) GetWithChildren(_ context.Context, id string) (*RecordList, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	record, ok := store.databases[DatabaseObjects][id]
	if !ok {
		return &RecordList{}, nil
	}

	expanded := store.expand(DatabaseObjects, record)
	for _, child := range store.childrenOf(id) {
		expanded.Parts = append(expanded.Parts, clone(child))
	}
	return &RecordList{Records: []Record{expanded}}, nil
}

// Query implements [Store].
func (store *MemoryStore) Query(_ context.Context, q Query) (*RecordList, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	database := q.Database
	if database == "" {
		database = DatabaseObjects
	}

	var matches []Record
	for _, record := range store.databases[database] {
		expanded := store.expand(database, record)
		if matchesQuery(&expanded, q) {
			matches = append(matches, expanded)
		}
	}

	sort.Slice(matches, func(i, j int) bool { return lessID(matches[i].ID, matches[j].ID) })

	if q.Offset > 0 {
		if q.Offset >= len(matches) {
			return &RecordList{}, nil
		}
		matches = matches[q.Offset:]
	}
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}

	return &RecordList{Records: matches}, nil
}

// Create implements [Store].
func (store *MemoryStore) Create(_ context.Context, database Database, record Record) (*RecordList, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if record.ID == "" {
		return failed("priref is required", string(database)), nil
	}
	if _, exists := store.table(database)[record.ID]; exists {
		return failed("priref already in use", record.ID), nil
	}
	if parentID, ok := ParentID(&record); ok {
		if _, exists := store.databases[database][parentID]; !exists {
			return failed("part_of refers to an unknown record", parentID), nil
		}
	}

	stored := flatten(record)
	store.table(database)[record.ID] = stored
	return &RecordList{Records: []Record{store.expand(database, stored)}}, nil
}

// Update implements [Store].
func (store *MemoryStore) Update(_ context.Context, database Database, record Record) (*RecordList, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, exists := store.databases[database][record.ID]; !exists {
		return &RecordList{}, nil
	}

	stored := flatten(record)
	store.table(database)[record.ID] = stored
	return &RecordList{Records: []Record{store.expand(database, stored)}}, nil
}

// Delete implements [Store].
func (store *MemoryStore) Delete(_ context.Context, database Database, id string) (*RecordList, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, exists := store.databases[database][id]
	if !exists {
		return &RecordList{}, nil
	}
	if database == DatabaseObjects && len(store.childrenOf(id)) > 0 {
		return failed("record still has parts", id), nil
	}

	expanded := store.expand(database, record)
	delete(store.databases[database], id)
	return &RecordList{Records: []Record{expanded}}, nil
}

// Len returns the number of records in a database.
func (store *MemoryStore) Len(database Database) int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.databases[database])
}

// # Internals

// table returns the map for a database, creating it. Callers hold the write lock.
func (store *MemoryStore) table(database Database) map[string]Record {
	records, ok := store.databases[database]
	if !ok {
		records = make(map[string]Record)
		store.databases[database] = records
	}
	return records
}

// expand returns a deep copy of record with its parent chain resolved.
func (store *MemoryStore) expand(database Database, record Record) Record {
	expanded := clone(record)
	current := &expanded

	for hops := 0; hops <= maxAncestorHops; hops++ {
		parentID, ok := ParentID(current)
		if !ok {
			break
		}
		parent, exists := store.databases[database][parentID]
		if !exists {
			break
		}
		copied := clone(parent)
		current.PartOf = &copied
		current = current.PartOf
	}

	return expanded
}

// childrenOf returns the stored records whose immediate parent is id, ordered by id.
func (store *MemoryStore) childrenOf(id string) []Record {
	var children []Record
	for _, record := range store.databases[DatabaseObjects] {
		if parentID, ok := ParentID(&record); ok && parentID == id {
			children = append(children, record)
		}
	}
	sort.Slice(children, func(i, j int) bool { return lessID(children[i].ID, children[j].ID) })
	return children
}

func matchesQuery(record *Record, q Query) bool {
	if q.RecordType != "" && record.RecordType != q.RecordType {
		return false
	}
	if q.WorkType != "" {
		workType := record.WorkType
		if workType == "" && record.RecordType == RecordTypeWork {
			workType = WorkTypeSerial
		}
		if workType != q.WorkType {
			return false
		}
	}
	if q.TitleID != "" {
		title, ok := TitleAncestor(record)
		if !ok || title.ID != q.TitleID || title.ID == record.ID {
			return false
		}
	}
	if q.Date != "" && record.DateStart != q.Date {
		return false
	}
	if q.Number != nil {
		number, _ := AlternateNumber(record, AltNumberIssue)
		if number != *q.Number {
			return false
		}
	}
	if q.Name != "" {
		name, ok := Name(record)
		if !ok || !strings.EqualFold(name, strings.TrimSpace(q.Name)) {
			return false
		}
	}
	return true
}

// flatten drops expanded references so the stored copy only links by id.
func flatten(record Record) Record {
	stored := clone(record)
	if parentID, ok := ParentID(&stored); ok {
		stored.PartOf = Ref(parentID)
	} else {
		stored.PartOf = nil
	}
	stored.Parts = nil
	return stored
}

// clone deep-copies the slices of a record and drops its expansions.
func clone(record Record) Record {
	copied := record
	copied.Titles = append([]string(nil), record.Titles...)
	copied.Publishers = append([]string(nil), record.Publishers...)
	copied.Places = append([]string(nil), record.Places...)
	copied.Languages = append([]string(nil), record.Languages...)
	copied.Notes = append([]string(nil), record.Notes...)
	copied.Locations = append([]string(nil), record.Locations...)
	copied.AlternativeNumbers = append([]AlternativeNumber(nil), record.AlternativeNumbers...)
	if record.PartOf != nil {
		copied.PartOf = Ref(record.PartOf.ID)
	}
	copied.Parts = nil
	return copied
}

// lessID orders numeric prirefs numerically and falls back to lexical order.
func lessID(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
