// Package meta stores the metadata accumulated per (entity, member) pair
// while controllers are registered.
//
// Writes deep-merge into the stored record: values set on the patch win,
// values the patch leaves unset are kept. Nothing is ever removed.
package meta

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mohae/deepcopy"
)

var (
	// ErrUnknownEntity is returned when no record was ever written for an entity.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrUnknownMember is returned when no record was ever written for a member.
	ErrUnknownMember = errors.New("unknown member")
)

// Store is the metadata store. It is written during the single-threaded
// registration phase and is not safe for concurrent writes.
type Store struct {
	entities map[string]map[string]*Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entities: make(map[string]map[string]*Record)}
}

// Set deep-merges patch into the record stored for (entity, member),
// creating it when absent. The patch is copied; later changes to it do not
// affect the store.
func (s *Store) Set(entity, member string, patch Record) {
	members, ok := s.entities[entity]
	if !ok {
		members = make(map[string]*Record)
		s.entities[entity] = members
	}

	rec, ok := members[member]
	if !ok {
		rec = &Record{}
		members[member] = rec
	}

	mergeRecord(rec, clone(patch))
}

// Get returns a copy of the record stored for (entity, member).
func (s *Store) Get(entity, member string) (Record, error) {
	members, ok := s.entities[entity]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	rec, ok := members[member]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s.%s", ErrUnknownMember, entity, member)
	}
	return clone(*rec), nil
}

// Has reports whether a record exists for (entity, member).
func (s *Store) Has(entity, member string) bool {
	_, ok := s.entities[entity][member]
	return ok
}

// Entity returns copies of every member record of entity.
func (s *Store) Entity(entity string) (map[string]Record, error) {
	members, ok := s.entities[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}

	out := make(map[string]Record, len(members))
	for name, rec := range members {
		out[name] = clone(*rec)
	}
	return out, nil
}

// Entities returns the sorted names of every entity with at least one record.
func (s *Store) Entities() []string {
	names := make([]string, 0, len(s.entities))
	for name := range s.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Members returns the sorted member names recorded for entity.
func (s *Store) Members(entity string) []string {
	members := s.entities[entity]
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clone(rec Record) Record {
	return deepcopy.Copy(rec).(Record)
}
