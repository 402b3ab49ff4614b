package repository

import (
	"context"
	"sync"

	"github.com/tidwall/btree"
)

// MemoryStore is an in-process Store. Instances are ordered by a creation sequence held in
// btrees; a GUID index gives direct lookups.
type MemoryStore struct {
	mu            sync.RWMutex
	seq           uint64
	entities      *btree.Map[uint64, *EntityDetail]
	relationships *btree.Map[uint64, *Relationship]
	entityIndex   map[string]uint64
	relIndex      map[string]uint64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities:      btree.NewMap[uint64, *EntityDetail](64),
		relationships: btree.NewMap[uint64, *Relationship](64),
		entityIndex:   make(map[string]uint64),
		relIndex:      make(map[string]uint64),
	}
}

func (s *MemoryStore) CreateEntity(_ context.Context, entity *EntityDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entityIndex[entity.GUID]; ok {
		return ErrDuplicateGUID
	}
	s.seq++
	s.entityIndex[entity.GUID] = s.seq
	s.entities.Set(s.seq, entity.Clone())
	return nil
}

func (s *MemoryStore) GetEntity(_ context.Context, guid string) (*EntityDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.entityIndex[guid]
	if !ok {
		return nil, ErrNotFound
	}
	e, _ := s.entities.Get(key)
	return e.Clone(), nil
}

func (s *MemoryStore) UpdateEntity(_ context.Context, entity *EntityDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.entityIndex[entity.GUID]
	if !ok {
		return ErrNotFound
	}
	s.entities.Set(key, entity.Clone())
	return nil
}

func (s *MemoryStore) DeleteEntity(_ context.Context, guid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.entityIndex[guid]
	if !ok {
		return ErrNotFound
	}
	delete(s.entityIndex, guid)
	s.entities.Delete(key)
	return nil
}

func (s *MemoryStore) FindEntities(ctx context.Context, query EntityQuery) ([]*EntityDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*EntityDetail
	s.entities.Scan(func(_ uint64, e *EntityDetail) bool {
		if query.matches(e) {
			out = append(out, e.Clone())
		}
		return ctx.Err() == nil
	})
	return out, ctx.Err()
}

func (s *MemoryStore) CreateRelationship(_ context.Context, relationship *Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.relIndex[relationship.GUID]; ok {
		return ErrDuplicateGUID
	}
	s.seq++
	s.relIndex[relationship.GUID] = s.seq
	s.relationships.Set(s.seq, relationship.Clone())
	return nil
}

func (s *MemoryStore) GetRelationship(_ context.Context, guid string) (*Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.relIndex[guid]
	if !ok {
		return nil, ErrNotFound
	}
	r, _ := s.relationships.Get(key)
	return r.Clone(), nil
}

func (s *MemoryStore) UpdateRelationship(_ context.Context, relationship *Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.relIndex[relationship.GUID]
	if !ok {
		return ErrNotFound
	}
	s.relationships.Set(key, relationship.Clone())
	return nil
}

func (s *MemoryStore) DeleteRelationship(_ context.Context, guid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.relIndex[guid]
	if !ok {
		return ErrNotFound
	}
	delete(s.relIndex, guid)
	s.relationships.Delete(key)
	return nil
}

func (s *MemoryStore) GetRelationships(ctx context.Context, query RelationshipQuery) ([]*Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Relationship
	s.relationships.Scan(func(_ uint64, r *Relationship) bool {
		if query.matches(r) {
			out = append(out, r.Clone())
		}
		return ctx.Err() == nil
	})
	return out, ctx.Err()
}
