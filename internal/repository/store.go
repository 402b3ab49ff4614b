package repository

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned for an unknown entity or relationship GUID.
	ErrNotFound = errors.New("instance not found")
	// ErrDuplicateGUID is returned when an instance is created with a GUID already in use.
	ErrDuplicateGUID = errors.New("instance guid already in use")
)

// End selects which end of a relationship an entity must be at.
type End int

const (
	AnyEnd End = iota
	EndOne
	EndTwo
)

// EntityQuery filters entities. An empty TypeName matches every type; otherwise the type
// and its sub types match. Match, when set, is applied after the type filter.
type EntityQuery struct {
	TypeName string
	Match    func(*EntityDetail) bool
}

func (q EntityQuery) matches(e *EntityDetail) bool {
	if q.TypeName != "" && !IsTypeOf(e.Type.TypeName, q.TypeName) {
		return false
	}
	return q.Match == nil || q.Match(e)
}

// RelationshipQuery filters relationships attached to an entity.
type RelationshipQuery struct {
	EntityGUID string
	TypeName   string
	End        End
}

func (q RelationshipQuery) matches(r *Relationship) bool {
	if q.TypeName != "" && r.Type.TypeName != q.TypeName {
		return false
	}
	if q.EntityGUID == "" {
		return true
	}
	switch q.End {
	case EndOne:
		return r.End1.GUID == q.EntityGUID
	case EndTwo:
		return r.End2.GUID == q.EntityGUID
	default:
		return r.End1.GUID == q.EntityGUID || r.End2.GUID == q.EntityGUID
	}
}

// Store keeps entities and relationships. Results are returned in creation order and are
// copies that the caller may modify.
type Store interface {
	CreateEntity(ctx context.Context, entity *EntityDetail) error
	GetEntity(ctx context.Context, guid string) (*EntityDetail, error)
	UpdateEntity(ctx context.Context, entity *EntityDetail) error
	DeleteEntity(ctx context.Context, guid string) error
	FindEntities(ctx context.Context, query EntityQuery) ([]*EntityDetail, error)

	CreateRelationship(ctx context.Context, relationship *Relationship) error
	GetRelationship(ctx context.Context, guid string) (*Relationship, error)
	UpdateRelationship(ctx context.Context, relationship *Relationship) error
	DeleteRelationship(ctx context.Context, guid string) error
	GetRelationships(ctx context.Context, query RelationshipQuery) ([]*Relationship, error)
}
