package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common property names.
const (
	QualifiedNameProperty        = "qualifiedName"
	NameProperty                 = "name"
	DisplayNameProperty          = "displayName"
	DescriptionProperty          = "description"
	AdditionalPropertiesProperty = "additionalProperties"
	ZoneMembershipProperty       = "zoneMembership"
)

// MetadataCollection identifies the home of an instance.
type MetadataCollection struct {
	ID   string `json:"metadataCollectionId"`
	Name string `json:"metadataCollectionName"`
}

// WrongTypeError reports an instance that exists but is not of the expected type.
type WrongTypeError struct {
	GUID     string
	Actual   string
	Expected string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("instance %s is of type %s rather than %s", e.GUID, e.Actual, e.Expected)
}

// Handler maintains instance headers (GUIDs, versions, audit stamps, home collection) on top
// of a Store and offers the entity and relationship operations the access services share.
type Handler struct {
	store Store
	local MetadataCollection
	now   func() time.Time
}

// NewHandler creates a handler whose new instances belong to the local collection unless a
// different home is given.
func NewHandler(store Store, local MetadataCollection) *Handler {
	return &Handler{store: store, local: local, now: func() time.Time { return time.Now().UTC() }}
}

// Store returns the underlying store.
func (h *Handler) Store() Store { return h.store }

// LocalCollection returns the collection of this server.
func (h *Handler) LocalCollection() MetadataCollection { return h.local }

func (h *Handler) header(userID, typeName string, home *MetadataCollection) InstanceHeader {
	collection := h.local
	if home != nil && home.ID != "" {
		collection = *home
	}
	return InstanceHeader{
		GUID:                   uuid.NewString(),
		Type:                   NewInstanceType(typeName),
		MetadataCollectionID:   collection.ID,
		MetadataCollectionName: collection.Name,
		Status:                 StatusActive,
		CreatedBy:              userID,
		CreateTime:             h.now(),
		Version:                1,
	}
}

func (h *Handler) touch(header *InstanceHeader, userID string) {
	t := h.now()
	header.UpdatedBy = userID
	header.UpdateTime = &t
	header.Version++
}

// CreateEntity stores a new entity. A zero status means active.
func (h *Handler) CreateEntity(ctx context.Context, userID, typeName string, props InstanceProperties,
	classifications []Classification, status InstanceStatus, home *MetadataCollection) (*EntityDetail, error) {
	e := &EntityDetail{InstanceHeader: h.header(userID, typeName, home), Properties: props.Clone()}
	if e.Properties == nil {
		e.Properties = InstanceProperties{}
	}
	if status != StatusUnknown {
		e.Status = status
	}
	for _, c := range classifications {
		c.CreatedBy = userID
		c.CreateTime = e.CreateTime
		c.Version = 1
		e.Classifications = append(e.Classifications, c)
	}
	if err := h.store.CreateEntity(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// GetEntity retrieves an entity checking it is of typeName (or a sub type). An empty
// typeName accepts any type.
func (h *Handler) GetEntity(ctx context.Context, guid, typeName string) (*EntityDetail, error) {
	e, err := h.store.GetEntity(ctx, guid)
	if err != nil {
		return nil, err
	}
	if typeName != "" && !IsTypeOf(e.Type.TypeName, typeName) {
		return nil, &WrongTypeError{GUID: guid, Actual: e.Type.TypeName, Expected: typeName}
	}
	return e, nil
}

// UpdateEntity stamps and stores a modified entity.
func (h *Handler) UpdateEntity(ctx context.Context, userID string, e *EntityDetail) error {
	h.touch(&e.InstanceHeader, userID)
	return h.store.UpdateEntity(ctx, e)
}

// UpdateEntityProperties merges props into the entity or replaces its properties.
func (h *Handler) UpdateEntityProperties(ctx context.Context, userID, guid, typeName string,
	props InstanceProperties, merge bool) (*EntityDetail, error) {
	e, err := h.GetEntity(ctx, guid, typeName)
	if err != nil {
		return nil, err
	}
	if merge {
		if e.Properties == nil {
			e.Properties = InstanceProperties{}
		}
		e.Properties.Merge(props)
	} else {
		e.Properties = props.Clone()
		if e.Properties == nil {
			e.Properties = InstanceProperties{}
		}
	}
	if err := h.UpdateEntity(ctx, userID, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEntityStatus changes the status of an entity.
func (h *Handler) UpdateEntityStatus(ctx context.Context, userID, guid, typeName string, status InstanceStatus) (*EntityDetail, error) {
	e, err := h.GetEntity(ctx, guid, typeName)
	if err != nil {
		return nil, err
	}
	e.Status = status
	if err := h.UpdateEntity(ctx, userID, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ClassifyEntity adds the classification or replaces the properties of an existing one.
func (h *Handler) ClassifyEntity(ctx context.Context, userID, guid, typeName, name string, props InstanceProperties) (*EntityDetail, error) {
	e, err := h.GetEntity(ctx, guid, typeName)
	if err != nil {
		return nil, err
	}
	if c := e.Classification(name); c != nil {
		c.Properties = props.Clone()
		t := h.now()
		c.UpdatedBy = userID
		c.UpdateTime = &t
		c.Version++
	} else {
		e.Classifications = append(e.Classifications, Classification{
			Name:       name,
			Properties: props.Clone(),
			CreatedBy:  userID,
			CreateTime: h.now(),
			Version:    1,
		})
	}
	if err := h.UpdateEntity(ctx, userID, e); err != nil {
		return nil, err
	}
	return e, nil
}

// DeclassifyEntity removes the classification. Removing an absent classification is not an error.
func (h *Handler) DeclassifyEntity(ctx context.Context, userID, guid, typeName, name string) (*EntityDetail, error) {
	e, err := h.GetEntity(ctx, guid, typeName)
	if err != nil {
		return nil, err
	}
	kept := e.Classifications[:0]
	removed := false
	for _, c := range e.Classifications {
		if c.Name == name {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		return e, nil
	}
	e.Classifications = kept
	if err := h.UpdateEntity(ctx, userID, e); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteEntity removes an entity and every relationship attached to it. The removed
// relationships are returned so callers can report them.
func (h *Handler) DeleteEntity(ctx context.Context, guid, typeName string) (*EntityDetail, []*Relationship, error) {
	e, err := h.GetEntity(ctx, guid, typeName)
	if err != nil {
		return nil, nil, err
	}
	rels, err := h.store.GetRelationships(ctx, RelationshipQuery{EntityGUID: guid})
	if err != nil {
		return nil, nil, err
	}
	for _, r := range rels {
		if err := h.store.DeleteRelationship(ctx, r.GUID); err != nil && !errors.Is(err, ErrNotFound) {
			return nil, nil, err
		}
	}
	if err := h.store.DeleteEntity(ctx, guid); err != nil {
		return nil, nil, err
	}
	return e, rels, nil
}

// FindEntities returns entities of typeName accepted by match.
func (h *Handler) FindEntities(ctx context.Context, typeName string, match func(*EntityDetail) bool) ([]*EntityDetail, error) {
	return h.store.FindEntities(ctx, EntityQuery{TypeName: typeName, Match: match})
}

// FindEntitiesByName returns entities whose value for any of the given properties equals name.
func (h *Handler) FindEntitiesByName(ctx context.Context, typeName, name string, propertyNames ...string) ([]*EntityDetail, error) {
	if len(propertyNames) == 0 {
		propertyNames = []string{QualifiedNameProperty}
	}
	return h.FindEntities(ctx, typeName, func(e *EntityDetail) bool {
		for _, p := range propertyNames {
			if e.Properties.GetString(p) == name {
				return true
			}
		}
		return false
	})
}

// CreateRelationship links two existing entities.
func (h *Handler) CreateRelationship(ctx context.Context, userID, typeName, end1GUID, end2GUID string,
	props InstanceProperties, home *MetadataCollection) (*Relationship, error) {
	end1, err := h.store.GetEntity(ctx, end1GUID)
	if err != nil {
		return nil, err
	}
	end2, err := h.store.GetEntity(ctx, end2GUID)
	if err != nil {
		return nil, err
	}
	r := &Relationship{
		InstanceHeader: h.header(userID, typeName, home),
		Properties:     props.Clone(),
		End1:           EntityProxy{GUID: end1.GUID, TypeName: end1.Type.TypeName},
		End2:           EntityProxy{GUID: end2.GUID, TypeName: end2.Type.TypeName},
	}
	if err := h.store.CreateRelationship(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// GetRelationship retrieves a relationship, checking its type when typeName is set.
func (h *Handler) GetRelationship(ctx context.Context, guid, typeName string) (*Relationship, error) {
	r, err := h.store.GetRelationship(ctx, guid)
	if err != nil {
		return nil, err
	}
	if typeName != "" && r.Type.TypeName != typeName {
		return nil, &WrongTypeError{GUID: guid, Actual: r.Type.TypeName, Expected: typeName}
	}
	return r, nil
}

// UpdateRelationshipProperties merges or replaces the properties of a relationship.
func (h *Handler) UpdateRelationshipProperties(ctx context.Context, userID, guid, typeName string,
	props InstanceProperties, merge bool) (*Relationship, error) {
	r, err := h.GetRelationship(ctx, guid, typeName)
	if err != nil {
		return nil, err
	}
	if merge && r.Properties != nil {
		r.Properties.Merge(props)
	} else {
		r.Properties = props.Clone()
	}
	h.touch(&r.InstanceHeader, userID)
	if err := h.store.UpdateRelationship(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteRelationship removes a relationship and returns it.
func (h *Handler) DeleteRelationship(ctx context.Context, guid, typeName string) (*Relationship, error) {
	r, err := h.GetRelationship(ctx, guid, typeName)
	if err != nil {
		return nil, err
	}
	if err := h.store.DeleteRelationship(ctx, guid); err != nil {
		return nil, err
	}
	return r, nil
}

// GetRelationships lists relationships of typeName where entityGUID is at the given end.
func (h *Handler) GetRelationships(ctx context.Context, entityGUID, typeName string, end End) ([]*Relationship, error) {
	return h.store.GetRelationships(ctx, RelationshipQuery{EntityGUID: entityGUID, TypeName: typeName, End: end})
}

// GetRelationshipsBetween lists relationships of typeName from end1GUID to end2GUID.
func (h *Handler) GetRelationshipsBetween(ctx context.Context, typeName, end1GUID, end2GUID string) ([]*Relationship, error) {
	rels, err := h.GetRelationships(ctx, end1GUID, typeName, EndOne)
	if err != nil {
		return nil, err
	}
	out := rels[:0]
	for _, r := range rels {
		if r.End2.GUID == end2GUID {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetRelatedEntities returns the entities at the other end of the relationships of typeName
// where entityGUID sits at the given end, paired with those relationships.
func (h *Handler) GetRelatedEntities(ctx context.Context, entityGUID, typeName string, end End) ([]*EntityDetail, []*Relationship, error) {
	rels, err := h.GetRelationships(ctx, entityGUID, typeName, end)
	if err != nil {
		return nil, nil, err
	}
	entities := make([]*EntityDetail, 0, len(rels))
	kept := make([]*Relationship, 0, len(rels))
	for _, r := range rels {
		other, err := h.store.GetEntity(ctx, r.OtherEnd(entityGUID).GUID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		entities = append(entities, other)
		kept = append(kept, r)
	}
	return entities, kept, nil
}

// Page returns the slice of items starting at startFrom holding at most pageSize items.
// A pageSize of zero returns everything from startFrom.
func Page[T any](items []T, startFrom, pageSize int) []T {
	if startFrom >= len(items) || startFrom < 0 {
		return nil
	}
	items = items[startFrom:]
	if pageSize > 0 && pageSize < len(items) {
		items = items[:pageSize]
	}
	return items
}
