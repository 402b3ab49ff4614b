// Package repository holds the generic entity and relationship model that the access
// services convert to and from their typed beans, together with the stores that keep it.
package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// InstanceStatus is the lifecycle status of an entity or relationship.
type InstanceStatus int

const (
	StatusUnknown InstanceStatus = iota
	StatusDraft
	StatusProposed
	StatusApproved
	StatusActive
	StatusDisabled
	StatusDeprecated
	StatusOther
	StatusDeleted
)

var statusNames = []string{"UNKNOWN", "DRAFT", "PROPOSED", "APPROVED", "ACTIVE", "DISABLED", "DEPRECATED", "OTHER", "DELETED"}

func (s InstanceStatus) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return statusNames[0]
	}
	return statusNames[s]
}

// ParseInstanceStatus maps a status name onto its value; unknown names give StatusUnknown.
func ParseInstanceStatus(name string) InstanceStatus {
	for i, n := range statusNames {
		if strings.EqualFold(n, name) {
			return InstanceStatus(i)
		}
	}
	return StatusUnknown
}

func (s InstanceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InstanceStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		var n int
		if nErr := json.Unmarshal(data, &n); nErr != nil {
			return fmt.Errorf("instance status: %w", err)
		}
		*s = InstanceStatus(n)
		return nil
	}
	*s = ParseInstanceStatus(name)
	return nil
}

// InstanceType names the type of an instance and the types it inherits from.
type InstanceType struct {
	TypeName       string   `json:"typeDefName"`
	SuperTypeNames []string `json:"typeDefSuperTypes,omitempty"`
}

// InstanceHeader is common to entities and relationships.
type InstanceHeader struct {
	GUID                   string         `json:"guid"`
	Type                   InstanceType   `json:"type"`
	MetadataCollectionID   string         `json:"metadataCollectionId,omitempty"`
	MetadataCollectionName string         `json:"metadataCollectionName,omitempty"`
	Status                 InstanceStatus `json:"status"`
	CreatedBy              string         `json:"createdBy,omitempty"`
	UpdatedBy              string         `json:"updatedBy,omitempty"`
	CreateTime             time.Time      `json:"createTime"`
	UpdateTime             *time.Time     `json:"updateTime,omitempty"`
	Version                int64          `json:"version"`
}

// Classification is a named set of properties attached to an entity.
type Classification struct {
	Name       string             `json:"name"`
	Properties InstanceProperties `json:"properties,omitempty"`
	CreatedBy  string             `json:"createdBy,omitempty"`
	UpdatedBy  string             `json:"updatedBy,omitempty"`
	CreateTime time.Time          `json:"createTime"`
	UpdateTime *time.Time         `json:"updateTime,omitempty"`
	Version    int64              `json:"version"`
}

// EntityDetail is a stored entity with its properties and classifications.
type EntityDetail struct {
	InstanceHeader
	Properties      InstanceProperties `json:"properties,omitempty"`
	Classifications []Classification   `json:"classifications,omitempty"`
}

// Classification returns the named classification or nil.
func (e *EntityDetail) Classification(name string) *Classification {
	if e == nil {
		return nil
	}
	for i := range e.Classifications {
		if e.Classifications[i].Name == name {
			return &e.Classifications[i]
		}
	}
	return nil
}

// Clone returns a deep copy.
func (e *EntityDetail) Clone() *EntityDetail {
	if e == nil {
		return nil
	}
	c := *e
	c.InstanceHeader = e.InstanceHeader.clone()
	c.Properties = e.Properties.Clone()
	if e.Classifications != nil {
		c.Classifications = make([]Classification, len(e.Classifications))
		for i, cl := range e.Classifications {
			cl.Properties = cl.Properties.Clone()
			cl.UpdateTime = cloneTime(cl.UpdateTime)
			c.Classifications[i] = cl
		}
	}
	return &c
}

// EntityProxy identifies the entity at one end of a relationship.
type EntityProxy struct {
	GUID     string `json:"guid"`
	TypeName string `json:"typeName"`
}

// Relationship links two entities.
type Relationship struct {
	InstanceHeader
	Properties InstanceProperties `json:"properties,omitempty"`
	End1       EntityProxy        `json:"entityOneProxy"`
	End2       EntityProxy        `json:"entityTwoProxy"`
}

// Clone returns a deep copy.
func (r *Relationship) Clone() *Relationship {
	if r == nil {
		return nil
	}
	c := *r
	c.InstanceHeader = r.InstanceHeader.clone()
	c.Properties = r.Properties.Clone()
	return &c
}

// OtherEnd returns the proxy at the opposite end from guid.
func (r *Relationship) OtherEnd(guid string) EntityProxy {
	if r.End1.GUID == guid {
		return r.End2
	}
	return r.End1
}

func (h InstanceHeader) clone() InstanceHeader {
	c := h
	if h.Type.SuperTypeNames != nil {
		c.Type.SuperTypeNames = append([]string(nil), h.Type.SuperTypeNames...)
	}
	c.UpdateTime = cloneTime(h.UpdateTime)
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
