// Package elements holds the beans returned to callers: a header describing the stored
// instance plus the typed properties of the element.
package elements

import (
	"time"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
)

// ElementOriginCategory says where the element is mastered.
type ElementOriginCategory string

const (
	OriginLocalCohort    ElementOriginCategory = "LOCAL_COHORT"
	OriginExternalSource ElementOriginCategory = "EXTERNAL_SOURCE"
)

// ElementType names the type of an element and its super types.
type ElementType struct {
	TypeName       string   `json:"typeName"`
	SuperTypeNames []string `json:"superTypeNames,omitempty"`
}

// ElementOrigin identifies the home metadata collection of the element.
type ElementOrigin struct {
	OriginCategory             ElementOriginCategory `json:"originCategory"`
	HomeMetadataCollectionID   string                `json:"homeMetadataCollectionId,omitempty"`
	HomeMetadataCollectionName string                `json:"homeMetadataCollectionName,omitempty"`
}

// ElementVersions carries the audit stamps of the element.
type ElementVersions struct {
	CreatedBy  string     `json:"createdBy,omitempty"`
	UpdatedBy  string     `json:"updatedBy,omitempty"`
	CreateTime time.Time  `json:"createTime"`
	UpdateTime *time.Time `json:"updateTime,omitempty"`
	Version    int64      `json:"version"`
}

// ElementClassification is a classification attached to the element.
type ElementClassification struct {
	Name       string         `json:"classificationName"`
	Properties map[string]any `json:"classificationProperties,omitempty"`
}

// ElementHeader is the common header of every returned element.
type ElementHeader struct {
	GUID            string                  `json:"guid"`
	Type            ElementType             `json:"type"`
	Origin          ElementOrigin           `json:"origin"`
	Versions        ElementVersions         `json:"versions"`
	Status          string                  `json:"status,omitempty"`
	Classifications []ElementClassification `json:"classifications,omitempty"`
}

// MetadataCorrelationHeader describes how the caller's asset manager identifies an element.
type MetadataCorrelationHeader struct {
	properties.MetadataCorrelationProperties
	LastSynchronized *time.Time `json:"lastSynchronized,omitempty"`
}

// ElementStub identifies the element at the end of a relationship.
type ElementStub struct {
	ElementHeader
	UniqueName string `json:"uniqueName,omitempty"`
}

// ProcessElement is a process with its correlation headers.
type ProcessElement struct {
	ElementHeader      ElementHeader                 `json:"elementHeader"`
	CorrelationHeaders []MetadataCorrelationHeader   `json:"correlationHeaders,omitempty"`
	ProcessProperties  *properties.ProcessProperties `json:"processProperties,omitempty"`
	// RelatedBy is set when the process was found by following a relationship.
	RelatedBy *RelatedBy `json:"relatedBy,omitempty"`
}

// PortElement is a port with its correlation headers.
type PortElement struct {
	ElementHeader      ElementHeader               `json:"elementHeader"`
	CorrelationHeaders []MetadataCorrelationHeader `json:"correlationHeaders,omitempty"`
	PortProperties     *properties.PortProperties  `json:"portProperties,omitempty"`
}

// RelatedBy names the relationship that led to an element.
type RelatedBy struct {
	RelationshipHeader     ElementHeader  `json:"relationshipHeader"`
	RelationshipProperties map[string]any `json:"relationshipProperties,omitempty"`
}

// DataFlowElement is a DataFlow relationship.
type DataFlowElement struct {
	DataFlowHeader     ElementHeader                  `json:"dataFlowHeader"`
	DataFlowProperties *properties.DataFlowProperties `json:"dataFlowProperties,omitempty"`
	DataSupplier       ElementStub                    `json:"dataSupplier"`
	DataConsumer       ElementStub                    `json:"dataConsumer"`
}

// ControlFlowElement is a ControlFlow relationship.
type ControlFlowElement struct {
	ControlFlowHeader     ElementHeader                     `json:"controlFlowHeader"`
	ControlFlowProperties *properties.ControlFlowProperties `json:"controlFlowProperties,omitempty"`
	CurrentStep           ElementStub                       `json:"currentStep"`
	NextStep              ElementStub                       `json:"nextStep"`
}

// ProcessCallElement is a ProcessCall relationship.
type ProcessCallElement struct {
	ProcessCallHeader     ElementHeader                     `json:"processCallHeader"`
	ProcessCallProperties *properties.ProcessCallProperties `json:"processCallProperties,omitempty"`
	Caller                ElementStub                       `json:"caller"`
	Called                ElementStub                       `json:"called"`
}

// LineageMappingElement is a LineageMapping relationship.
type LineageMappingElement struct {
	LineageMappingHeader ElementHeader `json:"lineageMappingHeader"`
	SourceElement        ElementStub   `json:"sourceElement"`
	TargetElement        ElementStub   `json:"targetElement"`
}

// ValidValueElement is a valid value definition.
type ValidValueElement struct {
	ElementHeader        ElementHeader                    `json:"elementHeader"`
	ValidValueProperties *properties.ValidValueProperties `json:"validValueProperties,omitempty"`
}

// ValidValueAssignmentDefinitionElement is a valid value definition reached through a
// ValidValuesAssignment relationship.
type ValidValueAssignmentDefinitionElement struct {
	ValidValueElement *ValidValueElement `json:"validValueElement,omitempty"`
	StrictRequirement bool               `json:"strictRequirement"`
}
