// Package rest holds the request and response bodies of the asset manager REST API.
package rest

import "github.com/MihaiIliescu/egeria/internal/assetmanager/properties"

// AssetManagerIdentifiersRequestBody identifies the calling asset manager.
type AssetManagerIdentifiersRequestBody struct {
	AssetManagerGUID string `json:"assetManagerGUID,omitempty"`
	AssetManagerName string `json:"assetManagerName,omitempty"`
}

// ProcessRequestBody carries the properties of a new or updated process.
type ProcessRequestBody struct {
	MetadataCorrelationProperties *properties.MetadataCorrelationProperties `json:"metadataCorrelationProperties,omitempty"`
	ElementProperties             *properties.ProcessProperties             `json:"elementProperties,omitempty"`
	ProcessStatus                 properties.ProcessStatus                  `json:"processStatus,omitempty" validate:"omitempty,oneof=UNKNOWN DRAFT PROPOSED APPROVED ACTIVE DISABLED DEPRECATED OTHER"`
}

// TemplateRequestBody carries the values that override a template.
type TemplateRequestBody struct {
	MetadataCorrelationProperties *properties.MetadataCorrelationProperties `json:"metadataCorrelationProperties,omitempty"`
	ElementProperties             *properties.TemplateProperties            `json:"elementProperties,omitempty"`
}

// ProcessStatusRequestBody carries a new process status.
type ProcessStatusRequestBody struct {
	AssetManagerIdentifiersRequestBody
	ProcessStatus properties.ProcessStatus `json:"processStatus,omitempty" validate:"omitempty,oneof=UNKNOWN DRAFT PROPOSED APPROVED ACTIVE DISABLED DEPRECATED OTHER"`
}

// ProcessContainmentTypeRequestBody carries the containment type of a process hierarchy link.
type ProcessContainmentTypeRequestBody struct {
	AssetManagerIdentifiersRequestBody
	ProcessContainmentType properties.ProcessContainmentType `json:"processContainmentType,omitempty" validate:"omitempty,oneof=OWNED USED OTHER"`
}

// SearchStringRequestBody carries a regular expression to search for.
type SearchStringRequestBody struct {
	AssetManagerIdentifiersRequestBody
	SearchString              string `json:"searchString,omitempty"`
	SearchStringParameterName string `json:"searchStringParameterName,omitempty"`
}

// NameRequestBody carries a name to match exactly.
type NameRequestBody struct {
	AssetManagerIdentifiersRequestBody
	Name              string `json:"name,omitempty"`
	NameParameterName string `json:"nameParameterName,omitempty"`
}

// PortRequestBody carries the properties of a new or updated port.
type PortRequestBody struct {
	MetadataCorrelationProperties *properties.MetadataCorrelationProperties `json:"metadataCorrelationProperties,omitempty"`
	ElementProperties             *properties.PortProperties                `json:"elementProperties,omitempty"`
}

// DataFlowRequestBody carries the properties of a DataFlow relationship.
type DataFlowRequestBody struct {
	AssetManagerIdentifiersRequestBody
	Properties *properties.DataFlowProperties `json:"properties,omitempty"`
}

// ControlFlowRequestBody carries the properties of a ControlFlow relationship.
type ControlFlowRequestBody struct {
	AssetManagerIdentifiersRequestBody
	Properties *properties.ControlFlowProperties `json:"properties,omitempty"`
}

// ProcessCallRequestBody carries the properties of a ProcessCall relationship.
type ProcessCallRequestBody struct {
	AssetManagerIdentifiersRequestBody
	Properties *properties.ProcessCallProperties `json:"properties,omitempty"`
}
