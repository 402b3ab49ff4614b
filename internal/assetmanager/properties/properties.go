package properties

import "maps"

// MetadataCorrelationProperties identify the caller's asset manager and the identifier the
// asset manager uses for an element.
type MetadataCorrelationProperties struct {
	AssetManagerGUID           string                   `json:"assetManagerGUID,omitempty"`
	AssetManagerName           string                   `json:"assetManagerName,omitempty"`
	ExternalIdentifier         string                   `json:"externalIdentifier,omitempty"`
	ExternalIdentifierName     string                   `json:"externalIdentifierName,omitempty"`
	ExternalIdentifierUsage    string                   `json:"externalIdentifierUsage,omitempty"`
	ExternalIdentifierSource   string                   `json:"externalIdentifierSource,omitempty"`
	KeyPattern                 KeyPattern               `json:"keyPattern,omitempty" validate:"omitempty,oneof=LOCAL_KEY RECYCLED_KEY NATURAL_KEY MIRROR_KEY AGGREGATE_KEY CALLERS_KEY STABLE_KEY OTHER"`
	MappingProperties          map[string]string        `json:"mappingProperties,omitempty"`
	SynchronizationDirection   SynchronizationDirection `json:"synchronizationDirection,omitempty" validate:"omitempty,oneof=BOTH_DIRECTIONS TO_THIRD_PARTY FROM_THIRD_PARTY OTHER"`
	SynchronizationDescription string                   `json:"synchronizationDescription,omitempty"`
}

// Clone returns a copy that shares nothing with p.
func (p *MetadataCorrelationProperties) Clone() *MetadataCorrelationProperties {
	if p == nil {
		return nil
	}
	c := *p
	c.MappingProperties = maps.Clone(p.MappingProperties)
	return &c
}

// ReferenceableProperties are shared by every element that has a qualified name.
type ReferenceableProperties struct {
	QualifiedName        string            `json:"qualifiedName,omitempty"`
	AdditionalProperties map[string]string `json:"additionalProperties,omitempty"`
	// TypeName selects a subtype of the element's base type.
	TypeName           string         `json:"typeName,omitempty"`
	ExtendedProperties map[string]any `json:"extendedProperties,omitempty"`
}

func (p ReferenceableProperties) clone() ReferenceableProperties {
	p.AdditionalProperties = maps.Clone(p.AdditionalProperties)
	p.ExtendedProperties = maps.Clone(p.ExtendedProperties)
	return p
}

// ProcessProperties describe a process.
type ProcessProperties struct {
	ReferenceableProperties
	Name                   string `json:"name,omitempty"`
	VersionIdentifier      string `json:"versionIdentifier,omitempty"`
	DisplayName            string `json:"displayName,omitempty"`
	Description            string `json:"description,omitempty"`
	Formula                string `json:"formula,omitempty"`
	FormulaType            string `json:"formulaType,omitempty"`
	ImplementationLanguage string `json:"implementationLanguage,omitempty"`
}

// Clone returns a deep copy.
func (p *ProcessProperties) Clone() *ProcessProperties {
	if p == nil {
		return nil
	}
	c := *p
	c.ReferenceableProperties = p.ReferenceableProperties.clone()
	return &c
}

// TemplateProperties override the values copied from a template.
type TemplateProperties struct {
	QualifiedName string `json:"qualifiedName,omitempty"`
	DisplayName   string `json:"displayName,omitempty"`
	Description   string `json:"description,omitempty"`
}

// PortProperties describe a port on a process.
type PortProperties struct {
	ReferenceableProperties
	DisplayName string   `json:"displayName,omitempty"`
	Identifier  string   `json:"identifier,omitempty"`
	PortType    PortType `json:"portType,omitempty" validate:"omitempty,oneof=NOT_SPECIFIED INPUT_PORT OUTPUT_PORT INOUT_PORT OUTIN_PORT OTHER"`
}

// Clone returns a deep copy.
func (p *PortProperties) Clone() *PortProperties {
	if p == nil {
		return nil
	}
	c := *p
	c.ReferenceableProperties = p.ReferenceableProperties.clone()
	return &c
}

// DataFlowProperties describe a DataFlow relationship.
type DataFlowProperties struct {
	QualifiedName string `json:"qualifiedName,omitempty"`
	Description   string `json:"description,omitempty"`
	Formula       string `json:"formula,omitempty"`
}

// ControlFlowProperties describe a ControlFlow relationship.
type ControlFlowProperties struct {
	QualifiedName string `json:"qualifiedName,omitempty"`
	Description   string `json:"description,omitempty"`
	Guard         string `json:"guard,omitempty"`
}

// ProcessCallProperties describe a ProcessCall relationship.
type ProcessCallProperties struct {
	QualifiedName string `json:"qualifiedName,omitempty"`
	Description   string `json:"description,omitempty"`
	Formula       string `json:"formula,omitempty"`
}

// ValidValueProperties describe a valid value definition.
type ValidValueProperties struct {
	ReferenceableProperties
	DisplayName    string `json:"displayName,omitempty"`
	Description    string `json:"description,omitempty"`
	Usage          string `json:"usage,omitempty"`
	Scope          string `json:"scope,omitempty"`
	PreferredValue string `json:"preferredValue,omitempty"`
	IsDeprecated   bool   `json:"isDeprecated,omitempty"`
}

// AssetManagerProperties describe a third party technology that exchanges metadata
// through the service.
type AssetManagerProperties struct {
	ReferenceableProperties
	DisplayName     string `json:"displayName,omitempty"`
	Description     string `json:"description,omitempty"`
	TypeDescription string `json:"typeDescription,omitempty"`
	Version         string `json:"version,omitempty"`
	PatchLevel      string `json:"patchLevel,omitempty"`
	Source          string `json:"source,omitempty"`
}
