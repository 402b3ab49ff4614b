package repository

// Entity type names.
const (
	ReferenceableType             = "Referenceable"
	AssetType                     = "Asset"
	ProcessType                   = "Process"
	DeployedSoftwareComponentType = "DeployedSoftwareComponent"
	DeployedConnectorType         = "DeployedConnector"
	DeployedAPIType               = "DeployedAPI"
	PortType                      = "Port"
	PortImplementationType        = "PortImplementation"
	PortAliasType                 = "PortAlias"
	SchemaElementType             = "SchemaElement"
	SchemaTypeType                = "SchemaType"
	ComplexSchemaTypeType         = "ComplexSchemaType"
	TabularSchemaTypeType         = "TabularSchemaType"
	EventTypeType                 = "EventType"
	SchemaAttributeType           = "SchemaAttribute"
	TabularColumnType             = "TabularColumn"
	RelationalColumnType          = "RelationalColumn"
	RelationalTableType           = "RelationalTable"
	EventSchemaAttributeType      = "EventSchemaAttribute"
	DataSetType                   = "DataSet"
	DataStoreType                 = "DataStore"
	DatabaseType                  = "Database"
	DeployedDatabaseSchemaType    = "DeployedDatabaseSchema"
	DataFileType                  = "DataFile"
	CSVFileType                   = "CSVFile"
	FileFolderType                = "FileFolder"
	TopicType                     = "Topic"
	KafkaTopicType                = "KafkaTopic"
	ConnectionType                = "Connection"
	EndpointType                  = "Endpoint"
	SoftwareCapabilityType        = "SoftwareServerCapability"
	EngineType                    = "Engine"
	AssetManagerType              = "AssetManager"
	ExternalIDType                = "ExternalId"
	ValidValueDefinitionType      = "ValidValueDefinition"
)

// Relationship type names.
const (
	ProcessHierarchyRelationship      = "ProcessHierarchy"
	ProcessPortRelationship           = "ProcessPort"
	PortDelegationRelationship        = "PortDelegation"
	PortSchemaRelationship            = "PortSchema"
	DataFlowRelationship              = "DataFlow"
	ControlFlowRelationship           = "ControlFlow"
	ProcessCallRelationship           = "ProcessCall"
	LineageMappingRelationship        = "LineageMapping"
	ExternalIDLinkRelationship        = "ExternalIdLink"
	ExternalIDScopeRelationship       = "ExternalIdScope"
	ServerAssetUseRelationship        = "ServerAssetUse"
	DataContentForDataSetRelationship = "DataContentForDataSet"
	AssetSchemaTypeRelationship       = "AssetSchemaType"
	AttributeForSchemaRelationship    = "AttributeForSchema"
	NestedFileRelationship            = "NestedFile"
	ConnectionEndpointRelationship    = "ConnectionEndpoint"
	ConnectionToAssetRelationship     = "ConnectionToAsset"
	ValidValuesAssignmentRelationship = "ValidValuesAssignment"
)

// Classification names.
const (
	AssetZoneMembershipClassification = "AssetZoneMembership"
	BusinessSignificantClassification = "BusinessSignificant"
	TemplateClassification            = "Template"
	ProcessingStateClassification     = "ProcessingState"
)

// superTypes maps each entity type onto its direct super type.
var superTypes = map[string]string{
	AssetType:                     ReferenceableType,
	ProcessType:                   AssetType,
	DeployedSoftwareComponentType: ProcessType,
	DeployedConnectorType:         DeployedSoftwareComponentType,
	DeployedAPIType:               AssetType,
	PortType:                      ReferenceableType,
	PortImplementationType:        PortType,
	PortAliasType:                 PortType,
	SchemaElementType:             ReferenceableType,
	SchemaTypeType:                SchemaElementType,
	ComplexSchemaTypeType:         SchemaTypeType,
	TabularSchemaTypeType:         ComplexSchemaTypeType,
	EventTypeType:                 ComplexSchemaTypeType,
	SchemaAttributeType:           SchemaElementType,
	TabularColumnType:             SchemaAttributeType,
	RelationalColumnType:          TabularColumnType,
	RelationalTableType:           SchemaAttributeType,
	EventSchemaAttributeType:      SchemaAttributeType,
	DataSetType:                   AssetType,
	DataStoreType:                 AssetType,
	DatabaseType:                  DataStoreType,
	DeployedDatabaseSchemaType:    DataSetType,
	DataFileType:                  DataStoreType,
	CSVFileType:                   DataFileType,
	FileFolderType:                DataStoreType,
	TopicType:                     DataSetType,
	KafkaTopicType:                TopicType,
	ConnectionType:                ReferenceableType,
	EndpointType:                  ReferenceableType,
	SoftwareCapabilityType:        ReferenceableType,
	EngineType:                    SoftwareCapabilityType,
	AssetManagerType:              SoftwareCapabilityType,
	ValidValueDefinitionType:      ReferenceableType,
}

// SuperTypes lists the super types of typeName, nearest first.
func SuperTypes(typeName string) []string {
	var out []string
	for t, ok := superTypes[typeName]; ok; t, ok = superTypes[t] {
		out = append(out, t)
	}
	return out
}

// IsTypeOf reports whether typeName is target or one of its sub types.
func IsTypeOf(typeName, target string) bool {
	if typeName == target {
		return true
	}
	for _, s := range SuperTypes(typeName) {
		if s == target {
			return true
		}
	}
	return false
}

// SubTypes lists typeName and every type that inherits from it.
func SubTypes(typeName string) []string {
	out := []string{typeName}
	for t := range superTypes {
		if t != typeName && IsTypeOf(t, typeName) {
			out = append(out, t)
		}
	}
	return out
}

// NewInstanceType builds the type descriptor of typeName.
func NewInstanceType(typeName string) InstanceType {
	return InstanceType{TypeName: typeName, SuperTypeNames: SuperTypes(typeName)}
}
