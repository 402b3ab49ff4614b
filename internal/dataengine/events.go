// Package dataengine consumes the events data engines send on the in topic and records the
// assets and lineage they describe.
package dataengine

// EventType names the kind of a data engine event.
type EventType string

// Data engine event types.
const (
	DataEngineRegistrationEvent    EventType = "DATA_ENGINE_REGISTRATION_EVENT"
	DataFlowsEvent                 EventType = "DATA_FLOWS_EVENT"
	PortImplementationEvent        EventType = "PORT_IMPLEMENTATION_EVENT"
	ProcessEvent                   EventType = "PROCESS_EVENT"
	SchemaTypeEvent                EventType = "SCHEMA_TYPE_EVENT"
	ProcessHierarchyEvent          EventType = "PROCESS_HIERARCHY_EVENT"
	DeleteProcessEvent             EventType = "DELETE_PROCESS_EVENT"
	DeletePortImplementationEvent  EventType = "DELETE_PORT_IMPLEMENTATION_EVENT"
	DeleteSchemaTypeEvent          EventType = "DELETE_SCHEMA_TYPE_EVENT"
	DeleteDataEngineEvent          EventType = "DELETE_DATA_ENGINE_EVENT"
	DatabaseEvent                  EventType = "DATABASE_EVENT"
	DatabaseSchemaEvent            EventType = "DATABASE_SCHEMA_EVENT"
	RelationalTableEvent           EventType = "RELATIONAL_TABLE_EVENT"
	DataFileEvent                  EventType = "DATA_FILE_EVENT"
	DeleteDatabaseEvent            EventType = "DELETE_DATABASE_EVENT"
	DeleteDatabaseSchemaEvent      EventType = "DELETE_DATABASE_SCHEMA_EVENT"
	DeleteRelationalTableEvent     EventType = "DELETE_RELATIONAL_TABLE_EVENT"
	DeleteDataFileEvent            EventType = "DELETE_DATA_FILE_EVENT"
	DeleteFolderEvent              EventType = "DELETE_FOLDER_EVENT"
	DeleteConnectionEvent          EventType = "DELETE_CONNECTION_EVENT"
	DeleteEndpointEvent            EventType = "DELETE_ENDPOINT_EVENT"
	TopicEvent                     EventType = "TOPIC_EVENT"
	EventTypeEvent                 EventType = "EVENT_TYPE_EVENT"
	DeleteTopicEvent               EventType = "DELETE_TOPIC_EVENT"
	DeleteEventTypeEvent           EventType = "DELETE_EVENT_TYPE_EVENT"
	DataEngineProcessingStateEvent EventType = "PROCESSING_STATE_TYPE_EVENT"
)

// EventHeader starts every data engine event.
type EventHeader struct {
	DataEngineEventType EventType `json:"dataEngineEventType"`
	UserID              string    `json:"userId,omitempty"`
	// ExternalSourceName is the qualified name the data engine registered with.
	ExternalSourceName string `json:"externalSourceName,omitempty"`
}

// Engine describes the data engine itself.
type Engine struct {
	QualifiedName string `json:"qualifiedName"`
	Name          string `json:"name,omitempty"`
	Description   string `json:"description,omitempty"`
	EngineType    string `json:"engineType,omitempty"`
	EngineVersion string `json:"engineVersion,omitempty"`
	PatchLevel    string `json:"patchLevel,omitempty"`
	Source        string `json:"source,omitempty"`
}

// Attribute is a column or field of a schema.
type Attribute struct {
	QualifiedName string `json:"qualifiedName"`
	DisplayName   string `json:"displayName,omitempty"`
	Description   string `json:"description,omitempty"`
	Position      int    `json:"position,omitempty"`
	DataType      string `json:"dataType,omitempty"`
	DefaultValue  string `json:"defaultValue,omitempty"`
}

// SchemaType describes the structure of the data passing through a port.
type SchemaType struct {
	QualifiedName    string      `json:"qualifiedName"`
	DisplayName      string      `json:"displayName,omitempty"`
	Author           string      `json:"author,omitempty"`
	Usage            string      `json:"usage,omitempty"`
	EncodingStandard string      `json:"encodingStandard,omitempty"`
	Attributes       []Attribute `json:"attributeList,omitempty"`
}

// PortImplementation is a port of a process, optionally with its schema.
type PortImplementation struct {
	QualifiedName string      `json:"qualifiedName"`
	DisplayName   string      `json:"displayName,omitempty"`
	PortType      string      `json:"portType,omitempty"`
	SchemaType    *SchemaType `json:"schemaType,omitempty"`
}

// Process describes a process and the ports it exposes.
type Process struct {
	QualifiedName       string               `json:"qualifiedName"`
	Name                string               `json:"name,omitempty"`
	DisplayName         string               `json:"displayName,omitempty"`
	Description         string               `json:"description,omitempty"`
	Owner               string               `json:"owner,omitempty"`
	Formula             string               `json:"formula,omitempty"`
	ImplementationLang  string               `json:"implementationLanguage,omitempty"`
	PortImplementations []PortImplementation `json:"portImplementations,omitempty"`
}

// DataFlow links two elements by qualified name.
type DataFlow struct {
	DataSupplier  string `json:"dataSupplier"`
	DataConsumer  string `json:"dataConsumer"`
	QualifiedName string `json:"qualifiedName,omitempty"`
	Description   string `json:"description,omitempty"`
	Formula       string `json:"formula,omitempty"`
}

// ProcessHierarchy makes one process the parent of another.
type ProcessHierarchy struct {
	ParentProcess          string `json:"parentProcess"`
	ChildProcess           string `json:"childProcess"`
	ProcessContainmentType string `json:"processContainmentType,omitempty"`
}

// RelationalTable is a table of a database schema.
type RelationalTable struct {
	QualifiedName string      `json:"qualifiedName"`
	DisplayName   string      `json:"displayName,omitempty"`
	Description   string      `json:"description,omitempty"`
	Columns       []Attribute `json:"columns,omitempty"`
}

// DatabaseSchema is a schema deployed to a database.
type DatabaseSchema struct {
	QualifiedName string `json:"qualifiedName"`
	DisplayName   string `json:"displayName,omitempty"`
	Description   string `json:"description,omitempty"`
}

// Database describes a database server and optionally its schema.
type Database struct {
	QualifiedName        string          `json:"qualifiedName"`
	DisplayName          string          `json:"displayName,omitempty"`
	Description          string          `json:"description,omitempty"`
	DatabaseType         string          `json:"databaseType,omitempty"`
	DatabaseVersion      string          `json:"databaseVersion,omitempty"`
	DatabaseInstance     string          `json:"databaseInstance,omitempty"`
	DatabaseImportedFrom string          `json:"databaseImportedFrom,omitempty"`
	NetworkAddress       string          `json:"networkAddress,omitempty"`
	Protocol             string          `json:"protocol,omitempty"`
	DatabaseSchema       *DatabaseSchema `json:"databaseSchema,omitempty"`
}

// DataFile describes a file. The folders on its path are created as needed.
type DataFile struct {
	QualifiedName  string      `json:"qualifiedName"`
	DisplayName    string      `json:"displayName,omitempty"`
	Description    string      `json:"description,omitempty"`
	FileType       string      `json:"fileType,omitempty"`
	PathName       string      `json:"pathName,omitempty"`
	Columns        []Attribute `json:"columns,omitempty"`
	NetworkAddress string      `json:"networkAddress,omitempty"`
	Protocol       string      `json:"protocol,omitempty"`
}

// EventTypeDef is one kind of message carried by a topic.
type EventTypeDef struct {
	QualifiedName string      `json:"qualifiedName"`
	DisplayName   string      `json:"displayName,omitempty"`
	Description   string      `json:"description,omitempty"`
	Attributes    []Attribute `json:"attributeList,omitempty"`
}

// Topic describes an event topic and the event types it carries.
type Topic struct {
	QualifiedName  string         `json:"qualifiedName"`
	DisplayName    string         `json:"displayName,omitempty"`
	Description    string         `json:"description,omitempty"`
	TopicType      string         `json:"topicType,omitempty"`
	NetworkAddress string         `json:"networkAddress,omitempty"`
	Protocol       string         `json:"protocol,omitempty"`
	EventTypes     []EventTypeDef `json:"eventTypes,omitempty"`
}

// ProcessingState records how far a data engine has got.
type ProcessingState struct {
	SyncDatesByKey map[string]int64 `json:"syncDatesByKey"`
}

// RegistrationEventBody registers a data engine.
type RegistrationEventBody struct {
	EventHeader
	Engine *Engine `json:"engine"`
}

// DataFlowsEventBody carries a batch of data flows.
type DataFlowsEventBody struct {
	EventHeader
	DataFlows []DataFlow `json:"dataFlows"`
}

// PortImplementationEventBody adds or updates a port of a process.
type PortImplementationEventBody struct {
	EventHeader
	ProcessQualifiedName string              `json:"processQualifiedName"`
	PortImplementation   *PortImplementation `json:"portImplementation"`
}

// ProcessEventBody adds or updates a process.
type ProcessEventBody struct {
	EventHeader
	Process *Process `json:"process"`
}

// SchemaTypeEventBody adds or updates a schema type, attaching it to a port when one is named.
type SchemaTypeEventBody struct {
	EventHeader
	PortQualifiedName string      `json:"portQualifiedName,omitempty"`
	SchemaType        *SchemaType `json:"schemaType"`
}

// ProcessHierarchyEventBody links a parent and child process.
type ProcessHierarchyEventBody struct {
	EventHeader
	ProcessHierarchy *ProcessHierarchy `json:"processHierarchy"`
}

// DeleteEventBody removes one element, found by GUID or qualified name.
type DeleteEventBody struct {
	EventHeader
	GUID          string `json:"guid,omitempty"`
	QualifiedName string `json:"qualifiedName,omitempty"`
}

// DatabaseEventBody adds or updates a database.
type DatabaseEventBody struct {
	EventHeader
	Database *Database `json:"database"`
}

// DatabaseSchemaEventBody adds or updates a schema, linking it to a database when one is named.
type DatabaseSchemaEventBody struct {
	EventHeader
	DatabaseQualifiedName string          `json:"databaseQualifiedName,omitempty"`
	DatabaseSchema        *DatabaseSchema `json:"databaseSchema"`
}

// RelationalTableEventBody adds or updates a table of a database schema.
type RelationalTableEventBody struct {
	EventHeader
	DatabaseSchemaQualifiedName string           `json:"databaseSchemaQualifiedName"`
	RelationalTable             *RelationalTable `json:"relationalTable"`
}

// DataFileEventBody adds or updates a file.
type DataFileEventBody struct {
	EventHeader
	DataFile *DataFile `json:"dataFile"`
}

// TopicEventBody adds or updates a topic.
type TopicEventBody struct {
	EventHeader
	Topic *Topic `json:"topic"`
}

// EventTypeEventBody adds or updates an event type of a topic.
type EventTypeEventBody struct {
	EventHeader
	TopicQualifiedName string        `json:"topicQualifiedName"`
	EventType          *EventTypeDef `json:"eventType"`
}

// ProcessingStateEventBody records the processing state of a data engine.
type ProcessingStateEventBody struct {
	EventHeader
	ProcessingState *ProcessingState `json:"processingState"`
}
