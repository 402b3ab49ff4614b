package dataengine

import (
	"context"
	"encoding/json"
	"path"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/handlers"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

const (
	schemaTypeSuffix = "::schema"
	endpointSuffix   = "::endpoint"
	connectionSuffix = "::connection"
)

// ProcessorOptions configures a Processor.
type ProcessorOptions struct {
	ServerName string
	Handler    *handlers.ProcessExchangeHandler
	Repository *repository.Handler
	// UserID is used for events that do not carry one.
	UserID string
	Logger *zap.Logger
}

// Processor records the content of data engine events. Lineage goes through the process
// exchange handler so it is mastered by the data engine that sent it.
type Processor struct {
	serverName string
	handler    *handlers.ProcessExchangeHandler
	repo       *repository.Handler
	userID     string
	logger     *zap.Logger
}

var _ EventProcessor = (*Processor)(nil)

// NewProcessor creates a processor.
func NewProcessor(opts ProcessorOptions) *Processor {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Processor{
		serverName: opts.ServerName,
		handler:    opts.Handler,
		repo:       opts.Repository,
		userID:     opts.UserID,
		logger:     opts.Logger.Named("dataengine"),
	}
}

// source identifies the data engine an event came from.
type source struct {
	guid string
	name string
}

func (s source) isHome() bool { return s.guid != "" }

// correlation links an element to the data engine under its qualified name.
func (s source) correlation(qualifiedName string) *properties.MetadataCorrelationProperties {
	if s.guid == "" {
		return nil
	}
	return &properties.MetadataCorrelationProperties{
		AssetManagerGUID:         s.guid,
		AssetManagerName:         s.name,
		ExternalIdentifier:       qualifiedName,
		KeyPattern:               properties.KeyPatternLocal,
		SynchronizationDirection: properties.SynchronizationFromThirdParty,
	}
}

func (p *Processor) user(h EventHeader) string {
	if h.UserID != "" {
		return h.UserID
	}
	return p.userID
}

func (p *Processor) decode(payload []byte, body any) error {
	return json.Unmarshal(payload, body)
}

// source resolves the data engine named in the header. Events without one are stored in
// the local collection.
func (p *Processor) source(ctx context.Context, h EventHeader, methodName string) (source, error) {
	if h.ExternalSourceName == "" {
		return source{}, nil
	}
	guid, err := p.handler.GetAssetManagerGUID(ctx, p.user(h), h.ExternalSourceName, methodName)
	if err != nil {
		return source{}, err
	}
	if guid == "" {
		return source{}, errors.InvalidParameter(UnknownDataEngine, methodName, "externalSourceName",
			h.ExternalSourceName, string(h.DataEngineEventType), p.serverName).From(ServiceName)
	}
	return source{guid: guid, name: h.ExternalSourceName}, nil
}

func noBody(h EventHeader, field, methodName string) error {
	return errors.InvalidParameter(NoEventBody, methodName, field, string(h.DataEngineEventType), field).From(ServiceName)
}

// lookup returns the GUID of the element of typeName named qualifiedName, failing when it
// does not exist.
func (p *Processor) lookup(ctx context.Context, h EventHeader, typeName, qualifiedName, parameterName,
	methodName string) (string, error) {
	if qualifiedName == "" {
		return "", noBody(h, parameterName, methodName)
	}
	guid, err := p.handler.FindElementGUID(ctx, p.user(h), typeName, qualifiedName, methodName)
	if err != nil {
		return "", err
	}
	if guid == "" {
		return "", errors.InvalidParameter(UnknownReferencedElement, methodName, parameterName,
			typeName, qualifiedName, string(h.DataEngineEventType)).From(ServiceName)
	}
	return guid, nil
}

// ProcessDataEngineRegistrationEvent registers the data engine as an asset manager.
func (p *Processor) ProcessDataEngineRegistrationEvent(ctx context.Context, payload []byte) error {
	const methodName = "processDataEngineRegistrationEvent"
	var body RegistrationEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	if body.Engine == nil {
		return noBody(body.EventHeader, "engine", methodName)
	}
	e := body.Engine
	guid, err := p.handler.CreateAssetManager(ctx, p.user(body.EventHeader), &properties.AssetManagerProperties{
		ReferenceableProperties: properties.ReferenceableProperties{
			QualifiedName: e.QualifiedName,
			TypeName:      repository.EngineType,
		},
		DisplayName:     e.Name,
		Description:     e.Description,
		TypeDescription: e.EngineType,
		Version:         e.EngineVersion,
		PatchLevel:      e.PatchLevel,
		Source:          e.Source,
	}, methodName)
	if err != nil {
		return err
	}
	p.logger.Info("data engine registered", zap.String("qualifiedName", e.QualifiedName), zap.String("guid", guid))
	return nil
}

// ProcessProcessEvent creates or replaces a process and its ports.
func (p *Processor) ProcessProcessEvent(ctx context.Context, payload []byte) error {
	const methodName = "processProcessEvent"
	var body ProcessEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	if body.Process == nil {
		return noBody(body.EventHeader, "process", methodName)
	}
	src, err := p.source(ctx, body.EventHeader, methodName)
	if err != nil {
		return err
	}
	userID := p.user(body.EventHeader)
	proc := body.Process
	props := &properties.ProcessProperties{
		ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: proc.QualifiedName},
		Name:                    proc.Name,
		DisplayName:             proc.DisplayName,
		Description:             proc.Description,
		Formula:                 proc.Formula,
		ImplementationLanguage:  proc.ImplementationLang,
	}
	if proc.Owner != "" {
		props.AdditionalProperties = map[string]string{"owner": proc.Owner}
	}

	processGUID, err := p.handler.FindElementGUID(ctx, userID, repository.ProcessType, proc.QualifiedName, methodName)
	if err != nil {
		return err
	}
	if processGUID == "" {
		processGUID, err = p.handler.CreateProcess(ctx, userID, src.correlation(proc.QualifiedName), src.isHome(),
			props, properties.ProcessStatusActive, methodName)
	} else {
		err = p.handler.UpdateProcess(ctx, userID, src.correlation(proc.QualifiedName), processGUID, false, props, methodName)
	}
	if err != nil {
		return err
	}

	for i := range proc.PortImplementations {
		if _, err := p.upsertPort(ctx, userID, src, processGUID, &proc.PortImplementations[i], methodName); err != nil {
			return err
		}
	}
	return nil
}

// ProcessPortImplementationEvent creates or updates one port of an existing process.
func (p *Processor) ProcessPortImplementationEvent(ctx context.Context, payload []byte) error {
	const methodName = "processPortImplementationEvent"
	var body PortImplementationEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	if body.PortImplementation == nil {
		return noBody(body.EventHeader, "portImplementation", methodName)
	}
	src, err := p.source(ctx, body.EventHeader, methodName)
	if err != nil {
		return err
	}
	processGUID, err := p.lookup(ctx, body.EventHeader, repository.ProcessType, body.ProcessQualifiedName,
		"processQualifiedName", methodName)
	if err != nil {
		return err
	}
	_, err = p.upsertPort(ctx, p.user(body.EventHeader), src, processGUID, body.PortImplementation, methodName)
	return err
}

func (p *Processor) upsertPort(ctx context.Context, userID string, src source, processGUID string,
	port *PortImplementation, methodName string) (string, error) {
	props := &properties.PortProperties{
		ReferenceableProperties: properties.ReferenceableProperties{
			QualifiedName: port.QualifiedName,
			TypeName:      repository.PortImplementationType,
		},
		DisplayName: port.DisplayName,
		PortType:    properties.PortType(port.PortType),
	}
	portGUID, err := p.handler.FindElementGUID(ctx, userID, repository.PortImplementationType, port.QualifiedName, methodName)
	if err != nil {
		return "", err
	}
	if portGUID == "" {
		portGUID, err = p.handler.CreatePort(ctx, userID, src.correlation(port.QualifiedName), src.isHome(),
			processGUID, props, methodName)
	} else {
		err = p.handler.UpdatePort(ctx, userID, src.correlation(port.QualifiedName), portGUID, props, methodName)
	}
	if err != nil {
		return "", err
	}
	if port.SchemaType == nil {
		return portGUID, nil
	}
	schemaGUID, err := p.upsertSchemaType(ctx, userID, src, repository.TabularSchemaTypeType,
		repository.TabularColumnType, port.SchemaType, methodName)
	if err != nil {
		return "", err
	}
	if err := p.handler.SetupPortSchemaType(ctx, userID, src.guid, src.name, src.isHome(), portGUID, schemaGUID, methodName); err != nil {
		return "", err
	}
	return portGUID, nil
}

// ProcessSchemaTypeEvent creates or replaces a schema type and its attributes.
func (p *Processor) ProcessSchemaTypeEvent(ctx context.Context, payload []byte) error {
	const methodName = "processSchemaTypeEvent"
	var body SchemaTypeEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	if body.SchemaType == nil {
		return noBody(body.EventHeader, "schemaType", methodName)
	}
	src, err := p.source(ctx, body.EventHeader, methodName)
	if err != nil {
		return err
	}
	userID := p.user(body.EventHeader)
	schemaGUID, err := p.upsertSchemaType(ctx, userID, src, repository.TabularSchemaTypeType,
		repository.TabularColumnType, body.SchemaType, methodName)
	if err != nil {
		return err
	}
	if body.PortQualifiedName == "" {
		return nil
	}
	portGUID, err := p.lookup(ctx, body.EventHeader, repository.PortType, body.PortQualifiedName, "portQualifiedName", methodName)
	if err != nil {
		return err
	}
	return p.handler.SetupPortSchemaType(ctx, userID, src.guid, src.name, src.isHome(), portGUID, schemaGUID, methodName)
}

func (p *Processor) upsertSchemaType(ctx context.Context, userID string, src source, typeName, attributeType string,
	st *SchemaType, methodName string) (string, error) {
	props := repository.InstanceProperties{}.
		Set(repository.QualifiedNameProperty, st.QualifiedName).
		Set(repository.DisplayNameProperty, st.DisplayName).
		Set("author", st.Author).
		Set("usage", st.Usage).
		Set("encodingStandard", st.EncodingStandard)
	guid, err := p.handler.UpsertElement(ctx, userID, src.correlation(st.QualifiedName), typeName, props, methodName)
	if err != nil {
		return "", err
	}
	return guid, p.upsertAttributes(ctx, userID, src, guid, attributeType, st.Attributes, methodName)
}

// upsertAttributes stores each attribute and links it to its parent with AttributeForSchema.
func (p *Processor) upsertAttributes(ctx context.Context, userID string, src source, parentGUID, typeName string,
	attributes []Attribute, methodName string) error {
	for _, a := range attributes {
		props := repository.InstanceProperties{}.
			Set(repository.QualifiedNameProperty, a.QualifiedName).
			Set(repository.DisplayNameProperty, a.DisplayName).
			Set(repository.DescriptionProperty, a.Description).
			Set("position", strconv.Itoa(a.Position)).
			Set("dataType", a.DataType).
			Set("defaultValue", a.DefaultValue)
		guid, err := p.handler.UpsertElement(ctx, userID, src.correlation(a.QualifiedName), typeName, props, methodName)
		if err != nil {
			return err
		}
		if _, err := p.handler.LinkElements(ctx, userID, src.guid, src.name,
			repository.AttributeForSchemaRelationship, parentGUID, guid, methodName); err != nil {
			return err
		}
	}
	return nil
}

// ProcessProcessHierarchyEvent makes one process the child of another.
func (p *Processor) ProcessProcessHierarchyEvent(ctx context.Context, payload []byte) error {
	const methodName = "processProcessHierarchyEvent"
	var body ProcessHierarchyEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	if body.ProcessHierarchy == nil {
		return noBody(body.EventHeader, "processHierarchy", methodName)
	}
	src, err := p.source(ctx, body.EventHeader, methodName)
	if err != nil {
		return err
	}
	ph := body.ProcessHierarchy
	parentGUID, err := p.lookup(ctx, body.EventHeader, repository.ProcessType, ph.ParentProcess, "parentProcess", methodName)
	if err != nil {
		return err
	}
	childGUID, err := p.lookup(ctx, body.EventHeader, repository.ProcessType, ph.ChildProcess, "childProcess", methodName)
	if err != nil {
		return err
	}
	containment := properties.ProcessContainmentType(ph.ProcessContainmentType)
	if containment == "" {
		containment = properties.ProcessContainmentOwned
	}
	return p.handler.SetupProcessParent(ctx, p.user(body.EventHeader), src.guid, src.name, src.isHome(),
		parentGUID, childGUID, containment, methodName)
}

// ProcessDataFlowsEvent creates or updates each data flow. Every flow is attempted; the
// failures are returned together.
func (p *Processor) ProcessDataFlowsEvent(ctx context.Context, payload []byte) error {
	const methodName = "processDataFlowsEvent"
	var body DataFlowsEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	src, err := p.source(ctx, body.EventHeader, methodName)
	if err != nil {
		return err
	}
	userID := p.user(body.EventHeader)

	var errs []error
	for _, flow := range body.DataFlows {
		if err := p.upsertDataFlow(ctx, body.EventHeader, userID, src, flow, methodName); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Processor) upsertDataFlow(ctx context.Context, h EventHeader, userID string, src source, flow DataFlow,
	methodName string) error {
	supplierGUID, err := p.lookup(ctx, h, repository.ReferenceableType, flow.DataSupplier, "dataSupplier", methodName)
	if err != nil {
		return err
	}
	consumerGUID, err := p.lookup(ctx, h, repository.ReferenceableType, flow.DataConsumer, "dataConsumer", methodName)
	if err != nil {
		return err
	}
	props := &properties.DataFlowProperties{
		QualifiedName: flow.QualifiedName,
		Description:   flow.Description,
		Formula:       flow.Formula,
	}
	existing, err := p.handler.GetDataFlow(ctx, userID, supplierGUID, consumerGUID, flow.QualifiedName, methodName)
	if err != nil {
		return err
	}
	if existing != nil {
		return p.handler.UpdateDataFlow(ctx, userID, src.guid, src.name, existing.DataFlowHeader.GUID, props, methodName)
	}
	_, err = p.handler.SetupDataFlow(ctx, userID, src.guid, src.name, src.isHome(), supplierGUID, consumerGUID, props, methodName)
	return err
}

// ProcessDatabaseEvent creates or updates a database, its connection and its schema.
func (p *Processor) ProcessDatabaseEvent(ctx context.Context, payload []byte) error {
	const methodName = "processDatabaseEvent"
	var body DatabaseEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	if body.Database == nil {
		return noBody(body.EventHeader, "database", methodName)
	}
	src, err := p.source(ctx, body.EventHeader, methodName)
	if err != nil {
		return err
	}
	userID := p.user(body.EventHeader)
	db := body.Database
	props := repository.InstanceProperties{}.
		Set(repository.QualifiedNameProperty, db.QualifiedName).
		Set(repository.NameProperty, db.DisplayName).
		Set(repository.DescriptionProperty, db.Description).
		Set("deployedImplementationType", db.DatabaseType).
		Set("databaseVersion", db.DatabaseVersion).
		Set("instance", db.DatabaseInstance).
		Set("importedFrom", db.DatabaseImportedFrom)
	dbGUID, err := p.handler.UpsertElement(ctx, userID, src.correlation(db.QualifiedName), repository.DatabaseType, props, methodName)
	if err != nil {
		return err
	}
	if err := p.upsertConnection(ctx, userID, src, dbGUID, db.QualifiedName, db.NetworkAddress, db.Protocol, methodName); err != nil {
		return err
	}
	if db.DatabaseSchema == nil {
		return nil
	}
	_, err = p.upsertDatabaseSchema(ctx, userID, src, dbGUID, db.DatabaseSchema, methodName)
	return err
}

// ProcessDatabaseSchemaEvent creates or updates a database schema.
func (p *Processor) ProcessDatabaseSchemaEvent(ctx context.Context, payload []byte) error {
	const methodName = "processDatabaseSchemaEvent"
	var body DatabaseSchemaEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	if body.DatabaseSchema == nil {
		return noBody(body.EventHeader, "databaseSchema", methodName)
	}
	src, err := p.source(ctx, body.EventHeader, methodName)
	if err != nil {
		return err
	}
	var dbGUID string
	if body.DatabaseQualifiedName != "" {
		dbGUID, err = p.lookup(ctx, body.EventHeader, repository.DatabaseType, body.DatabaseQualifiedName,
			"databaseQualifiedName", methodName)
		if err != nil {
			return err
		}
	}
	_, err = p.upsertDatabaseSchema(ctx, p.user(body.EventHeader), src, dbGUID, body.DatabaseSchema, methodName)
	return err
}

func (p *Processor) upsertDatabaseSchema(ctx context.Context, userID string, src source, dbGUID string,
	schema *DatabaseSchema, methodName string) (string, error) {
	props := repository.InstanceProperties{}.
		Set(repository.QualifiedNameProperty, schema.QualifiedName).
		Set(repository.NameProperty, schema.DisplayName).
		Set(repository.DescriptionProperty, schema.Description)
	guid, err := p.handler.UpsertElement(ctx, userID, src.correlation(schema.QualifiedName),
		repository.DeployedDatabaseSchemaType, props, methodName)
	if err != nil {
		return "", err
	}
	if dbGUID == "" {
		return guid, nil
	}
	if _, err := p.handler.LinkElements(ctx, userID, src.guid, src.name,
		repository.DataContentForDataSetRelationship, dbGUID, guid, methodName); err != nil {
		return "", err
	}
	return guid, nil
}

// assetSchemaType returns the schema type of an asset, creating it when needed.
func (p *Processor) assetSchemaType(ctx context.Context, userID string, src source, assetGUID, assetQualifiedName,
	typeName, methodName string) (string, error) {
	qualifiedName := assetQualifiedName + schemaTypeSuffix
	props := repository.InstanceProperties{}.Set(repository.QualifiedNameProperty, qualifiedName)
	guid, err := p.handler.UpsertElement(ctx, userID, src.correlation(qualifiedName), typeName, props, methodName)
	if err != nil {
		return "", err
	}
	if _, err := p.handler.LinkElements(ctx, userID, src.guid, src.name,
		repository.AssetSchemaTypeRelationship, assetGUID, guid, methodName); err != nil {
		return "", err
	}
	return guid, nil
}

// ProcessRelationalTableEvent creates or updates a table and its columns under a database schema.
func (p *Processor) ProcessRelationalTableEvent(ctx context.Context, payload []byte) error {
	const methodName = "processRelationalTableEvent"
	var body RelationalTableEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	if body.RelationalTable == nil {
		return noBody(body.EventHeader, "relationalTable", methodName)
	}
	src, err := p.source(ctx, body.EventHeader, methodName)
	if err != nil {
		return err
	}
	userID := p.user(body.EventHeader)
	schemaGUID, err := p.lookup(ctx, body.EventHeader, repository.DeployedDatabaseSchemaType,
		body.DatabaseSchemaQualifiedName, "databaseSchemaQualifiedName", methodName)
	if err != nil {
		return err
	}
	schemaTypeGUID, err := p.assetSchemaType(ctx, userID, src, schemaGUID, body.DatabaseSchemaQualifiedName,
		repository.ComplexSchemaTypeType, methodName)
	if err != nil {
		return err
	}

	table := body.RelationalTable
	props := repository.InstanceProperties{}.
		Set(repository.QualifiedNameProperty, table.QualifiedName).
		Set(repository.DisplayNameProperty, table.DisplayName).
		Set(repository.DescriptionProperty, table.Description)
	tableGUID, err := p.handler.UpsertElement(ctx, userID, src.correlation(table.QualifiedName),
		repository.RelationalTableType, props, methodName)
	if err != nil {
		return err
	}
	if _, err := p.handler.LinkElements(ctx, userID, src.guid, src.name,
		repository.AttributeForSchemaRelationship, schemaTypeGUID, tableGUID, methodName); err != nil {
		return err
	}
	return p.upsertAttributes(ctx, userID, src, tableGUID, repository.RelationalColumnType, table.Columns, methodName)
}

// ProcessDataFileEvent creates or updates a file, the folder holding it, its columns and
// its connection.
func (p *Processor) ProcessDataFileEvent(ctx context.Context, payload []byte) error {
	const methodName = "processDataFileEvent"
	var body DataFileEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	if body.DataFile == nil {
		return noBody(body.EventHeader, "dataFile", methodName)
	}
	src, err := p.source(ctx, body.EventHeader, methodName)
	if err != nil {
		return err
	}
	userID := p.user(body.EventHeader)
	file := body.DataFile

	typeName := repository.DataFileType
	if strings.EqualFold(file.FileType, "csv") {
		typeName = repository.CSVFileType
	}
	props := repository.InstanceProperties{}.
		Set(repository.QualifiedNameProperty, file.QualifiedName).
		Set(repository.NameProperty, file.DisplayName).
		Set(repository.DescriptionProperty, file.Description).
		Set("fileType", file.FileType).
		Set("pathName", file.PathName)
	fileGUID, err := p.handler.UpsertElement(ctx, userID, src.correlation(file.QualifiedName), typeName, props, methodName)
	if err != nil {
		return err
	}

	if dir := path.Dir(file.PathName); file.PathName != "" && dir != "." && dir != "/" {
		folderProps := repository.InstanceProperties{}.
			Set(repository.QualifiedNameProperty, dir).
			Set(repository.NameProperty, path.Base(dir)).
			Set("pathName", dir)
		folderGUID, err := p.handler.UpsertElement(ctx, userID, src.correlation(dir), repository.FileFolderType,
			folderProps, methodName)
		if err != nil {
			return err
		}
		if _, err := p.handler.LinkElements(ctx, userID, src.guid, src.name,
			repository.NestedFileRelationship, folderGUID, fileGUID, methodName); err != nil {
			return err
		}
	}

	if len(file.Columns) > 0 {
		schemaTypeGUID, err := p.assetSchemaType(ctx, userID, src, fileGUID, file.QualifiedName,
			repository.TabularSchemaTypeType, methodName)
		if err != nil {
			return err
		}
		if err := p.upsertAttributes(ctx, userID, src, schemaTypeGUID, repository.TabularColumnType,
			file.Columns, methodName); err != nil {
			return err
		}
	}
	return p.upsertConnection(ctx, userID, src, fileGUID, file.QualifiedName, file.NetworkAddress, file.Protocol, methodName)
}

// ProcessTopicEvent creates or updates a topic and its event types.
func (p *Processor) ProcessTopicEvent(ctx context.Context, payload []byte) error {
	const methodName = "processTopicEvent"
	var body TopicEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	if body.Topic == nil {
		return noBody(body.EventHeader, "topic", methodName)
	}
	src, err := p.source(ctx, body.EventHeader, methodName)
	if err != nil {
		return err
	}
	userID := p.user(body.EventHeader)
	topic := body.Topic

	typeName := repository.TopicType
	if strings.EqualFold(topic.TopicType, "kafka") {
		typeName = repository.KafkaTopicType
	}
	props := repository.InstanceProperties{}.
		Set(repository.QualifiedNameProperty, topic.QualifiedName).
		Set(repository.NameProperty, topic.DisplayName).
		Set(repository.DescriptionProperty, topic.Description).
		Set("topicType", topic.TopicType)
	topicGUID, err := p.handler.UpsertElement(ctx, userID, src.correlation(topic.QualifiedName), typeName, props, methodName)
	if err != nil {
		return err
	}
	for i := range topic.EventTypes {
		if err := p.upsertEventType(ctx, userID, src, topicGUID, &topic.EventTypes[i], methodName); err != nil {
			return err
		}
	}
	return p.upsertConnection(ctx, userID, src, topicGUID, topic.QualifiedName, topic.NetworkAddress, topic.Protocol, methodName)
}

// ProcessEventTypeEvent creates or updates an event type of an existing topic.
func (p *Processor) ProcessEventTypeEvent(ctx context.Context, payload []byte) error {
	const methodName = "processEventTypeEvent"
	var body EventTypeEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	if body.EventType == nil {
		return noBody(body.EventHeader, "eventType", methodName)
	}
	src, err := p.source(ctx, body.EventHeader, methodName)
	if err != nil {
		return err
	}
	topicGUID, err := p.lookup(ctx, body.EventHeader, repository.TopicType, body.TopicQualifiedName,
		"topicQualifiedName", methodName)
	if err != nil {
		return err
	}
	return p.upsertEventType(ctx, p.user(body.EventHeader), src, topicGUID, body.EventType, methodName)
}

func (p *Processor) upsertEventType(ctx context.Context, userID string, src source, topicGUID string,
	et *EventTypeDef, methodName string) error {
	props := repository.InstanceProperties{}.
		Set(repository.QualifiedNameProperty, et.QualifiedName).
		Set(repository.DisplayNameProperty, et.DisplayName).
		Set(repository.DescriptionProperty, et.Description)
	guid, err := p.handler.UpsertElement(ctx, userID, src.correlation(et.QualifiedName), repository.EventTypeType, props, methodName)
	if err != nil {
		return err
	}
	if _, err := p.handler.LinkElements(ctx, userID, src.guid, src.name,
		repository.AssetSchemaTypeRelationship, topicGUID, guid, methodName); err != nil {
		return err
	}
	return p.upsertAttributes(ctx, userID, src, guid, repository.EventSchemaAttributeType, et.Attributes, methodName)
}

// upsertConnection describes how to reach an asset. Nothing is stored without a network
// address.
func (p *Processor) upsertConnection(ctx context.Context, userID string, src source, assetGUID, assetQualifiedName,
	networkAddress, protocol, methodName string) error {
	if networkAddress == "" {
		return nil
	}
	endpointName := assetQualifiedName + endpointSuffix
	endpointGUID, err := p.handler.UpsertElement(ctx, userID, src.correlation(endpointName), repository.EndpointType,
		repository.InstanceProperties{}.
			Set(repository.QualifiedNameProperty, endpointName).
			Set("networkAddress", networkAddress).
			Set("protocol", protocol), methodName)
	if err != nil {
		return err
	}
	connectionName := assetQualifiedName + connectionSuffix
	connectionGUID, err := p.handler.UpsertElement(ctx, userID, src.correlation(connectionName), repository.ConnectionType,
		repository.InstanceProperties{}.Set(repository.QualifiedNameProperty, connectionName), methodName)
	if err != nil {
		return err
	}
	if _, err := p.handler.LinkElements(ctx, userID, src.guid, src.name,
		repository.ConnectionEndpointRelationship, endpointGUID, connectionGUID, methodName); err != nil {
		return err
	}
	_, err = p.handler.LinkElements(ctx, userID, src.guid, src.name,
		repository.ConnectionToAssetRelationship, connectionGUID, assetGUID, methodName)
	return err
}

// ProcessProcessingStateEvent merges the processing state of the data engine.
func (p *Processor) ProcessProcessingStateEvent(ctx context.Context, payload []byte) error {
	const methodName = "processProcessingStateEvent"
	var body ProcessingStateEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	if body.ProcessingState == nil {
		return noBody(body.EventHeader, "processingState", methodName)
	}
	src, err := p.source(ctx, body.EventHeader, methodName)
	if err != nil {
		return err
	}
	if !src.isHome() {
		return noBody(body.EventHeader, "externalSourceName", methodName)
	}
	return p.handler.UpsertProcessingState(ctx, p.user(body.EventHeader), src.guid,
		body.ProcessingState.SyncDatesByKey, methodName)
}

type removeFunc func(ctx context.Context, userID string, correlation *properties.MetadataCorrelationProperties,
	guid, methodName string) error

// remove deletes the element named by a delete event. Deleting an element that is already
// gone succeeds.
func (p *Processor) remove(ctx context.Context, payload []byte, typeName, methodName string, fn removeFunc) error {
	var body DeleteEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	if body.GUID == "" && body.QualifiedName == "" {
		return noBody(body.EventHeader, "guid", methodName)
	}
	src, err := p.source(ctx, body.EventHeader, methodName)
	if err != nil {
		return err
	}
	userID := p.user(body.EventHeader)
	guid := body.GUID
	if guid == "" {
		if guid, err = p.handler.FindElementGUID(ctx, userID, typeName, body.QualifiedName, methodName); err != nil {
			return err
		}
		if guid == "" {
			p.logger.Debug("nothing to delete",
				zap.String("typeName", typeName),
				zap.String("qualifiedName", body.QualifiedName))
			return nil
		}
	}
	return fn(ctx, userID, src.correlation(body.QualifiedName), guid, methodName)
}

// removeElement removes an element of typeName.
func (p *Processor) removeElement(typeName string) removeFunc {
	return func(ctx context.Context, userID string, correlation *properties.MetadataCorrelationProperties,
		guid, methodName string) error {
		return p.handler.RemoveElement(ctx, userID, correlation, typeName, guid, methodName)
	}
}

// removeWithSchema removes an element after the schema elements hanging from it.
func (p *Processor) removeWithSchema(typeName string) removeFunc {
	return func(ctx context.Context, userID string, correlation *properties.MetadataCorrelationProperties,
		guid, methodName string) error {
		if err := p.removeSchema(ctx, userID, correlation, guid, methodName); err != nil {
			return err
		}
		return p.handler.RemoveElement(ctx, userID, correlation, typeName, guid, methodName)
	}
}

func (p *Processor) removeSchema(ctx context.Context, userID string, correlation *properties.MetadataCorrelationProperties,
	guid, methodName string) error {
	for _, relType := range []string{repository.AssetSchemaTypeRelationship, repository.AttributeForSchemaRelationship} {
		rels, err := p.repo.GetRelationships(ctx, guid, relType, repository.EndOne)
		if err != nil {
			return err
		}
		for _, r := range rels {
			if err := p.removeWithSchema(repository.SchemaElementType)(ctx, userID, correlation, r.End2.GUID, methodName); err != nil {
				return err
			}
		}
	}
	return nil
}

// ProcessDeleteProcessEvent removes a process.
func (p *Processor) ProcessDeleteProcessEvent(ctx context.Context, payload []byte) error {
	return p.remove(ctx, payload, repository.ProcessType, "processDeleteProcessEvent", p.handler.RemoveProcess)
}

// ProcessDeletePortImplementationEvent removes a port.
func (p *Processor) ProcessDeletePortImplementationEvent(ctx context.Context, payload []byte) error {
	return p.remove(ctx, payload, repository.PortImplementationType, "processDeletePortImplementationEvent",
		p.handler.RemovePort)
}

// ProcessDeleteSchemaTypeEvent removes a schema type and its attributes.
func (p *Processor) ProcessDeleteSchemaTypeEvent(ctx context.Context, payload []byte) error {
	return p.remove(ctx, payload, repository.SchemaTypeType, "processDeleteSchemaTypeEvent",
		p.removeWithSchema(repository.SchemaTypeType))
}

// ProcessDeleteDataEngineEvent removes the registration of a data engine.
func (p *Processor) ProcessDeleteDataEngineEvent(ctx context.Context, payload []byte) error {
	const methodName = "processDeleteDataEngineEvent"
	var body DeleteEventBody
	if err := p.decode(payload, &body); err != nil {
		return err
	}
	if body.GUID == "" && body.QualifiedName == "" {
		return noBody(body.EventHeader, "guid", methodName)
	}
	userID := p.user(body.EventHeader)
	guid := body.GUID
	if guid == "" {
		var err error
		if guid, err = p.handler.GetAssetManagerGUID(ctx, userID, body.QualifiedName, methodName); err != nil || guid == "" {
			return err
		}
	}
	return p.handler.RemoveElement(ctx, userID, nil, repository.SoftwareCapabilityType, guid, methodName)
}

// ProcessDeleteDatabaseEvent removes a database.
func (p *Processor) ProcessDeleteDatabaseEvent(ctx context.Context, payload []byte) error {
	return p.remove(ctx, payload, repository.DatabaseType, "processDeleteDatabaseEvent",
		p.removeElement(repository.DatabaseType))
}

// ProcessDeleteDatabaseSchemaEvent removes a database schema with its tables and columns.
func (p *Processor) ProcessDeleteDatabaseSchemaEvent(ctx context.Context, payload []byte) error {
	return p.remove(ctx, payload, repository.DeployedDatabaseSchemaType, "processDeleteDatabaseSchemaEvent",
		p.removeWithSchema(repository.DeployedDatabaseSchemaType))
}

// ProcessDeleteRelationalTableEvent removes a table and its columns.
func (p *Processor) ProcessDeleteRelationalTableEvent(ctx context.Context, payload []byte) error {
	return p.remove(ctx, payload, repository.RelationalTableType, "processDeleteRelationalTableEvent",
		p.removeWithSchema(repository.RelationalTableType))
}

// ProcessDeleteDataFileEvent removes a file and its columns.
func (p *Processor) ProcessDeleteDataFileEvent(ctx context.Context, payload []byte) error {
	return p.remove(ctx, payload, repository.DataFileType, "processDeleteDataFileEvent",
		p.removeWithSchema(repository.DataFileType))
}

// ProcessDeleteFolderEvent removes a folder.
func (p *Processor) ProcessDeleteFolderEvent(ctx context.Context, payload []byte) error {
	return p.remove(ctx, payload, repository.FileFolderType, "processDeleteFolderEvent",
		p.removeElement(repository.FileFolderType))
}

// ProcessDeleteConnectionEvent removes a connection.
func (p *Processor) ProcessDeleteConnectionEvent(ctx context.Context, payload []byte) error {
	return p.remove(ctx, payload, repository.ConnectionType, "processDeleteConnectionEvent",
		p.removeElement(repository.ConnectionType))
}

// ProcessDeleteEndpointEvent removes an endpoint.
func (p *Processor) ProcessDeleteEndpointEvent(ctx context.Context, payload []byte) error {
	return p.remove(ctx, payload, repository.EndpointType, "processDeleteEndpointEvent",
		p.removeElement(repository.EndpointType))
}

// ProcessDeleteTopicEvent removes a topic and its event types.
func (p *Processor) ProcessDeleteTopicEvent(ctx context.Context, payload []byte) error {
	return p.remove(ctx, payload, repository.TopicType, "processDeleteTopicEvent",
		p.removeWithSchema(repository.TopicType))
}

// ProcessDeleteEventTypeEvent removes an event type and its attributes.
func (p *Processor) ProcessDeleteEventTypeEvent(ctx context.Context, payload []byte) error {
	return p.remove(ctx, payload, repository.EventTypeType, "processDeleteEventTypeEvent",
		p.removeWithSchema(repository.EventTypeType))
}
