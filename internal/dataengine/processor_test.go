package dataengine_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/handlers"
	"github.com/MihaiIliescu/egeria/internal/dataengine"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/pkg/errors"
	"github.com/MihaiIliescu/egeria/pkg/validation"
)

const (
	serverName = "cocoMDS1"
	user       = "erinoverview"
	engineName = "(data-engine)=etl-engine"
)

type fixture struct {
	processor *dataengine.Processor
	handler   *handlers.ProcessExchangeHandler
	repo      *repository.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := repository.NewHandler(repository.NewMemoryStore(), repository.MetadataCollection{ID: "local-id", Name: serverName})
	h := handlers.NewProcessExchangeHandler(handlers.Options{
		ServerName: serverName,
		Repository: repo,
		Validator:  validation.NewInvalidParameterHandler(10, zap.NewNop()),
		Logger:     zap.NewNop(),
	})
	return &fixture{
		processor: dataengine.NewProcessor(dataengine.ProcessorOptions{
			ServerName: serverName,
			Handler:    h,
			Repository: repo,
			UserID:     user,
			Logger:     zap.NewNop(),
		}),
		handler: h,
		repo:    repo,
	}
}

func payload(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func header(eventType dataengine.EventType) dataengine.EventHeader {
	return dataengine.EventHeader{DataEngineEventType: eventType, ExternalSourceName: engineName}
}

func (f *fixture) register(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.processor.ProcessDataEngineRegistrationEvent(ctx, payload(t, dataengine.RegistrationEventBody{
		EventHeader: dataengine.EventHeader{DataEngineEventType: dataengine.DataEngineRegistrationEvent},
		Engine:      &dataengine.Engine{QualifiedName: engineName, Name: "ETL engine", EngineType: "DataStage"},
	})))
	guid, err := f.handler.GetAssetManagerGUID(ctx, user, engineName, "test")
	require.NoError(t, err)
	require.NotEmpty(t, guid)
	return guid
}

func (f *fixture) guid(t *testing.T, typeName, qualifiedName string) string {
	t.Helper()
	guid, err := f.handler.FindElementGUID(context.Background(), user, typeName, qualifiedName, "test")
	require.NoError(t, err)
	return guid
}

func (f *fixture) related(t *testing.T, guid, relType string) []string {
	t.Helper()
	rels, err := f.repo.GetRelationships(context.Background(), guid, relType, repository.EndOne)
	require.NoError(t, err)
	var out []string
	for _, r := range rels {
		out = append(out, r.End2.GUID)
	}
	return out
}

func (f *fixture) sendProcess(t *testing.T, qualifiedName, description string) {
	t.Helper()
	require.NoError(t, f.processor.ProcessProcessEvent(context.Background(), payload(t, dataengine.ProcessEventBody{
		EventHeader: header(dataengine.ProcessEvent),
		Process: &dataengine.Process{
			QualifiedName: qualifiedName,
			Name:          qualifiedName,
			Description:   description,
			PortImplementations: []dataengine.PortImplementation{
				{
					QualifiedName: qualifiedName + ".in",
					PortType:      "INPUT_PORT",
					SchemaType: &dataengine.SchemaType{
						QualifiedName: qualifiedName + ".in.schema",
						Attributes: []dataengine.Attribute{
							{QualifiedName: qualifiedName + ".in.schema.id", Position: 0, DataType: "INT"},
							{QualifiedName: qualifiedName + ".in.schema.name", Position: 1, DataType: "VARCHAR"},
						},
					},
				},
				{QualifiedName: qualifiedName + ".out", PortType: "OUTPUT_PORT"},
			},
		},
	})))
}

func TestRegistrationCreatesEngine(t *testing.T) {
	f := newFixture(t)
	guid := f.register(t)

	engine, err := f.repo.GetEntity(context.Background(), guid, repository.EngineType)
	require.NoError(t, err)
	assert.Equal(t, "ETL engine", engine.Properties.GetString(repository.DisplayNameProperty))

	// registering again keeps the first registration
	assert.Equal(t, guid, f.register(t))
}

func TestProcessEventCreatesProcessPortsAndSchema(t *testing.T) {
	f := newFixture(t)
	engineGUID := f.register(t)
	f.sendProcess(t, "nightly-load", "first")

	processGUID := f.guid(t, repository.ProcessType, "nightly-load")
	require.NotEmpty(t, processGUID)
	process, err := f.repo.GetEntity(context.Background(), processGUID, repository.ProcessType)
	require.NoError(t, err)
	assert.Equal(t, engineGUID, process.MetadataCollectionID)

	assert.Len(t, f.related(t, processGUID, repository.ProcessPortRelationship), 2)
	inGUID := f.guid(t, repository.PortImplementationType, "nightly-load.in")
	schemaGUID := f.guid(t, repository.TabularSchemaTypeType, "nightly-load.in.schema")
	assert.Equal(t, []string{schemaGUID}, f.related(t, inGUID, repository.PortSchemaRelationship))
	assert.Len(t, f.related(t, schemaGUID, repository.AttributeForSchemaRelationship), 2)

	f.sendProcess(t, "nightly-load", "second")
	assert.Equal(t, processGUID, f.guid(t, repository.ProcessType, "nightly-load"))
	process, err = f.repo.GetEntity(context.Background(), processGUID, repository.ProcessType)
	require.NoError(t, err)
	assert.Equal(t, "second", process.Properties.GetString(repository.DescriptionProperty))
	assert.Len(t, f.related(t, processGUID, repository.ProcessPortRelationship), 2)
}

func TestProcessEventFromUnknownEngine(t *testing.T) {
	f := newFixture(t)
	err := f.processor.ProcessProcessEvent(context.Background(), payload(t, dataengine.ProcessEventBody{
		EventHeader: header(dataengine.ProcessEvent),
		Process:     &dataengine.Process{QualifiedName: "orphan"},
	}))
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, dataengine.UnknownDataEngine.ID, e.MessageID)
	assert.Equal(t, "externalSourceName", e.ParameterName)
}

func TestPortImplementationAndSchemaTypeEvents(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	ctx := context.Background()
	f.sendProcess(t, "extract", "")

	require.NoError(t, f.processor.ProcessPortImplementationEvent(ctx, payload(t, dataengine.PortImplementationEventBody{
		EventHeader:          header(dataengine.PortImplementationEvent),
		ProcessQualifiedName: "extract",
		PortImplementation:   &dataengine.PortImplementation{QualifiedName: "extract.errors", PortType: "OUTPUT_PORT"},
	})))
	processGUID := f.guid(t, repository.ProcessType, "extract")
	assert.Len(t, f.related(t, processGUID, repository.ProcessPortRelationship), 3)

	require.NoError(t, f.processor.ProcessSchemaTypeEvent(ctx, payload(t, dataengine.SchemaTypeEventBody{
		EventHeader:       header(dataengine.SchemaTypeEvent),
		PortQualifiedName: "extract.errors",
		SchemaType: &dataengine.SchemaType{
			QualifiedName: "extract.errors.schema",
			Attributes:    []dataengine.Attribute{{QualifiedName: "extract.errors.schema.message"}},
		},
	})))
	portGUID := f.guid(t, repository.PortType, "extract.errors")
	schemaGUID := f.guid(t, repository.SchemaTypeType, "extract.errors.schema")
	assert.Equal(t, []string{schemaGUID}, f.related(t, portGUID, repository.PortSchemaRelationship))

	err := f.processor.ProcessPortImplementationEvent(ctx, payload(t, dataengine.PortImplementationEventBody{
		EventHeader:          header(dataengine.PortImplementationEvent),
		ProcessQualifiedName: "missing",
		PortImplementation:   &dataengine.PortImplementation{QualifiedName: "missing.in"},
	}))
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, dataengine.UnknownReferencedElement.ID, e.MessageID)

	require.NoError(t, f.processor.ProcessDeleteSchemaTypeEvent(ctx, payload(t, dataengine.DeleteEventBody{
		EventHeader:   header(dataengine.DeleteSchemaTypeEvent),
		QualifiedName: "extract.errors.schema",
	})))
	assert.Empty(t, f.guid(t, repository.SchemaTypeType, "extract.errors.schema"))
	assert.Empty(t, f.guid(t, repository.SchemaAttributeType, "extract.errors.schema.message"))
}

func TestDataFlowsEvent(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	ctx := context.Background()
	f.sendProcess(t, "extract", "")
	f.sendProcess(t, "load", "")

	flows := dataengine.DataFlowsEventBody{
		EventHeader: header(dataengine.DataFlowsEvent),
		DataFlows: []dataengine.DataFlow{
			{DataSupplier: "extract.out", DataConsumer: "load.in", QualifiedName: "extract-to-load", Formula: "copy"},
		},
	}
	require.NoError(t, f.processor.ProcessDataFlowsEvent(ctx, payload(t, flows)))
	flows.DataFlows[0].Formula = "transform"
	require.NoError(t, f.processor.ProcessDataFlowsEvent(ctx, payload(t, flows)))

	supplierGUID := f.guid(t, repository.PortType, "extract.out")
	consumerGUID := f.guid(t, repository.PortType, "load.in")
	assert.Equal(t, []string{consumerGUID}, f.related(t, supplierGUID, repository.DataFlowRelationship))
	flow, err := f.handler.GetDataFlow(ctx, user, supplierGUID, consumerGUID, "extract-to-load", "test")
	require.NoError(t, err)
	require.NotNil(t, flow)
	assert.Equal(t, "transform", flow.DataFlowProperties.Formula)

	err = f.processor.ProcessDataFlowsEvent(ctx, payload(t, dataengine.DataFlowsEventBody{
		EventHeader: header(dataengine.DataFlowsEvent),
		DataFlows: []dataengine.DataFlow{
			{DataSupplier: "extract.out", DataConsumer: "nowhere"},
			{DataSupplier: "extract.in", DataConsumer: "load.out", QualifiedName: "second"},
		},
	}))
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))
	assert.Len(t, f.related(t, f.guid(t, repository.PortType, "extract.in"), repository.DataFlowRelationship), 1)
}

func TestProcessHierarchyEvent(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	f.sendProcess(t, "job", "")
	f.sendProcess(t, "job.step1", "")

	require.NoError(t, f.processor.ProcessProcessHierarchyEvent(context.Background(), payload(t, dataengine.ProcessHierarchyEventBody{
		EventHeader:      header(dataengine.ProcessHierarchyEvent),
		ProcessHierarchy: &dataengine.ProcessHierarchy{ParentProcess: "job", ChildProcess: "job.step1"},
	})))
	rels, err := f.repo.GetRelationships(context.Background(), f.guid(t, repository.ProcessType, "job"),
		repository.ProcessHierarchyRelationship, repository.EndOne)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, f.guid(t, repository.ProcessType, "job.step1"), rels[0].End2.GUID)
}

func TestDatabaseEvents(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	ctx := context.Background()

	require.NoError(t, f.processor.ProcessDatabaseEvent(ctx, payload(t, dataengine.DatabaseEventBody{
		EventHeader: header(dataengine.DatabaseEvent),
		Database: &dataengine.Database{
			QualifiedName:  "sales-db",
			DatabaseType:   "PostgreSQL",
			NetworkAddress: "db.example.com:5432",
			Protocol:       "jdbc",
			DatabaseSchema: &dataengine.DatabaseSchema{QualifiedName: "sales-db.public"},
		},
	})))
	dbGUID := f.guid(t, repository.DatabaseType, "sales-db")
	schemaGUID := f.guid(t, repository.DeployedDatabaseSchemaType, "sales-db.public")
	assert.Equal(t, []string{schemaGUID}, f.related(t, dbGUID, repository.DataContentForDataSetRelationship))

	connectionGUID := f.guid(t, repository.ConnectionType, "sales-db::connection")
	assert.Equal(t, []string{dbGUID}, f.related(t, connectionGUID, repository.ConnectionToAssetRelationship))
	endpointGUID := f.guid(t, repository.EndpointType, "sales-db::endpoint")
	assert.Equal(t, []string{connectionGUID}, f.related(t, endpointGUID, repository.ConnectionEndpointRelationship))

	require.NoError(t, f.processor.ProcessRelationalTableEvent(ctx, payload(t, dataengine.RelationalTableEventBody{
		EventHeader:                 header(dataengine.RelationalTableEvent),
		DatabaseSchemaQualifiedName: "sales-db.public",
		RelationalTable: &dataengine.RelationalTable{
			QualifiedName: "sales-db.public.orders",
			Columns: []dataengine.Attribute{
				{QualifiedName: "sales-db.public.orders.id", DataType: "INT"},
				{QualifiedName: "sales-db.public.orders.total", DataType: "NUMERIC", Position: 1},
			},
		},
	})))
	tableGUID := f.guid(t, repository.RelationalTableType, "sales-db.public.orders")
	assert.Len(t, f.related(t, tableGUID, repository.AttributeForSchemaRelationship), 2)

	require.NoError(t, f.processor.ProcessDeleteDatabaseSchemaEvent(ctx, payload(t, dataengine.DeleteEventBody{
		EventHeader: header(dataengine.DeleteDatabaseSchemaEvent),
		GUID:        schemaGUID,
	})))
	assert.Empty(t, f.guid(t, repository.RelationalTableType, "sales-db.public.orders"))
	assert.Empty(t, f.guid(t, repository.RelationalColumnType, "sales-db.public.orders.total"))
	assert.NotEmpty(t, f.guid(t, repository.DatabaseType, "sales-db"))

	for _, event := range []struct {
		fn            func(context.Context, []byte) error
		qualifiedName string
	}{
		{f.processor.ProcessDeleteConnectionEvent, "sales-db::connection"},
		{f.processor.ProcessDeleteEndpointEvent, "sales-db::endpoint"},
		{f.processor.ProcessDeleteDatabaseEvent, "sales-db"},
	} {
		require.NoError(t, event.fn(ctx, payload(t, dataengine.DeleteEventBody{
			EventHeader: header(dataengine.DeleteDatabaseEvent), QualifiedName: event.qualifiedName,
		})))
		assert.Empty(t, f.guid(t, repository.ReferenceableType, event.qualifiedName))
	}
}

func TestDataFileEvent(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	ctx := context.Background()

	require.NoError(t, f.processor.ProcessDataFileEvent(ctx, payload(t, dataengine.DataFileEventBody{
		EventHeader: header(dataengine.DataFileEvent),
		DataFile: &dataengine.DataFile{
			QualifiedName: "file:///data/sales/q1.csv",
			FileType:      "CSV",
			PathName:      "/data/sales/q1.csv",
			Columns:       []dataengine.Attribute{{QualifiedName: "file:///data/sales/q1.csv#region"}},
		},
	})))
	fileGUID := f.guid(t, repository.CSVFileType, "file:///data/sales/q1.csv")
	require.NotEmpty(t, fileGUID)
	file, err := f.repo.GetEntity(ctx, fileGUID, "")
	require.NoError(t, err)
	assert.Equal(t, repository.CSVFileType, file.Type.TypeName)

	folderGUID := f.guid(t, repository.FileFolderType, "/data/sales")
	assert.Equal(t, []string{fileGUID}, f.related(t, folderGUID, repository.NestedFileRelationship))
	schemaGUID := f.guid(t, repository.TabularSchemaTypeType, "file:///data/sales/q1.csv::schema")
	assert.Equal(t, []string{schemaGUID}, f.related(t, fileGUID, repository.AssetSchemaTypeRelationship))

	require.NoError(t, f.processor.ProcessDeleteDataFileEvent(ctx, payload(t, dataengine.DeleteEventBody{
		EventHeader: header(dataengine.DeleteDataFileEvent), QualifiedName: "file:///data/sales/q1.csv",
	})))
	assert.Empty(t, f.guid(t, repository.TabularColumnType, "file:///data/sales/q1.csv#region"))
	require.NoError(t, f.processor.ProcessDeleteFolderEvent(ctx, payload(t, dataengine.DeleteEventBody{
		EventHeader: header(dataengine.DeleteFolderEvent), GUID: folderGUID,
	})))
	assert.Empty(t, f.guid(t, repository.FileFolderType, "/data/sales"))
}

func TestTopicEvents(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	ctx := context.Background()

	require.NoError(t, f.processor.ProcessTopicEvent(ctx, payload(t, dataengine.TopicEventBody{
		EventHeader: header(dataengine.TopicEvent),
		Topic: &dataengine.Topic{
			QualifiedName: "orders-topic",
			TopicType:     "kafka",
			EventTypes: []dataengine.EventTypeDef{
				{QualifiedName: "orders-topic.created", Attributes: []dataengine.Attribute{{QualifiedName: "orders-topic.created.id"}}},
			},
		},
	})))
	topicGUID := f.guid(t, repository.KafkaTopicType, "orders-topic")
	require.NotEmpty(t, topicGUID)

	require.NoError(t, f.processor.ProcessEventTypeEvent(ctx, payload(t, dataengine.EventTypeEventBody{
		EventHeader:        header(dataengine.EventTypeEvent),
		TopicQualifiedName: "orders-topic",
		EventType:          &dataengine.EventTypeDef{QualifiedName: "orders-topic.cancelled"},
	})))
	assert.Len(t, f.related(t, topicGUID, repository.AssetSchemaTypeRelationship), 2)

	require.NoError(t, f.processor.ProcessDeleteEventTypeEvent(ctx, payload(t, dataengine.DeleteEventBody{
		EventHeader: header(dataengine.DeleteEventTypeEvent), QualifiedName: "orders-topic.cancelled",
	})))
	assert.Len(t, f.related(t, topicGUID, repository.AssetSchemaTypeRelationship), 1)

	require.NoError(t, f.processor.ProcessDeleteTopicEvent(ctx, payload(t, dataengine.DeleteEventBody{
		EventHeader: header(dataengine.DeleteTopicEvent), QualifiedName: "orders-topic",
	})))
	assert.Empty(t, f.guid(t, repository.EventTypeType, "orders-topic.created"))
	assert.Empty(t, f.guid(t, repository.EventSchemaAttributeType, "orders-topic.created.id"))
}

func TestProcessingStateEvent(t *testing.T) {
	f := newFixture(t)
	engineGUID := f.register(t)
	ctx := context.Background()

	for _, state := range []map[string]int64{{"jobs": 100}, {"tables": 200}} {
		require.NoError(t, f.processor.ProcessProcessingStateEvent(ctx, payload(t, dataengine.ProcessingStateEventBody{
			EventHeader:     header(dataengine.DataEngineProcessingStateEvent),
			ProcessingState: &dataengine.ProcessingState{SyncDatesByKey: state},
		})))
	}
	state, err := f.handler.GetProcessingState(ctx, user, engineGUID, "test")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"jobs": 100, "tables": 200}, state)

	err = f.processor.ProcessProcessingStateEvent(ctx, payload(t, dataengine.ProcessingStateEventBody{
		EventHeader:     dataengine.EventHeader{DataEngineEventType: dataengine.DataEngineProcessingStateEvent},
		ProcessingState: &dataengine.ProcessingState{SyncDatesByKey: map[string]int64{"jobs": 1}},
	}))
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))
}

func TestDeleteEvents(t *testing.T) {
	f := newFixture(t)
	engineGUID := f.register(t)
	ctx := context.Background()
	f.sendProcess(t, "cleanup", "")

	require.NoError(t, f.processor.ProcessDeletePortImplementationEvent(ctx, payload(t, dataengine.DeleteEventBody{
		EventHeader: header(dataengine.DeletePortImplementationEvent), QualifiedName: "cleanup.out",
	})))
	assert.Empty(t, f.guid(t, repository.PortType, "cleanup.out"))

	deleteProcess := payload(t, dataengine.DeleteEventBody{
		EventHeader: header(dataengine.DeleteProcessEvent), QualifiedName: "cleanup",
	})
	require.NoError(t, f.processor.ProcessDeleteProcessEvent(ctx, deleteProcess))
	assert.Empty(t, f.guid(t, repository.ProcessType, "cleanup"))
	assert.NoError(t, f.processor.ProcessDeleteProcessEvent(ctx, deleteProcess))

	err := f.processor.ProcessDeleteProcessEvent(ctx, payload(t, dataengine.DeleteEventBody{
		EventHeader: header(dataengine.DeleteProcessEvent),
	}))
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, dataengine.NoEventBody.ID, e.MessageID)

	require.NoError(t, f.processor.ProcessDeleteDataEngineEvent(ctx, payload(t, dataengine.DeleteEventBody{
		EventHeader: dataengine.EventHeader{DataEngineEventType: dataengine.DeleteDataEngineEvent},
		GUID:        engineGUID,
	})))
	guid, err := f.handler.GetAssetManagerGUID(ctx, user, engineName, "test")
	require.NoError(t, err)
	assert.Empty(t, guid)
}
