package dataengine

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/auditlog"
	"github.com/MihaiIliescu/egeria/internal/messaging"
	"github.com/MihaiIliescu/egeria/pkg/metrics"
)

// defaultTopic labels events that did not arrive through a messaging.Consumer.
const defaultTopic = "inTopic"

var tracer = otel.Tracer("github.com/MihaiIliescu/egeria/internal/dataengine")

// EventProcessor handles each kind of data engine event. Every method receives the whole
// event payload.
type EventProcessor interface {
	ProcessDataEngineRegistrationEvent(ctx context.Context, payload []byte) error
	ProcessDataFlowsEvent(ctx context.Context, payload []byte) error
	ProcessPortImplementationEvent(ctx context.Context, payload []byte) error
	ProcessProcessEvent(ctx context.Context, payload []byte) error
	ProcessSchemaTypeEvent(ctx context.Context, payload []byte) error
	ProcessProcessHierarchyEvent(ctx context.Context, payload []byte) error
	ProcessDeleteProcessEvent(ctx context.Context, payload []byte) error
	ProcessDeletePortImplementationEvent(ctx context.Context, payload []byte) error
	ProcessDeleteSchemaTypeEvent(ctx context.Context, payload []byte) error
	ProcessDeleteDataEngineEvent(ctx context.Context, payload []byte) error
	ProcessDatabaseEvent(ctx context.Context, payload []byte) error
	ProcessDatabaseSchemaEvent(ctx context.Context, payload []byte) error
	ProcessRelationalTableEvent(ctx context.Context, payload []byte) error
	ProcessDataFileEvent(ctx context.Context, payload []byte) error
	ProcessDeleteDatabaseEvent(ctx context.Context, payload []byte) error
	ProcessDeleteDatabaseSchemaEvent(ctx context.Context, payload []byte) error
	ProcessDeleteRelationalTableEvent(ctx context.Context, payload []byte) error
	ProcessDeleteDataFileEvent(ctx context.Context, payload []byte) error
	ProcessDeleteFolderEvent(ctx context.Context, payload []byte) error
	ProcessDeleteConnectionEvent(ctx context.Context, payload []byte) error
	ProcessDeleteEndpointEvent(ctx context.Context, payload []byte) error
	ProcessTopicEvent(ctx context.Context, payload []byte) error
	ProcessEventTypeEvent(ctx context.Context, payload []byte) error
	ProcessDeleteTopicEvent(ctx context.Context, payload []byte) error
	ProcessDeleteEventTypeEvent(ctx context.Context, payload []byte) error
	ProcessProcessingStateEvent(ctx context.Context, payload []byte) error
}

type eventHandler func(ctx context.Context, payload []byte) error

// InTopicListener reads the header of each in topic event and passes the event to the
// matching processor method. Failures are written to the audit log; the listener never
// returns them so one bad event cannot stall the topic.
type InTopicListener struct {
	auditLog *auditlog.AuditLog
	logger   *zap.Logger
	handlers map[EventType]eventHandler
}

// NewInTopicListener creates a listener that dispatches to processor.
func NewInTopicListener(processor EventProcessor, auditLog *auditlog.AuditLog, logger *zap.Logger) *InTopicListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InTopicListener{
		auditLog: auditLog,
		logger:   logger.Named("dataengine"),
		handlers: map[EventType]eventHandler{
			DataEngineRegistrationEvent:    processor.ProcessDataEngineRegistrationEvent,
			DataFlowsEvent:                 processor.ProcessDataFlowsEvent,
			PortImplementationEvent:        processor.ProcessPortImplementationEvent,
			ProcessEvent:                   processor.ProcessProcessEvent,
			SchemaTypeEvent:                processor.ProcessSchemaTypeEvent,
			ProcessHierarchyEvent:          processor.ProcessProcessHierarchyEvent,
			DeleteProcessEvent:             processor.ProcessDeleteProcessEvent,
			DeletePortImplementationEvent:  processor.ProcessDeletePortImplementationEvent,
			DeleteSchemaTypeEvent:          processor.ProcessDeleteSchemaTypeEvent,
			DeleteDataEngineEvent:          processor.ProcessDeleteDataEngineEvent,
			DatabaseEvent:                  processor.ProcessDatabaseEvent,
			DatabaseSchemaEvent:            processor.ProcessDatabaseSchemaEvent,
			RelationalTableEvent:           processor.ProcessRelationalTableEvent,
			DataFileEvent:                  processor.ProcessDataFileEvent,
			DeleteDatabaseEvent:            processor.ProcessDeleteDatabaseEvent,
			DeleteDatabaseSchemaEvent:      processor.ProcessDeleteDatabaseSchemaEvent,
			DeleteRelationalTableEvent:     processor.ProcessDeleteRelationalTableEvent,
			DeleteDataFileEvent:            processor.ProcessDeleteDataFileEvent,
			DeleteFolderEvent:              processor.ProcessDeleteFolderEvent,
			DeleteConnectionEvent:          processor.ProcessDeleteConnectionEvent,
			DeleteEndpointEvent:            processor.ProcessDeleteEndpointEvent,
			TopicEvent:                     processor.ProcessTopicEvent,
			EventTypeEvent:                 processor.ProcessEventTypeEvent,
			DeleteTopicEvent:               processor.ProcessDeleteTopicEvent,
			DeleteEventTypeEvent:           processor.ProcessDeleteEventTypeEvent,
			DataEngineProcessingStateEvent: processor.ProcessProcessingStateEvent,
		},
	}
}

// ProcessEvent handles one raw event.
func (l *InTopicListener) ProcessEvent(ctx context.Context, payload []byte) error {
	l.process(ctx, defaultTopic, payload)
	return nil
}

// HandleMessage lets the listener subscribe directly to a messaging.Consumer.
func (l *InTopicListener) HandleMessage(ctx context.Context, msg *messaging.ReceivedMessage) error {
	l.process(ctx, msg.Topic, msg.Value)
	return nil
}

func (l *InTopicListener) process(ctx context.Context, topic string, payload []byte) {
	const action = "process Data Engine inTopic Event"

	if len(payload) == 0 {
		l.logger.Debug("ignoring empty in topic event", zap.String("topic", topic))
		return
	}
	var header EventHeader
	if err := json.Unmarshal(payload, &header); err != nil {
		metrics.TopicEvents.WithLabelValues(topic, "", "unreadable").Inc()
		l.auditLog.LogException(action, ProcessEventException, err, err.Error())
		return
	}
	eventType := string(header.DataEngineEventType)
	handle, ok := l.handlers[header.DataEngineEventType]
	if !ok {
		metrics.TopicEvents.WithLabelValues(topic, eventType, "ignored").Inc()
		l.logger.Debug("ignoring in topic event of unknown type", zap.String("eventType", eventType))
		return
	}
	ctx, span := tracer.Start(ctx, "dataengine."+eventType)
	defer span.End()
	span.SetAttributes(
		attribute.String("messaging.destination", topic),
		attribute.String("dataengine.external_source", header.ExternalSourceName))

	if err := handle(ctx, payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.TopicEvents.WithLabelValues(topic, eventType, "failed").Inc()
		l.auditLog.LogException(action, EventProcessingFailure, err, eventType, header.ExternalSourceName, err.Error())
		return
	}
	metrics.TopicEvents.WithLabelValues(topic, eventType, "ok").Inc()
}
