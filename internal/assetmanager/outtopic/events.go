// Package outtopic publishes the changes made through the asset manager service so that
// asset managers can keep their copies in step.
package outtopic

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/ffdc"
	"github.com/MihaiIliescu/egeria/internal/auditlog"
	"github.com/MihaiIliescu/egeria/internal/messaging"
	"github.com/MihaiIliescu/egeria/pkg/metrics"
)

// EventType classifies an out topic event.
type EventType string

const (
	NewElementCreated   EventType = "NEW_ELEMENT_CREATED"
	ElementUpdated      EventType = "ELEMENT_UPDATED"
	ElementDeleted      EventType = "ELEMENT_DELETED"
	ElementClassified   EventType = "ELEMENT_CLASSIFIED"
	ElementDeclassified EventType = "ELEMENT_DECLASSIFIED"
	NewRelationship     EventType = "NEW_RELATIONSHIP"
	RelationshipUpdated EventType = "RELATIONSHIP_UPDATED"
	RelationshipDeleted EventType = "RELATIONSHIP_DELETED"
)

// EventVersion is the version of the event format.
const EventVersion = 1

// Event describes one change. Relationship events carry both ends.
type Event struct {
	EventVersion       int                    `json:"eventVersion"`
	EventType          EventType              `json:"eventType"`
	EventTime          time.Time              `json:"eventTime"`
	ServerName         string                 `json:"serverName"`
	ElementHeader      elements.ElementHeader `json:"elementHeader"`
	ClassificationName string                 `json:"classificationName,omitempty"`
	EndOneElement      *elements.ElementStub  `json:"endOneElementHeader,omitempty"`
	EndTwoElement      *elements.ElementStub  `json:"endTwoElementHeader,omitempty"`
	ElementProperties  map[string]any         `json:"elementProperties,omitempty"`
}

// Publisher sends events to the out topic.
type Publisher interface {
	Publish(ctx context.Context, event *Event)
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(context.Context, *Event) {}

// TopicPublisher writes events to a messaging topic keyed by element GUID. Failures never
// reach the caller; they are recorded in the audit log since the change itself succeeded.
type TopicPublisher struct {
	producer messaging.Producer
	topic    messaging.Topic
	auditLog *auditlog.AuditLog
	logger   *zap.Logger
}

// NewTopicPublisher creates a publisher for topic.
func NewTopicPublisher(producer messaging.Producer, topic string, auditLog *auditlog.AuditLog, logger *zap.Logger) *TopicPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TopicPublisher{producer: producer, topic: messaging.Topic(topic), auditLog: auditLog, logger: logger}
}

// Topic returns the topic events are written to.
func (p *TopicPublisher) Topic() string { return string(p.topic) }

// Publish implements Publisher.
func (p *TopicPublisher) Publish(ctx context.Context, event *Event) {
	if event == nil {
		return
	}
	if event.EventVersion == 0 {
		event.EventVersion = EventVersion
	}
	if event.EventTime.IsZero() {
		event.EventTime = time.Now().UTC()
	}
	err := p.producer.Publish(ctx, p.topic, event.ElementHeader.GUID, event)
	if err != nil {
		metrics.OutTopicEvents.WithLabelValues(ffdc.ServiceURLName, string(event.EventType), "error").Inc()
		p.logger.Error("failed to publish out topic event",
			zap.String("eventType", string(event.EventType)),
			zap.String("guid", event.ElementHeader.GUID),
			zap.Error(err))
		p.auditLog.LogException("publish out topic event", ffdc.OutTopicEventFailure, err,
			string(event.EventType), event.ElementHeader.GUID, err.Error())
		return
	}
	metrics.OutTopicEvents.WithLabelValues(ffdc.ServiceURLName, string(event.EventType), "ok").Inc()
	p.logger.Debug("published out topic event",
		zap.String("eventType", string(event.EventType)),
		zap.String("guid", event.ElementHeader.GUID))
}
