package dataengine

import (
	"net/http"

	"github.com/MihaiIliescu/egeria/internal/auditlog"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

// ServiceName is the full name of the data engine service.
const ServiceName = "Data Engine OMAS"

// Component describes the in topic listener in audit records.
var Component = auditlog.ComponentDescription{
	ID:          1004,
	Name:        ServiceName,
	Description: "Accepts lineage and asset descriptions from data engines through the in topic.",
	WikiURL:     "https://egeria-project.org/services/omas/data-engine/overview/",
}

// Audit log messages.
var (
	InTopicListenerStarted = errors.MessageDefinition{
		ID: "OMAS-DATA-ENGINE-0001", Severity: auditlog.SeverityStartup,
		Template:     "The Data Engine OMAS for server {0} is listening for events on topic {1}",
		SystemAction: "The in topic listener is subscribed and will process data engine events.",
		UserAction:   "No action is required.",
	}
	ProcessEventException = errors.MessageDefinition{
		ID: "OMAS-DATA-ENGINE-0002", Severity: auditlog.SeverityException,
		Template:     "The Data Engine OMAS was unable to parse an in topic event; error message was {0}",
		SystemAction: "The event was discarded.",
		UserAction:   "Check the data engine is sending well formed events.",
	}
	EventProcessingFailure = errors.MessageDefinition{
		ID: "OMAS-DATA-ENGINE-0003", Severity: auditlog.SeverityException,
		Template:     "The Data Engine OMAS was unable to process a {0} event from {1}; error message was {2}",
		SystemAction: "The event was discarded. Metadata already stored for the event is left in place.",
		UserAction:   "Correct the cause of the error and have the data engine send the event again.",
	}
)

// Error messages.
var (
	NoEventBody = errors.MessageDefinition{
		ID: "OMAS-DATA-ENGINE-400-001", HTTPCode: http.StatusBadRequest,
		Template:     "The {0} event carries no {1}",
		SystemAction: "The system is unable to process an event without its payload.",
		UserAction:   "Correct the data engine so that it fills in the event.",
	}
	UnknownDataEngine = errors.MessageDefinition{
		ID: "OMAS-DATA-ENGINE-400-002", HTTPCode: http.StatusBadRequest,
		Template:     "The data engine {0} named on the {1} event has not been registered with server {2}",
		SystemAction: "The system is unable to record metadata for an unregistered data engine.",
		UserAction:   "Send a registration event for the data engine first.",
	}
	UnknownReferencedElement = errors.MessageDefinition{
		ID: "OMAS-DATA-ENGINE-400-003", HTTPCode: http.StatusBadRequest,
		Template:     "The {0} {1} referenced by the {2} event does not exist",
		SystemAction: "The system is unable to link to an element that has not been created.",
		UserAction:   "Send the event that creates the referenced element first.",
	}
)
