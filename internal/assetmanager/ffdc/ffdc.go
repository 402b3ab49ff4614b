// Package ffdc holds the audit log messages and error messages of the asset manager service.
package ffdc

import (
	"net/http"

	"github.com/MihaiIliescu/egeria/internal/auditlog"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

// ServiceName is the full name of the access service.
const ServiceName = "Asset Manager OMAS"

// ServiceURLName is the name of the service in REST URLs.
const ServiceURLName = "asset-manager"

// MessageIDPrefix starts every message id of the service.
const MessageIDPrefix = "OMAS-ASSET-MANAGER"

// Component describes the service in audit records.
var Component = auditlog.ComponentDescription{
	ID:          1003,
	Name:        ServiceName,
	Description: "Manages the exchange of metadata, including lineage, with third party asset managers.",
	WikiURL:     "https://egeria-project.org/services/omas/asset-manager/overview/",
}

// Audit log messages.
var (
	ServiceInitializing = errors.MessageDefinition{
		ID: "OMAS-ASSET-MANAGER-0001", Severity: auditlog.SeverityStartup,
		Template:     "The Asset Manager Open Metadata Access Service (OMAS) is initializing a new server instance",
		SystemAction: "The local server has started up a new instance of the Asset Manager OMAS.",
		UserAction:   "No action is required.",
	}
	ServiceInitialized = errors.MessageDefinition{
		ID: "OMAS-ASSET-MANAGER-0002", Severity: auditlog.SeverityStartup,
		Template:     "The Asset Manager Open Metadata Access Service (OMAS) has initialized a new instance for server {0}",
		SystemAction: "The access service has completed initialization of a new instance.",
		UserAction:   "No action is required.",
	}
	ServiceShutdown = errors.MessageDefinition{
		ID: "OMAS-ASSET-MANAGER-0003", Severity: auditlog.SeverityShutdown,
		Template:     "The Asset Manager Open Metadata Access Service (OMAS) is shutting down its instance for server {0}",
		SystemAction: "The local server has requested shut down of an Asset Manager OMAS instance.",
		UserAction:   "No action is required.",
	}
	ServiceInstanceFailure = errors.MessageDefinition{
		ID: "OMAS-ASSET-MANAGER-0004", Severity: auditlog.SeverityError,
		Template:     "The Asset Manager Open Metadata Access Service (OMAS) is unable to initialize a new instance; error message is {0}",
		SystemAction: "The access service detected an error during the start up of a specific server instance. Its services are not available for the server.",
		UserAction:   "Review the error message and any other reported failures to determine the cause of the problem. Once this is resolved, restart the server.",
	}
	UnexpectedExceptionAudit = errors.MessageDefinition{
		ID: "OMAS-ASSET-MANAGER-0005", Severity: auditlog.SeverityException,
		Template:     "An unexpected {0} exception was caught by {1}; error message was {2}",
		SystemAction: "The request returned an exception to the caller.",
		UserAction:   "Review the error message and the server logs to determine the cause of the problem.",
	}
	OutTopicEventFailure = errors.MessageDefinition{
		ID: "OMAS-ASSET-MANAGER-0006", Severity: auditlog.SeverityException,
		Template:     "The Asset Manager OMAS was unable to publish a {0} event for element {1}; error message was {2}",
		SystemAction: "The change was saved but the event describing it was not sent to the out topic.",
		UserAction:   "Check the event bus is available. Asset managers that missed the event must refresh the element.",
	}
	OutTopicPublisherStart = errors.MessageDefinition{
		ID: "OMAS-ASSET-MANAGER-0007", Severity: auditlog.SeverityStartup,
		Template:     "The Asset Manager OMAS for server {0} is publishing events to topic {1}",
		SystemAction: "The out topic publisher is ready.",
		UserAction:   "No action is required.",
	}
)

// Error messages.
var (
	AssetManagerNotHome = errors.MessageDefinition{
		ID: "OMAS-ASSET-MANAGER-400-001", HTTPCode: http.StatusBadRequest,
		Template:     "The {0} element {1} is owned by metadata collection {2} and may not be changed by asset manager {3} on the {4} operation",
		SystemAction: "The system is unable to update an element that is mastered by another asset manager.",
		UserAction:   "Route the change through the asset manager that owns the element.",
	}
	NoQualifiedName = errors.MessageDefinition{
		ID: "OMAS-ASSET-MANAGER-400-002", HTTPCode: http.StatusBadRequest,
		Template:     "No qualified name was supplied for the new {0} element on the {1} operation",
		SystemAction: "The system is unable to create an element without a unique name.",
		UserAction:   "Supply a qualifiedName in the element properties.",
	}
	UnknownAssetManager = errors.MessageDefinition{
		ID: "OMAS-ASSET-MANAGER-400-003", HTTPCode: http.StatusBadRequest,
		Template:     "The asset manager {0} ({1}) named on the {2} operation is not known to server {3}",
		SystemAction: "The system is unable to correlate the element with an unregistered asset manager.",
		UserAction:   "Register the asset manager before exchanging metadata with it.",
	}
	SelfReferencingRelationship = errors.MessageDefinition{
		ID: "OMAS-ASSET-MANAGER-400-004", HTTPCode: http.StatusBadRequest,
		Template:     "The {0} relationship requested on the {1} operation links element {2} to itself",
		SystemAction: "The system is unable to link an element to itself with this relationship type.",
		UserAction:   "Correct the unique identifiers passed on the request.",
	}
	DuplicateRelationship = errors.MessageDefinition{
		ID: "OMAS-ASSET-MANAGER-400-005", HTTPCode: http.StatusBadRequest,
		Template:     "A {0} relationship with qualified name {1} already links element {2} to element {3} as relationship {4}",
		SystemAction: "The system rejects a second identical lineage relationship between the same elements.",
		UserAction:   "Update the existing relationship or use a different qualified name.",
	}
	NoOutTopic = errors.MessageDefinition{
		ID: "OMAS-ASSET-MANAGER-500-001", HTTPCode: http.StatusInternalServerError,
		Template:     "The Asset Manager OMAS in server {0} has no out topic configured; the {1} operation cannot return a connection",
		SystemAction: "The server is running without an event bus so asset managers cannot listen for changes.",
		UserAction:   "Configure the kafka section of the platform configuration and restart the server.",
	}
)

// AuditMessages lists every audit message of the service.
func AuditMessages() []errors.MessageDefinition {
	return []errors.MessageDefinition{
		ServiceInitializing, ServiceInitialized, ServiceShutdown, ServiceInstanceFailure,
		UnexpectedExceptionAudit, OutTopicEventFailure, OutTopicPublisherStart,
	}
}

// ErrorMessages lists every error message of the service.
func ErrorMessages() []errors.MessageDefinition {
	return []errors.MessageDefinition{
		AssetManagerNotHome, NoQualifiedName, UnknownAssetManager, SelfReferencingRelationship,
		DuplicateRelationship, NoOutTopic,
	}
}
