// Package auditlog records the significant actions and failures of an access service in a
// form operators can act on: each record carries a message id, the system action taken and
// the action expected of the user.
package auditlog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/pkg/errors"
)

// Severities used by audit messages.
const (
	SeverityInfo      = "Information"
	SeverityStartup   = "Startup"
	SeverityShutdown  = "Shutdown"
	SeverityError     = "Error"
	SeverityException = "Exception"
	SeverityEvent     = "Event"
)

// ComponentDescription identifies the component writing to an audit log.
type ComponentDescription struct {
	ID          int    `json:"componentId"`
	Name        string `json:"componentName"`
	Description string `json:"componentDescription"`
	WikiURL     string `json:"componentWikiURL,omitempty"`
}

// Record is one audit log entry.
type Record struct {
	Time          time.Time `json:"time"`
	ServerName    string    `json:"serverName"`
	ComponentID   int       `json:"componentId"`
	ComponentName string    `json:"componentName"`
	Severity      string    `json:"severity"`
	Action        string    `json:"actionDescription"`
	MessageID     string    `json:"messageId"`
	Message       string    `json:"message"`
	Parameters    []string  `json:"parameters,omitempty"`
	SystemAction  string    `json:"systemAction,omitempty"`
	UserAction    string    `json:"userAction,omitempty"`
	Exception     string    `json:"exception,omitempty"`
	ExceptionKind string    `json:"exceptionClassName,omitempty"`
}

// Destination stores audit records.
type Destination interface {
	Write(ctx context.Context, record Record) error
}

// AuditLog writes records for one component of one server to every destination.
type AuditLog struct {
	serverName   string
	component    ComponentDescription
	destinations []Destination
	logger       *zap.Logger
}

// New creates an audit log. Destination failures are reported to logger.
func New(serverName string, component ComponentDescription, logger *zap.Logger, destinations ...Destination) *AuditLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLog{serverName: serverName, component: component, destinations: destinations, logger: logger}
}

// NewChild returns an audit log for a sub component sharing the same destinations.
func (a *AuditLog) NewChild(component ComponentDescription) *AuditLog {
	return &AuditLog{serverName: a.serverName, component: component, destinations: a.destinations, logger: a.logger}
}

// Component describes the owner of the log.
func (a *AuditLog) Component() ComponentDescription {
	return a.component
}

// LogMessage records an informational or error message.
func (a *AuditLog) LogMessage(action string, def errors.MessageDefinition, params ...string) {
	if a == nil {
		return
	}
	a.write(a.record(action, def, params))
}

// LogException records a message together with the error that caused it.
func (a *AuditLog) LogException(action string, def errors.MessageDefinition, err error, params ...string) {
	if a == nil {
		return
	}
	r := a.record(action, def, params)
	if r.Severity == "" || r.Severity == SeverityInfo {
		r.Severity = SeverityException
	}
	if err != nil {
		r.Exception = err.Error()
		r.ExceptionKind = string(errors.KindOf(err))
	}
	a.write(r)
}

func (a *AuditLog) record(action string, def errors.MessageDefinition, params []string) Record {
	severity := def.Severity
	if severity == "" {
		severity = SeverityInfo
	}
	return Record{
		Time:          time.Now().UTC(),
		ServerName:    a.serverName,
		ComponentID:   a.component.ID,
		ComponentName: a.component.Name,
		Severity:      severity,
		Action:        action,
		MessageID:     def.ID,
		Message:       def.Format(params...),
		Parameters:    params,
		SystemAction:  def.SystemAction,
		UserAction:    def.UserAction,
	}
}

func (a *AuditLog) write(r Record) {
	for _, d := range a.destinations {
		if err := d.Write(context.Background(), r); err != nil {
			a.logger.Error("failed to write audit record",
				zap.String("messageId", r.MessageID),
				zap.Error(err))
		}
	}
}
