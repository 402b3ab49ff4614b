// Package errors carries the checked exception model shared by every access service.
// All failures are reported as one of three kinds: an invalid parameter, an unauthorized
// user or a problem in the property (metadata) server.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// Standard error functions
var (
	Is     = errors.Is
	As     = errors.As
	Join   = errors.Join
	Unwrap = errors.Unwrap
)

// Kind is the exception category. The values match the exception class names that OMAS
// clients expect in the exceptionClassName response field.
type Kind string

const (
	KindInvalidParameter  Kind = "InvalidParameterException"
	KindUserNotAuthorized Kind = "UserNotAuthorizedException"
	KindPropertyServer    Kind = "PropertyServerException"
)

// HTTPCode returns the default HTTP code for the kind.
func (k Kind) HTTPCode() int {
	switch k {
	case KindInvalidParameter:
		return http.StatusBadRequest
	case KindUserNotAuthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a checked OMAS exception.
type Error struct {
	Kind Kind `json:"kind"`
	// HTTPCode is the related HTTP code reported back to the caller.
	HTTPCode int `json:"relatedHTTPCode"`
	// ReportingClass names the component that raised the exception.
	ReportingClass string `json:"reportingClass,omitempty"`
	// ReportingAction is usually the method name of the failing call.
	ReportingAction string            `json:"actionDescription,omitempty"`
	MessageID       string            `json:"messageId,omitempty"`
	Message         string            `json:"message"`
	Parameters      []string          `json:"parameters,omitempty"`
	SystemAction    string            `json:"systemAction,omitempty"`
	UserAction      string            `json:"userAction,omitempty"`
	ParameterName   string            `json:"parameterName,omitempty"`
	UserID          string            `json:"userId,omitempty"`
	Properties      map[string]string `json:"properties,omitempty"`

	trace []byte
	cause error
}

var _ error = (*Error)(nil)

func newError(kind Kind, def MessageDefinition, action string, params []string) *Error {
	code := def.HTTPCode
	if code == 0 {
		code = kind.HTTPCode()
	}
	return &Error{
		Kind:            kind,
		HTTPCode:        code,
		ReportingAction: action,
		MessageID:       def.ID,
		Message:         def.Format(params...),
		Parameters:      params,
		SystemAction:    def.SystemAction,
		UserAction:      def.UserAction,
	}
}

// InvalidParameter builds an invalid parameter exception for the named parameter.
func InvalidParameter(def MessageDefinition, action, parameterName string, params ...string) *Error {
	e := newError(KindInvalidParameter, def, action, params)
	e.ParameterName = parameterName
	return e
}

// UserNotAuthorized builds an exception naming the user that was refused.
func UserNotAuthorized(def MessageDefinition, action, userID string, params ...string) *Error {
	e := newError(KindUserNotAuthorized, def, action, params)
	e.UserID = userID
	return e
}

// PropertyServer builds a property server exception with an optional cause.
func PropertyServer(def MessageDefinition, action string, cause error, params ...string) *Error {
	e := newError(KindPropertyServer, def, action, params)
	e.cause = cause
	return e
}

// Error implements error
func (e *Error) Error() string {
	str := fmt.Sprintf("[%s] ", e.Kind)
	if e.MessageID != "" {
		str += e.MessageID + " "
	}
	str += e.Message
	if e.cause != nil {
		str += fmt.Sprintf(" (%s)", e.cause)
	}
	if len(e.trace) > 0 {
		str += fmt.Sprintf("\n\nTrace: %s", string(e.trace))
	}
	return str
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Wrap sets the error cause
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

// Cause returns the wrapped error, if any.
func (e *Error) Cause() error {
	return e.cause
}

// CausedBy names the type of the wrapped error, as reported in exceptionCausedBy.
func (e *Error) CausedBy() string {
	if e.cause == nil {
		return ""
	}
	var inner *Error
	if errors.As(e.cause, &inner) {
		return string(inner.Kind)
	}
	return fmt.Sprintf("%T", e.cause)
}

// From sets the reporting class.
func (e *Error) From(reportingClass string) *Error {
	e.ReportingClass = reportingClass
	return e
}

// WithProperty attaches a related property reported in exceptionProperties.
func (e *Error) WithProperty(key, value string) *Error {
	if e.Properties == nil {
		e.Properties = make(map[string]string)
	}
	e.Properties[key] = value
	return e
}

// Trace sets the error stack trace
func (e *Error) Trace() *Error {
	stack := make([]byte, 2048)
	n := runtime.Stack(stack, false)
	e.trace = stack[:n]
	return e
}

// Is matches another *Error of the same kind, and otherwise defers to the cause.
func (e *Error) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if other, ok := target.(*Error); ok {
		return other.Kind == e.Kind && (other.MessageID == "" || other.MessageID == e.MessageID)
	}
	if e.cause != nil {
		return Is(e.cause, target)
	}
	return false
}

// Sentinels usable with errors.Is to test only the kind of an error.
var (
	ErrInvalidParameter  = &Error{Kind: KindInvalidParameter}
	ErrUserNotAuthorized = &Error{Kind: KindUserNotAuthorized}
	ErrPropertyServer    = &Error{Kind: KindPropertyServer}
)

// KindOf reports the kind of err, or PropertyServer for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPropertyServer
}
