package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Problem type URIs for transport failures that never reach an access service method.
const (
	TypeMalformedRequest = "https://egeria-project.org/problems/malformed-request"
	TypeRouteNotFound    = "https://egeria-project.org/problems/route-not-found"
	TypeUnauthorized     = "https://egeria-project.org/problems/unauthorized"
	TypeInternalError    = "https://egeria-project.org/problems/internal-error"
)

// Problem titles
const (
	TitleMalformedRequest = "Malformed Request"
	TitleRouteNotFound    = "Route Not Found"
	TitleUnauthorized     = "Unauthorized"
	TitleInternalError    = "Internal Server Error"
)

// ValidationError represents a validation error for RFC 7807
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	TraceID  string            `json:"trace_id,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
	Extra    map[string]any    `json:"-"`
}

// Error implements the error interface
func (p *ProblemDetails) Error() string {
	return p.Detail
}

// WithTraceID adds a trace ID to the problem details
func (p *ProblemDetails) WithTraceID(traceID string) *ProblemDetails {
	p.TraceID = traceID
	return p
}

// WithValidationErrors adds validation errors to the problem details
func (p *ProblemDetails) WithValidationErrors(errs []ValidationError) *ProblemDetails {
	p.Errors = errs
	return p
}

// WithExtra adds extra fields to the problem details (they will be serialized at the top level)
func (p *ProblemDetails) WithExtra(key string, value any) *ProblemDetails {
	if p.Extra == nil {
		p.Extra = make(map[string]any)
	}
	p.Extra[key] = value
	return p
}

// MarshalJSON implements custom JSON marshaling to include extra fields at the top level
func (p *ProblemDetails) MarshalJSON() ([]byte, error) {
	result := make(map[string]any)
	result["type"] = p.Type
	result["title"] = p.Title
	result["status"] = p.Status
	if p.Detail != "" {
		result["detail"] = p.Detail
	}
	if p.Instance != "" {
		result["instance"] = p.Instance
	}
	if p.TraceID != "" {
		result["trace_id"] = p.TraceID
	}
	if len(p.Errors) > 0 {
		result["errors"] = p.Errors
	}
	for k, v := range p.Extra {
		result[k] = v
	}
	return json.Marshal(result)
}

// NewMalformedRequest reports a request body that could not be decoded.
func NewMalformedRequest(detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:     TypeMalformedRequest,
		Title:    TitleMalformedRequest,
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: instance,
	}
}

// NewRouteNotFound reports an unknown URL.
func NewRouteNotFound(instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:     TypeRouteNotFound,
		Title:    TitleRouteNotFound,
		Status:   http.StatusNotFound,
		Detail:   "no access service operation matches this URL",
		Instance: instance,
	}
}

// NewUnauthorizedError creates an unauthorized error problem
func NewUnauthorizedError(detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:     TypeUnauthorized,
		Title:    TitleUnauthorized,
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: instance,
	}
}

// NewInternalError creates an internal server error problem
func NewInternalError(detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:     TypeInternalError,
		Title:    TitleInternalError,
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: instance,
	}
}

// ToProblemDetails converts an error into problem details. OMAS exceptions keep their
// message id and related HTTP code.
func ToProblemDetails(err error, instance string) *ProblemDetails {
	var pd *ProblemDetails
	if errors.As(err, &pd) {
		return pd
	}
	var oe *Error
	if errors.As(err, &oe) {
		p := &ProblemDetails{
			Type:     TypeInternalError,
			Title:    string(oe.Kind),
			Status:   oe.HTTPCode,
			Detail:   oe.Message,
			Instance: instance,
		}
		switch oe.Kind {
		case KindInvalidParameter:
			p.Type = TypeMalformedRequest
			if oe.ParameterName != "" {
				p.Errors = []ValidationError{{Field: oe.ParameterName, Message: oe.Message, Code: oe.MessageID}}
			}
		case KindUserNotAuthorized:
			p.Type = TypeUnauthorized
		}
		if oe.MessageID != "" {
			p.WithExtra("message_id", oe.MessageID)
		}
		return p
	}
	return NewInternalError(err.Error(), instance)
}
