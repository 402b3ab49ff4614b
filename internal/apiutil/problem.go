// Package apiutil writes the RFC 7807 problem reports returned for requests that never reach
// an access service operation.
package apiutil

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/pkg/errors"
)

// TraceIDHeader is consulted when the request carries no trace span.
const TraceIDHeader = "X-Trace-ID"

// TraceID returns the trace id of the request's span, or of its X-Trace-ID header.
func TraceID(c *gin.Context) string {
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return c.GetHeader(TraceIDHeader)
}

// WriteProblem stamps the trace id on problem and aborts the request with it.
func WriteProblem(c *gin.Context, problem *errors.ProblemDetails) {
	if traceID := TraceID(c); traceID != "" {
		problem.WithTraceID(traceID)
	}
	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(problem.Status, problem)
}

// MalformedBody reports a request body that could not be decoded. A field holding the wrong
// JSON type is named in the report.
func MalformedBody(c *gin.Context, err error) {
	problem := errors.NewMalformedRequest(err.Error(), c.Request.URL.Path)
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		problem.WithValidationErrors([]errors.ValidationError{{
			Field:   typeErr.Field,
			Value:   typeErr.Value,
			Message: fmt.Sprintf("expected %s", typeErr.Type),
			Code:    "type",
		}})
	}
	WriteProblem(c, problem)
}

// InvalidQuery reports a query parameter that could not be parsed.
func InvalidQuery(c *gin.Context, name, message string) {
	WriteProblem(c, errors.NewMalformedRequest(name+" "+message, c.Request.URL.Path).
		WithValidationErrors([]errors.ValidationError{{Field: name, Value: c.Query(name), Message: message, Code: "query"}}))
}

// RouteNotFound reports an unknown URL.
func RouteNotFound(c *gin.Context) {
	WriteProblem(c, errors.NewRouteNotFound(c.Request.URL.Path))
}

// Recovery logs panics with logger and answers them with an internal error report.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(logger, true, func(c *gin.Context, _ any) {
		WriteProblem(c, errors.NewInternalError("the request could not be completed", c.Request.URL.Path))
	})
}
