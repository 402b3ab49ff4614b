package server

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/ffdc"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/rest"
	"github.com/MihaiIliescu/egeria/pkg/metrics"
)

// restResponse is implemented by every response bean.
type restResponse interface {
	rest.ExceptionCarrier
	fmt.Stringer
}

// CallToken ties the return of a REST call to its start.
type CallToken struct {
	CallID     string
	ServerName string
	UserID     string
	MethodName string
	start      time.Time
}

// RESTCallLogger writes a debug record at the start and end of every REST call.
type RESTCallLogger struct {
	logger      *zap.Logger
	serviceName string
}

// NewRESTCallLogger creates a call logger for serviceName.
func NewRESTCallLogger(logger *zap.Logger, serviceName string) *RESTCallLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RESTCallLogger{logger: logger, serviceName: serviceName}
}

// LogRESTCall records the start of a call.
func (l *RESTCallLogger) LogRESTCall(serverName, userID, methodName string) CallToken {
	token := CallToken{
		CallID:     uuid.NewString(),
		ServerName: serverName,
		UserID:     userID,
		MethodName: methodName,
		start:      time.Now(),
	}
	l.logger.Debug("REST call started",
		zap.String("callId", token.CallID),
		zap.String("service", l.serviceName),
		zap.String("server", serverName),
		zap.String("user", userID),
		zap.String("method", methodName))
	return token
}

// LogRESTCallReturn records the end of a call together with its response.
func (l *RESTCallLogger) LogRESTCallReturn(token CallToken, response restResponse) {
	elapsed := time.Since(token.start)
	outcome := "ok"
	if exception := response.Exception(); exception.Failed() {
		outcome = exception.ExceptionClassName
	}
	metrics.RESTCalls.WithLabelValues(ffdc.ServiceURLName, token.MethodName, outcome).Inc()
	metrics.RESTCallLatency.WithLabelValues(ffdc.ServiceURLName, token.MethodName).Observe(elapsed.Seconds())

	if ce := l.logger.Check(zap.DebugLevel, "REST call returned"); ce != nil {
		ce.Write(
			zap.String("callId", token.CallID),
			zap.String("server", token.ServerName),
			zap.String("user", token.UserID),
			zap.String("method", token.MethodName),
			zap.Duration("elapsed", elapsed),
			zap.String("response", response.String()))
	}
}
