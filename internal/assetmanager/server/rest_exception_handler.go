package server

import (
	"fmt"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/ffdc"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/rest"
	"github.com/MihaiIliescu/egeria/internal/auditlog"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

// RESTExceptionHandler turns errors raised by a REST call into the exception fields of
// its response.
type RESTExceptionHandler struct{}

// HandleNoRequestBody returns the exception for a call that needs a body and has none.
func (RESTExceptionHandler) HandleNoRequestBody(userID, methodName, serverName string) error {
	return errors.InvalidParameter(errors.NoRequestBody, methodName, "requestBody",
		userID, methodName, serverName).From("server.RESTExceptionHandler")
}

// CaptureExceptions fills response from err. Errors outside the exception model are
// reported as property server exceptions and recorded in the audit log.
func (RESTExceptionHandler) CaptureExceptions(response *rest.APIResponse, err error, methodName string,
	auditLog *auditlog.AuditLog) {
	if err == nil {
		return
	}
	var omagErr *errors.Error
	if !errors.As(err, &omagErr) {
		typeName := fmt.Sprintf("%T", err)
		auditLog.LogException(methodName, ffdc.UnexpectedExceptionAudit, err, typeName, methodName, err.Error())
		omagErr = errors.PropertyServer(errors.UnexpectedException, methodName, err,
			typeName, methodName, err.Error()).From("server.RESTExceptionHandler")
	}
	captureError(response, omagErr)
}

func captureError(response *rest.APIResponse, err *errors.Error) {
	response.RelatedHTTPCode = err.HTTPCode
	response.ExceptionClassName = string(err.Kind)
	response.ExceptionCausedBy = err.CausedBy()
	response.ActionDescription = err.ReportingAction
	response.ExceptionErrorMessage = err.Message
	response.ExceptionErrorMessageID = err.MessageID
	response.ExceptionErrorMessageParameters = err.Parameters
	response.ExceptionSystemAction = err.SystemAction
	response.ExceptionUserAction = err.UserAction

	props := make(map[string]string, len(err.Properties)+1)
	for k, v := range err.Properties {
		props[k] = v
	}
	switch err.Kind {
	case errors.KindInvalidParameter:
		if err.ParameterName != "" {
			props["parameterName"] = err.ParameterName
		}
	case errors.KindUserNotAuthorized:
		if err.UserID != "" {
			props["userId"] = err.UserID
		}
	}
	if len(props) > 0 {
		response.ExceptionProperties = props
	}
}
