package errors

import "net/http"

// Message definitions shared by every access service.
var (
	NullUserID = MessageDefinition{
		ID: "OMAG-COMMON-400-001", HTTPCode: http.StatusBadRequest,
		Template:     "The user identifier (user id) passed on the {0} operation is null",
		SystemAction: "The system is unable to process the request without a user id.",
		UserAction:   "Correct the code in the caller to provide the user id.",
	}
	NullGUID = MessageDefinition{
		ID: "OMAG-COMMON-400-002", HTTPCode: http.StatusBadRequest,
		Template:     "The unique identifier (guid) passed on the {0} parameter of the {1} operation is null",
		SystemAction: "The system is unable to process the request without a guid.",
		UserAction:   "Correct the code in the caller to provide the guid.",
	}
	NullName = MessageDefinition{
		ID: "OMAG-COMMON-400-003", HTTPCode: http.StatusBadRequest,
		Template:     "The name passed on the {0} parameter of the {1} operation is null",
		SystemAction: "The system is unable to process the request without a name.",
		UserAction:   "Correct the code in the caller to provide the name on the parameter.",
	}
	NullObject = MessageDefinition{
		ID: "OMAG-COMMON-400-004", HTTPCode: http.StatusBadRequest,
		Template:     "The object passed on the {0} parameter of the {1} operation is null",
		SystemAction: "The system is unable to process the request without this object.",
		UserAction:   "Correct the code in the caller to provide the object.",
	}
	NullSearchString = MessageDefinition{
		ID: "OMAG-COMMON-400-005", HTTPCode: http.StatusBadRequest,
		Template:     "The search string passed on the {0} parameter of the {1} operation is null",
		SystemAction: "The system is unable to process the request without a search string.",
		UserAction:   "Correct the code in the caller to provide the search string.",
	}
	InvalidSearchString = MessageDefinition{
		ID: "OMAG-COMMON-400-006", HTTPCode: http.StatusBadRequest,
		Template:     "The search string {0} passed on the {1} parameter of the {2} operation is not a valid regular expression: {3}",
		SystemAction: "The system is unable to process the request with an invalid search string.",
		UserAction:   "Correct the code in the caller to provide a valid regular expression.",
	}
	NegativeStartFrom = MessageDefinition{
		ID: "OMAG-COMMON-400-007", HTTPCode: http.StatusBadRequest,
		Template:     "The starting point for the results {0}, passed on the {1} parameter of the {2} operation, is negative",
		SystemAction: "The system is unable to process the request with this invalid value.",
		UserAction:   "Correct the code in the caller to provide a non-negative value for the starting point.",
	}
	NegativePageSize = MessageDefinition{
		ID: "OMAG-COMMON-400-008", HTTPCode: http.StatusBadRequest,
		Template:     "The page size for the results {0}, passed on the {1} parameter of the {2} operation, is negative",
		SystemAction: "The system is unable to process the request with this invalid value.",
		UserAction:   "Correct the code in the caller to provide a non-negative value for the page size.",
	}
	MaxPageSizeExceeded = MessageDefinition{
		ID: "OMAG-COMMON-400-009", HTTPCode: http.StatusBadRequest,
		Template:     "The number of records to return, {0}, passed on the {1} parameter of the {2} operation, is greater than the allowed maximum of {3}",
		SystemAction: "The system is unable to process the request with this page size value.",
		UserAction:   "Correct the code in the caller to provide a smaller page size.",
	}
	InvalidPlatformURL = MessageDefinition{
		ID: "OMAG-COMMON-400-010", HTTPCode: http.StatusBadRequest,
		Template:     "The platform URL root {0} passed for server {1} on the {2} operation is not a valid URL",
		SystemAction: "The system is unable to call the remote server.",
		UserAction:   "Correct the configuration of the caller to provide the network address of the OMAG server platform.",
	}
	InvalidMarkup = MessageDefinition{
		ID: "OMAG-COMMON-400-011", HTTPCode: http.StatusBadRequest,
		Template:     "The value passed on the {0} parameter of the {1} operation contains markup",
		SystemAction: "The system rejects names that contain HTML markup.",
		UserAction:   "Remove the markup from the value and retry the request.",
	}
	InvalidEnumValue = MessageDefinition{
		ID: "OMAG-COMMON-400-012", HTTPCode: http.StatusBadRequest,
		Template:     "The value {0} passed on the {1} parameter of the {2} operation is not one of the supported values",
		SystemAction: "The system is unable to process the request with this value.",
		UserAction:   "Correct the caller to pass one of the documented values.",
	}
	ServerNotKnown = MessageDefinition{
		ID: "OMAG-COMMON-400-013", HTTPCode: http.StatusBadRequest,
		Template:     "The OMAG server {0} has been called with a {1} operation but the {2} service is not running in this server",
		SystemAction: "The system is unable to route the request to a running service instance.",
		UserAction:   "Check the server name on the request and the configuration of the server.",
	}
	UnknownElement = MessageDefinition{
		ID: "OMAG-COMMON-400-014", HTTPCode: http.StatusBadRequest,
		Template:     "The {0} element with unique identifier {1}, passed on the {2} operation, is not known to the open metadata repository",
		SystemAction: "The system is unable to process the request for an unknown element.",
		UserAction:   "Check the unique identifier on the request.",
	}
	WrongElementType = MessageDefinition{
		ID: "OMAG-COMMON-400-015", HTTPCode: http.StatusBadRequest,
		Template:     "The element {0} passed on the {1} operation is of type {2} rather than the expected type {3}",
		SystemAction: "The system is unable to process the request for this element.",
		UserAction:   "Check the unique identifier on the request.",
	}
	NoRequestBody = MessageDefinition{
		ID: "OMAG-COMMON-400-016", HTTPCode: http.StatusBadRequest,
		Template:     "An OMAS REST call from user {0} to method {1} on server {2} was made without a request body",
		SystemAction: "The system is unable to process the request without the details in the request body.",
		UserAction:   "Correct the code in the caller to provide the request body.",
	}
	DuplicateQualifiedName = MessageDefinition{
		ID: "OMAG-COMMON-400-017", HTTPCode: http.StatusBadRequest,
		Template:     "The qualified name {0} passed on the {1} operation is already used by element {2}",
		SystemAction: "The system rejects duplicate qualified names.",
		UserAction:   "Choose a unique qualified name for the new element.",
	}
	UserNotAuthorizedCode = MessageDefinition{
		ID: "OMAG-COMMON-403-001", HTTPCode: http.StatusForbidden,
		Template:     "User {0} is not authorized to issue the {1} request for server {2}",
		SystemAction: "The security module rejected the request.",
		UserAction:   "Check the credentials of the caller and the security configuration of the server.",
	}
	UnexpectedException = MessageDefinition{
		ID: "OMAG-COMMON-500-001", HTTPCode: http.StatusInternalServerError,
		Template:     "An unexpected {0} exception was caught by {1}; error message was {2}",
		SystemAction: "The system is unable to process the request and has logged an error.",
		UserAction:   "Review the audit log and the server log to understand the cause of the error.",
	}
	RepositoryError = MessageDefinition{
		ID: "OMAG-COMMON-500-002", HTTPCode: http.StatusInternalServerError,
		Template:     "The {0} operation received an error from the metadata repository: {1}",
		SystemAction: "The system is unable to complete the request.",
		UserAction:   "Review the server log to understand the cause of the error.",
	}
	MissingMetadataInstance = MessageDefinition{
		ID: "OMAG-COMMON-500-003", HTTPCode: http.StatusInternalServerError,
		Template:     "A {0} instance needed to build a {1} bean in the {2} operation is missing",
		SystemAction: "The converter is unable to build a complete bean.",
		UserAction:   "Check the metadata repository for damaged instances.",
	}
	NullConnectorReturned = MessageDefinition{
		ID: "OMAG-COMMON-500-004", HTTPCode: http.StatusInternalServerError,
		Template:     "The connection {0} passed to the {1} client for server {2} on platform {3} produced no connector",
		SystemAction: "The client is unable to listen to the out topic.",
		UserAction:   "Check the out topic connection returned by the server.",
	}
	WrongTypeOfConnector = MessageDefinition{
		ID: "OMAG-COMMON-500-005", HTTPCode: http.StatusInternalServerError,
		Template:     "The connection {0} passed to the {1} client for server {2} on platform {3} produced a connector that is not a {4}",
		SystemAction: "The client is unable to listen to the out topic.",
		UserAction:   "Check the connector provider named in the out topic connection.",
	}
	RemoteCallFailed = MessageDefinition{
		ID: "OMAG-COMMON-500-006", HTTPCode: http.StatusInternalServerError,
		Template:     "The {0} call to server {1} at {2} failed: {3}",
		SystemAction: "The client is unable to complete the request.",
		UserAction:   "Check that the remote server is running and reachable.",
	}
)
