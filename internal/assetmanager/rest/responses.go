package rest

import (
	"fmt"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
)

// ExceptionCarrier is implemented by every response so exceptions can be captured uniformly.
type ExceptionCarrier interface {
	Exception() *APIResponse
}

// APIResponse holds the exception fields common to every response. A zero ExceptionClassName
// means the call worked.
type APIResponse struct {
	RelatedHTTPCode                 int               `json:"relatedHTTPCode"`
	ExceptionClassName              string            `json:"exceptionClassName,omitempty"`
	ExceptionCausedBy               string            `json:"exceptionCausedBy,omitempty"`
	ActionDescription               string            `json:"actionDescription,omitempty"`
	ExceptionErrorMessage           string            `json:"exceptionErrorMessage,omitempty"`
	ExceptionErrorMessageID         string            `json:"exceptionErrorMessageId,omitempty"`
	ExceptionErrorMessageParameters []string          `json:"exceptionErrorMessageParameters,omitempty"`
	ExceptionSystemAction           string            `json:"exceptionSystemAction,omitempty"`
	ExceptionUserAction             string            `json:"exceptionUserAction,omitempty"`
	ExceptionProperties             map[string]string `json:"exceptionProperties,omitempty"`
}

// Exception implements ExceptionCarrier.
func (r *APIResponse) Exception() *APIResponse { return r }

// Failed reports whether the response carries an exception.
func (r *APIResponse) Failed() bool { return r.ExceptionClassName != "" }

func (r *APIResponse) String() string {
	return fmt.Sprintf("relatedHTTPCode=%d, exceptionClassName=%q, exceptionErrorMessageId=%q, exceptionErrorMessage=%q",
		r.RelatedHTTPCode, r.ExceptionClassName, r.ExceptionErrorMessageID, r.ExceptionErrorMessage)
}

func ok() APIResponse { return APIResponse{RelatedHTTPCode: 200} }

// VoidResponse is returned by calls with no result.
type VoidResponse struct {
	APIResponse
}

// NewVoidResponse returns a successful empty response.
func NewVoidResponse() *VoidResponse { return &VoidResponse{APIResponse: ok()} }

func (r *VoidResponse) String() string { return "VoidResponse{" + r.APIResponse.String() + "}" }

// GUIDResponse returns the unique identifier of a new element.
type GUIDResponse struct {
	APIResponse
	GUID string `json:"guid,omitempty"`
}

// NewGUIDResponse returns an empty response.
func NewGUIDResponse() *GUIDResponse { return &GUIDResponse{APIResponse: ok()} }

func (r *GUIDResponse) String() string {
	return fmt.Sprintf("GUIDResponse{guid=%q, %s}", r.GUID, r.APIResponse.String())
}

// Connection describes how to reach a topic.
type Connection struct {
	QualifiedName           string            `json:"qualifiedName"`
	DisplayName             string            `json:"displayName,omitempty"`
	ConnectorProviderName   string            `json:"connectorProviderClassName"`
	Endpoint                string            `json:"endpointAddress"`
	ConfigurationProperties map[string]any    `json:"configurationProperties,omitempty"`
	SecuredProperties       map[string]string `json:"securedProperties,omitempty"`
}

// ConnectionResponse returns the connection of an out topic.
type ConnectionResponse struct {
	APIResponse
	Connection *Connection `json:"connection,omitempty"`
}

// NewConnectionResponse returns an empty response.
func NewConnectionResponse() *ConnectionResponse { return &ConnectionResponse{APIResponse: ok()} }

func (r *ConnectionResponse) String() string {
	return fmt.Sprintf("ConnectionResponse{connection=%v, %s}", r.Connection, r.APIResponse.String())
}

// ProcessElementResponse returns a single process.
type ProcessElementResponse struct {
	APIResponse
	Element *elements.ProcessElement `json:"element,omitempty"`
}

// NewProcessElementResponse returns an empty response.
func NewProcessElementResponse() *ProcessElementResponse {
	return &ProcessElementResponse{APIResponse: ok()}
}

// ProcessElementsResponse returns a list of processes.
type ProcessElementsResponse struct {
	APIResponse
	ElementList []*elements.ProcessElement `json:"elementList,omitempty"`
}

// NewProcessElementsResponse returns an empty response.
func NewProcessElementsResponse() *ProcessElementsResponse {
	return &ProcessElementsResponse{APIResponse: ok()}
}

func (r *ProcessElementsResponse) String() string {
	return fmt.Sprintf("ProcessElementsResponse{elements=%d, %s}", len(r.ElementList), r.APIResponse.String())
}

// PortElementResponse returns a single port.
type PortElementResponse struct {
	APIResponse
	Element *elements.PortElement `json:"element,omitempty"`
}

// NewPortElementResponse returns an empty response.
func NewPortElementResponse() *PortElementResponse { return &PortElementResponse{APIResponse: ok()} }

// PortElementsResponse returns a list of ports.
type PortElementsResponse struct {
	APIResponse
	ElementList []*elements.PortElement `json:"elementList,omitempty"`
}

// NewPortElementsResponse returns an empty response.
func NewPortElementsResponse() *PortElementsResponse { return &PortElementsResponse{APIResponse: ok()} }

func (r *PortElementsResponse) String() string {
	return fmt.Sprintf("PortElementsResponse{elements=%d, %s}", len(r.ElementList), r.APIResponse.String())
}

// DataFlowElementResponse returns a single data flow.
type DataFlowElementResponse struct {
	APIResponse
	Element *elements.DataFlowElement `json:"element,omitempty"`
}

// NewDataFlowElementResponse returns an empty response.
func NewDataFlowElementResponse() *DataFlowElementResponse {
	return &DataFlowElementResponse{APIResponse: ok()}
}

// DataFlowElementsResponse returns a list of data flows.
type DataFlowElementsResponse struct {
	APIResponse
	ElementList []*elements.DataFlowElement `json:"elementList,omitempty"`
}

// NewDataFlowElementsResponse returns an empty response.
func NewDataFlowElementsResponse() *DataFlowElementsResponse {
	return &DataFlowElementsResponse{APIResponse: ok()}
}

// ControlFlowElementResponse returns a single control flow.
type ControlFlowElementResponse struct {
	APIResponse
	Element *elements.ControlFlowElement `json:"element,omitempty"`
}

// NewControlFlowElementResponse returns an empty response.
func NewControlFlowElementResponse() *ControlFlowElementResponse {
	return &ControlFlowElementResponse{APIResponse: ok()}
}

// ControlFlowElementsResponse returns a list of control flows.
type ControlFlowElementsResponse struct {
	APIResponse
	ElementList []*elements.ControlFlowElement `json:"elementList,omitempty"`
}

// NewControlFlowElementsResponse returns an empty response.
func NewControlFlowElementsResponse() *ControlFlowElementsResponse {
	return &ControlFlowElementsResponse{APIResponse: ok()}
}

// ProcessCallElementResponse returns a single process call.
type ProcessCallElementResponse struct {
	APIResponse
	Element *elements.ProcessCallElement `json:"element,omitempty"`
}

// NewProcessCallElementResponse returns an empty response.
func NewProcessCallElementResponse() *ProcessCallElementResponse {
	return &ProcessCallElementResponse{APIResponse: ok()}
}

// Clone copies the response. The element is shared, as a template copy would.
func (r *ProcessCallElementResponse) Clone() *ProcessCallElementResponse {
	if r == nil {
		return NewProcessCallElementResponse()
	}
	c := *r
	return &c
}

func (r *ProcessCallElementResponse) String() string {
	return fmt.Sprintf("ProcessCallElementResponse{element=%v, %s}", r.Element, r.APIResponse.String())
}

// ProcessCallElementsResponse returns a list of process calls.
type ProcessCallElementsResponse struct {
	APIResponse
	ElementList []*elements.ProcessCallElement `json:"elementList,omitempty"`
}

// NewProcessCallElementsResponse returns an empty response.
func NewProcessCallElementsResponse() *ProcessCallElementsResponse {
	return &ProcessCallElementsResponse{APIResponse: ok()}
}

// ValidValueAssignmentsResponse returns the valid values assigned to an element.
type ValidValueAssignmentsResponse struct {
	APIResponse
	ElementList []*elements.ValidValueAssignmentDefinitionElement `json:"elementList,omitempty"`
}

// NewValidValueAssignmentsResponse returns an empty response.
func NewValidValueAssignmentsResponse() *ValidValueAssignmentsResponse {
	return &ValidValueAssignmentsResponse{APIResponse: ok()}
}

// LineageMappingElementsResponse returns a list of lineage mappings.
type LineageMappingElementsResponse struct {
	APIResponse
	ElementList []*elements.LineageMappingElement `json:"elementList,omitempty"`
}

// NewLineageMappingElementsResponse returns an empty response.
func NewLineageMappingElementsResponse() *LineageMappingElementsResponse {
	return &LineageMappingElementsResponse{APIResponse: ok()}
}
