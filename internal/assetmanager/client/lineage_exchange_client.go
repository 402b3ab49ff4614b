package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/rest"
)

// LineageExchangeClient exchanges processes, ports and lineage relationships with the
// asset manager service of one OMAG server.
type LineageExchangeClient struct {
	*restClient
}

// NewLineageExchangeClient creates a client for serverName on the platform at platformURLRoot.
func NewLineageExchangeClient(serverName, platformURLRoot string, opts ...Option) (*LineageExchangeClient, error) {
	rc, err := newRESTClient(serverName, platformURLRoot, "NewLineageExchangeClient", opts)
	if err != nil {
		return nil, err
	}
	return &LineageExchangeClient{restClient: rc}, nil
}

// ServerName returns the name of the remote server.
func (c *LineageExchangeClient) ServerName() string { return c.serverName }

func (c *LineageExchangeClient) post(ctx context.Context, methodName, userID, path string, query url.Values,
	body any, out rest.ExceptionCarrier) error {
	return c.call(ctx, http.MethodPost, methodName, userID, path, query, body, out)
}

func (c *LineageExchangeClient) void(ctx context.Context, methodName, userID, path string, query url.Values, body any) error {
	return c.post(ctx, methodName, userID, path, query, body, rest.NewVoidResponse())
}

func (c *LineageExchangeClient) guid(ctx context.Context, methodName, userID, path string, query url.Values, body any) (string, error) {
	r := rest.NewGUIDResponse()
	if err := c.post(ctx, methodName, userID, path, query, body, r); err != nil {
		return "", err
	}
	return r.GUID, nil
}

func (c *LineageExchangeClient) processes(ctx context.Context, methodName, userID, path string, query url.Values,
	body any) ([]*elements.ProcessElement, error) {
	r := rest.NewProcessElementsResponse()
	if err := c.post(ctx, methodName, userID, path, query, body, r); err != nil {
		return nil, err
	}
	return r.ElementList, nil
}

func (c *LineageExchangeClient) ports(ctx context.Context, methodName, userID, path string, query url.Values,
	body any) ([]*elements.PortElement, error) {
	r := rest.NewPortElementsResponse()
	if err := c.post(ctx, methodName, userID, path, query, body, r); err != nil {
		return nil, err
	}
	return r.ElementList, nil
}

func (c *LineageExchangeClient) port(ctx context.Context, methodName, userID, path string, body any) (*elements.PortElement, error) {
	r := rest.NewPortElementResponse()
	if err := c.post(ctx, methodName, userID, path, nil, body, r); err != nil {
		return nil, err
	}
	return r.Element, nil
}

func (c *LineageExchangeClient) process(ctx context.Context, methodName, userID, path string, body any) (*elements.ProcessElement, error) {
	r := rest.NewProcessElementResponse()
	if err := c.post(ctx, methodName, userID, path, nil, body, r); err != nil {
		return nil, err
	}
	return r.Element, nil
}

func (c *LineageExchangeClient) dataFlows(ctx context.Context, methodName, userID, path string,
	body any) ([]*elements.DataFlowElement, error) {
	r := rest.NewDataFlowElementsResponse()
	if err := c.post(ctx, methodName, userID, path, nil, body, r); err != nil {
		return nil, err
	}
	return r.ElementList, nil
}

func (c *LineageExchangeClient) controlFlows(ctx context.Context, methodName, userID, path string,
	body any) ([]*elements.ControlFlowElement, error) {
	r := rest.NewControlFlowElementsResponse()
	if err := c.post(ctx, methodName, userID, path, nil, body, r); err != nil {
		return nil, err
	}
	return r.ElementList, nil
}

func (c *LineageExchangeClient) processCalls(ctx context.Context, methodName, userID, path string,
	body any) ([]*elements.ProcessCallElement, error) {
	r := rest.NewProcessCallElementsResponse()
	if err := c.post(ctx, methodName, userID, path, nil, body, r); err != nil {
		return nil, err
	}
	return r.ElementList, nil
}

func (c *LineageExchangeClient) lineageMappings(ctx context.Context, methodName, userID, path string,
	body any) ([]*elements.LineageMappingElement, error) {
	r := rest.NewLineageMappingElementsResponse()
	if err := c.post(ctx, methodName, userID, path, nil, body, r); err != nil {
		return nil, err
	}
	return r.ElementList, nil
}

func esc(s string) string { return url.PathEscape(s) }

// Processes

// CreateProcess creates a process and returns its unique identifier.
func (c *LineageExchangeClient) CreateProcess(ctx context.Context, userID string, assetManagerIsHome bool,
	body *rest.ProcessRequestBody) (string, error) {
	return c.guid(ctx, "createProcess", userID, "/processes", flagQuery("assetManagerIsHome", assetManagerIsHome), body)
}

// CreateProcessFromTemplate creates a process from the process identified by templateGUID.
func (c *LineageExchangeClient) CreateProcessFromTemplate(ctx context.Context, userID string, assetManagerIsHome bool,
	templateGUID string, body *rest.TemplateRequestBody) (string, error) {
	return c.guid(ctx, "createProcessFromTemplate", userID, "/processes/from-template/"+esc(templateGUID),
		flagQuery("assetManagerIsHome", assetManagerIsHome), body)
}

// UpdateProcess updates a process, merging or replacing its properties.
func (c *LineageExchangeClient) UpdateProcess(ctx context.Context, userID, processGUID string, isMergeUpdate bool,
	body *rest.ProcessRequestBody) error {
	return c.void(ctx, "updateProcess", userID, "/processes/"+esc(processGUID)+"/update",
		flagQuery("isMergeUpdate", isMergeUpdate), body)
}

// UpdateProcessStatus changes the status of a process.
func (c *LineageExchangeClient) UpdateProcessStatus(ctx context.Context, userID, processGUID string,
	body *rest.ProcessStatusRequestBody) error {
	return c.void(ctx, "updateProcessStatus", userID, "/processes/"+esc(processGUID)+"/update-status", nil, body)
}

// SetupProcessParent makes parentProcessGUID the parent of childProcessGUID.
func (c *LineageExchangeClient) SetupProcessParent(ctx context.Context, userID, parentProcessGUID, childProcessGUID string,
	assetManagerIsHome bool, body *rest.ProcessContainmentTypeRequestBody) error {
	return c.void(ctx, "setupProcessParent", userID,
		"/processes/parent/"+esc(parentProcessGUID)+"/child/"+esc(childProcessGUID),
		flagQuery("assetManagerIsHome", assetManagerIsHome), body)
}

// ClearProcessParent removes the link between a parent and child process.
func (c *LineageExchangeClient) ClearProcessParent(ctx context.Context, userID, parentProcessGUID, childProcessGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) error {
	return c.void(ctx, "clearProcessParent", userID,
		"/processes/parent/"+esc(parentProcessGUID)+"/child/"+esc(childProcessGUID)+"/remove", nil, body)
}

// PublishProcess makes a process visible to consumers.
func (c *LineageExchangeClient) PublishProcess(ctx context.Context, userID, processGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) error {
	return c.void(ctx, "publishProcess", userID, "/processes/"+esc(processGUID)+"/publish", nil, body)
}

// WithdrawProcess hides a process from consumers.
func (c *LineageExchangeClient) WithdrawProcess(ctx context.Context, userID, processGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) error {
	return c.void(ctx, "withdrawProcess", userID, "/processes/"+esc(processGUID)+"/withdraw", nil, body)
}

// RemoveProcess deletes a process and its ports.
func (c *LineageExchangeClient) RemoveProcess(ctx context.Context, userID, processGUID string,
	body *properties.MetadataCorrelationProperties) error {
	return c.void(ctx, "removeProcess", userID, "/processes/"+esc(processGUID)+"/remove", nil, body)
}

// FindProcesses returns the processes matching a regular expression.
func (c *LineageExchangeClient) FindProcesses(ctx context.Context, userID string, startFrom, pageSize int,
	body *rest.SearchStringRequestBody) ([]*elements.ProcessElement, error) {
	return c.processes(ctx, "findProcesses", userID, "/processes/by-search-string", pagingQuery(startFrom, pageSize), body)
}

// GetProcessesForAssetManager returns the processes maintained by the calling asset manager.
func (c *LineageExchangeClient) GetProcessesForAssetManager(ctx context.Context, userID string, startFrom, pageSize int,
	body *rest.AssetManagerIdentifiersRequestBody) ([]*elements.ProcessElement, error) {
	return c.processes(ctx, "getProcessesForAssetManager", userID, "/processes/by-asset-manager",
		pagingQuery(startFrom, pageSize), body)
}

// GetProcessesByName returns the processes with an exact name.
func (c *LineageExchangeClient) GetProcessesByName(ctx context.Context, userID string, startFrom, pageSize int,
	body *rest.NameRequestBody) ([]*elements.ProcessElement, error) {
	return c.processes(ctx, "getProcessesByName", userID, "/processes/by-name", pagingQuery(startFrom, pageSize), body)
}

// GetProcessByGUID returns one process.
func (c *LineageExchangeClient) GetProcessByGUID(ctx context.Context, userID, processGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) (*elements.ProcessElement, error) {
	return c.process(ctx, "getProcessByGUID", userID, "/processes/"+esc(processGUID)+"/retrieve", body)
}

// GetProcessParent returns the parent of a process, or nil.
func (c *LineageExchangeClient) GetProcessParent(ctx context.Context, userID, processGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) (*elements.ProcessElement, error) {
	return c.process(ctx, "getProcessParent", userID, "/processes/"+esc(processGUID)+"/parent/retrieve", body)
}

// GetSubProcesses returns the children of a process.
func (c *LineageExchangeClient) GetSubProcesses(ctx context.Context, userID, processGUID string, startFrom, pageSize int,
	body *rest.AssetManagerIdentifiersRequestBody) ([]*elements.ProcessElement, error) {
	return c.processes(ctx, "getSubProcesses", userID, "/processes/"+esc(processGUID)+"/children/retrieve",
		pagingQuery(startFrom, pageSize), body)
}

// Ports

// CreatePort creates a port attached to processGUID.
func (c *LineageExchangeClient) CreatePort(ctx context.Context, userID string, assetManagerIsHome bool, processGUID string,
	body *rest.PortRequestBody) (string, error) {
	return c.guid(ctx, "createPort", userID, "/processes/"+esc(processGUID)+"/ports",
		flagQuery("assetManagerIsHome", assetManagerIsHome), body)
}

// UpdatePort replaces the properties of a port.
func (c *LineageExchangeClient) UpdatePort(ctx context.Context, userID, portGUID string, body *rest.PortRequestBody) error {
	return c.void(ctx, "updatePort", userID, "/ports/"+esc(portGUID)+"/update", nil, body)
}

// SetupProcessPort attaches a port to a process.
func (c *LineageExchangeClient) SetupProcessPort(ctx context.Context, userID string, assetManagerIsHome bool,
	processGUID, portGUID string, body *rest.AssetManagerIdentifiersRequestBody) error {
	return c.void(ctx, "setupProcessPort", userID, "/processes/"+esc(processGUID)+"/ports/"+esc(portGUID),
		flagQuery("assetManagerIsHome", assetManagerIsHome), body)
}

// ClearProcessPort detaches a port from a process.
func (c *LineageExchangeClient) ClearProcessPort(ctx context.Context, userID, processGUID, portGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) error {
	return c.void(ctx, "clearProcessPort", userID, "/processes/"+esc(processGUID)+"/ports/"+esc(portGUID)+"/remove",
		nil, body)
}

// SetupPortDelegation delegates portOneGUID to portTwoGUID.
func (c *LineageExchangeClient) SetupPortDelegation(ctx context.Context, userID string, assetManagerIsHome bool,
	portOneGUID, portTwoGUID string, body *rest.AssetManagerIdentifiersRequestBody) error {
	return c.void(ctx, "setupPortDelegation", userID, "/ports/"+esc(portOneGUID)+"/port-delegations/"+esc(portTwoGUID),
		flagQuery("assetManagerIsHome", assetManagerIsHome), body)
}

// ClearPortDelegation removes a port delegation.
func (c *LineageExchangeClient) ClearPortDelegation(ctx context.Context, userID, portOneGUID, portTwoGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) error {
	return c.void(ctx, "clearPortDelegation", userID,
		"/ports/"+esc(portOneGUID)+"/port-delegations/"+esc(portTwoGUID)+"/remove", nil, body)
}

// SetupPortSchemaType links a port to the schema type describing its data.
func (c *LineageExchangeClient) SetupPortSchemaType(ctx context.Context, userID string, assetManagerIsHome bool,
	portGUID, schemaTypeGUID string, body *rest.AssetManagerIdentifiersRequestBody) error {
	return c.void(ctx, "setupPortSchemaType", userID, "/ports/"+esc(portGUID)+"/schema-type/"+esc(schemaTypeGUID),
		flagQuery("assetManagerIsHome", assetManagerIsHome), body)
}

// ClearPortSchemaType removes the schema type of a port.
func (c *LineageExchangeClient) ClearPortSchemaType(ctx context.Context, userID, portGUID, schemaTypeGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) error {
	return c.void(ctx, "clearPortSchemaType", userID,
		"/ports/"+esc(portGUID)+"/schema-type/"+esc(schemaTypeGUID)+"/remove", nil, body)
}

// RemovePort deletes a port.
func (c *LineageExchangeClient) RemovePort(ctx context.Context, userID, portGUID string,
	body *properties.MetadataCorrelationProperties) error {
	return c.void(ctx, "removePort", userID, "/ports/"+esc(portGUID)+"/remove", nil, body)
}

// FindPorts returns the ports matching a regular expression.
func (c *LineageExchangeClient) FindPorts(ctx context.Context, userID string, startFrom, pageSize int,
	body *rest.SearchStringRequestBody) ([]*elements.PortElement, error) {
	return c.ports(ctx, "findPorts", userID, "/ports/by-search-string", pagingQuery(startFrom, pageSize), body)
}

// GetPortsForProcess returns the ports of a process.
func (c *LineageExchangeClient) GetPortsForProcess(ctx context.Context, userID, processGUID string, startFrom, pageSize int,
	body *rest.AssetManagerIdentifiersRequestBody) ([]*elements.PortElement, error) {
	return c.ports(ctx, "getPortsForProcess", userID, "/processes/"+esc(processGUID)+"/ports/retrieve",
		pagingQuery(startFrom, pageSize), body)
}

// GetPortUse returns the ports that delegate to portGUID.
func (c *LineageExchangeClient) GetPortUse(ctx context.Context, userID, portGUID string, startFrom, pageSize int,
	body *rest.AssetManagerIdentifiersRequestBody) ([]*elements.PortElement, error) {
	return c.ports(ctx, "getPortUse", userID, "/ports/"+esc(portGUID)+"/used-by/retrieve",
		pagingQuery(startFrom, pageSize), body)
}

// GetPortDelegation returns the port that portGUID delegates to, or nil.
func (c *LineageExchangeClient) GetPortDelegation(ctx context.Context, userID, portGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) (*elements.PortElement, error) {
	return c.port(ctx, "getPortDelegation", userID, "/ports/"+esc(portGUID)+"/port-delegations/retrieve", body)
}

// GetValidValuesForPort returns the valid values assigned to the schema type of a port.
func (c *LineageExchangeClient) GetValidValuesForPort(ctx context.Context, userID, portGUID string, startFrom, pageSize int,
	body *rest.AssetManagerIdentifiersRequestBody) ([]*elements.ValidValueAssignmentDefinitionElement, error) {
	r := rest.NewValidValueAssignmentsResponse()
	if err := c.post(ctx, "getValidValuesForPort", userID, "/ports/"+esc(portGUID)+"/valid-values/retrieve",
		pagingQuery(startFrom, pageSize), body, r); err != nil {
		return nil, err
	}
	return r.ElementList, nil
}

// GetPortsByName returns the ports with an exact name.
func (c *LineageExchangeClient) GetPortsByName(ctx context.Context, userID string, startFrom, pageSize int,
	body *rest.NameRequestBody) ([]*elements.PortElement, error) {
	return c.ports(ctx, "getPortsByName", userID, "/ports/by-name", pagingQuery(startFrom, pageSize), body)
}

// GetPortByGUID returns one port.
func (c *LineageExchangeClient) GetPortByGUID(ctx context.Context, userID, portGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) (*elements.PortElement, error) {
	return c.port(ctx, "getPortByGUID", userID, "/ports/"+esc(portGUID)+"/retrieve", body)
}

// SetBusinessSignificant marks an element as meaningful to the business.
func (c *LineageExchangeClient) SetBusinessSignificant(ctx context.Context, userID, elementGUID string,
	body *properties.MetadataCorrelationProperties) error {
	return c.void(ctx, "setBusinessSignificant", userID, "/elements/"+esc(elementGUID)+"/is-business-significant", nil, body)
}

// ClearBusinessSignificant removes the business significance of an element.
func (c *LineageExchangeClient) ClearBusinessSignificant(ctx context.Context, userID, elementGUID string,
	body *properties.MetadataCorrelationProperties) error {
	return c.void(ctx, "clearBusinessSignificant", userID,
		"/elements/"+esc(elementGUID)+"/is-business-significant/remove", nil, body)
}

// Data flows

// SetupDataFlow links a data supplier to a data consumer.
func (c *LineageExchangeClient) SetupDataFlow(ctx context.Context, userID, dataSupplierGUID, dataConsumerGUID string,
	assetManagerIsHome bool, body *rest.DataFlowRequestBody) (string, error) {
	return c.guid(ctx, "setupDataFlow", userID,
		"/data-flows/suppliers/"+esc(dataSupplierGUID)+"/consumers/"+esc(dataConsumerGUID),
		flagQuery("assetManagerIsHome", assetManagerIsHome), body)
}

// GetDataFlow returns the data flow between two elements with the qualified name in body.
func (c *LineageExchangeClient) GetDataFlow(ctx context.Context, userID, dataSupplierGUID, dataConsumerGUID string,
	body *rest.NameRequestBody) (*elements.DataFlowElement, error) {
	r := rest.NewDataFlowElementResponse()
	err := c.post(ctx, "getDataFlow", userID,
		"/data-flows/suppliers/"+esc(dataSupplierGUID)+"/consumers/"+esc(dataConsumerGUID)+"/retrieve", nil, body, r)
	if err != nil {
		return nil, err
	}
	return r.Element, nil
}

// UpdateDataFlow updates the properties of a data flow.
func (c *LineageExchangeClient) UpdateDataFlow(ctx context.Context, userID, dataFlowGUID string,
	body *rest.DataFlowRequestBody) error {
	return c.void(ctx, "updateDataFlow", userID, "/data-flows/"+esc(dataFlowGUID)+"/update", nil, body)
}

// ClearDataFlow removes a data flow.
func (c *LineageExchangeClient) ClearDataFlow(ctx context.Context, userID, dataFlowGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) error {
	return c.void(ctx, "clearDataFlow", userID, "/data-flows/"+esc(dataFlowGUID)+"/remove", nil, body)
}

// GetDataFlowConsumers returns the data flows leaving dataSupplierGUID.
func (c *LineageExchangeClient) GetDataFlowConsumers(ctx context.Context, userID, dataSupplierGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) ([]*elements.DataFlowElement, error) {
	return c.dataFlows(ctx, "getDataFlowConsumers", userID,
		"/data-flows/suppliers/"+esc(dataSupplierGUID)+"/consumers/retrieve", body)
}

// GetDataFlowSuppliers returns the data flows arriving at dataConsumerGUID.
func (c *LineageExchangeClient) GetDataFlowSuppliers(ctx context.Context, userID, dataConsumerGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) ([]*elements.DataFlowElement, error) {
	return c.dataFlows(ctx, "getDataFlowSuppliers", userID,
		"/data-flows/consumers/"+esc(dataConsumerGUID)+"/suppliers/retrieve", body)
}

// Control flows

// SetupControlFlow links a step to the step that follows it.
func (c *LineageExchangeClient) SetupControlFlow(ctx context.Context, userID, currentStepGUID, nextStepGUID string,
	assetManagerIsHome bool, body *rest.ControlFlowRequestBody) (string, error) {
	return c.guid(ctx, "setupControlFlow", userID,
		"/control-flows/current-steps/"+esc(currentStepGUID)+"/next-steps/"+esc(nextStepGUID),
		flagQuery("assetManagerIsHome", assetManagerIsHome), body)
}

// GetControlFlow returns the control flow between two steps with the qualified name in body.
func (c *LineageExchangeClient) GetControlFlow(ctx context.Context, userID, currentStepGUID, nextStepGUID string,
	body *rest.NameRequestBody) (*elements.ControlFlowElement, error) {
	r := rest.NewControlFlowElementResponse()
	err := c.post(ctx, "getControlFlow", userID,
		"/control-flows/current-steps/"+esc(currentStepGUID)+"/next-steps/"+esc(nextStepGUID)+"/retrieve", nil, body, r)
	if err != nil {
		return nil, err
	}
	return r.Element, nil
}

// UpdateControlFlow updates the properties of a control flow.
func (c *LineageExchangeClient) UpdateControlFlow(ctx context.Context, userID, controlFlowGUID string,
	body *rest.ControlFlowRequestBody) error {
	return c.void(ctx, "updateControlFlow", userID, "/control-flows/"+esc(controlFlowGUID)+"/update", nil, body)
}

// ClearControlFlow removes a control flow.
func (c *LineageExchangeClient) ClearControlFlow(ctx context.Context, userID, controlFlowGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) error {
	return c.void(ctx, "clearControlFlow", userID, "/control-flows/"+esc(controlFlowGUID)+"/remove", nil, body)
}

// GetControlFlowNextSteps returns the control flows leaving currentStepGUID.
func (c *LineageExchangeClient) GetControlFlowNextSteps(ctx context.Context, userID, currentStepGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) ([]*elements.ControlFlowElement, error) {
	return c.controlFlows(ctx, "getControlFlowNextSteps", userID,
		"/control-flows/current-steps/"+esc(currentStepGUID)+"/next-steps/retrieve", body)
}

// GetControlFlowPreviousSteps returns the control flows arriving at nextStepGUID.
func (c *LineageExchangeClient) GetControlFlowPreviousSteps(ctx context.Context, userID, nextStepGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) ([]*elements.ControlFlowElement, error) {
	return c.controlFlows(ctx, "getControlFlowPreviousSteps", userID,
		"/control-flows/next-steps/"+esc(nextStepGUID)+"/previous-steps/retrieve", body)
}

// Process calls

// SetupProcessCall records that callerGUID calls calledGUID.
func (c *LineageExchangeClient) SetupProcessCall(ctx context.Context, userID, callerGUID, calledGUID string,
	assetManagerIsHome bool, body *rest.ProcessCallRequestBody) (string, error) {
	return c.guid(ctx, "setupProcessCall", userID,
		"/process-calls/callers/"+esc(callerGUID)+"/called/"+esc(calledGUID),
		flagQuery("assetManagerIsHome", assetManagerIsHome), body)
}

// GetProcessCall returns the process call between two elements with the qualified name in body.
func (c *LineageExchangeClient) GetProcessCall(ctx context.Context, userID, callerGUID, calledGUID string,
	body *rest.NameRequestBody) (*elements.ProcessCallElement, error) {
	r := rest.NewProcessCallElementResponse()
	err := c.post(ctx, "getProcessCall", userID,
		"/process-calls/callers/"+esc(callerGUID)+"/called/"+esc(calledGUID)+"/retrieve", nil, body, r)
	if err != nil {
		return nil, err
	}
	return r.Element, nil
}

// UpdateProcessCall updates the properties of a process call.
func (c *LineageExchangeClient) UpdateProcessCall(ctx context.Context, userID, processCallGUID string,
	body *rest.ProcessCallRequestBody) error {
	return c.void(ctx, "updateProcessCall", userID, "/process-calls/"+esc(processCallGUID)+"/update", nil, body)
}

// ClearProcessCall removes a process call.
func (c *LineageExchangeClient) ClearProcessCall(ctx context.Context, userID, processCallGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) error {
	return c.void(ctx, "clearProcessCall", userID, "/process-calls/"+esc(processCallGUID)+"/remove", nil, body)
}

// GetProcessCalled returns the calls made by callerGUID.
func (c *LineageExchangeClient) GetProcessCalled(ctx context.Context, userID, callerGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) ([]*elements.ProcessCallElement, error) {
	return c.processCalls(ctx, "getProcessCalled", userID, "/process-calls/callers/"+esc(callerGUID)+"/called/retrieve", body)
}

// GetProcessCallers returns the calls received by calledGUID.
func (c *LineageExchangeClient) GetProcessCallers(ctx context.Context, userID, calledGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) ([]*elements.ProcessCallElement, error) {
	return c.processCalls(ctx, "getProcessCallers", userID, "/process-calls/called/"+esc(calledGUID)+"/callers/retrieve", body)
}

// Lineage mappings

// SetupLineageMapping links two elements that represent the same data at different levels.
func (c *LineageExchangeClient) SetupLineageMapping(ctx context.Context, userID, sourceElementGUID, destinationElementGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) error {
	return c.void(ctx, "setupLineageMapping", userID,
		"/lineage-mappings/sources/"+esc(sourceElementGUID)+"/destinations/"+esc(destinationElementGUID), nil, body)
}

// ClearLineageMapping removes a lineage mapping.
func (c *LineageExchangeClient) ClearLineageMapping(ctx context.Context, userID, sourceElementGUID, destinationElementGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) error {
	return c.void(ctx, "clearLineageMapping", userID,
		"/lineage-mappings/sources/"+esc(sourceElementGUID)+"/destinations/"+esc(destinationElementGUID)+"/remove", nil, body)
}

// GetDestinationLineageMappings returns the mappings leaving sourceElementGUID.
func (c *LineageExchangeClient) GetDestinationLineageMappings(ctx context.Context, userID, sourceElementGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) ([]*elements.LineageMappingElement, error) {
	return c.lineageMappings(ctx, "getDestinationLineageMappings", userID,
		"/lineage-mappings/sources/"+esc(sourceElementGUID)+"/destinations/retrieve", body)
}

// GetSourceLineageMappings returns the mappings arriving at destinationElementGUID.
func (c *LineageExchangeClient) GetSourceLineageMappings(ctx context.Context, userID, destinationElementGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) ([]*elements.LineageMappingElement, error) {
	return c.lineageMappings(ctx, "getSourceLineageMappings", userID,
		"/lineage-mappings/destinations/"+esc(destinationElementGUID)+"/sources/retrieve", body)
}

// GetOutTopicConnection returns the connection to the out topic, labelled with callerID.
func (c *LineageExchangeClient) GetOutTopicConnection(ctx context.Context, userID, callerID string) (*rest.Connection, error) {
	r := rest.NewConnectionResponse()
	if err := c.call(ctx, http.MethodGet, "getOutTopicConnection", userID,
		"/topics/out-topic-connection/"+esc(callerID), nil, nil, r); err != nil {
		return nil, err
	}
	return r.Connection, nil
}
