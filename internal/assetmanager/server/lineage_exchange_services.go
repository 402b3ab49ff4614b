package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/handlers"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/rest"
	"github.com/MihaiIliescu/egeria/internal/auditlog"
)

// LineageExchangeRESTServices is the server side of the lineage exchange client. Every
// method returns a response; failures are reported in its exception fields.
type LineageExchangeRESTServices struct {
	instances  *InstanceHandler
	callLogger *RESTCallLogger
	exceptions RESTExceptionHandler
}

// NewLineageExchangeRESTServices creates the services over a set of instances.
func NewLineageExchangeRESTServices(instances *InstanceHandler, logger *zap.Logger) *LineageExchangeRESTServices {
	return &LineageExchangeRESTServices{
		instances:  instances,
		callLogger: NewRESTCallLogger(logger, instances.ServiceName()),
	}
}

// run wraps one REST call: it logs the call, resolves the instance, runs fn and captures
// any error or panic into response.
func (s *LineageExchangeRESTServices) run(ctx context.Context, serverName, userID, methodName string,
	response restResponse, fn func(h *handlers.ProcessExchangeHandler) error) {
	token := s.callLogger.LogRESTCall(serverName, userID, methodName)

	var auditLog *auditlog.AuditLog
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in %s: %v", methodName, r)
			}
		}()
		instance, err := s.instances.Instance(ctx, userID, serverName, methodName)
		if err != nil {
			return err
		}
		auditLog = instance.AuditLog()
		return fn(instance.Handler())
	}()

	s.exceptions.CaptureExceptions(response.Exception(), err, methodName, auditLog)
	s.callLogger.LogRESTCallReturn(token, response)
}

func (s *LineageExchangeRESTServices) noBody(userID, methodName, serverName string) error {
	return s.exceptions.HandleNoRequestBody(userID, methodName, serverName)
}

func identifiers(body *rest.AssetManagerIdentifiersRequestBody) (string, string) {
	if body == nil {
		return "", ""
	}
	return body.AssetManagerGUID, body.AssetManagerName
}

// =====================================================================================
// Processes

// CreateProcess creates a process.
func (s *LineageExchangeRESTServices) CreateProcess(ctx context.Context, serverName, userID string,
	assetManagerIsHome bool, body *rest.ProcessRequestBody) *rest.GUIDResponse {
	const methodName = "createProcess"
	response := rest.NewGUIDResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil {
			return s.noBody(userID, methodName, serverName)
		}
		guid, err := h.CreateProcess(ctx, userID, body.MetadataCorrelationProperties, assetManagerIsHome,
			body.ElementProperties, body.ProcessStatus, methodName)
		response.GUID = guid
		return err
	})
	return response
}

// CreateProcessFromTemplate creates a process by copying an existing element.
func (s *LineageExchangeRESTServices) CreateProcessFromTemplate(ctx context.Context, serverName, userID string,
	assetManagerIsHome bool, templateGUID string, body *rest.TemplateRequestBody) *rest.GUIDResponse {
	const methodName = "createProcessFromTemplate"
	response := rest.NewGUIDResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil {
			return s.noBody(userID, methodName, serverName)
		}
		guid, err := h.CreateProcessFromTemplate(ctx, userID, body.MetadataCorrelationProperties, assetManagerIsHome,
			templateGUID, body.ElementProperties, methodName)
		response.GUID = guid
		return err
	})
	return response
}

// UpdateProcess changes the properties of a process.
func (s *LineageExchangeRESTServices) UpdateProcess(ctx context.Context, serverName, userID, processGUID string,
	isMergeUpdate bool, body *rest.ProcessRequestBody) *rest.VoidResponse {
	const methodName = "updateProcess"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil {
			return s.noBody(userID, methodName, serverName)
		}
		return h.UpdateProcess(ctx, userID, body.MetadataCorrelationProperties, processGUID, isMergeUpdate,
			body.ElementProperties, methodName)
	})
	return response
}

// UpdateProcessStatus changes the status of a process.
func (s *LineageExchangeRESTServices) UpdateProcessStatus(ctx context.Context, serverName, userID, processGUID string,
	body *rest.ProcessStatusRequestBody) *rest.VoidResponse {
	const methodName = "updateProcessStatus"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil {
			return s.noBody(userID, methodName, serverName)
		}
		return h.UpdateProcessStatus(ctx, userID, body.AssetManagerGUID, body.AssetManagerName, processGUID,
			body.ProcessStatus, methodName)
	})
	return response
}

// SetupProcessParent links a child process to its parent.
func (s *LineageExchangeRESTServices) SetupProcessParent(ctx context.Context, serverName, userID,
	parentProcessGUID, childProcessGUID string, assetManagerIsHome bool,
	body *rest.ProcessContainmentTypeRequestBody) *rest.VoidResponse {
	const methodName = "setupProcessParent"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		var amGUID, amName string
		var containment properties.ProcessContainmentType
		if body != nil {
			amGUID, amName = body.AssetManagerGUID, body.AssetManagerName
			containment = body.ProcessContainmentType
		}
		return h.SetupProcessParent(ctx, userID, amGUID, amName, assetManagerIsHome, parentProcessGUID,
			childProcessGUID, containment, methodName)
	})
	return response
}

// ClearProcessParent removes the link between a child process and its parent.
func (s *LineageExchangeRESTServices) ClearProcessParent(ctx context.Context, serverName, userID,
	parentProcessGUID, childProcessGUID string, body *rest.AssetManagerIdentifiersRequestBody) *rest.VoidResponse {
	const methodName = "clearProcessParent"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		return h.ClearProcessParent(ctx, userID, amGUID, amName, parentProcessGUID, childProcessGUID, methodName)
	})
	return response
}

// PublishProcess moves a process into the published zones.
func (s *LineageExchangeRESTServices) PublishProcess(ctx context.Context, serverName, userID, processGUID string,
	_ *rest.AssetManagerIdentifiersRequestBody) *rest.VoidResponse {
	const methodName = "publishProcess"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		return h.PublishProcess(ctx, userID, processGUID, methodName)
	})
	return response
}

// WithdrawProcess moves a process back into the default zones.
func (s *LineageExchangeRESTServices) WithdrawProcess(ctx context.Context, serverName, userID, processGUID string,
	_ *rest.AssetManagerIdentifiersRequestBody) *rest.VoidResponse {
	const methodName = "withdrawProcess"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		return h.WithdrawProcess(ctx, userID, processGUID, methodName)
	})
	return response
}

// RemoveProcess deletes a process together with its ports.
func (s *LineageExchangeRESTServices) RemoveProcess(ctx context.Context, serverName, userID, processGUID string,
	body *properties.MetadataCorrelationProperties) *rest.VoidResponse {
	const methodName = "removeProcess"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		return h.RemoveProcess(ctx, userID, body, processGUID, methodName)
	})
	return response
}

// FindProcesses returns the processes matching a regular expression.
func (s *LineageExchangeRESTServices) FindProcesses(ctx context.Context, serverName, userID string,
	startFrom, pageSize int, body *rest.SearchStringRequestBody) *rest.ProcessElementsResponse {
	const methodName = "findProcesses"
	response := rest.NewProcessElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil {
			return s.noBody(userID, methodName, serverName)
		}
		list, err := h.FindProcesses(ctx, userID, body.AssetManagerGUID, body.AssetManagerName, body.SearchString,
			body.SearchStringParameterName, startFrom, pageSize, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// GetProcessesForAssetManager returns the processes the calling asset manager owns.
func (s *LineageExchangeRESTServices) GetProcessesForAssetManager(ctx context.Context, serverName, userID string,
	startFrom, pageSize int, body *rest.AssetManagerIdentifiersRequestBody) *rest.ProcessElementsResponse {
	const methodName = "getProcessesForAssetManager"
	response := rest.NewProcessElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil {
			return s.noBody(userID, methodName, serverName)
		}
		list, err := h.GetProcessesForAssetManager(ctx, userID, body.AssetManagerGUID, body.AssetManagerName,
			startFrom, pageSize, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// GetProcessesByName returns the processes with a matching name.
func (s *LineageExchangeRESTServices) GetProcessesByName(ctx context.Context, serverName, userID string,
	startFrom, pageSize int, body *rest.NameRequestBody) *rest.ProcessElementsResponse {
	const methodName = "getProcessesByName"
	response := rest.NewProcessElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil {
			return s.noBody(userID, methodName, serverName)
		}
		list, err := h.GetProcessesByName(ctx, userID, body.AssetManagerGUID, body.AssetManagerName, body.Name,
			body.NameParameterName, startFrom, pageSize, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// GetProcessByGUID returns one process.
func (s *LineageExchangeRESTServices) GetProcessByGUID(ctx context.Context, serverName, userID, processGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) *rest.ProcessElementResponse {
	const methodName = "getProcessByGUID"
	response := rest.NewProcessElementResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		element, err := h.GetProcessByGUID(ctx, userID, amGUID, amName, processGUID, methodName)
		response.Element = element
		return err
	})
	return response
}

// GetProcessParent returns the parent of a process, if any.
func (s *LineageExchangeRESTServices) GetProcessParent(ctx context.Context, serverName, userID, processGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) *rest.ProcessElementResponse {
	const methodName = "getProcessParent"
	response := rest.NewProcessElementResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		element, err := h.GetProcessParent(ctx, userID, amGUID, amName, processGUID, methodName)
		response.Element = element
		return err
	})
	return response
}

// GetSubProcesses returns the children of a process.
func (s *LineageExchangeRESTServices) GetSubProcesses(ctx context.Context, serverName, userID, processGUID string,
	startFrom, pageSize int, body *rest.AssetManagerIdentifiersRequestBody) *rest.ProcessElementsResponse {
	const methodName = "getSubProcesses"
	response := rest.NewProcessElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		list, err := h.GetSubProcesses(ctx, userID, amGUID, amName, processGUID, startFrom, pageSize, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// =====================================================================================
// Ports

// CreatePort creates a port on a process.
func (s *LineageExchangeRESTServices) CreatePort(ctx context.Context, serverName, userID string,
	assetManagerIsHome bool, processGUID string, body *rest.PortRequestBody) *rest.GUIDResponse {
	const methodName = "createPort"
	response := rest.NewGUIDResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil {
			return s.noBody(userID, methodName, serverName)
		}
		guid, err := h.CreatePort(ctx, userID, body.MetadataCorrelationProperties, assetManagerIsHome, processGUID,
			body.ElementProperties, methodName)
		response.GUID = guid
		return err
	})
	return response
}

// UpdatePort replaces the properties of a port.
func (s *LineageExchangeRESTServices) UpdatePort(ctx context.Context, serverName, userID, portGUID string,
	body *rest.PortRequestBody) *rest.VoidResponse {
	const methodName = "updatePort"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil {
			return s.noBody(userID, methodName, serverName)
		}
		return h.UpdatePort(ctx, userID, body.MetadataCorrelationProperties, portGUID, body.ElementProperties, methodName)
	})
	return response
}

// SetupProcessPort links a port to a process.
func (s *LineageExchangeRESTServices) SetupProcessPort(ctx context.Context, serverName, userID string,
	assetManagerIsHome bool, processGUID, portGUID string, body *rest.AssetManagerIdentifiersRequestBody) *rest.VoidResponse {
	const methodName = "setupProcessPort"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		return h.SetupProcessPort(ctx, userID, amGUID, amName, assetManagerIsHome, processGUID, portGUID, methodName)
	})
	return response
}

// ClearProcessPort unlinks a port from a process.
func (s *LineageExchangeRESTServices) ClearProcessPort(ctx context.Context, serverName, userID, processGUID,
	portGUID string, body *rest.AssetManagerIdentifiersRequestBody) *rest.VoidResponse {
	const methodName = "clearProcessPort"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		return h.ClearProcessPort(ctx, userID, amGUID, amName, processGUID, portGUID, methodName)
	})
	return response
}

// SetupPortDelegation links a port to the port it delegates to.
func (s *LineageExchangeRESTServices) SetupPortDelegation(ctx context.Context, serverName, userID string,
	assetManagerIsHome bool, portOneGUID, portTwoGUID string, body *rest.AssetManagerIdentifiersRequestBody) *rest.VoidResponse {
	const methodName = "setupPortDelegation"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		return h.SetupPortDelegation(ctx, userID, amGUID, amName, assetManagerIsHome, portOneGUID, portTwoGUID, methodName)
	})
	return response
}

// ClearPortDelegation removes a port delegation.
func (s *LineageExchangeRESTServices) ClearPortDelegation(ctx context.Context, serverName, userID, portOneGUID,
	portTwoGUID string, body *rest.AssetManagerIdentifiersRequestBody) *rest.VoidResponse {
	const methodName = "clearPortDelegation"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		return h.ClearPortDelegation(ctx, userID, amGUID, amName, portOneGUID, portTwoGUID, methodName)
	})
	return response
}

// SetupPortSchemaType links a port to the schema of the data passing through it.
func (s *LineageExchangeRESTServices) SetupPortSchemaType(ctx context.Context, serverName, userID string,
	assetManagerIsHome bool, portGUID, schemaTypeGUID string, body *rest.AssetManagerIdentifiersRequestBody) *rest.VoidResponse {
	const methodName = "setupPortSchemaType"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		return h.SetupPortSchemaType(ctx, userID, amGUID, amName, assetManagerIsHome, portGUID, schemaTypeGUID, methodName)
	})
	return response
}

// ClearPortSchemaType removes the schema type of a port.
func (s *LineageExchangeRESTServices) ClearPortSchemaType(ctx context.Context, serverName, userID, portGUID,
	schemaTypeGUID string, body *rest.AssetManagerIdentifiersRequestBody) *rest.VoidResponse {
	const methodName = "clearPortSchemaType"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		return h.ClearPortSchemaType(ctx, userID, amGUID, amName, portGUID, schemaTypeGUID, methodName)
	})
	return response
}

// RemovePort deletes a port.
func (s *LineageExchangeRESTServices) RemovePort(ctx context.Context, serverName, userID, portGUID string,
	body *properties.MetadataCorrelationProperties) *rest.VoidResponse {
	const methodName = "removePort"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		return h.RemovePort(ctx, userID, body, portGUID, methodName)
	})
	return response
}

// FindPorts returns the ports matching a regular expression.
func (s *LineageExchangeRESTServices) FindPorts(ctx context.Context, serverName, userID string,
	startFrom, pageSize int, body *rest.SearchStringRequestBody) *rest.PortElementsResponse {
	const methodName = "findPorts"
	response := rest.NewPortElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil {
			return s.noBody(userID, methodName, serverName)
		}
		list, err := h.FindPorts(ctx, userID, body.AssetManagerGUID, body.AssetManagerName, body.SearchString,
			body.SearchStringParameterName, startFrom, pageSize, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// GetPortsForProcess returns the ports of a process.
func (s *LineageExchangeRESTServices) GetPortsForProcess(ctx context.Context, serverName, userID, processGUID string,
	startFrom, pageSize int, body *rest.AssetManagerIdentifiersRequestBody) *rest.PortElementsResponse {
	const methodName = "getPortsForProcess"
	response := rest.NewPortElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		list, err := h.GetPortsForProcess(ctx, userID, amGUID, amName, processGUID, startFrom, pageSize, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// GetPortUse returns the ports that delegate to a port.
func (s *LineageExchangeRESTServices) GetPortUse(ctx context.Context, serverName, userID, portGUID string,
	startFrom, pageSize int, body *rest.AssetManagerIdentifiersRequestBody) *rest.PortElementsResponse {
	const methodName = "getPortUse"
	response := rest.NewPortElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		list, err := h.GetPortUse(ctx, userID, amGUID, amName, portGUID, startFrom, pageSize, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// GetPortDelegation returns the port a port delegates to, if any.
func (s *LineageExchangeRESTServices) GetPortDelegation(ctx context.Context, serverName, userID, portGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) *rest.PortElementResponse {
	const methodName = "getPortDelegation"
	response := rest.NewPortElementResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		element, err := h.GetPortDelegation(ctx, userID, amGUID, amName, portGUID, methodName)
		response.Element = element
		return err
	})
	return response
}

// GetValidValuesForPort returns the valid values assigned to the schema type of a port.
func (s *LineageExchangeRESTServices) GetValidValuesForPort(ctx context.Context, serverName, userID, portGUID string,
	startFrom, pageSize int, body *rest.AssetManagerIdentifiersRequestBody) *rest.ValidValueAssignmentsResponse {
	const methodName = "getValidValuesForPort"
	response := rest.NewValidValueAssignmentsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		list, err := h.GetValidValuesForPort(ctx, userID, amGUID, amName, portGUID, startFrom, pageSize, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// GetPortsByName returns the ports with a matching name.
func (s *LineageExchangeRESTServices) GetPortsByName(ctx context.Context, serverName, userID string,
	startFrom, pageSize int, body *rest.NameRequestBody) *rest.PortElementsResponse {
	const methodName = "getPortsByName"
	response := rest.NewPortElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil {
			return s.noBody(userID, methodName, serverName)
		}
		list, err := h.GetPortsByName(ctx, userID, body.AssetManagerGUID, body.AssetManagerName, body.Name,
			body.NameParameterName, startFrom, pageSize, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// GetPortByGUID returns one port.
func (s *LineageExchangeRESTServices) GetPortByGUID(ctx context.Context, serverName, userID, portGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) *rest.PortElementResponse {
	const methodName = "getPortByGUID"
	response := rest.NewPortElementResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		element, err := h.GetPortByGUID(ctx, userID, amGUID, amName, portGUID, methodName)
		response.Element = element
		return err
	})
	return response
}

// =====================================================================================
// Business significance

// SetBusinessSignificant classifies an element as meaningful to the business.
func (s *LineageExchangeRESTServices) SetBusinessSignificant(ctx context.Context, serverName, userID, elementGUID string,
	body *properties.MetadataCorrelationProperties) *rest.VoidResponse {
	const methodName = "setBusinessSignificant"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		return h.SetBusinessSignificant(ctx, userID, body, elementGUID, methodName)
	})
	return response
}

// ClearBusinessSignificant removes the BusinessSignificant classification.
func (s *LineageExchangeRESTServices) ClearBusinessSignificant(ctx context.Context, serverName, userID, elementGUID string,
	body *properties.MetadataCorrelationProperties) *rest.VoidResponse {
	const methodName = "clearBusinessSignificant"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		return h.ClearBusinessSignificant(ctx, userID, body, elementGUID, methodName)
	})
	return response
}

// =====================================================================================
// Data flows

// SetupDataFlow links a data supplier to a data consumer.
func (s *LineageExchangeRESTServices) SetupDataFlow(ctx context.Context, serverName, userID, dataSupplierGUID,
	dataConsumerGUID string, assetManagerIsHome bool, body *rest.DataFlowRequestBody) *rest.GUIDResponse {
	const methodName = "setupDataFlow"
	response := rest.NewGUIDResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil || body.Properties == nil {
			return s.noBody(userID, methodName, serverName)
		}
		guid, err := h.SetupDataFlow(ctx, userID, body.AssetManagerGUID, body.AssetManagerName, assetManagerIsHome,
			dataSupplierGUID, dataConsumerGUID, body.Properties, methodName)
		response.GUID = guid
		return err
	})
	return response
}

// GetDataFlow returns the data flow between two elements. The body names the flow when
// there is more than one.
func (s *LineageExchangeRESTServices) GetDataFlow(ctx context.Context, serverName, userID, dataSupplierGUID,
	dataConsumerGUID string, body *rest.NameRequestBody) *rest.DataFlowElementResponse {
	const methodName = "getDataFlow"
	response := rest.NewDataFlowElementResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		element, err := h.GetDataFlow(ctx, userID, dataSupplierGUID, dataConsumerGUID, qualifiedName(body), methodName)
		response.Element = element
		return err
	})
	return response
}

// UpdateDataFlow replaces the properties of a data flow.
func (s *LineageExchangeRESTServices) UpdateDataFlow(ctx context.Context, serverName, userID, dataFlowGUID string,
	body *rest.DataFlowRequestBody) *rest.VoidResponse {
	const methodName = "updateDataFlow"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil || body.Properties == nil {
			return s.noBody(userID, methodName, serverName)
		}
		return h.UpdateDataFlow(ctx, userID, body.AssetManagerGUID, body.AssetManagerName, dataFlowGUID,
			body.Properties, methodName)
	})
	return response
}

// ClearDataFlow removes a data flow.
func (s *LineageExchangeRESTServices) ClearDataFlow(ctx context.Context, serverName, userID, dataFlowGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) *rest.VoidResponse {
	const methodName = "clearDataFlow"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		return h.ClearDataFlow(ctx, userID, amGUID, amName, dataFlowGUID, methodName)
	})
	return response
}

// GetDataFlowConsumers returns the data flows leaving an element.
func (s *LineageExchangeRESTServices) GetDataFlowConsumers(ctx context.Context, serverName, userID,
	dataSupplierGUID string, _ *rest.AssetManagerIdentifiersRequestBody) *rest.DataFlowElementsResponse {
	const methodName = "getDataFlowConsumers"
	response := rest.NewDataFlowElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		list, err := h.GetDataFlowConsumers(ctx, userID, dataSupplierGUID, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// GetDataFlowSuppliers returns the data flows arriving at an element.
func (s *LineageExchangeRESTServices) GetDataFlowSuppliers(ctx context.Context, serverName, userID,
	dataConsumerGUID string, _ *rest.AssetManagerIdentifiersRequestBody) *rest.DataFlowElementsResponse {
	const methodName = "getDataFlowSuppliers"
	response := rest.NewDataFlowElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		list, err := h.GetDataFlowSuppliers(ctx, userID, dataConsumerGUID, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// =====================================================================================
// Control flows

// SetupControlFlow links a step to the step that follows it.
func (s *LineageExchangeRESTServices) SetupControlFlow(ctx context.Context, serverName, userID, currentStepGUID,
	nextStepGUID string, assetManagerIsHome bool, body *rest.ControlFlowRequestBody) *rest.GUIDResponse {
	const methodName = "setupControlFlow"
	response := rest.NewGUIDResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil || body.Properties == nil {
			return s.noBody(userID, methodName, serverName)
		}
		guid, err := h.SetupControlFlow(ctx, userID, body.AssetManagerGUID, body.AssetManagerName, assetManagerIsHome,
			currentStepGUID, nextStepGUID, body.Properties, methodName)
		response.GUID = guid
		return err
	})
	return response
}

// GetControlFlow returns the control flow between two steps.
func (s *LineageExchangeRESTServices) GetControlFlow(ctx context.Context, serverName, userID, currentStepGUID,
	nextStepGUID string, body *rest.NameRequestBody) *rest.ControlFlowElementResponse {
	const methodName = "getControlFlow"
	response := rest.NewControlFlowElementResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		element, err := h.GetControlFlow(ctx, userID, currentStepGUID, nextStepGUID, qualifiedName(body), methodName)
		response.Element = element
		return err
	})
	return response
}

// UpdateControlFlow replaces the properties of a control flow.
func (s *LineageExchangeRESTServices) UpdateControlFlow(ctx context.Context, serverName, userID, controlFlowGUID string,
	body *rest.ControlFlowRequestBody) *rest.VoidResponse {
	const methodName = "updateControlFlow"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil || body.Properties == nil {
			return s.noBody(userID, methodName, serverName)
		}
		return h.UpdateControlFlow(ctx, userID, body.AssetManagerGUID, body.AssetManagerName, controlFlowGUID,
			body.Properties, methodName)
	})
	return response
}

// ClearControlFlow removes a control flow.
func (s *LineageExchangeRESTServices) ClearControlFlow(ctx context.Context, serverName, userID, controlFlowGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) *rest.VoidResponse {
	const methodName = "clearControlFlow"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		return h.ClearControlFlow(ctx, userID, amGUID, amName, controlFlowGUID, methodName)
	})
	return response
}

// GetControlFlowNextSteps returns the control flows leaving a step.
func (s *LineageExchangeRESTServices) GetControlFlowNextSteps(ctx context.Context, serverName, userID,
	currentStepGUID string, _ *rest.AssetManagerIdentifiersRequestBody) *rest.ControlFlowElementsResponse {
	const methodName = "getControlFlowNextSteps"
	response := rest.NewControlFlowElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		list, err := h.GetControlFlowNextSteps(ctx, userID, currentStepGUID, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// GetControlFlowPreviousSteps returns the control flows arriving at a step.
func (s *LineageExchangeRESTServices) GetControlFlowPreviousSteps(ctx context.Context, serverName, userID,
	currentStepGUID string, _ *rest.AssetManagerIdentifiersRequestBody) *rest.ControlFlowElementsResponse {
	const methodName = "getControlFlowPreviousSteps"
	response := rest.NewControlFlowElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		list, err := h.GetControlFlowPreviousSteps(ctx, userID, currentStepGUID, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// =====================================================================================
// Process calls

// SetupProcessCall links a caller to the element it calls.
func (s *LineageExchangeRESTServices) SetupProcessCall(ctx context.Context, serverName, userID, callerGUID,
	calledGUID string, assetManagerIsHome bool, body *rest.ProcessCallRequestBody) *rest.GUIDResponse {
	const methodName = "setupProcessCall"
	response := rest.NewGUIDResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil || body.Properties == nil {
			return s.noBody(userID, methodName, serverName)
		}
		guid, err := h.SetupProcessCall(ctx, userID, body.AssetManagerGUID, body.AssetManagerName, assetManagerIsHome,
			callerGUID, calledGUID, body.Properties, methodName)
		response.GUID = guid
		return err
	})
	return response
}

// GetProcessCall returns the process call between two elements.
func (s *LineageExchangeRESTServices) GetProcessCall(ctx context.Context, serverName, userID, callerGUID,
	calledGUID string, body *rest.NameRequestBody) *rest.ProcessCallElementResponse {
	const methodName = "getProcessCall"
	response := rest.NewProcessCallElementResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		element, err := h.GetProcessCall(ctx, userID, callerGUID, calledGUID, qualifiedName(body), methodName)
		response.Element = element
		return err
	})
	return response
}

// UpdateProcessCall replaces the properties of a process call.
func (s *LineageExchangeRESTServices) UpdateProcessCall(ctx context.Context, serverName, userID, processCallGUID string,
	body *rest.ProcessCallRequestBody) *rest.VoidResponse {
	const methodName = "updateProcessCall"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		if body == nil || body.Properties == nil {
			return s.noBody(userID, methodName, serverName)
		}
		return h.UpdateProcessCall(ctx, userID, body.AssetManagerGUID, body.AssetManagerName, processCallGUID,
			body.Properties, methodName)
	})
	return response
}

// ClearProcessCall removes a process call.
func (s *LineageExchangeRESTServices) ClearProcessCall(ctx context.Context, serverName, userID, processCallGUID string,
	body *rest.AssetManagerIdentifiersRequestBody) *rest.VoidResponse {
	const methodName = "clearProcessCall"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		return h.ClearProcessCall(ctx, userID, amGUID, amName, processCallGUID, methodName)
	})
	return response
}

// GetProcessCalled returns the process calls made by an element.
func (s *LineageExchangeRESTServices) GetProcessCalled(ctx context.Context, serverName, userID, callerGUID string,
	_ *rest.AssetManagerIdentifiersRequestBody) *rest.ProcessCallElementsResponse {
	const methodName = "getProcessCalled"
	response := rest.NewProcessCallElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		list, err := h.GetProcessCalled(ctx, userID, callerGUID, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// GetProcessCallers returns the process calls that reach an element.
func (s *LineageExchangeRESTServices) GetProcessCallers(ctx context.Context, serverName, userID, calledGUID string,
	_ *rest.AssetManagerIdentifiersRequestBody) *rest.ProcessCallElementsResponse {
	const methodName = "getProcessCallers"
	response := rest.NewProcessCallElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		list, err := h.GetProcessCallers(ctx, userID, calledGUID, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// =====================================================================================
// Lineage mappings

// SetupLineageMapping links a source element to a destination element.
func (s *LineageExchangeRESTServices) SetupLineageMapping(ctx context.Context, serverName, userID, sourceElementGUID,
	destinationElementGUID string, body *rest.AssetManagerIdentifiersRequestBody) *rest.VoidResponse {
	const methodName = "setupLineageMapping"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		return h.SetupLineageMapping(ctx, userID, amGUID, amName, sourceElementGUID, destinationElementGUID, methodName)
	})
	return response
}

// ClearLineageMapping removes a lineage mapping.
func (s *LineageExchangeRESTServices) ClearLineageMapping(ctx context.Context, serverName, userID, sourceElementGUID,
	destinationElementGUID string, body *rest.AssetManagerIdentifiersRequestBody) *rest.VoidResponse {
	const methodName = "clearLineageMapping"
	response := rest.NewVoidResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		amGUID, amName := identifiers(body)
		return h.ClearLineageMapping(ctx, userID, amGUID, amName, sourceElementGUID, destinationElementGUID, methodName)
	})
	return response
}

// GetDestinationLineageMappings returns the lineage mappings leaving an element.
func (s *LineageExchangeRESTServices) GetDestinationLineageMappings(ctx context.Context, serverName, userID,
	sourceElementGUID string, _ *rest.AssetManagerIdentifiersRequestBody) *rest.LineageMappingElementsResponse {
	const methodName = "getDestinationLineageMappings"
	response := rest.NewLineageMappingElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		list, err := h.GetDestinationLineageMappings(ctx, userID, sourceElementGUID, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// GetSourceLineageMappings returns the lineage mappings arriving at an element.
func (s *LineageExchangeRESTServices) GetSourceLineageMappings(ctx context.Context, serverName, userID,
	destinationElementGUID string, _ *rest.AssetManagerIdentifiersRequestBody) *rest.LineageMappingElementsResponse {
	const methodName = "getSourceLineageMappings"
	response := rest.NewLineageMappingElementsResponse()
	s.run(ctx, serverName, userID, methodName, response, func(h *handlers.ProcessExchangeHandler) error {
		list, err := h.GetSourceLineageMappings(ctx, userID, destinationElementGUID, methodName)
		response.ElementList = list
		return err
	})
	return response
}

// =====================================================================================
// Events

// CallerIDProperty is the connection configuration property that names the listening
// server; it becomes part of the consumer group.
const CallerIDProperty = "local.server.id"

// GetOutTopicConnection returns the connection for the out topic of the service.
func (s *LineageExchangeRESTServices) GetOutTopicConnection(ctx context.Context, serverName, userID,
	callerID string) *rest.ConnectionResponse {
	const methodName = "getOutTopicConnection"
	response := rest.NewConnectionResponse()
	s.run(ctx, serverName, userID, methodName, response, func(*handlers.ProcessExchangeHandler) error {
		connection, err := s.instances.OutTopicConnection(ctx, userID, serverName, methodName)
		if err != nil {
			return err
		}
		c := *connection
		c.ConfigurationProperties = make(map[string]any, len(connection.ConfigurationProperties)+1)
		for k, v := range connection.ConfigurationProperties {
			c.ConfigurationProperties[k] = v
		}
		if callerID != "" {
			c.ConfigurationProperties[CallerIDProperty] = callerID
		}
		response.Connection = &c
		return nil
	})
	return response
}

func qualifiedName(body *rest.NameRequestBody) string {
	if body == nil {
		return ""
	}
	return body.Name
}
