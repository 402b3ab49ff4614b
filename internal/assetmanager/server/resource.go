package server

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/apiutil"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/rest"
	"github.com/MihaiIliescu/egeria/internal/security"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

// BasePath is the root of every asset manager REST operation.
const BasePath = "/servers/:serverName/open-metadata/access-services/asset-manager/users/:userId"

// LineageExchangeResource maps the lineage exchange REST API onto the services. OMAS
// operations always answer HTTP 200; failures travel in the response's exception fields.
type LineageExchangeResource struct {
	services *LineageExchangeRESTServices
	logger   *zap.Logger
}

// NewLineageExchangeResource creates the resource.
func NewLineageExchangeResource(services *LineageExchangeRESTServices, logger *zap.Logger) *LineageExchangeResource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LineageExchangeResource{services: services, logger: logger}
}

// RegisterRoutes adds the routes below BasePath.
func (r *LineageExchangeResource) RegisterRoutes(router gin.IRouter) {
	g := router.Group(BasePath)

	g.GET("/topics/out-topic-connection/:callerId", r.getOutTopicConnection)
	g.GET("/request-body-schemas/:bodyName", r.getRequestBodySchema)

	processes := g.Group("/processes")
	{
		processes.POST("", r.createProcess)
		processes.POST("/from-template/:templateGUID", r.createProcessFromTemplate)
		processes.POST("/by-search-string", r.findProcesses)
		processes.POST("/by-asset-manager", r.getProcessesForAssetManager)
		processes.POST("/by-name", r.getProcessesByName)
		processes.POST("/parent/:parentProcessGUID/child/:childProcessGUID", r.setupProcessParent)
		processes.POST("/parent/:parentProcessGUID/child/:childProcessGUID/remove", r.clearProcessParent)
		processes.POST("/:processGUID/update", r.updateProcess)
		processes.POST("/:processGUID/update-status", r.updateProcessStatus)
		processes.POST("/:processGUID/publish", r.publishProcess)
		processes.POST("/:processGUID/withdraw", r.withdrawProcess)
		processes.POST("/:processGUID/remove", r.removeProcess)
		processes.POST("/:processGUID/retrieve", r.getProcessByGUID)
		processes.POST("/:processGUID/parent/retrieve", r.getProcessParent)
		processes.POST("/:processGUID/children/retrieve", r.getSubProcesses)
		processes.POST("/:processGUID/ports", r.createPort)
		processes.POST("/:processGUID/ports/retrieve", r.getPortsForProcess)
		processes.POST("/:processGUID/ports/:portGUID", r.setupProcessPort)
		processes.POST("/:processGUID/ports/:portGUID/remove", r.clearProcessPort)
	}

	ports := g.Group("/ports")
	{
		ports.POST("/by-search-string", r.findPorts)
		ports.POST("/by-name", r.getPortsByName)
		ports.POST("/:portGUID/update", r.updatePort)
		ports.POST("/:portGUID/remove", r.removePort)
		ports.POST("/:portGUID/retrieve", r.getPortByGUID)
		ports.POST("/:portGUID/used-by/retrieve", r.getPortUse)
		ports.POST("/:portGUID/port-delegations/retrieve", r.getPortDelegation)
		ports.POST("/:portGUID/port-delegations/:portTwoGUID", r.setupPortDelegation)
		ports.POST("/:portGUID/port-delegations/:portTwoGUID/remove", r.clearPortDelegation)
		ports.POST("/:portGUID/schema-type/:schemaTypeGUID", r.setupPortSchemaType)
		ports.POST("/:portGUID/schema-type/:schemaTypeGUID/remove", r.clearPortSchemaType)
		ports.POST("/:portGUID/valid-values/retrieve", r.getValidValuesForPort)
	}

	g.POST("/elements/:elementGUID/is-business-significant", r.setBusinessSignificant)
	g.POST("/elements/:elementGUID/is-business-significant/remove", r.clearBusinessSignificant)

	dataFlows := g.Group("/data-flows")
	{
		dataFlows.POST("/suppliers/:supplierGUID/consumers/:consumerGUID", r.setupDataFlow)
		dataFlows.POST("/suppliers/:supplierGUID/consumers/:consumerGUID/retrieve", r.getDataFlow)
		dataFlows.POST("/suppliers/:supplierGUID/consumers/retrieve", r.getDataFlowConsumers)
		dataFlows.POST("/consumers/:consumerGUID/suppliers/retrieve", r.getDataFlowSuppliers)
		dataFlows.POST("/:relationshipGUID/update", r.updateDataFlow)
		dataFlows.POST("/:relationshipGUID/remove", r.clearDataFlow)
	}

	controlFlows := g.Group("/control-flows")
	{
		controlFlows.POST("/current-steps/:currentStepGUID/next-steps/:nextStepGUID", r.setupControlFlow)
		controlFlows.POST("/current-steps/:currentStepGUID/next-steps/:nextStepGUID/retrieve", r.getControlFlow)
		controlFlows.POST("/current-steps/:currentStepGUID/next-steps/retrieve", r.getControlFlowNextSteps)
		controlFlows.POST("/next-steps/:nextStepGUID/previous-steps/retrieve", r.getControlFlowPreviousSteps)
		controlFlows.POST("/:relationshipGUID/update", r.updateControlFlow)
		controlFlows.POST("/:relationshipGUID/remove", r.clearControlFlow)
	}

	processCalls := g.Group("/process-calls")
	{
		processCalls.POST("/callers/:callerGUID/called/:calledGUID", r.setupProcessCall)
		processCalls.POST("/callers/:callerGUID/called/:calledGUID/retrieve", r.getProcessCall)
		processCalls.POST("/callers/:callerGUID/called/retrieve", r.getProcessCalled)
		processCalls.POST("/called/:calledGUID/callers/retrieve", r.getProcessCallers)
		processCalls.POST("/:relationshipGUID/update", r.updateProcessCall)
		processCalls.POST("/:relationshipGUID/remove", r.clearProcessCall)
	}

	lineageMappings := g.Group("/lineage-mappings")
	{
		lineageMappings.POST("/sources/:sourceGUID/destinations/:destinationGUID", r.setupLineageMapping)
		lineageMappings.POST("/sources/:sourceGUID/destinations/:destinationGUID/remove", r.clearLineageMapping)
		lineageMappings.POST("/sources/:sourceGUID/destinations/retrieve", r.getDestinationLineageMappings)
		lineageMappings.POST("/destinations/:destinationGUID/sources/retrieve", r.getSourceLineageMappings)
	}
}

// callContext carries the bearer token of the request to the security verifier.
func callContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		ctx = security.WithToken(ctx, strings.TrimPrefix(auth, "Bearer "))
	}
	return ctx
}

// bindBody decodes an optional JSON body. A missing body gives nil; a malformed one is
// answered with a problem report and ok=false.
func bindBody[T any](c *gin.Context) (*T, bool) {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil, true
	}
	var body T
	if err := c.ShouldBindJSON(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, true
		}
		apiutil.MalformedBody(c, err)
		return nil, false
	}
	return &body, true
}

func queryBool(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}

// paging reads startFrom and pageSize. Range checks belong to the handler; only
// non-numeric values are rejected here.
func paging(c *gin.Context) (startFrom, pageSize int, ok bool) {
	var err error
	if v := c.Query("startFrom"); v != "" {
		if startFrom, err = strconv.Atoi(v); err != nil {
			apiutil.InvalidQuery(c, "startFrom", "must be an integer")
			return 0, 0, false
		}
	}
	if v := c.Query("pageSize"); v != "" {
		if pageSize, err = strconv.Atoi(v); err != nil {
			apiutil.InvalidQuery(c, "pageSize", "must be an integer")
			return 0, 0, false
		}
	}
	return startFrom, pageSize, true
}

func serverAndUser(c *gin.Context) (string, string) {
	return c.Param("serverName"), c.Param("userId")
}

// requestBodies lists the bodies whose JSON schema can be retrieved.
var requestBodies = map[string]any{
	"asset-manager-identifiers":     &rest.AssetManagerIdentifiersRequestBody{},
	"process":                       &rest.ProcessRequestBody{},
	"template":                      &rest.TemplateRequestBody{},
	"process-status":                &rest.ProcessStatusRequestBody{},
	"process-containment-type":      &rest.ProcessContainmentTypeRequestBody{},
	"search-string":                 &rest.SearchStringRequestBody{},
	"name":                          &rest.NameRequestBody{},
	"port":                          &rest.PortRequestBody{},
	"data-flow":                     &rest.DataFlowRequestBody{},
	"control-flow":                  &rest.ControlFlowRequestBody{},
	"process-call":                  &rest.ProcessCallRequestBody{},
	"metadata-correlation-property": &properties.MetadataCorrelationProperties{},
}

func (r *LineageExchangeResource) getRequestBodySchema(c *gin.Context) {
	body, ok := requestBodies[c.Param("bodyName")]
	if !ok {
		apiutil.RouteNotFound(c)
		return
	}
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	c.JSON(http.StatusOK, reflector.Reflect(body))
}

// @Summary Get the out topic connection
// @Tags events
// @Produce json
// @Param serverName path string true "Server name"
// @Param userId path string true "Calling user"
// @Param callerId path string true "Unique name of the listening server"
// @Success 200 {object} rest.ConnectionResponse
// @Router /servers/{serverName}/open-metadata/access-services/asset-manager/users/{userId}/topics/out-topic-connection/{callerId} [get]
func (r *LineageExchangeResource) getOutTopicConnection(c *gin.Context) {
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetOutTopicConnection(callContext(c), server, user, c.Param("callerId")))
}

// Processes

// @Summary Create a process
// @Tags processes
// @Accept json
// @Produce json
// @Param assetManagerIsHome query bool false "Only the calling asset manager may update the process"
// @Param request body rest.ProcessRequestBody true "Process properties"
// @Success 200 {object} rest.GUIDResponse
// @Router /servers/{serverName}/open-metadata/access-services/asset-manager/users/{userId}/processes [post]
func (r *LineageExchangeResource) createProcess(c *gin.Context) {
	body, ok := bindBody[rest.ProcessRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.CreateProcess(callContext(c), server, user, queryBool(c, "assetManagerIsHome"), body))
}

func (r *LineageExchangeResource) createProcessFromTemplate(c *gin.Context) {
	body, ok := bindBody[rest.TemplateRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.CreateProcessFromTemplate(callContext(c), server, user,
		queryBool(c, "assetManagerIsHome"), c.Param("templateGUID"), body))
}

func (r *LineageExchangeResource) updateProcess(c *gin.Context) {
	body, ok := bindBody[rest.ProcessRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.UpdateProcess(callContext(c), server, user, c.Param("processGUID"),
		queryBool(c, "isMergeUpdate"), body))
}

func (r *LineageExchangeResource) updateProcessStatus(c *gin.Context) {
	body, ok := bindBody[rest.ProcessStatusRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.UpdateProcessStatus(callContext(c), server, user, c.Param("processGUID"), body))
}

func (r *LineageExchangeResource) setupProcessParent(c *gin.Context) {
	body, ok := bindBody[rest.ProcessContainmentTypeRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.SetupProcessParent(callContext(c), server, user, c.Param("parentProcessGUID"),
		c.Param("childProcessGUID"), queryBool(c, "assetManagerIsHome"), body))
}

func (r *LineageExchangeResource) clearProcessParent(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.ClearProcessParent(callContext(c), server, user, c.Param("parentProcessGUID"),
		c.Param("childProcessGUID"), body))
}

func (r *LineageExchangeResource) publishProcess(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.PublishProcess(callContext(c), server, user, c.Param("processGUID"), body))
}

func (r *LineageExchangeResource) withdrawProcess(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.WithdrawProcess(callContext(c), server, user, c.Param("processGUID"), body))
}

func (r *LineageExchangeResource) removeProcess(c *gin.Context) {
	body, ok := bindBody[properties.MetadataCorrelationProperties](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.RemoveProcess(callContext(c), server, user, c.Param("processGUID"), body))
}

// @Summary Find processes by regular expression
// @Tags processes
// @Accept json
// @Produce json
// @Param startFrom query int false "Index of the first result"
// @Param pageSize query int false "Maximum number of results"
// @Param request body rest.SearchStringRequestBody true "Search string"
// @Success 200 {object} rest.ProcessElementsResponse
// @Router /servers/{serverName}/open-metadata/access-services/asset-manager/users/{userId}/processes/by-search-string [post]
func (r *LineageExchangeResource) findProcesses(c *gin.Context) {
	startFrom, pageSize, ok := paging(c)
	if !ok {
		return
	}
	body, ok := bindBody[rest.SearchStringRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.FindProcesses(callContext(c), server, user, startFrom, pageSize, body))
}

func (r *LineageExchangeResource) getProcessesForAssetManager(c *gin.Context) {
	startFrom, pageSize, ok := paging(c)
	if !ok {
		return
	}
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetProcessesForAssetManager(callContext(c), server, user, startFrom, pageSize, body))
}

func (r *LineageExchangeResource) getProcessesByName(c *gin.Context) {
	startFrom, pageSize, ok := paging(c)
	if !ok {
		return
	}
	body, ok := bindBody[rest.NameRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetProcessesByName(callContext(c), server, user, startFrom, pageSize, body))
}

func (r *LineageExchangeResource) getProcessByGUID(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetProcessByGUID(callContext(c), server, user, c.Param("processGUID"), body))
}

func (r *LineageExchangeResource) getProcessParent(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetProcessParent(callContext(c), server, user, c.Param("processGUID"), body))
}

func (r *LineageExchangeResource) getSubProcesses(c *gin.Context) {
	startFrom, pageSize, ok := paging(c)
	if !ok {
		return
	}
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetSubProcesses(callContext(c), server, user, c.Param("processGUID"),
		startFrom, pageSize, body))
}

// Ports

func (r *LineageExchangeResource) createPort(c *gin.Context) {
	body, ok := bindBody[rest.PortRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.CreatePort(callContext(c), server, user, queryBool(c, "assetManagerIsHome"),
		c.Param("processGUID"), body))
}

func (r *LineageExchangeResource) updatePort(c *gin.Context) {
	body, ok := bindBody[rest.PortRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.UpdatePort(callContext(c), server, user, c.Param("portGUID"), body))
}

func (r *LineageExchangeResource) setupProcessPort(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.SetupProcessPort(callContext(c), server, user, queryBool(c, "assetManagerIsHome"),
		c.Param("processGUID"), c.Param("portGUID"), body))
}

func (r *LineageExchangeResource) clearProcessPort(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.ClearProcessPort(callContext(c), server, user, c.Param("processGUID"),
		c.Param("portGUID"), body))
}

func (r *LineageExchangeResource) setupPortDelegation(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.SetupPortDelegation(callContext(c), server, user, queryBool(c, "assetManagerIsHome"),
		c.Param("portGUID"), c.Param("portTwoGUID"), body))
}

func (r *LineageExchangeResource) clearPortDelegation(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.ClearPortDelegation(callContext(c), server, user, c.Param("portGUID"),
		c.Param("portTwoGUID"), body))
}

func (r *LineageExchangeResource) setupPortSchemaType(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.SetupPortSchemaType(callContext(c), server, user, queryBool(c, "assetManagerIsHome"),
		c.Param("portGUID"), c.Param("schemaTypeGUID"), body))
}

func (r *LineageExchangeResource) clearPortSchemaType(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.ClearPortSchemaType(callContext(c), server, user, c.Param("portGUID"),
		c.Param("schemaTypeGUID"), body))
}

func (r *LineageExchangeResource) removePort(c *gin.Context) {
	body, ok := bindBody[properties.MetadataCorrelationProperties](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.RemovePort(callContext(c), server, user, c.Param("portGUID"), body))
}

func (r *LineageExchangeResource) findPorts(c *gin.Context) {
	startFrom, pageSize, ok := paging(c)
	if !ok {
		return
	}
	body, ok := bindBody[rest.SearchStringRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.FindPorts(callContext(c), server, user, startFrom, pageSize, body))
}

func (r *LineageExchangeResource) getPortsForProcess(c *gin.Context) {
	startFrom, pageSize, ok := paging(c)
	if !ok {
		return
	}
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetPortsForProcess(callContext(c), server, user, c.Param("processGUID"),
		startFrom, pageSize, body))
}

func (r *LineageExchangeResource) getPortUse(c *gin.Context) {
	startFrom, pageSize, ok := paging(c)
	if !ok {
		return
	}
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetPortUse(callContext(c), server, user, c.Param("portGUID"),
		startFrom, pageSize, body))
}

func (r *LineageExchangeResource) getValidValuesForPort(c *gin.Context) {
	startFrom, pageSize, ok := paging(c)
	if !ok {
		return
	}
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetValidValuesForPort(callContext(c), server, user, c.Param("portGUID"),
		startFrom, pageSize, body))
}

func (r *LineageExchangeResource) getPortDelegation(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetPortDelegation(callContext(c), server, user, c.Param("portGUID"), body))
}

func (r *LineageExchangeResource) getPortsByName(c *gin.Context) {
	startFrom, pageSize, ok := paging(c)
	if !ok {
		return
	}
	body, ok := bindBody[rest.NameRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetPortsByName(callContext(c), server, user, startFrom, pageSize, body))
}

func (r *LineageExchangeResource) getPortByGUID(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetPortByGUID(callContext(c), server, user, c.Param("portGUID"), body))
}

// Business significance

func (r *LineageExchangeResource) setBusinessSignificant(c *gin.Context) {
	body, ok := bindBody[properties.MetadataCorrelationProperties](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.SetBusinessSignificant(callContext(c), server, user, c.Param("elementGUID"), body))
}

func (r *LineageExchangeResource) clearBusinessSignificant(c *gin.Context) {
	body, ok := bindBody[properties.MetadataCorrelationProperties](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.ClearBusinessSignificant(callContext(c), server, user, c.Param("elementGUID"), body))
}

// Data flows

// @Summary Link a data supplier to a data consumer
// @Tags lineage
// @Accept json
// @Produce json
// @Param assetManagerIsHome query bool false "Only the calling asset manager may update the relationship"
// @Param request body rest.DataFlowRequestBody true "Data flow properties"
// @Success 200 {object} rest.GUIDResponse
// @Router /servers/{serverName}/open-metadata/access-services/asset-manager/users/{userId}/data-flows/suppliers/{supplierGUID}/consumers/{consumerGUID} [post]
func (r *LineageExchangeResource) setupDataFlow(c *gin.Context) {
	body, ok := bindBody[rest.DataFlowRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.SetupDataFlow(callContext(c), server, user, c.Param("supplierGUID"),
		c.Param("consumerGUID"), queryBool(c, "assetManagerIsHome"), body))
}

func (r *LineageExchangeResource) getDataFlow(c *gin.Context) {
	body, ok := bindBody[rest.NameRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetDataFlow(callContext(c), server, user, c.Param("supplierGUID"),
		c.Param("consumerGUID"), body))
}

func (r *LineageExchangeResource) updateDataFlow(c *gin.Context) {
	body, ok := bindBody[rest.DataFlowRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.UpdateDataFlow(callContext(c), server, user, c.Param("relationshipGUID"), body))
}

func (r *LineageExchangeResource) clearDataFlow(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.ClearDataFlow(callContext(c), server, user, c.Param("relationshipGUID"), body))
}

func (r *LineageExchangeResource) getDataFlowConsumers(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetDataFlowConsumers(callContext(c), server, user, c.Param("supplierGUID"), body))
}

func (r *LineageExchangeResource) getDataFlowSuppliers(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetDataFlowSuppliers(callContext(c), server, user, c.Param("consumerGUID"), body))
}

// Control flows

func (r *LineageExchangeResource) setupControlFlow(c *gin.Context) {
	body, ok := bindBody[rest.ControlFlowRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.SetupControlFlow(callContext(c), server, user, c.Param("currentStepGUID"),
		c.Param("nextStepGUID"), queryBool(c, "assetManagerIsHome"), body))
}

func (r *LineageExchangeResource) getControlFlow(c *gin.Context) {
	body, ok := bindBody[rest.NameRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetControlFlow(callContext(c), server, user, c.Param("currentStepGUID"),
		c.Param("nextStepGUID"), body))
}

func (r *LineageExchangeResource) updateControlFlow(c *gin.Context) {
	body, ok := bindBody[rest.ControlFlowRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.UpdateControlFlow(callContext(c), server, user, c.Param("relationshipGUID"), body))
}

func (r *LineageExchangeResource) clearControlFlow(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.ClearControlFlow(callContext(c), server, user, c.Param("relationshipGUID"), body))
}

func (r *LineageExchangeResource) getControlFlowNextSteps(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetControlFlowNextSteps(callContext(c), server, user, c.Param("currentStepGUID"), body))
}

func (r *LineageExchangeResource) getControlFlowPreviousSteps(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetControlFlowPreviousSteps(callContext(c), server, user, c.Param("nextStepGUID"), body))
}

// Process calls

func (r *LineageExchangeResource) setupProcessCall(c *gin.Context) {
	body, ok := bindBody[rest.ProcessCallRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.SetupProcessCall(callContext(c), server, user, c.Param("callerGUID"),
		c.Param("calledGUID"), queryBool(c, "assetManagerIsHome"), body))
}

func (r *LineageExchangeResource) getProcessCall(c *gin.Context) {
	body, ok := bindBody[rest.NameRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetProcessCall(callContext(c), server, user, c.Param("callerGUID"),
		c.Param("calledGUID"), body))
}

func (r *LineageExchangeResource) updateProcessCall(c *gin.Context) {
	body, ok := bindBody[rest.ProcessCallRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.UpdateProcessCall(callContext(c), server, user, c.Param("relationshipGUID"), body))
}

func (r *LineageExchangeResource) clearProcessCall(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.ClearProcessCall(callContext(c), server, user, c.Param("relationshipGUID"), body))
}

func (r *LineageExchangeResource) getProcessCalled(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetProcessCalled(callContext(c), server, user, c.Param("callerGUID"), body))
}

func (r *LineageExchangeResource) getProcessCallers(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetProcessCallers(callContext(c), server, user, c.Param("calledGUID"), body))
}

// Lineage mappings

func (r *LineageExchangeResource) setupLineageMapping(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.SetupLineageMapping(callContext(c), server, user, c.Param("sourceGUID"),
		c.Param("destinationGUID"), body))
}

func (r *LineageExchangeResource) clearLineageMapping(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.ClearLineageMapping(callContext(c), server, user, c.Param("sourceGUID"),
		c.Param("destinationGUID"), body))
}

func (r *LineageExchangeResource) getDestinationLineageMappings(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetDestinationLineageMappings(callContext(c), server, user, c.Param("sourceGUID"), body))
}

func (r *LineageExchangeResource) getSourceLineageMappings(c *gin.Context) {
	body, ok := bindBody[rest.AssetManagerIdentifiersRequestBody](c)
	if !ok {
		return
	}
	server, user := serverAndUser(c)
	c.JSON(http.StatusOK, r.services.GetSourceLineageMappings(callContext(c), server, user, c.Param("destinationGUID"), body))
}
