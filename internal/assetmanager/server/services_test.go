package server_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/ffdc"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/rest"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/server"
	"github.com/MihaiIliescu/egeria/internal/auditlog"
	"github.com/MihaiIliescu/egeria/internal/config"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/internal/security"
	omagerrors "github.com/MihaiIliescu/egeria/pkg/errors"
)

const (
	serverName = "cocoMDS1"
	user       = "erin"
)

type fixture struct {
	services  *server.LineageExchangeRESTServices
	instances *server.InstanceHandler
	audit     *auditlog.MemoryDestination
}

func newFixture(t *testing.T, verifier *security.Verifier) *fixture {
	t.Helper()
	audit := &auditlog.MemoryDestination{}
	instance, err := server.NewInstance(config.OMAGServerConfig{
		Name:                 serverName,
		MetadataCollectionID: "local-id",
		DefaultZones:         []string{"quarantine"},
		PublishedZones:       []string{"data-lake"},
		MaxPageSize:          50,
	}, server.InstanceOptions{
		Store:             repository.NewMemoryStore(),
		AuditDestinations: []auditlog.Destination{audit},
		OutTopicConnection: &rest.Connection{
			QualifiedName:           "asset-manager-out-topic",
			ConnectorProviderName:   "kafka",
			Endpoint:                "localhost:9092",
			ConfigurationProperties: map[string]any{"topic": "egeria.omas.asset-manager.out"},
		},
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)

	instances := server.NewInstanceHandler(verifier)
	instances.Register(instance)
	return &fixture{
		services:  server.NewLineageExchangeRESTServices(instances, zap.NewNop()),
		instances: instances,
		audit:     audit,
	}
}

func processBody(qualifiedName string) *rest.ProcessRequestBody {
	return &rest.ProcessRequestBody{
		ElementProperties: &properties.ProcessProperties{
			ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: qualifiedName},
			DisplayName:             qualifiedName,
		},
	}
}

func requireNoException(t *testing.T, r rest.ExceptionCarrier) {
	t.Helper()
	require.False(t, r.Exception().Failed(), r.Exception().String())
}

func TestNewInstanceAudit(t *testing.T) {
	f := newFixture(t, nil)
	records := f.audit.Records()
	require.Len(t, records, 2)
	assert.Equal(t, ffdc.ServiceInitializing.ID, records[0].MessageID)
	assert.Equal(t, ffdc.ServiceInitialized.ID, records[1].MessageID)

	f.instances.Unregister(serverName)
	records = f.audit.Records()
	assert.Equal(t, ffdc.ServiceShutdown.ID, records[len(records)-1].MessageID)
	assert.Empty(t, f.instances.ServerNames())

	_, err := server.NewInstance(config.OMAGServerConfig{Name: "empty"}, server.InstanceOptions{})
	assert.True(t, omagerrors.Is(err, omagerrors.ErrPropertyServer))
}

func TestProcessLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	created := f.services.CreateProcess(ctx, serverName, user, false, processBody("payroll"))
	requireNoException(t, created)
	assert.Equal(t, 200, created.RelatedHTTPCode)
	require.NotEmpty(t, created.GUID)

	byGUID := f.services.GetProcessByGUID(ctx, serverName, user, created.GUID, nil)
	requireNoException(t, byGUID)
	require.NotNil(t, byGUID.Element)
	assert.Equal(t, "payroll", byGUID.Element.ProcessProperties.QualifiedName)

	byName := f.services.GetProcessesByName(ctx, serverName, user, 0, 0, &rest.NameRequestBody{Name: "payroll"})
	requireNoException(t, byName)
	assert.Len(t, byName.ElementList, 1)

	update := f.services.UpdateProcess(ctx, serverName, user, created.GUID, true, &rest.ProcessRequestBody{
		ElementProperties: &properties.ProcessProperties{Description: "monthly payroll run"},
	})
	requireNoException(t, update)

	byGUID = f.services.GetProcessByGUID(ctx, serverName, user, created.GUID, nil)
	assert.Equal(t, "monthly payroll run", byGUID.Element.ProcessProperties.Description)
	assert.Equal(t, "payroll", byGUID.Element.ProcessProperties.QualifiedName)

	requireNoException(t, f.services.PublishProcess(ctx, serverName, user, created.GUID, nil))
	requireNoException(t, f.services.RemoveProcess(ctx, serverName, user, created.GUID, nil))

	gone := f.services.GetProcessByGUID(ctx, serverName, user, created.GUID, nil)
	assert.True(t, gone.Failed())
	assert.Equal(t, string(omagerrors.KindInvalidParameter), gone.ExceptionClassName)
}

func TestRequestBodyRules(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	cases := map[string]rest.ExceptionCarrier{
		"createProcess":       f.services.CreateProcess(ctx, serverName, user, false, nil),
		"updateProcess":       f.services.UpdateProcess(ctx, serverName, user, "guid", true, nil),
		"updateProcessStatus": f.services.UpdateProcessStatus(ctx, serverName, user, "guid", nil),
		"findProcesses":       f.services.FindProcesses(ctx, serverName, user, 0, 0, nil),
		"getPortsByName":      f.services.GetPortsByName(ctx, serverName, user, 0, 0, nil),
		"setupDataFlow": f.services.SetupDataFlow(ctx, serverName, user, "a", "b", false,
			&rest.DataFlowRequestBody{}),
		"updateProcessCall": f.services.UpdateProcessCall(ctx, serverName, user, "guid", nil),
	}
	for method, response := range cases {
		t.Run(method, func(t *testing.T) {
			r := response.Exception()
			require.True(t, r.Failed())
			assert.Equal(t, omagerrors.NoRequestBody.ID, r.ExceptionErrorMessageID)
			assert.Equal(t, 400, r.RelatedHTTPCode)
			assert.Equal(t, []string{user, method, serverName}, r.ExceptionErrorMessageParameters)
			assert.Equal(t, "requestBody", r.ExceptionProperties["parameterName"])
		})
	}

	// Optional bodies fall back to local identifiers.
	created := f.services.CreateProcess(ctx, serverName, user, false, processBody("daily-load"))
	requireNoException(t, created)
	requireNoException(t, f.services.GetSubProcesses(ctx, serverName, user, created.GUID, 0, 0, nil))
	requireNoException(t, f.services.GetDataFlowConsumers(ctx, serverName, user, created.GUID, nil))
}

func TestUnknownServer(t *testing.T) {
	f := newFixture(t, nil)
	r := f.services.GetProcessByGUID(context.Background(), "nowhere", user, "guid", nil)
	require.True(t, r.Failed())
	assert.Equal(t, omagerrors.ServerNotKnown.ID, r.ExceptionErrorMessageID)
	assert.Equal(t, "serverName", r.ExceptionProperties["parameterName"])
}

func TestUserNotAuthorized(t *testing.T) {
	verifier := security.NewVerifier(config.SecurityConfig{Enabled: true, JWTSecret: "s3cret", Issuer: "omag"})
	f := newFixture(t, verifier)

	r := f.services.FindPorts(context.Background(), serverName, user, 0, 0, &rest.SearchStringRequestBody{SearchString: ".*"})
	require.True(t, r.Failed())
	assert.Equal(t, string(omagerrors.KindUserNotAuthorized), r.ExceptionClassName)
	assert.Equal(t, user, r.ExceptionProperties["userId"])

	token, err := verifier.IssueToken(user, []string{serverName}, time.Hour)
	require.NoError(t, err)
	ok := f.services.FindPorts(security.WithToken(context.Background(), token), serverName, user, 0, 0,
		&rest.SearchStringRequestBody{SearchString: ".*"})
	requireNoException(t, ok)
}

func TestCaptureUnexpectedError(t *testing.T) {
	audit := &auditlog.MemoryDestination{}
	log := auditlog.New(serverName, ffdc.Component, zap.NewNop(), audit)
	response := rest.NewVoidResponse()

	server.RESTExceptionHandler{}.CaptureExceptions(&response.APIResponse, errors.New("disk full"), "createProcess", log)

	assert.Equal(t, string(omagerrors.KindPropertyServer), response.ExceptionClassName)
	assert.Equal(t, omagerrors.UnexpectedException.ID, response.ExceptionErrorMessageID)
	assert.Equal(t, 500, response.RelatedHTTPCode)
	assert.Equal(t, "*errors.errorString", response.ExceptionCausedBy)
	records := audit.Records()
	require.Len(t, records, 1)
	assert.Equal(t, ffdc.UnexpectedExceptionAudit.ID, records[0].MessageID)

	clean := rest.NewVoidResponse()
	server.RESTExceptionHandler{}.CaptureExceptions(&clean.APIResponse, nil, "createProcess", log)
	assert.False(t, clean.Failed())
}

func TestOutTopicConnection(t *testing.T) {
	f := newFixture(t, nil)
	r := f.services.GetOutTopicConnection(context.Background(), serverName, user, "cocoMDS2")
	requireNoException(t, r)
	require.NotNil(t, r.Connection)
	assert.Equal(t, "localhost:9092", r.Connection.Endpoint)
	assert.Equal(t, "cocoMDS2", r.Connection.ConfigurationProperties[server.CallerIDProperty])

	// The registered connection is not changed by the caller id.
	again := f.services.GetOutTopicConnection(context.Background(), serverName, user, "")
	_, present := again.Connection.ConfigurationProperties[server.CallerIDProperty]
	assert.False(t, present)
}

func TestLineageThroughServices(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a := f.services.CreateProcess(ctx, serverName, user, false, processBody("extract")).GUID
	b := f.services.CreateProcess(ctx, serverName, user, false, processBody("load")).GUID

	flow := f.services.SetupDataFlow(ctx, serverName, user, a, b, false, &rest.DataFlowRequestBody{
		Properties: &properties.DataFlowProperties{QualifiedName: "extract-to-load"},
	})
	requireNoException(t, flow)

	got := f.services.GetDataFlow(ctx, serverName, user, a, b, &rest.NameRequestBody{Name: "extract-to-load"})
	requireNoException(t, got)
	require.NotNil(t, got.Element)
	assert.Equal(t, flow.GUID, got.Element.DataFlowHeader.GUID)

	consumers := f.services.GetDataFlowConsumers(ctx, serverName, user, a, nil)
	assert.Len(t, consumers.ElementList, 1)

	requireNoException(t, f.services.SetupLineageMapping(ctx, serverName, user, a, b, nil))
	mappings := f.services.GetSourceLineageMappings(ctx, serverName, user, b, nil)
	assert.Len(t, mappings.ElementList, 1)
	requireNoException(t, f.services.ClearLineageMapping(ctx, serverName, user, a, b, nil))

	requireNoException(t, f.services.ClearDataFlow(ctx, serverName, user, flow.GUID, nil))
	assert.Empty(t, f.services.GetDataFlowConsumers(ctx, serverName, user, a, nil).ElementList)
}
