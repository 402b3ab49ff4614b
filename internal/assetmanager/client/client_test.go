package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/client"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/rest"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/server"
	"github.com/MihaiIliescu/egeria/internal/config"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/internal/security"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

const (
	serverName = "cocoMDS1"
	user       = "peterprofile"
)

func newPlatform(t *testing.T, verifier *security.Verifier) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	instance, err := server.NewInstance(config.OMAGServerConfig{Name: serverName, MaxPageSize: 100},
		server.InstanceOptions{
			Store:  repository.NewMemoryStore(),
			Logger: zap.NewNop(),
			OutTopicConnection: &rest.Connection{
				QualifiedName:         "out-topic",
				ConnectorProviderName: "kafka",
				Endpoint:              "localhost:9092",
			},
		})
	require.NoError(t, err)
	instances := server.NewInstanceHandler(verifier)
	instances.Register(instance)

	router := gin.New()
	server.NewLineageExchangeResource(server.NewLineageExchangeRESTServices(instances, zap.NewNop()), zap.NewNop()).
		RegisterRoutes(router)
	platform := httptest.NewServer(router)
	t.Cleanup(platform.Close)
	return platform
}

func newClient(t *testing.T, platformURL string, opts ...client.Option) *client.LineageExchangeClient {
	t.Helper()
	c, err := client.NewLineageExchangeClient(serverName, platformURL, opts...)
	require.NoError(t, err)
	return c
}

func process(qualifiedName string) *rest.ProcessRequestBody {
	return &rest.ProcessRequestBody{
		ElementProperties: &properties.ProcessProperties{
			ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: qualifiedName},
		},
	}
}

func TestNewClientValidatesPlatformURL(t *testing.T) {
	_, err := client.NewLineageExchangeClient(serverName, "not a url")
	require.Error(t, err)
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errors.InvalidPlatformURL.ID, e.MessageID)
	assert.Equal(t, "serverPlatformURLRoot", e.ParameterName)

	_, err = client.NewLineageExchangeClient("", "https://localhost:9443")
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))
}

func TestProcessRoundTrip(t *testing.T) {
	platform := newPlatform(t, nil)
	c := newClient(t, platform.URL)
	ctx := context.Background()

	guid, err := c.CreateProcess(ctx, user, false, process("nightly-extract"))
	require.NoError(t, err)
	require.NotEmpty(t, guid)

	portGUID, err := c.CreatePort(ctx, user, false, guid, &rest.PortRequestBody{
		ElementProperties: &properties.PortProperties{
			ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: "nightly-extract.out"},
			DisplayName:             "out",
			PortType:                properties.PortTypeOutput,
		},
	})
	require.NoError(t, err)

	ports, err := c.GetPortsForProcess(ctx, user, guid, 0, 10, nil)
	require.NoError(t, err)
	require.Len(t, ports, 1)
	assert.Equal(t, portGUID, ports[0].ElementHeader.GUID)

	validValues, err := c.GetValidValuesForPort(ctx, user, portGUID, 0, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, validValues)
	_, err = c.GetValidValuesForPort(ctx, user, guid, 0, 10, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))

	require.NoError(t, c.UpdateProcess(ctx, user, guid, true, &rest.ProcessRequestBody{
		ElementProperties: &properties.ProcessProperties{Description: "runs at midnight"},
	}))
	got, err := c.GetProcessByGUID(ctx, user, guid, nil)
	require.NoError(t, err)
	assert.Equal(t, "runs at midnight", got.ProcessProperties.Description)

	found, err := c.FindProcesses(ctx, user, 0, 0, &rest.SearchStringRequestBody{SearchString: "nightly"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, c.RemoveProcess(ctx, user, guid, nil))
	_, err = c.GetProcessByGUID(ctx, user, guid, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))
}

func TestExceptionsAreRebuilt(t *testing.T) {
	platform := newPlatform(t, nil)
	c := newClient(t, platform.URL)

	_, err := c.CreateProcess(context.Background(), user, false, nil)
	require.Error(t, err)
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errors.KindInvalidParameter, e.Kind)
	assert.Equal(t, errors.NoRequestBody.ID, e.MessageID)
	assert.Equal(t, "requestBody", e.ParameterName)
	assert.Equal(t, []string{user, "createProcess", serverName}, e.Parameters)
	assert.Equal(t, http.StatusBadRequest, e.HTTPCode)

	_, err = c.FindPorts(context.Background(), user, 0, -5, &rest.SearchStringRequestBody{SearchString: ".*"})
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errors.NegativePageSize.ID, e.MessageID)

	other, err := client.NewLineageExchangeClient("elsewhere", platform.URL)
	require.NoError(t, err)
	_, err = other.GetProcessByGUID(context.Background(), user, "guid", nil)
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errors.ServerNotKnown.ID, e.MessageID)
}

func TestEmptyUserRejectedLocally(t *testing.T) {
	var hits atomic.Int32
	platform := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits.Add(1) }))
	defer platform.Close()

	c := newClient(t, platform.URL)
	err := c.PublishProcess(context.Background(), "", "guid", nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))
	assert.Zero(t, hits.Load())
}

func TestBearerTokenIsSent(t *testing.T) {
	verifier := security.NewVerifier(config.SecurityConfig{Enabled: true, JWTSecret: "s3cret"})
	platform := newPlatform(t, verifier)

	_, err := newClient(t, platform.URL).CreateProcess(context.Background(), user, false, process("secured"))
	assert.True(t, errors.Is(err, errors.ErrUserNotAuthorized))
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, user, e.UserID)

	token, err := verifier.IssueToken(user, []string{serverName}, time.Hour)
	require.NoError(t, err)
	guid, err := newClient(t, platform.URL, client.WithBearerToken(token)).
		CreateProcess(context.Background(), user, false, process("secured"))
	require.NoError(t, err)
	assert.NotEmpty(t, guid)
}

func TestRetriesGatewayErrors(t *testing.T) {
	var hits atomic.Int32
	platform := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"relatedHTTPCode":200,"guid":"abc"}`))
	}))
	defer platform.Close()

	c := newClient(t, platform.URL, client.WithRetry(client.RetryConfig{
		MaxRetries: 3,
		Statuses:   []int{http.StatusServiceUnavailable},
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}))
	guid, err := c.CreateProcess(context.Background(), user, false, process("retried"))
	require.NoError(t, err)
	assert.Equal(t, "abc", guid)
	assert.Equal(t, int32(3), hits.Load())
}

func TestRemoteFailure(t *testing.T) {
	platform := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer platform.Close()

	c := newClient(t, platform.URL, client.WithRetry(client.RetryConfig{}))
	err := c.ClearDataFlow(context.Background(), user, "guid", nil)
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errors.KindPropertyServer, e.Kind)
	assert.Equal(t, errors.RemoteCallFailed.ID, e.MessageID)
}

func TestLineageRoundTrip(t *testing.T) {
	platform := newPlatform(t, nil)
	c := newClient(t, platform.URL)
	ctx := context.Background()

	extract, err := c.CreateProcess(ctx, user, false, process("extract"))
	require.NoError(t, err)
	load, err := c.CreateProcess(ctx, user, false, process("load"))
	require.NoError(t, err)

	flowGUID, err := c.SetupDataFlow(ctx, user, extract, load, false, &rest.DataFlowRequestBody{
		Properties: &properties.DataFlowProperties{QualifiedName: "extract-load", Formula: "copy"},
	})
	require.NoError(t, err)

	flow, err := c.GetDataFlow(ctx, user, extract, load, &rest.NameRequestBody{Name: "extract-load"})
	require.NoError(t, err)
	require.NotNil(t, flow)
	assert.Equal(t, flowGUID, flow.DataFlowHeader.GUID)

	suppliers, err := c.GetDataFlowSuppliers(ctx, user, load, nil)
	require.NoError(t, err)
	assert.Len(t, suppliers, 1)

	_, err = c.SetupControlFlow(ctx, user, extract, load, false, &rest.ControlFlowRequestBody{
		Properties: &properties.ControlFlowProperties{QualifiedName: "then"},
	})
	require.NoError(t, err)
	previous, err := c.GetControlFlowPreviousSteps(ctx, user, load, nil)
	require.NoError(t, err)
	assert.Len(t, previous, 1)

	require.NoError(t, c.SetupLineageMapping(ctx, user, extract, load, nil))
	mappings, err := c.GetDestinationLineageMappings(ctx, user, extract, nil)
	require.NoError(t, err)
	assert.Len(t, mappings, 1)

	conn, err := c.GetOutTopicConnection(ctx, user, "cocoMDS2")
	require.NoError(t, err)
	assert.Equal(t, "cocoMDS2", conn.ConfigurationProperties[server.CallerIDProperty])
}

func TestExceptionFromResponse(t *testing.T) {
	assert.NoError(t, client.ExceptionFromResponse(&rest.APIResponse{RelatedHTTPCode: 200}))

	err := client.ExceptionFromResponse(&rest.APIResponse{
		RelatedHTTPCode:         500,
		ExceptionClassName:      "SomethingElse",
		ExceptionErrorMessageID: "X-1",
		ExceptionCausedBy:       "*net.OpError",
		ExceptionProperties:     map[string]string{"parameterName": "ignored"},
	})
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errors.KindPropertyServer, e.Kind)
	assert.Empty(t, e.ParameterName)
	assert.Equal(t, "ignored", e.Properties["parameterName"])
	assert.Equal(t, "*net.OpError", e.Properties["causedBy"])
}
