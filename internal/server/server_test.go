package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/rest"
	assetmanager "github.com/MihaiIliescu/egeria/internal/assetmanager/server"
	"github.com/MihaiIliescu/egeria/internal/config"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/internal/security"
	"github.com/MihaiIliescu/egeria/internal/server"
	"github.com/MihaiIliescu/egeria/internal/ws"
	apierrors "github.com/MihaiIliescu/egeria/pkg/errors"
)

func newPlatform(t *testing.T, cfg config.ServerConfig) *server.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	instance, err := assetmanager.NewInstance(config.OMAGServerConfig{Name: "cocoMDS1"},
		assetmanager.InstanceOptions{Store: repository.NewMemoryStore(), Logger: zap.NewNop()})
	require.NoError(t, err)
	instances := assetmanager.NewInstanceHandler(nil)
	instances.Register(instance)

	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "platform_test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()
	return server.NewServer(cfg, "asset-manager-test", instances, zap.NewNop(), server.WithGatherer(registry))
}

func TestHealth(t *testing.T) {
	s := newPlatform(t, config.ServerConfig{})
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status  string   `json:"status"`
		Service string   `json:"service"`
		Servers []string `json:"servers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "Asset Manager OMAS", body.Service)
	assert.Equal(t, []string{"cocoMDS1"}, body.Servers)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newPlatform(t, config.ServerConfig{})
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "platform_test_total 1")
}

func TestSwaggerDoc(t *testing.T) {
	s := newPlatform(t, config.ServerConfig{})
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Asset Manager OMAS Lineage Exchange API")
}

func TestUnknownRouteIsProblemDetails(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(noop.NewTracerProvider())
		_ = tp.Shutdown(context.Background())
	})

	s := newPlatform(t, config.ServerConfig{})
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no/such/route", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "/no/such/route", problem.Instance)
	assert.Len(t, problem.TraceID, 32)
}

func TestPanicIsInternalErrorProblem(t *testing.T) {
	s := newPlatform(t, config.ServerConfig{})
	router := s.Router()
	router.GET("/explode", func(*gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/explode", nil)
	req.Header.Set("X-Trace-ID", "trace-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var problem apierrors.ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, apierrors.TypeInternalError, problem.Type)
	assert.Equal(t, "trace-42", problem.TraceID)
}

func TestAccessServiceRoutesAreMounted(t *testing.T) {
	s := newPlatform(t, config.ServerConfig{})
	raw, err := json.Marshal(&rest.ProcessRequestBody{ElementProperties: &properties.ProcessProperties{
		ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: "platform-process"},
	}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost,
		"/servers/cocoMDS1/open-metadata/access-services/asset-manager/users/erin/processes", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp rest.GUIDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Failed(), resp.String())
	assert.NotEmpty(t, resp.GUID)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	s := newPlatform(t, config.ServerConfig{CORSOrigins: []string{"https://ui.example.org"}})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://ui.example.org")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, "https://ui.example.org", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newPlatform(t, config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestOutTopicStream(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := ws.NewHub(0, zap.NewNop())
	t.Cleanup(hub.Close)
	instance, err := assetmanager.NewInstance(config.OMAGServerConfig{Name: "cocoMDS1"}, assetmanager.InstanceOptions{
		Store:     repository.NewMemoryStore(),
		Publisher: ws.NewPublisher(hub, nil, zap.NewNop()),
		Logger:    zap.NewNop(),
	})
	require.NoError(t, err)
	instances := assetmanager.NewInstanceHandler(nil)
	instances.Register(instance)

	platform := httptest.NewServer(server.NewServer(config.ServerConfig{}, "stream-test", instances, zap.NewNop(),
		server.WithEventStream(hub)).Router())
	t.Cleanup(platform.Close)
	base := "/servers/cocoMDS1/open-metadata/access-services/asset-manager/users/erin"

	resp, err := http.Get(platform.URL + "/servers/unknown/open-metadata/access-services/asset-manager/users/erin/topics/out-topic-stream")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(platform.URL, "http")+base+"/topics/out-topic-stream", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	resp, err = http.Get(platform.URL + base + "/topics/out-topic-stream?since=latest")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, err := json.Marshal(&rest.ProcessRequestBody{ElementProperties: &properties.ProcessProperties{
		ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: "streamed-process"},
	}})
	require.NoError(t, err)
	resp, err = http.Post(platform.URL+base+"/processes", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg ws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "cocoMDS1", msg.Topic)
	assert.Contains(t, string(msg.Data), "NEW_ELEMENT_CREATED")
}

func TestOutTopicStreamRequiresAuthorizedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := ws.NewHub(0, zap.NewNop())
	t.Cleanup(hub.Close)
	instance, err := assetmanager.NewInstance(config.OMAGServerConfig{Name: "cocoMDS1"},
		assetmanager.InstanceOptions{Store: repository.NewMemoryStore(), Logger: zap.NewNop()})
	require.NoError(t, err)
	instances := assetmanager.NewInstanceHandler(security.NewVerifier(config.SecurityConfig{Enabled: true, JWTSecret: "s3cret"}))
	instances.Register(instance)
	router := server.NewServer(config.ServerConfig{}, "stream-test", instances, zap.NewNop(),
		server.WithEventStream(hub)).Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/servers/cocoMDS1/open-metadata/access-services/asset-manager/users/erin/topics/out-topic-stream", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var problem apierrors.ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, apierrors.TypeUnauthorized, problem.Type)
	assert.Equal(t, apierrors.TitleUnauthorized, problem.Title)
}
