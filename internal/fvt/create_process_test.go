package fvt_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	assetmanager "github.com/MihaiIliescu/egeria/internal/assetmanager/server"
	"github.com/MihaiIliescu/egeria/internal/config"
	"github.com/MihaiIliescu/egeria/internal/fvt"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/internal/server"
)

const (
	serverName = "cocoMDS1"
	user       = "garygeeke"
)

func newPlatform(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	instance, err := assetmanager.NewInstance(config.OMAGServerConfig{Name: serverName, MaxPageSize: 100},
		assetmanager.InstanceOptions{Store: repository.NewMemoryStore(), Logger: zap.NewNop()})
	require.NoError(t, err)
	instances := assetmanager.NewInstanceHandler(nil)
	instances.Register(instance)

	platform := httptest.NewServer(server.NewServer(config.ServerConfig{}, "fvt", instances, zap.NewNop()).Router())
	t.Cleanup(platform.Close)
	return platform
}

func TestCreateProcessTestPasses(t *testing.T) {
	platform := newPlatform(t)

	results := fvt.CreateProcessTest(context.Background(), serverName, platform.URL, user)
	assert.Equal(t, "CreateProcessTest", results.TestCaseName)
	assert.Equal(t, 1, results.NumberOfTests)
	assert.Equal(t, 1, results.NumberOfSuccesses)
	assert.Empty(t, results.CapturedErrors)
	assert.True(t, results.Successful())
}

func TestCreateProcessTestRerunFails(t *testing.T) {
	platform := newPlatform(t)
	ctx := context.Background()
	require.True(t, fvt.CreateProcessTest(ctx, serverName, platform.URL, user).Successful())

	// the qualified name is already taken the second time round
	results := fvt.CreateProcessTest(ctx, serverName, platform.URL, user)
	assert.False(t, results.Successful())
	assert.Equal(t, 0, results.NumberOfSuccesses)
	require.Len(t, results.CapturedErrors, 1)

	var condition *fvt.UnexpectedCondition
	require.True(t, errors.As(results.CapturedErrors[0], &condition))
	assert.Equal(t, "CreateProcessTest", condition.TestCase)
	assert.Equal(t, "createProcess", condition.Activity)
	assert.Error(t, condition.Unwrap())
}

func TestCreateProcessTestUnknownServer(t *testing.T) {
	platform := newPlatform(t)

	results := fvt.CreateProcessTest(context.Background(), "noSuchServer", platform.URL, user)
	assert.False(t, results.Successful())
	require.Len(t, results.CapturedErrors, 1)
	assert.Contains(t, results.CapturedErrors[0].Error(), "createProcess")
}

func TestCreateProcessTestBadPlatformURL(t *testing.T) {
	results := fvt.CreateProcessTest(context.Background(), serverName, "not a url", user)

	require.Len(t, results.CapturedErrors, 1)
	var condition *fvt.UnexpectedCondition
	require.True(t, errors.As(results.CapturedErrors[0], &condition))
	assert.Equal(t, "getLineageExchangeClient", condition.Activity)
}

func TestResultsLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	passed := fvt.NewResults("passing")
	passed.IncrementNumberOfTests()
	passed.IncrementNumberOfSuccesses()
	passed.Log(logger)

	failing := fvt.NewResults("failing")
	failing.IncrementNumberOfTests()
	failing.AddCapturedError(&fvt.UnexpectedCondition{TestCase: "failing", Activity: "step(Bad displayName)"})
	failing.Log(logger)

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, "FVT test case passed", entries[0].Message)
	assert.Equal(t, "FVT test case failed", entries[1].Message)
	assert.Equal(t, "captured error", entries[2].Message)
	assert.Equal(t, "failing: step(Bad displayName)", entries[2].ContextMap()["error"])
}
