package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/pkg/errors"
	"github.com/MihaiIliescu/egeria/pkg/validation"
)

func newHandler() *validation.InvalidParameterHandler {
	return validation.NewInvalidParameterHandler(50, zap.NewNop())
}

func requireInvalid(t *testing.T, err error, parameter string) {
	t.Helper()
	require.Error(t, err)
	var oe *errors.Error
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, errors.KindInvalidParameter, oe.Kind)
	assert.Equal(t, parameter, oe.ParameterName)
}

func TestValidateUserID(t *testing.T) {
	h := newHandler()
	assert.NoError(t, h.ValidateUserID("garygeeke", "createProcess"))
	requireInvalid(t, h.ValidateUserID("  ", "createProcess"), "userId")
}

func TestValidateGUID(t *testing.T) {
	h := newHandler()
	assert.NoError(t, h.ValidateGUID("4d8c-11", "processGUID", "getProcessByGUID"))
	requireInvalid(t, h.ValidateGUID("", "processGUID", "getProcessByGUID"), "processGUID")
}

func TestValidateName(t *testing.T) {
	h := newHandler()
	assert.NoError(t, h.ValidateName("Process:daily-load & merge", "qualifiedName", "createProcess"))
	requireInvalid(t, h.ValidateName("", "qualifiedName", "createProcess"), "qualifiedName")
	requireInvalid(t, h.ValidateName("<script>alert(1)</script>", "qualifiedName", "createProcess"), "qualifiedName")
}

func TestValidateSearchString(t *testing.T) {
	h := newHandler()
	re, err := h.ValidateSearchString(".*load.*", "", "findProcesses")
	require.NoError(t, err)
	assert.True(t, re.MatchString("daily-load"))

	_, err = h.ValidateSearchString("", "", "findProcesses")
	requireInvalid(t, err, "searchString")

	_, err = h.ValidateSearchString("(unclosed", "searchString", "findProcesses")
	requireInvalid(t, err, "searchString")
}

func TestValidateObject(t *testing.T) {
	h := newHandler()
	var nilMap map[string]string
	var nilPtr *struct{}

	requireInvalid(t, h.ValidateObject(nil, "listener", "registerListener"), "listener")
	requireInvalid(t, h.ValidateObject(nilMap, "props", "m"), "props")
	requireInvalid(t, h.ValidateObject(nilPtr, "body", "m"), "body")
	assert.NoError(t, h.ValidateObject(struct{}{}, "body", "m"))
}

func TestValidatePaging(t *testing.T) {
	h := newHandler()

	size, err := h.ValidatePaging(0, 0, "findPorts")
	require.NoError(t, err)
	assert.Equal(t, 50, size)

	size, err = h.ValidatePaging(10, 20, "findPorts")
	require.NoError(t, err)
	assert.Equal(t, 20, size)

	_, err = h.ValidatePaging(-1, 10, "findPorts")
	requireInvalid(t, err, "startFrom")

	_, err = h.ValidatePaging(0, -5, "findPorts")
	requireInvalid(t, err, "pageSize")

	_, err = h.ValidatePaging(0, 51, "findPorts")
	requireInvalid(t, err, "pageSize")
}

func TestDefaultMaxPageSize(t *testing.T) {
	h := validation.NewInvalidParameterHandler(0, nil)
	assert.Equal(t, validation.DefaultMaxPageSize, h.MaxPagingSize())
}

func TestValidatePlatformURL(t *testing.T) {
	h := newHandler()
	assert.NoError(t, h.ValidateOMAGServerPlatformURL("https://localhost:9443", "cocoMDS1", "ctor"))
	requireInvalid(t, h.ValidateOMAGServerPlatformURL("", "cocoMDS1", "ctor"), "serverPlatformURLRoot")
	requireInvalid(t, h.ValidateOMAGServerPlatformURL("not a url", "cocoMDS1", "ctor"), "serverPlatformURLRoot")
}

type body struct {
	QualifiedName string `validate:"required"`
	Status        string `validate:"omitempty,oneof=ACTIVE DRAFT"`
}

func TestValidateStruct(t *testing.T) {
	h := newHandler()
	assert.NoError(t, h.ValidateStruct(&body{QualifiedName: "x"}, "requestBody", "createProcess"))
	requireInvalid(t, h.ValidateStruct(&body{}, "requestBody", "createProcess"), "requestBody.qualifiedName")
	requireInvalid(t, h.ValidateStruct(&body{QualifiedName: "x", Status: "BOGUS"}, "requestBody", "createProcess"), "requestBody.status")
	requireInvalid(t, h.ValidateStruct((*body)(nil), "requestBody", "createProcess"), "requestBody")
}
