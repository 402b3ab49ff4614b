package errors_test

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihaiIliescu/egeria/pkg/errors"
)

func TestMessageDefinitionFormat(t *testing.T) {
	def := errors.MessageDefinition{Template: "user {0} called {1} twice, {0}!"}
	assert.Equal(t, "user bob called create twice, bob!", def.Format("bob", "create"))
	assert.Equal(t, "user bob called {1} twice, bob!", def.Format("bob"))
	assert.Equal(t, 2, def.Placeholders())
}

func TestInvalidParameter(t *testing.T) {
	err := errors.InvalidParameter(errors.NullGUID, "getProcessByGUID", "processGUID", "processGUID", "getProcessByGUID")

	assert.Equal(t, errors.KindInvalidParameter, err.Kind)
	assert.Equal(t, http.StatusBadRequest, err.HTTPCode)
	assert.Equal(t, "OMAG-COMMON-400-002", err.MessageID)
	assert.Equal(t, "processGUID", err.ParameterName)
	assert.Contains(t, err.Message, "processGUID parameter of the getProcessByGUID operation")
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))
	assert.False(t, errors.Is(err, errors.ErrPropertyServer))
}

func TestPropertyServerWrapsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := errors.PropertyServer(errors.RepositoryError, "createProcess", cause, "createProcess", cause.Error())

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "*errors.errorString", err.CausedBy())
	assert.Equal(t, errors.KindPropertyServer, errors.KindOf(err))
	assert.Equal(t, errors.KindPropertyServer, errors.KindOf(cause))
}

func TestUserNotAuthorized(t *testing.T) {
	err := errors.UserNotAuthorized(errors.UserNotAuthorizedCode, "createPort", "eve", "eve", "createPort", "cocoMDS1")

	assert.Equal(t, "eve", err.UserID)
	assert.Equal(t, http.StatusForbidden, err.HTTPCode)
	assert.Equal(t, errors.KindUserNotAuthorized, errors.KindOf(err))
}

func TestToProblemDetails(t *testing.T) {
	err := errors.InvalidParameter(errors.NullName, "getPortsByName", "name", "name", "getPortsByName")
	pd := errors.ToProblemDetails(err, "/ports/by-name")

	assert.Equal(t, http.StatusBadRequest, pd.Status)
	require.Len(t, pd.Errors, 1)
	assert.Equal(t, "name", pd.Errors[0].Field)

	raw, mErr := json.Marshal(pd)
	require.NoError(t, mErr)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "OMAG-COMMON-400-003", decoded["message_id"])
	assert.Equal(t, "/ports/by-name", decoded["instance"])
}

func TestToProblemDetailsForeignError(t *testing.T) {
	pd := errors.ToProblemDetails(stderrors.New("boom"), "/x")
	assert.Equal(t, http.StatusInternalServerError, pd.Status)
	assert.Equal(t, errors.TypeInternalError, pd.Type)
}
