package handlers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/ffdc"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/handlers"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/outtopic"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

func newPort(t *testing.T, h *handlers.ProcessExchangeHandler, processGUID, qualifiedName string, portType properties.PortType) string {
	t.Helper()
	guid, err := h.CreatePort(context.Background(), user, nil, false, processGUID, &properties.PortProperties{
		ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: qualifiedName},
		DisplayName:             qualifiedName,
		Identifier:              "id-" + qualifiedName,
		PortType:                portType,
	}, "createPort")
	require.NoError(t, err)
	return guid
}

func TestPortsOfProcess(t *testing.T) {
	ctx := context.Background()
	h, pub := newHandler(t, nil)
	process := newProcess(t, h, "Process:etl")

	in := newPort(t, h, process, "Port:in", properties.PortTypeInput)
	assert.Equal(t, outtopic.NewRelationship, pub.last().EventType)
	out := newPort(t, h, process, "Port:out", properties.PortTypeOutput)

	ports, err := h.GetPortsForProcess(ctx, user, "", "", process, 0, 0, "getPortsForProcess")
	require.NoError(t, err)
	require.Len(t, ports, 2)
	assert.Equal(t, in, ports[0].ElementHeader.GUID)
	assert.Equal(t, properties.PortTypeInput, ports[0].PortProperties.PortType)
	assert.Equal(t, "id-Port:in", ports[0].PortProperties.Identifier)
	assert.Equal(t, out, ports[1].ElementHeader.GUID)

	_, err = h.CreatePort(ctx, user, nil, false, process, &properties.PortProperties{
		ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: "Port:odd"},
		PortType:                "SIDEWAYS",
	}, "createPort")
	requireOMAGError(t, err, errors.KindInvalidParameter, errors.InvalidEnumValue.ID)

	_, err = h.CreatePort(ctx, user, nil, false, process, &properties.PortProperties{}, "createPort")
	requireOMAGError(t, err, errors.KindInvalidParameter, errors.NullName.ID)

	_, err = h.CreatePort(ctx, user, nil, false, in, &properties.PortProperties{
		ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: "Port:orphan"},
	}, "createPort")
	requireOMAGError(t, err, errors.KindInvalidParameter, errors.WrongElementType.ID)

	require.NoError(t, h.UpdatePort(ctx, user, nil, in, &properties.PortProperties{
		ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: "Port:in"},
		DisplayName:             "input",
	}, "updatePort"))
	port, err := h.GetPortByGUID(ctx, user, "", "", in, "getPortByGUID")
	require.NoError(t, err)
	assert.Equal(t, "input", port.PortProperties.DisplayName)
	assert.Empty(t, port.PortProperties.Identifier)

	byName, err := h.GetPortsByName(ctx, user, "", "", "input", "", 0, 0, "getPortsByName")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, in, byName[0].ElementHeader.GUID)

	found, err := h.FindPorts(ctx, user, "", "", "^Port:", "", 0, 0, "findPorts")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	require.NoError(t, h.ClearProcessPort(ctx, user, "", "", process, out, "clearProcessPort"))
	ports, err = h.GetPortsForProcess(ctx, user, "", "", process, 0, 0, "getPortsForProcess")
	require.NoError(t, err)
	assert.Len(t, ports, 1)

	require.NoError(t, h.SetupProcessPort(ctx, user, "", "", false, process, out, "setupProcessPort"))
	require.NoError(t, h.SetupProcessPort(ctx, user, "", "", false, process, out, "setupProcessPort"))
	ports, err = h.GetPortsForProcess(ctx, user, "", "", process, 0, 0, "getPortsForProcess")
	require.NoError(t, err)
	assert.Len(t, ports, 2)
}

func TestPortDelegationAndSchema(t *testing.T) {
	ctx := context.Background()
	h, _ := newHandler(t, nil)
	outer := newProcess(t, h, "Process:outer")
	inner := newProcess(t, h, "Process:inner")
	outerIn := newPort(t, h, outer, "Port:outer-in", properties.PortTypeInput)
	outerOut := newPort(t, h, outer, "Port:outer-out", properties.PortTypeOutput)
	innerIn := newPort(t, h, inner, "Port:inner-in", properties.PortTypeInput)

	delegate, err := h.GetPortDelegation(ctx, user, "", "", outerIn, "getPortDelegation")
	require.NoError(t, err)
	assert.Nil(t, delegate)

	require.NoError(t, h.SetupPortDelegation(ctx, user, "", "", false, outerIn, innerIn, "setupPortDelegation"))
	delegate, err = h.GetPortDelegation(ctx, user, "", "", outerIn, "getPortDelegation")
	require.NoError(t, err)
	require.NotNil(t, delegate)
	assert.Equal(t, innerIn, delegate.ElementHeader.GUID)

	users, err := h.GetPortUse(ctx, user, "", "", innerIn, 0, 0, "getPortUse")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, outerIn, users[0].ElementHeader.GUID)

	require.NoError(t, h.SetupPortDelegation(ctx, user, "", "", false, outerIn, outerOut, "setupPortDelegation"))
	delegate, err = h.GetPortDelegation(ctx, user, "", "", outerIn, "getPortDelegation")
	require.NoError(t, err)
	assert.Equal(t, outerOut, delegate.ElementHeader.GUID)
	users, err = h.GetPortUse(ctx, user, "", "", innerIn, 0, 0, "getPortUse")
	require.NoError(t, err)
	assert.Empty(t, users)

	err = h.SetupPortDelegation(ctx, user, "", "", false, outerIn, outerIn, "setupPortDelegation")
	requireOMAGError(t, err, errors.KindInvalidParameter, ffdc.SelfReferencingRelationship.ID)

	require.NoError(t, h.ClearPortDelegation(ctx, user, "", "", outerIn, outerOut, "clearPortDelegation"))
	delegate, err = h.GetPortDelegation(ctx, user, "", "", outerIn, "getPortDelegation")
	require.NoError(t, err)
	assert.Nil(t, delegate)

	schema, err := h.UpsertElement(ctx, user, nil, repository.TabularSchemaTypeType,
		repository.InstanceProperties{repository.QualifiedNameProperty: "Schema:customers"}, "upsertSchemaType")
	require.NoError(t, err)
	require.NoError(t, h.SetupPortSchemaType(ctx, user, "", "", false, outerIn, schema, "setupPortSchemaType"))

	err = h.SetupPortSchemaType(ctx, user, "", "", false, outerIn, inner, "setupPortSchemaType")
	requireOMAGError(t, err, errors.KindInvalidParameter, errors.WrongElementType.ID)

	require.NoError(t, h.ClearPortSchemaType(ctx, user, "", "", outerIn, schema, "clearPortSchemaType"))
}

func TestRemoveProcessRemovesPorts(t *testing.T) {
	ctx := context.Background()
	h, pub := newHandler(t, nil)
	am := registerAssetManager(t, h, "Airflow:prod")
	process := newProcess(t, h, "Process:doomed")
	other := newProcess(t, h, "Process:survivor")
	port, err := h.CreatePort(ctx, user, &properties.MetadataCorrelationProperties{
		AssetManagerGUID: am, ExternalIdentifier: "port-1",
	}, false, process, &properties.PortProperties{
		ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: "Port:doomed"},
	}, "createPort")
	require.NoError(t, err)
	kept := newPort(t, h, other, "Port:kept", properties.PortTypeOutput)
	require.NoError(t, h.SetupPortDelegation(ctx, user, "", "", false, kept, port, "setupPortDelegation"))

	require.NoError(t, h.RemoveProcess(ctx, user, nil, process, "removeProcess"))
	assert.Contains(t, pub.types(), outtopic.ElementDeleted)
	assert.Contains(t, pub.types(), outtopic.RelationshipDeleted)

	_, err = h.GetPortByGUID(ctx, user, "", "", port, "getPortByGUID")
	requireOMAGError(t, err, errors.KindInvalidParameter, errors.UnknownElement.ID)
	_, err = h.GetProcessByGUID(ctx, user, "", "", process, "getProcessByGUID")
	requireOMAGError(t, err, errors.KindInvalidParameter, errors.UnknownElement.ID)

	delegate, err := h.GetPortDelegation(ctx, user, "", "", kept, "getPortDelegation")
	require.NoError(t, err)
	assert.Nil(t, delegate)

	require.NoError(t, h.RemovePort(ctx, user, nil, kept, "removePort"))
	ports, err := h.GetPortsForProcess(ctx, user, "", "", other, 0, 0, "getPortsForProcess")
	require.NoError(t, err)
	assert.Empty(t, ports)
}
