package handlers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/ffdc"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

func TestUpsertAndRemoveElement(t *testing.T) {
	ctx := context.Background()
	h, _ := newHandler(t, nil)
	am := registerAssetManager(t, h, "DataEngine:prod")
	correlation := &properties.MetadataCorrelationProperties{AssetManagerGUID: am, ExternalIdentifier: "topic-1"}

	guid, err := h.UpsertElement(ctx, user, correlation, repository.KafkaTopicType, repository.InstanceProperties{
		repository.QualifiedNameProperty: "Topic:orders",
		repository.DescriptionProperty:   "v1",
	}, "upsertTopic")
	require.NoError(t, err)

	again, err := h.UpsertElement(ctx, user, correlation, repository.KafkaTopicType, repository.InstanceProperties{
		repository.QualifiedNameProperty: "Topic:orders",
		repository.DisplayNameProperty:   "orders",
	}, "upsertTopic")
	require.NoError(t, err)
	assert.Equal(t, guid, again)

	found, err := h.FindElementGUID(ctx, user, repository.TopicType, "Topic:orders", "findTopic")
	require.NoError(t, err)
	assert.Equal(t, guid, found)
	missing, err := h.FindElementGUID(ctx, user, repository.TopicType, "Topic:missing", "findTopic")
	require.NoError(t, err)
	assert.Empty(t, missing)

	_, err = h.UpsertElement(ctx, user, correlation, repository.PortType, repository.InstanceProperties{
		repository.QualifiedNameProperty: "Topic:orders",
	}, "upsertPort")
	requireOMAGError(t, err, errors.KindInvalidParameter, errors.WrongElementType.ID)

	_, err = h.UpsertElement(ctx, user, nil, repository.KafkaTopicType, repository.InstanceProperties{
		repository.QualifiedNameProperty: "Topic:orders",
	}, "upsertTopic")
	requireOMAGError(t, err, errors.KindInvalidParameter, ffdc.AssetManagerNotHome.ID)

	schema, err := h.UpsertElement(ctx, user, correlation, repository.EventTypeType, repository.InstanceProperties{
		repository.QualifiedNameProperty: "EventType:order",
	}, "upsertEventType")
	require.NoError(t, err)
	link, err := h.LinkElements(ctx, user, am, "", repository.AssetSchemaTypeRelationship, guid, schema, "linkSchema")
	require.NoError(t, err)
	relinked, err := h.LinkElements(ctx, user, am, "", repository.AssetSchemaTypeRelationship, guid, schema, "linkSchema")
	require.NoError(t, err)
	assert.Equal(t, link, relinked)

	require.NoError(t, h.RemoveElement(ctx, user, correlation, repository.TopicType, guid, "removeTopic"))
	found, err = h.FindElementGUID(ctx, user, repository.TopicType, "Topic:orders", "findTopic")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestProcessingState(t *testing.T) {
	ctx := context.Background()
	h, _ := newHandler(t, nil)
	am := registerAssetManager(t, h, "DataEngine:prod")

	state, err := h.GetProcessingState(ctx, user, am, "getProcessingState")
	require.NoError(t, err)
	assert.Empty(t, state)

	require.NoError(t, h.UpsertProcessingState(ctx, user, am, map[string]int64{"tableA": 100}, "upsertProcessingState"))
	require.NoError(t, h.UpsertProcessingState(ctx, user, am, map[string]int64{"tableB": 200}, "upsertProcessingState"))

	state, err = h.GetProcessingState(ctx, user, am, "getProcessingState")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"tableA": 100, "tableB": 200}, state)

	guid, err := h.GetAssetManagerGUID(ctx, user, "DataEngine:prod", "getExternalDataEngine")
	require.NoError(t, err)
	assert.Equal(t, am, guid)
	guid, err = h.GetAssetManagerGUID(ctx, user, "Unknown", "getExternalDataEngine")
	require.NoError(t, err)
	assert.Empty(t, guid)
}
