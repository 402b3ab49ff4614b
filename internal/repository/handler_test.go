package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihaiIliescu/egeria/internal/repository"
)

var local = repository.MetadataCollection{ID: "local-id", Name: "cocoMDS1"}

func TestHandlerCreateAndTypeCheck(t *testing.T) {
	ctx := context.Background()
	h := repository.NewHandler(repository.NewMemoryStore(), local)

	e, err := h.CreateEntity(ctx, "gary", repository.DeployedConnectorType,
		repository.InstanceProperties{repository.QualifiedNameProperty: "Connector:1"}, nil, repository.StatusUnknown, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, e.GUID)
	assert.Equal(t, repository.StatusActive, e.Status)
	assert.Equal(t, "local-id", e.MetadataCollectionID)
	assert.Equal(t, []string{repository.DeployedSoftwareComponentType, repository.ProcessType, repository.AssetType, repository.ReferenceableType}, e.Type.SuperTypeNames)

	_, err = h.GetEntity(ctx, e.GUID, repository.ProcessType)
	require.NoError(t, err)

	_, err = h.GetEntity(ctx, e.GUID, repository.PortType)
	var wrongType *repository.WrongTypeError
	require.ErrorAs(t, err, &wrongType)
	assert.Equal(t, repository.DeployedConnectorType, wrongType.Actual)
}

func TestHandlerExternalHome(t *testing.T) {
	ctx := context.Background()
	h := repository.NewHandler(repository.NewMemoryStore(), local)
	home := &repository.MetadataCollection{ID: "am-guid", Name: "Airflow"}

	e, err := h.CreateEntity(ctx, "gary", repository.ProcessType, nil, nil, repository.StatusDraft, home)
	require.NoError(t, err)
	assert.Equal(t, "am-guid", e.MetadataCollectionID)
	assert.Equal(t, repository.StatusDraft, e.Status)
}

func TestHandlerUpdateProperties(t *testing.T) {
	ctx := context.Background()
	h := repository.NewHandler(repository.NewMemoryStore(), local)
	e, err := h.CreateEntity(ctx, "gary", repository.ProcessType,
		repository.InstanceProperties{"qualifiedName": "p", "description": "old"}, nil, 0, nil)
	require.NoError(t, err)

	merged, err := h.UpdateEntityProperties(ctx, "erin", e.GUID, repository.ProcessType, repository.InstanceProperties{"description": "new"}, true)
	require.NoError(t, err)
	assert.Equal(t, "p", merged.Properties.GetString("qualifiedName"))
	assert.Equal(t, "new", merged.Properties.GetString("description"))
	assert.Equal(t, int64(2), merged.Version)
	assert.Equal(t, "erin", merged.UpdatedBy)
	require.NotNil(t, merged.UpdateTime)

	replaced, err := h.UpdateEntityProperties(ctx, "erin", e.GUID, repository.ProcessType, repository.InstanceProperties{"qualifiedName": "q"}, false)
	require.NoError(t, err)
	assert.Equal(t, "q", replaced.Properties.GetString("qualifiedName"))
	assert.Empty(t, replaced.Properties.GetString("description"))
}

func TestHandlerClassifications(t *testing.T) {
	ctx := context.Background()
	h := repository.NewHandler(repository.NewMemoryStore(), local)
	e, err := h.CreateEntity(ctx, "gary", repository.ProcessType, nil, nil, 0, nil)
	require.NoError(t, err)

	_, err = h.ClassifyEntity(ctx, "gary", e.GUID, "", repository.AssetZoneMembershipClassification,
		repository.InstanceProperties{repository.ZoneMembershipProperty: []string{"quarantine"}})
	require.NoError(t, err)
	e, err = h.ClassifyEntity(ctx, "gary", e.GUID, "", repository.AssetZoneMembershipClassification,
		repository.InstanceProperties{repository.ZoneMembershipProperty: []string{"data-lake"}})
	require.NoError(t, err)

	require.Len(t, e.Classifications, 1)
	assert.Equal(t, []string{"data-lake"}, e.Classification(repository.AssetZoneMembershipClassification).Properties.GetStringArray(repository.ZoneMembershipProperty))

	e, err = h.DeclassifyEntity(ctx, "gary", e.GUID, "", repository.AssetZoneMembershipClassification)
	require.NoError(t, err)
	assert.Nil(t, e.Classification(repository.AssetZoneMembershipClassification))

	_, err = h.DeclassifyEntity(ctx, "gary", e.GUID, "", repository.BusinessSignificantClassification)
	assert.NoError(t, err)
}

func TestHandlerRelationshipsAndCascade(t *testing.T) {
	ctx := context.Background()
	h := repository.NewHandler(repository.NewMemoryStore(), local)
	p, _ := h.CreateEntity(ctx, "u", repository.ProcessType, nil, nil, 0, nil)
	port, _ := h.CreateEntity(ctx, "u", repository.PortImplementationType, nil, nil, 0, nil)
	other, _ := h.CreateEntity(ctx, "u", repository.ProcessType, nil, nil, 0, nil)

	_, err := h.CreateRelationship(ctx, "u", repository.ProcessPortRelationship, p.GUID, port.GUID, nil, nil)
	require.NoError(t, err)
	flow, err := h.CreateRelationship(ctx, "u", repository.DataFlowRelationship, p.GUID, other.GUID, repository.InstanceProperties{"formula": "a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, repository.ProcessType, flow.End2.TypeName)

	_, err = h.CreateRelationship(ctx, "u", repository.DataFlowRelationship, p.GUID, "missing", nil, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	between, err := h.GetRelationshipsBetween(ctx, repository.DataFlowRelationship, p.GUID, other.GUID)
	require.NoError(t, err)
	require.Len(t, between, 1)

	ports, rels, err := h.GetRelatedEntities(ctx, p.GUID, repository.ProcessPortRelationship, repository.EndOne)
	require.NoError(t, err)
	require.Len(t, ports, 1)
	assert.Equal(t, port.GUID, ports[0].GUID)
	assert.Equal(t, p.GUID, rels[0].End1.GUID)

	updated, err := h.UpdateRelationshipProperties(ctx, "v", flow.GUID, repository.DataFlowRelationship, repository.InstanceProperties{"description": "d"}, true)
	require.NoError(t, err)
	assert.Equal(t, "a", updated.Properties.GetString("formula"))
	assert.Equal(t, "d", updated.Properties.GetString("description"))

	_, removed, err := h.DeleteEntity(ctx, p.GUID, repository.ProcessType)
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	left, err := h.GetRelationships(ctx, other.GUID, "", repository.AnyEnd)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, repository.Page(items, 0, 2))
	assert.Equal(t, []int{4, 5}, repository.Page(items, 3, 10))
	assert.Equal(t, []int{2, 3, 4, 5}, repository.Page(items, 1, 0))
	assert.Nil(t, repository.Page(items, 5, 2))
}

func TestInstancePropertiesGetters(t *testing.T) {
	p := repository.InstanceProperties{
		"s":   "x",
		"n":   float64(3),
		"b":   "true",
		"arr": []any{"a", "b"},
		"m":   map[string]any{"k": "v", "n": 1},
	}
	assert.Equal(t, 3, p.GetInt("n"))
	assert.True(t, p.GetBool("b"))
	assert.Equal(t, []string{"a", "b"}, p.GetStringArray("arr"))
	assert.Equal(t, map[string]string{"k": "v", "n": "1"}, p.GetStringMap("m"))
	assert.Equal(t, "x", p.RemoveString("s"))
	_, ok := p["s"]
	assert.False(t, ok)

	set := repository.InstanceProperties{}
	set.Set("empty", "").Set("nilSlice", []string(nil)).Set("v", "ok")
	assert.Equal(t, repository.InstanceProperties{"v": "ok"}, set)
}

func TestInstanceStatusJSON(t *testing.T) {
	assert.Equal(t, repository.StatusDeprecated, repository.ParseInstanceStatus("deprecated"))
	assert.Equal(t, repository.StatusUnknown, repository.ParseInstanceStatus("nope"))
	assert.Equal(t, "ACTIVE", repository.StatusActive.String())
	assert.Equal(t, "UNKNOWN", repository.InstanceStatus(42).String())
}
