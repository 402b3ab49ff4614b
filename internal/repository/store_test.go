package repository_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MihaiIliescu/egeria/internal/repository"
)

func newGormStore(t *testing.T) repository.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	store, err := repository.NewGormStore(db)
	require.NoError(t, err)
	return store
}

func stores(t *testing.T) map[string]repository.Store {
	return map[string]repository.Store{
		"memory": repository.NewMemoryStore(),
		"gorm":   newGormStore(t),
	}
}

func entity(guid, typeName, qualifiedName string) *repository.EntityDetail {
	return &repository.EntityDetail{
		InstanceHeader: repository.InstanceHeader{GUID: guid, Type: repository.NewInstanceType(typeName), Status: repository.StatusActive, Version: 1},
		Properties:     repository.InstanceProperties{repository.QualifiedNameProperty: qualifiedName},
	}
}

func TestStoreEntityLifecycle(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.CreateEntity(ctx, entity("p1", repository.ProcessType, "Process:one")))
			require.ErrorIs(t, store.CreateEntity(ctx, entity("p1", repository.ProcessType, "dup")), repository.ErrDuplicateGUID)

			got, err := store.GetEntity(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, "Process:one", got.Properties.GetString(repository.QualifiedNameProperty))
			assert.Equal(t, repository.StatusActive, got.Status)

			got.Properties["description"] = "changed"
			got.Version = 2
			require.NoError(t, store.UpdateEntity(ctx, got))

			again, err := store.GetEntity(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, "changed", again.Properties.GetString("description"))
			assert.Equal(t, int64(2), again.Version)

			require.NoError(t, store.DeleteEntity(ctx, "p1"))
			_, err = store.GetEntity(ctx, "p1")
			assert.ErrorIs(t, err, repository.ErrNotFound)
			assert.ErrorIs(t, store.DeleteEntity(ctx, "p1"), repository.ErrNotFound)
			assert.ErrorIs(t, store.UpdateEntity(ctx, got), repository.ErrNotFound)
		})
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.CreateEntity(ctx, entity("p1", repository.ProcessType, "Process:one")))

	got, err := store.GetEntity(ctx, "p1")
	require.NoError(t, err)
	got.Properties[repository.QualifiedNameProperty] = "mutated"

	again, err := store.GetEntity(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Process:one", again.Properties.GetString(repository.QualifiedNameProperty))
}

func TestStoreFindEntitiesBySubType(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.CreateEntity(ctx, entity("p1", repository.ProcessType, "a")))
			require.NoError(t, store.CreateEntity(ctx, entity("c1", repository.DeployedConnectorType, "b")))
			require.NoError(t, store.CreateEntity(ctx, entity("port1", repository.PortImplementationType, "c")))

			processes, err := store.FindEntities(ctx, repository.EntityQuery{TypeName: repository.ProcessType})
			require.NoError(t, err)
			require.Len(t, processes, 2)
			assert.Equal(t, "p1", processes[0].GUID)
			assert.Equal(t, "c1", processes[1].GUID)

			ports, err := store.FindEntities(ctx, repository.EntityQuery{
				TypeName: repository.PortType,
				Match: func(e *repository.EntityDetail) bool {
					return e.Properties.GetString(repository.QualifiedNameProperty) == "c"
				},
			})
			require.NoError(t, err)
			require.Len(t, ports, 1)

			all, err := store.FindEntities(ctx, repository.EntityQuery{})
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestStoreRelationships(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			rel := func(guid, typeName, end1, end2 string) *repository.Relationship {
				return &repository.Relationship{
					InstanceHeader: repository.InstanceHeader{GUID: guid, Type: repository.InstanceType{TypeName: typeName}},
					End1:           repository.EntityProxy{GUID: end1, TypeName: repository.ProcessType},
					End2:           repository.EntityProxy{GUID: end2, TypeName: repository.ProcessType},
				}
			}
			require.NoError(t, store.CreateRelationship(ctx, rel("r1", repository.DataFlowRelationship, "a", "b")))
			require.NoError(t, store.CreateRelationship(ctx, rel("r2", repository.DataFlowRelationship, "b", "c")))
			require.NoError(t, store.CreateRelationship(ctx, rel("r3", repository.ControlFlowRelationship, "a", "c")))

			fromB, err := store.GetRelationships(ctx, repository.RelationshipQuery{EntityGUID: "b", TypeName: repository.DataFlowRelationship})
			require.NoError(t, err)
			assert.Len(t, fromB, 2)

			outOfB, err := store.GetRelationships(ctx, repository.RelationshipQuery{EntityGUID: "b", End: repository.EndOne})
			require.NoError(t, err)
			require.Len(t, outOfB, 1)
			assert.Equal(t, "r2", outOfB[0].GUID)

			intoC, err := store.GetRelationships(ctx, repository.RelationshipQuery{EntityGUID: "c", End: repository.EndTwo, TypeName: repository.ControlFlowRelationship})
			require.NoError(t, err)
			require.Len(t, intoC, 1)
			assert.Equal(t, "r3", intoC[0].GUID)

			r, err := store.GetRelationship(ctx, "r1")
			require.NoError(t, err)
			r.Properties = repository.InstanceProperties{"formula": "x+y"}
			require.NoError(t, store.UpdateRelationship(ctx, r))
			r, err = store.GetRelationship(ctx, "r1")
			require.NoError(t, err)
			assert.Equal(t, "x+y", r.Properties.GetString("formula"))

			require.NoError(t, store.DeleteRelationship(ctx, "r1"))
			_, err = store.GetRelationship(ctx, "r1")
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}
