package handlers_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/handlers"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/outtopic"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/pkg/errors"
	"github.com/MihaiIliescu/egeria/pkg/validation"
)

const user = "erin"

type recordingPublisher struct {
	mu     sync.Mutex
	events []*outtopic.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event *outtopic.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []outtopic.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]outtopic.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

func (p *recordingPublisher) last() *outtopic.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

func newGormStore(t *testing.T) repository.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	store, err := repository.NewGormStore(db)
	require.NoError(t, err)
	return store
}

func newHandler(t *testing.T, store repository.Store) (*handlers.ProcessExchangeHandler, *recordingPublisher) {
	t.Helper()
	if store == nil {
		store = repository.NewMemoryStore()
	}
	pub := &recordingPublisher{}
	h := handlers.NewProcessExchangeHandler(handlers.Options{
		ServerName:     "cocoMDS1",
		Repository:     repository.NewHandler(store, repository.MetadataCollection{ID: "local-id", Name: "cocoMDS1"}),
		Validator:      validation.NewInvalidParameterHandler(10, zap.NewNop()),
		Publisher:      pub,
		DefaultZones:   []string{"quarantine"},
		PublishedZones: []string{"data-lake"},
		Logger:         zap.NewNop(),
	})
	return h, pub
}

func requireOMAGError(t *testing.T, err error, kind errors.Kind, messageID string) *errors.Error {
	t.Helper()
	var omagErr *errors.Error
	require.ErrorAs(t, err, &omagErr)
	assert.Equal(t, kind, omagErr.Kind)
	assert.Equal(t, messageID, omagErr.MessageID)
	return omagErr
}

func registerAssetManager(t *testing.T, h *handlers.ProcessExchangeHandler, qualifiedName string) string {
	t.Helper()
	guid, err := h.CreateAssetManager(context.Background(), user, &properties.AssetManagerProperties{
		ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: qualifiedName},
		DisplayName:             qualifiedName,
	}, "createExternalAssetManager")
	require.NoError(t, err)
	return guid
}

func newProcess(t *testing.T, h *handlers.ProcessExchangeHandler, qualifiedName string) string {
	t.Helper()
	guid, err := h.CreateProcess(context.Background(), user, nil, false, &properties.ProcessProperties{
		ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: qualifiedName},
		DisplayName:             qualifiedName,
	}, "", "createProcess")
	require.NoError(t, err)
	return guid
}

func zonesOf(header elements.ElementHeader) []string {
	for _, c := range header.Classifications {
		if c.Name == repository.AssetZoneMembershipClassification {
			return repository.InstanceProperties(c.Properties).GetStringArray(repository.ZoneMembershipProperty)
		}
	}
	return nil
}

func hasClassification(header elements.ElementHeader, name string) bool {
	for _, c := range header.Classifications {
		if c.Name == name {
			return true
		}
	}
	return false
}
