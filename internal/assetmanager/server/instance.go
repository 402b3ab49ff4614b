// Package server exposes the lineage exchange operations of the asset manager service
// over REST.
package server

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/ffdc"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/handlers"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/outtopic"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/rest"
	"github.com/MihaiIliescu/egeria/internal/auditlog"
	"github.com/MihaiIliescu/egeria/internal/config"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/internal/security"
	"github.com/MihaiIliescu/egeria/pkg/errors"
	"github.com/MihaiIliescu/egeria/pkg/validation"
)

// Instance is the asset manager service running inside one OMAG server.
type Instance struct {
	serverName         string
	auditLog           *auditlog.AuditLog
	handler            *handlers.ProcessExchangeHandler
	repository         *repository.Handler
	outTopicConnection *rest.Connection
}

// InstanceOptions carry the shared resources an instance is built from.
type InstanceOptions struct {
	Store              repository.Store
	Publisher          outtopic.Publisher
	AuditDestinations  []auditlog.Destination
	OutTopicConnection *rest.Connection
	Logger             *zap.Logger
}

// NewInstance starts the service for one configured server.
func NewInstance(cfg config.OMAGServerConfig, opts InstanceOptions) (*Instance, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("server", cfg.Name))
	auditLog := auditlog.New(cfg.Name, ffdc.Component, logger, opts.AuditDestinations...)
	auditLog.LogMessage("initialize", ffdc.ServiceInitializing)

	if opts.Store == nil {
		err := errors.PropertyServer(errors.RepositoryError, "NewInstance", nil, "NewInstance", "no metadata store")
		auditLog.LogException("initialize", ffdc.ServiceInstanceFailure, err, err.Error())
		return nil, err
	}

	collection := repository.MetadataCollection{ID: cfg.MetadataCollectionID, Name: cfg.MetadataCollectionName}
	if collection.ID == "" {
		collection.ID = cfg.Name
	}
	if collection.Name == "" {
		collection.Name = cfg.Name
	}

	repo := repository.NewHandler(opts.Store, collection)
	handler := handlers.NewProcessExchangeHandler(handlers.Options{
		ServerName:     cfg.Name,
		Repository:     repo,
		Validator:      validation.NewInvalidParameterHandler(cfg.MaxPageSize, logger),
		Publisher:      opts.Publisher,
		DefaultZones:   cfg.DefaultZones,
		PublishedZones: cfg.PublishedZones,
		Logger:         logger,
	})

	auditLog.LogMessage("initialize", ffdc.ServiceInitialized, cfg.Name)
	return &Instance{
		serverName:         cfg.Name,
		auditLog:           auditLog,
		handler:            handler,
		repository:         repo,
		outTopicConnection: opts.OutTopicConnection,
	}, nil
}

// ServerName returns the name of the server the instance belongs to.
func (i *Instance) ServerName() string { return i.serverName }

// AuditLog returns the audit log of the instance.
func (i *Instance) AuditLog() *auditlog.AuditLog { return i.auditLog }

// Handler returns the process exchange handler of the instance.
func (i *Instance) Handler() *handlers.ProcessExchangeHandler { return i.handler }

// Repository returns the repository handler the instance stores metadata through.
func (i *Instance) Repository() *repository.Handler { return i.repository }

// Shutdown records that the instance is stopping.
func (i *Instance) Shutdown() {
	i.auditLog.LogMessage("shutdown", ffdc.ServiceShutdown, i.serverName)
}

// InstanceHandler maps server names onto running instances and checks callers may use them.
type InstanceHandler struct {
	mu        sync.RWMutex
	instances map[string]*Instance
	verifier  *security.Verifier
}

// NewInstanceHandler creates an empty registry. A nil verifier lets every caller through.
func NewInstanceHandler(verifier *security.Verifier) *InstanceHandler {
	return &InstanceHandler{instances: make(map[string]*Instance), verifier: verifier}
}

// ServiceName returns the name of the access service.
func (h *InstanceHandler) ServiceName() string { return ffdc.ServiceName }

// Register adds or replaces the instance of a server.
func (h *InstanceHandler) Register(instance *Instance) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.instances[instance.serverName] = instance
}

// Unregister shuts down and removes the instance of a server.
func (h *InstanceHandler) Unregister(serverName string) {
	h.mu.Lock()
	instance, ok := h.instances[serverName]
	delete(h.instances, serverName)
	h.mu.Unlock()
	if ok {
		instance.Shutdown()
	}
}

// ServerNames lists the registered servers in name order.
func (h *InstanceHandler) ServerNames() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.instances))
	for name := range h.instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instance returns the instance of serverName once the caller is checked.
func (h *InstanceHandler) Instance(ctx context.Context, userID, serverName, methodName string) (*Instance, error) {
	h.mu.RLock()
	instance, ok := h.instances[serverName]
	h.mu.RUnlock()
	if !ok {
		return nil, errors.InvalidParameter(errors.ServerNotKnown, methodName, "serverName",
			serverName, methodName, ffdc.ServiceName).From("server.InstanceHandler")
	}
	if err := h.verifier.ValidateUserForServer(ctx, serverName, userID, methodName); err != nil {
		return nil, err
	}
	return instance, nil
}

// AuditLog returns the audit log of the server's instance.
func (h *InstanceHandler) AuditLog(ctx context.Context, userID, serverName, methodName string) (*auditlog.AuditLog, error) {
	instance, err := h.Instance(ctx, userID, serverName, methodName)
	if err != nil {
		return nil, err
	}
	return instance.auditLog, nil
}

// ProcessExchangeHandler returns the handler of the server's instance.
func (h *InstanceHandler) ProcessExchangeHandler(ctx context.Context, userID, serverName,
	methodName string) (*handlers.ProcessExchangeHandler, error) {
	instance, err := h.Instance(ctx, userID, serverName, methodName)
	if err != nil {
		return nil, err
	}
	return instance.handler, nil
}

// OutTopicConnection returns the connection asset managers use to read the out topic.
func (h *InstanceHandler) OutTopicConnection(ctx context.Context, userID, serverName,
	methodName string) (*rest.Connection, error) {
	instance, err := h.Instance(ctx, userID, serverName, methodName)
	if err != nil {
		return nil, err
	}
	if instance.outTopicConnection == nil {
		return nil, errors.PropertyServer(ffdc.NoOutTopic, methodName, nil, serverName, methodName).
			From("server.InstanceHandler")
	}
	return instance.outTopicConnection, nil
}

// Shutdown unregisters every instance.
func (h *InstanceHandler) Shutdown() {
	for _, name := range h.ServerNames() {
		h.Unregister(name)
	}
}
