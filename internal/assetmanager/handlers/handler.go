// Package handlers implements the lineage exchange operations of the asset manager service
// on top of the generic repository handler.
package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/converters"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/ffdc"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/outtopic"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/pkg/errors"
	"github.com/MihaiIliescu/egeria/pkg/validation"
)

// Options configure a ProcessExchangeHandler.
type Options struct {
	ServerName     string
	Repository     *repository.Handler
	Validator      *validation.InvalidParameterHandler
	Publisher      outtopic.Publisher
	DefaultZones   []string
	PublishedZones []string
	Logger         *zap.Logger
}

// ProcessExchangeHandler manages processes, ports and the lineage relationships between
// elements on behalf of third party asset managers.
type ProcessExchangeHandler struct {
	serverName     string
	repo           *repository.Handler
	invalid        *validation.InvalidParameterHandler
	converter      *converters.Converter
	publisher      outtopic.Publisher
	defaultZones   []string
	publishedZones []string
	logger         *zap.Logger
	now            func() time.Time
}

// NewProcessExchangeHandler creates a handler for one server.
func NewProcessExchangeHandler(opts Options) *ProcessExchangeHandler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Validator == nil {
		opts.Validator = validation.NewInvalidParameterHandler(0, opts.Logger)
	}
	if opts.Publisher == nil {
		opts.Publisher = outtopic.NoopPublisher{}
	}
	return &ProcessExchangeHandler{
		serverName:     opts.ServerName,
		repo:           opts.Repository,
		invalid:        opts.Validator,
		converter:      converters.New(ffdc.ServiceName, opts.ServerName, opts.Repository.LocalCollection().ID),
		publisher:      opts.Publisher,
		defaultZones:   opts.DefaultZones,
		publishedZones: opts.PublishedZones,
		logger:         opts.Logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Converter returns the bean converter of the handler.
func (h *ProcessExchangeHandler) Converter() *converters.Converter { return h.converter }

// repositoryError turns a repository failure into one of the three exception kinds.
func (h *ProcessExchangeHandler) repositoryError(err error, typeName, guid, parameterName, methodName string) error {
	var omag *errors.Error
	if errors.As(err, &omag) {
		return err
	}
	var wrongType *repository.WrongTypeError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errors.InvalidParameter(errors.UnknownElement, methodName, parameterName, typeName, guid, methodName).
			From(ffdc.ServiceName)
	case errors.As(err, &wrongType):
		return errors.InvalidParameter(errors.WrongElementType, methodName, parameterName,
			guid, methodName, wrongType.Actual, wrongType.Expected).From(ffdc.ServiceName)
	default:
		return errors.PropertyServer(errors.RepositoryError, methodName, err, methodName, err.Error()).
			From(ffdc.ServiceName)
	}
}

// getEntity validates guid and retrieves the entity, which must be of typeName.
func (h *ProcessExchangeHandler) getEntity(ctx context.Context, guid, typeName, parameterName, methodName string) (*repository.EntityDetail, error) {
	if err := h.invalid.ValidateGUID(guid, parameterName, methodName); err != nil {
		return nil, err
	}
	e, err := h.repo.GetEntity(ctx, guid, typeName)
	if err != nil {
		return nil, h.repositoryError(err, typeName, guid, parameterName, methodName)
	}
	return e, nil
}

// entityOrNil retrieves an entity for a relationship end, tolerating its absence.
func (h *ProcessExchangeHandler) entityOrNil(ctx context.Context, guid string) *repository.EntityDetail {
	e, err := h.repo.GetEntity(ctx, guid, "")
	if err != nil {
		return nil
	}
	return e
}

// assetManagerHome validates the caller's asset manager and returns the metadata collection
// new elements belong to. A nil result means the local collection.
func (h *ProcessExchangeHandler) assetManagerHome(ctx context.Context, assetManagerGUID, assetManagerName string,
	assetManagerIsHome bool, methodName string) (*repository.MetadataCollection, error) {
	if assetManagerGUID == "" {
		return nil, nil
	}
	am, err := h.repo.GetEntity(ctx, assetManagerGUID, repository.SoftwareCapabilityType)
	if err != nil {
		return nil, errors.InvalidParameter(ffdc.UnknownAssetManager, methodName, "assetManagerGUID",
			assetManagerGUID, assetManagerName, methodName, h.serverName).From(ffdc.ServiceName).Wrap(err)
	}
	if !assetManagerIsHome {
		return nil, nil
	}
	if assetManagerName == "" {
		assetManagerName = am.Properties.GetString(repository.QualifiedNameProperty)
	}
	return &repository.MetadataCollection{ID: assetManagerGUID, Name: assetManagerName}, nil
}

// checkHome rejects a change to an element mastered by a different asset manager.
func (h *ProcessExchangeHandler) checkHome(header repository.InstanceHeader, assetManagerGUID, methodName string) error {
	home := header.MetadataCollectionID
	if home == "" || home == h.repo.LocalCollection().ID || home == assetManagerGUID {
		return nil
	}
	caller := assetManagerGUID
	if caller == "" {
		caller = "<none>"
	}
	return errors.InvalidParameter(ffdc.AssetManagerNotHome, methodName, "assetManagerGUID",
		header.Type.TypeName, header.GUID, header.MetadataCollectionName, caller, methodName).From(ffdc.ServiceName)
}

// checkNotSelf rejects a relationship from an element to itself.
func (h *ProcessExchangeHandler) checkNotSelf(typeName, end1GUID, end2GUID, parameterName, methodName string) error {
	if end1GUID != end2GUID {
		return nil
	}
	return errors.InvalidParameter(ffdc.SelfReferencingRelationship, methodName, parameterName,
		typeName, methodName, end1GUID).From(ffdc.ServiceName)
}

// checkUniqueQualifiedName rejects a qualified name already used by another element. Callers
// hold qualifiedNames.lock for the name until their write is done.
func (h *ProcessExchangeHandler) checkUniqueQualifiedName(ctx context.Context, qualifiedName, exceptGUID, methodName string) error {
	found, err := h.repo.FindEntitiesByName(ctx, repository.ReferenceableType, qualifiedName, repository.QualifiedNameProperty)
	if err != nil {
		return h.repositoryError(err, repository.ReferenceableType, "", "qualifiedName", methodName)
	}
	for _, e := range found {
		if e.GUID != exceptGUID {
			return errors.InvalidParameter(errors.DuplicateQualifiedName, methodName, "qualifiedName",
				qualifiedName, methodName, e.GUID).From(ffdc.ServiceName)
		}
	}
	return nil
}

func (h *ProcessExchangeHandler) publishEntity(ctx context.Context, eventType outtopic.EventType,
	e *repository.EntityDetail, classificationName string) {
	if e == nil {
		return
	}
	h.publisher.Publish(ctx, &outtopic.Event{
		EventType:          eventType,
		ServerName:         h.serverName,
		ElementHeader:      h.converter.ElementHeader(e),
		ClassificationName: classificationName,
		ElementProperties:  map[string]any(e.Properties.Clone()),
	})
}

func (h *ProcessExchangeHandler) publishRelationship(ctx context.Context, eventType outtopic.EventType, r *repository.Relationship) {
	if r == nil {
		return
	}
	end1 := h.converter.ElementStub(r.End1, h.entityOrNil(ctx, r.End1.GUID))
	end2 := h.converter.ElementStub(r.End2, h.entityOrNil(ctx, r.End2.GUID))
	h.publisher.Publish(ctx, &outtopic.Event{
		EventType:         eventType,
		ServerName:        h.serverName,
		ElementHeader:     h.converter.RelationshipHeader(r),
		EndOneElement:     &end1,
		EndTwoElement:     &end2,
		ElementProperties: map[string]any(r.Properties.Clone()),
	})
}

// zoneClassification returns the zone membership classification for zones, or nil when
// there are none.
func zoneClassification(zones []string) []repository.Classification {
	if len(zones) == 0 {
		return nil
	}
	return []repository.Classification{{
		Name:       repository.AssetZoneMembershipClassification,
		Properties: repository.InstanceProperties{}.Set(repository.ZoneMembershipProperty, append([]string(nil), zones...)),
	}}
}

// setZones replaces the zone membership of an asset.
func (h *ProcessExchangeHandler) setZones(ctx context.Context, userID, guid, typeName string, zones []string,
	methodName string) (*repository.EntityDetail, error) {
	var (
		e   *repository.EntityDetail
		err error
	)
	if len(zones) == 0 {
		e, err = h.repo.DeclassifyEntity(ctx, userID, guid, typeName, repository.AssetZoneMembershipClassification)
	} else {
		e, err = h.repo.ClassifyEntity(ctx, userID, guid, typeName, repository.AssetZoneMembershipClassification,
			repository.InstanceProperties{}.Set(repository.ZoneMembershipProperty, append([]string(nil), zones...)))
	}
	if err != nil {
		return nil, h.repositoryError(err, typeName, guid, "processGUID", methodName)
	}
	return e, nil
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
