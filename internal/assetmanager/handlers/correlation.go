package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
)

// ExternalId properties.
const (
	identifierProperty                 = "identifier"
	keyPatternProperty                 = "keyPattern"
	externalIdentifierNameProperty     = "externalIdentifierName"
	externalIdentifierUsageProperty    = "externalIdentifierUsage"
	externalIdentifierSourceProperty   = "externalIdentifierSource"
	mappingPropertiesProperty          = "mappingProperties"
	synchronizationDirectionProperty   = "synchronizationDirection"
	synchronizationDescriptionProperty = "synchronizationDescription"
	lastSynchronizedProperty           = "lastSynchronized"
	scopeGUIDProperty                  = "scopeGUID"
	scopeNameProperty                  = "scopeName"
)

// externalIDs returns the ExternalId entities linked to an element, limited to one asset
// manager when assetManagerGUID is set.
func (h *ProcessExchangeHandler) externalIDs(ctx context.Context, elementGUID, assetManagerGUID string) ([]*repository.EntityDetail, error) {
	ids, _, err := h.repo.GetRelatedEntities(ctx, elementGUID, repository.ExternalIDLinkRelationship, repository.EndOne)
	if err != nil {
		return nil, err
	}
	if assetManagerGUID == "" {
		return ids, nil
	}
	out := ids[:0]
	for _, id := range ids {
		if id.Properties.GetString(scopeGUIDProperty) == assetManagerGUID {
			out = append(out, id)
		}
	}
	return out, nil
}

// maintainCorrelation records or refreshes the external identifier the caller's asset
// manager uses for an element. Nothing is recorded without both an asset manager and an
// external identifier.
func (h *ProcessExchangeHandler) maintainCorrelation(ctx context.Context, userID, elementGUID, elementTypeName string,
	correlation *properties.MetadataCorrelationProperties, methodName string) error {
	if correlation == nil || correlation.AssetManagerGUID == "" || correlation.ExternalIdentifier == "" {
		return nil
	}
	props := repository.InstanceProperties{}.
		Set(identifierProperty, correlation.ExternalIdentifier).
		Set(keyPatternProperty, string(correlation.KeyPattern)).
		Set(externalIdentifierNameProperty, correlation.ExternalIdentifierName).
		Set(externalIdentifierUsageProperty, correlation.ExternalIdentifierUsage).
		Set(externalIdentifierSourceProperty, correlation.ExternalIdentifierSource).
		Set(mappingPropertiesProperty, correlation.MappingProperties).
		Set(synchronizationDirectionProperty, string(correlation.SynchronizationDirection)).
		Set(synchronizationDescriptionProperty, correlation.SynchronizationDescription).
		Set(lastSynchronizedProperty, h.now().Format(time.RFC3339Nano)).
		Set(scopeGUIDProperty, correlation.AssetManagerGUID).
		Set(scopeNameProperty, correlation.AssetManagerName)

	existing, err := h.externalIDs(ctx, elementGUID, correlation.AssetManagerGUID)
	if err != nil {
		return h.repositoryError(err, elementTypeName, elementGUID, "elementGUID", methodName)
	}
	for _, id := range existing {
		if id.Properties.GetString(identifierProperty) == correlation.ExternalIdentifier {
			if _, err := h.repo.UpdateEntityProperties(ctx, userID, id.GUID, repository.ExternalIDType, props, true); err != nil {
				return h.repositoryError(err, repository.ExternalIDType, id.GUID, "externalIdentifier", methodName)
			}
			return nil
		}
	}

	home := &repository.MetadataCollection{ID: correlation.AssetManagerGUID, Name: correlation.AssetManagerName}
	id, err := h.repo.CreateEntity(ctx, userID, repository.ExternalIDType, props, nil, repository.StatusActive, home)
	if err != nil {
		return h.repositoryError(err, repository.ExternalIDType, "", "externalIdentifier", methodName)
	}
	if _, err := h.repo.CreateRelationship(ctx, userID, repository.ExternalIDLinkRelationship, elementGUID, id.GUID, nil, home); err != nil {
		h.discard(ctx, id.GUID, repository.ExternalIDType, methodName)
		return h.repositoryError(err, elementTypeName, elementGUID, "elementGUID", methodName)
	}
	if _, err := h.repo.CreateRelationship(ctx, userID, repository.ExternalIDScopeRelationship,
		correlation.AssetManagerGUID, id.GUID, nil, home); err != nil {
		h.discard(ctx, id.GUID, repository.ExternalIDType, methodName)
		return h.repositoryError(err, repository.SoftwareCapabilityType, correlation.AssetManagerGUID, "assetManagerGUID", methodName)
	}
	return nil
}

// discard deletes an entity, with its relationships, created earlier in a request that
// then failed. Nothing has been published for it yet.
func (h *ProcessExchangeHandler) discard(ctx context.Context, guid, typeName, methodName string) {
	if _, _, err := h.repo.DeleteEntity(ctx, guid, typeName); err != nil && !errorsIsNotFound(err) {
		h.logger.Warn("could not remove partly created element",
			zap.String("method", methodName), zap.String("guid", guid), zap.Error(err))
	}
}

// correlationHeaders describes how the caller's asset manager identifies an element.
func (h *ProcessExchangeHandler) correlationHeaders(ctx context.Context, elementGUID, assetManagerGUID string) ([]elements.MetadataCorrelationHeader, error) {
	if assetManagerGUID == "" {
		return nil, nil
	}
	ids, err := h.externalIDs(ctx, elementGUID, assetManagerGUID)
	if err != nil {
		return nil, err
	}
	var headers []elements.MetadataCorrelationHeader
	for _, id := range ids {
		p := id.Properties
		header := elements.MetadataCorrelationHeader{
			MetadataCorrelationProperties: properties.MetadataCorrelationProperties{
				AssetManagerGUID:           p.GetString(scopeGUIDProperty),
				AssetManagerName:           p.GetString(scopeNameProperty),
				ExternalIdentifier:         p.GetString(identifierProperty),
				ExternalIdentifierName:     p.GetString(externalIdentifierNameProperty),
				ExternalIdentifierUsage:    p.GetString(externalIdentifierUsageProperty),
				ExternalIdentifierSource:   p.GetString(externalIdentifierSourceProperty),
				KeyPattern:                 properties.KeyPattern(p.GetString(keyPatternProperty)),
				MappingProperties:          p.GetStringMap(mappingPropertiesProperty),
				SynchronizationDirection:   properties.SynchronizationDirection(p.GetString(synchronizationDirectionProperty)),
				SynchronizationDescription: p.GetString(synchronizationDescriptionProperty),
			},
		}
		if t, err := time.Parse(time.RFC3339Nano, p.GetString(lastSynchronizedProperty)); err == nil {
			header.LastSynchronized = &t
		}
		headers = append(headers, header)
	}
	return headers, nil
}

// removeExternalIDs deletes the ExternalId entities linked to an element that is about to
// be removed.
func (h *ProcessExchangeHandler) removeExternalIDs(ctx context.Context, elementGUID, methodName string) error {
	ids, err := h.externalIDs(ctx, elementGUID, "")
	if err != nil {
		return h.repositoryError(err, repository.ReferenceableType, elementGUID, "elementGUID", methodName)
	}
	for _, id := range ids {
		if _, _, err := h.repo.DeleteEntity(ctx, id.GUID, repository.ExternalIDType); err != nil && !errorsIsNotFound(err) {
			return h.repositoryError(err, repository.ExternalIDType, id.GUID, "externalIdentifier", methodName)
		}
	}
	return nil
}

// elementsForAssetManager lists the GUIDs of elements correlated with, or homed in, an
// asset manager, in creation order of their external identifiers.
func (h *ProcessExchangeHandler) elementsForAssetManager(ctx context.Context, assetManagerGUID string) (map[string]bool, error) {
	ids, _, err := h.repo.GetRelatedEntities(ctx, assetManagerGUID, repository.ExternalIDScopeRelationship, repository.EndOne)
	if err != nil {
		return nil, err
	}
	guids := make(map[string]bool)
	for _, id := range ids {
		linked, err := h.repo.GetRelationships(ctx, id.GUID, repository.ExternalIDLinkRelationship, repository.EndTwo)
		if err != nil {
			return nil, err
		}
		for _, r := range linked {
			guids[r.End1.GUID] = true
		}
	}
	return guids, nil
}
