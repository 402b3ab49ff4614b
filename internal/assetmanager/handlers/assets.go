package handlers

import (
	"context"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/outtopic"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

// UpsertElement creates or replaces the element of typeName that carries the qualified name
// in props. New elements are homed in the caller's asset manager; new assets also join the
// default zones.
func (h *ProcessExchangeHandler) UpsertElement(ctx context.Context, userID string,
	correlation *properties.MetadataCorrelationProperties, typeName string, props repository.InstanceProperties,
	methodName string) (string, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return "", err
	}
	qualifiedName := props.GetString(repository.QualifiedNameProperty)
	if err := h.invalid.ValidateName(qualifiedName, "qualifiedName", methodName); err != nil {
		return "", err
	}
	if _, err := h.elementTypeName(typeName, repository.ReferenceableType, methodName); err != nil {
		return "", err
	}
	existing, err := h.findByQualifiedName(ctx, typeName, qualifiedName, methodName)
	if err != nil {
		return "", err
	}
	amGUID, amName := correlationIdentifiers(correlation)

	if existing != nil {
		if err := h.checkHome(existing.InstanceHeader, amGUID, methodName); err != nil {
			return "", err
		}
		updated, err := h.repo.UpdateEntityProperties(ctx, userID, existing.GUID, typeName, props, false)
		if err != nil {
			return "", h.repositoryError(err, typeName, existing.GUID, "qualifiedName", methodName)
		}
		if err := h.maintainCorrelation(ctx, userID, existing.GUID, typeName, correlation, methodName); err != nil {
			return "", err
		}
		h.publishEntity(ctx, outtopic.ElementUpdated, updated, "")
		return existing.GUID, nil
	}

	home, err := h.assetManagerHome(ctx, amGUID, amName, true, methodName)
	if err != nil {
		return "", err
	}
	var classifications []repository.Classification
	if repository.IsTypeOf(typeName, repository.AssetType) {
		classifications = zoneClassification(h.defaultZones)
	}
	e, err := h.repo.CreateEntity(ctx, userID, typeName, props, classifications, repository.StatusActive, home)
	if err != nil {
		return "", h.repositoryError(err, typeName, "", "qualifiedName", methodName)
	}
	if err := h.maintainCorrelation(ctx, userID, e.GUID, typeName, correlation, methodName); err != nil {
		h.discard(ctx, e.GUID, typeName, methodName)
		return "", err
	}
	h.publishEntity(ctx, outtopic.NewElementCreated, e, "")
	return e.GUID, nil
}

// FindElementGUID returns the GUID of the element of typeName with the qualified name, or ""
// when there is none.
func (h *ProcessExchangeHandler) FindElementGUID(ctx context.Context, userID, typeName, qualifiedName,
	methodName string) (string, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return "", err
	}
	if err := h.invalid.ValidateName(qualifiedName, "qualifiedName", methodName); err != nil {
		return "", err
	}
	e, err := h.findByQualifiedName(ctx, typeName, qualifiedName, methodName)
	if err != nil || e == nil {
		return "", err
	}
	return e.GUID, nil
}

// RemoveElement deletes an element of typeName together with its external identifiers and
// relationships.
func (h *ProcessExchangeHandler) RemoveElement(ctx context.Context, userID string,
	correlation *properties.MetadataCorrelationProperties, typeName, elementGUID, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	e, err := h.getEntity(ctx, elementGUID, typeName, "elementGUID", methodName)
	if err != nil {
		return err
	}
	amGUID, _ := correlationIdentifiers(correlation)
	if err := h.checkHome(e.InstanceHeader, amGUID, methodName); err != nil {
		return err
	}
	return h.removeElement(ctx, elementGUID, typeName, "elementGUID", methodName)
}

// LinkElements creates a relationship of typeName between two elements unless one exists,
// and returns its GUID.
func (h *ProcessExchangeHandler) LinkElements(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	typeName, end1GUID, end2GUID, methodName string) (string, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return "", err
	}
	if _, err := h.getEntity(ctx, end1GUID, repository.ReferenceableType, "end1GUID", methodName); err != nil {
		return "", err
	}
	if _, err := h.getEntity(ctx, end2GUID, repository.ReferenceableType, "end2GUID", methodName); err != nil {
		return "", err
	}
	if err := h.checkNotSelf(typeName, end1GUID, end2GUID, "end2GUID", methodName); err != nil {
		return "", err
	}
	r, err := h.link(ctx, userID, assetManagerGUID, assetManagerName, assetManagerGUID != "",
		typeName, end1GUID, end2GUID, nil, "end2GUID", methodName)
	if err != nil {
		return "", err
	}
	return r.GUID, nil
}

// findByQualifiedName returns the element with the qualified name, or nil. An element of a
// different type holding the name is reported as a wrong type.
func (h *ProcessExchangeHandler) findByQualifiedName(ctx context.Context, typeName, qualifiedName,
	methodName string) (*repository.EntityDetail, error) {
	found, err := h.repo.FindEntitiesByName(ctx, repository.ReferenceableType, qualifiedName)
	if err != nil {
		return nil, h.repositoryError(err, typeName, "", "qualifiedName", methodName)
	}
	if len(found) == 0 {
		return nil, nil
	}
	e := found[0]
	if !repository.IsTypeOf(e.Type.TypeName, typeName) {
		return nil, errors.InvalidParameter(errors.WrongElementType, methodName, "qualifiedName",
			e.GUID, methodName, e.Type.TypeName, typeName)
	}
	return e, nil
}
