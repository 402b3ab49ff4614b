package handlers

import (
	"context"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/ffdc"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/outtopic"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

// lineageType describes a lineage relationship type and the parameter names of its ends.
type lineageType struct {
	typeName  string
	end1Param string
	end2Param string
	guidParam string
}

var (
	dataFlowType       = lineageType{repository.DataFlowRelationship, "dataSupplierGUID", "dataConsumerGUID", "dataFlowGUID"}
	controlFlowType    = lineageType{repository.ControlFlowRelationship, "currentStepGUID", "nextStepGUID", "controlFlowGUID"}
	processCallType    = lineageType{repository.ProcessCallRelationship, "callerGUID", "calledGUID", "processCallGUID"}
	lineageMappingType = lineageType{repository.LineageMappingRelationship, "sourceElementGUID", "destinationElementGUID", ""}
)

// lineageLink is a lineage relationship with the entities at its ends. Either end may be nil
// when the entity has gone.
type lineageLink struct {
	relationship *repository.Relationship
	end1         *repository.EntityDetail
	end2         *repository.EntityDetail
}

func (h *ProcessExchangeHandler) lineageEnds(ctx context.Context, lt lineageType, end1GUID, end2GUID,
	methodName string) error {
	if _, err := h.getEntity(ctx, end1GUID, repository.ReferenceableType, lt.end1Param, methodName); err != nil {
		return err
	}
	_, err := h.getEntity(ctx, end2GUID, repository.ReferenceableType, lt.end2Param, methodName)
	return err
}

// setupLineage creates a lineage relationship between two elements. A second relationship
// with the same qualified name between the same ends is rejected.
func (h *ProcessExchangeHandler) setupLineage(ctx context.Context, userID, assetManagerGUID, assetManagerName string,
	assetManagerIsHome bool, lt lineageType, end1GUID, end2GUID string, props repository.InstanceProperties,
	methodName string) (*repository.Relationship, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return nil, err
	}
	if err := h.lineageEnds(ctx, lt, end1GUID, end2GUID, methodName); err != nil {
		return nil, err
	}
	existing, err := h.repo.GetRelationshipsBetween(ctx, lt.typeName, end1GUID, end2GUID)
	if err != nil {
		return nil, h.repositoryError(err, lt.typeName, end1GUID, lt.end1Param, methodName)
	}
	qualifiedName := props.GetString(repository.QualifiedNameProperty)
	for _, r := range existing {
		if r.Properties.GetString(repository.QualifiedNameProperty) == qualifiedName {
			return nil, errors.InvalidParameter(ffdc.DuplicateRelationship, methodName, lt.end2Param,
				lt.typeName, qualifiedName, end1GUID, end2GUID, r.GUID).From(ffdc.ServiceName)
		}
	}
	home, err := h.assetManagerHome(ctx, assetManagerGUID, assetManagerName, assetManagerIsHome, methodName)
	if err != nil {
		return nil, err
	}
	r, err := h.repo.CreateRelationship(ctx, userID, lt.typeName, end1GUID, end2GUID, props, home)
	if err != nil {
		return nil, h.repositoryError(err, lt.typeName, end2GUID, lt.end2Param, methodName)
	}
	h.publishRelationship(ctx, outtopic.NewRelationship, r)
	return r, nil
}

// getLineage returns the relationship between two elements. A non-empty qualifiedName selects
// the relationship carrying it; otherwise the first one is returned. The result is nil when
// there is no match.
func (h *ProcessExchangeHandler) getLineage(ctx context.Context, userID string, lt lineageType,
	end1GUID, end2GUID, qualifiedName, methodName string) (*lineageLink, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return nil, err
	}
	if err := h.lineageEnds(ctx, lt, end1GUID, end2GUID, methodName); err != nil {
		return nil, err
	}
	existing, err := h.repo.GetRelationshipsBetween(ctx, lt.typeName, end1GUID, end2GUID)
	if err != nil {
		return nil, h.repositoryError(err, lt.typeName, end1GUID, lt.end1Param, methodName)
	}
	for _, r := range existing {
		if qualifiedName == "" || r.Properties.GetString(repository.QualifiedNameProperty) == qualifiedName {
			return h.lineageLink(ctx, r), nil
		}
	}
	return nil, nil
}

// updateLineage replaces the properties of a lineage relationship.
func (h *ProcessExchangeHandler) updateLineage(ctx context.Context, userID, assetManagerGUID string, lt lineageType,
	relationshipGUID string, props repository.InstanceProperties, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if err := h.invalid.ValidateGUID(relationshipGUID, lt.guidParam, methodName); err != nil {
		return err
	}
	r, err := h.repo.GetRelationship(ctx, relationshipGUID, lt.typeName)
	if err != nil {
		return h.repositoryError(err, lt.typeName, relationshipGUID, lt.guidParam, methodName)
	}
	if err := h.checkHome(r.InstanceHeader, assetManagerGUID, methodName); err != nil {
		return err
	}
	updated, err := h.repo.UpdateRelationshipProperties(ctx, userID, relationshipGUID, lt.typeName, props, false)
	if err != nil {
		return h.repositoryError(err, lt.typeName, relationshipGUID, lt.guidParam, methodName)
	}
	h.publishRelationship(ctx, outtopic.RelationshipUpdated, updated)
	return nil
}

// clearLineage deletes a lineage relationship. A relationship that has already gone is
// not an error.
func (h *ProcessExchangeHandler) clearLineage(ctx context.Context, userID, assetManagerGUID string, lt lineageType,
	relationshipGUID, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if err := h.invalid.ValidateGUID(relationshipGUID, lt.guidParam, methodName); err != nil {
		return err
	}
	r, err := h.repo.GetRelationship(ctx, relationshipGUID, lt.typeName)
	if errorsIsNotFound(err) {
		return nil
	}
	if err != nil {
		return h.repositoryError(err, lt.typeName, relationshipGUID, lt.guidParam, methodName)
	}
	if err := h.checkHome(r.InstanceHeader, assetManagerGUID, methodName); err != nil {
		return err
	}
	removed, err := h.repo.DeleteRelationship(ctx, relationshipGUID, lt.typeName)
	if err != nil {
		return h.repositoryError(err, lt.typeName, relationshipGUID, lt.guidParam, methodName)
	}
	h.publishRelationship(ctx, outtopic.RelationshipDeleted, removed)
	return nil
}

// relatedLineage lists the lineage relationships where guid sits at the given end.
func (h *ProcessExchangeHandler) relatedLineage(ctx context.Context, userID string, lt lineageType, guid string,
	end repository.End, methodName string) ([]*lineageLink, error) {
	parameterName := lt.end1Param
	if end == repository.EndTwo {
		parameterName = lt.end2Param
	}
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return nil, err
	}
	if _, err := h.getEntity(ctx, guid, repository.ReferenceableType, parameterName, methodName); err != nil {
		return nil, err
	}
	rels, err := h.repo.GetRelationships(ctx, guid, lt.typeName, end)
	if err != nil {
		return nil, h.repositoryError(err, lt.typeName, guid, parameterName, methodName)
	}
	links := make([]*lineageLink, 0, len(rels))
	for _, r := range rels {
		links = append(links, h.lineageLink(ctx, r))
	}
	return links, nil
}

func (h *ProcessExchangeHandler) lineageLink(ctx context.Context, r *repository.Relationship) *lineageLink {
	return &lineageLink{
		relationship: r,
		end1:         h.entityOrNil(ctx, r.End1.GUID),
		end2:         h.entityOrNil(ctx, r.End2.GUID),
	}
}
