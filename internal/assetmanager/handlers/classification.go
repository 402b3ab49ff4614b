package handlers

import (
	"context"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/outtopic"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
)

// SetBusinessSignificant marks an element as meaningful to the business.
func (h *ProcessExchangeHandler) SetBusinessSignificant(ctx context.Context, userID string,
	correlation *properties.MetadataCorrelationProperties, elementGUID, methodName string) error {
	return h.businessSignificance(ctx, userID, correlation, elementGUID, true, methodName)
}

// ClearBusinessSignificant removes the business significant marker from an element.
func (h *ProcessExchangeHandler) ClearBusinessSignificant(ctx context.Context, userID string,
	correlation *properties.MetadataCorrelationProperties, elementGUID, methodName string) error {
	return h.businessSignificance(ctx, userID, correlation, elementGUID, false, methodName)
}

func (h *ProcessExchangeHandler) businessSignificance(ctx context.Context, userID string,
	correlation *properties.MetadataCorrelationProperties, elementGUID string, significant bool, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	element, err := h.getEntity(ctx, elementGUID, repository.ReferenceableType, "elementGUID", methodName)
	if err != nil {
		return err
	}
	amGUID, _ := correlationIdentifiers(correlation)
	if err := h.checkHome(element.InstanceHeader, amGUID, methodName); err != nil {
		return err
	}

	eventType := outtopic.ElementClassified
	if significant {
		element, err = h.repo.ClassifyEntity(ctx, userID, elementGUID, repository.ReferenceableType,
			repository.BusinessSignificantClassification, nil)
	} else {
		if element.Classification(repository.BusinessSignificantClassification) == nil {
			return nil
		}
		eventType = outtopic.ElementDeclassified
		element, err = h.repo.DeclassifyEntity(ctx, userID, elementGUID, repository.ReferenceableType,
			repository.BusinessSignificantClassification)
	}
	if err != nil {
		return h.repositoryError(err, repository.ReferenceableType, elementGUID, "elementGUID", methodName)
	}
	if err := h.maintainCorrelation(ctx, userID, elementGUID, element.Type.TypeName, correlation, methodName); err != nil {
		return err
	}
	h.publishEntity(ctx, eventType, element, repository.BusinessSignificantClassification)
	return nil
}
