package handlers

import (
	"context"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
	"github.com/MihaiIliescu/egeria/internal/repository"
)

// GetValidValuesForPort returns the valid values assigned to the schema type of a port,
// each with the strictness of its assignment. A port without a schema type has none.
func (h *ProcessExchangeHandler) GetValidValuesForPort(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	portGUID string, startFrom, pageSize int, methodName string) ([]*elements.ValidValueAssignmentDefinitionElement, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return nil, err
	}
	if _, err := h.getEntity(ctx, portGUID, repository.PortType, "portGUID", methodName); err != nil {
		return nil, err
	}
	size, err := h.invalid.ValidatePaging(startFrom, pageSize, methodName)
	if err != nil {
		return nil, err
	}
	schemaTypes, _, err := h.repo.GetRelatedEntities(ctx, portGUID, repository.PortSchemaRelationship, repository.EndOne)
	if err != nil {
		return nil, h.repositoryError(err, repository.PortType, portGUID, "portGUID", methodName)
	}

	var out []*elements.ValidValueAssignmentDefinitionElement
	for _, schemaType := range schemaTypes {
		values, links, err := h.repo.GetRelatedEntities(ctx, schemaType.GUID, repository.ValidValuesAssignmentRelationship, repository.EndOne)
		if err != nil {
			return nil, h.repositoryError(err, repository.SchemaTypeType, schemaType.GUID, "schemaTypeGUID", methodName)
		}
		for i, value := range values {
			el, err := h.converter.ValidValueAssignmentDefinition(value, links[i], methodName)
			if err != nil {
				return nil, err
			}
			out = append(out, el)
		}
	}
	return repository.Page(out, startFrom, size), nil
}
