package handlers

import (
	"context"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/outtopic"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
)

func (h *ProcessExchangeHandler) validatePortProperties(p *properties.PortProperties, methodName string) error {
	if err := h.invalid.ValidateObject(p, "portProperties", methodName); err != nil {
		return err
	}
	if err := h.invalid.ValidateName(p.QualifiedName, "qualifiedName", methodName); err != nil {
		return err
	}
	if err := h.invalid.ValidateStruct(p, "portProperties", methodName); err != nil {
		return err
	}
	return h.validateTexts(methodName,
		"displayName", p.DisplayName,
		"identifier", p.Identifier)
}

// CreatePort creates a port and attaches it to its process.
func (h *ProcessExchangeHandler) CreatePort(ctx context.Context, userID string,
	correlation *properties.MetadataCorrelationProperties, assetManagerIsHome bool, processGUID string,
	portProperties *properties.PortProperties, methodName string) (string, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return "", err
	}
	if err := h.validatePortProperties(portProperties, methodName); err != nil {
		return "", err
	}
	typeName, err := h.elementTypeName(portProperties.TypeName, repository.PortType, methodName)
	if err != nil {
		return "", err
	}
	if _, err := h.getEntity(ctx, processGUID, repository.ProcessType, "processGUID", methodName); err != nil {
		return "", err
	}
	amGUID, amName := correlationIdentifiers(correlation)
	home, err := h.assetManagerHome(ctx, amGUID, amName, assetManagerIsHome, methodName)
	if err != nil {
		return "", err
	}
	defer qualifiedNames.lock(portProperties.QualifiedName)()
	if err := h.checkUniqueQualifiedName(ctx, portProperties.QualifiedName, "", methodName); err != nil {
		return "", err
	}

	port, err := h.repo.CreateEntity(ctx, userID, typeName, portInstanceProperties(portProperties), nil, repository.StatusActive, home)
	if err != nil {
		return "", h.repositoryError(err, typeName, "", "portProperties", methodName)
	}
	link, err := h.repo.CreateRelationship(ctx, userID, repository.ProcessPortRelationship, processGUID, port.GUID, nil, home)
	if err != nil {
		h.discard(ctx, port.GUID, typeName, methodName)
		return "", h.repositoryError(err, repository.ProcessType, processGUID, "processGUID", methodName)
	}
	if err := h.maintainCorrelation(ctx, userID, port.GUID, typeName, correlation, methodName); err != nil {
		h.discard(ctx, port.GUID, typeName, methodName)
		return "", err
	}
	h.publishEntity(ctx, outtopic.NewElementCreated, port, "")
	h.publishRelationship(ctx, outtopic.NewRelationship, link)
	return port.GUID, nil
}

// UpdatePort replaces the properties of a port.
func (h *ProcessExchangeHandler) UpdatePort(ctx context.Context, userID string,
	correlation *properties.MetadataCorrelationProperties, portGUID string,
	portProperties *properties.PortProperties, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if err := h.validatePortProperties(portProperties, methodName); err != nil {
		return err
	}
	port, err := h.getEntity(ctx, portGUID, repository.PortType, "portGUID", methodName)
	if err != nil {
		return err
	}
	amGUID, _ := correlationIdentifiers(correlation)
	if err := h.checkHome(port.InstanceHeader, amGUID, methodName); err != nil {
		return err
	}
	defer qualifiedNames.lock(portProperties.QualifiedName)()
	if err := h.checkUniqueQualifiedName(ctx, portProperties.QualifiedName, portGUID, methodName); err != nil {
		return err
	}
	port.Properties = portInstanceProperties(portProperties)
	if err := h.repo.UpdateEntity(ctx, userID, port); err != nil {
		return h.repositoryError(err, repository.PortType, portGUID, "portGUID", methodName)
	}
	if err := h.maintainCorrelation(ctx, userID, portGUID, port.Type.TypeName, correlation, methodName); err != nil {
		return err
	}
	h.publishEntity(ctx, outtopic.ElementUpdated, port, "")
	return nil
}

// SetupProcessPort attaches an existing port to a process. Attaching twice is harmless.
func (h *ProcessExchangeHandler) SetupProcessPort(ctx context.Context, userID, assetManagerGUID, assetManagerName string,
	assetManagerIsHome bool, processGUID, portGUID, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, processGUID, repository.ProcessType, "processGUID", methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, portGUID, repository.PortType, "portGUID", methodName); err != nil {
		return err
	}
	_, err := h.link(ctx, userID, assetManagerGUID, assetManagerName, assetManagerIsHome,
		repository.ProcessPortRelationship, processGUID, portGUID, nil, "portGUID", methodName)
	return err
}

// ClearProcessPort detaches a port from a process.
func (h *ProcessExchangeHandler) ClearProcessPort(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	processGUID, portGUID, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, processGUID, repository.ProcessType, "processGUID", methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, portGUID, repository.PortType, "portGUID", methodName); err != nil {
		return err
	}
	return h.unlink(ctx, assetManagerGUID, repository.ProcessPortRelationship, processGUID, portGUID, "portGUID", methodName)
}

// SetupPortDelegation records that portOne delegates to portTwo. A port delegates to at
// most one port, so any other delegation from portOne is replaced.
func (h *ProcessExchangeHandler) SetupPortDelegation(ctx context.Context, userID, assetManagerGUID, assetManagerName string,
	assetManagerIsHome bool, portOneGUID, portTwoGUID, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, portOneGUID, repository.PortType, "portOneGUID", methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, portTwoGUID, repository.PortType, "portTwoGUID", methodName); err != nil {
		return err
	}
	if err := h.checkNotSelf(repository.PortDelegationRelationship, portOneGUID, portTwoGUID, "portTwoGUID", methodName); err != nil {
		return err
	}
	return h.replaceLink(ctx, userID, assetManagerGUID, assetManagerName, assetManagerIsHome,
		repository.PortDelegationRelationship, portOneGUID, portTwoGUID, "portTwoGUID", methodName)
}

// ClearPortDelegation removes the delegation from portOne to portTwo.
func (h *ProcessExchangeHandler) ClearPortDelegation(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	portOneGUID, portTwoGUID, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, portOneGUID, repository.PortType, "portOneGUID", methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, portTwoGUID, repository.PortType, "portTwoGUID", methodName); err != nil {
		return err
	}
	return h.unlink(ctx, assetManagerGUID, repository.PortDelegationRelationship, portOneGUID, portTwoGUID, "portTwoGUID", methodName)
}

// SetupPortSchemaType attaches the schema type describing the data passing through a
// port. A port has one schema type, so an earlier one is detached.
func (h *ProcessExchangeHandler) SetupPortSchemaType(ctx context.Context, userID, assetManagerGUID, assetManagerName string,
	assetManagerIsHome bool, portGUID, schemaTypeGUID, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, portGUID, repository.PortType, "portGUID", methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, schemaTypeGUID, repository.SchemaTypeType, "schemaTypeGUID", methodName); err != nil {
		return err
	}
	return h.replaceLink(ctx, userID, assetManagerGUID, assetManagerName, assetManagerIsHome,
		repository.PortSchemaRelationship, portGUID, schemaTypeGUID, "schemaTypeGUID", methodName)
}

// ClearPortSchemaType detaches a schema type from a port.
func (h *ProcessExchangeHandler) ClearPortSchemaType(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	portGUID, schemaTypeGUID, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, portGUID, repository.PortType, "portGUID", methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, schemaTypeGUID, repository.SchemaTypeType, "schemaTypeGUID", methodName); err != nil {
		return err
	}
	return h.unlink(ctx, assetManagerGUID, repository.PortSchemaRelationship, portGUID, schemaTypeGUID, "schemaTypeGUID", methodName)
}

// RemovePort deletes a port, its external identifiers and its relationships.
func (h *ProcessExchangeHandler) RemovePort(ctx context.Context, userID string,
	correlation *properties.MetadataCorrelationProperties, portGUID, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	port, err := h.getEntity(ctx, portGUID, repository.PortType, "portGUID", methodName)
	if err != nil {
		return err
	}
	amGUID, _ := correlationIdentifiers(correlation)
	if err := h.checkHome(port.InstanceHeader, amGUID, methodName); err != nil {
		return err
	}
	return h.removeElement(ctx, portGUID, repository.PortType, "portGUID", methodName)
}

// FindPorts returns the ports whose qualified name or display name matches searchString.
func (h *ProcessExchangeHandler) FindPorts(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	searchString, searchStringParameterName string, startFrom, pageSize int,
	methodName string) ([]*elements.PortElement, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return nil, err
	}
	re, err := h.invalid.ValidateSearchString(searchString, searchStringParameterName, methodName)
	if err != nil {
		return nil, err
	}
	size, err := h.invalid.ValidatePaging(startFrom, pageSize, methodName)
	if err != nil {
		return nil, err
	}
	found, err := h.repo.FindEntities(ctx, repository.PortType, matchAny(re,
		repository.QualifiedNameProperty, repository.DisplayNameProperty))
	if err != nil {
		return nil, h.repositoryError(err, repository.PortType, "", "searchString", methodName)
	}
	return h.portElements(ctx, repository.Page(found, startFrom, size), assetManagerGUID, methodName)
}

// GetPortsForProcess returns the ports attached to a process.
func (h *ProcessExchangeHandler) GetPortsForProcess(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	processGUID string, startFrom, pageSize int, methodName string) ([]*elements.PortElement, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return nil, err
	}
	if _, err := h.getEntity(ctx, processGUID, repository.ProcessType, "processGUID", methodName); err != nil {
		return nil, err
	}
	size, err := h.invalid.ValidatePaging(startFrom, pageSize, methodName)
	if err != nil {
		return nil, err
	}
	ports, _, err := h.repo.GetRelatedEntities(ctx, processGUID, repository.ProcessPortRelationship, repository.EndOne)
	if err != nil {
		return nil, h.repositoryError(err, repository.ProcessType, processGUID, "processGUID", methodName)
	}
	return h.portElements(ctx, repository.Page(ports, startFrom, size), assetManagerGUID, methodName)
}

// GetPortUse returns the ports that delegate to portGUID.
func (h *ProcessExchangeHandler) GetPortUse(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	portGUID string, startFrom, pageSize int, methodName string) ([]*elements.PortElement, error) {
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
	ports, _, err := h.repo.GetRelatedEntities(ctx, portGUID, repository.PortDelegationRelationship, repository.EndTwo)
	if err != nil {
		return nil, h.repositoryError(err, repository.PortType, portGUID, "portGUID", methodName)
	}
	return h.portElements(ctx, repository.Page(ports, startFrom, size), assetManagerGUID, methodName)
}

// GetPortDelegation returns the port that portGUID delegates to, or nil.
func (h *ProcessExchangeHandler) GetPortDelegation(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	portGUID, methodName string) (*elements.PortElement, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return nil, err
	}
	if _, err := h.getEntity(ctx, portGUID, repository.PortType, "portGUID", methodName); err != nil {
		return nil, err
	}
	ports, _, err := h.repo.GetRelatedEntities(ctx, portGUID, repository.PortDelegationRelationship, repository.EndOne)
	if err != nil {
		return nil, h.repositoryError(err, repository.PortType, portGUID, "portGUID", methodName)
	}
	if len(ports) == 0 {
		return nil, nil
	}
	return h.portElement(ctx, ports[0], assetManagerGUID, methodName)
}

// GetPortsByName returns the ports whose qualified name or display name equals name.
func (h *ProcessExchangeHandler) GetPortsByName(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	name, nameParameterName string, startFrom, pageSize int, methodName string) ([]*elements.PortElement, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return nil, err
	}
	if nameParameterName == "" {
		nameParameterName = "name"
	}
	if err := h.invalid.ValidateName(name, nameParameterName, methodName); err != nil {
		return nil, err
	}
	size, err := h.invalid.ValidatePaging(startFrom, pageSize, methodName)
	if err != nil {
		return nil, err
	}
	found, err := h.repo.FindEntitiesByName(ctx, repository.PortType, name,
		repository.QualifiedNameProperty, repository.DisplayNameProperty)
	if err != nil {
		return nil, h.repositoryError(err, repository.PortType, "", nameParameterName, methodName)
	}
	return h.portElements(ctx, repository.Page(found, startFrom, size), assetManagerGUID, methodName)
}

// GetPortByGUID returns a port.
func (h *ProcessExchangeHandler) GetPortByGUID(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	portGUID, methodName string) (*elements.PortElement, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return nil, err
	}
	port, err := h.getEntity(ctx, portGUID, repository.PortType, "portGUID", methodName)
	if err != nil {
		return nil, err
	}
	return h.portElement(ctx, port, assetManagerGUID, methodName)
}

func (h *ProcessExchangeHandler) portElement(ctx context.Context, e *repository.EntityDetail,
	assetManagerGUID, methodName string) (*elements.PortElement, error) {
	correlation, err := h.correlationHeaders(ctx, e.GUID, assetManagerGUID)
	if err != nil {
		return nil, h.repositoryError(err, repository.PortType, e.GUID, "portGUID", methodName)
	}
	return h.converter.PortElement(e, correlation, methodName)
}

func (h *ProcessExchangeHandler) portElements(ctx context.Context, found []*repository.EntityDetail,
	assetManagerGUID, methodName string) ([]*elements.PortElement, error) {
	out := make([]*elements.PortElement, 0, len(found))
	for _, e := range found {
		el, err := h.portElement(ctx, e, assetManagerGUID, methodName)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// link creates a relationship of typeName between two entities unless one exists already,
// and returns the relationship.
func (h *ProcessExchangeHandler) link(ctx context.Context, userID, assetManagerGUID, assetManagerName string,
	assetManagerIsHome bool, typeName, end1GUID, end2GUID string, props repository.InstanceProperties,
	parameterName, methodName string) (*repository.Relationship, error) {
	existing, err := h.repo.GetRelationshipsBetween(ctx, typeName, end1GUID, end2GUID)
	if err != nil {
		return nil, h.repositoryError(err, typeName, end1GUID, parameterName, methodName)
	}
	if len(existing) > 0 {
		return existing[0], nil
	}
	home, err := h.assetManagerHome(ctx, assetManagerGUID, assetManagerName, assetManagerIsHome, methodName)
	if err != nil {
		return nil, err
	}
	r, err := h.repo.CreateRelationship(ctx, userID, typeName, end1GUID, end2GUID, props, home)
	if err != nil {
		return nil, h.repositoryError(err, typeName, end2GUID, parameterName, methodName)
	}
	h.publishRelationship(ctx, outtopic.NewRelationship, r)
	return r, nil
}

// replaceLink makes end2GUID the only entity linked from end1GUID by typeName.
func (h *ProcessExchangeHandler) replaceLink(ctx context.Context, userID, assetManagerGUID, assetManagerName string,
	assetManagerIsHome bool, typeName, end1GUID, end2GUID, parameterName, methodName string) error {
	current, err := h.repo.GetRelationships(ctx, end1GUID, typeName, repository.EndOne)
	if err != nil {
		return h.repositoryError(err, typeName, end1GUID, parameterName, methodName)
	}
	for _, r := range current {
		if r.End2.GUID == end2GUID {
			continue
		}
		if err := h.checkHome(r.InstanceHeader, assetManagerGUID, methodName); err != nil {
			return err
		}
		removed, err := h.repo.DeleteRelationship(ctx, r.GUID, typeName)
		if err != nil {
			return h.repositoryError(err, typeName, r.GUID, parameterName, methodName)
		}
		h.publishRelationship(ctx, outtopic.RelationshipDeleted, removed)
	}
	_, err = h.link(ctx, userID, assetManagerGUID, assetManagerName, assetManagerIsHome,
		typeName, end1GUID, end2GUID, nil, parameterName, methodName)
	return err
}
