package handlers

import (
	"context"
	"regexp"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/converters"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/outtopic"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

func (h *ProcessExchangeHandler) validateProcessProperties(p *properties.ProcessProperties, requireQualifiedName bool, methodName string) error {
	if err := h.invalid.ValidateObject(p, "processProperties", methodName); err != nil {
		return err
	}
	if requireQualifiedName {
		if err := h.invalid.ValidateName(p.QualifiedName, "qualifiedName", methodName); err != nil {
			return err
		}
	}
	return h.validateTexts(methodName,
		"qualifiedName", p.QualifiedName,
		"name", p.Name,
		"displayName", p.DisplayName,
		"description", p.Description)
}

// CreateProcess creates a process. The process starts in the default zones and, when
// assetManagerIsHome is set, belongs to the caller's asset manager.
func (h *ProcessExchangeHandler) CreateProcess(ctx context.Context, userID string,
	correlation *properties.MetadataCorrelationProperties, assetManagerIsHome bool,
	processProperties *properties.ProcessProperties, processStatus properties.ProcessStatus,
	methodName string) (string, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return "", err
	}
	if err := h.validateProcessProperties(processProperties, true, methodName); err != nil {
		return "", err
	}
	typeName, err := h.elementTypeName(processProperties.TypeName, repository.ProcessType, methodName)
	if err != nil {
		return "", err
	}
	amGUID, amName := correlationIdentifiers(correlation)
	home, err := h.assetManagerHome(ctx, amGUID, amName, assetManagerIsHome, methodName)
	if err != nil {
		return "", err
	}
	defer qualifiedNames.lock(processProperties.QualifiedName)()
	if err := h.checkUniqueQualifiedName(ctx, processProperties.QualifiedName, "", methodName); err != nil {
		return "", err
	}

	process, err := h.repo.CreateEntity(ctx, userID, typeName, processInstanceProperties(processProperties),
		zoneClassification(h.defaultZones), processStatus.InstanceStatus(), home)
	if err != nil {
		return "", h.repositoryError(err, typeName, "", "processProperties", methodName)
	}
	if err := h.maintainCorrelation(ctx, userID, process.GUID, typeName, correlation, methodName); err != nil {
		h.discard(ctx, process.GUID, typeName, methodName)
		return "", err
	}
	h.publishEntity(ctx, outtopic.NewElementCreated, process, "")
	return process.GUID, nil
}

// CreateProcessFromTemplate creates a process by copying the type, properties and
// classifications of a template process. The supplied template properties override the
// copied names and a new qualified name is required.
func (h *ProcessExchangeHandler) CreateProcessFromTemplate(ctx context.Context, userID string,
	correlation *properties.MetadataCorrelationProperties, assetManagerIsHome bool, templateGUID string,
	templateProperties *properties.TemplateProperties, methodName string) (string, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return "", err
	}
	if err := h.invalid.ValidateObject(templateProperties, "templateProperties", methodName); err != nil {
		return "", err
	}
	if err := h.invalid.ValidateName(templateProperties.QualifiedName, "qualifiedName", methodName); err != nil {
		return "", err
	}
	if err := h.validateTexts(methodName,
		"displayName", templateProperties.DisplayName,
		"description", templateProperties.Description); err != nil {
		return "", err
	}
	template, err := h.getEntity(ctx, templateGUID, repository.ProcessType, "templateGUID", methodName)
	if err != nil {
		return "", err
	}
	amGUID, amName := correlationIdentifiers(correlation)
	home, err := h.assetManagerHome(ctx, amGUID, amName, assetManagerIsHome, methodName)
	if err != nil {
		return "", err
	}
	defer qualifiedNames.lock(templateProperties.QualifiedName)()
	if err := h.checkUniqueQualifiedName(ctx, templateProperties.QualifiedName, "", methodName); err != nil {
		return "", err
	}

	props := template.Properties.Clone()
	if props == nil {
		props = repository.InstanceProperties{}
	}
	props[repository.QualifiedNameProperty] = templateProperties.QualifiedName
	props.Set(repository.DisplayNameProperty, templateProperties.DisplayName).
		Set(repository.DescriptionProperty, templateProperties.Description)

	var classifications []repository.Classification
	for _, c := range template.Classifications {
		if c.Name == repository.AssetZoneMembershipClassification || c.Name == repository.TemplateClassification {
			continue
		}
		classifications = append(classifications, repository.Classification{Name: c.Name, Properties: c.Properties.Clone()})
	}
	classifications = append(classifications, zoneClassification(h.defaultZones)...)

	process, err := h.repo.CreateEntity(ctx, userID, template.Type.TypeName, props, classifications, template.Status, home)
	if err != nil {
		return "", h.repositoryError(err, template.Type.TypeName, "", "templateGUID", methodName)
	}
	if err := h.maintainCorrelation(ctx, userID, process.GUID, process.Type.TypeName, correlation, methodName); err != nil {
		h.discard(ctx, process.GUID, process.Type.TypeName, methodName)
		return "", err
	}
	h.publishEntity(ctx, outtopic.NewElementCreated, process, "")
	return process.GUID, nil
}

// UpdateProcess changes the properties of a process. A merge update changes only the
// supplied properties; otherwise the supplied properties replace the stored ones.
func (h *ProcessExchangeHandler) UpdateProcess(ctx context.Context, userID string,
	correlation *properties.MetadataCorrelationProperties, processGUID string, isMergeUpdate bool,
	processProperties *properties.ProcessProperties, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if err := h.validateProcessProperties(processProperties, !isMergeUpdate, methodName); err != nil {
		return err
	}
	process, err := h.getEntity(ctx, processGUID, repository.ProcessType, "processGUID", methodName)
	if err != nil {
		return err
	}
	amGUID, _ := correlationIdentifiers(correlation)
	if err := h.checkHome(process.InstanceHeader, amGUID, methodName); err != nil {
		return err
	}
	if processProperties.QualifiedName != "" {
		defer qualifiedNames.lock(processProperties.QualifiedName)()
		if err := h.checkUniqueQualifiedName(ctx, processProperties.QualifiedName, processGUID, methodName); err != nil {
			return err
		}
	}

	props := processInstanceProperties(processProperties)
	if isMergeUpdate && process.Properties != nil {
		process.Properties.Merge(props)
	} else {
		process.Properties = props
	}
	if err := h.repo.UpdateEntity(ctx, userID, process); err != nil {
		return h.repositoryError(err, repository.ProcessType, processGUID, "processGUID", methodName)
	}
	if err := h.maintainCorrelation(ctx, userID, processGUID, process.Type.TypeName, correlation, methodName); err != nil {
		return err
	}
	h.publishEntity(ctx, outtopic.ElementUpdated, process, "")
	return nil
}

// UpdateProcessStatus changes the lifecycle status of a process.
func (h *ProcessExchangeHandler) UpdateProcessStatus(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	processGUID string, processStatus properties.ProcessStatus, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if processStatus == properties.ProcessStatusUnknown {
		return errors.InvalidParameter(errors.InvalidEnumValue, methodName, "processStatus",
			string(processStatus), "processStatus", methodName)
	}
	process, err := h.getEntity(ctx, processGUID, repository.ProcessType, "processGUID", methodName)
	if err != nil {
		return err
	}
	if err := h.checkHome(process.InstanceHeader, assetManagerGUID, methodName); err != nil {
		return err
	}
	process, err = h.repo.UpdateEntityStatus(ctx, userID, processGUID, repository.ProcessType, processStatus.InstanceStatus())
	if err != nil {
		return h.repositoryError(err, repository.ProcessType, processGUID, "processGUID", methodName)
	}
	h.publishEntity(ctx, outtopic.ElementUpdated, process, "")
	return nil
}

// SetupProcessParent links a child process to its parent. A child has one parent, so an
// existing link to a different parent is replaced; an existing link to the same parent
// has its containment type updated.
func (h *ProcessExchangeHandler) SetupProcessParent(ctx context.Context, userID, assetManagerGUID, assetManagerName string,
	assetManagerIsHome bool, parentProcessGUID, childProcessGUID string,
	containmentType properties.ProcessContainmentType, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, parentProcessGUID, repository.ProcessType, "parentProcessGUID", methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, childProcessGUID, repository.ProcessType, "childProcessGUID", methodName); err != nil {
		return err
	}
	if err := h.checkNotSelf(repository.ProcessHierarchyRelationship, parentProcessGUID, childProcessGUID,
		"childProcessGUID", methodName); err != nil {
		return err
	}
	home, err := h.assetManagerHome(ctx, assetManagerGUID, assetManagerName, assetManagerIsHome, methodName)
	if err != nil {
		return err
	}
	if containmentType == "" {
		containmentType = properties.ProcessContainmentOwned
	}
	props := repository.InstanceProperties{}.Set(converters.ContainmentTypeProperty, string(containmentType))

	parents, err := h.repo.GetRelationships(ctx, childProcessGUID, repository.ProcessHierarchyRelationship, repository.EndTwo)
	if err != nil {
		return h.repositoryError(err, repository.ProcessType, childProcessGUID, "childProcessGUID", methodName)
	}
	for _, r := range parents {
		if r.End1.GUID == parentProcessGUID {
			if err := h.checkHome(r.InstanceHeader, assetManagerGUID, methodName); err != nil {
				return err
			}
			updated, err := h.repo.UpdateRelationshipProperties(ctx, userID, r.GUID, repository.ProcessHierarchyRelationship, props, false)
			if err != nil {
				return h.repositoryError(err, repository.ProcessHierarchyRelationship, r.GUID, "parentProcessGUID", methodName)
			}
			h.publishRelationship(ctx, outtopic.RelationshipUpdated, updated)
			return nil
		}
	}
	for _, r := range parents {
		if err := h.checkHome(r.InstanceHeader, assetManagerGUID, methodName); err != nil {
			return err
		}
		removed, err := h.repo.DeleteRelationship(ctx, r.GUID, repository.ProcessHierarchyRelationship)
		if err != nil {
			return h.repositoryError(err, repository.ProcessHierarchyRelationship, r.GUID, "childProcessGUID", methodName)
		}
		h.publishRelationship(ctx, outtopic.RelationshipDeleted, removed)
	}

	r, err := h.repo.CreateRelationship(ctx, userID, repository.ProcessHierarchyRelationship,
		parentProcessGUID, childProcessGUID, props, home)
	if err != nil {
		return h.repositoryError(err, repository.ProcessType, childProcessGUID, "childProcessGUID", methodName)
	}
	h.publishRelationship(ctx, outtopic.NewRelationship, r)
	return nil
}

// ClearProcessParent removes the link between a parent and a child process. Clearing a
// link that does not exist is not an error.
func (h *ProcessExchangeHandler) ClearProcessParent(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	parentProcessGUID, childProcessGUID, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, parentProcessGUID, repository.ProcessType, "parentProcessGUID", methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, childProcessGUID, repository.ProcessType, "childProcessGUID", methodName); err != nil {
		return err
	}
	return h.unlink(ctx, assetManagerGUID, repository.ProcessHierarchyRelationship,
		parentProcessGUID, childProcessGUID, "childProcessGUID", methodName)
}

// unlink removes every relationship of typeName from end1GUID to end2GUID.
func (h *ProcessExchangeHandler) unlink(ctx context.Context, assetManagerGUID, typeName, end1GUID, end2GUID,
	parameterName, methodName string) error {
	rels, err := h.repo.GetRelationshipsBetween(ctx, typeName, end1GUID, end2GUID)
	if err != nil {
		return h.repositoryError(err, typeName, end1GUID, parameterName, methodName)
	}
	for _, r := range rels {
		if err := h.checkHome(r.InstanceHeader, assetManagerGUID, methodName); err != nil {
			return err
		}
	}
	for _, r := range rels {
		removed, err := h.repo.DeleteRelationship(ctx, r.GUID, typeName)
		if err != nil {
			return h.repositoryError(err, typeName, r.GUID, parameterName, methodName)
		}
		h.publishRelationship(ctx, outtopic.RelationshipDeleted, removed)
	}
	return nil
}

// PublishProcess moves a process into the published zones so that consumers can see it.
func (h *ProcessExchangeHandler) PublishProcess(ctx context.Context, userID, processGUID, methodName string) error {
	return h.changeZones(ctx, userID, processGUID, h.publishedZones, methodName)
}

// WithdrawProcess returns a process to the default zones.
func (h *ProcessExchangeHandler) WithdrawProcess(ctx context.Context, userID, processGUID, methodName string) error {
	return h.changeZones(ctx, userID, processGUID, h.defaultZones, methodName)
}

func (h *ProcessExchangeHandler) changeZones(ctx context.Context, userID, processGUID string, zones []string, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if _, err := h.getEntity(ctx, processGUID, repository.ProcessType, "processGUID", methodName); err != nil {
		return err
	}
	process, err := h.setZones(ctx, userID, processGUID, repository.ProcessType, zones, methodName)
	if err != nil {
		return err
	}
	eventType := outtopic.ElementClassified
	if len(zones) == 0 {
		eventType = outtopic.ElementDeclassified
	}
	h.publishEntity(ctx, eventType, process, repository.AssetZoneMembershipClassification)
	return nil
}

// RemoveProcess deletes a process together with its ports, its external identifiers and
// every relationship attached to them.
func (h *ProcessExchangeHandler) RemoveProcess(ctx context.Context, userID string,
	correlation *properties.MetadataCorrelationProperties, processGUID, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	process, err := h.getEntity(ctx, processGUID, repository.ProcessType, "processGUID", methodName)
	if err != nil {
		return err
	}
	amGUID, _ := correlationIdentifiers(correlation)
	if err := h.checkHome(process.InstanceHeader, amGUID, methodName); err != nil {
		return err
	}
	ports, _, err := h.repo.GetRelatedEntities(ctx, processGUID, repository.ProcessPortRelationship, repository.EndOne)
	if err != nil {
		return h.repositoryError(err, repository.ProcessType, processGUID, "processGUID", methodName)
	}
	for _, port := range ports {
		if err := h.removeElement(ctx, port.GUID, repository.PortType, "processGUID", methodName); err != nil {
			return err
		}
	}
	return h.removeElement(ctx, processGUID, repository.ProcessType, "processGUID", methodName)
}

// removeElement deletes an entity, its external identifiers and its relationships.
func (h *ProcessExchangeHandler) removeElement(ctx context.Context, guid, typeName, parameterName, methodName string) error {
	if err := h.removeExternalIDs(ctx, guid, methodName); err != nil {
		return err
	}
	removed, rels, err := h.repo.DeleteEntity(ctx, guid, typeName)
	if err != nil {
		return h.repositoryError(err, typeName, guid, parameterName, methodName)
	}
	for _, r := range rels {
		h.publishRelationship(ctx, outtopic.RelationshipDeleted, r)
	}
	h.publishEntity(ctx, outtopic.ElementDeleted, removed, "")
	return nil
}

// FindProcesses returns the processes whose qualified name, name, display name or
// description matches the regular expression searchString.
func (h *ProcessExchangeHandler) FindProcesses(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	searchString, searchStringParameterName string, startFrom, pageSize int,
	methodName string) ([]*elements.ProcessElement, error) {
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
	found, err := h.repo.FindEntities(ctx, repository.ProcessType, matchAny(re,
		repository.QualifiedNameProperty, repository.NameProperty, repository.DisplayNameProperty, repository.DescriptionProperty))
	if err != nil {
		return nil, h.repositoryError(err, repository.ProcessType, "", "searchString", methodName)
	}
	return h.processElements(ctx, repository.Page(found, startFrom, size), assetManagerGUID, methodName)
}

// GetProcessesForAssetManager returns the processes correlated with, or homed in, the
// asset manager.
func (h *ProcessExchangeHandler) GetProcessesForAssetManager(ctx context.Context, userID, assetManagerGUID,
	assetManagerName string, startFrom, pageSize int, methodName string) ([]*elements.ProcessElement, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return nil, err
	}
	if err := h.invalid.ValidateGUID(assetManagerGUID, "assetManagerGUID", methodName); err != nil {
		return nil, err
	}
	size, err := h.invalid.ValidatePaging(startFrom, pageSize, methodName)
	if err != nil {
		return nil, err
	}
	correlated, err := h.elementsForAssetManager(ctx, assetManagerGUID)
	if err != nil {
		return nil, h.repositoryError(err, repository.SoftwareCapabilityType, assetManagerGUID, "assetManagerGUID", methodName)
	}
	found, err := h.repo.FindEntities(ctx, repository.ProcessType, func(e *repository.EntityDetail) bool {
		return correlated[e.GUID] || e.MetadataCollectionID == assetManagerGUID
	})
	if err != nil {
		return nil, h.repositoryError(err, repository.ProcessType, "", "assetManagerGUID", methodName)
	}
	return h.processElements(ctx, repository.Page(found, startFrom, size), assetManagerGUID, methodName)
}

// GetProcessesByName returns the processes whose qualified name, name or display name
// equals name.
func (h *ProcessExchangeHandler) GetProcessesByName(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	name, nameParameterName string, startFrom, pageSize int, methodName string) ([]*elements.ProcessElement, error) {
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
	found, err := h.repo.FindEntitiesByName(ctx, repository.ProcessType, name,
		repository.QualifiedNameProperty, repository.NameProperty, repository.DisplayNameProperty)
	if err != nil {
		return nil, h.repositoryError(err, repository.ProcessType, "", nameParameterName, methodName)
	}
	return h.processElements(ctx, repository.Page(found, startFrom, size), assetManagerGUID, methodName)
}

// GetProcessByGUID returns a process.
func (h *ProcessExchangeHandler) GetProcessByGUID(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	processGUID, methodName string) (*elements.ProcessElement, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return nil, err
	}
	process, err := h.getEntity(ctx, processGUID, repository.ProcessType, "processGUID", methodName)
	if err != nil {
		return nil, err
	}
	return h.processElement(ctx, process, nil, assetManagerGUID, methodName)
}

// GetProcessParent returns the parent of a process, or nil when it has none.
func (h *ProcessExchangeHandler) GetProcessParent(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	processGUID, methodName string) (*elements.ProcessElement, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return nil, err
	}
	if _, err := h.getEntity(ctx, processGUID, repository.ProcessType, "processGUID", methodName); err != nil {
		return nil, err
	}
	parents, rels, err := h.repo.GetRelatedEntities(ctx, processGUID, repository.ProcessHierarchyRelationship, repository.EndTwo)
	if err != nil {
		return nil, h.repositoryError(err, repository.ProcessType, processGUID, "processGUID", methodName)
	}
	if len(parents) == 0 {
		return nil, nil
	}
	return h.processElement(ctx, parents[0], rels[0], assetManagerGUID, methodName)
}

// GetSubProcesses returns the children of a process.
func (h *ProcessExchangeHandler) GetSubProcesses(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	processGUID string, startFrom, pageSize int, methodName string) ([]*elements.ProcessElement, error) {
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
	children, rels, err := h.repo.GetRelatedEntities(ctx, processGUID, repository.ProcessHierarchyRelationship, repository.EndOne)
	if err != nil {
		return nil, h.repositoryError(err, repository.ProcessType, processGUID, "processGUID", methodName)
	}
	children = repository.Page(children, startFrom, size)
	rels = repository.Page(rels, startFrom, size)

	out := make([]*elements.ProcessElement, 0, len(children))
	for i, child := range children {
		el, err := h.processElement(ctx, child, rels[i], assetManagerGUID, methodName)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func (h *ProcessExchangeHandler) processElement(ctx context.Context, e *repository.EntityDetail, r *repository.Relationship,
	assetManagerGUID, methodName string) (*elements.ProcessElement, error) {
	correlation, err := h.correlationHeaders(ctx, e.GUID, assetManagerGUID)
	if err != nil {
		return nil, h.repositoryError(err, repository.ProcessType, e.GUID, "processGUID", methodName)
	}
	return h.converter.RelatedProcessElement(e, r, correlation, methodName)
}

func (h *ProcessExchangeHandler) processElements(ctx context.Context, found []*repository.EntityDetail,
	assetManagerGUID, methodName string) ([]*elements.ProcessElement, error) {
	out := make([]*elements.ProcessElement, 0, len(found))
	for _, e := range found {
		el, err := h.processElement(ctx, e, nil, assetManagerGUID, methodName)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// matchAny accepts entities where any of the named string properties matches re.
func matchAny(re *regexp.Regexp, propertyNames ...string) func(*repository.EntityDetail) bool {
	return func(e *repository.EntityDetail) bool {
		for _, name := range propertyNames {
			if v := e.Properties.GetString(name); v != "" && re.MatchString(v) {
				return true
			}
		}
		return false
	}
}

func correlationIdentifiers(correlation *properties.MetadataCorrelationProperties) (string, string) {
	if correlation == nil {
		return "", ""
	}
	return correlation.AssetManagerGUID, correlation.AssetManagerName
}
