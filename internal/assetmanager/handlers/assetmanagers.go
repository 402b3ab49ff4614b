package handlers

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/outtopic"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
)

const (
	typeDescriptionProperty = "typeDescription"
	versionProperty         = "version"
	patchLevelProperty      = "patchLevel"
	sourceProperty          = "source"
	syncDatesByKeyProperty  = "syncDatesByKey"
)

// CreateAssetManager registers a third party technology so that it can correlate and
// master elements. Registering a qualified name twice returns the existing registration.
func (h *ProcessExchangeHandler) CreateAssetManager(ctx context.Context, userID string,
	am *properties.AssetManagerProperties, methodName string) (string, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return "", err
	}
	if err := h.invalid.ValidateObject(am, "assetManagerProperties", methodName); err != nil {
		return "", err
	}
	if err := h.invalid.ValidateName(am.QualifiedName, "qualifiedName", methodName); err != nil {
		return "", err
	}
	if err := h.validateTexts(methodName, "displayName", am.DisplayName, "description", am.Description); err != nil {
		return "", err
	}
	typeName, err := h.elementTypeName(am.TypeName, repository.SoftwareCapabilityType, methodName)
	if err != nil {
		return "", err
	}
	defer qualifiedNames.lock(am.QualifiedName)()
	existing, err := h.repo.FindEntitiesByName(ctx, repository.SoftwareCapabilityType, am.QualifiedName)
	if err != nil {
		return "", h.repositoryError(err, typeName, "", "qualifiedName", methodName)
	}
	if len(existing) > 0 {
		return existing[0].GUID, nil
	}
	if err := h.checkUniqueQualifiedName(ctx, am.QualifiedName, "", methodName); err != nil {
		return "", err
	}

	props := instanceProperties(am.ReferenceableProperties).
		Set(repository.DisplayNameProperty, am.DisplayName).
		Set(repository.DescriptionProperty, am.Description).
		Set(typeDescriptionProperty, am.TypeDescription).
		Set(versionProperty, am.Version).
		Set(patchLevelProperty, am.PatchLevel).
		Set(sourceProperty, am.Source)
	e, err := h.repo.CreateEntity(ctx, userID, typeName, props, nil, repository.StatusActive, nil)
	if err != nil {
		return "", h.repositoryError(err, typeName, "", "assetManagerProperties", methodName)
	}
	h.logger.Info("asset manager registered",
		zap.String("guid", e.GUID),
		zap.String("qualifiedName", am.QualifiedName))
	h.publishEntity(ctx, outtopic.NewElementCreated, e, "")
	return e.GUID, nil
}

// GetAssetManagerGUID returns the GUID of a registered asset manager, or "" when none
// carries qualifiedName.
func (h *ProcessExchangeHandler) GetAssetManagerGUID(ctx context.Context, userID, qualifiedName, methodName string) (string, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return "", err
	}
	if err := h.invalid.ValidateName(qualifiedName, "qualifiedName", methodName); err != nil {
		return "", err
	}
	found, err := h.repo.FindEntitiesByName(ctx, repository.SoftwareCapabilityType, qualifiedName)
	if err != nil {
		return "", h.repositoryError(err, repository.SoftwareCapabilityType, "", "qualifiedName", methodName)
	}
	if len(found) == 0 {
		return "", nil
	}
	return found[0].GUID, nil
}

// UpsertProcessingState merges the last synchronisation positions of an asset manager,
// keyed by whatever the asset manager uses to track its progress.
func (h *ProcessExchangeHandler) UpsertProcessingState(ctx context.Context, userID, assetManagerGUID string,
	syncDatesByKey map[string]int64, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	am, err := h.getEntity(ctx, assetManagerGUID, repository.SoftwareCapabilityType, "assetManagerGUID", methodName)
	if err != nil {
		return err
	}
	state := map[string]string{}
	if c := am.Classification(repository.ProcessingStateClassification); c != nil {
		for k, v := range c.Properties.GetStringMap(syncDatesByKeyProperty) {
			state[k] = v
		}
	}
	for k, v := range syncDatesByKey {
		state[k] = strconv.FormatInt(v, 10)
	}
	updated, err := h.repo.ClassifyEntity(ctx, userID, assetManagerGUID, repository.SoftwareCapabilityType,
		repository.ProcessingStateClassification, repository.InstanceProperties{}.Set(syncDatesByKeyProperty, state))
	if err != nil {
		return h.repositoryError(err, repository.SoftwareCapabilityType, assetManagerGUID, "assetManagerGUID", methodName)
	}
	h.publishEntity(ctx, outtopic.ElementClassified, updated, repository.ProcessingStateClassification)
	return nil
}

// GetProcessingState returns the synchronisation positions recorded for an asset manager.
func (h *ProcessExchangeHandler) GetProcessingState(ctx context.Context, userID, assetManagerGUID,
	methodName string) (map[string]int64, error) {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return nil, err
	}
	am, err := h.getEntity(ctx, assetManagerGUID, repository.SoftwareCapabilityType, "assetManagerGUID", methodName)
	if err != nil {
		return nil, err
	}
	out := map[string]int64{}
	c := am.Classification(repository.ProcessingStateClassification)
	if c == nil {
		return out, nil
	}
	for k, v := range c.Properties.GetStringMap(syncDatesByKeyProperty) {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[k] = n
	}
	return out, nil
}
