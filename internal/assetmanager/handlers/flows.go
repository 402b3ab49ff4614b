package handlers

import (
	"context"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/converters"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
)

func dataFlowInstanceProperties(p *properties.DataFlowProperties) repository.InstanceProperties {
	if p == nil {
		return repository.InstanceProperties{}
	}
	return flowInstanceProperties(p.QualifiedName, p.Description, converters.FormulaProperty, p.Formula)
}

func controlFlowInstanceProperties(p *properties.ControlFlowProperties) repository.InstanceProperties {
	if p == nil {
		return repository.InstanceProperties{}
	}
	return flowInstanceProperties(p.QualifiedName, p.Description, converters.GuardProperty, p.Guard)
}

func processCallInstanceProperties(p *properties.ProcessCallProperties) repository.InstanceProperties {
	if p == nil {
		return repository.InstanceProperties{}
	}
	return flowInstanceProperties(p.QualifiedName, p.Description, converters.FormulaProperty, p.Formula)
}

// SetupDataFlow records that data moves from the supplier to the consumer.
func (h *ProcessExchangeHandler) SetupDataFlow(ctx context.Context, userID, assetManagerGUID, assetManagerName string,
	assetManagerIsHome bool, dataSupplierGUID, dataConsumerGUID string, flow *properties.DataFlowProperties,
	methodName string) (string, error) {
	if flow != nil {
		if err := h.validateTexts(methodName, "qualifiedName", flow.QualifiedName, "description", flow.Description); err != nil {
			return "", err
		}
	}
	r, err := h.setupLineage(ctx, userID, assetManagerGUID, assetManagerName, assetManagerIsHome, dataFlowType,
		dataSupplierGUID, dataConsumerGUID, dataFlowInstanceProperties(flow), methodName)
	if err != nil {
		return "", err
	}
	return r.GUID, nil
}

// GetDataFlow returns the data flow between two elements, or nil.
func (h *ProcessExchangeHandler) GetDataFlow(ctx context.Context, userID, dataSupplierGUID, dataConsumerGUID,
	qualifiedName, methodName string) (*elements.DataFlowElement, error) {
	link, err := h.getLineage(ctx, userID, dataFlowType, dataSupplierGUID, dataConsumerGUID, qualifiedName, methodName)
	if err != nil || link == nil {
		return nil, err
	}
	return h.converter.DataFlowElement(link.relationship, link.end1, link.end2, methodName)
}

// UpdateDataFlow replaces the properties of a data flow.
func (h *ProcessExchangeHandler) UpdateDataFlow(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	dataFlowGUID string, flow *properties.DataFlowProperties, methodName string) error {
	if flow != nil {
		if err := h.validateTexts(methodName, "qualifiedName", flow.QualifiedName, "description", flow.Description); err != nil {
			return err
		}
	}
	return h.updateLineage(ctx, userID, assetManagerGUID, dataFlowType, dataFlowGUID, dataFlowInstanceProperties(flow), methodName)
}

// ClearDataFlow removes a data flow.
func (h *ProcessExchangeHandler) ClearDataFlow(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	dataFlowGUID, methodName string) error {
	return h.clearLineage(ctx, userID, assetManagerGUID, dataFlowType, dataFlowGUID, methodName)
}

// GetDataFlowConsumers returns the data flows leaving dataSupplierGUID.
func (h *ProcessExchangeHandler) GetDataFlowConsumers(ctx context.Context, userID, dataSupplierGUID,
	methodName string) ([]*elements.DataFlowElement, error) {
	links, err := h.relatedLineage(ctx, userID, dataFlowType, dataSupplierGUID, repository.EndOne, methodName)
	if err != nil {
		return nil, err
	}
	return h.dataFlowElements(links, methodName)
}

// GetDataFlowSuppliers returns the data flows arriving at dataConsumerGUID.
func (h *ProcessExchangeHandler) GetDataFlowSuppliers(ctx context.Context, userID, dataConsumerGUID,
	methodName string) ([]*elements.DataFlowElement, error) {
	links, err := h.relatedLineage(ctx, userID, dataFlowType, dataConsumerGUID, repository.EndTwo, methodName)
	if err != nil {
		return nil, err
	}
	return h.dataFlowElements(links, methodName)
}

func (h *ProcessExchangeHandler) dataFlowElements(links []*lineageLink, methodName string) ([]*elements.DataFlowElement, error) {
	out := make([]*elements.DataFlowElement, 0, len(links))
	for _, l := range links {
		el, err := h.converter.DataFlowElement(l.relationship, l.end1, l.end2, methodName)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// SetupControlFlow records that control passes from the current step to the next step.
func (h *ProcessExchangeHandler) SetupControlFlow(ctx context.Context, userID, assetManagerGUID, assetManagerName string,
	assetManagerIsHome bool, currentStepGUID, nextStepGUID string, flow *properties.ControlFlowProperties,
	methodName string) (string, error) {
	if flow != nil {
		if err := h.validateTexts(methodName, "qualifiedName", flow.QualifiedName, "description", flow.Description); err != nil {
			return "", err
		}
	}
	r, err := h.setupLineage(ctx, userID, assetManagerGUID, assetManagerName, assetManagerIsHome, controlFlowType,
		currentStepGUID, nextStepGUID, controlFlowInstanceProperties(flow), methodName)
	if err != nil {
		return "", err
	}
	return r.GUID, nil
}

// GetControlFlow returns the control flow between two steps, or nil.
func (h *ProcessExchangeHandler) GetControlFlow(ctx context.Context, userID, currentStepGUID, nextStepGUID,
	qualifiedName, methodName string) (*elements.ControlFlowElement, error) {
	link, err := h.getLineage(ctx, userID, controlFlowType, currentStepGUID, nextStepGUID, qualifiedName, methodName)
	if err != nil || link == nil {
		return nil, err
	}
	return h.converter.ControlFlowElement(link.relationship, link.end1, link.end2, methodName)
}

// UpdateControlFlow replaces the properties of a control flow.
func (h *ProcessExchangeHandler) UpdateControlFlow(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	controlFlowGUID string, flow *properties.ControlFlowProperties, methodName string) error {
	if flow != nil {
		if err := h.validateTexts(methodName, "qualifiedName", flow.QualifiedName, "description", flow.Description); err != nil {
			return err
		}
	}
	return h.updateLineage(ctx, userID, assetManagerGUID, controlFlowType, controlFlowGUID,
		controlFlowInstanceProperties(flow), methodName)
}

// ClearControlFlow removes a control flow.
func (h *ProcessExchangeHandler) ClearControlFlow(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	controlFlowGUID, methodName string) error {
	return h.clearLineage(ctx, userID, assetManagerGUID, controlFlowType, controlFlowGUID, methodName)
}

// GetControlFlowNextSteps returns the control flows leaving currentStepGUID.
func (h *ProcessExchangeHandler) GetControlFlowNextSteps(ctx context.Context, userID, currentStepGUID,
	methodName string) ([]*elements.ControlFlowElement, error) {
	links, err := h.relatedLineage(ctx, userID, controlFlowType, currentStepGUID, repository.EndOne, methodName)
	if err != nil {
		return nil, err
	}
	return h.controlFlowElements(links, methodName)
}

// GetControlFlowPreviousSteps returns the control flows arriving at currentStepGUID.
func (h *ProcessExchangeHandler) GetControlFlowPreviousSteps(ctx context.Context, userID, currentStepGUID,
	methodName string) ([]*elements.ControlFlowElement, error) {
	links, err := h.relatedLineage(ctx, userID, controlFlowType, currentStepGUID, repository.EndTwo, methodName)
	if err != nil {
		return nil, err
	}
	return h.controlFlowElements(links, methodName)
}

func (h *ProcessExchangeHandler) controlFlowElements(links []*lineageLink, methodName string) ([]*elements.ControlFlowElement, error) {
	out := make([]*elements.ControlFlowElement, 0, len(links))
	for _, l := range links {
		el, err := h.converter.ControlFlowElement(l.relationship, l.end1, l.end2, methodName)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// SetupProcessCall records that the caller invokes the called element.
func (h *ProcessExchangeHandler) SetupProcessCall(ctx context.Context, userID, assetManagerGUID, assetManagerName string,
	assetManagerIsHome bool, callerGUID, calledGUID string, call *properties.ProcessCallProperties,
	methodName string) (string, error) {
	if call != nil {
		if err := h.validateTexts(methodName, "qualifiedName", call.QualifiedName, "description", call.Description); err != nil {
			return "", err
		}
	}
	r, err := h.setupLineage(ctx, userID, assetManagerGUID, assetManagerName, assetManagerIsHome, processCallType,
		callerGUID, calledGUID, processCallInstanceProperties(call), methodName)
	if err != nil {
		return "", err
	}
	return r.GUID, nil
}

// GetProcessCall returns the process call between two elements, or nil.
func (h *ProcessExchangeHandler) GetProcessCall(ctx context.Context, userID, callerGUID, calledGUID,
	qualifiedName, methodName string) (*elements.ProcessCallElement, error) {
	link, err := h.getLineage(ctx, userID, processCallType, callerGUID, calledGUID, qualifiedName, methodName)
	if err != nil || link == nil {
		return nil, err
	}
	return h.converter.ProcessCallElement(link.relationship, link.end1, link.end2, methodName)
}

// UpdateProcessCall replaces the properties of a process call.
func (h *ProcessExchangeHandler) UpdateProcessCall(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	processCallGUID string, call *properties.ProcessCallProperties, methodName string) error {
	if call != nil {
		if err := h.validateTexts(methodName, "qualifiedName", call.QualifiedName, "description", call.Description); err != nil {
			return err
		}
	}
	return h.updateLineage(ctx, userID, assetManagerGUID, processCallType, processCallGUID,
		processCallInstanceProperties(call), methodName)
}

// ClearProcessCall removes a process call.
func (h *ProcessExchangeHandler) ClearProcessCall(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	processCallGUID, methodName string) error {
	return h.clearLineage(ctx, userID, assetManagerGUID, processCallType, processCallGUID, methodName)
}

// GetProcessCalled returns the calls made by callerGUID.
func (h *ProcessExchangeHandler) GetProcessCalled(ctx context.Context, userID, callerGUID,
	methodName string) ([]*elements.ProcessCallElement, error) {
	links, err := h.relatedLineage(ctx, userID, processCallType, callerGUID, repository.EndOne, methodName)
	if err != nil {
		return nil, err
	}
	return h.processCallElements(links, methodName)
}

// GetProcessCallers returns the calls made to calledGUID.
func (h *ProcessExchangeHandler) GetProcessCallers(ctx context.Context, userID, calledGUID,
	methodName string) ([]*elements.ProcessCallElement, error) {
	links, err := h.relatedLineage(ctx, userID, processCallType, calledGUID, repository.EndTwo, methodName)
	if err != nil {
		return nil, err
	}
	return h.processCallElements(links, methodName)
}

func (h *ProcessExchangeHandler) processCallElements(links []*lineageLink, methodName string) ([]*elements.ProcessCallElement, error) {
	out := make([]*elements.ProcessCallElement, 0, len(links))
	for _, l := range links {
		el, err := h.converter.ProcessCallElement(l.relationship, l.end1, l.end2, methodName)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// SetupLineageMapping links two elements that represent the same data or processing at
// different levels of detail. Setting up an existing mapping is harmless.
func (h *ProcessExchangeHandler) SetupLineageMapping(ctx context.Context, userID, assetManagerGUID, assetManagerName string,
	sourceElementGUID, destinationElementGUID, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if err := h.lineageEnds(ctx, lineageMappingType, sourceElementGUID, destinationElementGUID, methodName); err != nil {
		return err
	}
	_, err := h.link(ctx, userID, assetManagerGUID, assetManagerName, false, repository.LineageMappingRelationship,
		sourceElementGUID, destinationElementGUID, nil, lineageMappingType.end2Param, methodName)
	return err
}

// ClearLineageMapping removes the mapping between two elements.
func (h *ProcessExchangeHandler) ClearLineageMapping(ctx context.Context, userID, assetManagerGUID, assetManagerName,
	sourceElementGUID, destinationElementGUID, methodName string) error {
	if err := h.invalid.ValidateUserID(userID, methodName); err != nil {
		return err
	}
	if err := h.lineageEnds(ctx, lineageMappingType, sourceElementGUID, destinationElementGUID, methodName); err != nil {
		return err
	}
	return h.unlink(ctx, assetManagerGUID, repository.LineageMappingRelationship,
		sourceElementGUID, destinationElementGUID, lineageMappingType.end2Param, methodName)
}

// GetDestinationLineageMappings returns the mappings from sourceElementGUID.
func (h *ProcessExchangeHandler) GetDestinationLineageMappings(ctx context.Context, userID, sourceElementGUID,
	methodName string) ([]*elements.LineageMappingElement, error) {
	links, err := h.relatedLineage(ctx, userID, lineageMappingType, sourceElementGUID, repository.EndOne, methodName)
	if err != nil {
		return nil, err
	}
	return h.lineageMappingElements(links, methodName)
}

// GetSourceLineageMappings returns the mappings into destinationElementGUID.
func (h *ProcessExchangeHandler) GetSourceLineageMappings(ctx context.Context, userID, destinationElementGUID,
	methodName string) ([]*elements.LineageMappingElement, error) {
	links, err := h.relatedLineage(ctx, userID, lineageMappingType, destinationElementGUID, repository.EndTwo, methodName)
	if err != nil {
		return nil, err
	}
	return h.lineageMappingElements(links, methodName)
}

func (h *ProcessExchangeHandler) lineageMappingElements(links []*lineageLink, methodName string) ([]*elements.LineageMappingElement, error) {
	out := make([]*elements.LineageMappingElement, 0, len(links))
	for _, l := range links {
		el, err := h.converter.LineageMappingElement(l.relationship, l.end1, l.end2, methodName)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}
