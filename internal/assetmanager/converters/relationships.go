package converters

import (
	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
)

// DataFlowElement builds a data flow bean. The end entities are optional.
func (c *Converter) DataFlowElement(r *repository.Relationship, supplier, consumer *repository.EntityDetail,
	methodName string) (*elements.DataFlowElement, error) {
	if r == nil {
		return nil, c.missing("relationship", "DataFlowElement", methodName)
	}
	return &elements.DataFlowElement{
		DataFlowHeader: c.RelationshipHeader(r),
		DataFlowProperties: &properties.DataFlowProperties{
			QualifiedName: r.Properties.GetString(repository.QualifiedNameProperty),
			Description:   r.Properties.GetString(repository.DescriptionProperty),
			Formula:       r.Properties.GetString(FormulaProperty),
		},
		DataSupplier: c.ElementStub(r.End1, supplier),
		DataConsumer: c.ElementStub(r.End2, consumer),
	}, nil
}

// ControlFlowElement builds a control flow bean.
func (c *Converter) ControlFlowElement(r *repository.Relationship, current, next *repository.EntityDetail,
	methodName string) (*elements.ControlFlowElement, error) {
	if r == nil {
		return nil, c.missing("relationship", "ControlFlowElement", methodName)
	}
	return &elements.ControlFlowElement{
		ControlFlowHeader: c.RelationshipHeader(r),
		ControlFlowProperties: &properties.ControlFlowProperties{
			QualifiedName: r.Properties.GetString(repository.QualifiedNameProperty),
			Description:   r.Properties.GetString(repository.DescriptionProperty),
			Guard:         r.Properties.GetString(GuardProperty),
		},
		CurrentStep: c.ElementStub(r.End1, current),
		NextStep:    c.ElementStub(r.End2, next),
	}, nil
}

// ProcessCallElement builds a process call bean.
func (c *Converter) ProcessCallElement(r *repository.Relationship, caller, called *repository.EntityDetail,
	methodName string) (*elements.ProcessCallElement, error) {
	if r == nil {
		return nil, c.missing("relationship", "ProcessCallElement", methodName)
	}
	return &elements.ProcessCallElement{
		ProcessCallHeader: c.RelationshipHeader(r),
		ProcessCallProperties: &properties.ProcessCallProperties{
			QualifiedName: r.Properties.GetString(repository.QualifiedNameProperty),
			Description:   r.Properties.GetString(repository.DescriptionProperty),
			Formula:       r.Properties.GetString(FormulaProperty),
		},
		Caller: c.ElementStub(r.End1, caller),
		Called: c.ElementStub(r.End2, called),
	}, nil
}

// LineageMappingElement builds a lineage mapping bean.
func (c *Converter) LineageMappingElement(r *repository.Relationship, source, target *repository.EntityDetail,
	methodName string) (*elements.LineageMappingElement, error) {
	if r == nil {
		return nil, c.missing("relationship", "LineageMappingElement", methodName)
	}
	return &elements.LineageMappingElement{
		LineageMappingHeader: c.RelationshipHeader(r),
		SourceElement:        c.ElementStub(r.End1, source),
		TargetElement:        c.ElementStub(r.End2, target),
	}, nil
}
