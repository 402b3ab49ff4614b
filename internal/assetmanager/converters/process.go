package converters

import (
	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
)

// ProcessElement builds a process bean.
func (c *Converter) ProcessElement(e *repository.EntityDetail, correlation []elements.MetadataCorrelationHeader,
	methodName string) (*elements.ProcessElement, error) {
	if e == nil {
		return nil, c.missing("entity", "ProcessElement", methodName)
	}
	props := e.Properties.Clone()
	if props == nil {
		props = repository.InstanceProperties{}
	}
	pp := &properties.ProcessProperties{
		ReferenceableProperties: properties.ReferenceableProperties{
			QualifiedName:        props.RemoveString(repository.QualifiedNameProperty),
			AdditionalProperties: props.RemoveStringMap(repository.AdditionalPropertiesProperty),
			TypeName:             e.Type.TypeName,
		},
		Name:                   props.RemoveString(repository.NameProperty),
		VersionIdentifier:      props.RemoveString(VersionIdentifierProperty),
		DisplayName:            props.RemoveString(repository.DisplayNameProperty),
		Description:            props.RemoveString(repository.DescriptionProperty),
		Formula:                props.RemoveString(FormulaProperty),
		FormulaType:            props.RemoveString(FormulaTypeProperty),
		ImplementationLanguage: props.RemoveString(ImplementationLanguageProperty),
	}
	props.RemoveStringArray(repository.ZoneMembershipProperty)
	pp.ExtendedProperties = extended(props)

	return &elements.ProcessElement{
		ElementHeader:      c.ElementHeader(e),
		CorrelationHeaders: correlation,
		ProcessProperties:  pp,
	}, nil
}

// RelatedProcessElement builds a process bean reached through r.
func (c *Converter) RelatedProcessElement(e *repository.EntityDetail, r *repository.Relationship,
	correlation []elements.MetadataCorrelationHeader, methodName string) (*elements.ProcessElement, error) {
	el, err := c.ProcessElement(e, correlation, methodName)
	if err != nil {
		return nil, err
	}
	if r != nil {
		el.RelatedBy = &elements.RelatedBy{
			RelationshipHeader:     c.RelationshipHeader(r),
			RelationshipProperties: map[string]any(r.Properties.Clone()),
		}
	}
	return el, nil
}

// PortElement builds a port bean.
func (c *Converter) PortElement(e *repository.EntityDetail, correlation []elements.MetadataCorrelationHeader,
	methodName string) (*elements.PortElement, error) {
	if e == nil {
		return nil, c.missing("entity", "PortElement", methodName)
	}
	props := e.Properties.Clone()
	if props == nil {
		props = repository.InstanceProperties{}
	}
	pp := &properties.PortProperties{
		ReferenceableProperties: properties.ReferenceableProperties{
			QualifiedName:        props.RemoveString(repository.QualifiedNameProperty),
			AdditionalProperties: props.RemoveStringMap(repository.AdditionalPropertiesProperty),
			TypeName:             e.Type.TypeName,
		},
		DisplayName: props.RemoveString(repository.DisplayNameProperty),
		Identifier:  props.RemoveString(IdentifierProperty),
		PortType:    properties.PortType(props.RemoveString(PortTypeProperty)),
	}
	pp.ExtendedProperties = extended(props)

	return &elements.PortElement{
		ElementHeader:      c.ElementHeader(e),
		CorrelationHeaders: correlation,
		PortProperties:     pp,
	}, nil
}
