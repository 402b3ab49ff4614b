package converters

import (
	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
)

// ValidValueElement builds a valid value definition bean.
func (c *Converter) ValidValueElement(e *repository.EntityDetail, methodName string) (*elements.ValidValueElement, error) {
	if e == nil {
		return nil, c.missing("entity", "ValidValueElement", methodName)
	}
	props := e.Properties.Clone()
	if props == nil {
		props = repository.InstanceProperties{}
	}
	vp := &properties.ValidValueProperties{
		ReferenceableProperties: properties.ReferenceableProperties{
			QualifiedName:        props.RemoveString(repository.QualifiedNameProperty),
			AdditionalProperties: props.RemoveStringMap(repository.AdditionalPropertiesProperty),
			TypeName:             e.Type.TypeName,
		},
		DisplayName:    props.RemoveString(repository.NameProperty),
		Description:    props.RemoveString(repository.DescriptionProperty),
		Usage:          props.RemoveString(UsageProperty),
		Scope:          props.RemoveString(ScopeProperty),
		PreferredValue: props.RemoveString(PreferredValueProperty),
		IsDeprecated:   props.RemoveBool(IsDeprecatedProperty),
	}
	if vp.DisplayName == "" {
		vp.DisplayName = props.RemoveString(repository.DisplayNameProperty)
	}
	vp.ExtendedProperties = extended(props)
	return &elements.ValidValueElement{ElementHeader: c.ElementHeader(e), ValidValueProperties: vp}, nil
}

// ValidValueAssignmentDefinition builds the definition bean for a valid value reached through
// a ValidValuesAssignment relationship. The relationship supplies strictRequirement and must
// be present.
func (c *Converter) ValidValueAssignmentDefinition(e *repository.EntityDetail, r *repository.Relationship,
	methodName string) (*elements.ValidValueAssignmentDefinitionElement, error) {
	definition, err := c.ValidValueElement(e, methodName)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, c.missing("relationship", "ValidValueAssignmentDefinitionElement", methodName)
	}
	return &elements.ValidValueAssignmentDefinitionElement{
		ValidValueElement: definition,
		StrictRequirement: r.Properties.GetBool(StrictRequirementProperty),
	}, nil
}
