package handlers

import (
	"github.com/MihaiIliescu/egeria/internal/assetmanager/converters"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

// instanceProperties starts a property set from the extended properties so that the
// named properties always win.
func instanceProperties(p properties.ReferenceableProperties) repository.InstanceProperties {
	props := repository.InstanceProperties{}
	for k, v := range p.ExtendedProperties {
		props.Set(k, v)
	}
	return props.
		Set(repository.QualifiedNameProperty, p.QualifiedName).
		Set(repository.AdditionalPropertiesProperty, p.AdditionalProperties)
}

func processInstanceProperties(p *properties.ProcessProperties) repository.InstanceProperties {
	return instanceProperties(p.ReferenceableProperties).
		Set(repository.NameProperty, p.Name).
		Set(converters.VersionIdentifierProperty, p.VersionIdentifier).
		Set(repository.DisplayNameProperty, p.DisplayName).
		Set(repository.DescriptionProperty, p.Description).
		Set(converters.FormulaProperty, p.Formula).
		Set(converters.FormulaTypeProperty, p.FormulaType).
		Set(converters.ImplementationLanguageProperty, p.ImplementationLanguage)
}

func portInstanceProperties(p *properties.PortProperties) repository.InstanceProperties {
	return instanceProperties(p.ReferenceableProperties).
		Set(repository.DisplayNameProperty, p.DisplayName).
		Set(converters.IdentifierProperty, p.Identifier).
		Set(converters.PortTypeProperty, string(p.PortType))
}

func flowInstanceProperties(qualifiedName, description, name, value string) repository.InstanceProperties {
	return repository.InstanceProperties{}.
		Set(repository.QualifiedNameProperty, qualifiedName).
		Set(repository.DescriptionProperty, description).
		Set(name, value)
}

// elementTypeName resolves the type of a new element: the base type unless the caller
// names one of its subtypes.
func (h *ProcessExchangeHandler) elementTypeName(requested, baseType, methodName string) (string, error) {
	if requested == "" {
		return baseType, nil
	}
	if !repository.IsTypeOf(requested, baseType) {
		return "", errors.InvalidParameter(errors.WrongElementType, methodName, "typeName",
			"new element", methodName, requested, baseType)
	}
	return requested, nil
}

// validateTexts rejects markup in the free text values of a request.
func (h *ProcessExchangeHandler) validateTexts(methodName string, nameValues ...string) error {
	for i := 0; i+1 < len(nameValues); i += 2 {
		if err := h.invalid.ValidateText(nameValues[i+1], nameValues[i], methodName); err != nil {
			return err
		}
	}
	return nil
}
