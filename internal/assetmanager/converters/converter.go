// Package converters turns repository entities and relationships into the element beans
// returned by the asset manager service.
package converters

import (
	"maps"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

// Property names shared by the lineage types.
const (
	VersionIdentifierProperty      = "versionIdentifier"
	FormulaProperty                = "formula"
	FormulaTypeProperty            = "formulaType"
	ImplementationLanguageProperty = "implementationLanguage"
	IdentifierProperty             = "identifier"
	PortTypeProperty               = "portType"
	GuardProperty                  = "guard"
	ContainmentTypeProperty        = "containmentType"
	UsageProperty                  = "usage"
	ScopeProperty                  = "scope"
	PreferredValueProperty         = "preferredValue"
	IsDeprecatedProperty           = "isDeprecated"
	StrictRequirementProperty      = "strictRequirement"
)

// Converter builds beans for one server.
type Converter struct {
	serviceName       string
	serverName        string
	localCollectionID string
}

// New creates a converter. Elements homed in localCollectionID are reported as local.
func New(serviceName, serverName, localCollectionID string) *Converter {
	return &Converter{serviceName: serviceName, serverName: serverName, localCollectionID: localCollectionID}
}

func (c *Converter) missing(instanceType, beanName, methodName string) error {
	return errors.PropertyServer(errors.MissingMetadataInstance, methodName, nil, instanceType, beanName, methodName).
		From(c.serviceName)
}

// ElementHeader builds the header of an entity.
func (c *Converter) ElementHeader(e *repository.EntityDetail) elements.ElementHeader {
	h := c.header(e.InstanceHeader)
	for _, cl := range e.Classifications {
		h.Classifications = append(h.Classifications, elements.ElementClassification{
			Name:       cl.Name,
			Properties: maps.Clone(map[string]any(cl.Properties)),
		})
	}
	return h
}

// RelationshipHeader builds the header of a relationship.
func (c *Converter) RelationshipHeader(r *repository.Relationship) elements.ElementHeader {
	return c.header(r.InstanceHeader)
}

func (c *Converter) header(ih repository.InstanceHeader) elements.ElementHeader {
	origin := elements.OriginLocalCohort
	if ih.MetadataCollectionID != "" && ih.MetadataCollectionID != c.localCollectionID {
		origin = elements.OriginExternalSource
	}
	superTypes := ih.Type.SuperTypeNames
	if superTypes == nil {
		superTypes = repository.SuperTypes(ih.Type.TypeName)
	}
	return elements.ElementHeader{
		GUID: ih.GUID,
		Type: elements.ElementType{
			TypeName:       ih.Type.TypeName,
			SuperTypeNames: append([]string(nil), superTypes...),
		},
		Origin: elements.ElementOrigin{
			OriginCategory:             origin,
			HomeMetadataCollectionID:   ih.MetadataCollectionID,
			HomeMetadataCollectionName: ih.MetadataCollectionName,
		},
		Versions: elements.ElementVersions{
			CreatedBy:  ih.CreatedBy,
			UpdatedBy:  ih.UpdatedBy,
			CreateTime: ih.CreateTime,
			UpdateTime: ih.UpdateTime,
			Version:    ih.Version,
		},
		Status: ih.Status.String(),
	}
}

// ElementStub describes the entity at one end of a relationship. When the entity itself is
// not available the stub is built from the proxy.
func (c *Converter) ElementStub(proxy repository.EntityProxy, entity *repository.EntityDetail) elements.ElementStub {
	if entity == nil {
		return elements.ElementStub{ElementHeader: elements.ElementHeader{
			GUID: proxy.GUID,
			Type: elements.ElementType{TypeName: proxy.TypeName, SuperTypeNames: repository.SuperTypes(proxy.TypeName)},
		}}
	}
	return elements.ElementStub{
		ElementHeader: c.ElementHeader(entity),
		UniqueName:    entity.Properties.GetString(repository.QualifiedNameProperty),
	}
}

// extended returns what is left of a property set once the known properties were removed.
func extended(props repository.InstanceProperties) map[string]any {
	if len(props) == 0 {
		return nil
	}
	return map[string]any(props)
}
