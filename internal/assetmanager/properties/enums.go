// Package properties holds the property beans that callers of the asset manager service send
// and receive for lineage elements.
package properties

import "github.com/MihaiIliescu/egeria/internal/repository"

// ProcessStatus is the lifecycle status of a process.
type ProcessStatus string

const (
	ProcessStatusUnknown    ProcessStatus = "UNKNOWN"
	ProcessStatusDraft      ProcessStatus = "DRAFT"
	ProcessStatusProposed   ProcessStatus = "PROPOSED"
	ProcessStatusApproved   ProcessStatus = "APPROVED"
	ProcessStatusActive     ProcessStatus = "ACTIVE"
	ProcessStatusDisabled   ProcessStatus = "DISABLED"
	ProcessStatusDeprecated ProcessStatus = "DEPRECATED"
	ProcessStatusOther      ProcessStatus = "OTHER"
)

// InstanceStatus maps the process status onto the repository status.
func (s ProcessStatus) InstanceStatus() repository.InstanceStatus {
	if s == "" {
		return repository.StatusActive
	}
	return repository.ParseInstanceStatus(string(s))
}

// ProcessStatusOf maps a repository status back to a process status.
func ProcessStatusOf(status repository.InstanceStatus) ProcessStatus {
	switch status {
	case repository.StatusDraft:
		return ProcessStatusDraft
	case repository.StatusProposed:
		return ProcessStatusProposed
	case repository.StatusApproved:
		return ProcessStatusApproved
	case repository.StatusActive:
		return ProcessStatusActive
	case repository.StatusDisabled:
		return ProcessStatusDisabled
	case repository.StatusDeprecated:
		return ProcessStatusDeprecated
	case repository.StatusOther:
		return ProcessStatusOther
	default:
		return ProcessStatusUnknown
	}
}

// ProcessContainmentType describes how a parent process relates to a child.
type ProcessContainmentType string

const (
	ProcessContainmentOwned ProcessContainmentType = "OWNED"
	ProcessContainmentUsed  ProcessContainmentType = "USED"
	ProcessContainmentOther ProcessContainmentType = "OTHER"
)

// PortType describes the direction of data through a port.
type PortType string

const (
	PortTypeNotSpecified PortType = "NOT_SPECIFIED"
	PortTypeInput        PortType = "INPUT_PORT"
	PortTypeOutput       PortType = "OUTPUT_PORT"
	PortTypeInOut        PortType = "INOUT_PORT"
	PortTypeOutIn        PortType = "OUTIN_PORT"
	PortTypeOther        PortType = "OTHER"
)

// KeyPattern describes how an external identifier is managed by the third party.
type KeyPattern string

const (
	KeyPatternLocal     KeyPattern = "LOCAL_KEY"
	KeyPatternRecycled  KeyPattern = "RECYCLED_KEY"
	KeyPatternNatural   KeyPattern = "NATURAL_KEY"
	KeyPatternMirror    KeyPattern = "MIRROR_KEY"
	KeyPatternAggregate KeyPattern = "AGGREGATE_KEY"
	KeyPatternCallers   KeyPattern = "CALLERS_KEY"
	KeyPatternStable    KeyPattern = "STABLE_KEY"
	KeyPatternOther     KeyPattern = "OTHER"
)

// SynchronizationDirection says which side owns changes to a correlated element.
type SynchronizationDirection string

const (
	SynchronizationBothDirections SynchronizationDirection = "BOTH_DIRECTIONS"
	SynchronizationToThirdParty   SynchronizationDirection = "TO_THIRD_PARTY"
	SynchronizationFromThirdParty SynchronizationDirection = "FROM_THIRD_PARTY"
	SynchronizationOther          SynchronizationDirection = "OTHER"
)
