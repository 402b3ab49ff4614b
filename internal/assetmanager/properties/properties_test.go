package properties

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MihaiIliescu/egeria/internal/repository"
)

func TestProcessStatusMapping(t *testing.T) {
	for _, s := range []ProcessStatus{ProcessStatusDraft, ProcessStatusProposed, ProcessStatusApproved,
		ProcessStatusActive, ProcessStatusDisabled, ProcessStatusDeprecated, ProcessStatusOther} {
		assert.Equal(t, s, ProcessStatusOf(s.InstanceStatus()), string(s))
	}
	assert.Equal(t, repository.StatusActive, ProcessStatus("").InstanceStatus())
	assert.Equal(t, ProcessStatusUnknown, ProcessStatusOf(repository.StatusDeleted))
}

func TestCloneIsDeep(t *testing.T) {
	p := &ProcessProperties{
		ReferenceableProperties: ReferenceableProperties{
			QualifiedName:        "process:1",
			AdditionalProperties: map[string]string{"a": "1"},
		},
		DisplayName: "Process 1",
	}
	c := p.Clone()
	c.AdditionalProperties["a"] = "2"
	c.DisplayName = "changed"
	assert.Equal(t, "1", p.AdditionalProperties["a"])
	assert.Equal(t, "Process 1", p.DisplayName)

	var nilProps *ProcessProperties
	assert.Nil(t, nilProps.Clone())

	corr := &MetadataCorrelationProperties{AssetManagerGUID: "am", MappingProperties: map[string]string{"k": "v"}}
	cc := corr.Clone()
	cc.MappingProperties["k"] = "x"
	assert.Equal(t, "v", corr.MappingProperties["k"])
}
