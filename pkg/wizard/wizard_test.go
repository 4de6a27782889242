package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codmate/codmate/pkg/rules"
)

func TestNeedsClarification(t *testing.T) {
	withDraft := &Proposal{Draft: &rules.Rule{Name: "draft"}}
	assert.False(t, withDraft.NeedsClarification())

	withQuestions := &Proposal{Questions: []string{"which event?"}}
	assert.True(t, withQuestions.NeedsClarification())

	empty := &Proposal{}
	assert.False(t, empty.NeedsClarification())
}
