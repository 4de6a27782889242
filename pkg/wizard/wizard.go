// Package wizard defines the boundary to the LLM-backed rule
// assistant. The engine only consumes the interface: given free text,
// the assistant either returns a validated draft rule or comes back
// with clarifying questions. Implementations live outside this
// repository.
package wizard

import (
	"context"

	"github.com/codmate/codmate/pkg/rules"
)

// Proposal is the assistant's answer to a free-text request. Exactly
// one of Draft and Questions is populated.
type Proposal struct {
	// Draft is a validated rule payload ready to present for editing.
	// The id and timestamps are assigned only when the user commits it
	// to the store.
	Draft *rules.Rule

	// Questions are follow-ups the assistant needs answered before it
	// can produce a draft.
	Questions []string
}

// NeedsClarification reports whether the assistant asked questions
// instead of producing a draft.
func (p *Proposal) NeedsClarification() bool {
	return p.Draft == nil && len(p.Questions) > 0
}

// Assistant proposes draft rules from natural-language descriptions.
type Assistant interface {
	Propose(ctx context.Context, text string) (*Proposal, error)
}
