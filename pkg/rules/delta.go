package rules

import "time"

// Delta is an explicit field-change record applied to a rule under the
// store's single-writer discipline. Nil fields are left untouched.
// ClearTargets returns the rule to the unset-targets state ("all
// providers"); it wins over Targets when both are set.
type Delta struct {
	Name         *string
	Description  *string
	Event        *string
	Matcher      *string
	Commands     *[]CommandSpec
	Enabled      *bool
	Targets      *Targets
	Source       *string
	ClearTargets bool
}

// IsZero reports whether applying the delta would change nothing.
func (d Delta) IsZero() bool {
	return d.Name == nil && d.Description == nil && d.Event == nil &&
		d.Matcher == nil && d.Commands == nil && d.Enabled == nil &&
		d.Targets == nil && d.Source == nil && !d.ClearTargets
}

// Apply produces the updated rule, stamping UpdatedAt. The receiver is
// not modified.
func (d Delta) Apply(r Rule) Rule {
	out := r.Clone()
	if d.Name != nil {
		out.Name = *d.Name
	}
	if d.Description != nil {
		out.Description = *d.Description
	}
	if d.Event != nil {
		out.Event = *d.Event
	}
	if d.Matcher != nil {
		out.Matcher = *d.Matcher
	}
	if d.Commands != nil {
		out.Commands = append([]CommandSpec(nil), (*d.Commands)...)
	}
	if d.Enabled != nil {
		out.Enabled = *d.Enabled
	}
	switch {
	case d.ClearTargets:
		out.Targets = nil
	case d.Targets != nil:
		t := *d.Targets
		out.Targets = &t
	}
	if d.Source != nil {
		out.Source = *d.Source
	}
	out.UpdatedAt = time.Now().UTC()
	return out
}
