package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestDeltaApply(t *testing.T) {
	r := New("old name", "Stop", []CommandSpec{{Program: "/bin/true"}})
	r.Targets = &Targets{Codex: boolPtr(true)}
	created := r.CreatedAt

	time.Sleep(time.Millisecond)

	enabled := false
	next := Delta{
		Name:    strPtr("new name"),
		Matcher: strPtr("*"),
		Enabled: &enabled,
	}.Apply(r)

	assert.Equal(t, "new name", next.Name)
	assert.Equal(t, "*", next.Matcher)
	assert.False(t, next.Enabled)
	assert.Equal(t, created, next.CreatedAt, "CreatedAt never changes")
	assert.True(t, next.UpdatedAt.After(r.UpdatedAt), "UpdatedAt must be stamped")

	// untouched fields survive
	assert.Equal(t, r.Event, next.Event)
	assert.Equal(t, r.Commands, next.Commands)
	assert.Equal(t, r.Targets, next.Targets)

	// the input rule is not mutated
	assert.Equal(t, "old name", r.Name)
}

func TestDeltaClearTargets(t *testing.T) {
	r := New("test", "Stop", []CommandSpec{{Program: "/bin/true"}})
	r.Targets = &Targets{Claude: boolPtr(true)}

	next := Delta{ClearTargets: true}.Apply(r)
	assert.Nil(t, next.Targets, "rule should return to the all-providers state")

	// ClearTargets wins over a simultaneous Targets value.
	next = Delta{ClearTargets: true, Targets: &Targets{Codex: boolPtr(true)}}.Apply(r)
	assert.Nil(t, next.Targets)
}

func TestDeltaIsZero(t *testing.T) {
	assert.True(t, Delta{}.IsZero())
	assert.False(t, Delta{Name: strPtr("x")}.IsZero())
	assert.False(t, Delta{ClearTargets: true}.IsZero())
}
