package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureIgnoresBookkeeping(t *testing.T) {
	a := New("name A", "Notification", []CommandSpec{{Program: "/bin/notify", Args: []string{"hi"}}})
	b := New("name B", "Notification", []CommandSpec{{Program: "/bin/notify", Args: []string{"hi"}}})
	b.Source = "import:claude"

	assert.Equal(t, SignatureOf(a), SignatureOf(b),
		"id, name, timestamps and provenance must not affect the signature")
}

func TestSignatureDiscriminatesContent(t *testing.T) {
	base := New("n", "Notification", []CommandSpec{{Program: "/bin/notify", Args: []string{"hi"}}})

	differentEvent := base
	differentEvent.Event = "Stop"
	assert.NotEqual(t, SignatureOf(base), SignatureOf(differentEvent))

	differentMatcher := base
	differentMatcher.Matcher = "*"
	assert.NotEqual(t, SignatureOf(base), SignatureOf(differentMatcher))

	differentArgs := base.Clone()
	differentArgs.Commands[0].Args = []string{"bye"}
	assert.NotEqual(t, SignatureOf(base), SignatureOf(differentArgs))
}

func TestSignatureFieldBoundaries(t *testing.T) {
	// "ab"+"c" vs "a"+"bc" must not collide across field boundaries.
	a := SignatureOfEntry("ab", "c", []CommandSpec{{Program: "p"}})
	b := SignatureOfEntry("a", "bc", []CommandSpec{{Program: "p"}})
	assert.NotEqual(t, a, b)
}

func TestSignatureOfEntryMatchesRule(t *testing.T) {
	r := New("n", "PostToolUse", []CommandSpec{{Program: "/bin/hook", Args: []string{"--x"}}})
	r.Matcher = "Write"

	sig := SignatureOfEntry("PostToolUse", "Write",
		[]CommandSpec{{Program: "/bin/hook", Args: []string{"--x"}}})
	assert.Equal(t, SignatureOf(r), sig)
}
