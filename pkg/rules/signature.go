package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Signature is a normalized fingerprint over a rule's semantic content:
// event, matcher, and the ordered program/args of every command.
// Bookkeeping fields (id, timestamps, display name, managed-entry tag)
// are excluded so that a native entry and the canonical rule it was
// materialized from fingerprint identically.
type Signature string

// unit separator keeps field boundaries unambiguous no matter what the
// field values contain.
const sigSep = "\x1f"

// SignatureOf computes the fingerprint for a rule.
func SignatureOf(r Rule) Signature {
	return signature(r.Event, r.Matcher, r.Commands)
}

// SignatureOfEntry computes the fingerprint for a native entry that has
// been parsed into an approximate rule shape.
func SignatureOfEntry(event, matcher string, commands []CommandSpec) Signature {
	return signature(event, matcher, commands)
}

func signature(event, matcher string, commands []CommandSpec) Signature {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(event))
	b.WriteString(sigSep)
	b.WriteString(strings.TrimSpace(matcher))
	for _, c := range commands {
		b.WriteString(sigSep)
		b.WriteString(strings.TrimSpace(c.Program))
		for _, a := range c.Args {
			b.WriteString(sigSep)
			b.WriteString(a)
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return Signature(hex.EncodeToString(sum[:]))
}
