package hooksfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/codmate/codmate/pkg/errors"
	"github.com/codmate/codmate/pkg/providers"
	"github.com/codmate/codmate/pkg/rules"
)

// PolicyKey is the top-level lockdown flag. When true, the document
// owner has forbidden externally managed hooks and the engine must not
// write anything.
const PolicyKey = "allowManagedHooksOnly"

// hooksKey is the top-level key holding the event -> bindings mapping.
const hooksKey = "hooks"

// document is a settings file parsed just far enough to reconcile the
// managed bindings. Bindings stay as raw values; only the managed ones
// are ever rebuilt.
type document struct {
	raw    map[string]any   // full document, unknown keys included
	events map[string][]any // hooks section, binding order preserved

	// opaque holds hooks values that are not binding arrays. They are
	// foreign content and survive every write verbatim.
	opaque map[string]any

	// hadHooks records whether the file carried a hooks object on
	// load, so the key is not stripped when the last binding goes.
	hadHooks bool
}

// loadDocument reads and parses the settings file. A missing file
// yields an empty skeleton. Malformed JSON yields an ErrNativeParse
// error so callers can refuse to overwrite the file.
func loadDocument(path string) (*document, error) {
	doc := &document{
		raw:    make(map[string]any),
		events: make(map[string][]any),
		opaque: make(map[string]any),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, errors.Wrapf(err, errors.ErrNativeParse,
			"failed to read %s", path)
	}

	if err := json.Unmarshal(data, &doc.raw); err != nil {
		return nil, errors.Wrapf(err, errors.ErrNativeParse,
			"failed to parse %s", path)
	}

	if hooksRaw, ok := doc.raw[hooksKey].(map[string]any); ok {
		doc.hadHooks = true
		for event, entries := range hooksRaw {
			if arr, ok := entries.([]any); ok {
				doc.events[event] = arr
			} else {
				doc.opaque[event] = entries
			}
		}
	}

	return doc, nil
}

// lockedDown reports whether the document forbids managed hooks.
func (d *document) lockedDown() bool {
	v, ok := d.raw[PolicyKey].(bool)
	return ok && v
}

// save merges the hooks section back into the raw document and writes
// it with atomic replace. Serialization is deterministic: maps marshal
// with sorted keys.
func (d *document) save(path string) error {
	hooksRaw := make(map[string]any, len(d.events)+len(d.opaque))
	for event, entries := range d.events {
		hooksRaw[event] = entries
	}
	// Foreign non-array values win over a managed binding wanting the
	// same event key.
	for event, v := range d.opaque {
		hooksRaw[event] = v
	}
	switch {
	case len(hooksRaw) > 0:
		d.raw[hooksKey] = hooksRaw
	case d.hadHooks:
		// The key predates us (or we wrote it); an empty object stays
		// rather than vanishing.
		d.raw[hooksKey] = map[string]any{}
	default:
		delete(d.raw, hooksKey)
	}

	data, err := json.MarshalIndent(d.raw, "", "  ")
	if err != nil {
		return errors.Wrapf(err, errors.ErrNativeWrite,
			"failed to encode %s", path)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrNativeWrite,
			"failed to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json.tmp")
	if err != nil {
		return errors.Wrapf(err, errors.ErrNativeWrite,
			"failed to create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrNativeWrite,
			"failed to write %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrNativeWrite,
			"failed to write %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrNativeWrite,
			"failed to replace %s", path)
	}
	return nil
}

// isManaged reports whether a raw binding belongs to this engine: any
// of its hook commands carries a name with the managed tag prefix.
func isManaged(binding any) bool {
	m, ok := binding.(map[string]any)
	if !ok {
		return false
	}
	hooksArr, ok := m[hooksKey].([]any)
	if !ok {
		return false
	}
	for _, h := range hooksArr {
		hm, ok := h.(map[string]any)
		if !ok {
			continue
		}
		if strings.HasPrefix(getString(hm, "name"), providers.ManagedTag) {
			return true
		}
	}
	return false
}

// parseEntry converts a raw binding into an approximate rule shape for
// the import scanner. It returns false for values that are not binding
// objects at all.
func parseEntry(event string, binding any) (providers.FoundEntry, bool) {
	m, ok := binding.(map[string]any)
	if !ok {
		return providers.FoundEntry{}, false
	}

	entry := providers.FoundEntry{
		Event:   event,
		Matcher: getString(m, "matcher"),
		Managed: isManaged(binding),
	}

	hooksArr, _ := m[hooksKey].([]any)
	for _, h := range hooksArr {
		hm, ok := h.(map[string]any)
		if !ok {
			continue
		}
		cmd := rules.CommandSpec{
			Program:   getString(hm, "command"),
			TimeoutMs: getInt(hm, "timeoutMs"),
		}
		if argsArr, ok := hm["args"].([]any); ok {
			for _, a := range argsArr {
				if s, ok := a.(string); ok {
					cmd.Args = append(cmd.Args, s)
				}
			}
		}
		if cmd.Program != "" {
			entry.Commands = append(entry.Commands, cmd)
		}
	}

	if len(entry.Commands) == 0 {
		return providers.FoundEntry{}, false
	}
	return entry, true
}

// getString safely gets a string field from a map.
func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getInt safely gets an int field from a map. JSON numbers unmarshal
// as float64, so handle that conversion.
func getInt(m map[string]any, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}
