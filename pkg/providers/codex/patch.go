package codex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/codmate/codmate/pkg/errors"
)

// patchNotify replaces or appends the top-level notify assignment,
// leaving every other line byte-for-byte intact. It reports whether the
// file actually changed. A key inside a [table] section is not the
// top-level key and is never touched.
func patchNotify(path, line string) (bool, error) {
	content := ""
	existed := false

	data, err := os.ReadFile(path)
	if err == nil {
		content = string(data)
		existed = true
	} else if !os.IsNotExist(err) {
		return false, errors.Wrapf(err, errors.ErrNativeParse,
			"failed to read %s", path)
	}

	lines := strings.Split(content, "\n")

	// Find the top-level notify assignment: before the first table
	// header only. Other assignments are skipped over their full value
	// span so a multi-line array never gets mistaken for a table.
	idx := -1
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, "[") {
			break
		}
		if isNotifyAssignment(trimmed) {
			idx = i
			break
		}
		if isAssignment(trimmed) {
			i = valueEnd(lines, i)
		}
	}

	if idx >= 0 {
		// The existing value may span several lines (a multi-line
		// array); the whole span gets replaced, not just the
		// assignment line.
		end := valueEnd(lines, idx)
		if idx == end && lines[idx] == line {
			return false, nil
		}
		next := make([]string, 0, len(lines)-(end-idx))
		next = append(next, lines[:idx]...)
		next = append(next, line)
		next = append(next, lines[end+1:]...)
		lines = next
	} else {
		lines = insertTopLevel(lines, line, existed)
	}

	out := strings.Join(lines, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if existed && out == content {
		return false, nil
	}

	if err := writeAtomic(path, []byte(out)); err != nil {
		return false, err
	}
	return true, nil
}

// isNotifyAssignment matches `notify = ...` with optional whitespace
// around the key.
func isNotifyAssignment(trimmed string) bool {
	if !strings.HasPrefix(trimmed, notifyKey) {
		return false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, notifyKey))
	return strings.HasPrefix(rest, "=")
}

// isAssignment loosely matches any `key = ...` line.
func isAssignment(trimmed string) bool {
	return !strings.HasPrefix(trimmed, "#") && strings.Contains(trimmed, "=")
}

// valueEnd returns the index of the last line of the value assigned at
// lines[start], following unbalanced array brackets across lines.
func valueEnd(lines []string, start int) int {
	depth := 0
	for i := start; i < len(lines); i++ {
		depth += bracketDelta(lines[i])
		if depth <= 0 {
			return i
		}
	}
	return len(lines) - 1
}

// bracketDelta counts net `[`/`]` nesting on one line, ignoring
// brackets inside strings and comments.
func bracketDelta(line string) int {
	depth := 0
	inBasic, inLiteral, escaped := false, false, false
	for _, r := range line {
		switch {
		case escaped:
			escaped = false
		case inBasic:
			if r == '\\' {
				escaped = true
			} else if r == '"' {
				inBasic = false
			}
		case inLiteral:
			if r == '\'' {
				inLiteral = false
			}
		case r == '"':
			inBasic = true
		case r == '\'':
			inLiteral = true
		case r == '#':
			return depth
		case r == '[':
			depth++
		case r == ']':
			depth--
		}
	}
	return depth
}

// insertTopLevel places the assignment at the end of the top-level
// section, before the first table header.
func insertTopLevel(lines []string, line string, existed bool) []string {
	if !existed || (len(lines) == 1 && lines[0] == "") {
		return []string{line}
	}

	insertAt := len(lines)
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, "[") {
			insertAt = i
			break
		}
		if isAssignment(trimmed) {
			i = valueEnd(lines, i)
		}
	}

	// Drop a trailing blank line at the insertion point so the key
	// lands after the last real top-level line.
	for insertAt > 0 && strings.TrimSpace(lines[insertAt-1]) == "" {
		insertAt--
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:insertAt]...)
	out = append(out, line)
	out = append(out, lines[insertAt:]...)
	return out
}

// writeAtomic writes with temp-then-rename, creating the parent
// directory if needed.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrNativeWrite,
			"failed to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml.tmp")
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

// encodeString renders a TOML basic string.
func encodeString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(fmt.Sprintf(`\u%04X`, r))
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
