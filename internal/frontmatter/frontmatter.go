// Package frontmatter handles the YAML block at the head of a note and the
// processed marker stamped into notes after task extraction.
package frontmatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarkerKey is the frontmatter key written by the stamper.
const MarkerKey = "procesado_por_ia"

// Marker is the exact substring whose presence excludes a note from selection.
const Marker = MarkerKey + ": true"

// Block is prepended verbatim to a processed note. Its bytes must never
// change between releases or already stamped notes would be picked up again.
const Block = "---\n" + Marker + "\n---\n\n"

// Result holds a note split into frontmatter and body.
type Result struct {
	Frontmatter map[string]interface{}
	Body        string
	Title       string
}

// HasMarker reports whether data already carries the processed marker.
// It is a plain substring test, not a frontmatter lookup.
func HasMarker(data []byte) bool {
	return bytes.Contains(data, []byte(Marker))
}

// Stamp returns the marker block followed by data, byte-for-byte.
func Stamp(data []byte) []byte {
	out := make([]byte, 0, len(Block)+len(data))
	out = append(out, Block...)
	return append(out, data...)
}

// Parse splits data into frontmatter and body and derives a title.
func Parse(data []byte) *Result {
	fm, body := split(data)
	return &Result{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, body),
	}
}

// split separates YAML frontmatter (between leading --- delimiters) from the
// Markdown body. Without a valid block the entire content is body.
func split(data []byte) (map[string]interface{}, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, string(data)
	}
	return fm, body
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]interface{}, body string) string {
	if s, ok := fm["title"].(string); ok && s != "" {
		return s
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
