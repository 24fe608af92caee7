// Package frontmatter splits `---` delimited YAML metadata blocks from
// Markdown bodies and decodes the recognized keys into typed metadata.
//
// Unknown keys are ignored on purpose: the recognized schema is the contract,
// not whatever happens to be present in a given file.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// Meta holds the recognized frontmatter keys.
//
// SidebarPosition is a pointer so callers can distinguish "absent" from an
// explicit zero.
type Meta struct {
	SidebarPosition *int   `yaml:"sidebar_position"`
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
}

// Split separates YAML frontmatter from the Markdown body.
//
// If the document does not start with a frontmatter delimiter, had is false
// and body is the full input. A start delimiter without a matching close is
// an error; callers decide whether that is fatal.
func Split(content []byte) (raw []byte, body []byte, had bool, err error) {
	nl := newlineStyle(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	rest := content[len(open):]

	// Empty block: the closing delimiter immediately follows the opening one.
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		// Allow a closing delimiter at EOF without a trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(rest, tail) {
			return rest[:len(rest)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, nil
}

// DecodeMeta decodes raw YAML frontmatter (without delimiters) into Meta.
//
// An empty block decodes to the zero Meta.
func DecodeMeta(raw []byte) (Meta, error) {
	var meta Meta
	if len(bytes.TrimSpace(raw)) == 0 {
		return meta, nil
	}
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return Meta{}, err
	}
	return meta, nil
}

// newlineStyle detects whether the document uses CRLF or LF line endings.
func newlineStyle(content []byte) string {
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}
