// Package header decodes and encodes a note's optional YAML frontmatter
// block (delimited by "---" lines) without imposing any schema on its
// keys. Round-tripping a header through DecodeOrdered/EncodeOrdered
// preserves the original key order; Encode writes keys in alphabetical
// order.
package header

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noteweave/noteweave/internal/model"
)

// ErrMalformedHeader is returned when a "---" opening fence is present
// but no matching closing fence can be found.
var ErrMalformedHeader = errors.New("header: malformed frontmatter block")

// ErrInvalidHeaderValue is returned when the frontmatter YAML does not
// decode to a mapping.
var ErrInvalidHeaderValue = errors.New("header: frontmatter is not a mapping")

var openFence = regexp.MustCompile(`^---[ \t]*\r?\n`)

// Decode splits text into its frontmatter metadata (possibly empty) and
// the remaining body text. If text has no leading "---" fence, the
// entire input is returned as the body with an empty MetaBag.
func Decode(text string) (model.MetaBag, string, error) {
	loc := openFence.FindStringIndex(text)
	if loc == nil {
		return model.MetaBag{}, text, nil
	}
	rest := text[loc[1]:]
	closeIdx := findClosingFence(rest)
	if closeIdx < 0 {
		return nil, "", fmt.Errorf("%w", ErrMalformedHeader)
	}
	raw := rest[:closeIdx]
	body := rest[closeIdx:]
	body = stripClosingFenceLine(body)

	var node yaml.Node
	if strings.TrimSpace(raw) != "" {
		if err := yaml.Unmarshal([]byte(raw), &node); err != nil {
			return nil, "", fmt.Errorf("header: parsing frontmatter yaml: %w", err)
		}
	}

	meta, err := nodeToMeta(&node)
	if err != nil {
		return nil, "", err
	}
	return meta, body, nil
}

// Encode renders meta as a "---"-delimited YAML block followed by body.
// If meta is empty, no frontmatter block is emitted and body is returned
// unchanged. Keys are written in alphabetical order; callers that must
// preserve the original file's key order should use
// DecodeOrdered/EncodeOrdered instead.
func Encode(meta model.MetaBag, body string) (string, error) {
	if len(meta) == 0 {
		return body, nil
	}
	node := mapToSortedNode(meta)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", fmt.Errorf("header: encoding frontmatter: %w", err)
	}
	_ = enc.Close()
	return "---\n" + buf.String() + "---\n" + body, nil
}

// DecodeOrdered behaves like Decode but also returns the frontmatter's
// original key order, so a later EncodeOrdered can round-trip it exactly
// (used by the format/lint command, which must not reshuffle a note's
// header just because it touched one field).
func DecodeOrdered(text string) (model.MetaBag, []string, string, error) {
	loc := openFence.FindStringIndex(text)
	if loc == nil {
		return model.MetaBag{}, nil, text, nil
	}
	rest := text[loc[1]:]
	closeIdx := findClosingFence(rest)
	if closeIdx < 0 {
		return nil, nil, "", fmt.Errorf("%w", ErrMalformedHeader)
	}
	raw := rest[:closeIdx]
	body := stripClosingFenceLine(rest[closeIdx:])

	var node yaml.Node
	if strings.TrimSpace(raw) != "" {
		if err := yaml.Unmarshal([]byte(raw), &node); err != nil {
			return nil, nil, "", fmt.Errorf("header: parsing frontmatter yaml: %w", err)
		}
	}
	meta, err := nodeToMeta(&node)
	if err != nil {
		return nil, nil, "", err
	}
	return meta, keyOrder(&node), body, nil
}

// EncodeOrdered renders meta using keys in the given order first, then
// any remaining keys (new fields added after decode) in map iteration
// order.
func EncodeOrdered(meta model.MetaBag, keys []string, body string) (string, error) {
	if len(meta) == 0 {
		return body, nil
	}
	seen := make(map[string]bool, len(keys))
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	appendKV := func(k string) {
		v, ok := meta[k]
		if !ok {
			return
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: k}
		valNode := &yaml.Node{}
		_ = valNode.Encode(v)
		mapping.Content = append(mapping.Content, keyNode, valNode)
		seen[k] = true
	}
	for _, k := range keys {
		appendKV(k)
	}
	for k := range meta {
		if !seen[k] {
			appendKV(k)
		}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(mapping); err != nil {
		return "", fmt.Errorf("header: encoding frontmatter: %w", err)
	}
	_ = enc.Close()
	return "---\n" + buf.String() + "---\n" + body, nil
}

func keyOrder(node *yaml.Node) []string {
	content := node
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		content = node.Content[0]
	}
	if content.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(content.Content)/2)
	for i := 0; i+1 < len(content.Content); i += 2 {
		keys = append(keys, content.Content[i].Value)
	}
	return keys
}

func mapToSortedNode(meta model.MetaBag) *yaml.Node {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: k}
		valNode := &yaml.Node{}
		_ = valNode.Encode(meta[k])
		mapping.Content = append(mapping.Content, keyNode, valNode)
	}
	return mapping
}

// findClosingFence finds the line offset of a bare "---" line in rest,
// returning -1 if none exists.
func findClosingFence(rest string) int {
	offset := 0
	for {
		nl := strings.IndexByte(rest[offset:], '\n')
		var line string
		if nl < 0 {
			line = rest[offset:]
		} else {
			line = rest[offset : offset+nl]
		}
		if strings.TrimRight(line, "\r") == "---" {
			return offset
		}
		if nl < 0 {
			return -1
		}
		offset += nl + 1
	}
}

func stripClosingFenceLine(body string) string {
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return ""
	}
	return body[nl+1:]
}

// nodeToMeta converts a decoded yaml.Node (expected to be a mapping) into
// a MetaBag, preserving Go-native value types for scalars and slices.
func nodeToMeta(node *yaml.Node) (model.MetaBag, error) {
	meta := model.MetaBag{}
	if node.Kind == 0 {
		return meta, nil
	}
	content := node
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return meta, nil
		}
		content = node.Content[0]
	}
	if content.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w", ErrInvalidHeaderValue)
	}
	for i := 0; i+1 < len(content.Content); i += 2 {
		key := content.Content[i].Value
		var v any
		if err := content.Content[i+1].Decode(&v); err != nil {
			return nil, fmt.Errorf("header: decoding key %q: %w", key, err)
		}
		meta[key] = v
	}
	return meta, nil
}
