// Package jsonrepair normalizes JSON-ish text returned by generative models.
// Models regularly wrap replies in Markdown code fences, use backticks or
// single quotes, or surround the object with prose. The repair rules are kept
// here as an ordered list of named transforms so they can be tested on their
// own and extended without touching the callers.
package jsonrepair

import (
	"regexp"
	"strings"
)

type transform struct {
	name  string
	apply func(string) string
}

var (
	singleQuotedKey   = regexp.MustCompile(`'([^']*)'\s*:`)
	singleQuotedValue = regexp.MustCompile(`:\s*'([^']*)'`)
	outermostObject   = regexp.MustCompile(`(?s)\{.*\}`)
)

// The order matters: fences are stripped before quote normalization so a
// fence marker never survives into the quoted content.
var transforms = []transform{
	{"trim", strings.TrimSpace},
	{"strip-code-fences", stripCodeFences},
	{"backticks-to-quotes", func(s string) string {
		return strings.ReplaceAll(s, "`", `"`)
	}},
	{"single-quoted-keys", func(s string) string {
		return singleQuotedKey.ReplaceAllString(s, `"$1":`)
	}},
	{"single-quoted-values", func(s string) string {
		return singleQuotedValue.ReplaceAllString(s, `: "$1"`)
	}},
	{"trim", strings.TrimSpace},
}

// Clean applies the repair transforms in order and returns the result.
// Well-formed JSON passes through unchanged.
func Clean(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	for _, t := range transforms {
		s = t.apply(s)
	}
	return s
}

// ExtractObject finds the outermost '{...}' span in text that may contain
// surrounding prose, and returns it cleaned. ok is false when no object-like
// span exists.
func ExtractObject(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	m := outermostObject.FindString(s)
	if m == "" {
		return "", false
	}
	return Clean(m), true
}

func stripCodeFences(s string) string {
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return s
}
