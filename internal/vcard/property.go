// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vcard

import (
	"fmt"
	"strings"
)

// property is one parsed content line: [group.]NAME;param=value;...:value
type property struct {
	line   int
	group  string
	name   string
	params []param
	value  string
}

// param is a single parameter. Key is empty for bare vCard 2.1 parameters
// such as "CELL" or "QUOTED-PRINTABLE"; the dialect decides what they mean.
type param struct {
	key   string
	value string
}

// parseProperty splits a logical line into name, parameters and value.
func parseProperty(l line) (property, error) {
	head, value, ok := splitUnquoted(l.text, ':')
	if !ok {
		return property{}, fmt.Errorf("line %d: no ':' in content line; skipped", l.n)
	}

	parts := splitAllUnquoted(head, ';')
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return property{}, fmt.Errorf("line %d: empty property name; skipped", l.n)
	}

	p := property{line: l.n, value: value}
	if group, rest, found := strings.Cut(name, "."); found {
		p.group = group
		name = rest
	}
	p.name = strings.ToUpper(name)

	for _, raw := range parts[1:] {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		k, v, found := strings.Cut(raw, "=")
		if !found {
			p.params = append(p.params, param{value: raw})
			continue
		}
		p.params = append(p.params, param{
			key:   strings.ToUpper(strings.TrimSpace(k)),
			value: strings.Trim(strings.TrimSpace(v), `"`),
		})
	}
	return p, nil
}

// paramValue returns the first value for key, or "".
func (p property) paramValue(key string) string {
	for _, pr := range p.params {
		if pr.key == key {
			return pr.value
		}
	}
	return ""
}

// splitUnquoted splits s at the first sep that is not inside double quotes.
func splitUnquoted(s string, sep byte) (string, string, bool) {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			quoted = !quoted
		case sep:
			if !quoted {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

// splitAllUnquoted splits s at every sep that is not inside double quotes.
func splitAllUnquoted(s string, sep byte) []string {
	var out []string
	for {
		before, after, ok := splitUnquoted(s, sep)
		out = append(out, before)
		if !ok {
			return out
		}
		s = after
	}
}

// splitStructured splits a compound value (N, ORG) at unescaped sep,
// leaving escapes in place for unescape.
func splitStructured(s string, sep byte) []string {
	var (
		out   []string
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

// unescape resolves backslash escapes in a text value.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// collapse trims s and folds internal whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
