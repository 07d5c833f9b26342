// Package textgram implements a small declarative grammar for extracting
// records from line-oriented notification text. A template declares named
// values and an ordered set of line rules; rules fill values into an
// accumulator and an explicit Record action emits the accumulated row.
// Templates are plain text so new bank message formats can be added as data,
// without touching code.
package textgram

import (
	"fmt"
	"regexp"
	"strings"
)

// Value is a named capture declared by a template.
type Value struct {
	Name     string
	Required bool
	Pattern  string // inner regex, without the declaring parentheses
}

type rule struct {
	raw    string
	re     *regexp.Regexp
	record bool
}

// Template is a compiled parsing grammar.
type Template struct {
	Name   string
	values []Value
	rules  []rule
}

var valueLine = regexp.MustCompile(`^Value\s+(Required\s+)?([A-Z][A-Z0-9_]*)\s+(\(.+\))$`)

const recordAction = "-> Record"

// Compile parses a template definition. The format is line-based:
//
//	# comment
//	Value Required ACCOUNT (\S+)
//	Value AMOUNT ((\d+,?)+)
//
//	Start
//	  ^TK\s+${ACCOUNT}.+${AMOUNT}
//	  ^${DATE} -> Record
//
// ${NAME} placeholders expand to named capture groups using the declared
// pattern. Lines "Start" and "EOF" delimit the rule section.
func Compile(name, text string) (*Template, error) {
	t := &Template{Name: name}

	inRules := false

	for lineno, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case line == "Start":
			inRules = true
		case line == "EOF":
			inRules = false
		case strings.HasPrefix(line, "Value "):
			if inRules {
				return nil, fmt.Errorf("template %s line %d: Value declared after Start", name, lineno+1)
			}

			v, err := parseValue(line)
			if err != nil {
				return nil, fmt.Errorf("template %s line %d: %w", name, lineno+1, err)
			}

			t.values = append(t.values, v)
		case strings.HasPrefix(line, "^"):
			if !inRules {
				return nil, fmt.Errorf("template %s line %d: rule before Start", name, lineno+1)
			}

			r, err := t.compileRule(line)
			if err != nil {
				return nil, fmt.Errorf("template %s line %d: %w", name, lineno+1, err)
			}

			t.rules = append(t.rules, r)
		default:
			return nil, fmt.Errorf("template %s line %d: unrecognized line %q", name, lineno+1, line)
		}
	}

	if len(t.values) == 0 {
		return nil, fmt.Errorf("template %s: no values declared", name)
	}

	if len(t.rules) == 0 {
		return nil, fmt.Errorf("template %s: no rules declared", name)
	}

	return t, nil
}

// Values returns the declared value names in declaration order.
func (t *Template) Values() []string {
	names := make([]string, len(t.values))
	for i, v := range t.values {
		names[i] = v.Name
	}

	return names
}

func parseValue(line string) (Value, error) {
	m := valueLine.FindStringSubmatch(line)
	if m == nil {
		return Value{}, fmt.Errorf("malformed value declaration %q", line)
	}

	pattern := m[3]
	// Strip the declaring parentheses; the compiler re-wraps the pattern in a
	// named group when a rule references it.
	inner := pattern[1 : len(pattern)-1]

	if _, err := regexp.Compile(pattern); err != nil {
		return Value{}, fmt.Errorf("value %s: %w", m[2], err)
	}

	return Value{
		Name:     m[2],
		Required: m[1] != "",
		Pattern:  inner,
	}, nil
}

func (t *Template) compileRule(line string) (rule, error) {
	record := false

	if strings.HasSuffix(line, recordAction) {
		record = true
		line = strings.TrimSpace(strings.TrimSuffix(line, recordAction))
	}

	expanded := line

	for _, v := range t.values {
		placeholder := "${" + v.Name + "}"
		group := "(?P<" + v.Name + ">" + v.Pattern + ")"
		expanded = strings.ReplaceAll(expanded, placeholder, group)
	}

	if strings.Contains(expanded, "${") {
		return rule{}, fmt.Errorf("rule %q references an undeclared value", line)
	}

	re, err := regexp.Compile(expanded)
	if err != nil {
		return rule{}, fmt.Errorf("rule %q: %w", line, err)
	}

	return rule{raw: line, re: re, record: record}, nil
}
