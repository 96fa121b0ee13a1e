// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package renderset

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// placeholderPattern matches $$, $name, ${name} and, as the last
// alternative, a lone $ that starts none of them.
var placeholderPattern = regexp.MustCompile(`\$(?:(\$)|([_a-zA-Z][_a-zA-Z0-9]*)|\{([_a-zA-Z][_a-zA-Z0-9]*)\}|)`)

// Template is a parsed set template.
type Template struct {
	name string
	text string
	// matches holds submatch indexes of every placeholder in text.
	matches [][]int
}

// Parse checks text for malformed placeholders.
func Parse(name, text string) (*Template, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(text, -1)
	for _, m := range matches {
		if m[2] < 0 && m[4] < 0 && m[6] < 0 {
			line, col := position(text, m[0])
			return nil, fmt.Errorf("%w in %s at line %d, column %d", ErrInvalidPlaceholder, name, line, col)
		}
	}
	return &Template{name: name, text: text, matches: matches}, nil
}

func position(text string, offset int) (line, col int) {
	before := text[:offset]
	line = strings.Count(before, "\n") + 1
	col = offset - strings.LastIndex(before, "\n")
	return line, col
}

// Name is the template's name.
func (t *Template) Name() string {
	return t.name
}

// Placeholders returns the distinct placeholder names in lexical order.
func (t *Template) Placeholders() []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range t.matches {
		if name := t.placeholder(m); name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (t *Template) placeholder(m []int) string {
	switch {
	case m[4] >= 0:
		return t.text[m[4]:m[5]]
	case m[6] >= 0:
		return t.text[m[6]:m[7]]
	}
	return ""
}

// Execute substitutes every placeholder. It fails with ErrMissingValue,
// naming all missing placeholders, if values does not cover the template.
// Values not used by the template are ignored.
func (t *Template) Execute(values Values) (string, error) {
	var missing []string
	for _, name := range t.Placeholders() {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w for %s: %s", ErrMissingValue, t.name, strings.Join(missing, ", "))
	}

	var b strings.Builder
	last := 0
	for _, m := range t.matches {
		b.WriteString(t.text[last:m[0]])
		if m[2] >= 0 {
			b.WriteByte('$')
		} else {
			b.WriteString(values.format(t.placeholder(m)))
		}
		last = m[1]
	}
	b.WriteString(t.text[last:])
	return b.String(), nil
}

// Values maps placeholder names to values. Strings are used as-is and any
// other value is formatted with fmt.Sprint.
type Values map[string]interface{}

func (v Values) format(name string) string {
	switch val := v[name].(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
