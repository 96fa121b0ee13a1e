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

package renderpal

import (
	"errors"
	"fmt"

	"github.com/agext/levenshtein"

	"renderpal-toolkit/pkg/logging"
)

// Flag is one rendered option. Tokens is the text that appears on the
// dispatcher command line; Args is the same thing as an argument vector.
// A flag with no tokens (a false Bool) is omitted from the command.
type Flag struct {
	Key    OptionKey
	Tokens []string
	Args   []string
}

type positionalStyle int

const (
	positionalQuoted positionalStyle = iota + 1
	positionalBare
)

// Historical exceptions: these options are passed as "flag value" rather
// than flag="value", and the dispatcher parses them literally.
var positionalOptions = map[OptionKey]positionalStyle{
	OptSplitMode: positionalQuoted,
	OptProject:   positionalBare,
}

// Translator renders options into dispatcher flags using a lookup table.
type Translator struct {
	table *LookupTable
	log   logging.Logger
}

// NewTranslator returns a translator backed by table.
func NewTranslator(table *LookupTable, log logging.Logger) *Translator {
	return &Translator{table: table, log: logging.OrDefault(log)}
}

// Translate renders a single option. It returns ErrUnknownOption when key is
// not in the lookup table.
func (t *Translator) Translate(key OptionKey, value Value) (Flag, error) {
	flag, ok := t.table.Flag(key)
	if !ok {
		return Flag{}, fmt.Errorf("%w: %s", ErrUnknownOption, key)
	}
	if value == nil {
		return Flag{}, fmt.Errorf("option %q has no value", key)
	}

	f := Flag{Key: key}
	switch v := value.(type) {
	case List:
		for _, elem := range v {
			f.Tokens = append(f.Tokens, fmt.Sprintf(`%s="%s"`, flag, elem))
			f.Args = append(f.Args, flag+"="+elem)
		}
		return f, nil
	case Bool:
		if v {
			f.Tokens = []string{flag}
			f.Args = []string{flag}
		}
		return f, nil
	}

	switch positionalOptions[key] {
	case positionalQuoted:
		f.Tokens = []string{fmt.Sprintf(`%s "%s"`, flag, value.Text())}
		f.Args = []string{flag, value.Text()}
		return f, nil
	case positionalBare:
		f.Tokens = []string{fmt.Sprintf("%s %s", flag, value.Text())}
		f.Args = []string{flag, value.Text()}
		return f, nil
	}

	if s, ok := value.(String); ok {
		f.Tokens = []string{fmt.Sprintf(`%s="%s"`, flag, string(s))}
		f.Args = []string{flag + "=" + string(s)}
		return f, nil
	}
	f.Tokens = []string{fmt.Sprintf("%s %s", flag, value.Text())}
	f.Args = []string{flag, value.Text()}
	return f, nil
}

// TranslateAll renders opts in order. Options that cannot be rendered are
// logged as warnings and dropped; they never abort the whole set.
func (t *Translator) TranslateAll(opts Options) []Flag {
	flags := make([]Flag, 0, len(opts))
	for _, opt := range opts {
		f, err := t.Translate(opt.Key, opt.Value)
		if err != nil {
			if errors.Is(err, ErrUnknownOption) {
				if hint := t.suggest(opt.Key); hint != "" {
					t.log.Warnf("Unknown flag specified: %s (did you mean %q?)", opt.Key, hint)
				} else {
					t.log.Warnf("Unknown flag specified: %s", opt.Key)
				}
			} else {
				t.log.Warnf("Skipping flag %s: %v", opt.Key, err)
			}
			continue
		}
		if len(f.Tokens) == 0 {
			continue
		}
		flags = append(flags, f)
	}
	return flags
}

// suggest returns the closest lookup key to key, if any is close enough.
func (t *Translator) suggest(key OptionKey) string {
	best, bestDist := "", 3
	for _, k := range t.table.Keys() {
		if d := levenshtein.Distance(string(key), string(k), nil); d < bestDist {
			best, bestDist = string(k), d
		}
	}
	return best
}
