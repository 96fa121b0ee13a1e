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
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"renderpal-toolkit/pkg/logging"
)

// LookupTable maps option keys to dispatcher flag templates. It is read-only
// once built and safe for concurrent use.
type LookupTable struct {
	flags map[OptionKey]string
}

// NewLookupTable validates entries and builds a table. Keys this package does
// not know are kept, since the resource file may be newer than the binary,
// but are reported through log.
func NewLookupTable(entries map[string]string, log logging.Logger) (*LookupTable, error) {
	log = logging.OrDefault(log)
	t := &LookupTable{flags: make(map[OptionKey]string, len(entries))}
	for name, flag := range entries {
		key := OptionKey(strings.TrimSpace(name))
		flag = strings.TrimSpace(flag)
		if key == "" {
			return nil, fmt.Errorf("%w: empty option name in flag lookup", ErrConfig)
		}
		if flag == "" {
			return nil, fmt.Errorf("%w: option %q has an empty flag", ErrConfig, key)
		}
		if strings.ContainsAny(flag, " \t\"=") {
			return nil, fmt.Errorf("%w: flag %q for option %q must be a single bare token", ErrConfig, flag, key)
		}
		if _, dup := t.flags[key]; dup {
			return nil, fmt.Errorf("%w: option %q is defined twice", ErrConfig, key)
		}
		if !key.Known() {
			log.Warnf("Flag lookup defines option %q which this version does not know about", key)
		}
		t.flags[key] = flag
	}
	return t, nil
}

// LoadLookupTable reads a JSON or YAML mapping of option name to flag.
func LoadLookupTable(fs afero.Fs, path string, log logging.Logger) (*LookupTable, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read flag lookup %s: %v", ErrConfig, path, err)
	}
	return ParseLookupTable(data, log)
}

// ParseLookupTable decodes a lookup table. Duplicate keys are rejected by the
// YAML decoder.
func ParseLookupTable(data []byte, log logging.Logger) (*LookupTable, error) {
	var entries map[string]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: failed to parse flag lookup: %v", ErrConfig, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: flag lookup is empty", ErrConfig)
	}
	return NewLookupTable(entries, log)
}

// Flag returns the dispatcher flag for key.
func (t *LookupTable) Flag(key OptionKey) (string, bool) {
	flag, ok := t.flags[key]
	return flag, ok
}

// Keys returns the option keys in lexical order.
func (t *LookupTable) Keys() []OptionKey {
	keys := make([]OptionKey, 0, len(t.flags))
	for k := range t.flags {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len is the number of entries.
func (t *LookupTable) Len() int {
	return len(t.flags)
}
