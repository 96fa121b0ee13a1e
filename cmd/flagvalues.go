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

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"renderpal-toolkit/pkg/renderpal"
	"renderpal-toolkit/pkg/renderset"
)

// optionsValue collects repeated --option key=value flags in order.
type optionsValue struct {
	opts *renderpal.Options
}

var _ pflag.Value = (*optionsValue)(nil)

func newOptionsValue(opts *renderpal.Options) *optionsValue {
	return &optionsValue{opts: opts}
}

func (v *optionsValue) Set(s string) error {
	key, raw, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("option %q must have the form key=value", s)
	}
	*v.opts = v.opts.Set(renderpal.OptionKey(key), renderpal.ParseValue(raw))
	return nil
}

func (v *optionsValue) String() string {
	if v.opts == nil {
		return ""
	}
	parts := make([]string, 0, len(*v.opts))
	for _, o := range *v.opts {
		parts = append(parts, string(o.Key)+"="+o.Value.Text())
	}
	return strings.Join(parts, ",")
}

func (v *optionsValue) Type() string { return "key=value" }

// valuesValue collects repeated --value name=text placeholder values.
type valuesValue struct {
	values renderset.Values
}

var _ pflag.Value = (*valuesValue)(nil)

func newValuesValue(values renderset.Values) *valuesValue {
	return &valuesValue{values: values}
}

func (v *valuesValue) Set(s string) error {
	name, text, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("value %q must have the form name=text", s)
	}
	v.values[name] = text
	return nil
}

func (v *valuesValue) String() string {
	parts := make([]string, 0, len(v.values))
	for k, val := range v.values {
		parts = append(parts, fmt.Sprintf("%s=%v", k, val))
	}
	return strings.Join(parts, ",")
}

func (v *valuesValue) Type() string { return "name=text" }
