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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var testFlags = map[string]string{
	"import_set": "-importset",
	"priority":   "-nj_priority",
	"pools":      "-nj_pools",
	"paused":     "-nj_paused",
	"splitmode":  "-nj_splitmode",
	"project":    "-nj_project",
	"color":      "-nj_color",
	"dependency": "-nj_dependency",
	"deptype":    "-nj_deptype",
	"slicemode":  "-nj_slicemode",
	"notes":      "-nj_notes",
}

func newTestTable(t *testing.T) *LookupTable {
	t.Helper()
	logger, _ := test.NewNullLogger()
	table, err := NewLookupTable(testFlags, logger)
	if err != nil {
		t.Fatalf("NewLookupTable() failed: %v", err)
	}
	return table
}

func TestTranslate(t *testing.T) {
	logger, _ := test.NewNullLogger()
	tr := NewTranslator(newTestTable(t), logger)

	tests := []struct {
		name       string
		key        OptionKey
		value      Value
		wantTokens []string
		wantArgs   []string
	}{
		{
			name:       "list renders one flag per element",
			key:        OptPools,
			value:      List{"farm1", "farm2", "farm3"},
			wantTokens: []string{`-nj_pools="farm1"`, `-nj_pools="farm2"`, `-nj_pools="farm3"`},
			wantArgs:   []string{"-nj_pools=farm1", "-nj_pools=farm2", "-nj_pools=farm3"},
		},
		{
			name:       "true bool is a bare flag",
			key:        OptPaused,
			value:      Bool(true),
			wantTokens: []string{"-nj_paused"},
			wantArgs:   []string{"-nj_paused"},
		},
		{
			name:  "false bool renders nothing",
			key:   OptPaused,
			value: Bool(false),
		},
		{
			name:       "splitmode keeps its quoted positional form",
			key:        OptSplitMode,
			value:      String("2,1"),
			wantTokens: []string{`-nj_splitmode "2,1"`},
			wantArgs:   []string{"-nj_splitmode", "2,1"},
		},
		{
			name:       "project is positional and unquoted",
			key:        OptProject,
			value:      String("Robo"),
			wantTokens: []string{"-nj_project Robo"},
			wantArgs:   []string{"-nj_project", "Robo"},
		},
		{
			name:       "string is assigned and quoted",
			key:        OptColor,
			value:      String("125,158,192"),
			wantTokens: []string{`-nj_color="125,158,192"`},
			wantArgs:   []string{"-nj_color=125,158,192"},
		},
		{
			name:       "int is space separated",
			key:        OptPriority,
			value:      Int(5),
			wantTokens: []string{"-nj_priority 5"},
			wantArgs:   []string{"-nj_priority", "5"},
		},
		{
			name:       "float is space separated",
			key:        OptDependency,
			value:      Float(12.5),
			wantTokens: []string{"-nj_dependency 12.5"},
			wantArgs:   []string{"-nj_dependency", "12.5"},
		},
		{
			name:       "pair renders x,y",
			key:        OptSliceMode,
			value:      Pair{X: 2, Y: 4},
			wantTokens: []string{"-nj_slicemode 2,4"},
			wantArgs:   []string{"-nj_slicemode", "2,4"},
		},
		{
			name:  "empty list renders nothing",
			key:   OptPools,
			value: List{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.Translate(tt.key, tt.value)
			if err != nil {
				t.Fatalf("Translate() failed: %v", err)
			}
			if diff := cmp.Diff(tt.wantTokens, got.Tokens); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantArgs, got.Args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTranslateUnknownOption(t *testing.T) {
	logger, _ := test.NewNullLogger()
	tr := NewTranslator(newTestTable(t), logger)

	_, err := tr.Translate("frobnicate", String("x"))
	if !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
}

func TestTranslateAllDropsUnknownOptions(t *testing.T) {
	logger, hook := test.NewNullLogger()
	tr := NewTranslator(newTestTable(t), logger)

	opts := NewOptions().
		Set(OptPriority, Int(3)).
		Set("priorty", Int(9)).
		Set(OptPaused, Bool(false)).
		Set("frobnicate", String("x")).
		Set(OptNotes, String("hello"))

	flags := tr.TranslateAll(opts)

	var keys []OptionKey
	for _, f := range flags {
		keys = append(keys, f.Key)
	}
	if diff := cmp.Diff([]OptionKey{OptPriority, OptNotes}, keys); diff != "" {
		t.Errorf("rendered keys mismatch (-want +got):\n%s", diff)
	}

	var warnings []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings = append(warnings, e.Message)
		}
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "priorty") || !strings.Contains(warnings[0], `"priority"`) {
		t.Errorf("expected a did-you-mean hint for priorty, got %q", warnings[0])
	}
	if !strings.Contains(warnings[1], "frobnicate") || strings.Contains(warnings[1], "did you mean") {
		t.Errorf("unexpected warning for frobnicate: %q", warnings[1])
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{in: "5", want: Int(5)},
		{in: "2.5", want: Float(2.5)},
		{in: "true", want: Bool(true)},
		{in: "False", want: Bool(false)},
		{in: "farm1;farm2", want: List{"farm1", "farm2"}},
		{in: "125,158,192", want: String("125,158,192")},
		{in: "2,1", want: String("2,1")},
		{in: "0", want: Int(0)},
		{in: "0010", want: String("0010")},
		{in: "0.5", want: Float(0.5)},
		{in: "-007", want: String("-007")},
		{in: "0;1", want: List{"0", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseValue(tt.in)); diff != "" {
				t.Errorf("ParseValue(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestZeroPaddedValueKeepsItsDigits(t *testing.T) {
	logger, _ := test.NewNullLogger()
	tr := NewTranslator(newTestTable(t), logger)

	flag, err := tr.Translate(OptNotes, ParseValue("0010"))
	if err != nil {
		t.Fatalf("Translate() failed: %v", err)
	}
	if diff := cmp.Diff([]string{`-nj_notes="0010"`}, flag.Tokens); diff != "" {
		t.Errorf("Translate() tokens mismatch (-want +got):\n%s", diff)
	}
}
