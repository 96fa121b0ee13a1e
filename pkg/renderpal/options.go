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
	"strconv"
	"strings"
)

// OptionKey names a net job option understood by the dispatcher.
type OptionKey string

// Known option keys. The lookup table maps each of them to a dispatcher flag.
const (
	OptImportSet           OptionKey = "import_set"
	OptUserDir             OptionKey = "userdir"
	OptDefSection          OptionKey = "defsection"
	OptLog                 OptionKey = "log"
	OptPreset              OptionKey = "preset"
	OptPriority            OptionKey = "priority"
	OptRenderCores         OptionKey = "rendercores"
	OptNoEmails            OptionKey = "noemails"
	OptEmailUsers          OptionKey = "emailusers"
	OptEmailRecipients     OptionKey = "emailrecpt"
	OptSplitMode           OptionKey = "splitmode"
	OptSliceMode           OptionKey = "slicemode"
	OptExtSplitting        OptionKey = "extsplitting"
	OptNotes               OptionKey = "notes"
	OptTags                OptionKey = "tags"
	OptPools               OptionKey = "pools"
	OptPaused              OptionKey = "paused"
	OptClientLimit         OptionKey = "clientlimit"
	OptMinClientPriority   OptionKey = "minclientpriority"
	OptMinDispatchDelay    OptionKey = "mindispatchdelay"
	OptDependency          OptionKey = "dependency"
	OptDepType             OptionKey = "deptype"
	OptDepUnfinishedAsDone OptionKey = "depunfinishedasdone"
	OptFirstLastFirst      OptionKey = "firstlastfirst"
	OptBlockedClients      OptionKey = "blockedclients"
	OptColor               OptionKey = "color"
	OptUrgent              OptionKey = "urgent"
	OptProject             OptionKey = "project"
	OptOutDir              OptionKey = "outdir"
	OptOutFile             OptionKey = "outfile"
)

var knownKeys = map[OptionKey]bool{
	OptImportSet: true, OptUserDir: true, OptDefSection: true, OptLog: true,
	OptPreset: true, OptPriority: true, OptRenderCores: true, OptNoEmails: true,
	OptEmailUsers: true, OptEmailRecipients: true, OptSplitMode: true, OptSliceMode: true,
	OptExtSplitting: true, OptNotes: true, OptTags: true, OptPools: true,
	OptPaused: true, OptClientLimit: true, OptMinClientPriority: true, OptMinDispatchDelay: true,
	OptDependency: true, OptDepType: true, OptDepUnfinishedAsDone: true, OptFirstLastFirst: true,
	OptBlockedClients: true, OptColor: true, OptUrgent: true, OptProject: true,
	OptOutDir: true, OptOutFile: true,
}

// Known reports whether k is one of the option keys this package defines.
func (k OptionKey) Known() bool {
	return knownKeys[k]
}

// Value is the typed value of an option. The set of implementations is closed.
type Value interface {
	// Text is the plain textual form used when the flag is rendered unquoted.
	Text() string
	isValue()
}

// String is a free-form string value, rendered as flag="value".
type String string

// Bool is a presence flag. True renders the bare flag, false renders nothing.
type Bool bool

// Int is an integral value such as a priority or a job id.
type Int int

// Float is a fractional value.
type Float float64

// List renders one flag per element.
type List []string

// Pair is a coordinate pair, rendered as "x,y".
type Pair struct {
	X, Y float64
}

func (v String) Text() string { return string(v) }
func (v Bool) Text() string   { return strconv.FormatBool(bool(v)) }
func (v Int) Text() string    { return strconv.Itoa(int(v)) }
func (v Float) Text() string  { return strconv.FormatFloat(float64(v), 'f', -1, 64) }
func (v List) Text() string   { return strings.Join(v, ",") }
func (v Pair) Text() string {
	return strconv.FormatFloat(v.X, 'f', -1, 64) + "," + strconv.FormatFloat(v.Y, 'f', -1, 64)
}

func (String) isValue() {}
func (Bool) isValue()   {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (List) isValue()   {}
func (Pair) isValue()   {}

// Option is a single key/value entry.
type Option struct {
	Key   OptionKey
	Value Value
}

// Options is an ordered option set. Iteration order is insertion order and
// duplicate keys are kept; the dispatcher resolves them last-one-wins.
type Options []Option

// NewOptions returns an empty option set.
func NewOptions() Options {
	return Options{}
}

// Set appends key=value and returns the extended set.
func (o Options) Set(key OptionKey, value Value) Options {
	return append(o, Option{Key: key, Value: value})
}

// Get returns the last value set for key.
func (o Options) Get(key OptionKey) (Value, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return nil, false
}

// ParseValue infers a typed value from command-line text. Integers become Int,
// decimals Float, "true"/"false" Bool, "a;b" List, everything else String.
// Zero-padded numbers such as "0010" stay String.
func ParseValue(s string) Value {
	if zeroPadded(s) {
		return String(s)
	}
	if i, err := strconv.Atoi(s); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strings.Contains(s, ".") {
		return Float(f)
	}
	switch strings.ToLower(s) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if strings.Contains(s, ";") {
		var parts List
		for _, p := range strings.Split(s, ";") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		return parts
	}
	return String(s)
}

func zeroPadded(s string) bool {
	digits := strings.TrimLeft(s, "+-")
	return len(digits) > 1 && digits[0] == '0' && digits[1] >= '0' && digits[1] <= '9'
}
