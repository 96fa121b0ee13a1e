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

package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type plainLogger struct{ lines []string }

func (p *plainLogger) Debugf(format string, args ...interface{}) { p.lines = append(p.lines, format) }
func (p *plainLogger) Infof(format string, args ...interface{})  { p.lines = append(p.lines, format) }
func (p *plainLogger) Warnf(format string, args ...interface{})  { p.lines = append(p.lines, format) }
func (p *plainLogger) Errorf(format string, args ...interface{}) { p.lines = append(p.lines, format) }

func TestConfigure(t *testing.T) {
	defer func() { _ = Configure("info", "text") }()

	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "text debug", level: "debug", format: "text"},
		{name: "json warn", level: "warn", format: "json"},
		{name: "empty format", level: "info", format: ""},
		{name: "bad level", level: "loud", format: "text", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Configure(tt.level, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Configure(%q, %q) error = %v, wantErr %v", tt.level, tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestWithFields(t *testing.T) {
	logger, hook := test.NewNullLogger()

	WithFields(logger, map[string]interface{}{"run": "abc"}).Infof("submitted %d", 3)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Data["run"] != "abc" {
		t.Errorf("expected field run=abc, got %v", entry.Data)
	}
	if entry.Message != "submitted 3" {
		t.Errorf("unexpected message %q", entry.Message)
	}
}

func TestWithFieldsPlainLogger(t *testing.T) {
	p := &plainLogger{}
	got := WithFields(p, map[string]interface{}{"run": "abc"})
	if got != Logger(p) {
		t.Errorf("expected the plain logger to be returned unchanged")
	}
}

func TestFatalExits(t *testing.T) {
	code := -1
	oldExit := exitFunc
	exitFunc = func(c int) { code = c }
	defer func() { exitFunc = oldExit }()

	hook := test.NewLocal(std)
	Fatal("boom %s", "now")

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if entry := hook.LastEntry(); entry == nil || entry.Level != logrus.ErrorLevel {
		t.Errorf("expected an error entry, got %v", entry)
	}
}
