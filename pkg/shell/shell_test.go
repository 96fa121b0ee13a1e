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

package shell

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExecuteCommand(t *testing.T) {
	skipOnWindows(t)

	tests := []struct {
		name         string
		script       string
		wantExitCode int
		wantStdout   string
		wantStderr   string
	}{
		{name: "success", script: "echo hello", wantExitCode: 0, wantStdout: "hello\n"},
		{name: "exit code", script: "echo oops >&2; exit 7", wantExitCode: 7, wantStderr: "oops\n"},
		{name: "job id style exit", script: "exit 42", wantExitCode: 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ExecuteCommand("sh", "-c", tt.script)
			if res.Err != nil {
				t.Fatalf("unexpected error: %v", res.Err)
			}
			if res.ExitCode != tt.wantExitCode {
				t.Errorf("ExitCode = %d, want %d", res.ExitCode, tt.wantExitCode)
			}
			if res.Stdout != tt.wantStdout {
				t.Errorf("Stdout = %q, want %q", res.Stdout, tt.wantStdout)
			}
			if res.Stderr != tt.wantStderr {
				t.Errorf("Stderr = %q, want %q", res.Stderr, tt.wantStderr)
			}
		})
	}
}

func TestExecuteMissingBinary(t *testing.T) {
	res := ExecuteCommand("definitely-not-a-real-binary-rpal")
	if res.Err == nil {
		t.Fatal("expected an error for a missing binary")
	}
	if res.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", res.ExitCode)
	}
}

func TestNilContextRunsUnbounded(t *testing.T) {
	skipOnWindows(t)

	res := NewCommand("sh", "-c", "exit 3").SetContext(nil).Execute()
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestExecuteContextTimeout(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res := ExecuteCommandContext(ctx, "sleep", "5")
	if res.Err == nil {
		t.Fatal("expected the timeout to surface as an error")
	}
	if !strings.Contains(res.Err.Error(), "deadline") {
		t.Errorf("expected a deadline error, got %v", res.Err)
	}
}
