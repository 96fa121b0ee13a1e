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
	"os"
	"os/exec"
	"strings"
)

// DefaultExecutable is where the dispatcher's command-line client installs
// on the farm workstations.
const DefaultExecutable = `C:\Program Files (x86)\RenderPal V2\CmdRC\RpRcCmd.exe`

// ExecutableEnv overrides the dispatcher location.
const ExecutableEnv = "RENDERPAL_CMD"

// Locate resolves the dispatcher binary: an explicit path wins, then
// $RENDERPAL_CMD, then RpRcCmd on PATH, then DefaultExecutable.
func Locate(configured string) string {
	if p := strings.TrimSpace(configured); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(ExecutableEnv)); p != "" {
		return p
	}
	for _, name := range []string{"RpRcCmd", "RpRcCmd.exe"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return DefaultExecutable
}

// Validate reports option values the dispatcher is documented to reject.
// Assemble does not call it.
func Validate(opts Options) []error {
	var errs []error
	hasDependency, hasDepType := false, false
	for _, opt := range opts {
		if opt.Value == nil {
			continue
		}
		switch opt.Key {
		case OptPriority:
			if n, ok := opt.Value.(Int); !ok || n < 1 || n > 10 {
				errs = append(errs, fmt.Errorf("priority must be an integer between 1 and 10, got %s", opt.Value.Text()))
			}
		case OptDepType:
			hasDepType = true
			if n, ok := opt.Value.(Int); !ok || n < 0 || n > 3 {
				errs = append(errs, fmt.Errorf("deptype must be 0 (job), 1 (chunks), 2 (frames) or 3 (slices), got %s", opt.Value.Text()))
			}
		case OptDependency:
			hasDependency = true
		}
	}
	if hasDependency && !hasDepType {
		errs = append(errs, fmt.Errorf("dependency is set but deptype is not"))
	}
	return errs
}
