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

// Package imgconvert converts a rendered frame sequence into a movie with a
// compositing application run in terminal mode.
package imgconvert

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"renderpal-toolkit/pkg/logging"
	"renderpal-toolkit/pkg/shell"
)

// FrameToken formats frame n the way set files pass frames ("frame1001").
func FrameToken(n int) string {
	return fmt.Sprintf("frame%d", n)
}

// ParseFrameToken returns the frame number at the end of tok. At most the
// last four digits are significant.
func ParseFrameToken(tok string) (int, error) {
	i := len(tok)
	for i > 0 && tok[i-1] >= '0' && tok[i-1] <= '9' {
		i--
	}
	digits := tok[i:]
	if digits == "" {
		return 0, fmt.Errorf("frame token %q has no frame number", tok)
	}
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("failed to parse frame token %q: %w", tok, err)
	}
	return n, nil
}

// Request describes one conversion.
type Request struct {
	InPattern string
	OutFile   string
	First     int
	Last      int
}

// RunFunc runs an external command.
type RunFunc func(ctx context.Context, name string, args ...string) shell.CommandResult

// Converter runs the conversion script with the compositing executable.
type Converter struct {
	Executable string
	Args       []string
	Script     string
	Run        RunFunc
	Log        logging.Logger
}

// args returns the full argument list for req.
func (c *Converter) args(req Request) []string {
	args := append([]string{}, c.Args...)
	return append(args,
		c.Script,
		strings.ReplaceAll(req.InPattern, `\`, "/"),
		strings.ReplaceAll(req.OutFile, `\`, "/"),
		FrameToken(req.First),
		FrameToken(req.Last),
	)
}

// Convert runs the conversion and waits for it to finish.
func (c *Converter) Convert(ctx context.Context, req Request) error {
	if c.Executable == "" || c.Script == "" {
		return fmt.Errorf("converter requires an executable and a script")
	}
	if req.InPattern == "" || req.OutFile == "" {
		return fmt.Errorf("conversion requires an input pattern and an output file")
	}
	if req.Last < req.First {
		return fmt.Errorf("invalid frame range %d-%d", req.First, req.Last)
	}
	log := logging.OrDefault(c.Log)
	run := c.Run
	if run == nil {
		run = shell.ExecuteCommandContext
	}

	log.Infof("Reading frames from %s", req.InPattern)
	log.Infof("Using frames %d to %d", req.First, req.Last)
	log.Infof("Writing frames to %s", req.OutFile)

	res := run(ctx, c.Executable, c.args(req)...)
	if res.Err != nil {
		return fmt.Errorf("failed to run %s: %w", c.Executable, res.Err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("conversion failed with exit code %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	log.Infof("Converted %s", req.OutFile)
	return nil
}
