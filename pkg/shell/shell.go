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

// Package shell runs external executables and captures their output.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// CommandResult holds the outcome of a finished process.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	// Err is set when the process could not be started or was interrupted.
	// ExitCode is -1 in that case.
	Err error
}

// Command describes a process to run.
type Command struct {
	ctx  context.Context
	name string
	args []string
}

// NewCommand prepares a command without running it.
func NewCommand(name string, args ...string) *Command {
	return &Command{ctx: context.Background(), name: name, args: args}
}

// SetContext bounds the command's lifetime to ctx.
func (c *Command) SetContext(ctx context.Context) *Command {
	if ctx != nil {
		c.ctx = ctx
	}
	return c
}

// Execute runs the command and blocks until it exits.
func (c *Command) Execute() CommandResult {
	cmd := exec.CommandContext(c.ctx, c.name, c.args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if ctxErr := c.ctx.Err(); ctxErr != nil {
			res.Err = ctxErr
		} else if res.ExitCode < 0 {
			res.Err = err
		}
		return res
	}
	res.ExitCode = -1
	res.Err = err
	return res
}

// ExecuteCommand runs name with args and returns its result.
func ExecuteCommand(name string, args ...string) CommandResult {
	return NewCommand(name, args...).Execute()
}

// ExecuteCommandContext is ExecuteCommand bounded by ctx.
func ExecuteCommandContext(ctx context.Context, name string, args ...string) CommandResult {
	return NewCommand(name, args...).SetContext(ctx).Execute()
}
