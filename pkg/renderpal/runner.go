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
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"renderpal-toolkit/pkg/logging"
	"renderpal-toolkit/pkg/shell"
)

// FailureExitCode is the exit status the dispatcher uses for a rejected
// submission.
const FailureExitCode = 1

// MaxJobID is the largest job id that survives the exit status channel on
// hosts that truncate exit statuses.
//
// The dispatcher returns the new job's id as its exit status when asked to
// with -retnjid. Windows keeps the full 32-bit status; POSIX hosts keep eight
// bits, so an id at or above MaxJobID there may have wrapped. A job id of 1
// cannot be told apart from FailureExitCode anywhere.
const MaxJobID = 255

// exitStatusTruncated reports whether the host cuts exit statuses to eight bits.
var exitStatusTruncated = runtime.GOOS != "windows"

// Executor runs a process to completion.
type Executor interface {
	Execute(ctx context.Context, executable string, args []string) shell.CommandResult
}

// ShellExecutor runs processes through package shell.
type ShellExecutor struct{}

// Execute implements Executor.
func (ShellExecutor) Execute(ctx context.Context, executable string, args []string) shell.CommandResult {
	return shell.ExecuteCommandContext(ctx, executable, args...)
}

// Result is the outcome of a submission.
type Result struct {
	Submitted bool
	JobID     int
	Stdout    string
	Stderr    string
}

// NotSubmitted is the result of a dry run.
var NotSubmitted = Result{}

// ID returns the job id, or ErrNotSubmitted when nothing was submitted.
func (r Result) ID() (int, error) {
	if !r.Submitted {
		return 0, ErrNotSubmitted
	}
	return r.JobID, nil
}

// Runner submits assembled commands to the dispatcher.
type Runner struct {
	exec    Executor
	log     logging.Logger
	dryRun  bool
	timeout time.Duration
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithExecutor replaces the process executor.
func WithExecutor(e Executor) RunnerOption {
	return func(r *Runner) {
		if e != nil {
			r.exec = e
		}
	}
}

// WithLogger sets the runner's logger.
func WithLogger(l logging.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithDryRun logs commands instead of running them.
func WithDryRun(dryRun bool) RunnerOption {
	return func(r *Runner) { r.dryRun = dryRun }
}

// WithTimeout bounds each submission. Zero waits indefinitely.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.timeout = d }
}

// NewRunner returns a runner that executes through the shell by default.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{exec: ShellExecutor{}, log: logging.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DryRun reports whether the runner only logs commands.
func (r *Runner) DryRun() bool {
	return r.dryRun
}

// Submit runs cmd and interprets the dispatcher's exit status. A failed
// submission is never retried.
func (r *Runner) Submit(ctx context.Context, jobName string, cmd *Command) (Result, error) {
	r.log.Infof("Submitting to Renderpal with: %s", cmd.Redacted())

	if r.dryRun {
		r.log.Infof("Dry Run enabled, not submitting %s to Renderpal", jobName)
		return NotSubmitted, nil
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	res := r.exec.Execute(ctx, cmd.Executable(), cmd.Args())
	out := Result{Stdout: res.Stdout, Stderr: res.Stderr}

	if res.Err != nil {
		return out, fmt.Errorf("failed to run dispatcher for %s: %w", jobName, res.Err)
	}
	if res.ExitCode == FailureExitCode {
		detail := strings.TrimSpace(res.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(res.Stdout)
		}
		r.log.Errorf("Submission of %s failed with %s", jobName, detail)
		return out, fmt.Errorf("%w: %s: dispatcher exited with code %d: %s", ErrSubmissionFailed, jobName, res.ExitCode, detail)
	}
	if res.ExitCode < 0 {
		return out, fmt.Errorf("failed to run dispatcher for %s: exit code %d", jobName, res.ExitCode)
	}

	out.Submitted = true
	out.JobID = res.ExitCode
	if exitStatusTruncated && out.JobID >= MaxJobID {
		r.log.Warnf("Job id %d of %s is at the exit status limit and may be truncated", out.JobID, jobName)
	}
	r.log.Infof("Submitted %s (id: %d)", jobName, out.JobID)
	return out, nil
}
