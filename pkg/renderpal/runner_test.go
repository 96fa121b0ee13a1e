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
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	gc "gopkg.in/check.v1"

	"renderpal-toolkit/pkg/shell"
)

func Test(t *testing.T) { gc.TestingT(t) }

type fakeExecutor struct {
	result   shell.CommandResult
	calls    int
	exe      string
	args     []string
	deadline bool
}

func (f *fakeExecutor) Execute(ctx context.Context, executable string, args []string) shell.CommandResult {
	f.calls++
	f.exe = executable
	f.args = args
	_, f.deadline = ctx.Deadline()
	return f.result
}

type RunnerSuite struct {
	exec *fakeExecutor
	hook *test.Hook
	cmd  *Command
	log  *logrus.Logger
}

var _ = gc.Suite(&RunnerSuite{})

func (s *RunnerSuite) SetUpTest(c *gc.C) {
	s.exec = &fakeExecutor{}
	s.log, s.hook = test.NewNullLogger()
	table, err := NewLookupTable(map[string]string{"priority": "-nj_priority"}, s.log)
	c.Assert(err, gc.IsNil)
	s.cmd, err = NewAssembler(testExe, NewTranslator(table, s.log)).Assemble(Request{
		JobName:   "Robo_sh010_lighting_v0003_jdoe",
		InputPath: "/scenes/a.ma",
		Login:     Credentials{User: "u", Secret: "p"},
		Renderer:  Renderer{Name: "Arnold", Version: "2024"},
		Options:   NewOptions().Set(OptPriority, Int(5)),
	})
	c.Assert(err, gc.IsNil)
}

func (s *RunnerSuite) runner(opts ...RunnerOption) *Runner {
	return NewRunner(append([]RunnerOption{WithExecutor(s.exec), WithLogger(s.log)}, opts...)...)
}

func (s *RunnerSuite) TestDryRunSpawnsNothing(c *gc.C) {
	res, err := s.runner(WithDryRun(true)).Submit(context.Background(), "job", s.cmd)
	c.Assert(err, gc.IsNil)
	c.Check(res, gc.DeepEquals, NotSubmitted)
	c.Check(s.exec.calls, gc.Equals, 0)

	_, err = res.ID()
	c.Check(errors.Is(err, ErrNotSubmitted), gc.Equals, true)
}

func (s *RunnerSuite) TestExitCodeIsJobID(c *gc.C) {
	s.exec.result = shell.CommandResult{ExitCode: 42}

	res, err := s.runner().Submit(context.Background(), "job", s.cmd)
	c.Assert(err, gc.IsNil)
	c.Check(res.Submitted, gc.Equals, true)
	c.Check(res.JobID, gc.Equals, 42)
	c.Check(s.exec.exe, gc.Equals, testExe)
	c.Check(s.exec.args, gc.DeepEquals, s.cmd.Args())

	id, err := res.ID()
	c.Check(err, gc.IsNil)
	c.Check(id, gc.Equals, 42)
}

func (s *RunnerSuite) TestExitCodeZeroIsJobIDZero(c *gc.C) {
	s.exec.result = shell.CommandResult{ExitCode: 0}

	res, err := s.runner().Submit(context.Background(), "job", s.cmd)
	c.Assert(err, gc.IsNil)
	c.Check(res.Submitted, gc.Equals, true)
	c.Check(res.JobID, gc.Equals, 0)
}

func (s *RunnerSuite) TestFailureExitCode(c *gc.C) {
	s.exec.result = shell.CommandResult{ExitCode: FailureExitCode, Stderr: "Login failed\n"}

	res, err := s.runner().Submit(context.Background(), "job", s.cmd)
	c.Assert(err, gc.NotNil)
	c.Check(errors.Is(err, ErrSubmissionFailed), gc.Equals, true)
	c.Check(err, gc.ErrorMatches, ".*Login failed.*")
	c.Check(res.Submitted, gc.Equals, false)

	last := s.hook.LastEntry()
	c.Assert(last, gc.NotNil)
	c.Check(last.Level, gc.Equals, logrus.ErrorLevel)
	c.Check(last.Message, gc.Matches, ".*Login failed.*")
}

// A job id of 1 travels on the same channel as the failure status and is
// always read as a failure.
func (s *RunnerSuite) TestJobIDOneIsAmbiguous(c *gc.C) {
	s.exec.result = shell.CommandResult{ExitCode: 1}

	res, err := s.runner().Submit(context.Background(), "job", s.cmd)
	c.Check(errors.Is(err, ErrSubmissionFailed), gc.Equals, true)
	_, idErr := res.ID()
	c.Check(idErr, gc.NotNil)
}

func (s *RunnerSuite) TestFailureFallsBackToStdout(c *gc.C) {
	s.exec.result = shell.CommandResult{ExitCode: FailureExitCode, Stdout: "Unknown renderer"}

	_, err := s.runner().Submit(context.Background(), "job", s.cmd)
	c.Check(err, gc.ErrorMatches, ".*Unknown renderer.*")
}

func (s *RunnerSuite) TestSpawnError(c *gc.C) {
	s.exec.result = shell.CommandResult{ExitCode: -1, Err: errors.New("executable file not found")}

	res, err := s.runner().Submit(context.Background(), "job", s.cmd)
	c.Check(err, gc.ErrorMatches, ".*executable file not found.*")
	c.Check(errors.Is(err, ErrSubmissionFailed), gc.Equals, false)
	c.Check(res.Submitted, gc.Equals, false)
}

func (s *RunnerSuite) TestTimeoutSetsDeadline(c *gc.C) {
	s.exec.result = shell.CommandResult{ExitCode: 7}

	_, err := s.runner(WithTimeout(time.Minute)).Submit(context.Background(), "job", s.cmd)
	c.Assert(err, gc.IsNil)
	c.Check(s.exec.deadline, gc.Equals, true)
}

func (s *RunnerSuite) TestSecretNotLogged(c *gc.C) {
	s.exec.result = shell.CommandResult{ExitCode: 9}
	s.cmd.secret = "hunter2"
	s.cmd.Tokens[1] = `-login="u:hunter2"`

	_, err := s.runner().Submit(context.Background(), "job", s.cmd)
	c.Assert(err, gc.IsNil)
	for _, e := range s.hook.AllEntries() {
		c.Check(e.Message, gc.Not(gc.Matches), ".*hunter2.*")
	}
}

func (s *RunnerSuite) TestHighJobIDWarnsWhenStatusIsTruncated(c *gc.C) {
	defer func(v bool) { exitStatusTruncated = v }(exitStatusTruncated)
	exitStatusTruncated = true
	s.exec.result = shell.CommandResult{ExitCode: MaxJobID}

	res, err := s.runner().Submit(context.Background(), "job", s.cmd)
	c.Assert(err, gc.IsNil)
	c.Check(res.JobID, gc.Equals, MaxJobID)

	warned := false
	for _, e := range s.hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
			c.Check(e.Message, gc.Matches, ".*255.*truncated.*")
		}
	}
	c.Check(warned, gc.Equals, true)
}

func (s *RunnerSuite) TestHighJobIDIsQuietWithFullExitStatus(c *gc.C) {
	defer func(v bool) { exitStatusTruncated = v }(exitStatusTruncated)
	exitStatusTruncated = false
	s.exec.result = shell.CommandResult{ExitCode: 4096}

	res, err := s.runner().Submit(context.Background(), "job", s.cmd)
	c.Assert(err, gc.IsNil)
	c.Check(res.JobID, gc.Equals, 4096)
	for _, e := range s.hook.AllEntries() {
		c.Check(e.Level, gc.Not(gc.Equals), logrus.WarnLevel)
	}
}
