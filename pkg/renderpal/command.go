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
	"strings"
)

// Fixed dispatcher flags that every submission carries.
const (
	loginFlag    = "-login"
	rendererFlag = "-nj_renderer"
	returnIDFlag = "-retnjid"
	jobNameFlag  = "-nj_name"
)

// Credentials is the dispatcher login pair.
type Credentials struct {
	User   string
	Secret string
}

// ParseCredentials parses "user:secret".
func ParseCredentials(s string) (Credentials, error) {
	user, secret, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || user == "" {
		return Credentials{}, fmt.Errorf("%w: login must have the form \"user:password\"", ErrConfig)
	}
	return Credentials{User: user, Secret: secret}, nil
}

func (c Credentials) String() string {
	return c.User + ":" + c.Secret
}

// Renderer identifies a dispatcher renderer as "Name/Version". An empty
// Version selects the dispatcher's default version.
type Renderer struct {
	Name    string
	Version string
}

// ParseRenderer parses "Name/Version" or a bare "Name".
func ParseRenderer(s string) (Renderer, error) {
	name, version, _ := strings.Cut(strings.TrimSpace(s), "/")
	name = strings.TrimSpace(name)
	if name == "" {
		return Renderer{}, fmt.Errorf("%w: renderer name is empty in %q", ErrConfig, s)
	}
	return Renderer{Name: name, Version: strings.TrimSpace(version)}, nil
}

func (r Renderer) String() string {
	if r.Version == "" {
		return r.Name
	}
	return r.Name + "/" + r.Version
}

// Request describes one job submission. It lives only for the duration of
// the submission call.
type Request struct {
	JobName   string
	InputPath string
	Login     Credentials
	Renderer  Renderer
	Options   Options
}

// Command is an assembled dispatcher invocation.
type Command struct {
	// Tokens is the command line as the dispatcher documents it, beginning
	// with the executable and ending with the bare input path.
	Tokens     []string
	executable string
	args       []string
	secret     string
}

// Executable is the dispatcher binary.
func (c *Command) Executable() string {
	return c.executable
}

// Args is the argument vector passed to the process, without the executable.
func (c *Command) Args() []string {
	return append([]string(nil), c.args...)
}

// String returns the full command line.
func (c *Command) String() string {
	return strings.Join(c.Tokens, " ")
}

// Redacted returns the command line with the login secret masked.
func (c *Command) Redacted() string {
	s := c.String()
	if c.secret == "" {
		return s
	}
	return strings.ReplaceAll(s, ":"+c.secret+`"`, `:****"`)
}

// Assembler builds dispatcher command lines.
type Assembler struct {
	executable string
	translator *Translator
}

// NewAssembler returns an assembler for the dispatcher at executable.
func NewAssembler(executable string, translator *Translator) *Assembler {
	return &Assembler{executable: executable, translator: translator}
}

// Assemble builds the command for req. Option values are not range-checked;
// the dispatcher rejects what it does not accept.
func (a *Assembler) Assemble(req Request) (*Command, error) {
	if strings.TrimSpace(a.executable) == "" {
		return nil, fmt.Errorf("%w: dispatcher executable is not set", ErrConfig)
	}
	if strings.TrimSpace(req.JobName) == "" {
		return nil, fmt.Errorf("%w: job name is required", ErrConfig)
	}
	if strings.TrimSpace(req.InputPath) == "" {
		return nil, fmt.Errorf("%w: input path is required", ErrConfig)
	}
	if req.Renderer.Name == "" {
		return nil, fmt.Errorf("%w: renderer is required", ErrConfig)
	}

	cmd := &Command{executable: a.executable, secret: req.Login.Secret}
	cmd.Tokens = []string{
		a.executable,
		fmt.Sprintf(`%s="%s"`, loginFlag, req.Login),
		fmt.Sprintf(`%s="%s"`, rendererFlag, req.Renderer),
		returnIDFlag,
		fmt.Sprintf(`%s="%s"`, jobNameFlag, req.JobName),
	}
	cmd.args = []string{
		loginFlag + "=" + req.Login.String(),
		rendererFlag + "=" + req.Renderer.String(),
		returnIDFlag,
		jobNameFlag + "=" + req.JobName,
	}

	for _, f := range a.translator.TranslateAll(req.Options) {
		cmd.Tokens = append(cmd.Tokens, f.Tokens...)
		cmd.args = append(cmd.args, f.Args...)
	}

	cmd.Tokens = append(cmd.Tokens, req.InputPath)
	cmd.args = append(cmd.args, req.InputPath)
	return cmd, nil
}
