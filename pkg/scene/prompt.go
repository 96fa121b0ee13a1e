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

package scene

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// StdinPrompter asks questions on a terminal. An empty answer picks the
// first button; a number picks the button at that position.
type StdinPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStdinPrompter reads answers from in and writes questions to out.
func NewStdinPrompter(in io.Reader, out io.Writer) *StdinPrompter {
	return &StdinPrompter{in: bufio.NewReader(in), out: out}
}

func (p *StdinPrompter) Confirm(title, message string, buttons []string) string {
	if len(buttons) == 0 {
		return ""
	}
	title = color.New(color.Bold, color.FgYellow).Sprint(title)
	for {
		fmt.Fprintf(p.out, "%s\n%s\n", title, message)
		for i, b := range buttons {
			fmt.Fprintf(p.out, "  [%d] %s\n", i+1, b)
		}
		fmt.Fprintf(p.out, "choice [%s]: ", buttons[0])

		line, err := p.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer == "" {
			return buttons[0]
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(buttons) {
			return buttons[n-1]
		}
		for _, b := range buttons {
			if strings.EqualFold(b, answer) {
				return b
			}
		}
		if err != nil {
			return buttons[0]
		}
		fmt.Fprintf(p.out, "%s\n", color.RedString("unknown choice %q", answer))
	}
}

// AutoPrompter answers without interaction: the configured answer for a
// title if any, else the first button.
type AutoPrompter struct {
	Answers map[string]string
}

func (p AutoPrompter) Confirm(title, _ string, buttons []string) string {
	if a, ok := p.Answers[title]; ok {
		return a
	}
	if len(buttons) == 0 {
		return ""
	}
	return buttons[0]
}
