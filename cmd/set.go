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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"renderpal-toolkit/pkg/logging"
	"renderpal-toolkit/pkg/renderset"
)

var (
	setValues = renderset.Values{}
	setStdout bool
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Works with set templates.",
}

var setRenderCmd = &cobra.Command{
	Use:   "render KIND [DEST]",
	Short: "Renders a set template to a file.",
	Long: `The 'render' command fills the placeholders of a set template with the
given --value flags and writes the result to DEST. Every placeholder needs a
value; nothing is written otherwise.`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runSetRenderCmd,
}

var setKindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "Lists the available set templates and their placeholders.",
	Args:  cobra.NoArgs,
	Run:   runSetKindsCmd,
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.AddCommand(setRenderCmd, setKindsCmd)

	setRenderCmd.Flags().Var(newValuesValue(setValues), "value", "Placeholder value as name=text. Repeatable.")
	setRenderCmd.Flags().BoolVar(&setStdout, "stdout", false, "Print the rendered set instead of writing it.")
}

func runSetRenderCmd(cmd *cobra.Command, args []string) {
	b := loadBundle(loadConfig())
	r := b.Renderer(renderset.WithLogger(logging.Default()))
	kind := args[0]

	if setStdout || len(args) == 1 {
		out, err := r.Render(kind, setValues)
		if err != nil {
			logging.Fatal("%v", err)
		}
		fmt.Fprint(os.Stdout, string(out))
		return
	}
	dest, err := r.Write(kind, args[1], setValues)
	if err != nil {
		logging.Fatal("%v", err)
	}
	logging.Info("Wrote %s set to %s", kind, dest)
}

func runSetKindsCmd(cmd *cobra.Command, args []string) {
	b := loadBundle(loadConfig())
	r := b.Renderer()
	kinds, err := r.Kinds()
	if err != nil {
		logging.Fatal("%v", err)
	}
	rows := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		t, err := r.Load(k)
		if err != nil {
			logging.Fatal("%v", err)
		}
		rows = append(rows, []string{k, joinNames(t.Placeholders())})
	}
	fmt.Fprintln(os.Stdout, renderTable([]string{"Kind", "Placeholders"}, rows))
}
