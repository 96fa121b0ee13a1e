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
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"renderpal-toolkit/pkg/logging"
	"renderpal-toolkit/pkg/renderpal"
)

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Lists the job options and the dispatcher flags they map to.",
	Args:  cobra.NoArgs,
	Run:   runFlagsCmd,
}

func init() {
	rootCmd.AddCommand(flagsCmd)
}

func runFlagsCmd(cmd *cobra.Command, args []string) {
	b := loadBundle(loadConfig())
	t, err := b.LookupTable(logging.Default())
	if err != nil {
		logging.Fatal("%v", err)
	}
	tr := renderpal.NewTranslator(t, logging.Discard())

	rows := make([][]string, 0, t.Len())
	for _, key := range t.Keys() {
		flag, _ := t.Flag(key)
		example, err := tr.Translate(key, renderpal.String("value"))
		if err != nil {
			logging.Fatal("%v", err)
		}
		rows = append(rows, []string{string(key), flag, strings.Join(example.Tokens, " ")})
	}
	fmt.Fprintln(os.Stdout, renderTable([]string{"Option", "Flag", "Example"}, rows))
	logging.Debug("Lookup table from %s", b.Location)
}

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
