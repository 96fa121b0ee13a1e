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
	"context"

	"github.com/spf13/cobra"

	"renderpal-toolkit/pkg/imgconvert"
	"renderpal-toolkit/pkg/logging"
)

var (
	convertExecutable string
	convertScript     string
)

var imgconvertCmd = &cobra.Command{
	Use:   "imgconvert IN_PATTERN OUT_FILE START END",
	Short: "Converts a rendered frame sequence into a movie.",
	Long: `The 'imgconvert' command runs the conversion script with the compositing
application in terminal mode. START and END are frame tokens as written into
conversion sets, e.g. frame1001.`,
	Args: checkArgs(4),
	Run:  runImgconvertCmd,
}

func init() {
	rootCmd.AddCommand(imgconvertCmd)
	imgconvertCmd.Flags().StringVar(&convertExecutable, "executable", "", "Compositing executable. Defaults to the pipeline configuration.")
	imgconvertCmd.Flags().StringVar(&convertScript, "script", "", "Conversion script. Defaults to the pipeline configuration.")
}

func runImgconvertCmd(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	first, err := imgconvert.ParseFrameToken(args[2])
	if err != nil {
		logging.Fatal("%v", err)
	}
	last, err := imgconvert.ParseFrameToken(args[3])
	if err != nil {
		logging.Fatal("%v", err)
	}

	c := &imgconvert.Converter{
		Executable: cfg.Convert.Executable,
		Args:       cfg.Convert.Args,
		Script:     cfg.Scripts.Convert,
		Log:        logging.Default(),
	}
	if convertExecutable != "" {
		c.Executable = convertExecutable
	}
	if convertScript != "" {
		c.Script = convertScript
	}
	err = c.Convert(context.Background(), imgconvert.Request{
		InPattern: args[0],
		OutFile:   args[1],
		First:     first,
		Last:      last,
	})
	if err != nil {
		logging.Fatal("%v", err)
	}
}
