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
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"renderpal-toolkit/pkg/logging"
	"renderpal-toolkit/pkg/renderpal"
	"renderpal-toolkit/pkg/renderset"
)

var (
	jobName     string
	jobInput    string
	jobRenderer string
	jobLogin    string
	jobOptions  = renderpal.NewOptions()
	jobSet      string
	jobSetDest  string
	jobSetVals  = renderset.Values{}
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submits jobs to the render farm.",
}

var submitJobCmd = &cobra.Command{
	Use:   "job",
	Short: "Submits a single job.",
	Long: `The 'job' command submits one job to the dispatcher. Options are given as
repeated --option key=value flags and rendered through the flag lookup table in
the order given. With --set a set file is rendered first and imported by the job.

Prints the job id on success.`,
	Args:         cobra.NoArgs,
	Run:          runSubmitJobCmd,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.AddCommand(submitJobCmd)

	submitJobCmd.Flags().StringVarP(&jobName, "name", "n", "", "Job name. Required.")
	submitJobCmd.Flags().StringVarP(&jobInput, "input", "i", "", "Scene or input path passed to the renderer. Required.")
	submitJobCmd.Flags().StringVarP(&jobRenderer, "renderer", "r", "", `Renderer as "Name/Version". Required.`)
	submitJobCmd.Flags().StringVar(&jobLogin, "login", "", `Dispatcher login as "user:password". Defaults to the pipeline configuration.`)
	submitJobCmd.Flags().VarP(newOptionsValue(&jobOptions), "option", "o", "Job option as key=value. Repeatable; lists use ';' between elements.")
	submitJobCmd.Flags().StringVar(&jobSet, "set", "", "Set template to render and import (e.g. shot_renderset).")
	submitJobCmd.Flags().StringVar(&jobSetDest, "set-dest", "", "Destination of the rendered set. Defaults to the pipeline rendersets directory.")
	submitJobCmd.Flags().Var(newValuesValue(jobSetVals), "set-value", "Set placeholder value as name=text. Repeatable.")

	_ = submitJobCmd.MarkFlagRequired("name")
	_ = submitJobCmd.MarkFlagRequired("input")
	_ = submitJobCmd.MarkFlagRequired("renderer")
}

func runSubmitJobCmd(cmd *cobra.Command, args []string) {
	sub, err := newSubmission()
	if err != nil {
		logging.Fatal("%v", err)
	}
	if jobLogin == "" {
		jobLogin = sub.cfg.RenderPal.Login
	}

	opts := jobOptions
	if jobSet != "" {
		dest := jobSetDest
		if dest == "" {
			dest = path.Join(slashPath(sub.cfg.Paths.RendersetsDir), fmt.Sprintf("%s_%s%s", jobSet, jobName, renderset.Extension))
		}
		written, err := sub.sets.Write(jobSet, dest, jobSetVals)
		if err != nil {
			logging.Fatal("Failed to render set: %v", err)
		}
		opts = append(renderpal.NewOptions().Set(renderpal.OptImportSet, renderpal.String(written)), opts...)
	}
	for _, problem := range renderpal.Validate(opts) {
		logging.Warn("%v", problem)
	}

	command, err := sub.assembler.Assemble(renderpal.Request{
		JobName:   jobName,
		InputPath: jobInput,
		Login:     parseLogin(jobLogin),
		Renderer:  parseRenderer("job", jobRenderer),
		Options:   opts,
	})
	if err != nil {
		logging.Fatal("%v", err)
	}

	res, err := sub.runner.Submit(context.Background(), jobName, command)
	if err != nil {
		if errors.Is(err, renderpal.ErrSubmissionFailed) {
			logging.Fatal("Submission rejected: %v", err)
		}
		logging.Fatal("%v", err)
	}
	id, err := res.ID()
	if err != nil {
		fmt.Fprintln(os.Stdout, color.YellowString("not submitted (dry run)"))
		return
	}
	fmt.Fprintln(os.Stdout, color.GreenString("%d", id))
}
