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
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"renderpal-toolkit/pkg/config"
	"renderpal-toolkit/pkg/logging"
	"renderpal-toolkit/pkg/orchestrator"
	"renderpal-toolkit/pkg/orchestrator/farm"
	"renderpal-toolkit/pkg/scene"
)

var (
	sceneFile   string
	assumeYes   bool
	skipPublish bool
	priority    int
	pools       []string
)

func init() {
	for _, c := range []*cobra.Command{submitShotCmd, submitAssetCmd} {
		submitCmd.AddCommand(c)
		c.Flags().StringVarP(&sceneFile, "scene", "s", "", "Scene description (YAML) exported from the host application. Required.")
		c.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Answer every question with its default.")
		c.Flags().BoolVar(&skipPublish, "skip-publish", false, "Stop the chain after the conversion job.")
		c.Flags().IntVar(&priority, "priority", 0, "Job priority (1-10). Defaults to the pipeline configuration.")
		c.Flags().StringSliceVar(&pools, "pool", nil, "Client pool to render on. Repeatable. Defaults to the pipeline configuration.")
		_ = c.MarkFlagRequired("scene")
	}
}

var submitShotCmd = &cobra.Command{
	Use:   "shot",
	Short: "Submits the render, conversion and publish chain of a shot.",
	Long: `The 'shot' command checks the scene against the pipeline layout, writes the
render, conversion and publish sets and submits them as dependent jobs: the
conversion waits for the render and the publish waits for the conversion.`,
	Args:         cobra.NoArgs,
	Run:          runSubmitChainCmd(orchestrator.Shot),
	SilenceUsage: true,
}

var submitAssetCmd = &cobra.Command{
	Use:          "asset",
	Short:        "Submits the turntable chain of an asset.",
	Args:         cobra.NoArgs,
	Run:          runSubmitChainCmd(orchestrator.Asset),
	SilenceUsage: true,
}

func runSubmitChainCmd(kind orchestrator.EntityKind) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		logging.Info("Executing rpal submit %s command...", kind)

		sub, err := newSubmission()
		if err != nil {
			logging.Fatal("%v", err)
		}
		cfg := sub.cfg
		if err := cfg.Validate(); err != nil {
			logging.Fatal("%v", err)
		}

		fs := afero.NewOsFs()
		sc, err := scene.LoadFileContext(fs, sceneFile)
		if err != nil {
			logging.Fatal("%v", err)
		}
		var prompter scene.Prompter = scene.NewStdinPrompter(os.Stdin, os.Stderr)
		if assumeYes {
			prompter = scene.AutoPrompter{}
		}
		checker := &scene.Checker{
			Fs:             fs,
			Prompter:       prompter,
			CameraPatterns: cfg.Scene.CameraPatterns,
			Log:            logging.Default(),
		}

		jobDef, err := jobDefinition(cfg, kind, fs)
		if err != nil {
			logging.Fatal("%v", err)
		}

		orch := farm.NewOrchestrator(sc, checker, sub.sets, sub.assembler, sub.runner,
			farm.WithFs(fs), farm.WithLogger(logging.Default()))
		res, err := orch.SubmitJob(context.Background(), jobDef)
		printChain(res)
		if err != nil {
			logging.Fatal("rpal submit %s failed: %v", kind, err)
		}
	}
}

// jobDefinition builds the chain parameters from the pipeline configuration
// and the command line.
func jobDefinition(cfg *config.Config, kind orchestrator.EntityKind, fs afero.Fs) (orchestrator.JobDefinition, error) {
	rp := cfg.RenderPal
	publishRenderer, publishScript := rp.Renderers.PublishShot, cfg.Scripts.PublishShot
	if kind == orchestrator.Asset {
		publishRenderer, publishScript = rp.Renderers.PublishAsset, cfg.Scripts.PublishAsset
	}
	job := orchestrator.JobDefinition{
		Kind:            kind,
		Login:           parseLogin(rp.Login),
		RenderRenderer:  parseRenderer("render", rp.Renderers.Render),
		ConvertRenderer: parseRenderer("convert", rp.Renderers.Convert),
		PublishRenderer: parseRenderer("publish", publishRenderer),
		Project:         rp.Project,
		Color:           rp.Color,
		SplitMode:       rp.SplitMode,
		Priority:        rp.Priority,
		Pools:           rp.Pools,
		DriveRoot:       cfg.Paths.DriveRoot,
		RendersetsDir:   cfg.Paths.RendersetsDir,
		PipelineDir:     cfg.Dir,
		GazuRoot:        cfg.Paths.GazuRoot,
		ConvertScript:   cfg.Scripts.Convert,
		PublishScript:   publishScript,
		Colorspace:      cfg.Scene.Colorspace,
		SkipPublish:     skipPublish,
	}
	if priority > 0 {
		job.Priority = priority
	}
	if len(pools) > 0 {
		job.Pools = pools
	}
	if skipPublish {
		return job, nil
	}
	users, err := config.LoadUserMapping(fs, cfg.PipelinePath(cfg.Paths.UserMapping))
	if err != nil {
		return job, err
	}
	job.Users = users
	return job, nil
}

func printChain(res orchestrator.ChainResult) {
	for _, j := range res.Jobs {
		id, err := j.Result.ID()
		state := color.YellowString("not submitted")
		if err == nil {
			state = color.GreenString("%d", id)
		}
		fmt.Fprintf(os.Stdout, "%-8s %-50s %s\n", j.Step, j.Name, state)
	}
	if res.Planned > 0 && !res.Complete() && !dryRun {
		fmt.Fprintln(os.Stdout, color.RedString("Couldn't submit all jobs"))
	}
}
