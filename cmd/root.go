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

// Package cmd defines the rpal command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"renderpal-toolkit/pkg/bundle"
	"renderpal-toolkit/pkg/config"
	"renderpal-toolkit/pkg/logging"
	"renderpal-toolkit/pkg/renderpal"
	"renderpal-toolkit/pkg/renderset"
)

var (
	configPath   string
	resourcesDir string
	logLevel     string
	logFormat    string
	envFiles     []string
	dryRun       bool
)

var rootCmd = &cobra.Command{
	Use:   "rpal",
	Short: "Submits render jobs to a RenderPal farm.",
	Long: `rpal assembles RenderPal command lines from named job options, renders set
files from templates and submits jobs, alone or as render, conversion and
publish chains.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.LoadDotEnv(envFiles...); err != nil {
			logging.Fatal("%v", err)
		}
		if err := logging.Configure(logLevel, logFormat); err != nil {
			logging.Fatal("%v", err)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to pipeline.yaml. Defaults to $"+config.PipelineConfigEnv+"/"+config.FileName+".")
	rootCmd.PersistentFlags().StringVar(&resourcesDir, "resources", "", "Directory holding flag_lookup.json and sets/. Defaults to $"+bundle.ResourcesEnv+", then the pipeline directory, then the built-in resources.")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error).")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text or json).")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Environment files to load. Defaults to .env in the working directory.")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Log the dispatcher commands without running them.")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the pipeline configuration. Without an explicit --config
// and without a pipeline directory the defaults are used.
func loadConfig() *config.Config {
	path, err := config.Resolve(configPath)
	if err != nil {
		logging.Warn("%v; using default pipeline configuration", err)
		return config.Default()
	}
	cfg, err := config.Load(afero.NewOsFs(), path, configPath != "")
	if err != nil {
		logging.Fatal("%v", err)
	}
	logging.Debug("Loaded pipeline configuration from %s", path)
	return cfg
}

// loadBundle resolves the resource bundle for cfg.
func loadBundle(cfg *config.Config) *bundle.Bundle {
	var pipelineResources string
	if cfg.Dir != "" {
		pipelineResources = cfg.PipelinePath("renderpal")
	}
	b, err := bundle.Resolve(afero.NewOsFs(), resourcesDir, os.Getenv(bundle.ResourcesEnv), pipelineResources, cfg.Paths.ResourcesDir)
	if err != nil {
		logging.Fatal("%v", err)
	}
	logging.Debug("Using resources from %s", b.Location)
	return b
}

// submission bundles what every submitting command needs.
type submission struct {
	cfg       *config.Config
	bundle    *bundle.Bundle
	sets      *renderset.Renderer
	assembler *renderpal.Assembler
	runner    *renderpal.Runner
}

func newSubmission() (*submission, error) {
	cfg := loadConfig()
	b := loadBundle(cfg)
	log := logging.Default()

	table, err := b.LookupTable(log)
	if err != nil {
		return nil, err
	}
	exe := renderpal.Locate(cfg.RenderPal.Executable)
	return &submission{
		cfg:       cfg,
		bundle:    b,
		sets:      b.Renderer(renderset.WithLogger(log)),
		assembler: renderpal.NewAssembler(exe, renderpal.NewTranslator(table, log)),
		runner: renderpal.NewRunner(
			renderpal.WithLogger(log),
			renderpal.WithDryRun(dryRun),
			renderpal.WithTimeout(cfg.RenderPal.Timeout),
		),
	}, nil
}

func parseLogin(s string) renderpal.Credentials {
	c, err := renderpal.ParseCredentials(s)
	if err != nil {
		logging.Fatal("Invalid login: %v", err)
	}
	return c
}

func parseRenderer(what, s string) renderpal.Renderer {
	r, err := renderpal.ParseRenderer(s)
	if err != nil {
		logging.Fatal("Invalid %s renderer %q: %v", what, s, err)
	}
	return r
}

func checkArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%s expects %d arguments, got %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

func slashPath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
