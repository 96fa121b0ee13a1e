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
	"path/filepath"

	"github.com/spf13/cobra"

	"renderpal-toolkit/pkg/bundle"
	"renderpal-toolkit/pkg/config"
	"renderpal-toolkit/pkg/logging"
)

var installSource string

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Manages the flag lookup table and set templates.",
}

var resourcesFetchCmd = &cobra.Command{
	Use:   "fetch SOURCE [DEST]",
	Short: "Downloads a resource bundle.",
	Long: `The 'fetch' command downloads a resource bundle from any supported address
(a local path, an archive URL, a git repository) and checks that its lookup
table and set templates load. DEST defaults to the pipeline resource directory.`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runResourcesFetchCmd,
}

var resourcesInstallCmd = &cobra.Command{
	Use:   "install [DEST]",
	Short: "Installs a resource bundle from disk, or the built-in one.",
	Args:  cobra.MaximumNArgs(1),
	Run:   runResourcesInstallCmd,
}

var resourcesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Prints where resources are loaded from.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		logging.Info("Using resources from %s", loadBundle(loadConfig()).Location)
	},
}

func init() {
	rootCmd.AddCommand(resourcesCmd)
	resourcesCmd.AddCommand(resourcesFetchCmd, resourcesInstallCmd, resourcesShowCmd)
	resourcesInstallCmd.Flags().StringVar(&installSource, "from", "", "Bundle directory to install. Defaults to the built-in resources.")
}

// defaultResourceDir is where fetch and install write without a DEST.
func defaultResourceDir(cfg *config.Config) string {
	if resourcesDir != "" {
		return resourcesDir
	}
	if cfg.Paths.ResourcesDir != "" {
		return cfg.Paths.ResourcesDir
	}
	if cfg.Dir != "" {
		return cfg.PipelinePath("renderpal")
	}
	logging.Fatal("No destination given and no pipeline directory configured.")
	return ""
}

func runResourcesFetchCmd(cmd *cobra.Command, args []string) {
	var dest string
	if len(args) == 2 {
		dest = args[1]
	} else {
		dest = defaultResourceDir(loadConfig())
	}
	dest, err := filepath.Abs(dest)
	if err != nil {
		logging.Fatal("%v", err)
	}
	if err := bundle.Fetch(context.Background(), args[0], dest, logging.Default()); err != nil {
		logging.Fatal("%v", err)
	}
}

func runResourcesInstallCmd(cmd *cobra.Command, args []string) {
	var dest string
	if len(args) == 1 {
		dest = args[0]
	} else {
		dest = defaultResourceDir(loadConfig())
	}
	if err := bundle.Install(installSource, dest, logging.Default()); err != nil {
		logging.Fatal("%v", err)
	}
}
