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
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"renderpal-toolkit/pkg/config"
	"renderpal-toolkit/pkg/kitsu"
	"renderpal-toolkit/pkg/logging"
)

var strictPublish bool

var kitsuCmd = &cobra.Command{
	Use:   "kitsu",
	Short: "Publishes review media to the production tracker.",
	Long: `The 'kitsu' commands register a movie as the latest preview of a task. They
run on the farm as the last job of a chain. Failures are logged and do not fail
the job unless --strict is given.`,
}

var kitsuShotCmd = &cobra.Command{
	Use:   "publish-shot SEQUENCE SHOT TASK USER CLIP VERSION PIPECONFIG GAZU_ROOT",
	Short: "Publishes a shot preview.",
	Args:  checkArgs(8),
	Run:   runKitsuShotCmd,
}

var kitsuAssetCmd = &cobra.Command{
	Use:   "publish-asset ASSET TASK USER CLIP VERSION PIPECONFIG GAZU_ROOT",
	Short: "Publishes an asset turntable.",
	Args:  checkArgs(7),
	Run:   runKitsuAssetCmd,
}

func init() {
	rootCmd.AddCommand(kitsuCmd)
	kitsuCmd.AddCommand(kitsuShotCmd, kitsuAssetCmd)
	kitsuCmd.PersistentFlags().BoolVar(&strictPublish, "strict", false, "Exit with an error when publishing fails.")
}

func runKitsuShotCmd(cmd *cobra.Command, args []string) {
	seq, shot := args[0], args[1]
	pub, pipeconfig := publishArgs(args[2], args[3], args[4], args[5], args[6], args[7])
	p, err := newPublisher(pipeconfig)
	if err == nil {
		_, err = p.PublishShot(context.Background(), seq, shot, pub)
	}
	finishPublish(err)
}

func runKitsuAssetCmd(cmd *cobra.Command, args []string) {
	asset := args[0]
	pub, pipeconfig := publishArgs(args[1], args[2], args[3], args[4], args[5], args[6])
	p, err := newPublisher(pipeconfig)
	if err == nil {
		_, err = p.PublishAsset(context.Background(), asset, pub)
	}
	finishPublish(err)
}

func publishArgs(task, user, clip, version, pipeconfig, gazuRoot string) (kitsu.Publish, string) {
	rev, err := strconv.Atoi(version)
	if err != nil {
		logging.Fatal("Invalid version %q: %v", version, err)
	}
	logging.Info("Clip path: %s", clip)
	logging.Debug("Pipeline config: %s", pipeconfig)
	logging.Debug("Gazu root: %s", gazuRoot)
	return kitsu.Publish{Task: task, User: user, Clip: clip, Revision: rev}, slashPath(pipeconfig)
}

// newPublisher configures a publisher from the pipeline directory given on
// the command line unless --config names another configuration.
func newPublisher(pipeconfig string) (*kitsu.Publisher, error) {
	fs := afero.NewOsFs()
	var cfg *config.Config
	if configPath != "" {
		cfg = loadConfig()
	} else {
		var err error
		if cfg, err = config.Load(fs, filepath.Join(pipeconfig, config.FileName), false); err != nil {
			return nil, err
		}
	}
	k := cfg.Kitsu

	tokenFile := k.TokenFile
	if !filepath.IsAbs(tokenFile) {
		tokenFile = filepath.Join(pipeconfig, tokenFile)
	}
	token, err := kitsu.ReadToken(fs, tokenFile)
	if err != nil {
		return nil, err
	}
	logging.Info("Obtained kitsu token")

	return &kitsu.Publisher{
		Client:       kitsu.NewClient(context.Background(), k.Host, token, k.Timeout),
		Fs:           fs,
		Project:      k.Project,
		TaskName:     k.TaskName,
		Status:       k.Status,
		Comment:      k.Comment,
		EmailDomain:  k.EmailDomain,
		SetThumbnail: k.SetThumbnail,
		Log:          logging.Default(),
	}, nil
}

// finishPublish reports a publish failure, fatally only with --strict.
func finishPublish(err error) {
	if err == nil {
		return
	}
	if strictPublish {
		logging.Fatal("%v", err)
	}
	logging.Error("Publishing failed, continuing: %v", err)
}
