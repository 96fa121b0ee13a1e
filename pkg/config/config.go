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

// Package config loads the pipeline configuration shared by all commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// PipelineConfigEnv names the pipeline configuration directory.
const PipelineConfigEnv = "PIPELINE_CONFIG_PATH"

// FileName is the configuration file looked up in the pipeline directory.
const FileName = "pipeline.yaml"

// Renderers holds the dispatcher renderer ("Name/Version") per chain step.
type Renderers struct {
	Render       string `yaml:"render"`
	Convert      string `yaml:"convert"`
	PublishShot  string `yaml:"publish_shot"`
	PublishAsset string `yaml:"publish_asset"`
}

// RenderPal configures dispatcher submissions.
type RenderPal struct {
	Executable string        `yaml:"executable"`
	Login      string        `yaml:"login"`
	Project    string        `yaml:"project"`
	Color      string        `yaml:"color"`
	SplitMode  string        `yaml:"split_mode"`
	Priority   int           `yaml:"priority"`
	Pools      []string      `yaml:"pools"`
	Timeout    time.Duration `yaml:"timeout"`
	Renderers  Renderers     `yaml:"renderers"`
}

// Paths configures where pipeline files live.
type Paths struct {
	DriveRoot     string `yaml:"drive_root"`
	RendersetsDir string `yaml:"rendersets_dir"`
	ResourcesDir  string `yaml:"resources_dir"`
	UserMapping   string `yaml:"user_mapping"`
	GazuRoot      string `yaml:"gazu_root"`
}

// Scripts are the entry points the farm runs for non-render jobs.
type Scripts struct {
	Convert      string `yaml:"convert"`
	PublishShot  string `yaml:"publish_shot"`
	PublishAsset string `yaml:"publish_asset"`
}

// Scene configures naming conventions of the host application.
type Scene struct {
	ProjectPrefix  string   `yaml:"project_prefix"`
	CameraPatterns []string `yaml:"camera_patterns"`
	Colorspace     string   `yaml:"colorspace"`
}

// Kitsu configures the production tracker.
type Kitsu struct {
	Host         string        `yaml:"host"`
	Project      string        `yaml:"project"`
	EmailDomain  string        `yaml:"email_domain"`
	TokenFile    string        `yaml:"token_file"`
	Status       string        `yaml:"status"`
	Comment      string        `yaml:"comment"`
	TaskName     string        `yaml:"task_name"`
	Timeout      time.Duration `yaml:"timeout"`
	SetThumbnail bool          `yaml:"set_thumbnail"`
}

// Convert configures the image conversion job.
type Convert struct {
	Executable string   `yaml:"executable"`
	Args       []string `yaml:"args"`
}

// Config is the pipeline configuration.
type Config struct {
	RenderPal RenderPal `yaml:"renderpal"`
	Paths     Paths     `yaml:"paths"`
	Scripts   Scripts   `yaml:"scripts"`
	Scene     Scene     `yaml:"scene"`
	Kitsu     Kitsu     `yaml:"kitsu"`
	Convert   Convert   `yaml:"convert"`

	// Dir is the pipeline configuration directory the file was found in.
	Dir string `yaml:"-"`
}

// Default returns the configuration the pipeline historically ran with.
func Default() *Config {
	return &Config{
		RenderPal: RenderPal{
			Project:   "Robo",
			Color:     "125,158,192",
			SplitMode: "2,1",
			Renderers: Renderers{
				Render:       "Arnold Renderer/CA Maya Arnold 2024",
				Convert:      "Nuke/Imgconvert",
				PublishShot:  "Python3/Kitsu Shot Publish",
				PublishAsset: "Python3/Kitsu Asset Publish",
			},
		},
		Paths: Paths{
			DriveRoot:     "L:/",
			RendersetsDir: "L:/krasse_robots/00_Pipeline/Rendersets",
			UserMapping:   "user_mapping.json",
			GazuRoot:      "L:/krasse_robots/00_Pipeline/Packages/gazu_patched",
		},
		Scripts: Scripts{
			Convert:      "L:/krasse_robots/00_Pipeline/Packages/renderpal_submission/renderpal_submission/autocomp/imgconvert.py",
			PublishShot:  "L:/krasse_robots/00_Pipeline/Packages/renderpal_submission/bin/rpal.exe",
			PublishAsset: "L:/krasse_robots/00_Pipeline/Packages/renderpal_submission/bin/rpal.exe",
		},
		Scene: Scene{
			ProjectPrefix:  "Robo",
			CameraPatterns: []string{"**/*render_cam*"},
			Colorspace:     "srgb",
		},
		Kitsu: Kitsu{
			Host:         "http://141.62.110.217/api",
			Project:      "robot",
			EmailDomain:  "hdm-stuttgart.de",
			TokenFile:    "gazu.json",
			Status:       "wfa",
			Comment:      "Pyblish autopublish",
			TaskName:     "main",
			Timeout:      30 * time.Second,
			SetThumbnail: true,
		},
		Convert: Convert{
			Executable: "nuke",
			Args:       []string{"-t"},
		},
	}
}

// LoadDotEnv loads KEY=VALUE pairs from files (".env" when none are given)
// into the environment without overriding variables already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "failed to load environment file %s", f)
		}
	}
	return nil
}

// PipelineDir returns the pipeline configuration directory from the
// environment.
func PipelineDir() (string, error) {
	dir := strings.TrimSpace(os.Getenv(PipelineConfigEnv))
	if dir == "" {
		return "", fmt.Errorf("environment variable %s is not set", PipelineConfigEnv)
	}
	return filepath.ToSlash(dir), nil
}

// Resolve returns the configuration file to load: explicit if set, else
// pipeline.yaml in the pipeline configuration directory.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	dir, err := PipelineDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the configuration at path over the defaults. A missing file
// yields the defaults unless required is set.
func Load(fs afero.Fs, path string, required bool) (*Config, error) {
	cfg := Default()
	cfg.Dir = filepath.ToSlash(filepath.Dir(path))

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "failed to read configuration %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse configuration %s", path)
	}
	return cfg, nil
}

// PipelinePath resolves p against the pipeline configuration directory.
func (c *Config) PipelinePath(p string) string {
	if p == "" || filepath.IsAbs(p) || isDrivePath(p) || c.Dir == "" {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(filepath.Join(c.Dir, p))
}

// isDrivePath reports whether p starts with a Windows drive letter.
func isDrivePath(p string) bool {
	return len(p) >= 2 && p[1] == ':' && ((p[0] >= 'a' && p[0] <= 'z') || (p[0] >= 'A' && p[0] <= 'Z'))
}

// Validate reports settings a submission cannot work without.
func (c *Config) Validate() error {
	var problems []string
	if _, _, ok := strings.Cut(c.RenderPal.Login, ":"); !ok {
		problems = append(problems, "renderpal.login must have the form \"user:password\"")
	}
	for name, r := range map[string]string{
		"render":        c.RenderPal.Renderers.Render,
		"convert":       c.RenderPal.Renderers.Convert,
		"publish_shot":  c.RenderPal.Renderers.PublishShot,
		"publish_asset": c.RenderPal.Renderers.PublishAsset,
	} {
		if strings.TrimSpace(r) == "" {
			problems = append(problems, fmt.Sprintf("renderpal.renderers.%s is empty", name))
		}
	}
	if c.Paths.RendersetsDir == "" {
		problems = append(problems, "paths.rendersets_dir is empty")
	}
	if len(c.Scene.CameraPatterns) == 0 {
		problems = append(problems, "scene.camera_patterns is empty")
	}
	if len(problems) == 0 {
		return nil
	}
	slices.Sort(problems)
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}
