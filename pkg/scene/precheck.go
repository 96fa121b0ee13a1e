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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/moby/patternmatcher"
	"github.com/spf13/afero"

	"renderpal-toolkit/pkg/logging"
)

// ErrAborted is returned when a precheck or the artist stops the submission.
var ErrAborted = errors.New("submission aborted")

// DefaultCameraPatterns match cameras named after the render camera
// convention anywhere in the DAG.
var DefaultCameraPatterns = []string{"**/*render_cam*"}

// RenderCameras returns the transforms of the cameras whose DAG path matches
// one of patterns. DAG separators are treated as path separators.
func RenderCameras(sc Context, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultCameraPatterns
	}
	pm, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to compile camera patterns: %w", err)
	}
	var cams []string
	for _, c := range sc.Cameras() {
		dag := strings.Trim(strings.ReplaceAll(string(c), "|", "/"), "/")
		if dag == "" {
			continue
		}
		ok, err := pm.MatchesOrParentMatches(dag)
		if err != nil {
			return nil, fmt.Errorf("failed to match camera %s: %w", c, err)
		}
		if ok {
			cams = append(cams, transform(dag))
		}
	}
	return cams, nil
}

// transform returns the short name of the shape's parent, or the shape
// itself when it has none.
func transform(dag string) string {
	parts := strings.Split(dag, "/")
	if len(parts) < 2 {
		return parts[0]
	}
	return parts[len(parts)-2]
}

// Checker runs the prechecks of a shot submission.
type Checker struct {
	Fs             afero.Fs
	Prompter       Prompter
	CameraPatterns []string
	Log            logging.Logger
}

// Precheck verifies the scene can be submitted. It returns ErrAborted when a
// check fails or the artist declines to continue.
//
// The render directory must exist, a differing playback range may be adopted
// as the render range, a render camera must exist and an already rendered
// version is only overwritten after confirmation.
func (c *Checker) Precheck(sc Context, l Layout) error {
	log := logging.OrDefault(c.Log)

	ok, err := afero.DirExists(c.Fs, l.RenderDir)
	if err != nil {
		return fmt.Errorf("failed to check render directory %s: %w", l.RenderDir, err)
	}
	if !ok {
		c.Prompter.Confirm("Pipeline path issue",
			"The shot seems not to be correctly in pipeline. Aborting render submission.",
			[]string{Abort})
		return fmt.Errorf("%w: render directory %s does not exist", ErrAborted, l.RenderDir)
	}

	render, playback := sc.RenderRange(), sc.PlaybackRange()
	if render != playback {
		msg := fmt.Sprintf("Render settings frame range is %v-%v,\nviewport frame range is %v-%v.\n"+
			"Do you want to set the render frame range to the viewport frame range?",
			render.Start, render.End, playback.Start, playback.End)
		if c.Prompter.Confirm("Frame range mismatch", msg, []string{Yes, No}) == Yes {
			if err := sc.SetRenderRange(playback); err != nil {
				return fmt.Errorf("failed to set render range: %w", err)
			}
			log.Infof("Set render range to %v-%v", playback.Start, playback.End)
		}
	}

	cams, err := RenderCameras(sc, c.CameraPatterns)
	if err != nil {
		return err
	}
	if len(cams) == 0 {
		c.Prompter.Confirm("No render camera",
			"There is no render camera in the scene. Aborting render submission.",
			[]string{Abort})
		return fmt.Errorf("%w: no render camera in scene", ErrAborted)
	}

	exists, err := afero.DirExists(c.Fs, l.ExrDir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to check output directory %s: %w", l.ExrDir, err)
	}
	if exists {
		answer := c.Prompter.Confirm("Re-render version?",
			"This version was already sent to the farm.\nAre you sure you want to overwrite existing files?",
			[]string{Yes, No})
		if answer == No {
			return fmt.Errorf("%w: version %s already rendered", ErrAborted, l.OutDir)
		}
	}
	return nil
}

// SelectCamera returns the only render camera or asks which one to render.
func (c *Checker) SelectCamera(sc Context) (string, error) {
	cams, err := RenderCameras(sc, c.CameraPatterns)
	if err != nil {
		return "", err
	}
	switch len(cams) {
	case 0:
		return "", fmt.Errorf("%w: no render camera in scene", ErrAborted)
	case 1:
		return cams[0], nil
	}
	answer := c.Prompter.Confirm("Select render camera", "Please select the correct camera to render:", cams)
	for _, cam := range cams {
		if cam == answer {
			return cam, nil
		}
	}
	return "", fmt.Errorf("%w: no camera selected", ErrAborted)
}
