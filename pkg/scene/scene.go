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

// Package scene describes the host scene a render chain is submitted from
// and the pipeline naming rules derived from its path.
package scene

// FrameRange is an inclusive frame range as the host application reports it.
type FrameRange struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// First returns the first frame as an integer.
func (r FrameRange) First() int { return int(r.Start) }

// Last returns the last frame as an integer.
func (r FrameRange) Last() int { return int(r.End) }

// Camera is a camera shape identified by its DAG path, e.g.
// "|render_cam|render_camShape".
type Camera string

// Context is the host application state a submission reads and updates.
type Context interface {
	SceneName() string
	RenderRange() FrameRange
	PlaybackRange() FrameRange
	SetRenderRange(FrameRange) error
	Cameras() []Camera
	Save() error
}

// Prompter asks the artist a question and returns the chosen button. The
// first button is the default.
type Prompter interface {
	Confirm(title, message string, buttons []string) string
}

// Button labels used by the prechecks.
const (
	Yes   = "Yes"
	No    = "No"
	Abort = "OK"
)
