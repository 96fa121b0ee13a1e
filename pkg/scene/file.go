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
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Description is a scene exported from the host application for command
// line submissions.
type Description struct {
	Scene    string     `yaml:"scene"`
	Render   FrameRange `yaml:"render_range"`
	Playback FrameRange `yaml:"playback_range"`
	Cameras  []Camera   `yaml:"cameras"`
}

// FileContext is a Context backed by a YAML scene description. Save writes
// the description back.
type FileContext struct {
	fs   afero.Fs
	path string
	desc Description
}

// LoadFileContext reads the scene description at path.
func LoadFileContext(fs afero.Fs, path string) (*FileContext, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene description %s: %w", path, err)
	}
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse scene description %s: %w", path, err)
	}
	if d.Scene == "" {
		return nil, fmt.Errorf("scene description %s has no scene path", path)
	}
	if d.Playback == (FrameRange{}) {
		d.Playback = d.Render
	}
	return &FileContext{fs: fs, path: path, desc: d}, nil
}

// NewFileContext wraps an in-memory description; Save writes it to path.
func NewFileContext(fs afero.Fs, path string, d Description) *FileContext {
	return &FileContext{fs: fs, path: path, desc: d}
}

func (f *FileContext) SceneName() string         { return f.desc.Scene }
func (f *FileContext) RenderRange() FrameRange   { return f.desc.Render }
func (f *FileContext) PlaybackRange() FrameRange { return f.desc.Playback }
func (f *FileContext) Cameras() []Camera         { return f.desc.Cameras }

func (f *FileContext) SetRenderRange(r FrameRange) error {
	if r.End < r.Start {
		return fmt.Errorf("invalid frame range %v-%v", r.Start, r.End)
	}
	f.desc.Render = r
	return nil
}

func (f *FileContext) Save() error {
	data, err := yaml.Marshal(f.desc)
	if err != nil {
		return fmt.Errorf("failed to encode scene description: %w", err)
	}
	if err := afero.WriteFile(f.fs, f.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save scene description %s: %w", f.path, err)
	}
	return nil
}
