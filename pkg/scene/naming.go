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
	"path"
	"strconv"
	"strings"
)

// Shot is the pipeline identity encoded in a scene path. Entity is the
// shot folder ("sq010-sh020") or the asset folder.
type Shot struct {
	Path    string
	Project string
	Entity  string
	Task    string
	Version string
	User    string
}

// ParseScenePath derives the pipeline identity of the scene at p. The
// entity is the fifth path element; the file name, split on "_", carries
// the task, version and user at positions -5, -4 and -2.
func ParseScenePath(p, project string) (Shot, error) {
	elems := splitPath(p)
	if len(elems) < 5 {
		return Shot{}, fmt.Errorf("scene path %q is not inside the pipeline layout", p)
	}
	name := strings.Split(elems[len(elems)-1], "_")
	if len(name) < 5 {
		return Shot{}, fmt.Errorf("scene file name %q does not follow the naming convention", elems[len(elems)-1])
	}
	s := Shot{
		Path:    strings.Join(elems, "/"),
		Project: project,
		Entity:  elems[4],
		Task:    name[len(name)-5],
		Version: name[len(name)-4],
		User:    name[len(name)-2],
	}
	for _, part := range []string{s.Project, s.Entity, s.Task, s.Version, s.User} {
		if part == "" || strings.Contains(part, "_") {
			return Shot{}, fmt.Errorf("scene path %q yields invalid job name part %q", p, part)
		}
	}
	return s, nil
}

// JobName returns "<project>_<entity>_<task>_<version>_<user>".
func (s Shot) JobName() string {
	return strings.Join([]string{s.Project, s.Entity, s.Task, s.Version, s.User}, "_")
}

// OutFile returns the output file stem "<entity>_<task>_<version>".
func (s Shot) OutFile() string {
	return strings.Join([]string{s.Entity, s.Task, s.Version}, "_")
}

// SequenceAndShot splits a shot entity "sq010-sh020" into its sequence and
// shot names.
func (s Shot) SequenceAndShot() (string, string, error) {
	seq, shot, ok := strings.Cut(s.Entity, "-")
	if !ok || seq == "" || shot == "" {
		return "", "", fmt.Errorf("entity %q is not of the form <sequence>-<shot>", s.Entity)
	}
	return seq, shot, nil
}

// Revision returns the numeric version from the last four characters of the
// version token ("v0003" is 3).
func (s Shot) Revision() (int, error) {
	v := s.Version
	if len(v) > 4 {
		v = v[len(v)-4:]
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("version %q has no numeric revision: %w", s.Version, err)
	}
	return n, nil
}

// Layout holds the output locations of a shot render.
type Layout struct {
	Base      string
	RenderDir string
	OutDir    string
	ExrDir    string
	Mp4Dir    string
	OutFile   string
}

// NewLayout places the render outputs next to the scene: the base is the
// scene path without its last four elements, rooted at driveRoot.
func NewLayout(s Shot, driveRoot string) Layout {
	elems := splitPath(s.Path)
	root := strings.TrimSuffix(strings.ReplaceAll(driveRoot, `\`, "/"), "/")
	base := root
	if n := len(elems) - 4; n > 1 {
		base = root + "/" + strings.Join(elems[1:n], "/")
	}
	out := path.Join(base, "Rendering", "3dRender", s.Task, s.Version)
	return Layout{
		Base:      base,
		RenderDir: path.Join(base, "Rendering"),
		OutDir:    out,
		ExrDir:    path.Join(out, "exr"),
		Mp4Dir:    path.Join(out, "mp4"),
		OutFile:   s.OutFile(),
	}
}

// ExrPattern returns the frame pattern of the rendered exr sequence.
func (l Layout) ExrPattern() string {
	return fmt.Sprintf("%s/%s.####.exr", l.ExrDir, l.OutFile)
}

// Clip returns the path of the converted movie.
func (l Layout) Clip() string {
	return fmt.Sprintf("%s/%s.mp4", l.Mp4Dir, l.OutFile)
}

func splitPath(p string) []string {
	p = strings.ReplaceAll(p, `\`, "/")
	var elems []string
	for i, e := range strings.Split(p, "/") {
		if e == "" && i > 0 {
			continue
		}
		elems = append(elems, e)
	}
	return elems
}
