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

package orchestrator

import (
	"context"
	"strconv"
	"strings"

	"renderpal-toolkit/pkg/config"
	"renderpal-toolkit/pkg/renderpal"
)

// EntityKind selects the publish step of a chain.
type EntityKind string

const (
	Shot  EntityKind = "shot"
	Asset EntityKind = "asset"
)

// JobDefinition holds all the parameters of a chained render submission.
// The scene itself is supplied to the orchestrator; everything here is
// pipeline configuration.
type JobDefinition struct {
	Kind  EntityKind
	Login renderpal.Credentials

	RenderRenderer  renderpal.Renderer
	ConvertRenderer renderpal.Renderer
	PublishRenderer renderpal.Renderer

	Project   string
	Color     string
	SplitMode string
	Priority  int
	Pools     []string

	DriveRoot     string
	RendersetsDir string
	PipelineDir   string
	GazuRoot      string
	ConvertScript string
	PublishScript string
	Colorspace    string

	Users config.UserMapping

	// SkipPublish stops the chain after the conversion job.
	SkipPublish bool
}

// Step names of a chain.
const (
	StepRender  = "render"
	StepConvert = "convert"
	StepPublish = "publish"
)

// JobResult is the outcome of one submitted chain step.
type JobResult struct {
	Step   string
	Name   string
	Set    string
	Result renderpal.Result
}

// ChainResult lists the steps a chain submitted, in order. Planned is the
// number of steps the chain was meant to submit.
type ChainResult struct {
	RunID   string
	Planned int
	Jobs    []JobResult
}

// Complete reports whether every planned step reached the dispatcher.
func (r ChainResult) Complete() bool {
	if len(r.Jobs) != r.Planned {
		return false
	}
	for _, j := range r.Jobs {
		if !j.Result.Submitted {
			return false
		}
	}
	return true
}

// String summarises the chain as "render=12 convert=13 publish=14".
func (r ChainResult) String() string {
	parts := make([]string, 0, len(r.Jobs))
	for _, j := range r.Jobs {
		id := "-"
		if n, err := j.Result.ID(); err == nil {
			id = strconv.Itoa(n)
		}
		parts = append(parts, j.Step+"="+id)
	}
	return strings.Join(parts, " ")
}

// Orchestrator defines the interface for submitting job chains to a farm.
type Orchestrator interface {
	// SubmitJob takes a JobDefinition and submits its chain.
	SubmitJob(ctx context.Context, job JobDefinition) (ChainResult, error)
}
