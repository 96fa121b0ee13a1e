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

// Package farm submits a scene to the render farm as a chain of dependent
// jobs: render, image conversion and tracker publish.
package farm

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"renderpal-toolkit/pkg/imgconvert"
	"renderpal-toolkit/pkg/logging"
	"renderpal-toolkit/pkg/orchestrator"
	"renderpal-toolkit/pkg/renderpal"
	"renderpal-toolkit/pkg/renderset"
	"renderpal-toolkit/pkg/scene"
)

// Set template kinds used by the chain.
const (
	RenderSet       = "shot_renderset"
	ConvertSet      = "imgconvert_renderset"
	PublishShotSet  = "kitsu_shot_renderset"
	PublishAssetSet = "kitsu_asset_renderset"
)

// Inputs of the non-render jobs. The dispatcher requires one, the scripts
// ignore it.
const (
	ConvertInput      = "IMGCONVERT"
	PublishShotInput  = "Kitsu_Shot_Publish"
	PublishAssetInput = "Kitsu_Asset_Publish"
)

// Orchestrator implements orchestrator.Orchestrator for the RenderPal farm.
type Orchestrator struct {
	scene     scene.Context
	checker   *scene.Checker
	sets      *renderset.Renderer
	assembler *renderpal.Assembler
	runner    *renderpal.Runner
	fs        afero.Fs
	log       logging.Logger
	runID     func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithFs sets the filesystem output directories are created on.
func WithFs(fs afero.Fs) Option {
	return func(o *Orchestrator) { o.fs = fs }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithRunID sets the generator of chain run ids.
func WithRunID(f func() string) Option {
	return func(o *Orchestrator) { o.runID = f }
}

// NewOrchestrator returns an orchestrator submitting sc.
func NewOrchestrator(sc scene.Context, checker *scene.Checker, sets *renderset.Renderer,
	assembler *renderpal.Assembler, runner *renderpal.Runner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		scene:     sc,
		checker:   checker,
		sets:      sets,
		assembler: assembler,
		runner:    runner,
		fs:        afero.NewOsFs(),
		runID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = logging.OrDefault(o.log)
	return o
}

// plan is everything derived from the scene before anything is submitted.
type plan struct {
	shot     scene.Shot
	layout   scene.Layout
	user     string
	revision int
	sequence string
	shotName string
}

func (o *Orchestrator) plan(job orchestrator.JobDefinition) (plan, error) {
	shot, err := scene.ParseScenePath(o.scene.SceneName(), job.Project)
	if err != nil {
		return plan{}, err
	}
	p := plan{shot: shot, layout: scene.NewLayout(shot, job.DriveRoot)}
	if job.SkipPublish {
		return p, nil
	}
	if p.user, err = job.Users.Abbreviation(shot.User); err != nil {
		return plan{}, err
	}
	if p.revision, err = shot.Revision(); err != nil {
		return plan{}, err
	}
	if job.Kind != orchestrator.Asset {
		if p.sequence, p.shotName, err = shot.SequenceAndShot(); err != nil {
			return plan{}, err
		}
	}
	return p, nil
}

// SubmitJob runs the prechecks, prepares the scene and submits the chain.
// A failing step stops the chain; the result lists the steps submitted so
// far.
func (o *Orchestrator) SubmitJob(ctx context.Context, job orchestrator.JobDefinition) (orchestrator.ChainResult, error) {
	res := orchestrator.ChainResult{RunID: o.runID(), Planned: 3}
	if job.SkipPublish {
		res.Planned = 2
	}
	log := logging.WithFields(o.log, map[string]interface{}{"run": res.RunID})
	log.Infof("Starting render chain submission...")

	p, err := o.plan(job)
	if err != nil {
		return res, err
	}
	l := p.layout
	log.Infof("Setting exr path to %s", l.ExrDir)
	log.Infof("Setting mp4 path to %s", l.Mp4Dir)
	log.Infof("Setting filename to %s", l.OutFile)

	if err := o.checker.Precheck(o.scene, l); err != nil {
		return res, err
	}
	if !o.runner.DryRun() {
		for _, dir := range []string{l.ExrDir, l.Mp4Dir} {
			if err := o.fs.MkdirAll(dir, 0o755); err != nil {
				return res, fmt.Errorf("failed to create output directory %s: %w", dir, err)
			}
		}
	}
	camera, err := o.checker.SelectCamera(o.scene)
	if err != nil {
		return res, err
	}
	if !o.runner.DryRun() {
		if err := o.scene.Save(); err != nil {
			return res, fmt.Errorf("failed to save scene: %w", err)
		}
	}
	frames := o.scene.RenderRange()
	jobName := p.shot.JobName()

	// Render.
	set, err := o.writeSet(job, RenderSet, "shot_renderset_"+l.OutFile, renderset.Values{
		"out_dir":    l.ExrDir,
		"out_file":   l.OutFile,
		"startframe": frames.First(),
		"endframe":   frames.Last(),
		"render_cam": camera,
	})
	if err != nil {
		return res, err
	}
	opts := renderpal.NewOptions().
		Set(renderpal.OptImportSet, renderpal.String(set)).
		Set(renderpal.OptSplitMode, renderpal.String(job.SplitMode)).
		Set(renderpal.OptProject, renderpal.String(job.Project)).
		Set(renderpal.OptOutDir, renderpal.String(l.ExrDir)).
		Set(renderpal.OptOutFile, renderpal.String(l.OutFile)).
		Set(renderpal.OptColor, renderpal.String(job.Color))
	opts = o.common(job, res.RunID, opts)
	render, err := o.submit(ctx, &res, orchestrator.StepRender, set, renderpal.Request{
		JobName:   jobName,
		InputPath: o.scene.SceneName(),
		Login:     job.Login,
		Renderer:  job.RenderRenderer,
		Options:   opts,
	})
	if err != nil {
		return res, err
	}

	// Convert.
	set, err = o.writeSet(job, ConvertSet, "shot_renderset_"+l.OutFile+"_imgconvert", renderset.Values{
		"in_pattern":   l.ExrPattern(),
		"out_file":     l.Clip(),
		"start_frame":  imgconvert.FrameToken(frames.First()),
		"end_frame":    imgconvert.FrameToken(frames.Last()),
		"colorspace":   job.Colorspace,
		"pythonscript": job.ConvertScript,
	})
	if err != nil {
		return res, err
	}
	opts = renderpal.NewOptions().
		Set(renderpal.OptImportSet, renderpal.String(set)).
		Set(renderpal.OptProject, renderpal.String(job.Project))
	opts = dependsOn(opts, render).Set(renderpal.OptColor, renderpal.String(job.Color))
	convert, err := o.submit(ctx, &res, orchestrator.StepConvert, set, renderpal.Request{
		JobName:   "CONVERT_" + jobName,
		InputPath: ConvertInput,
		Login:     job.Login,
		Renderer:  job.ConvertRenderer,
		Options:   o.common(job, res.RunID, opts),
	})
	if err != nil {
		return res, err
	}
	if job.SkipPublish {
		o.summarise(log, res)
		return res, nil
	}

	// Publish.
	kind, input, values := PublishShotSet, PublishShotInput, renderset.Values{
		"pythonscript":  job.PublishScript,
		"sequence_name": p.sequence,
		"shot_name":     p.shotName,
		"task_name":     p.shot.Task,
		"user_name":     p.user,
		"clippath":      l.Clip(),
		"version":       p.revision,
		"pipeconfig":    slash(job.PipelineDir),
		"gazu_root":     slash(job.GazuRoot),
	}
	if job.Kind == orchestrator.Asset {
		kind, input, values = PublishAssetSet, PublishAssetInput, renderset.Values{
			"pythonscript": job.PublishScript,
			"asset":        p.shot.Entity,
			"task":         p.shot.Task,
			"user":         p.user,
			"clippath":     l.Clip(),
			"version":      p.revision,
			"pipeconfig":   slash(job.PipelineDir),
			"gazu_root":    slash(job.GazuRoot),
		}
	}
	set, err = o.writeSet(job, kind, "shot_renderset_"+l.OutFile+"_kitsu", values)
	if err != nil {
		return res, err
	}
	opts = renderpal.NewOptions().
		Set(renderpal.OptImportSet, renderpal.String(set)).
		Set(renderpal.OptProject, renderpal.String(job.Project))
	opts = dependsOn(opts, convert).Set(renderpal.OptColor, renderpal.String(job.Color))
	if _, err := o.submit(ctx, &res, orchestrator.StepPublish, set, renderpal.Request{
		JobName:   "KITSU_" + jobName,
		InputPath: input,
		Login:     job.Login,
		Renderer:  job.PublishRenderer,
		Options:   o.common(job, res.RunID, opts),
	}); err != nil {
		return res, err
	}

	o.summarise(log, res)
	return res, nil
}

// common appends the options every job of the chain carries.
func (o *Orchestrator) common(job orchestrator.JobDefinition, runID string, opts renderpal.Options) renderpal.Options {
	if job.Priority > 0 {
		opts = opts.Set(renderpal.OptPriority, renderpal.Int(job.Priority))
	}
	if len(job.Pools) > 0 {
		opts = opts.Set(renderpal.OptPools, renderpal.List(job.Pools))
	}
	return opts.Set(renderpal.OptNotes, renderpal.String("rpal run "+runID))
}

// dependsOn makes a job wait for prev. A step that was not submitted, as in
// a dry run, has no id to depend on.
func dependsOn(opts renderpal.Options, prev renderpal.Result) renderpal.Options {
	id, err := prev.ID()
	if err != nil {
		return opts
	}
	return opts.
		Set(renderpal.OptDependency, renderpal.Int(id)).
		Set(renderpal.OptDepType, renderpal.Int(0))
}

func (o *Orchestrator) writeSet(job orchestrator.JobDefinition, kind, name string, values renderset.Values) (string, error) {
	dest := path.Join(slash(job.RendersetsDir), name+renderset.Extension)
	if _, err := o.sets.Write(kind, dest, values); err != nil {
		return "", fmt.Errorf("failed to write %s set: %w", kind, err)
	}
	return dest, nil
}

func (o *Orchestrator) submit(ctx context.Context, res *orchestrator.ChainResult, step, set string, req renderpal.Request) (renderpal.Result, error) {
	cmd, err := o.assembler.Assemble(req)
	if err != nil {
		return renderpal.NotSubmitted, fmt.Errorf("failed to assemble %s job: %w", step, err)
	}
	r, err := o.runner.Submit(ctx, req.JobName, cmd)
	if err != nil {
		return r, fmt.Errorf("failed to submit %s job: %w", step, err)
	}
	res.Jobs = append(res.Jobs, orchestrator.JobResult{Step: step, Name: req.JobName, Set: set, Result: r})
	return r, nil
}

func (o *Orchestrator) summarise(log logging.Logger, res orchestrator.ChainResult) {
	switch {
	case o.runner.DryRun():
		log.Infof("Dry run finished, nothing submitted (%d jobs prepared)", len(res.Jobs))
	case res.Complete():
		log.Infof("Submitted all jobs successfully: %s", res)
	default:
		log.Warnf("Couldn't submit all jobs: %s", res)
	}
}

func slash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
