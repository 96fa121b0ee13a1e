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

package kitsu

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"renderpal-toolkit/pkg/logging"
)

// Publish describes media to register as the latest preview of a task.
type Publish struct {
	Task     string
	User     string
	Clip     string
	Revision int
}

// Publisher registers previews for shots and assets of one project.
type Publisher struct {
	Client       *Client
	Fs           afero.Fs
	Project      string
	TaskName     string
	Status       string
	Comment      string
	EmailDomain  string
	SetThumbnail bool
	Log          logging.Logger
}

// PublishShot publishes p on the task of shot in sequence.
func (p *Publisher) PublishShot(ctx context.Context, sequence, shot string, pub Publish) (PreviewFile, error) {
	log := logging.WithFields(logging.OrDefault(p.Log), map[string]interface{}{"shot": sequence + "-" + shot, "task": pub.Task})
	log.Infof("Publishing %s-%s_%s_v%d by %s", sequence, shot, pub.Task, pub.Revision, pub.User)

	project, err := p.Client.Project(ctx, p.Project)
	if err != nil {
		return PreviewFile{}, err
	}
	seq, err := p.Client.Sequence(ctx, project, sequence)
	if err != nil {
		return PreviewFile{}, err
	}
	entity, err := p.Client.Shot(ctx, seq, shot)
	if err != nil {
		return PreviewFile{}, err
	}
	pf, err := p.publish(ctx, entity, pub)
	if err != nil {
		log.Errorf("Could not publish shot to Kitsu: %v", err)
		return pf, err
	}
	log.Infof("Published Kitsu shot successfully")
	return pf, nil
}

// PublishAsset publishes p on the task of asset.
func (p *Publisher) PublishAsset(ctx context.Context, asset string, pub Publish) (PreviewFile, error) {
	log := logging.WithFields(logging.OrDefault(p.Log), map[string]interface{}{"asset": asset, "task": pub.Task})
	log.Infof("Publishing %s_%s_v%d by %s", asset, pub.Task, pub.Revision, pub.User)

	project, err := p.Client.Project(ctx, p.Project)
	if err != nil {
		return PreviewFile{}, err
	}
	entity, err := p.Client.Asset(ctx, project, asset)
	if err != nil {
		return PreviewFile{}, err
	}
	pf, err := p.publish(ctx, entity, pub)
	if err != nil {
		log.Errorf("Could not publish turntable to Kitsu: %v", err)
		return pf, err
	}
	log.Infof("Published Kitsu asset successfully")
	return pf, nil
}

func (p *Publisher) publish(ctx context.Context, entity Entity, pub Publish) (PreviewFile, error) {
	if pub.Clip == "" {
		return PreviewFile{}, errors.New("no preview file given")
	}
	clip := strings.ReplaceAll(pub.Clip, `\`, "/")
	media, err := p.Fs.Open(clip)
	if err != nil {
		return PreviewFile{}, errors.Wrapf(err, "failed to open preview %s", clip)
	}
	defer media.Close()

	taskType, err := p.Client.TaskType(ctx, pub.Task)
	if err != nil {
		return PreviewFile{}, err
	}
	task, err := p.Client.Task(ctx, entity, taskType, p.TaskName)
	if err != nil {
		return PreviewFile{}, err
	}
	status, err := p.Client.TaskStatus(ctx, p.Status)
	if err != nil {
		return PreviewFile{}, err
	}
	person, err := p.Client.Person(ctx, fmt.Sprintf("%s@%s", pub.User, p.EmailDomain))
	if err != nil {
		return PreviewFile{}, err
	}

	comment, err := p.Client.AddComment(ctx, task, status, person, p.Comment)
	if err != nil {
		return PreviewFile{}, err
	}
	pf, err := p.Client.AddPreview(ctx, task, comment, pub.Revision)
	if err != nil {
		return PreviewFile{}, err
	}
	if err := p.Client.UploadPreview(ctx, pf, path.Base(clip), media); err != nil {
		return pf, err
	}
	if p.SetThumbnail {
		if err := p.Client.SetMainPreview(ctx, pf); err != nil {
			return pf, err
		}
	}
	return pf, nil
}
