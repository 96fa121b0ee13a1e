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

// Package kitsu publishes review media to a Kitsu production tracker.
package kitsu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a lookup matches no tracker entity.
var ErrNotFound = errors.New("not found in kitsu")

// APIError is a non-2xx response of the tracker.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kitsu %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Entity is any tracker record addressed by id.
type Entity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Person is a tracker user.
type Person struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Status is a task status.
type Status struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// Comment is a task comment.
type Comment struct {
	ID string `json:"id"`
}

// PreviewFile is an uploaded preview.
type PreviewFile struct {
	ID       string `json:"id"`
	Revision int    `json:"revision"`
}

// Client talks to the Kitsu REST API. Host is the API root, e.g.
// "http://kitsu.example/api".
type Client struct {
	host string
	http *http.Client
}

// NewClient returns a client authenticating with the bearer token.
func NewClient(ctx context.Context, host, token string, timeout time.Duration) *Client {
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	hc.Timeout = timeout
	return &Client{host: strings.TrimSuffix(host, "/"), http: hc}
}

type tokenFile struct {
	Token string `yaml:"token"`
}

// ReadToken reads the access token from a gazu.json file.
func ReadToken(fs afero.Fs, p string) (string, error) {
	data, err := afero.ReadFile(fs, p)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read kitsu token file %s", p)
	}
	var tf tokenFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return "", errors.Wrapf(err, "failed to parse kitsu token file %s", p)
	}
	if tf.Token == "" {
		return "", errors.Errorf("kitsu token file %s has no token", p)
	}
	return tf.Token, nil
}

func (c *Client) do(ctx context.Context, method, p string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	u := c.host + "/" + strings.TrimPrefix(p, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return errors.Wrapf(err, "failed to build request %s %s", method, p)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to call kitsu %s %s", method, p)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "failed to read kitsu response %s %s", method, p)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Method: method, Path: p, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "failed to decode kitsu response %s %s", method, p)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, p string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "failed to encode request")
	}
	return c.do(ctx, http.MethodPost, p, nil, bytes.NewReader(body), "application/json", out)
}

// first returns the first record of a filtered collection.
func first[T any](ctx context.Context, c *Client, collection, what string, query url.Values) (T, error) {
	var zero T
	var all []T
	if err := c.do(ctx, http.MethodGet, "data/"+collection, query, nil, "", &all); err != nil {
		return zero, errors.Wrapf(err, "failed to look up %s", what)
	}
	if len(all) == 0 {
		return zero, errors.Wrap(ErrNotFound, what)
	}
	return all[0], nil
}

func (c *Client) Project(ctx context.Context, name string) (Entity, error) {
	return first[Entity](ctx, c, "projects", fmt.Sprintf("project %q", name), url.Values{"name": {name}})
}

func (c *Client) Sequence(ctx context.Context, project Entity, name string) (Entity, error) {
	return first[Entity](ctx, c, "sequences", fmt.Sprintf("sequence %q", name),
		url.Values{"project_id": {project.ID}, "name": {name}})
}

func (c *Client) Shot(ctx context.Context, sequence Entity, name string) (Entity, error) {
	return first[Entity](ctx, c, "shots/all", fmt.Sprintf("shot %q", name),
		url.Values{"sequence_id": {sequence.ID}, "name": {name}})
}

func (c *Client) Asset(ctx context.Context, project Entity, name string) (Entity, error) {
	return first[Entity](ctx, c, "assets/all", fmt.Sprintf("asset %q", name),
		url.Values{"project_id": {project.ID}, "name": {name}})
}

func (c *Client) TaskType(ctx context.Context, name string) (Entity, error) {
	return first[Entity](ctx, c, "task-types", fmt.Sprintf("task type %q", name), url.Values{"name": {name}})
}

// Task returns the task of entity with the given type and task name.
func (c *Client) Task(ctx context.Context, entity, taskType Entity, name string) (Entity, error) {
	return first[Entity](ctx, c, "tasks", fmt.Sprintf("task %q", taskType.Name+"/"+name),
		url.Values{"entity_id": {entity.ID}, "task_type_id": {taskType.ID}, "name": {name}})
}

func (c *Client) TaskStatus(ctx context.Context, shortName string) (Status, error) {
	return first[Status](ctx, c, "task-status", fmt.Sprintf("task status %q", shortName), url.Values{"short_name": {shortName}})
}

func (c *Client) Person(ctx context.Context, email string) (Person, error) {
	return first[Person](ctx, c, "persons", fmt.Sprintf("person %q", email), url.Values{"email": {email}})
}

// AddComment changes the task status with a comment.
func (c *Client) AddComment(ctx context.Context, task Entity, status Status, person Person, text string) (Comment, error) {
	var out Comment
	in := map[string]string{"task_status_id": status.ID, "comment": text, "person_id": person.ID}
	if err := c.postJSON(ctx, path.Join("actions/tasks", task.ID, "comment"), in, &out); err != nil {
		return out, errors.Wrap(err, "failed to add comment")
	}
	return out, nil
}

// AddPreview registers a preview revision on a comment.
func (c *Client) AddPreview(ctx context.Context, task Entity, comment Comment, revision int) (PreviewFile, error) {
	var out PreviewFile
	in := map[string]int{"revision": revision}
	p := path.Join("actions/tasks", task.ID, "comments", comment.ID, "add-preview")
	if err := c.postJSON(ctx, p, in, &out); err != nil {
		return out, errors.Wrap(err, "failed to add preview")
	}
	return out, nil
}

// UploadPreview uploads the media of a preview file.
func (c *Client) UploadPreview(ctx context.Context, preview PreviewFile, name string, media io.Reader) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return errors.Wrap(err, "failed to create upload form")
	}
	if _, err := io.Copy(part, media); err != nil {
		return errors.Wrapf(err, "failed to read preview media %s", name)
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "failed to finish upload form")
	}
	p := path.Join("pictures/preview-files", preview.ID)
	if err := c.do(ctx, http.MethodPost, p, nil, &buf, w.FormDataContentType(), nil); err != nil {
		return errors.Wrapf(err, "failed to upload preview %s", name)
	}
	return nil
}

// SetMainPreview makes preview the thumbnail of its entity.
func (c *Client) SetMainPreview(ctx context.Context, preview PreviewFile) error {
	p := path.Join("actions/preview-files", preview.ID, "set-main-preview")
	if err := c.do(ctx, http.MethodPut, p, nil, nil, "", nil); err != nil {
		return errors.Wrap(err, "failed to set main preview")
	}
	return nil
}
