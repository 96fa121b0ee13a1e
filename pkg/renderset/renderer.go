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

package renderset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"renderpal-toolkit/pkg/logging"
)

// Extension is appended to template kinds given without one.
const Extension = ".rset"

// Locker serialises writers of the same destination. The returned function
// releases the lock.
type Locker func(dest string) (unlock func(), err error)

// Renderer loads set templates from a directory and writes rendered sets.
type Renderer struct {
	templates afero.Fs
	dir       string
	out       afero.Fs
	lock      Locker
	log       logging.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithOutputFs sets the filesystem rendered sets are written to.
func WithOutputFs(out afero.Fs) Option {
	return func(r *Renderer) { r.out = out }
}

// WithLocker replaces the destination lock.
func WithLocker(l Locker) Option {
	return func(r *Renderer) { r.lock = l }
}

// WithLogger sets the renderer's logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Renderer) { r.log = logging.OrDefault(l) }
}

// New returns a renderer reading templates from dir on templates. Sets are
// written to the OS filesystem under an advisory file lock unless configured
// otherwise.
func New(templates afero.Fs, dir string, opts ...Option) *Renderer {
	r := &Renderer{
		templates: templates,
		dir:       dir,
		out:       afero.NewOsFs(),
		log:       logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.lock == nil {
		if _, ok := r.out.(*afero.OsFs); ok {
			r.lock = FileLock
		} else {
			r.lock = noLock
		}
	}
	return r
}

// FileLock takes an exclusive advisory lock on dest + ".lock". The lock file
// is removed again on release.
func FileLock(dest string) (func(), error) {
	p := dest + ".lock"
	for {
		l := flock.New(p)
		if err := l.Lock(); err != nil {
			return nil, fmt.Errorf("failed to lock %s: %w", dest, err)
		}
		ok, err := lockIsCurrent(l)
		if err != nil {
			_ = l.Unlock()
			return nil, fmt.Errorf("failed to lock %s: %w", dest, err)
		}
		if ok {
			return func() {
				_ = os.Remove(p)
				_ = l.Unlock()
			}, nil
		}
		// The previous holder removed the file we waited on.
		_ = l.Unlock()
	}
}

// lockIsCurrent reports whether the file l holds is still the one at its path.
func lockIsCurrent(l *flock.Flock) (bool, error) {
	held, err := l.Stat()
	if err != nil {
		return false, err
	}
	onDisk, err := os.Stat(l.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return os.SameFile(held, onDisk), nil
}

func noLock(string) (func(), error) {
	return func() {}, nil
}

func (r *Renderer) templatePath(kind string) string {
	if path.Ext(kind) == "" {
		kind += Extension
	}
	return path.Join(filepath.ToSlash(r.dir), kind)
}

// Load reads and parses the template for kind.
func (r *Renderer) Load(kind string) (*Template, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" || strings.ContainsAny(kind, `/\`) {
		return nil, fmt.Errorf("%w: invalid template name %q", ErrTemplateNotFound, kind)
	}
	p := r.templatePath(kind)
	data, err := afero.ReadFile(r.templates, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, p)
		}
		return nil, fmt.Errorf("failed to read set template %s: %w", p, err)
	}
	return Parse(path.Base(p), string(data))
}

// Kinds lists the available template kinds.
func (r *Renderer) Kinds() ([]string, error) {
	entries, err := afero.ReadDir(r.templates, filepath.ToSlash(r.dir))
	if err != nil {
		return nil, fmt.Errorf("failed to list set templates in %s: %w", r.dir, err)
	}
	var kinds []string
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == Extension {
			kinds = append(kinds, strings.TrimSuffix(e.Name(), Extension))
		}
	}
	return kinds, nil
}

// Render returns the rendered set without writing it.
func (r *Renderer) Render(kind string, values Values) ([]byte, error) {
	tmpl, err := r.Load(kind)
	if err != nil {
		return nil, err
	}
	out, err := tmpl.Execute(values)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// Write renders kind and writes it to dest, replacing any existing file.
// Nothing is written if rendering fails. The parent directory of dest must
// already exist.
//
// Concurrent writers of the same dest are serialised by the lock, but the
// write is not atomic: a reader may observe a partially written file.
func (r *Renderer) Write(kind, dest string, values Values) (string, error) {
	data, err := r.Render(kind, values)
	if err != nil {
		return "", err
	}

	unlock, err := r.lock(dest)
	if err != nil {
		return "", err
	}
	defer unlock()

	if err := afero.WriteFile(r.out, dest, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write set %s: %w", dest, err)
	}
	r.log.Debugf("Wrote %s set to %s", kind, dest)
	return dest, nil
}
