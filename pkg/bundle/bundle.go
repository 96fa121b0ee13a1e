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

// Package bundle locates, fetches and installs the resource bundle: the flag
// lookup table and the set templates.
package bundle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter"
	"github.com/otiai10/copy"
	"github.com/spf13/afero"

	"renderpal-toolkit/pkg/logging"
	"renderpal-toolkit/pkg/renderpal"
	"renderpal-toolkit/pkg/renderset"
	"renderpal-toolkit/resources"
)

// ResourcesEnv overrides the resource directory.
const ResourcesEnv = "RPAL_RESOURCES"

// EmbeddedName is reported as the location of the built-in bundle.
const EmbeddedName = "<embedded>"

// Bundle is a resolved resource bundle.
type Bundle struct {
	Fs       afero.Fs
	Location string
}

// Embedded returns the bundle compiled into the binary.
func Embedded() *Bundle {
	return &Bundle{Fs: afero.FromIOFS{FS: resources.Files}, Location: EmbeddedName}
}

// Resolve returns the first candidate directory holding a lookup table, or
// the embedded bundle when none does. Empty candidates are skipped.
func Resolve(fs afero.Fs, candidates ...string) (*Bundle, error) {
	for _, dir := range candidates {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		ok, err := afero.Exists(fs, filepath.Join(dir, resources.LookupFile))
		if err != nil {
			return nil, fmt.Errorf("failed to inspect resource directory %s: %w", dir, err)
		}
		if ok {
			return &Bundle{Fs: afero.NewBasePathFs(fs, dir), Location: dir}, nil
		}
	}
	return Embedded(), nil
}

// LookupTable loads the bundle's flag lookup table.
func (b *Bundle) LookupTable(log logging.Logger) (*renderpal.LookupTable, error) {
	t, err := renderpal.LoadLookupTable(b.Fs, resources.LookupFile, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load lookup table from %s: %w", b.Location, err)
	}
	return t, nil
}

// Renderer returns a set renderer over the bundle's templates.
func (b *Bundle) Renderer(opts ...renderset.Option) *renderset.Renderer {
	return renderset.New(b.Fs, resources.SetsDir, opts...)
}

// Fetch downloads a bundle from src (any go-getter address: a local path,
// an archive URL, a git repository) into dst and checks it is usable.
func Fetch(ctx context.Context, src, dst string, log logging.Logger) error {
	log = logging.OrDefault(log)
	pwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeAny,
	}
	log.Infof("Fetching resources from %s", src)
	if err := client.Get(); err != nil {
		return fmt.Errorf("failed to fetch resources from %s: %w", src, err)
	}
	if err := verify(dst, log); err != nil {
		return err
	}
	log.Infof("Fetched resources into %s", dst)
	return nil
}

// Install copies the bundle at src into dst. An empty src installs the
// embedded bundle.
func Install(src, dst string, log logging.Logger) error {
	log = logging.OrDefault(log)
	opts := copy.Options{
		PermissionControl: copy.AddPermission(0o200),
		Skip: func(info os.FileInfo, _, _ string) (bool, error) {
			name := info.Name()
			return len(name) > 1 && name[0] == '.' && name != "..", nil
		},
	}
	from := src
	if src == "" {
		from = "."
		opts.FS = resources.Files
		src = EmbeddedName
	} else if err := verify(src, log); err != nil {
		return err
	}
	if err := copy.Copy(from, dst, opts); err != nil {
		return fmt.Errorf("failed to install resources from %s into %s: %w", src, dst, err)
	}
	log.Infof("Installed resources from %s into %s", src, dst)
	return nil
}

// verify checks dir holds a lookup table that parses and set templates.
func verify(dir string, log logging.Logger) error {
	b := &Bundle{Fs: afero.NewBasePathFs(afero.NewOsFs(), dir), Location: dir}
	if _, err := b.LookupTable(log); err != nil {
		return err
	}
	kinds, err := b.Renderer().Kinds()
	if err != nil {
		return fmt.Errorf("failed to list set templates in %s: %w", dir, err)
	}
	if len(kinds) == 0 {
		log.Warnf("Resource bundle %s has no set templates", dir)
	}
	return nil
}
