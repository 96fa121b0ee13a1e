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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"renderpal-toolkit/pkg/logging"
)

const shotTemplate = `[RenderSet]
OutputDir=$out_dir
OutputFile=${out_file}.####.exr
StartFrame=$startframe
EndFrame=$endframe
Camera=$render_cam
Cost=$$5
`

func newTestRenderer(t *testing.T) (*Renderer, afero.Fs) {
	t.Helper()
	templates := afero.NewMemMapFs()
	if err := afero.WriteFile(templates, "/res/sets/shot_renderset.rset", []byte(shotTemplate), 0644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(templates, "/res/sets/broken.rset", []byte("Path=$ bad\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out := afero.NewMemMapFs()
	return New(templates, "/res/sets", WithOutputFs(out), WithLogger(logging.Discard())), out
}

func shotValues() Values {
	return Values{
		"out_dir":    "L:/robo/Rendering/3dRender/lighting/v0003/exr",
		"out_file":   "sh020_lighting_v0003",
		"startframe": 1001,
		"endframe":   1100.0,
		"render_cam": "render_cam",
	}
}

func TestTemplateExecute(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		values  Values
		want    string
		wantErr error
	}{
		{name: "bare", text: "a=$a", values: Values{"a": "1"}, want: "a=1"},
		{name: "braced", text: "${a}b", values: Values{"a": "x"}, want: "xb"},
		{name: "escaped", text: "$$a", values: Values{}, want: "$a"},
		{name: "repeated", text: "$a/$a", values: Values{"a": "z"}, want: "z/z"},
		{name: "numbers", text: "$i $f", values: Values{"i": 5, "f": 2.5}, want: "5 2.5"},
		{name: "extra values ignored", text: "$a", values: Values{"a": "1", "b": "2"}, want: "1"},
		{name: "missing", text: "$a $b", values: Values{"a": "1"}, wantErr: ErrMissingValue},
		{name: "lone dollar", text: "cost $ 5", values: Values{}, wantErr: ErrInvalidPlaceholder},
		{name: "unterminated brace", text: "${a", values: Values{"a": "1"}, wantErr: ErrInvalidPlaceholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.name, tt.text)
			if err == nil {
				var got string
				got, err = tmpl.Execute(tt.values)
				if err == nil && got != tt.want {
					t.Errorf("Execute() = %q, want %q", got, tt.want)
				}
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTemplatePlaceholders(t *testing.T) {
	tmpl, err := Parse("shot", shotTemplate)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	want := []string{"endframe", "out_dir", "out_file", "render_cam", "startframe"}
	if diff := cmp.Diff(want, tmpl.Placeholders()); diff != "" {
		t.Errorf("placeholders mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingValueNamesEveryPlaceholder(t *testing.T) {
	r, _ := newTestRenderer(t)
	_, err := r.Render("shot_renderset", Values{"out_dir": "x"})
	if !errors.Is(err, ErrMissingValue) {
		t.Fatalf("expected ErrMissingValue, got %v", err)
	}
	want := "missing placeholder value for shot_renderset.rset: endframe, out_file, render_cam, startframe"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestWrite(t *testing.T) {
	r, out := newTestRenderer(t)

	dest, err := r.Write("shot_renderset", "/sets/shot_renderset_sh020.rset", shotValues())
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	got, err := afero.ReadFile(out, dest)
	if err != nil {
		t.Fatal(err)
	}
	want := `[RenderSet]
OutputDir=L:/robo/Rendering/3dRender/lighting/v0003/exr
OutputFile=sh020_lighting_v0003.####.exr
StartFrame=1001
EndFrame=1100
Camera=render_cam
Cost=$5
`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("rendered set mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteIsIdempotent(t *testing.T) {
	r, out := newTestRenderer(t)

	if _, err := r.Write("shot_renderset", "/sets/a.rset", shotValues()); err != nil {
		t.Fatal(err)
	}
	first, _ := afero.ReadFile(out, "/sets/a.rset")
	if _, err := r.Write("shot_renderset", "/sets/a.rset", shotValues()); err != nil {
		t.Fatal(err)
	}
	second, _ := afero.ReadFile(out, "/sets/a.rset")
	if !bytes.Equal(first, second) {
		t.Errorf("re-rendering changed the output:\n%s\nvs\n%s", first, second)
	}
}

func TestWriteFailureLeavesNoFile(t *testing.T) {
	r, out := newTestRenderer(t)
	values := shotValues()
	delete(values, "render_cam")

	if _, err := r.Write("shot_renderset", "/sets/partial.rset", values); !errors.Is(err, ErrMissingValue) {
		t.Fatalf("expected ErrMissingValue, got %v", err)
	}
	if exists, _ := afero.Exists(out, "/sets/partial.rset"); exists {
		t.Error("a failed render must not write the destination")
	}
}

func TestWriteOverwrites(t *testing.T) {
	r, out := newTestRenderer(t)
	if err := afero.WriteFile(out, "/sets/a.rset", []byte("stale content that is longer than the new set ......................................................................................................................................................................................................................."), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Write("shot_renderset", "/sets/a.rset", shotValues()); err != nil {
		t.Fatal(err)
	}
	got, _ := afero.ReadFile(out, "/sets/a.rset")
	if bytes.Contains(got, []byte("stale")) {
		t.Errorf("destination was not replaced: %s", got)
	}
}

func TestLoadErrors(t *testing.T) {
	r, _ := newTestRenderer(t)
	tests := []struct {
		kind    string
		wantErr error
	}{
		{kind: "does_not_exist", wantErr: ErrTemplateNotFound},
		{kind: "", wantErr: ErrTemplateNotFound},
		{kind: "../secrets", wantErr: ErrTemplateNotFound},
		{kind: "broken", wantErr: ErrInvalidPlaceholder},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			if _, err := r.Load(tt.kind); !errors.Is(err, tt.wantErr) {
				t.Errorf("Load(%q) error = %v, want %v", tt.kind, err, tt.wantErr)
			}
		})
	}
}

func TestKinds(t *testing.T) {
	r, _ := newTestRenderer(t)
	kinds, err := r.Kinds()
	if err != nil {
		t.Fatalf("Kinds() failed: %v", err)
	}
	if diff := cmp.Diff([]string{"broken", "shot_renderset"}, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteOnDisk(t *testing.T) {
	dir := t.TempDir()
	templates := afero.NewMemMapFs()
	if err := afero.WriteFile(templates, "sets/shot_renderset.rset", []byte(shotTemplate), 0644); err != nil {
		t.Fatal(err)
	}
	r := New(templates, "sets", WithLogger(logging.Discard()))

	t.Run("missing parent directory", func(t *testing.T) {
		dest := filepath.Join(dir, "missing", "a.rset")
		if _, err := r.Write("shot_renderset", dest, shotValues()); err == nil {
			t.Error("expected an error when the parent directory does not exist")
		}
	})

	t.Run("concurrent writers", func(t *testing.T) {
		dest := filepath.Join(dir, "a.rset")
		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := r.Write("shot_renderset", dest, shotValues())
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Errorf("Write() failed: %v", err)
			}
		}
		got, err := os.ReadFile(dest)
		if err != nil {
			t.Fatal(err)
		}
		want, _ := r.Render("shot_renderset", shotValues())
		if !bytes.Equal(got, want) {
			t.Errorf("concurrent writes produced a mixed file:\n%s", got)
		}
		if _, err := os.Stat(dest + ".lock"); !os.IsNotExist(err) {
			t.Errorf("lock file left behind: %v", err)
		}
	})
}

func TestFileLockRemovesLockFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "a.rset")

	unlock, err := FileLock(dest)
	if err != nil {
		t.Fatalf("FileLock() failed: %v", err)
	}
	if _, err := os.Stat(dest + ".lock"); err != nil {
		t.Fatalf("lock file missing while held: %v", err)
	}
	unlock()
	if _, err := os.Stat(dest + ".lock"); !os.IsNotExist(err) {
		t.Errorf("lock file left behind: %v", err)
	}

	unlock, err = FileLock(dest)
	if err != nil {
		t.Fatalf("FileLock() after release failed: %v", err)
	}
	unlock()
}
