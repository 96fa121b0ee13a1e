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

package config

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// User is an entry of the user mapping file.
type User struct {
	Abbreviation string `yaml:"hdmabbr"`
}

// UserMapping maps workstation login names to pipeline users.
type UserMapping map[string]User

// ErrUnknownUser is returned when a login has no mapping entry.
var ErrUnknownUser = errors.New("user not found in user mapping")

// LoadUserMapping reads the JSON user mapping at path.
func LoadUserMapping(fs afero.Fs, path string) (UserMapping, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read user mapping %s", path)
	}
	m := UserMapping{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to parse user mapping %s", path)
	}
	return m, nil
}

// Abbreviation returns the short name of login.
func (m UserMapping) Abbreviation(login string) (string, error) {
	u, ok := m[login]
	if !ok || u.Abbreviation == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownUser, login)
	}
	return u.Abbreviation, nil
}
