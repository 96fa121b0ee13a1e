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

// Package resources embeds the default flag lookup table and set templates.
// A resource directory on disk with the same layout takes precedence.
package resources

import "embed"

// LookupFile is the flag lookup table's path within the bundle.
const LookupFile = "flag_lookup.json"

// SetsDir is the directory of set templates within the bundle.
const SetsDir = "sets"

//go:embed flag_lookup.json sets/*.rset
var Files embed.FS
