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

// Package renderpal talks to the RenderPal dispatcher's command-line client.
//
// A submission is assembled from a Request: typed options are rendered into
// dispatcher flags through a LookupTable, the fixed login, renderer, return-id
// and job-name flags are prepended and the input path is appended. A Runner
// executes the resulting Command and reads the new job's id from the exit
// status.
package renderpal
