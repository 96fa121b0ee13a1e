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

package renderpal

import "errors"

var (
	// ErrConfig marks missing or malformed configuration and resources.
	ErrConfig = errors.New("configuration error")
	// ErrUnknownOption is returned for option keys absent from the lookup table.
	ErrUnknownOption = errors.New("unknown option")
	// ErrSubmissionFailed means the dispatcher reported a failed submission.
	ErrSubmissionFailed = errors.New("submission failed")
	// ErrNotSubmitted is the dry-run outcome: nothing was sent to the dispatcher.
	ErrNotSubmitted = errors.New("not submitted")
)
