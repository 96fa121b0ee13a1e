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

// Package renderset generates RenderPal job sets from text templates.
//
// Templates use $name and ${name} placeholders, with $$ for a literal dollar
// sign. Substitution is strict: the dispatcher imports sets blindly, so a
// template with an unfilled placeholder is an error rather than output.
package renderset

import "errors"

var (
	// ErrTemplateNotFound is returned when no template exists for a kind.
	ErrTemplateNotFound = errors.New("set template not found")
	// ErrMissingValue is returned when a placeholder has no value.
	ErrMissingValue = errors.New("missing placeholder value")
	// ErrInvalidPlaceholder is returned for a $ that starts no placeholder.
	ErrInvalidPlaceholder = errors.New("invalid placeholder")
)
