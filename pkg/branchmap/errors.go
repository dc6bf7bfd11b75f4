// Copyright 2026 The kpt Authors
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

package branchmap

import (
	"fmt"
	"strings"
)

// ConfigurationError is returned when the branch mapping text is
// structurally invalid or omits a required field.
type ConfigurationError struct {
	// Position is the 1-based position of the offending record, counting
	// only records that are not blank or comments. It is 0 when the error
	// is not tied to a single record.
	Position int

	// Record is the offending record as written, whitespace trimmed.
	Record string

	// Reason describes what is wrong with the record.
	Reason string
}

func (e *ConfigurationError) Error() string {
	b := new(strings.Builder)
	b.WriteString("invalid branch mapping")
	if e.Position > 0 {
		fmt.Fprintf(b, " record %d", e.Position)
	}
	if e.Record != "" {
		fmt.Fprintf(b, " %q", e.Record)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// NoMatchError is returned when none of the configured branch patterns
// matches the branch being resolved.
type NoMatchError struct {
	// Branch is the normalized branch identifier.
	Branch string

	// Evaluated is the number of rules that were evaluated.
	Evaluated int
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no branch pattern matches %q (%d rules evaluated)",
		e.Branch, e.Evaluated)
}

// ResolutionError is returned when the branch identifier handed to the
// matcher is unusable.
type ResolutionError struct {
	Reason string
}

func (e *ResolutionError) Error() string {
	return e.Reason
}
