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

package resolver

import (
	"errors"

	"github.com/kptdev/git2ispw/pkg/branchmap"
)

//nolint:gochecknoinits
func init() {
	AddErrorResolver(&branchMapErrorResolver{})
}

var (
	noMatchMsg = `
Cannot find a branch pattern that matches the branch {{ .branch }}. Please adjust your branch mapping.
`

	configurationErrorMsg = `
Error: Invalid branch mapping
{{- if gt .position 0 }} in record {{ .position }}{{ end }}
{{- if .record }} ({{ printf "%q" .record }}){{ end }}: {{ .reason }}.
`

	resolutionErrorMsg = `
Error: Unable to resolve the branch: {{ .reason }}. Set the refId environment variable or use the --ref-id flag.
`
)

// branchMapErrorResolver resolves the errors of mapping parsing and branch
// resolution.
type branchMapErrorResolver struct{}

func (*branchMapErrorResolver) Resolve(err error) (ResolvedResult, bool) {
	var noMatchErr *branchmap.NoMatchError
	if errors.As(err, &noMatchErr) {
		return ResolvedResult{
			Message: ExecuteTemplate(noMatchMsg, map[string]interface{}{
				"branch": noMatchErr.Branch,
			}),
		}, true
	}

	var configErr *branchmap.ConfigurationError
	if errors.As(err, &configErr) {
		return ResolvedResult{
			Message: ExecuteTemplate(configurationErrorMsg, map[string]interface{}{
				"position": configErr.Position,
				"record":   configErr.Record,
				"reason":   configErr.Reason,
			}),
		}, true
	}

	var resolutionErr *branchmap.ResolutionError
	if errors.As(err, &resolutionErr) {
		return ResolvedResult{
			Message: ExecuteTemplate(resolutionErrorMsg, map[string]interface{}{
				"reason": resolutionErr.Reason,
			}),
		}, true
	}
	return ResolvedResult{}, false
}
