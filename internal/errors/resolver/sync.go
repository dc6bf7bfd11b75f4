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

	"github.com/kptdev/git2ispw/internal/ispwcli"
)

//nolint:gochecknoinits
func init() {
	AddErrorResolver(&ispwCLIErrorResolver{})
}

var (
	syncFailedMsg = `
An error occurred while synchronizing source to ISPW
{{- template "ExecOutputDetails" . }}
`

	versionMsg = `
Error: The ISPW CLI installed in the CLI path has version {{ .installed }}, which does not satisfy {{ printf "%q" .constraint }}. Please upgrade the ISPW CLI.
`
)

// ispwCLIErrorResolver resolves failures of the ISPW CLI. The exit code of
// the CLI becomes the exit code of the build step.
type ispwCLIErrorResolver struct{}

func (*ispwCLIErrorResolver) Resolve(err error) (ResolvedResult, bool) {
	var exitErr *ispwcli.ExitError
	if errors.As(err, &exitErr) {
		return ResolvedResult{
			Message: ExecuteTemplate(syncFailedMsg, map[string]interface{}{
				"stdout": "",
				"stderr": exitErr.Stderr,
			}),
			ExitCode: exitErr.Code,
		}, true
	}

	var versionErr *ispwcli.VersionError
	if errors.As(err, &versionErr) {
		return ResolvedResult{
			Message: ExecuteTemplate(versionMsg, map[string]interface{}{
				"installed":  versionErr.Installed,
				"constraint": versionErr.Constraint,
			}),
		}, true
	}
	return ResolvedResult{}, false
}
