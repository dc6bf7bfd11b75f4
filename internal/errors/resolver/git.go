// Copyright 2021 The kpt Authors
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
	goerrors "errors"
	"fmt"
	"strings"

	"github.com/kptdev/git2ispw/internal/gitutil"
)

//nolint:gochecknoinits
func init() {
	AddErrorResolver(&gitExecErrorResolver{})
}

// gitExecErrorResolver is an implementation of the ErrorResolver interface
// that can produce error messages for errors of the gitutil.GitExecError type.
type gitExecErrorResolver struct{}

func (*gitExecErrorResolver) Resolve(err error) (ResolvedResult, bool) {
	var gitExecErr *gitutil.GitExecError
	if !goerrors.As(err, &gitExecErr) {
		return ResolvedResult{}, false
	}
	fullCommand := fmt.Sprintf("git %s %s", gitExecErr.Command,
		strings.Join(gitExecErr.Args, " "))

	var msg string
	switch gitExecErr.Type {
	case gitutil.GitExecutableNotFound:
		msg = "Error: No git executable found. git2ispw requires git to be installed and available in the path."

	case gitutil.NotARepository:
		msg = fmt.Sprintf("Error: %q is not a git repository.", gitExecErr.Repo)
		msg += " A git remote is required to synchronize source to ISPW."
		msg += " Run the build step in the cloned repository or set the git repository URL."

	case gitutil.NoRemote:
		msg = fmt.Sprintf("Error: Unable to find the URL of git remote %q in %q.", gitExecErr.Remote, gitExecErr.Repo)
		msg += " A git remote is required to synchronize source to ISPW."
		msg += " Add the remote or set the git repository URL."

	case gitutil.HTTPSAuthRequired:
		msg = fmt.Sprintf("Error: Repository %q requires authentication.", gitExecErr.Repo)
		msg += " Please configure git credentials for the build step."

	case gitutil.RepositoryUnavailable:
		msg = fmt.Sprintf("Error: Unable to access repository %q.", gitExecErr.Repo)

	default:
		msg = fmt.Sprintf("Error: Failed to execute git command %q", fullCommand)
		if gitExecErr.Repo != "" {
			msg += fmt.Sprintf(" in %q", gitExecErr.Repo)
		}
		msg += "."
	}
	msg += "\n" + BuildOutputDetails(gitExecErr.StdOut, gitExecErr.StdErr)
	return ResolvedResult{
		Message: strings.TrimSpace(msg),
	}, true
}

func BuildOutputDetails(stdout string, stderr string) string {
	var sb strings.Builder
	if len(stdout) > 0 || len(stderr) > 0 {
		sb.WriteString("\nDetails:\n")
	}
	if len(stdout) > 0 {
		sb.WriteString(stdout)
	}
	if len(stderr) > 0 {
		sb.WriteString(stderr)
	}
	return sb.String()
}
