// Copyright 2019 Google LLC
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

package gitutil

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/kptdev/git2ispw/internal/errors"
	"k8s.io/klog/v2"
)

// DefaultRemote is the remote whose URL is handed to ISPW.
const DefaultRemote = "origin"

// NewLocalGitRunner returns a new GitLocalRunner for a local git workspace.
func NewLocalGitRunner(dir string) (*GitLocalRunner, error) {
	const op errors.Op = "gitutil.NewLocalGitRunner"
	p, err := exec.LookPath("git")
	if err != nil {
		return nil, errors.E(op, errors.Git, &GitExecError{
			Type: GitExecutableNotFound,
			Err:  err,
		})
	}

	return &GitLocalRunner{
		gitPath: p,
		Dir:     dir,
	}, nil
}

// GitLocalRunner runs git commands in a local git repo.
type GitLocalRunner struct {
	// Path to the git executable.
	gitPath string

	// Dir is the directory the commands are run in.
	Dir string
}

type RunResult struct {
	Stdout string
	Stderr string
}

// Run runs a git command.
// Omit the 'git' part of the command.
// The first return value contains the output to Stdout and Stderr when
// running the command.
func (g *GitLocalRunner) Run(ctx context.Context, command string, args ...string) (RunResult, error) {
	const op errors.Op = "gitutil.run"

	fullArgs := append([]string{command}, args...)
	cmd := exec.CommandContext(ctx, g.gitPath, fullArgs...)
	cmd.Dir = g.Dir
	// Keep git from prompting for credentials in a build agent.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	cmdStdout := &bytes.Buffer{}
	cmdStderr := &bytes.Buffer{}
	cmd.Stdout = cmdStdout
	cmd.Stderr = cmdStderr

	klog.V(4).Infof("running git %s in %q", strings.Join(fullArgs, " "), g.Dir)
	err := cmd.Run()
	if err != nil {
		return RunResult{}, errors.E(op, errors.Git, &GitExecError{
			Type:    determineErrorType(cmdStderr.String()),
			Args:    args,
			Command: command,
			Err:     err,
			StdOut:  cmdStdout.String(),
			StdErr:  cmdStderr.String(),
		})
	}
	return RunResult{
		Stdout: cmdStdout.String(),
		Stderr: cmdStderr.String(),
	}, nil
}

// RemoteURL returns the fetch URL of the named remote of the workspace.
// Any user info embedded in the URL is removed, credentials are passed to
// ISPW separately.
func (g *GitLocalRunner) RemoteURL(ctx context.Context, remote string) (string, error) {
	const op errors.Op = "gitutil.RemoteURL"
	rr, err := g.Run(ctx, "remote", "get-url", remote)
	if err != nil {
		AmendGitExecError(err, func(e *GitExecError) {
			if e.Type == Unknown {
				e.Type = NoRemote
			}
			e.Repo = g.Dir
			e.Remote = remote
		})
		return "", errors.E(op, err)
	}
	u := strings.TrimSpace(rr.Stdout)
	if u == "" {
		return "", errors.E(op, errors.Git, &GitExecError{
			Type:    NoRemote,
			Command: "remote",
			Args:    []string{"get-url", remote},
			Repo:    g.Dir,
			Remote:  remote,
			Err:     fmt.Errorf("remote %q has no URL", remote),
		})
	}
	return StripUserInfo(u), nil
}

// StripUserInfo removes user name and password from an http(s) URL. Other
// URLs, such as scp-like git@host:repo, are returned unchanged.
func StripUserInfo(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil || (u.Scheme != "http" && u.Scheme != "https") {
		return raw
	}
	u.User = nil
	return u.String()
}
