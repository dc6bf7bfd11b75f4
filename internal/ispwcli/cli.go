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

// Package ispwcli runs the ISPW command line interface to synchronize a
// git commit range into ISPW.
package ispwcli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/kptdev/git2ispw/internal/errors"
	"github.com/kptdev/git2ispw/pkg/branchmap"
	"github.com/kptdev/git2ispw/pkg/hashrange"
	"k8s.io/klog/v2"
)

// SyncOperation is the CLI operation that pushes git changes to ISPW.
const SyncOperation = "syncGitToIspw"

const (
	unixScript    = "IspwCLI.sh"
	windowsScript = "IspwCLI.bat"
)

// ScriptName returns the name of the CLI launcher for the running OS.
func ScriptName() string {
	if runtime.GOOS == "windows" {
		return windowsScript
	}
	return unixScript
}

// Host is the ISPW host connection.
type Host struct {
	Host     string
	Port     int
	User     string
	Password string
	Protocol string
	CodePage string
	// Timeout in minutes, 0 leaves the CLI default.
	Timeout int
}

// Git is the repository the CLI reads the changes from.
type Git struct {
	RepoURL  string
	User     string
	Password string
	Branch   string
}

// Request holds the arguments of one sync.
type Request struct {
	Host          Host
	RuntimeConfig string
	Target        branchmap.RefMap
	Range         hashrange.Range
	Git           Git
	TargetFolder  string
	ExtraArgs     []string
}

// Args returns the CLI arguments for r. Empty values are left out.
func (r Request) Args() []string {
	var args []string
	add := func(name, value string) {
		if value != "" {
			args = append(args, "-"+name, value)
		}
	}
	add("host", r.Host.Host)
	if r.Host.Port > 0 {
		add("port", strconv.Itoa(r.Host.Port))
	}
	add("id", r.Host.User)
	add("pass", r.Host.Password)
	add("protocol", r.Host.Protocol)
	add("code", r.Host.CodePage)
	if r.Host.Timeout > 0 {
		add("timeout", strconv.Itoa(r.Host.Timeout))
	}
	add("targetFolder", r.TargetFolder)
	add("ispwServerConfig", r.RuntimeConfig)
	add("ispwServerStream", r.Target.Stream())
	add("ispwServerApp", r.Target.App())
	add("ispwServerSubAppl", r.Target.SubAppl())
	add("ispwConfigPath", r.Target.ConfigPath())
	add("gitUsername", r.Git.User)
	add("gitPassword", r.Git.Password)
	add("gitRepoUrl", r.Git.RepoURL)
	add("gitBranch", r.Git.Branch)
	if from, ok := r.Range.From.Encode(); ok {
		add("gitFromHash", from)
	}
	if to, ok := r.Range.To.Value(); ok {
		add("gitCommit", to)
	}
	add("operation", SyncOperation)
	return append(args, r.ExtraArgs...)
}

// secretFlags are the arguments whose values are never logged.
var secretFlags = map[string]bool{
	"-pass":        true,
	"-gitPassword": true,
}

// Redact returns a copy of args with secret values replaced.
func Redact(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		if secretFlags[out[i]] {
			out[i+1] = "******"
			i++
		}
	}
	return out
}

// ParseExtraArgs splits s with shell quoting rules.
func ParseExtraArgs(s string) ([]string, error) {
	const op errors.Op = "ispwcli.ParseExtraArgs"
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	args, err := shlex.Split(s)
	if err != nil {
		return nil, errors.E(op, errors.InvalidParam, fmt.Errorf("extra arguments %q: %w", s, err))
	}
	return args, nil
}

// ExitError is returned when the CLI exits with a non-zero status.
type ExitError struct {
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("ISPW CLI exited with status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Runner runs the CLI installed in CLIPath.
type Runner struct {
	// CLIPath is the installation directory of the CLI.
	CLIPath string

	// MinVersion is an optional semver constraint checked before each run.
	MinVersion string

	// Stdout and Stderr receive the CLI output. They default to the
	// process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Sync runs the sync operation for req.
func (r *Runner) Sync(ctx context.Context, req Request) error {
	const op errors.Op = "ispwcli.Sync"

	if r.MinVersion != "" {
		if err := CheckVersion(r.CLIPath, r.MinVersion); err != nil {
			return errors.E(op, err)
		}
	}

	script := filepath.Join(r.CLIPath, ScriptName())
	if _, err := os.Stat(script); err != nil {
		return errors.E(op, errors.IO, fmt.Errorf("ISPW CLI not found: %w", err))
	}

	args := req.Args()
	klog.V(2).Infof("running %s %s", script, strings.Join(Redact(args), " "))

	cmd := exec.CommandContext(ctx, script, args...)
	cmd.Dir = r.CLIPath
	stderr := &bytes.Buffer{}
	cmd.Stdout = orDefault(r.Stdout, os.Stdout)
	cmd.Stderr = io.MultiWriter(orDefault(r.Stderr, os.Stderr), stderr)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return errors.E(op, errors.Sync, &ExitError{
				Code:   exitErr.ExitCode(),
				Stderr: stderr.String(),
				Err:    err,
			})
		}
		return errors.E(op, errors.Sync, err)
	}
	return nil
}

func orDefault(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
