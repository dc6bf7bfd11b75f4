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

// Package cmdsync contains the sync command
package cmdsync

import (
	"context"
	"os"

	"github.com/kptdev/git2ispw/internal/buildctx"
	"github.com/kptdev/git2ispw/internal/ispwcli"
	"github.com/kptdev/git2ispw/internal/publish"
	"github.com/kptdev/git2ispw/internal/util/cfgflags"
	"github.com/kptdev/git2ispw/internal/util/cmdutil"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// NewRunner returns a command runner.
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{ctx: ctx, Environ: os.Environ}
	c := &cobra.Command{
		Use:     "sync [flags]",
		Short:   SyncShort,
		Long:    SyncShort + "\n" + SyncLong,
		Example: SyncExamples,
		Args:    cobra.NoArgs,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}

	r.settings.AddFlags(c.Flags())
	r.env.AddFlags(c.Flags())
	c.Flags().BoolVar(&r.dryRun, "dry-run", false,
		"resolve the branch and commit range without changing the workspace or running the ISPW CLI.")
	cmdutil.FixDocs("git2ispw", parent, c)
	r.Command = c
	return r
}

func NewCommand(ctx context.Context, parent string) *cobra.Command {
	return NewRunner(ctx, parent).Command
}

type Runner struct {
	Command *cobra.Command
	// Environ returns the process environment as KEY=VALUE entries.
	Environ func() []string

	ctx      context.Context
	settings cfgflags.SettingsFlags
	env      cfgflags.EnvFlags
	dryRun   bool

	Invocation buildctx.Invocation
}

func (r *Runner) preRunE(c *cobra.Command, _ []string) error {
	s, err := r.settings.Settings(c.Flags())
	if err != nil {
		return cmdutil.WithStack(err)
	}
	env := r.env.Environment(c.Flags(), buildctx.NewEnvironment(r.Environ()))
	r.Invocation = buildctx.New(s, env)
	klog.V(1).Infof("invocation %s: branch %q", r.Invocation.ID, r.Invocation.Branch)
	return nil
}

func (r *Runner) runE(c *cobra.Command, _ []string) error {
	s := r.Invocation.Settings
	p := &publish.Publisher{
		Syncer: &ispwcli.Runner{
			CLIPath:    s.CLIPath,
			MinVersion: s.MinCLIVersion,
			Stdout:     c.OutOrStdout(),
			Stderr:     c.ErrOrStderr(),
		},
		DryRun: r.dryRun,
	}
	_, err := p.Publish(r.ctx, r.Invocation)
	return cmdutil.WithStack(err)
}

var SyncShort = `Synchronize the changes of a git build to ISPW`
var SyncLong = `
Sync is the build step. It takes the branch and commit range of the build
from the build agent, finds the ISPW target of the branch in the branch
mapping and runs the ISPW CLI to synchronize the changed files.

#### Branch mapping

The branch mapping holds one rule per line (or separated by ';'):

    PATTERN = STREAM/APP[/SUBAPPL[/ISPW_CONFIG_PATH]]

Rules are evaluated top to bottom and the first rule whose pattern matches
the branch wins. '**' matches anything, '*' matches anything but '/' and
'?' matches one character but '/'. A leading 'refs/heads/' is ignored.
Lines starting with '#' are comments.

A mapping without rules maps every branch to --stream and --app. A branch
that matches no rule fails the build, nothing is synchronized.

#### Env Vars

  refId:

    The branch of the build, for ex. refs/heads/main.

  fromHash, toHash:

    The commit range of the build. A fromHash made only of zeros marks the
    first build of a branch.

  WORKSPACE:

    The checked out repository.

  <ID>_USR, <ID>_PSW:

    User and password of the credentials named by --credentials-id and
    --git-credentials-id.
`
var SyncExamples = `
  # sync using a settings file and the build variables of the agent
  $ git2ispw sync --config ispw.yaml

  # check which target a build would go to
  $ git2ispw sync --config ispw.yaml --ref-id feature/login --dry-run
`
