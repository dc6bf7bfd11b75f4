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

// Package publish implements the build step: it resolves the branch of a
// build to an ISPW target and hands the commit range to the ISPW CLI.
package publish

import (
	"context"
	"fmt"

	"github.com/kptdev/git2ispw/internal/buildctx"
	"github.com/kptdev/git2ispw/internal/errors"
	"github.com/kptdev/git2ispw/internal/gitutil"
	"github.com/kptdev/git2ispw/internal/ispwcli"
	"github.com/kptdev/git2ispw/pkg/branchmap"
	"github.com/kptdev/git2ispw/pkg/hashrange"
	"github.com/kptdev/git2ispw/pkg/printer"
	"k8s.io/klog/v2"
)

// Syncer pushes a resolved commit range to ISPW.
type Syncer interface {
	Sync(ctx context.Context, req ispwcli.Request) error
}

// RemoteFinder returns the URL of a git remote of a workspace.
type RemoteFinder interface {
	RemoteURL(ctx context.Context, remote string) (string, error)
}

// Plan is the outcome of resolving an invocation.
type Plan struct {
	Table  *branchmap.Table
	Branch string
	Target branchmap.RefMap
	Range  hashrange.Range
}

// Resolve parses the mapping of inv and resolves its branch and commit
// range. Nothing is written and no command is run. When the branch does
// not resolve, the returned plan still carries the parsed table.
func Resolve(inv buildctx.Invocation) (Plan, error) {
	const op errors.Op = "publish.Resolve"

	table, err := branchmap.Parse(inv.Settings.BranchMapping, inv.Settings.MappingDefaults())
	if err != nil {
		return Plan{}, errors.E(op, errors.Config, err)
	}

	target, err := branchmap.NewMatcher(table).Match(inv.Branch)
	if err != nil {
		return Plan{Table: table}, errors.E(op, errors.Branch(inv.Branch), errors.Resolve, err)
	}

	return Plan{
		Table:  table,
		Branch: inv.Branch,
		Target: target,
		Range:  hashrange.Resolve(inv.Hashes),
	}, nil
}

// Publisher runs the build step.
type Publisher struct {
	// Syncer receives the resolved request. It is not called on a dry run.
	Syncer Syncer

	// NewRemoteFinder returns the RemoteFinder for a workspace. Defaults to
	// a git runner in the workspace.
	NewRemoteFinder func(dir string) (RemoteFinder, error)

	// DryRun stops after resolution.
	DryRun bool
}

// Publish resolves inv and, unless this is a dry run, removes the stale
// build parameter file and syncs the commit range to the resolved target.
// A branch that resolves to no target aborts before anything is changed.
func (p *Publisher) Publish(ctx context.Context, inv buildctx.Invocation) (Plan, error) {
	const op errors.Op = "publish.Publish"
	pr := printer.FromContextOrDie(ctx)

	klog.V(2).Infof("invocation %s: workspace %q", inv.ID, inv.Workspace)

	plan, err := Resolve(inv)
	if plan.Table != nil {
		pr.Printf("branch mapping = %s\n", plan.Table)
	}
	pr.Printf("branch name (refId) = %s\n", inv.Branch)
	if err != nil {
		return Plan{}, errors.E(op, err)
	}
	pr.OptPrintf(printer.NewOpt().WithBranch(inv.Branch), "resolved to %s, commits %s..%s\n",
		plan.Target, plan.Range.From, plan.Range.To)

	if p.DryRun {
		klog.V(2).Infof("invocation %s: dry run, not syncing", inv.ID)
		return plan, nil
	}

	if err := inv.Validate(); err != nil {
		return Plan{}, errors.E(op, err)
	}

	inv, err = p.withGitRepoURL(ctx, inv)
	if err != nil {
		return Plan{}, errors.E(op, errors.Branch(inv.Branch), err)
	}

	removed, err := ispwcli.RemoveStaleParmFile(inv.Workspace)
	if err != nil {
		return Plan{}, errors.E(op, err)
	}
	if removed {
		klog.V(2).Infof("invocation %s: removed stale %s", inv.ID, ispwcli.ParmFile)
	}

	req, err := NewRequest(inv, plan)
	if err != nil {
		return Plan{}, errors.E(op, err)
	}
	if err := p.Syncer.Sync(ctx, req); err != nil {
		return Plan{}, errors.E(op, errors.Branch(inv.Branch), errors.Repo(inv.Settings.GitRepoURL), err)
	}
	pr.OptPrintf(printer.NewOpt().WithBranch(inv.Branch), "synchronized to %s\n", plan.Target)
	return plan, nil
}

// withGitRepoURL returns inv with the git repository URL discovered from
// the workspace remote when the settings do not name one.
func (p *Publisher) withGitRepoURL(ctx context.Context, inv buildctx.Invocation) (buildctx.Invocation, error) {
	if inv.Settings.GitRepoURL != "" {
		return inv, nil
	}
	newFinder := p.NewRemoteFinder
	if newFinder == nil {
		newFinder = func(dir string) (RemoteFinder, error) {
			r, err := gitutil.NewLocalGitRunner(dir)
			if err != nil {
				return nil, err
			}
			return r, nil
		}
	}
	f, err := newFinder(inv.Workspace)
	if err != nil {
		return inv, err
	}
	u, err := f.RemoteURL(ctx, gitutil.DefaultRemote)
	if err != nil {
		return inv, err
	}
	klog.V(2).Infof("invocation %s: using git remote %s", inv.ID, u)
	return inv.WithGitRepoURL(u), nil
}

// NewRequest builds the ISPW CLI request for a resolved invocation.
func NewRequest(inv buildctx.Invocation, plan Plan) (ispwcli.Request, error) {
	const op errors.Op = "publish.NewRequest"

	extra, err := ispwcli.ParseExtraArgs(inv.Settings.ExtraArgs)
	if err != nil {
		return ispwcli.Request{}, errors.E(op, err)
	}
	conn, found := inv.Settings.Connection()
	if !found {
		return ispwcli.Request{}, errors.E(op, errors.Config,
			fmt.Errorf("no connection with id %q is configured", inv.Settings.ConnectionID))
	}

	return ispwcli.Request{
		Host: ispwcli.Host{
			Host:     conn.Host,
			Port:     conn.Port,
			User:     inv.Host.User,
			Password: inv.Host.Password,
			Protocol: conn.Protocol,
			CodePage: conn.CodePage,
			Timeout:  conn.Timeout,
		},
		RuntimeConfig: inv.Settings.RuntimeConfig,
		Target:        plan.Target,
		Range:         plan.Range,
		Git: ispwcli.Git{
			RepoURL:  inv.Settings.GitRepoURL,
			User:     inv.Git.User,
			Password: inv.Git.Password,
			Branch:   inv.Branch,
		},
		TargetFolder: inv.TargetFolder(),
		ExtraArgs:    extra,
	}, nil
}
