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

// Package cmdresolve contains the resolve command
package cmdresolve

import (
	"context"
	"fmt"
	"os"

	"github.com/kptdev/git2ispw/internal/buildctx"
	"github.com/kptdev/git2ispw/internal/errors"
	"github.com/kptdev/git2ispw/internal/publish"
	"github.com/kptdev/git2ispw/internal/util/cfgflags"
	"github.com/kptdev/git2ispw/internal/util/cmdutil"
	"github.com/kptdev/git2ispw/pkg/branchmap"
	"github.com/kptdev/git2ispw/pkg/hashrange"
	"github.com/kptdev/git2ispw/pkg/printer"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"
)

// NewRunner returns a command runner.
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{ctx: ctx, Environ: os.Environ}
	c := &cobra.Command{
		Use:     "resolve [BRANCH] [flags]",
		Short:   ResolveShort,
		Long:    ResolveShort + "\n" + ResolveLong,
		Example: ResolveExamples,
		Args:    cobra.MaximumNArgs(1),
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}

	r.settings.AddFlags(c.Flags())
	r.env.AddFlags(c.Flags())
	c.Flags().BoolVar(&r.Explain, "explain", false,
		"print every rule of the branch mapping and whether it matches the branch.")
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
	Explain bool

	ctx      context.Context
	settings cfgflags.SettingsFlags
	env      cfgflags.EnvFlags

	Invocation buildctx.Invocation
}

func (r *Runner) preRunE(c *cobra.Command, args []string) error {
	s, err := r.settings.Settings(c.Flags())
	if err != nil {
		return cmdutil.WithStack(err)
	}
	env := r.env.Environment(c.Flags(), buildctx.NewEnvironment(r.Environ()))
	if len(args) > 0 {
		env = env.With(map[string]string{buildctx.VarRefID: args[0]})
	}
	r.Invocation = buildctx.New(s, env)
	return nil
}

func (r *Runner) runE(_ *cobra.Command, _ []string) error {
	if r.Explain {
		return cmdutil.WithStack(r.explain())
	}
	plan, err := publish.Resolve(r.Invocation)
	if err != nil {
		return cmdutil.WithStack(err)
	}
	pr := printer.FromContextOrDie(r.ctx)
	opt := printer.NewOpt().Stdout()
	pr.OptPrintf(opt, "branch:    %s\n", branchmap.NormalizeBranch(plan.Branch))
	pr.OptPrintf(opt, "target:    %s\n", plan.Target)
	pr.OptPrintf(opt, "from hash: %s\n", describeFrom(plan.Range.From))
	pr.OptPrintf(opt, "to hash:   %s\n", plan.Range.To)
	return nil
}

func describeFrom(f hashrange.From) string {
	v, ok := f.Encode()
	if f.IsNoPriorCommit() {
		return fmt.Sprintf("%s (%s)", f, v)
	}
	if !ok {
		return f.String()
	}
	return v
}

func (r *Runner) explain() error {
	const op errors.Op = "cmdresolve.explain"
	s := r.Invocation.Settings
	table, err := branchmap.Parse(s.BranchMapping, s.MappingDefaults())
	if err != nil {
		return errors.E(op, errors.Config, err)
	}
	evals, err := branchmap.NewMatcher(table).Explain(r.Invocation.Branch)
	if evals != nil {
		pr := printer.FromContextOrDie(r.ctx)
		pr.OptPrintf(printer.NewOpt().Stdout(), "%s",
			Tree(branchmap.NormalizeBranch(r.Invocation.Branch), evals))
	}
	if err != nil {
		return errors.E(op, errors.Branch(r.Invocation.Branch), errors.Resolve, err)
	}
	return nil
}

// Tree renders the evaluations of a branch as a tree rooted at the branch.
func Tree(branch string, evals []branchmap.Evaluation) string {
	tree := treeprint.New()
	tree.SetValue(branch)
	for _, ev := range evals {
		tree.AddMetaNode(meta(ev), branchmap.FormatRecord(ev.Entry.Pattern.String(), ev.Entry.RefMap))
	}
	return tree.String()
}

func meta(ev branchmap.Evaluation) string {
	source := "default"
	if ev.Entry.Position > 0 {
		source = fmt.Sprintf("record %d", ev.Entry.Position)
	}
	switch {
	case ev.Selected:
		return source + ", selected"
	case ev.Matched:
		return source + ", matches"
	default:
		return source + ", no match"
	}
}

var ResolveShort = `Resolve a branch to its ISPW target`
var ResolveLong = `
Resolve runs the branch mapping and the commit range normalization of the
sync command for BRANCH, without running the ISPW CLI. BRANCH defaults to
the refId environment variable.

With --explain every rule of the branch mapping is listed in evaluation
order with whether it matches. The first matching rule is marked selected.
`
var ResolveExamples = `
  # show where a feature branch goes
  $ git2ispw resolve feature/login --branch-mapping-file mapping.txt

  # show every rule evaluated for main
  $ git2ispw resolve refs/heads/main --config ispw.yaml --explain
`
