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

// Package cmdmapping contains the mapping command
package cmdmapping

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/kptdev/git2ispw/internal/errors"
	"github.com/kptdev/git2ispw/internal/util/cfgflags"
	"github.com/kptdev/git2ispw/internal/util/cmdutil"
	"github.com/kptdev/git2ispw/pkg/branchmap"
	"github.com/kptdev/git2ispw/pkg/printer"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	Table = "table"
	YAML  = "yaml"
)

// NewRunner returns a command runner.
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{ctx: ctx}
	c := &cobra.Command{
		Use:     "mapping [flags]",
		Short:   MappingShort,
		Long:    MappingShort + "\n" + MappingLong,
		Example: MappingExamples,
		Args:    cobra.NoArgs,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}

	r.settings.AddFlags(c.Flags())
	c.Flags().StringVarP(&r.Output, "output", "o", Table,
		fmt.Sprintf("output format, one of %s or %s.", Table, YAML))
	cmdutil.FixDocs("git2ispw", parent, c)
	r.Command = c
	return r
}

func NewCommand(ctx context.Context, parent string) *cobra.Command {
	return NewRunner(ctx, parent).Command
}

type Runner struct {
	Command *cobra.Command
	Output  string

	ctx      context.Context
	settings cfgflags.SettingsFlags
	table    *branchmap.Table
}

func (r *Runner) preRunE(c *cobra.Command, _ []string) error {
	const op errors.Op = "cmdmapping.preRunE"
	if r.Output != Table && r.Output != YAML {
		return errors.E(op, errors.InvalidParam,
			fmt.Errorf("unknown output format %q, must be one of %s or %s", r.Output, Table, YAML))
	}
	s, err := r.settings.Settings(c.Flags())
	if err != nil {
		return cmdutil.WithStack(err)
	}
	r.table, err = branchmap.Parse(s.BranchMapping, s.MappingDefaults())
	if err != nil {
		return cmdutil.WithStack(errors.E(op, errors.Config, err))
	}
	return nil
}

func (r *Runner) runE(_ *cobra.Command, _ []string) error {
	pr := printer.FromContextOrDie(r.ctx)
	if r.Output == YAML {
		return cmdutil.WithStack(WriteYAML(pr, r.table))
	}
	WriteTable(pr, r.table)
	return nil
}

// Rule is the exported form of a mapping entry.
type Rule struct {
	Position   int    `yaml:"position"`
	Pattern    string `yaml:"pattern"`
	Stream     string `yaml:"stream"`
	App        string `yaml:"app"`
	SubAppl    string `yaml:"subAppl,omitempty"`
	ConfigPath string `yaml:"configPath,omitempty"`
}

// Rules returns the entries of t in evaluation order.
func Rules(t *branchmap.Table) []Rule {
	var rules []Rule
	for _, e := range t.Entries() {
		rules = append(rules, Rule{
			Position:   e.Position,
			Pattern:    e.Pattern.String(),
			Stream:     e.RefMap.Stream(),
			App:        e.RefMap.App(),
			SubAppl:    e.RefMap.SubAppl(),
			ConfigPath: e.RefMap.ConfigPath(),
		})
	}
	return rules
}

// WriteTable prints t as a table to the out stream.
func WriteTable(pr printer.Printer, t *branchmap.Table) {
	w := table.NewWriter()
	w.SetOutputMirror(pr.OutStream())
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"#", "PATTERN", "STREAM", "APP", "SUBAPPL", "CONFIG PATH"})
	for _, rule := range Rules(t) {
		pos := strconv.Itoa(rule.Position)
		if rule.Position == 0 {
			pos = "default"
		}
		w.AppendRow(table.Row{pos, rule.Pattern, rule.Stream, rule.App, rule.SubAppl, rule.ConfigPath})
	}
	w.Render()
}

// WriteYAML prints t as a YAML list of rules to the out stream.
func WriteYAML(pr printer.Printer, t *branchmap.Table) error {
	const op errors.Op = "cmdmapping.WriteYAML"
	enc := yaml.NewEncoder(pr.OutStream())
	enc.SetIndent(2)
	if err := enc.Encode(Rules(t)); err != nil {
		return errors.E(op, errors.IO, err)
	}
	if err := enc.Close(); err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}

var MappingShort = `Validate the branch mapping and print its rules`
var MappingLong = `
Mapping parses the branch mapping the sync command would use and prints
its rules in evaluation order. A mapping that does not parse fails with the
position of the offending record.

When the mapping has no rules, the single catch-all rule built from
--stream and --app is printed as the default rule.
`
var MappingExamples = `
  # print the rules of a settings file
  $ git2ispw mapping --config ispw.yaml

  # export the rules as YAML
  $ git2ispw mapping --branch-mapping-file mapping.txt -o yaml
`
