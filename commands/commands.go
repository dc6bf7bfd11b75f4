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

// Package commands assembles the git2ispw commands.
package commands

import (
	"context"
	"strings"

	"github.com/kptdev/git2ispw/internal/cmdmapping"
	"github.com/kptdev/git2ispw/internal/cmdresolve"
	"github.com/kptdev/git2ispw/internal/cmdsync"
	"github.com/spf13/cobra"
)

// GetCommands returns the set of git2ispw commands to be registered
func GetCommands(ctx context.Context, name string) []*cobra.Command {
	c := []*cobra.Command{
		cmdsync.NewCommand(ctx, name),
		cmdresolve.NewCommand(ctx, name),
		cmdmapping.NewCommand(ctx, name),
	}

	// apply cross-cutting issues to commands
	NormalizeCommand(c...)
	return c
}

// NormalizeCommand will modify commands to be consistent, e.g. silencing
// errors, which are reported in main.
func NormalizeCommand(c ...*cobra.Command) {
	for i := range c {
		cmd := c[i]
		cmd.Short = strings.TrimSuffix(strings.TrimSpace(cmd.Short), ".")
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		NormalizeCommand(cmd.Commands()...)
	}
}
